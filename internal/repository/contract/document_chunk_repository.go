package contract

import (
	"context"

	"ta-chatbot-be/internal/entity"
	"ta-chatbot-be/internal/repository/specification"
)

// ScoredDocumentChunk pairs a chunk with its cosine similarity to a query.
type ScoredDocumentChunk struct {
	Chunk      *entity.DocumentChunk
	Similarity float64
}

type DocumentChunkRepository interface {
	CreateBulk(ctx context.Context, chunks []*entity.DocumentChunk) error
	DeleteAll(ctx context.Context) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DocumentChunk, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// DistinctFileNames returns the set of file_name values recorded against
	// stored chunks. This is the document-set snapshot the freshness check
	// compares against the live directory listing.
	DistinctFileNames(ctx context.Context) ([]string, error)

	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int) ([]*ScoredDocumentChunk, error)
}
