package entity

import (
	"time"

	"github.com/google/uuid"
)

// DocumentChunk is one embedded slice of a course document. FileName and
// ChunkIndex locate the chunk inside the source file; the filename set across
// all stored chunks doubles as the index-freshness snapshot.
type DocumentChunk struct {
	Id         uuid.UUID
	FileName   string
	ChunkIndex int
	Content    string
	Embedding  []float32
	Metadata   map[string]interface{}
	CreatedAt  time.Time
}
