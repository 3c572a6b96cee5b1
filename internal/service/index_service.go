package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"ta-chatbot-be/internal/dto"
	"ta-chatbot-be/internal/entity"
	"ta-chatbot-be/internal/pkg/logger"
	"ta-chatbot-be/internal/repository/unitofwork"
	"ta-chatbot-be/pkg/embedding"
	"ta-chatbot-be/pkg/reader"
	"ta-chatbot-be/pkg/utils"

	"github.com/google/uuid"
)

type IIndexService interface {
	// EnsureIndex guarantees a queryable index before retrieval. At most one
	// build runs per process lifetime unless the index is marked stale.
	EnsureIndex(ctx context.Context) error

	// IsUnchanged compares the stored filename set against the live docs
	// directory. Equal sets mean fresh, even if file contents changed.
	IsUnchanged(ctx context.Context) (bool, error)

	// MarkStale forces the next EnsureIndex to re-run the freshness check.
	MarkStale()

	Status(ctx context.Context) (*dto.IndexStatusResponse, error)
	Rebuild(ctx context.Context) error
}

type indexService struct {
	uowFactory unitofwork.RepositoryFactory
	embedder   embedding.EmbeddingProvider
	settings   ISettingsService
	log        logger.ILogger

	mu      sync.Mutex
	ensured bool
}

func NewIndexService(
	uowFactory unitofwork.RepositoryFactory,
	embedder embedding.EmbeddingProvider,
	settings ISettingsService,
	log logger.ILogger,
) IIndexService {
	return &indexService{
		uowFactory: uowFactory,
		embedder:   embedder,
		settings:   settings,
		log:        log,
	}
}

func (s *indexService) EnsureIndex(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ensured {
		return nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	count, err := uow.DocumentChunkRepository().Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to inspect index: %w", err)
	}

	if count > 0 {
		unchanged, err := s.isUnchanged(ctx)
		if err != nil {
			return err
		}
		if unchanged {
			s.log.Info("IndexService", "index is fresh, reusing", map[string]interface{}{
				"chunk_count": count,
			})
			s.ensured = true
			return nil
		}
		s.log.Info("IndexService", "document set changed, rebuilding index", nil)
	} else {
		s.log.Info("IndexService", "no index found, building", nil)
	}

	if err := s.build(ctx); err != nil {
		return err
	}
	s.ensured = true
	return nil
}

func (s *indexService) IsUnchanged(ctx context.Context) (bool, error) {
	return s.isUnchanged(ctx)
}

func (s *indexService) MarkStale() {
	s.mu.Lock()
	s.ensured = false
	s.mu.Unlock()
}

// Rebuild drops and rebuilds the index unconditionally, bypassing the
// freshness check. Used by the admin surface after bulk document changes.
func (s *indexService) Rebuild(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.build(ctx); err != nil {
		return err
	}
	s.ensured = true
	return nil
}

func (s *indexService) Status(ctx context.Context) (*dto.IndexStatusResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	count, err := uow.DocumentChunkRepository().Count(ctx)
	if err != nil {
		return nil, err
	}
	files, err := uow.DocumentChunkRepository().DistinctFileNames(ctx)
	if err != nil {
		return nil, err
	}
	fresh, err := s.isUnchanged(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.IndexStatusResponse{
		ChunkCount: count,
		Files:      files,
		Fresh:      fresh,
	}, nil
}

// isUnchanged is a set comparison over filenames only. An edit that keeps a
// file's name does not register; rename or re-upload to force a rebuild.
func (s *indexService) isUnchanged(ctx context.Context) (bool, error) {
	docsPath := s.settings.Assistant().DocsPath

	files, err := reader.ListFiles(docsPath)
	if err != nil {
		return false, fmt.Errorf("failed to list documents in %s: %w", docsPath, err)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	indexed, err := uow.DocumentChunkRepository().DistinctFileNames(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to read indexed filenames: %w", err)
	}

	onDisk := reader.FileNameSet(files)
	if len(onDisk) != len(indexed) {
		return false, nil
	}
	for _, name := range indexed {
		if _, ok := onDisk[name]; !ok {
			return false, nil
		}
	}
	return true, nil
}

// build reads every document, splits it, embeds each chunk, and swaps the
// stored chunks atomically. Persisted chunks only ever reflect a complete
// pass over the directory.
func (s *indexService) build(ctx context.Context) error {
	assistant := s.settings.Assistant()

	files, err := reader.ListFiles(assistant.DocsPath)
	if err != nil {
		return fmt.Errorf("failed to list documents in %s: %w", assistant.DocsPath, err)
	}

	started := time.Now()
	var chunks []*entity.DocumentChunk
	for _, file := range files {
		text, err := reader.ReadText(file.Path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", file.Name, err)
		}
		pieces := utils.SplitText(text, assistant.ChunkSize, assistant.ChunkOverlap)
		for i, piece := range pieces {
			resp, err := s.embedder.Generate(piece, embedding.TaskRetrievalDocument)
			if err != nil {
				return fmt.Errorf("failed to embed chunk %d of %s: %w", i, file.Name, err)
			}
			chunks = append(chunks, &entity.DocumentChunk{
				Id:         uuid.New(),
				FileName:   file.Name,
				ChunkIndex: i,
				Content:    piece,
				Embedding:  resp.Embedding.Values,
				Metadata: map[string]interface{}{
					"file_name":   file.Name,
					"chunk_index": i,
				},
			})
		}
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin index transaction: %w", err)
	}
	if err := uow.DocumentChunkRepository().DeleteAll(ctx); err != nil {
		uow.Rollback()
		return fmt.Errorf("failed to clear old index: %w", err)
	}
	if len(chunks) > 0 {
		if err := uow.DocumentChunkRepository().CreateBulk(ctx, chunks); err != nil {
			uow.Rollback()
			return fmt.Errorf("failed to store index chunks: %w", err)
		}
	}
	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit index: %w", err)
	}

	s.log.Info("IndexService", "index built", map[string]interface{}{
		"file_count":  len(files),
		"chunk_count": len(chunks),
		"elapsed":     time.Since(started).String(),
	})
	return nil
}
