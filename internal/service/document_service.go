package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"ta-chatbot-be/internal/dto"
	"ta-chatbot-be/internal/pkg/logger"
	"ta-chatbot-be/pkg/events"
)

var (
	ErrDocumentExists   = errors.New("a document with that name already exists")
	ErrDocumentNotFound = errors.New("document not found")
	ErrInvalidFileName  = errors.New("invalid document name")
)

type IDocumentService interface {
	List() (*dto.ListDocumentsResponse, error)
	Upload(ctx context.Context, name string, content []byte) error
	Delete(ctx context.Context, name string) error
	UpdateSettings(request *dto.UpdateSettingsRequest) error
}

// DocumentChangePublisher announces document set changes on the in-process
// bus so the index is re-checked before the next question.
type DocumentChangePublisher interface {
	PublishDocumentChanged(eventType, fileName string) error
}

type documentService struct {
	settings  ISettingsService
	changes   DocumentChangePublisher
	publisher EventPublisher
	log       logger.ILogger
}

func NewDocumentService(
	settings ISettingsService,
	changes DocumentChangePublisher,
	publisher EventPublisher,
	log logger.ILogger,
) IDocumentService {
	return &documentService{
		settings:  settings,
		changes:   changes,
		publisher: publisher,
		log:       log,
	}
}

func (s *documentService) List() (*dto.ListDocumentsResponse, error) {
	docsPath := s.settings.Assistant().DocsPath
	entries, err := os.ReadDir(docsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents in %s: %w", docsPath, err)
	}

	docs := make([]dto.DocumentInfoDTO, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || entry.Name()[0] == '.' {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		docs = append(docs, dto.DocumentInfoDTO{Name: entry.Name(), Size: info.Size()})
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Name < docs[j].Name })

	return &dto.ListDocumentsResponse{Documents: docs}, nil
}

// Upload stores a new document. A name collision is an error and leaves the
// existing file untouched; delete first to replace.
func (s *documentService) Upload(ctx context.Context, name string, content []byte) error {
	name, err := sanitizeName(name)
	if err != nil {
		return err
	}

	target := filepath.Join(s.settings.Assistant().DocsPath, name)
	if _, err := os.Stat(target); err == nil {
		return ErrDocumentExists
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to check document %s: %w", name, err)
	}

	if err := os.WriteFile(target, content, 0644); err != nil {
		return fmt.Errorf("failed to write document %s: %w", name, err)
	}

	s.announce(ctx, events.TypeDocumentUploaded, name)
	s.log.Info("DocumentService", "document uploaded", map[string]interface{}{
		"file_name": name,
		"size":      len(content),
	})
	return nil
}

func (s *documentService) Delete(ctx context.Context, name string) error {
	name, err := sanitizeName(name)
	if err != nil {
		return err
	}

	target := filepath.Join(s.settings.Assistant().DocsPath, name)
	if _, err := os.Stat(target); os.IsNotExist(err) {
		return ErrDocumentNotFound
	} else if err != nil {
		return fmt.Errorf("failed to check document %s: %w", name, err)
	}

	if err := os.Remove(target); err != nil {
		return fmt.Errorf("failed to delete document %s: %w", name, err)
	}

	s.announce(ctx, events.TypeDocumentDeleted, name)
	s.log.Info("DocumentService", "document deleted", map[string]interface{}{
		"file_name": name,
	})
	return nil
}

func (s *documentService) UpdateSettings(request *dto.UpdateSettingsRequest) error {
	if request.Temperature != nil {
		if err := s.settings.UpdateTemperature(*request.Temperature); err != nil {
			return err
		}
	}
	if request.DocsPath != nil {
		if err := s.settings.UpdateDocsPath(*request.DocsPath); err != nil {
			return err
		}
		if s.changes != nil {
			if err := s.changes.PublishDocumentChanged("DOCS_PATH_CHANGED", *request.DocsPath); err != nil {
				s.log.Warn("DocumentService", "failed to announce docs path change", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}
	}
	return nil
}

func (s *documentService) announce(ctx context.Context, eventType, name string) {
	if s.changes != nil {
		if err := s.changes.PublishDocumentChanged(eventType, name); err != nil {
			s.log.Warn("DocumentService", "failed to announce document change", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, events.BaseEvent{
			Type:       eventType,
			Data:       map[string]interface{}{"file_name": name},
			OccurredAt: time.Now(),
		}); err != nil {
			s.log.Warn("DocumentService", "failed to publish document event", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
}

// sanitizeName rejects anything that could escape the docs directory.
func sanitizeName(name string) (string, error) {
	name = filepath.Base(name)
	if name == "" || name == "." || name == ".." || name == string(filepath.Separator) {
		return "", ErrInvalidFileName
	}
	return name, nil
}
