package unitofwork

import (
	"context"

	"ta-chatbot-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	DocumentChunkRepository() contract.DocumentChunkRepository
	ChatMessageRepository() contract.ChatMessageRepository
}
