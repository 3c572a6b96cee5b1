package contract

import (
	"context"

	"ta-chatbot-be/internal/entity"
	"ta-chatbot-be/internal/repository/specification"
)

type UserRepository interface {
	Upsert(ctx context.Context, user *entity.User) error
	Delete(ctx context.Context, username string) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
