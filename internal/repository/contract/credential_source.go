package contract

import (
	"context"

	"ta-chatbot-be/internal/entity"
)

// CredentialSource produces the username -> credential mapping the auth gate
// consumes. Implementations normalize their backend's field naming into
// entity.Credential and must return an empty map (not an error) when the
// backend is unreachable, so login degrades to universal rejection instead of
// crashing the process.
type CredentialSource interface {
	FetchUsers(ctx context.Context) map[string]*entity.Credential
}
