package implementation

import (
	"context"
	"fmt"
	"strconv"

	"ta-chatbot-be/internal/entity"
	"ta-chatbot-be/internal/pkg/logger"
	"ta-chatbot-be/internal/repository/contract"
)

// PostgresCredentialSource reads the users table and normalizes rows into the
// credential mapping. The roster stores the student number in place of a
// password and does not store an email, so the email is constructed from the
// username and the configured domain.
type PostgresCredentialSource struct {
	users       contract.UserRepository
	emailDomain string
	logger      logger.ILogger
}

func NewPostgresCredentialSource(users contract.UserRepository, emailDomain string, log logger.ILogger) contract.CredentialSource {
	return &PostgresCredentialSource{
		users:       users,
		emailDomain: emailDomain,
		logger:      log,
	}
}

func (s *PostgresCredentialSource) FetchUsers(ctx context.Context) map[string]*entity.Credential {
	rows, err := s.users.FindAll(ctx)
	if err != nil {
		// Degrade to "no one can log in" rather than crashing the process.
		s.logger.Warn("credentials", "failed to fetch users, returning empty mapping", map[string]interface{}{
			"error": err.Error(),
		})
		return map[string]*entity.Credential{}
	}

	credentials := make(map[string]*entity.Credential, len(rows))
	for _, u := range rows {
		credentials[u.Username] = &entity.Credential{
			Username:            u.Username,
			Name:                u.DisplayName(),
			Email:               fmt.Sprintf("%s@%s", u.Username, s.emailDomain),
			Secret:              strconv.Itoa(u.StudentNumber),
			Role:                u.Role,
			FailedLoginAttempts: 0,
			LoggedIn:            false,
		}
	}
	return credentials
}
