package file

import (
	"context"
	"fmt"
	"os"

	"ta-chatbot-be/internal/entity"
	"ta-chatbot-be/internal/pkg/logger"
	"ta-chatbot-be/internal/repository/contract"

	"gopkg.in/yaml.v3"
)

// rosterFile is the on-disk shape of the flat-file credential backend.
type rosterFile struct {
	Users []rosterUser `yaml:"users"`
}

type rosterUser struct {
	Username      string `yaml:"username"`
	StudentNumber int    `yaml:"student_number"`
	FirstName     string `yaml:"first_name"`
	LastName      string `yaml:"last_name"`
	Role          string `yaml:"role"`
}

// CredentialFileSource reads credentials from a YAML roster file. It is the
// zero-infrastructure alternative to the Postgres backend, intended for small
// courses and local development.
type CredentialFileSource struct {
	path        string
	emailDomain string
	logger      logger.ILogger
}

func NewCredentialFileSource(path, emailDomain string, log logger.ILogger) contract.CredentialSource {
	return &CredentialFileSource{
		path:        path,
		emailDomain: emailDomain,
		logger:      log,
	}
}

func (s *CredentialFileSource) FetchUsers(_ context.Context) map[string]*entity.Credential {
	data, err := os.ReadFile(s.path)
	if err != nil {
		s.logger.Warn("credentials", "failed to read roster file, returning empty mapping", map[string]interface{}{
			"path":  s.path,
			"error": err.Error(),
		})
		return map[string]*entity.Credential{}
	}

	var roster rosterFile
	if err := yaml.Unmarshal(data, &roster); err != nil {
		s.logger.Warn("credentials", "failed to parse roster file, returning empty mapping", map[string]interface{}{
			"path":  s.path,
			"error": err.Error(),
		})
		return map[string]*entity.Credential{}
	}

	credentials := make(map[string]*entity.Credential, len(roster.Users))
	for _, u := range roster.Users {
		role := entity.UserRole(u.Role)
		if role == "" {
			role = entity.UserRoleViewer
		}
		credentials[u.Username] = &entity.Credential{
			Username:            u.Username,
			Name:                u.FirstName + " " + u.LastName,
			Email:               fmt.Sprintf("%s@%s", u.Username, s.emailDomain),
			Secret:              fmt.Sprintf("%d", u.StudentNumber),
			Role:                role,
			FailedLoginAttempts: 0,
			LoggedIn:            false,
		}
	}
	return credentials
}
