package service

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"
	"sync"
	"time"

	"ta-chatbot-be/internal/config"
	"ta-chatbot-be/internal/constant"
	"ta-chatbot-be/internal/dto"
	"ta-chatbot-be/internal/entity"
	"ta-chatbot-be/internal/pkg/logger"
	"ta-chatbot-be/internal/repository/contract"
	"ta-chatbot-be/internal/repository/memory"
	"ta-chatbot-be/pkg/events"
	"ta-chatbot-be/pkg/store"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// EventPublisher mirrors events onto an external bus. Best effort: a publish
// failure is logged, never surfaced to the caller.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type IAuthService interface {
	Login(ctx context.Context, request *dto.LoginRequest) (*dto.LoginResponse, error)
	Logout(sessionID string)
	SessionStatus(sessionID string) *dto.SessionStatusResponse
	Session(sessionID string) (*store.Session, bool)
}

type authService struct {
	credentialSource contract.CredentialSource
	sessionRepo      *memory.SessionRepository
	publisher        EventPublisher
	log              logger.ILogger

	authCfg    config.AuthConfig
	courseName string

	// Credentials are fetched once per process, on first login attempt.
	// A backend edit (roster import) is picked up on the next restart.
	credOnce    sync.Once
	credentials map[string]*entity.Credential
	credMu      sync.Mutex
}

func NewAuthService(
	credentialSource contract.CredentialSource,
	sessionRepo *memory.SessionRepository,
	publisher EventPublisher,
	log logger.ILogger,
	authCfg config.AuthConfig,
	courseName string,
) IAuthService {
	return &authService{
		credentialSource: credentialSource,
		sessionRepo:      sessionRepo,
		publisher:        publisher,
		log:              log,
		authCfg:          authCfg,
		courseName:       courseName,
	}
}

func (s *authService) loadCredentials(ctx context.Context) map[string]*entity.Credential {
	s.credOnce.Do(func() {
		s.credentials = s.credentialSource.FetchUsers(ctx)
		s.log.Info("AuthService", "credential map loaded", map[string]interface{}{
			"user_count": len(s.credentials),
		})
	})
	return s.credentials
}

// Login runs the gate: unknown user or wrong secret rejects, a match opens an
// authenticated session seeded with the greeting turn. An empty credential map
// (unreachable backend) rejects everyone rather than failing the request.
func (s *authService) Login(ctx context.Context, request *dto.LoginRequest) (*dto.LoginResponse, error) {
	username := strings.ToLower(strings.TrimSpace(request.Username))
	credentials := s.loadCredentials(ctx)

	s.credMu.Lock()
	cred, ok := credentials[username]
	if !ok || !secretMatches(cred.Secret, request.Password) {
		if ok {
			cred.FailedLoginAttempts++
		}
		s.credMu.Unlock()
		s.log.Warn("AuthService", "login rejected", map[string]interface{}{
			"username": username,
		})
		return &dto.LoginResponse{Status: entity.AuthRejected.String()}, nil
	}
	cred.LoggedIn = true
	name := cred.Name
	role := cred.Role
	s.credMu.Unlock()

	session := &store.Session{
		ID:       uuid.NewString(),
		Username: username,
		Status:   entity.AuthAuthenticated,
	}
	session.Append(store.RoleAssistant, fmt.Sprintf(constant.GreetingTemplate, s.courseName))
	s.sessionRepo.Save(session)

	token, err := s.issueToken(username, session.ID, string(role))
	if err != nil {
		return nil, fmt.Errorf("failed to sign session token: %w", err)
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, events.BaseEvent{
			Type:       events.TypeUserLogin,
			Data:       map[string]interface{}{"username": username},
			OccurredAt: time.Now(),
		}); err != nil {
			s.log.Warn("AuthService", "failed to publish login event", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	s.log.Info("AuthService", "login accepted", map[string]interface{}{
		"username":   username,
		"session_id": session.ID,
	})

	return &dto.LoginResponse{
		Status:     entity.AuthAuthenticated.String(),
		SessionId:  session.ID,
		Token:      token,
		Name:       name,
		Role:       string(role),
		CourseName: s.courseName,
	}, nil
}

func (s *authService) Logout(sessionID string) {
	if session, found := s.sessionRepo.Get(sessionID); found {
		session.Reset()
		s.sessionRepo.Delete(sessionID)
		s.log.Info("AuthService", "session closed", map[string]interface{}{
			"session_id": sessionID,
		})
	}
}

// SessionStatus reports the gate state for a session id. A missing or expired
// session is indistinguishable from never having attempted a login.
func (s *authService) SessionStatus(sessionID string) *dto.SessionStatusResponse {
	session, found := s.sessionRepo.Get(sessionID)
	if !found {
		return &dto.SessionStatusResponse{Status: entity.AuthUnattempted.String()}
	}
	return &dto.SessionStatusResponse{
		Status:         session.Status.String(),
		Username:       session.Username,
		FailedAttempts: session.FailedAttempts,
	}
}

func (s *authService) Session(sessionID string) (*store.Session, bool) {
	return s.sessionRepo.Get(sessionID)
}

func (s *authService) issueToken(username, sessionID, role string) (string, error) {
	claims := jwt.MapClaims{
		"username":   username,
		"session_id": sessionID,
		"role":       role,
		"exp":        time.Now().Add(time.Duration(s.authCfg.ExpiryDays) * 24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.authCfg.SigningKey))
}

// secretMatches accepts either a bcrypt hash or a plain secret. The postgres
// backend derives plain secrets from student numbers; imported rosters may
// carry pre-hashed ones.
func secretMatches(stored, supplied string) bool {
	if strings.HasPrefix(stored, "$2a$") || strings.HasPrefix(stored, "$2b$") || strings.HasPrefix(stored, "$2y$") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(supplied)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(supplied)) == 1
}
