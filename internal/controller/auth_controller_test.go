package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"ta-chatbot-be/internal/config"
	"ta-chatbot-be/internal/dto"
	"ta-chatbot-be/internal/entity"
	"ta-chatbot-be/pkg/store"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

// fakeAuthService drives the controller without the real gate.
type fakeAuthService struct {
	loginRes  *dto.LoginResponse
	loggedOut []string
}

func (s *fakeAuthService) Login(context.Context, *dto.LoginRequest) (*dto.LoginResponse, error) {
	return s.loginRes, nil
}

func (s *fakeAuthService) Logout(sessionID string) {
	s.loggedOut = append(s.loggedOut, sessionID)
}

func (s *fakeAuthService) SessionStatus(string) *dto.SessionStatusResponse {
	return &dto.SessionStatusResponse{Status: entity.AuthUnattempted.String()}
}

func (s *fakeAuthService) Session(string) (*store.Session, bool) {
	return nil, false
}

func newAuthTestApp(svc *fakeAuthService) *fiber.App {
	app := fiber.New()
	api := app.Group("/api")
	NewAuthController(svc, config.AuthConfig{
		CookieName: "ta_session",
		SigningKey: "test-key",
		ExpiryDays: 30,
	}).RegisterRoutes(api)
	return app
}

func TestLoginEndpointSetsCookie(t *testing.T) {
	svc := &fakeAuthService{loginRes: &dto.LoginResponse{
		Status:    entity.AuthAuthenticated.String(),
		SessionId: "abc",
		Token:     "signed-token",
		Name:      "Jordan Doe",
		Role:      "viewer",
	}}
	app := newAuthTestApp(svc)

	body, _ := json.Marshal(dto.LoginRequest{Username: "doej", Password: "pw"})
	req := httptest.NewRequest("POST", "/api/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var foundCookie bool
	for _, c := range resp.Cookies() {
		if c.Name == "ta_session" && c.Value == "signed-token" {
			foundCookie = true
			assert.True(t, c.HttpOnly)
		}
	}
	assert.True(t, foundCookie, "session cookie not set")

	var envelope struct {
		Success bool              `json:"success"`
		Data    dto.LoginResponse `json:"data"`
	}
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.True(t, envelope.Success)
	assert.Equal(t, "authenticated", envelope.Data.Status)
}

func TestLoginEndpointRejection(t *testing.T) {
	svc := &fakeAuthService{loginRes: &dto.LoginResponse{
		Status: entity.AuthRejected.String(),
	}}
	app := newAuthTestApp(svc)

	body, _ := json.Marshal(dto.LoginRequest{Username: "doej", Password: "wrong"})
	req := httptest.NewRequest("POST", "/api/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
	assert.Empty(t, resp.Cookies(), "rejection must not set a session cookie")

	var envelope struct {
		Success bool              `json:"success"`
		Data    dto.LoginResponse `json:"data"`
	}
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.False(t, envelope.Success)
	assert.Equal(t, "rejected", envelope.Data.Status)
}

func TestSessionStatusWithoutToken(t *testing.T) {
	app := newAuthTestApp(&fakeAuthService{})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/auth/session", nil))
	assert.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var envelope struct {
		Data dto.SessionStatusResponse `json:"data"`
	}
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.Equal(t, "unattempted", envelope.Data.Status)
}
