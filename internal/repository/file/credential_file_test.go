package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"ta-chatbot-be/internal/entity"
)

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

func TestFetchUsersFromYaml(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "roster.yaml")
	roster := `users:
  - username: doej
    student_number: 400123456
    first_name: Jordan
    last_name: Doe
  - username: ta1
    student_number: 1
    first_name: Tee
    last_name: Ay
    role: admin
`
	if err := os.WriteFile(path, []byte(roster), 0644); err != nil {
		t.Fatal(err)
	}

	source := NewCredentialFileSource(path, "mcmaster.ca", nopLogger{})
	creds := source.FetchUsers(context.Background())

	if len(creds) != 2 {
		t.Fatalf("got %d credentials, want 2", len(creds))
	}

	doej := creds["doej"]
	if doej == nil {
		t.Fatal("doej missing")
	}
	if doej.Secret != "400123456" {
		t.Errorf("secret = %q, want the student number", doej.Secret)
	}
	if doej.Email != "doej@mcmaster.ca" {
		t.Errorf("email = %q", doej.Email)
	}
	if doej.Role != entity.UserRoleViewer {
		t.Errorf("default role = %q, want viewer", doej.Role)
	}
	if doej.FailedLoginAttempts != 0 || doej.LoggedIn {
		t.Error("session-local fields must start zeroed")
	}

	if creds["ta1"].Role != entity.UserRoleAdmin {
		t.Errorf("ta1 role = %q, want admin", creds["ta1"].Role)
	}
}

// A missing or malformed roster degrades to an empty mapping so the gate
// rejects everyone instead of crashing.
func TestFetchUsersDegradesToEmpty(t *testing.T) {
	source := NewCredentialFileSource("/nonexistent/roster.yaml", "mcmaster.ca", nopLogger{})
	if creds := source.FetchUsers(context.Background()); len(creds) != 0 {
		t.Errorf("missing file produced %d credentials", len(creds))
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "roster.yaml")
	if err := os.WriteFile(path, []byte("users: {not: [valid"), 0644); err != nil {
		t.Fatal(err)
	}
	source = NewCredentialFileSource(path, "mcmaster.ca", nopLogger{})
	if creds := source.FetchUsers(context.Background()); len(creds) != 0 {
		t.Errorf("malformed file produced %d credentials", len(creds))
	}
}
