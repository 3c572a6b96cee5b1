package store

import (
	"sync"

	"ta-chatbot-be/internal/entity"
)

// Turn is one entry in a session transcript.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Session is the active per-user session state held in memory. It owns the
// auth status, the ordered transcript, and the single-in-flight turn guard.
// It is never persisted; process restart discards it.
type Session struct {
	ID       string `json:"id"`
	Username string `json:"username"`

	Status         entity.AuthStatus `json:"status"`
	FailedAttempts int               `json:"failed_attempts"`

	// Append-only within a session; insertion order is display order and the
	// order turns are sent as conversational context.
	Transcript []Turn `json:"transcript"`

	// One pending request per session. Guards the turn state machine
	// (idle -> awaiting-response -> idle).
	mu sync.Mutex
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

func (s *Session) Append(role, content string) {
	s.Transcript = append(s.Transcript, Turn{Role: role, Content: content})
}

// Lock claims the session for one turn. TryLock keeps a second concurrent
// request from interleaving instead of queueing indefinitely.
func (s *Session) TryLock() bool {
	return s.mu.TryLock()
}

func (s *Session) Unlock() {
	s.mu.Unlock()
}

// Reset returns the session to the unattempted state and clears the
// transcript. Used by logout.
func (s *Session) Reset() {
	s.Status = entity.AuthUnattempted
	s.Username = ""
	s.FailedAttempts = 0
	s.Transcript = nil
}
