package entity

import (
	"time"

	"github.com/google/uuid"
)

// AuthStatus is the ternary outcome of the login gate. The zero value is
// AuthUnattempted so a fresh session starts in the right state without
// special-casing.
type AuthStatus int

const (
	AuthUnattempted AuthStatus = iota
	AuthAuthenticated
	AuthRejected
)

func (s AuthStatus) String() string {
	switch s {
	case AuthAuthenticated:
		return "authenticated"
	case AuthRejected:
		return "rejected"
	default:
		return "unattempted"
	}
}

// ChatMessage is a persisted transcript turn, kept for audit; the live
// answering loop reads only the in-memory transcript.
type ChatMessage struct {
	Id            uuid.UUID
	ChatSessionId uuid.UUID
	Role          string
	Chat          string
	CitedFile     *string
	CreatedAt     time.Time
}
