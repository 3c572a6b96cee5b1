package entity

import (
	"time"
)

type UserRole string

const (
	UserRoleViewer UserRole = "viewer"
	UserRoleAdmin  UserRole = "admin"
)

// User is a roster row as stored in the credential backend.
type User struct {
	Username      string
	StudentNumber int
	FirstName     string
	LastName      string
	Role          UserRole
	CreatedAt     time.Time
	UpdatedAt     *time.Time
}

// Credential is the normalized shape the auth gate consumes, regardless of
// which backend produced it. FailedLoginAttempts and LoggedIn are session-local
// and always start zeroed.
type Credential struct {
	Username            string
	Name                string
	Email               string
	Secret              string
	Role                UserRole
	FailedLoginAttempts int
	LoggedIn            bool
}

func (u *User) DisplayName() string {
	return u.FirstName + " " + u.LastName
}
