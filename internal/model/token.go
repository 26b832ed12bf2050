package model

import (
	"time"

	"github.com/google/uuid"
)

// TokenManager mints and verifies signed session tokens.
type TokenManager interface {
	Issue(userID uuid.UUID, email string) (token string, claim SessionClaim, err error)
	Verify(token string) (SessionClaim, error)
}

// SessionClaim is the identity assertion carried by a session token.
type SessionClaim struct {
	UserID    uuid.UUID
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Session is returned to a caller after a successful login.
type Session struct {
	Token       string
	ExpiresInMs int64
	User        User
}
