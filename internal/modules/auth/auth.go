package auth

import (
	"context"

	"github.com/printmill/printmill-backend/internal/modules/user"
)

// AuthResult reports the outcome of a login attempt. Token is set only on
// success.
type AuthResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Token   string `json:"token,omitempty"`
}

// Service defines the interface for session management.
type Service interface {
	// Login verifies the credentials and issues a session token. If the
	// user already holds the maximum number of concurrent sessions, the
	// oldest one is evicted first.
	Login(ctx context.Context, username, password string) AuthResult

	// ValidateSession resolves a token to its account. A token idle past
	// the timeout is removed and reported invalid; a valid presentation
	// slides the idle clock forward.
	ValidateSession(ctx context.Context, token string) (*user.Account, bool)

	// Logout removes one session.
	Logout(ctx context.Context, token string)

	// LogoutAll removes every session belonging to the user.
	LogoutAll(ctx context.Context, username string)

	// ActiveSessions returns how many sessions the user currently holds.
	ActiveSessions(ctx context.Context, username string) int
}
