package user

import (
	"context"
	"strings"
)

// ValidationError carries the full list of policy violations for a request,
// so callers can display every problem at once instead of one per attempt.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Problems, "; ")
}

// Service defines the interface for account business logic.
type Service interface {
	// Register validates the request (collecting all violations into a
	// ValidationError), hashes the password, and stores the account.
	Register(ctx context.Context, req RegisterRequest) (*Account, error)

	// Get retrieves an account by username.
	Get(ctx context.Context, username string) (*Account, error)

	// List returns all registered accounts.
	List(ctx context.Context) ([]*Account, error)

	// Remove drops the account from the registry.
	Remove(ctx context.Context, username string) error

	// VerifyPassword reports whether the plaintext matches the account's
	// stored hash. Accounts with no usable password always fail.
	VerifyPassword(ctx context.Context, username, password string) bool

	// ChangePassword verifies the old password, applies the strength
	// policy to the new one, and stores the new hash.
	ChangePassword(ctx context.Context, username string, req ChangePasswordRequest) error

	// IssueResetToken returns a signed, time-limited token that authorizes
	// a password reset for the account.
	IssueResetToken(ctx context.Context, username string) (string, error)

	// ResetPassword verifies a reset token and replaces the password.
	ResetPassword(ctx context.Context, req ResetPasswordRequest) error
}
