package user

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no account matches the requested username.
var ErrNotFound = errors.New("account not found")

// ErrExists is returned when registering a username that is already taken.
var ErrExists = errors.New("username already taken")

// Repository defines data access for accounts.
type Repository interface {
	// Create stores a new account. The username must be free.
	Create(ctx context.Context, a *Account) error

	// Get retrieves an account by username.
	Get(ctx context.Context, username string) (*Account, error)

	// List returns all accounts sorted by username.
	List(ctx context.Context) ([]*Account, error)

	// UpdatePasswordHash replaces the stored hash for the account.
	UpdatePasswordHash(ctx context.Context, username, hash string) error

	// Remove drops the account from the registry. Accounts are never
	// tombstoned; removal is the only delete.
	Remove(ctx context.Context, username string) error
}
