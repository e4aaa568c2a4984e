package catalog

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no material matches the requested identity.
var ErrNotFound = errors.New("material not found")

// Repository defines data access for the material catalog.
type Repository interface {
	// Add stores a new material. Adding an existing identity key replaces
	// the entry.
	Add(ctx context.Context, m Material) error

	// Get retrieves a material by its identity key.
	Get(ctx context.Context, key Key) (Material, error)

	// GetByDisplayName retrieves a material by its rendered display name.
	// Order and inventory files reference materials this way.
	GetByDisplayName(ctx context.Context, name string) (Material, error)

	// List returns all materials in the catalog.
	List(ctx context.Context) ([]Material, error)

	// Remove deletes a material from the catalog.
	Remove(ctx context.Context, key Key) error
}
