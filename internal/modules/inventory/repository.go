package inventory

import (
	"context"
	"errors"

	"github.com/printmill/printmill-backend/internal/modules/catalog"
)

// ErrInsufficientStock is returned when a consume would drive stock negative.
// The ledger is left untouched.
var ErrInsufficientStock = errors.New("insufficient stock")

// Repository is the gram ledger: how much of each material is on the shelf.
type Repository interface {
	// GetStock returns the recorded grams for the material. A material that
	// has never been stocked reports the ledger's default stock level, not
	// zero (historical policy; see NewFileRepository).
	GetStock(ctx context.Context, key catalog.Key) (int, error)

	// HasSufficient reports whether at least grams of the material remain.
	HasSufficient(ctx context.Context, key catalog.Key, grams int) (bool, error)

	// Consume checks sufficiency and decrements in one step. On
	// insufficient stock it returns ErrInsufficientStock without mutating.
	Consume(ctx context.Context, key catalog.Key, grams int) error

	// Replenish adds grams to the material's stock.
	Replenish(ctx context.Context, key catalog.Key, grams int) error

	// SetStock records an absolute stock level. Negative grams are rejected
	// as a no-op.
	SetStock(ctx context.Context, key catalog.Key, grams int) error

	// Snapshot returns the recorded stock levels. Materials running on the
	// default are not listed until first touched.
	Snapshot(ctx context.Context) (map[catalog.Key]int, error)
}
