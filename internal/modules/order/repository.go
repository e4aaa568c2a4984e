package order

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no order matches the requested id.
var ErrNotFound = errors.New("order not found")

// ErrQueueEmpty is returned when the work queue holds no orders.
var ErrQueueEmpty = errors.New("work queue is empty")

// Repository is the order registry plus the FIFO queue of work not yet
// completed. Orders are never deleted, only re-statused; Clear exists solely
// for the configuration reset flow.
type Repository interface {
	// Create assigns the next sequential order id, registers the order,
	// and enqueues it.
	Create(ctx context.Context, o *Order) error

	// Get retrieves an order by id.
	Get(ctx context.Context, id int64) (*Order, error)

	// List returns all orders sorted by id.
	List(ctx context.Context) ([]*Order, error)

	// ListByUser returns the user's orders sorted by id.
	ListByUser(ctx context.Context, username string) ([]*Order, error)

	// UpdateStatus assigns the status. Completing an order removes it from
	// the queue.
	UpdateStatus(ctx context.Context, id int64, status Status) error

	// UpdatePriority assigns the priority.
	UpdatePriority(ctx context.Context, id int64, priority Priority) error

	// NextInQueue returns the oldest not-yet-completed order without
	// removing it.
	NextInQueue(ctx context.Context) (*Order, error)

	// Queue returns the pending work in FIFO order.
	Queue(ctx context.Context) ([]*Order, error)

	// Clear empties the registry and the queue.
	Clear(ctx context.Context) error
}
