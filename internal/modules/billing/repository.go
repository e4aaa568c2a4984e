package billing

import (
	"context"
	"errors"
	"sort"
	"sync"
)

// ErrNotFound is returned when no invoice matches the requested id or number.
var ErrNotFound = errors.New("invoice not found")

// Repository defines data access for invoices.
type Repository interface {
	// Create assigns the next sequential invoice id and stores the
	// invoice.
	Create(ctx context.Context, inv *Invoice) error

	// Get retrieves an invoice by id.
	Get(ctx context.Context, id int64) (*Invoice, error)

	// GetByNumber retrieves an invoice by its human-readable number.
	GetByNumber(ctx context.Context, number string) (*Invoice, error)

	// ListByOrder returns every invoice issued against the order.
	ListByOrder(ctx context.Context, orderID int64) ([]*Invoice, error)
}

// memoryRepository keeps invoices in memory. Invoices are derived documents;
// the orders file remains the persisted system of record.
type memoryRepository struct {
	mu       sync.Mutex
	invoices map[int64]*Invoice
	nextID   int64
}

// NewMemoryRepository creates an in-memory invoice registry.
func NewMemoryRepository() Repository {
	return &memoryRepository{invoices: make(map[int64]*Invoice), nextID: 1}
}

func (r *memoryRepository) Create(ctx context.Context, inv *Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv.ID = r.nextID
	r.nextID++
	copied := *inv
	r.invoices[inv.ID] = &copied
	return nil
}

func (r *memoryRepository) Get(ctx context.Context, id int64) (*Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.invoices[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *inv
	return &copied, nil
}

func (r *memoryRepository) GetByNumber(ctx context.Context, number string) (*Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, inv := range r.invoices {
		if inv.Number == number {
			copied := *inv
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memoryRepository) ListByOrder(ctx context.Context, orderID int64) ([]*Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Invoice
	for _, inv := range r.invoices {
		if inv.OrderID == orderID {
			copied := *inv
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
