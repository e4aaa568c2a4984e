package billing

import (
	"context"
	"time"

	"github.com/printmill/printmill-backend/internal/modules/order"
)

// Service defines invoice business logic.
type Service interface {
	// Generate issues an invoice against an existing order, snapshotting
	// its price as of now.
	Generate(ctx context.Context, req GenerateRequest) (*Invoice, error)

	// Get retrieves an invoice by id; GetByNumber by its document number.
	Get(ctx context.Context, id int64) (*Invoice, error)
	GetByNumber(ctx context.Context, number string) (*Invoice, error)

	// ListByOrder returns every invoice issued against the order.
	ListByOrder(ctx context.Context, orderID int64) ([]*Invoice, error)
}

type service struct {
	repo   Repository
	orders order.Service
}

// NewService creates a new billing service.
func NewService(repo Repository, orders order.Service) Service {
	return &service{repo: repo, orders: orders}
}

func (s *service) Generate(ctx context.Context, req GenerateRequest) (*Invoice, error) {
	total, currency, err := s.orders.PriceOf(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}

	issued := time.Now()
	inv := &Invoice{
		Number:   newInvoiceNumber(issued),
		OrderID:  req.OrderID,
		Total:    total,
		Currency: currency,
		IssuedAt: issued,
	}
	if err := s.repo.Create(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *service) Get(ctx context.Context, id int64) (*Invoice, error) {
	return s.repo.Get(ctx, id)
}

func (s *service) GetByNumber(ctx context.Context, number string) (*Invoice, error) {
	return s.repo.GetByNumber(ctx, number)
}

func (s *service) ListByOrder(ctx context.Context, orderID int64) ([]*Invoice, error) {
	return s.repo.ListByOrder(ctx, orderID)
}
