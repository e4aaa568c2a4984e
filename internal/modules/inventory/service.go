package inventory

import (
	"context"
	"fmt"

	"github.com/printmill/printmill-backend/internal/modules/catalog"
)

// StockLevel pairs a material identity with its recorded grams.
type StockLevel struct {
	Material catalog.Key `json:"material"`
	Grams    int         `json:"grams"`
}

// Service defines inventory business logic.
type Service interface {
	GetStock(ctx context.Context, key catalog.Key) (int, error)
	HasSufficient(ctx context.Context, key catalog.Key, grams int) (bool, error)
	Consume(ctx context.Context, key catalog.Key, grams int) error
	Replenish(ctx context.Context, key catalog.Key, grams int) error
	SetStock(ctx context.Context, key catalog.Key, grams int) error
	ListStock(ctx context.Context) ([]StockLevel, error)
}

type service struct{ repo Repository }

// NewService creates a new inventory service.
func NewService(repo Repository) Service { return &service{repo: repo} }

func (s *service) GetStock(ctx context.Context, key catalog.Key) (int, error) {
	return s.repo.GetStock(ctx, key)
}

func (s *service) HasSufficient(ctx context.Context, key catalog.Key, grams int) (bool, error) {
	return s.repo.HasSufficient(ctx, key, grams)
}

func (s *service) Consume(ctx context.Context, key catalog.Key, grams int) error {
	if grams <= 0 {
		return fmt.Errorf("grams must be positive")
	}
	return s.repo.Consume(ctx, key, grams)
}

func (s *service) Replenish(ctx context.Context, key catalog.Key, grams int) error {
	if grams <= 0 {
		return fmt.Errorf("grams must be positive")
	}
	return s.repo.Replenish(ctx, key, grams)
}

func (s *service) SetStock(ctx context.Context, key catalog.Key, grams int) error {
	if grams < 0 {
		return fmt.Errorf("grams must not be negative")
	}
	return s.repo.SetStock(ctx, key, grams)
}

func (s *service) ListStock(ctx context.Context) ([]StockLevel, error) {
	snap, err := s.repo.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]StockLevel, 0, len(snap))
	for k, grams := range snap {
		out = append(out, StockLevel{Material: k, Grams: grams})
	}
	return out, nil
}
