package catalog

import (
	"context"
	"fmt"
	"strings"
)

// Service defines catalog business logic.
type Service interface {
	CreateMaterial(ctx context.Context, req CreateMaterialRequest) (Material, error)
	GetMaterial(ctx context.Context, key Key) (Material, error)
	GetByDisplayName(ctx context.Context, name string) (Material, error)
	ListMaterials(ctx context.Context) ([]Material, error)
	RemoveMaterial(ctx context.Context, key Key) error
}

type service struct{ repo Repository }

// NewService creates a new catalog service.
func NewService(repo Repository) Service { return &service{repo: repo} }

func (s *service) CreateMaterial(ctx context.Context, req CreateMaterialRequest) (Material, error) {
	brand := strings.TrimSpace(req.Brand)
	typ := strings.TrimSpace(req.Type)
	color := strings.TrimSpace(req.Color)
	if brand == "" || typ == "" || color == "" {
		return Material{}, fmt.Errorf("brand, type, and color are required")
	}
	if req.CostPerGram < 0 {
		return Material{}, fmt.Errorf("cost_per_gram must not be negative")
	}
	if strings.ContainsAny(brand+typ+color, "|") {
		return Material{}, fmt.Errorf("material fields must not contain '|'")
	}

	m := Material{
		Brand:       brand,
		Type:        typ,
		CostPerGram: req.CostPerGram,
		PrintTempC:  req.PrintTempC,
		Color:       color,
	}
	if err := s.repo.Add(ctx, m); err != nil {
		return Material{}, err
	}
	return m, nil
}

func (s *service) GetMaterial(ctx context.Context, key Key) (Material, error) {
	return s.repo.Get(ctx, key)
}

func (s *service) GetByDisplayName(ctx context.Context, name string) (Material, error) {
	return s.repo.GetByDisplayName(ctx, name)
}

func (s *service) ListMaterials(ctx context.Context) ([]Material, error) {
	return s.repo.List(ctx)
}

func (s *service) RemoveMaterial(ctx context.Context, key Key) error {
	return s.repo.Remove(ctx, key)
}
