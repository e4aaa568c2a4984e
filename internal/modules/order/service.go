package order

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/printmill/printmill-backend/internal/modules/catalog"
	"github.com/printmill/printmill-backend/internal/modules/inventory"
	"github.com/printmill/printmill-backend/internal/modules/pricing"
	"github.com/printmill/printmill-backend/internal/modules/user"
)

// ValidationError carries every rejection reason for a submission, so the
// caller can show the whole list at once.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Problems, "; ")
}

// Quote is a priced view of an order without submitting it.
type Quote struct {
	Price          float64 `json:"price"`
	Currency       string  `json:"currency"`
	EstimatedHours float64 `json:"estimated_hours"`
	OperatingCost  float64 `json:"operating_cost"`
	RequiredGrams  int     `json:"required_grams"`
}

// Service defines order business logic.
type Service interface {
	// Submit validates the request, reserves material, and registers the
	// order. Any rejection leaves no order behind and no stock consumed.
	Submit(ctx context.Context, req SubmitRequest) (*Order, error)

	// QuoteOrder prices a prospective order without any side effects.
	QuoteOrder(ctx context.Context, req SubmitRequest) (*Quote, error)

	// Get retrieves an order by id.
	Get(ctx context.Context, id int64) (*Order, error)

	// List returns all orders; ListByUser filters to one account.
	List(ctx context.Context) ([]*Order, error)
	ListByUser(ctx context.Context, username string) ([]*Order, error)

	// UpdateStatus reassigns the status. By default any of the three
	// statuses is accepted; Strict requests enforce the forward-only
	// machine.
	UpdateStatus(ctx context.Context, id int64, req UpdateStatusRequest) (*Order, error)

	// UpdatePriority reassigns the priority. Rush requires the system to
	// allow rush orders.
	UpdatePriority(ctx context.Context, id int64, req UpdatePriorityRequest) (*Order, error)

	// PriceOf computes the order's current price under the live
	// configuration.
	PriceOf(ctx context.Context, id int64) (float64, string, error)

	// NextInQueue peeks the oldest unfinished order; StartNext moves it to
	// processing and returns it.
	NextInQueue(ctx context.Context) (*Order, error)
	StartNext(ctx context.Context) (*Order, error)

	// Queue returns the pending work, oldest first.
	Queue(ctx context.Context) ([]*Order, error)

	// Clear empties the registry and queue. Wired to the configuration
	// reset hook.
	Clear(ctx context.Context) error
}

var dimensionsPattern = regexp.MustCompile(`^\d+(\.\d+)?x\d+(\.\d+)?x\d+(\.\d+)?$`)

type service struct {
	repo    Repository
	catalog catalog.Repository
	stock   inventory.Repository
	users   user.Repository
	pricing pricing.Service
}

// NewService creates a new order service.
func NewService(repo Repository, catalogRepo catalog.Repository, stockRepo inventory.Repository, userRepo user.Repository, pricingSvc pricing.Service) Service {
	return &service{
		repo:    repo,
		catalog: catalogRepo,
		stock:   stockRepo,
		users:   userRepo,
		pricing: pricingSvc,
	}
}

// build validates the request and assembles an unregistered order. All
// violations are collected before returning.
func (s *service) build(ctx context.Context, req SubmitRequest) (*Order, error) {
	cfg := s.pricing.Snapshot()
	var problems []string

	account, err := s.users.Get(ctx, req.Username)
	if err != nil {
		problems = append(problems, fmt.Sprintf("unknown user %q", req.Username))
	}

	material, err := s.catalog.Get(ctx, req.Material)
	if err != nil {
		problems = append(problems, fmt.Sprintf("unknown material %q", req.Material))
	}

	if !dimensionsPattern.MatchString(req.Dimensions) {
		problems = append(problems, `dimensions must have the form "LxWxH", e.g. "10x10x5"`)
	}
	if req.Quantity <= 0 {
		problems = append(problems, "quantity must be positive")
	} else if req.Quantity > cfg.MaxOrderQuantity {
		problems = append(problems, fmt.Sprintf("quantity exceeds the maximum of %d", cfg.MaxOrderQuantity))
	}
	if req.GramsPerUnit <= 0 {
		problems = append(problems, "grams_per_unit must be positive")
	}
	if strings.ContainsAny(req.Instructions, "|") {
		problems = append(problems, "instructions must not contain '|'")
	}

	priority := Priority(req.Priority)
	if req.Priority == "" {
		priority = PriorityNormal
	} else if !ValidPriority(priority) {
		problems = append(problems, fmt.Sprintf("unknown priority %q", req.Priority))
	}
	if priority == PriorityRush && !cfg.AllowRushOrders {
		problems = append(problems, "rush orders are not currently accepted")
	}

	if len(problems) > 0 {
		return nil, &ValidationError{Problems: problems}
	}

	o := &Order{
		Username:       account.Username,
		Email:          account.Email,
		Role:           account.Role,
		Material:       material,
		Dimensions:     req.Dimensions,
		Quantity:       req.Quantity,
		GramsPerUnit:   req.GramsPerUnit,
		Instructions:   req.Instructions,
		Status:         StatusPending,
		Priority:       priority,
		EstimatedHours: EstimatePrintTimeHours(req.Quantity, req.GramsPerUnit),
	}

	if price := o.Price(cfg); price > cfg.MaxOrderValue {
		return nil, &ValidationError{Problems: []string{
			fmt.Sprintf("order value %.2f exceeds the maximum of %.2f", price, cfg.MaxOrderValue),
		}}
	}
	return o, nil
}

func (s *service) Submit(ctx context.Context, req SubmitRequest) (*Order, error) {
	o, err := s.build(ctx, req)
	if err != nil {
		return nil, err
	}

	// Reserve material first: Consume is an atomic check-and-decrement, so
	// a rejected reservation leaves the ledger untouched.
	required := o.RequiredGrams()
	if err := s.stock.Consume(ctx, o.Material.Key(), required); err != nil {
		if errors.Is(err, inventory.ErrInsufficientStock) {
			return nil, fmt.Errorf("%w: order needs %d g of %s", err, required, o.Material.DisplayName())
		}
		return nil, err
	}

	if err := s.repo.Create(ctx, o); err != nil {
		// Give the reservation back so the failed submit mutates nothing.
		if rerr := s.stock.Replenish(ctx, o.Material.Key(), required); rerr != nil {
			return nil, fmt.Errorf("registering order: %v (stock restore also failed: %w)", err, rerr)
		}
		return nil, fmt.Errorf("registering order: %w", err)
	}
	return o, nil
}

func (s *service) QuoteOrder(ctx context.Context, req SubmitRequest) (*Quote, error) {
	o, err := s.build(ctx, req)
	if err != nil {
		return nil, err
	}
	cfg := s.pricing.Snapshot()
	return &Quote{
		Price:          o.Price(cfg),
		Currency:       cfg.Currency,
		EstimatedHours: o.EstimatedHours,
		OperatingCost:  o.EstimateOperatingCost(cfg),
		RequiredGrams:  o.RequiredGrams(),
	}, nil
}

func (s *service) Get(ctx context.Context, id int64) (*Order, error) {
	return s.repo.Get(ctx, id)
}

func (s *service) List(ctx context.Context) ([]*Order, error) {
	return s.repo.List(ctx)
}

func (s *service) ListByUser(ctx context.Context, username string) ([]*Order, error) {
	return s.repo.ListByUser(ctx, username)
}

func (s *service) UpdateStatus(ctx context.Context, id int64, req UpdateStatusRequest) (*Order, error) {
	next := Status(req.Status)
	if !ValidStatus(next) {
		return nil, fmt.Errorf("unknown status %q", req.Status)
	}
	if req.Strict {
		o, err := s.repo.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if !CanTransition(o.Status, next) {
			return nil, fmt.Errorf("cannot transition order from %s to %s", o.Status, next)
		}
	}
	if err := s.repo.UpdateStatus(ctx, id, next); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

func (s *service) UpdatePriority(ctx context.Context, id int64, req UpdatePriorityRequest) (*Order, error) {
	next := Priority(req.Priority)
	if !ValidPriority(next) {
		return nil, fmt.Errorf("unknown priority %q", req.Priority)
	}
	if next == PriorityRush && !s.pricing.Snapshot().AllowRushOrders {
		return nil, fmt.Errorf("rush orders are not currently accepted")
	}
	if err := s.repo.UpdatePriority(ctx, id, next); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

func (s *service) PriceOf(ctx context.Context, id int64) (float64, string, error) {
	o, err := s.repo.Get(ctx, id)
	if err != nil {
		return 0, "", err
	}
	cfg := s.pricing.Snapshot()
	return o.Price(cfg), cfg.Currency, nil
}

func (s *service) NextInQueue(ctx context.Context) (*Order, error) {
	return s.repo.NextInQueue(ctx)
}

func (s *service) StartNext(ctx context.Context) (*Order, error) {
	o, err := s.repo.NextInQueue(ctx)
	if err != nil {
		return nil, err
	}
	if o.Status == StatusPending {
		if err := s.repo.UpdateStatus(ctx, o.ID, StatusProcessing); err != nil {
			return nil, err
		}
	}
	return s.repo.Get(ctx, o.ID)
}

func (s *service) Queue(ctx context.Context) ([]*Order, error) {
	return s.repo.Queue(ctx)
}

func (s *service) Clear(ctx context.Context) error {
	return s.repo.Clear(ctx)
}
