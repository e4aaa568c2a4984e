package order

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/printmill/printmill-backend/internal/modules/catalog"
	"github.com/printmill/printmill-backend/internal/modules/inventory"
	"github.com/printmill/printmill-backend/internal/modules/pricing"
	"github.com/printmill/printmill-backend/internal/modules/user"
)

type testEnv struct {
	orders    Service
	orderRepo Repository
	stock     inventory.Repository
	pricing   pricing.Service
	material  catalog.Key
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	ctx := context.Background()

	catalogRepo, err := catalog.NewFileRepository(filepath.Join(dir, "materials.txt"))
	if err != nil {
		t.Fatal(err)
	}
	m := catalog.Material{Brand: "Overture", Type: "PLA", CostPerGram: 0.02, PrintTempC: 210, Color: "Black"}
	if err := catalogRepo.Add(ctx, m); err != nil {
		t.Fatal(err)
	}

	stockRepo, err := inventory.NewFileRepository(filepath.Join(dir, "inventory.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if err := stockRepo.SetStock(ctx, m.Key(), 1000); err != nil {
		t.Fatal(err)
	}

	userRepo, err := user.NewFileRepository(filepath.Join(dir, "users.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if err := userRepo.Create(ctx, &user.Account{Username: "alice", Email: "alice@example.com", Role: user.RoleCustomer}); err != nil {
		t.Fatal(err)
	}

	orderRepo, err := NewFileRepository(filepath.Join(dir, "orders.txt"))
	if err != nil {
		t.Fatal(err)
	}

	pricingSvc := pricing.NewService(filepath.Join(dir, "config.txt"), nil)

	return &testEnv{
		orders:    NewService(orderRepo, catalogRepo, stockRepo, userRepo, pricingSvc),
		orderRepo: orderRepo,
		stock:     stockRepo,
		pricing:   pricingSvc,
		material:  m.Key(),
	}
}

func validRequest() SubmitRequest {
	return SubmitRequest{
		Username:     "alice",
		Material:     catalog.Key{Brand: "Overture", Type: "PLA", Color: "Black"},
		Dimensions:   "10x10x5",
		Quantity:     5,
		GramsPerUnit: 20,
	}
}

func TestSubmit_CreatesPendingOrderAndConsumesStock(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	o, err := env.orders.Submit(ctx, validRequest())
	if err != nil {
		t.Fatal(err)
	}
	if o.ID != 1 {
		t.Errorf("order id = %d, want 1", o.ID)
	}
	if o.Status != StatusPending {
		t.Errorf("status = %s, want %s", o.Status, StatusPending)
	}
	if o.Priority != PriorityNormal {
		t.Errorf("priority = %s, want %s", o.Priority, PriorityNormal)
	}

	price, _, err := env.orders.PriceOf(ctx, o.ID)
	if err != nil {
		t.Fatal(err)
	}
	nearlyEqual(t, "price", price, 7.56)

	grams, _ := env.stock.GetStock(ctx, env.material)
	if grams != 900 {
		t.Errorf("stock after submit = %d, want 900", grams)
	}
}

func TestSubmit_SequentialIDs(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		o, err := env.orders.Submit(ctx, validRequest())
		if err != nil {
			t.Fatal(err)
		}
		if o.ID != want {
			t.Fatalf("order id = %d, want %d", o.ID, want)
		}
	}
}

func TestSubmit_QuantityOverLimitLeavesNothingBehind(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	req := validRequest()
	req.Quantity = 101 // default max is 100

	_, err := env.orders.Submit(ctx, req)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	if orders, _ := env.orders.List(ctx); len(orders) != 0 {
		t.Errorf("registry has %d orders after rejected submit, want 0", len(orders))
	}
	if grams, _ := env.stock.GetStock(ctx, env.material); grams != 1000 {
		t.Errorf("stock = %d after rejected submit, want 1000", grams)
	}
}

func TestSubmit_InsufficientStockLeavesStockUnchanged(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	req := validRequest()
	req.Quantity = 60 // needs 1200 g, only 1000 g on hand

	_, err := env.orders.Submit(ctx, req)
	if !errors.Is(err, inventory.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
	if grams, _ := env.stock.GetStock(ctx, env.material); grams != 1000 {
		t.Errorf("stock = %d after failed submit, want 1000", grams)
	}
	if orders, _ := env.orders.List(ctx); len(orders) != 0 {
		t.Errorf("registry has %d orders after failed submit, want 0", len(orders))
	}
}

func TestSubmit_CollectsAllValidationProblems(t *testing.T) {
	env := newTestEnv(t)

	req := SubmitRequest{
		Username:     "nobody",
		Material:     catalog.Key{Brand: "X", Type: "Y", Color: "Z"},
		Dimensions:   "not-dimensions",
		Quantity:     0,
		GramsPerUnit: 0,
	}
	_, err := env.orders.Submit(context.Background(), req)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Problems) < 5 {
		t.Errorf("expected at least 5 problems, got %d: %v", len(verr.Problems), verr.Problems)
	}
}

func TestSubmit_RushRejectedWhenDisallowed(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	off := false
	env.pricing.Update(pricing.UpdateRequest{AllowRushOrders: &off})

	req := validRequest()
	req.Priority = "rush"
	if _, err := env.orders.Submit(ctx, req); err == nil {
		t.Fatal("expected rush submit to be rejected")
	}

	on := true
	env.pricing.Update(pricing.UpdateRequest{AllowRushOrders: &on})
	o, err := env.orders.Submit(ctx, req)
	if err != nil {
		t.Fatal(err)
	}
	price, _, _ := env.orders.PriceOf(ctx, o.ID)
	nearlyEqual(t, "rush price", price, 9.45)
}

func TestUpdateStatus_PermissiveByDefaultStrictOnRequest(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	o, err := env.orders.Submit(ctx, validRequest())
	if err != nil {
		t.Fatal(err)
	}

	// Permissive: jumping straight to completed is accepted.
	if _, err := env.orders.UpdateStatus(ctx, o.ID, UpdateStatusRequest{Status: "completed"}); err != nil {
		t.Fatalf("permissive update rejected: %v", err)
	}

	// Strict: completed → pending violates the forward-only machine.
	_, err = env.orders.UpdateStatus(ctx, o.ID, UpdateStatusRequest{Status: "pending", Strict: true})
	if err == nil {
		t.Fatal("strict update should reject completed → pending")
	}
}

func TestQueue_FIFOAndCompletionDequeues(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, _ := env.orders.Submit(ctx, validRequest())
	second, _ := env.orders.Submit(ctx, validRequest())

	next, err := env.orders.NextInQueue(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if next.ID != first.ID {
		t.Fatalf("next in queue = %d, want %d", next.ID, first.ID)
	}

	started, err := env.orders.StartNext(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if started.Status != StatusProcessing {
		t.Errorf("started status = %s, want %s", started.Status, StatusProcessing)
	}

	if _, err := env.orders.UpdateStatus(ctx, first.ID, UpdateStatusRequest{Status: "completed"}); err != nil {
		t.Fatal(err)
	}

	queue, _ := env.orders.Queue(ctx)
	if len(queue) != 1 || queue[0].ID != second.ID {
		t.Fatalf("queue after completion = %v, want just order %d", queue, second.ID)
	}
}

func TestFileRepository_ReloadRestoresRegistryAndQueue(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	path := filepath.Join(dir, "orders.txt")

	repo, err := NewFileRepository(path)
	if err != nil {
		t.Fatal(err)
	}
	o := sampleOrder()
	o.Username = "alice"
	o.Email = "alice@example.com"
	o.Role = user.RoleCustomer
	o.Dimensions = "10x10x5"
	o.EstimatedHours = EstimatePrintTimeHours(o.Quantity, o.GramsPerUnit)
	if err := repo.Create(ctx, o); err != nil {
		t.Fatal(err)
	}
	done := sampleOrder()
	done.Username = "alice"
	done.Email = "alice@example.com"
	done.Role = user.RoleCustomer
	done.Dimensions = "5x5x5"
	done.EstimatedHours = EstimatePrintTimeHours(done.Quantity, done.GramsPerUnit)
	if err := repo.Create(ctx, done); err != nil {
		t.Fatal(err)
	}
	if err := repo.UpdateStatus(ctx, done.ID, StatusCompleted); err != nil {
		t.Fatal(err)
	}

	reloaded, err := NewFileRepository(path)
	if err != nil {
		t.Fatal(err)
	}
	orders, _ := reloaded.List(ctx)
	if len(orders) != 2 {
		t.Fatalf("reloaded %d orders, want 2", len(orders))
	}
	got := orders[0]
	if got.Material.DisplayName() != "PLA - Overture (Black)" {
		t.Errorf("reloaded material = %q", got.Material.DisplayName())
	}
	if got.GramsPerUnit != 20 {
		t.Errorf("reloaded grams per unit = %d, want 20", got.GramsPerUnit)
	}

	queue, _ := reloaded.Queue(ctx)
	if len(queue) != 1 || queue[0].ID != o.ID {
		t.Fatalf("reloaded queue = %v, want just order %d", queue, o.ID)
	}

	// A fresh order after reload continues the id sequence.
	third := sampleOrder()
	third.Username = "alice"
	third.Dimensions = "1x1x1"
	third.EstimatedHours = EstimatePrintTimeHours(third.Quantity, third.GramsPerUnit)
	if err := reloaded.Create(ctx, third); err != nil {
		t.Fatal(err)
	}
	if third.ID != 3 {
		t.Errorf("id after reload = %d, want 3", third.ID)
	}
}
