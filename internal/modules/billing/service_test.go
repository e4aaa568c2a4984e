package billing

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/printmill/printmill-backend/internal/modules/catalog"
	"github.com/printmill/printmill-backend/internal/modules/inventory"
	"github.com/printmill/printmill-backend/internal/modules/order"
	"github.com/printmill/printmill-backend/internal/modules/pricing"
	"github.com/printmill/printmill-backend/internal/modules/user"
)

type testEnv struct {
	invoices Service
	orders   order.Service
	pricing  pricing.Service
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
	userRepo, err := user.NewFileRepository(filepath.Join(dir, "users.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if err := userRepo.Create(ctx, &user.Account{Username: "alice", Email: "alice@example.com", Role: user.RoleCustomer}); err != nil {
		t.Fatal(err)
	}
	orderRepo, err := order.NewFileRepository(filepath.Join(dir, "orders.txt"))
	if err != nil {
		t.Fatal(err)
	}

	pricingSvc := pricing.NewService(filepath.Join(dir, "config.txt"), nil)
	orderSvc := order.NewService(orderRepo, catalogRepo, stockRepo, userRepo, pricingSvc)

	return &testEnv{
		invoices: NewService(NewMemoryRepository(), orderSvc),
		orders:   orderSvc,
		pricing:  pricingSvc,
	}
}

func submitOrder(t *testing.T, env *testEnv) *order.Order {
	t.Helper()
	o, err := env.orders.Submit(context.Background(), order.SubmitRequest{
		Username:     "alice",
		Material:     catalog.Key{Brand: "Overture", Type: "PLA", Color: "Black"},
		Dimensions:   "10x10x5",
		Quantity:     5,
		GramsPerUnit: 20,
	})
	if err != nil {
		t.Fatal(err)
	}
	return o
}

var invoiceNumberForm = regexp.MustCompile(`^INV-\d{8}-[0-9A-F]{4}$`)

func TestGenerate_NumberFormatAndSequentialIDs(t *testing.T) {
	env := newTestEnv(t)
	o := submitOrder(t, env)
	ctx := context.Background()

	first, err := env.invoices.Generate(ctx, GenerateRequest{OrderID: o.ID})
	if err != nil {
		t.Fatal(err)
	}
	second, err := env.invoices.Generate(ctx, GenerateRequest{OrderID: o.ID})
	if err != nil {
		t.Fatal(err)
	}

	if first.ID != 1 || second.ID != 2 {
		t.Errorf("invoice ids = %d, %d, want 1, 2", first.ID, second.ID)
	}
	for _, inv := range []*Invoice{first, second} {
		if !invoiceNumberForm.MatchString(inv.Number) {
			t.Errorf("invoice number %q does not match INV-YYYYMMDD-XXXX", inv.Number)
		}
	}
	if first.Currency != "USD" {
		t.Errorf("currency = %q, want USD", first.Currency)
	}
}

func TestGenerate_TotalIsASnapshot(t *testing.T) {
	env := newTestEnv(t)
	o := submitOrder(t, env)
	ctx := context.Background()

	inv, err := env.invoices.Generate(ctx, GenerateRequest{OrderID: o.ID})
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(inv.Total-7.56) > 1e-9 {
		t.Fatalf("invoice total = %v, want 7.56", inv.Total)
	}

	// Raising the tax rate moves the live order price but not the invoice.
	tax := 0.20
	env.pricing.Update(pricing.UpdateRequest{TaxRate: &tax})

	live, _, err := env.orders.PriceOf(ctx, o.ID)
	if err != nil {
		t.Fatal(err)
	}
	if live <= 7.56 {
		t.Fatalf("live price = %v, expected it to rise with the tax rate", live)
	}

	stored, err := env.invoices.Get(ctx, inv.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Total != inv.Total {
		t.Fatalf("stored invoice total = %v, want the issued %v", stored.Total, inv.Total)
	}
}

func TestGenerate_UnknownOrder(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.invoices.Generate(context.Background(), GenerateRequest{OrderID: 99})
	if !errors.Is(err, order.ErrNotFound) {
		t.Fatalf("expected order.ErrNotFound, got %v", err)
	}
}

func TestLookups(t *testing.T) {
	env := newTestEnv(t)
	o := submitOrder(t, env)
	ctx := context.Background()

	inv, err := env.invoices.Generate(ctx, GenerateRequest{OrderID: o.ID})
	if err != nil {
		t.Fatal(err)
	}

	byNumber, err := env.invoices.GetByNumber(ctx, inv.Number)
	if err != nil {
		t.Fatal(err)
	}
	if byNumber.ID != inv.ID {
		t.Errorf("lookup by number returned invoice %d, want %d", byNumber.ID, inv.ID)
	}

	if _, err := env.invoices.Get(ctx, 42); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown id, got %v", err)
	}
	if _, err := env.invoices.GetByNumber(ctx, "INV-19700101-ZZZZ"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown number, got %v", err)
	}

	list, err := env.invoices.ListByOrder(ctx, o.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].ID != inv.ID {
		t.Errorf("list by order = %+v, want the single issued invoice", list)
	}
}
