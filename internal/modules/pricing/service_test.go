package pricing

import (
	"os"
	"path/filepath"
	"testing"
)

func newTestService(t *testing.T) (Service, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.txt")
	return NewService(path, nil), path
}

func TestSetters_IgnoreOutOfRangeValues(t *testing.T) {
	cfg := Defaults()

	cfg.SetTaxRate(1.5)
	if cfg.TaxRate != 0.08 {
		t.Errorf("tax rate changed to %v by out-of-range set", cfg.TaxRate)
	}
	cfg.SetTaxRate(-0.1)
	if cfg.TaxRate != 0.08 {
		t.Errorf("tax rate changed to %v by negative set", cfg.TaxRate)
	}
	cfg.SetBaseSetupCost(-3)
	if cfg.BaseSetupCost != 5.00 {
		t.Errorf("setup cost changed to %v by negative set", cfg.BaseSetupCost)
	}
	cfg.SetMaxOrderQuantity(0)
	if cfg.MaxOrderQuantity != 100 {
		t.Errorf("max quantity changed to %v by non-positive set", cfg.MaxOrderQuantity)
	}
	cfg.SetRushOrderSurcharge(2)
	if cfg.RushOrderSurcharge != 0.25 {
		t.Errorf("surcharge changed to %v by out-of-range set", cfg.RushOrderSurcharge)
	}

	cfg.SetTaxRate(0.16)
	if cfg.TaxRate != 0.16 {
		t.Errorf("valid tax rate not applied, got %v", cfg.TaxRate)
	}
}

func TestRoundTrip_SaveResetLoadRestoresExactly(t *testing.T) {
	svc, _ := newTestService(t)

	tax := 0.19
	setup := 7.25
	qty := 42
	rush := 0.33
	currency := "EUR"
	svc.Update(UpdateRequest{
		TaxRate:            &tax,
		BaseSetupCost:      &setup,
		MaxOrderQuantity:   &qty,
		RushOrderSurcharge: &rush,
		Currency:           &currency,
	})
	saved := svc.Snapshot()

	if !svc.SaveToFile() {
		t.Fatal("save failed")
	}
	svc.ResetToDefaults()
	if svc.Snapshot() == saved {
		t.Fatal("reset did not change the configuration")
	}

	ok, report := svc.LoadFromFile()
	if !ok {
		t.Fatal("load failed")
	}
	if len(report.Skipped) != 0 {
		t.Fatalf("unexpected skipped keys: %v", report.Skipped)
	}
	if got := svc.Snapshot(); got != saved {
		t.Fatalf("round trip mismatch:\ngot  %+v\nwant %+v", got, saved)
	}
}

func TestLoad_AbsentFileIsSuccess(t *testing.T) {
	svc, _ := newTestService(t)
	ok, report := svc.LoadFromFile()
	if !ok {
		t.Fatal("load of absent file reported failure")
	}
	if len(report.Applied) != 0 {
		t.Fatalf("absent file applied keys: %v", report.Applied)
	}
	if svc.Snapshot() != Defaults() {
		t.Fatal("absent file changed the configuration")
	}
}

func TestLoad_SkipsUnknownKeysAndMalformedValues(t *testing.T) {
	svc, path := newTestService(t)

	content := "# pricing configuration\n" +
		"tax_rate=0.12\n" +
		"mystery_knob=9\n" +
		"base_setup_cost=not-a-number\n" +
		"\n" +
		"max_order_quantity=55\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	ok, report := svc.LoadFromFile()
	if !ok {
		t.Fatal("load reported failure for a parseable file")
	}
	if len(report.Applied) != 2 {
		t.Errorf("applied = %v, want tax_rate and max_order_quantity", report.Applied)
	}
	if len(report.Skipped) != 2 {
		t.Errorf("skipped = %v, want mystery_knob and base_setup_cost", report.Skipped)
	}

	cfg := svc.Snapshot()
	if cfg.TaxRate != 0.12 {
		t.Errorf("tax rate = %v, want 0.12", cfg.TaxRate)
	}
	if cfg.MaxOrderQuantity != 55 {
		t.Errorf("max quantity = %v, want 55", cfg.MaxOrderQuantity)
	}
	// The malformed value keeps the previous setup cost.
	if cfg.BaseSetupCost != 5.00 {
		t.Errorf("setup cost = %v, want default 5.00", cfg.BaseSetupCost)
	}
}

func TestResetToDefaults_FiresHook(t *testing.T) {
	fired := 0
	svc := NewService(filepath.Join(t.TempDir(), "config.txt"), func() { fired++ })

	svc.ResetToDefaults()
	if fired != 1 {
		t.Fatalf("reset hook fired %d times, want 1", fired)
	}
	if svc.Snapshot() != Defaults() {
		t.Fatal("reset did not restore defaults")
	}
}
