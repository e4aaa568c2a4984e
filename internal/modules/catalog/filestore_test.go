package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDisplayName(t *testing.T) {
	m := Material{Brand: "Overture", Type: "PLA", CostPerGram: 0.02, PrintTempC: 210, Color: "Black"}
	if got := m.DisplayName(); got != "PLA - Overture (Black)" {
		t.Fatalf("display name = %q", got)
	}
}

func TestFileRepository_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "materials.txt")
	ctx := context.Background()

	repo, err := NewFileRepository(path)
	if err != nil {
		t.Fatal(err)
	}
	m := Material{Brand: "Overture", Type: "PLA", CostPerGram: 0.02, PrintTempC: 210, Color: "Black"}
	if err := repo.Add(ctx, m); err != nil {
		t.Fatal(err)
	}

	reloaded, err := NewFileRepository(path)
	if err != nil {
		t.Fatal(err)
	}
	got, err := reloaded.Get(ctx, m.Key())
	if err != nil {
		t.Fatal(err)
	}
	if got != m {
		t.Fatalf("reloaded material = %+v, want %+v", got, m)
	}
}

func TestFileRepository_LegacyFourFieldForm(t *testing.T) {
	path := filepath.Join(t.TempDir(), "materials.txt")
	content := "# materials\n" +
		"Overture PLA|0.02|210|Black\n" + // legacy: combined name field
		"Prusament|PETG|0.035|240|Orange\n" +
		"broken|line\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	repo, err := NewFileRepository(path)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	legacy, err := repo.Get(ctx, Key{Brand: "Overture", Type: "PLA", Color: "Black"})
	if err != nil {
		t.Fatalf("legacy record not loaded: %v", err)
	}
	if legacy.CostPerGram != 0.02 || legacy.PrintTempC != 210 {
		t.Errorf("legacy record fields = %+v", legacy)
	}

	modern, err := repo.Get(ctx, Key{Brand: "Prusament", Type: "PETG", Color: "Orange"})
	if err != nil {
		t.Fatalf("five-field record not loaded: %v", err)
	}
	if modern.CostPerGram != 0.035 {
		t.Errorf("five-field record fields = %+v", modern)
	}

	// The broken line is skipped, not fatal.
	materials, _ := repo.List(ctx)
	if len(materials) != 2 {
		t.Fatalf("loaded %d materials, want 2", len(materials))
	}
}

func TestFileRepository_GetByDisplayName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "materials.txt")
	ctx := context.Background()

	repo, err := NewFileRepository(path)
	if err != nil {
		t.Fatal(err)
	}
	m := Material{Brand: "Overture", Type: "PLA", CostPerGram: 0.02, PrintTempC: 210, Color: "Black"}
	if err := repo.Add(ctx, m); err != nil {
		t.Fatal(err)
	}

	got, err := repo.GetByDisplayName(ctx, "PLA - Overture (Black)")
	if err != nil {
		t.Fatal(err)
	}
	if got != m {
		t.Fatalf("lookup by display name = %+v, want %+v", got, m)
	}

	if _, err := repo.GetByDisplayName(ctx, "ABS - Nobody (Chartreuse)"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestService_RejectsInvalidMaterial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "materials.txt")
	repo, err := NewFileRepository(path)
	if err != nil {
		t.Fatal(err)
	}
	svc := NewService(repo)
	ctx := context.Background()

	if _, err := svc.CreateMaterial(ctx, CreateMaterialRequest{Brand: "", Type: "PLA", Color: "Black"}); err == nil {
		t.Error("empty brand accepted")
	}
	if _, err := svc.CreateMaterial(ctx, CreateMaterialRequest{Brand: "Overture", Type: "PLA", Color: "Black", CostPerGram: -1}); err == nil {
		t.Error("negative cost accepted")
	}
	if _, err := svc.CreateMaterial(ctx, CreateMaterialRequest{Brand: "Bad|Brand", Type: "PLA", Color: "Black"}); err == nil {
		t.Error("pipe in brand accepted")
	}
}
