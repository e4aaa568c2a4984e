package main

import (
	"context"
	"log"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/printmill/printmill-backend/internal/modules/auth"
	"github.com/printmill/printmill-backend/internal/modules/billing"
	"github.com/printmill/printmill-backend/internal/modules/catalog"
	"github.com/printmill/printmill-backend/internal/modules/inventory"
	"github.com/printmill/printmill-backend/internal/modules/order"
	"github.com/printmill/printmill-backend/internal/modules/pricing"
	"github.com/printmill/printmill-backend/internal/modules/user"
	"github.com/printmill/printmill-backend/internal/platform/config"
)

func main() {
	cfg := config.Load()

	// ── Router ──────────────────────────────────────────────
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestID)

	// ── Repositories (file-backed, loaded at startup) ───────
	catalogRepo, err := catalog.NewFileRepository(filepath.Join(cfg.DataDir, "materials.txt"))
	if err != nil {
		log.Fatal(err)
	}
	inventoryRepo, err := inventory.NewFileRepository(filepath.Join(cfg.DataDir, "inventory.txt"))
	if err != nil {
		log.Fatal(err)
	}
	userRepo, err := user.NewFileRepository(filepath.Join(cfg.DataDir, "users.txt"))
	if err != nil {
		log.Fatal(err)
	}
	orderRepo, err := order.NewFileRepository(filepath.Join(cfg.DataDir, "orders.txt"))
	if err != nil {
		log.Fatal(err)
	}

	// ── Pricing configuration ───────────────────────────────
	// Resetting the configuration historically also cleared the order
	// registry; the coupling is kept, but as an explicit hook.
	pricingSvc := pricing.NewService(filepath.Join(cfg.DataDir, "config.txt"), func() {
		if err := orderRepo.Clear(context.Background()); err != nil {
			log.Printf("reset hook: clearing orders: %v", err)
		}
	})
	if ok, report := pricingSvc.LoadFromFile(); ok && len(report.Skipped) > 0 {
		log.Printf("pricing: loaded with %d skipped keys", len(report.Skipped))
	}
	pricing.NewHandler(pricingSvc).RegisterRoutes(router)

	// ── Catalog & Inventory ─────────────────────────────────
	catalogSvc := catalog.NewService(catalogRepo)
	catalog.NewHandler(catalogSvc).RegisterRoutes(router)

	inventorySvc := inventory.NewService(inventoryRepo)
	inventory.NewHandler(inventorySvc).RegisterRoutes(router)

	// ── Identity & Sessions ─────────────────────────────────
	userSvc := user.NewService(userRepo, cfg.ResetTokenSecret, cfg.ResetTokenTTL)
	user.NewHandler(userSvc).RegisterRoutes(router)

	authSvc := auth.NewService(userRepo, cfg.SessionsPerUser, cfg.SessionIdle)
	auth.NewHandler(authSvc).RegisterRoutes(router)

	// ── Orders & Billing ────────────────────────────────────
	orderSvc := order.NewService(orderRepo, catalogRepo, inventoryRepo, userRepo, pricingSvc)
	order.NewHandler(orderSvc).RegisterRoutes(router)

	billingSvc := billing.NewService(billing.NewMemoryRepository(), orderSvc)
	billing.NewHandler(billingSvc).RegisterRoutes(router)

	// ── Start Server ────────────────────────────────────────
	log.Printf("Printmill API server starting on :%s (data in %s)", cfg.Port, cfg.DataDir)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, router))
}
