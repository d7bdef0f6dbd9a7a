// Package main installs the default chart of accounts and, optionally, a demo
// catalog with opening purchases.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"bookkeeper/internal/app"
	"bookkeeper/internal/config"
	"bookkeeper/internal/core/entity"
	"bookkeeper/internal/core/types"
	"bookkeeper/internal/domain"
	"bookkeeper/internal/domain/catalogs/category"
	"bookkeeper/internal/domain/catalogs/product"
	"bookkeeper/internal/domain/catalogs/supplier"
	"bookkeeper/internal/domain/documents/purchase"
	"bookkeeper/internal/domain/posting"
	"bookkeeper/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}
	logger.SetDefault(log)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalw("invalid configuration", "error", err)
	}
	cfg.BootstrapChart = true

	ctx := context.Background()

	// app.New installs the chart into an empty database.
	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatalw("failed to initialize application", "error", err)
	}
	defer a.Close()

	log.Info("chart of accounts ready")

	if os.Getenv("SEED_DEMO_DATA") == "true" {
		if err := seedDemoData(ctx, a, log); err != nil {
			log.Fatalw("failed to seed demo data", "error", err)
		}
	}

	log.Info("seeding completed successfully")
}

type demoProduct struct {
	name     string
	category string
	quantity int64
	cost     string
}

var demoProducts = []demoProduct{
	{name: "Espresso beans 1kg", category: "Coffee", quantity: 20, cost: "18.50"},
	{name: "Filter beans 1kg", category: "Coffee", quantity: 15, cost: "15.00"},
	{name: "Green tea 100g", category: "Tea", quantity: 40, cost: "4.20"},
	{name: "Paper cups x50", category: "Supplies", quantity: 30, cost: "3.10"},
}

// seedDemoData creates a small catalog and buys its opening stock on credit
// from one supplier, so every balance starts from a posted document.
func seedDemoData(ctx context.Context, a *app.App, log *logger.Logger) error {
	existing, err := a.Products.List(ctx, domain.ListFilter{Limit: 1})
	if err != nil {
		return err
	}
	if existing.TotalCount > 0 {
		log.Info("products exist, skipping demo data")
		return nil
	}

	categories := make(map[string]int64)
	for _, p := range demoProducts {
		if _, ok := categories[p.category]; ok {
			continue
		}
		c := &category.Category{Name: p.category}
		if err := a.Categories.Create(ctx, c); err != nil {
			return fmt.Errorf("create category %s: %w", p.category, err)
		}
		categories[p.category] = c.ID
	}

	sup := &supplier.Supplier{Name: "Demo Wholesale", Phone: "+1 555 0100"}
	if err := a.Suppliers.Create(ctx, sup); err != nil {
		return fmt.Errorf("create supplier: %w", err)
	}

	doc := &purchase.Purchase{
		Document: entity.Document{
			Date:        time.Now().UTC().Truncate(24 * time.Hour),
			Description: "Opening stock",
		},
		SupplierID:    sup.ID,
		PaymentMethod: posting.Credit,
	}
	for _, p := range demoProducts {
		categoryID := categories[p.category]
		prod := &product.Product{Name: p.name, CategoryID: &categoryID}
		if err := a.Products.Create(ctx, prod); err != nil {
			return fmt.Errorf("create product %s: %w", p.name, err)
		}
		doc.Items = append(doc.Items, purchase.Item{
			ProductID:     prod.ID,
			Quantity:      p.quantity,
			PurchasePrice: types.MustMoney(p.cost),
		})
	}

	if err := a.Purchases.Create(ctx, doc); err != nil {
		return fmt.Errorf("post opening purchase: %w", err)
	}

	log.Infow("demo data seeded",
		"products", len(demoProducts),
		"purchase", doc.Number,
		"total", doc.TotalPrice.String(),
	)
	return nil
}
