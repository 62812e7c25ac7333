package storefront_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/xraph/storefront"
	"github.com/xraph/storefront/article"
	"github.com/xraph/storefront/discount"
	"github.com/xraph/storefront/id"
	"github.com/xraph/storefront/journal/memory"
	"github.com/xraph/storefront/product"
	"github.com/xraph/storefront/types"
)

// TestDocumentationExamples verifies that all examples in the documentation compile
func TestDocumentationExamples(t *testing.T) {
	// Test Quick Start example from the package documentation
	t.Run("QuickStartExample", func(t *testing.T) {
		stock := storefront.StockerFunc(func(inv *article.Inventory) error {
			return inv.Add(&article.Article{
				Entity:      storefront.NewEntity(),
				ID:          id.NewArticleID(),
				Description: "white bread",
				Cost:        storefront.USD(100),
				Current:     10,
				Required:    5,
			})
		})

		// Create store (memory journal for demo, use PostgreSQL in production)
		store, err := storefront.New("Corner Deli", "1 Main St", stock,
			storefront.WithLogger(slog.Default()),
			storefront.WithJournal(memory.New()),
			storefront.WithJournalConfig(100, 5*time.Second),
		)
		if err != nil {
			t.Fatal(err)
		}

		// Start the engine
		ctx := context.Background()
		if err := store.Start(ctx); err != nil {
			t.Fatal(err)
		}
		defer store.Stop()

		// Hire a clerk and complete a sale
		clerk := store.Hire("alice")

		ok := clerk.Sell(ctx, []product.Ingredient{
			product.Base("white bread", storefront.USD(100)),
		})
		if !ok {
			t.Fatal("sell failed")
		}

		if got := store.Balance(); !got.Equal(storefront.USD(100)) {
			t.Errorf("balance = %s, want $1.00", got)
		}
	})

	t.Run("DiscountedClerkExample", func(t *testing.T) {
		s := newTestStore(t)

		clerk := s.Hire("bob", storefront.WithDiscount(discount.Percentage(10)))

		p, ok := clerk.DesignProduct([]product.Ingredient{
			product.Base("white bread", types.USD(100)),
		})
		if !ok {
			t.Fatal("design failed")
		}
		if !p.Price.Equal(types.USD(90)) {
			t.Errorf("price = %s, want $0.90", p.Price)
		}
	})
}
