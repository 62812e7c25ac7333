package storefront_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/xraph/storefront"
	"github.com/xraph/storefront/article"
	"github.com/xraph/storefront/event"
	"github.com/xraph/storefront/id"
	"github.com/xraph/storefront/journal"
	"github.com/xraph/storefront/journal/memory"
	"github.com/xraph/storefront/product"
	"github.com/xraph/storefront/types"
)

func newArticle(description string, cost types.Money, current, required int) *article.Article {
	return &article.Article{
		Entity:      types.NewEntity(),
		ID:          id.NewArticleID(),
		Description: description,
		Cost:        cost,
		Current:     current,
		Required:    required,
	}
}

func stockWith(articles ...*article.Article) storefront.Stocker {
	return storefront.StockerFunc(func(inv *article.Inventory) error {
		for _, a := range articles {
			if err := inv.Add(a); err != nil {
				return err
			}
		}
		return nil
	})
}

// newTestStore builds a store stocked with bread (cost 100, current 10) and
// cheese (cost 50, current 5).
func newTestStore(t *testing.T, opts ...storefront.Option) *storefront.Store {
	t.Helper()

	s, err := storefront.New("Corner Deli", "1 Main St", stockWith(
		newArticle("white bread", types.USD(100), 10, 5),
		newArticle("cheese", types.USD(50), 5, 3),
	), opts...)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return s
}

func stockOf(t *testing.T, s *storefront.Store, description string) int {
	t.Helper()

	for _, a := range s.Inventory() {
		if a.Description == description {
			return a.Current
		}
	}
	t.Fatalf("article %q not in inventory", description)
	return 0
}

func TestNewConstructionFailures(t *testing.T) {
	t.Run("NilStocker", func(t *testing.T) {
		_, err := storefront.New("Deli", "addr", nil)
		if !errors.Is(err, storefront.ErrNilStocker) {
			t.Errorf("got %v, want ErrNilStocker", err)
		}
	})

	t.Run("StockerError", func(t *testing.T) {
		boom := errors.New("supplier offline")
		_, err := storefront.New("Deli", "addr", storefront.StockerFunc(func(*article.Inventory) error {
			return boom
		}))
		if !errors.Is(err, storefront.ErrStockingFailed) {
			t.Errorf("got %v, want ErrStockingFailed", err)
		}
		if !errors.Is(err, boom) {
			t.Errorf("stocker cause not wrapped: %v", err)
		}
	})

	t.Run("DuplicateArticleID", func(t *testing.T) {
		a := newArticle("bread", types.USD(100), 1, 1)
		dup := *a
		_, err := storefront.New("Deli", "addr", stockWith(a, &dup))
		if err == nil {
			t.Fatal("duplicate article id accepted")
		}
		if !errors.Is(err, article.ErrDuplicateID) {
			t.Errorf("got %v, want article.ErrDuplicateID", err)
		}
	})

	t.Run("CurrencyMismatch", func(t *testing.T) {
		_, err := storefront.New("Deli", "addr", stockWith(
			newArticle("bread", types.EUR(100), 1, 1),
		))
		if !errors.Is(err, storefront.ErrCurrencyMismatch) {
			t.Errorf("got %v, want ErrCurrencyMismatch", err)
		}
	})
}

func TestConsumeReplenishRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	bread := product.Base("white bread", types.USD(100))

	if !s.Consume(ctx, bread, 3) {
		t.Fatal("consume failed with sufficient stock")
	}
	if got := stockOf(t, s, "white bread"); got != 7 {
		t.Errorf("after consume: got %d, want 7", got)
	}

	if !s.Replenish(ctx, bread, 3) {
		t.Fatal("replenish failed for known article")
	}
	if got := stockOf(t, s, "white bread"); got != 10 {
		t.Errorf("round trip: got %d, want 10", got)
	}
}

func TestConsumptionNoOps(t *testing.T) {
	ctx := context.Background()
	bread := product.Base("white bread", types.USD(100))

	tests := []struct {
		name string
		call func(s *storefront.Store) bool
	}{
		{"ConsumeZero", func(s *storefront.Store) bool { return s.Consume(ctx, bread, 0) }},
		{"ConsumeNegative", func(s *storefront.Store) bool { return s.Consume(ctx, bread, -4) }},
		{"ConsumeOverStock", func(s *storefront.Store) bool { return s.Consume(ctx, bread, 11) }},
		{"ConsumeUnknown", func(s *storefront.Store) bool {
			return s.Consume(ctx, product.Base("rye bread", types.USD(100)), 1)
		}},
		{"ConsumeCostMismatch", func(s *storefront.Store) bool {
			// Same description, different cost: structurally distinct.
			return s.Consume(ctx, product.Base("white bread", types.USD(999)), 1)
		}},
		{"ReplenishZero", func(s *storefront.Store) bool { return s.Replenish(ctx, bread, 0) }},
		{"ReplenishNegative", func(s *storefront.Store) bool { return s.Replenish(ctx, bread, -1) }},
		{"ReplenishUnknown", func(s *storefront.Store) bool {
			return s.Replenish(ctx, product.Base("rye bread", types.USD(100)), 1)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t)
			if tt.call(s) {
				t.Error("got true, want false")
			}
			if got := stockOf(t, s, "white bread"); got != 10 {
				t.Errorf("inventory mutated: bread = %d, want 10", got)
			}
			if got := stockOf(t, s, "cheese"); got != 5 {
				t.Errorf("inventory mutated: cheese = %d, want 5", got)
			}
		})
	}
}

func TestContains(t *testing.T) {
	s := newTestStore(t)
	bread := product.Base("white bread", types.USD(100))

	tests := []struct {
		name string
		item article.Item
		qty  int
		want bool
	}{
		{"NonPositiveTriviallyTrue", bread, 0, true},
		{"NegativeTriviallyTrue", bread, -2, true},
		{"SufficientStock", bread, 10, true},
		{"InsufficientStock", bread, 11, false},
		{"UnknownItem", product.Base("rye bread", types.USD(100)), 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Contains(tt.item, tt.qty); got != tt.want {
				t.Errorf("Contains(%q, %d) = %v, want %v", tt.item.MatchKey().Description, tt.qty, got, tt.want)
			}
		})
	}
}

func TestMissingArticles(t *testing.T) {
	s, err := storefront.New("Deli", "addr", stockWith(
		newArticle("overstocked", types.USD(10), 9, 3),     // shortfall -6
		newArticle("exactly stocked", types.USD(10), 3, 3), // shortfall 0
		newArticle("understocked", types.USD(10), 1, 3),    // shortfall 2
	))
	if err != nil {
		t.Fatal(err)
	}

	missing := s.MissingArticles()
	if len(missing) != 2 {
		t.Fatalf("got %d articles, want 2", len(missing))
	}

	// Threshold is inclusive: an exactly-stocked article is still listed.
	want := map[string]bool{"exactly stocked": true, "understocked": true}
	for _, a := range missing {
		if !want[a.Description] {
			t.Errorf("unexpected article %q", a.Description)
		}
	}
}

func TestHandleTransactionBalance(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.HandleTransaction(ctx, event.NewTransaction(event.Earned, s.Address(), "sale", types.USD(400)))
	s.HandleTransaction(ctx, event.NewTransaction(event.Earned, s.Address(), "sale", types.USD(100)))
	s.HandleTransaction(ctx, event.NewTransaction(event.Spent, s.Address(), "restock", types.USD(150)))

	if got := s.Balance(); !got.Equal(types.USD(350)) {
		t.Errorf("balance = %s, want $3.50", got)
	}
}

func TestHandleTransactionForeignCurrency(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.HandleTransaction(ctx, event.NewTransaction(event.Earned, s.Address(), "sale", types.USD(200)))
	// A transaction in another currency is dropped, not applied.
	s.HandleTransaction(ctx, event.NewTransaction(event.Earned, s.Address(), "sale", types.EUR(500)))

	if got := s.Balance(); !got.Equal(types.USD(200)) {
		t.Errorf("balance = %s, want $2.00", got)
	}
}

func TestStoreRepublishesToSupervisors(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	var seen []event.Transaction
	err := s.Subscribe(event.HandlerFunc(func(_ context.Context, txn event.Transaction) {
		seen = append(seen, txn)
	}))
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	txn := event.NewTransaction(event.Earned, s.Address(), "sale", types.USD(250))
	s.HandleTransaction(ctx, txn)

	if len(seen) != 1 {
		t.Fatalf("supervisor received %d transactions, want 1", len(seen))
	}
	if seen[0].ID != txn.ID || seen[0].Label != "sale" || !seen[0].Amount.Equal(types.USD(250)) {
		t.Errorf("republished payload differs: %+v", seen[0])
	}
}

func TestSubscribeNilSupervisor(t *testing.T) {
	s := newTestStore(t)
	if err := s.Subscribe(nil); !errors.Is(err, storefront.ErrNilSubscriber) {
		t.Errorf("got %v, want ErrNilSubscriber", err)
	}
}

func TestHireAndAdopt(t *testing.T) {
	s := newTestStore(t)

	c := s.Hire("alice")
	if c == nil {
		t.Fatal("hire returned nil clerk")
	}
	if c.Owner() != s {
		t.Error("hired clerk not owned by the store")
	}
	if got := len(s.Clerks()); got != 1 {
		t.Errorf("clerk count = %d, want 1", got)
	}

	t.Run("ForeignClerkRejected", func(t *testing.T) {
		other := newTestStore(t)
		foreign := other.Hire("mallory")

		if err := s.Adopt(foreign); !errors.Is(err, storefront.ErrForeignClerk) {
			t.Errorf("got %v, want ErrForeignClerk", err)
		}
		if got := len(s.Clerks()); got != 1 {
			t.Errorf("clerk set mutated on rejected adopt: %d clerks", got)
		}
	})

	t.Run("NilClerkRejected", func(t *testing.T) {
		if err := s.Adopt(nil); !errors.Is(err, storefront.ErrNilClerk) {
			t.Errorf("got %v, want ErrNilClerk", err)
		}
	})

	t.Run("DoubleAdoptRejected", func(t *testing.T) {
		if err := s.Adopt(c); !errors.Is(err, storefront.ErrAlreadyExists) {
			t.Errorf("got %v, want ErrAlreadyExists", err)
		}
	})
}

func TestJournalFlushOnStop(t *testing.T) {
	ctx := context.Background()
	j := memory.New()
	s := newTestStore(t,
		storefront.WithJournal(j),
		storefront.WithJournalConfig(100, time.Hour), // flush only on stop
	)

	if err := s.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}

	clerk := s.Hire("alice")
	if !clerk.Sell(ctx, []product.Ingredient{
		product.Base("white bread", types.USD(100)),
		product.Extra("cheese", types.USD(50)),
	}) {
		t.Fatal("sell failed")
	}

	if err := s.Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}

	balance, err := j.Balance(ctx, s.Address())
	if err != nil {
		t.Fatalf("journal balance: %v", err)
	}
	if balance != 150 {
		t.Errorf("journaled balance = %d, want 150", balance)
	}
}

func TestStopIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, storefront.WithJournal(memory.New()))

	if err := s.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := s.Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if err := s.Stop(); err != nil {
		t.Errorf("second stop: %v", err)
	}
}

func TestTransactionsRequiresJournal(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Transactions(context.Background(), journal.ListOpts{})
	if !errors.Is(err, storefront.ErrJournalNotReady) {
		t.Errorf("got %v, want ErrJournalNotReady", err)
	}
}
