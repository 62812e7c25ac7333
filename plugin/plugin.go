// Package plugin provides an extensible plugin system for storefront.
// Plugins can hook into sale and inventory lifecycle events to extend
// functionality.
package plugin

import (
	"context"
	"time"
)

// Plugin is the base interface that all plugins must implement.
type Plugin interface {
	Name() string
}

// ──────────────────────────────────────────────────
// Lifecycle hooks
// ──────────────────────────────────────────────────

// OnInit is called when the store engine starts.
type OnInit interface {
	Plugin
	OnInit(ctx context.Context, store interface{}) error
}

// OnShutdown is called when the store engine is shutting down.
type OnShutdown interface {
	Plugin
	OnShutdown(ctx context.Context) error
}

// ──────────────────────────────────────────────────
// Registry hooks
// ──────────────────────────────────────────────────

// OnClerkHired is called when a clerk is hired into a store.
type OnClerkHired interface {
	Plugin
	OnClerkHired(ctx context.Context, clerkName string) error
}

// ──────────────────────────────────────────────────
// Sale lifecycle hooks
// ──────────────────────────────────────────────────

// OnSaleCompleted is called when a sale completes and its transaction has
// been applied to the store balance.
type OnSaleCompleted interface {
	Plugin
	OnSaleCompleted(ctx context.Context, txn interface{}) error
}

// OnSaleRejected is called when a sale request fails at the design stage
// (not exactly one base ingredient). No inventory was touched.
type OnSaleRejected interface {
	Plugin
	OnSaleRejected(ctx context.Context, reason string) error
}

// OnSaleReverted is called when multi-item consumption failed partway and
// every prior consumption was compensated. Inventory is back to its
// pre-sale state.
type OnSaleReverted interface {
	Plugin
	OnSaleReverted(ctx context.Context, productName string) error
}

// ──────────────────────────────────────────────────
// Inventory hooks
// ──────────────────────────────────────────────────

// OnInventoryChanged is called after any successful consume or replenish.
// The notification is deliberately generic; it carries only the store
// address.
type OnInventoryChanged interface {
	Plugin
	OnInventoryChanged(ctx context.Context, origin string) error
}

// OnShortage is called when an article crosses its required threshold.
type OnShortage interface {
	Plugin
	OnShortage(ctx context.Context, origin, description string, current, required int) error
}

// ──────────────────────────────────────────────────
// Balance hooks
// ──────────────────────────────────────────────────

// OnBalanceChanged is called after the store applied a transaction to its
// running balance.
type OnBalanceChanged interface {
	Plugin
	OnBalanceChanged(ctx context.Context, origin string, balance interface{}) error
}

// ──────────────────────────────────────────────────
// Journal hooks
// ──────────────────────────────────────────────────

// OnTransactionsFlushed is called when buffered transactions are flushed to
// the journal.
type OnTransactionsFlushed interface {
	Plugin
	OnTransactionsFlushed(ctx context.Context, count int, elapsed time.Duration) error
}

// ──────────────────────────────────────────────────
// Discount strategies
// ──────────────────────────────────────────────────

// DiscountStrategyPlugin provides a named discount strategy that clerks can
// be hired with.
type DiscountStrategyPlugin interface {
	Plugin
	StrategyName() string
	Strategy() interface{} // Returns discount.Strategy
}
