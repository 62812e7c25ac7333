// Package observability provides a metrics extension for storefront that
// records lifecycle event counts via an injected MetricFactory.
package observability

import (
	"context"
	"time"

	"github.com/xraph/storefront/event"
	"github.com/xraph/storefront/plugin"
)

// Ensure MetricsExtension implements required interfaces.
var (
	_ plugin.Plugin                = (*MetricsExtension)(nil)
	_ plugin.OnInit                = (*MetricsExtension)(nil)
	_ plugin.OnClerkHired          = (*MetricsExtension)(nil)
	_ plugin.OnSaleCompleted       = (*MetricsExtension)(nil)
	_ plugin.OnSaleRejected        = (*MetricsExtension)(nil)
	_ plugin.OnSaleReverted        = (*MetricsExtension)(nil)
	_ plugin.OnInventoryChanged    = (*MetricsExtension)(nil)
	_ plugin.OnShortage            = (*MetricsExtension)(nil)
	_ plugin.OnBalanceChanged      = (*MetricsExtension)(nil)
	_ plugin.OnTransactionsFlushed = (*MetricsExtension)(nil)
)

// Counter interface for metric counters.
type Counter interface {
	Inc()
	Add(float64)
}

// Histogram interface for metric histograms.
type Histogram interface {
	Observe(float64)
}

// MetricFactory creates metrics.
type MetricFactory interface {
	Counter(name string) Counter
	Histogram(name string) Histogram
}

// MetricsExtension records system-wide lifecycle metrics.
// Register it as a store plugin to automatically track sale metrics.
type MetricsExtension struct {
	factory MetricFactory

	// Sale metrics
	SalesCompleted Counter
	SalesRejected  Counter
	SalesReverted  Counter
	SaleAmount     Histogram

	// Inventory metrics
	InventoryChanges Counter
	Shortages        Counter

	// Registry metrics
	ClerksHired Counter

	// Journal metrics
	TransactionsFlushed Counter
	FlushBatchSize      Histogram
	FlushLatency        Histogram

	// Balance metrics
	BalanceUpdates Counter
}

// NewMetricsExtension creates a MetricsExtension with the provided MetricFactory.
func NewMetricsExtension(factory MetricFactory) *MetricsExtension {
	return &MetricsExtension{
		factory: factory,

		// Sale metrics
		SalesCompleted: factory.Counter("storefront.sale.completed"),
		SalesRejected:  factory.Counter("storefront.sale.rejected"),
		SalesReverted:  factory.Counter("storefront.sale.reverted"),
		SaleAmount:     factory.Histogram("storefront.sale.amount"),

		// Inventory metrics
		InventoryChanges: factory.Counter("storefront.inventory.changes"),
		Shortages:        factory.Counter("storefront.inventory.shortages"),

		// Registry metrics
		ClerksHired: factory.Counter("storefront.clerk.hired"),

		// Journal metrics
		TransactionsFlushed: factory.Counter("storefront.journal.flushed"),
		FlushBatchSize:      factory.Histogram("storefront.journal.batch.size"),
		FlushLatency:        factory.Histogram("storefront.journal.flush.latency_ms"),

		// Balance metrics
		BalanceUpdates: factory.Counter("storefront.balance.updates"),
	}
}

// Name implements plugin.Plugin.
func (m *MetricsExtension) Name() string { return "observability-metrics" }

// OnInit implements plugin.OnInit.
func (m *MetricsExtension) OnInit(_ context.Context, _ interface{}) error {
	// No initialization needed
	return nil
}

// ──────────────────────────────────────────────────
// Sale lifecycle hooks
// ──────────────────────────────────────────────────

// OnSaleCompleted implements plugin.OnSaleCompleted.
func (m *MetricsExtension) OnSaleCompleted(_ context.Context, txn interface{}) error {
	m.SalesCompleted.Inc()
	if t, ok := txn.(event.Transaction); ok {
		m.SaleAmount.Observe(float64(t.Amount.Amount))
	}
	return nil
}

// OnSaleRejected implements plugin.OnSaleRejected.
func (m *MetricsExtension) OnSaleRejected(_ context.Context, _ string) error {
	m.SalesRejected.Inc()
	return nil
}

// OnSaleReverted implements plugin.OnSaleReverted.
func (m *MetricsExtension) OnSaleReverted(_ context.Context, _ string) error {
	m.SalesReverted.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Inventory hooks
// ──────────────────────────────────────────────────

// OnInventoryChanged implements plugin.OnInventoryChanged.
func (m *MetricsExtension) OnInventoryChanged(_ context.Context, _ string) error {
	m.InventoryChanges.Inc()
	return nil
}

// OnShortage implements plugin.OnShortage.
func (m *MetricsExtension) OnShortage(_ context.Context, _, _ string, _, _ int) error {
	m.Shortages.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Registry hooks
// ──────────────────────────────────────────────────

// OnClerkHired implements plugin.OnClerkHired.
func (m *MetricsExtension) OnClerkHired(_ context.Context, _ string) error {
	m.ClerksHired.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Balance hooks
// ──────────────────────────────────────────────────

// OnBalanceChanged implements plugin.OnBalanceChanged.
func (m *MetricsExtension) OnBalanceChanged(_ context.Context, _ string, _ interface{}) error {
	m.BalanceUpdates.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Journal hooks
// ──────────────────────────────────────────────────

// OnTransactionsFlushed implements plugin.OnTransactionsFlushed.
func (m *MetricsExtension) OnTransactionsFlushed(_ context.Context, count int, elapsed time.Duration) error {
	m.TransactionsFlushed.Add(float64(count))
	m.FlushBatchSize.Observe(float64(count))
	m.FlushLatency.Observe(float64(elapsed.Milliseconds()))
	return nil
}
