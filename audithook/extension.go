// Package audithook bridges storefront lifecycle events to an audit trail
// backend.
//
// It defines a local Recorder interface so the package does not depend on a
// concrete audit system. Callers inject a RecorderFunc adapter that bridges
// to their backend at wiring time.
package audithook

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xraph/storefront/event"
	"github.com/xraph/storefront/plugin"
)

// Compile-time interface checks.
var (
	_ plugin.Plugin                = (*Extension)(nil)
	_ plugin.OnSaleCompleted       = (*Extension)(nil)
	_ plugin.OnSaleRejected        = (*Extension)(nil)
	_ plugin.OnSaleReverted        = (*Extension)(nil)
	_ plugin.OnInventoryChanged    = (*Extension)(nil)
	_ plugin.OnShortage            = (*Extension)(nil)
	_ plugin.OnBalanceChanged      = (*Extension)(nil)
	_ plugin.OnClerkHired          = (*Extension)(nil)
	_ plugin.OnTransactionsFlushed = (*Extension)(nil)
)

// Recorder is the interface that audit backends must implement. It is
// defined locally so this package carries no backend dependency; callers
// inject the concrete recorder at wiring time.
type Recorder interface {
	Record(ctx context.Context, event *AuditEvent) error
}

// AuditEvent is a local representation of an audit event.
type AuditEvent struct {
	Action     string         `json:"action"`
	Resource   string         `json:"resource"`
	Category   string         `json:"category"`
	ResourceID string         `json:"resource_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Outcome    string         `json:"outcome"`
	Severity   string         `json:"severity"`
	Reason     string         `json:"reason,omitempty"`
}

// RecorderFunc is an adapter to use a plain function as a Recorder.
type RecorderFunc func(ctx context.Context, event *AuditEvent) error

// Record implements Recorder.
func (f RecorderFunc) Record(ctx context.Context, event *AuditEvent) error {
	return f(ctx, event)
}

// Extension bridges storefront lifecycle events to an audit trail backend.
type Extension struct {
	recorder Recorder
	enabled  map[string]bool // nil = all enabled
	logger   *slog.Logger
}

// New creates an Extension that emits audit events through the provided Recorder.
func New(r Recorder, opts ...Option) *Extension {
	e := &Extension{
		recorder: r,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name implements plugin.Plugin.
func (e *Extension) Name() string { return "audit-hook" }

// ──────────────────────────────────────────────────
// Sale lifecycle hooks
// ──────────────────────────────────────────────────

// OnSaleCompleted implements plugin.OnSaleCompleted.
func (e *Extension) OnSaleCompleted(ctx context.Context, txn interface{}) error {
	kvPairs := []any{"event", "sale_completed"}
	resourceID := ""
	if t, ok := txn.(event.Transaction); ok {
		resourceID = t.ID.String()
		kvPairs = append(kvPairs,
			"origin", t.Origin,
			"label", t.Label,
			"amount", t.Amount.Amount,
			"currency", t.Amount.Currency,
		)
	}
	return e.record(ctx, ActionSaleCompleted, SeverityInfo, OutcomeSuccess,
		ResourceSale, resourceID, CategorySales, nil, kvPairs...)
}

// OnSaleRejected implements plugin.OnSaleRejected.
func (e *Extension) OnSaleRejected(ctx context.Context, reason string) error {
	return e.record(ctx, ActionSaleRejected, SeverityWarning, OutcomeFailure,
		ResourceSale, "", CategorySales, nil,
		"event", "sale_rejected",
		"reject_reason", reason,
	)
}

// OnSaleReverted implements plugin.OnSaleReverted.
func (e *Extension) OnSaleReverted(ctx context.Context, productName string) error {
	return e.record(ctx, ActionSaleReverted, SeverityWarning, OutcomePartial,
		ResourceSale, "", CategorySales, nil,
		"event", "sale_reverted",
		"product", productName,
	)
}

// ──────────────────────────────────────────────────
// Inventory hooks
// ──────────────────────────────────────────────────

// OnInventoryChanged implements plugin.OnInventoryChanged.
func (e *Extension) OnInventoryChanged(ctx context.Context, origin string) error {
	return e.record(ctx, ActionInventoryChanged, SeverityInfo, OutcomeSuccess,
		ResourceInventory, origin, CategoryInventory, nil,
		"event", "inventory_changed",
	)
}

// OnShortage implements plugin.OnShortage.
func (e *Extension) OnShortage(ctx context.Context, origin, description string, current, required int) error {
	return e.record(ctx, ActionInventoryShortage, SeverityWarning, OutcomeFailure,
		ResourceInventory, origin, CategoryInventory, nil,
		"event", "inventory_shortage",
		"article", description,
		"current", current,
		"required", required,
	)
}

// ──────────────────────────────────────────────────
// Balance hooks
// ──────────────────────────────────────────────────

// OnBalanceChanged implements plugin.OnBalanceChanged.
func (e *Extension) OnBalanceChanged(ctx context.Context, origin string, balance interface{}) error {
	return e.record(ctx, ActionBalanceChanged, SeverityInfo, OutcomeSuccess,
		ResourceBalance, origin, CategoryFinance, nil,
		"event", "balance_changed",
		"balance", fmt.Sprintf("%v", balance),
	)
}

// ──────────────────────────────────────────────────
// Registry hooks
// ──────────────────────────────────────────────────

// OnClerkHired implements plugin.OnClerkHired.
func (e *Extension) OnClerkHired(ctx context.Context, clerkName string) error {
	return e.record(ctx, ActionClerkHired, SeverityInfo, OutcomeSuccess,
		ResourceClerk, clerkName, CategoryStaffing, nil,
		"event", "clerk_hired",
	)
}

// ──────────────────────────────────────────────────
// Journal hooks
// ──────────────────────────────────────────────────

// OnTransactionsFlushed implements plugin.OnTransactionsFlushed.
func (e *Extension) OnTransactionsFlushed(ctx context.Context, count int, elapsed time.Duration) error {
	return e.record(ctx, ActionTransactionsFlushed, SeverityInfo, OutcomeSuccess,
		ResourceJournal, "", CategoryPersistence, nil,
		"event", "transactions_flushed",
		"count", count,
		"elapsed_ms", elapsed.Milliseconds(),
	)
}

// ──────────────────────────────────────────────────
// Internal helpers
// ──────────────────────────────────────────────────

// record builds and sends an audit event if the action is enabled.
func (e *Extension) record(
	ctx context.Context,
	action, severity, outcome string,
	resource, resourceID, category string,
	err error,
	kvPairs ...any,
) error {
	if e.enabled != nil && !e.enabled[action] {
		return nil
	}

	meta := make(map[string]any, len(kvPairs)/2+1)
	for i := 0; i+1 < len(kvPairs); i += 2 {
		key, ok := kvPairs[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", kvPairs[i])
		}
		meta[key] = kvPairs[i+1]
	}

	var reason string
	if err != nil {
		reason = err.Error()
		meta["error"] = err.Error()
	}

	evt := &AuditEvent{
		Action:     action,
		Resource:   resource,
		Category:   category,
		ResourceID: resourceID,
		Metadata:   meta,
		Outcome:    outcome,
		Severity:   severity,
		Reason:     reason,
	}

	if recErr := e.recorder.Record(ctx, evt); recErr != nil {
		e.logger.Warn("audithook: failed to record audit event",
			"action", action,
			"resource_id", resourceID,
			"error", recErr,
		)
	}
	return nil
}
