// Package journal defines the append-only transaction journal collaborator.
//
// The journal records every transaction a store handles, in order, and can
// recompute a balance by replaying entries. It is append-only: entries are
// never updated or deleted (Purge trims by age only). Corrections are made
// by recording an opposite-kind entry, never by editing history.
package journal

import (
	"context"
	"time"

	"github.com/xraph/storefront/event"
	"github.com/xraph/storefront/id"
)

// Entry is a journaled transaction. Amount is stored flattened (smallest
// currency unit plus currency code) so drivers don't need a composite type.
type Entry struct {
	ID         id.ID      `json:"id"`
	Kind       event.Kind `json:"kind"`
	Origin     string     `json:"origin"`
	Label      string     `json:"label"`
	Amount     int64      `json:"amount"`
	Currency   string     `json:"currency"`
	RecordedAt time.Time  `json:"recorded_at"`
}

// FromTransaction converts a transaction into a journal entry.
func FromTransaction(txn event.Transaction) *Entry {
	return &Entry{
		ID:         txn.ID,
		Kind:       txn.Kind,
		Origin:     txn.Origin,
		Label:      txn.Label,
		Amount:     txn.Amount.Amount,
		Currency:   txn.Amount.Currency,
		RecordedAt: txn.At,
	}
}

// Signed returns the balance delta this entry represents: +Amount for
// Earned, -Amount for Spent.
func (e *Entry) Signed() int64 {
	if e.Kind == event.Spent {
		return -e.Amount
	}
	return e.Amount
}

// ListOpts controls List queries.
type ListOpts struct {
	Kind   event.Kind // empty means all kinds
	Since  time.Time  // zero means no lower bound
	Limit  int        // 0 means no limit
	Offset int
}

// Journal is the storage interface for transaction entries. All drivers
// (memory, sqlite, postgres, mongo) implement it.
type Journal interface {
	// AppendBatch records entries. Entries with an already-journaled ID
	// are skipped, making retried flushes idempotent.
	AppendBatch(ctx context.Context, entries []*Entry) error

	// List returns entries for an origin in recording order.
	List(ctx context.Context, origin string, opts ListOpts) ([]*Entry, error)

	// Balance recomputes the running balance for an origin by replaying
	// all of its entries.
	Balance(ctx context.Context, origin string) (int64, error)

	// Purge removes entries recorded before the given time and returns
	// how many were removed.
	Purge(ctx context.Context, before time.Time) (int64, error)

	// Migrate prepares the underlying storage.
	Migrate(ctx context.Context) error

	// Ping checks storage connectivity.
	Ping(ctx context.Context) error

	// Close releases storage resources.
	Close() error
}
