package memory

import (
	"context"
	"testing"
	"time"

	"github.com/xraph/storefront/event"
	"github.com/xraph/storefront/journal"
	"github.com/xraph/storefront/types"
)

func entry(kind event.Kind, origin string, amount int64) *journal.Entry {
	return journal.FromTransaction(event.NewTransaction(kind, origin, "test", types.USD(amount)))
}

func TestAppendAndBalance(t *testing.T) {
	ctx := context.Background()
	j := New()

	entries := []*journal.Entry{
		entry(event.Earned, "1 main st", 400),
		entry(event.Earned, "1 main st", 250),
		entry(event.Spent, "1 main st", 100),
		entry(event.Earned, "2 oak ave", 999),
	}
	if err := j.AppendBatch(ctx, entries); err != nil {
		t.Fatalf("append: %v", err)
	}

	balance, err := j.Balance(ctx, "1 main st")
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance != 550 {
		t.Errorf("balance: got %d, want 550", balance)
	}

	other, _ := j.Balance(ctx, "2 oak ave")
	if other != 999 {
		t.Errorf("other origin balance: got %d, want 999", other)
	}
}

func TestAppendIdempotent(t *testing.T) {
	ctx := context.Background()
	j := New()

	e := entry(event.Earned, "addr", 100)
	if err := j.AppendBatch(ctx, []*journal.Entry{e}); err != nil {
		t.Fatal(err)
	}
	// Retried flush with the same entry ID must not double-count.
	if err := j.AppendBatch(ctx, []*journal.Entry{e}); err != nil {
		t.Fatal(err)
	}

	balance, _ := j.Balance(ctx, "addr")
	if balance != 100 {
		t.Errorf("balance after retry: got %d, want 100", balance)
	}
}

func TestListFilters(t *testing.T) {
	ctx := context.Background()
	j := New()

	if err := j.AppendBatch(ctx, []*journal.Entry{
		entry(event.Earned, "addr", 100),
		entry(event.Spent, "addr", 50),
		entry(event.Earned, "addr", 200),
	}); err != nil {
		t.Fatal(err)
	}

	earned, err := j.List(ctx, "addr", journal.ListOpts{Kind: event.Earned})
	if err != nil {
		t.Fatal(err)
	}
	if len(earned) != 2 {
		t.Errorf("earned entries: got %d, want 2", len(earned))
	}

	limited, _ := j.List(ctx, "addr", journal.ListOpts{Limit: 1, Offset: 1})
	if len(limited) != 1 {
		t.Errorf("limit/offset: got %d entries, want 1", len(limited))
	}

	none, _ := j.List(ctx, "elsewhere", journal.ListOpts{})
	if len(none) != 0 {
		t.Errorf("unknown origin: got %d entries, want 0", len(none))
	}
}

func TestListReturnsCopies(t *testing.T) {
	ctx := context.Background()
	j := New()

	if err := j.AppendBatch(ctx, []*journal.Entry{
		entry(event.Earned, "addr", 100),
	}); err != nil {
		t.Fatal(err)
	}

	listed, err := j.List(ctx, "addr", journal.ListOpts{})
	if err != nil {
		t.Fatal(err)
	}
	if len(listed) != 1 {
		t.Fatalf("got %d entries, want 1", len(listed))
	}

	// Mutating a listed entry must not rewrite stored history.
	listed[0].Amount = 999999
	listed[0].Kind = event.Spent

	balance, _ := j.Balance(ctx, "addr")
	if balance != 100 {
		t.Errorf("balance after caller mutation: got %d, want 100", balance)
	}
}

func TestPurge(t *testing.T) {
	ctx := context.Background()
	j := New()

	old := entry(event.Earned, "addr", 100)
	old.RecordedAt = time.Now().Add(-48 * time.Hour)
	recent := entry(event.Earned, "addr", 200)

	if err := j.AppendBatch(ctx, []*journal.Entry{old, recent}); err != nil {
		t.Fatal(err)
	}

	removed, err := j.Purge(ctx, time.Now().Add(-24*time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if removed != 1 {
		t.Errorf("purged: got %d, want 1", removed)
	}

	remaining, _ := j.List(ctx, "addr", journal.ListOpts{})
	if len(remaining) != 1 {
		t.Errorf("remaining: got %d, want 1", len(remaining))
	}
}
