// Package memory provides an in-memory journal driver, suitable for tests
// and single-process deployments that don't need the journal to survive a
// restart.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/xraph/storefront/journal"
)

// compile-time interface check
var _ journal.Journal = (*Journal)(nil)

// Journal implements journal.Journal backed by a slice.
type Journal struct {
	mu      sync.RWMutex
	entries []*journal.Entry
	seen    map[string]bool
}

// New creates an empty in-memory journal.
func New() *Journal {
	return &Journal{
		seen: make(map[string]bool),
	}
}

func (j *Journal) AppendBatch(_ context.Context, entries []*journal.Entry) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	for _, e := range entries {
		key := e.ID.String()
		if key != "" && j.seen[key] {
			continue
		}
		cp := *e
		j.entries = append(j.entries, &cp)
		if key != "" {
			j.seen[key] = true
		}
	}
	return nil
}

func (j *Journal) List(_ context.Context, origin string, opts journal.ListOpts) ([]*journal.Entry, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	result := make([]*journal.Entry, 0)
	for _, e := range j.entries {
		if e.Origin != origin {
			continue
		}
		if opts.Kind != "" && e.Kind != opts.Kind {
			continue
		}
		if !opts.Since.IsZero() && e.RecordedAt.Before(opts.Since) {
			continue
		}
		// Copy out so callers cannot mutate stored history.
		cp := *e
		result = append(result, &cp)
	}

	start := opts.Offset
	if start > len(result) {
		start = len(result)
	}
	end := start + opts.Limit
	if opts.Limit == 0 || end > len(result) {
		end = len(result)
	}

	return result[start:end], nil
}

func (j *Journal) Balance(_ context.Context, origin string) (int64, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	var total int64
	for _, e := range j.entries {
		if e.Origin == origin {
			total += e.Signed()
		}
	}
	return total, nil
}

func (j *Journal) Purge(_ context.Context, before time.Time) (int64, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	kept := j.entries[:0]
	var removed int64
	for _, e := range j.entries {
		if e.RecordedAt.Before(before) {
			removed++
			delete(j.seen, e.ID.String())
			continue
		}
		kept = append(kept, e)
	}
	j.entries = kept
	return removed, nil
}

func (j *Journal) Migrate(_ context.Context) error { return nil }

func (j *Journal) Ping(_ context.Context) error { return nil }

func (j *Journal) Close() error { return nil }
