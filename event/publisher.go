package event

import (
	"context"
	"sync"
)

// Handler receives published transactions.
type Handler interface {
	HandleTransaction(ctx context.Context, txn Transaction)
}

// HandlerFunc is an adapter to use a plain function as a Handler.
type HandlerFunc func(ctx context.Context, txn Transaction)

// HandleTransaction implements Handler.
func (f HandlerFunc) HandleTransaction(ctx context.Context, txn Transaction) {
	f(ctx, txn)
}

// Publisher owns a bounded subscriber set and delivers each published
// transaction to every subscriber's handler, in attach order. Attachment
// is permanent; there is no detach.
type Publisher struct {
	mu   sync.Mutex
	max  int // 0 or negative means unbounded
	subs []Handler
}

// NewPublisher creates a publisher accepting at most max subscribers.
// A max of zero or below means unbounded.
func NewPublisher(max int) *Publisher {
	return &Publisher{max: max}
}

// Attach adds a subscriber. It returns false, without attaching, when the
// handler is nil or the subscriber set is full.
func (p *Publisher) Attach(h Handler) bool {
	if h == nil {
		return false
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.max > 0 && len(p.subs) >= p.max {
		return false
	}
	p.subs = append(p.subs, h)
	return true
}

// Publish delivers the transaction to every attached subscriber. Handlers
// run synchronously on the caller's goroutine, outside the publisher lock.
func (p *Publisher) Publish(ctx context.Context, txn Transaction) {
	p.mu.Lock()
	subs := make([]Handler, len(p.subs))
	copy(subs, p.subs)
	p.mu.Unlock()

	for _, h := range subs {
		h.HandleTransaction(ctx, txn)
	}
}

// Len returns the current number of subscribers.
func (p *Publisher) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.subs)
}
