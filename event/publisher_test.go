package event

import (
	"context"
	"testing"

	"github.com/xraph/storefront/types"
)

func TestPublisherBoundedSet(t *testing.T) {
	p := NewPublisher(1)

	noop := HandlerFunc(func(context.Context, Transaction) {})

	if !p.Attach(noop) {
		t.Fatal("first attach should succeed")
	}
	if p.Attach(noop) {
		t.Error("attach beyond capacity should fail")
	}
	if p.Len() != 1 {
		t.Errorf("len: got %d, want 1", p.Len())
	}
}

func TestPublisherRejectsNil(t *testing.T) {
	p := NewPublisher(0)
	if p.Attach(nil) {
		t.Error("nil handler must not attach")
	}
}

func TestPublisherDeliversInAttachOrder(t *testing.T) {
	p := NewPublisher(0)

	var order []string
	p.Attach(HandlerFunc(func(_ context.Context, _ Transaction) { order = append(order, "first") }))
	p.Attach(HandlerFunc(func(_ context.Context, _ Transaction) { order = append(order, "second") }))

	p.Publish(context.Background(), NewTransaction(Earned, "addr", "sale", types.USD(100)))

	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("delivery order: %v", order)
	}
}

func TestTransactionSigned(t *testing.T) {
	tests := []struct {
		name string
		kind Kind
		want types.Money
	}{
		{"earned adds", Earned, types.USD(250)},
		{"spent subtracts", Spent, types.USD(-250)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txn := NewTransaction(tt.kind, "addr", "label", types.USD(250))
			if !txn.Signed().Equal(tt.want) {
				t.Errorf("Signed: got %v, want %v", txn.Signed(), tt.want)
			}
		})
	}
}

func TestNewTransactionStamps(t *testing.T) {
	txn := NewTransaction(Earned, "1 main st", "club sandwich", types.USD(425))

	if txn.ID.IsNil() {
		t.Error("transaction should get a fresh ID")
	}
	if txn.At.IsZero() {
		t.Error("transaction should be timestamped")
	}
	if txn.Origin != "1 main st" || txn.Label != "club sandwich" {
		t.Errorf("payload: %+v", txn)
	}
}
