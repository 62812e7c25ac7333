// Package event defines the sale transaction payload and the publisher
// relation through which clerks report to their owning store and stores
// republish to supervisors.
package event

import (
	"time"

	"github.com/xraph/storefront/id"
	"github.com/xraph/storefront/types"
)

// Kind classifies a transaction's effect on the receiving balance.
type Kind string

const (
	// Earned increases the balance (a completed sale).
	Earned Kind = "EARNED"
	// Spent decreases the balance (a purchase or payout).
	Spent Kind = "SPENT"
)

// Transaction is the sale event payload. Amount is always non-negative;
// Kind carries the sign.
type Transaction struct {
	ID     id.ID       `json:"id"`
	Kind   Kind        `json:"kind"`
	Origin string      `json:"origin"` // address of the originating store
	Label  string      `json:"label"`  // human-readable subject, e.g. the product name
	Amount types.Money `json:"amount"`
	At     time.Time   `json:"at"`
}

// NewTransaction builds a transaction stamped with a fresh ID and timestamp.
func NewTransaction(kind Kind, origin, label string, amount types.Money) Transaction {
	return Transaction{
		ID:     id.NewTransactionID(),
		Kind:   kind,
		Origin: origin,
		Label:  label,
		Amount: amount,
		At:     time.Now().UTC(),
	}
}

// Signed returns the balance delta this transaction represents: +Amount for
// Earned, -Amount for Spent.
func (t Transaction) Signed() types.Money {
	if t.Kind == Spent {
		return t.Amount.Negate()
	}
	return t.Amount
}
