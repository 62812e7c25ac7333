// Package article defines the stock records held in a store's inventory
// and the structural key used to match requested items against them.
package article

import (
	"github.com/xraph/storefront/id"
	"github.com/xraph/storefront/types"
)

// Key is the structural match key for inventory lookups. Two items with the
// same description and cost are interchangeable and indistinguishable to the
// inventory, regardless of object identity. Key is comparable and usable as
// a map key.
type Key struct {
	Description string
	Cost        types.Money
}

// Item is anything that can be resolved against an inventory: an Article
// itself, or an externally supplied ingredient value.
type Item interface {
	MatchKey() Key
}

// Article is a uniquely identified stock record. Current is mutated only
// through the store's consumption protocol; no other path may change it.
type Article struct {
	types.Entity
	ID          id.ID       `json:"id"`
	Description string      `json:"description"`
	Cost        types.Money `json:"cost"`
	Current     int         `json:"current"`
	Required    int         `json:"required"`
}

// MatchKey implements Item.
func (a *Article) MatchKey() Key {
	return Key{Description: a.Description, Cost: a.Cost}
}

// Shortfall returns Required - Current. Articles with a non-negative
// shortfall are reported by the store's missing-articles listing; note the
// threshold is inclusive, so an exactly-stocked article still shows up.
func (a *Article) Shortfall() int {
	return a.Required - a.Current
}
