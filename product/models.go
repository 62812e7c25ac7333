// Package product defines the ingredient values and composed products that
// clerks assemble and sell.
//
// Ingredients are pure values matched structurally (description + cost)
// against inventory articles; two structurally identical ingredients are
// interchangeable. A valid product is an ordered fold of exactly one base
// ingredient plus zero or more extras.
package product

import (
	"github.com/xraph/storefront/article"
	"github.com/xraph/storefront/id"
	"github.com/xraph/storefront/types"
)

// Kind distinguishes the base ingredient from additional ones.
type Kind string

const (
	// KindBase marks the distinguished ingredient required exactly once
	// per valid product request.
	KindBase Kind = "base"
	// KindExtra marks any additional ingredient.
	KindExtra Kind = "extra"
)

// Ingredient is an externally supplied component value. It carries no
// identity; the inventory resolves it purely by its structural key.
type Ingredient struct {
	Description string      `json:"description"`
	Cost        types.Money `json:"cost"`
	Kind        Kind        `json:"kind"`
}

// Base constructs a base ingredient.
func Base(description string, cost types.Money) Ingredient {
	return Ingredient{Description: description, Cost: cost, Kind: KindBase}
}

// Extra constructs an additional ingredient.
func Extra(description string, cost types.Money) Ingredient {
	return Ingredient{Description: description, Cost: cost, Kind: KindExtra}
}

// MatchKey implements article.Item.
func (i Ingredient) MatchKey() article.Key {
	return article.Key{Description: i.Description, Cost: i.Cost}
}

// IsBase reports whether this is the distinguished base ingredient.
func (i Ingredient) IsBase() bool {
	return i.Kind == KindBase
}

// Product is a composite built from exactly one base ingredient plus zero or
// more extras, in request order. Product is a value type: folds and discount
// adjustments return new values and never mutate inventory state.
type Product struct {
	ID     id.ID        `json:"id"`
	Name   string       `json:"name"`
	Base   Ingredient   `json:"base"`
	Extras []Ingredient `json:"extras,omitempty"`
	Price  types.Money  `json:"price"`
}

// New starts a product fold from its base ingredient. The initial price is
// the base cost; each With call adds the extra's cost.
func New(name string, base Ingredient) Product {
	return Product{
		ID:    id.NewProductID(),
		Name:  name,
		Base:  base,
		Price: base.Cost,
	}
}

// With folds an extra ingredient onto the product, returning the new value.
func (p Product) With(extra Ingredient) Product {
	extras := make([]Ingredient, len(p.Extras), len(p.Extras)+1)
	copy(extras, p.Extras)
	p.Extras = append(extras, extra)
	p.Price = p.Price.Add(extra.Cost)
	return p
}

// WithPrice returns a copy of the product with the given price. Used by
// discount strategies; composition is unchanged.
func (p Product) WithPrice(price types.Money) Product {
	p.Price = price
	return p
}

// Ingredients returns the product's required components in fold order:
// the base first, then each extra. Repeated values represent multiplicity.
func (p Product) Ingredients() []Ingredient {
	out := make([]Ingredient, 0, len(p.Extras)+1)
	out = append(out, p.Base)
	out = append(out, p.Extras...)
	return out
}
