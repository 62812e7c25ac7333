// Package discount provides the pricing-adjustment strategies clerks apply
// when designing products.
//
// Strategies are pure: they take a product value and return an adjusted
// product value, and must never touch inventory or any other shared state.
package discount

import (
	"github.com/xraph/storefront/product"
	"github.com/xraph/storefront/types"
)

// Strategy adjusts a designed product, typically its price, before it is
// assembled and sold.
type Strategy interface {
	Apply(p product.Product) product.Product
}

// Func is an adapter to use a plain function as a Strategy.
type Func func(p product.Product) product.Product

// Apply implements Strategy.
func (f Func) Apply(p product.Product) product.Product {
	return f(p)
}

// Identity returns the strategy that leaves products unchanged. It is the
// default for clerks hired without an explicit strategy.
func Identity() Strategy {
	return Func(func(p product.Product) product.Product {
		return p
	})
}

// Percentage returns a strategy that reduces the price by the given percent,
// clamped to [0, 100]. Integer arithmetic rounds down.
func Percentage(percent int64) Strategy {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	return Func(func(p product.Product) product.Product {
		discounted := types.Money{
			Amount:   p.Price.Amount * (100 - percent) / 100,
			Currency: p.Price.Currency,
		}
		return p.WithPrice(discounted)
	})
}

// FlatOff returns a strategy that subtracts a fixed amount from the price,
// flooring at zero.
func FlatOff(off types.Money) Strategy {
	return Func(func(p product.Product) product.Product {
		discounted := p.Price.Subtract(off)
		if discounted.IsNegative() {
			discounted = types.Zero(p.Price.Currency)
		}
		return p.WithPrice(discounted)
	})
}

// Compose chains strategies left to right.
func Compose(strategies ...Strategy) Strategy {
	return Func(func(p product.Product) product.Product {
		for _, s := range strategies {
			p = s.Apply(p)
		}
		return p
	})
}
