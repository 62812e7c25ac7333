package discount

import (
	"testing"

	"github.com/xraph/storefront/product"
	"github.com/xraph/storefront/types"
)

func sample(price int64) product.Product {
	return product.New("club", product.Base("white bread", types.USD(price)))
}

func TestStrategies(t *testing.T) {
	tests := []struct {
		name     string
		strategy Strategy
		price    int64
		want     int64
	}{
		{"identity", Identity(), 400, 400},
		{"ten percent", Percentage(10), 400, 360},
		{"full percent", Percentage(100), 400, 0},
		{"negative percent clamps", Percentage(-5), 400, 400},
		{"over 100 clamps", Percentage(150), 400, 0},
		{"percent rounds down", Percentage(10), 99, 89},
		{"flat off", FlatOff(types.USD(150)), 400, 250},
		{"flat off floors at zero", FlatOff(types.USD(500)), 400, 0},
		{"compose", Compose(Percentage(50), FlatOff(types.USD(100))), 400, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.strategy.Apply(sample(tt.price))
			if !got.Price.Equal(types.USD(tt.want)) {
				t.Errorf("price: got %v, want %v", got.Price, types.USD(tt.want))
			}
		})
	}
}

func TestStrategiesArePure(t *testing.T) {
	p := sample(400)
	_ = Percentage(50).Apply(p)

	if !p.Price.Equal(types.USD(400)) {
		t.Errorf("strategy mutated its input: %v", p.Price)
	}
}

func TestStrategyKeepsComposition(t *testing.T) {
	p := sample(400).With(product.Extra("cheese", types.USD(50)))
	got := Percentage(10).Apply(p)

	if len(got.Ingredients()) != len(p.Ingredients()) {
		t.Error("strategy changed product composition")
	}
}
