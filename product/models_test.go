package product

import (
	"testing"

	"github.com/xraph/storefront/types"
)

func TestProductFold(t *testing.T) {
	bread := Base("white bread", types.USD(100))
	cheese := Extra("cheese", types.USD(50))
	ham := Extra("ham", types.USD(75))

	p := New("ham and cheese", bread).With(cheese).With(ham)

	if !p.Price.Equal(types.USD(225)) {
		t.Errorf("price: got %v, want %v", p.Price, types.USD(225))
	}

	ingredients := p.Ingredients()
	want := []string{"white bread", "cheese", "ham"}
	if len(ingredients) != len(want) {
		t.Fatalf("ingredients: got %d, want %d", len(ingredients), len(want))
	}
	for i, desc := range want {
		if ingredients[i].Description != desc {
			t.Errorf("ingredient %d: got %q, want %q", i, ingredients[i].Description, desc)
		}
	}
}

func TestWithDoesNotMutate(t *testing.T) {
	base := New("plain", Base("white bread", types.USD(100)))
	extended := base.With(Extra("cheese", types.USD(50)))

	if len(base.Extras) != 0 {
		t.Errorf("original product mutated: %d extras", len(base.Extras))
	}
	if len(extended.Extras) != 1 {
		t.Errorf("extended product: got %d extras, want 1", len(extended.Extras))
	}
	if !base.Price.Equal(types.USD(100)) {
		t.Errorf("original price mutated: %v", base.Price)
	}
}

func TestIngredientStructuralKey(t *testing.T) {
	a := Extra("cheese", types.USD(50))
	b := Extra("cheese", types.USD(50))
	c := Base("cheese", types.USD(50))

	if a.MatchKey() != b.MatchKey() {
		t.Error("structurally identical ingredients should share a key")
	}
	// Kind is not part of the structural key; only description and cost are.
	if a.MatchKey() != c.MatchKey() {
		t.Error("kind must not affect the structural key")
	}
	if a.MatchKey() == Extra("cheese", types.USD(51)).MatchKey() {
		t.Error("cost must affect the structural key")
	}
}

func TestWithPrice(t *testing.T) {
	p := New("plain", Base("white bread", types.USD(100)))
	discounted := p.WithPrice(types.USD(80))

	if !discounted.Price.Equal(types.USD(80)) {
		t.Errorf("got %v, want %v", discounted.Price, types.USD(80))
	}
	if !p.Price.Equal(types.USD(100)) {
		t.Error("WithPrice must not mutate the receiver")
	}
	if len(discounted.Ingredients()) != len(p.Ingredients()) {
		t.Error("WithPrice must not change composition")
	}
}

func TestRepeatedIngredientMultiplicity(t *testing.T) {
	p := New("double cheese", Base("white bread", types.USD(100))).
		With(Extra("cheese", types.USD(50))).
		With(Extra("cheese", types.USD(50)))

	count := 0
	for _, ing := range p.Ingredients() {
		if ing.Description == "cheese" {
			count++
		}
	}
	if count != 2 {
		t.Errorf("multiplicity: got %d cheese, want 2", count)
	}
	if !p.Price.Equal(types.USD(200)) {
		t.Errorf("price: got %v, want %v", p.Price, types.USD(200))
	}
}
