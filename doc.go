// Package storefront provides a transactional inventory-consumption and
// sale-event engine for Go applications.
//
// Storefront is designed as a library, not a service. Import it directly
// into your Go application. It provides:
//
//   - An inventory ledger with an atomic per-item consumption protocol
//   - Multi-item atomic assembly with compensation on partial failure
//   - A restricted publish/subscribe chain from clerks to their owning store
//   - A running balance derived only from observed sale transactions
//   - Pluggable discount strategies applied at product design time
//   - An append-only transaction journal with memory, SQLite, PostgreSQL,
//     and MongoDB drivers
//   - Lifecycle hooks for sales, inventory changes, and balance updates
//
// # Quick Start
//
// Create a store with a stocker that populates its inventory:
//
//	import (
//	    "github.com/xraph/storefront"
//	    "github.com/xraph/storefront/article"
//	    "github.com/xraph/storefront/id"
//	    "github.com/xraph/storefront/product"
//	)
//
//	stock := storefront.StockerFunc(func(inv *article.Inventory) error {
//	    return inv.Add(&article.Article{
//	        Entity:      storefront.NewEntity(),
//	        ID:          id.NewArticleID(),
//	        Description: "white bread",
//	        Cost:        storefront.USD(100),
//	        Current:     10,
//	        Required:    5,
//	    })
//	})
//
//	store, err := storefront.New("Corner Deli", "1 Main St", stock)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Start the store (begins background workers)
//	if err := store.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer store.Stop()
//
// # Core Concepts
//
// Clerks are hired from a store and stay bound to it for life. Every sale a
// clerk completes is reported to its owner, which updates the balance and
// republishes to supervisors:
//
//	clerk := store.Hire("alice")
//
//	ok := clerk.Sell(ctx, []product.Ingredient{
//	    product.Base("white bread", storefront.USD(100)),
//	    product.Extra("cheese", storefront.USD(50)),
//	})
//
// A sale either consumes every required article and credits the balance, or
// consumes nothing at all; partial consumption is always compensated.
//
// Discount strategies adjust prices at design time without touching
// inventory:
//
//	clerk := store.Hire("bob", storefront.WithDiscount(discount.Percentage(10)))
//
// # Concurrency
//
// Each store serializes inventory access and balance updates behind its own
// mutex, so two clerks racing for the last unit of stock resolve to exactly
// one winner. Independent stores never contend with each other.
//
// All monetary calculations use integer arithmetic to avoid floating-point
// precision issues. The Money type represents amounts in the smallest
// currency unit (cents for USD, pence for GBP, etc).
//
// # TypeID
//
// All entities use TypeID for globally unique, type-safe identifiers:
//
//	store_01h2xcejqtf2nbrexx3vqjhp41  // Store ID
//	clerk_01h2xcejqtf2nbrexx3vqjhp41  // Clerk ID
//	txn_01h455vb4pex5vsknk084sn02q    // Transaction ID
//
// TypeIDs are K-sortable, making them ideal for database indexes and
// providing natural time-ordering of entities.
package storefront
