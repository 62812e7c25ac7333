package storefront

import (
	"context"

	"github.com/xraph/storefront/article"
	"github.com/xraph/storefront/discount"
	"github.com/xraph/storefront/event"
	"github.com/xraph/storefront/id"
	"github.com/xraph/storefront/product"
)

// Clerk is an assembly agent bound to exactly one store for its whole life.
// It designs products from requested ingredients, performs the multi-item
// atomic consumption against its owner's inventory, and reports every
// completed sale to the owner through its publisher.
type Clerk struct {
	id       id.ID
	name     string
	owner    *Store
	strategy discount.Strategy

	// publisher accepts at most one subscriber: the owning store.
	publisher *event.Publisher
}

// ClerkOption configures a Clerk at hire time.
type ClerkOption func(*Clerk)

// WithDiscount sets the clerk's discount strategy. Defaults to identity.
func WithDiscount(strategy discount.Strategy) ClerkOption {
	return func(c *Clerk) {
		if strategy != nil {
			c.strategy = strategy
		}
	}
}

// WithNamedDiscount resolves the strategy from the owner's plugin registry.
// An unknown name leaves the current strategy in place.
func WithNamedDiscount(name string) ClerkOption {
	return func(c *Clerk) {
		p := c.owner.plugins.GetDiscountStrategy(name)
		if p == nil {
			return
		}
		if strategy, ok := p.Strategy().(discount.Strategy); ok {
			c.strategy = strategy
		}
	}
}

// newClerk constructs a clerk owned by the given store. Clerks are created
// only through Store.Hire, which also binds the owner subscription.
func newClerk(name string, owner *Store, opts ...ClerkOption) *Clerk {
	c := &Clerk{
		id:        id.NewClerkID(),
		name:      name,
		owner:     owner,
		strategy:  discount.Identity(),
		publisher: event.NewPublisher(1),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// ID returns the clerk's unique identifier.
func (c *Clerk) ID() id.ID { return c.id }

// Name returns the clerk's name.
func (c *Clerk) Name() string { return c.name }

// Owner returns the store this clerk is bound to.
func (c *Clerk) Owner() *Store { return c.owner }

// Subscribe binds a store as this clerk's single subscriber. A nil store is
// an invalid-argument error; any store other than the owner is silently
// ignored, preserving the owner as balance-of-record.
func (c *Clerk) Subscribe(s *Store) error {
	if s == nil {
		return ErrNilSubscriber
	}
	if s != c.owner {
		return nil
	}

	c.publisher.Attach(s)
	return nil
}

// Unsubscribe is a permanent no-op: once bound, a clerk never stops
// reporting to its owner.
func (c *Clerk) Unsubscribe() {}

// DesignProduct composes a product from the requested ingredients: exactly
// one base ingredient must be present, the remaining extras are folded on in
// request order, and the clerk's discount strategy is applied. It returns
// false, and a zero product, for zero or multiple bases, and for requests
// mixing currencies (the price fold requires a single currency).
//
// Designing is pure; inventory is not touched until the product is assembled.
func (c *Clerk) DesignProduct(ingredients []product.Ingredient) (product.Product, bool) {
	baseIdx := -1
	for i, ing := range ingredients {
		if !ing.IsBase() {
			continue
		}
		if baseIdx >= 0 {
			return product.Product{}, false
		}
		baseIdx = i
	}
	if baseIdx < 0 {
		return product.Product{}, false
	}

	for _, ing := range ingredients {
		if ing.Cost.Currency != ingredients[baseIdx].Cost.Currency {
			return product.Product{}, false
		}
	}

	p := product.New(ingredients[baseIdx].Description, ingredients[baseIdx])
	for i, ing := range ingredients {
		if i == baseIdx {
			continue
		}
		p = p.With(ing)
	}

	return c.strategy.Apply(p), true
}

// Sell designs, assembles, and reports a sale. On success the owner receives
// an Earned transaction for the product's price; on any failure the owner's
// inventory is left identical to its pre-call state and nothing is emitted.
func (c *Clerk) Sell(ctx context.Context, ingredients []product.Ingredient) bool {
	p, ok := c.DesignProduct(ingredients)
	if !ok {
		c.owner.plugins.EmitSaleRejected(ctx, "not exactly one base ingredient")
		return false
	}

	if !c.assemble(p) {
		c.owner.plugins.EmitSaleReverted(ctx, p.Name)
		return false
	}

	txn := event.NewTransaction(event.Earned, c.owner.address, p.Name, p.Price)
	c.publisher.Publish(ctx, txn)

	c.owner.plugins.EmitInventoryChanged(ctx, c.owner.address)
	c.owner.plugins.EmitSaleCompleted(ctx, txn)
	for _, a := range c.owner.lowStock() {
		c.owner.plugins.EmitShortage(ctx, c.owner.address, a.Description, a.Current, a.Required)
	}

	c.owner.logger.Info("sale completed",
		"clerk", c.name,
		"product", p.Name,
		"price", p.Price,
	)
	return true
}

// FetchMenuItem returns the discount-adjusted product at the given index in
// the owner's menu, or false when the index is out of range.
func (c *Clerk) FetchMenuItem(index int) (product.Product, bool) {
	menu := c.owner.Menu()
	if index < 0 || index >= len(menu) {
		return product.Product{}, false
	}
	return c.strategy.Apply(menu[index]), true
}

// assemble performs the multi-item atomic consumption: it groups the
// product's ingredients into first-seen ordered (item, multiplicity) pairs,
// consumes each against the owner, and on any failure replenishes every
// already-consumed pair before returning false. The entire sequence runs
// under the owner's inventory mutex; without that covering lock two
// concurrent sales could both observe sufficient stock before either
// decrements.
func (c *Clerk) assemble(p product.Product) bool {
	type pair struct {
		item product.Ingredient
		qty  int
	}

	var pairs []pair
	index := make(map[article.Key]int)
	for _, ing := range p.Ingredients() {
		k := ing.MatchKey()
		if i, ok := index[k]; ok {
			pairs[i].qty++
			continue
		}
		index[k] = len(pairs)
		pairs = append(pairs, pair{item: ing, qty: 1})
	}

	s := c.owner
	s.mu.Lock()
	defer s.mu.Unlock()

	consumed := make([]pair, 0, len(pairs))
	for _, pr := range pairs {
		if !s.consumeLocked(pr.item, pr.qty) {
			// Compensate everything consumed so far; per-item replenish is
			// idempotent, so order does not matter.
			for _, d := range consumed {
				s.replenishLocked(d.item, d.qty)
			}
			return false
		}
		consumed = append(consumed, pr)
	}

	return true
}
