package article

import (
	"errors"
	"fmt"
)

// ErrDuplicateID is returned when an article with an already-present ID is
// added to an inventory.
var ErrDuplicateID = errors.New("article: duplicate article id")

// Inventory is a set of articles with a unique-ID invariant. It carries no
// locking of its own; callers that share an Inventory across goroutines must
// serialize access (the store does, per inventory).
type Inventory struct {
	articles []*Article
	byID     map[string]*Article
}

// NewInventory returns an empty inventory.
func NewInventory() *Inventory {
	return &Inventory{
		byID: make(map[string]*Article),
	}
}

// Add inserts an article. It fails with ErrDuplicateID if an article with
// the same ID is already present; the inventory is left unchanged.
func (inv *Inventory) Add(a *Article) error {
	if a == nil {
		return errors.New("article: nil article")
	}
	if _, exists := inv.byID[a.ID.String()]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateID, a.ID)
	}

	inv.byID[a.ID.String()] = a
	inv.articles = append(inv.articles, a)
	return nil
}

// Find returns the article matching the given structural key, or nil.
func (inv *Inventory) Find(key Key) *Article {
	for _, a := range inv.articles {
		if a.MatchKey() == key {
			return a
		}
	}
	return nil
}

// Get returns the article with the given ID string, or nil.
func (inv *Inventory) Get(articleID string) *Article {
	return inv.byID[articleID]
}

// Len returns the number of articles.
func (inv *Inventory) Len() int {
	return len(inv.articles)
}

// Articles returns the articles in insertion order. The slice is a copy but
// the pointers are shared; callers must not mutate quantities directly.
func (inv *Inventory) Articles() []*Article {
	out := make([]*Article, len(inv.articles))
	copy(out, inv.articles)
	return out
}

// Snapshot returns a deep value copy of all articles, suitable for
// before/after comparison and for persistence.
func (inv *Inventory) Snapshot() []Article {
	out := make([]Article, len(inv.articles))
	for i, a := range inv.articles {
		out[i] = *a
	}
	return out
}
