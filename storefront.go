package storefront

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/xraph/storefront/article"
	"github.com/xraph/storefront/event"
	"github.com/xraph/storefront/id"
	"github.com/xraph/storefront/journal"
	"github.com/xraph/storefront/plugin"
	"github.com/xraph/storefront/product"
	"github.com/xraph/storefront/types"
)

// Stocker populates a store's inventory exactly once, at construction time.
// A returned error aborts construction.
type Stocker interface {
	Stock(inv *article.Inventory) error
}

// StockerFunc is an adapter to use a plain function as a Stocker.
type StockerFunc func(inv *article.Inventory) error

// Stock implements Stocker.
func (f StockerFunc) Stock(inv *article.Inventory) error {
	return f(inv)
}

// Store is the owning ledger: it holds the inventory, the menu, the hired
// clerks, and the running balance derived from the sale transactions its
// clerks report.
//
// The store serializes all inventory access and balance updates behind a
// single per-store mutex; independent stores never contend with each other.
type Store struct {
	types.Entity
	id       id.ID
	name     string
	address  string
	currency string // immutable after construction

	mu        sync.Mutex
	inventory *article.Inventory
	menu      []product.Product
	balance   types.Money
	clerks    []*Clerk

	publisher *event.Publisher
	plugins   *plugin.Registry
	logger    *slog.Logger
	journal   journal.Journal

	// Background workers
	txnBuffer chan *journal.Entry
	stopChan  chan struct{}
	stopOnce  sync.Once
	wg        sync.WaitGroup

	// Configuration
	flushBatchSize int
	flushInterval  time.Duration
}

// Store implements event.Handler: clerks deliver their sale transactions to
// their owning store through HandleTransaction.
var _ event.Handler = (*Store)(nil)

// New creates a store and populates its inventory through the stocker.
// Construction fails if the stocker is nil, returns an error, or inserts two
// articles with the same ID.
func New(name, address string, stock Stocker, opts ...Option) (*Store, error) {
	if stock == nil {
		return nil, ErrNilStocker
	}

	s := &Store{
		Entity:         types.NewEntity(),
		id:             id.NewStoreID(),
		name:           name,
		address:        address,
		inventory:      article.NewInventory(),
		publisher:      event.NewPublisher(0),
		plugins:        plugin.NewRegistry(),
		logger:         slog.Default(),
		txnBuffer:      make(chan *journal.Entry, 10000),
		stopChan:       make(chan struct{}),
		flushBatchSize: 100,
		flushInterval:  5 * time.Second,
	}

	for _, opt := range opts {
		opt(s)
	}
	if s.currency == "" {
		s.currency = "usd"
	}
	s.balance = types.Zero(s.currency)

	if err := stock.Stock(s.inventory); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStockingFailed, err)
	}
	for _, a := range s.inventory.Articles() {
		if a.Cost.Currency != s.currency {
			return nil, fmt.Errorf("%w: article %q priced in %q, store settles in %q",
				ErrCurrencyMismatch, a.Description, a.Cost.Currency, s.currency)
		}
	}

	return s, nil
}

// Option configures a Store instance.
type Option func(*Store)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
		s.plugins.WithLogger(logger)
	}
}

// WithPlugin registers a plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(s *Store) {
		_ = s.plugins.Register(p) //nolint:errcheck // best-effort plugin registration during init
	}
}

// WithJournal attaches a transaction journal. Without one, handled
// transactions update the balance but are not persisted.
func WithJournal(j journal.Journal) Option {
	return func(s *Store) {
		s.journal = j
	}
}

// WithCurrency sets the store's settlement currency. Defaults to "usd".
// Every article the stocker inserts must be priced in this currency.
func WithCurrency(currency string) Option {
	return func(s *Store) {
		s.currency = strings.ToLower(currency)
	}
}

// WithMenu sets the store's ordered menu.
func WithMenu(items ...product.Product) Option {
	return func(s *Store) {
		s.menu = items
	}
}

// WithJournalConfig configures journal flushing parameters.
func WithJournalConfig(batchSize int, flushInterval time.Duration) Option {
	return func(s *Store) {
		s.flushBatchSize = batchSize
		s.flushInterval = flushInterval
	}
}

// Start prepares the journal and begins background workers.
func (s *Store) Start(ctx context.Context) error {
	if s.journal != nil {
		if err := s.journal.Migrate(ctx); err != nil {
			return err
		}

		s.wg.Add(1)
		go s.journalFlushWorker(ctx)
	}

	s.plugins.EmitInit(ctx, s)

	s.logger.Info("store started",
		"store", s.name,
		"address", s.address,
		"articles", s.inventory.Len(),
		"batch_size", s.flushBatchSize,
		"flush_interval", s.flushInterval,
	)

	return nil
}

// Stop shuts down the store: drains the transaction buffer, stops the flush
// worker, and notifies plugins. Repeated calls are no-ops.
func (s *Store) Stop() error {
	var err error
	s.stopOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()

		ctx := context.Background()
		s.plugins.EmitShutdown(ctx)

		if s.journal != nil {
			err = s.journal.Close()
		}
	})
	return err
}

// ──────────────────────────────────────────────────
// Accessors
// ──────────────────────────────────────────────────

// ID returns the store's unique identifier.
func (s *Store) ID() id.ID { return s.id }

// Name returns the store's name.
func (s *Store) Name() string { return s.name }

// Address returns the store's address, used as the origin of every
// transaction its clerks emit.
func (s *Store) Address() string { return s.address }

// Currency returns the store's settlement currency.
func (s *Store) Currency() string { return s.currency }

// Plugins returns the store's plugin registry.
func (s *Store) Plugins() *plugin.Registry { return s.plugins }

// Balance returns the running balance derived from handled transactions.
func (s *Store) Balance() types.Money {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.balance
}

// Menu returns a copy of the store's ordered menu.
func (s *Store) Menu() []product.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]product.Product, len(s.menu))
	copy(out, s.menu)
	return out
}

// Clerks returns a copy of the store's hired clerks.
func (s *Store) Clerks() []*Clerk {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*Clerk, len(s.clerks))
	copy(out, s.clerks)
	return out
}

// ──────────────────────────────────────────────────
// Consumption protocol
// ──────────────────────────────────────────────────

// Consume atomically draws qty units of the matching article. It returns
// false with no mutation when qty is non-positive, no article matches, or
// stock is insufficient. On success it raises the inventory-changed hook.
func (s *Store) Consume(ctx context.Context, item article.Item, qty int) bool {
	s.mu.Lock()
	ok := s.consumeLocked(item, qty)
	var short *article.Article
	if ok {
		if a := s.inventory.Find(item.MatchKey()); a != nil && a.Current < a.Required {
			short = a
		}
	}
	s.mu.Unlock()

	if ok {
		s.plugins.EmitInventoryChanged(ctx, s.address)
		if short != nil {
			s.plugins.EmitShortage(ctx, s.address, short.Description, short.Current, short.Required)
		}
	}
	return ok
}

// Replenish atomically returns qty units to the matching article. Same
// preconditions as Consume; unknown items and non-positive quantities are
// no-ops returning false.
func (s *Store) Replenish(ctx context.Context, item article.Item, qty int) bool {
	s.mu.Lock()
	ok := s.replenishLocked(item, qty)
	s.mu.Unlock()

	if ok {
		s.plugins.EmitInventoryChanged(ctx, s.address)
	}
	return ok
}

// Contains reports whether qty units of the matching article are in stock.
// Non-positive quantities are trivially satisfied.
func (s *Store) Contains(item article.Item, qty int) bool {
	if qty <= 0 {
		return true
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a := s.inventory.Find(item.MatchKey())
	return a != nil && a.Current >= qty
}

// MissingArticles returns value copies of the articles whose required
// quantity minus current stock is non-negative. The threshold is inclusive,
// so an exactly-stocked article is still listed.
func (s *Store) MissingArticles() []article.Article {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []article.Article
	for _, a := range s.inventory.Articles() {
		if a.Shortfall() >= 0 {
			out = append(out, *a)
		}
	}
	return out
}

// Inventory returns a deep value snapshot of the store's articles.
func (s *Store) Inventory() []article.Article {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inventory.Snapshot()
}

// consumeLocked decrements stock. Callers must hold s.mu.
func (s *Store) consumeLocked(item article.Item, qty int) bool {
	if qty <= 0 {
		return false
	}

	a := s.inventory.Find(item.MatchKey())
	if a == nil || a.Current < qty {
		return false
	}

	a.Current -= qty
	a.Touch()
	return true
}

// replenishLocked increments stock. Callers must hold s.mu.
func (s *Store) replenishLocked(item article.Item, qty int) bool {
	if qty <= 0 {
		return false
	}

	a := s.inventory.Find(item.MatchKey())
	if a == nil {
		return false
	}

	a.Current += qty
	a.Touch()
	return true
}

// lowStock returns value copies of articles strictly below their required
// quantity. Used for shortage hooks after a completed sale.
func (s *Store) lowStock() []article.Article {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []article.Article
	for _, a := range s.inventory.Articles() {
		if a.Current < a.Required {
			out = append(out, *a)
		}
	}
	return out
}

// ──────────────────────────────────────────────────
// Event propagation
// ──────────────────────────────────────────────────

// HandleTransaction receives a sale transaction from a subscribed clerk:
// it adjusts the balance (Earned adds, Spent subtracts), republishes the
// identical payload to the store's own subscribers, raises the
// balance-changed hook, and buffers the entry for the journal.
func (s *Store) HandleTransaction(ctx context.Context, txn event.Transaction) {
	// Transactions in a foreign currency cannot be applied to the balance.
	if txn.Amount.Currency != s.currency {
		s.logger.Warn("transaction dropped: currency mismatch",
			"txn_id", txn.ID,
			"txn_currency", txn.Amount.Currency,
			"store_currency", s.currency,
		)
		return
	}

	s.mu.Lock()
	s.balance = s.balance.Add(txn.Signed())
	s.Touch()
	balance := s.balance
	s.mu.Unlock()

	s.publisher.Publish(ctx, txn)
	s.plugins.EmitBalanceChanged(ctx, s.address, balance)

	if s.journal != nil {
		select {
		case s.txnBuffer <- journal.FromTransaction(txn):
		default:
			s.logger.Warn("transaction buffer full, journal entry dropped",
				"txn_id", txn.ID,
				"origin", txn.Origin,
			)
		}
	}

	s.logger.Debug("transaction handled",
		"txn_id", txn.ID,
		"kind", txn.Kind,
		"label", txn.Label,
		"amount", txn.Amount,
		"balance", balance,
	)
}

// Subscribe attaches a supervisor handler that receives every transaction
// the store republishes. A nil handler is an invalid-argument error.
func (s *Store) Subscribe(h event.Handler) error {
	if h == nil {
		return ErrNilSubscriber
	}

	s.publisher.Attach(h)
	return nil
}

// ──────────────────────────────────────────────────
// Agent registry
// ──────────────────────────────────────────────────

// Hire constructs a clerk owned by this store, binds the store as its single
// subscriber so every sale reaches the balance, and adopts it.
func (s *Store) Hire(name string, opts ...ClerkOption) *Clerk {
	c := newClerk(name, s, opts...)

	_ = c.Subscribe(s) //nolint:errcheck // owner subscription cannot fail
	_ = s.Adopt(c)     //nolint:errcheck // owner invariant holds by construction

	s.plugins.EmitClerkHired(context.Background(), name)
	return c
}

// Adopt appends a clerk to the store's clerk set. It rejects nil clerks and
// clerks owned by another store, leaving the prior set intact.
func (s *Store) Adopt(c *Clerk) error {
	if c == nil {
		return ErrNilClerk
	}
	if c.owner != s {
		return ErrForeignClerk
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.clerks {
		if existing == c {
			return ErrAlreadyExists
		}
	}
	s.clerks = append(s.clerks, c)
	return nil
}

// ──────────────────────────────────────────────────
// Journal
// ──────────────────────────────────────────────────

// Transactions lists journaled entries for this store.
func (s *Store) Transactions(ctx context.Context, opts journal.ListOpts) ([]*journal.Entry, error) {
	if s.journal == nil {
		return nil, ErrJournalNotReady
	}
	return s.journal.List(ctx, s.address, opts)
}

// journalFlushWorker batches buffered transactions into the journal.
func (s *Store) journalFlushWorker(ctx context.Context) {
	defer s.wg.Done()

	batch := make([]*journal.Entry, 0, s.flushBatchSize)
	ticker := time.NewTicker(s.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			// Drain whatever is still buffered, then final flush
			for {
				select {
				case e := <-s.txnBuffer:
					batch = append(batch, e)
					continue
				default:
				}
				break
			}
			if len(batch) > 0 {
				s.flushJournalBatch(ctx, batch)
			}
			return

		case e := <-s.txnBuffer:
			batch = append(batch, e)
			if len(batch) >= s.flushBatchSize {
				s.flushJournalBatch(ctx, batch)
				batch = make([]*journal.Entry, 0, s.flushBatchSize)
			}

		case <-ticker.C:
			if len(batch) > 0 {
				s.flushJournalBatch(ctx, batch)
				batch = make([]*journal.Entry, 0, s.flushBatchSize)
			}
		}
	}
}

func (s *Store) flushJournalBatch(ctx context.Context, batch []*journal.Entry) {
	start := time.Now()

	if err := s.journal.AppendBatch(ctx, batch); err != nil {
		s.logger.Error("failed to flush transaction batch",
			"error", err,
			"batch_size", len(batch),
		)
		return
	}

	elapsed := time.Since(start)
	s.plugins.EmitTransactionsFlushed(ctx, len(batch), elapsed)

	s.logger.Debug("flushed transaction batch",
		"batch_size", len(batch),
		"elapsed_ms", elapsed.Milliseconds(),
	)
}
