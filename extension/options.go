package extension

import (
	"time"

	storefront "github.com/xraph/storefront"
	"github.com/xraph/storefront/journal"
	"github.com/xraph/storefront/plugin"
)

// Option configures the storefront Forge extension.
type Option func(*Extension)

// WithStocker sets the inventory-population procedure for the store.
// A stocker is required; Register fails without one.
func WithStocker(s storefront.Stocker) Option {
	return func(e *Extension) {
		e.stocker = s
	}
}

// WithJournal sets the transaction journal for the store engine.
func WithJournal(j journal.Journal) Option {
	return func(e *Extension) {
		e.journal = j
	}
}

// WithStoreOption passes a storefront.Option through to the underlying engine.
func WithStoreOption(opt storefront.Option) Option {
	return func(e *Extension) {
		e.storeOpts = append(e.storeOpts, opt)
	}
}

// WithPlugin registers a storefront plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(e *Extension) {
		e.storeOpts = append(e.storeOpts, storefront.WithPlugin(p))
	}
}

// WithConfig sets the Forge extension configuration.
func WithConfig(cfg Config) Option {
	return func(e *Extension) { e.config = cfg }
}

// WithName sets the store's display name.
func WithName(name string) Option {
	return func(e *Extension) { e.config.Name = name }
}

// WithAddress sets the store's address.
func WithAddress(address string) Option {
	return func(e *Extension) { e.config.Address = address }
}

// WithCurrency sets the store's settlement currency.
func WithCurrency(currency string) Option {
	return func(e *Extension) { e.config.Currency = currency }
}

// WithDisableMigrate prevents journal migration and worker start-up on Start.
func WithDisableMigrate() Option {
	return func(e *Extension) { e.config.DisableMigrate = true }
}

// WithRequireConfig requires config to be present in YAML files.
// If true and no config is found, Register returns an error.
func WithRequireConfig(require bool) Option {
	return func(e *Extension) { e.config.RequireConfig = require }
}

// WithFlushBatchSize sets the number of transactions to buffer before flushing.
func WithFlushBatchSize(size int) Option {
	return func(e *Extension) { e.config.FlushBatchSize = size }
}

// WithFlushInterval sets how frequently the transaction buffer is flushed.
func WithFlushInterval(d time.Duration) Option {
	return func(e *Extension) { e.config.FlushInterval = d }
}
