// Package extension provides the Forge extension adapter for storefront.
//
// It implements the forge.Extension interface to integrate a storefront
// engine into a Forge application with automatic dependency discovery,
// DI registration, and lifecycle management.
//
// Configuration can be provided programmatically via Option functions
// or via YAML configuration files under "extensions.storefront" or
// "storefront" keys.
package extension

import (
	"context"
	"errors"

	"github.com/xraph/forge"
	"github.com/xraph/vessel"

	storefront "github.com/xraph/storefront"
	"github.com/xraph/storefront/journal"
	"github.com/xraph/storefront/journal/memory"
)

// ExtensionName is the name registered with Forge.
const ExtensionName = "storefront"

// ExtensionDescription is the human-readable description.
const ExtensionDescription = "Transactional inventory-consumption and sale-event engine"

// ExtensionVersion is the semantic version.
const ExtensionVersion = "0.1.0"

// Ensure Extension implements forge.Extension at compile time.
var _ forge.Extension = (*Extension)(nil)

// Extension adapts a storefront engine as a Forge extension.
type Extension struct {
	*forge.BaseExtension

	config    Config
	engine    *storefront.Store
	stocker   storefront.Stocker
	journal   journal.Journal
	storeOpts []storefront.Option
}

// New creates a new storefront Forge extension with the given options.
func New(opts ...Option) *Extension {
	e := &Extension{
		BaseExtension: forge.NewBaseExtension(ExtensionName, ExtensionVersion, ExtensionDescription),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Engine returns the underlying store instance.
// This is nil until Register is called.
func (e *Extension) Engine() *storefront.Store { return e.engine }

// Register implements [forge.Extension]. It loads configuration,
// constructs the store engine, and registers it in the DI container.
func (e *Extension) Register(fapp forge.App) error {
	if err := e.BaseExtension.Register(fapp); err != nil {
		return err
	}

	if err := e.loadConfiguration(); err != nil {
		return err
	}

	// A stocker must be provided programmatically; inventory contents
	// cannot be described in YAML.
	if e.stocker == nil {
		return errors.New("storefront: no stocker provided; use extension.WithStocker")
	}

	// Use a memory journal if none was provided programmatically.
	if e.journal == nil {
		e.journal = memory.New()
	}

	address := e.config.Address
	if address == "" {
		address = e.config.Name
	}

	eng, err := storefront.New(e.config.Name, address, e.stocker, e.buildStoreOpts()...)
	if err != nil {
		return err
	}
	e.engine = eng

	return vessel.Provide(fapp.Container(), func() (*storefront.Store, error) {
		return e.engine, nil
	})
}

// Start implements [forge.Extension].
func (e *Extension) Start(ctx context.Context) error {
	if e.engine == nil {
		return errors.New("storefront: extension not initialized")
	}

	if !e.config.DisableMigrate {
		if err := e.engine.Start(ctx); err != nil {
			return err
		}
	}

	e.MarkStarted()
	return nil
}

// Stop implements [forge.Extension].
func (e *Extension) Stop(_ context.Context) error {
	if e.engine != nil {
		if err := e.engine.Stop(); err != nil {
			e.MarkStopped()
			return err
		}
	}
	e.MarkStopped()
	return nil
}

// Health implements [forge.Extension].
func (e *Extension) Health(ctx context.Context) error {
	if e.journal == nil {
		return errors.New("storefront: journal not initialized")
	}
	return e.journal.Ping(ctx)
}

// buildStoreOpts constructs storefront.Option values from the resolved config.
func (e *Extension) buildStoreOpts() []storefront.Option {
	opts := make([]storefront.Option, 0, len(e.storeOpts)+3)

	opts = append(opts,
		storefront.WithJournal(e.journal),
		storefront.WithCurrency(e.config.Currency),
	)

	if e.config.FlushBatchSize > 0 || e.config.FlushInterval > 0 {
		batchSize := e.config.FlushBatchSize
		flushInterval := e.config.FlushInterval
		defaults := DefaultConfig()
		if batchSize == 0 {
			batchSize = defaults.FlushBatchSize
		}
		if flushInterval == 0 {
			flushInterval = defaults.FlushInterval
		}
		opts = append(opts, storefront.WithJournalConfig(batchSize, flushInterval))
	}

	// Append any pass-through store options.
	opts = append(opts, e.storeOpts...)

	return opts
}

// --- Config Loading (mirrors grove/shield extension pattern) ---

// loadConfiguration loads config from YAML files or programmatic sources.
func (e *Extension) loadConfiguration() error {
	programmaticConfig := e.config

	// Try loading from config file.
	fileConfig, configLoaded := e.tryLoadFromConfigFile()

	if !configLoaded {
		if programmaticConfig.RequireConfig {
			return errors.New("storefront: configuration is required but not found in config files; " +
				"ensure 'extensions.storefront' or 'storefront' key exists in your config")
		}

		// Use programmatic config merged with defaults.
		e.config = e.mergeWithDefaults(programmaticConfig)
	} else {
		// Config loaded from YAML -- merge with programmatic options.
		e.config = e.mergeConfigurations(fileConfig, programmaticConfig)
	}

	e.Logger().Debug("storefront: configuration loaded",
		forge.F("name", e.config.Name),
		forge.F("address", e.config.Address),
		forge.F("currency", e.config.Currency),
		forge.F("disable_migrate", e.config.DisableMigrate),
		forge.F("flush_batch_size", e.config.FlushBatchSize),
		forge.F("flush_interval", e.config.FlushInterval),
	)

	return nil
}

// tryLoadFromConfigFile attempts to load config from YAML files.
func (e *Extension) tryLoadFromConfigFile() (Config, bool) {
	cm := e.App().Config()
	var cfg Config

	// Try "extensions.storefront" first (namespaced pattern).
	if cm.IsSet("extensions.storefront") {
		if err := cm.Bind("extensions.storefront", &cfg); err == nil {
			e.Logger().Debug("storefront: loaded config from file",
				forge.F("key", "extensions.storefront"),
			)
			return cfg, true
		}
		e.Logger().Warn("storefront: failed to bind extensions.storefront config",
			forge.F("error", "bind failed"),
		)
	}

	// Try legacy "storefront" key.
	if cm.IsSet("storefront") {
		if err := cm.Bind("storefront", &cfg); err == nil {
			e.Logger().Debug("storefront: loaded config from file",
				forge.F("key", "storefront"),
			)
			return cfg, true
		}
		e.Logger().Warn("storefront: failed to bind storefront config",
			forge.F("error", "bind failed"),
		)
	}

	return Config{}, false
}

// mergeWithDefaults fills zero-valued fields with defaults.
func (e *Extension) mergeWithDefaults(cfg Config) Config {
	defaults := DefaultConfig()
	if cfg.Name == "" {
		cfg.Name = defaults.Name
	}
	if cfg.Currency == "" {
		cfg.Currency = defaults.Currency
	}
	if cfg.FlushBatchSize == 0 {
		cfg.FlushBatchSize = defaults.FlushBatchSize
	}
	if cfg.FlushInterval == 0 {
		cfg.FlushInterval = defaults.FlushInterval
	}
	return cfg
}

// mergeConfigurations merges YAML config with programmatic options.
// YAML config takes precedence for most fields; programmatic bool flags fill gaps.
func (e *Extension) mergeConfigurations(yamlConfig, programmaticConfig Config) Config {
	// Programmatic bool flags override when true.
	if programmaticConfig.DisableMigrate {
		yamlConfig.DisableMigrate = true
	}

	// String fields: YAML takes precedence.
	if yamlConfig.Name == "" && programmaticConfig.Name != "" {
		yamlConfig.Name = programmaticConfig.Name
	}
	if yamlConfig.Address == "" && programmaticConfig.Address != "" {
		yamlConfig.Address = programmaticConfig.Address
	}
	if yamlConfig.Currency == "" && programmaticConfig.Currency != "" {
		yamlConfig.Currency = programmaticConfig.Currency
	}

	// Duration/int fields: YAML takes precedence, programmatic fills gaps.
	if yamlConfig.FlushBatchSize == 0 && programmaticConfig.FlushBatchSize != 0 {
		yamlConfig.FlushBatchSize = programmaticConfig.FlushBatchSize
	}
	if yamlConfig.FlushInterval == 0 && programmaticConfig.FlushInterval != 0 {
		yamlConfig.FlushInterval = programmaticConfig.FlushInterval
	}

	// Fill remaining zeros with defaults.
	return e.mergeWithDefaults(yamlConfig)
}
