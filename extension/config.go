package extension

import "time"

// Config holds the storefront extension configuration.
// Fields can be set programmatically via Option functions or loaded from
// YAML configuration files (under "extensions.storefront" or "storefront" keys).
type Config struct {
	// Name is the store's display name (default: "storefront").
	Name string `json:"name" mapstructure:"name" yaml:"name"`

	// Address is the store's address, used as the origin of every
	// transaction (default: the store name).
	Address string `json:"address" mapstructure:"address" yaml:"address"`

	// Currency is the store's settlement currency (default: "usd").
	Currency string `json:"currency" mapstructure:"currency" yaml:"currency"`

	// DisableMigrate prevents journal migration and worker start-up on Start.
	DisableMigrate bool `json:"disable_migrate" mapstructure:"disable_migrate" yaml:"disable_migrate"`

	// FlushBatchSize is the number of transactions to buffer before flushing
	// to the journal (default: 100).
	FlushBatchSize int `json:"flush_batch_size" mapstructure:"flush_batch_size" yaml:"flush_batch_size"`

	// FlushInterval is how frequently the transaction buffer is flushed
	// even if the batch size has not been reached (default: 5s).
	FlushInterval time.Duration `json:"flush_interval" mapstructure:"flush_interval" yaml:"flush_interval"`

	// RequireConfig requires config to be present in YAML files.
	// If true and no config is found, Register returns an error.
	RequireConfig bool `json:"-" yaml:"-"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Name:           "storefront",
		Currency:       "usd",
		FlushBatchSize: 100,
		FlushInterval:  5 * time.Second,
	}
}
