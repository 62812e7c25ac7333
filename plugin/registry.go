package plugin

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"time"
)

// Registry manages all registered plugins and provides efficient dispatch.
// It uses type-cached discovery for O(1) dispatch performance.
type Registry struct {
	mu      sync.RWMutex
	plugins []Plugin
	logger  *slog.Logger

	// Type-cached plugin lists for efficient dispatch
	onInit                []OnInit
	onShutdown            []OnShutdown
	onClerkHired          []OnClerkHired
	onSaleCompleted       []OnSaleCompleted
	onSaleRejected        []OnSaleRejected
	onSaleReverted        []OnSaleReverted
	onInventoryChanged    []OnInventoryChanged
	onShortage            []OnShortage
	onBalanceChanged      []OnBalanceChanged
	onTransactionsFlushed []OnTransactionsFlushed
	discountStrategies    map[string]DiscountStrategyPlugin
}

// NewRegistry creates a new plugin registry.
func NewRegistry() *Registry {
	return &Registry{
		logger:             slog.Default(),
		discountStrategies: make(map[string]DiscountStrategyPlugin),
	}
}

// WithLogger sets the logger for the registry.
func (r *Registry) WithLogger(logger *slog.Logger) *Registry {
	r.logger = logger
	return r
}

// Register adds a plugin to the registry and caches its interfaces.
func (r *Registry) Register(p Plugin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Check for duplicate
	for _, existing := range r.plugins {
		if existing.Name() == p.Name() {
			return fmt.Errorf("plugin: duplicate registration: %s", p.Name())
		}
	}

	r.plugins = append(r.plugins, p)

	// Type-switch to cache interfaces
	if v, ok := p.(OnInit); ok {
		r.onInit = append(r.onInit, v)
	}
	if v, ok := p.(OnShutdown); ok {
		r.onShutdown = append(r.onShutdown, v)
	}
	if v, ok := p.(OnClerkHired); ok {
		r.onClerkHired = append(r.onClerkHired, v)
	}
	if v, ok := p.(OnSaleCompleted); ok {
		r.onSaleCompleted = append(r.onSaleCompleted, v)
	}
	if v, ok := p.(OnSaleRejected); ok {
		r.onSaleRejected = append(r.onSaleRejected, v)
	}
	if v, ok := p.(OnSaleReverted); ok {
		r.onSaleReverted = append(r.onSaleReverted, v)
	}
	if v, ok := p.(OnInventoryChanged); ok {
		r.onInventoryChanged = append(r.onInventoryChanged, v)
	}
	if v, ok := p.(OnShortage); ok {
		r.onShortage = append(r.onShortage, v)
	}
	if v, ok := p.(OnBalanceChanged); ok {
		r.onBalanceChanged = append(r.onBalanceChanged, v)
	}
	if v, ok := p.(OnTransactionsFlushed); ok {
		r.onTransactionsFlushed = append(r.onTransactionsFlushed, v)
	}
	if v, ok := p.(DiscountStrategyPlugin); ok {
		r.discountStrategies[v.StrategyName()] = v
	}

	r.logger.Info("plugin registered",
		"name", p.Name(),
		"interfaces", r.getImplementedInterfaces(p),
	)

	return nil
}

// getImplementedInterfaces returns a list of interfaces implemented by the plugin.
func (r *Registry) getImplementedInterfaces(p Plugin) []string {
	var interfaces []string
	v := reflect.TypeOf(p)

	checkInterface := func(iface reflect.Type, name string) {
		if v.Implements(iface) {
			interfaces = append(interfaces, name)
		}
	}

	checkInterface(reflect.TypeOf((*OnInit)(nil)).Elem(), "OnInit")
	checkInterface(reflect.TypeOf((*OnShutdown)(nil)).Elem(), "OnShutdown")
	checkInterface(reflect.TypeOf((*OnClerkHired)(nil)).Elem(), "OnClerkHired")
	checkInterface(reflect.TypeOf((*OnSaleCompleted)(nil)).Elem(), "OnSaleCompleted")
	checkInterface(reflect.TypeOf((*OnSaleRejected)(nil)).Elem(), "OnSaleRejected")
	checkInterface(reflect.TypeOf((*OnSaleReverted)(nil)).Elem(), "OnSaleReverted")
	checkInterface(reflect.TypeOf((*OnInventoryChanged)(nil)).Elem(), "OnInventoryChanged")
	checkInterface(reflect.TypeOf((*OnShortage)(nil)).Elem(), "OnShortage")
	checkInterface(reflect.TypeOf((*OnBalanceChanged)(nil)).Elem(), "OnBalanceChanged")
	checkInterface(reflect.TypeOf((*OnTransactionsFlushed)(nil)).Elem(), "OnTransactionsFlushed")
	checkInterface(reflect.TypeOf((*DiscountStrategyPlugin)(nil)).Elem(), "DiscountStrategy")

	return interfaces
}

// Get returns a plugin by name.
func (r *Registry) Get(name string) Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.plugins {
		if p.Name() == name {
			return p
		}
	}
	return nil
}

// List returns all registered plugins.
func (r *Registry) List() []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Plugin, len(r.plugins))
	copy(result, r.plugins)
	return result
}

// Count returns the number of registered plugins.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.plugins)
}

// GetDiscountStrategy returns a named discount strategy plugin.
func (r *Registry) GetDiscountStrategy(name string) DiscountStrategyPlugin {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.discountStrategies[name]
}

// ──────────────────────────────────────────────────
// Event emission methods
// ──────────────────────────────────────────────────

// EmitInit calls OnInit for all plugins that implement it.
func (r *Registry) EmitInit(ctx context.Context, store interface{}) {
	r.mu.RLock()
	plugins := r.onInit
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnInit(ctx, store)
		}); err != nil {
			r.logger.Warn("plugin OnInit failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitShutdown calls OnShutdown for all plugins that implement it.
func (r *Registry) EmitShutdown(ctx context.Context) {
	r.mu.RLock()
	plugins := r.onShutdown
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnShutdown(ctx)
		}); err != nil {
			r.logger.Warn("plugin OnShutdown failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitClerkHired emits a clerk hired event.
func (r *Registry) EmitClerkHired(ctx context.Context, clerkName string) {
	r.mu.RLock()
	plugins := r.onClerkHired
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnClerkHired(ctx, clerkName)
		}); err != nil {
			r.logger.Warn("plugin OnClerkHired failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitSaleCompleted emits a sale completed event.
func (r *Registry) EmitSaleCompleted(ctx context.Context, txn interface{}) {
	r.mu.RLock()
	plugins := r.onSaleCompleted
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnSaleCompleted(ctx, txn)
		}); err != nil {
			r.logger.Warn("plugin OnSaleCompleted failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitSaleRejected emits a sale rejected event.
func (r *Registry) EmitSaleRejected(ctx context.Context, reason string) {
	r.mu.RLock()
	plugins := r.onSaleRejected
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnSaleRejected(ctx, reason)
		}); err != nil {
			r.logger.Warn("plugin OnSaleRejected failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitSaleReverted emits a sale reverted event.
func (r *Registry) EmitSaleReverted(ctx context.Context, productName string) {
	r.mu.RLock()
	plugins := r.onSaleReverted
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnSaleReverted(ctx, productName)
		}); err != nil {
			r.logger.Warn("plugin OnSaleReverted failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitInventoryChanged emits an inventory changed event.
func (r *Registry) EmitInventoryChanged(ctx context.Context, origin string) {
	r.mu.RLock()
	plugins := r.onInventoryChanged
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnInventoryChanged(ctx, origin)
		}); err != nil {
			r.logger.Warn("plugin OnInventoryChanged failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitShortage emits a shortage event.
func (r *Registry) EmitShortage(ctx context.Context, origin, description string, current, required int) {
	r.mu.RLock()
	plugins := r.onShortage
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnShortage(ctx, origin, description, current, required)
		}); err != nil {
			r.logger.Warn("plugin OnShortage failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitBalanceChanged emits a balance changed event.
func (r *Registry) EmitBalanceChanged(ctx context.Context, origin string, balance interface{}) {
	r.mu.RLock()
	plugins := r.onBalanceChanged
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnBalanceChanged(ctx, origin, balance)
		}); err != nil {
			r.logger.Warn("plugin OnBalanceChanged failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitTransactionsFlushed emits a transactions flushed event.
func (r *Registry) EmitTransactionsFlushed(ctx context.Context, count int, elapsed time.Duration) {
	r.mu.RLock()
	plugins := r.onTransactionsFlushed
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnTransactionsFlushed(ctx, count, elapsed)
		}); err != nil {
			r.logger.Warn("plugin OnTransactionsFlushed failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// callWithTimeout calls a plugin function with a timeout.
// Plugins should never block the sale pipeline.
func (r *Registry) callWithTimeout(ctx context.Context, pluginName string, fn func() error) error {
	done := make(chan error, 1)

	go func() {
		done <- fn()
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		return fmt.Errorf("plugin timeout: %s", pluginName)
	case <-ctx.Done():
		return ctx.Err()
	}
}
