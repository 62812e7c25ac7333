package plugin

import (
	"context"
	"errors"
	"testing"
)

type recorder struct {
	name       string
	completed  int
	rejected   int
	reverted   int
	inventory  int
	failOnSale bool
}

func (r *recorder) Name() string { return r.name }

func (r *recorder) OnSaleCompleted(_ context.Context, _ interface{}) error {
	r.completed++
	if r.failOnSale {
		return errors.New("boom")
	}
	return nil
}

func (r *recorder) OnSaleRejected(_ context.Context, _ string) error {
	r.rejected++
	return nil
}

func (r *recorder) OnSaleReverted(_ context.Context, _ string) error {
	r.reverted++
	return nil
}

func (r *recorder) OnInventoryChanged(_ context.Context, _ string) error {
	r.inventory++
	return nil
}

func TestRegisterAndDispatch(t *testing.T) {
	reg := NewRegistry()
	rec := &recorder{name: "recorder"}

	if err := reg.Register(rec); err != nil {
		t.Fatalf("register: %v", err)
	}
	if reg.Count() != 1 {
		t.Fatalf("count: got %d, want 1", reg.Count())
	}

	ctx := context.Background()
	reg.EmitSaleCompleted(ctx, nil)
	reg.EmitSaleRejected(ctx, "no base")
	reg.EmitSaleReverted(ctx, "club")
	reg.EmitInventoryChanged(ctx, "addr")
	reg.EmitBalanceChanged(ctx, "addr", nil) // recorder doesn't implement, must not panic

	if rec.completed != 1 || rec.rejected != 1 || rec.reverted != 1 || rec.inventory != 1 {
		t.Errorf("dispatch counts: %+v", rec)
	}
}

func TestRegisterDuplicate(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register(&recorder{name: "dup"}); err != nil {
		t.Fatal(err)
	}
	if err := reg.Register(&recorder{name: "dup"}); err == nil {
		t.Error("expected duplicate registration error")
	}
}

func TestPluginErrorDoesNotPropagate(t *testing.T) {
	reg := NewRegistry()
	rec := &recorder{name: "failing", failOnSale: true}
	if err := reg.Register(rec); err != nil {
		t.Fatal(err)
	}

	// A failing plugin is logged, not surfaced.
	reg.EmitSaleCompleted(context.Background(), nil)
	if rec.completed != 1 {
		t.Errorf("plugin should still have been called: %d", rec.completed)
	}
}

func TestGetAndList(t *testing.T) {
	reg := NewRegistry()
	rec := &recorder{name: "a"}
	if err := reg.Register(rec); err != nil {
		t.Fatal(err)
	}

	if got := reg.Get("a"); got != rec {
		t.Error("Get should return the registered plugin")
	}
	if got := reg.Get("missing"); got != nil {
		t.Error("Get should return nil for unknown names")
	}
	if len(reg.List()) != 1 {
		t.Error("List should return one plugin")
	}
}

type namedStrategy struct{ name string }

func (s *namedStrategy) Name() string          { return "strategy-" + s.name }
func (s *namedStrategy) StrategyName() string  { return s.name }
func (s *namedStrategy) Strategy() interface{} { return nil }

func TestDiscountStrategyLookup(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register(&namedStrategy{name: "happy-hour"}); err != nil {
		t.Fatal(err)
	}

	if reg.GetDiscountStrategy("happy-hour") == nil {
		t.Error("expected to find registered strategy")
	}
	if reg.GetDiscountStrategy("unknown") != nil {
		t.Error("unknown strategy should be nil")
	}
}
