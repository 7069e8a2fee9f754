package cart

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	c := New()
	c.Items["APPLE"] = &Line{Name: "APPLE", Quantity: 1, UnitPrice: decimal.RequireFromString("0.35"), LineTotal: decimal.RequireFromString("0.35")}

	if err := store.Save(ctx, c); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := store.FindByID(ctx, c.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got == nil {
		t.Fatalf("expected cart, got nil")
	}
	if got.ID != c.ID || got.Version != 1 || len(got.Items) != 1 {
		t.Fatalf("unexpected cart %+v", got)
	}

	exists, err := store.Exists(ctx, c.ID)
	if err != nil || !exists {
		t.Fatalf("expected cart to exist, exists=%v err=%v", exists, err)
	}

	if err := store.Remove(ctx, c.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	exists, err = store.Exists(ctx, c.ID)
	if err != nil || exists {
		t.Fatalf("expected cart to be gone, exists=%v err=%v", exists, err)
	}
}

func TestMemoryStoreMissingCart(t *testing.T) {
	store := NewMemoryStore()

	got, err := store.FindByID(context.Background(), "nope")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for missing cart, got %+v", got)
	}
}

func TestMemoryStoreIsolatesSnapshots(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	c := New()
	c.Items["APPLE"] = &Line{Name: "APPLE", Quantity: 1}
	if err := store.Save(ctx, c); err != nil {
		t.Fatalf("save: %v", err)
	}

	// Mutating the caller's copy must not leak into the stored snapshot.
	c.Items["APPLE"].Quantity = 99
	c.Version = 42

	got, err := store.FindByID(ctx, c.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Items["APPLE"].Quantity != 1 {
		t.Fatalf("stored snapshot was mutated, quantity %d", got.Items["APPLE"].Quantity)
	}
	if got.Version != 1 {
		t.Fatalf("stored snapshot was mutated, version %d", got.Version)
	}

	// And mutating a loaded copy must not change the store either.
	got.Items["APPLE"].Quantity = 50
	again, err := store.FindByID(ctx, c.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if again.Items["APPLE"].Quantity != 1 {
		t.Fatalf("loaded copy aliased store state, quantity %d", again.Items["APPLE"].Quantity)
	}
}
