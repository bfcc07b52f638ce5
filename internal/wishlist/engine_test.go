package wishlist

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/RuiQin/stride_store/internal/domain"
	"github.com/RuiQin/stride_store/internal/kv"
)

func newTestEngine(t *testing.T) (*Engine, kv.Store) {
	t.Helper()
	store := kv.NewMemoryStore()
	return NewEngine(store, "wishlist:test-session", time.Hour, zap.NewNop()), store
}

func testProduct(id string) *domain.Product {
	return &domain.Product{
		ID:         id,
		Title:      "Product " + id,
		Slug:       "product-" + id,
		PriceCents: 2000,
		Variants: []domain.ProductVariant{
			{ID: id + "-v1", SKU: id + "-BLK", ColorName: "Black", PriceCents: 2000},
		},
	}
}

func TestEngine_Add_SetSemantics(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()
	p := testProduct("p1")

	if !e.Add(ctx, p) {
		t.Error("first Add returned false, want true")
	}
	if e.Add(ctx, p) {
		t.Error("duplicate Add returned true, want false")
	}

	state := e.State()
	if state.TotalItems != 1 || len(state.Items) != 1 {
		t.Errorf("expected exactly one item, got %d", state.TotalItems)
	}
}

func TestEngine_Add_PreservesDateAdded(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	e.now = func() time.Time { return fixed }

	e.Add(ctx, testProduct("p1"))

	// The duplicate attempt must not refresh the original timestamp.
	e.now = func() time.Time { return fixed.Add(time.Hour) }
	e.Add(ctx, testProduct("p1"))

	state := e.State()
	if !state.Items[0].DateAdded.Equal(fixed) {
		t.Errorf("DateAdded = %v, want %v", state.Items[0].DateAdded, fixed)
	}
}

func TestEngine_Remove(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	e.Add(ctx, testProduct("p1"))
	e.Add(ctx, testProduct("p2"))

	e.Remove(ctx, "p1")
	if e.Contains("p1") {
		t.Error("p1 still present after Remove")
	}
	if !e.Contains("p2") {
		t.Error("p2 missing after removing p1")
	}

	// Removing an absent product is a no-op.
	e.Remove(ctx, "no-such")
	if e.State().TotalItems != 1 {
		t.Errorf("TotalItems = %d, want 1", e.State().TotalItems)
	}
}

func TestEngine_Clear(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	e.Add(ctx, testProduct("p1"))
	e.Add(ctx, testProduct("p2"))
	e.Clear(ctx)

	state := e.State()
	if state.TotalItems != 0 || len(state.Items) != 0 {
		t.Errorf("expected empty wishlist after clear, got %+v", state)
	}
}

func TestEngine_PersistenceRoundTrip(t *testing.T) {
	store := kv.NewMemoryStore()
	logger := zap.NewNop()
	ctx := context.Background()

	e := NewEngine(store, "wishlist:session-a", time.Hour, logger)
	e.Add(ctx, testProduct("p1"))
	e.Add(ctx, testProduct("p2"))

	restored := NewEngine(store, "wishlist:session-a", time.Hour, logger)
	state := restored.State()

	if state.TotalItems != 2 {
		t.Fatalf("restored %d items, want 2", state.TotalItems)
	}
	if !restored.Contains("p1") || !restored.Contains("p2") {
		t.Error("restored wishlist missing products")
	}
}
