package cart

import (
	"context"
	"testing"
	"time"

	"github.com/wichananm65/storefront-client/internal/api"
	"github.com/wichananm65/storefront-client/internal/storage"
)

type fakeAuth struct {
	authed bool
	name   string
}

func (f *fakeAuth) IsAuthenticated() bool { return f.authed }
func (f *fakeAuth) UserName() string      { return f.name }

func guestReconciler() (*Reconciler, *storage.MemStore) {
	local := storage.NewMemStore()
	client := api.NewClient("http://127.0.0.1:1", time.Second)
	return NewReconciler(client, local, &fakeAuth{}), local
}

func TestGuestAddMergesQuantities(t *testing.T) {
	r, _ := guestReconciler()
	ctx := context.Background()

	r.Add(ctx, Line{ID: 7, Name: "Wireless Headphones", Price: 10, Quantity: 1})
	lines := r.Add(ctx, Line{ID: 7, Name: "Wireless Headphones", Price: 10, Quantity: 2})

	if len(lines) != 1 {
		t.Fatalf("expected one merged line, got %d", len(lines))
	}
	if lines[0].Quantity != 3 {
		t.Fatalf("expected quantity 3, got %d", lines[0].Quantity)
	}
}

func TestGuestCartTotals(t *testing.T) {
	r, _ := guestReconciler()
	ctx := context.Background()

	r.Add(ctx, Line{ID: 7, Price: 10, Quantity: 1})
	r.Add(ctx, Line{ID: 9, Price: 5, Quantity: 2})

	if got := r.Total(ctx); got != 20.00 {
		t.Fatalf("expected total 20.00, got %.2f", got)
	}
	if got := r.ItemCount(ctx); got != 3 {
		t.Fatalf("expected 3 items, got %d", got)
	}

	// insertion order is preserved
	lines := r.Get(ctx)
	if lines[0].ID != 7 || lines[1].ID != 9 {
		t.Fatalf("expected insertion order 7,9, got %v", lines)
	}
}

func TestGuestCartSurvivesAcrossInstances(t *testing.T) {
	r, local := guestReconciler()
	ctx := context.Background()
	r.Add(ctx, Line{ID: 3, Price: 49.5, Quantity: 2})

	r2 := NewReconciler(api.NewClient("http://127.0.0.1:1", time.Second), local, &fakeAuth{})
	lines := r2.Get(ctx)
	if len(lines) != 1 || lines[0].ID != 3 || lines[0].Quantity != 2 {
		t.Fatalf("expected persisted guest cart, got %v", lines)
	}
}

func TestUpdateQuantityZeroRemovesLine(t *testing.T) {
	r, _ := guestReconciler()
	ctx := context.Background()
	r.Add(ctx, Line{ID: 7, Price: 10, Quantity: 1})
	r.Add(ctx, Line{ID: 9, Price: 5, Quantity: 2})

	lines := r.UpdateQuantity(ctx, 7, 0)
	if len(lines) != 1 || lines[0].ID != 9 {
		t.Fatalf("expected only product 9 left, got %v", lines)
	}

	lines = r.UpdateQuantity(ctx, 9, 5)
	if lines[0].Quantity != 5 {
		t.Fatalf("expected quantity 5, got %d", lines[0].Quantity)
	}
}

func TestRemoveAndClear(t *testing.T) {
	r, local := guestReconciler()
	ctx := context.Background()
	r.Add(ctx, Line{ID: 7, Price: 10, Quantity: 1})
	r.Add(ctx, Line{ID: 9, Price: 5, Quantity: 2})

	lines := r.Remove(ctx, 7)
	if len(lines) != 1 {
		t.Fatalf("expected one line after remove, got %v", lines)
	}

	r.Clear(ctx)
	if got := r.Get(ctx); len(got) != 0 {
		t.Fatalf("expected empty cart after clear, got %v", got)
	}
	if _, ok := local.Get("cart_guest"); ok {
		t.Fatalf("clear must drop the stored entry")
	}
}

// when the server cannot be reached, authenticated reads fall back to the
// locally cached cart and never fail
func TestAuthenticatedGetFallsBackToLocal(t *testing.T) {
	local := storage.NewMemStore()
	client := api.NewClient("http://127.0.0.1:1", time.Second)
	r := NewReconciler(client, local, &fakeAuth{authed: true, name: "alice"})

	_ = storage.SetJSON(local, "cart_alice", []Line{{ID: 7, Price: 10, Quantity: 1}})

	lines := r.Get(context.Background())
	if len(lines) != 1 || lines[0].ID != 7 {
		t.Fatalf("expected cached cart, got %v", lines)
	}
}

func TestAuthenticatedMutationsKeepLocalStateOnFailure(t *testing.T) {
	local := storage.NewMemStore()
	client := api.NewClient("http://127.0.0.1:1", time.Second)
	r := NewReconciler(client, local, &fakeAuth{authed: true, name: "alice"})
	ctx := context.Background()

	lines := r.Add(ctx, Line{ID: 7, Price: 10, Quantity: 2})
	if len(lines) != 1 || lines[0].Quantity != 2 {
		t.Fatalf("local state must survive the failed mirror, got %v", lines)
	}
	var stored []Line
	if !storage.GetJSON(local, "cart_alice", &stored) || len(stored) != 1 {
		t.Fatalf("expected cached line, got %v", stored)
	}
}

// a failed sync keeps the guest cart: the lines come back unchanged and the
// guest storage entry survives for the next attempt
func TestSyncFailureKeepsGuestCart(t *testing.T) {
	local := storage.NewMemStore()
	client := api.NewClient("http://127.0.0.1:1", time.Second)
	r := NewReconciler(client, local, &fakeAuth{authed: true, name: "alice"})

	guest := []Line{
		{ID: 7, Price: 10, Quantity: 1},
		{ID: 9, Price: 5, Quantity: 2},
	}
	_ = storage.SetJSON(local, "cart_guest", guest)

	got := r.Sync(context.Background())
	if len(got) != 2 || got[0].ID != 7 || got[1].ID != 9 {
		t.Fatalf("expected the guest cart back unchanged, got %v", got)
	}
	var stored []Line
	if !storage.GetJSON(local, "cart_guest", &stored) || len(stored) != 2 {
		t.Fatalf("guest entry must survive a failed sync, got %v", stored)
	}
}

// a server response that raced with a newer local mutation must not clobber
// the cache
func TestReconcileRejectsStaleResponse(t *testing.T) {
	r, local := guestReconciler()
	ctx := context.Background()

	r.Add(ctx, Line{ID: 7, Price: 10, Quantity: 1})
	before := r.snapshotSeq(GuestKey)

	// a newer mutation lands while the (hypothetical) request is in flight
	r.Add(ctx, Line{ID: 9, Price: 5, Quantity: 2})

	stale := []Line{{ID: 7, Price: 10, Quantity: 1}}
	got := r.reconcile(GuestKey, before, stale)
	if len(got) != 2 {
		t.Fatalf("stale response must yield the current local cart, got %v", got)
	}
	var stored []Line
	if !storage.GetJSON(local, "cart_guest", &stored) || len(stored) != 2 {
		t.Fatalf("cache must be untouched by the stale response, got %v", stored)
	}

	// a response matching the current sequence is applied
	current := r.snapshotSeq(GuestKey)
	got = r.reconcile(GuestKey, current, stale)
	if len(got) != 1 {
		t.Fatalf("fresh response must be applied, got %v", got)
	}
}

func TestSnapshotAndRestore(t *testing.T) {
	r, local := guestReconciler()
	_ = storage.SetJSON(local, "cart_alice", []Line{{ID: 7, Price: 10, Quantity: 1}})

	r.Snapshot("alice")
	if _, ok := local.Get("cart_alice"); ok {
		t.Fatalf("live cart must be cleared by snapshot")
	}
	var saved []Line
	if !storage.GetJSON(local, "savedCart_alice", &saved) || len(saved) != 1 {
		t.Fatalf("expected snapshot, got %v", saved)
	}

	// an existing guest cart wins when overwrite is off
	_ = storage.SetJSON(local, "cart_guest", []Line{{ID: 9, Price: 5, Quantity: 2}})
	r.RestoreSaved("alice", false)
	var guest []Line
	storage.GetJSON(local, "cart_guest", &guest)
	if len(guest) != 1 || guest[0].ID != 9 {
		t.Fatalf("guest cart must be kept, got %v", guest)
	}
	if _, ok := local.Get("savedCart_alice"); !ok {
		t.Fatalf("snapshot must be kept for a later restore")
	}

	// overwrite replaces the guest cart and consumes the snapshot
	r.RestoreSaved("alice", true)
	storage.GetJSON(local, "cart_guest", &guest)
	if len(guest) != 1 || guest[0].ID != 7 {
		t.Fatalf("expected restored snapshot, got %v", guest)
	}
	if _, ok := local.Get("savedCart_alice"); ok {
		t.Fatalf("snapshot must be consumed on restore")
	}
}

func TestSnapshotOfEmptyCartWritesNothing(t *testing.T) {
	r, local := guestReconciler()
	r.Snapshot("alice")
	if _, ok := local.Get("savedCart_alice"); ok {
		t.Fatalf("empty cart must not produce a snapshot")
	}
}
