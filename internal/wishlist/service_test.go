package wishlist_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/wichananm65/storefront-client/internal/api"
	"github.com/wichananm65/storefront-client/internal/mockapi"
	"github.com/wichananm65/storefront-client/internal/session"
	"github.com/wichananm65/storefront-client/internal/storage"
	"github.com/wichananm65/storefront-client/internal/wishlist"
)

func newService(t *testing.T) *wishlist.Service {
	t.Helper()
	srv := mockapi.New(mockapi.WithUser("alice", "secret123", false))
	url, stop, err := srv.Start()
	if err != nil {
		t.Fatalf("start mock server: %v", err)
	}
	t.Cleanup(func() { _ = stop() })

	client := api.NewClient(url, 2*time.Second)
	mgr := session.NewManager(client, storage.NewMemStore(), storage.NewMemStore())
	if _, err := mgr.Login(context.Background(), "alice", "secret123"); err != nil {
		t.Fatalf("login: %v", err)
	}
	return wishlist.NewService(client)
}

func TestAddAndGet(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	w, err := svc.Add(ctx, 2)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if w.ID == 0 {
		t.Fatalf("expected a stable wishlist id, got %+v", w)
	}
	if len(w.Items) != 1 || w.Items[0].Product != 2 || w.Items[0].ID == 0 {
		t.Fatalf("expected one item for product 2, got %+v", w.Items)
	}

	got, err := svc.Get(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.Contains(2) {
		t.Fatalf("expected product 2 on the list, got %+v", got.Items)
	}
}

func TestAddTwiceIsNoop(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	if _, err := svc.Add(ctx, 3); err != nil {
		t.Fatalf("add: %v", err)
	}
	w, err := svc.Add(ctx, 3)
	if err != nil {
		t.Fatalf("second add must succeed: %v", err)
	}
	if len(w.Items) != 1 {
		t.Fatalf("re-adding must not duplicate the item, got %+v", w.Items)
	}
}

func TestAddUnknownProduct(t *testing.T) {
	svc := newService(t)
	_, err := svc.Add(context.Background(), 9999)
	var srvErr *api.ServerError
	if !errors.As(err, &srvErr) || srvErr.StatusCode != 404 {
		t.Fatalf("expected 404 ServerError, got %v", err)
	}
	if srvErr.Message != "Product not found" {
		t.Fatalf("expected backend message, got %q", srvErr.Message)
	}
}

func TestRemove(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	for _, id := range []int{1, 2} {
		if _, err := svc.Add(ctx, id); err != nil {
			t.Fatalf("add %d: %v", id, err)
		}
	}
	w, err := svc.Remove(ctx, 1)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if w.Contains(1) || !w.Contains(2) {
		t.Fatalf("expected only product 2 left, got %+v", w.Items)
	}
}

func TestClear(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	if _, err := svc.Add(ctx, 1); err != nil {
		t.Fatalf("add: %v", err)
	}
	w, err := svc.Clear(ctx)
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if len(w.Items) != 0 {
		t.Fatalf("expected an empty list, got %+v", w.Items)
	}
}

func TestIsInWishlist(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	if svc.IsInWishlist(ctx, 4) {
		t.Fatalf("empty list cannot contain product 4")
	}
	if _, err := svc.Add(ctx, 4); err != nil {
		t.Fatalf("add: %v", err)
	}
	if !svc.IsInWishlist(ctx, 4) {
		t.Fatalf("expected product 4 to be saved")
	}
}

func TestIsInWishlistFalseOnFailure(t *testing.T) {
	svc := wishlist.NewService(api.NewClient("http://127.0.0.1:1", time.Second))
	if svc.IsInWishlist(context.Background(), 1) {
		t.Fatalf("an unreachable backend must read as not saved")
	}
}

func TestWishlistRequiresAuthentication(t *testing.T) {
	srv := mockapi.New()
	url, stop, err := srv.Start()
	if err != nil {
		t.Fatalf("start mock server: %v", err)
	}
	t.Cleanup(func() { _ = stop() })

	svc := wishlist.NewService(api.NewClient(url, 2*time.Second))
	_, err = svc.Get(context.Background())
	var srvErr *api.ServerError
	if !errors.As(err, &srvErr) || srvErr.StatusCode != 401 {
		t.Fatalf("expected 401 ServerError, got %v", err)
	}
}
