package cart

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"

	"github.com/wichananm65/storefront-client/internal/api"
	"github.com/wichananm65/storefront-client/internal/storage"
)

// Auth is the slice of the session manager the reconciler needs.
type Auth interface {
	IsAuthenticated() bool
	UserName() string
}

// Reconciler gives every identity (guest or authenticated) a consistent,
// durable cart. Changes apply to the local cache first so callers see them
// immediately; when authenticated they are mirrored to the server, whose
// response overwrites the cache (server wins when reachable). A failed
// remote call never raises and never discards applied local state.
type Reconciler struct {
	api   *api.Client
	local storage.Store
	auth  Auth

	mu sync.Mutex
	// seq counts local mutations per identity. A server response that was
	// in flight while a newer local mutation landed is stale and rejected.
	seq map[string]uint64
}

func NewReconciler(client *api.Client, local storage.Store, auth Auth) *Reconciler {
	return &Reconciler{api: client, local: local, auth: auth, seq: make(map[string]uint64)}
}

func (r *Reconciler) identity() string {
	if r.auth != nil && r.auth.IsAuthenticated() {
		if u := r.auth.UserName(); u != "" {
			return u
		}
	}
	return GuestKey
}

func (r *Reconciler) authenticated() bool {
	return r.auth != nil && r.auth.IsAuthenticated()
}

// Get returns the active identity's cart. Authenticated: server copy,
// falling back to the local cache on any failure. Guest: local cache only,
// the network is never touched.
func (r *Reconciler) Get(ctx context.Context) []Line {
	id := r.identity()
	if !r.authenticated() {
		return r.localLines(id)
	}

	before := r.snapshotSeq(id)
	status, raw, err := r.api.Get(ctx, "/api/cart/")
	if err != nil || !api.Success(status) {
		log.Printf("cart: fetch failed (status=%d err=%v), using local cache", status, err)
		return r.localLines(id)
	}
	var items []serverItem
	if err := api.DecodeData(raw, &items); err != nil {
		log.Printf("cart: %v, using local cache", err)
		return r.localLines(id)
	}
	return r.reconcile(id, before, fromServer(items))
}

// Add puts a line in the cart, summing quantities when the product is
// already present.
func (r *Reconciler) Add(ctx context.Context, line Line) []Line {
	id := r.identity()
	r.mu.Lock()
	lines := mergeLine(loadCart(r.local, id), line)
	saveCart(r.local, id, lines)
	r.seq[id]++
	after := r.seq[id]
	r.mu.Unlock()

	if !r.authenticated() {
		return lines
	}
	body := map[string]int{"product_id": line.ID, "quantity": line.Quantity}
	return r.mirror(ctx, id, after, lines, http.MethodPost, "/api/cart/add/", body)
}

// UpdateQuantity sets a line's quantity. Zero or below removes the line.
func (r *Reconciler) UpdateQuantity(ctx context.Context, productID, quantity int) []Line {
	id := r.identity()
	r.mu.Lock()
	lines := loadCart(r.local, id)
	if quantity <= 0 {
		lines = removeLine(lines, productID)
	} else {
		for i := range lines {
			if lines[i].ID == productID {
				lines[i].Quantity = quantity
			}
		}
	}
	saveCart(r.local, id, lines)
	r.seq[id]++
	after := r.seq[id]
	r.mu.Unlock()

	if !r.authenticated() {
		return lines
	}
	if quantity <= 0 {
		return r.mirror(ctx, id, after, lines, http.MethodDelete, fmt.Sprintf("/api/cart/remove/%d/", productID), nil)
	}
	body := map[string]int{"quantity": quantity}
	return r.mirror(ctx, id, after, lines, http.MethodPut, fmt.Sprintf("/api/cart/update/%d/", productID), body)
}

// Remove deletes a line from the cart.
func (r *Reconciler) Remove(ctx context.Context, productID int) []Line {
	id := r.identity()
	r.mu.Lock()
	lines := removeLine(loadCart(r.local, id), productID)
	saveCart(r.local, id, lines)
	r.seq[id]++
	after := r.seq[id]
	r.mu.Unlock()

	if !r.authenticated() {
		return lines
	}
	return r.mirror(ctx, id, after, lines, http.MethodDelete, fmt.Sprintf("/api/cart/remove/%d/", productID), nil)
}

// Clear empties the local cart unconditionally and, when authenticated,
// asks the server to do the same (best effort).
func (r *Reconciler) Clear(ctx context.Context) {
	id := r.identity()
	r.mu.Lock()
	r.local.Delete(cartKey(id))
	r.seq[id]++
	r.mu.Unlock()

	if !r.authenticated() {
		return
	}
	if status, _, err := r.api.Do(ctx, http.MethodDelete, "/api/cart/clear/", nil); err != nil || !api.Success(status) {
		log.Printf("cart: remote clear failed (status=%d err=%v)", status, err)
	}
}

// Sync is the guest-to-authenticated merge point, run right after login.
// The guest cart is pushed to the sync endpoint; the server's merged cart
// becomes both the server state and the local cache, and the guest entry
// is cleared. An empty guest cart degenerates to a plain Get.
func (r *Reconciler) Sync(ctx context.Context) []Line {
	if !r.authenticated() {
		return r.localLines(GuestKey)
	}
	id := r.identity()

	guest := r.localLines(GuestKey)
	if len(guest) == 0 {
		return r.Get(ctx)
	}

	before := r.snapshotSeq(id)
	status, raw, err := r.api.Do(ctx, http.MethodPost, "/api/cart/sync/", map[string]any{"items": guest})
	if err != nil || !api.Success(status) {
		log.Printf("cart: sync failed (status=%d err=%v), keeping local cart", status, err)
		return guest
	}
	var items []serverItem
	if err := api.DecodeData(raw, &items); err != nil {
		log.Printf("cart: sync: %v, keeping local cart", err)
		return guest
	}

	r.mu.Lock()
	r.local.Delete(cartKey(GuestKey))
	r.mu.Unlock()
	return r.reconcile(id, before, fromServer(items))
}

// Save replaces the whole cart. Authenticated saves clear the server cart
// and re-add every line, matching the backend's bulk-replace contract.
func (r *Reconciler) Save(ctx context.Context, lines []Line) {
	id := r.identity()
	r.mu.Lock()
	saveCart(r.local, id, lines)
	r.seq[id]++
	r.mu.Unlock()

	if !r.authenticated() {
		return
	}
	if status, _, err := r.api.Do(ctx, http.MethodDelete, "/api/cart/clear/", nil); err != nil || !api.Success(status) {
		log.Printf("cart: save: remote clear failed (status=%d err=%v)", status, err)
		return
	}
	for _, line := range lines {
		body := map[string]int{"product_id": line.ID, "quantity": line.Quantity}
		if status, _, err := r.api.Do(ctx, http.MethodPost, "/api/cart/add/", body); err != nil || !api.Success(status) {
			log.Printf("cart: save: remote add failed (status=%d err=%v)", status, err)
			return
		}
	}
}

// Total is the sum of price times quantity over the active cart.
func (r *Reconciler) Total(ctx context.Context) float64 { return Total(r.Get(ctx)) }

// ItemCount is the sum of quantities over the active cart.
func (r *Reconciler) ItemCount(ctx context.Context) int { return Count(r.Get(ctx)) }

// Snapshot stashes a user's cart under the savedCart key and clears the
// live entry. Called by the session manager during logout.
func (r *Reconciler) Snapshot(username string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	lines := loadCart(r.local, username)
	if len(lines) > 0 {
		_ = storage.SetJSON(r.local, savedKey(username), lines)
	}
	r.local.Delete(cartKey(username))
}

// RestoreSaved moves a logout snapshot back into the guest cart so the
// next sync carries it to the server. With overwrite false an existing
// guest cart wins and the snapshot is kept for later.
func (r *Reconciler) RestoreSaved(username string, overwrite bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	raw, ok := r.local.Get(savedKey(username))
	if !ok {
		return
	}
	if !overwrite {
		if existing := loadCart(r.local, GuestKey); len(existing) > 0 {
			return
		}
	}
	_ = r.local.Set(cartKey(GuestKey), raw)
	r.local.Delete(savedKey(username))
	r.seq[GuestKey]++
}

func (r *Reconciler) localLines(identity string) []Line {
	r.mu.Lock()
	defer r.mu.Unlock()
	return loadCart(r.local, identity)
}

func (r *Reconciler) snapshotSeq(identity string) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.seq[identity]
}

// mirror pushes a local mutation to the server and then refreshes the
// cache from the server cart. Failures leave the locally-applied lines
// standing.
func (r *Reconciler) mirror(ctx context.Context, identity string, seq uint64, local []Line, method, path string, body any) []Line {
	status, _, err := r.api.Do(ctx, method, path, body)
	if err != nil || !api.Success(status) {
		log.Printf("cart: mirror %s %s failed (status=%d err=%v), keeping local state", method, path, status, err)
		return local
	}

	fstatus, raw, err := r.api.Get(ctx, "/api/cart/")
	if err != nil || !api.Success(fstatus) {
		log.Printf("cart: refresh after mirror failed (status=%d err=%v)", fstatus, err)
		return local
	}
	var items []serverItem
	if err := api.DecodeData(raw, &items); err != nil {
		log.Printf("cart: refresh after mirror: %v", err)
		return local
	}
	return r.reconcile(identity, seq, fromServer(items))
}

// reconcile applies a server cart to the cache unless a newer local
// mutation happened while the request was in flight.
func (r *Reconciler) reconcile(identity string, seq uint64, server []Line) []Line {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.seq[identity] != seq {
		// stale response; the local cache already moved on
		return loadCart(r.local, identity)
	}
	saveCart(r.local, identity, server)
	return server
}

func removeLine(lines []Line, productID int) []Line {
	out := lines[:0]
	for _, l := range lines {
		if l.ID != productID {
			out = append(out, l)
		}
	}
	return out
}
