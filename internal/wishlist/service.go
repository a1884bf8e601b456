package wishlist

import (
	"context"
	"fmt"
	"net/http"

	"github.com/wichananm65/storefront-client/internal/api"
)

// Service talks to the wishlist endpoints. Mutations return the updated
// list so callers never need a follow-up fetch.
type Service struct {
	api *api.Client
}

func NewService(client *api.Client) *Service {
	return &Service{api: client}
}

// Get fetches the active user's wishlist.
func (s *Service) Get(ctx context.Context) (Wishlist, error) {
	status, raw, err := s.api.Get(ctx, "/api/wishlist/")
	if err != nil {
		return Wishlist{}, err
	}
	return decode(status, raw, "failed to get wishlist")
}

// Add puts a product on the list. Adding a product that is already present
// is a no-op success.
func (s *Service) Add(ctx context.Context, productID int) (Wishlist, error) {
	status, raw, err := s.api.Do(ctx, http.MethodPost, "/api/wishlist/add/", map[string]int{"product": productID})
	if err != nil {
		return Wishlist{}, err
	}
	return decode(status, raw, "failed to add to wishlist")
}

// Remove takes a product off the list.
func (s *Service) Remove(ctx context.Context, productID int) (Wishlist, error) {
	status, raw, err := s.api.Do(ctx, http.MethodDelete, fmt.Sprintf("/api/wishlist/remove/%d/", productID), nil)
	if err != nil {
		return Wishlist{}, err
	}
	return decode(status, raw, "failed to remove from wishlist")
}

// Clear empties the list.
func (s *Service) Clear(ctx context.Context) (Wishlist, error) {
	status, raw, err := s.api.Do(ctx, http.MethodDelete, "/api/wishlist/clear/", nil)
	if err != nil {
		return Wishlist{}, err
	}
	return decode(status, raw, "failed to clear wishlist")
}

// IsInWishlist reports whether productID is saved. Any failure reads as
// "not saved": the answer only drives a UI toggle.
func (s *Service) IsInWishlist(ctx context.Context, productID int) bool {
	w, err := s.Get(ctx)
	if err != nil {
		return false
	}
	return w.Contains(productID)
}

func decode(status int, raw []byte, fallback string) (Wishlist, error) {
	if !api.Success(status) {
		return Wishlist{}, &api.ServerError{StatusCode: status, Message: api.ErrorMessage(raw, fallback)}
	}
	var w Wishlist
	if err := api.DecodeData(raw, &w); err != nil {
		return Wishlist{}, err
	}
	return w, nil
}
