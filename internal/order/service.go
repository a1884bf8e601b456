package order

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/wichananm65/storefront-client/internal/api"
)

// Service places orders and reads order history for the active identity.
// All operations require authentication; errors propagate to the caller.
type Service struct {
	api *api.Client
}

func NewService(client *api.Client) *Service {
	return &Service{api: client}
}

// Create places an order from the given cart items. The backend contract
// carries cart_items as a JSON-encoded string inside the JSON body.
func (s *Service) Create(ctx context.Context, shippingAddress string, items []CheckoutItem) (Order, error) {
	body := map[string]string{"shipping_address": shippingAddress}
	if len(items) > 0 {
		encoded, err := json.Marshal(items)
		if err != nil {
			return Order{}, err
		}
		body["cart_items"] = string(encoded)
	}

	status, raw, err := s.api.Do(ctx, http.MethodPost, "/api/orders/create/", body)
	if err != nil {
		return Order{}, err
	}
	if !api.Success(status) {
		return Order{}, &api.ServerError{StatusCode: status, Message: api.ErrorMessage(raw, "failed to create order")}
	}
	var ord Order
	if err := api.DecodeData(raw, &ord); err != nil {
		return Order{}, err
	}
	return ord, nil
}

// List returns the active user's orders.
func (s *Service) List(ctx context.Context) ([]Order, error) {
	return s.fetchList(ctx, "/api/orders/")
}

// History returns the active user's completed order history.
func (s *Service) History(ctx context.Context) ([]Order, error) {
	return s.fetchList(ctx, "/api/orders/history/")
}

// GetByID fetches one order's details.
func (s *Service) GetByID(ctx context.Context, id int) (Order, error) {
	status, raw, err := s.api.Get(ctx, fmt.Sprintf("/api/orders/%d/", id))
	if err != nil {
		return Order{}, err
	}
	if !api.Success(status) {
		return Order{}, &api.ServerError{StatusCode: status, Message: api.ErrorMessage(raw, "failed to get order details")}
	}
	var ord Order
	if err := api.DecodeData(raw, &ord); err != nil {
		return Order{}, err
	}
	return ord, nil
}

func (s *Service) fetchList(ctx context.Context, path string) ([]Order, error) {
	status, raw, err := s.api.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	if !api.Success(status) {
		return nil, &api.ServerError{StatusCode: status, Message: api.ErrorMessage(raw, "failed to get orders")}
	}
	var orders []Order
	if err := api.DecodeData(raw, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}
