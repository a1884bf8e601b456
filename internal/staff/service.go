package staff

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/wichananm65/storefront-client/internal/api"
	"github.com/wichananm65/storefront-client/internal/order"
)

// Service talks to the staff order endpoints. Requires a staff token; a
// non-staff caller gets the backend's 403 surfaced as a ServerError.
type Service struct {
	api *api.Client
}

func NewService(client *api.Client) *Service {
	return &Service{api: client}
}

// Orders lists orders matching q. The backend serves either a bare array
// or a paginated {results, count} object; both are accepted. The returned
// total is the overall match count when the backend paginates, otherwise
// the length of the returned page.
func (s *Service) Orders(ctx context.Context, q Query) ([]order.Order, int, error) {
	params := url.Values{}
	if q.Status != "" {
		params.Set("status", string(q.Status))
	}
	if q.StartDate != "" {
		params.Set("start_date", q.StartDate)
	}
	if q.EndDate != "" {
		params.Set("end_date", q.EndDate)
	}
	if q.Search != "" {
		params.Set("search", q.Search)
	}
	if q.Page > 0 {
		params.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.SortBy != "" {
		params.Set("sort_by", q.SortBy)
	}
	if q.SortDir != "" {
		params.Set("sort_dir", q.SortDir)
	}

	path := "/api/staff/orders/"
	if enc := params.Encode(); enc != "" {
		path += "?" + enc
	}

	status, raw, err := s.api.Get(ctx, path)
	if err != nil {
		return nil, 0, err
	}
	if !api.Success(status) {
		return nil, 0, &api.ServerError{StatusCode: status, Message: api.ErrorMessage(raw, "failed to fetch orders")}
	}

	var list []order.Order
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, len(list), nil
	}

	var paged struct {
		Results []order.Order `json:"results"`
		Count   int           `json:"count"`
	}
	if err := json.Unmarshal(raw, &paged); err == nil && paged.Results != nil {
		total := paged.Count
		if total == 0 {
			total = len(paged.Results)
		}
		return paged.Results, total, nil
	}

	if err := api.DecodeData(raw, &list); err != nil {
		return nil, 0, err
	}
	return list, len(list), nil
}

// Order fetches one order.
func (s *Service) Order(ctx context.Context, id int) (order.Order, error) {
	status, raw, err := s.api.Get(ctx, fmt.Sprintf("/api/staff/orders/%d/", id))
	if err != nil {
		return order.Order{}, err
	}
	if !api.Success(status) {
		return order.Order{}, &api.ServerError{StatusCode: status, Message: api.ErrorMessage(raw, "failed to fetch order")}
	}
	var ord order.Order
	if err := api.DecodeData(raw, &ord); err != nil {
		return order.Order{}, err
	}
	return ord, nil
}

// UpdateStatus moves an order to a new status. This is the only mutation
// allowed on a placed order.
func (s *Service) UpdateStatus(ctx context.Context, id int, newStatus order.Status) (order.Order, error) {
	if !newStatus.Valid() {
		return order.Order{}, fmt.Errorf("invalid order status %q", newStatus)
	}

	body := map[string]string{"status": string(newStatus)}
	status, raw, err := s.api.Do(ctx, http.MethodPut, fmt.Sprintf("/api/staff/orders/%d/", id), body)
	if err != nil {
		return order.Order{}, err
	}
	if !api.Success(status) {
		return order.Order{}, &api.ServerError{StatusCode: status, Message: api.ErrorMessage(raw, "failed to update order")}
	}
	var ord order.Order
	if err := api.DecodeData(raw, &ord); err != nil {
		return order.Order{}, err
	}
	return ord, nil
}

// Delete removes an order entirely.
func (s *Service) Delete(ctx context.Context, id int) error {
	status, raw, err := s.api.Do(ctx, http.MethodDelete, fmt.Sprintf("/api/staff/orders/%d/", id), nil)
	if err != nil {
		return err
	}
	if !api.Success(status) {
		return &api.ServerError{StatusCode: status, Message: api.ErrorMessage(raw, "failed to delete order")}
	}
	return nil
}
