package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/wichananm65/storefront-client/internal/api"
)

// Service fetches catalog data from the backend. Unlike the cart there is
// no local authority here: catalog reads either succeed or fail.
type Service struct {
	api *api.Client
}

func NewService(client *api.Client) *Service {
	return &Service{api: client}
}

// Products lists the catalog, optionally narrowed server-side by q.
func (s *Service) Products(ctx context.Context, q Query) ([]Product, error) {
	params := url.Values{}
	if q.Category != "" {
		params.Set("category", q.Category)
	}
	if q.Brand != "" {
		params.Set("brand", q.Brand)
	}
	if q.MinPrice != nil {
		params.Set("min_price", strconv.FormatFloat(*q.MinPrice, 'f', -1, 64))
	}
	if q.MaxPrice != nil {
		params.Set("max_price", strconv.FormatFloat(*q.MaxPrice, 'f', -1, 64))
	}
	if q.IsFeatured != nil {
		params.Set("is_featured", strconv.FormatBool(*q.IsFeatured))
	}
	if q.IsNew != nil {
		params.Set("is_new", strconv.FormatBool(*q.IsNew))
	}
	if q.Search != "" {
		params.Set("search", q.Search)
	}

	path := "/api/products/"
	if enc := params.Encode(); enc != "" {
		path += "?" + enc
	}
	return s.fetchList(ctx, path)
}

// ByCategory lists one category's products.
func (s *Service) ByCategory(ctx context.Context, category string) ([]Product, error) {
	return s.fetchList(ctx, "/api/products/"+url.PathEscape(category)+"/")
}

// ProductByID fetches a single product.
func (s *Service) ProductByID(ctx context.Context, id int) (Product, error) {
	status, raw, err := s.api.Get(ctx, fmt.Sprintf("/api/products/%d/", id))
	if err != nil {
		return Product{}, err
	}
	if !api.Success(status) {
		return Product{}, &api.ServerError{StatusCode: status, Message: api.ErrorMessage(raw, "failed to get product")}
	}
	var p Product
	if err := api.DecodeData(raw, &p); err != nil {
		return Product{}, err
	}
	return p, nil
}

// Filters fetches the facet metadata for the filter sidebar.
func (s *Service) Filters(ctx context.Context) (Facets, error) {
	status, raw, err := s.api.Get(ctx, "/api/products/filters/")
	if err != nil {
		return Facets{}, err
	}
	if !api.Success(status) {
		return Facets{}, &api.ServerError{StatusCode: status, Message: api.ErrorMessage(raw, "failed to get filters")}
	}

	var f Facets
	if jsonLooksLikeEnvelope(raw) {
		if err := api.DecodeData(raw, &f); err != nil {
			return Facets{}, err
		}
		return f, nil
	}
	if err := json.Unmarshal(raw, &f); err != nil {
		return Facets{}, &api.ServerError{Message: "malformed filters response"}
	}
	return f, nil
}

// fetchList accepts both response shapes the backend serves for listings:
// a status envelope and a bare JSON array.
func (s *Service) fetchList(ctx context.Context, path string) ([]Product, error) {
	status, raw, err := s.api.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	if !api.Success(status) {
		return nil, &api.ServerError{StatusCode: status, Message: api.ErrorMessage(raw, "failed to get products")}
	}

	var products []Product
	if jsonLooksLikeEnvelope(raw) {
		if err := api.DecodeData(raw, &products); err != nil {
			return nil, err
		}
		return products, nil
	}
	if err := json.Unmarshal(raw, &products); err != nil {
		return nil, &api.ServerError{Message: "malformed products response"}
	}
	return products, nil
}

func jsonLooksLikeEnvelope(raw []byte) bool {
	var probe struct {
		Status string `json:"status"`
	}
	return json.Unmarshal(raw, &probe) == nil && probe.Status != ""
}
