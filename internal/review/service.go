package review

import (
	"context"
	"fmt"
	"net/http"

	"github.com/wichananm65/storefront-client/internal/api"
)

type Service struct {
	api *api.Client
}

func NewService(client *api.Client) *Service {
	return &Service{api: client}
}

// ForProduct lists a product's reviews. No session required.
func (s *Service) ForProduct(ctx context.Context, productID int) ([]Review, error) {
	status, raw, err := s.api.Get(ctx, fmt.Sprintf("/api/products/%d/reviews/", productID))
	if err != nil {
		return nil, err
	}
	if !api.Success(status) {
		return nil, &api.ServerError{StatusCode: status, Message: api.ErrorMessage(raw, "failed to get reviews")}
	}
	var reviews []Review
	if err := api.DecodeData(raw, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

// Create posts a review on a product. The rating is checked before any
// network call since the 1..5 scale is part of the contract.
func (s *Service) Create(ctx context.Context, productID, rating int, comment string) (Review, error) {
	if !ValidRating(rating) {
		return Review{}, &api.ValidationError{Messages: []string{"Rating must be between 1 and 5."}}
	}
	body := map[string]any{"rating": rating, "comment": comment}
	status, raw, err := s.api.Do(ctx, http.MethodPost, fmt.Sprintf("/api/products/%d/reviews/create/", productID), body)
	if err != nil {
		return Review{}, err
	}
	return decode(status, raw, "failed to create review")
}

// Update rewrites one of the caller's own reviews.
func (s *Service) Update(ctx context.Context, reviewID, rating int, comment string) (Review, error) {
	if !ValidRating(rating) {
		return Review{}, &api.ValidationError{Messages: []string{"Rating must be between 1 and 5."}}
	}
	body := map[string]any{"rating": rating, "comment": comment}
	status, raw, err := s.api.Do(ctx, http.MethodPut, fmt.Sprintf("/api/reviews/%d/update/", reviewID), body)
	if err != nil {
		return Review{}, err
	}
	return decode(status, raw, "failed to update review")
}

// Delete removes one of the caller's own reviews.
func (s *Service) Delete(ctx context.Context, reviewID int) error {
	status, raw, err := s.api.Do(ctx, http.MethodDelete, fmt.Sprintf("/api/reviews/%d/delete/", reviewID), nil)
	if err != nil {
		return err
	}
	if !api.Success(status) {
		return &api.ServerError{StatusCode: status, Message: api.ErrorMessage(raw, "failed to delete review")}
	}
	return nil
}

// Mine lists every review the active user has written.
func (s *Service) Mine(ctx context.Context) ([]Review, error) {
	status, raw, err := s.api.Get(ctx, "/api/reviews/user/")
	if err != nil {
		return nil, err
	}
	if !api.Success(status) {
		return nil, &api.ServerError{StatusCode: status, Message: api.ErrorMessage(raw, "failed to get your reviews")}
	}
	var reviews []Review
	if err := api.DecodeData(raw, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

func decode(status int, raw []byte, fallback string) (Review, error) {
	if !api.Success(status) {
		return Review{}, &api.ServerError{StatusCode: status, Message: api.ErrorMessage(raw, fallback)}
	}
	var r Review
	if err := api.DecodeData(raw, &r); err != nil {
		return Review{}, err
	}
	return r, nil
}
