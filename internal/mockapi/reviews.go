package mockapi

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/wichananm65/storefront-client/internal/review"
)

type reviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (s *Server) productReviews(c *fiber.Ctx) error {
	productID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": err.Error()})
	}
	s.mu.Lock()
	out := make([]review.Review, 0)
	for _, r := range s.reviews {
		if r.Product == productID {
			out = append(out, r)
		}
	}
	s.mu.Unlock()
	return c.JSON(fiber.Map{"status": "success", "data": out})
}

func (s *Server) createReview(c *fiber.Ctx) error {
	username, ok := currentUsername(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"status": "error", "message": "unauthorized"})
	}
	productID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": err.Error()})
	}
	payload := new(reviewRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": err.Error()})
	}
	if !review.ValidRating(payload.Rating) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Rating must be between 1 and 5"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, found := s.findProductLocked(productID); !found {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "Product not found"})
	}
	acc := s.users[username]
	if acc == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "user not found"})
	}
	// one review per user per product
	for _, r := range s.reviews {
		if r.Product == productID && r.User == acc.ID {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "You have already reviewed this product"})
		}
	}

	s.nextReviewID++
	now := time.Now().UTC().Format(time.RFC3339)
	rec := review.Review{
		ID:        s.nextReviewID,
		Product:   productID,
		User:      acc.ID,
		Username:  username,
		Rating:    payload.Rating,
		Comment:   payload.Comment,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.reviews = append(s.reviews, rec)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"status": "success", "data": rec})
}

func (s *Server) updateReview(c *fiber.Ctx) error {
	username, ok := currentUsername(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"status": "error", "message": "unauthorized"})
	}
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": err.Error()})
	}
	payload := new(reviewRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": err.Error()})
	}
	if !review.ValidRating(payload.Rating) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Rating must be between 1 and 5"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.reviews {
		if s.reviews[i].ID != id {
			continue
		}
		if s.reviews[i].Username != username {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"status": "error", "message": "You can only edit your own reviews"})
		}
		s.reviews[i].Rating = payload.Rating
		s.reviews[i].Comment = payload.Comment
		s.reviews[i].UpdatedAt = time.Now().UTC().Format(time.RFC3339)
		return c.JSON(fiber.Map{"status": "success", "data": s.reviews[i]})
	}
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "Review not found"})
}

func (s *Server) deleteReview(c *fiber.Ctx) error {
	username, ok := currentUsername(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"status": "error", "message": "unauthorized"})
	}
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": err.Error()})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.reviews {
		if s.reviews[i].ID != id {
			continue
		}
		if s.reviews[i].Username != username {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"status": "error", "message": "You can only delete your own reviews"})
		}
		s.reviews = append(s.reviews[:i], s.reviews[i+1:]...)
		return c.JSON(fiber.Map{"status": "success", "message": "Review deleted"})
	}
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "Review not found"})
}

func (s *Server) userReviews(c *fiber.Ctx) error {
	username, ok := currentUsername(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"status": "error", "message": "unauthorized"})
	}
	s.mu.Lock()
	out := make([]review.Review, 0)
	for _, r := range s.reviews {
		if r.Username == username {
			out = append(out, r)
		}
	}
	s.mu.Unlock()
	return c.JSON(fiber.Map{"status": "success", "data": out})
}
