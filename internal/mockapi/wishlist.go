package mockapi

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/wichananm65/storefront-client/internal/wishlist"
)

// wishlistLocked returns the user's list, creating an empty one on first
// touch so every response carries a stable wishlist id.
func (s *Server) wishlistLocked(username string) *wishlist.Wishlist {
	if w, ok := s.wishlists[username]; ok {
		return w
	}
	s.nextWishID++
	now := time.Now().UTC().Format(time.RFC3339)
	w := &wishlist.Wishlist{ID: s.nextWishID, Items: []wishlist.Item{}, CreatedAt: now, UpdatedAt: now}
	s.wishlists[username] = w
	return w
}

func (s *Server) getWishlist(c *fiber.Ctx) error {
	username, ok := currentUsername(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"status": "error", "message": "unauthorized"})
	}
	s.mu.Lock()
	w := *s.wishlistLocked(username)
	s.mu.Unlock()
	return c.JSON(fiber.Map{"status": "success", "data": w})
}

func (s *Server) addToWishlist(c *fiber.Ctx) error {
	username, ok := currentUsername(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"status": "error", "message": "unauthorized"})
	}
	payload := new(struct {
		Product int `json:"product"`
	})
	if err := c.BodyParser(payload); err != nil || payload.Product <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "product is required"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, found := s.findProductLocked(payload.Product); !found {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "Product not found"})
	}
	w := s.wishlistLocked(username)
	if !w.Contains(payload.Product) {
		s.nextWishID++
		w.Items = append(w.Items, wishlist.Item{
			ID:      s.nextWishID,
			Product: payload.Product,
			AddedAt: time.Now().UTC().Format(time.RFC3339),
		})
		w.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	return c.JSON(fiber.Map{"status": "success", "data": *w})
}

func (s *Server) removeFromWishlist(c *fiber.Ctx) error {
	username, ok := currentUsername(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"status": "error", "message": "unauthorized"})
	}
	productID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": err.Error()})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	w := s.wishlistLocked(username)
	items := w.Items[:0]
	for _, it := range w.Items {
		if it.Product != productID {
			items = append(items, it)
		}
	}
	w.Items = items
	w.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	return c.JSON(fiber.Map{"status": "success", "data": *w})
}

func (s *Server) clearWishlist(c *fiber.Ctx) error {
	username, ok := currentUsername(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"status": "error", "message": "unauthorized"})
	}
	s.mu.Lock()
	w := s.wishlistLocked(username)
	w.Items = []wishlist.Item{}
	w.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	out := *w
	s.mu.Unlock()
	return c.JSON(fiber.Map{"status": "success", "data": out})
}
