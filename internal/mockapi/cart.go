package mockapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/wichananm65/storefront-client/internal/catalog"
)

// cartItems renders a user's cart in the wire shape, joining product data.
// Callers must hold s.mu.
func (s *Server) cartItemsLocked(username string) []fiber.Map {
	items := make([]fiber.Map, 0, len(s.carts[username]))
	for i, entry := range s.carts[username] {
		p, ok := s.findProductLocked(entry.ProductID)
		if !ok {
			continue
		}
		items = append(items, fiber.Map{
			"id":         i + 1,
			"product_id": p.ID,
			"name":       p.Name,
			"category":   p.Category,
			"price":      p.EffectivePrice(),
			"quantity":   entry.Quantity,
			"image_url":  p.ImageURL,
			"stock":      p.Stock,
		})
	}
	return items
}

func (s *Server) findProductLocked(id int) (catalog.Product, bool) {
	for _, p := range s.products {
		if p.ID == id {
			return p, true
		}
	}
	return catalog.Product{}, false
}

func (s *Server) getCart(c *fiber.Ctx) error {
	username, ok := currentUsername(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"status": "error", "message": "unauthorized"})
	}
	s.mu.Lock()
	items := s.cartItemsLocked(username)
	s.mu.Unlock()
	return c.JSON(fiber.Map{"status": "success", "data": items})
}

type cartAddRequest struct {
	ProductID int `json:"product_id"`
	Quantity  int `json:"quantity"`
}

func (s *Server) addToCart(c *fiber.Ctx) error {
	username, ok := currentUsername(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"status": "error", "message": "unauthorized"})
	}
	payload := new(cartAddRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": err.Error()})
	}
	if payload.ProductID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "product_id is required"})
	}
	if payload.Quantity == 0 {
		payload.Quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p, found := s.findProductLocked(payload.ProductID)
	if !found {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "Product not found"})
	}
	s.carts[username] = mergeEntry(s.carts[username], cartEntry{payload.ProductID, payload.Quantity}, p.Stock)
	return c.JSON(fiber.Map{"status": "success", "data": s.cartItemsLocked(username)})
}

func (s *Server) updateCartItem(c *fiber.Ctx) error {
	username, ok := currentUsername(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"status": "error", "message": "unauthorized"})
	}
	productID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": err.Error()})
	}
	payload := new(struct {
		Quantity int `json:"quantity"`
	})
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": err.Error()})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	entries := s.carts[username]
	updated := false
	for i := range entries {
		if entries[i].ProductID != productID {
			continue
		}
		updated = true
		if payload.Quantity <= 0 {
			entries = append(entries[:i], entries[i+1:]...)
		} else {
			entries[i].Quantity = payload.Quantity
			if p, ok := s.findProductLocked(productID); ok && entries[i].Quantity > p.Stock {
				entries[i].Quantity = p.Stock
			}
		}
		break
	}
	if !updated {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "Item not found in cart"})
	}
	s.carts[username] = entries
	return c.JSON(fiber.Map{"status": "success", "data": s.cartItemsLocked(username)})
}

func (s *Server) removeFromCart(c *fiber.Ctx) error {
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
	entries := s.carts[username]
	out := entries[:0]
	for _, e := range entries {
		if e.ProductID != productID {
			out = append(out, e)
		}
	}
	s.carts[username] = out
	return c.JSON(fiber.Map{"status": "success", "data": s.cartItemsLocked(username)})
}

func (s *Server) clearCart(c *fiber.Ctx) error {
	username, ok := currentUsername(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"status": "error", "message": "unauthorized"})
	}
	s.mu.Lock()
	delete(s.carts, username)
	s.mu.Unlock()
	return c.JSON(fiber.Map{"status": "success", "message": "Cart cleared"})
}

type syncRequest struct {
	Items []struct {
		ID        int `json:"id"`
		ProductID int `json:"product_id"`
		Quantity  int `json:"quantity"`
	} `json:"items"`
}

// syncCart merges client-side items into the server cart: quantities for
// products present on both sides are summed, clamped to stock.
func (s *Server) syncCart(c *fiber.Ctx) error {
	username, ok := currentUsername(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"status": "error", "message": "unauthorized"})
	}
	payload := new(syncRequest)
	if err := c.BodyParser(payload); err != nil || payload.Items == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Cart items array is required"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range payload.Items {
		productID := item.ID
		if item.ProductID != 0 {
			productID = item.ProductID
		}
		quantity := item.Quantity
		if productID == 0 || quantity == 0 {
			continue
		}
		p, found := s.findProductLocked(productID)
		if !found {
			continue
		}
		s.carts[username] = mergeEntry(s.carts[username], cartEntry{productID, quantity}, p.Stock)
	}
	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "Cart synchronized successfully",
		"data":    s.cartItemsLocked(username),
	})
}

func mergeEntry(entries []cartEntry, add cartEntry, stock int) []cartEntry {
	for i := range entries {
		if entries[i].ProductID == add.ProductID {
			entries[i].Quantity += add.Quantity
			if stock > 0 && entries[i].Quantity > stock {
				entries[i].Quantity = stock
			}
			if entries[i].Quantity <= 0 {
				return append(entries[:i], entries[i+1:]...)
			}
			return entries
		}
	}
	if add.Quantity <= 0 {
		return entries
	}
	if stock > 0 && add.Quantity > stock {
		add.Quantity = stock
	}
	return append(entries, add)
}
