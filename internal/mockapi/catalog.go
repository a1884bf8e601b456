package mockapi

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/wichananm65/storefront-client/internal/catalog"
)

// DefaultProducts seeds the catalog with a small assortment spanning the
// facet buckets.
func DefaultProducts() []catalog.Product {
	sale := 79.0
	return []catalog.Product{
		{ID: 1, Name: "Studio Headphones", Category: "audio", Brand: "Acme", Connections: "bluetooth, 3.5mm", Price: 199, Stock: 12, IsActive: true, IsFeatured: true, CreatedAt: "2025-03-01T10:00:00Z"},
		{ID: 2, Name: "Desk Microphone", Category: "audio", Brand: "Volt", Connections: "usb-c", Price: 89, SalePrice: &sale, Stock: 8, IsActive: true, CreatedAt: "2025-04-11T10:00:00Z"},
		{ID: 3, Name: "Mechanical Keyboard", Category: "accessories", Brand: "Acme", Connections: "usb-c, bluetooth", Price: 349, Stock: 20, IsActive: true, IsNew: true, CreatedAt: "2025-06-20T10:00:00Z"},
		{ID: 4, Name: "4K Monitor", Category: "displays", Brand: "Northlight", Connections: "hdmi, displayport", Price: 549, Stock: 5, IsActive: true, CreatedAt: "2025-01-15T10:00:00Z"},
		{ID: 5, Name: "Webcam Mini", Category: "accessories", Brand: "Volt", Connections: "usb-c", Price: 59, Stock: 30, IsActive: true, IsNew: true, CreatedAt: "2025-07-02T10:00:00Z"},
	}
}

func (s *Server) listProducts(c *fiber.Ctx) error {
	s.mu.Lock()
	products := make([]catalog.Product, len(s.products))
	copy(products, s.products)
	s.mu.Unlock()

	out := make([]catalog.Product, 0, len(products))
	for _, p := range products {
		if v := c.Query("category"); v != "" && p.Category != v {
			continue
		}
		if v := c.Query("brand"); v != "" && p.Brand != v {
			continue
		}
		if v := c.Query("min_price"); v != "" {
			if min, err := strconv.ParseFloat(v, 64); err == nil && p.Price < min {
				continue
			}
		}
		if v := c.Query("max_price"); v != "" {
			if max, err := strconv.ParseFloat(v, 64); err == nil && p.Price > max {
				continue
			}
		}
		if v := c.Query("is_featured"); v != "" && strconv.FormatBool(p.IsFeatured) != v {
			continue
		}
		if v := c.Query("is_new"); v != "" && strconv.FormatBool(p.IsNew) != v {
			continue
		}
		if v := c.Query("search"); v != "" {
			q := strings.ToLower(v)
			if !strings.Contains(strings.ToLower(p.Name), q) && !strings.Contains(strings.ToLower(p.Description), q) {
				continue
			}
		}
		out = append(out, p)
	}
	return c.JSON(fiber.Map{"status": "success", "data": out})
}

func (s *Server) getProduct(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": err.Error()})
	}
	s.mu.Lock()
	p, found := s.findProductLocked(id)
	s.mu.Unlock()
	if !found {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "Product not found"})
	}
	return c.JSON(fiber.Map{"status": "success", "data": p})
}

func (s *Server) productsByCategory(c *fiber.Ctx) error {
	category := c.Params("category")
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]catalog.Product, 0)
	for _, p := range s.products {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return c.JSON(fiber.Map{"status": "success", "data": out})
}

// productFilters serves the facet metadata. Unlike the listings this
// endpoint responds with a bare object, matching the backend contract.
func (s *Server) productFilters(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	brandCounts := map[string]int{}
	connCounts := map[string]int{}
	for _, p := range s.products {
		if p.Brand != "" {
			brandCounts[p.Brand]++
		}
		for _, conn := range strings.Split(p.Connections, ",") {
			if v := strings.TrimSpace(conn); v != "" {
				connCounts[v]++
			}
		}
	}

	brands := make([]fiber.Map, 0, len(brandCounts))
	for name, count := range brandCounts {
		brands = append(brands, fiber.Map{"name": name, "count": count})
	}
	conns := make([]fiber.Map, 0, len(connCounts))
	for name, count := range connCounts {
		conns = append(conns, fiber.Map{"name": name, "count": count})
	}

	ranges := make([]fiber.Map, 0, len(catalog.DefaultPriceRanges))
	for _, r := range catalog.DefaultPriceRanges {
		entry := fiber.Map{"name": r.Name, "min": r.Min}
		if r.Max != nil {
			entry["max"] = *r.Max
		} else {
			entry["max"] = nil
		}
		ranges = append(ranges, entry)
	}

	return c.JSON(fiber.Map{
		"brands":       brands,
		"connections":  conns,
		"price_ranges": ranges,
	})
}
