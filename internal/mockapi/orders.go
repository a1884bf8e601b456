package mockapi

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/wichananm65/storefront-client/internal/order"
	"github.com/wichananm65/storefront-client/internal/staff"
)

type createOrderRequest struct {
	ShippingAddress string `json:"shipping_address"`
	// cart_items is a JSON-encoded array of {id, quantity}, mirroring the
	// backend contract
	CartItems string `json:"cart_items"`
}

func (s *Server) createOrder(c *fiber.Ctx) error {
	username, ok := currentUsername(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"status": "error", "message": "unauthorized"})
	}
	payload := new(createOrderRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": err.Error()})
	}
	if payload.ShippingAddress == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Shipping address is required"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var entries []cartEntry
	if payload.CartItems != "" {
		var items []order.CheckoutItem
		if err := json.Unmarshal([]byte(payload.CartItems), &items); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Invalid cart items"})
		}
		for _, it := range items {
			entries = append(entries, cartEntry{it.ID, it.Quantity})
		}
	} else {
		entries = s.carts[username]
	}
	if len(entries) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Cart is empty"})
	}

	var items []order.Item
	var total float64
	for i, e := range entries {
		p, found := s.findProductLocked(e.ProductID)
		if !found {
			continue
		}
		price := p.EffectivePrice()
		items = append(items, order.Item{
			ID:          i + 1,
			ProductID:   p.ID,
			ProductName: p.Name,
			Quantity:    e.Quantity,
			Price:       price,
			Subtotal:    price * float64(e.Quantity),
		})
		total += price * float64(e.Quantity)
	}
	if len(items) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "No valid products in cart"})
	}

	s.nextOrderID++
	acc := s.users[username]
	email := ""
	if acc != nil {
		email = acc.Email
	}
	now := time.Now().UTC().Format(time.RFC3339)
	ord := order.Order{
		ID:              s.nextOrderID,
		OrderNumber:     uuid.NewString(),
		User:            username,
		Items:           items,
		Total:           total,
		Status:          order.StatusPending,
		ShippingAddress: payload.ShippingAddress,
		CustomerEmail:   email,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	s.orders = append(s.orders, ord)
	// placing an order consumes the server cart
	delete(s.carts, username)

	return c.JSON(fiber.Map{"status": "success", "data": ord})
}

func (s *Server) listOrders(c *fiber.Ctx) error {
	username, ok := currentUsername(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"status": "error", "message": "unauthorized"})
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]order.Order, 0)
	for _, o := range s.orders {
		if o.User == username {
			out = append(out, o)
		}
	}
	return c.JSON(fiber.Map{"status": "success", "data": out})
}

// orderHistory returns the user's settled orders.
func (s *Server) orderHistory(c *fiber.Ctx) error {
	username, ok := currentUsername(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"status": "error", "message": "unauthorized"})
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]order.Order, 0)
	for _, o := range s.orders {
		if o.User == username && (o.Status == order.StatusDelivered || o.Status == order.StatusCancelled) {
			out = append(out, o)
		}
	}
	return c.JSON(fiber.Map{"status": "success", "data": out})
}

func (s *Server) getOrder(c *fiber.Ctx) error {
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
	for _, o := range s.orders {
		if o.ID == id && o.User == username {
			return c.JSON(fiber.Map{"status": "success", "data": o})
		}
	}
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "Order not found"})
}

func (s *Server) staffOrders(c *fiber.Ctx) error {
	if !isAdminCtx(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"status": "error", "message": "staff access required"})
	}

	q := staff.Query{
		Status:    order.Status(c.Query("status")),
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
		Search:    c.Query("search"),
		Page:      c.QueryInt("page", 1),
		Limit:     c.QueryInt("limit", 10),
		SortBy:    c.Query("sort_by"),
		SortDir:   c.Query("sort_dir"),
	}

	s.mu.Lock()
	all := make([]order.Order, len(s.orders))
	copy(all, s.orders)
	s.mu.Unlock()

	filtered := staff.Filter(all, q)
	page := staff.Page(filtered, q)
	return c.JSON(fiber.Map{"results": page, "count": len(filtered)})
}

func (s *Server) staffOrder(c *fiber.Ctx) error {
	if !isAdminCtx(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"status": "error", "message": "staff access required"})
	}
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": err.Error()})
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.orders {
		if o.ID == id {
			return c.JSON(fiber.Map{"status": "success", "data": o})
		}
	}
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "Order not found"})
}

func (s *Server) staffUpdateOrder(c *fiber.Ctx) error {
	if !isAdminCtx(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"status": "error", "message": "staff access required"})
	}
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": err.Error()})
	}
	payload := new(struct {
		Status order.Status `json:"status"`
	})
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": err.Error()})
	}
	if !payload.Status.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Invalid status"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.orders {
		if s.orders[i].ID == id {
			s.orders[i].Status = payload.Status
			s.orders[i].UpdatedAt = time.Now().UTC().Format(time.RFC3339)
			return c.JSON(fiber.Map{"status": "success", "data": s.orders[i]})
		}
	}
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "Order not found"})
}

func (s *Server) staffDeleteOrder(c *fiber.Ctx) error {
	if !isAdminCtx(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"status": "error", "message": "staff access required"})
	}
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": err.Error()})
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.orders {
		if s.orders[i].ID == id {
			s.orders = append(s.orders[:i], s.orders[i+1:]...)
			return c.JSON(fiber.Map{"status": "success", "message": "Order deleted"})
		}
	}
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "Order not found"})
}
