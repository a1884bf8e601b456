package mockapi

import (
	"strings"
	"unicode"

	"github.com/gofiber/fiber/v2"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	UserType  string `json:"user_type"`
}

func (s *Server) login(c *fiber.Ctx) error {
	payload := new(loginRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": err.Error()})
	}
	if payload.Username == "" || payload.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Username and password are required"})
	}

	s.mu.Lock()
	acc, ok := s.users[payload.Username]
	s.mu.Unlock()
	if !ok || acc.Password != payload.Password {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"status": "error", "message": "Invalid credentials"})
	}

	token, err := s.issueToken(acc)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "failed to generate token"})
	}

	return c.JSON(s.authResponse(acc, token))
}

func (s *Server) register(c *fiber.Ctx) error {
	payload := new(registerRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": err.Error()})
	}
	if payload.Username == "" || payload.Password == "" || payload.Email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Username, password and email are required"})
	}

	s.mu.Lock()
	if _, exists := s.users[payload.Username]; exists {
		s.mu.Unlock()
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Username already exists"})
	}
	for _, u := range s.users {
		if u.Email == payload.Email {
			s.mu.Unlock()
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Email already exists"})
		}
	}
	s.nextUserID++
	acc := &account{
		ID:        s.nextUserID,
		Username:  payload.Username,
		Email:     payload.Email,
		Password:  payload.Password,
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		UserType:  "customer",
	}
	if payload.UserType != "" {
		acc.UserType = payload.UserType
	}
	s.users[acc.Username] = acc
	s.mu.Unlock()

	token, err := s.issueToken(acc)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "failed to generate token"})
	}

	return c.Status(fiber.StatusCreated).JSON(s.authResponse(acc, token))
}

// authResponse renders one of the known auth payload shapes.
func (s *Server) authResponse(acc *account, token string) fiber.Map {
	user := fiber.Map{
		"id":           acc.ID,
		"username":     acc.Username,
		"email":        acc.Email,
		"first_name":   acc.FirstName,
		"last_name":    acc.LastName,
		"is_admin":     acc.IsAdmin,
		"is_superuser": acc.IsSuperuser,
		"user_type":    acc.UserType,
		"address":      acc.Address,
	}
	switch s.shape {
	case ShapeKey:
		return fiber.Map{"key": token, "user": user}
	case ShapeFlat:
		user["token"] = token
		return user
	default:
		user["token"] = token
		return fiber.Map{"status": "success", "data": user}
	}
}

func (s *Server) logout(c *fiber.Ctx) error {
	auth := c.Get("Authorization")
	if raw, found := strings.CutPrefix(auth, "Token "); found {
		s.mu.Lock()
		// raw aliases fasthttp's reusable request buffer; copy before keying
		s.revoked[strings.Clone(raw)] = true
		s.mu.Unlock()
	}
	return c.JSON(fiber.Map{"status": "success"})
}

func (s *Server) validateResetToken(c *fiber.Ctx) error {
	payload := new(struct {
		Token string `json:"token"`
	})
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": err.Error()})
	}

	s.mu.Lock()
	username, ok := s.resetTokens[payload.Token]
	s.mu.Unlock()
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Invalid or expired token"})
	}
	return c.JSON(fiber.Map{"status": "success", "username": username})
}

func (s *Server) validatePassword(c *fiber.Ctx) error {
	payload := new(struct {
		Password string `json:"password"`
	})
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": err.Error()})
	}

	msgs := passwordIssues(payload.Password)
	if len(msgs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": msgs})
	}
	return c.JSON(fiber.Map{"status": "success"})
}

func passwordIssues(pw string) []string {
	var msgs []string
	if len(pw) < 8 {
		msgs = append(msgs, "This password is too short. It must contain at least 8 characters.")
	}
	hasLetter, hasDigit := false, false
	for _, r := range pw {
		if unicode.IsLetter(r) {
			hasLetter = true
		}
		if unicode.IsDigit(r) {
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		msgs = append(msgs, "This password must contain both letters and numbers.")
	}
	return msgs
}

func (s *Server) updateUsername(c *fiber.Ctx) error {
	username, ok := currentUsername(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"status": "error", "message": "unauthorized"})
	}
	payload := new(struct {
		Username string `json:"username"`
	})
	if err := c.BodyParser(payload); err != nil || payload.Username == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "username is required"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[payload.Username]; exists {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Username already exists"})
	}
	acc, ok := s.users[username]
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "user not found"})
	}
	delete(s.users, username)
	acc.Username = payload.Username
	s.users[acc.Username] = acc
	if cart, ok := s.carts[username]; ok {
		delete(s.carts, username)
		s.carts[acc.Username] = cart
	}
	for i := range s.orders {
		if s.orders[i].User == username {
			s.orders[i].User = acc.Username
		}
	}
	return c.JSON(fiber.Map{"status": "success", "data": fiber.Map{"username": acc.Username}})
}

func (s *Server) updateAddress(c *fiber.Ctx) error {
	username, ok := currentUsername(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"status": "error", "message": "unauthorized"})
	}
	payload := new(struct {
		Address string `json:"address"`
	})
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": err.Error()})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.users[username]
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "user not found"})
	}
	acc.Address = payload.Address
	return c.JSON(fiber.Map{"status": "success", "data": fiber.Map{"address": acc.Address}})
}
