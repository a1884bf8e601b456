// Package mockapi implements the storefront REST contract in memory, for
// development (cmd/mockapi) and as the backend fixture in tests.
package mockapi

import (
	"net"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/wichananm65/storefront-client/internal/catalog"
	"github.com/wichananm65/storefront-client/internal/order"
	"github.com/wichananm65/storefront-client/internal/review"
	"github.com/wichananm65/storefront-client/internal/wishlist"
)

// LoginShape selects which of the known auth response shapes the server
// produces, so clients can be exercised against all of them.
type LoginShape int

const (
	// ShapeEnvelope: {"status":"success","data":{...,"token":...}}
	ShapeEnvelope LoginShape = iota
	// ShapeKey: {"key":...,"user":{...}}
	ShapeKey
	// ShapeFlat: flat user object carrying "token"
	ShapeFlat
)

type account struct {
	ID          int
	Username    string
	Email       string
	Password    string
	FirstName   string
	LastName    string
	Address     string
	IsAdmin     bool
	IsSuperuser bool
	UserType    string
}

type cartEntry struct {
	ProductID int
	Quantity  int
}

// Server holds the in-memory state behind the mock REST API.
type Server struct {
	app    *fiber.App
	secret []byte
	shape  LoginShape

	mu           sync.Mutex
	nextUserID   int
	nextOrderID  int
	nextWishID   int
	nextReviewID int
	users        map[string]*account
	carts        map[string][]cartEntry
	orders       []order.Order
	products     []catalog.Product
	wishlists    map[string]*wishlist.Wishlist
	reviews      []review.Review
	resetTokens  map[string]string // token -> username
	revoked      map[string]bool
}

// Option configures a Server before its routes are registered.
type Option func(*Server)

// WithLoginShape selects the auth response shape.
func WithLoginShape(shape LoginShape) Option {
	return func(s *Server) { s.shape = shape }
}

// WithProducts replaces the seeded catalog.
func WithProducts(products []catalog.Product) Option {
	return func(s *Server) { s.products = products }
}

// WithUser pre-creates an account.
func WithUser(username, password string, admin bool) Option {
	return func(s *Server) {
		s.nextUserID++
		s.users[username] = &account{
			ID:       s.nextUserID,
			Username: username,
			Email:    username + "@example.com",
			Password: password,
			IsAdmin:  admin,
			UserType: userType(admin),
		}
	}
}

// WithResetToken registers a valid password-reset token for username.
func WithResetToken(token, username string) Option {
	return func(s *Server) { s.resetTokens[token] = username }
}

func userType(admin bool) string {
	if admin {
		return "admin"
	}
	return "customer"
}

// New assembles the server and registers all routes.
func New(opts ...Option) *Server {
	s := &Server{
		app:         fiber.New(fiber.Config{DisableStartupMessage: true}),
		secret:      []byte("mockapi-" + uuid.NewString()),
		users:       map[string]*account{},
		carts:       map[string][]cartEntry{},
		products:    DefaultProducts(),
		wishlists:   map[string]*wishlist.Wishlist{},
		resetTokens: map[string]string{},
		revoked:     map[string]bool{},
	}
	for _, opt := range opts {
		opt(s)
	}

	s.registerPublicRoutes()

	s.app.Use(jwtware.New(jwtware.Config{
		SigningKey: s.secret,
		AuthScheme: "Token",
		Filter:     func(c *fiber.Ctx) bool { return isPublicPath(c) },
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"status": "error", "message": "unauthorized"})
		},
	}))
	s.app.Use(s.resolveUser)

	s.registerProtectedRoutes()
	return s
}

// App exposes the underlying fiber app (for app.Test style tests).
func (s *Server) App() *fiber.App { return s.app }

// Start serves on an ephemeral loopback port and returns the base URL plus
// a stop function.
func (s *Server) Start() (string, func() error, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", nil, err
	}
	go func() { _ = s.app.Listener(ln) }()
	return "http://" + ln.Addr().String(), s.app.Shutdown, nil
}

// Listen serves on addr until the process exits.
func (s *Server) Listen(addr string) error { return s.app.Listen(addr) }

func isPublicPath(c *fiber.Ctx) bool {
	p := c.Path()
	switch p {
	case "/api/auth/login/", "/api/auth/register/", "/api/auth/validate-reset-token/", "/api/auth/validate-password/":
		return true
	}
	// the catalog is browsable without a session
	return c.Method() == fiber.MethodGet && strings.HasPrefix(p, "/api/products")
}

func (s *Server) registerPublicRoutes() {
	s.app.Post("/api/auth/login/", s.login)
	s.app.Post("/api/auth/register/", s.register)
	s.app.Post("/api/auth/validate-reset-token/", s.validateResetToken)
	s.app.Post("/api/auth/validate-password/", s.validatePassword)
	s.app.Get("/api/products/", s.listProducts)
	s.app.Get("/api/products/filters/", s.productFilters)
	s.app.Get("/api/products/:id<regex([0-9]+)>/", s.getProduct)
	s.app.Get("/api/products/:id<regex([0-9]+)>/reviews/", s.productReviews)
	s.app.Get("/api/products/:category/", s.productsByCategory)
}

func (s *Server) registerProtectedRoutes() {
	s.app.Post("/api/auth/logout/", s.logout)
	s.app.Put("/api/auth/update-username/", s.updateUsername)
	s.app.Put("/api/auth/update-address/", s.updateAddress)

	s.app.Get("/api/cart/", s.getCart)
	s.app.Post("/api/cart/add/", s.addToCart)
	s.app.Put("/api/cart/update/:id<regex([0-9]+)>/", s.updateCartItem)
	s.app.Delete("/api/cart/remove/:id<regex([0-9]+)>/", s.removeFromCart)
	s.app.Delete("/api/cart/clear/", s.clearCart)
	s.app.Post("/api/cart/sync/", s.syncCart)

	s.app.Post("/api/orders/create/", s.createOrder)
	s.app.Get("/api/orders/", s.listOrders)
	s.app.Get("/api/orders/history/", s.orderHistory)
	s.app.Get("/api/orders/:id<regex([0-9]+)>/", s.getOrder)

	s.app.Get("/api/wishlist/", s.getWishlist)
	s.app.Post("/api/wishlist/add/", s.addToWishlist)
	s.app.Delete("/api/wishlist/remove/:id<regex([0-9]+)>/", s.removeFromWishlist)
	s.app.Delete("/api/wishlist/clear/", s.clearWishlist)

	s.app.Post("/api/products/:id<regex([0-9]+)>/reviews/create/", s.createReview)
	s.app.Put("/api/reviews/:id<regex([0-9]+)>/update/", s.updateReview)
	s.app.Delete("/api/reviews/:id<regex([0-9]+)>/delete/", s.deleteReview)
	s.app.Get("/api/reviews/user/", s.userReviews)

	s.app.Get("/api/staff/orders/", s.staffOrders)
	s.app.Get("/api/staff/orders/:id<regex([0-9]+)>/", s.staffOrder)
	s.app.Put("/api/staff/orders/:id<regex([0-9]+)>/", s.staffUpdateOrder)
	s.app.Delete("/api/staff/orders/:id<regex([0-9]+)>/", s.staffDeleteOrder)
}

// issueToken signs a JWT for the account. The jti claim keeps tokens from
// different logins distinct, which the revocation set relies on.
func (s *Server) issueToken(acc *account) (string, error) {
	claims := jwt.MapClaims{
		"username": acc.Username,
		"is_admin": acc.IsAdmin,
		"jti":      uuid.NewString(),
		"exp":      time.Now().Add(72 * time.Hour).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// resolveUser runs after the jwt middleware: it rejects revoked tokens and
// stashes the username for handlers.
func (s *Server) resolveUser(c *fiber.Ctx) error {
	tok, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return c.Next()
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"status": "error", "message": "unauthorized"})
	}

	s.mu.Lock()
	revoked := s.revoked[tok.Raw]
	s.mu.Unlock()
	if revoked {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"status": "error", "message": "token revoked"})
	}

	if username, ok := claims["username"].(string); ok {
		c.Locals("username", username)
	}
	if isAdmin, ok := claims["is_admin"].(bool); ok {
		c.Locals("isAdmin", isAdmin)
	}
	return c.Next()
}

func currentUsername(c *fiber.Ctx) (string, bool) {
	v, ok := c.Locals("username").(string)
	return v, ok && v != ""
}

func isAdminCtx(c *fiber.Ctx) bool {
	v, _ := c.Locals("isAdmin").(bool)
	return v
}
