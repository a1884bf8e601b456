package mockapi

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer res.Body.Close()
	raw, _ := io.ReadAll(res.Body)
	var decoded map[string]any
	_ = json.Unmarshal(raw, &decoded)
	return res.StatusCode, decoded
}

func loginToken(t *testing.T, app *fiber.App, username, password string) string {
	t.Helper()
	code, body := doJSON(t, app, "POST", "/api/auth/login/", "", fiber.Map{
		"username": username, "password": password,
	})
	if code != fiber.StatusOK {
		t.Fatalf("login failed with %d: %v", code, body)
	}
	data, _ := body["data"].(map[string]any)
	token, _ := data["token"].(string)
	if token == "" {
		t.Fatalf("no token in login response: %v", body)
	}
	return token
}

func TestRoutesRegistered(t *testing.T) {
	s := New()
	routes := map[string]bool{}
	for _, grp := range s.App().Stack() {
		for _, r := range grp {
			routes[r.Method+" "+r.Path] = true
		}
	}
	for _, want := range []string{
		"POST /api/auth/login/",
		"POST /api/auth/register/",
		"GET /api/products/",
		"GET /api/cart/",
		"POST /api/cart/sync/",
		"POST /api/orders/create/",
		"GET /api/staff/orders/",
		"GET /api/wishlist/",
		"POST /api/wishlist/add/",
		"DELETE /api/wishlist/clear/",
		"GET /api/reviews/user/",
	} {
		if !routes[want] {
			t.Fatalf("expected route %q to be registered", want)
		}
	}
}

func TestLogin(t *testing.T) {
	s := New(WithUser("alice", "secret123", false))

	token := loginToken(t, s.App(), "alice", "secret123")
	if token == "" {
		t.Fatalf("expected a token")
	}

	code, body := doJSON(t, s.App(), "POST", "/api/auth/login/", "", fiber.Map{
		"username": "alice", "password": "nope",
	})
	if code != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 for bad credentials, got %d", code)
	}
	if body["message"] != "Invalid credentials" {
		t.Fatalf("unexpected message %v", body["message"])
	}

	code, _ = doJSON(t, s.App(), "POST", "/api/auth/login/", "", fiber.Map{"username": "alice"})
	if code != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for missing password, got %d", code)
	}
}

func TestLoginShapeVariants(t *testing.T) {
	keyed := New(WithUser("alice", "secret123", false), WithLoginShape(ShapeKey))
	code, body := doJSON(t, keyed.App(), "POST", "/api/auth/login/", "", fiber.Map{
		"username": "alice", "password": "secret123",
	})
	if code != fiber.StatusOK {
		t.Fatalf("login: %d %v", code, body)
	}
	if body["key"] == "" || body["key"] == nil {
		t.Fatalf("expected token under 'key', got %v", body)
	}
	if _, ok := body["user"].(map[string]any); !ok {
		t.Fatalf("expected nested user object, got %v", body)
	}

	flat := New(WithUser("alice", "secret123", false), WithLoginShape(ShapeFlat))
	code, body = doJSON(t, flat.App(), "POST", "/api/auth/login/", "", fiber.Map{
		"username": "alice", "password": "secret123",
	})
	if code != fiber.StatusOK {
		t.Fatalf("login: %d %v", code, body)
	}
	if body["token"] == "" || body["token"] == nil || body["username"] != "alice" {
		t.Fatalf("expected flat user with token, got %v", body)
	}
}

func TestRegister(t *testing.T) {
	s := New(WithUser("alice", "secret123", false))

	code, _ := doJSON(t, s.App(), "POST", "/api/auth/register/", "", fiber.Map{
		"username": "dave", "email": "dave@example.com", "password": "secret123",
	})
	if code != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d", code)
	}

	code, body := doJSON(t, s.App(), "POST", "/api/auth/register/", "", fiber.Map{
		"username": "alice", "email": "other@example.com", "password": "secret123",
	})
	if code != fiber.StatusBadRequest || body["message"] != "Username already exists" {
		t.Fatalf("expected duplicate-username rejection, got %d %v", code, body)
	}

	code, body = doJSON(t, s.App(), "POST", "/api/auth/register/", "", fiber.Map{
		"username": "eve", "email": "dave@example.com", "password": "secret123",
	})
	if code != fiber.StatusBadRequest || body["message"] != "Email already exists" {
		t.Fatalf("expected duplicate-email rejection, got %d %v", code, body)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := New()

	for _, path := range []string{"/api/cart/", "/api/orders/", "/api/staff/orders/"} {
		code, _ := doJSON(t, s.App(), "GET", path, "", nil)
		if code != fiber.StatusUnauthorized {
			t.Fatalf("expected 401 for %s without token, got %d", path, code)
		}
	}

	// the catalog stays browsable without a session
	code, _ := doJSON(t, s.App(), "GET", "/api/products/", "", nil)
	if code != fiber.StatusOK {
		t.Fatalf("expected public catalog, got %d", code)
	}
	code, _ = doJSON(t, s.App(), "GET", "/api/products/filters/", "", nil)
	if code != fiber.StatusOK {
		t.Fatalf("expected public filters, got %d", code)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	s := New(WithUser("alice", "secret123", false))
	token := loginToken(t, s.App(), "alice", "secret123")

	code, _ := doJSON(t, s.App(), "GET", "/api/cart/", token, nil)
	if code != fiber.StatusOK {
		t.Fatalf("expected 200 with fresh token, got %d", code)
	}

	code, _ = doJSON(t, s.App(), "POST", "/api/auth/logout/", token, nil)
	if code != fiber.StatusOK {
		t.Fatalf("logout: %d", code)
	}

	code, body := doJSON(t, s.App(), "GET", "/api/cart/", token, nil)
	if code != fiber.StatusUnauthorized || body["message"] != "token revoked" {
		t.Fatalf("expected revoked token to be rejected, got %d %v", code, body)
	}

	// a fresh login issues a distinct, working token
	token2 := loginToken(t, s.App(), "alice", "secret123")
	if token2 == token {
		t.Fatalf("expected a new token per login")
	}
	code, _ = doJSON(t, s.App(), "GET", "/api/cart/", token2, nil)
	if code != fiber.StatusOK {
		t.Fatalf("expected 200 with the new token, got %d", code)
	}
}

func TestCartAddClampsToStock(t *testing.T) {
	s := New(WithUser("alice", "secret123", false))
	token := loginToken(t, s.App(), "alice", "secret123")

	// product 4 has 5 in stock
	code, _ := doJSON(t, s.App(), "POST", "/api/cart/add/", token, fiber.Map{
		"product_id": 4, "quantity": 9,
	})
	if code != fiber.StatusOK {
		t.Fatalf("add: %d", code)
	}

	code, body := doJSON(t, s.App(), "GET", "/api/cart/", token, nil)
	if code != fiber.StatusOK {
		t.Fatalf("get cart: %d", code)
	}
	items, _ := body["data"].([]any)
	if len(items) != 1 {
		t.Fatalf("expected one cart line, got %v", body)
	}
	line, _ := items[0].(map[string]any)
	if line["quantity"] != float64(5) {
		t.Fatalf("expected quantity clamped to 5, got %v", line["quantity"])
	}
}

func TestValidatePasswordRules(t *testing.T) {
	s := New()

	code, _ := doJSON(t, s.App(), "POST", "/api/auth/validate-password/", "", fiber.Map{"password": "longenough1"})
	if code != fiber.StatusOK {
		t.Fatalf("expected acceptable password, got %d", code)
	}

	code, body := doJSON(t, s.App(), "POST", "/api/auth/validate-password/", "", fiber.Map{"password": "short"})
	if code != fiber.StatusBadRequest {
		t.Fatalf("expected rejection, got %d", code)
	}
	if body["message"] == nil {
		t.Fatalf("expected failure messages, got %v", body)
	}
}
