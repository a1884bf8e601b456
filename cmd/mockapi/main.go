package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/wichananm65/storefront-client/internal/config"
	"github.com/wichananm65/storefront-client/internal/mockapi"
)

// main runs the in-memory storefront backend, for local development of the
// client without the real API.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	srv := mockapi.New(
		mockapi.WithUser("admin", "admin12345", true),
	)

	log.Printf("mock storefront API listening on %s", cfg.MockAddr)
	if err := srv.Listen(cfg.MockAddr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
