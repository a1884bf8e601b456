package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds environment-driven configuration.
type Config struct {
	// APIURL is the base URL of the storefront backend.
	APIURL string
	// DataDir is where local state (identities, cached carts) is kept.
	DataDir string
	// RequestTimeout bounds every backend call. Zero disables the timeout.
	RequestTimeout time.Duration
	// MockAddr is the listen address used by cmd/mockapi.
	MockAddr string
}

// Load reads configuration from environment variables.
func Load() Config {
	apiURL := os.Getenv("STOREFRONT_API_URL")
	if apiURL == "" {
		apiURL = "http://127.0.0.1:8000"
	}

	dataDir := os.Getenv("STOREFRONT_DATA_DIR")
	if dataDir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			base = "."
		}
		dataDir = filepath.Join(base, "storefront")
	}

	timeout := 10 * time.Second
	if v := os.Getenv("STOREFRONT_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			timeout = d
		}
	}

	mockAddr := os.Getenv("STOREFRONT_MOCK_ADDR")
	if mockAddr == "" {
		mockAddr = ":8000"
	}

	return Config{
		APIURL:         apiURL,
		DataDir:        dataDir,
		RequestTimeout: timeout,
		MockAddr:       mockAddr,
	}
}
