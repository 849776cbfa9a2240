// Package config loads server configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Store backend names accepted in MNEMO_STORE.
const (
	StoreChromem = "chromem"
	StoreInmem   = "inmem"
)

// Config holds everything the server needs to start.
type Config struct {
	// AnthropicAPIKey authenticates against the Claude API. Required.
	AnthropicAPIKey string

	// Addr is the listen address for the HTTP server.
	Addr string

	// Model overrides the default Claude model when non-empty.
	Model string

	// StoreBackend selects the memory store: "chromem" or "inmem".
	StoreBackend string

	// HistoryDB is the SQLite file for conversation history.
	HistoryDB string

	// StaticDir is the directory served at /static. Empty disables it.
	StaticDir string

	// RetrieveLimit caps how many stored entries are loaded per chat turn.
	RetrieveLimit int
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present.
func Load() (*Config, error) {
	// Missing .env is fine, real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := &Config{
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		Addr:            getenv("MNEMO_ADDR", ":8000"),
		Model:           os.Getenv("MNEMO_MODEL"),
		StoreBackend:    getenv("MNEMO_STORE", StoreChromem),
		HistoryDB:       getenv("MNEMO_HISTORY_DB", "mnemo_history.db"),
		StaticDir:       getenv("MNEMO_STATIC_DIR", "static"),
		RetrieveLimit:   15,
	}

	if cfg.AnthropicAPIKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY is required")
	}

	if cfg.StoreBackend != StoreChromem && cfg.StoreBackend != StoreInmem {
		return nil, fmt.Errorf("MNEMO_STORE must be %q or %q, got %q", StoreChromem, StoreInmem, cfg.StoreBackend)
	}

	if v := os.Getenv("MNEMO_RETRIEVE_LIMIT"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit <= 0 {
			return nil, fmt.Errorf("MNEMO_RETRIEVE_LIMIT must be a positive integer, got %q", v)
		}
		cfg.RetrieveLimit = limit
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
