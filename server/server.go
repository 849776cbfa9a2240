// Package server exposes the assistant over HTTP and WebSocket: memory
// extraction, personality chat, personality comparison, and memory and
// history management per user.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/dgraph-io/ristretto"

	"github.com/mnemolabs/mnemo/engine"
	"github.com/mnemolabs/mnemo/history"
	"github.com/mnemolabs/mnemo/memory"
)

// recentWindow caps how many trailing messages feed each extraction pass.
const recentWindow = 30

const defaultUserKey = "default_user"

// Config wires the server's collaborators.
type Config struct {
	Extractor *engine.Extractor
	Generator *engine.Generator
	Store     memory.Store

	// History is optional. When nil, chat turns are not recorded.
	History *history.Store

	// RetrieveLimit caps stored entries loaded per request (default 15).
	RetrieveLimit int

	// StaticDir is served at /static when non-empty.
	StaticDir string
}

// Server handles the HTTP and WebSocket API.
type Server struct {
	mux           *http.ServeMux
	extractor     *engine.Extractor
	generator     *engine.Generator
	store         memory.Store
	history       *history.Store
	cache         *ristretto.Cache
	retrieveLimit int
}

// New creates a server and registers its routes.
func New(cfg Config) (*Server, error) {
	if cfg.Extractor == nil || cfg.Generator == nil || cfg.Store == nil {
		return nil, fmt.Errorf("extractor, generator, and store are required")
	}

	retrieveLimit := cfg.RetrieveLimit
	if retrieveLimit <= 0 {
		retrieveLimit = 15
	}

	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e4,
		MaxCost:     1 << 24,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create memory cache: %w", err)
	}

	s := &Server{
		mux:           http.NewServeMux(),
		extractor:     cfg.Extractor,
		generator:     cfg.Generator,
		store:         cfg.Store,
		history:       cfg.History,
		cache:         cache,
		retrieveLimit: retrieveLimit,
	}

	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /api/personalities", s.handlePersonalities)
	s.mux.HandleFunc("POST /api/extract-memory", s.handleExtractMemory)
	s.mux.HandleFunc("POST /api/chat", s.handleChat)
	s.mux.HandleFunc("POST /api/compare-personalities", s.handleCompare)
	s.mux.HandleFunc("GET /api/memory", s.handleGetMemory)
	s.mux.HandleFunc("DELETE /api/memory", s.handleDeleteMemory)
	s.mux.HandleFunc("GET /api/history", s.handleGetHistory)
	s.mux.HandleFunc("DELETE /api/history", s.handleDeleteHistory)
	s.mux.HandleFunc("GET /ws", s.handleWS)

	if cfg.StaticDir != "" {
		fs := http.FileServer(http.Dir(cfg.StaticDir))
		s.mux.Handle("GET /static/", http.StripPrefix("/static/", fs))
	}

	return s, nil
}

// ServeHTTP implements http.Handler with CORS applied to every route.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	s.mux.ServeHTTP(w, r)
}

// Run starts the server on addr and blocks.
func (s *Server) Run(addr string) error {
	log.Printf("[SERVER] Listening on %s", addr)
	return http.ListenAndServe(addr, s)
}

// loadMemory returns the user's current merged memory, preferring the cache
// over a store round trip. Cached entries are the merged view written by the
// previous chat turn, so reads converge with what the store would replay.
func (s *Server) loadMemory(ctx context.Context, userKey string) (memory.Memory, error) {
	if cached, ok := s.cache.Get(userKey); ok {
		if m, ok := cached.(memory.Memory); ok {
			return m.Clone(), nil
		}
	}

	stored, err := s.store.RetrieveAll(ctx, userKey, s.retrieveLimit)
	if err != nil {
		return memory.Memory{}, err
	}
	return stored, nil
}

// cacheMemory replaces the cached merged view for a user.
func (s *Server) cacheMemory(userKey string, m memory.Memory) {
	s.cache.Set(userKey, m.Clone(), 1)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[SERVER] Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"detail": msg})
}
