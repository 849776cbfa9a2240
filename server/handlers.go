package server

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/mnemolabs/mnemo/core"
	"github.com/mnemolabs/mnemo/engine"
	"github.com/mnemolabs/mnemo/history"
	"github.com/mnemolabs/mnemo/memory"
)

type chatRequest struct {
	Messages    []core.Message `json:"messages"`
	Personality string         `json:"personality"`
	UserName    string         `json:"user_name"`
}

type chatResponse struct {
	Response string        `json:"response"`
	Memory   memory.Memory `json:"memory"`
}

type extractRequest struct {
	Messages []core.Message `json:"messages"`
	UserName string         `json:"user_name"`
}

type extractResponse struct {
	Preferences       []memory.Preference       `json:"preferences"`
	EmotionalPatterns []memory.EmotionalPattern `json:"emotional_patterns"`
	Facts             []memory.Fact             `json:"facts"`
	Summary           string                    `json:"summary"`
}

type compareRequest struct {
	Messages []core.Message `json:"messages"`
	UserName string         `json:"user_name"`
}

type compareResponse struct {
	Comparisons   map[string]string `json:"comparisons"`
	MemorySummary string            `json:"memory_summary"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handlePersonalities(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"personalities": engine.Personalities})
}

func (s *Server) handleExtractMemory(w http.ResponseWriter, r *http.Request) {
	var req extractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if len(req.Messages) == 0 {
		writeError(w, http.StatusBadRequest, "messages are required")
		return
	}
	userKey := userKeyOrDefault(req.UserName)

	extracted := s.extractor.Extract(r.Context(), req.Messages)

	if err := s.store.Store(r.Context(), userKey, extracted); err != nil {
		writeError(w, http.StatusInternalServerError, "store memory: "+err.Error())
		return
	}
	s.cache.Del(userKey)

	writeJSON(w, http.StatusOK, extractResponse{
		Preferences:       orEmpty(extracted.Preferences),
		EmotionalPatterns: orEmpty(extracted.EmotionalPatterns),
		Facts:             orEmpty(extracted.Facts),
		Summary:           engine.Summary(extracted),
	})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if len(req.Messages) == 0 {
		writeError(w, http.StatusBadRequest, "messages are required")
		return
	}
	userKey := userKeyOrDefault(req.UserName)

	resp, err := s.chat(r, req, userKey)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// chat runs one full turn: retrieve, extract, merge, store the fresh delta,
// generate, record. The merged view goes to the generator and the cache; the
// store receives only what this turn extracted.
func (s *Server) chat(r *http.Request, req chatRequest, userKey string) (chatResponse, error) {
	ctx := r.Context()

	existing, err := s.loadMemory(ctx, userKey)
	if err != nil {
		return chatResponse{}, err
	}

	fresh := s.extractor.Extract(ctx, core.Tail(req.Messages, recentWindow))
	merged := memory.Merge(existing, fresh)

	if !fresh.IsEmpty() {
		if err := s.store.Store(ctx, userKey, fresh); err != nil {
			return chatResponse{}, err
		}
	}
	s.cacheMemory(userKey, merged)

	reply := s.generator.Reply(ctx, req.Messages, req.Personality, merged)

	if s.history != nil {
		userMessage := core.LastContent(req.Messages)
		if _, err := s.history.Append(ctx, userKey, userMessage, reply, personalityOrDefault(req.Personality)); err != nil {
			log.Printf("[HISTORY] Failed to record turn: %v", err)
		}
	}

	return chatResponse{Response: reply, Memory: merged}, nil
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if len(req.Messages) == 0 {
		writeError(w, http.StatusBadRequest, "messages are required")
		return
	}
	userKey := userKeyOrDefault(req.UserName)
	ctx := r.Context()

	existing, err := s.loadMemory(ctx, userKey)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// Comparison is a dry run: the extracted delta informs the replies but
	// is not persisted.
	fresh := s.extractor.Extract(ctx, core.Tail(req.Messages, recentWindow))
	merged := memory.Merge(existing, fresh)

	writeJSON(w, http.StatusOK, compareResponse{
		Comparisons:   s.generator.Compare(ctx, req.Messages, merged),
		MemorySummary: engine.Summary(merged),
	})
}

func (s *Server) handleGetMemory(w http.ResponseWriter, r *http.Request) {
	userKey := userKeyOrDefault(r.URL.Query().Get("user_name"))

	stored, err := s.store.RetrieveAll(r.Context(), userKey, s.retrieveLimit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user_name": userKey,
		"memory":    stored,
		"summary":   engine.Summary(stored),
	})
}

func (s *Server) handleDeleteMemory(w http.ResponseWriter, r *http.Request) {
	userKey := userKeyOrDefault(r.URL.Query().Get("user_name"))

	if err := s.store.Delete(r.Context(), userKey); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.cache.Del(userKey)

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted", "user_name": userKey})
}

func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeError(w, http.StatusNotFound, "history is not enabled")
		return
	}
	userKey := userKeyOrDefault(r.URL.Query().Get("user_name"))

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	turns, err := s.history.Recent(r.Context(), userKey, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if turns == nil {
		turns = []*history.Turn{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"user_name": userKey, "turns": turns})
}

func (s *Server) handleDeleteHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeError(w, http.StatusNotFound, "history is not enabled")
		return
	}
	userKey := userKeyOrDefault(r.URL.Query().Get("user_name"))

	if err := s.history.Clear(r.Context(), userKey); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared", "user_name": userKey})
}

// orEmpty keeps the response lists arrays on the wire even when nothing was
// extracted.
func orEmpty[T any](records []T) []T {
	if records == nil {
		return []T{}
	}
	return records
}

func userKeyOrDefault(name string) string {
	if name == "" {
		return defaultUserKey
	}
	return name
}

func personalityOrDefault(key string) string {
	if _, ok := engine.Personalities[key]; ok {
		return key
	}
	return engine.DefaultPersonality
}
