// Package chromem provides the durable memory store variant on top of
// chromem-go, an embedded vector database.
//
// Storage is append-only: every Store call fans the memory out into one
// entry per record, so the same logical fact may exist as several entries
// over time. RetrieveAll deserializes entries back into a Memory without
// deduplicating; callers converge toward a clean view by running the merge
// engine over the result. Point-updates are costly in similarity-indexed
// storage, so all reconciliation happens at read time.
package chromem

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	chromem "github.com/philippgille/chromem-go"

	"github.com/mnemolabs/mnemo/memory"
)

// Record kind discriminators, stored in entry metadata and embedded in
// entry identifiers.
const (
	KindPreference       = "preference"
	KindEmotionalPattern = "emotional_pattern"
	KindFact             = "fact"
)

// Store persists user memories in chromem-go, one collection per user key
// for namespace isolation.
type Store struct {
	db          *chromem.DB
	embedder    memory.Embedder
	collections map[string]*chromem.Collection
	mu          sync.RWMutex
}

// New creates a chromem-backed store. The embedder supplies document
// vectors; retrieval is filter-based, so embedding quality only matters if
// the underlying collection is also queried for similarity.
func New(embedder memory.Embedder) (*Store, error) {
	if embedder == nil {
		return nil, fmt.Errorf("chromem store requires an embedder")
	}
	return &Store{
		db:          chromem.NewDB(),
		embedder:    embedder,
		collections: make(map[string]*chromem.Collection),
	}, nil
}

func collectionName(userKey string) string {
	if userKey == "" {
		return "user_default"
	}
	return "user_" + userKey
}

func (s *Store) getOrCreateCollection(userKey string) (*chromem.Collection, error) {
	s.mu.RLock()
	col, exists := s.collections[userKey]
	s.mu.RUnlock()
	if exists {
		return col, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if col, exists := s.collections[userKey]; exists {
		return col, nil
	}

	col, err := s.db.GetOrCreateCollection(collectionName(userKey), nil, nil)
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}
	s.collections[userKey] = col
	return col, nil
}

// Store appends one entry per record. Entry identifiers take the form
// {userKey}_{kind}_{timestampMicros}_{idx}; the microsecond timestamp exists
// only to make identifiers storage-unique, never for ordering or conflict
// resolution.
func (s *Store) Store(ctx context.Context, userKey string, m memory.Memory) error {
	if m.IsEmpty() {
		return nil
	}
	col, err := s.getOrCreateCollection(userKey)
	if err != nil {
		return err
	}

	timestamp := time.Now().UnixMicro()
	log.Printf("[CHROMEM] Storing %d preferences, %d patterns, %d facts for user=%s",
		len(m.Preferences), len(m.EmotionalPatterns), len(m.Facts), userKey)

	for idx, pref := range m.Preferences {
		doc, err := s.buildDocument(ctx, userKey, KindPreference, timestamp, idx, pref, map[string]string{
			"category":   pref.Category,
			"confidence": fmt.Sprintf("%g", pref.Confidence),
		}, renderPreference(pref))
		if err != nil {
			return err
		}
		if err := col.AddDocument(ctx, doc); err != nil {
			return fmt.Errorf("add preference entry: %w", err)
		}
	}
	for idx, pattern := range m.EmotionalPatterns {
		doc, err := s.buildDocument(ctx, userKey, KindEmotionalPattern, timestamp, idx, pattern, map[string]string{
			"emotion":   pattern.Emotion,
			"frequency": fmt.Sprintf("%d", pattern.Frequency),
		}, renderPattern(pattern))
		if err != nil {
			return err
		}
		if err := col.AddDocument(ctx, doc); err != nil {
			return fmt.Errorf("add emotional pattern entry: %w", err)
		}
	}
	for idx, fact := range m.Facts {
		doc, err := s.buildDocument(ctx, userKey, KindFact, timestamp, idx, fact, map[string]string{
			"category":   fact.Category,
			"importance": fmt.Sprintf("%g", fact.Importance),
		}, renderFact(fact))
		if err != nil {
			return err
		}
		if err := col.AddDocument(ctx, doc); err != nil {
			return fmt.Errorf("add fact entry: %w", err)
		}
	}
	return nil
}

func (s *Store) buildDocument(ctx context.Context, userKey, kind string, timestamp int64, idx int, record interface{}, extra map[string]string, text string) (chromem.Document, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return chromem.Document{}, fmt.Errorf("marshal %s: %w", kind, err)
	}
	embedding, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return chromem.Document{}, fmt.Errorf("embed %s: %w", kind, err)
	}

	metadata := map[string]string{
		"user_name": userKey,
		"kind":      kind,
		"data":      string(data),
	}
	for k, v := range extra {
		metadata[k] = v
	}

	return chromem.Document{
		ID:        fmt.Sprintf("%s_%s_%d_%d", userKey, kind, timestamp, idx),
		Content:   text,
		Embedding: embedding,
		Metadata:  metadata,
	}, nil
}

// RetrieveAll fetches up to limit entries for the user and reconstructs a
// Memory from their serialized records. A non-positive limit fetches every
// entry. The result is not deduplicated.
func (s *Store) RetrieveAll(ctx context.Context, userKey string, limit int) (memory.Memory, error) {
	col, err := s.getOrCreateCollection(userKey)
	if err != nil {
		return memory.Memory{}, err
	}

	count := col.Count()
	if count == 0 {
		return memory.Memory{}, nil
	}
	if limit <= 0 || limit > count {
		limit = count
	}

	// Result ranking is irrelevant here; the query vector only satisfies
	// the similarity-index API. The user-key filter does the real work.
	queryEmbedding, err := s.embedder.Embed(ctx, userKey)
	if err != nil {
		return memory.Memory{}, fmt.Errorf("embed query: %w", err)
	}
	results, err := col.QueryEmbedding(ctx, queryEmbedding, limit, map[string]string{"user_name": userKey}, nil)
	if err != nil {
		return memory.Memory{}, fmt.Errorf("chromem query: %w", err)
	}

	var m memory.Memory
	for i, result := range results {
		if err := appendRecord(&m, result); err != nil {
			log.Printf("[CHROMEM] Skipping entry #%d (%s): %v", i+1, result.ID, err)
		}
	}
	return m, nil
}

func appendRecord(m *memory.Memory, result chromem.Result) error {
	data := result.Metadata["data"]
	switch kind := result.Metadata["kind"]; kind {
	case KindPreference:
		var p memory.Preference
		if err := json.Unmarshal([]byte(data), &p); err != nil {
			return fmt.Errorf("unmarshal preference: %w", err)
		}
		m.Preferences = append(m.Preferences, p)
	case KindEmotionalPattern:
		var p memory.EmotionalPattern
		if err := json.Unmarshal([]byte(data), &p); err != nil {
			return fmt.Errorf("unmarshal emotional pattern: %w", err)
		}
		m.EmotionalPatterns = append(m.EmotionalPatterns, p)
	case KindFact:
		var f memory.Fact
		if err := json.Unmarshal([]byte(data), &f); err != nil {
			return fmt.Errorf("unmarshal fact: %w", err)
		}
		m.Facts = append(m.Facts, f)
	default:
		return fmt.Errorf("unknown record kind %q", kind)
	}
	return nil
}

// Delete drops every stored entry for the user.
func (s *Store) Delete(ctx context.Context, userKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.db.DeleteCollection(collectionName(userKey)); err != nil {
		return fmt.Errorf("delete collection: %w", err)
	}
	delete(s.collections, userKey)
	return nil
}

// Document text renderings, used as embedding input so that collections
// remain usable for similarity search even though RetrieveAll is filter-only.

func renderPreference(p memory.Preference) string {
	return fmt.Sprintf("User preference: %s in category %s. Confidence: %g", p.Preference, p.Category, p.Confidence)
}

func renderPattern(p memory.EmotionalPattern) string {
	text := fmt.Sprintf("Emotional pattern: %s in context %s. Frequency: %d", p.Emotion, p.Context, p.Frequency)
	if len(p.Triggers) > 0 {
		text += " Triggers: " + strings.Join(p.Triggers, ", ")
	}
	return text
}

func renderFact(f memory.Fact) string {
	text := fmt.Sprintf("Fact about user: %s in category %s. Importance: %g", f.Fact, f.Category, f.Importance)
	if f.Context != "" {
		text += " Context: " + f.Context
	}
	return text
}
