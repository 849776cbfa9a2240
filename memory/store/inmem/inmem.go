// Package inmem provides the transient memory store variant, backed by an
// in-process map. Suitable for tests and single-process deployments where
// durability is not required.
package inmem

import (
	"context"
	"sync"

	"github.com/mnemolabs/mnemo/memory"
)

// Store keeps one pre-merged Memory per user key. Every write runs the merge
// engine against the currently stored value, so reads never need to dedup.
// The mutex serializes retrieve+merge+store per process, which is stronger
// than the last-write-wins floor the durable variant offers.
type Store struct {
	mu       sync.RWMutex
	memories map[string]memory.Memory
}

// New creates an empty in-process store.
func New() *Store {
	return &Store{memories: make(map[string]memory.Memory)}
}

// Store merges m into the user's stored memory and replaces it with the result.
func (s *Store) Store(ctx context.Context, userKey string, m memory.Memory) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.memories[userKey] = memory.Merge(s.memories[userKey], m)
	return nil
}

// RetrieveAll returns a copy of the user's stored memory. The limit argument
// is ignored: the stored value is already deduplicated and bounded by merge
// semantics. Unknown users get an empty Memory.
func (s *Store) RetrieveAll(ctx context.Context, userKey string, limit int) (memory.Memory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.memories[userKey].Clone(), nil
}

// Delete removes the user's stored memory.
func (s *Store) Delete(ctx context.Context, userKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.memories, userKey)
	return nil
}
