package memory

import "context"

// Store is the per-user memory persistence interface.
//
// Implementations differ in where reconciliation happens:
//   - inmem.Store merges on write, so its state is always deduplicated.
//   - chromem.Store appends raw records on write and leaves reconciliation
//     to the caller, who merges the retrieved memory with a fresh extraction.
//
// Both must agree with Merge about what "the same memory" means: performing
// retrieve-then-Merge-then-store against either variant converges to the
// same deduplicated view.
type Store interface {
	// Store persists a memory for the user. Implementations may merge with
	// the currently stored memory or append records as independent entries.
	Store(ctx context.Context, userKey string, m Memory) error

	// RetrieveAll returns the user's stored records, up to limit entries for
	// backends where a record is an independent entry. A user with no stored
	// memory gets an empty Memory, not an error. Callers own the result;
	// mutating it never affects stored state.
	RetrieveAll(ctx context.Context, userKey string, limit int) (Memory, error)

	// Delete removes every stored entry for the user.
	Delete(ctx context.Context, userKey string) error
}

// Embedder converts text to vector embeddings for similarity-indexed
// backends. Implementations: mock (deterministic, for tests and default
// local use) and onnx (all-MiniLM-L6-v2, behind the onnx build tag).
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimensions() int
}
