// Package memory defines the user-memory record model and the merge engine
// that reconciles independently extracted memory snapshots.
//
// Three record kinds are tracked per user: preferences, emotional patterns,
// and facts. Each kind has an identity key so that the same underlying
// observation extracted twice collapses into one record:
//
//   - Preference: (category, preference) -- survivor keeps max confidence
//   - EmotionalPattern: (emotion, context) -- frequencies sum, triggers union
//   - Fact: fact text -- survivor keeps max importance
//
// Merge is the single source of truth for deduplication. Store adapters
// (memory/store/inmem, memory/store/chromem) persist memories per user key
// and either pre-merge on write or defer merging to read time; both converge
// to the same view because they delegate to the same engine.
package memory
