package chromem_test

import (
	"context"
	"reflect"
	"testing"

	"github.com/mnemolabs/mnemo/memory"
	"github.com/mnemolabs/mnemo/memory/embedder/mock"
	"github.com/mnemolabs/mnemo/memory/store/chromem"
)

func newStore(t *testing.T) *chromem.Store {
	t.Helper()
	s, err := chromem.New(mock.New())
	if err != nil {
		t.Fatalf("chromem.New: %v", err)
	}
	return s
}

func sampleMemory() memory.Memory {
	return memory.Memory{
		Preferences: []memory.Preference{
			{Category: "music", Preference: "jazz", Confidence: 0.7},
		},
		EmotionalPatterns: []memory.EmotionalPattern{
			{Emotion: "anxious", Context: "work", Frequency: 2, Triggers: []string{"deadlines"}},
		},
		Facts: []memory.Fact{
			{Fact: "has a dog named Max", Category: "pets", Importance: 0.6, Context: "park"},
		},
	}
}

func TestStoreRetrieveRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	if err := s.Store(ctx, "sarah", sampleMemory()); err != nil {
		t.Fatalf("Store: %v", err)
	}

	got, err := s.RetrieveAll(ctx, "sarah", 10)
	if err != nil {
		t.Fatalf("RetrieveAll: %v", err)
	}

	// Merging with an empty incoming memory must reproduce the original
	// records with identical field values.
	merged := memory.Merge(got, memory.Memory{})
	want := sampleMemory()

	if len(merged.Preferences) != 1 || merged.Preferences[0] != want.Preferences[0] {
		t.Errorf("preferences = %+v, want %+v", merged.Preferences, want.Preferences)
	}
	if len(merged.Facts) != 1 || merged.Facts[0] != want.Facts[0] {
		t.Errorf("facts = %+v, want %+v", merged.Facts, want.Facts)
	}
	if len(merged.EmotionalPatterns) != 1 || !reflect.DeepEqual(merged.EmotionalPatterns[0], want.EmotionalPatterns[0]) {
		t.Errorf("patterns = %+v, want %+v", merged.EmotionalPatterns, want.EmotionalPatterns)
	}
}

func TestAppendOnlyNoPreMerge(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	m := memory.Memory{Facts: []memory.Fact{{Fact: "is vegetarian", Category: "diet", Importance: 0.7}}}
	if err := s.Store(ctx, "sarah", m); err != nil {
		t.Fatalf("Store: %v", err)
	}
	if err := s.Store(ctx, "sarah", m); err != nil {
		t.Fatalf("Store: %v", err)
	}

	got, err := s.RetrieveAll(ctx, "sarah", 0)
	if err != nil {
		t.Fatalf("RetrieveAll: %v", err)
	}
	if len(got.Facts) != 2 {
		t.Errorf("got %d fact entries, want 2: raw storage is append-only", len(got.Facts))
	}

	// The merge engine collapses the duplicates at read time.
	deduped := memory.Merge(memory.Memory{Facts: got.Facts[:1]}, memory.Memory{Facts: got.Facts[1:]})
	if len(deduped.Facts) != 1 {
		t.Errorf("merge did not collapse duplicate entries: %+v", deduped.Facts)
	}
}

func TestRetrieveLimit(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	m := memory.Memory{Facts: []memory.Fact{
		{Fact: "fact one", Category: "a", Importance: 0.5},
		{Fact: "fact two", Category: "a", Importance: 0.5},
		{Fact: "fact three", Category: "a", Importance: 0.5},
	}}
	if err := s.Store(ctx, "sarah", m); err != nil {
		t.Fatalf("Store: %v", err)
	}

	got, err := s.RetrieveAll(ctx, "sarah", 2)
	if err != nil {
		t.Fatalf("RetrieveAll: %v", err)
	}
	if len(got.Facts) != 2 {
		t.Errorf("got %d entries, want limit of 2", len(got.Facts))
	}
}

func TestUserIsolation(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	if err := s.Store(ctx, "alice", sampleMemory()); err != nil {
		t.Fatalf("Store: %v", err)
	}

	got, err := s.RetrieveAll(ctx, "bob", 10)
	if err != nil {
		t.Fatalf("RetrieveAll: %v", err)
	}
	if !got.IsEmpty() {
		t.Errorf("bob sees alice's memory: %+v", got)
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	if err := s.Store(ctx, "sarah", sampleMemory()); err != nil {
		t.Fatalf("Store: %v", err)
	}
	if err := s.Delete(ctx, "sarah"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	got, err := s.RetrieveAll(ctx, "sarah", 10)
	if err != nil {
		t.Fatalf("RetrieveAll: %v", err)
	}
	if !got.IsEmpty() {
		t.Errorf("memory survived delete: %+v", got)
	}
}

func TestEmptyMemoryStoreIsNoOp(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	if err := s.Store(ctx, "sarah", memory.Memory{}); err != nil {
		t.Fatalf("Store of empty memory should succeed: %v", err)
	}
	got, err := s.RetrieveAll(ctx, "sarah", 10)
	if err != nil {
		t.Fatalf("RetrieveAll: %v", err)
	}
	if !got.IsEmpty() {
		t.Errorf("expected no entries, got %+v", got)
	}
}
