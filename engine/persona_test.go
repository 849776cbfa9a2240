package engine

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mnemolabs/mnemo/core"
	"github.com/mnemolabs/mnemo/memory"
)

func TestPersonalityForFallsBack(t *testing.T) {
	if got := PersonalityFor("calm_mentor"); got.Name != "Calm Mentor" {
		t.Errorf("unexpected personality: %+v", got)
	}
	if got := PersonalityFor("nonsense"); got.Name != "Default" {
		t.Errorf("expected default fallback, got %+v", got)
	}
	if got := PersonalityFor(""); got.Name != "Default" {
		t.Errorf("expected default for empty key, got %+v", got)
	}
}

func TestReplyBuildsPrompt(t *testing.T) {
	fake := &fakeCompleter{response: "Take a breath. Deadlines pass."}
	gen := NewGenerator(fake)

	mem := memory.Memory{
		Preferences: []memory.Preference{
			{Category: "music", Preference: "jazz", Confidence: 0.9},
		},
	}
	messages := []core.Message{
		{Role: "user", Content: "I'm overwhelmed at work"},
	}

	got := gen.Reply(context.Background(), messages, "calm_mentor", mem)
	if got != "Take a breath. Deadlines pass." {
		t.Errorf("unexpected reply: %q", got)
	}

	if !strings.Contains(fake.lastPrompt, "calm, wise, and patient mentor") {
		t.Errorf("prompt missing personality:\n%s", fake.lastPrompt)
	}
	if !strings.Contains(fake.lastPrompt, "User's last message: I'm overwhelmed at work") {
		t.Errorf("prompt missing last message:\n%s", fake.lastPrompt)
	}
	if !strings.Contains(fake.lastPrompt, "IMPORTANT CONTEXT ABOUT THE USER:") {
		t.Errorf("prompt missing memory context:\n%s", fake.lastPrompt)
	}
	if !strings.Contains(fake.lastPrompt, "jazz (music)") {
		t.Errorf("prompt missing preference digest:\n%s", fake.lastPrompt)
	}
}

func TestReplySkipsContextForEmptyMemory(t *testing.T) {
	fake := &fakeCompleter{response: "Hello!"}
	gen := NewGenerator(fake)

	gen.Reply(context.Background(), []core.Message{{Role: "user", Content: "hi"}}, "default", memory.Memory{})

	if strings.Contains(fake.lastPrompt, "IMPORTANT CONTEXT") {
		t.Errorf("empty memory should not add context:\n%s", fake.lastPrompt)
	}
}

func TestReplyApologizesOnError(t *testing.T) {
	gen := NewGenerator(&fakeCompleter{err: errors.New("api down")})

	got := gen.Reply(context.Background(), []core.Message{{Role: "user", Content: "hi"}}, "default", memory.Memory{})
	if got != "I apologize, but I encountered an error: api down" {
		t.Errorf("unexpected apology: %q", got)
	}
}

func TestCompareCoversAllPersonalities(t *testing.T) {
	fake := &fakeCompleter{response: "reply"}
	gen := NewGenerator(fake)

	got := gen.Compare(context.Background(), []core.Message{{Role: "user", Content: "hi"}}, memory.Memory{})

	if len(got) != len(PersonalityKeys) {
		t.Fatalf("expected %d comparisons, got %d", len(PersonalityKeys), len(got))
	}
	for _, key := range PersonalityKeys {
		if got[key] != "reply" {
			t.Errorf("missing comparison for %q", key)
		}
	}
	if fake.calls != len(PersonalityKeys) {
		t.Errorf("expected %d completions, got %d", len(PersonalityKeys), fake.calls)
	}
}

func TestMemoryContextLimits(t *testing.T) {
	var mem memory.Memory
	for i := 0; i < 7; i++ {
		mem.Preferences = append(mem.Preferences, memory.Preference{
			Category: "cat", Preference: string(rune('a' + i)), Confidence: 0.5,
		})
	}
	for i := 0; i < 5; i++ {
		mem.EmotionalPatterns = append(mem.EmotionalPatterns, memory.EmotionalPattern{
			Emotion: string(rune('p' + i)), Context: "ctx", Frequency: 1,
		})
	}
	mem.Facts = []memory.Fact{
		{Fact: "important one", Category: "x", Importance: 0.9},
		{Fact: "trivial", Category: "x", Importance: 0.3},
		{Fact: "important two", Category: "x", Importance: 0.6},
	}

	got := MemoryContext(mem)

	if strings.Contains(got, "f (cat)") {
		t.Errorf("context should cap preferences at 5:\n%s", got)
	}
	if !strings.Contains(got, "e (cat)") {
		t.Errorf("context missing fifth preference:\n%s", got)
	}
	if !strings.Contains(got, "Emotional patterns: p, q, r") || strings.Contains(got, "r, s") {
		t.Errorf("context should cap emotional patterns at 3:\n%s", got)
	}
	if strings.Contains(got, "trivial") {
		t.Errorf("low-importance fact leaked into context:\n%s", got)
	}
	if !strings.Contains(got, "important one; important two") {
		t.Errorf("context missing important facts:\n%s", got)
	}
}

func TestMemoryContextEmpty(t *testing.T) {
	if got := MemoryContext(memory.Memory{}); got != "No specific context available yet." {
		t.Errorf("unexpected empty context: %q", got)
	}
}
