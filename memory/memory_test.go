package memory_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/mnemolabs/mnemo/memory"
)

func TestNewPreferenceValidation(t *testing.T) {
	tests := []struct {
		name       string
		category   string
		preference string
		confidence float64
		wantErr    bool
	}{
		{"valid", "music", "jazz", 0.7, false},
		{"boundary low", "music", "jazz", 0, false},
		{"boundary high", "music", "jazz", 1, false},
		{"confidence too high", "music", "jazz", 1.1, true},
		{"confidence negative", "music", "jazz", -0.1, true},
		{"empty category", "", "jazz", 0.5, true},
		{"empty preference", "music", "", 0.5, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := memory.NewPreference(tt.category, tt.preference, tt.confidence)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewPreference() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var verr *memory.ValidationError
				if !errors.As(err, &verr) {
					t.Errorf("error %v is not a *ValidationError", err)
				}
			}
		})
	}
}

func TestNewEmotionalPatternValidation(t *testing.T) {
	if _, err := memory.NewEmotionalPattern("anxious", "work", -1, nil); err == nil {
		t.Error("expected error for negative frequency")
	}
	if _, err := memory.NewEmotionalPattern("", "work", 1, nil); err == nil {
		t.Error("expected error for empty emotion")
	}
	p, err := memory.NewEmotionalPattern("anxious", "work", 0, []string{"deadlines"})
	if err != nil {
		t.Fatalf("NewEmotionalPattern: %v", err)
	}
	if p.Frequency != 0 {
		t.Errorf("frequency = %d, want 0", p.Frequency)
	}
}

func TestNewFactValidation(t *testing.T) {
	if _, err := memory.NewFact("", "pets", 0.5, ""); err == nil {
		t.Error("expected error for empty fact text")
	}
	if _, err := memory.NewFact("has a dog", "pets", 1.5, ""); err == nil {
		t.Error("expected error for importance > 1")
	}
	if _, err := memory.NewFact("has a dog", "pets", 0.5, ""); err != nil {
		t.Errorf("NewFact: %v", err)
	}
}

func TestMemoryJSONShape(t *testing.T) {
	m := memory.Memory{
		Preferences:       []memory.Preference{{Category: "music", Preference: "jazz", Confidence: 0.7}},
		EmotionalPatterns: []memory.EmotionalPattern{{Emotion: "anxious", Context: "work", Frequency: 2, Triggers: []string{"deadlines"}}},
		Facts:             []memory.Fact{{Fact: "has a dog", Category: "pets", Importance: 0.6, Context: "park"}},
	}
	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, key := range []string{`"preferences"`, `"emotional_patterns"`, `"facts"`, `"confidence"`, `"frequency"`, `"triggers"`, `"importance"`} {
		if !strings.Contains(string(data), key) {
			t.Errorf("serialized memory missing %s: %s", key, data)
		}
	}

	// Empty lists stay arrays on the wire, never null.
	data, err = json.Marshal(memory.Memory{})
	if err != nil {
		t.Fatalf("marshal empty: %v", err)
	}
	want := `{"preferences":[],"emotional_patterns":[],"facts":[]}`
	if string(data) != want {
		t.Errorf("empty memory = %s, want %s", data, want)
	}

	// Same for a pattern whose trigger list is empty.
	data, err = json.Marshal(memory.EmotionalPattern{Emotion: "calm", Context: "home", Frequency: 1})
	if err != nil {
		t.Fatalf("marshal pattern: %v", err)
	}
	if !strings.Contains(string(data), `"triggers":[]`) {
		t.Errorf("empty triggers serialized as null: %s", data)
	}
}

func TestCloneIsDeep(t *testing.T) {
	m := memory.Memory{
		EmotionalPatterns: []memory.EmotionalPattern{{Emotion: "anxious", Context: "work", Frequency: 1, Triggers: []string{"deadlines"}}},
	}
	c := m.Clone()
	c.EmotionalPatterns[0].Triggers[0] = "changed"
	c.EmotionalPatterns[0].Frequency = 99
	if m.EmotionalPatterns[0].Triggers[0] != "deadlines" || m.EmotionalPatterns[0].Frequency != 1 {
		t.Errorf("Clone shares state with original: %+v", m.EmotionalPatterns[0])
	}
	if !(memory.Memory{}).IsEmpty() {
		t.Error("zero Memory should report empty")
	}
	if m.IsEmpty() {
		t.Error("populated Memory should not report empty")
	}
}
