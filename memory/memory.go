package memory

import (
	"encoding/json"
	"fmt"
)

// Preference is something the user likes, dislikes, or cares about,
// grouped under a free-form category ("food", "music", "work").
// Confidence reflects how sure the extraction was, in [0, 1].
type Preference struct {
	Category   string  `json:"category"`
	Preference string  `json:"preference"`
	Confidence float64 `json:"confidence"`
}

// EmotionalPattern is a recurring emotional state observed in conversation.
// Frequency is a counter of how often the pattern was seen, not a score.
type EmotionalPattern struct {
	Emotion   string   `json:"emotion"`
	Context   string   `json:"context"`
	Frequency int      `json:"frequency"`
	Triggers  []string `json:"triggers"`
}

// Fact is a concrete piece of information about the user worth remembering.
// Importance rates how much it matters, in [0, 1].
type Fact struct {
	Fact       string  `json:"fact"`
	Category   string  `json:"category"`
	Importance float64 `json:"importance"`
	Context    string  `json:"context"`
}

// Memory aggregates everything extracted about a single user.
// A Memory value is cheap to copy; stores hand out clones, never aliases
// into their own state.
type Memory struct {
	Preferences       []Preference       `json:"preferences"`
	EmotionalPatterns []EmotionalPattern `json:"emotional_patterns"`
	Facts             []Fact             `json:"facts"`
}

// ValidationError reports a record field that violates the data model.
// Invalid records are rejected at construction so an out-of-range value
// can never reach the merge engine or a store.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewPreference validates and constructs a Preference.
func NewPreference(category, preference string, confidence float64) (Preference, error) {
	if category == "" {
		return Preference{}, &ValidationError{Field: "category", Reason: "must not be empty"}
	}
	if preference == "" {
		return Preference{}, &ValidationError{Field: "preference", Reason: "must not be empty"}
	}
	if confidence < 0 || confidence > 1 {
		return Preference{}, &ValidationError{Field: "confidence", Reason: fmt.Sprintf("%v outside [0, 1]", confidence)}
	}
	return Preference{Category: category, Preference: preference, Confidence: confidence}, nil
}

// MarshalJSON serializes an empty trigger list as an array rather than null.
func (p EmotionalPattern) MarshalJSON() ([]byte, error) {
	type plain EmotionalPattern
	q := plain(p)
	if q.Triggers == nil {
		q.Triggers = []string{}
	}
	return json.Marshal(q)
}

// NewEmotionalPattern validates and constructs an EmotionalPattern.
func NewEmotionalPattern(emotion, context string, frequency int, triggers []string) (EmotionalPattern, error) {
	if emotion == "" {
		return EmotionalPattern{}, &ValidationError{Field: "emotion", Reason: "must not be empty"}
	}
	if frequency < 0 {
		return EmotionalPattern{}, &ValidationError{Field: "frequency", Reason: fmt.Sprintf("%d is negative", frequency)}
	}
	return EmotionalPattern{
		Emotion:   emotion,
		Context:   context,
		Frequency: frequency,
		Triggers:  append([]string(nil), triggers...),
	}, nil
}

// NewFact validates and constructs a Fact.
func NewFact(fact, category string, importance float64, context string) (Fact, error) {
	if fact == "" {
		return Fact{}, &ValidationError{Field: "fact", Reason: "must not be empty"}
	}
	if importance < 0 || importance > 1 {
		return Fact{}, &ValidationError{Field: "importance", Reason: fmt.Sprintf("%v outside [0, 1]", importance)}
	}
	return Fact{Fact: fact, Category: category, Importance: importance, Context: context}, nil
}

// MarshalJSON serializes empty record lists as arrays rather than null.
// Clients consume the three lists as arrays, so the wire shape must not
// depend on whether a slice happens to be nil.
func (m Memory) MarshalJSON() ([]byte, error) {
	type plain Memory
	p := plain(m)
	if p.Preferences == nil {
		p.Preferences = []Preference{}
	}
	if p.EmotionalPatterns == nil {
		p.EmotionalPatterns = []EmotionalPattern{}
	}
	if p.Facts == nil {
		p.Facts = []Fact{}
	}
	return json.Marshal(p)
}

// IsEmpty reports whether the memory holds no records at all.
func (m Memory) IsEmpty() bool {
	return len(m.Preferences) == 0 && len(m.EmotionalPatterns) == 0 && len(m.Facts) == 0
}

// Clone returns a deep copy, including trigger slices.
func (m Memory) Clone() Memory {
	out := Memory{
		Preferences: append([]Preference(nil), m.Preferences...),
		Facts:       append([]Fact(nil), m.Facts...),
	}
	if m.EmotionalPatterns != nil {
		out.EmotionalPatterns = make([]EmotionalPattern, len(m.EmotionalPatterns))
		for i, p := range m.EmotionalPatterns {
			p.Triggers = append([]string(nil), p.Triggers...)
			out.EmotionalPatterns[i] = p
		}
	}
	return out
}
