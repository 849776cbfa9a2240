package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/mnemolabs/mnemo/core"
	"github.com/mnemolabs/mnemo/memory"
)

// Personality defines a reply style.
type Personality struct {
	Name         string `json:"name"`
	SystemPrompt string `json:"-"`
	Description  string `json:"description"`
}

// DefaultPersonality is the key used when a request names no personality or
// an unknown one.
const DefaultPersonality = "default"

// PersonalityKeys lists all personalities in the order comparisons run.
var PersonalityKeys = []string{"default", "calm_mentor", "witty_friend", "therapist"}

// Personalities maps personality keys to their configurations.
var Personalities = map[string]Personality{
	"calm_mentor": {
		Name: "Calm Mentor",
		SystemPrompt: `You are a calm, wise, and patient mentor. Your communication style is:
- Thoughtful and reflective
- Encouraging but realistic
- Uses analogies and gentle guidance
- Maintains a calm, steady tone even when discussing difficult topics
- Asks probing questions to help the user think deeper
- Provides balanced perspectives
- Never judgmental, always supportive
- Keep the conversation concise and only respond with more words if necessary`,
		Description: "A wise, patient guide who offers thoughtful advice",
	},
	"witty_friend": {
		Name: "Witty Friend",
		SystemPrompt: `You are a witty, humorous, and engaging friend. Your communication style is:
- Light-hearted and fun
- Uses humor and wit appropriately
- Casual and conversational
- Makes jokes and references that feel natural
- Energetic and enthusiastic
- Relatable and down-to-earth
- Still supportive, but with a playful edge
- Keep the conversation concise and only respond with more words if necessary`,
		Description: "A fun, humorous companion who keeps things light",
	},
	"therapist": {
		Name: "Therapist",
		SystemPrompt: `You are a professional, empathetic therapist. Your communication style is:
- Warm and non-judgmental
- Uses active listening techniques
- Asks open-ended questions
- Validates emotions
- Helps users explore their feelings
- Maintains professional boundaries
- Focuses on emotional well-being and self-discovery
- Uses therapeutic techniques like reflection and reframing
- Keep the conversation concise and only respond with more words if necessary`,
		Description: "A professional, empathetic guide for emotional support",
	},
	"default": {
		Name:         "Default",
		SystemPrompt: "You are a helpful, friendly AI assistant.",
		Description:  "Standard helpful assistant",
	},
}

// PersonalityFor resolves a key to its personality, falling back to the
// default for unknown keys.
func PersonalityFor(key string) Personality {
	if p, ok := Personalities[key]; ok {
		return p
	}
	return Personalities[DefaultPersonality]
}

// Generator produces personality-styled replies informed by user memory.
type Generator struct {
	completer Completer
}

// NewGenerator creates a generator backed by the given completer.
func NewGenerator(c Completer) *Generator {
	return &Generator{completer: c}
}

// Reply generates a response to the conversation in the given personality.
// LLM failures come back as an apology string rather than an error so the
// chat flow always has something to show.
func (g *Generator) Reply(ctx context.Context, messages []core.Message, personalityKey string, mem memory.Memory) string {
	personality := PersonalityFor(personalityKey)

	prompt := personality.SystemPrompt
	prompt += "\n\nUser's last message: " + core.LastContent(messages)

	if !mem.IsEmpty() {
		prompt += "\n\nIMPORTANT CONTEXT ABOUT THE USER:\n" + MemoryContext(mem) +
			"\n\nUse this information to personalize your responses while maintaining your personality style."
	}

	text, err := g.completer.Complete(ctx, "", prompt)
	if err != nil {
		return fmt.Sprintf("I apologize, but I encountered an error: %s", err)
	}
	return text
}

// Compare generates replies in every personality for the same conversation.
func (g *Generator) Compare(ctx context.Context, messages []core.Message, mem memory.Memory) map[string]string {
	comparisons := make(map[string]string, len(PersonalityKeys))
	for _, key := range PersonalityKeys {
		comparisons[key] = g.Reply(ctx, messages, key, mem)
	}
	return comparisons
}

// MemoryContext builds a compact digest of user memory for prompt
// injection: the first 5 preferences, first 3 emotional patterns, and up to
// 5 facts with importance above 0.5.
func MemoryContext(m memory.Memory) string {
	var parts []string

	if len(m.Preferences) > 0 {
		var prefs []string
		for _, p := range m.Preferences[:min(5, len(m.Preferences))] {
			prefs = append(prefs, fmt.Sprintf("%s (%s)", p.Preference, p.Category))
		}
		parts = append(parts, "Preferences: "+strings.Join(prefs, ", "))
	}

	if len(m.EmotionalPatterns) > 0 {
		var emotions []string
		for _, ep := range m.EmotionalPatterns[:min(3, len(m.EmotionalPatterns))] {
			emotions = append(emotions, ep.Emotion)
		}
		parts = append(parts, "Emotional patterns: "+strings.Join(emotions, ", "))
	}

	var important []string
	for _, f := range m.Facts {
		if f.Importance > 0.5 {
			important = append(important, f.Fact)
			if len(important) == 5 {
				break
			}
		}
	}
	if len(important) > 0 {
		parts = append(parts, "Important facts: "+strings.Join(important, "; "))
	}

	if len(parts) == 0 {
		return "No specific context available yet."
	}
	return strings.Join(parts, "\n")
}
