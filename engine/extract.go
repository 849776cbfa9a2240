package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/mnemolabs/mnemo/core"
	"github.com/mnemolabs/mnemo/memory"
)

const extractionSystemPrompt = "You are an expert at analyzing conversations and extracting structured information about users. Always return valid JSON inside a ```json code block."

const extractionPromptTemplate = `Analyze the following conversation and extract structured information about the user.

Conversation:
%s

Extract the following information:

1. USER PREFERENCES:
   - Identify any preferences the user has expressed (likes, dislikes, interests, hobbies, etc.)
   - Include category (e.g., "food", "music", "work", "hobbies") and the specific preference
   - Rate confidence from 0.0 to 1.0

2. EMOTIONAL PATTERNS:
   - Identify emotional states expressed by the user (happy, stressed, anxious, excited, etc.)
   - Note the context in which these emotions appear
   - Identify potential triggers or patterns
   - Count frequency if emotions repeat

3. FACTS WORTH REMEMBERING:
   - Extract important facts about the user (name, location, job, relationships, goals, etc.)
   - Include context where the fact was mentioned
   - Rate importance from 0.0 to 1.0

Return the result as a JSON object with this exact structure:
{
    "preferences": [
        {"category": "string", "preference": "string", "confidence": 0.0-1.0}
    ],
    "emotional_patterns": [
        {"emotion": "string", "context": "string", "frequency": int, "triggers": ["string"]}
    ],
    "facts": [
        {"fact": "string", "category": "string", "importance": 0.0-1.0, "context": "string"}
    ]
}

Be thorough and extract all relevant information. If a category is empty, return an empty array.`

var jsonBlockRe = regexp.MustCompile("(?s)```json(.*?)```")

// Extractor pulls structured memory out of conversations via an LLM.
type Extractor struct {
	completer Completer
}

// NewExtractor creates an extractor backed by the given completer.
func NewExtractor(c Completer) *Extractor {
	return &Extractor{completer: c}
}

// Extract analyzes a conversation and returns the memory found in it.
// Extraction is best-effort: any LLM or parse failure yields an empty
// Memory, never an error, so callers can always proceed with whatever was
// found.
func (e *Extractor) Extract(ctx context.Context, messages []core.Message) memory.Memory {
	if len(messages) == 0 {
		return memory.Memory{}
	}

	prompt := fmt.Sprintf(extractionPromptTemplate, core.FormatConversation(messages))

	text, err := e.completer.Complete(ctx, extractionSystemPrompt, prompt)
	if err != nil {
		log.Printf("[EXTRACT] Completion failed: %v", err)
		return memory.Memory{}
	}

	raw, err := parseJSONBlock(text)
	if err != nil {
		log.Printf("[EXTRACT] %v", err)
		return memory.Memory{}
	}

	return buildMemory(raw)
}

// rawMemory mirrors the JSON shape the extraction prompt asks for. Fields
// are loosely typed so one malformed record does not sink the whole parse.
type rawMemory struct {
	Preferences []struct {
		Category   string  `json:"category"`
		Preference string  `json:"preference"`
		Confidence float64 `json:"confidence"`
	} `json:"preferences"`
	EmotionalPatterns []struct {
		Emotion   string   `json:"emotion"`
		Context   string   `json:"context"`
		Frequency int      `json:"frequency"`
		Triggers  []string `json:"triggers"`
	} `json:"emotional_patterns"`
	Facts []struct {
		Fact       string  `json:"fact"`
		Category   string  `json:"category"`
		Importance float64 `json:"importance"`
		Context    string  `json:"context"`
	} `json:"facts"`
}

// parseJSONBlock extracts the JSON object from a fenced ```json block in an
// LLM response.
func parseJSONBlock(text string) (rawMemory, error) {
	var raw rawMemory

	match := jsonBlockRe.FindStringSubmatch(text)
	if match == nil {
		return raw, fmt.Errorf("no json block in response")
	}

	if err := json.Unmarshal([]byte(strings.TrimSpace(match[1])), &raw); err != nil {
		return raw, fmt.Errorf("json parse error: %w", err)
	}
	return raw, nil
}

// buildMemory validates raw records into Memory, dropping invalid records
// individually.
func buildMemory(raw rawMemory) memory.Memory {
	var m memory.Memory

	for _, p := range raw.Preferences {
		pref, err := memory.NewPreference(p.Category, p.Preference, p.Confidence)
		if err != nil {
			log.Printf("[EXTRACT] Dropping preference: %v", err)
			continue
		}
		m.Preferences = append(m.Preferences, pref)
	}
	for _, ep := range raw.EmotionalPatterns {
		pattern, err := memory.NewEmotionalPattern(ep.Emotion, ep.Context, ep.Frequency, ep.Triggers)
		if err != nil {
			log.Printf("[EXTRACT] Dropping emotional pattern: %v", err)
			continue
		}
		m.EmotionalPatterns = append(m.EmotionalPatterns, pattern)
	}
	for _, f := range raw.Facts {
		fact, err := memory.NewFact(f.Fact, f.Category, f.Importance, f.Context)
		if err != nil {
			log.Printf("[EXTRACT] Dropping fact: %v", err)
			continue
		}
		m.Facts = append(m.Facts, fact)
	}

	return m
}

// Summary renders a human-readable report of extracted memory.
func Summary(m memory.Memory) string {
	var parts []string

	if len(m.Preferences) > 0 {
		parts = append(parts, "PREFERENCES:")
		for _, p := range m.Preferences {
			parts = append(parts, fmt.Sprintf("  - %s: %s (confidence: %.2f)", p.Category, p.Preference, p.Confidence))
		}
	}
	if len(m.EmotionalPatterns) > 0 {
		if len(parts) > 0 {
			parts = append(parts, "")
		}
		parts = append(parts, "EMOTIONAL PATTERNS:")
		for _, ep := range m.EmotionalPatterns {
			parts = append(parts, fmt.Sprintf("  - %s: %s (frequency: %d)", ep.Emotion, ep.Context, ep.Frequency))
			if len(ep.Triggers) > 0 {
				parts = append(parts, "    Triggers: "+strings.Join(ep.Triggers, ", "))
			}
		}
	}
	if len(m.Facts) > 0 {
		if len(parts) > 0 {
			parts = append(parts, "")
		}
		parts = append(parts, "FACTS:")
		for _, f := range m.Facts {
			parts = append(parts, fmt.Sprintf("  - %s (%s, importance: %.2f)", f.Fact, f.Category, f.Importance))
		}
	}

	if len(parts) == 0 {
		return "No memory extracted yet."
	}
	return strings.Join(parts, "\n")
}
