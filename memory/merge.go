package memory

import "strings"

// Merge folds a freshly extracted memory into a previously stored one and
// returns the combined result. It is a pure function: neither input is
// modified, the output shares no slices with either, and the same inputs
// always produce the same output.
//
// Each record kind is merged independently. The merged list starts as a copy
// of existing (original order preserved); incoming records whose identity key
// matches an existing record resolve in place against that slot, and records
// with unseen keys are appended in incoming order. Identity keys compare the
// text-bearing fields case-insensitively, but the surviving record always
// keeps its original casing.
//
// Collision rules per kind:
//   - Preference (key: category + preference): the stored record survives
//     with its confidence lifted to the maximum seen for the key.
//   - EmotionalPattern (key: emotion + context): frequencies are summed and
//     trigger lists unioned, existing triggers first.
//   - Fact (key: fact text only): the record with the higher importance
//     survives wholesale, category and context included.
func Merge(existing, incoming Memory) Memory {
	return Memory{
		Preferences:       mergePreferences(existing.Preferences, incoming.Preferences),
		EmotionalPatterns: mergePatterns(existing.EmotionalPatterns, incoming.EmotionalPatterns),
		Facts:             mergeFacts(existing.Facts, incoming.Facts),
	}
}

type prefKey struct {
	category   string
	preference string
}

func preferenceKey(p Preference) prefKey {
	return prefKey{category: p.Category, preference: strings.ToLower(p.Preference)}
}

func mergePreferences(existing, incoming []Preference) []Preference {
	index := make(map[prefKey]int, len(existing))
	for i, p := range existing {
		k := preferenceKey(p)
		if _, seen := index[k]; !seen {
			index[k] = i
		}
	}
	merged := append([]Preference(nil), existing...)
	for _, p := range incoming {
		i, collides := index[preferenceKey(p)]
		if !collides {
			merged = append(merged, p)
			continue
		}
		if p.Confidence > merged[i].Confidence {
			merged[i].Confidence = p.Confidence
		}
	}
	return merged
}

type patternKey struct {
	emotion string
	context string
}

func emotionalPatternKey(p EmotionalPattern) patternKey {
	return patternKey{emotion: strings.ToLower(p.Emotion), context: strings.ToLower(p.Context)}
}

func mergePatterns(existing, incoming []EmotionalPattern) []EmotionalPattern {
	index := make(map[patternKey]int, len(existing))
	merged := make([]EmotionalPattern, 0, len(existing)+len(incoming))
	for i, p := range existing {
		k := emotionalPatternKey(p)
		if _, seen := index[k]; !seen {
			index[k] = i
		}
		p.Triggers = append([]string(nil), p.Triggers...)
		merged = append(merged, p)
	}
	for _, p := range incoming {
		i, collides := index[emotionalPatternKey(p)]
		if !collides {
			p.Triggers = append([]string(nil), p.Triggers...)
			merged = append(merged, p)
			continue
		}
		merged[i].Frequency += p.Frequency
		merged[i].Triggers = unionTriggers(merged[i].Triggers, p.Triggers)
	}
	return merged
}

// unionTriggers keeps existing triggers in place and appends incoming ones
// not already present, comparing case-insensitively.
func unionTriggers(existing, incoming []string) []string {
	seen := make(map[string]bool, len(existing))
	for _, t := range existing {
		seen[strings.ToLower(t)] = true
	}
	out := existing
	for _, t := range incoming {
		k := strings.ToLower(t)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, t)
	}
	return out
}

func mergeFacts(existing, incoming []Fact) []Fact {
	index := make(map[string]int, len(existing))
	for i, f := range existing {
		k := strings.ToLower(f.Fact)
		if _, seen := index[k]; !seen {
			index[k] = i
		}
	}
	merged := append([]Fact(nil), existing...)
	for _, f := range incoming {
		i, collides := index[strings.ToLower(f.Fact)]
		if !collides {
			merged = append(merged, f)
			continue
		}
		if f.Importance > merged[i].Importance {
			merged[i] = f
		}
	}
	return merged
}
