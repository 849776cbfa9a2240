// Package core holds the shared types passed between the HTTP layer, the
// extraction and generation engines, and the conversation history store.
package core

import "strings"

// Message is a single conversation turn.
type Message struct {
	// Role is "user" or "assistant".
	Role string `json:"role"`

	// Content is the message text.
	Content string `json:"content"`
}

// FormatConversation renders messages as "ROLE: content" lines for prompt
// building.
func FormatConversation(messages []Message) string {
	lines := make([]string, 0, len(messages))
	for _, msg := range messages {
		role := msg.Role
		if role == "" {
			role = "unknown"
		}
		lines = append(lines, strings.ToUpper(role)+": "+msg.Content)
	}
	return strings.Join(lines, "\n")
}

// LastContent returns the content of the final message, or empty when there
// are no messages.
func LastContent(messages []Message) string {
	if len(messages) == 0 {
		return ""
	}
	return messages[len(messages)-1].Content
}

// Tail returns the last n messages without copying.
func Tail(messages []Message, n int) []Message {
	if n <= 0 || len(messages) <= n {
		return messages
	}
	return messages[len(messages)-n:]
}
