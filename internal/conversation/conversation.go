// Package conversation defines transcript turns and the state a conversation
// carries between requests.
package conversation

import (
	"html"
	"regexp"
	"strings"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one message of the transcript. System turns are client side
// decorations (date headers) and error turns are rendered failures; neither is
// part of the dialogue.
type Turn struct {
	Role     Role   `json:"role" validate:"required,oneof=user assistant"`
	Content  string `json:"content"`
	IsSystem bool   `json:"isSystem,omitempty"`
	IsError  bool   `json:"isError,omitempty"`
}

// IsDialogue reports whether the turn is a real user or assistant message.
func (t Turn) IsDialogue() bool {
	return !t.IsSystem && !t.IsError
}

// State is threaded alongside the transcript by the caller.
type State struct {
	// Query is the search the shown ranking was computed for.
	Query string `json:"query,omitempty"`
	// LastCandidate is the display name of the candidate discussed last.
	LastCandidate string `json:"lastCandidate,omitempty"`
	// Offset is where the currently shown ranking page starts.
	Offset int `json:"offset,omitempty" validate:"gte=0"`
}

var markerPattern = regexp.MustCompile(`data-last-candidate=['"]([^'"]+)['"]`)

// LastMarked scans assistant turns from newest to oldest and returns the name
// in the first marker found.
func LastMarked(turns []Turn) string {
	for i := len(turns) - 1; i >= 0; i-- {
		turn := turns[i]
		if turn.Role != RoleAssistant || turn.Content == "" {
			continue
		}
		if match := markerPattern.FindStringSubmatch(turn.Content); match != nil {
			return html.UnescapeString(match[1])
		}
	}

	return ""
}

// Dialogue returns the turns that are part of the actual conversation.
func Dialogue(turns []Turn) []Turn {
	out := make([]Turn, 0, len(turns))
	for _, t := range turns {
		if t.IsDialogue() {
			out = append(out, t)
		}
	}

	return out
}

// IsFirstUserTurn reports whether the last turn is the only user turn.
func IsFirstUserTurn(turns []Turn) bool {
	if len(turns) == 0 || turns[len(turns)-1].Role != RoleUser {
		return false
	}

	for _, t := range turns[:len(turns)-1] {
		if t.Role == RoleUser && t.IsDialogue() {
			return false
		}
	}

	return true
}

// LastUserText returns the content of the final turn when it is a user turn.
func LastUserText(turns []Turn) (string, bool) {
	if len(turns) == 0 {
		return "", false
	}

	last := turns[len(turns)-1]
	if last.Role != RoleUser {
		return "", false
	}

	text := strings.TrimSpace(last.Content)
	return text, text != ""
}
