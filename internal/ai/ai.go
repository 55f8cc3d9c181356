// Package ai defines the generation step the chat pipeline delegates the
// final answer to.
package ai

import (
	"context"
	"errors"

	"github.com/spigell/candidate-matcher/internal/conversation"
)

const ProviderGemini = "gemini"

// ErrEmptyResponse is returned when the provider answered without any text.
var ErrEmptyResponse = errors.New("ai provider returned empty response")

// Generator produces the assistant reply for the dialogue. system carries the
// context block; history ends with the user turn being answered.
type Generator interface {
	Generate(ctx context.Context, system string, history []conversation.Turn) (string, error)
}

// Describer is implemented by generators that can name their backend.
type Describer interface {
	Provider() string
	Model() string
}
