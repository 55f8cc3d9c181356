// Package intent classifies a user turn against the conversation so the
// pipeline knows which part of the ranking to surface.
package intent

import (
	"regexp"
	"strings"

	"github.com/spigell/candidate-matcher/internal/conversation"
)

type Kind string

const (
	Greeting           Kind = "greeting"
	ScoringExplanation Kind = "scoring_explanation"
	ShowMore           Kind = "show_more"
	CandidateDetails   Kind = "candidate_details"
	NewSearch          Kind = "new_search"
)

// Intent is the classified purpose of a turn. Candidate is set for
// CandidateDetails only.
type Intent struct {
	Kind      Kind   `json:"kind"`
	Candidate string `json:"candidate,omitempty"`
}

// Classifier is the pluggable turn classifier.
type Classifier interface {
	IsGreeting(text string) bool
	// Classify resolves text against the display names of the ranked candidates.
	Classify(text string, names []string) Intent
}

var greetings = []string{"hi", "hello", "hey", "greetings", "good morning", "good afternoon", "good evening"}

var detailPhrases = []string{
	"tell me more", "project", "experience", "background", "keen on", "interested in", "details", "profile", "about",
}

var followUpPhrases = []string{
	"tell me more", "what else", "more about him", "more about her", "more about them",
	"more about this candidate", "more about this profile", "more details", "anything else",
}

var availabilityPhrases = []string{
	"when available", "availability", "when can", "when is", "available from", "start date",
}

var (
	scoringPattern  = regexp.MustCompile(`scor(e|ing)|criteria|how.*score`)
	showMorePattern = regexp.MustCompile(`more|show more|next|see more|additional`)
	detailPatterns  = []*regexp.Regexp{
		regexp.MustCompile(`about ([a-z .'-]+)`),
		regexp.MustCompile(`details? for ([a-z .'-]+)`),
		regexp.MustCompile(`profile ([a-z .'-]+)`),
	}
)

// Rules is the keyword and pattern based Classifier.
type Rules struct{}

// IsGreeting matches a greeting on its own or followed by more words.
func (Rules) IsGreeting(text string) bool {
	lower := strings.ToLower(strings.TrimSpace(text))
	for _, greet := range greetings {
		if lower == greet || strings.HasPrefix(lower, greet+" ") {
			return true
		}
	}
	return false
}

func (Rules) Classify(text string, names []string) Intent {
	lower := strings.ToLower(text)

	// A named candidate plus a detail phrase is the most specific signal.
	if name := mentionedCandidate(lower, names); name != "" {
		return Intent{Kind: CandidateDetails, Candidate: name}
	}

	if scoringPattern.MatchString(lower) {
		return Intent{Kind: ScoringExplanation}
	}

	if showMorePattern.MatchString(lower) {
		return Intent{Kind: ShowMore}
	}

	for _, pattern := range detailPatterns {
		if match := pattern.FindStringSubmatch(lower); match != nil {
			if name := strings.TrimSpace(match[1]); name != "" {
				return Intent{Kind: CandidateDetails, Candidate: name}
			}
		}
	}

	return Intent{Kind: NewSearch}
}

func mentionedCandidate(lower string, names []string) string {
	if !containsAny(lower, detailPhrases) {
		return ""
	}

	for _, name := range names {
		n := strings.ToLower(strings.TrimSpace(name))
		if n != "" && strings.Contains(lower, n) {
			return name
		}
	}

	return ""
}

// IsGenericFollowUp reports a follow-up that refers to the previous candidate
// without naming anyone.
func IsGenericFollowUp(text string) bool {
	return containsAny(strings.ToLower(text), followUpPhrases)
}

// IsAvailabilityRequest reports a question about start dates.
func IsAvailabilityRequest(text string) bool {
	return containsAny(strings.ToLower(text), availabilityPhrases)
}

func containsAny(lower string, phrases []string) bool {
	for _, phrase := range phrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// Resolver applies a Classifier to a whole transcript.
type Resolver struct {
	classifier Classifier
}

// NewResolver uses Rules when classifier is nil.
func NewResolver(classifier Classifier) *Resolver {
	if classifier == nil {
		classifier = Rules{}
	}
	return &Resolver{classifier: classifier}
}

// IsGreeting reports whether turns open the conversation with a greeting.
func (r *Resolver) IsGreeting(turns []conversation.Turn) bool {
	if !conversation.IsFirstUserTurn(turns) {
		return false
	}
	text, ok := conversation.LastUserText(turns)
	return ok && r.classifier.IsGreeting(text)
}

// Resolve classifies the latest user text against the ranked candidate names.
func (r *Resolver) Resolve(text string, names []string) Intent {
	return r.classifier.Classify(text, names)
}

// LastDiscussed returns the candidate carried in state, falling back to the
// newest transcript marker.
func LastDiscussed(state conversation.State, turns []conversation.Turn) string {
	if name := strings.TrimSpace(state.LastCandidate); name != "" {
		return name
	}
	return conversation.LastMarked(turns)
}
