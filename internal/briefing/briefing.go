// Package briefing renders the framing context handed to the generation step.
package briefing

import (
	"fmt"
	"strings"

	"github.com/spigell/candidate-matcher/internal/candidates"
	"github.com/spigell/candidate-matcher/internal/intent"
	"github.com/spigell/candidate-matcher/internal/scoring"
)

// DefaultPageSize is how many ranked candidates one context block carries.
const DefaultPageSize = 10

const notAvailable = "N/A"

// Welcome is sent as-is for an opening greeting and opens every context block.
const Welcome = `Hello! 👋 I'm your AI hiring assistant, here to help you find the perfect candidates for your needs. I can:

- Search for candidates based on specific skills, experience levels, or domains
- Provide detailed candidate profiles and availability information
- Explain how candidates are scored and matched to your requirements
- Help you refine your search to find better matches

Just let me know what kind of candidate you're looking for, and I'll help you find the best matches! For example, you could ask:
- "Find me a senior developer with React and Node.js experience"
- "Show me candidates available in the next month"
- "I need someone with healthcare domain experience"`

// ScoringCriteria is the fixed explanation of how scores are computed.
var ScoringCriteria = renderCriteria()

func renderCriteria() string {
	var b strings.Builder
	b.WriteString("Scoring Criteria:")
	for _, c := range scoring.Criteria {
		fmt.Fprintf(&b, "\n- %s (%d%%): %s", c.Name, c.Weight, c.Description)
	}
	return b.String()
}

// Input is everything the block is built from.
type Input struct {
	// Ranked is the complete ranking; the page is cut from it.
	Ranked   []candidates.Scored
	Intent   intent.Intent
	Offset   int
	PageSize int
	// Focus is the candidate the current turn asks about, if resolved.
	Focus *candidates.Scored
	// LastDiscussed is the candidate from earlier turns, if still ranked.
	LastDiscussed *candidates.Scored
	// FollowUp and AvailabilityRequest come from the auxiliary detectors.
	FollowUp            bool
	AvailabilityRequest bool
}

// Page returns the window of ranked starting at offset.
func Page(ranked []candidates.Scored, offset, size int) []candidates.Scored {
	if size <= 0 {
		size = DefaultPageSize
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= len(ranked) {
		return nil
	}

	end := offset + size
	if end > len(ranked) {
		end = len(ranked)
	}

	return ranked[offset:end]
}

// Build assembles the context block. It never calls the generation step.
func Build(in Input) string {
	var b strings.Builder

	b.WriteString(Welcome)
	b.WriteString("\n\n")
	b.WriteString(ScoringCriteria)

	if framing := framingLines(in); len(framing) > 0 {
		b.WriteString("\n\n")
		b.WriteString(strings.Join(framing, "\n"))
	}

	page := Page(in.Ranked, in.Offset, in.PageSize)
	switch {
	case len(page) == 0 && in.Offset > 0:
		b.WriteString("\n\nThere are no further candidates beyond the ones already shown.")
	case len(page) == 0:
		b.WriteString("\n\nNo candidates are currently available.")
	case in.Offset > 0:
		fmt.Fprintf(&b, "\n\nHere are more candidates for the user's request (ranks %d-%d):\n", in.Offset+1, in.Offset+len(page))
	default:
		b.WriteString("\n\nHere are the top candidates for the user's request:\n")
	}

	summaries := make([]string, 0, len(page))
	for i := range page {
		summaries = append(summaries, Summary(&page[i]))
	}
	b.WriteString(strings.Join(summaries, "\n---\n"))

	if in.Focus != nil {
		b.WriteString("\n\nCandidate the user is asking about:\n")
		b.WriteString(Summary(in.Focus))
	}

	if in.LastDiscussed != nil && (in.Focus == nil || in.Focus.DisplayName != in.LastDiscussed.DisplayName) {
		b.WriteString("\n\nLast discussed candidate:\n")
		b.WriteString(Summary(in.LastDiscussed))
	}

	return b.String()
}

func framingLines(in Input) []string {
	var lines []string

	switch in.Intent.Kind {
	case intent.ScoringExplanation:
		lines = append(lines, "The user wants to know how candidates are scored. Explain the criteria above and how they apply to the candidates below.")
	case intent.ShowMore:
		if in.Offset > 0 {
			lines = append(lines, "The user asked to see more candidates. Present the candidates below and do not repeat earlier ones.")
		}
	case intent.CandidateDetails:
		if in.Focus == nil && in.Intent.Candidate != "" {
			lines = append(lines, fmt.Sprintf("The user asked about %q, who is not among the ranked candidates. Say so and offer the closest matches.", in.Intent.Candidate))
		}
	}

	if in.FollowUp && in.LastDiscussed != nil && in.Focus == nil {
		lines = append(lines, "The user is following up on the last discussed candidate.")
	}

	if in.AvailabilityRequest {
		lines = append(lines, "The user is asking about availability. Answer with the Available From dates.")
	}

	return lines
}

// Summary renders one candidate block.
func Summary(c *candidates.Scored) string {
	lines := []string{
		"Name: " + c.DisplayName,
		"Title: " + c.Title,
		"Skills: " + strings.Join(c.Skills(), ", "),
		fmt.Sprintf("Location: %s, %s", c.Location.City, c.Location.Country),
		"Email: " + c.Email,
		"Available From: " + orNA(c.AvailableFrom),
		"Projects: " + orNA(strings.Join(c.ProjectNames(), ", ")),
		"Introduction: " + orNA(c.Introduction),
		fmt.Sprintf("Match Score: %d/100", c.Score),
	}

	return strings.Join(lines, "\n")
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return notAvailable
	}
	return s
}
