// Package scoring computes how well a candidate matches parsed constraints.
package scoring

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/spigell/candidate-matcher/internal/candidates"
	"github.com/spigell/candidate-matcher/internal/query"
)

// Criterion describes one weighted part of the score.
type Criterion struct {
	Name        string
	Weight      int
	Description string
}

// Criteria lists the score parts in presentation order. Weights sum to 100.
var Criteria = []Criterion{
	{Name: "Skills Match", Weight: 40, Description: "Direct skill alignment"},
	{Name: "Experience Level", Weight: 25, Description: "Seniority appropriateness"},
	{Name: "Availability", Weight: 20, Description: "Schedule compatibility"},
	{Name: "Domain Knowledge", Weight: 10, Description: "Industry/project type experience"},
	{Name: "Team Fit", Weight: 5, Description: "Role compatibility"},
}

const (
	maxSkills     = 40.0
	matchedLevel  = 25.0
	neutralLevel  = 15.0
	availableNow  = 20.0
	availableSoon = 15.0
	availableLate = 5.0
	soonDays      = 30.0
	matchedDomain = 10.0
	neutralDomain = 5.0
	teamMatch     = 5.0
	teamBaseline  = 2.0
	teamKeyword   = "team"
)

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Breakdown holds the sub-scores of one candidate.
type Breakdown struct {
	Skills       float64  `json:"skills"`
	Experience   float64  `json:"experience"`
	Availability float64  `json:"availability"`
	Domain       float64  `json:"domain"`
	TeamFit      float64  `json:"teamFit"`
	Reasons      []string `json:"reasons"`
}

// Total is the rounded sum of the sub-scores.
func (b Breakdown) Total() int {
	return int(math.Round(b.Skills + b.Experience + b.Availability + b.Domain + b.TeamFit))
}

// Score returns the match score of c in [0,100].
func Score(c *candidates.Candidate, cons query.Constraints, rawQuery string, asOf time.Time) int {
	return Explain(c, cons, rawQuery, asOf).Total()
}

// Explain computes every sub-score together with a short reason for each.
func Explain(c *candidates.Candidate, cons query.Constraints, rawQuery string, asOf time.Time) Breakdown {
	b := Breakdown{
		Skills:  skillsScore(c, cons.Skills),
		Reasons: []string{skillsReason(c, cons.Skills)},
	}

	var reason string
	b.Experience, reason = experienceScore(c, cons.Experience)
	b.Reasons = append(b.Reasons, reason)

	b.Availability, reason = availabilityScore(c, asOf)
	b.Reasons = append(b.Reasons, reason)

	b.Domain, reason = domainScore(c, cons.Domain)
	b.Reasons = append(b.Reasons, reason)

	b.TeamFit, reason = teamScore(c, rawQuery)
	b.Reasons = append(b.Reasons, reason)

	return b
}

// Rank scores every candidate and sorts by descending score. Equal scores keep
// their input order.
func Rank(list []candidates.Candidate, cons query.Constraints, rawQuery string, asOf time.Time) []candidates.Scored {
	scored := make([]candidates.Scored, 0, len(list))
	for i := range list {
		scored = append(scored, candidates.Scored{
			Candidate: list[i],
			Score:     Score(&list[i], cons, rawQuery, asOf),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	return scored
}

func skillSet(c *candidates.Candidate) map[string]struct{} {
	set := make(map[string]struct{})
	for _, name := range c.Skills() {
		set[strings.ToLower(name)] = struct{}{}
	}
	return set
}

func matchedSkills(c *candidates.Candidate, required []string) []string {
	have := skillSet(c)
	matched := make([]string, 0, len(required))
	for _, skill := range required {
		if _, ok := have[strings.ToLower(skill)]; ok {
			matched = append(matched, skill)
		}
	}
	return matched
}

func skillsScore(c *candidates.Candidate, required []string) float64 {
	if len(required) == 0 {
		return 0
	}
	return maxSkills * float64(len(matchedSkills(c, required))) / float64(len(required))
}

func skillsReason(c *candidates.Candidate, required []string) string {
	if len(required) == 0 {
		return "no skills requested"
	}
	matched := matchedSkills(c, required)
	if len(matched) == 0 {
		return fmt.Sprintf("none of %d requested skills", len(required))
	}
	return fmt.Sprintf("matches %d of %d skills: %s", len(matched), len(required), strings.Join(matched, ", "))
}

func experienceScore(c *candidates.Candidate, level query.Level) (float64, string) {
	if level == query.LevelUnspecified {
		return neutralLevel, "no seniority requested"
	}
	if strings.Contains(strings.ToLower(c.Title), string(level)) {
		return matchedLevel, fmt.Sprintf("title matches %s", level)
	}
	return 0, fmt.Sprintf("title does not mention %s", level)
}

func availabilityScore(c *candidates.Candidate, asOf time.Time) (float64, string) {
	if !c.HasAvailability() {
		return 0, "no availability data"
	}

	from, ok := parseDate(c.AvailableFrom)
	if !ok {
		return availableLate, fmt.Sprintf("unreadable availability date %q", c.AvailableFrom)
	}

	days := from.Sub(asOf).Hours() / 24
	switch {
	case days <= 0:
		return availableNow, "available now"
	case days <= soonDays:
		return availableSoon, fmt.Sprintf("available within %d days", int(math.Ceil(days)))
	default:
		return availableLate, fmt.Sprintf("available in %d days", int(math.Ceil(days)))
	}
}

func domainScore(c *candidates.Candidate, domain query.Domain) (float64, string) {
	if domain == query.DomainUnspecified {
		return neutralDomain, "no domain requested"
	}
	for _, name := range c.ProjectNames() {
		if strings.Contains(strings.ToLower(name), string(domain)) {
			return matchedDomain, fmt.Sprintf("%s project: %s", domain, name)
		}
	}
	return 0, fmt.Sprintf("no %s projects", domain)
}

func teamScore(c *candidates.Candidate, rawQuery string) (float64, string) {
	if strings.Contains(strings.ToLower(rawQuery), teamKeyword) && strings.Contains(strings.ToLower(c.Introduction), teamKeyword) {
		return teamMatch, "introduction mentions team work"
	}
	return teamBaseline, "baseline team fit"
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
