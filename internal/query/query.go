// Package query turns a free-text hiring request into structured constraints.
//
// Parsing is keyword and pattern based. It never fails: text without any
// recognizable signal produces empty constraints.
package query

import (
	"regexp"
	"strings"
)

// Level is a required seniority.
type Level string

const (
	LevelUnspecified Level = ""
	LevelSenior      Level = "senior"
	LevelLead        Level = "lead"
	LevelJunior      Level = "junior"
)

// Domain is a required industry or project type.
type Domain string

const DomainUnspecified Domain = ""

// Levels in match priority order.
var Levels = []Level{LevelSenior, LevelLead, LevelJunior}

// Domains in match priority order.
var Domains = []Domain{"healthcare", "finance", "ecommerce", "education", "cloud", "mobile", "web"}

// Constraints is what a single user turn asks for.
type Constraints struct {
	Skills     []string `json:"skills"`
	Experience Level    `json:"experience"`
	Domain     Domain   `json:"domain"`
}

// IsEmpty reports whether no constraint was recognized.
func (c Constraints) IsEmpty() bool {
	return len(c.Skills) == 0 && c.Experience == LevelUnspecified && c.Domain == DomainUnspecified
}

// Interpreter extracts constraints from a user turn.
type Interpreter interface {
	Parse(text string) Constraints
}

// Rules is the keyword based Interpreter.
type Rules struct{}

func (Rules) Parse(text string) Constraints {
	return Parse(text)
}

var (
	skillPatterns = []*regexp.Regexp{
		regexp.MustCompile(`with ([\w, .-]+)`),
		regexp.MustCompile(`in ([\w, .-]+)`),
		regexp.MustCompile(`skills?: ([\w, .-]+)`),
	}
	skillSeparator = regexp.MustCompile(`,| and | or `)
)

// Parse applies the skill, experience and domain rules independently.
func Parse(text string) Constraints {
	lower := strings.ToLower(text)

	return Constraints{
		Skills:     parseSkills(lower),
		Experience: parseExperience(lower),
		Domain:     parseDomain(lower),
	}
}

// parseSkills takes the capture of the first matching pattern only.
func parseSkills(lower string) []string {
	for _, pattern := range skillPatterns {
		match := pattern.FindStringSubmatch(lower)
		if match == nil {
			continue
		}

		skills := make([]string, 0)
		seen := make(map[string]struct{})
		for _, part := range skillSeparator.Split(match[1], -1) {
			skill := strings.TrimSpace(part)
			if skill == "" {
				continue
			}
			if _, dup := seen[skill]; dup {
				continue
			}
			seen[skill] = struct{}{}
			skills = append(skills, skill)
		}

		return skills
	}

	return []string{}
}

func parseExperience(lower string) Level {
	for _, level := range Levels {
		if strings.Contains(lower, string(level)) {
			return level
		}
	}

	return LevelUnspecified
}

func parseDomain(lower string) Domain {
	for _, domain := range Domains {
		if strings.Contains(lower, string(domain)) {
			return domain
		}
	}

	return DomainUnspecified
}
