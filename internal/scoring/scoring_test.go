package scoring

import (
	"math/rand"
	"testing"
	"time"

	"github.com/spigell/candidate-matcher/internal/candidates"
	"github.com/spigell/candidate-matcher/internal/query"
)

var asOf = time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

func candidate(name, title string, opts ...func(*candidates.Candidate)) candidates.Candidate {
	c := candidates.Candidate{Profile: candidates.Profile{ID: name, DisplayName: name, Title: title}}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

func withSkills(addition, managed []string) func(*candidates.Candidate) {
	return func(c *candidates.Candidate) {
		for _, s := range addition {
			c.AdditionSkills = append(c.AdditionSkills, candidates.Skill{Name: s})
		}
		for _, s := range managed {
			c.ManagedSkills = append(c.ManagedSkills, candidates.Skill{Name: s})
		}
	}
}

func availableFrom(date string) func(*candidates.Candidate) {
	return func(c *candidates.Candidate) { c.AvailableFrom = date }
}

func withProjects(names ...string) func(*candidates.Candidate) {
	return func(c *candidates.Candidate) {
		for _, n := range names {
			c.Projects = append(c.Projects, candidates.Project{PrimaryName: n})
		}
	}
}

func withIntro(intro string) func(*candidates.Candidate) {
	return func(c *candidates.Candidate) { c.Introduction = intro }
}

func TestExplainSubScores(t *testing.T) {
	t.Parallel()

	full := candidate("Henry", "Senior Developer",
		withSkills([]string{"React"}, []string{"node.js"}),
		availableFrom("2025-04-20"),
		withProjects("Healthcare Portal"),
		withIntro("Happy in any Team"),
	)

	tests := []struct {
		name   string
		c      candidates.Candidate
		cons   query.Constraints
		raw    string
		expect Breakdown
		total  int
	}{
		{
			name:   "everything matches",
			c:      full,
			cons:   query.Constraints{Skills: []string{"react", "node.js"}, Experience: query.LevelSenior, Domain: "healthcare"},
			raw:    "a senior team player with react, node.js for healthcare",
			expect: Breakdown{Skills: 40, Experience: 25, Availability: 20, Domain: 10, TeamFit: 5},
			total:  100,
		},
		{
			name:   "unspecified constraints get neutral baselines",
			c:      candidate("Ada", "Developer"),
			cons:   query.Constraints{},
			raw:    "anyone available",
			expect: Breakdown{Skills: 0, Experience: 15, Availability: 0, Domain: 5, TeamFit: 2},
			total:  22,
		},
		{
			name:   "partial skills and mismatched level",
			c:      full,
			cons:   query.Constraints{Skills: []string{"react", "go", "rust"}, Experience: query.LevelJunior, Domain: "finance"},
			raw:    "junior with react, go, rust",
			expect: Breakdown{Skills: 40.0 / 3, Experience: 0, Availability: 20, Domain: 0, TeamFit: 2},
			total:  35,
		},
		{
			name:   "team keyword needs both sides",
			c:      candidate("Bo", "Lead", withIntro("solo worker")),
			cons:   query.Constraints{Experience: query.LevelLead},
			raw:    "lead for my team",
			expect: Breakdown{Experience: 25, Domain: 5, TeamFit: 2},
			total:  32,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Explain(&tt.c, tt.cons, tt.raw, asOf)
			if got.Skills != tt.expect.Skills || got.Experience != tt.expect.Experience ||
				got.Availability != tt.expect.Availability || got.Domain != tt.expect.Domain ||
				got.TeamFit != tt.expect.TeamFit {
				t.Fatalf("unexpected breakdown: %+v, expected %+v", got, tt.expect)
			}
			if len(got.Reasons) != len(Criteria) {
				t.Fatalf("expected one reason per criterion, got %v", got.Reasons)
			}
			if total := Score(&tt.c, tt.cons, tt.raw, asOf); total != tt.total {
				t.Fatalf("expected total %d, got %d", tt.total, total)
			}
		})
	}
}

func TestAvailabilityBoundaries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		date   string
		expect float64
	}{
		{date: "2025-05-01", expect: 20},
		{date: "2025-04-01", expect: 20},
		{date: "2025-05-31", expect: 15},
		{date: "2025-06-01", expect: 5},
		{date: "2025-05-02T00:00:00Z", expect: 15},
		{date: "2025-05-01T00:00:00", expect: 20},
		{date: "next week", expect: 5},
		{date: "", expect: 0},
	}

	for _, tt := range tests {
		c := candidate("X", "Dev", availableFrom(tt.date))
		got, _ := availabilityScore(&c, asOf)
		if got != tt.expect {
			t.Fatalf("availableFrom %q: expected %v, got %v", tt.date, tt.expect, got)
		}
	}
}

func TestSkillMatchIsExactAndCaseInsensitive(t *testing.T) {
	c := candidate("X", "Dev", withSkills([]string{"React Native"}, []string{"GO"}))
	cons := query.Constraints{Skills: []string{"react", "go"}}

	b := Explain(&c, cons, "", asOf)
	if b.Skills != 20 {
		t.Fatalf("expected only go to match exactly, got %v", b.Skills)
	}
}

func TestScoreBoundsAndDeterminism(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	skills := []string{"go", "react", "java", "aws", "sql"}
	titles := []string{"Senior Developer", "Lead Architect", "Junior Tester", "Consultant"}
	dates := []string{"", "2025-04-01", "2025-05-15", "2026-01-01", "garbage"}
	levels := []query.Level{query.LevelUnspecified, query.LevelSenior, query.LevelLead, query.LevelJunior}

	for i := 0; i < 500; i++ {
		c := candidate("X", titles[rng.Intn(len(titles))],
			withSkills(skills[:rng.Intn(len(skills))], skills[rng.Intn(len(skills)):]),
			availableFrom(dates[rng.Intn(len(dates))]),
			withProjects("cloud migration", "web shop"),
			withIntro("team"),
		)

		cons := query.Constraints{
			Skills:     skills[rng.Intn(len(skills)):],
			Experience: levels[rng.Intn(len(levels))],
		}
		if rng.Intn(2) == 0 {
			cons.Domain = query.Domains[rng.Intn(len(query.Domains))]
		}

		first := Score(&c, cons, "team", asOf)
		if first < 0 || first > 100 {
			t.Fatalf("score out of bounds: %d", first)
		}
		if second := Score(&c, cons, "team", asOf); second != first {
			t.Fatalf("score not deterministic: %d vs %d", first, second)
		}
	}
}

func TestRankIsStableAndDescending(t *testing.T) {
	list := []candidates.Candidate{
		candidate("first", "Developer"),
		candidate("senior", "Senior Developer"),
		candidate("second", "Developer"),
		candidate("third", "Developer"),
	}

	ranked := Rank(list, query.Constraints{Experience: query.LevelSenior}, "", asOf)

	names := candidates.Names(ranked)
	expect := []string{"senior", "first", "second", "third"}
	for i := range expect {
		if names[i] != expect[i] {
			t.Fatalf("unexpected order: %v", names)
		}
	}

	for i := 1; i < len(ranked); i++ {
		if ranked[i-1].Score < ranked[i].Score {
			t.Fatalf("ranking not descending: %v", ranked)
		}
	}

	if list[0].DisplayName != "first" {
		t.Fatalf("input was reordered")
	}
}

func TestCriteriaWeightsSumToHundred(t *testing.T) {
	sum := 0
	for _, c := range Criteria {
		sum += c.Weight
	}
	if sum != 100 {
		t.Fatalf("expected weights to sum to 100, got %d", sum)
	}
}
