package candidates

import (
	"reflect"
	"testing"
)

func TestMergeIsLeftJoin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		profiles     []Profile
		availability []Availability
		expect       map[string]string
	}{
		{
			name:     "no availability",
			profiles: []Profile{{ID: "1", DisplayName: "Ada Lovelace"}},
			expect:   map[string]string{"Ada Lovelace": ""},
		},
		{
			name:     "case insensitive match",
			profiles: []Profile{{ID: "1", DisplayName: "Ada Lovelace"}, {ID: "2", DisplayName: "Alan Turing"}},
			availability: []Availability{
				{Name: "ada lovelace", AvailableFrom: "2025-05-01"},
			},
			expect: map[string]string{"Ada Lovelace": "2025-05-01", "Alan Turing": ""},
		},
		{
			name:     "orphan availability is dropped",
			profiles: []Profile{{ID: "1", DisplayName: "Ada Lovelace"}},
			availability: []Availability{
				{Name: "Grace Hopper", AvailableFrom: "2025-06-01"},
			},
			expect: map[string]string{"Ada Lovelace": ""},
		},
		{
			name:     "last duplicate wins",
			profiles: []Profile{{ID: "1", DisplayName: "Ada Lovelace"}},
			availability: []Availability{
				{Name: "Ada Lovelace", AvailableFrom: "2025-05-01"},
				{Name: "ADA LOVELACE", AvailableFrom: "2025-07-01"},
			},
			expect: map[string]string{"Ada Lovelace": "2025-07-01"},
		},
		{
			name:   "empty inputs",
			expect: map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			merged := Merge(tt.profiles, tt.availability)
			if len(merged) != len(tt.profiles) {
				t.Fatalf("expected %d candidates, got %d", len(tt.profiles), len(merged))
			}

			for i, c := range merged {
				if c.ID != tt.profiles[i].ID {
					t.Fatalf("expected profile order to be kept, got %q at %d", c.ID, i)
				}
				want, ok := tt.expect[c.DisplayName]
				if !ok {
					t.Fatalf("unexpected candidate %q", c.DisplayName)
				}
				if c.AvailableFrom != want {
					t.Fatalf("%s: expected availableFrom %q, got %q", c.DisplayName, want, c.AvailableFrom)
				}
				if c.HasAvailability() != (want != "") {
					t.Fatalf("%s: HasAvailability mismatch", c.DisplayName)
				}
			}
		})
	}
}

func TestMergeDoesNotMutateInputs(t *testing.T) {
	profiles := []Profile{{ID: "1", DisplayName: "Ada", AdditionSkills: []Skill{{Name: "Go"}}}}
	availability := []Availability{{Name: "ada", AvailableFrom: "2025-05-01"}}

	profilesCopy := append([]Profile(nil), profiles...)
	availabilityCopy := append([]Availability(nil), availability...)

	_ = Merge(profiles, availability)

	if !reflect.DeepEqual(profiles, profilesCopy) {
		t.Fatalf("profiles were mutated")
	}
	if !reflect.DeepEqual(availability, availabilityCopy) {
		t.Fatalf("availability was mutated")
	}
}

func TestCandidateSkillsAndProjects(t *testing.T) {
	c := Candidate{Profile: Profile{
		AdditionSkills: []Skill{{Name: "React"}},
		ManagedSkills:  []Skill{{Name: "Node.js"}, {Name: "React"}},
		Projects:       []Project{{PrimaryName: "Healthcare portal"}, {PrimaryName: "  "}},
	}}

	if got := c.Skills(); !reflect.DeepEqual(got, []string{"React", "Node.js", "React"}) {
		t.Fatalf("unexpected skills union: %v", got)
	}
	if got := c.ProjectNames(); !reflect.DeepEqual(got, []string{"Healthcare portal"}) {
		t.Fatalf("unexpected project names: %v", got)
	}
}

func TestFindByName(t *testing.T) {
	scored := []Scored{
		{Candidate: Candidate{Profile: Profile{DisplayName: "Henry Miller"}}, Score: 50},
		{Candidate: Candidate{Profile: Profile{DisplayName: "Ada Lovelace"}}, Score: 40},
	}

	if got := FindByName(scored, "  henry MILLER "); got == nil || got.Score != 50 {
		t.Fatalf("expected to find Henry Miller, got %+v", got)
	}
	if got := FindByName(scored, "nobody"); got != nil {
		t.Fatalf("expected nil for unknown name")
	}
	if got := FindByName(scored, ""); got != nil {
		t.Fatalf("expected nil for empty name")
	}
	if got := Names(scored); !reflect.DeepEqual(got, []string{"Henry Miller", "Ada Lovelace"}) {
		t.Fatalf("unexpected names: %v", got)
	}
}
