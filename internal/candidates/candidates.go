// Package candidates holds the consultant records the matcher works on and the
// join that combines profiles with availability.
package candidates

import "strings"

// Skill is a single skill tag on a profile.
type Skill struct {
	Name string `json:"name"`
}

// Project is a project entry; the primary name drives domain inference.
type Project struct {
	PrimaryName string `json:"primaryName"`
}

// Location is where a consultant is based.
type Location struct {
	City    string `json:"city"`
	Country string `json:"country"`
}

// Profile is one consultant as published by the profile source.
// AdditionSkills are self-reported, ManagedSkills are curated by the organization.
type Profile struct {
	ID             string    `json:"id"`
	DisplayName    string    `json:"displayName"`
	Title          string    `json:"title"`
	Location       Location  `json:"location"`
	Email          string    `json:"email"`
	Introduction   string    `json:"introduction"`
	AdditionSkills []Skill   `json:"additionSkills"`
	ManagedSkills  []Skill   `json:"managedSkills"`
	Projects       []Project `json:"projects"`
}

// Availability says from when a consultant can start.
type Availability struct {
	Name          string `json:"name"`
	AvailableFrom string `json:"availableFrom"`
}

// Candidate is a profile joined with its availability, if any.
type Candidate struct {
	Profile
	AvailableFrom string `json:"availableFrom,omitempty"`
}

// HasAvailability reports whether the join found an availability record.
func (c *Candidate) HasAvailability() bool {
	return c.AvailableFrom != ""
}

// Skills returns the union of addition and managed skill names in source order.
func (c *Candidate) Skills() []string {
	names := make([]string, 0, len(c.AdditionSkills)+len(c.ManagedSkills))
	for _, s := range c.AdditionSkills {
		names = append(names, s.Name)
	}
	for _, s := range c.ManagedSkills {
		names = append(names, s.Name)
	}

	return names
}

// ProjectNames returns the primary names of all projects, skipping empty ones.
func (c *Candidate) ProjectNames() []string {
	names := make([]string, 0, len(c.Projects))
	for _, p := range c.Projects {
		if name := strings.TrimSpace(p.PrimaryName); name != "" {
			names = append(names, name)
		}
	}

	return names
}

// Scored is a candidate with its match score in [0,100].
type Scored struct {
	Candidate
	Score int `json:"score"`
}

// Names returns the display names of the scored candidates in order.
func Names(scored []Scored) []string {
	names := make([]string, 0, len(scored))
	for _, s := range scored {
		names = append(names, s.DisplayName)
	}

	return names
}

// FindByName looks a candidate up by case-insensitive display name.
func FindByName(scored []Scored, name string) *Scored {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return nil
	}

	for i := range scored {
		if strings.ToLower(scored[i].DisplayName) == name {
			return &scored[i]
		}
	}

	return nil
}
