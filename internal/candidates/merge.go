package candidates

import "strings"

// Merge left-joins availability onto profiles by case-insensitive display name.
// Every profile yields exactly one candidate; availability without a matching
// profile is dropped. On duplicate availability names the last record wins.
// Inputs are not modified.
func Merge(profiles []Profile, availability []Availability) []Candidate {
	byName := make(map[string]Availability, len(availability))
	for _, a := range availability {
		byName[strings.ToLower(a.Name)] = a
	}

	merged := make([]Candidate, 0, len(profiles))
	for _, p := range profiles {
		c := Candidate{Profile: p}
		if a, ok := byName[strings.ToLower(p.DisplayName)]; ok {
			c.AvailableFrom = a.AvailableFrom
		}
		merged = append(merged, c)
	}

	return merged
}
