package consultants

import (
	"context"
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/spigell/candidate-matcher/internal/candidates"
)

type profilePayload struct {
	ID           string             `json:"id"`
	Introduction string             `json:"introduction"`
	Title        string             `json:"title"`
	Consultant   *consultantPayload `json:"consultant"`
}

type consultantPayload struct {
	DisplayName    string `json:"displayName"`
	City           string `json:"city"`
	Country        string `json:"country"`
	Email          string `json:"email"`
	AdditionSkills []struct {
		Name string `json:"name"`
	} `json:"additionSkills"`
	ManagedSkills []struct {
		Name string `json:"name"`
	} `json:"managedSkills"`
	// Projects are either objects carrying primaryName or bare strings.
	Projects []any `json:"projects"`
}

// FetchProfiles downloads and decodes the profile dataset.
func (c *Client) FetchProfiles(ctx context.Context) ([]candidates.Profile, error) {
	var raw any
	if err := c.getJSON(ctx, c.ProfilesURL, &raw); err != nil {
		return nil, err
	}

	return decodeProfiles(raw)
}

func decodeProfiles(raw any) ([]candidates.Profile, error) {
	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: profiles must be an array, got %T", ErrUpstreamShape, raw)
	}

	var payloads []profilePayload
	if err := decode(items, &payloads); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstreamShape, err)
	}

	profiles := make([]candidates.Profile, 0, len(payloads))
	for i, p := range payloads {
		if p.Consultant == nil || strings.TrimSpace(p.Consultant.DisplayName) == "" {
			return nil, fmt.Errorf("%w: profile %d has no consultant.displayName", ErrUpstreamShape, i)
		}
		profiles = append(profiles, p.toProfile())
	}

	return profiles, nil
}

func (p profilePayload) toProfile() candidates.Profile {
	cons := p.Consultant

	profile := candidates.Profile{
		ID:           p.ID,
		DisplayName:  cons.DisplayName,
		Title:        p.Title,
		Email:        cons.Email,
		Introduction: p.Introduction,
		Location: candidates.Location{
			City:    cons.City,
			Country: cons.Country,
		},
	}

	for _, s := range cons.AdditionSkills {
		if s.Name != "" {
			profile.AdditionSkills = append(profile.AdditionSkills, candidates.Skill{Name: s.Name})
		}
	}
	for _, s := range cons.ManagedSkills {
		if s.Name != "" {
			profile.ManagedSkills = append(profile.ManagedSkills, candidates.Skill{Name: s.Name})
		}
	}
	for _, raw := range cons.Projects {
		if name := projectName(raw); name != "" {
			profile.Projects = append(profile.Projects, candidates.Project{PrimaryName: name})
		}
	}

	return profile
}

func projectName(v any) string {
	switch typed := v.(type) {
	case string:
		return strings.TrimSpace(typed)
	case map[string]any:
		name, _ := typed["primaryName"].(string)
		return strings.TrimSpace(name)
	default:
		return ""
	}
}

// decode maps loosely typed JSON values onto tagged structs.
func decode(input, result any) error {
	cfg := &mapstructure.DecoderConfig{
		Result:           result,
		TagName:          "json",
		WeaklyTypedInput: true,
	}

	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return err
	}

	return decoder.Decode(input)
}
