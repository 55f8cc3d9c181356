package consultants

import (
	"context"
	"fmt"
	"strings"

	"github.com/spigell/candidate-matcher/internal/candidates"
)

const availabilityField = "availableConsultants"

type availabilityPayload struct {
	Name          string `json:"name"`
	AvailableFrom string `json:"availableFrom"`
}

// FetchAvailability downloads the availability document and unwraps its
// availableConsultants array.
func (c *Client) FetchAvailability(ctx context.Context) ([]candidates.Availability, error) {
	var raw any
	if err := c.getJSON(ctx, c.AvailabilityURL, &raw); err != nil {
		return nil, err
	}

	return decodeAvailability(raw)
}

func decodeAvailability(raw any) ([]candidates.Availability, error) {
	doc, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: availability must be an object, got %T", ErrUpstreamShape, raw)
	}

	items, ok := doc[availabilityField].([]any)
	if !ok {
		return nil, fmt.Errorf("%w: no %s array in availability document", ErrUpstreamShape, availabilityField)
	}

	var payloads []availabilityPayload
	if err := decode(items, &payloads); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstreamShape, err)
	}

	records := make([]candidates.Availability, 0, len(payloads))
	for i, p := range payloads {
		if strings.TrimSpace(p.Name) == "" {
			return nil, fmt.Errorf("%w: availability entry %d has no name", ErrUpstreamShape, i)
		}
		records = append(records, candidates.Availability{
			Name:          p.Name,
			AvailableFrom: strings.TrimSpace(p.AvailableFrom),
		})
	}

	return records, nil
}
