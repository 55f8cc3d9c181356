// Package consultants talks to the upstream profile and availability datasets.
package consultants

import (
	"errors"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

const (
	DatasetProfiles     = "profiles"
	DatasetAvailability = "availability"

	defaultProfilesURL     = "https://hackathon-test.azure-api.net/profiles/"
	defaultAvailabilityURL = "https://hackathon-test.azure-api.net/availability"
	defaultUserAgent       = "candidate-matcher"
	defaultTimeout         = 10 * time.Second
)

var (
	// ErrUpstreamFetch covers transport errors and non-success statuses.
	ErrUpstreamFetch = errors.New("upstream fetch failed")
	// ErrUpstreamShape means the payload did not have the expected structure.
	ErrUpstreamShape = errors.New("unexpected upstream payload")
)

// Config describes where the datasets live.
type Config struct {
	ProfilesURL     string
	AvailabilityURL string
	UserAgent       string
	Timeout         time.Duration
	MaxRetries      int
}

type Client struct {
	logger          *zap.Logger
	HTTPClient      *http.Client
	UserAgent       string
	ProfilesURL     string
	AvailabilityURL string
	MaxRetries      int

	// newBackOff builds the retry schedule for a single fetch.
	newBackOff func() backoff.BackOff
}

func New(logger *zap.Logger, cfg Config) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Client{
		logger:          logger,
		UserAgent:       defaultUserAgent,
		ProfilesURL:     defaultProfilesURL,
		AvailabilityURL: defaultAvailabilityURL,
		MaxRetries:      cfg.MaxRetries,
		HTTPClient: &http.Client{
			Timeout: defaultTimeout,
		},
		newBackOff: func() backoff.BackOff {
			expo := backoff.NewExponentialBackOff()
			expo.InitialInterval = 250 * time.Millisecond
			expo.MaxInterval = 2 * time.Second
			return expo
		},
	}

	if cfg.ProfilesURL != "" {
		c.ProfilesURL = cfg.ProfilesURL
	}
	if cfg.AvailabilityURL != "" {
		c.AvailabilityURL = cfg.AvailabilityURL
	}
	if cfg.UserAgent != "" {
		c.UserAgent = cfg.UserAgent
	}
	if cfg.Timeout > 0 {
		c.HTTPClient.Timeout = cfg.Timeout
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}

	return c
}
