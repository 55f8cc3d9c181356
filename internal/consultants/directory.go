package consultants

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/candidate-matcher/internal/cache"
	"github.com/spigell/candidate-matcher/internal/candidates"
	"github.com/spigell/candidate-matcher/internal/metrics"
)

// Fetcher is the upstream side of the directory.
type Fetcher interface {
	FetchProfiles(ctx context.Context) ([]candidates.Profile, error)
	FetchAvailability(ctx context.Context) ([]candidates.Availability, error)
}

// Directory serves both datasets through one cache each. Failures never
// escape: the caller gets an empty dataset and the error is logged.
type Directory struct {
	fetcher      Fetcher
	logger       *zap.Logger
	profiles     *cache.Loader[[]candidates.Profile]
	availability *cache.Loader[[]candidates.Availability]
}

// DirectoryConfig controls caching of upstream payloads.
type DirectoryConfig struct {
	TTL    time.Duration
	Dedupe bool
}

func NewDirectory(fetcher Fetcher, cfg DirectoryConfig, logger *zap.Logger) *Directory {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Directory{
		fetcher:      fetcher,
		logger:       logger,
		profiles:     cache.NewLoader(cache.New[[]candidates.Profile](cfg.TTL), cfg.Dedupe),
		availability: cache.NewLoader(cache.New[[]candidates.Availability](cfg.TTL), cfg.Dedupe),
	}
}

// Profiles returns the profile dataset, or an empty list when it cannot be fetched.
func (d *Directory) Profiles(ctx context.Context) []candidates.Profile {
	profiles, err := d.LoadProfiles(ctx)
	if err != nil {
		return []candidates.Profile{}
	}
	return profiles
}

// Availability returns the availability dataset, or an empty list when it cannot be fetched.
func (d *Directory) Availability(ctx context.Context) []candidates.Availability {
	availability, err := d.LoadAvailability(ctx)
	if err != nil {
		return []candidates.Availability{}
	}
	return availability
}

// LoadProfiles is Profiles with the error surfaced, used by the proxy endpoints.
func (d *Directory) LoadProfiles(ctx context.Context) ([]candidates.Profile, error) {
	return load(ctx, d, DatasetProfiles, d.profiles, d.fetcher.FetchProfiles)
}

// LoadAvailability is Availability with the error surfaced.
func (d *Directory) LoadAvailability(ctx context.Context) ([]candidates.Availability, error) {
	return load(ctx, d, DatasetAvailability, d.availability, d.fetcher.FetchAvailability)
}

func load[T any](ctx context.Context, d *Directory, dataset string, loader *cache.Loader[[]T], fetch cache.FetchFunc[[]T]) ([]T, error) {
	records, hit, err := loader.Load(ctx, dataset, func(ctx context.Context) ([]T, error) {
		d.logger.Debug("fetching dataset from upstream", zap.String("dataset", dataset))

		records, err := fetch(ctx)
		metrics.UpstreamFetchesTotal.WithLabelValues(dataset, outcome(err)).Inc()
		return records, err
	})

	if hit {
		metrics.CacheRequestsTotal.WithLabelValues(dataset, metrics.CacheHit).Inc()
		d.logger.Debug("serving dataset from cache", zap.String("dataset", dataset), zap.Int("count", len(records)))
	} else {
		metrics.CacheRequestsTotal.WithLabelValues(dataset, metrics.CacheMiss).Inc()
	}

	if err != nil {
		d.logger.Warn("loading dataset failed",
			zap.String("dataset", dataset),
			zap.Error(err),
		)
		return nil, err
	}

	return records, nil
}

func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, ErrUpstreamShape):
		return metrics.OutcomeShapeError
	default:
		return metrics.OutcomeFetchError
	}
}
