// Package server exposes the chat pipeline and the dataset proxies over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/spigell/candidate-matcher/internal/candidates"
	"github.com/spigell/candidate-matcher/internal/chat"
	"github.com/spigell/candidate-matcher/internal/metrics"
)

const (
	defaultRateLimitPerMin = 60
	shutdownTimeout        = 10 * time.Second
)

// Responder answers chat turns.
type Responder interface {
	Respond(ctx context.Context, req *chat.Request) (*chat.Response, error)
}

// Datasets loads the upstream datasets with errors surfaced.
type Datasets interface {
	LoadProfiles(ctx context.Context) ([]candidates.Profile, error)
	LoadAvailability(ctx context.Context) ([]candidates.Availability, error)
}

type Config struct {
	RateLimitPerMin int
	CORSOrigins     []string
}

type Server struct {
	chat     Responder
	datasets Datasets
	cfg      Config
	logger   *zap.Logger
}

func New(responder Responder, datasets Datasets, cfg Config, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.RateLimitPerMin <= 0 {
		cfg.RateLimitPerMin = defaultRateLimitPerMin
	}

	return &Server{chat: responder, datasets: datasets, cfg: cfg, logger: logger}
}

// Router builds the HTTP handler with all middlewares and routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(s.recoverer)
	r.Use(s.requestID)
	r.Use(s.accessLog)
	r.Use(metrics.HTTPMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins(s.cfg.CORSOrigins),
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
		MaxAge:         300,
	}))

	r.Route("/api", func(api chi.Router) {
		api.Group(func(limited chi.Router) {
			limited.Use(httprate.LimitByIP(s.cfg.RateLimitPerMin, time.Minute))
			limited.Post("/chat", s.handleChat)
		})
		api.Get("/profiles", s.handleProfiles)
		api.Get("/availability", s.handleAvailability)
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

func origins(configured []string) []string {
	out := make([]string, 0, len(configured))
	for _, o := range configured {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
