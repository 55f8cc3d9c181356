package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/candidate-matcher/internal/logger"
)

const requestIDHeader = "X-Request-Id"

// requestID reuses the caller's request id or mints one, and stores a request
// scoped logger in the context.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		w.Header().Set(requestIDHeader, id)
		scoped := s.logger.With(logger.RequestFields(id, "")...)
		next.ServeHTTP(w, r.WithContext(logger.WithContext(r.Context(), scoped)))
	})
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		logger.FromContext(r.Context(), s.logger).Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

// recoverer turns a panic into the generic 500 response.
func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.FromContext(r.Context(), s.logger).Error("panic recovered", zap.Any("recover", rec))
				writeMessage(w, http.StatusInternalServerError, genericErrorMessage)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
