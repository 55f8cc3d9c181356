package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegister(t *testing.T) {
	reg := prometheus.NewRegistry()

	if err := Register(reg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := Register(reg); err == nil {
		t.Fatalf("expected duplicate registration to fail")
	}
}

func TestHTTPMiddlewareUsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(HTTPMiddleware)
	r.Get("/items/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	counter := HTTPRequestsTotal.WithLabelValues("/items/{id}", http.MethodGet, "418")
	before := testutil.ToFloat64(counter)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/42", nil))

	if got := testutil.ToFloat64(counter); got != before+1 {
		t.Fatalf("expected one request on the route pattern, got %v", got-before)
	}
}

func TestObserveGeneration(t *testing.T) {
	before := testutil.CollectAndCount(GenerationDuration)

	ObserveGeneration("test-provider", time.Now(), nil)
	ObserveGeneration("test-provider", time.Now(), errors.New("boom"))

	if got := testutil.CollectAndCount(GenerationDuration); got != before+2 {
		t.Fatalf("expected ok and error series, got %d new", got-before)
	}
}
