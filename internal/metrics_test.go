package internal

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"itassets-dashboard/internal/accessor"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200 from /metrics, got %d", w.Code)
	}
	return w.Body.String()
}

func TestMetricsMiddlewareRecordsRoutePattern(t *testing.T) {
	metrics := NewMetrics()
	router := chi.NewRouter()
	router.Use(metrics.Middleware())
	router.Get("/api/{slug}/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/switches/42", nil))
	if w.Code != http.StatusTeapot {
		t.Fatalf("Expected status 418, got %d", w.Code)
	}

	body := scrape(t, metrics)
	for _, want := range []string{"http_requests_total", "http_request_duration_seconds", `path="/api/{slug}/{id}"`, `status="I'm a teapot"`} {
		if !strings.Contains(body, want) {
			t.Errorf("Expected %q in metrics output", want)
		}
	}
	if strings.Contains(body, `path="/api/switches/42"`) {
		t.Error("Expected the route pattern, not the raw path")
	}
}

func TestMetricsObserveOperation(t *testing.T) {
	metrics := NewMetrics()
	metrics.ObserveOperation("celulares", "create", nil)
	metrics.ObserveOperation("celulares", "create", errors.New("boom"))
	metrics.ObserveOperation("celulares", "list", accessor.ErrStale)

	body := scrape(t, metrics)
	for _, want := range []string{
		`asset_operations_total{entity="celulares",op="create",result="ok"} 1`,
		`asset_operations_total{entity="celulares",op="create",result="error"} 1`,
		`asset_operations_total{entity="celulares",op="list",result="stale"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("Expected %q in metrics output", want)
		}
	}
}

func TestMetricsRegistryIsPrivate(t *testing.T) {
	a, b := NewMetrics(), NewMetrics()
	a.ObserveOperation("coletores", "delete", nil)

	if strings.Contains(scrape(t, b), `entity="coletores"`) {
		t.Error("Expected separate Metrics instances not to share series")
	}
}
