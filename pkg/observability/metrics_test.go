package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestNewMetrics_RegistersWithoutPanic(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewMetrics(registry)
	if m == nil {
		t.Fatal("expected metrics")
	}

	// Touch a few metrics so they show up in the gather
	m.GuardDecisionsTotal.WithLabelValues("allowed").Inc()
	m.PermissionFetchesTotal.WithLabelValues("failed").Inc()
	m.StaleFetchesDiscarded.Inc()
	m.CacheHitsTotal.WithLabelValues("redis").Inc()

	families, err := registry.Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}

	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	for _, want := range []string{
		"millii_access_guard_decisions_total",
		"millii_access_permission_fetches_total",
		"millii_access_stale_fetches_discarded_total",
		"millii_access_cache_hits_total",
	} {
		if !names[want] {
			t.Errorf("expected metric family %s to be registered", want)
		}
	}
}

func TestMetricsHandler(t *testing.T) {
	m, registry := NewDefaultMetrics()
	m.GuardDecisionsTotal.WithLabelValues("denied").Inc()

	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	Handler(registry).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "millii_access_guard_decisions_total") {
		t.Error("expected guard decision metric in exposition output")
	}
}

func TestInstrumentHandler(t *testing.T) {
	m, registry := NewDefaultMetrics()

	handler := m.InstrumentHandler("/users/{id}/permissions", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	req := httptest.NewRequest("GET", "/users/u1/permissions", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected handler status to pass through, got %d", w.Code)
	}

	families, err := registry.Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}

	found := false
	for _, f := range families {
		if f.GetName() != "millii_access_http_requests_total" {
			continue
		}
		for _, metric := range f.GetMetric() {
			labels := map[string]string{}
			for _, l := range metric.GetLabel() {
				labels[l.GetName()] = l.GetValue()
			}
			if labels["path"] == "/users/{id}/permissions" && labels["status"] == "404" {
				found = true
			}
		}
	}
	if !found {
		t.Error("expected instrumented request with route-template path label and status 404")
	}
}
