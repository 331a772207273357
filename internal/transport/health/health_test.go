package health

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHealthzAlwaysOK(t *testing.T) {
	srv := NewServer()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestReadyzReflectsSetReady(t *testing.T) {
	srv := NewServer()

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status before SetReady = %d, want %d", w.Code, http.StatusServiceUnavailable)
	}

	srv.SetReady(true)
	w = httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("status after SetReady(true) = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestMetricsReflectsCounters(t *testing.T) {
	srv := NewServer()
	srv.IncPlanRequested()
	srv.IncPlanRequested()
	srv.IncPlanSucceeded()
	srv.IncPlanFailed()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	body := w.Body.String()
	for _, want := range []string{
		"hosplanner_plans_requested_total 2",
		"hosplanner_plans_succeeded_total 1",
		"hosplanner_plans_failed_total 1",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics body missing %q, got:\n%s", want, body)
		}
	}
}
