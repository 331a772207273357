// Package health exposes the plain net/http liveness, readiness, and
// metrics endpoints a load balancer and scraper poll, kept separate
// from the plan-submission surface in httpapi so the ops mux can be
// reused even if the plan API moves to gRPC-only.
package health

import (
	"fmt"
	"net/http"
	"sync/atomic"
)

// Server serves /healthz, /readyz, and /metrics.
type Server struct {
	mux   *http.ServeMux
	ready atomic.Bool

	plansRequested atomic.Int64
	plansSucceeded atomic.Int64
	plansFailed    atomic.Int64
}

// NewServer builds the ops mux.
func NewServer() *Server {
	s := &Server{mux: http.NewServeMux()}
	s.mux.HandleFunc("/healthz", s.handleHealthz)
	s.mux.HandleFunc("/readyz", s.handleReadyz)
	s.mux.HandleFunc("/metrics", s.handleMetrics)
	return s
}

// ServeHTTP makes Server an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// SetReady flips the /readyz outcome.
func (s *Server) SetReady(ready bool) {
	s.ready.Store(ready)
}

// IncPlanRequested counts one accepted plan request.
func (s *Server) IncPlanRequested() {
	s.plansRequested.Add(1)
}

// IncPlanSucceeded counts one plan that completed without error.
func (s *Server) IncPlanSucceeded() {
	s.plansSucceeded.Add(1)
}

// IncPlanFailed counts one plan that returned a PlanError.
func (s *Server) IncPlanFailed() {
	s.plansFailed.Add(1)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	if !s.ready.Load() {
		http.Error(w, "not ready", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// handleMetrics writes Prometheus text-exposition-format counters
// directly; three counters don't justify pulling in a metrics client
// library.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	fmt.Fprint(w, "# HELP hosplanner_plans_requested_total Total plan requests accepted.\n")
	fmt.Fprint(w, "# TYPE hosplanner_plans_requested_total counter\n")
	fmt.Fprintf(w, "hosplanner_plans_requested_total %d\n", s.plansRequested.Load())
	fmt.Fprint(w, "# HELP hosplanner_plans_succeeded_total Total plans computed without error.\n")
	fmt.Fprint(w, "# TYPE hosplanner_plans_succeeded_total counter\n")
	fmt.Fprintf(w, "hosplanner_plans_succeeded_total %d\n", s.plansSucceeded.Load())
	fmt.Fprint(w, "# HELP hosplanner_plans_failed_total Total plans that returned a PlanError.\n")
	fmt.Fprint(w, "# TYPE hosplanner_plans_failed_total counter\n")
	fmt.Fprintf(w, "hosplanner_plans_failed_total %d\n", s.plansFailed.Load())
}
