// Package httpapi exposes the plan() operation over HTTP/JSON using a
// plain net/http.ServeMux. Liveness, readiness, and metrics live in the
// separate internal/transport/health mux.
package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/osamamer/trucking-partner/internal/domain"
	"github.com/osamamer/trucking-partner/internal/plannererrors"
	"github.com/osamamer/trucking-partner/internal/platform/logger"
	"github.com/osamamer/trucking-partner/internal/service"
	"github.com/osamamer/trucking-partner/internal/transport/health"
)

// planRequest is the wire shape of a POST /v1/plans body.
type planRequest struct {
	Current        domain.Location `json:"current"`
	Pickup         domain.Location `json:"pickup"`
	Dropoff        domain.Location `json:"dropoff"`
	CycleHoursUsed float64         `json:"cycleHoursUsed"`
	PlannedStart   time.Time       `json:"plannedStart"`
}

// Server wraps the plan service in an HTTP handler tree.
type Server struct {
	mux     *http.ServeMux
	svc     *service.PlanService
	log     *logger.Logger
	metrics *health.Server
}

// NewServer builds the HTTP surface for plan submission. metrics may be
// nil, in which case no request counters are recorded.
func NewServer(svc *service.PlanService, log *logger.Logger, metrics *health.Server) *Server {
	s := &Server{mux: http.NewServeMux(), svc: svc, log: log, metrics: metrics}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("/v1/plans", s.handlePlan)
}

// ServeHTTP makes Server an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req planRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, plannererrors.InvalidInput("malformed request body: "+err.Error()))
		return
	}

	if req.PlannedStart.Before(time.Now()) {
		writeError(w, plannererrors.InvalidInput("plannedStart is in the past"))
		return
	}

	if s.metrics != nil {
		s.metrics.IncPlanRequested()
	}

	input := domain.TripInput{
		Current:        req.Current,
		Pickup:         req.Pickup,
		Dropoff:        req.Dropoff,
		CycleHoursUsed: req.CycleHoursUsed,
		PlannedStart:   req.PlannedStart,
	}

	tripID := uuid.New()
	result, err := s.svc.Plan(r.Context(), tripID, input)
	if err != nil {
		if s.metrics != nil {
			s.metrics.IncPlanFailed()
		}
		writeError(w, err)
		return
	}

	if s.metrics != nil {
		s.metrics.IncPlanSucceeded()
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"tripId": tripID,
		"plan":   result,
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, err error) {
	appErr, ok := err.(*plannererrors.AppError)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	status := http.StatusInternalServerError
	switch appErr.Code {
	case plannererrors.CodeInvalidInput:
		status = http.StatusBadRequest
	case plannererrors.CodeInfeasibleCycle:
		status = http.StatusUnprocessableEntity
	case plannererrors.CodeMapError:
		status = http.StatusBadGateway
	case plannererrors.CodeTimelineError:
		status = http.StatusInternalServerError
	}

	writeJSON(w, status, map[string]interface{}{
		"code":    appErr.Code,
		"message": appErr.Message,
		"details": appErr.Details,
	})
}
