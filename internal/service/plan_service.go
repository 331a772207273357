// Package service orchestrates the Planner, Day Projector, and
// Duty-Timeline Builder into the single plan operation exposed to
// callers, then hands the result to the persistence boundary and
// publishes a completion event.
package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/osamamer/trucking-partner/internal/dayprojector"
	"github.com/osamamer/trucking-partner/internal/domain"
	"github.com/osamamer/trucking-partner/internal/dutytimeline"
	"github.com/osamamer/trucking-partner/internal/hosrules"
	"github.com/osamamer/trucking-partner/internal/mapprovider"
	"github.com/osamamer/trucking-partner/internal/planner"
	"github.com/osamamer/trucking-partner/internal/plannererrors"
	"github.com/osamamer/trucking-partner/internal/platform/kafka"
	"github.com/osamamer/trucking-partner/internal/platform/logger"
)

// PlanRepository is the persistence boundary the core hands its
// completed output to. Implementations MUST store Route/Stops/
// DailyLogs/DutySegments atomically: all or none.
type PlanRepository interface {
	SavePlan(ctx context.Context, tripID uuid.UUID, input domain.TripInput, result domain.PlanResult) error
	SaveInfeasible(ctx context.Context, tripID uuid.UUID, input domain.TripInput, planErr *plannererrors.AppError) error
}

// EventPublisher is the subset of kafka.Producer the service depends
// on, narrowed to an interface so tests can substitute a no-op.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, event *kafka.Event) error
}

// PlanService wires the planner, day projector, and timeline builder
// together behind the single Plan entrypoint the transport layer calls.
type PlanService struct {
	planner   *planner.Planner
	repo      PlanRepository
	publisher EventPublisher
	rules     *hosrules.Rules
	log       *logger.Logger
}

// New builds a PlanService. A nil publisher disables eventing; a nil
// repo disables persistence (useful for pure computation / tests).
func New(provider mapprovider.Provider, repo PlanRepository, publisher EventPublisher, rules *hosrules.Rules, log *logger.Logger) *PlanService {
	if rules == nil {
		rules = hosrules.Default()
	}
	return &PlanService{
		planner:   planner.New(provider, rules),
		repo:      repo,
		publisher: publisher,
		rules:     rules,
		log:       log,
	}
}

// Plan runs plan(TripInput) end to end: simulate, project onto
// calendar days, build the duty timeline, persist atomically, and
// publish a completion event. On any error no partial output is
// persisted or returned.
func (s *PlanService) Plan(ctx context.Context, tripID uuid.UUID, input domain.TripInput) (domain.PlanResult, error) {
	log := s.tripLogger(tripID)

	planResult, err := s.planner.Plan(ctx, input)
	if err != nil {
		s.handleFailure(ctx, tripID, log, input, err)
		return domain.PlanResult{}, err
	}

	days := dayprojector.Project(planResult.Stops, input.Timezone())

	durByKey, milesByKey := driveKeyMaps(planResult.Stops)
	dailyLogs, err := dutytimeline.Build(days, durByKey, milesByKey)
	if err != nil {
		// TimelineError: an internal invariant violation, never
		// swallowed.
		s.handleFailure(ctx, tripID, log, input, err)
		return domain.PlanResult{}, err
	}

	route := assembleRouteSummary(planResult, dailyLogs, s.rules, input.CycleHoursUsed)
	result := domain.PlanResult{
		Route:        route,
		Stops:        planResult.Stops,
		DailyLogs:    dailyLogs,
		DaysRequired: len(dailyLogs),
	}

	if s.repo != nil {
		if err := s.repo.SavePlan(ctx, tripID, input, result); err != nil {
			return domain.PlanResult{}, err
		}
	}

	if log != nil {
		log.Infow("plan completed", "days_required", result.DaysRequired, "compliance_status", result.Route.ComplianceStatus)
	}

	s.publish(ctx, kafka.Topics.PlanCompleted, tripID, log, result)
	return result, nil
}

// tripLogger returns a logger tagged with tripID, or nil if the service
// was built without one.
func (s *PlanService) tripLogger(tripID uuid.UUID) *logger.Logger {
	if s.log == nil {
		return nil
	}
	return s.log.WithTripID(tripID.String())
}

func (s *PlanService) handleFailure(ctx context.Context, tripID uuid.UUID, log *logger.Logger, input domain.TripInput, err error) {
	appErr, ok := err.(*plannererrors.AppError)
	if !ok {
		return
	}
	if s.repo != nil && appErr.Code == plannererrors.CodeInfeasibleCycle {
		if saveErr := s.repo.SaveInfeasible(ctx, tripID, input, appErr); saveErr != nil && log != nil {
			log.Errorw("failed to save infeasible trip outcome", "error", saveErr)
		}
	}
	if log != nil {
		log.Warnw("plan failed", "code", appErr.Code, "error", appErr.Error())
	}
	s.publishFailure(ctx, tripID, log, appErr)
}

func (s *PlanService) publish(ctx context.Context, topic string, tripID uuid.UUID, log *logger.Logger, result domain.PlanResult) {
	if s.publisher == nil {
		return
	}
	evt := kafka.NewEvent(topic, "hosplanner", map[string]interface{}{
		"trip_id":           tripID.String(),
		"days_required":     result.DaysRequired,
		"compliance_status": result.Route.ComplianceStatus,
	})
	if err := s.publisher.Publish(ctx, topic, evt); err != nil && log != nil {
		log.Errorw("failed to publish plan event", "topic", topic, "error", err)
	}
}

func (s *PlanService) publishFailure(ctx context.Context, tripID uuid.UUID, log *logger.Logger, appErr *plannererrors.AppError) {
	if s.publisher == nil {
		return
	}
	evt := kafka.NewEvent(kafka.Topics.PlanFailed, "hosplanner", map[string]interface{}{
		"trip_id": tripID.String(),
		"code":    appErr.Code,
		"message": appErr.Message,
	})
	if err := s.publisher.Publish(ctx, kafka.Topics.PlanFailed, evt); err != nil && log != nil {
		log.Errorw("failed to publish plan-failed event", "error", err)
	}
}

// driveKeyMaps builds the (fromSeq,toSeq) -> duration/miles lookups the
// Duty-Timeline Builder needs for proportional mileage attribution.
func driveKeyMaps(stops []domain.Stop) (map[[2]int]float64, map[[2]int]float64) {
	intervals := domain.DriveIntervals(stops)
	dur := make(map[[2]int]float64, len(intervals))
	miles := make(map[[2]int]float64, len(intervals))
	for _, iv := range intervals {
		key := [2]int{iv.From.Sequence, iv.To.Sequence}
		dur[key] = iv.DurationHours()
		miles[key] = iv.Miles
	}
	return dur, miles
}
