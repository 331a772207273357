package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/osamamer/trucking-partner/internal/domain"
	"github.com/osamamer/trucking-partner/internal/hosrules"
	"github.com/osamamer/trucking-partner/internal/mapprovider"
	"github.com/osamamer/trucking-partner/internal/plannererrors"
	"github.com/osamamer/trucking-partner/internal/platform/kafka"
)

type mockRepo struct {
	saved      map[uuid.UUID]domain.PlanResult
	infeasible map[uuid.UUID]*plannererrors.AppError
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		saved:      make(map[uuid.UUID]domain.PlanResult),
		infeasible: make(map[uuid.UUID]*plannererrors.AppError),
	}
}

func (m *mockRepo) SavePlan(ctx context.Context, tripID uuid.UUID, input domain.TripInput, result domain.PlanResult) error {
	m.saved[tripID] = result
	return nil
}

func (m *mockRepo) SaveInfeasible(ctx context.Context, tripID uuid.UUID, input domain.TripInput, planErr *plannererrors.AppError) error {
	m.infeasible[tripID] = planErr
	return nil
}

type mockPublisher struct {
	events []struct {
		topic string
		event *kafka.Event
	}
}

func (m *mockPublisher) Publish(ctx context.Context, topic string, event *kafka.Event) error {
	m.events = append(m.events, struct {
		topic string
		event *kafka.Event
	}{topic, event})
	return nil
}

func setup(t *testing.T) (domain.Location, domain.Location, domain.Location, *mapprovider.Fake) {
	t.Helper()
	current := domain.Location{Address: "Chicago, IL", Lat: 41.8781, Lng: -87.6298}
	pickup := domain.Location{Address: "Indianapolis, IN", Lat: 39.7684, Lng: -86.1581}
	dropoff := domain.Location{Address: "Columbus, OH", Lat: 39.9612, Lng: -82.9988}

	f := mapprovider.NewFake()
	f.RegisterRoute([]mapprovider.Location{
		{Address: current.Address, Lat: current.Lat, Lng: current.Lng},
		{Address: pickup.Address, Lat: pickup.Lat, Lng: pickup.Lng},
		{Address: dropoff.Address, Lat: dropoff.Lat, Lng: dropoff.Lng},
	}, mapprovider.Route{
		DistanceMiles: 300,
		DurationHours: 300.0 / 55,
		Legs: []mapprovider.Leg{
			{DistanceMiles: 100, DurationHours: 100.0 / 55},
			{DistanceMiles: 200, DurationHours: 200.0 / 55},
		},
		Geometry: [][2]float64{{pickup.Lng, pickup.Lat}, {dropoff.Lng, dropoff.Lat}},
	})
	f.RegisterRoute([]mapprovider.Location{
		{Address: pickup.Address, Lat: pickup.Lat, Lng: pickup.Lng},
		{Address: dropoff.Address, Lat: dropoff.Lat, Lng: dropoff.Lng},
	}, mapprovider.Route{
		DistanceMiles: 200,
		DurationHours: 200.0 / 55,
		Geometry:      [][2]float64{{pickup.Lng, pickup.Lat}, {dropoff.Lng, dropoff.Lat}},
	})

	return current, pickup, dropoff, f
}

func TestPlanServiceEndToEndSuccess(t *testing.T) {
	current, pickup, dropoff, f := setup(t)
	repo := newMockRepo()
	pub := &mockPublisher{}
	svc := New(f, repo, pub, hosrules.Default(), nil)

	input := domain.TripInput{
		Current: current, Pickup: pickup, Dropoff: dropoff,
		CycleHoursUsed: 0,
		PlannedStart:   time.Date(2026, 1, 5, 6, 0, 0, 0, time.UTC),
	}
	tripID := uuid.New()

	result, err := svc.Plan(context.Background(), tripID, input)
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if result.DaysRequired == 0 {
		t.Error("expected at least one day in the plan")
	}
	if _, ok := repo.saved[tripID]; !ok {
		t.Error("expected the plan to be persisted")
	}
	if len(pub.events) != 1 || pub.events[0].topic != kafka.Topics.PlanCompleted {
		t.Errorf("expected one PlanCompleted event, got %+v", pub.events)
	}
}

func TestPlanServiceInfeasiblePersistsAndPublishesFailure(t *testing.T) {
	current, pickup, dropoff, f := setup(t)
	repo := newMockRepo()
	pub := &mockPublisher{}
	svc := New(f, repo, pub, hosrules.Default(), nil)

	input := domain.TripInput{
		Current: current, Pickup: pickup, Dropoff: dropoff,
		CycleHoursUsed: 69, // route needs 300/55 ~= 5.45h, only 1h available
		PlannedStart:   time.Date(2026, 1, 5, 6, 0, 0, 0, time.UTC),
	}
	tripID := uuid.New()

	_, err := svc.Plan(context.Background(), tripID, input)
	if err == nil {
		t.Fatal("expected an infeasibility error")
	}
	if _, ok := repo.infeasible[tripID]; !ok {
		t.Error("expected the infeasible outcome to be persisted")
	}
	if len(pub.events) != 1 || pub.events[0].topic != kafka.Topics.PlanFailed {
		t.Errorf("expected one PlanFailed event, got %+v", pub.events)
	}
	if _, ok := repo.saved[tripID]; ok {
		t.Error("an infeasible trip must not have a successful plan persisted")
	}
}

func TestPlanServiceLongHaulMultiDay(t *testing.T) {
	current := domain.Location{Address: "Chicago, IL", Lat: 41.8781, Lng: -87.6298}
	pickup := domain.Location{Address: "Indianapolis, IN", Lat: 39.7684, Lng: -86.1581}
	dropoff := domain.Location{Address: "Los Angeles, CA", Lat: 34.0522, Lng: -118.2437}

	f := mapprovider.NewFake()
	f.RegisterRoute([]mapprovider.Location{
		{Address: current.Address, Lat: current.Lat, Lng: current.Lng},
		{Address: pickup.Address, Lat: pickup.Lat, Lng: pickup.Lng},
		{Address: dropoff.Address, Lat: dropoff.Lat, Lng: dropoff.Lng},
	}, mapprovider.Route{
		DistanceMiles: 2585,
		DurationHours: 47,
		Legs: []mapprovider.Leg{
			{DistanceMiles: 110, DurationHours: 2},
			{DistanceMiles: 2475, DurationHours: 45},
		},
		Geometry: [][2]float64{{pickup.Lng, pickup.Lat}, {dropoff.Lng, dropoff.Lat}},
	})
	f.RegisterRoute([]mapprovider.Location{
		{Address: pickup.Address, Lat: pickup.Lat, Lng: pickup.Lng},
		{Address: dropoff.Address, Lat: dropoff.Lat, Lng: dropoff.Lng},
	}, mapprovider.Route{
		DistanceMiles: 2475,
		DurationHours: 45,
		Geometry:      [][2]float64{{pickup.Lng, pickup.Lat}, {dropoff.Lng, dropoff.Lat}},
	})

	svc := New(f, nil, nil, hosrules.Default(), nil)
	input := domain.TripInput{
		Current: current, Pickup: pickup, Dropoff: dropoff,
		CycleHoursUsed: 0,
		PlannedStart:   time.Date(2026, 1, 5, 6, 0, 0, 0, time.UTC),
	}

	result, err := svc.Plan(context.Background(), uuid.New(), input)
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}

	if result.DaysRequired < 4 {
		t.Errorf("DaysRequired = %d, want >= 4 for a 2585-mile trip", result.DaysRequired)
	}

	var resets, fuels int
	for _, s := range result.Stops {
		switch s.Type {
		case domain.StopBreak10Hr:
			resets++
		case domain.StopFuel:
			fuels++
		}
	}
	if resets < 2 {
		t.Errorf("got %d BREAK_10HR stops, want >= 2", resets)
	}
	if fuels < 2 {
		t.Errorf("got %d FUEL stops, want >= 2", fuels)
	}

	var totalDriving, totalMiles float64
	for _, day := range result.DailyLogs {
		sum := day.Totals.Driving + day.Totals.OnDutyNotDriving + day.Totals.OffDuty + day.Totals.Sleeper
		if sum < 23.98 || sum > 24.02 {
			t.Errorf("day %d totals sum to %.4f, want 24.00 +/- 0.02", day.DayNumber, sum)
		}
		totalDriving += day.Totals.Driving
		totalMiles += day.Miles
	}

	var wantDriving float64
	for _, iv := range domain.DriveIntervals(result.Stops) {
		wantDriving += iv.DurationHours()
	}
	if diff := totalDriving - wantDriving; diff < -0.05 || diff > 0.05 {
		t.Errorf("sum of daily driving totals = %.4f, planner total = %.4f", totalDriving, wantDriving)
	}

	wantMiles := result.Stops[len(result.Stops)-1].CumulativeMiles
	if diff := totalMiles - wantMiles; diff < -0.05 || diff > 0.05 {
		t.Errorf("sum of daily miles = %.4f, cumulative miles = %.4f", totalMiles, wantMiles)
	}
}

func TestDriveKeyMapsMatchesDriveIntervals(t *testing.T) {
	base := time.Date(2026, 1, 5, 6, 0, 0, 0, time.UTC)
	stops := []domain.Stop{
		{Sequence: 0, Departure: base, CumulativeMiles: 0},
		{Sequence: 1, Arrival: base.Add(2 * time.Hour), CumulativeMiles: 100},
	}

	dur, miles := driveKeyMaps(stops)
	key := [2]int{0, 1}
	if dur[key] != 2 {
		t.Errorf("duration map = %v, want 2", dur[key])
	}
	if miles[key] != 100 {
		t.Errorf("miles map = %v, want 100", miles[key])
	}
}
