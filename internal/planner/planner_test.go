package planner

import (
	"context"
	"testing"
	"time"

	"github.com/osamamer/trucking-partner/internal/domain"
	"github.com/osamamer/trucking-partner/internal/hosrules"
	"github.com/osamamer/trucking-partner/internal/mapprovider"
	"github.com/osamamer/trucking-partner/internal/plannererrors"
)

func testLocations() (domain.Location, domain.Location, domain.Location) {
	current := domain.Location{Address: "Chicago, IL", Lat: 41.8781, Lng: -87.6298}
	pickup := domain.Location{Address: "Indianapolis, IN", Lat: 39.7684, Lng: -86.1581}
	dropoff := domain.Location{Address: "Columbus, OH", Lat: 39.9612, Lng: -82.9988}
	return current, pickup, dropoff
}

func toMPLocs(locs ...domain.Location) []mapprovider.Location {
	out := make([]mapprovider.Location, len(locs))
	for i, l := range locs {
		out[i] = mapprovider.Location{Address: l.Address, Lat: l.Lat, Lng: l.Lng}
	}
	return out
}

// registerRoute wires a fake's full 3-waypoint route and its
// leg-scoped pickup->dropoff route, matching the two calls the Planner
// makes.
func registerRoute(f *mapprovider.Fake, current, pickup, dropoff domain.Location, leg0, leg1 mapprovider.Leg, geometry [][2]float64) {
	f.RegisterRoute(toMPLocs(current, pickup, dropoff), mapprovider.Route{
		DistanceMiles: leg0.DistanceMiles + leg1.DistanceMiles,
		DurationHours: leg0.DurationHours + leg1.DurationHours,
		Legs:          []mapprovider.Leg{leg0, leg1},
		Geometry:      geometry,
	})
	f.RegisterRoute(toMPLocs(pickup, dropoff), mapprovider.Route{
		DistanceMiles: leg1.DistanceMiles,
		DurationHours: leg1.DurationHours,
		Geometry:      geometry,
	})
}

func TestPlanShortTripNoStops(t *testing.T) {
	current, pickup, dropoff := testLocations()
	f := mapprovider.NewFake()
	registerRoute(f, current, pickup, dropoff,
		mapprovider.Leg{DistanceMiles: 100, DurationHours: 100.0 / 55},
		mapprovider.Leg{DistanceMiles: 200, DurationHours: 200.0 / 55},
		[][2]float64{{pickup.Lng, pickup.Lat}, {dropoff.Lng, dropoff.Lat}},
	)

	p := New(f, hosrules.Default())
	input := domain.TripInput{
		Current: current, Pickup: pickup, Dropoff: dropoff,
		CycleHoursUsed: 0,
		PlannedStart:   time.Date(2026, 1, 5, 6, 0, 0, 0, time.UTC),
	}

	result, err := p.Plan(context.Background(), input)
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}

	wantTypes := []domain.StopType{domain.StopCurrent, domain.StopPickup, domain.StopDropoff}
	if len(result.Stops) != len(wantTypes) {
		t.Fatalf("got %d stops, want %d: %+v", len(result.Stops), len(wantTypes), result.Stops)
	}
	for i, want := range wantTypes {
		if result.Stops[i].Type != want {
			t.Errorf("stop[%d].Type = %v, want %v", i, result.Stops[i].Type, want)
		}
	}
}

func TestPlanInsertsBreakAfterEightHoursDriving(t *testing.T) {
	current, pickup, dropoff := testLocations()
	f := mapprovider.NewFake()
	// leg1 alone requires ~9.09h of driving, past the 8h break threshold
	// but short of the 11h/14h reset thresholds.
	registerRoute(f, current, pickup, dropoff,
		mapprovider.Leg{DistanceMiles: 50, DurationHours: 50.0 / 55},
		mapprovider.Leg{DistanceMiles: 500, DurationHours: 500.0 / 55},
		[][2]float64{{pickup.Lng, pickup.Lat}, {dropoff.Lng, dropoff.Lat}},
	)

	p := New(f, hosrules.Default())
	input := domain.TripInput{
		Current: current, Pickup: pickup, Dropoff: dropoff,
		CycleHoursUsed: 0,
		PlannedStart:   time.Date(2026, 1, 5, 6, 0, 0, 0, time.UTC),
	}

	result, err := p.Plan(context.Background(), input)
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}

	var sawBreak bool
	for _, s := range result.Stops {
		if s.Type == domain.StopBreak30Min {
			sawBreak = true
		}
	}
	if !sawBreak {
		t.Errorf("expected a BREAK_30MIN stop, got stops: %+v", result.Stops)
	}
}

func TestPlanInfeasibleCycle(t *testing.T) {
	current, pickup, dropoff := testLocations()
	f := mapprovider.NewFake()
	registerRoute(f, current, pickup, dropoff,
		mapprovider.Leg{DistanceMiles: 100, DurationHours: 5},
		mapprovider.Leg{DistanceMiles: 200, DurationHours: 5},
		[][2]float64{{pickup.Lng, pickup.Lat}, {dropoff.Lng, dropoff.Lat}},
	)

	p := New(f, hosrules.Default())
	input := domain.TripInput{
		Current: current, Pickup: pickup, Dropoff: dropoff,
		CycleHoursUsed: 68, // only 2 hours available, route needs 10
		PlannedStart:   time.Date(2026, 1, 5, 6, 0, 0, 0, time.UTC),
	}

	_, err := p.Plan(context.Background(), input)
	appErr, ok := err.(*plannererrors.AppError)
	if !ok {
		t.Fatalf("expected *AppError, got %T (%v)", err, err)
	}
	if appErr.Code != plannererrors.CodeInfeasibleCycle {
		t.Errorf("Code = %v, want %v", appErr.Code, plannererrors.CodeInfeasibleCycle)
	}
	if appErr.Details["needed"] != 10.0 || appErr.Details["available"] != 2.0 {
		t.Errorf("unexpected details: %+v", appErr.Details)
	}
}

func TestPlanInvalidInput(t *testing.T) {
	current, pickup, _ := testLocations()
	p := New(mapprovider.NewFake(), hosrules.Default())

	badInput := domain.TripInput{
		Current:      current,
		Pickup:       pickup,
		Dropoff:      pickup,
		PlannedStart: time.Now(),
	}

	_, err := p.Plan(context.Background(), badInput)
	appErr, ok := err.(*plannererrors.AppError)
	if !ok {
		t.Fatalf("expected *AppError, got %T (%v)", err, err)
	}
	if appErr.Code != plannererrors.CodeInvalidInput {
		t.Errorf("Code = %v, want %v", appErr.Code, plannererrors.CodeInvalidInput)
	}
}

func TestPlanStopsAreSequential(t *testing.T) {
	current, pickup, dropoff := testLocations()
	f := mapprovider.NewFake()
	registerRoute(f, current, pickup, dropoff,
		mapprovider.Leg{DistanceMiles: 50, DurationHours: 50.0 / 55},
		mapprovider.Leg{DistanceMiles: 1200, DurationHours: 1200.0 / 55},
		[][2]float64{{pickup.Lng, pickup.Lat}, {dropoff.Lng, dropoff.Lat}},
	)

	p := New(f, hosrules.Default())
	input := domain.TripInput{
		Current: current, Pickup: pickup, Dropoff: dropoff,
		CycleHoursUsed: 0,
		PlannedStart:   time.Date(2026, 1, 5, 6, 0, 0, 0, time.UTC),
	}

	result, err := p.Plan(context.Background(), input)
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}

	for i, s := range result.Stops {
		if s.Sequence != i {
			t.Errorf("stop[%d].Sequence = %d, want %d", i, s.Sequence, i)
		}
		if i > 0 && s.Arrival.Before(result.Stops[i-1].Departure) {
			t.Errorf("stop[%d] arrives before stop[%d] departs", i, i-1)
		}
	}

	var sawFuel, sawReset bool
	for _, s := range result.Stops {
		switch s.Type {
		case domain.StopFuel:
			sawFuel = true
		case domain.StopBreak10Hr:
			sawReset = true
		}
	}
	if !sawFuel {
		t.Error("expected a FUEL stop over a 1200-mile leg")
	}
	if !sawReset {
		t.Error("expected a BREAK_10HR stop over a 1200-mile leg")
	}
}
