// Package planner implements the driving-with-breaks state machine: the
// core simulation that interleaves driving with mandatory 30-minute
// breaks, 10-hour resets, and fuel stops to produce an ordered Stop
// list for a trip.
package planner

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/osamamer/trucking-partner/internal/domain"
	"github.com/osamamer/trucking-partner/internal/hosrules"
	"github.com/osamamer/trucking-partner/internal/mapprovider"
	"github.com/osamamer/trucking-partner/internal/plannererrors"
)

// epsilon absorbs floating-point drift in the driving-distance
// bookkeeping; it must never be large enough to mask a genuine
// remaining distance.
const epsilon = 1e-6

// Result is the Planner's output: the ordered stop list plus the route
// figures the caller needs to assemble a RouteSummary.
type Result struct {
	Stops              []domain.Stop
	TotalDistanceMiles float64
	TotalDurationHours float64
	Geometry           [][2]float64
}

// Planner runs the HOS simulation for one trip against an injected
// MapProvider and a fixed rules table.
type Planner struct {
	provider mapprovider.Provider
	rules    *hosrules.Rules
}

// New builds a Planner. A nil rules pointer uses hosrules.Default().
func New(provider mapprovider.Provider, rules *hosrules.Rules) *Planner {
	if rules == nil {
		rules = hosrules.Default()
	}
	return &Planner{provider: provider, rules: rules}
}

// state is the simulation's mutable record, threaded explicitly through
// the step helpers rather than held as ambient fields on a long-lived
// object.
type state struct {
	now        time.Time
	cumMiles   float64
	dayDriving float64
	dayOnDuty  float64
	sinceBreak float64
	sinceFuel  float64
	stops      []domain.Stop
	seq        int
}

func (s *state) emit(stype domain.StopType, loc domain.Location, durationMinutes int, description string) domain.Stop {
	arrival := s.now
	departure := arrival.Add(time.Duration(durationMinutes) * time.Minute)

	var milesFromPrevious float64
	if len(s.stops) > 0 {
		milesFromPrevious = s.cumMiles - s.stops[len(s.stops)-1].CumulativeMiles
	}

	stop := domain.Stop{
		Sequence:          s.seq,
		Type:              stype,
		Location:          loc,
		Arrival:           arrival,
		Departure:         departure,
		DurationMinutes:   durationMinutes,
		Description:       description,
		CumulativeMiles:   s.cumMiles,
		MilesFromPrevious: milesFromPrevious,
	}
	s.seq++
	s.stops = append(s.stops, stop)
	s.now = departure
	return stop
}

// Plan runs the feasibility gate and, if it passes, the full simulation.
func (p *Planner) Plan(ctx context.Context, input domain.TripInput) (Result, error) {
	if err := input.Validate(); err != nil {
		return Result{}, plannererrors.InvalidInput(err.Error())
	}

	baseRoute, err := p.provider.Route(ctx, []mapprovider.Location{
		toProviderLocation(input.Current),
		toProviderLocation(input.Pickup),
		toProviderLocation(input.Dropoff),
	})
	if err != nil {
		return Result{}, plannererrors.MapError("route(current,pickup,dropoff)", err)
	}
	if len(baseRoute.Legs) != 2 {
		return Result{}, plannererrors.MapError("route(current,pickup,dropoff)", errInvalidLegCount(len(baseRoute.Legs)))
	}

	available := p.rules.Cycle.MaxCycleHours - input.CycleHoursUsed
	if available < baseRoute.DurationHours {
		return Result{}, plannererrors.InfeasibleCycle(baseRoute.DurationHours, available)
	}

	leg0 := baseRoute.Legs[0]
	leg1 := baseRoute.Legs[1]

	// leg1's own route is fetched separately so pointAlong has a
	// polyline scoped to exactly the pickup-to-dropoff leg; the combined
	// route's single geometry field has no per-leg boundary markers.
	leg1Route, err := p.provider.Route(ctx, []mapprovider.Location{
		toProviderLocation(input.Pickup),
		toProviderLocation(input.Dropoff),
	})
	if err != nil {
		return Result{}, plannererrors.MapError("route(pickup,dropoff)", err)
	}

	st := &state{now: input.PlannedStart}

	st.emit(domain.StopCurrent, input.Current, 0, "Trip start")

	// Drive leg0 as a single, uninterrupted interval.
	st.cumMiles += leg0.DistanceMiles
	st.dayDriving += leg0.DurationHours
	st.dayOnDuty += leg0.DurationHours
	st.sinceBreak += leg0.DurationHours
	st.sinceFuel += leg0.DistanceMiles
	st.now = st.now.Add(durationFromHours(leg0.DurationHours))

	st.emit(domain.StopPickup, input.Pickup, p.rules.Stops.PickupMinutes, "Pickup")
	st.dayOnDuty += float64(p.rules.Stops.PickupMinutes) / 60.0

	if err := p.traverseLeg1(ctx, st, leg1, leg1Route); err != nil {
		return Result{}, err
	}

	st.emit(domain.StopDropoff, input.Dropoff, p.rules.Stops.DropoffMinutes, "Dropoff")
	st.dayOnDuty += float64(p.rules.Stops.DropoffMinutes) / 60.0

	return Result{
		Stops:              st.stops,
		TotalDistanceMiles: baseRoute.DistanceMiles,
		TotalDurationHours: baseRoute.DurationHours,
		Geometry:           baseRoute.Geometry,
	}, nil
}

// traverseLeg1 runs the inner simulation loop over the pickup-to-dropoff
// leg, inserting BREAK_30MIN, BREAK_10HR, and FUEL stops in strict
// priority order until the leg's distance is exhausted.
func (p *Planner) traverseLeg1(ctx context.Context, st *state, leg1 mapprovider.Leg, leg1Route mapprovider.Route) error {
	remaining := leg1.DistanceMiles
	progress := 0.0

	for remaining > epsilon {
		switch {
		case st.sinceBreak >= p.rules.Driving.DrivingHoursBeforeBreak:
			loc, err := p.insertPOIStop(ctx, st, leg1Route, progress, leg1.DistanceMiles, mapprovider.POIRest)
			if err != nil {
				return err
			}
			st.emit(domain.StopBreak30Min, loc, p.rules.Stops.Break30MinMinutes, "30-minute break")
			st.sinceBreak = 0

		case st.dayDriving >= p.rules.Driving.MaxDrivingHoursPerDay || st.dayOnDuty >= p.rules.Driving.MaxOnDutyHoursPerDay:
			loc, err := p.insertPOIStop(ctx, st, leg1Route, progress, leg1.DistanceMiles, mapprovider.POILodging)
			if err != nil {
				return err
			}
			st.emit(domain.StopBreak10Hr, loc, p.rules.Stops.Break10HrMinutes, "10-hour reset")
			st.dayDriving = 0
			st.dayOnDuty = 0
			st.sinceBreak = 0

		case st.sinceFuel >= p.rules.Route.FuelIntervalMiles:
			loc, err := p.insertPOIStop(ctx, st, leg1Route, progress, leg1.DistanceMiles, mapprovider.POIFuel)
			if err != nil {
				return err
			}
			st.emit(domain.StopFuel, loc, p.rules.Stops.FuelStopMinutes, "Fuel stop")
			st.dayOnDuty += float64(p.rules.Stops.FuelStopMinutes) / 60.0
			st.sinceFuel = 0

		default:
			hDrv := math.Min(
				p.rules.Driving.DrivingHoursBeforeBreak-st.sinceBreak,
				math.Min(
					p.rules.Driving.MaxDrivingHoursPerDay-st.dayDriving,
					p.rules.Driving.MaxOnDutyHoursPerDay-st.dayOnDuty,
				),
			)
			milesDrv := math.Min(hDrv*p.rules.Route.AverageSpeedMPH,
				math.Min(p.rules.Route.FuelIntervalMiles-st.sinceFuel, remaining))
			if milesDrv < 0 {
				milesDrv = 0
			}
			hActual := milesDrv / p.rules.Route.AverageSpeedMPH

			st.now = st.now.Add(durationFromHours(hActual))
			st.cumMiles += milesDrv
			st.dayDriving += hActual
			st.dayOnDuty += hActual
			st.sinceBreak += hActual
			st.sinceFuel += milesDrv

			remaining -= milesDrv
			progress += milesDrv
			if remaining < 0 {
				remaining = 0
			}
		}
	}

	return nil
}

func (p *Planner) insertPOIStop(ctx context.Context, st *state, leg1Route mapprovider.Route, progress, totalLegMiles float64, kind mapprovider.POIKind) (domain.Location, error) {
	lat, lng := p.provider.PointAlong(leg1Route.Geometry, progress, totalLegMiles)
	loc, err := p.provider.FindNearestPOI(ctx, lat, lng, kind)
	if err != nil {
		// FindNearestPOI is documented to always return a value; a
		// non-nil error here means the provider implementation broke
		// that contract, which is itself a MapError.
		return domain.Location{}, plannererrors.MapError("findNearestPOI", err)
	}
	return fromProviderLocation(loc), nil
}

func toProviderLocation(l domain.Location) mapprovider.Location {
	return mapprovider.Location{Address: l.Address, Lat: l.Lat, Lng: l.Lng}
}

func fromProviderLocation(l mapprovider.Location) domain.Location {
	return domain.Location{Address: l.Address, Lat: l.Lat, Lng: l.Lng}
}

func durationFromHours(h float64) time.Duration {
	return time.Duration(h * float64(time.Hour))
}

type errInvalidLegCount int

func (e errInvalidLegCount) Error() string {
	return fmt.Sprintf("expected 2 legs from route(current,pickup,dropoff), got %d", int(e))
}
