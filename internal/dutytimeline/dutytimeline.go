// Package dutytimeline builds, for each local calendar date, a
// gap-free, non-overlapping sequence of duty-status segments spanning
// exactly 24 hours, plus the per-day totals and mileage attribution.
package dutytimeline

import (
	"sort"
	"time"

	"github.com/osamamer/trucking-partner/internal/dayprojector"
	"github.com/osamamer/trucking-partner/internal/domain"
	"github.com/osamamer/trucking-partner/internal/plannererrors"
)

// event is one entry in the day's tagged, sorted event stream.
type event struct {
	kind  eventKind
	start time.Time
	end   time.Time
	stop  *domain.Stop             // set when kind == eventStop
	drive *dayprojector.DriveSlice // set when kind == eventDrive
}

type eventKind int

const (
	eventStop eventKind = iota
	eventDrive
)

// lastLocation tracks the carry-forward address used for gap-filling
// OFF_DUTY segments across the whole build (not just within one day):
// the first such segment on the very first day falls back to the first
// event's start location, and every subsequent gap carries forward from
// whatever segment preceded it.
type builder struct {
	lastLocation string
}

// Build runs the Duty-Timeline Builder over every DayEvents produced by
// the Day Projector, in date order, assigning dayNumber = 1, 2, ....
// globalDriveDurationHours maps a drive interval (identified by its
// From/To stop sequence pair) to its full, un-sliced duration, which is
// required for the proportional mileage attribution formula.
func Build(days []dayprojector.DayEvents, globalDriveDurationHours map[[2]int]float64, globalDriveDistanceMiles map[[2]int]float64) ([]domain.DailyLog, error) {
	b := &builder{}
	logs := make([]domain.DailyLog, 0, len(days))

	for i, day := range days {
		log, err := b.buildDay(day, i+1, globalDriveDurationHours, globalDriveDistanceMiles)
		if err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}
	return logs, nil
}

func (b *builder) buildDay(day dayprojector.DayEvents, dayNumber int, durByKey, milesByKey map[[2]int]float64) (domain.DailyLog, error) {
	dayStart := day.Date
	dayEnd := dayStart.AddDate(0, 0, 1)

	events := buildEventStream(day)

	segments := make([]domain.DutySegment, 0, len(events)+2)
	cursor := dayStart

	for _, ev := range events {
		if ev.start.After(cursor) {
			location := b.lastLocation
			if location == "" {
				// No prior segment exists anywhere in the plan yet: fall
				// back to the first event's own start location.
				location = eventLocation(ev)
			}
			segments = append(segments, domain.DutySegment{
				Status:   domain.DutyOffDuty,
				Start:    cursor,
				End:      ev.start,
				Location: location,
				Remarks:  "off duty",
			})
			b.lastLocation = location
		}

		seg := b.eventSegment(ev)
		segments = append(segments, seg)
		b.lastLocation = seg.Location
		cursor = ev.end
	}

	if dayEnd.After(cursor) {
		segments = append(segments, domain.DutySegment{
			Status:   domain.DutyOffDuty,
			Start:    cursor,
			End:      dayEnd,
			Location: b.carryForwardLocation(),
			Remarks:  "off duty",
		})
	}

	if err := validate(segments, dayStart, dayEnd); err != nil {
		return domain.DailyLog{}, err
	}

	totals := sumTotals(segments)
	miles := attributedMiles(day.DriveSlices, durByKey, milesByKey)
	startLoc, endLoc := startEndLocation(day)

	return domain.DailyLog{
		DayNumber:     dayNumber,
		Date:          dayStart,
		StartLocation: startLoc,
		EndLocation:   endLoc,
		Totals:        totals,
		Miles:         miles,
		Segments:      segments,
	}, nil
}

func (b *builder) carryForwardLocation() string {
	return b.lastLocation
}

func eventLocation(ev event) string {
	if ev.kind == eventStop {
		return ev.stop.Location.Address
	}
	return ev.drive.From.Location.Address
}

func buildEventStream(day dayprojector.DayEvents) []event {
	events := make([]event, 0, len(day.StopSlices)+len(day.DriveSlices))
	for i := range day.StopSlices {
		s := day.StopSlices[i]
		events = append(events, event{kind: eventStop, start: s.DayArrival, end: s.DayDeparture, stop: s.Stop})
	}
	for i := range day.DriveSlices {
		d := day.DriveSlices[i]
		dCopy := d
		events = append(events, event{kind: eventDrive, start: d.DayStart, end: d.DayEnd, drive: &dCopy})
	}

	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].start.Equal(events[j].start) {
			return events[i].start.Before(events[j].start)
		}
		// STOP before DRIVE at identical starts.
		return events[i].kind == eventStop && events[j].kind == eventDrive
	})
	return events
}

func (b *builder) eventSegment(ev event) domain.DutySegment {
	if ev.kind == eventStop {
		status, ok := domain.StopTypeToDutyStatus[ev.stop.Type]
		if !ok {
			status = domain.DutyOffDuty
		}
		lat, lng := ev.stop.Location.Lat, ev.stop.Location.Lng
		return domain.DutySegment{
			Status:   status,
			Start:    ev.start,
			End:      ev.end,
			Location: ev.stop.Location.Address,
			Lat:      &lat,
			Lng:      &lng,
			Remarks:  ev.stop.Description,
		}
	}

	return domain.DutySegment{
		Status:   domain.DutyDriving,
		Start:    ev.start,
		End:      ev.end,
		Location: "en route to " + ev.drive.To.Location.Address,
		Remarks:  "from " + ev.drive.From.Location.Address,
	}
}

// validate enforces the gap-free, non-overlapping, exact-24-hour
// partition invariant. Any violation is an internal bug, never
// silently repaired.
func validate(segments []domain.DutySegment, dayStart, dayEnd time.Time) error {
	if len(segments) == 0 {
		return plannererrors.TimelineError("no segments produced for a 24-hour window")
	}
	if !segments[0].Start.Equal(dayStart) {
		return plannererrors.TimelineError("first segment does not start at local midnight")
	}
	if !segments[len(segments)-1].End.Equal(dayEnd) {
		return plannererrors.TimelineError("last segment does not end at the next local midnight")
	}
	for i, s := range segments {
		if !s.End.After(s.Start) {
			return plannererrors.TimelineError("segment has non-positive duration")
		}
		if i > 0 && !s.Start.Equal(segments[i-1].End) {
			return plannererrors.TimelineError("gap or overlap between consecutive segments")
		}
	}
	return nil
}

// sumTotals accumulates raw hours per status and rounds each total
// exactly once, so the four rounded totals sum to 24.00 within 0.02
// regardless of how many segments the day holds.
func sumTotals(segments []domain.DutySegment) domain.DailyTotals {
	var t domain.DailyTotals
	for _, s := range segments {
		hours := s.DurationHours()
		switch s.Status {
		case domain.DutyDriving:
			t.Driving += hours
		case domain.DutyOnDutyNotDriving:
			t.OnDutyNotDriving += hours
		case domain.DutyOffDuty:
			t.OffDuty += hours
		case domain.DutySleeper:
			t.Sleeper += hours
		}
	}
	t.Driving = round2(t.Driving)
	t.OnDutyNotDriving = round2(t.OnDutyNotDriving)
	t.OffDuty = round2(t.OffDuty)
	t.Sleeper = round2(t.Sleeper)
	return t
}

// attributedMiles implements the proportional mileage attribution rule:
// for a drive that crosses midnight, the day's share of the interval's
// full, un-sliced distance is its share of the interval's full,
// un-sliced duration.
func attributedMiles(slices []dayprojector.DriveSlice, durByKey, milesByKey map[[2]int]float64) float64 {
	var total float64
	for _, ds := range slices {
		key := [2]int{ds.From.Sequence, ds.To.Sequence}
		globalDur := durByKey[key]
		globalMiles := milesByKey[key]
		if globalDur <= 0 {
			continue
		}
		sliceDur := ds.DayEnd.Sub(ds.DayStart).Hours()
		total += (sliceDur / globalDur) * globalMiles
	}
	return total
}

func startEndLocation(day dayprojector.DayEvents) (string, string) {
	if len(day.StopSlices) == 0 {
		return "N/A", "N/A"
	}
	first := day.StopSlices[0]
	last := day.StopSlices[len(day.StopSlices)-1]
	return first.Stop.Location.Address, last.Stop.Location.Address
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
