// Package dayprojector slices an immutable stop list across local-
// midnight boundaries into per-date event lists, ready for the
// duty-timeline builder to turn into gap-free daily segments.
package dayprojector

import (
	"sort"
	"time"

	"github.com/osamamer/trucking-partner/internal/domain"
)

// StopSlice is a stop intersected with one local calendar day.
type StopSlice struct {
	Stop         *domain.Stop
	DayArrival   time.Time
	DayDeparture time.Time
}

// DriveSlice is the driving interval between two consecutive stops,
// intersected with one local calendar day.
type DriveSlice struct {
	From     *domain.Stop
	To       *domain.Stop
	DayStart time.Time
	DayEnd   time.Time
}

// DayEvents bundles the stop and drive slices touching one local date.
type DayEvents struct {
	Date        time.Time // local midnight
	StopSlices  []StopSlice
	DriveSlices []DriveSlice
}

// Project splits stops (and the drive intervals implied between them)
// into one DayEvents entry per local calendar date touched by the
// plan, in ascending date order. The local date is computed in loc,
// which must be the timezone of the trip's plannedStart.
func Project(stops []domain.Stop, loc *time.Location) []DayEvents {
	if len(stops) == 0 {
		return nil
	}

	dates := collectDates(stops, loc)
	days := make([]DayEvents, len(dates))
	for i, d := range dates {
		days[i] = DayEvents{Date: d}
	}
	index := make(map[time.Time]*DayEvents, len(days))
	for i := range days {
		index[days[i].Date] = &days[i]
	}

	for i := range stops {
		stop := &stops[i]
		for _, date := range dates {
			dayStart := date
			dayEnd := date.AddDate(0, 0, 1)
			arrival := maxTime(stop.Arrival, dayStart)
			departure := minTime(stop.Departure, dayEnd)
			if departure.After(arrival) {
				index[date].StopSlices = append(index[date].StopSlices, StopSlice{
					Stop:         stop,
					DayArrival:   arrival,
					DayDeparture: departure,
				})
			}
		}
	}

	for i := 0; i+1 < len(stops); i++ {
		from := &stops[i]
		to := &stops[i+1]
		for _, date := range dates {
			dayStart := date
			dayEnd := date.AddDate(0, 0, 1)
			start := maxTime(from.Departure, dayStart)
			end := minTime(to.Arrival, dayEnd)
			if end.After(start) {
				index[date].DriveSlices = append(index[date].DriveSlices, DriveSlice{
					From:     from,
					To:       to,
					DayStart: start,
					DayEnd:   end,
				})
			}
		}
	}

	return days
}

// collectDates returns every distinct local calendar date touched by
// any stop or the drive intervals between them, in ascending order. A
// span is walked day-by-day rather than just its endpoints, since a
// single span (e.g. an uninterrupted leg0 drive, or a 10-hour reset
// starting late at night) can cover more than two calendar dates.
func collectDates(stops []domain.Stop, loc *time.Location) []time.Time {
	seen := make(map[time.Time]bool)
	addSpan := func(start, end time.Time) {
		if !end.After(start) {
			return
		}
		d := localMidnight(start, loc)
		last := localMidnight(end.Add(-time.Nanosecond), loc)
		for !d.After(last) {
			seen[d] = true
			d = d.AddDate(0, 0, 1)
		}
	}

	for i := range stops {
		addSpan(stops[i].Arrival, stops[i].Departure)
		if stops[i].Arrival.Equal(stops[i].Departure) {
			seen[localMidnight(stops[i].Arrival, loc)] = true
		}
	}
	for i := 0; i+1 < len(stops); i++ {
		addSpan(stops[i].Departure, stops[i+1].Arrival)
	}

	dates := make([]time.Time, 0, len(seen))
	for d := range seen {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

func localMidnight(t time.Time, loc *time.Location) time.Time {
	lt := t.In(loc)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, loc)
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
