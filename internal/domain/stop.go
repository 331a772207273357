package domain

import "time"

// StopType enumerates every kind of event the Planner can insert into a
// trip's itinerary.
type StopType string

const (
	StopCurrent    StopType = "CURRENT"
	StopPickup     StopType = "PICKUP"
	StopDropoff    StopType = "DROPOFF"
	StopFuel       StopType = "FUEL"
	StopBreak30Min StopType = "BREAK_30MIN"
	StopBreak10Hr  StopType = "BREAK_10HR"
)

// Stop is one scheduled event in the trip's itinerary. Stops are
// produced only by the Planner and are immutable afterward; sequence is
// dense starting at 0 and matches arrival order.
type Stop struct {
	Sequence          int       `json:"sequence"`
	Type              StopType  `json:"type"`
	Location          Location  `json:"location"`
	Arrival           time.Time `json:"arrival"`
	Departure         time.Time `json:"departure"`
	DurationMinutes   int       `json:"durationMinutes"`
	Description       string    `json:"description"`
	CumulativeMiles   float64   `json:"cumulativeMiles"`
	MilesFromPrevious float64   `json:"milesFromPrevious"`
}

// DriveInterval is the implicit driving span between two consecutive
// stops. It is derived, never stored independently of its stops.
type DriveInterval struct {
	From  *Stop
	To    *Stop
	Start time.Time
	End   time.Time
	Miles float64
}

// NewDriveInterval builds the interval implied by two consecutive stops.
func NewDriveInterval(from, to *Stop) DriveInterval {
	return DriveInterval{
		From:  from,
		To:    to,
		Start: from.Departure,
		End:   to.Arrival,
		Miles: to.CumulativeMiles - from.CumulativeMiles,
	}
}

// DurationHours is the wall-clock span of the interval in hours.
func (d DriveInterval) DurationHours() float64 {
	return d.End.Sub(d.Start).Hours()
}

// DriveIntervals derives the implicit drive intervals between an
// ordered, dense stop list.
func DriveIntervals(stops []Stop) []DriveInterval {
	if len(stops) < 2 {
		return nil
	}
	out := make([]DriveInterval, 0, len(stops)-1)
	for i := 0; i+1 < len(stops); i++ {
		out = append(out, NewDriveInterval(&stops[i], &stops[i+1]))
	}
	return out
}
