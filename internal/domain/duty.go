package domain

import "time"

// DutyStatus is the canonical four-value duty status. Source systems
// often carry inconsistent variants (e.g. SLEEPER_BERTH alongside
// SLEEPER); everything downstream of the Duty-Timeline Builder uses
// only these four tags.
type DutyStatus string

const (
	DutyOffDuty          DutyStatus = "OFF_DUTY"
	DutySleeper          DutyStatus = "SLEEPER"
	DutyDriving          DutyStatus = "DRIVING"
	DutyOnDutyNotDriving DutyStatus = "ON_DUTY_NOT_DRIVING"
)

// StopTypeToDutyStatus maps an inserted stop's type to the duty status
// its segment carries.
var StopTypeToDutyStatus = map[StopType]DutyStatus{
	StopPickup:     DutyOnDutyNotDriving,
	StopDropoff:    DutyOnDutyNotDriving,
	StopFuel:       DutyOnDutyNotDriving,
	StopBreak30Min: DutyOffDuty,
	StopBreak10Hr:  DutySleeper,
	StopCurrent:    DutyOffDuty,
}

// DutySegment is one contiguous span of a single duty status within a
// 24-hour local day. Consecutive segments within a day are adjacent:
// no gap, no overlap.
type DutySegment struct {
	Status   DutyStatus `json:"status"`
	Start    time.Time  `json:"start"`
	End      time.Time  `json:"end"`
	Location string     `json:"location"`
	Lat      *float64   `json:"lat,omitempty"`
	Lng      *float64   `json:"lng,omitempty"`
	Remarks  string     `json:"remarks"`
}

// DurationHours is the segment's wall-clock span.
func (s DutySegment) DurationHours() float64 {
	return s.End.Sub(s.Start).Hours()
}

// DailyTotals sums duty-status durations, in hours, over one local day.
type DailyTotals struct {
	Driving          float64 `json:"driving"`
	OnDutyNotDriving float64 `json:"onDutyNotDriving"`
	OffDuty          float64 `json:"offDuty"`
	Sleeper          float64 `json:"sleeper"`
}

// DailyLog is the 24-hour, midnight-to-midnight record for one calendar
// date of a trip: produced only by the Duty-Timeline Builder.
type DailyLog struct {
	DayNumber     int           `json:"dayNumber"`
	Date          time.Time     `json:"date"` // local midnight
	StartLocation string        `json:"startLocation"`
	EndLocation   string        `json:"endLocation"`
	Totals        DailyTotals   `json:"totals"`
	Miles         float64       `json:"miles"`
	Segments      []DutySegment `json:"segments"`
}
