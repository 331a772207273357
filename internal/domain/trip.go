package domain

import (
	"fmt"
	"time"
)

// TripInput is the request to plan a single long-haul trip.
type TripInput struct {
	Current        Location  `json:"current"`
	Pickup         Location  `json:"pickup"`
	Dropoff        Location  `json:"dropoff"`
	CycleHoursUsed float64   `json:"cycleHoursUsed"`
	PlannedStart   time.Time `json:"plannedStart"`
}

// Validate checks the TripInput invariants. It does not check
// plannedStart against wall-clock "now" — that is a boundary concern of
// the caller, not the core.
func (t TripInput) Validate() error {
	if err := t.Current.Validate(); err != nil {
		return fmt.Errorf("current: %w", err)
	}
	if err := t.Pickup.Validate(); err != nil {
		return fmt.Errorf("pickup: %w", err)
	}
	if err := t.Dropoff.Validate(); err != nil {
		return fmt.Errorf("dropoff: %w", err)
	}
	if t.Pickup.Equal(t.Dropoff) {
		return fmt.Errorf("pickup and dropoff are the same location")
	}
	if t.CycleHoursUsed < 0 || t.CycleHoursUsed > 70 {
		return fmt.Errorf("cycleHoursUsed %.2f out of range [0,70]", t.CycleHoursUsed)
	}
	return nil
}

// Timezone returns the timezone in which local calendar days are
// computed for this trip: that of PlannedStart.
func (t TripInput) Timezone() *time.Location {
	return t.PlannedStart.Location()
}
