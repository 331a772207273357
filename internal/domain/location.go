// Package domain holds the core data model the planner, day projector,
// and duty-timeline builder operate on: Location, TripInput, Stop,
// DriveInterval, DutyStatus, DutySegment, and DailyLog. Ownership is
// strictly hierarchical — TripInput produces Stops and DriveIntervals,
// which produce DailyLogs and DutySegments — with no back-references;
// everything downstream refers to its parent by index or sequence
// number only.
package domain

import "fmt"

// Location is a point the planner can route through or stop at.
type Location struct {
	Address string  `json:"address"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

// Validate checks the latitude/longitude invariant.
func (l Location) Validate() error {
	if l.Lat < -90 || l.Lat > 90 {
		return fmt.Errorf("lat %.6f out of range [-90,90]", l.Lat)
	}
	if l.Lng < -180 || l.Lng > 180 {
		return fmt.Errorf("lng %.6f out of range [-180,180]", l.Lng)
	}
	return nil
}

// Equal reports whether two locations refer to the same coordinate.
func (l Location) Equal(other Location) bool {
	return l.Lat == other.Lat && l.Lng == other.Lng
}
