// Package mapprovider defines the MapProvider capability port the core
// consumes for geocoding, routing, POI lookup, and polyline
// interpolation. It is an injected abstraction: the real HTTP-backed
// client and the deterministic in-memory fake both satisfy Provider,
// and the Planner is written against the interface only.
package mapprovider

import "context"

// POIKind is the category of point of interest a stop search is for.
type POIKind string

const (
	POIRest    POIKind = "REST"
	POIFuel    POIKind = "FUEL"
	POILodging POIKind = "LODGING"
)

// Location mirrors domain.Location without importing the domain
// package, keeping this port free of a dependency on the core's data
// model.
type Location struct {
	Address string
	Lat     float64
	Lng     float64
}

// Leg is one waypoint-to-waypoint segment of a multi-waypoint route.
type Leg struct {
	DistanceMiles float64
	DurationHours float64
}

// Route is the full driving route result: a top-level distance and
// duration plus per-leg breakdowns and the polyline geometry.
type Route struct {
	DistanceMiles float64
	DurationHours float64
	Geometry      [][2]float64 // ordered (lng, lat) pairs
	Legs          []Leg
}

// Provider is the capability interface the core consumes. Every method
// must be safe for concurrent callers: multiple trips may be planned in
// parallel, each against the same Provider instance.
type Provider interface {
	// Geocode resolves an address to a Location. Idempotent; returns the
	// first match. Returns ErrNotFound if no match exists.
	Geocode(ctx context.Context, address string) (Location, error)

	// Route fetches a driving route through at least two waypoints, in
	// order. Returns MapError (via the caller wrapping the returned
	// error) on transport failure.
	Route(ctx context.Context, waypoints []Location) (Route, error)

	// FindNearestPOI always returns a value: on upstream failure it
	// synthesizes a Location at the query coordinate with a descriptive
	// address rather than failing the plan.
	FindNearestPOI(ctx context.Context, lat, lng float64, kind POIKind) (Location, error)

	// PointAlong interpolates a point at fractional distance
	// distanceMiles/totalMiles along geometry, clamped at the bounds.
	PointAlong(geometry [][2]float64, distanceMiles, totalMiles float64) (lat, lng float64)
}

// ErrNotFound is returned by Geocode when no match exists for an
// address.
var ErrNotFound = notFoundError{}

type notFoundError struct{}

func (notFoundError) Error() string { return "no match found" }
