package mapprovider

import (
	"context"
	"fmt"
	"sync"
)

// Fake is a deterministic, in-memory Provider. Tests register exact
// routes for a waypoint list and get byte-identical results back on
// every call, so plan idempotence is testable without a network.
type Fake struct {
	mu       sync.Mutex
	routes   map[string]Route
	geocodes map[string]Location
}

// NewFake returns an empty deterministic provider. Register routes with
// RegisterRoute before use.
func NewFake() *Fake {
	return &Fake{
		routes:   make(map[string]Route),
		geocodes: make(map[string]Location),
	}
}

func routeKey(waypoints []Location) string {
	key := ""
	for _, w := range waypoints {
		key += fmt.Sprintf("%.6f,%.6f|", w.Lat, w.Lng)
	}
	return key
}

// RegisterRoute fixes the Route returned for an exact waypoint
// sequence.
func (f *Fake) RegisterRoute(waypoints []Location, route Route) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[routeKey(waypoints)] = route
}

// RegisterGeocode fixes the Location returned for an address.
func (f *Fake) RegisterGeocode(address string, loc Location) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.geocodes[address] = loc
}

func (f *Fake) Geocode(_ context.Context, address string) (Location, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	loc, ok := f.geocodes[address]
	if !ok {
		return Location{}, ErrNotFound
	}
	return loc, nil
}

func (f *Fake) Route(_ context.Context, waypoints []Location) (Route, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	route, ok := f.routes[routeKey(waypoints)]
	if !ok {
		return Route{}, fmt.Errorf("fake provider: no route registered for waypoints %v", waypoints)
	}
	return route, nil
}

// FindNearestPOI deterministically names each POI by kind and
// coordinate, so repeated runs of the same simulation — even against
// the same Fake instance — produce byte-identical stop descriptions.
func (f *Fake) FindNearestPOI(_ context.Context, lat, lng float64, kind POIKind) (Location, error) {
	var name string
	switch kind {
	case POIFuel:
		name = fmt.Sprintf("Fuel Stop near %.4f,%.4f", lat, lng)
	case POILodging:
		name = fmt.Sprintf("Lodging near %.4f,%.4f", lat, lng)
	default:
		name = fmt.Sprintf("Rest Area near %.4f,%.4f", lat, lng)
	}
	return Location{Address: name, Lat: lat, Lng: lng}, nil
}

func (f *Fake) PointAlong(geometry [][2]float64, distanceMiles, totalMiles float64) (float64, float64) {
	return pointAlongVertices(geometry, distanceMiles, totalMiles)
}
