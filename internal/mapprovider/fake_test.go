package mapprovider

import (
	"context"
	"testing"
)

func TestFakeRouteRoundTrip(t *testing.T) {
	f := NewFake()
	waypoints := []Location{{Lat: 41.8, Lng: -87.6}, {Lat: 39.9, Lng: -82.9}}
	want := Route{DistanceMiles: 300, DurationHours: 5.5}
	f.RegisterRoute(waypoints, want)

	got, err := f.Route(context.Background(), waypoints)
	if err != nil {
		t.Fatalf("Route() error = %v", err)
	}
	if got.DistanceMiles != want.DistanceMiles || got.DurationHours != want.DurationHours {
		t.Errorf("Route() = %+v, want %+v", got, want)
	}
}

func TestFakeRouteUnregisteredErrors(t *testing.T) {
	f := NewFake()
	if _, err := f.Route(context.Background(), []Location{{Lat: 1, Lng: 1}}); err == nil {
		t.Error("expected error for unregistered route")
	}
}

func TestFakeGeocodeNotFound(t *testing.T) {
	f := NewFake()
	if _, err := f.Geocode(context.Background(), "nowhere"); err != ErrNotFound {
		t.Errorf("Geocode() error = %v, want ErrNotFound", err)
	}
}

// TestFakeFindNearestPOIIsDeterministic pins down determinism: repeated
// calls against the same Fake instance, with the same coordinate and
// kind, must return identical results.
func TestFakeFindNearestPOIIsDeterministic(t *testing.T) {
	f := NewFake()
	ctx := context.Background()

	first, err := f.FindNearestPOI(ctx, 40.0, -85.0, POIFuel)
	if err != nil {
		t.Fatalf("FindNearestPOI() error = %v", err)
	}
	second, err := f.FindNearestPOI(ctx, 40.0, -85.0, POIFuel)
	if err != nil {
		t.Fatalf("FindNearestPOI() error = %v", err)
	}

	if first != second {
		t.Errorf("FindNearestPOI() not deterministic: %+v != %+v", first, second)
	}
}

func TestFakeFindNearestPOIVariesByKind(t *testing.T) {
	f := NewFake()
	ctx := context.Background()

	fuel, _ := f.FindNearestPOI(ctx, 40.0, -85.0, POIFuel)
	lodging, _ := f.FindNearestPOI(ctx, 40.0, -85.0, POILodging)

	if fuel.Address == lodging.Address {
		t.Errorf("expected distinct POI names per kind, got %q for both", fuel.Address)
	}
}

func TestPointAlongClampsAndInterpolates(t *testing.T) {
	f := NewFake()
	geometry := [][2]float64{{-87.0, 41.0}, {-86.0, 40.0}, {-85.0, 39.0}}

	lat, lng := f.PointAlong(geometry, 0, 100)
	if lat != 41.0 || lng != -87.0 {
		t.Errorf("start of geometry = (%v,%v), want (41,-87)", lat, lng)
	}

	lat, lng = f.PointAlong(geometry, 100, 100)
	if lat != 39.0 || lng != -85.0 {
		t.Errorf("end of geometry = (%v,%v), want (39,-85)", lat, lng)
	}

	lat, lng = f.PointAlong(geometry, 150, 100)
	if lat != 39.0 || lng != -85.0 {
		t.Errorf("overshoot should clamp to end, got (%v,%v)", lat, lng)
	}
}
