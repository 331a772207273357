package domain

import (
	"testing"
	"time"
)

func validTrip() TripInput {
	return TripInput{
		Current:        Location{Address: "Chicago, IL", Lat: 41.8781, Lng: -87.6298},
		Pickup:         Location{Address: "Indianapolis, IN", Lat: 39.7684, Lng: -86.1581},
		Dropoff:        Location{Address: "Columbus, OH", Lat: 39.9612, Lng: -82.9988},
		CycleHoursUsed: 20,
		PlannedStart:   time.Date(2026, 1, 5, 6, 0, 0, 0, time.UTC),
	}
}

func TestTripInputValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*TripInput)
		wantErr bool
	}{
		{"valid trip", func(*TripInput) {}, false},
		{"invalid current latitude", func(ti *TripInput) { ti.Current.Lat = 200 }, true},
		{"invalid pickup longitude", func(ti *TripInput) { ti.Pickup.Lng = -200 }, true},
		{"pickup equals dropoff", func(ti *TripInput) { ti.Dropoff = ti.Pickup }, true},
		{"negative cycle hours", func(ti *TripInput) { ti.CycleHoursUsed = -1 }, true},
		{"cycle hours over 70", func(ti *TripInput) { ti.CycleHoursUsed = 70.1 }, true},
		{"cycle hours exactly 70", func(ti *TripInput) { ti.CycleHoursUsed = 70 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trip := validTrip()
			tt.mutate(&trip)
			err := trip.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestTripInputTimezone(t *testing.T) {
	loc := time.FixedZone("TEST", -5*3600)
	trip := validTrip()
	trip.PlannedStart = trip.PlannedStart.In(loc)

	if trip.Timezone() != loc {
		t.Errorf("Timezone() = %v, want %v", trip.Timezone(), loc)
	}
}
