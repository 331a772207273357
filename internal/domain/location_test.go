package domain

import "testing"

func TestLocationValidate(t *testing.T) {
	cases := []struct {
		name    string
		loc     Location
		wantErr bool
	}{
		{"valid", Location{Lat: 41.8, Lng: -87.6}, false},
		{"lat too high", Location{Lat: 90.1, Lng: 0}, true},
		{"lat too low", Location{Lat: -90.1, Lng: 0}, true},
		{"lng too high", Location{Lat: 0, Lng: 180.1}, true},
		{"lng too low", Location{Lat: 0, Lng: -180.1}, true},
		{"boundary values", Location{Lat: 90, Lng: 180}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.loc.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestLocationEqual(t *testing.T) {
	a := Location{Address: "Chicago, IL", Lat: 41.8781, Lng: -87.6298}
	b := Location{Address: "different label, same point", Lat: 41.8781, Lng: -87.6298}
	c := Location{Address: "Chicago, IL", Lat: 39.9612, Lng: -82.9988}

	if !a.Equal(b) {
		t.Error("Equal() should ignore Address and compare only coordinates")
	}
	if a.Equal(c) {
		t.Error("Equal() should report distinct coordinates as unequal")
	}
}
