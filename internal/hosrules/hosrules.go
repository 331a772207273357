// Package hosrules declares the FMCSA Hours-of-Service constants the
// planner simulates against, as a single immutable table so the numbers
// can be retuned without touching the state machine.
package hosrules

// Rules holds every regulatory constant the Planner consults.
type Rules struct {
	Driving DrivingRules
	Cycle   CycleRules
	Stops   StopRules
	Route   RouteRules
}

// DrivingRules bounds how long a driver may drive or stay on duty within
// a single duty day, and how often a short rest is mandatory.
type DrivingRules struct {
	MaxDrivingHoursPerDay   float64 // 11-hour driving limit
	MaxOnDutyHoursPerDay    float64 // 14-hour on-duty window
	DrivingHoursBeforeBreak float64 // mandatory 30-min break after this many hours of driving
	ResetOffDutyHours       float64 // 10 consecutive off-duty hours resets the daily budgets
}

// CycleRules bounds the rolling multi-day on-duty budget.
type CycleRules struct {
	MaxCycleHours float64 // 70-hour cap
	CycleDays     int     // over a rolling 8-day window
}

// StopRules gives the duration of each mandatory or scheduled stop.
type StopRules struct {
	Break30MinMinutes int // mandatory short break duration
	Break10HrMinutes  int // mandatory daily reset duration
	FuelStopMinutes   int // fuel stop duration
	PickupMinutes     int
	DropoffMinutes    int
}

// RouteRules covers the assumptions the simulation makes about the road.
type RouteRules struct {
	AverageSpeedMPH   float64
	FuelIntervalMiles float64
}

// Default returns the standard FMCSA property-carrying driver rules for
// the 70-hour/8-day cycle. This is the only place these numbers are
// declared; every component reads them from here.
func Default() *Rules {
	return &Rules{
		Driving: DrivingRules{
			MaxDrivingHoursPerDay:   11,
			MaxOnDutyHoursPerDay:    14,
			DrivingHoursBeforeBreak: 8,
			ResetOffDutyHours:       10,
		},
		Cycle: CycleRules{
			MaxCycleHours: 70,
			CycleDays:     8,
		},
		Stops: StopRules{
			Break30MinMinutes: 30,
			Break10HrMinutes:  600,
			FuelStopMinutes:   30,
			PickupMinutes:     60,
			DropoffMinutes:    60,
		},
		Route: RouteRules{
			AverageSpeedMPH:   55,
			FuelIntervalMiles: 1000,
		},
	}
}
