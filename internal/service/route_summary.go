package service

import (
	"github.com/osamamer/trucking-partner/internal/domain"
	"github.com/osamamer/trucking-partner/internal/hosrules"
	"github.com/osamamer/trucking-partner/internal/planner"
)

// warningUtilization is the fraction of a daily driving/on-duty budget,
// or of the 70-hour cycle cap, at or above which a legal plan is
// flagged WARNING instead of COMPLIANT: it ran legal but left the
// driver no slack for delay.
const warningUtilization = 0.90

// assembleRouteSummary rolls the per-day totals up into the plan-wide
// RouteSummary and classifies its ComplianceStatus.
func assembleRouteSummary(planResult planner.Result, dailyLogs []domain.DailyLog, rules *hosrules.Rules, cycleHoursUsedBefore float64) domain.RouteSummary {
	var drivingHours, onDutyHours, offDutyHours float64
	var cycleHoursAfter = cycleHoursUsedBefore

	for _, day := range dailyLogs {
		drivingHours += day.Totals.Driving
		onDutyHours += day.Totals.Driving + day.Totals.OnDutyNotDriving
		offDutyHours += day.Totals.OffDuty + day.Totals.Sleeper
		cycleHoursAfter += day.Totals.Driving + day.Totals.OnDutyNotDriving
	}

	return domain.RouteSummary{
		TotalDistanceMiles: planResult.TotalDistanceMiles,
		TotalDurationHours: planResult.TotalDurationHours,
		DrivingHours:       drivingHours,
		OnDutyHours:        onDutyHours,
		OffDutyHours:       offDutyHours,
		ComplianceStatus:   classifyCompliance(dailyLogs, rules, cycleHoursAfter),
		Geometry:           planResult.Geometry,
	}
}

func classifyCompliance(dailyLogs []domain.DailyLog, rules *hosrules.Rules, cycleHoursAfter float64) domain.ComplianceStatus {
	worst := domain.ComplianceCompliant

	for _, day := range dailyLogs {
		if day.Totals.Driving > rules.Driving.MaxDrivingHoursPerDay+1e-6 ||
			day.Totals.Driving+day.Totals.OnDutyNotDriving > rules.Driving.MaxOnDutyHoursPerDay+1e-6 {
			// The Planner's own limit checks should make this
			// unreachable; treat it as a defensive signal rather than
			// trust the upstream invariant blindly.
			return domain.ComplianceNonCompliant
		}

		if day.Totals.Driving >= rules.Driving.MaxDrivingHoursPerDay*warningUtilization ||
			day.Totals.Driving+day.Totals.OnDutyNotDriving >= rules.Driving.MaxOnDutyHoursPerDay*warningUtilization {
			worst = domain.ComplianceWarning
		}
	}

	if cycleHoursAfter > rules.Cycle.MaxCycleHours+1e-6 {
		return domain.ComplianceNonCompliant
	}
	if cycleHoursAfter >= rules.Cycle.MaxCycleHours*warningUtilization {
		worst = domain.ComplianceWarning
	}

	return worst
}
