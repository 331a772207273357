// Package repository is the pgx-backed persistence boundary for
// completed and failed trip plans. Every write for one trip happens
// inside a single transaction, matching the core's all-or-nothing
// output guarantee.
package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/osamamer/trucking-partner/internal/domain"
	"github.com/osamamer/trucking-partner/internal/plannererrors"
	"github.com/osamamer/trucking-partner/internal/platform/database"
)

// PostgresPlanRepository implements service.PlanRepository against
// Postgres via pgx.
type PostgresPlanRepository struct {
	db *database.DB
}

// NewPostgresPlanRepository builds a repository bound to an open pool.
func NewPostgresPlanRepository(db *database.DB) *PostgresPlanRepository {
	return &PostgresPlanRepository{db: db}
}

// SavePlan stores a completed plan's trip, route summary, stops, daily
// logs, and duty segments atomically. A prior plan for the same
// tripID, if any, is replaced in full: re-planning a trip is
// idempotent, never additive.
func (r *PostgresPlanRepository) SavePlan(ctx context.Context, tripID uuid.UUID, input domain.TripInput, result domain.PlanResult) error {
	return r.db.Transaction(ctx, func(tx pgx.Tx) error {
		if err := deletePlan(ctx, tx, tripID); err != nil {
			return err
		}

		geometry, err := json.Marshal(result.Route.Geometry)
		if err != nil {
			return fmt.Errorf("marshal geometry: %w", err)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO trips (id, current_address, current_lat, current_lng,
				pickup_address, pickup_lat, pickup_lng,
				dropoff_address, dropoff_lat, dropoff_lng,
				cycle_hours_used, planned_start, status)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,'COMPLETED')`,
			tripID,
			input.Current.Address, input.Current.Lat, input.Current.Lng,
			input.Pickup.Address, input.Pickup.Lat, input.Pickup.Lng,
			input.Dropoff.Address, input.Dropoff.Lat, input.Dropoff.Lng,
			input.CycleHoursUsed, input.PlannedStart,
		)
		if err != nil {
			return fmt.Errorf("insert trip: %w", err)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO route_summaries (trip_id, total_distance_miles, total_duration_hours,
				driving_hours, on_duty_hours, off_duty_hours, compliance_status, geometry, days_required)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
			tripID, result.Route.TotalDistanceMiles, result.Route.TotalDurationHours,
			result.Route.DrivingHours, result.Route.OnDutyHours, result.Route.OffDutyHours,
			result.Route.ComplianceStatus, geometry, result.DaysRequired,
		)
		if err != nil {
			return fmt.Errorf("insert route summary: %w", err)
		}

		for _, stop := range result.Stops {
			_, err = tx.Exec(ctx, `
				INSERT INTO stops (trip_id, sequence, type, address, lat, lng, arrival, departure,
					duration_minutes, description, cumulative_miles, miles_from_previous)
				VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
				tripID, stop.Sequence, stop.Type, stop.Location.Address, stop.Location.Lat, stop.Location.Lng,
				stop.Arrival, stop.Departure, stop.DurationMinutes, stop.Description,
				stop.CumulativeMiles, stop.MilesFromPrevious,
			)
			if err != nil {
				return fmt.Errorf("insert stop %d: %w", stop.Sequence, err)
			}
		}

		for _, day := range result.DailyLogs {
			var dailyLogID int64
			err = tx.QueryRow(ctx, `
				INSERT INTO daily_logs (trip_id, day_number, date, start_location, end_location,
					driving_hours, on_duty_not_driving_hours, off_duty_hours, sleeper_hours, miles)
				VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
				RETURNING id`,
				tripID, day.DayNumber, day.Date, day.StartLocation, day.EndLocation,
				day.Totals.Driving, day.Totals.OnDutyNotDriving, day.Totals.OffDuty, day.Totals.Sleeper, day.Miles,
			).Scan(&dailyLogID)
			if err != nil {
				return fmt.Errorf("insert daily log %d: %w", day.DayNumber, err)
			}

			for seq, seg := range day.Segments {
				_, err = tx.Exec(ctx, `
					INSERT INTO duty_segments (daily_log_id, sequence, status, start_time, end_time, location, lat, lng, remarks)
					VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
					dailyLogID, seq, seg.Status, seg.Start, seg.End, seg.Location, seg.Lat, seg.Lng, seg.Remarks,
				)
				if err != nil {
					return fmt.Errorf("insert duty segment for day %d: %w", day.DayNumber, err)
				}
			}
		}

		return nil
	})
}

// SaveInfeasible records a trip that failed the feasibility gate, so
// the outcome is queryable without re-running the simulation.
func (r *PostgresPlanRepository) SaveInfeasible(ctx context.Context, tripID uuid.UUID, input domain.TripInput, planErr *plannererrors.AppError) error {
	return r.db.Transaction(ctx, func(tx pgx.Tx) error {
		if err := deletePlan(ctx, tx, tripID); err != nil {
			return err
		}

		details, err := json.Marshal(planErr.Details)
		if err != nil {
			return fmt.Errorf("marshal error details: %w", err)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO trips (id, current_address, current_lat, current_lng,
				pickup_address, pickup_lat, pickup_lng,
				dropoff_address, dropoff_lat, dropoff_lng,
				cycle_hours_used, planned_start, status)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,'INFEASIBLE')`,
			tripID,
			input.Current.Address, input.Current.Lat, input.Current.Lng,
			input.Pickup.Address, input.Pickup.Lat, input.Pickup.Lng,
			input.Dropoff.Address, input.Dropoff.Lat, input.Dropoff.Lng,
			input.CycleHoursUsed, input.PlannedStart,
		)
		if err != nil {
			return fmt.Errorf("insert trip: %w", err)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO infeasible_outcomes (trip_id, code, message, details)
			VALUES ($1,$2,$3,$4)`,
			tripID, planErr.Code, planErr.Message, details,
		)
		if err != nil {
			return fmt.Errorf("insert infeasible outcome: %w", err)
		}

		return nil
	})
}

// deletePlan tears down any prior persisted output for tripID before a
// fresh insert, giving re-planning delete-then-insert idempotence.
func deletePlan(ctx context.Context, tx pgx.Tx, tripID uuid.UUID) error {
	if _, err := tx.Exec(ctx, `
		DELETE FROM duty_segments WHERE daily_log_id IN (SELECT id FROM daily_logs WHERE trip_id = $1)`, tripID); err != nil {
		return fmt.Errorf("delete duty segments: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM daily_logs WHERE trip_id = $1`, tripID); err != nil {
		return fmt.Errorf("delete daily logs: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM stops WHERE trip_id = $1`, tripID); err != nil {
		return fmt.Errorf("delete stops: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM route_summaries WHERE trip_id = $1`, tripID); err != nil {
		return fmt.Errorf("delete route summary: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM infeasible_outcomes WHERE trip_id = $1`, tripID); err != nil {
		return fmt.Errorf("delete infeasible outcome: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM trips WHERE id = $1`, tripID); err != nil {
		return fmt.Errorf("delete trip: %w", err)
	}
	return nil
}
