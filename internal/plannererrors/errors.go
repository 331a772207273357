// Package plannererrors defines the core's exhaustive, tagged error
// kinds. The planner never panics or uses exceptions for control flow:
// every failure mode is one of these four AppError codes, and callers
// type-switch or use errors.As against *AppError.Code rather than
// matching error strings.
package plannererrors

import "fmt"

const (
	CodeInvalidInput    = "INVALID_INPUT"
	CodeInfeasibleCycle = "INFEASIBLE_CYCLE"
	CodeMapError        = "MAP_ERROR"
	CodeTimelineError   = "TIMELINE_ERROR"
)

// AppError is a structured, wrapped application error. It carries a
// machine-checkable Code alongside a human Message and arbitrary
// Details, and unwraps to whatever underlying error caused it.
type AppError struct {
	Code    string
	Message string
	Details map[string]interface{}
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail attaches a key/value detail and returns the same error for
// chaining.
func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// InvalidInput rejects a trip request at the boundary, before any
// simulation runs: out-of-range lat/lng/hours, or pickup == dropoff.
func InvalidInput(message string) *AppError {
	return &AppError{Code: CodeInvalidInput, Message: message, Details: map[string]interface{}{}}
}

// InfeasibleCycle reports that the driver's remaining cycle hours
// cannot cover the base route's driving time. It carries both operands
// so a caller can present "needed X, available Y" without re-deriving
// them.
func InfeasibleCycle(neededHours, availableHours float64) *AppError {
	return &AppError{
		Code:    CodeInfeasibleCycle,
		Message: "insufficient cycle hours available for this trip",
		Details: map[string]interface{}{
			"needed":    neededHours,
			"available": availableHours,
		},
	}
}

// MapError wraps a MapProvider transport/timeout/not-found failure. It
// is propagated as-is; the core never retries it.
func MapError(operation string, err error) *AppError {
	return &AppError{
		Code:    CodeMapError,
		Message: fmt.Sprintf("map provider failed: %s", operation),
		Err:     err,
		Details: map[string]interface{}{"operation": operation},
	}
}

// TimelineError signals that the Duty-Timeline Builder's own invariant
// (gap-free, non-overlapping, 24-hour partition) was violated. This is
// never a caller mistake — it is a bug in the builder, and it is never
// swallowed or silently repaired.
func TimelineError(message string) *AppError {
	return &AppError{Code: CodeTimelineError, Message: message, Details: map[string]interface{}{}}
}
