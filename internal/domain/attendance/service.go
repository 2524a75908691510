package attendance

import (
	"context"
)

// AttendanceService defines business logic for the attendance state machine.
// The acting employee is resolved from the request context claims.
type AttendanceService interface {
	// ClockIn opens today's session for the employee
	ClockIn(ctx context.Context, req ClockInRequest) (AttendanceResponse, error)

	// BreakIn opens a new break on today's session, reaping orphaned
	// breaks first
	BreakIn(ctx context.Context) (AttendanceResponse, error)

	// BreakOut closes the most recent open break
	BreakOut(ctx context.Context) (AttendanceResponse, error)

	// ClockOut closes today's session and derives the session metrics
	ClockOut(ctx context.Context, req ClockOutRequest) (AttendanceResponse, error)

	// GetLogs aggregates the employee's records over a date range
	GetLogs(ctx context.Context, filter LogsFilter) (LogsResponse, error)

	// ListAttendance retrieves attendance records with filters (admin)
	ListAttendance(ctx context.Context, filter AttendanceFilter) (ListAttendanceResponse, error)
}
