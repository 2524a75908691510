package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access methods for attendance records.
type AttendanceRepository interface {
	// Create creates a new attendance record
	Create(ctx context.Context, attendance Attendance) (Attendance, error)

	// GetByEmployeeAndDate retrieves the record for an employee on a
	// calendar day. Used to prevent double clock-in. Returns nil when no
	// record exists.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Attendance, error)

	// Update persists the mutated record (breaks, totals, derived metrics).
	Update(ctx context.Context, attendance Attendance) error

	// ListByEmployeeAndRange retrieves an employee's records with
	// date in [start, end], oldest first.
	ListByEmployeeAndRange(ctx context.Context, employeeID string, start, end time.Time) ([]Attendance, error)

	// List retrieves attendance records with filters and pagination (admin).
	List(ctx context.Context, filter AttendanceFilter) ([]Attendance, int64, error)
}
