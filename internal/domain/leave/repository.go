package leave

import (
	"context"
	"time"
)

// LeaveRepository exposes the approved-leave data payroll pro-ration needs.
type LeaveRepository interface {
	// ListApprovedOverlapping retrieves an employee's approved leaves
	// whose window overlaps [start, end].
	ListApprovedOverlapping(ctx context.Context, employeeID string, start, end time.Time) ([]Leave, error)
}
