package leave

import "time"

// Leave request statuses. Only approved leaves count toward payroll
// pro-ration; request workflow lives outside this service.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Leave is an approved-or-pending absence window.
type Leave struct {
	ID         string
	EmployeeID string
	StartDate  time.Time
	EndDate    time.Time
	Status     string
	LeaveType  string
	CreatedAt  time.Time
}

// DaysWithin counts the leave's calendar days overlapping [start, end]
// inclusive.
func (l Leave) DaysWithin(start, end time.Time) float64 {
	from := l.StartDate
	if from.Before(start) {
		from = start
	}
	to := l.EndDate
	if to.After(end) {
		to = end
	}
	if to.Before(from) {
		return 0
	}
	return to.Sub(from).Hours()/24 + 1
}
