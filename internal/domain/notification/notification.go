package notification

import "context"

// Event types emitted by the attendance/payroll core.
const (
	TypeClockedIn            = "attendance.clocked_in"
	TypeClockedOut           = "attendance.clocked_out"
	TypePayrollGenerated     = "payroll.generated"
	TypeDisbursementComplete = "payroll.disbursement_complete"
)

// Event is a fire-and-forget notification payload.
type Event struct {
	Type        string
	RecipientID string
	Title       string
	Message     string
	Data        map[string]interface{}
}

// Sink receives events without delivery guarantees. Implementations must not
// block the calling operation; errors are the sink's problem.
type Sink interface {
	Notify(ctx context.Context, event Event)
}
