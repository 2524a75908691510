package response

import (
	"errors"
	"net/http"

	"github.com/workpulse-hr/workpulse-backend-go/internal/domain/attendance"
	"github.com/workpulse-hr/workpulse-backend-go/internal/domain/employee"
	"github.com/workpulse-hr/workpulse-backend-go/internal/domain/payroll"
	"github.com/workpulse-hr/workpulse-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Attendance domain errors
	case errors.Is(err, attendance.ErrAlreadyClockedIn):
		Conflict(w, "Already clocked in today")
	case errors.Is(err, attendance.ErrNoOpenSession):
		BadRequest(w, "No open attendance session to clock out of", nil)
	case errors.Is(err, attendance.ErrBreakStillActive):
		Conflict(w, "A break is still active, end it before clocking out")
	case errors.Is(err, attendance.ErrNoClockInRecord):
		BadRequest(w, "No clock-in record for today", nil)
	case errors.Is(err, attendance.ErrAlreadyOnBreak):
		Conflict(w, "A break is already in progress")
	case errors.Is(err, attendance.ErrNoActiveBreak):
		BadRequest(w, "No active break to end", nil)
	case errors.Is(err, attendance.ErrBreakLimitExceeded):
		Conflict(w, "Daily break limit reached")
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")

	// Payroll domain errors
	case errors.Is(err, payroll.ErrPayrollRecordNotFound):
		NotFound(w, "Payroll record not found")
	case errors.Is(err, payroll.ErrPayrollRecordAlreadyExists):
		Conflict(w, "Payroll record already exists for this period")
	case errors.Is(err, payroll.ErrPayrollRecordAlreadyPaid):
		Conflict(w, "Payroll record is already paid")
	case errors.Is(err, payroll.ErrInvalidPeriod):
		BadRequest(w, "Invalid payroll period", nil)

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrNoBankAccount):
		BadRequest(w, "Employee has no bank account on record", nil)
	case errors.Is(err, employee.ErrNoBasicSalary):
		BadRequest(w, "Employee has no basic salary configured", nil)
	case errors.Is(err, employee.ErrEmployeeNotActive):
		BadRequest(w, "Employee is not active", nil)

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
