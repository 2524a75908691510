package payroll

import "context"

// PayrollRepository defines data access methods for payroll records.
type PayrollRepository interface {
	// Create inserts a new record. Returns ErrPayrollRecordAlreadyExists
	// when a record for (employee, month, year) is already present.
	Create(ctx context.Context, record Payroll) (Payroll, error)

	// GetByID retrieves a record by ID
	GetByID(ctx context.Context, id string) (Payroll, error)

	// GetByEmployeePeriod retrieves the record for an employee and period
	GetByEmployeePeriod(ctx context.Context, employeeID string, month string, year int) (Payroll, error)

	// ListByPeriod retrieves all records for a period
	ListByPeriod(ctx context.Context, month string, year int) ([]Payroll, error)

	// Update persists breakdown, status, and payment changes
	Update(ctx context.Context, record Payroll) error
}
