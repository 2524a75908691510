package employee

import "context"

// EmployeeRepository defines read access to the employee directory.
type EmployeeRepository interface {
	// GetByID retrieves a single employee
	GetByID(ctx context.Context, id string) (Employee, error)

	// ListActive retrieves all active employees
	ListActive(ctx context.Context) ([]Employee, error)
}
