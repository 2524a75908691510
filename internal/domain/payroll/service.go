package payroll

import "context"

// PayrollService defines business logic for payroll computation and
// disbursement. The acting employee is resolved from request context claims.
type PayrollService interface {
	// GetCurrentPayroll returns the employee's record for the current
	// month, creating it from the default breakdown when absent
	GetCurrentPayroll(ctx context.Context) (PayrollResponse, error)

	// GenerateForPeriod bulk-creates pro-rated records for every salaried
	// employee lacking one; existing records are skipped
	GenerateForPeriod(ctx context.Context, req PeriodRequest) (GeneratePayrollResponse, error)

	// DisburseForPeriod attempts a bank transfer per eligible record,
	// recording per-record outcomes without aborting the batch
	DisburseForPeriod(ctx context.Context, req PeriodRequest) (DisbursementSummary, error)

	// ListByPeriod retrieves records for a period (admin)
	ListByPeriod(ctx context.Context, filter ListPayrollFilter) ([]PayrollResponse, error)

	// UpdateBreakdown adjusts editable breakdown fields and recomputes
	// totals; rejected once the record is paid
	UpdateBreakdown(ctx context.Context, req UpdatePayrollRequest) (PayrollResponse, error)

	// PreviewStructure applies a salary structure to a base salary
	PreviewStructure(ctx context.Context, req StructurePreviewRequest) (StructureResult, error)
}
