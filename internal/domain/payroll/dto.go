package payroll

import (
	"github.com/shopspring/decimal"
	"github.com/workpulse-hr/workpulse-backend-go/internal/pkg/validator"
)

// ========================================
// PAYROLL DTOs
// ========================================

type PayrollResponse struct {
	ID           string          `json:"id"`
	EmployeeID   string          `json:"employee_id"`
	EmployeeName *string         `json:"employee_name,omitempty"`
	Month        string          `json:"month"`
	Year         int             `json:"year"`
	BasicSalary  decimal.Decimal `json:"basic_salary"`
	Earnings     Earnings        `json:"earnings"`
	Deductions   Deductions      `json:"deductions"`
	CTC          decimal.Decimal `json:"ctc"`
	InHandSalary decimal.Decimal `json:"in_hand_salary"`
	Status       string          `json:"status"`
	IsVisible    bool            `json:"is_visible"`
	PaidDate     *string         `json:"paid_date,omitempty"`
	Payment      *Payment        `json:"payment,omitempty"`
}

// PeriodRequest names a payroll period by month name and year. Shared by
// bulk generation and disbursement.
type PeriodRequest struct {
	Month string `json:"month"`
	Year  int    `json:"year"`
}

func (r *PeriodRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Month) {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month is required",
		})
	}

	if r.Year == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: "year is required",
		})
	} else if !validator.IsValidYear(r.Year) {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: "year is out of range",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type GeneratePayrollResponse struct {
	Month   string `json:"month"`
	Year    int    `json:"year"`
	Created int    `json:"created"`
}

// DisbursementResult is the per-employee outcome inside a disbursement batch.
type DisbursementResult struct {
	EmployeeID   string          `json:"employee_id"`
	EmployeeName string          `json:"employee_name,omitempty"`
	Amount       decimal.Decimal `json:"amount"`
	Status       string          `json:"status"`
	Reference    string          `json:"reference,omitempty"`
	Error        string          `json:"error,omitempty"`
}

type DisbursementSummary struct {
	Month   string               `json:"month"`
	Year    int                  `json:"year"`
	Total   int                  `json:"total"`
	Paid    int                  `json:"paid"`
	Failed  int                  `json:"failed"`
	Results []DisbursementResult `json:"results"`
}

type ListPayrollFilter struct {
	Month string
	Year  int

	// VisibleOnly restricts to employee-facing records.
	VisibleOnly bool
}

func (f *ListPayrollFilter) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(f.Month) {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month is required",
		})
	}

	if !validator.IsValidYear(f.Year) {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: "year is out of range",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// UpdatePayrollRequest adjusts the caller-editable parts of a breakdown.
// Totals are recomputed server-side; paid records reject any change.
type UpdatePayrollRequest struct {
	ID        string           `json:"-"`
	Bonus     *decimal.Decimal `json:"bonus,omitempty"`
	Advances  *decimal.Decimal `json:"advances,omitempty"`
	Loans     *decimal.Decimal `json:"loans,omitempty"`
	Other     *decimal.Decimal `json:"other,omitempty"`
	IsVisible *bool            `json:"is_visible,omitempty"`
	Status    *string          `json:"status,omitempty"`
}

func (r *UpdatePayrollRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}

	if r.Status != nil {
		allowed := []string{string(PayrollStatusPending), string(PayrollStatusProcessed)}
		if !validator.IsInSlice(*r.Status, allowed) {
			errs = append(errs, validator.ValidationError{
				Field:   "status",
				Message: "status must be pending or processed",
			})
		}
	}

	for field, v := range map[string]*decimal.Decimal{
		"bonus":    r.Bonus,
		"advances": r.Advances,
		"loans":    r.Loans,
		"other":    r.Other,
	} {
		if v != nil && v.IsNegative() {
			errs = append(errs, validator.ValidationError{
				Field:   field,
				Message: field + " must not be negative",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// StructurePreviewRequest applies an ad-hoc salary structure to a base
// salary without persisting anything.
type StructurePreviewRequest struct {
	BaseSalary decimal.Decimal      `json:"base_salary"`
	Components []StructureComponent `json:"components"`
}

func (r *StructurePreviewRequest) Validate() error {
	var errs validator.ValidationErrors

	if !r.BaseSalary.IsPositive() {
		errs = append(errs, validator.ValidationError{
			Field:   "base_salary",
			Message: "base_salary must be positive",
		})
	}

	if len(r.Components) == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "components",
			Message: "at least one component is required",
		})
	}

	for _, c := range r.Components {
		if !validator.IsInSlice(c.Kind, []string{ComponentEarning, ComponentDeduction}) {
			errs = append(errs, validator.ValidationError{
				Field:   "components",
				Message: "component kind must be earning or deduction",
			})
			break
		}
		if !validator.IsInSlice(c.Mode, []string{ModePercentage, ModeFixed}) {
			errs = append(errs, validator.ValidationError{
				Field:   "components",
				Message: "component mode must be percentage or fixed",
			})
			break
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}
