package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayrollStatus enum
type PayrollStatus string

const (
	PayrollStatusPending   PayrollStatus = "pending"
	PayrollStatusProcessed PayrollStatus = "processed"
	PayrollStatusPaid      PayrollStatus = "paid"
)

// PaymentStatus enum for the disbursement sub-record.
type PaymentStatus string

const (
	PaymentStatusSuccess PaymentStatus = "success"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// Earnings is the per-record earnings breakdown. TotalEarnings is always
// recomputed from the other fields, never stored independently.
type Earnings struct {
	BasicWage          decimal.Decimal `json:"basic_wage"`
	HouseRentAllowance decimal.Decimal `json:"house_rent_allowance"`
	TransportAllowance decimal.Decimal `json:"transport_allowance"`
	MedicalAllowance   decimal.Decimal `json:"medical_allowance"`
	OvertimePay        decimal.Decimal `json:"overtime_pay"`
	Bonus              decimal.Decimal `json:"bonus"`
	PFEmployer         decimal.Decimal `json:"pf_employer"`
	ESIEmployer        decimal.Decimal `json:"esi_employer"`
	TotalEarnings      decimal.Decimal `json:"total_earnings"`
}

// Sum recomputes the earnings total from the breakdown.
func (e Earnings) Sum() decimal.Decimal {
	return e.BasicWage.
		Add(e.HouseRentAllowance).
		Add(e.TransportAllowance).
		Add(e.MedicalAllowance).
		Add(e.OvertimePay).
		Add(e.Bonus).
		Add(e.PFEmployer).
		Add(e.ESIEmployer)
}

// Deductions is the per-record deductions breakdown. Total is always
// recomputed from the other fields.
type Deductions struct {
	PFEmployee      decimal.Decimal `json:"pf_employee"`
	ESIEmployee     decimal.Decimal `json:"esi_employee"`
	ProfessionalTax decimal.Decimal `json:"professional_tax"`
	IncomeTax       decimal.Decimal `json:"income_tax"`
	Advances        decimal.Decimal `json:"advances"`
	Loans           decimal.Decimal `json:"loans"`
	Other           decimal.Decimal `json:"other"`
	Total           decimal.Decimal `json:"total"`
}

// Sum recomputes the deductions total from the breakdown.
func (d Deductions) Sum() decimal.Decimal {
	return d.PFEmployee.
		Add(d.ESIEmployee).
		Add(d.ProfessionalTax).
		Add(d.IncomeTax).
		Add(d.Advances).
		Add(d.Loans).
		Add(d.Other)
}

// Payment records the outcome of a disbursement attempt. It is the only part
// of a paid record that may still change.
type Payment struct {
	Provider    string        `json:"provider"`
	Reference   string        `json:"reference,omitempty"`
	Status      PaymentStatus `json:"status"`
	Error       *string       `json:"error,omitempty"`
	ProcessedAt time.Time     `json:"processed_at"`
}

// Payroll is one record per (employee, month, year).
type Payroll struct {
	ID           string
	EmployeeID   string
	Month        string // English month name, e.g. "January"
	Year         int
	BasicSalary  decimal.Decimal
	Earnings     Earnings
	Deductions   Deductions
	CTC          decimal.Decimal
	InHandSalary decimal.Decimal
	Status       PayrollStatus
	IsVisible    bool
	PaidDate     *time.Time
	Payment      *Payment
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Joined fields
	EmployeeName *string
}

// RecomputeTotals derives the totals, CTC and in-hand salary from the
// earnings/deductions breakdowns. Every mutation of a breakdown must be
// followed by this call; totals are never accepted from callers.
func (p *Payroll) RecomputeTotals() {
	p.Earnings.TotalEarnings = p.Earnings.Sum()
	p.Deductions.Total = p.Deductions.Sum()
	p.CTC = p.Earnings.TotalEarnings
	p.InHandSalary = p.Earnings.TotalEarnings.Sub(p.Deductions.Total)
}

// Disbursable reports whether the record is eligible for a transfer attempt.
// Paid records are excluded, which is what makes re-running a disbursement
// batch idempotent.
func (p *Payroll) Disbursable() bool {
	return p.Status == PayrollStatusPending || p.Status == PayrollStatusProcessed
}
