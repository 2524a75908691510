package payroll

import (
	"github.com/shopspring/decimal"
	"github.com/workpulse-hr/workpulse-backend-go/internal/domain/payroll"
)

// Statutory rates and fixed allowances applied by the default breakdown.
// Percentages are of basic salary; fixed amounts are per month.
var (
	hraRate        = decimal.NewFromFloat(0.40)
	pfRate         = decimal.NewFromFloat(0.12)
	esiEmployerPct = decimal.NewFromFloat(0.0325)
	esiEmployeePct = decimal.NewFromFloat(0.0075)
	incomeTaxRate  = decimal.NewFromFloat(0.10)

	transportAllowance = decimal.NewFromInt(2000)
	medicalAllowance   = decimal.NewFromInt(1500)
	professionalTax    = decimal.NewFromInt(200)
)

// AttendanceSnapshot is the per-employee attendance summary feeding the
// pro-rated breakdown.
type AttendanceSnapshot struct {
	WorkingDays   int
	PresentDays   int
	HalfDays      int
	LeaveDays     float64
	OvertimeHours float64
}

// DefaultBreakdown computes the statutory earnings/deductions breakdown for a
// full month at the given basic salary. Every component is rounded to whole
// currency units.
func DefaultBreakdown(basic decimal.Decimal) (payroll.Earnings, payroll.Deductions) {
	earnings := payroll.Earnings{
		BasicWage:          basic.Round(0),
		HouseRentAllowance: basic.Mul(hraRate).Round(0),
		TransportAllowance: transportAllowance,
		MedicalAllowance:   medicalAllowance,
		PFEmployer:         basic.Mul(pfRate).Round(0),
		ESIEmployer:        basic.Mul(esiEmployerPct).Round(0),
	}

	deductions := payroll.Deductions{
		PFEmployee:      basic.Mul(pfRate).Round(0),
		ESIEmployee:     basic.Mul(esiEmployeePct).Round(0),
		ProfessionalTax: professionalTax,
		IncomeTax:       basic.Mul(incomeTaxRate).Round(0),
	}

	return earnings, deductions
}

// ProratedBreakdown computes the breakdown for a month with absences. Unpaid
// days reduce only the basic wage component; allowances and statutory
// contributions stay anchored to the contractual basic salary. Half days
// count as half attendance and approved leave days count as full attendance.
func ProratedBreakdown(basic decimal.Decimal, snap AttendanceSnapshot) (payroll.Earnings, payroll.Deductions) {
	earnings, deductions := DefaultBreakdown(basic)

	if snap.WorkingDays <= 0 {
		return earnings, deductions
	}

	workingDays := decimal.NewFromInt(int64(snap.WorkingDays))
	perDayRate := basic.Div(workingDays)

	effectivePresent := decimal.NewFromInt(int64(snap.PresentDays)).
		Add(decimal.NewFromInt(int64(snap.HalfDays)).Div(decimal.NewFromInt(2))).
		Add(decimal.NewFromFloat(snap.LeaveDays))

	unpaidDays := workingDays.Sub(effectivePresent)
	if unpaidDays.IsNegative() {
		unpaidDays = decimal.Zero
	}

	adjustedBasic := basic.Sub(unpaidDays.Mul(perDayRate)).Round(0)
	if adjustedBasic.IsNegative() {
		adjustedBasic = decimal.Zero
	}
	earnings.BasicWage = adjustedBasic

	if snap.OvertimeHours > 0 {
		hourlyRate := perDayRate.Div(decimal.NewFromInt(8))
		earnings.OvertimePay = decimal.NewFromFloat(snap.OvertimeHours).Mul(hourlyRate).Round(0)
	}

	return earnings, deductions
}
