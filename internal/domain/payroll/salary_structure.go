package payroll

import "github.com/shopspring/decimal"

// Structure component kinds and modes.
const (
	ComponentEarning   = "earning"
	ComponentDeduction = "deduction"

	ModePercentage = "percentage"
	ModeFixed      = "fixed"
)

// StructureComponent is one line item in a salary structure: either a
// percentage of base salary or a fixed amount.
type StructureComponent struct {
	Name  string          `json:"name"`
	Kind  string          `json:"kind"`
	Mode  string          `json:"mode"`
	Value decimal.Decimal `json:"value"`
}

// Amount resolves the line item against a base salary.
func (c StructureComponent) Amount(base decimal.Decimal) decimal.Decimal {
	if c.Mode == ModePercentage {
		return base.Mul(c.Value).Div(decimal.NewFromInt(100)).Round(0)
	}
	return c.Value
}

// SalaryStructure is the alternative, component-driven calculation strategy.
// It deliberately shares no code with the statutory default calculator.
type SalaryStructure struct {
	Components []StructureComponent
}

// StructureLine is a resolved line item in a structure calculation.
type StructureLine struct {
	Name   string          `json:"name"`
	Kind   string          `json:"kind"`
	Amount decimal.Decimal `json:"amount"`
}

// StructureResult is the outcome of applying a structure to a base salary.
type StructureResult struct {
	BaseSalary      decimal.Decimal `json:"base_salary"`
	Lines           []StructureLine `json:"lines"`
	TotalEarnings   decimal.Decimal `json:"total_earnings"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	NetSalary       decimal.Decimal `json:"net_salary"`
}

// CalculateSalary resolves every component against the base salary and sums
// earnings and deductions independently.
func (s SalaryStructure) CalculateSalary(base decimal.Decimal) StructureResult {
	result := StructureResult{
		BaseSalary:      base,
		TotalEarnings:   decimal.Zero,
		TotalDeductions: decimal.Zero,
	}

	for _, c := range s.Components {
		amount := c.Amount(base)
		result.Lines = append(result.Lines, StructureLine{
			Name:   c.Name,
			Kind:   c.Kind,
			Amount: amount,
		})
		if c.Kind == ComponentDeduction {
			result.TotalDeductions = result.TotalDeductions.Add(amount)
		} else {
			result.TotalEarnings = result.TotalEarnings.Add(amount)
		}
	}

	result.NetSalary = result.TotalEarnings.Sub(result.TotalDeductions)
	return result
}
