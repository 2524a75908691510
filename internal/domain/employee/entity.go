package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

// Employment statuses.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// BankAccount holds the disbursement beneficiary details.
type BankAccount struct {
	AccountHolder string
	AccountNumber string
	IFSC          string
	BankName      string
}

// Employee is the directory record the attendance/payroll core reads from.
// Registration and profile management live outside this service.
type Employee struct {
	ID               string
	FullName         string
	Email            string
	Role             string
	EmploymentStatus string
	BasicSalary      *decimal.Decimal
	Bank             *BankAccount
	JoinedAt         *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IsSalaried reports whether the employee participates in payroll runs.
func (e Employee) IsSalaried() bool {
	return e.BasicSalary != nil && e.BasicSalary.IsPositive()
}
