package payroll

import "errors"

var (
	ErrPayrollRecordNotFound      = errors.New("payroll record not found")
	ErrPayrollRecordAlreadyExists = errors.New("payroll record already exists for this period")
	ErrPayrollRecordAlreadyPaid   = errors.New("payroll record already paid, cannot modify")
	ErrInvalidPeriod              = errors.New("invalid payroll period")
)
