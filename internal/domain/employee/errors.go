package employee

import "errors"

var (
	ErrEmployeeNotFound  = errors.New("employee not found")
	ErrNoBankAccount     = errors.New("employee has no bank account on record")
	ErrInvalidIFSC       = errors.New("employee bank account has an invalid IFSC code")
	ErrInvalidAccount    = errors.New("employee bank account number is invalid")
	ErrNoBasicSalary     = errors.New("employee has no basic salary configured")
	ErrEmployeeNotActive = errors.New("employee is not active")
)
