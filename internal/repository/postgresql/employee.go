package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/workpulse-hr/workpulse-backend-go/internal/domain/employee"
	"github.com/workpulse-hr/workpulse-backend-go/internal/pkg/database"
)

type employeeRepository struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepository{db: db}
}

// GetByID implements employee.EmployeeRepository.
func (e *employeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		SELECT id, full_name, email, role, employment_status, basic_salary,
			   bank_account_holder, bank_account_number, bank_ifsc, bank_name,
			   joined_at, created_at, updated_at
		FROM employees
		WHERE id = $1
	`

	var emp employee.Employee
	var accountHolder, accountNumber, ifsc, bankName *string

	err := q.QueryRow(ctx, query, id).Scan(
		&emp.ID, &emp.FullName, &emp.Email, &emp.Role, &emp.EmploymentStatus, &emp.BasicSalary,
		&accountHolder, &accountNumber, &ifsc, &bankName,
		&emp.JoinedAt, &emp.CreatedAt, &emp.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}

	emp.Bank = assembleBank(accountHolder, accountNumber, ifsc, bankName)
	return emp, nil
}

// ListActive implements employee.EmployeeRepository.
func (e *employeeRepository) ListActive(ctx context.Context) ([]employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		SELECT id, full_name, email, role, employment_status, basic_salary,
			   bank_account_holder, bank_account_number, bank_ifsc, bank_name,
			   joined_at, created_at, updated_at
		FROM employees
		WHERE employment_status = $1
		ORDER BY full_name ASC
	`

	rows, err := q.Query(ctx, query, employee.StatusActive)
	if err != nil {
		return nil, fmt.Errorf("failed to list active employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		var emp employee.Employee
		var accountHolder, accountNumber, ifsc, bankName *string

		err := rows.Scan(
			&emp.ID, &emp.FullName, &emp.Email, &emp.Role, &emp.EmploymentStatus, &emp.BasicSalary,
			&accountHolder, &accountNumber, &ifsc, &bankName,
			&emp.JoinedAt, &emp.CreatedAt, &emp.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}

		emp.Bank = assembleBank(accountHolder, accountNumber, ifsc, bankName)
		employees = append(employees, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employees: %w", err)
	}

	return employees, nil
}

// assembleBank folds the flat bank columns into a BankAccount. An employee
// without an account number has no usable account at all.
func assembleBank(holder, number, ifsc, name *string) *employee.BankAccount {
	if number == nil || *number == "" {
		return nil
	}

	bank := &employee.BankAccount{AccountNumber: *number}
	if holder != nil {
		bank.AccountHolder = *holder
	}
	if ifsc != nil {
		bank.IFSC = *ifsc
	}
	if name != nil {
		bank.BankName = *name
	}
	return bank
}
