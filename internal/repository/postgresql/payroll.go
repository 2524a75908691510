package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/workpulse-hr/workpulse-backend-go/internal/domain/payroll"
	"github.com/workpulse-hr/workpulse-backend-go/internal/pkg/database"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

// The earnings, deductions and payment columns are JSONB; the breakdown
// structs scan directly.
const payrollColumns = `
	id, employee_id, month, year, basic_salary,
	earnings, deductions, ctc, in_hand_salary,
	status, is_visible, paid_date, payment,
	created_at, updated_at
`

func scanPayroll(row pgx.Row, record *payroll.Payroll) error {
	return row.Scan(
		&record.ID, &record.EmployeeID, &record.Month, &record.Year, &record.BasicSalary,
		&record.Earnings, &record.Deductions, &record.CTC, &record.InHandSalary,
		&record.Status, &record.IsVisible, &record.PaidDate, &record.Payment,
		&record.CreatedAt, &record.UpdatedAt,
	)
}

// Create implements payroll.PayrollRepository. The (employee_id, month, year)
// unique constraint backs the one-record-per-period invariant.
func (p *payrollRepository) Create(ctx context.Context, record payroll.Payroll) (payroll.Payroll, error) {
	q := GetQuerier(ctx, p.db)

	query := `
		INSERT INTO payrolls (
			employee_id, month, year, basic_salary,
			earnings, deductions, ctc, in_hand_salary,
			status, is_visible
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		record.EmployeeID,
		record.Month,
		record.Year,
		record.BasicSalary,
		record.Earnings,
		record.Deductions,
		record.CTC,
		record.InHandSalary,
		record.Status,
		record.IsVisible,
	).Scan(&record.ID, &record.CreatedAt, &record.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return payroll.Payroll{}, payroll.ErrPayrollRecordAlreadyExists
		}
		return payroll.Payroll{}, fmt.Errorf("failed to create payroll record: %w", err)
	}

	return record, nil
}

// GetByID implements payroll.PayrollRepository.
func (p *payrollRepository) GetByID(ctx context.Context, id string) (payroll.Payroll, error) {
	q := GetQuerier(ctx, p.db)

	query := `
		SELECT ` + payrollColumns + `
		FROM payrolls
		WHERE id = $1
	`

	var record payroll.Payroll
	if err := scanPayroll(q.QueryRow(ctx, query, id), &record); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Payroll{}, payroll.ErrPayrollRecordNotFound
		}
		return payroll.Payroll{}, fmt.Errorf("failed to get payroll record: %w", err)
	}

	return record, nil
}

// GetByEmployeePeriod implements payroll.PayrollRepository.
func (p *payrollRepository) GetByEmployeePeriod(ctx context.Context, employeeID string, month string, year int) (payroll.Payroll, error) {
	q := GetQuerier(ctx, p.db)

	query := `
		SELECT ` + payrollColumns + `
		FROM payrolls
		WHERE employee_id = $1
		  AND month = $2
		  AND year = $3
		LIMIT 1
	`

	var record payroll.Payroll
	if err := scanPayroll(q.QueryRow(ctx, query, employeeID, month, year), &record); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Payroll{}, payroll.ErrPayrollRecordNotFound
		}
		return payroll.Payroll{}, fmt.Errorf("failed to get payroll record: %w", err)
	}

	return record, nil
}

// ListByPeriod implements payroll.PayrollRepository.
func (p *payrollRepository) ListByPeriod(ctx context.Context, month string, year int) ([]payroll.Payroll, error) {
	q := GetQuerier(ctx, p.db)

	query := `
		SELECT
			pr.id, pr.employee_id, pr.month, pr.year, pr.basic_salary,
			pr.earnings, pr.deductions, pr.ctc, pr.in_hand_salary,
			pr.status, pr.is_visible, pr.paid_date, pr.payment,
			pr.created_at, pr.updated_at,
			e.full_name
		FROM payrolls pr
		JOIN employees e ON e.id = pr.employee_id
		WHERE pr.month = $1
		  AND pr.year = $2
		ORDER BY e.full_name ASC
	`

	rows, err := q.Query(ctx, query, month, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll records: %w", err)
	}
	defer rows.Close()

	var records []payroll.Payroll
	for rows.Next() {
		var record payroll.Payroll
		err := rows.Scan(
			&record.ID, &record.EmployeeID, &record.Month, &record.Year, &record.BasicSalary,
			&record.Earnings, &record.Deductions, &record.CTC, &record.InHandSalary,
			&record.Status, &record.IsVisible, &record.PaidDate, &record.Payment,
			&record.CreatedAt, &record.UpdatedAt,
			&record.EmployeeName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll record: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payroll records: %w", err)
	}

	return records, nil
}

// Update implements payroll.PayrollRepository.
func (p *payrollRepository) Update(ctx context.Context, record payroll.Payroll) error {
	q := GetQuerier(ctx, p.db)

	query := `
		UPDATE payrolls SET
			earnings = $2,
			deductions = $3,
			ctc = $4,
			in_hand_salary = $5,
			status = $6,
			is_visible = $7,
			paid_date = $8,
			payment = $9,
			updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query,
		record.ID,
		record.Earnings,
		record.Deductions,
		record.CTC,
		record.InHandSalary,
		record.Status,
		record.IsVisible,
		record.PaidDate,
		record.Payment,
	)
	if err != nil {
		return fmt.Errorf("failed to update payroll record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrPayrollRecordNotFound
	}

	return nil
}
