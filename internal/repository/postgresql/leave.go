package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/workpulse-hr/workpulse-backend-go/internal/domain/leave"
	"github.com/workpulse-hr/workpulse-backend-go/internal/pkg/database"
)

type leaveRepository struct {
	db *database.DB
}

func NewLeaveRepository(db *database.DB) leave.LeaveRepository {
	return &leaveRepository{db: db}
}

// ListApprovedOverlapping implements leave.LeaveRepository.
func (l *leaveRepository) ListApprovedOverlapping(ctx context.Context, employeeID string, start, end time.Time) ([]leave.Leave, error) {
	q := GetQuerier(ctx, l.db)

	query := `
		SELECT id, employee_id, start_date, end_date, status, leave_type, created_at
		FROM leaves
		WHERE employee_id = $1
		  AND status = $2
		  AND start_date <= $3
		  AND end_date >= $4
		ORDER BY start_date ASC
	`

	rows, err := q.Query(ctx, query, employeeID, leave.StatusApproved, end, start)
	if err != nil {
		return nil, fmt.Errorf("failed to list approved leaves: %w", err)
	}
	defer rows.Close()

	var leaves []leave.Leave
	for rows.Next() {
		var lv leave.Leave
		err := rows.Scan(
			&lv.ID, &lv.EmployeeID, &lv.StartDate, &lv.EndDate, &lv.Status, &lv.LeaveType, &lv.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave: %w", err)
		}
		leaves = append(leaves, lv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate leaves: %w", err)
	}

	return leaves, nil
}
