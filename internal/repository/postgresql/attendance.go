package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/workpulse-hr/workpulse-backend-go/internal/domain/attendance"
	"github.com/workpulse-hr/workpulse-backend-go/internal/pkg/database"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

// attendanceColumns is the shared select list. The breaks column is JSONB and
// scans straight into the ordered break list.
const attendanceColumns = `
	id, employee_id, date, clock_in, clock_out,
	breaks, total_break_ms, status,
	is_late_arrival, is_on_time, is_early_departure,
	gross_hours, effective_hours, overtime_hours, work_location,
	clock_in_image_url, clock_in_latitude, clock_in_longitude, clock_in_ip,
	clock_out_image_url, clock_out_latitude, clock_out_longitude, clock_out_ip,
	created_at, updated_at
`

func scanAttendance(row pgx.Row, att *attendance.Attendance) error {
	return row.Scan(
		&att.ID, &att.EmployeeID, &att.Date, &att.ClockIn, &att.ClockOut,
		&att.Breaks, &att.TotalBreakMillis, &att.Status,
		&att.IsLateArrival, &att.IsOnTime, &att.IsEarlyDeparture,
		&att.GrossHours, &att.EffectiveHours, &att.OvertimeHours, &att.WorkLocation,
		&att.ClockInImageURL, &att.ClockInLatitude, &att.ClockInLongitude, &att.ClockInIPAddress,
		&att.ClockOutImageURL, &att.ClockOutLatitude, &att.ClockOutLongitude, &att.ClockOutIPAddress,
		&att.CreatedAt, &att.UpdatedAt,
	)
}

// Create implements attendance.AttendanceRepository.
func (a *attendanceRepository) Create(ctx context.Context, newAttendance attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendances (
			employee_id, date, clock_in, breaks, total_break_ms, status,
			is_late_arrival, is_on_time, work_location,
			clock_in_image_url, clock_in_latitude, clock_in_longitude, clock_in_ip
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
		) RETURNING id, created_at, updated_at
	`

	if newAttendance.Breaks == nil {
		newAttendance.Breaks = []attendance.BreakEntry{}
	}

	err := q.QueryRow(ctx, query,
		newAttendance.EmployeeID,
		newAttendance.Date,
		newAttendance.ClockIn,
		newAttendance.Breaks,
		newAttendance.TotalBreakMillis,
		newAttendance.Status,
		newAttendance.IsLateArrival,
		newAttendance.IsOnTime,
		newAttendance.WorkLocation,
		newAttendance.ClockInImageURL,
		newAttendance.ClockInLatitude,
		newAttendance.ClockInLongitude,
		newAttendance.ClockInIPAddress,
	).Scan(&newAttendance.ID, &newAttendance.CreatedAt, &newAttendance.UpdatedAt)

	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return newAttendance, nil
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE employee_id = $1
		  AND date = $2
		LIMIT 1
	`

	var att attendance.Attendance
	err := scanAttendance(q.QueryRow(ctx, query, employeeID, date), &att)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance by date: %w", err)
	}

	return &att, nil
}

// Update implements attendance.AttendanceRepository. The whole mutable part
// of the record is written back in one statement, matching the
// read-modify-write cycle the services perform.
func (a *attendanceRepository) Update(ctx context.Context, att attendance.Attendance) error {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendances SET
			clock_out = $2,
			breaks = $3,
			total_break_ms = $4,
			status = $5,
			is_early_departure = $6,
			gross_hours = $7,
			effective_hours = $8,
			overtime_hours = $9,
			clock_out_image_url = $10,
			clock_out_latitude = $11,
			clock_out_longitude = $12,
			clock_out_ip = $13,
			updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query,
		att.ID,
		att.ClockOut,
		att.Breaks,
		att.TotalBreakMillis,
		att.Status,
		att.IsEarlyDeparture,
		att.GrossHours,
		att.EffectiveHours,
		att.OvertimeHours,
		att.ClockOutImageURL,
		att.ClockOutLatitude,
		att.ClockOutLongitude,
		att.ClockOutIPAddress,
	)
	if err != nil {
		return fmt.Errorf("failed to update attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}

	return nil
}

// ListByEmployeeAndRange implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByEmployeeAndRange(ctx context.Context, employeeID string, start, end time.Time) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE employee_id = $1
		  AND date >= $2
		  AND date <= $3
		ORDER BY date ASC
	`

	rows, err := q.Query(ctx, query, employeeID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendances by range: %w", err)
	}
	defer rows.Close()

	var records []attendance.Attendance
	for rows.Next() {
		var att attendance.Attendance
		if err := scanAttendance(rows, &att); err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, att)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendances: %w", err)
	}

	return records, nil
}

// List implements attendance.AttendanceRepository.
func (a *attendanceRepository) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, a.db)

	var conditions []string
	var args []interface{}
	argIdx := 1

	addCondition := func(cond string, value interface{}) {
		conditions = append(conditions, fmt.Sprintf(cond, argIdx))
		args = append(args, value)
		argIdx++
	}

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		addCondition("a.employee_id = $%d", *filter.EmployeeID)
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		addCondition("a.date >= $%d", *filter.StartDate)
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		addCondition("a.date <= $%d", *filter.EndDate)
	}
	if filter.Status != nil && *filter.Status != "" {
		addCondition("a.status = $%d", *filter.Status)
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT COUNT(*) FROM attendances a " + whereClause
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendances: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT
			a.id, a.employee_id, a.date, a.clock_in, a.clock_out,
			a.breaks, a.total_break_ms, a.status,
			a.is_late_arrival, a.is_on_time, a.is_early_departure,
			a.gross_hours, a.effective_hours, a.overtime_hours, a.work_location,
			a.clock_in_image_url, a.clock_in_latitude, a.clock_in_longitude, a.clock_in_ip,
			a.clock_out_image_url, a.clock_out_latitude, a.clock_out_longitude, a.clock_out_ip,
			a.created_at, a.updated_at,
			e.full_name
		FROM attendances a
		JOIN employees e ON e.id = a.employee_id
		%s
		ORDER BY a.date DESC, a.clock_in DESC
		LIMIT $%d OFFSET $%d
	`, whereClause, argIdx, argIdx+1)

	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendances: %w", err)
	}
	defer rows.Close()

	var records []attendance.Attendance
	for rows.Next() {
		var att attendance.Attendance
		err := rows.Scan(
			&att.ID, &att.EmployeeID, &att.Date, &att.ClockIn, &att.ClockOut,
			&att.Breaks, &att.TotalBreakMillis, &att.Status,
			&att.IsLateArrival, &att.IsOnTime, &att.IsEarlyDeparture,
			&att.GrossHours, &att.EffectiveHours, &att.OvertimeHours, &att.WorkLocation,
			&att.ClockInImageURL, &att.ClockInLatitude, &att.ClockInLongitude, &att.ClockInIPAddress,
			&att.ClockOutImageURL, &att.ClockOutLatitude, &att.ClockOutLongitude, &att.ClockOutIPAddress,
			&att.CreatedAt, &att.UpdatedAt,
			&att.EmployeeName,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, att)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate attendances: %w", err)
	}

	return records, total, nil
}
