package attendance

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/workpulse-hr/workpulse-backend-go/internal/config"
	"github.com/workpulse-hr/workpulse-backend-go/internal/domain/attendance"
	"github.com/workpulse-hr/workpulse-backend-go/internal/domain/notification"
	"github.com/workpulse-hr/workpulse-backend-go/internal/pkg/timeutil"
)

type AttendanceServiceImpl struct {
	attendanceRepo attendance.AttendanceRepository
	office         config.OfficeConfig
	sink           notification.Sink
	now            func() time.Time
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	office config.OfficeConfig,
	sink notification.Sink,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		attendanceRepo: attendanceRepo,
		office:         office,
		sink:           sink,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// employeeIDFromContext resolves the acting employee from the JWT claims.
func employeeIDFromContext(ctx context.Context) (string, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	employeeID, ok := claims["employee_id"].(string)
	if !ok || employeeID == "" {
		return "", fmt.Errorf("employee_id claim is missing or invalid")
	}

	return employeeID, nil
}

// ClockIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ClockIn(ctx context.Context, req attendance.ClockInRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	employeeID, err := employeeIDFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	now := a.now()
	today := timeutil.DateOnly(now)

	existing, err := a.attendanceRepo.GetByEmployeeAndDate(ctx, employeeID, today)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to check today's attendance: %w", err)
	}
	if existing != nil {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyClockedIn
	}

	officeStart := timeutil.AtTimeOfDay(now, a.office.StartHour, a.office.StartMinute)
	isLate := now.After(officeStart)

	record := attendance.Attendance{
		EmployeeID:    employeeID,
		Date:          today,
		ClockIn:       now,
		IsLateArrival: isLate,
		IsOnTime:      !isLate,
		WorkLocation:  req.Context.WorkLocation,

		// Context metadata is stored verbatim, no validation.
		ClockInImageURL:  req.Context.ImageURL,
		ClockInLatitude:  req.Context.Latitude,
		ClockInLongitude: req.Context.Longitude,
		ClockInIPAddress: req.Context.IPAddress,
	}
	record.RecomputeStatus()

	created, err := a.attendanceRepo.Create(ctx, record)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to create attendance record: %w", err)
	}

	a.sink.Notify(ctx, notification.Event{
		Type:        notification.TypeClockedIn,
		RecipientID: employeeID,
		Title:       "Clocked in",
		Message:     fmt.Sprintf("Clocked in at %s", now.Format("15:04")),
		Data: map[string]interface{}{
			"attendance_id": created.ID,
			"late":          isLate,
		},
	})

	return a.mapToResponse(created), nil
}

// BreakIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) BreakIn(ctx context.Context) (attendance.AttendanceResponse, error) {
	employeeID, err := employeeIDFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	now := a.now()

	record, err := a.attendanceRepo.GetByEmployeeAndDate(ctx, employeeID, timeutil.DateOnly(now))
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to load today's attendance: %w", err)
	}
	if record == nil {
		return attendance.AttendanceResponse{}, attendance.ErrNoClockInRecord
	}

	// Breaks abandoned past the orphan threshold are closed lazily here,
	// never by a background sweep.
	record.ReapOrphanBreaks(now, a.office.OrphanBreakTimeout)
	record.RecomputeStatus()

	if record.HasOpenBreak() {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyOnBreak
	}

	if record.CompletedBreaks() >= a.office.MaxBreaksPerDay {
		// Persist any reaping that happened before the limit was hit.
		if err := a.attendanceRepo.Update(ctx, *record); err != nil {
			return attendance.AttendanceResponse{}, fmt.Errorf("failed to update attendance record: %w", err)
		}
		return attendance.AttendanceResponse{}, attendance.ErrBreakLimitExceeded
	}

	record.OpenBreak(now)
	record.RecomputeStatus()

	if err := a.attendanceRepo.Update(ctx, *record); err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to update attendance record: %w", err)
	}

	return a.mapToResponse(*record), nil
}

// BreakOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) BreakOut(ctx context.Context) (attendance.AttendanceResponse, error) {
	employeeID, err := employeeIDFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	now := a.now()

	record, err := a.attendanceRepo.GetByEmployeeAndDate(ctx, employeeID, timeutil.DateOnly(now))
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to load today's attendance: %w", err)
	}
	if record == nil {
		return attendance.AttendanceResponse{}, attendance.ErrNoActiveBreak
	}

	if !record.CloseBreak(now) {
		return attendance.AttendanceResponse{}, attendance.ErrNoActiveBreak
	}
	record.RecomputeStatus()

	if err := a.attendanceRepo.Update(ctx, *record); err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to update attendance record: %w", err)
	}

	return a.mapToResponse(*record), nil
}

// ClockOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ClockOut(ctx context.Context, req attendance.ClockOutRequest) (attendance.AttendanceResponse, error) {
	employeeID, err := employeeIDFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	now := a.now()

	record, err := a.attendanceRepo.GetByEmployeeAndDate(ctx, employeeID, timeutil.DateOnly(now))
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to load today's attendance: %w", err)
	}
	if record == nil || record.ClockOut != nil {
		return attendance.AttendanceResponse{}, attendance.ErrNoOpenSession
	}

	// Clock-out stays blocked until the break is explicitly ended.
	if record.HasOpenBreak() {
		return attendance.AttendanceResponse{}, attendance.ErrBreakStillActive
	}

	officeEnd := timeutil.AtTimeOfDay(now, a.office.EndHour, a.office.EndMinute)
	record.FinalizeClockOut(now, officeEnd)

	record.ClockOutImageURL = req.Context.ImageURL
	record.ClockOutLatitude = req.Context.Latitude
	record.ClockOutLongitude = req.Context.Longitude
	record.ClockOutIPAddress = req.Context.IPAddress

	if err := a.attendanceRepo.Update(ctx, *record); err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to update attendance record: %w", err)
	}

	a.sink.Notify(ctx, notification.Event{
		Type:        notification.TypeClockedOut,
		RecipientID: employeeID,
		Title:       "Clocked out",
		Message:     fmt.Sprintf("Clocked out at %s", now.Format("15:04")),
		Data: map[string]interface{}{
			"attendance_id":   record.ID,
			"effective_hours": record.EffectiveHours,
			"status":          record.Status,
		},
	})

	return a.mapToResponse(*record), nil
}

// GetLogs implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetLogs(ctx context.Context, filter attendance.LogsFilter) (attendance.LogsResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.LogsResponse{}, err
	}

	employeeID, err := employeeIDFromContext(ctx)
	if err != nil {
		return attendance.LogsResponse{}, err
	}

	now := a.now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := timeutil.DateOnly(now)

	if filter.StartDate != nil && *filter.StartDate != "" {
		start, _ = time.Parse("2006-01-02", *filter.StartDate)
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		end, _ = time.Parse("2006-01-02", *filter.EndDate)
	}

	records, err := a.attendanceRepo.ListByEmployeeAndRange(ctx, employeeID, start, end)
	if err != nil {
		return attendance.LogsResponse{}, fmt.Errorf("failed to list attendance records: %w", err)
	}

	sessions := make([]attendance.AttendanceResponse, 0, len(records))
	for _, rec := range records {
		sessions = append(sessions, a.mapToResponse(rec))
	}

	dailyStats := rollUpByDay(records)
	summary := summarize(records, dailyStats)

	return attendance.LogsResponse{
		Sessions:   sessions,
		DailyStats: dailyStats,
		Summary:    summary,
	}, nil
}

// rollUpByDay groups records by calendar day, summing hour metrics. The
// single-record-per-day invariant should hold, but the roll-up tolerates
// duplicates rather than double-reporting a day.
func rollUpByDay(records []attendance.Attendance) []attendance.DailyStat {
	byDay := make(map[string]*attendance.DailyStat)
	var order []string

	for _, rec := range records {
		day := rec.Date.Format("2006-01-02")
		stat, ok := byDay[day]
		if !ok {
			stat = &attendance.DailyStat{Date: day, Status: rec.Status}
			byDay[day] = stat
			order = append(order, day)
		}
		stat.GrossHours += rec.GrossHours
		stat.EffectiveHours += rec.EffectiveHours
		stat.OvertimeHours += rec.OvertimeHours
		stat.BreakCount += len(rec.Breaks)
		stat.LateArrival = stat.LateArrival || rec.IsLateArrival
		stat.EarlyDeparture = stat.EarlyDeparture || rec.IsEarlyDeparture
	}

	sort.Strings(order)
	stats := make([]attendance.DailyStat, 0, len(order))
	for _, day := range order {
		stats = append(stats, *byDay[day])
	}
	return stats
}

func summarize(records []attendance.Attendance, dailyStats []attendance.DailyStat) attendance.LogsSummary {
	summary := attendance.LogsSummary{
		TotalDays:      len(dailyStats),
		ComplianceRate: 1,
	}

	var totalEffective float64
	for _, rec := range records {
		switch rec.Status {
		case attendance.StatusHalfDay:
			summary.HalfDays++
		case attendance.StatusPresent, attendance.StatusOnBreak, attendance.StatusLoggedOut:
			summary.PresentDays++
		}
		if rec.IsLateArrival {
			summary.LateArrivals++
		}
		if rec.IsEarlyDeparture {
			summary.EarlyDepartures++
		}
		summary.TotalOvertimeHours += rec.OvertimeHours
		totalEffective += rec.EffectiveHours
	}

	if summary.TotalDays > 0 {
		summary.AvgEffectiveHours = timeutil.Round2(totalEffective / float64(summary.TotalDays))
		// Not clamped: more infractions than tracked days drives the
		// rate below zero.
		infractions := float64(summary.LateArrivals + summary.EarlyDepartures)
		summary.ComplianceRate = 1 - infractions/float64(summary.TotalDays)
	}
	summary.TotalOvertimeHours = timeutil.Round2(summary.TotalOvertimeHours)

	return summary
}

// ListAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListAttendance(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}

	records, total, err := a.attendanceRepo.List(ctx, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendances: %w", err)
	}

	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, rec := range records {
		responses = append(responses, a.mapToResponse(rec))
	}

	return attendance.ListAttendanceResponse{
		TotalCount:  total,
		Page:        filter.Page,
		Limit:       filter.Limit,
		Attendances: responses,
	}, nil
}

// timePtrToString safely converts a *time.Time to a string.
func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.Format("2006-01-02 15:04:05")
	return &format
}

func (a *AttendanceServiceImpl) mapToResponse(att attendance.Attendance) attendance.AttendanceResponse {
	breaks := make([]attendance.BreakEntryResponse, 0, len(att.Breaks))
	for _, b := range att.Breaks {
		breaks = append(breaks, attendance.BreakEntryResponse{
			BreakIn:  b.BreakIn.Format("2006-01-02 15:04:05"),
			BreakOut: timePtrToString(b.BreakOut),
		})
	}

	return attendance.AttendanceResponse{
		ID:               att.ID,
		EmployeeID:       att.EmployeeID,
		EmployeeName:     att.EmployeeName,
		Date:             att.Date.Format("2006-01-02"),
		ClockInTime:      att.ClockIn.Format("2006-01-02 15:04:05"),
		ClockOutTime:     timePtrToString(att.ClockOut),
		Breaks:           breaks,
		TotalBreakMillis: att.TotalBreakMillis,
		Status:           att.Status,
		IsLateArrival:    att.IsLateArrival,
		IsOnTime:         att.IsOnTime,
		IsEarlyDeparture: att.IsEarlyDeparture,
		GrossHours:       att.GrossHours,
		EffectiveHours:   att.EffectiveHours,
		OvertimeHours:    att.OvertimeHours,
		WorkLocation:     att.WorkLocation,
		BreaksUsed:       len(att.Breaks),
		MaxBreaks:        a.office.MaxBreaksPerDay,
	}
}
