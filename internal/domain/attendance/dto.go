package attendance

import (
	"github.com/workpulse-hr/workpulse-backend-go/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

// ClockContext carries the metadata snapshot taken at clock-in/out. It is
// stored verbatim; the core does not validate it.
type ClockContext struct {
	WorkLocation string   `json:"work_location,omitempty"`
	ImageURL     *string  `json:"image_url,omitempty"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
	IPAddress    *string  `json:"ip_address,omitempty"`
}

type ClockInRequest struct {
	Context ClockContext `json:"context"`
}

func (r *ClockInRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Context.WorkLocation != "" &&
		!validator.IsInSlice(r.Context.WorkLocation, []string{LocationOffice, LocationHome}) {
		errs = append(errs, validator.ValidationError{
			Field:   "work_location",
			Message: "work_location must be office or home",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ClockOutRequest struct {
	Context ClockContext `json:"context"`
}

type BreakEntryResponse struct {
	BreakIn  string  `json:"break_in"`
	BreakOut *string `json:"break_out,omitempty"`
}

type AttendanceResponse struct {
	ID               string               `json:"id"`
	EmployeeID       string               `json:"employee_id"`
	EmployeeName     *string              `json:"employee_name,omitempty"`
	Date             string               `json:"date"`
	ClockInTime      string               `json:"clock_in_time"`
	ClockOutTime     *string              `json:"clock_out_time,omitempty"`
	Breaks           []BreakEntryResponse `json:"breaks"`
	TotalBreakMillis int64                `json:"total_break_duration_ms"`
	Status           string               `json:"status"`
	IsLateArrival    bool                 `json:"is_late_arrival"`
	IsOnTime         bool                 `json:"is_on_time"`
	IsEarlyDeparture bool                 `json:"is_early_departure"`
	GrossHours       float64              `json:"gross_hours"`
	EffectiveHours   float64              `json:"effective_hours"`
	OvertimeHours    float64              `json:"overtime_hours"`
	WorkLocation     string               `json:"work_location,omitempty"`
	BreaksUsed       int                  `json:"breaks_used"`
	MaxBreaks        int                  `json:"max_breaks"`
}

// LogsFilter bounds the aggregation window for an employee's own logs.
// Missing bounds default to the current calendar month.
type LogsFilter struct {
	StartDate *string
	EndDate   *string
}

func (f *LogsFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.StartDate != nil && *f.StartDate != "" {
		if _, ok := validator.IsValidDate(*f.StartDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}

	if f.EndDate != nil && *f.EndDate != "" {
		if _, ok := validator.IsValidDate(*f.EndDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// DailyStat is the per-day roll-up inside the logs response. A day may carry
// more than one record defensively, though the invariant forbids it.
type DailyStat struct {
	Date           string  `json:"date"`
	GrossHours     float64 `json:"gross_hours"`
	EffectiveHours float64 `json:"effective_hours"`
	OvertimeHours  float64 `json:"overtime_hours"`
	BreakCount     int     `json:"break_count"`
	Status         string  `json:"status"`
	LateArrival    bool    `json:"late_arrival"`
	EarlyDeparture bool    `json:"early_departure"`
}

// LogsSummary aggregates a date range. ComplianceRate is
// 1 - (lateArrivals+earlyDepartures)/totalDays and is deliberately not
// clamped: it goes negative when infractions exceed tracked days.
type LogsSummary struct {
	TotalDays          int     `json:"total_days"`
	PresentDays        int     `json:"present_days"`
	HalfDays           int     `json:"half_days"`
	LateArrivals       int     `json:"late_arrivals"`
	EarlyDepartures    int     `json:"early_departures"`
	TotalOvertimeHours float64 `json:"total_overtime_hours"`
	AvgEffectiveHours  float64 `json:"avg_effective_hours"`
	ComplianceRate     float64 `json:"compliance_rate"`
}

type LogsResponse struct {
	Sessions   []AttendanceResponse `json:"sessions"`
	DailyStats []DailyStat          `json:"daily_stats"`
	Summary    LogsSummary          `json:"summary"`
}

type AttendanceFilter struct {
	EmployeeID *string
	StartDate  *string
	EndDate    *string
	Status     *string

	Page  int
	Limit int
}

func (f *AttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.StartDate != nil && *f.StartDate != "" {
		if _, ok := validator.IsValidDate(*f.StartDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}

	if f.EndDate != nil && *f.EndDate != "" {
		if _, ok := validator.IsValidDate(*f.EndDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}

	if f.Status != nil && *f.Status != "" {
		valid := []string{StatusPresent, StatusOnBreak, StatusLoggedOut, StatusHalfDay, StatusAbsent}
		if !validator.IsInSlice(*f.Status, valid) {
			errs = append(errs, validator.ValidationError{
				Field:   "status",
				Message: "unknown attendance status",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ListAttendanceResponse struct {
	TotalCount  int64                `json:"total_count"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	Attendances []AttendanceResponse `json:"attendances"`
}
