package attendance

import (
	"time"

	"github.com/workpulse-hr/workpulse-backend-go/internal/pkg/timeutil"
)

// Attendance statuses. Status is a projection over the record's fields and is
// recomputed after every mutation, never set independently.
const (
	StatusPresent   = "present"
	StatusOnBreak   = "on_break"
	StatusLoggedOut = "logged_out"
	StatusHalfDay   = "half_day"
	StatusAbsent    = "absent"
)

// Work locations captured at clock-in.
const (
	LocationOffice = "office"
	LocationHome   = "home"
)

// HalfDayThresholdHours demotes a session at clock-out when effective hours
// fall below it.
const HalfDayThresholdHours = 4.0

// StandardWorkdayHours is the boundary above which effective hours count as
// overtime.
const StandardWorkdayHours = 8.0

// BreakEntry is one entry in the ordered break list embedded in an
// attendance record. An entry is active iff BreakOut is unset.
type BreakEntry struct {
	BreakIn  time.Time  `json:"break_in"`
	BreakOut *time.Time `json:"break_out,omitempty"`
}

// Active reports whether the break is still open.
func (b BreakEntry) Active() bool {
	return b.BreakOut == nil
}

// Attendance is one record per employee per calendar day.
type Attendance struct {
	ID               string
	EmployeeID       string
	Date             time.Time
	ClockIn          time.Time
	ClockOut         *time.Time
	Breaks           []BreakEntry
	TotalBreakMillis int64
	Status           string
	IsLateArrival    bool
	IsOnTime         bool
	IsEarlyDeparture bool
	GrossHours       float64
	EffectiveHours   float64
	OvertimeHours    float64
	WorkLocation     string

	// Context metadata captured verbatim at clock-in/out.
	ClockInImageURL   *string
	ClockInLatitude   *float64
	ClockInLongitude  *float64
	ClockInIPAddress  *string
	ClockOutImageURL  *string
	ClockOutLatitude  *float64
	ClockOutLongitude *float64
	ClockOutIPAddress *string

	CreatedAt time.Time
	UpdatedAt time.Time

	// Joined fields
	EmployeeName *string
}

// OpenBreakIndex scans the break list for the most recent active entry.
// Break state is always derived from the list, never from Status, which can
// drift out of sync.
func (a *Attendance) OpenBreakIndex() int {
	for i := len(a.Breaks) - 1; i >= 0; i-- {
		if a.Breaks[i].Active() {
			return i
		}
	}
	return -1
}

// HasOpenBreak reports whether any break entry is still active.
func (a *Attendance) HasOpenBreak() bool {
	return a.OpenBreakIndex() >= 0
}

// CompletedBreaks counts closed break entries.
func (a *Attendance) CompletedBreaks() int {
	n := 0
	for _, b := range a.Breaks {
		if !b.Active() {
			n++
		}
	}
	return n
}

// ReapOrphanBreaks force-closes active breaks left open longer than
// threshold, accumulating their duration into TotalBreakMillis. Returns the
// number of breaks closed. Callers must RecomputeStatus afterwards.
func (a *Attendance) ReapOrphanBreaks(now time.Time, threshold time.Duration) int {
	reaped := 0
	for i := range a.Breaks {
		if a.Breaks[i].Active() && now.Sub(a.Breaks[i].BreakIn) > threshold {
			closedAt := now
			a.Breaks[i].BreakOut = &closedAt
			a.TotalBreakMillis += timeutil.DurationMillis(a.Breaks[i].BreakIn, closedAt)
			reaped++
		}
	}
	return reaped
}

// OpenBreak appends a new active break entry.
func (a *Attendance) OpenBreak(now time.Time) {
	a.Breaks = append(a.Breaks, BreakEntry{BreakIn: now})
}

// CloseBreak closes the most recent active break and accumulates its
// duration. Returns false when no break is open.
func (a *Attendance) CloseBreak(now time.Time) bool {
	idx := a.OpenBreakIndex()
	if idx < 0 {
		return false
	}
	closedAt := now
	a.Breaks[idx].BreakOut = &closedAt
	a.TotalBreakMillis += timeutil.DurationMillis(a.Breaks[idx].BreakIn, closedAt)
	return true
}

// RecomputeStatus projects Status from the record's current fields.
func (a *Attendance) RecomputeStatus() {
	switch {
	case a.ClockOut != nil:
		if a.EffectiveHours < HalfDayThresholdHours {
			a.Status = StatusHalfDay
		} else {
			a.Status = StatusLoggedOut
		}
	case a.HasOpenBreak():
		a.Status = StatusOnBreak
	default:
		a.Status = StatusPresent
	}
}

// FinalizeClockOut stamps the clock-out instant and derives the session
// metrics. officeEnd is the office closing instant on the session's day; the
// early-departure flag is the literal comparison now < officeEnd, which the
// downstream compliance math depends on.
func (a *Attendance) FinalizeClockOut(now, officeEnd time.Time) {
	a.ClockOut = &now
	a.GrossHours = timeutil.MillisToHours(timeutil.DurationMillis(a.ClockIn, now))
	a.EffectiveHours = a.GrossHours - timeutil.MillisToHours(a.TotalBreakMillis)
	a.IsEarlyDeparture = now.Before(officeEnd)

	overtime := a.EffectiveHours - StandardWorkdayHours
	if overtime < 0 {
		overtime = 0
	}
	a.OvertimeHours = timeutil.Round2(overtime)

	a.RecomputeStatus()
}
