package attendance

import "errors"

// Attendance domain errors
var (
	// Clock-in/out errors
	ErrAlreadyClockedIn = errors.New("you have already clocked in today")
	ErrNoOpenSession    = errors.New("no open session to clock out of")
	ErrBreakStillActive = errors.New("end your active break before clocking out")

	// Break errors
	ErrNoClockInRecord    = errors.New("you have not clocked in today")
	ErrAlreadyOnBreak     = errors.New("you are already on a break")
	ErrNoActiveBreak      = errors.New("no active break to end")
	ErrBreakLimitExceeded = errors.New("daily break limit reached")

	// General errors
	ErrAttendanceNotFound = errors.New("attendance record not found")
)
