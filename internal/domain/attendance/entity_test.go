package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ts(hour, min int) time.Time {
	return time.Date(2024, time.March, 11, hour, min, 0, 0, time.UTC)
}

func openSession(clockIn time.Time) Attendance {
	att := Attendance{
		EmployeeID: "emp-1",
		Date:       time.Date(2024, time.March, 11, 0, 0, 0, 0, time.UTC),
		ClockIn:    clockIn,
	}
	att.RecomputeStatus()
	return att
}

func TestOpenBreakIndex_ScansList(t *testing.T) {
	t.Parallel()

	att := openSession(ts(9, 0))
	assert.Equal(t, -1, att.OpenBreakIndex())
	assert.False(t, att.HasOpenBreak())

	att.OpenBreak(ts(10, 0))
	assert.Equal(t, 0, att.OpenBreakIndex())

	require.True(t, att.CloseBreak(ts(10, 20)))
	assert.Equal(t, -1, att.OpenBreakIndex())

	// Status string is never consulted; corrupt it and the scan still wins.
	att.Status = StatusOnBreak
	assert.False(t, att.HasOpenBreak())
}

func TestCloseBreak_AccumulatesDuration(t *testing.T) {
	t.Parallel()

	att := openSession(ts(9, 0))
	att.OpenBreak(ts(10, 0))
	require.True(t, att.CloseBreak(ts(10, 20)))

	assert.Equal(t, int64(20*60*1000), att.TotalBreakMillis)
	assert.Equal(t, 1, att.CompletedBreaks())

	// No open break left to close.
	assert.False(t, att.CloseBreak(ts(10, 30)))
}

func TestReapOrphanBreaks(t *testing.T) {
	t.Parallel()

	att := openSession(ts(9, 0))
	att.OpenBreak(ts(10, 0))

	// 35 minutes later, past the 30-minute threshold.
	reaped := att.ReapOrphanBreaks(ts(10, 35), 30*time.Minute)
	assert.Equal(t, 1, reaped)
	assert.False(t, att.HasOpenBreak())
	assert.Equal(t, int64(35*60*1000), att.TotalBreakMillis)

	att.RecomputeStatus()
	assert.Equal(t, StatusPresent, att.Status)
}

func TestReapOrphanBreaks_UnderThreshold(t *testing.T) {
	t.Parallel()

	att := openSession(ts(9, 0))
	att.OpenBreak(ts(10, 0))

	reaped := att.ReapOrphanBreaks(ts(10, 25), 30*time.Minute)
	assert.Equal(t, 0, reaped)
	assert.True(t, att.HasOpenBreak())
	assert.Zero(t, att.TotalBreakMillis)
}

func TestRecomputeStatus_Projection(t *testing.T) {
	t.Parallel()

	att := openSession(ts(9, 0))
	assert.Equal(t, StatusPresent, att.Status)

	att.OpenBreak(ts(10, 0))
	att.RecomputeStatus()
	assert.Equal(t, StatusOnBreak, att.Status)

	att.CloseBreak(ts(10, 10))
	att.RecomputeStatus()
	assert.Equal(t, StatusPresent, att.Status)
}

func TestFinalizeClockOut_HoursIdentity(t *testing.T) {
	t.Parallel()

	// Scenario: in at 09:15, one 20-minute break, out at 17:36.
	att := openSession(ts(9, 15))
	att.OpenBreak(ts(12, 0))
	att.CloseBreak(ts(12, 20))

	officeEnd := ts(17, 0)
	att.FinalizeClockOut(ts(17, 36), officeEnd)

	assert.Equal(t, int64(1200000), att.TotalBreakMillis)
	assert.InDelta(t, 8.35, att.GrossHours, 1e-9)
	assert.InDelta(t, 8.0167, att.EffectiveHours, 1e-4)
	assert.InDelta(t, 0.02, att.OvertimeHours, 1e-9)
	assert.False(t, att.IsEarlyDeparture)
	assert.Equal(t, StatusLoggedOut, att.Status)

	// Identity: effective = gross - break/3.6e6.
	assert.InDelta(t, att.GrossHours-float64(att.TotalBreakMillis)/3600000.0, att.EffectiveHours, 1e-9)
}

func TestFinalizeClockOut_HalfDay(t *testing.T) {
	t.Parallel()

	att := openSession(ts(9, 0))
	att.FinalizeClockOut(ts(12, 30), ts(17, 0))

	assert.InDelta(t, 3.5, att.EffectiveHours, 1e-9)
	assert.Equal(t, StatusHalfDay, att.Status)
	assert.True(t, att.IsEarlyDeparture)
	assert.Zero(t, att.OvertimeHours)
}

func TestFinalizeClockOut_EarlyDepartureLiteralComparison(t *testing.T) {
	t.Parallel()

	// Exactly at closing time is not early.
	att := openSession(ts(9, 0))
	att.FinalizeClockOut(ts(17, 0), ts(17, 0))
	assert.False(t, att.IsEarlyDeparture)

	// One minute before is.
	att2 := openSession(ts(9, 0))
	att2.FinalizeClockOut(ts(16, 59), ts(17, 0))
	assert.True(t, att2.IsEarlyDeparture)
}
