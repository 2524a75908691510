package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/workpulse-hr/workpulse-backend-go/internal/domain/payroll"
)

// PayrollJobs owns the scheduled payroll generation run.
type PayrollJobs struct {
	payrollSvc payroll.PayrollService
	now        func() time.Time
}

func NewPayrollJobs(payrollSvc payroll.PayrollService) *PayrollJobs {
	return &PayrollJobs{
		payrollSvc: payrollSvc,
		now:        time.Now,
	}
}

func (j *PayrollJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.Register("generate_monthly_payroll", 1*time.Hour, j.GenerateMonthlyPayroll)
}

// GenerateMonthlyPayroll bulk-generates the previous month's pro-rated
// records. Generation itself skips existing records, so the hourly trigger
// window is harmless.
func (j *PayrollJobs) GenerateMonthlyPayroll(ctx context.Context) error {
	now := j.now().UTC()

	// Only run on the 1st of the month (00:00-00:59 UTC)
	if now.Day() != 1 || now.Hour() != 0 {
		return nil
	}

	prev := now.AddDate(0, -1, 0)
	month := prev.Month().String()
	year := prev.Year()

	slog.Info("Cron: Starting monthly payroll generation", "month", month, "year", year)

	result, err := j.payrollSvc.GenerateForPeriod(ctx, payroll.PeriodRequest{
		Month: month,
		Year:  year,
	})
	if err != nil {
		return fmt.Errorf("failed to generate payroll for %s %d: %w", month, year, err)
	}

	slog.Info("Cron: Monthly payroll generation complete",
		"month", month,
		"year", year,
		"created", result.Created)
	return nil
}
