package payroll

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/workpulse-hr/workpulse-backend-go/internal/domain/attendance"
	"github.com/workpulse-hr/workpulse-backend-go/internal/domain/employee"
	"github.com/workpulse-hr/workpulse-backend-go/internal/domain/leave"
	"github.com/workpulse-hr/workpulse-backend-go/internal/domain/notification"
	"github.com/workpulse-hr/workpulse-backend-go/internal/domain/payroll"
	"github.com/workpulse-hr/workpulse-backend-go/internal/pkg/bank"
	"github.com/workpulse-hr/workpulse-backend-go/internal/pkg/jwt"
)

// ---- fakes ----

type fakePayrollRepo struct {
	seq     int
	records map[string]payroll.Payroll // keyed by id
}

func newFakePayrollRepo() *fakePayrollRepo {
	return &fakePayrollRepo{records: make(map[string]payroll.Payroll)}
}

func (f *fakePayrollRepo) find(employeeID, month string, year int) (payroll.Payroll, bool) {
	for _, r := range f.records {
		if r.EmployeeID == employeeID && r.Month == month && r.Year == year {
			return r, true
		}
	}
	return payroll.Payroll{}, false
}

func (f *fakePayrollRepo) Create(_ context.Context, record payroll.Payroll) (payroll.Payroll, error) {
	if _, ok := f.find(record.EmployeeID, record.Month, record.Year); ok {
		return payroll.Payroll{}, payroll.ErrPayrollRecordAlreadyExists
	}
	f.seq++
	record.ID = fmt.Sprintf("pay-%d", f.seq)
	f.records[record.ID] = record
	return record, nil
}

func (f *fakePayrollRepo) GetByID(_ context.Context, id string) (payroll.Payroll, error) {
	r, ok := f.records[id]
	if !ok {
		return payroll.Payroll{}, payroll.ErrPayrollRecordNotFound
	}
	return r, nil
}

func (f *fakePayrollRepo) GetByEmployeePeriod(_ context.Context, employeeID string, month string, year int) (payroll.Payroll, error) {
	r, ok := f.find(employeeID, month, year)
	if !ok {
		return payroll.Payroll{}, payroll.ErrPayrollRecordNotFound
	}
	return r, nil
}

func (f *fakePayrollRepo) ListByPeriod(_ context.Context, month string, year int) ([]payroll.Payroll, error) {
	var out []payroll.Payroll
	for i := 1; i <= f.seq; i++ {
		if r, ok := f.records[fmt.Sprintf("pay-%d", i)]; ok && r.Month == month && r.Year == year {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakePayrollRepo) Update(_ context.Context, record payroll.Payroll) error {
	if _, ok := f.records[record.ID]; !ok {
		return payroll.ErrPayrollRecordNotFound
	}
	f.records[record.ID] = record
	return nil
}

type fakeEmployeeRepo struct {
	employees map[string]employee.Employee
}

func (f *fakeEmployeeRepo) GetByID(_ context.Context, id string) (employee.Employee, error) {
	emp, ok := f.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

func (f *fakeEmployeeRepo) ListActive(_ context.Context) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, emp := range f.employees {
		if emp.EmploymentStatus == employee.StatusActive {
			out = append(out, emp)
		}
	}
	return out, nil
}

type fakeAttendanceRepo struct {
	records []attendance.Attendance
}

func (f *fakeAttendanceRepo) Create(context.Context, attendance.Attendance) (attendance.Attendance, error) {
	panic("not used")
}

func (f *fakeAttendanceRepo) GetByEmployeeAndDate(context.Context, string, time.Time) (*attendance.Attendance, error) {
	panic("not used")
}

func (f *fakeAttendanceRepo) Update(context.Context, attendance.Attendance) error {
	panic("not used")
}

func (f *fakeAttendanceRepo) ListByEmployeeAndRange(_ context.Context, employeeID string, start, end time.Time) ([]attendance.Attendance, error) {
	var out []attendance.Attendance
	for _, rec := range f.records {
		if rec.EmployeeID == employeeID && !rec.Date.Before(start) && !rec.Date.After(end) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeAttendanceRepo) List(context.Context, attendance.AttendanceFilter) ([]attendance.Attendance, int64, error) {
	panic("not used")
}

type fakeLeaveRepo struct {
	leaves []leave.Leave
}

func (f *fakeLeaveRepo) ListApprovedOverlapping(_ context.Context, employeeID string, start, end time.Time) ([]leave.Leave, error) {
	var out []leave.Leave
	for _, l := range f.leaves {
		if l.EmployeeID == employeeID && l.Status == leave.StatusApproved &&
			!l.StartDate.After(end) && !l.EndDate.Before(start) {
			out = append(out, l)
		}
	}
	return out, nil
}

// fakeBank approves every transfer except those to accounts listed in fail.
type fakeBank struct {
	fail  map[string]string // account number -> error message
	calls int
}

func (f *fakeBank) Transfer(_ context.Context, req bank.TransferRequest) (*bank.TransferResponse, error) {
	f.calls++
	if msg, ok := f.fail[req.Beneficiary.AccountNumber]; ok {
		return &bank.TransferResponse{Provider: "testbank", Error: msg}, nil
	}
	return &bank.TransferResponse{
		Success:   true,
		Provider:  "testbank",
		Reference: fmt.Sprintf("txn-%d", f.calls),
	}, nil
}

func (f *fakeBank) Provider() string { return "testbank" }

type noopSink struct{}

func (noopSink) Notify(context.Context, notification.Event) {}

// ---- helpers ----

// accountFor derives a 9-digit account number from a test id like "e1".
func accountFor(id string) string {
	return "91000000" + strings.TrimPrefix(id, "e")
}

func salariedEmployee(id string, salary int64) employee.Employee {
	basic := decimal.NewFromInt(salary)
	return employee.Employee{
		ID:               id,
		FullName:         "Employee " + id,
		EmploymentStatus: employee.StatusActive,
		BasicSalary:      &basic,
		Bank: &employee.BankAccount{
			AccountHolder: "Employee " + id,
			AccountNumber: accountFor(id),
			IFSC:          "HDFC0AB1234",
		},
	}
}

func authedContext(t *testing.T, employeeID string) context.Context {
	t.Helper()
	jwtSvc := jwt.NewJWTService("test-secret", "1h")
	tokenString, _, err := jwtSvc.GenerateAccessToken(employeeID, "admin")
	require.NoError(t, err)
	token, err := jwtSvc.JWTAuth().Decode(tokenString)
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

type fixture struct {
	svc         *PayrollServiceImpl
	payrollRepo *fakePayrollRepo
	bank        *fakeBank
}

func newFixture(emps map[string]employee.Employee, atts []attendance.Attendance, leaves []leave.Leave) *fixture {
	payrollRepo := newFakePayrollRepo()
	bankClient := &fakeBank{fail: map[string]string{}}
	svc := NewPayrollService(
		payrollRepo,
		&fakeEmployeeRepo{employees: emps},
		&fakeAttendanceRepo{records: atts},
		&fakeLeaveRepo{leaves: leaves},
		bankClient,
		noopSink{},
	).(*PayrollServiceImpl)
	svc.now = func() time.Time { return time.Date(2024, 4, 2, 10, 0, 0, 0, time.UTC) }
	return &fixture{svc: svc, payrollRepo: payrollRepo, bank: bankClient}
}

// ---- tests ----

func TestGetCurrentPayroll(t *testing.T) {
	t.Parallel()

	t.Run("creates the record on first access", func(t *testing.T) {
		t.Parallel()
		f := newFixture(map[string]employee.Employee{
			"e1": salariedEmployee("e1", 30000),
		}, nil, nil)

		resp, err := f.svc.GetCurrentPayroll(authedContext(t, "e1"))
		require.NoError(t, err)

		assert.Equal(t, "April", resp.Month)
		assert.Equal(t, 2024, resp.Year)
		assert.Equal(t, string(payroll.PayrollStatusPending), resp.Status)
		assert.True(t, resp.Earnings.BasicWage.Equal(d(30000)))
		assert.True(t, resp.InHandSalary.Equal(resp.Earnings.TotalEarnings.Sub(resp.Deductions.Total)))

		// Second call returns the stored record, not a new one.
		again, err := f.svc.GetCurrentPayroll(authedContext(t, "e1"))
		require.NoError(t, err)
		assert.Equal(t, resp.ID, again.ID)
		assert.Len(t, f.payrollRepo.records, 1)
	})

	t.Run("rejects an employee without a salary", func(t *testing.T) {
		t.Parallel()
		f := newFixture(map[string]employee.Employee{
			"e1": {ID: "e1", EmploymentStatus: employee.StatusActive},
		}, nil, nil)

		_, err := f.svc.GetCurrentPayroll(authedContext(t, "e1"))
		assert.ErrorIs(t, err, employee.ErrNoBasicSalary)
	})
}

func TestGenerateForPeriod(t *testing.T) {
	t.Parallel()

	march := func(day int) time.Time {
		return time.Date(2024, 3, day, 0, 0, 0, 0, time.UTC)
	}

	attendanceFor := func(employeeID string, days, halfDays int) []attendance.Attendance {
		var out []attendance.Attendance
		day := 1
		for i := 0; i < days; i++ {
			out = append(out, attendance.Attendance{
				EmployeeID: employeeID, Date: march(day), Status: attendance.StatusLoggedOut,
			})
			day++
		}
		for i := 0; i < halfDays; i++ {
			out = append(out, attendance.Attendance{
				EmployeeID: employeeID, Date: march(day), Status: attendance.StatusHalfDay,
			})
			day++
		}
		return out
	}

	t.Run("creates pro-rated records for salaried employees", func(t *testing.T) {
		t.Parallel()
		// March 2024 has 21 working days.
		f := newFixture(map[string]employee.Employee{
			"e1": salariedEmployee("e1", 21000),
			"e2": {ID: "e2", FullName: "Hourly", EmploymentStatus: employee.StatusActive},
		}, attendanceFor("e1", 19, 1), []leave.Leave{
			{EmployeeID: "e1", Status: leave.StatusApproved, StartDate: march(25), EndDate: march(25)},
		})

		resp, err := f.svc.GenerateForPeriod(authedContext(t, "admin"), payroll.PeriodRequest{
			Month: "March", Year: 2024,
		})
		require.NoError(t, err)
		assert.Equal(t, 1, resp.Created)

		record, ok := f.payrollRepo.find("e1", "March", 2024)
		require.True(t, ok)
		// presence 19 + 0.5 + 1 = 20.5 of 21 days, per-day 1000
		assert.True(t, record.Earnings.BasicWage.Equal(d(20500)), "got %s", record.Earnings.BasicWage)
		assert.True(t, record.InHandSalary.Equal(record.Earnings.TotalEarnings.Sub(record.Deductions.Total)))
	})

	t.Run("re-running skips existing records", func(t *testing.T) {
		t.Parallel()
		f := newFixture(map[string]employee.Employee{
			"e1": salariedEmployee("e1", 21000),
		}, attendanceFor("e1", 21, 0), nil)

		req := payroll.PeriodRequest{Month: "March", Year: 2024}
		ctx := authedContext(t, "admin")

		first, err := f.svc.GenerateForPeriod(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, 1, first.Created)

		second, err := f.svc.GenerateForPeriod(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, 0, second.Created)
		assert.Len(t, f.payrollRepo.records, 1)
	})

	t.Run("rejects an unknown month name", func(t *testing.T) {
		t.Parallel()
		f := newFixture(nil, nil, nil)

		_, err := f.svc.GenerateForPeriod(authedContext(t, "admin"), payroll.PeriodRequest{
			Month: "Marchember", Year: 2024,
		})
		assert.ErrorIs(t, err, payroll.ErrInvalidPeriod)
	})
}

func TestDisburseForPeriod(t *testing.T) {
	t.Parallel()

	seed := func(f *fixture, employeeID string, status payroll.PayrollStatus) payroll.Payroll {
		record := payroll.Payroll{
			EmployeeID:  employeeID,
			Month:       "March",
			Year:        2024,
			BasicSalary: d(30000),
			Status:      status,
			IsVisible:   true,
		}
		record.Earnings, record.Deductions = DefaultBreakdown(record.BasicSalary)
		record.RecomputeTotals()
		created, _ := f.payrollRepo.Create(context.Background(), record)
		return created
	}

	t.Run("pays pending records and stamps payment details", func(t *testing.T) {
		t.Parallel()
		f := newFixture(map[string]employee.Employee{
			"e1": salariedEmployee("e1", 30000),
		}, nil, nil)
		seeded := seed(f, "e1", payroll.PayrollStatusPending)

		summary, err := f.svc.DisburseForPeriod(authedContext(t, "admin"), payroll.PeriodRequest{
			Month: "March", Year: 2024,
		})
		require.NoError(t, err)

		assert.Equal(t, 1, summary.Total)
		assert.Equal(t, 1, summary.Paid)
		assert.Equal(t, 0, summary.Failed)
		require.Len(t, summary.Results, 1)
		assert.Equal(t, string(payroll.PaymentStatusSuccess), summary.Results[0].Status)
		assert.True(t, summary.Results[0].Amount.Equal(d(43050)))

		stored := f.payrollRepo.records[seeded.ID]
		assert.Equal(t, payroll.PayrollStatusPaid, stored.Status)
		require.NotNil(t, stored.Payment)
		assert.Equal(t, payroll.PaymentStatusSuccess, stored.Payment.Status)
		assert.NotEmpty(t, stored.Payment.Reference)
		require.NotNil(t, stored.PaidDate)
	})

	t.Run("failed transfer is recorded and the batch continues", func(t *testing.T) {
		t.Parallel()
		f := newFixture(map[string]employee.Employee{
			"e1": salariedEmployee("e1", 30000),
			"e2": salariedEmployee("e2", 30000),
		}, nil, nil)
		bad := seed(f, "e1", payroll.PayrollStatusPending)
		seed(f, "e2", payroll.PayrollStatusPending)
		f.bank.fail[accountFor("e1")] = "beneficiary account closed"

		summary, err := f.svc.DisburseForPeriod(authedContext(t, "admin"), payroll.PeriodRequest{
			Month: "March", Year: 2024,
		})
		require.NoError(t, err)

		assert.Equal(t, 2, summary.Total)
		assert.Equal(t, 1, summary.Paid)
		assert.Equal(t, 1, summary.Failed)

		stored := f.payrollRepo.records[bad.ID]
		assert.Equal(t, payroll.PayrollStatusPending, stored.Status, "failed record stays eligible for a retry")
		require.NotNil(t, stored.Payment)
		assert.Equal(t, payroll.PaymentStatusFailed, stored.Payment.Status)
	})

	t.Run("missing bank account fails that record only", func(t *testing.T) {
		t.Parallel()
		noBank := salariedEmployee("e1", 30000)
		noBank.Bank = nil
		f := newFixture(map[string]employee.Employee{"e1": noBank}, nil, nil)
		seed(f, "e1", payroll.PayrollStatusPending)

		summary, err := f.svc.DisburseForPeriod(authedContext(t, "admin"), payroll.PeriodRequest{
			Month: "March", Year: 2024,
		})
		require.NoError(t, err)
		assert.Equal(t, 1, summary.Failed)
		assert.Zero(t, f.bank.calls)
	})

	t.Run("invalid account number fails before calling the gateway", func(t *testing.T) {
		t.Parallel()
		badAccount := salariedEmployee("e1", 30000)
		badAccount.Bank.AccountNumber = "12AB34"
		f := newFixture(map[string]employee.Employee{"e1": badAccount}, nil, nil)
		seed(f, "e1", payroll.PayrollStatusPending)

		summary, err := f.svc.DisburseForPeriod(authedContext(t, "admin"), payroll.PeriodRequest{
			Month: "March", Year: 2024,
		})
		require.NoError(t, err)
		assert.Equal(t, 1, summary.Failed)
		require.Len(t, summary.Results, 1)
		assert.Equal(t, employee.ErrInvalidAccount.Error(), summary.Results[0].Error)
		assert.Zero(t, f.bank.calls)
	})

	t.Run("malformed IFSC fails before calling the gateway", func(t *testing.T) {
		t.Parallel()
		badIFSC := salariedEmployee("e1", 30000)
		badIFSC.Bank.IFSC = "NOPE"
		f := newFixture(map[string]employee.Employee{"e1": badIFSC}, nil, nil)
		seed(f, "e1", payroll.PayrollStatusPending)

		summary, err := f.svc.DisburseForPeriod(authedContext(t, "admin"), payroll.PeriodRequest{
			Month: "March", Year: 2024,
		})
		require.NoError(t, err)
		assert.Equal(t, 1, summary.Failed)
		assert.Zero(t, f.bank.calls)
	})

	t.Run("re-running skips already paid records", func(t *testing.T) {
		t.Parallel()
		f := newFixture(map[string]employee.Employee{
			"e1": salariedEmployee("e1", 30000),
			"e2": salariedEmployee("e2", 30000),
		}, nil, nil)
		seed(f, "e1", payroll.PayrollStatusPaid)
		seed(f, "e2", payroll.PayrollStatusPending)

		summary, err := f.svc.DisburseForPeriod(authedContext(t, "admin"), payroll.PeriodRequest{
			Month: "March", Year: 2024,
		})
		require.NoError(t, err)

		assert.Equal(t, 1, summary.Total, "paid record is not retried")
		assert.Equal(t, 1, summary.Paid)
		assert.Equal(t, 1, f.bank.calls)
	})
}

func TestUpdateBreakdown(t *testing.T) {
	t.Parallel()

	seed := func(f *fixture, status payroll.PayrollStatus) payroll.Payroll {
		record := payroll.Payroll{
			EmployeeID: "e1", Month: "March", Year: 2024,
			BasicSalary: d(30000), Status: status, IsVisible: true,
		}
		record.Earnings, record.Deductions = DefaultBreakdown(record.BasicSalary)
		record.RecomputeTotals()
		created, _ := f.payrollRepo.Create(context.Background(), record)
		return created
	}

	t.Run("bonus and advances recompute totals", func(t *testing.T) {
		t.Parallel()
		f := newFixture(map[string]employee.Employee{"e1": salariedEmployee("e1", 30000)}, nil, nil)
		seeded := seed(f, payroll.PayrollStatusPending)

		bonus := d(5000)
		advances := d(1000)
		resp, err := f.svc.UpdateBreakdown(authedContext(t, "admin"), payroll.UpdatePayrollRequest{
			ID: seeded.ID, Bonus: &bonus, Advances: &advances,
		})
		require.NoError(t, err)

		assert.True(t, resp.Earnings.Bonus.Equal(d(5000)))
		assert.True(t, resp.Earnings.TotalEarnings.Equal(d(55075)))
		assert.True(t, resp.Deductions.Total.Equal(d(8025)))
		assert.True(t, resp.InHandSalary.Equal(d(47050)))
	})

	t.Run("paid records reject changes", func(t *testing.T) {
		t.Parallel()
		f := newFixture(map[string]employee.Employee{"e1": salariedEmployee("e1", 30000)}, nil, nil)
		seeded := seed(f, payroll.PayrollStatusPaid)

		bonus := d(5000)
		_, err := f.svc.UpdateBreakdown(authedContext(t, "admin"), payroll.UpdatePayrollRequest{
			ID: seeded.ID, Bonus: &bonus,
		})
		assert.ErrorIs(t, err, payroll.ErrPayrollRecordAlreadyPaid)
	})

	t.Run("negative amounts are rejected", func(t *testing.T) {
		t.Parallel()
		f := newFixture(nil, nil, nil)

		bonus := d(-1)
		_, err := f.svc.UpdateBreakdown(authedContext(t, "admin"), payroll.UpdatePayrollRequest{
			ID: "pay-1", Bonus: &bonus,
		})
		assert.Error(t, err)
	})
}

func TestPreviewStructure(t *testing.T) {
	t.Parallel()

	f := newFixture(nil, nil, nil)

	result, err := f.svc.PreviewStructure(authedContext(t, "admin"), payroll.StructurePreviewRequest{
		BaseSalary: d(40000),
		Components: []payroll.StructureComponent{
			{Name: "Basic", Kind: payroll.ComponentEarning, Mode: payroll.ModePercentage, Value: d(60)},
			{Name: "PF", Kind: payroll.ComponentDeduction, Mode: payroll.ModeFixed, Value: d(1800)},
		},
	})
	require.NoError(t, err)

	assert.True(t, result.TotalEarnings.Equal(d(24000)))
	assert.True(t, result.TotalDeductions.Equal(d(1800)))
	assert.True(t, result.NetSalary.Equal(d(22200)))
}

func TestListByPeriod(t *testing.T) {
	t.Parallel()

	f := newFixture(map[string]employee.Employee{"e1": salariedEmployee("e1", 30000)}, nil, nil)

	hidden := payroll.Payroll{EmployeeID: "e1", Month: "March", Year: 2024, BasicSalary: d(30000)}
	hidden.Earnings, hidden.Deductions = DefaultBreakdown(hidden.BasicSalary)
	hidden.RecomputeTotals()
	hidden.IsVisible = false
	_, err := f.payrollRepo.Create(context.Background(), hidden)
	require.NoError(t, err)

	all, err := f.svc.ListByPeriod(authedContext(t, "admin"), payroll.ListPayrollFilter{Month: "March", Year: 2024})
	require.NoError(t, err)
	assert.Len(t, all, 1)

	visible, err := f.svc.ListByPeriod(authedContext(t, "admin"), payroll.ListPayrollFilter{
		Month: "March", Year: 2024, VisibleOnly: true,
	})
	require.NoError(t, err)
	assert.Empty(t, visible)
}
