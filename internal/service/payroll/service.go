package payroll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/workpulse-hr/workpulse-backend-go/internal/domain/attendance"
	"github.com/workpulse-hr/workpulse-backend-go/internal/domain/employee"
	"github.com/workpulse-hr/workpulse-backend-go/internal/domain/leave"
	"github.com/workpulse-hr/workpulse-backend-go/internal/domain/notification"
	"github.com/workpulse-hr/workpulse-backend-go/internal/domain/payroll"
	"github.com/workpulse-hr/workpulse-backend-go/internal/pkg/bank"
	"github.com/workpulse-hr/workpulse-backend-go/internal/pkg/timeutil"
	"github.com/workpulse-hr/workpulse-backend-go/internal/pkg/validator"
)

type PayrollServiceImpl struct {
	payrollRepo    payroll.PayrollRepository
	employeeRepo   employee.EmployeeRepository
	attendanceRepo attendance.AttendanceRepository
	leaveRepo      leave.LeaveRepository
	bankClient     bank.Transferrer
	sink           notification.Sink
	now            func() time.Time
}

func NewPayrollService(
	payrollRepo payroll.PayrollRepository,
	employeeRepo employee.EmployeeRepository,
	attendanceRepo attendance.AttendanceRepository,
	leaveRepo leave.LeaveRepository,
	bankClient bank.Transferrer,
	sink notification.Sink,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		payrollRepo:    payrollRepo,
		employeeRepo:   employeeRepo,
		attendanceRepo: attendanceRepo,
		leaveRepo:      leaveRepo,
		bankClient:     bankClient,
		sink:           sink,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

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

// GetCurrentPayroll implements payroll.PayrollService. Missing records are
// created on demand from the default statutory breakdown, so an employee
// always sees a current-month payslip.
func (p *PayrollServiceImpl) GetCurrentPayroll(ctx context.Context) (payroll.PayrollResponse, error) {
	employeeID, err := employeeIDFromContext(ctx)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}

	now := p.now()
	month := now.Month().String()
	year := now.Year()

	record, err := p.payrollRepo.GetByEmployeePeriod(ctx, employeeID, month, year)
	if err == nil {
		return mapToResponse(record), nil
	}
	if !errors.Is(err, payroll.ErrPayrollRecordNotFound) {
		return payroll.PayrollResponse{}, fmt.Errorf("failed to get payroll record: %w", err)
	}

	emp, err := p.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return payroll.PayrollResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}
	if !emp.IsSalaried() {
		return payroll.PayrollResponse{}, employee.ErrNoBasicSalary
	}

	basic := *emp.BasicSalary
	record = payroll.Payroll{
		EmployeeID:  employeeID,
		Month:       month,
		Year:        year,
		BasicSalary: basic,
		Status:      payroll.PayrollStatusPending,
		IsVisible:   true,
	}
	record.Earnings, record.Deductions = DefaultBreakdown(basic)
	record.RecomputeTotals()

	created, err := p.payrollRepo.Create(ctx, record)
	if err != nil {
		// A concurrent request may have created it first.
		if errors.Is(err, payroll.ErrPayrollRecordAlreadyExists) {
			existing, getErr := p.payrollRepo.GetByEmployeePeriod(ctx, employeeID, month, year)
			if getErr != nil {
				return payroll.PayrollResponse{}, fmt.Errorf("failed to get payroll record: %w", getErr)
			}
			return mapToResponse(existing), nil
		}
		return payroll.PayrollResponse{}, fmt.Errorf("failed to create payroll record: %w", err)
	}

	return mapToResponse(created), nil
}

// GenerateForPeriod implements payroll.PayrollService. Every active salaried
// employee without a record for the period gets a pro-rated one; existing
// records are left untouched so the operation is safe to re-run.
func (p *PayrollServiceImpl) GenerateForPeriod(ctx context.Context, req payroll.PeriodRequest) (payroll.GeneratePayrollResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.GeneratePayrollResponse{}, err
	}

	start, end, err := timeutil.MonthRange(req.Month, req.Year)
	if err != nil {
		return payroll.GeneratePayrollResponse{}, fmt.Errorf("%w: %s", payroll.ErrInvalidPeriod, req.Month)
	}
	workingDays := timeutil.WorkingDays(start, end)

	employees, err := p.employeeRepo.ListActive(ctx)
	if err != nil {
		return payroll.GeneratePayrollResponse{}, fmt.Errorf("failed to list active employees: %w", err)
	}

	created := 0
	for _, emp := range employees {
		if !emp.IsSalaried() {
			continue
		}

		_, err := p.payrollRepo.GetByEmployeePeriod(ctx, emp.ID, req.Month, req.Year)
		if err == nil {
			continue
		}
		if !errors.Is(err, payroll.ErrPayrollRecordNotFound) {
			return payroll.GeneratePayrollResponse{}, fmt.Errorf("failed to check payroll record: %w", err)
		}

		snap, err := p.attendanceSnapshot(ctx, emp.ID, start, end)
		if err != nil {
			return payroll.GeneratePayrollResponse{}, err
		}
		snap.WorkingDays = workingDays

		basic := *emp.BasicSalary
		record := payroll.Payroll{
			EmployeeID:  emp.ID,
			Month:       req.Month,
			Year:        req.Year,
			BasicSalary: basic,
			Status:      payroll.PayrollStatusPending,
			IsVisible:   true,
		}
		record.Earnings, record.Deductions = ProratedBreakdown(basic, snap)
		record.RecomputeTotals()

		if _, err := p.payrollRepo.Create(ctx, record); err != nil {
			if errors.Is(err, payroll.ErrPayrollRecordAlreadyExists) {
				continue
			}
			return payroll.GeneratePayrollResponse{}, fmt.Errorf("failed to create payroll record: %w", err)
		}
		created++

		p.sink.Notify(ctx, notification.Event{
			Type:        notification.TypePayrollGenerated,
			RecipientID: emp.ID,
			Title:       "Payslip generated",
			Message:     fmt.Sprintf("Your payslip for %s %d is ready", req.Month, req.Year),
		})
	}

	return payroll.GeneratePayrollResponse{
		Month:   req.Month,
		Year:    req.Year,
		Created: created,
	}, nil
}

// attendanceSnapshot aggregates an employee's month into the inputs the
// pro-ration needs.
func (p *PayrollServiceImpl) attendanceSnapshot(ctx context.Context, employeeID string, start, end time.Time) (AttendanceSnapshot, error) {
	var snap AttendanceSnapshot

	records, err := p.attendanceRepo.ListByEmployeeAndRange(ctx, employeeID, start, end)
	if err != nil {
		return snap, fmt.Errorf("failed to list attendance records: %w", err)
	}

	for _, rec := range records {
		switch rec.Status {
		case attendance.StatusHalfDay:
			snap.HalfDays++
		case attendance.StatusPresent, attendance.StatusOnBreak, attendance.StatusLoggedOut:
			snap.PresentDays++
		}
		snap.OvertimeHours += rec.OvertimeHours
	}

	leaves, err := p.leaveRepo.ListApprovedOverlapping(ctx, employeeID, start, end)
	if err != nil {
		return snap, fmt.Errorf("failed to list approved leaves: %w", err)
	}
	for _, l := range leaves {
		snap.LeaveDays += l.DaysWithin(start, end)
	}

	return snap, nil
}

// DisburseForPeriod implements payroll.PayrollService. Records already paid
// are skipped, so a partially failed batch can be re-run for the remainder.
// A failed transfer is recorded on the payroll record and the batch moves on.
func (p *PayrollServiceImpl) DisburseForPeriod(ctx context.Context, req payroll.PeriodRequest) (payroll.DisbursementSummary, error) {
	if err := req.Validate(); err != nil {
		return payroll.DisbursementSummary{}, err
	}

	if _, err := timeutil.MonthByName(req.Month); err != nil {
		return payroll.DisbursementSummary{}, fmt.Errorf("%w: %s", payroll.ErrInvalidPeriod, req.Month)
	}

	records, err := p.payrollRepo.ListByPeriod(ctx, req.Month, req.Year)
	if err != nil {
		return payroll.DisbursementSummary{}, fmt.Errorf("failed to list payroll records: %w", err)
	}

	summary := payroll.DisbursementSummary{
		Month:   req.Month,
		Year:    req.Year,
		Results: []payroll.DisbursementResult{},
	}

	for i := range records {
		record := records[i]
		if !record.Disbursable() {
			continue
		}
		summary.Total++

		result := p.disburseOne(ctx, &record)
		summary.Results = append(summary.Results, result)
		if result.Status == string(payroll.PaymentStatusSuccess) {
			summary.Paid++
		} else {
			summary.Failed++
		}

		if err := p.payrollRepo.Update(ctx, record); err != nil {
			return summary, fmt.Errorf("failed to update payroll record %s: %w", record.ID, err)
		}
	}

	p.sink.Notify(ctx, notification.Event{
		Type:    notification.TypeDisbursementComplete,
		Title:   "Disbursement complete",
		Message: fmt.Sprintf("Disbursement for %s %d: %d paid, %d failed", req.Month, req.Year, summary.Paid, summary.Failed),
		Data: map[string]interface{}{
			"total":  summary.Total,
			"paid":   summary.Paid,
			"failed": summary.Failed,
		},
	})

	return summary, nil
}

// disburseOne attempts one transfer and stamps the outcome onto the record.
func (p *PayrollServiceImpl) disburseOne(ctx context.Context, record *payroll.Payroll) payroll.DisbursementResult {
	now := p.now()
	amount := record.InHandSalary.Round(0)

	result := payroll.DisbursementResult{
		EmployeeID: record.EmployeeID,
		Amount:     amount,
	}

	fail := func(msg string) payroll.DisbursementResult {
		record.Payment = &payroll.Payment{
			Provider:    p.bankClient.Provider(),
			Status:      payroll.PaymentStatusFailed,
			Error:       &msg,
			ProcessedAt: now,
		}
		result.Status = string(payroll.PaymentStatusFailed)
		result.Error = msg
		return result
	}

	emp, err := p.employeeRepo.GetByID(ctx, record.EmployeeID)
	if err != nil {
		return fail(fmt.Sprintf("failed to load employee: %v", err))
	}
	result.EmployeeName = emp.FullName

	if emp.Bank == nil || emp.Bank.AccountNumber == "" {
		return fail(employee.ErrNoBankAccount.Error())
	}
	if !validator.IsValidAccountNumber(emp.Bank.AccountNumber) {
		return fail(employee.ErrInvalidAccount.Error())
	}
	if !validator.IsValidIFSC(emp.Bank.IFSC) {
		return fail(employee.ErrInvalidIFSC.Error())
	}

	resp, err := p.bankClient.Transfer(ctx, bank.TransferRequest{
		Amount: amount,
		Beneficiary: bank.Beneficiary{
			AccountHolder: emp.Bank.AccountHolder,
			AccountNumber: emp.Bank.AccountNumber,
			IFSC:          emp.Bank.IFSC,
			BankName:      emp.Bank.BankName,
		},
		Narration: fmt.Sprintf("Salary %s %d", record.Month, record.Year),
	})
	if err != nil {
		return fail(err.Error())
	}
	if !resp.Success {
		return fail(resp.Error)
	}

	record.Payment = &payroll.Payment{
		Provider:    resp.Provider,
		Reference:   resp.Reference,
		Status:      payroll.PaymentStatusSuccess,
		ProcessedAt: now,
	}
	record.Status = payroll.PayrollStatusPaid
	record.PaidDate = &now

	result.Status = string(payroll.PaymentStatusSuccess)
	result.Reference = resp.Reference
	return result
}

// ListByPeriod implements payroll.PayrollService.
func (p *PayrollServiceImpl) ListByPeriod(ctx context.Context, filter payroll.ListPayrollFilter) ([]payroll.PayrollResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	records, err := p.payrollRepo.ListByPeriod(ctx, filter.Month, filter.Year)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll records: %w", err)
	}

	responses := make([]payroll.PayrollResponse, 0, len(records))
	for _, record := range records {
		if filter.VisibleOnly && !record.IsVisible {
			continue
		}
		responses = append(responses, mapToResponse(record))
	}

	return responses, nil
}

// UpdateBreakdown implements payroll.PayrollService. Totals are always
// recomputed server-side; a paid record rejects every change.
func (p *PayrollServiceImpl) UpdateBreakdown(ctx context.Context, req payroll.UpdatePayrollRequest) (payroll.PayrollResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollResponse{}, err
	}

	record, err := p.payrollRepo.GetByID(ctx, req.ID)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}

	if record.Status == payroll.PayrollStatusPaid {
		return payroll.PayrollResponse{}, payroll.ErrPayrollRecordAlreadyPaid
	}

	if req.Bonus != nil {
		record.Earnings.Bonus = *req.Bonus
	}
	if req.Advances != nil {
		record.Deductions.Advances = *req.Advances
	}
	if req.Loans != nil {
		record.Deductions.Loans = *req.Loans
	}
	if req.Other != nil {
		record.Deductions.Other = *req.Other
	}
	if req.IsVisible != nil {
		record.IsVisible = *req.IsVisible
	}
	if req.Status != nil {
		record.Status = payroll.PayrollStatus(*req.Status)
	}

	record.RecomputeTotals()

	if err := p.payrollRepo.Update(ctx, record); err != nil {
		return payroll.PayrollResponse{}, fmt.Errorf("failed to update payroll record: %w", err)
	}

	return mapToResponse(record), nil
}

// PreviewStructure implements payroll.PayrollService.
func (p *PayrollServiceImpl) PreviewStructure(ctx context.Context, req payroll.StructurePreviewRequest) (payroll.StructureResult, error) {
	if err := req.Validate(); err != nil {
		return payroll.StructureResult{}, err
	}

	structure := payroll.SalaryStructure{Components: req.Components}
	return structure.CalculateSalary(req.BaseSalary), nil
}

func mapToResponse(record payroll.Payroll) payroll.PayrollResponse {
	var paidDate *string
	if record.PaidDate != nil {
		formatted := record.PaidDate.Format("2006-01-02")
		paidDate = &formatted
	}

	return payroll.PayrollResponse{
		ID:           record.ID,
		EmployeeID:   record.EmployeeID,
		EmployeeName: record.EmployeeName,
		Month:        record.Month,
		Year:         record.Year,
		BasicSalary:  record.BasicSalary,
		Earnings:     record.Earnings,
		Deductions:   record.Deductions,
		CTC:          record.CTC,
		InHandSalary: record.InHandSalary,
		Status:       string(record.Status),
		IsVisible:    record.IsVisible,
		PaidDate:     paidDate,
		Payment:      record.Payment,
	}
}
