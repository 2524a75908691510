package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/workpulse-hr/workpulse-backend-go/internal/config"
	appHTTP "github.com/workpulse-hr/workpulse-backend-go/internal/handler/http"
	"github.com/workpulse-hr/workpulse-backend-go/internal/pkg/bank"
	"github.com/workpulse-hr/workpulse-backend-go/internal/pkg/cron"
	"github.com/workpulse-hr/workpulse-backend-go/internal/pkg/database"
	"github.com/workpulse-hr/workpulse-backend-go/internal/pkg/jwt"
	"github.com/workpulse-hr/workpulse-backend-go/internal/repository/postgresql"
	attendanceService "github.com/workpulse-hr/workpulse-backend-go/internal/service/attendance"
	notificationService "github.com/workpulse-hr/workpulse-backend-go/internal/service/notification"
	payrollService "github.com/workpulse-hr/workpulse-backend-go/internal/service/payroll"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(cfg.Database)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	attendanceRepo := postgresql.NewAttendanceRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	leaveRepo := postgresql.NewLeaveRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	bankClient := bank.NewClient(cfg.Bank)
	if bankClient.IsSandbox() {
		slog.Warn("Bank payouts running in sandbox mode, no real money moves")
	}
	sink := notificationService.NewLogSink(slog.Default())

	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, cfg.Office, sink)
	payrollSvc := payrollService.NewPayrollService(
		payrollRepo,
		employeeRepo,
		attendanceRepo,
		leaveRepo,
		bankClient,
		sink,
	)

	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	payrollHandler := appHTTP.NewPayrollHandler(payrollSvc)

	router := appHTTP.NewRouter(
		cfg.App,
		jwtService,
		attendanceHandler,
		payrollHandler,
	)

	scheduler := cron.NewScheduler()
	cron.NewPayrollJobs(payrollSvc).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
		os.Exit(1)
	}
}
