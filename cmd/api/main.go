package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/roplabs/payroll-backend-go/internal/config"
	appHTTP "github.com/roplabs/payroll-backend-go/internal/handler/http"
	"github.com/roplabs/payroll-backend-go/internal/pkg/database"
	"github.com/roplabs/payroll-backend-go/internal/pkg/email"
	"github.com/roplabs/payroll-backend-go/internal/pkg/jwt"
	"github.com/roplabs/payroll-backend-go/internal/pkg/media"
	"github.com/roplabs/payroll-backend-go/internal/pkg/pdfcrypt"
	"github.com/roplabs/payroll-backend-go/internal/repository/postgresql"
	archiveService "github.com/roplabs/payroll-backend-go/internal/service/archive"
	attendanceService "github.com/roplabs/payroll-backend-go/internal/service/attendance"
	employeeService "github.com/roplabs/payroll-backend-go/internal/service/employee"
	mailerService "github.com/roplabs/payroll-backend-go/internal/service/mailer"
	"github.com/roplabs/payroll-backend-go/internal/service/payrolladmin"
	"github.com/roplabs/payroll-backend-go/internal/service/reportgen"
	salaryService "github.com/roplabs/payroll-backend-go/internal/service/salary"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	paths, err := media.New(cfg.Media)
	if err != nil {
		log.Fatal("Failed to prepare media directories: ", err)
	}

	userRepo := postgresql.NewUserRepository(db)
	periodRepo := postgresql.NewPeriodRepository(db)
	compensationRepo := postgresql.NewCompensationRepository(db)
	bonusRepo := postgresql.NewBonusRepository(db)
	payslipRepo := postgresql.NewPayslipRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	reportRepo := postgresql.NewReportRepository(db)
	emailLogRepo := postgresql.NewEmailLogRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)
	sender := email.NewSMTPSender(cfg.SMTP)
	encryptor := pdfcrypt.NewQPDF(cfg.Media.QPDFBin)

	employees := employeeService.NewEmployeeService(userRepo)
	salaries := salaryService.NewSalaryService(db, compensationRepo, bonusRepo, payslipRepo, attendanceRepo, employees)
	periods := payrolladmin.NewPeriodService(periodRepo)
	compensations := payrolladmin.NewCompensationService(compensationRepo)
	bonuses := payrolladmin.NewBonusService(bonusRepo, periodRepo)
	attendances := attendanceService.NewAttendanceService(attendanceRepo)
	csvGen := reportgen.NewCSVService(salaries, employees, compensationRepo, attendanceRepo, paths)
	pdfGen := reportgen.NewPDFService(salaries, encryptor, paths)
	archiver := archiveService.NewArchiveService(paths)
	mailer := mailerService.NewMailerService(csvGen, pdfGen, archiver, reportRepo, emailLogRepo,
		periodRepo, userRepo, employees, sender, paths, cfg.App.AsyncEmail)

	router := appHTTP.NewRouter(appHTTP.RouterDeps{
		JWTService:        jwtService,
		UserRepo:          userRepo,
		AuthHandler:       appHTTP.NewAuthHandler(userRepo, jwtService),
		UserHandler:       appHTTP.NewUserHandler(employees, employees, userRepo),
		PeriodHandler:     appHTTP.NewPeriodHandler(periods),
		PayrollHandler:    appHTTP.NewPayrollHandler(compensations, bonuses, salaries, periods, payslipRepo, employees, userRepo),
		AttendanceHandler: appHTTP.NewAttendanceHandler(attendances, employees, userRepo),
		ReportHandler:     appHTTP.NewReportHandler(csvGen, pdfGen, mailer, reportRepo, emailLogRepo, periods, employees, userRepo),
	})

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Println("Listening on", addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
