package reportgen

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roplabs/payroll-backend-go/internal/domain/attendance"
	"github.com/roplabs/payroll-backend-go/internal/domain/payroll"
	"github.com/roplabs/payroll-backend-go/internal/domain/report"
	"github.com/roplabs/payroll-backend-go/internal/domain/user"
	"github.com/roplabs/payroll-backend-go/internal/pkg/media"
)

type fakeSalaryService struct {
	breakdowns map[string]payroll.SalaryBreakdown
	errs       map[string]error
}

func (f *fakeSalaryService) Calculate(_ context.Context, u user.User, _ payroll.Period) (payroll.SalaryBreakdown, error) {
	if err, ok := f.errs[u.ID]; ok {
		return payroll.SalaryBreakdown{}, err
	}
	return f.breakdowns[u.ID], nil
}

func (f *fakeSalaryService) GeneratePayslip(_ context.Context, _ user.User, _ payroll.Period) (payroll.Payslip, error) {
	return payroll.Payslip{}, nil
}

func (f *fakeSalaryService) CalculateForTeam(_ context.Context, _ user.User, _ payroll.Period, _ bool) ([]payroll.TeamMemberResult, error) {
	return nil, nil
}

type fakeEmployeeService struct {
	team []user.User
}

func (f *fakeEmployeeService) Create(_ context.Context, _ string, _ user.CreateUserRequest) (user.UserResponse, error) {
	return user.UserResponse{}, nil
}
func (f *fakeEmployeeService) GetByID(_ context.Context, _ string) (user.UserResponse, error) {
	return user.UserResponse{}, nil
}
func (f *fakeEmployeeService) Update(_ context.Context, _ string, _ user.UpdateUserRequest) (user.UserResponse, error) {
	return user.UserResponse{}, nil
}
func (f *fakeEmployeeService) Deactivate(_ context.Context, _ string) error { return nil }
func (f *fakeEmployeeService) List(_ context.Context) ([]user.UserResponse, error) {
	return nil, nil
}
func (f *fakeEmployeeService) ResolveTeam(_ context.Context, _ user.User, _ bool) ([]user.User, error) {
	return f.team, nil
}

type fakeCompensationRepo struct {
	byUser map[string]payroll.Compensation
}

func (f *fakeCompensationRepo) GetByUserID(_ context.Context, userID string) (payroll.Compensation, error) {
	c, ok := f.byUser[userID]
	if !ok {
		return payroll.Compensation{}, payroll.ErrCompensationNotFound
	}
	return c, nil
}
func (f *fakeCompensationRepo) Upsert(_ context.Context, c payroll.Compensation) (payroll.Compensation, error) {
	return c, nil
}
func (f *fakeCompensationRepo) Delete(_ context.Context, _ string) error { return nil }

type fakeAttendanceRepo struct {
	vacationDays map[string]int
}

func (f *fakeAttendanceRepo) Create(_ context.Context, r attendance.Record) (attendance.Record, error) {
	return r, nil
}
func (f *fakeAttendanceRepo) Update(_ context.Context, r attendance.Record) (attendance.Record, error) {
	return r, nil
}
func (f *fakeAttendanceRepo) Delete(_ context.Context, _ string) error { return nil }
func (f *fakeAttendanceRepo) GetByID(_ context.Context, _ string) (attendance.Record, error) {
	return attendance.Record{}, attendance.ErrRecordNotFound
}
func (f *fakeAttendanceRepo) ListByUserRange(_ context.Context, _ string, _, _ time.Time) ([]attendance.Record, error) {
	return nil, nil
}
func (f *fakeAttendanceRepo) CountByTypeInRange(_ context.Context, _ string, _ attendance.Type, _, _ time.Time) (int, error) {
	return 0, nil
}
func (f *fakeAttendanceRepo) CountByTypeInMonth(_ context.Context, userID string, typ attendance.Type, _, _ int) (int, error) {
	if typ != attendance.TypeVacation {
		return 0, nil
	}
	return f.vacationDays[userID], nil
}
func (f *fakeAttendanceRepo) SummaryForRange(_ context.Context, _ string, _, _ time.Time) (attendance.MonthlySummary, error) {
	return attendance.MonthlySummary{}, nil
}

type fakeEncryptor struct {
	err   error
	calls int
}

func (f *fakeEncryptor) Encrypt(_ context.Context, inputPath, outputPath, password string) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return err
	}
	return os.WriteFile(outputPath, data, 0o644)
}

func testPaths(t *testing.T) media.Paths {
	t.Helper()
	root := t.TempDir()
	p := media.Paths{
		Root:        root,
		CSVDir:      filepath.Join(root, "reports", "csv"),
		PDFDir:      filepath.Join(root, "reports", "pdf"),
		ArchivesDir: filepath.Join(root, "archives"),
	}
	for _, dir := range []string{p.CSVDir, p.PDFDir, p.ArchivesDir} {
		require.NoError(t, os.MkdirAll(dir, 0o755))
	}
	return p
}

func marchPeriod() payroll.Period {
	return payroll.Period{
		ID:        "period-1",
		Year:      2024,
		Month:     3,
		StartDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
	}
}

func breakdown(net, bonuses string, businessDays, unpaidDays int) payroll.SalaryBreakdown {
	return payroll.SalaryBreakdown{
		Compensation:    decimal.RequireFromString(net),
		NetTotal:        decimal.RequireFromString(net),
		BonusesTotal:    decimal.RequireFromString(bonuses),
		UnpaidDeduction: decimal.Zero,
		BusinessDays:    businessDays,
		UnpaidDays:      unpaidDays,
	}
}

func TestGenerateCSVContent(t *testing.T) {
	ctx := context.Background()
	manager := user.User{ID: "m1", FirstName: "Radu", LastName: "Ionescu", IsManager: true}
	emp1 := user.User{ID: "u1", FirstName: "Maria", LastName: "Popescu"}
	emp2 := user.User{ID: "u2", FirstName: "Ion", LastName: "Georgescu"}

	t.Run("rows carry name amounts days and currency", func(t *testing.T) {
		salary := &fakeSalaryService{breakdowns: map[string]payroll.SalaryBreakdown{
			"u1": breakdown("2914.28", "200.00", 21, 2),
		}}
		comp := &fakeCompensationRepo{byUser: map[string]payroll.Compensation{
			"u1": {UserID: "u1", Currency: "EUR"},
		}}
		att := &fakeAttendanceRepo{vacationDays: map[string]int{"u1": 3}}
		svc := NewCSVService(salary, &fakeEmployeeService{}, comp, att, testPaths(t))

		content, err := svc.GenerateCSVContent(ctx, manager, marchPeriod(), []user.User{emp1})
		require.NoError(t, err)

		lines := strings.Split(strings.TrimSpace(content), "\n")
		require.Len(t, lines, 2)
		assert.Equal(t, "Employee Name,Salary To Be Paid,Working Days,Vacation Days,Bonuses,Currency", lines[0])
		assert.Equal(t, "Maria Popescu,2914.28,19,3,200.00,EUR", lines[1])
	})

	t.Run("missing compensation falls back to default currency", func(t *testing.T) {
		salary := &fakeSalaryService{breakdowns: map[string]payroll.SalaryBreakdown{
			"u1": breakdown("1000.00", "0.00", 21, 0),
		}}
		svc := NewCSVService(salary, &fakeEmployeeService{},
			&fakeCompensationRepo{byUser: map[string]payroll.Compensation{}},
			&fakeAttendanceRepo{}, testPaths(t))

		content, err := svc.GenerateCSVContent(ctx, manager, marchPeriod(), []user.User{emp1})
		require.NoError(t, err)
		assert.Contains(t, content, "Maria Popescu,1000.00,21,0,0.00,RON")
	})

	t.Run("failed employees are skipped", func(t *testing.T) {
		salary := &fakeSalaryService{
			breakdowns: map[string]payroll.SalaryBreakdown{"u2": breakdown("500.00", "0.00", 21, 0)},
			errs:       map[string]error{"u1": payroll.ErrCompensationNotFound},
		}
		svc := NewCSVService(salary, &fakeEmployeeService{},
			&fakeCompensationRepo{byUser: map[string]payroll.Compensation{}},
			&fakeAttendanceRepo{}, testPaths(t))

		content, err := svc.GenerateCSVContent(ctx, manager, marchPeriod(), []user.User{emp1, emp2})
		require.NoError(t, err)
		assert.NotContains(t, content, "Maria Popescu")
		assert.Contains(t, content, "Ion Georgescu")
	})

	t.Run("all employees failing aborts the report", func(t *testing.T) {
		salary := &fakeSalaryService{errs: map[string]error{
			"u1": payroll.ErrCompensationNotFound,
			"u2": payroll.ErrCompensationNotFound,
		}}
		svc := NewCSVService(salary, &fakeEmployeeService{},
			&fakeCompensationRepo{byUser: map[string]payroll.Compensation{}},
			&fakeAttendanceRepo{}, testPaths(t))

		_, err := svc.GenerateCSVContent(ctx, manager, marchPeriod(), []user.User{emp1, emp2})
		require.ErrorIs(t, err, report.ErrNoRowsGenerated)

		var genErr *report.GenerationError
		require.ErrorAs(t, err, &genErr)
		assert.Equal(t, report.KindCSV, genErr.Kind)
		assert.Equal(t, "m1", genErr.ManagerID)
		assert.Equal(t, "2024-03", genErr.PeriodLabel)
	})

	t.Run("empty team aborts the report", func(t *testing.T) {
		svc := NewCSVService(&fakeSalaryService{}, &fakeEmployeeService{},
			&fakeCompensationRepo{byUser: map[string]payroll.Compensation{}},
			&fakeAttendanceRepo{}, testPaths(t))

		_, err := svc.GenerateCSVContent(ctx, manager, marchPeriod(), []user.User{})
		require.ErrorIs(t, err, report.ErrNoEmployees)
	})

	t.Run("non-manager is refused even with an explicit employee list", func(t *testing.T) {
		salary := &fakeSalaryService{breakdowns: map[string]payroll.SalaryBreakdown{
			"u1": breakdown("1000.00", "0.00", 21, 0),
		}}
		svc := NewCSVService(salary, &fakeEmployeeService{},
			&fakeCompensationRepo{byUser: map[string]payroll.Compensation{}},
			&fakeAttendanceRepo{}, testPaths(t))

		notManager := user.User{ID: "u9", FirstName: "Ana", LastName: "Dinu"}
		_, err := svc.GenerateCSVContent(ctx, notManager, marchPeriod(), []user.User{emp1})
		require.ErrorIs(t, err, user.ErrNotManager)

		var genErr *report.GenerationError
		require.ErrorAs(t, err, &genErr)
		assert.Equal(t, report.KindCSV, genErr.Kind)
		assert.Equal(t, "u9", genErr.ManagerID)

		_, err = svc.GenerateCSVContent(ctx, notManager, marchPeriod(), nil)
		require.ErrorIs(t, err, user.ErrNotManager)
	})
}

func TestGenerateCSV(t *testing.T) {
	ctx := context.Background()
	manager := user.User{ID: "m1", FirstName: "Radu", LastName: "Ionescu", IsManager: true}
	emp := user.User{ID: "u1", FirstName: "Maria", LastName: "Popescu"}

	salary := &fakeSalaryService{breakdowns: map[string]payroll.SalaryBreakdown{
		"u1": breakdown("2914.28", "200.00", 21, 2),
	}}
	paths := testPaths(t)
	svc := NewCSVService(salary, &fakeEmployeeService{team: []user.User{emp}},
		&fakeCompensationRepo{byUser: map[string]payroll.Compensation{}},
		&fakeAttendanceRepo{}, paths)

	path, err := svc.GenerateCSVForTeam(ctx, manager, marchPeriod(), false)
	require.NoError(t, err)

	name := filepath.Base(path)
	assert.True(t, strings.HasPrefix(name, "manager_report_m1_2024_03_"), "unexpected filename %s", name)
	assert.True(t, strings.HasSuffix(name, ".csv"))
	assert.Equal(t, paths.CSVDir, filepath.Dir(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Maria Popescu")
}

func TestGeneratePDF(t *testing.T) {
	ctx := context.Background()
	emp := user.User{ID: "u1", FirstName: "Maria", LastName: "Popescu", CNP: "1234567890123"}

	newSalary := func() *fakeSalaryService {
		return &fakeSalaryService{breakdowns: map[string]payroll.SalaryBreakdown{
			"u1": breakdown("2914.28", "200.00", 21, 2),
		}}
	}

	t.Run("protected payslip is written and temp file removed", func(t *testing.T) {
		paths := testPaths(t)
		enc := &fakeEncryptor{}
		svc := NewPDFService(newSalary(), enc, paths)

		path, err := svc.GeneratePDF(ctx, emp, marchPeriod(), "")
		require.NoError(t, err)

		name := filepath.Base(path)
		assert.True(t, strings.HasPrefix(name, "payslip_u1_2024_03_"), "unexpected filename %s", name)
		assert.True(t, strings.HasSuffix(name, ".pdf"))
		assert.FileExists(t, path)
		assert.NoFileExists(t, filepath.Join(paths.PDFDir, "temp_"+name))
		assert.Equal(t, 1, enc.calls)
	})

	t.Run("encryption failure removes temp file", func(t *testing.T) {
		paths := testPaths(t)
		enc := &fakeEncryptor{err: errors.New("qpdf exploded")}
		svc := NewPDFService(newSalary(), enc, paths)

		_, err := svc.GeneratePDF(ctx, emp, marchPeriod(), "")
		require.Error(t, err)

		var genErr *report.GenerationError
		require.ErrorAs(t, err, &genErr)
		assert.Equal(t, report.KindPDF, genErr.Kind)
		assert.Equal(t, "u1", genErr.UserID)

		entries, err := os.ReadDir(paths.PDFDir)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("missing password and CNP is rejected", func(t *testing.T) {
		enc := &fakeEncryptor{}
		svc := NewPDFService(newSalary(), enc, testPaths(t))

		noCNP := emp
		noCNP.CNP = ""
		_, err := svc.GeneratePDF(ctx, noCNP, marchPeriod(), "")
		require.Error(t, err)
		assert.Zero(t, enc.calls)
	})

	t.Run("calculation failure produces no files", func(t *testing.T) {
		paths := testPaths(t)
		salary := &fakeSalaryService{errs: map[string]error{"u1": payroll.ErrCompensationNotFound}}
		svc := NewPDFService(salary, &fakeEncryptor{}, paths)

		_, err := svc.GeneratePDF(ctx, emp, marchPeriod(), "")
		require.ErrorIs(t, err, payroll.ErrCompensationNotFound)

		entries, err := os.ReadDir(paths.PDFDir)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}

func TestGeneratePDFsForTeam(t *testing.T) {
	ctx := context.Background()
	manager := user.User{ID: "m1", FirstName: "Radu", LastName: "Ionescu", IsManager: true}
	emp1 := user.User{ID: "u1", FirstName: "Maria", LastName: "Popescu", CNP: "1234567890123"}
	emp2 := user.User{ID: "u2", FirstName: "Ion", LastName: "Georgescu", CNP: "9876543210987"}

	salary := &fakeSalaryService{
		breakdowns: map[string]payroll.SalaryBreakdown{"u1": breakdown("2914.28", "200.00", 21, 2)},
		errs:       map[string]error{"u2": payroll.ErrCompensationNotFound},
	}
	svc := NewPDFService(salary, &fakeEncryptor{}, testPaths(t))

	results, err := svc.GeneratePDFsForTeam(ctx, manager, marchPeriod(), []user.User{emp1, emp2})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.NoError(t, results[0].Err)
	assert.FileExists(t, results[0].FilePath)

	assert.Empty(t, results[1].FilePath)
	require.ErrorIs(t, results[1].Err, payroll.ErrCompensationNotFound)
}
