package mailer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roplabs/payroll-backend-go/internal/domain/payroll"
	"github.com/roplabs/payroll-backend-go/internal/domain/report"
	"github.com/roplabs/payroll-backend-go/internal/domain/user"
	"github.com/roplabs/payroll-backend-go/internal/pkg/email"
	"github.com/roplabs/payroll-backend-go/internal/pkg/media"
)

type fakeCSVGen struct {
	path string
	err  error
}

func (f *fakeCSVGen) GenerateCSV(_ context.Context, _ user.User, _ payroll.Period, _ []user.User) (string, error) {
	return f.path, f.err
}
func (f *fakeCSVGen) GenerateCSVForTeam(_ context.Context, _ user.User, _ payroll.Period, _ bool) (string, error) {
	return f.path, f.err
}
func (f *fakeCSVGen) GenerateCSVContent(_ context.Context, _ user.User, _ payroll.Period, _ []user.User) (string, error) {
	return "", f.err
}

type fakePDFGen struct {
	path  string
	err   error
	calls int
}

func (f *fakePDFGen) GeneratePDF(_ context.Context, _ user.User, _ payroll.Period, _ string) (string, error) {
	f.calls++
	return f.path, f.err
}
func (f *fakePDFGen) GeneratePDFsForTeam(_ context.Context, _ user.User, _ payroll.Period, _ []user.User) ([]report.PDFResult, error) {
	return nil, nil
}

type fakeArchiver struct {
	err    error
	labels []string
	files  [][]string
}

func (f *fakeArchiver) ArchiveFiles(_ context.Context, files []string, label string, _ payroll.Period) (report.ArchiveResult, error) {
	f.labels = append(f.labels, label)
	f.files = append(f.files, files)
	if f.err != nil {
		return report.ArchiveResult{}, f.err
	}
	return report.ArchiveResult{ArchivePath: "archives/x.zip", FilesCount: len(files)}, nil
}

type fakeReportRepo struct {
	upserted    []report.GeneratedReport
	sentIDs     []string
	archivedIDs []string
	updatedFile map[string]string
}

func (f *fakeReportRepo) UpsertActive(_ context.Context, r report.GeneratedReport) (report.GeneratedReport, error) {
	r.ID = "report-1"
	f.upserted = append(f.upserted, r)
	return r, nil
}
func (f *fakeReportRepo) GetByID(_ context.Context, _ string) (report.GeneratedReport, error) {
	return report.GeneratedReport{}, report.ErrReportNotFound
}
func (f *fakeReportRepo) List(_ context.Context, _ string) ([]report.GeneratedReport, error) {
	return nil, nil
}
func (f *fakeReportRepo) MarkSent(_ context.Context, id string, _ time.Time) error {
	f.sentIDs = append(f.sentIDs, id)
	return nil
}
func (f *fakeReportRepo) MarkArchived(_ context.Context, id string, _ time.Time) error {
	f.archivedIDs = append(f.archivedIDs, id)
	return nil
}
func (f *fakeReportRepo) UpdateFile(_ context.Context, id, filePath, _ string) error {
	if f.updatedFile == nil {
		f.updatedFile = map[string]string{}
	}
	f.updatedFile[id] = filePath
	return nil
}

type fakeEmailLogRepo struct {
	created []report.EmailLog
	sent    []string
	failed  map[string]string
}

func (f *fakeEmailLogRepo) Create(_ context.Context, l report.EmailLog) (report.EmailLog, error) {
	l.ID = "log-1"
	f.created = append(f.created, l)
	return l, nil
}
func (f *fakeEmailLogRepo) MarkSent(_ context.Context, id string, _ time.Time) error {
	f.sent = append(f.sent, id)
	return nil
}
func (f *fakeEmailLogRepo) MarkFailed(_ context.Context, id string, msg string) error {
	if f.failed == nil {
		f.failed = map[string]string{}
	}
	f.failed[id] = msg
	return nil
}
func (f *fakeEmailLogRepo) ListByReport(_ context.Context, _ string) ([]report.EmailLog, error) {
	return nil, nil
}

type fakePeriodRepo struct {
	byID map[string]payroll.Period
}

func (f *fakePeriodRepo) Create(_ context.Context, p payroll.Period) (payroll.Period, error) {
	return p, nil
}
func (f *fakePeriodRepo) GetByID(_ context.Context, id string) (payroll.Period, error) {
	p, ok := f.byID[id]
	if !ok {
		return payroll.Period{}, payroll.ErrPeriodNotFound
	}
	return p, nil
}
func (f *fakePeriodRepo) GetByYearMonth(_ context.Context, _, _ int) (payroll.Period, error) {
	return payroll.Period{}, payroll.ErrPeriodNotFound
}
func (f *fakePeriodRepo) List(_ context.Context) ([]payroll.Period, error) { return nil, nil }
func (f *fakePeriodRepo) SetLock(_ context.Context, _ string, _ bool, _ *string, _ *time.Time) (payroll.Period, error) {
	return payroll.Period{}, payroll.ErrPeriodNotFound
}

type fakeUserRepo struct {
	byID map[string]user.User
}

func (f *fakeUserRepo) Create(_ context.Context, u user.User) (user.User, error) { return u, nil }
func (f *fakeUserRepo) GetByID(_ context.Context, id string) (user.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}
func (f *fakeUserRepo) GetByEmail(_ context.Context, _ string) (user.User, error) {
	return user.User{}, user.ErrUserNotFound
}
func (f *fakeUserRepo) Update(_ context.Context, u user.User) (user.User, error) { return u, nil }
func (f *fakeUserRepo) SetActive(_ context.Context, _ string, _ bool) error      { return nil }
func (f *fakeUserRepo) List(_ context.Context) ([]user.User, error)              { return nil, nil }
func (f *fakeUserRepo) ListDirectReports(_ context.Context, _ string, _ bool) ([]user.User, error) {
	return nil, nil
}

type fakeAccessPolicy struct {
	allow bool
}

func (f *fakeAccessPolicy) CanManagerAccess(_ context.Context, _, _ user.User) (bool, error) {
	return f.allow, nil
}

type fakeSender struct {
	err  error
	sent []email.Message
	done chan struct{}
}

func (f *fakeSender) Send(_ context.Context, msg email.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	if f.done != nil {
		close(f.done)
	}
	return nil
}

type mailerFixture struct {
	csvGen   *fakeCSVGen
	pdfGen   *fakePDFGen
	archiver *fakeArchiver
	reports  *fakeReportRepo
	logs     *fakeEmailLogRepo
	periods  *fakePeriodRepo
	users    *fakeUserRepo
	access   *fakeAccessPolicy
	sender   *fakeSender
	paths    media.Paths
	svc      report.Mailer
}

func newFixture(t *testing.T, async bool) *mailerFixture {
	t.Helper()
	root := t.TempDir()
	paths := media.Paths{
		Root:        root,
		CSVDir:      filepath.Join(root, "reports", "csv"),
		PDFDir:      filepath.Join(root, "reports", "pdf"),
		ArchivesDir: filepath.Join(root, "archives"),
	}
	for _, dir := range []string{paths.CSVDir, paths.PDFDir, paths.ArchivesDir} {
		require.NoError(t, os.MkdirAll(dir, 0o755))
	}

	f := &mailerFixture{
		csvGen:   &fakeCSVGen{},
		pdfGen:   &fakePDFGen{},
		archiver: &fakeArchiver{},
		reports:  &fakeReportRepo{},
		logs:     &fakeEmailLogRepo{},
		periods:  &fakePeriodRepo{byID: map[string]payroll.Period{}},
		users:    &fakeUserRepo{byID: map[string]user.User{}},
		access:   &fakeAccessPolicy{allow: true},
		sender:   &fakeSender{},
		paths:    paths,
	}
	f.svc = NewMailerService(f.csvGen, f.pdfGen, f.archiver, f.reports, f.logs,
		f.periods, f.users, f.access, f.sender, paths, async)
	return f
}

func (f *mailerFixture) writeCSV(t *testing.T) string {
	t.Helper()
	path := filepath.Join(f.paths.CSVDir, "manager_report_m1_2024_03_20240331_120000.csv")
	require.NoError(t, os.WriteFile(path, []byte("data"), 0o644))
	f.csvGen.path = path
	return path
}

func (f *mailerFixture) writePDF(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(f.paths.PDFDir, name)
	require.NoError(t, os.WriteFile(path, []byte("pdf"), 0o644))
	return path
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

var testManager = user.User{ID: "m1", FirstName: "Radu", LastName: "Ionescu", Email: "radu@example.com", IsManager: true, IsActive: true}

func TestSendCSVToManager(t *testing.T) {
	ctx := context.Background()

	t.Run("generates records sends and archives", func(t *testing.T) {
		f := newFixture(t, false)
		path := f.writeCSV(t)

		result, err := f.svc.SendCSVToManager(ctx, testManager, marchPeriod(), false)
		require.NoError(t, err)

		assert.Equal(t, "radu@example.com", result.Recipient)
		assert.Equal(t, []string{path}, result.Attachments)
		assert.False(t, result.Queued)

		require.Len(t, f.reports.upserted, 1)
		rec := f.reports.upserted[0]
		assert.Equal(t, report.TypeManagerCSV, rec.Type)
		assert.Equal(t, "m1", *rec.ManagerID)
		assert.Equal(t, filepath.Join("reports", "csv", filepath.Base(path)), rec.FilePath)

		require.Len(t, f.sender.sent, 1)
		msg := f.sender.sent[0]
		assert.Equal(t, "Salary Report - 2024-03", msg.Subject)
		assert.Contains(t, msg.Body, "Dear Radu Ionescu,")
		assert.Contains(t, msg.Body, "Your salary report for 2024-03 is attached.")

		assert.Equal(t, []string{"report-1"}, f.reports.sentIDs)
		assert.Equal(t, []string{"report-1"}, f.reports.archivedIDs)
		assert.Equal(t, []string{"csv_m1"}, f.archiver.labels)
		assert.Equal(t, []string{"log-1"}, f.logs.sent)
	})

	t.Run("send failure leaves report unsent and unarchived", func(t *testing.T) {
		f := newFixture(t, false)
		f.writeCSV(t)
		f.sender.err = errors.New("smtp down")

		_, err := f.svc.SendCSVToManager(ctx, testManager, marchPeriod(), false)
		require.Error(t, err)

		require.Len(t, f.reports.upserted, 1)
		assert.Empty(t, f.reports.sentIDs)
		assert.Empty(t, f.reports.archivedIDs)
		assert.Empty(t, f.archiver.labels)
		assert.Equal(t, "smtp down", f.logs.failed["log-1"])
	})

	t.Run("archive failure does not fail the send", func(t *testing.T) {
		f := newFixture(t, false)
		f.writeCSV(t)
		f.archiver.err = errors.New("disk full")

		_, err := f.svc.SendCSVToManager(ctx, testManager, marchPeriod(), false)
		require.NoError(t, err)

		assert.Equal(t, []string{"report-1"}, f.reports.sentIDs)
		assert.Empty(t, f.reports.archivedIDs)
	})

	t.Run("generation failure records nothing", func(t *testing.T) {
		f := newFixture(t, false)
		f.csvGen.err = &report.GenerationError{Kind: report.KindCSV, Message: "cannot generate report", Err: report.ErrNoEmployees}

		_, err := f.svc.SendCSVToManager(ctx, testManager, marchPeriod(), false)
		require.ErrorIs(t, err, report.ErrNoEmployees)
		assert.Empty(t, f.reports.upserted)
		assert.Empty(t, f.sender.sent)
	})

	t.Run("missing manager email aborts after recording", func(t *testing.T) {
		f := newFixture(t, false)
		f.writeCSV(t)

		noEmail := testManager
		noEmail.Email = ""
		_, err := f.svc.SendCSVToManager(ctx, noEmail, marchPeriod(), false)
		require.ErrorIs(t, err, report.ErrEmployeeEmailMissing)

		require.Len(t, f.reports.upserted, 1)
		assert.Empty(t, f.sender.sent)
	})
}

func TestQueueCSVToManager(t *testing.T) {
	ctx := context.Background()

	t.Run("inline when async disabled", func(t *testing.T) {
		f := newFixture(t, false)
		f.writeCSV(t)

		result, err := f.svc.QueueCSVToManager(ctx, testManager, marchPeriod(), false)
		require.NoError(t, err)
		assert.False(t, result.Queued)
		assert.Len(t, f.sender.sent, 1)
	})

	t.Run("queued when async enabled", func(t *testing.T) {
		f := newFixture(t, true)
		f.writeCSV(t)
		f.sender.done = make(chan struct{})

		result, err := f.svc.QueueCSVToManager(ctx, testManager, marchPeriod(), false)
		require.NoError(t, err)
		assert.True(t, result.Queued)
		assert.Equal(t, "radu@example.com", result.Recipient)

		select {
		case <-f.sender.done:
		case <-time.After(2 * time.Second):
			t.Fatal("queued send never ran")
		}
	})
}

func TestSendPayslipForManager(t *testing.T) {
	ctx := context.Background()
	target := user.User{ID: "u1", FirstName: "Maria", LastName: "Popescu", Email: "maria@example.com", CNP: "1234567890123", IsActive: true}

	t.Run("generates payslip and delivers to employee", func(t *testing.T) {
		f := newFixture(t, false)
		f.pdfGen.path = f.writePDF(t, "payslip_u1_2024_03_20240331_120000.pdf")

		result, err := f.svc.SendPayslipForManager(ctx, testManager, marchPeriod(), report.PayslipSendOptions{User: &target})
		require.NoError(t, err)

		assert.Equal(t, "maria@example.com", result.Recipient)
		require.Len(t, f.reports.upserted, 1)
		assert.Equal(t, report.TypeUserPDF, f.reports.upserted[0].Type)
		assert.Equal(t, "u1", *f.reports.upserted[0].UserID)

		require.Len(t, f.sender.sent, 1)
		msg := f.sender.sent[0]
		assert.Equal(t, "Your Payslip for 2024-03", msg.Subject)
		assert.Contains(t, msg.Body, "Dear Maria Popescu,")
		assert.Contains(t, msg.Body, "Your payslip for 2024-03 is attached.")

		assert.Equal(t, []string{"pdf_m1_u1"}, f.archiver.labels)
	})

	t.Run("access denied", func(t *testing.T) {
		f := newFixture(t, false)
		f.access.allow = false

		_, err := f.svc.SendPayslipForManager(ctx, testManager, marchPeriod(), report.PayslipSendOptions{User: &target})
		require.ErrorIs(t, err, user.ErrAccessDenied)
		assert.Zero(t, f.pdfGen.calls)
		assert.Empty(t, f.sender.sent)
	})

	t.Run("existing report file is reused", func(t *testing.T) {
		f := newFixture(t, false)
		f.users.byID["u1"] = target
		path := f.writePDF(t, "payslip_u1_2024_03_20240331_120000.pdf")
		uid := "u1"
		existing := report.GeneratedReport{
			ID:       "report-9",
			Type:     report.TypeUserPDF,
			PeriodID: "period-1",
			UserID:   &uid,
			FilePath: f.paths.Rel(path),
		}

		_, err := f.svc.SendPayslipForManager(ctx, testManager, marchPeriod(), report.PayslipSendOptions{Report: &existing})
		require.NoError(t, err)

		assert.Zero(t, f.pdfGen.calls)
		assert.Empty(t, f.reports.upserted)
		assert.Equal(t, []string{"report-9"}, f.reports.sentIDs)
	})

	t.Run("missing report file is regenerated", func(t *testing.T) {
		f := newFixture(t, false)
		f.users.byID["u1"] = target
		f.pdfGen.path = f.writePDF(t, "payslip_u1_2024_03_20240401_090000.pdf")
		uid := "u1"
		existing := report.GeneratedReport{
			ID:       "report-9",
			Type:     report.TypeUserPDF,
			PeriodID: "period-1",
			UserID:   &uid,
			FilePath: filepath.Join("reports", "pdf", "gone.pdf"),
		}

		_, err := f.svc.SendPayslipForManager(ctx, testManager, marchPeriod(), report.PayslipSendOptions{Report: &existing})
		require.NoError(t, err)

		assert.Equal(t, 1, f.pdfGen.calls)
		assert.Equal(t, f.paths.Rel(f.pdfGen.path), f.reports.updatedFile["report-9"])
	})

	t.Run("report period wins over the argument period", func(t *testing.T) {
		f := newFixture(t, false)
		f.users.byID["u1"] = target
		f.periods.byID["period-2"] = payroll.Period{
			ID:        "period-2",
			Year:      2024,
			Month:     2,
			StartDate: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
		}
		path := f.writePDF(t, "payslip_u1_2024_02_20240229_120000.pdf")
		uid := "u1"
		existing := report.GeneratedReport{
			ID:       "report-9",
			Type:     report.TypeUserPDF,
			PeriodID: "period-2",
			UserID:   &uid,
			FilePath: f.paths.Rel(path),
		}

		_, err := f.svc.SendPayslipForManager(ctx, testManager, marchPeriod(), report.PayslipSendOptions{Report: &existing})
		require.NoError(t, err)

		require.Len(t, f.sender.sent, 1)
		msg := f.sender.sent[0]
		assert.Equal(t, "Your Payslip for 2024-02", msg.Subject)
		assert.Contains(t, msg.Body, "Your payslip for 2024-02 is attached.")
	})

	t.Run("wrong report type is rejected", func(t *testing.T) {
		f := newFixture(t, false)
		mid := "m1"
		wrong := report.GeneratedReport{ID: "report-9", Type: report.TypeManagerCSV, ManagerID: &mid}

		_, err := f.svc.SendPayslipForManager(ctx, testManager, marchPeriod(), report.PayslipSendOptions{Report: &wrong})
		require.ErrorIs(t, err, report.ErrReportTypeMismatch)
	})

	t.Run("recipient override", func(t *testing.T) {
		f := newFixture(t, false)
		f.pdfGen.path = f.writePDF(t, "payslip_u1_2024_03_20240331_120000.pdf")

		result, err := f.svc.SendPayslipForManager(ctx, testManager, marchPeriod(), report.PayslipSendOptions{
			User:    &target,
			ToEmail: "hr@example.com",
			Subject: "March payslip",
		})
		require.NoError(t, err)
		assert.Equal(t, "hr@example.com", result.Recipient)
		assert.Equal(t, "March payslip", f.sender.sent[0].Subject)
	})

	t.Run("missing employee email aborts", func(t *testing.T) {
		f := newFixture(t, false)
		f.pdfGen.path = f.writePDF(t, "payslip_u1_2024_03_20240331_120000.pdf")

		noEmail := target
		noEmail.Email = ""
		_, err := f.svc.SendPayslipForManager(ctx, testManager, marchPeriod(), report.PayslipSendOptions{User: &noEmail})
		require.ErrorIs(t, err, report.ErrEmployeeEmailMissing)
		assert.Zero(t, f.pdfGen.calls)
		assert.Empty(t, f.sender.sent)
	})
}

func TestRenderBody(t *testing.T) {
	t.Run("renders the embedded template", func(t *testing.T) {
		body := renderBody("payslip.txt", "Maria Popescu", "2024-03")
		assert.Contains(t, body, "Dear Maria Popescu,")
		assert.Contains(t, body, "Your payslip for 2024-03 is attached.")
	})

	t.Run("falls back to a literal body when the template is missing", func(t *testing.T) {
		body := renderBody("does_not_exist.txt", "Maria Popescu", "2024-03")
		assert.Contains(t, body, "Dear Maria Popescu,")
		assert.Contains(t, body, "Your salary report for 2024-03 is attached.")
	})
}
