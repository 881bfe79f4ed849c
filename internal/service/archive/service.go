package archive

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gosimple/slug"

	"github.com/roplabs/payroll-backend-go/internal/domain/payroll"
	"github.com/roplabs/payroll-backend-go/internal/domain/report"
	"github.com/roplabs/payroll-backend-go/internal/pkg/media"
)

const archiveTimestampLayout = "20060102-150405"

type ArchiveServiceImpl struct {
	paths media.Paths
}

func NewArchiveService(paths media.Paths) report.Archiver {
	return &ArchiveServiceImpl{paths: paths}
}

// ArchiveFiles zips the given files into a dated archive under the period's
// archive directory. Files missing from disk are skipped; the archive entries
// are flat base names.
func (s *ArchiveServiceImpl) ArchiveFiles(ctx context.Context, files []string, label string, period payroll.Period) (report.ArchiveResult, error) {
	genErr := func(msg string, cause error) *report.GenerationError {
		return &report.GenerationError{
			Kind:        report.KindArchive,
			Message:     msg,
			PeriodLabel: period.Label(),
			Err:         cause,
		}
	}

	existing := make([]string, 0, len(files))
	for _, f := range files {
		if !media.Exists(f) {
			slog.Warn("Skipping missing file during archiving", "path", f, "period", period.Label())
			continue
		}
		existing = append(existing, f)
	}
	if len(existing) == 0 {
		return report.ArchiveResult{}, genErr("cannot create archive", report.ErrNoFilesToArchive)
	}

	dir := filepath.Join(s.paths.ArchivesDir, period.Label())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return report.ArchiveResult{}, genErr("failed to create archive directory", err)
	}

	name := fmt.Sprintf("%s-%s.zip", slug.Make(label), time.Now().Format(archiveTimestampLayout))
	archivePath := filepath.Join(dir, name)

	if err := writeZip(archivePath, existing); err != nil {
		return report.ArchiveResult{}, genErr("failed to write archive", err)
	}

	slog.Info("Archive created", "path", archivePath, "files", len(existing), "period", period.Label())
	return report.ArchiveResult{ArchivePath: archivePath, FilesCount: len(existing)}, nil
}

func writeZip(archivePath string, files []string) error {
	out, err := os.Create(archivePath)
	if err != nil {
		return err
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	for _, f := range files {
		if err := addFile(zw, f); err != nil {
			zw.Close()
			return fmt.Errorf("failed to add %s: %w", filepath.Base(f), err)
		}
	}
	if err := zw.Close(); err != nil {
		return err
	}
	return out.Close()
}

func addFile(zw *zip.Writer, path string) error {
	in, err := os.Open(path)
	if err != nil {
		return err
	}
	defer in.Close()

	w, err := zw.Create(filepath.Base(path))
	if err != nil {
		return err
	}
	_, err = io.Copy(w, in)
	return err
}
