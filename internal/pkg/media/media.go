package media

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/roplabs/payroll-backend-go/internal/config"
)

// Paths resolves where generated files live on disk. Stored file references
// are kept relative to Root.
type Paths struct {
	Root        string
	CSVDir      string
	PDFDir      string
	ArchivesDir string
}

func New(cfg config.MediaConfig) (Paths, error) {
	p := Paths{
		Root:        cfg.Root,
		CSVDir:      cfg.CSVDir,
		PDFDir:      cfg.PDFDir,
		ArchivesDir: cfg.ArchivesDir,
	}
	for _, dir := range []string{p.Root, p.CSVDir, p.PDFDir, p.ArchivesDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return Paths{}, fmt.Errorf("failed to create media directory %s: %w", dir, err)
		}
	}
	return p, nil
}

// Rel returns path relative to the media root, for storage on report rows.
// Paths outside the root are returned unchanged.
func (p Paths) Rel(path string) string {
	rel, err := filepath.Rel(p.Root, path)
	if err != nil || filepath.IsAbs(rel) || len(rel) >= 2 && rel[:2] == ".." {
		return path
	}
	return rel
}

// Abs resolves a stored relative path back under the media root. Absolute
// paths are returned unchanged.
func (p Paths) Abs(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(p.Root, path)
}

// Exists reports whether a file is present on disk.
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
