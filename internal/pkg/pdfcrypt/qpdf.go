package pdfcrypt

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrToolNotFound indicates the qpdf binary is not installed.
var ErrToolNotFound = errors.New("qpdf not found, install it with: apt-get install qpdf")

// Encryptor applies whole-file password protection to a PDF.
type Encryptor interface {
	Encrypt(ctx context.Context, inputPath, outputPath, password string) error
}

// QPDF shells out to the qpdf binary for AES-256 encryption.
type QPDF struct {
	bin string
}

func NewQPDF(bin string) *QPDF {
	if bin == "" {
		bin = "qpdf"
	}
	return &QPDF{bin: bin}
}

func (q *QPDF) Encrypt(ctx context.Context, inputPath, outputPath, password string) error {
	cmd := exec.CommandContext(ctx, q.bin,
		"--encrypt", password, password, "256",
		"--", inputPath, outputPath,
	)

	var stderr strings.Builder
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return ErrToolNotFound
		}
		var execErr *exec.Error
		if errors.As(err, &execErr) && errors.Is(execErr.Err, exec.ErrNotFound) {
			return ErrToolNotFound
		}
		return fmt.Errorf("qpdf encryption failed: %s: %w", strings.TrimSpace(stderr.String()), err)
	}
	return nil
}
