package report

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrReportNotFound       = errors.New("generated report not found")
	ErrReportTypeMismatch   = errors.New("report has the wrong type for this operation")
	ErrEmployeeEmailMissing = errors.New("employee email is missing")
	ErrNoEmployees          = errors.New("no employees found for manager")
	ErrNoRowsGenerated      = errors.New("no valid employee data to generate report")
	ErrNoFilesToArchive     = errors.New("no files to archive")
)

// GenerationKind tags which stage of report production failed.
type GenerationKind string

const (
	KindCSV     GenerationKind = "csv"
	KindPDF     GenerationKind = "pdf"
	KindArchive GenerationKind = "archive"
)

// GenerationError carries the identifiers a generation failure happened
// under, so callers and logs can tell which user, manager and period were
// involved without parsing message text.
type GenerationError struct {
	Kind        GenerationKind
	Message     string
	UserID      string
	UserName    string
	ManagerID   string
	ManagerName string
	PeriodLabel string
	Err         error
}

func (e *GenerationError) Error() string {
	details := make([]string, 0, 4)
	if e.ManagerName != "" {
		details = append(details, fmt.Sprintf("manager %s (%s)", e.ManagerName, e.ManagerID))
	}
	if e.UserName != "" {
		details = append(details, fmt.Sprintf("user %s (%s)", e.UserName, e.UserID))
	}
	if e.PeriodLabel != "" {
		details = append(details, "period "+e.PeriodLabel)
	}
	if e.Err != nil {
		details = append(details, "cause: "+e.Err.Error())
	}
	if len(details) == 0 {
		return e.Message
	}
	return e.Message + " | " + strings.Join(details, " | ")
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}
