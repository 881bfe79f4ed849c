package validator

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type ValidationError struct {
	Field   string
	Message string
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var msgs []string
	for _, err := range v {
		msgs = append(msgs, err.Field+": "+err.Message)
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string)
	for _, err := range v {
		result[err.Field] = err.Message
	}
	return result
}

// Validation limits for payroll periods.
const (
	MinYear = 2000
	MaxYear = 2100
)

// MaxDailyHours caps hours recorded on a single attendance day.
var MaxDailyHours = decimal.NewFromInt(12)

// IsEmpty checks if a string is empty after trimming whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Email validation
func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

var cnpRegex = regexp.MustCompile(`^\d{13}$`)

// IsValidCNP validates a Romanian national identifier: exactly 13 digits.
func IsValidCNP(cnp string) bool {
	return cnpRegex.MatchString(cnp)
}

var currencyRegex = regexp.MustCompile(`^[A-Z]{3}$`)

// IsValidCurrency validates a 3-letter uppercase currency code (RON, EUR, USD).
func IsValidCurrency(currency string) bool {
	return currencyRegex.MatchString(currency)
}

func IsValidYear(year int) bool {
	return year >= MinYear && year <= MaxYear
}

func IsValidMonth(month int) bool {
	return month >= 1 && month <= 12
}

// IsValidDailyHours checks an hours-worked value: non-negative, at most 12.
func IsValidDailyHours(hours decimal.Decimal) bool {
	return !hours.IsNegative() && hours.LessThanOrEqual(MaxDailyHours)
}

// Date validation
func IsValidDate(dateStr string) (time.Time, bool) {
	date, err := time.Parse("2006-01-02", dateStr)
	return date, err == nil
}

// Slice contains check
func IsInSlice(value string, slice []string) bool {
	for _, item := range slice {
		if item == value {
			return true
		}
	}
	return false
}
