// Package validation holds the input predicates shared by the ledger services,
// the HTTP handlers and the CLI.
package validation

import (
	"math"
	"regexp"
	"strings"
	"time"
)

var (
	emailPattern         = regexp.MustCompile(`^[A-Za-z0-9+_.-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	accountNumberPattern = regexp.MustCompile(`^CPT-\d{5}$`)
)

func IsValidString(s string) bool {
	return strings.TrimSpace(s) != ""
}

func IsValidEmail(email string) bool {
	if !IsValidString(email) {
		return false
	}
	return emailPattern.MatchString(email)
}

// IsValidID reports whether id looks like an assigned record identifier.
// Identifiers are opaque, so only blankness is checked.
func IsValidID(id string) bool {
	return IsValidString(id)
}

// IsFinite rejects NaN and both infinities.
func IsFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

func IsValidAmount(amount float64) bool {
	return IsFinite(amount) && amount > 0
}

func IsValidBalance(balance float64) bool {
	return IsFinite(balance) && balance >= 0
}

func IsValidPercentage(percentage float64) bool {
	return IsFinite(percentage) && percentage >= 0 && percentage <= 100
}

func IsValidAccountNumber(number string) bool {
	return accountNumberPattern.MatchString(number)
}

func IsValidYear(year int) bool {
	return year >= 1900 && year <= 2100
}

func IsValidMonth(month int) bool {
	return month >= 1 && month <= 12
}

func IsValidDay(day int) bool {
	return day >= 1 && day <= 31
}

// IsNotFuture reports whether t is set and not after now.
func IsNotFuture(t, now time.Time) bool {
	return !t.IsZero() && !t.After(now)
}
