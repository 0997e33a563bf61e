package validation

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"jane.doe@example.com", true},
		{"a+b_c@mail.co.ma", true},
		{"", false},
		{"   ", false},
		{"no-at-sign.com", false},
		{"user@domain", false},
		{"user@domain.c", false},
		{"user name@domain.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidEmail(tt.email))
		})
	}
}

func TestIsValidAccountNumber(t *testing.T) {
	assert.True(t, IsValidAccountNumber("CPT-10000"))
	assert.True(t, IsValidAccountNumber("CPT-99999"))
	assert.False(t, IsValidAccountNumber("CPT-1000"))
	assert.False(t, IsValidAccountNumber("CPT-100000"))
	assert.False(t, IsValidAccountNumber("cpt-10000"))
	assert.False(t, IsValidAccountNumber(" CPT-10000"))
	assert.False(t, IsValidAccountNumber(""))
}

func TestNumericPredicates(t *testing.T) {
	assert.True(t, IsValidAmount(0.01))
	assert.False(t, IsValidAmount(0))
	assert.False(t, IsValidAmount(-5))
	assert.False(t, IsValidAmount(math.NaN()))
	assert.False(t, IsValidAmount(math.Inf(1)))

	assert.True(t, IsValidBalance(0))
	assert.False(t, IsValidBalance(-0.01))
	assert.False(t, IsValidBalance(math.Inf(1)))
	assert.False(t, IsValidBalance(math.NaN()))

	assert.True(t, IsValidPercentage(0))
	assert.True(t, IsValidPercentage(100))
	assert.False(t, IsValidPercentage(100.5))
	assert.False(t, IsValidPercentage(-1))
	assert.False(t, IsValidPercentage(math.NaN()))
	assert.False(t, IsValidPercentage(math.Inf(-1)))
}

func TestIsFinite(t *testing.T) {
	assert.True(t, IsFinite(0))
	assert.True(t, IsFinite(-1e300))
	assert.False(t, IsFinite(math.Inf(1)))
	assert.False(t, IsFinite(math.Inf(-1)))
	assert.False(t, IsFinite(math.NaN()))
}

func TestIsValidString(t *testing.T) {
	assert.True(t, IsValidString(" x "))
	assert.False(t, IsValidString("\t\n "))
	assert.False(t, IsValidID(""))
	assert.True(t, IsValidID("9f1c"))
}

func TestCalendarPredicates(t *testing.T) {
	assert.True(t, IsValidYear(2025))
	assert.False(t, IsValidYear(1899))
	assert.True(t, IsValidMonth(12))
	assert.False(t, IsValidMonth(13))
	assert.True(t, IsValidDay(31))
	assert.False(t, IsValidDay(0))
}

func TestIsNotFuture(t *testing.T) {
	now := time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)

	assert.True(t, IsNotFuture(now, now))
	assert.True(t, IsNotFuture(now.Add(-time.Hour), now))
	assert.False(t, IsNotFuture(now.Add(time.Second), now))
	assert.False(t, IsNotFuture(time.Time{}, now))
}
