package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPeriodsUseUTC(t *testing.T) {
	instant := time.Date(2025, 1, 31, 23, 30, 0, 0, time.UTC)
	shifted := instant.In(time.FixedZone("UTC+5", 5*60*60))
	behind := instant.Add(time.Hour).In(time.FixedZone("UTC-3", -3*60*60))

	assert.Equal(t, YearMonth{Year: 2025, Month: time.January}, YearMonthOf(shifted))
	assert.Equal(t, YearMonthOf(instant), YearMonthOf(shifted))
	assert.Equal(t, "2025-01-31", DateOf(shifted).String())
	assert.Equal(t, "2025-02-01", DateOf(behind).String())
	assert.Equal(t, "2025-02", YearMonthOf(behind).String())
}
