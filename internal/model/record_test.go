package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(d int) time.Time {
	return time.Date(2025, 1, d, 0, 0, 0, 0, time.UTC)
}

func TestDeriveNet(t *testing.T) {
	r := Record{New: 100, Resurrect: 20, Churn: 50}
	r.DeriveNet()
	assert.InDelta(t, 70, r.Net, 1e-9)

	// Re-deriving after a component change overwrites the stale value.
	r.Churn = 120
	r.DeriveNet()
	assert.InDelta(t, 0, r.Net, 1e-9)
}

func TestPeriodDays(t *testing.T) {
	records := []Record{
		{Week: day(1)},
		{Week: day(29)},
		{Week: day(15)},
	}
	assert.Equal(t, 28, PeriodDays(records))

	// Zero weeks are ignored.
	records = append(records, Record{})
	assert.Equal(t, 28, PeriodDays(records))

	assert.Equal(t, 0, PeriodDays(nil))
	assert.Equal(t, 0, PeriodDays([]Record{{Week: day(8)}}))
}

func TestTotalNet(t *testing.T) {
	records := []Record{
		{Net: 70},
		{Net: -20},
		{Net: 5},
	}
	assert.InDelta(t, 55, TotalNet(records), 1e-9)
	assert.Zero(t, TotalNet(nil))
}
