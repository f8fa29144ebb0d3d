package analytics

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/wapp-insights/internal/model"
)

func week(day int) time.Time {
	return time.Date(2025, 1, day, 0, 0, 0, 0, time.UTC)
}

func rec(industry, region string, day int, n, res, ch float64) model.Record {
	r := model.Record{
		Week:      week(day),
		Industry:  industry,
		Region:    region,
		New:       n,
		Resurrect: res,
		Churn:     ch,
	}
	r.DeriveNet()
	return r
}

func TestGroupByIndustry(t *testing.T) {
	records := []model.Record{
		rec("Tech", "EMEA", 1, 100, 20, 50),
		rec("Tech", "AMER", 8, 40, 10, 30),
		rec("Finance", "EMEA", 1, 10, 5, 20),
	}

	aggs := GroupBy(records, ByIndustry)
	require.Len(t, aggs, 2)

	// Output is sorted by key.
	assert.Equal(t, "Finance", aggs[0].Industry)
	assert.Equal(t, "Tech", aggs[1].Industry)

	tech := aggs[1]
	assert.InDelta(t, 140, tech.NewSum, 1e-9)
	assert.InDelta(t, 30, tech.ResurrectSum, 1e-9)
	assert.InDelta(t, 80, tech.ChurnSum, 1e-9)
	assert.InDelta(t, 90, tech.NetSum, 1e-9)
	assert.Equal(t, 2, tech.Rows)
	assert.InDelta(t, 70, tech.NewMean(), 1e-9)
	assert.InDelta(t, 45, tech.NetMean(), 1e-9)
	assert.InDelta(t, 40, tech.ChurnMean(), 1e-9)
	assert.InDelta(t, 15, tech.ResurrectMean(), 1e-9)
}

func TestAggregateJSONOmitsZeroWeek(t *testing.T) {
	b, err := json.Marshal(Aggregate{Industry: "Tech", NetSum: 90, Rows: 1})
	require.NoError(t, err)
	assert.NotContains(t, string(b), `"week"`)

	b, err = json.Marshal(Aggregate{Week: week(6), NetSum: 90, Rows: 1})
	require.NoError(t, err)
	assert.Contains(t, string(b), `"week":"2025-01-06T00:00:00Z"`)
}

func TestGroupByConservesNetTotal(t *testing.T) {
	records := []model.Record{
		rec("Tech", "EMEA", 1, 100, 20, 50),
		rec("Finance", "AMER", 8, 40, 10, 90),
		rec("Retail", "APAC", 15, 0, 0, 0),
		rec("Tech", "APAC", 22, 5, 5, 5),
	}

	var want float64
	for _, r := range records {
		want += r.Net
	}

	var got float64
	for _, a := range GroupBy(records, ByIndustry) {
		got += a.NetSum
	}
	assert.InDelta(t, want, got, 1e-9)
}

func TestGroupByKeepsZeroSumKeys(t *testing.T) {
	records := []model.Record{
		rec("Empty", "EMEA", 1, 0, 0, 0),
	}
	aggs := GroupBy(records, ByIndustry)
	require.Len(t, aggs, 1)
	assert.Equal(t, "Empty", aggs[0].Industry)
	assert.Zero(t, aggs[0].NetSum)
}

func TestGroupByOrderIndependent(t *testing.T) {
	records := []model.Record{
		rec("Tech", "EMEA", 1, 100, 20, 50),
		rec("Finance", "AMER", 8, 40, 10, 90),
		rec("Tech", "EMEA", 15, 30, 5, 10),
	}
	reversed := []model.Record{records[2], records[1], records[0]}

	assert.Equal(t, GroupBy(records, ByIndustry), GroupBy(reversed, ByIndustry))
}

func TestGroupByCartesianKey(t *testing.T) {
	records := []model.Record{
		rec("Tech", "EMEA", 1, 10, 0, 0),
		rec("Tech", "AMER", 1, 20, 0, 0),
		rec("Tech", "EMEA", 8, 30, 0, 0),
	}

	aggs := GroupBy(records, ByIndustry, ByRegion)
	require.Len(t, aggs, 2)
	assert.Equal(t, "AMER", aggs[0].Region)
	assert.Equal(t, "EMEA", aggs[1].Region)
	assert.InDelta(t, 40, aggs[1].NewSum, 1e-9)
}

func TestGroupByWeekFlagsNullWeeks(t *testing.T) {
	noWeek := model.Record{Industry: "Tech", Region: "EMEA", New: 5}
	noWeek.DeriveNet()

	records := []model.Record{
		rec("Tech", "EMEA", 1, 10, 0, 0),
		noWeek,
	}

	aggs := GroupBy(records, ByWeek)
	require.Len(t, aggs, 2)

	var flagged int
	for _, a := range aggs {
		if a.NullWeek {
			flagged++
			assert.InDelta(t, 5, a.NewSum, 1e-9)
		}
	}
	assert.Equal(t, 1, flagged)
}

func TestGroupByEmptyInput(t *testing.T) {
	assert.Empty(t, GroupBy(nil, ByIndustry))
	assert.Empty(t, GroupBy([]model.Record{}, ByIndustry, ByRegion))
}

func TestTotals(t *testing.T) {
	records := []model.Record{
		rec("Tech", "EMEA", 1, 100, 20, 50),
		rec("Finance", "AMER", 8, 40, 10, 90),
	}
	totals := Totals(records)
	assert.InDelta(t, 140, totals.NewSum, 1e-9)
	assert.InDelta(t, 30, totals.ResurrectSum, 1e-9)
	assert.InDelta(t, 140, totals.ChurnSum, 1e-9)
	assert.InDelta(t, 30, totals.NetSum, 1e-9)
	assert.Equal(t, 2, totals.Rows)
}

func TestEmergingIndustries(t *testing.T) {
	records := []model.Record{
		rec("Old", "EMEA", 1, 1, 0, 0),
		rec("Old", "EMEA", 22, 1, 0, 0),
		rec("New", "EMEA", 15, 1, 0, 0),
	}

	emerging := EmergingIndustries(records)
	require.Len(t, emerging, 2)
	assert.Equal(t, "New", emerging[0].Industry)
	assert.Equal(t, week(15), emerging[0].Week)
	assert.Equal(t, "Old", emerging[1].Industry)
	assert.Equal(t, week(1), emerging[1].Week)
}
