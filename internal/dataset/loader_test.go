package dataset

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/wapp-insights/internal/config"
)

func testDatasetConfig() config.DatasetConfig {
	return config.DatasetConfig{
		UnknownIndustry: "Unknown",
		UnknownRegion:   "NA",
	}
}

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wapp.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const sampleCSV = `WEEKLY_REVISED,WAPP_NEW,WAPP_RESURRECT,WAPP_CHURN,WAPP,INDUSTRY,REGION
2025-01-06,100,20,50,170,Tech,EMEA
2025-01-13,40,10,30,80,Finance,AMER
not-a-date,10,5,5,20,Tech,EMEA
2025-01-20,abc,5,xyz,10,Retail,APAC
2025-01-27,7,0,2,9,,
`

func TestLoadCSV(t *testing.T) {
	path := writeTempCSV(t, sampleCSV)

	records, err := LoadCSV(path, testDatasetConfig())
	require.NoError(t, err)
	// The unparseable-date row is dropped; the rest survive.
	require.Len(t, records, 4)

	first := records[0]
	assert.Equal(t, time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC), first.Week)
	assert.Equal(t, "Tech", first.Industry)
	assert.Equal(t, "EMEA", first.Region)
	assert.InDelta(t, 100, first.New, 1e-9)
	assert.InDelta(t, 70, first.Net, 1e-9)
}

func TestLoadCSVCoercesBadNumbers(t *testing.T) {
	path := writeTempCSV(t, sampleCSV)

	records, err := LoadCSV(path, testDatasetConfig())
	require.NoError(t, err)

	var found bool
	for _, r := range records {
		if r.Industry != "Retail" {
			continue
		}
		found = true
		assert.Zero(t, r.New)
		assert.Zero(t, r.Churn)
		assert.InDelta(t, 5, r.Resurrect, 1e-9)
		assert.InDelta(t, 5, r.Net, 1e-9)
	}
	require.True(t, found)
}

func TestLoadCSVSentinelLabels(t *testing.T) {
	path := writeTempCSV(t, sampleCSV)

	records, err := LoadCSV(path, testDatasetConfig())
	require.NoError(t, err)

	var sentinels int
	for _, r := range records {
		if r.Industry == "Unknown" {
			sentinels++
			assert.Equal(t, "NA", r.Region)
		}
	}
	assert.Equal(t, 1, sentinels)
}

func TestLoadCSVDropsBlankIndustryWithoutSentinel(t *testing.T) {
	path := writeTempCSV(t, sampleCSV)

	cfg := testDatasetConfig()
	cfg.UnknownIndustry = ""
	records, err := LoadCSV(path, cfg)
	require.NoError(t, err)
	require.Len(t, records, 3)
	for _, r := range records {
		assert.NotEmpty(t, r.Industry)
	}
}

func TestLoadCSVNetAlwaysDerived(t *testing.T) {
	// The WAPP column disagrees with the components; Net must come from
	// the components, not the stored column.
	csv := `WEEKLY_REVISED,WAPP_NEW,WAPP_RESURRECT,WAPP_CHURN,WAPP,INDUSTRY,REGION
2025-01-06,100,20,50,9999,Tech,EMEA
`
	path := writeTempCSV(t, csv)

	records, err := LoadCSV(path, testDatasetConfig())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.InDelta(t, 70, records[0].Net, 1e-9)
}

func TestLoadCSVMissingColumn(t *testing.T) {
	path := writeTempCSV(t, "WEEKLY_REVISED,WAPP_NEW\n2025-01-06,1\n")

	_, err := LoadCSV(path, testDatasetConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required column")
}

func TestLoadCSVMissingWAPPColumn(t *testing.T) {
	csv := `WEEKLY_REVISED,WAPP_NEW,WAPP_RESURRECT,WAPP_CHURN,INDUSTRY,REGION
2025-01-06,100,20,50,Tech,EMEA
`
	path := writeTempCSV(t, csv)

	_, err := LoadCSV(path, testDatasetConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `missing required column "WAPP"`)
}

func TestLoadCSVNoDataRows(t *testing.T) {
	path := writeTempCSV(t, "WEEKLY_REVISED,WAPP_NEW,WAPP_RESURRECT,WAPP_CHURN,WAPP,INDUSTRY,REGION\n")

	_, err := LoadCSV(path, testDatasetConfig())
	require.Error(t, err)
}

func TestParseWeekFormats(t *testing.T) {
	tests := []struct {
		in   string
		ok   bool
		want time.Time
	}{
		{"2025-01-06", true, time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)},
		{"01/06/2025", true, time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)},
		{"06-Jan-2025", true, time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)},
		{"", false, time.Time{}},
		{"garbage", false, time.Time{}},
	}
	for _, tt := range tests {
		got, ok := parseWeek(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		if tt.ok {
			assert.Equal(t, tt.want, got, tt.in)
		}
	}
}

func TestParseNumber(t *testing.T) {
	assert.InDelta(t, 1234.5, parseNumber("1,234.5"), 1e-9)
	assert.InDelta(t, -3, parseNumber(" -3 "), 1e-9)
	assert.Zero(t, parseNumber(""))
	assert.Zero(t, parseNumber("n/a"))
}
