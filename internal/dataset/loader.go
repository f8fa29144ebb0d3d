// Package dataset loads and filters the weekly WAPP source table.
package dataset

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/wapp-insights/internal/config"
	"github.com/sells-group/wapp-insights/internal/model"
)

// Column names expected in the source table.
const (
	colWeek      = "WEEKLY_REVISED"
	colNew       = "WAPP_NEW"
	colResurrect = "WAPP_RESURRECT"
	colChurn     = "WAPP_CHURN"
	colWAPP      = "WAPP"
	colIndustry  = "INDUSTRY"
	colRegion    = "REGION"
)

// dateLayouts covers the formats seen across source exports.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"01/02/2006",
	"1/2/2006",
	"02-Jan-2006",
	time.RFC3339,
}

// Load reads the source table at path, dispatching on file extension.
// The result is a cleaned, normalized snapshot: rows with unparseable
// weeks or blank industries are dropped, numeric fields are coerced with
// invalid values as 0, and Net is derived per row.
func Load(path string, cfg config.DatasetConfig) ([]model.Record, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return LoadXLSX(path, cfg)
	default:
		return LoadCSV(path, cfg)
	}
}

// LoadCSV reads and normalizes a CSV export of the weekly WAPP table.
func LoadCSV(path string, cfg config.DatasetConfig) ([]model.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "dataset: open csv")
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, eris.Wrap(err, "dataset: read csv")
	}
	if len(rows) < 2 {
		return nil, eris.New("dataset: csv has no data rows")
	}

	return normalize(rows[0], rows[1:], cfg)
}

// normalize builds Records from a header row plus data rows. Shared by the
// CSV and XLSX loaders.
func normalize(header []string, rows [][]string, cfg config.DatasetConfig) ([]model.Record, error) {
	colIdx := make(map[string]int, len(header))
	for i, col := range header {
		colIdx[strings.TrimSpace(col)] = i
	}

	// colWAPP is required so malformed exports fail fast, but its stored
	// value is never trusted; Net is recomputed from the components.
	for _, col := range []string{colWeek, colNew, colResurrect, colChurn, colWAPP, colIndustry, colRegion} {
		if _, ok := colIdx[col]; !ok {
			return nil, eris.Errorf("dataset: missing required column %q", col)
		}
	}

	var records []model.Record
	var droppedWeek, droppedIndustry int

	for _, row := range rows {
		week, ok := parseWeek(getCol(row, colIdx, colWeek))
		if !ok {
			droppedWeek++
			continue
		}

		industry := normalizeLabel(getCol(row, colIdx, colIndustry), cfg.UnknownIndustry)
		if industry == "" {
			droppedIndustry++
			continue
		}
		region := normalizeLabel(getCol(row, colIdx, colRegion), cfg.UnknownRegion)

		r := model.Record{
			Week:      week,
			Industry:  industry,
			Region:    region,
			New:       parseNumber(getCol(row, colIdx, colNew)),
			Resurrect: parseNumber(getCol(row, colIdx, colResurrect)),
			Churn:     parseNumber(getCol(row, colIdx, colChurn)),
		}
		r.DeriveNet()
		records = append(records, r)
	}

	if droppedWeek > 0 || droppedIndustry > 0 {
		zap.L().Warn("dataset: dropped rows during normalization",
			zap.Int("unparseable_week", droppedWeek),
			zap.Int("blank_industry", droppedIndustry),
		)
	}

	zap.L().Info("dataset: loaded", zap.Int("records", len(records)))
	return records, nil
}

// parseWeek tries each known date layout in turn.
func parseWeek(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseNumber coerces a numeric cell, treating anything unparseable as 0.
func parseNumber(s string) float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// normalizeLabel trims a category label, substituting the sentinel for
// blank or placeholder values. Returns "" only when no sentinel is set.
func normalizeLabel(s, sentinel string) string {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "nan", "none", "null":
		return sentinel
	}
	return s
}

func getCol(row []string, colIdx map[string]int, name string) string {
	idx, ok := colIdx[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return row[idx]
}
