// Package model defines the shared domain types for the WAPP analytics core.
package model

import "time"

// Record is a single row of the working dataset: one week of WAPP movement
// for an industry/region pair. Net is always derived from the other three
// components, never stored independently.
type Record struct {
	Week      time.Time `json:"week"`
	Industry  string    `json:"industry"`
	Region    string    `json:"region"`
	New       float64   `json:"new"`
	Resurrect float64   `json:"resurrect"`
	Churn     float64   `json:"churn"`
	Net       float64   `json:"net"`
}

// DeriveNet recomputes Net from the additive components.
func (r *Record) DeriveNet() {
	r.Net = r.New + r.Resurrect - r.Churn
}

// HasWeek reports whether the record carries a parseable week. The loader
// drops rows without one; a zero week surviving to aggregation is flagged.
func (r *Record) HasWeek() bool {
	return !r.Week.IsZero()
}

// PeriodDays returns the span in days between the earliest and latest week
// in the given records. Zero weeks are ignored. Empty input returns 0.
func PeriodDays(records []Record) int {
	var min, max time.Time
	for _, r := range records {
		if !r.HasWeek() {
			continue
		}
		if min.IsZero() || r.Week.Before(min) {
			min = r.Week
		}
		if max.IsZero() || r.Week.After(max) {
			max = r.Week
		}
	}
	if min.IsZero() {
		return 0
	}
	return int(max.Sub(min).Hours() / 24)
}

// TotalNet sums the Net component across all records.
func TotalNet(records []Record) float64 {
	var total float64
	for _, r := range records {
		total += r.Net
	}
	return total
}
