// Package analytics implements the WAPP analytics core: dimensional
// aggregation, per-industry diagnostics with strategic classification,
// and the hiring/revenue scenario model. Every function is a pure
// transformation of its inputs; the package holds no state.
package analytics

import (
	"sort"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/wapp-insights/internal/model"
)

// ErrNoData signals that a filter combination produced zero rows. Callers
// surface it as a "no data" condition rather than a failure.
var ErrNoData = eris.New("analytics: no data for the selected filters")

// Dimension selects a grouping axis for Aggregate.
type Dimension string

// Supported grouping dimensions.
const (
	ByIndustry Dimension = "industry"
	ByRegion   Dimension = "region"
	ByWeek     Dimension = "week"
)

// Aggregate is the sum of WAPP components over one group. Only the key
// fields named by the requested dimensions are populated; the rest stay
// at their zero values.
type Aggregate struct {
	Industry string    `json:"industry,omitempty"`
	Region   string    `json:"region,omitempty"`
	Week     time.Time `json:"week,omitzero"`

	// NullWeek marks a group of records that reached week grouping
	// without a parseable week. Such rows should have been dropped by
	// the loader; they are kept as their own flagged group rather than
	// merged into a real week.
	NullWeek bool `json:"null_week,omitempty"`

	NewSum       float64 `json:"new_sum"`
	ResurrectSum float64 `json:"resurrect_sum"`
	ChurnSum     float64 `json:"churn_sum"`
	NetSum       float64 `json:"net_sum"`
	Rows         int     `json:"rows"`
}

// NewMean returns the per-row mean of the New component.
func (a Aggregate) NewMean() float64 { return mean(a.NewSum, a.Rows) }

// NetMean returns the per-row mean of the Net component.
func (a Aggregate) NetMean() float64 { return mean(a.NetSum, a.Rows) }

// ChurnMean returns the per-row mean of the Churn component.
func (a Aggregate) ChurnMean() float64 { return mean(a.ChurnSum, a.Rows) }

// ResurrectMean returns the per-row mean of the Resurrect component.
func (a Aggregate) ResurrectMean() float64 { return mean(a.ResurrectSum, a.Rows) }

func mean(sum float64, rows int) float64 {
	if rows == 0 {
		return 0
	}
	return sum / float64(rows)
}

// groupKey is the comparable cartesian key over the requested dimensions.
type groupKey struct {
	industry string
	region   string
	week     time.Time
	nullWeek bool
}

// GroupBy groups records by the cartesian key of the given dimensions and
// sums each component per group. Every distinct key present in the input
// is preserved, even when all its sums are zero. Summation is associative,
// so the result does not depend on input row order. Empty input yields an
// empty result.
func GroupBy(records []model.Record, dims ...Dimension) []Aggregate {
	groups := make(map[groupKey]*Aggregate)
	var order []groupKey
	var nullWeeks int

	for _, r := range records {
		var key groupKey
		for _, d := range dims {
			switch d {
			case ByIndustry:
				key.industry = r.Industry
			case ByRegion:
				key.region = r.Region
			case ByWeek:
				if r.HasWeek() {
					key.week = r.Week
				} else {
					key.nullWeek = true
					nullWeeks++
				}
			}
		}

		agg, ok := groups[key]
		if !ok {
			agg = &Aggregate{
				Industry: key.industry,
				Region:   key.region,
				Week:     key.week,
				NullWeek: key.nullWeek,
			}
			groups[key] = agg
			order = append(order, key)
		}
		agg.NewSum += r.New
		agg.ResurrectSum += r.Resurrect
		agg.ChurnSum += r.Churn
		agg.NetSum += r.Net
		agg.Rows++
	}

	if nullWeeks > 0 {
		zap.L().Warn("analytics: records without a week reached aggregation",
			zap.Int("rows", nullWeeks),
		)
	}

	// Deterministic output order regardless of map iteration.
	sort.SliceStable(order, func(i, j int) bool {
		a, b := order[i], order[j]
		if a.industry != b.industry {
			return a.industry < b.industry
		}
		if a.region != b.region {
			return a.region < b.region
		}
		if !a.week.Equal(b.week) {
			return a.week.Before(b.week)
		}
		return !a.nullWeek && b.nullWeek
	})

	out := make([]Aggregate, 0, len(order))
	for _, key := range order {
		out = append(out, *groups[key])
	}
	return out
}

// Totals sums every component across all records, the executive snapshot
// numbers shown before any grouping.
func Totals(records []model.Record) Aggregate {
	var t Aggregate
	for _, r := range records {
		t.NewSum += r.New
		t.ResurrectSum += r.Resurrect
		t.ChurnSum += r.Churn
		t.NetSum += r.Net
		t.Rows++
	}
	return t
}

// FirstSeen pairs an industry with the earliest week it appears in.
type FirstSeen struct {
	Industry string    `json:"industry"`
	Week     time.Time `json:"week"`
}

// EmergingIndustries ranks industries by how recently they first appeared,
// newest first. Industries whose records all lack weeks are skipped.
func EmergingIndustries(records []model.Record) []FirstSeen {
	first := make(map[string]time.Time)
	for _, r := range records {
		if !r.HasWeek() {
			continue
		}
		if t, ok := first[r.Industry]; !ok || r.Week.Before(t) {
			first[r.Industry] = r.Week
		}
	}

	out := make([]FirstSeen, 0, len(first))
	for industry, week := range first {
		out = append(out, FirstSeen{Industry: industry, Week: week})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Week.Equal(out[j].Week) {
			return out[i].Week.After(out[j].Week)
		}
		return out[i].Industry < out[j].Industry
	})
	return out
}
