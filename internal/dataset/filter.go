package dataset

import (
	"sort"
	"strings"
	"time"

	"github.com/sells-group/wapp-insights/internal/model"
)

// Filter is an immutable set of predicates applied to the loaded snapshot.
// A zero Filter matches everything.
type Filter struct {
	From       time.Time `json:"from,omitzero"`
	To         time.Time `json:"to,omitzero"`
	Industries []string  `json:"industries,omitempty"`
	Regions    []string  `json:"regions,omitempty"`
}

// Apply returns the subset of records matching every predicate. The input
// slice is never mutated; the result is a fresh slice.
func (f Filter) Apply(records []model.Record) []model.Record {
	industries := toSet(f.Industries)
	regions := toSet(f.Regions)

	var out []model.Record
	for _, r := range records {
		if !f.From.IsZero() && r.Week.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && r.Week.After(f.To) {
			continue
		}
		if industries != nil && !industries[strings.ToLower(r.Industry)] {
			continue
		}
		if regions != nil && !regions[strings.ToLower(r.Region)] {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Industries returns the sorted distinct industry labels in the records.
func Industries(records []model.Record) []string {
	return distinct(records, func(r model.Record) string { return r.Industry })
}

// Regions returns the sorted distinct region labels in the records.
func Regions(records []model.Record) []string {
	return distinct(records, func(r model.Record) string { return r.Region })
}

func distinct(records []model.Record, key func(model.Record) string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range records {
		k := key(r)
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

func toSet(labels []string) map[string]bool {
	if len(labels) == 0 {
		return nil
	}
	set := make(map[string]bool, len(labels))
	for _, l := range labels {
		set[strings.ToLower(strings.TrimSpace(l))] = true
	}
	return set
}
