package main

import (
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/wapp-insights/internal/analytics"
	"github.com/sells-group/wapp-insights/internal/dataset"
	"github.com/sells-group/wapp-insights/internal/model"
)

// addDataFlags registers the shared dataset/filter flags on a command.
func addDataFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("data", "", "path to the WAPP table (.csv or .xlsx; default from config)")
	f.String("from", "", "start of the week range (YYYY-MM-DD, inclusive)")
	f.String("to", "", "end of the week range (YYYY-MM-DD, inclusive)")
	f.String("industries", "", "comma-separated industry labels to include")
	f.String("regions", "", "comma-separated region labels to include")
}

// workingSet holds the loaded snapshot plus the filtered view of it.
type workingSet struct {
	All      []model.Record
	Filtered []model.Record
	Filter   dataset.Filter
}

// PeriodDays returns the day span of the filtered subset.
func (w *workingSet) PeriodDays() int {
	return model.PeriodDays(w.Filtered)
}

// loadWorkingSet loads the table and applies the flag-derived filter.
// Returns analytics.ErrNoData when the filter matches nothing, so
// commands can print a warning instead of failing.
func loadWorkingSet(cmd *cobra.Command) (*workingSet, error) {
	path, _ := cmd.Flags().GetString("data")
	if path == "" {
		path = cfg.Dataset.Path
	}

	records, err := dataset.Load(path, cfg.Dataset)
	if err != nil {
		return nil, err
	}

	filter, err := filterFromFlags(cmd)
	if err != nil {
		return nil, err
	}

	filtered := filter.Apply(records)
	if len(filtered) == 0 {
		return nil, analytics.ErrNoData
	}

	zap.L().Debug("working set ready",
		zap.Int("total", len(records)),
		zap.Int("filtered", len(filtered)),
	)

	return &workingSet{All: records, Filtered: filtered, Filter: filter}, nil
}

// filterFromFlags builds the immutable filter value from CLI flags.
func filterFromFlags(cmd *cobra.Command) (dataset.Filter, error) {
	var filter dataset.Filter

	if v, _ := cmd.Flags().GetString("from"); v != "" {
		t, err := parseDateFlag(v)
		if err != nil {
			return filter, eris.Wrap(err, "parse --from")
		}
		filter.From = t
	}
	if v, _ := cmd.Flags().GetString("to"); v != "" {
		t, err := parseDateFlag(v)
		if err != nil {
			return filter, eris.Wrap(err, "parse --to")
		}
		filter.To = t
	}
	if v, _ := cmd.Flags().GetString("industries"); v != "" {
		filter.Industries = splitAndTrim(v)
	}
	if v, _ := cmd.Flags().GetString("regions"); v != "" {
		filter.Regions = splitAndTrim(v)
	}

	return filter, nil
}

func parseDateFlag(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, eris.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	return t, nil
}
