package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/wapp-insights/internal/analytics"
)

// openOutput returns the destination file for tabular output, defaulting
// to stdout. The returned close func is a no-op for stdout.
func openOutput(path string) (*os.File, func(), error) {
	if path == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "create output file %s", path)
	}
	return f, func() { f.Close() }, nil
}

func writeAggregateTable(w *os.File, label string, aggs []analytics.Aggregate, keyOf func(analytics.Aggregate) string) error {
	header := fmt.Sprintf("%-30s %12s %12s %12s %12s %10s %10s %8s\n",
		label, "New", "Resurrect", "Churn", "Net", "Avg New", "Avg Net", "Rows")
	if _, err := fmt.Fprint(w, header); err != nil {
		return eris.Wrap(err, "write table header")
	}
	if _, err := fmt.Fprintln(w, strings.Repeat("-", 113)); err != nil {
		return eris.Wrap(err, "write table separator")
	}

	for _, a := range aggs {
		key := keyOf(a)
		if len(key) > 30 {
			key = key[:27] + "..."
		}
		line := fmt.Sprintf("%-30s %12.1f %12.1f %12.1f %12.1f %10.1f %10.1f %8d\n",
			key, a.NewSum, a.ResurrectSum, a.ChurnSum, a.NetSum, a.NewMean(), a.NetMean(), a.Rows)
		if _, err := fmt.Fprint(w, line); err != nil {
			return eris.Wrap(err, "write table row")
		}
	}
	return nil
}

func writeAggregateCSV(w *os.File, label string, aggs []analytics.Aggregate, keyOf func(analytics.Aggregate) string) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{strings.ToLower(label), "new_sum", "resurrect_sum", "churn_sum", "net_sum", "avg_new", "avg_net", "rows"}
	if err := cw.Write(header); err != nil {
		return eris.Wrap(err, "write CSV header")
	}

	for _, a := range aggs {
		row := []string{
			keyOf(a),
			fmt.Sprintf("%.2f", a.NewSum),
			fmt.Sprintf("%.2f", a.ResurrectSum),
			fmt.Sprintf("%.2f", a.ChurnSum),
			fmt.Sprintf("%.2f", a.NetSum),
			fmt.Sprintf("%.2f", a.NewMean()),
			fmt.Sprintf("%.2f", a.NetMean()),
			fmt.Sprintf("%d", a.Rows),
		}
		if err := cw.Write(row); err != nil {
			return eris.Wrap(err, "write CSV row")
		}
	}
	return nil
}

// outputAggregates renders aggregates as a table or CSV to path or stdout.
func outputAggregates(label string, aggs []analytics.Aggregate, format, path string, keyOf func(analytics.Aggregate) string) error {
	if format != "table" && format != "csv" {
		return eris.Errorf("unsupported format %q (want table or csv)", format)
	}

	w, closeFn, err := openOutput(path)
	if err != nil {
		return err
	}
	defer closeFn()

	if format == "csv" {
		return writeAggregateCSV(w, label, aggs, keyOf)
	}
	return writeAggregateTable(w, label, aggs, keyOf)
}

func formatWeek(t time.Time) string {
	if t.IsZero() {
		return "(no week)"
	}
	return t.Format("2006-01-02")
}

func formatMoney(amount float64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	s := fmt.Sprintf("%.0f", amount)
	var result []byte
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			result = append(result, ',')
		}
		result = append(result, byte(c))
	}
	if neg {
		return "-" + string(result)
	}
	return string(result)
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	var result []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
