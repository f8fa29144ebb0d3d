package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/wapp-insights/internal/analytics"
)

var diagnoseCmd = &cobra.Command{
	Use:   "diagnose",
	Short: "Classify industries into strategic actions",
	Long: `Derives health ratios per industry (win/expansion ratio, resurrection
dependency, new-to-churn ratio, churn velocity) over the filtered period
and classifies each industry into a strategic action:

  FixChurn          losing ground and churning faster than the median
  AccelerateHiring  healthy growth driven by net-new business
  FragileGrowth     gains dominated by resurrected accounts
  SDRExpansion      strong new-to-churn ratio, fund top of funnel
  Monitor           nothing actionable yet

The churn-velocity threshold is the median of the industries currently in
view, so labels are relative to the active filter, not absolute.

Examples:
  wapp-insights diagnose --from 2025-01-01 --to 2025-03-31
  wapp-insights diagnose --regions EMEA --format csv --output diag.csv --save`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		ws, err := loadWorkingSet(cmd)
		if err != nil {
			if eris.Is(err, analytics.ErrNoData) {
				fmt.Fprintln(os.Stderr, "No data for the selected filters.")
				return nil
			}
			return err
		}

		aggs := analytics.GroupBy(ws.Filtered, analytics.ByIndustry)
		periodDays := ws.PeriodDays()
		diags := analytics.Diagnose(aggs, periodDays)

		zap.L().Info("diagnosis complete",
			zap.Int("industries", len(diags)),
			zap.Int("period_days", periodDays),
		)

		format, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")
		if err := outputDiagnostics(diags, format, output); err != nil {
			return err
		}

		if save, _ := cmd.Flags().GetBool("save"); save {
			st, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck

			snap, err := st.SaveDiagnosticSnapshot(ctx, ws.Filter, periodDays, diags)
			if err != nil {
				return eris.Wrap(err, "diagnose: save snapshot")
			}
			fmt.Printf("Snapshot saved: %s\n", snap.ID)
		}

		return nil
	},
}

func init() {
	addDataFlags(diagnoseCmd)
	f := diagnoseCmd.Flags()
	f.String("format", "table", "output format: table or csv")
	f.String("output", "", "output file path (default: stdout)")
	f.Bool("save", false, "save the snapshot to the local store")
	rootCmd.AddCommand(diagnoseCmd)
}

func outputDiagnostics(diags []analytics.IndustryDiagnostic, format, path string) error {
	if format != "table" && format != "csv" {
		return eris.Errorf("unsupported format %q (want table or csv)", format)
	}

	w, closeFn, err := openOutput(path)
	if err != nil {
		return err
	}
	defer closeFn()

	if format == "csv" {
		return writeDiagnosticsCSV(w, diags)
	}
	return writeDiagnosticsTable(w, diags)
}

func writeDiagnosticsTable(w *os.File, diags []analytics.IndustryDiagnostic) error {
	header := fmt.Sprintf("%-30s %8s %8s %8s %10s %10s %-18s\n",
		"Industry", "WER", "ResDep", "New/Chn", "ChurnVel", "Score", "Action")
	if _, err := fmt.Fprint(w, header); err != nil {
		return eris.Wrap(err, "diagnose: write table header")
	}
	if _, err := fmt.Fprintln(w, strings.Repeat("-", 98)); err != nil {
		return eris.Wrap(err, "diagnose: write table separator")
	}

	for _, d := range diags {
		name := d.Industry
		if len(name) > 30 {
			name = name[:27] + "..."
		}
		line := fmt.Sprintf("%-30s %8.2f %8.2f %8.2f %10.1f %10.1f %-18s\n",
			name, d.WER, d.ResurrectionDependency, d.NewToChurnRatio,
			d.ChurnVelocity, d.OpportunityScore, d.Action)
		if _, err := fmt.Fprint(w, line); err != nil {
			return eris.Wrap(err, "diagnose: write table row")
		}
	}
	return nil
}

func writeDiagnosticsCSV(w *os.File, diags []analytics.IndustryDiagnostic) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{
		"industry", "new_sum", "resurrect_sum", "churn_sum", "net_sum",
		"wer", "resurrection_dependency", "new_to_churn_ratio",
		"churn_velocity", "opportunity_score", "strategic_action",
	}
	if err := cw.Write(header); err != nil {
		return eris.Wrap(err, "diagnose: write CSV header")
	}

	for _, d := range diags {
		row := []string{
			d.Industry,
			fmt.Sprintf("%.2f", d.NewSum),
			fmt.Sprintf("%.2f", d.ResurrectSum),
			fmt.Sprintf("%.2f", d.ChurnSum),
			fmt.Sprintf("%.2f", d.NetSum),
			fmt.Sprintf("%.4f", d.WER),
			fmt.Sprintf("%.4f", d.ResurrectionDependency),
			fmt.Sprintf("%.4f", d.NewToChurnRatio),
			fmt.Sprintf("%.4f", d.ChurnVelocity),
			fmt.Sprintf("%.4f", d.OpportunityScore),
			string(d.Action),
		}
		if err := cw.Write(row); err != nil {
			return eris.Wrap(err, "diagnose: write CSV row")
		}
	}
	return nil
}
