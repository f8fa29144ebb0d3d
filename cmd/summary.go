package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/wapp-insights/internal/analytics"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Executive snapshot of the filtered period",
	Long: `Prints the headline WAPP totals for the filtered working set:
total net, new, resurrect, and churn, plus the period covered.

Examples:
  # Whole dataset
  wapp-insights summary --data wapp_data.csv

  # One quarter, two industries
  wapp-insights summary --from 2025-01-01 --to 2025-03-31 --industries Tech,Finance`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ws, err := loadWorkingSet(cmd)
		if err != nil {
			if eris.Is(err, analytics.ErrNoData) {
				fmt.Fprintln(os.Stderr, "No data for the selected filters.")
				return nil
			}
			return err
		}

		totals := analytics.Totals(ws.Filtered)

		fmt.Printf("Rows:            %d\n", totals.Rows)
		fmt.Printf("Period (days):   %d\n", ws.PeriodDays())
		fmt.Printf("Total Net WAPP:  %s\n", formatMoney(totals.NetSum))
		fmt.Printf("Total New:       %s\n", formatMoney(totals.NewSum))
		fmt.Printf("Total Resurrect: %s\n", formatMoney(totals.ResurrectSum))
		fmt.Printf("Total Churn:     %s\n", formatMoney(totals.ChurnSum))
		fmt.Printf("Avg Net/Row:     %.1f\n", totals.NetMean())
		fmt.Printf("Avg New/Row:     %.1f\n", totals.NewMean())
		fmt.Printf("Avg Resurrect:   %.1f\n", totals.ResurrectMean())
		fmt.Printf("Avg Churn/Row:   %.1f\n", totals.ChurnMean())
		return nil
	},
}

func init() {
	addDataFlags(summaryCmd)
	rootCmd.AddCommand(summaryCmd)
}
