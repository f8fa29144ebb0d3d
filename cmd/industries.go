package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/wapp-insights/internal/analytics"
)

var industriesCmd = &cobra.Command{
	Use:   "industries",
	Short: "Rank industries by net WAPP growth",
	Long: `Groups the filtered working set by industry and ranks descending by
total net WAPP, the ordering used for sales-hiring priority.

Examples:
  # Top 10 industries as a table
  wapp-insights industries --limit 10

  # Full ranking to CSV
  wapp-insights industries --format csv --output industries.csv`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ws, err := loadWorkingSet(cmd)
		if err != nil {
			if eris.Is(err, analytics.ErrNoData) {
				fmt.Fprintln(os.Stderr, "No data for the selected filters.")
				return nil
			}
			return err
		}

		aggs := analytics.GroupBy(ws.Filtered, analytics.ByIndustry)
		sort.SliceStable(aggs, func(i, j int) bool {
			return aggs[i].NetSum > aggs[j].NetSum
		})

		limit, _ := cmd.Flags().GetInt("limit")
		if limit > 0 && len(aggs) > limit {
			aggs = aggs[:limit]
		}

		format, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")
		return outputAggregates("Industry", aggs, format, output,
			func(a analytics.Aggregate) string { return a.Industry })
	},
}

func init() {
	addDataFlags(industriesCmd)
	f := industriesCmd.Flags()
	f.Int("limit", 0, "maximum rows to show (0 = all)")
	f.String("format", "table", "output format: table or csv")
	f.String("output", "", "output file path (default: stdout)")
	rootCmd.AddCommand(industriesCmd)
}
