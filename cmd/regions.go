package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/wapp-insights/internal/analytics"
)

var regionsCmd = &cobra.Command{
	Use:   "regions",
	Short: "Regional net WAPP breakdown",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ws, err := loadWorkingSet(cmd)
		if err != nil {
			if eris.Is(err, analytics.ErrNoData) {
				fmt.Fprintln(os.Stderr, "No data for the selected filters.")
				return nil
			}
			return err
		}

		aggs := analytics.GroupBy(ws.Filtered, analytics.ByRegion)
		sort.SliceStable(aggs, func(i, j int) bool {
			return aggs[i].NetSum > aggs[j].NetSum
		})

		format, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")
		return outputAggregates("Region", aggs, format, output,
			func(a analytics.Aggregate) string { return a.Region })
	},
}

func init() {
	addDataFlags(regionsCmd)
	f := regionsCmd.Flags()
	f.String("format", "table", "output format: table or csv")
	f.String("output", "", "output file path (default: stdout)")
	rootCmd.AddCommand(regionsCmd)
}
