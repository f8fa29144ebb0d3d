package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/wapp-insights/internal/analytics"
)

var emergingCmd = &cobra.Command{
	Use:   "emerging",
	Short: "Industries ranked by first appearance, newest first",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ws, err := loadWorkingSet(cmd)
		if err != nil {
			if eris.Is(err, analytics.ErrNoData) {
				fmt.Fprintln(os.Stderr, "No data for the selected filters.")
				return nil
			}
			return err
		}

		emerging := analytics.EmergingIndustries(ws.Filtered)

		limit, _ := cmd.Flags().GetInt("limit")
		if limit > 0 && len(emerging) > limit {
			emerging = emerging[:limit]
		}

		fmt.Printf("%-30s %-12s\n", "Industry", "First Seen")
		fmt.Println("--------------------------------------------")
		for _, e := range emerging {
			fmt.Printf("%-30s %-12s\n", e.Industry, formatWeek(e.Week))
		}
		return nil
	},
}

func init() {
	addDataFlags(emergingCmd)
	emergingCmd.Flags().Int("limit", 10, "maximum rows to show (0 = all)")
	rootCmd.AddCommand(emergingCmd)
}
