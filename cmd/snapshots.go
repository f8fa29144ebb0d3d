package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var snapshotsCmd = &cobra.Command{
	Use:   "snapshots",
	Short: "Inspect saved runs and diagnostic snapshots",
	Long:  "Commands for listing and viewing scenario runs and diagnostic snapshots saved with --save.",
}

var snapshotsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved scenario runs and diagnostic snapshots",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		limit, _ := cmd.Flags().GetInt("limit")

		runs, err := st.ListScenarioRuns(ctx, limit)
		if err != nil {
			return eris.Wrap(err, "snapshots list: runs")
		}
		snaps, err := st.ListDiagnosticSnapshots(ctx, limit)
		if err != nil {
			return eris.Wrap(err, "snapshots list: diagnostics")
		}

		if len(runs) == 0 && len(snaps) == 0 {
			fmt.Fprintln(os.Stderr, "No saved snapshots.")
			return nil
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		if len(runs) > 0 {
			fmt.Fprintln(tw, "SCENARIO RUNS")
			fmt.Fprintln(tw, "ID\tNAME\tROLE\tGAP\tCREATED")
			for _, r := range runs {
				name := r.Name
				if name == "" {
					name = "-"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t$%s\t%s\n",
					r.ID, name, r.Input.Role,
					formatMoney(r.Result.RevenueGap),
					r.CreatedAt.Format("2006-01-02 15:04"),
				)
			}
			fmt.Fprintln(tw)
		}
		if len(snaps) > 0 {
			fmt.Fprintln(tw, "DIAGNOSTIC SNAPSHOTS")
			fmt.Fprintln(tw, "ID\tINDUSTRIES\tPERIOD DAYS\tCREATED")
			for _, s := range snaps {
				fmt.Fprintf(tw, "%s\t%d\t%d\t%s\n",
					s.ID, len(s.Diagnostics), s.PeriodDays,
					s.CreatedAt.Format("2006-01-02 15:04"),
				)
			}
		}
		return tw.Flush()
	},
}

var snapshotsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show a saved scenario run as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		run, err := st.GetScenarioRun(ctx, args[0])
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(run)
	},
}

func init() {
	snapshotsListCmd.Flags().Int("limit", 20, "maximum entries per section (0 = all)")
	snapshotsCmd.AddCommand(snapshotsListCmd)
	snapshotsCmd.AddCommand(snapshotsShowCmd)
	rootCmd.AddCommand(snapshotsCmd)
}
