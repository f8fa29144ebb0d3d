package main

import (
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/wapp-insights/internal/analytics"
	"github.com/sells-group/wapp-insights/internal/model"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run a scenario across a parameter grid",
	Long: `Runs the simulation for every combination of ramp months and hires
per month in the given ranges, holding the other scenario parameters
fixed. Useful for finding the cheapest combination that closes the
revenue gap.

Each grid cell gets its own copy of the scenario input, so runs are
independent and safe to execute concurrently.

Examples:
  wapp-insights sweep --role ae --quarter-goal 12 --headcount 15 --pipeline 8 \
    --ramp-min 3 --ramp-max 9 --hires-min 1 --hires-max 6`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ws, err := loadWorkingSet(cmd)
		if err != nil {
			if eris.Is(err, analytics.ErrNoData) {
				fmt.Fprintln(os.Stderr, "No data for the selected filters.")
				return nil
			}
			return err
		}

		_, base, err := scenarioFromFlags(cmd)
		if err != nil {
			return err
		}

		rampMin, _ := cmd.Flags().GetInt("ramp-min")
		rampMax, _ := cmd.Flags().GetInt("ramp-max")
		hiresMin, _ := cmd.Flags().GetInt("hires-min")
		hiresMax, _ := cmd.Flags().GetInt("hires-max")
		concurrency, _ := cmd.Flags().GetInt("concurrency")

		if rampMin > rampMax || hiresMin > hiresMax {
			return eris.New("sweep: range minimums must not exceed maximums")
		}

		demand := model.TotalNet(ws.Filtered)
		baseline := model.TotalNet(ws.All)

		g, _ := errgroup.WithContext(cmd.Context())
		g.SetLimit(concurrency)

		var mu sync.Mutex
		var results []analytics.ScenarioResult

		for ramp := rampMin; ramp <= rampMax; ramp++ {
			for hires := hiresMin; hires <= hiresMax; hires++ {
				input := base
				input.RampMonths = ramp
				input.HiresPerMonth = hires
				if err := input.Validate(); err != nil {
					return err
				}

				g.Go(func() error {
					r := analytics.Simulate(input, demand, baseline)
					mu.Lock()
					results = append(results, r)
					mu.Unlock()
					return nil
				})
			}
		}
		if err := g.Wait(); err != nil {
			return eris.Wrap(err, "sweep: run grid")
		}

		sort.SliceStable(results, func(i, j int) bool {
			if results[i].Input.RampMonths != results[j].Input.RampMonths {
				return results[i].Input.RampMonths < results[j].Input.RampMonths
			}
			return results[i].Input.HiresPerMonth < results[j].Input.HiresPerMonth
		})

		zap.L().Info("sweep complete", zap.Int("cells", len(results)))
		printSweepTable(results)
		return nil
	},
}

func init() {
	addDataFlags(sweepCmd)
	f := sweepCmd.Flags()
	f.String("scenario-file", "", "YAML scenario definition (flags override file values)")
	f.String("name", "", "unused; accepted for scenario-file compatibility")
	f.String("role", "ae", "hiring role: ae, sdr, or csm")
	f.Int("quarter-goal", 0, "quarterly hiring goal (heads)")
	f.Int("headcount", 0, "current headcount for the role")
	f.Int("pipeline", 0, "candidates currently in pipeline")
	f.Float64("quota", 0, "average annual quota (default from config)")
	f.Float64("attainment", 0, "quota attainment percent, 50-100 (default from config)")
	f.Int("ramp-months", 0, "ignored; the sweep supplies ramp months per cell")
	f.Int("hires-per-month", 1, "ignored; the sweep supplies hires per month per cell")
	f.Int("time-to-hire", 45, "time to hire in days, 20-90 (display only)")
	f.Int("ramp-min", 3, "minimum ramp months")
	f.Int("ramp-max", 9, "maximum ramp months")
	f.Int("hires-min", 1, "minimum hires per month")
	f.Int("hires-max", 6, "maximum hires per month")
	f.Int("concurrency", 4, "concurrent simulations")
	rootCmd.AddCommand(sweepCmd)
}

func printSweepTable(results []analytics.ScenarioResult) {
	fmt.Printf("%6s %7s %22s %15s %15s\n",
		"Ramp", "Hires", "Effective ARR/Rep", "Revenue Gap", "Projected ARR")
	fmt.Println("---------------------------------------------------------------------")
	for _, r := range results {
		fmt.Printf("%6d %7d %22s %15s %15s\n",
			r.Input.RampMonths,
			r.Input.HiresPerMonth,
			"$"+formatMoney(r.EffectiveARRPerRep),
			"$"+formatMoney(r.RevenueGap),
			"$"+formatMoney(r.ProjectedARR),
		)
	}
}
