package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/wapp-insights/internal/analytics"
	"github.com/sells-group/wapp-insights/internal/model"
	"github.com/sells-group/wapp-insights/internal/scenario"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Project ARR capacity for a hiring scenario",
	Long: `Runs the hiring/revenue what-if model against the filtered demand
signal. The filtered-period net WAPP total scales quota relative to the
unfiltered baseline, so a narrow filter sees proportionally scaled
capacity.

Scenario parameters come from flags or from a YAML scenario file
(--scenario-file); flags override file values.

Examples:
  wapp-insights simulate --role ae --quarter-goal 10 --headcount 15 --pipeline 8
  wapp-insights simulate --scenario-file q3-ae.yaml --regions EMEA --save`,
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

		name, input, err := scenarioFromFlags(cmd)
		if err != nil {
			return err
		}
		if err := input.Validate(); err != nil {
			return err
		}

		demand := model.TotalNet(ws.Filtered)
		baseline := model.TotalNet(ws.All)

		result := analytics.Simulate(input, demand, baseline)

		zap.L().Info("simulation complete",
			zap.String("role", string(input.Role)),
			zap.Float64("demand_signal", demand),
			zap.Float64("baseline_demand", baseline),
			zap.Float64("effective_arr_per_rep", result.EffectiveARRPerRep),
			zap.Float64("revenue_gap", result.RevenueGap),
		)

		printScenarioResult(result)

		if save, _ := cmd.Flags().GetBool("save"); save {
			st, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck

			run, err := st.SaveScenarioRun(ctx, name, result)
			if err != nil {
				return eris.Wrap(err, "simulate: save run")
			}
			fmt.Printf("\nRun saved: %s\n", run.ID)
		}

		return nil
	},
}

func init() {
	addDataFlags(simulateCmd)
	f := simulateCmd.Flags()
	f.String("scenario-file", "", "YAML scenario definition (flags override file values)")
	f.String("name", "", "name for the saved run")
	f.String("role", "ae", "hiring role: ae, sdr, or csm")
	f.Int("quarter-goal", 0, "quarterly hiring goal (heads)")
	f.Int("headcount", 0, "current headcount for the role")
	f.Int("pipeline", 0, "candidates currently in pipeline")
	f.Float64("quota", 0, "average annual quota (default from config)")
	f.Float64("attainment", 0, "quota attainment percent, 50-100 (default from config)")
	f.Int("ramp-months", 0, "ramp duration in months, 3-9 (default from config)")
	f.Int("hires-per-month", 1, "planned hires per month, 1-15")
	f.Int("time-to-hire", 45, "time to hire in days, 20-90 (display only)")
	f.Bool("save", false, "save the run to the local store")
	rootCmd.AddCommand(simulateCmd)
}

// scenarioFromFlags merges the optional scenario file, config defaults,
// and flag overrides into a ScenarioInput.
func scenarioFromFlags(cmd *cobra.Command) (string, model.ScenarioInput, error) {
	var name string
	var input model.ScenarioInput

	if path, _ := cmd.Flags().GetString("scenario-file"); path != "" {
		f, err := scenario.Load(path)
		if err != nil {
			return "", input, err
		}
		name = f.Name
		input = f.Scenario
	}

	if v, _ := cmd.Flags().GetString("name"); v != "" {
		name = v
	}

	flags := cmd.Flags()
	if flags.Changed("role") || input.Role == "" {
		v, _ := flags.GetString("role")
		role, err := model.ParseRole(v)
		if err != nil {
			return "", input, err
		}
		input.Role = role
	}
	if flags.Changed("quarter-goal") {
		input.QuarterGoal, _ = flags.GetInt("quarter-goal")
	}
	if flags.Changed("headcount") {
		input.CurrentHead, _ = flags.GetInt("headcount")
	}
	if flags.Changed("pipeline") {
		input.PipelineCount, _ = flags.GetInt("pipeline")
	}
	if flags.Changed("quota") {
		input.BaseQuota, _ = flags.GetFloat64("quota")
	}
	if flags.Changed("attainment") {
		input.AttainmentPct, _ = flags.GetFloat64("attainment")
	}
	if flags.Changed("ramp-months") {
		input.RampMonths, _ = flags.GetInt("ramp-months")
	}
	if flags.Changed("hires-per-month") || input.HiresPerMonth == 0 {
		input.HiresPerMonth, _ = flags.GetInt("hires-per-month")
	}
	if flags.Changed("time-to-hire") || input.TimeToHireDays == 0 {
		input.TimeToHireDays, _ = flags.GetInt("time-to-hire")
	}

	// Config defaults for anything still unset.
	if input.BaseQuota == 0 {
		input.BaseQuota = cfg.Sim.BaseQuota
	}
	if input.AttainmentPct == 0 {
		input.AttainmentPct = cfg.Sim.DefaultAttainmentPct
	}
	if input.RampMonths == 0 {
		input.RampMonths = cfg.Sim.DefaultRampMonths
	}

	return name, input, nil
}

func printScenarioResult(r analytics.ScenarioResult) {
	fmt.Printf("Role:                  %s\n", r.Input.Role)
	fmt.Printf("Growth scaler:         %.3f\n", r.GrowthScaler)
	fmt.Printf("Scaled quota:          $%s\n", formatMoney(r.ScaledQuota))
	fmt.Printf("Ramp factor:           %.2f\n", r.RampFactor)
	fmt.Printf("Effective ARR per rep: $%s\n", formatMoney(r.EffectiveARRPerRep))
	fmt.Println()
	fmt.Printf("Existing ARR:          $%s\n", formatMoney(r.ExistingARR))
	fmt.Printf("Expected new hires:    %d\n", r.ExpectedNewHires)
	fmt.Printf("Pipeline ARR:          $%s\n", formatMoney(r.PipelineARR))
	fmt.Printf("Required ARR:          $%s\n", formatMoney(r.RequiredARR))
	fmt.Printf("Revenue gap:           $%s\n", formatMoney(r.RevenueGap))
	fmt.Println()

	fmt.Println("Hiring funnel:")
	for _, s := range r.Funnel {
		fmt.Printf("  %-16s %4d  (%.0f%%)\n", s.Name, s.Candidates, s.Rate*100)
	}
	fmt.Println()

	fmt.Println("Ramp curve:")
	for _, p := range r.RampCurve {
		fmt.Printf("  month %d: target %5.1f%%  actual %5.1f%%\n", p.Month, p.TargetPct, p.ActualPct)
	}
	fmt.Println()

	fmt.Printf("Planner projection:    $%s/month cohort ARR at %d hires/month\n",
		formatMoney(r.ProjectedARR), r.Input.HiresPerMonth)
	fmt.Printf("Time to hire:          %d days\n", r.Input.TimeToHireDays)
}
