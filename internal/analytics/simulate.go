package analytics

import (
	"math"

	"github.com/sells-group/wapp-insights/internal/model"
)

// Fixed model constants. The base quota is configurable and travels in
// the ScenarioInput; these ratios are part of the model itself.
const (
	// pipelineConversion is the pipeline-to-hire conversion rate.
	pipelineConversion = 0.5
	// fullRampMonths is the ramp length treated as full productivity.
	fullRampMonths = 6
	// growthScalerFloor keeps sparse filters from collapsing capacity.
	growthScalerFloor = 0.1
	// funnelMultiplier sizes the sourcing pool from the pipeline count.
	funnelMultiplier = 3
)

// funnelStages lists the hiring funnel in order with each stage's
// retention rate relative to the previous stage. Sourcing retains 100%
// because it is the starting pool.
var funnelStages = []struct {
	Name string
	Rate float64
}{
	{"Sourcing", 1.0},
	{"Phone Screen", 0.7},
	{"Hiring Manager", 0.8},
	{"Final Round", 0.75},
	{"Offer Extended", 0.8},
	{"Offer Accepted", 0.85},
}

// FunnelStage is one step of the projected hiring funnel.
type FunnelStage struct {
	Name       string  `json:"name"`
	Rate       float64 `json:"rate"`
	Candidates int     `json:"candidates"`
}

// RampPoint is one month of the ramp-to-productivity projection.
type RampPoint struct {
	Month     int     `json:"month"`
	TargetPct float64 `json:"target_pct"`
	ActualPct float64 `json:"actual_pct"`
}

// ScenarioResult is the full output of one simulation run. It is a pure
// function of the input and the two demand scalars.
type ScenarioResult struct {
	Input model.ScenarioInput `json:"input"`

	GrowthScaler       float64 `json:"growth_scaler"`
	RoleQuota          float64 `json:"role_quota"`
	ScaledQuota        float64 `json:"scaled_quota"`
	RampFactor         float64 `json:"ramp_factor"`
	EffectiveARRPerRep float64 `json:"effective_arr_per_rep"`

	ExistingARR      float64 `json:"existing_arr"`
	ExpectedNewHires int     `json:"expected_new_hires"`
	PipelineARR      float64 `json:"pipeline_arr"`
	RequiredARR      float64 `json:"required_arr"`
	RevenueGap       float64 `json:"revenue_gap"`

	Funnel       []FunnelStage `json:"funnel"`
	RampCurve    []RampPoint   `json:"ramp_curve"`
	ProjectedARR float64       `json:"projected_arr"`
}

// Simulate projects ARR capacity and the revenue gap for a hiring
// scenario. demandSignal is the filtered-period net WAPP total and
// baselineDemand the unfiltered total; their ratio scales quota so a
// narrow filter sees proportionally scaled capacity. TimeToHireDays is
// echoed through for display and feeds no formula.
func Simulate(in model.ScenarioInput, demandSignal, baselineDemand float64) ScenarioResult {
	res := ScenarioResult{Input: in}

	// Demand scaling. The denominator floor of 1 guards a zero or
	// negative baseline; the outer floor keeps capacity from collapsing
	// to near-zero under sparse filters.
	res.GrowthScaler = math.Max(growthScalerFloor, demandSignal/math.Max(1, baselineDemand))

	res.RoleQuota = in.BaseQuota * in.Role.QuotaMultiplier()
	res.ScaledQuota = res.RoleQuota * res.GrowthScaler

	// A ramp at or beyond fullRampMonths never exceeds full credit.
	res.RampFactor = math.Min(1, float64(in.RampMonths)/fullRampMonths)

	res.EffectiveARRPerRep = res.ScaledQuota * (in.AttainmentPct / 100) * res.RampFactor

	res.ExistingARR = float64(in.CurrentHead) * res.EffectiveARRPerRep
	res.ExpectedNewHires = int(math.Floor(float64(in.PipelineCount) * pipelineConversion))
	res.PipelineARR = float64(res.ExpectedNewHires) * res.EffectiveARRPerRep
	res.RequiredARR = float64(in.QuarterGoal) * res.EffectiveARRPerRep

	// A surplus reports a gap of 0, never a negative number.
	res.RevenueGap = math.Max(0, res.RequiredARR-(res.ExistingARR+res.PipelineARR))

	res.Funnel = buildFunnel(in.PipelineCount)
	res.RampCurve = buildRampCurve(in.RampMonths, in.AttainmentPct)

	// Independent linear planner projection, not compounded with the
	// funnel or ramp outputs.
	res.ProjectedARR = float64(in.HiresPerMonth) * res.EffectiveARRPerRep

	return res
}

// buildFunnel applies the fixed stage retention rates to a sourcing pool
// sized from the pipeline count. Counts truncate after every stage, so
// each stage never exceeds the floor of the previous count times its
// rate.
func buildFunnel(pipelineCount int) []FunnelStage {
	count := pipelineCount * funnelMultiplier
	if count < 1 {
		count = 1
	}

	stages := make([]FunnelStage, 0, len(funnelStages))
	for _, s := range funnelStages {
		count = int(math.Floor(float64(count) * s.Rate))
		stages = append(stages, FunnelStage{Name: s.Name, Rate: s.Rate, Candidates: count})
	}
	return stages
}

// buildRampCurve produces the linear ramp-to-productivity projection:
// target rises evenly to 100% at the final ramp month, and actual is the
// target discounted by attainment.
func buildRampCurve(rampMonths int, attainmentPct float64) []RampPoint {
	if rampMonths < 1 {
		return nil
	}
	points := make([]RampPoint, 0, rampMonths)
	for m := 1; m <= rampMonths; m++ {
		target := 100 * float64(m) / float64(rampMonths)
		points = append(points, RampPoint{
			Month:     m,
			TargetPct: target,
			ActualPct: target * (attainmentPct / 100),
		})
	}
	return points
}
