package analytics

import (
	"math"
	"sort"
)

// StrategicAction is the classifier label assigned to an industry.
type StrategicAction string

// Classification labels, in rule precedence order.
const (
	ActionFixChurn         StrategicAction = "FixChurn"
	ActionAccelerateHiring StrategicAction = "AccelerateHiring"
	ActionFragileGrowth    StrategicAction = "FragileGrowth"
	ActionSDRExpansion     StrategicAction = "SDRExpansion"
	ActionMonitor          StrategicAction = "Monitor"
)

// Classification thresholds. The churn-velocity threshold is the batch
// median, computed per call, so labels are relative to the industries
// currently in view.
const (
	werHealthy       = 1.2
	resurrectLow     = 0.4
	resurrectFragile = 0.7
	newToChurnStrong = 1.5
)

// IndustryDiagnostic holds the derived health ratios and the strategic
// classification for one industry. All ratio fields are finite: any
// division that would produce NaN or infinity yields 0 instead.
type IndustryDiagnostic struct {
	Industry string `json:"industry"`

	NewSum       float64 `json:"new_sum"`
	ResurrectSum float64 `json:"resurrect_sum"`
	ChurnSum     float64 `json:"churn_sum"`
	NetSum       float64 `json:"net_sum"`

	// WER is the win/expansion ratio (new+resurrect)/churn.
	WER float64 `json:"wer"`
	// ResurrectionDependency is the fraction of gross gains that came
	// from reactivated rather than net-new accounts, in [0,1].
	ResurrectionDependency float64 `json:"resurrection_dependency"`
	NewToChurnRatio        float64 `json:"new_to_churn_ratio"`
	// ChurnVelocity is churn per week over the analysis period.
	ChurnVelocity float64 `json:"churn_velocity"`

	Action           StrategicAction `json:"strategic_action"`
	OpportunityScore float64         `json:"opportunity_score"`
}

// Diagnose derives health ratios per industry aggregate, classifies each
// against the batch, and returns the diagnostics sorted descending by
// opportunity score (stable, so score ties keep their input order).
//
// The churn-velocity classification threshold is the median across this
// batch, so the label set must be computed in two passes. Callers must
// not pass an empty batch; check for zero rows and surface ErrNoData
// upstream instead.
func Diagnose(aggregates []Aggregate, periodDays int) []IndustryDiagnostic {
	if len(aggregates) == 0 {
		return nil
	}

	weeks := math.Max(1, float64(periodDays)/7)

	diags := make([]IndustryDiagnostic, 0, len(aggregates))
	velocities := make([]float64, 0, len(aggregates))
	for _, agg := range aggregates {
		d := IndustryDiagnostic{
			Industry:     agg.Industry,
			NewSum:       agg.NewSum,
			ResurrectSum: agg.ResurrectSum,
			ChurnSum:     agg.ChurnSum,
			NetSum:       agg.NetSum,
		}

		gains := agg.NewSum + agg.ResurrectSum
		d.WER = sanitize(safeDiv(gains, agg.ChurnSum))
		d.ResurrectionDependency = sanitize(safeDiv(agg.ResurrectSum, gains))
		d.NewToChurnRatio = sanitize(safeDiv(agg.NewSum, agg.ChurnSum))
		d.ChurnVelocity = sanitize(agg.ChurnSum / weeks)
		d.OpportunityScore = sanitize(math.Abs(agg.NetSum * d.WER))

		velocities = append(velocities, d.ChurnVelocity)
		diags = append(diags, d)
	}

	medianVelocity := median(velocities)
	for i := range diags {
		diags[i].Action = classify(diags[i], medianVelocity)
	}

	sort.SliceStable(diags, func(i, j int) bool {
		return diags[i].OpportunityScore > diags[j].OpportunityScore
	})
	return diags
}

// classify applies the ordered rule set; the first matching rule wins.
func classify(d IndustryDiagnostic, medianVelocity float64) StrategicAction {
	switch {
	case d.WER < 1 && d.ChurnVelocity > medianVelocity:
		return ActionFixChurn
	case d.WER > werHealthy && d.ResurrectionDependency < resurrectLow:
		return ActionAccelerateHiring
	case d.ResurrectionDependency > resurrectFragile:
		return ActionFragileGrowth
	case d.NewToChurnRatio > newToChurnStrong:
		return ActionSDRExpansion
	default:
		return ActionMonitor
	}
}

// safeDiv divides, substituting 0 when the denominator is 0.
func safeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

// sanitize maps NaN and ±infinity to 0 so classification thresholds only
// ever compare finite values.
func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// median returns the middle value of vs, averaging the two middle values
// for even counts. vs is copied, not reordered. Empty input returns 0.
func median(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	sorted := make([]float64, len(vs))
	copy(sorted, vs)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
