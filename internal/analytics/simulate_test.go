package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/wapp-insights/internal/model"
)

func baseScenario() model.ScenarioInput {
	return model.ScenarioInput{
		Role:           model.RoleAE,
		QuarterGoal:    10,
		CurrentHead:    15,
		PipelineCount:  8,
		BaseQuota:      750000,
		AttainmentPct:  70,
		RampMonths:     6,
		HiresPerMonth:  3,
		TimeToHireDays: 45,
	}
}

func TestSimulateReferenceScenario(t *testing.T) {
	// demand == baseline, so the growth scaler is exactly 1.
	res := Simulate(baseScenario(), 500, 500)

	assert.InDelta(t, 1.0, res.GrowthScaler, 1e-9)
	assert.InDelta(t, 750000, res.RoleQuota, 1e-9)
	assert.InDelta(t, 750000, res.ScaledQuota, 1e-9)
	assert.InDelta(t, 1.0, res.RampFactor, 1e-9)
	assert.InDelta(t, 525000, res.EffectiveARRPerRep, 1e-6)
	assert.InDelta(t, 7875000, res.ExistingARR, 1e-6)
	assert.Equal(t, 4, res.ExpectedNewHires)
	assert.InDelta(t, 2100000, res.PipelineARR, 1e-6)
	assert.InDelta(t, 5250000, res.RequiredARR, 1e-6)
	// Capacity exceeds the requirement; the gap clamps to zero.
	assert.Zero(t, res.RevenueGap)
	assert.InDelta(t, 1575000, res.ProjectedARR, 1e-6)
}

func TestSimulateRevenueGapNeverNegative(t *testing.T) {
	in := baseScenario()
	in.CurrentHead = 20
	res := Simulate(in, 500, 500)
	assert.Zero(t, res.RevenueGap)

	// No capacity at all: the whole requirement is the gap.
	in.CurrentHead = 0
	in.PipelineCount = 0
	res = Simulate(in, 500, 500)
	assert.InDelta(t, res.RequiredARR, res.RevenueGap, 1e-6)
	assert.GreaterOrEqual(t, res.RevenueGap, 0.0)
}

func TestSimulateRoleMultipliers(t *testing.T) {
	tests := []struct {
		role model.Role
		want float64
	}{
		{model.RoleAE, 750000},
		{model.RoleSDR, 187500},
		{model.RoleCSM, 300000},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			in := baseScenario()
			in.Role = tt.role
			res := Simulate(in, 500, 500)
			assert.InDelta(t, tt.want, res.RoleQuota, 1e-6)
		})
	}
}

func TestSimulateGrowthScalerFloors(t *testing.T) {
	in := baseScenario()

	// Sparse filter: scaler floors at 0.1.
	res := Simulate(in, 1, 1000)
	assert.InDelta(t, 0.1, res.GrowthScaler, 1e-9)

	// Negative demand cannot pull the scaler below the floor either.
	res = Simulate(in, -500, 1000)
	assert.InDelta(t, 0.1, res.GrowthScaler, 1e-9)

	// Zero or negative baseline: denominator floors at 1.
	res = Simulate(in, 250, 0)
	assert.InDelta(t, 250, res.GrowthScaler, 1e-9)
	res = Simulate(in, 250, -10)
	assert.InDelta(t, 250, res.GrowthScaler, 1e-9)
}

func TestSimulateRampFactorBounds(t *testing.T) {
	tests := []struct {
		months int
		want   float64
	}{
		{3, 0.5},
		{4, 4.0 / 6},
		{6, 1.0},
		{7, 1.0},
		{9, 1.0},
	}

	for _, tt := range tests {
		in := baseScenario()
		in.RampMonths = tt.months
		res := Simulate(in, 500, 500)
		assert.InDelta(t, tt.want, res.RampFactor, 1e-9)
		assert.GreaterOrEqual(t, res.RampFactor, 0.0)
		assert.LessOrEqual(t, res.RampFactor, 1.0)
	}
}

func TestBuildFunnelCounts(t *testing.T) {
	// pipeline 8 -> sourcing pool 24.
	stages := buildFunnel(8)
	require.Len(t, stages, 6)

	wantNames := []string{"Sourcing", "Phone Screen", "Hiring Manager", "Final Round", "Offer Extended", "Offer Accepted"}
	wantCounts := []int{24, 16, 12, 9, 7, 5}
	for i, s := range stages {
		assert.Equal(t, wantNames[i], s.Name)
		assert.Equal(t, wantCounts[i], s.Candidates)
	}
}

func TestBuildFunnelMonotone(t *testing.T) {
	for _, pipeline := range []int{0, 1, 3, 8, 50, 500} {
		stages := buildFunnel(pipeline)
		require.Len(t, stages, 6)
		prev := stages[0].Candidates
		for _, s := range stages[1:] {
			assert.LessOrEqual(t, s.Candidates, prev, "pipeline %d stage %s", pipeline, s.Name)
			prev = s.Candidates
		}
	}
}

func TestBuildFunnelEmptyPipeline(t *testing.T) {
	// The sourcing pool floors at 1 so the funnel shape stays visible.
	stages := buildFunnel(0)
	require.Len(t, stages, 6)
	assert.Equal(t, 1, stages[0].Candidates)
	assert.Equal(t, 0, stages[len(stages)-1].Candidates)
}

func TestBuildRampCurve(t *testing.T) {
	points := buildRampCurve(4, 50)
	require.Len(t, points, 4)

	wantTargets := []float64{25, 50, 75, 100}
	for i, p := range points {
		assert.Equal(t, i+1, p.Month)
		assert.InDelta(t, wantTargets[i], p.TargetPct, 1e-9)
		assert.InDelta(t, wantTargets[i]/2, p.ActualPct, 1e-9)
	}

	// Final point always reaches the full target.
	points = buildRampCurve(9, 100)
	require.Len(t, points, 9)
	assert.InDelta(t, 100, points[8].TargetPct, 1e-9)
	assert.InDelta(t, 100, points[8].ActualPct, 1e-9)
}

func TestSimulateIsPure(t *testing.T) {
	in := baseScenario()
	a := Simulate(in, 300, 500)
	b := Simulate(in, 300, 500)
	assert.Equal(t, a, b)
	// Input echoed unchanged.
	assert.Equal(t, in, a.Input)
}
