package model

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
)

// Role is the hiring role a scenario plans for.
type Role string

// Supported roles.
const (
	RoleAE  Role = "ae"
	RoleSDR Role = "sdr"
	RoleCSM Role = "csm"
)

// roleMultipliers scales the base annual quota per role.
var roleMultipliers = map[Role]float64{
	RoleAE:  1.0,
	RoleSDR: 0.25,
	RoleCSM: 0.4,
}

// ParseRole normalizes a role string. Accepts long-form names as typed in
// scenario files ("Account Executive") as well as the short codes.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ae", "account executive":
		return RoleAE, nil
	case "sdr", "sales development rep", "sales development representative":
		return RoleSDR, nil
	case "csm", "customer success manager":
		return RoleCSM, nil
	default:
		return "", eris.Errorf("model: unknown role %q (want ae, sdr, or csm)", s)
	}
}

// QuotaMultiplier returns the quota scaling factor for the role.
// Unknown roles get 1.0 so a bad value degrades to AE economics rather
// than zeroing the projection.
func (r Role) QuotaMultiplier() float64 {
	if m, ok := roleMultipliers[r]; ok {
		return m
	}
	return 1.0
}

// ScenarioInput holds the what-if parameters supplied per simulation run.
// It is an ephemeral value object: never persisted as state, only echoed
// into saved snapshots alongside the result it produced.
type ScenarioInput struct {
	Role            Role    `json:"role" yaml:"role"`
	QuarterGoal     int     `json:"quarter_goal" yaml:"quarter_goal"`
	CurrentHead     int     `json:"current_headcount" yaml:"current_headcount"`
	PipelineCount   int     `json:"pipeline_count" yaml:"pipeline_count"`
	BaseQuota       float64 `json:"base_quota" yaml:"base_quota"`
	AttainmentPct   float64 `json:"attainment_pct" yaml:"attainment_pct"`
	RampMonths      int     `json:"ramp_months" yaml:"ramp_months"`
	HiresPerMonth   int     `json:"hires_per_month" yaml:"hires_per_month"`
	TimeToHireDays  int     `json:"time_to_hire_days" yaml:"time_to_hire_days"`
}

// Validate checks all scenario parameters against their allowed ranges.
func (s ScenarioInput) Validate() error {
	var errs []string

	if _, ok := roleMultipliers[s.Role]; !ok {
		errs = append(errs, fmt.Sprintf("role must be ae, sdr, or csm (got %q)", s.Role))
	}
	if s.QuarterGoal <= 0 {
		errs = append(errs, "quarter_goal must be > 0")
	}
	if s.CurrentHead < 0 {
		errs = append(errs, "current_headcount must be >= 0")
	}
	if s.PipelineCount < 0 {
		errs = append(errs, "pipeline_count must be >= 0")
	}
	if s.BaseQuota <= 0 {
		errs = append(errs, "base_quota must be > 0")
	}
	if s.AttainmentPct < 50 || s.AttainmentPct > 100 {
		errs = append(errs, fmt.Sprintf("attainment_pct must be between 50 and 100 (got %g)", s.AttainmentPct))
	}
	if s.RampMonths < 3 || s.RampMonths > 9 {
		errs = append(errs, fmt.Sprintf("ramp_months must be between 3 and 9 (got %d)", s.RampMonths))
	}
	if s.HiresPerMonth < 1 || s.HiresPerMonth > 15 {
		errs = append(errs, fmt.Sprintf("hires_per_month must be between 1 and 15 (got %d)", s.HiresPerMonth))
	}
	if s.TimeToHireDays < 20 || s.TimeToHireDays > 90 {
		errs = append(errs, fmt.Sprintf("time_to_hire_days must be between 20 and 90 (got %d)", s.TimeToHireDays))
	}

	if len(errs) > 0 {
		return eris.Errorf("model: scenario validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
