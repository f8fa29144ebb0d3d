package scenario

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/wapp-insights/internal/model"
)

func TestLoadScenarioFile(t *testing.T) {
	content := `name: q3 ae plan
scenario:
  role: Account Executive
  quarter_goal: 12
  current_headcount: 15
  pipeline_count: 8
  attainment_pct: 70
  ramp_months: 6
  hires_per_month: 3
  time_to_hire_days: 45
`
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	f, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "q3 ae plan", f.Name)
	assert.Equal(t, model.RoleAE, f.Scenario.Role)
	assert.Equal(t, 12, f.Scenario.QuarterGoal)
	assert.Equal(t, 15, f.Scenario.CurrentHead)
	// Unset fields keep zero values for the caller to default.
	assert.Zero(t, f.Scenario.BaseQuota)
}

func TestLoadScenarioFileBadRole(t *testing.T) {
	content := "name: x\nscenario:\n  role: wizard\n"
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown role")
}

func TestLoadScenarioFileMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadScenarioFileInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{not yaml"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}
