package adapters

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"apt-warden/internal/types"
)

func TestWriteFixPlanYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plans", "fix.yaml")
	plan := types.FixPlan{
		Mode: types.FixModeManual,
		Issues: []types.Issue{{
			Severity:    types.IssueSeverityHigh,
			Problem:     "nginx failed after upgrade",
			Impact:      "traffic down",
			FixCommands: []string{"systemctl restart nginx"},
		}},
	}
	require.NoError(t, NewFixPlanFileAdapter(path).WriteFixPlan(plan))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var parsed types.FixPlan
	require.NoError(t, yaml.Unmarshal(data, &parsed))
	if diff := cmp.Diff(plan, parsed); diff != "" {
		t.Fatalf("plan did not round-trip (-want +got):\n%s", diff)
	}
}

func TestWriteFixPlanEmptyPath(t *testing.T) {
	require.Error(t, FixPlanFileAdapter{Path: ""}.WriteFixPlan(types.FixPlan{}))
}
