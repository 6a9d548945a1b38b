package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const inputYAML = `
chapters:
  - id: alg-1
    subject: math
    estimated_hours: 3
    base_difficulty: 0.5
    question_density: 1
  - id: mech-1
    subject: physics
    estimated_hours: 2
config:
  mode: base
  target_completion_date: "2025-01-08"
  practice_paper:
    disabled: true
`

const outcomesYAML = `
outcomes:
  - predicted_hours: 1
    actual_hours: 2
history:
  alg-1: "2025-01-06"
`

// resetFlags restores every flag in the tree to its default, since the
// command tree is shared between test runs.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func execute(t *testing.T, args ...string) (string, string) {
	t.Helper()
	resetFlags(rootCmd)
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	require.NoError(t, err, errOut.String())
	return out.String(), errOut.String()
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestCLI_PlanProfileAndExport(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "data", "studyplan.db")
	input := writeFile(t, dir, "plan.yaml", inputYAML)
	outcomes := writeFile(t, dir, "outcomes.yaml", outcomesYAML)

	out, _ := execute(t, "plan", input, "--db", db, "--today", "2025-01-06")
	assert.Contains(t, out, "Mon 2025-01-06")
	assert.Contains(t, out, "Summary  mode base")
	assert.NotContains(t, out, "\x1b[")

	out, errOut := execute(t, "plan", input, "--db", db, "--today", "2025-01-06", "--format", "json", "--save")
	assert.Contains(t, errOut, "Saved run ")
	var res struct {
		Days []json.RawMessage `json:"days"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Len(t, res.Days, 3)

	out, _ = execute(t, "profile", "runs", "--db", db)
	assert.Contains(t, out, "2025-01-06..2025-01-08")

	out, _ = execute(t, "friction", "update", outcomes, "--db", db)
	assert.Contains(t, out, "Profile default updated from 1 outcome(s) (version 1)")
	assert.Contains(t, out, "overrun            0.000     0.080")

	out, _ = execute(t, "profile", "show", "--db", db)
	assert.Contains(t, out, "Overrun:        0.080")
	assert.Contains(t, out, "alg-1")

	ics := filepath.Join(dir, "plan.ics")
	_, errOut = execute(t, "export", input, "--db", db, "--today", "2025-01-06", "--format", "ics", "-o", ics)
	assert.Contains(t, errOut, "Wrote "+ics)
	data, err := os.ReadFile(ics)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "BEGIN:VCALENDAR\r\n"))
}

func TestCLI_ExportRequiresOneSource(t *testing.T) {
	resetFlags(rootCmd)
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"export", "--format", "csv"})
	assert.Error(t, rootCmd.Execute())

	resetFlags(rootCmd)
	rootCmd.SetArgs([]string{"plan", "x.yaml", "--format", "xml"})
	assert.ErrorContains(t, rootCmd.Execute(), "unknown format")
}

func TestCLI_Version(t *testing.T) {
	out, _ := execute(t, "version")
	assert.Equal(t, "studyplan (devel)\n", out)
}

func TestCLI_VersionVerbose(t *testing.T) {
	out, _ := execute(t, "version", "--verbose")
	assert.True(t, strings.HasPrefix(out, "studyplan (devel)\n"))
	assert.Contains(t, out, "formats:  [csv ics json pdf]")
}

func TestShouldBrowse_NeedsTerminal(t *testing.T) {
	resetFlags(rootCmd)
	var out bytes.Buffer
	planCmd.SetOut(&out)
	planCmd.SetIn(strings.NewReader(""))
	defer planCmd.SetOut(nil)
	defer planCmd.SetIn(nil)

	assert.False(t, shouldBrowse(planCmd), "buffers are not terminals")
	require.NoError(t, planCmd.Flags().Set("browse", "false"))
	assert.False(t, shouldBrowse(planCmd))
	assert.False(t, isTerminal(&out))
}
