package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/studyplan/internal/app"
	"github.com/abhisek/studyplan/internal/planfile"
	"github.com/abhisek/studyplan/internal/schedule"
	dayscreen "github.com/abhisek/studyplan/internal/screens/days"
	"github.com/abhisek/studyplan/internal/ui/browser"
	"github.com/abhisek/studyplan/internal/ui/planview"
)

var planCmd = &cobra.Command{
	Use:   "plan <input-file>",
	Short: "Build a study plan from a YAML or JSON input file",
	Long: "Build a study plan from a YAML or JSON input file (\"-\" reads stdin).\n" +
		"Stored friction and study history for --profile are merged in unless --use-profile=false.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")
		if format != "text" && format != "json" {
			return fmt.Errorf("unknown format %q (want text or json; see also the export command)", format)
		}

		req, err := buildPlanRequest(cmd, args[0])
		if err != nil {
			return err
		}
		rt, err := setup(cmd, req.Save || req.UseProfile)
		if err != nil {
			return err
		}
		defer rt.Close()

		a, err := rt.newApp(cmd.Context(), req.Narrate)
		if err != nil {
			return err
		}
		out, err := a.Plan(cmd.Context(), req)
		if err != nil {
			return err
		}
		reportPlan(cmd, out)

		var data []byte
		switch format {
		case "json":
			data, err = json.MarshalIndent(out.Result, "", "  ")
			if err != nil {
				return err
			}
			data = append(data, '\n')
		default:
			plain, _ := cmd.Flags().GetBool("plain")
			days, _ := cmd.Flags().GetInt("days")
			breaks, _ := cmd.Flags().GetBool("show-breaks")
			skip, _ := cmd.Flags().GetBool("skip-empty")
			if !plain && output == "" && days == 0 && shouldBrowse(cmd) {
				sum := out.Result.Summary
				status := fmt.Sprintf("mode %s  coverage %d%%", sum.Mode, int(sum.Coverage*100+0.5))
				root := dayscreen.New(out.Result, "Plan", dayscreen.Options{SkipEmpty: skip, ShowBreaks: breaks})
				return browser.Run(cmd.Context(), root, status)
			}
			data = []byte(planview.Render(out.Result, planview.Options{
				Plain:      plain || output != "" || !isTerminal(cmd.OutOrStdout()),
				MaxDays:    days,
				ShowBreaks: breaks,
				SkipEmpty:  skip,
			}))
		}
		return writeOutput(cmd, output, data)
	},
}

// buildPlanRequest reads the input file and applies the shared planning
// flags of plan and export.
func buildPlanRequest(cmd *cobra.Command, path string) (app.PlanRequest, error) {
	in, err := planfile.LoadInput(path)
	if err != nil {
		return app.PlanRequest{}, fmt.Errorf("read input: %w", err)
	}
	if v, _ := cmd.Flags().GetString("today"); v != "" {
		in.Config.Today = v
	}
	if v, _ := cmd.Flags().GetString("until"); v != "" {
		in.Config.TargetCompletionDate = v
	}
	if v, _ := cmd.Flags().GetString("mode"); v != "" {
		in.Config.Mode = schedule.Mode(v)
	}

	req := app.PlanRequest{Input: *in, ProfileID: profileFlag(cmd)}
	req.UseProfile, _ = cmd.Flags().GetBool("use-profile")
	req.Save, _ = cmd.Flags().GetBool("save")
	req.Narrate, _ = cmd.Flags().GetBool("narrate")
	return req, nil
}

// reportPlan prints side information to stderr so stdout stays parseable.
func reportPlan(cmd *cobra.Command, out *app.PlanResult) {
	w := cmd.ErrOrStderr()
	if out.RunID != "" {
		fmt.Fprintf(w, "Saved run %s\n", out.RunID)
	}
	if rep := out.Narration; rep != nil && (rep.Failed > 0 || rep.Skipped > 0) {
		fmt.Fprintf(w, "Narration: %d day(s) narrated, %d failed, %d skipped\n", rep.Narrated, rep.Failed, rep.Skipped)
	}
}

func addPlanFlags(cmd *cobra.Command) {
	cmd.Flags().String("today", "", "Plan start date, YYYY-MM-DD (default: input config or the current date)")
	cmd.Flags().String("until", "", "Target completion date, YYYY-MM-DD")
	cmd.Flags().String("mode", "", "Planner mode: base, assisted or power")
	cmd.Flags().Bool("use-profile", true, "Merge stored friction and history into the input")
	cmd.Flags().Bool("save", false, "Archive the plan in the database")
	cmd.Flags().Bool("narrate", false, "Add AI commentary to each day")
	cmd.Flags().StringP("output", "o", "", "Write to a file instead of stdout")
}

func init() {
	addPlanFlags(planCmd)
	planCmd.Flags().StringP("format", "f", "text", "Output format: text or json")
	planCmd.Flags().Bool("plain", false, "Disable colours")
	planCmd.Flags().Int("days", 0, "Print at most this many days (0 = all)")
	planCmd.Flags().Bool("show-breaks", false, "Print break slots")
	planCmd.Flags().Bool("skip-empty", false, "Hide days without study work")
	addBrowseFlag(planCmd)
}
