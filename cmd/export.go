package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/studyplan/internal/export"
	"github.com/abhisek/studyplan/internal/schedule"
)

var exportCmd = &cobra.Command{
	Use:   "export [input-file]",
	Short: "Export a plan as JSON, iCalendar, CSV or PDF",
	Long: "Export a plan as JSON, iCalendar, CSV or PDF. The plan is either built from\n" +
		"an input file, like the plan command, or loaded from an archived run with --run.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")
		runID, _ := cmd.Flags().GetString("run")

		r, err := export.ForFormat(format)
		if err != nil {
			return err
		}
		if (runID == "") == (len(args) == 0) {
			return fmt.Errorf("pass either an input file or --run")
		}

		var res *schedule.Result
		if runID != "" {
			rt, err := setup(cmd, true)
			if err != nil {
				return err
			}
			defer rt.Close()
			a, err := rt.newApp(cmd.Context(), false)
			if err != nil {
				return err
			}
			run, err := a.Run(cmd.Context(), runID)
			if err != nil {
				return fmt.Errorf("load run %s: %w", runID, err)
			}
			res = run.Result
		} else {
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
			res = out.Result
		}

		data, err := r.Render(res)
		if err != nil {
			return fmt.Errorf("render %s: %w", format, err)
		}
		if output == "" && format == "pdf" && isTerminal(cmd.OutOrStdout()) {
			output = "studyplan" + r.Extension()
		}
		return writeOutput(cmd, output, data)
	},
}

func init() {
	addPlanFlags(exportCmd)
	exportCmd.Flags().StringP("format", "f", "ics", "Export format: "+strings.Join(export.Formats(), ", "))
	exportCmd.Flags().String("run", "", "Export an archived run instead of planning")
}
