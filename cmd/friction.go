package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/studyplan/internal/planfile"
)

var frictionCmd = &cobra.Command{
	Use:   "friction",
	Short: "Update the learner's friction profile",
}

var frictionUpdateCmd = &cobra.Command{
	Use:   "update <outcomes-file>",
	Short: "Fold observed task outcomes into the stored profile",
	Long: "Fold observed task outcomes (YAML or JSON, \"-\" for stdin) into the stored\n" +
		"friction profile. A history map in the file records when chapters were last studied.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rep, err := planfile.LoadOutcomes(args[0])
		if err != nil {
			return fmt.Errorf("read outcomes: %w", err)
		}

		rt, err := setup(cmd, true)
		if err != nil {
			return err
		}
		defer rt.Close()
		a, err := rt.newApp(cmd.Context(), false)
		if err != nil {
			return err
		}

		before, err := a.Profile(cmd.Context(), profileFlag(cmd))
		if err != nil {
			return err
		}
		p, err := a.RecordOutcomes(cmd.Context(), profileFlag(cmd), rep)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "Profile %s updated from %d outcome(s) (version %d)\n\n", p.ID, len(rep.Outcomes), p.Version)
		fmt.Fprintf(w, "%-14s  %8s  %8s\n", "", "before", "after")
		if before.ID == p.ID {
			fmt.Fprintf(w, "%-14s  %8.3f  %8.3f\n", "overrun", before.Friction.Overrun, p.Friction.Overrun)
			fmt.Fprintf(w, "%-14s  %8.3f  %8.3f\n", "quiz error", before.Friction.QuizError, p.Friction.QuizError)
			fmt.Fprintf(w, "%-14s  %8.3f  %8.3f\n", "revision freq", before.Friction.RevisionFreq, p.Friction.RevisionFreq)
		} else {
			fmt.Fprintf(w, "%-14s  %8s  %8.3f\n", "overrun", "-", p.Friction.Overrun)
			fmt.Fprintf(w, "%-14s  %8s  %8.3f\n", "quiz error", "-", p.Friction.QuizError)
			fmt.Fprintf(w, "%-14s  %8s  %8.3f\n", "revision freq", "-", p.Friction.RevisionFreq)
		}
		if n := len(rep.History); n > 0 {
			fmt.Fprintf(w, "\nRecorded study dates for %d chapter(s).\n", n)
		}
		return nil
	},
}

func init() {
	frictionCmd.AddCommand(frictionUpdateCmd)
}
