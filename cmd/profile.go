package cmd

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	dayscreen "github.com/abhisek/studyplan/internal/screens/days"
	runscreen "github.com/abhisek/studyplan/internal/screens/runs"
	"github.com/abhisek/studyplan/internal/store"
	"github.com/abhisek/studyplan/internal/ui/browser"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Inspect stored learner profiles",
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show friction and study history",
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		rt, err := setup(cmd, true)
		if err != nil {
			return err
		}
		defer rt.Close()
		a, err := rt.newApp(cmd.Context(), false)
		if err != nil {
			return err
		}
		p, err := a.Profile(cmd.Context(), profileFlag(cmd))
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		if asJSON {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(p)
		}

		fmt.Fprintf(w, "Profile:        %s\n", p.ID)
		if p.Version == 0 {
			fmt.Fprintln(w, "Version:        (never saved)")
		} else {
			fmt.Fprintf(w, "Version:        %d\n", p.Version)
			fmt.Fprintf(w, "Updated:        %s\n", p.UpdatedAt.Local().Format("2006-01-02 15:04:05"))
		}
		fmt.Fprintf(w, "Overrun:        %.3f\n", p.Friction.Overrun)
		fmt.Fprintf(w, "Quiz error:     %.3f\n", p.Friction.QuizError)
		fmt.Fprintf(w, "Revision freq:  %.3f\n", p.Friction.RevisionFreq)

		if len(p.History) == 0 {
			return nil
		}
		ids := make([]string, 0, len(p.History))
		for id := range p.History {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		fmt.Fprintln(w, "\nLast studied:")
		for _, id := range ids {
			fmt.Fprintf(w, "  %-24s  %s\n", id, p.History[id])
		}
		return nil
	},
}

var profileRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List archived plans",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		rt, err := setup(cmd, true)
		if err != nil {
			return err
		}
		defer rt.Close()
		a, err := rt.newApp(cmd.Context(), false)
		if err != nil {
			return err
		}
		if shouldBrowse(cmd) {
			id := profileFlag(cmd)
			if id == "" {
				id = store.DefaultProfileID
			}
			return browser.Run(cmd.Context(), runscreen.New(a, id, limit, dayscreen.Options{}), "profile "+id)
		}

		runs, err := a.Runs(cmd.Context(), profileFlag(cmd), limit)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		if len(runs) == 0 {
			fmt.Fprintln(w, "No archived plans found.")
			return nil
		}
		fmt.Fprintf(w, "%-36s  %-19s  %-23s  %8s  %7s\n", "ID", "Created", "Dates", "Coverage", "Hours")
		for _, r := range runs {
			fmt.Fprintf(w, "%-36s  %-19s  %-23s  %7.0f%%  %7.2f\n",
				r.ID,
				r.CreatedAt.Local().Format("2006-01-02 15:04:05"),
				r.StartDate+".."+r.EndDate,
				r.Coverage*100,
				r.PlannedHours,
			)
		}
		return nil
	},
}

func init() {
	profileShowCmd.Flags().Bool("json", false, "Print as JSON")
	profileRunsCmd.Flags().Int("limit", 20, "Max runs to show")
	addBrowseFlag(profileRunsCmd)

	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileRunsCmd)
}
