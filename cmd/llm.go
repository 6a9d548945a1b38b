package cmd

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/studyplan/internal/llm"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect LLM providers and usage",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List supported LLM providers and which one is selected",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer rt.Close()

		w := cmd.OutOrStdout()
		selected := rt.cfg.LLM
		fmt.Fprintf(w, "%-3s  %-11s  %-28s  %-20s  %s\n", "", "Provider", "Default model", "Key variable", "Aliases")
		fmt.Fprintln(w, strings.Repeat("─", 90))
		for _, p := range llm.Providers() {
			mark := ""
			if p.Name == selected.Provider {
				mark = "*"
			}
			key := p.KeyEnv
			if os.Getenv(p.KeyEnv) != "" {
				key += " ✓"
			}
			aliases := make([]string, 0, len(p.Aliases))
			for a := range p.Aliases {
				aliases = append(aliases, a)
			}
			sort.Strings(aliases)
			fmt.Fprintf(w, "%-3s  %-11s  %-28s  %-20s  %s\n", mark, p.Name, p.DefaultModel, key, strings.Join(aliases, ", "))
		}

		fmt.Fprintln(w)
		if selected.Provider == "" {
			fmt.Fprintln(w, "No provider selected; narration is unavailable.")
			return nil
		}
		fmt.Fprintf(w, "Selected: %s (model %s)\n", selected.Provider, selected.ResolvedModel())
		if err := selected.Validate(); err != nil {
			fmt.Fprintf(w, "Problem:  %v\n", err)
		}
		return nil
	},
}

var llmUsageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Show recorded LLM calls, tokens and cost per model",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd, true)
		if err != nil {
			return err
		}
		defer rt.Close()

		usage, err := rt.store.Events().LLMUsage(cmd.Context())
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}

		w := cmd.OutOrStdout()
		if len(usage) == 0 {
			fmt.Fprintln(w, "No LLM events found.")
			return nil
		}
		fmt.Fprintf(w, "%-28s  %6s  %6s  %10s  %10s  %9s\n", "Model", "Calls", "Failed", "In", "Out", "Cost")
		fmt.Fprintln(w, strings.Repeat("─", 78))
		var total float64
		for _, u := range usage {
			model := u.Model
			if len(model) > 28 {
				model = model[:28]
			}
			fmt.Fprintf(w, "%-28s  %6d  %6d  %10d  %10d  $%8.4f\n",
				model, u.Calls, u.Failures, u.InputTokens, u.OutputTokens, u.CostUSD)
			total += u.CostUSD
		}
		fmt.Fprintf(w, "%-28s  %6s  %6s  %10s  %10s  $%8.4f\n", "total", "", "", "", "", total)
		return nil
	},
}

func init() {
	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmUsageCmd)
}
