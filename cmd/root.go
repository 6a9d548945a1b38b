package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "studyplan",
	Short: "Adaptive study scheduler",
	Long: "studyplan turns chapters, exams and blocked time into a day-by-day study plan,\n" +
		"and adapts it to how your past sessions actually went.",
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides STUDYPLAN_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("profile", "", "Learner profile ID (default \"default\")")

	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(frictionCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}
