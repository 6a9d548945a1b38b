package cmd

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/abhisek/studyplan/internal/export"
)

// version is set via -ldflags at build time.
var version = "(devel)"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current version",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "studyplan", version)

		verbose, _ := cmd.Flags().GetBool("verbose")
		if !verbose {
			return nil
		}
		if info, ok := debug.ReadBuildInfo(); ok {
			fmt.Fprintf(out, "go:       %s\n", info.GoVersion)
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision", "vcs.time", "vcs.modified":
					fmt.Fprintf(out, "%-9s %s\n", s.Key[len("vcs."):]+":", s.Value)
				}
			}
		}
		fmt.Fprintf(out, "formats:  %v\n", export.Formats())
		return nil
	},
}

func init() {
	versionCmd.Flags().BoolP("verbose", "v", false, "Also print build and format details")
}
