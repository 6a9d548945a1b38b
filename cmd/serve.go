package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abhisek/studyplan/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the planner over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd, true)
		if err != nil {
			return err
		}
		defer rt.Close()

		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			rt.cfg.HTTP.Addr = addr
		}
		narrate := rt.cfg.Narration.Enabled
		if cmd.Flags().Changed("narration") {
			narrate, _ = cmd.Flags().GetBool("narration")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := rt.newApp(ctx, narrate)
		if err != nil {
			return err
		}
		srv := server.New(server.Options{
			App:    a,
			HTTP:   rt.cfg.HTTP,
			Env:    rt.cfg.Env,
			Events: rt.store.Events(),
			Logger: rt.logger,
		})
		return srv.ListenAndServe(ctx)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (default from STUDYPLAN_HTTP_ADDR or :8080)")
	serveCmd.Flags().Bool("narration", false, "Enable AI day commentary (default from STUDYPLAN_NARRATION_ENABLED)")
}
