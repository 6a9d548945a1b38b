package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/studyplan/internal/app"
	"github.com/abhisek/studyplan/internal/config"
	"github.com/abhisek/studyplan/internal/llm"
	"github.com/abhisek/studyplan/internal/logger"
	"github.com/abhisek/studyplan/internal/narration"
	"github.com/abhisek/studyplan/internal/store"
)

// runtime holds what a command needs once flags are parsed.
type runtime struct {
	cfg    *config.Config
	logger *zap.Logger
	store  *store.Store
}

// setup loads config, builds the logger and, when withStore is set, opens
// the database.
func setup(cmd *cobra.Command, withStore bool) (*runtime, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.Log.Level = lvl
	}

	log, err := logger.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	rt := &runtime{cfg: cfg, logger: log}
	if !withStore {
		return rt, nil
	}

	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	rt.store, err = store.Open(cmd.Context(), dbPath, store.WithLogger(log.Named("store")))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return rt, nil
}

func (rt *runtime) Close() {
	if rt.store != nil {
		rt.store.Close()
	}
	_ = rt.logger.Sync()
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then the configured path, then the default XDG path.
func resolveDBPath(cmd *cobra.Command, cfg *config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}

func profileFlag(cmd *cobra.Command) string {
	id, _ := cmd.Flags().GetString("profile")
	if id == "" {
		return store.DefaultProfileID
	}
	return id
}

// newApp wires the planner service. Narration is attached only when
// narrate is set, and then a misconfigured provider is an error.
func (rt *runtime) newApp(ctx context.Context, narrate bool) (*app.App, error) {
	opts := app.Options{
		Practice: rt.cfg.Practice,
		Seed:     rt.cfg.Seed,
		Logger:   rt.logger.Named("planner"),
	}
	var events store.EventRepo
	if rt.store != nil {
		opts.Profiles = rt.store.Profiles()
		opts.Runs = rt.store.Runs()
		events = rt.store.Events()
	}

	if narrate {
		provider, err := llm.New(ctx, rt.cfg.LLM, events, rt.logger)
		if err != nil {
			return nil, fmt.Errorf("narration needs an LLM provider: %w", err)
		}
		opts.Narrator = narration.NewService(provider, rt.cfg.Narration.Config, rt.logger)
	}
	return app.New(opts), nil
}

// writeOutput writes data to path, or to the command's stdout when path is
// empty or "-".
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s (%d bytes)\n", path, len(data))
	return nil
}

// shouldBrowse reports whether the interactive browser can replace
// printed output: --browse is set and both stdin and stdout are terminals.
func shouldBrowse(cmd *cobra.Command) bool {
	browse, _ := cmd.Flags().GetBool("browse")
	return browse && isTerminal(cmd.InOrStdin()) && isTerminal(cmd.OutOrStdout())
}

func addBrowseFlag(cmd *cobra.Command) {
	cmd.Flags().Bool("browse", true, "Open the interactive browser when attached to a terminal")
}

// isTerminal reports whether v is an interactive terminal.
func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(f.Fd())
}
