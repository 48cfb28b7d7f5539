package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Emdad05/Quiz-Ai/internal/app"
	"github.com/Emdad05/Quiz-Ai/internal/config"
	"github.com/Emdad05/Quiz-Ai/internal/credentials"
	"github.com/Emdad05/Quiz-Ai/internal/generator"
	"github.com/Emdad05/Quiz-Ai/internal/llm"
	"github.com/Emdad05/Quiz-Ai/internal/session"
	"github.com/Emdad05/Quiz-Ai/internal/store"
)

// deps is everything a command needs, built from config and flags.
type deps struct {
	cfg      config.Config
	logger   *slog.Logger
	kv       store.Handle
	gen      *generator.Orchestrator
	keyring  *credentials.Keyring
	provider credentials.Provider
	session  *session.Manager
}

func (r *deps) Close() error {
	return r.kv.Close()
}

// loadConfig reads the config file and applies the persistent flags on top.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}

	if p, _ := cmd.Flags().GetString("db"); p != "" {
		if err := store.EnsureDir(p); err != nil {
			return cfg, fmt.Errorf("create database dir: %w", err)
		}
		cfg.Store.Path = p
	}
	if b, _ := cmd.Flags().GetString("store"); b != "" {
		cfg.Store.Backend = b
	}
	if l, _ := cmd.Flags().GetString("log-level"); l != "" {
		cfg.LogLevel = l
	}
	return cfg, cfg.Validate()
}

// setup opens the store, builds the generator and restores the session.
// Callers must Close the result.
func setup(cmd *cobra.Command) (*deps, error) {
	ctx := cmd.Context()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger := config.NewLogger(os.Stderr, cfg.LogLevel)

	kv, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	factory, err := llm.NewFactory(cfg.LLM, logger)
	if err != nil {
		kv.Close()
		return nil, fmt.Errorf("configure llm: %w", err)
	}
	gen := generator.New(factory, generator.DefaultConfig(), generator.WithLogger(logger))

	keyring := credentials.NewKeyring(kv, gen, logger)
	provider := credentials.Provider{Keyring: keyring, System: cfg.SystemKeys}

	mgr := session.NewManager(kv, gen, provider, session.WithLogger(logger))
	mgr.Restore(ctx)

	return &deps{
		cfg:      cfg,
		logger:   logger,
		kv:       kv,
		gen:      gen,
		keyring:  keyring,
		provider: provider,
		session:  mgr,
	}, nil
}

// runApp wires everything and launches the TUI.
func runApp(cmd *cobra.Command) error {
	rt, err := setup(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	return app.Run(cmd.Context(), app.Options{
		Session: rt.session,
		Keyring: rt.keyring,
	})
}

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Open the interactive quiz app",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}
