package main

import (
	"fmt"
	"os"

	"zenchat/internal/config"
	"zenchat/internal/logging"
	"zenchat/internal/responder"
	"zenchat/internal/session"
	"zenchat/internal/storage"
	"zenchat/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var version = "dev"

type flags struct {
	configPath string
	mode       string
	store      string
	debug      bool
}

func newRootCmd() *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:   "zenchat",
		Short: "A minimalist terminal chat with simulated replies",
		Long: `zenchat is a terminal chat client with a thread sidebar, a message view
and a settings panel. Replies come from a canned responder after a short,
randomized delay; nothing is sent over the network or kept after exit.`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(f)
			if err != nil {
				return err
			}
			return run(cfg)
		},
	}

	cmd.Flags().StringVar(&f.configPath, "config", "", "config file (default ~/.zenchat/config.toml)")
	cmd.Flags().StringVar(&f.mode, "mode", "", "display mode: light, dark or system")
	cmd.Flags().StringVar(&f.store, "store", "", "thread store: memory or sqlite")
	cmd.Flags().BoolVar(&f.debug, "debug", false, "enable debug logging")
	return cmd
}

// loadConfig reads the config file and applies flag overrides on top
func loadConfig(f flags) (config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return cfg, fmt.Errorf("error loading config: %w", err)
	}
	if f.mode != "" {
		cfg.Chat.Mode = f.mode
	}
	if f.store != "" {
		cfg.Chat.Store = f.store
	}
	if f.debug {
		cfg.Logging.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid settings: %w", err)
	}
	return cfg, nil
}

func run(cfg config.Config) error {
	logger, logFile, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	defer logFile.Close()

	store, err := storage.Open(cfg.Chat.Store)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer store.Close()

	mgr, err := session.New(store, session.Options{
		Responder: responder.NewCanned(nil),
		Delay:     session.UniformDelay(cfg.Chat.MinDelay(), cfg.Chat.MaxDelay()),
		Mode:      cfg.Chat.ModeValue(),
		Logger:    logger,
	})
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer mgr.Close()

	logger.Info().Str("store", cfg.Chat.Store).Str("mode", cfg.Chat.Mode).Msg("starting zenchat")

	model := ui.NewModel(mgr, ui.Options{Logger: logger})

	// Start the application
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logger.Error().Err(err).Msg("program exited with error")
		return err
	}
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
