package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/loopstate/loopstate/internal/api"
	"github.com/loopstate/loopstate/internal/auth"
	"github.com/loopstate/loopstate/internal/config"
	"github.com/loopstate/loopstate/internal/logging"
	"github.com/loopstate/loopstate/internal/store"
	"github.com/loopstate/loopstate/internal/ui"
	"github.com/loopstate/loopstate/internal/ui/styles"
)

// Version information set via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	configPath string
	baseURL    string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "loopstate",
	Short: "LoopState - collaborate on unfinished music",
	Long: `LoopState is a terminal client for the LoopState collaboration
marketplace. Browse unfinished projects, filter by genre, tempo and the
roles creators are looking for, post your own work in progress, and
request to collaborate.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if baseURL != "" {
			cfg.Backend.BaseURL = baseURL
		}
		if logLevel != "" {
			cfg.Log.Level = logLevel
		}
		styles.SetTheme(cfg.UI.Theme)

		logger, err := logging.New(cfg.Log.Level, cfg.Log.Path)
		if err != nil {
			return fmt.Errorf("init logging: %w", err)
		}
		defer logger.Sync()

		st, err := store.Open()
		if err != nil {
			return fmt.Errorf("open local store: %w", err)
		}
		defer st.Close()

		client := api.New(cfg.Backend.BaseURL, time.Duration(cfg.Backend.Timeout), logger)

		provider := auth.NewEnvProvider(cfg.Identity)
		session := auth.NewSession(provider, client, st, logger)
		if err := session.Restore(); err != nil {
			logger.Warn("session restore failed", zap.Error(err))
		}
		if err := session.Bootstrap(cfg.Identity); err != nil {
			logger.Warn("login failed", zap.Error(err))
		}

		app := ui.NewApp(client, session, st)
		p := tea.NewProgram(app, tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("run ui: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "backend base URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
