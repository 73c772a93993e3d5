package cmd

import (
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"cogniflow/internal/backend"
	"cogniflow/internal/config"
	"cogniflow/internal/tui"
	"cogniflow/internal/workflow"
)

var (
	cfgFile    string
	backendURL string
	logLevel   string
	logger     *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "cogniflow",
	Short: "Terminal client for the CognitiveFlow AI workflow backend",
	Long: `CogniFlow watches the host's active window context, dispatches free-text
instructions to an AI backend in one of several modes, and records each
dispatched instruction as a replayable workflow.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml or ~/.config/cogniflow/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&backendURL, "backend", "", "backend base URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")

	logger = slog.New(slog.NewJSONHandler(os.Stderr, nil))
}

func initConfig() {
	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		level = slog.LevelInfo
	}
	logger = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	var (
		cfg *config.Config
		err error
	)
	if cfgFile != "" {
		cfg, err = config.Load(cfgFile)
	} else {
		cfg, err = config.LoadFromDefaultPath()
	}
	if err != nil {
		logger.Error("failed to load config, using defaults", "error", err)
		cfg = config.DefaultConfig()
	}

	if backendURL != "" {
		cfg.BackendURL = backendURL
	}
	config.SetGlobal(cfg)
}

// newSession wires a backend client, store and session from the global
// config. Shared by the TUI and the headless subcommands.
func newSession() (*workflow.Session, *backend.Client) {
	cfg := config.Global()
	client := backend.New(cfg.BackendURL, time.Duration(cfg.RequestTimeout))
	store := workflow.NewStore(client)
	session := workflow.NewSession(client, store)
	session.SetMode(workflow.Mode(cfg.DefaultMode))
	return session, client
}

func runTUI() error {
	cfg := config.Global()
	session, client := newSession()

	poller := workflow.NewPoller(client, session, time.Duration(cfg.PollInterval))
	poller.Start()
	defer poller.Stop()

	p := tea.NewProgram(tui.NewModel(session, poller), tea.WithAltScreen())

	// Hot-reload the config file so theme changes apply without restart.
	watchPath := cfgFile
	if watchPath == "" {
		watchPath = config.DefaultPath()
	}
	if watchPath != "" {
		stop, err := config.Watch(watchPath, func(cfg *config.Config) {
			config.SetGlobal(cfg)
			p.Send(tui.ConfigReloadedMsg{})
		})
		if err == nil {
			defer stop()
		}
	}

	_, err := p.Run()
	return err
}
