package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yijiazho/calendar/internal/backend"
	"github.com/yijiazho/calendar/internal/config"
	"github.com/yijiazho/calendar/internal/logger"
	"github.com/yijiazho/calendar/internal/session"
)

var (
	verbose  bool
	cfgFile  string
	cfg      *config.Config
	settings = config.New()

	// Version information
	version    string
	commitHash string
	buildTime  string
)

var rootCmd = &cobra.Command{
	Use:   "calagg",
	Short: "Terminal client for the calendar aggregator backend",
	Long: `calagg is a thin client for a calendar aggregator backend.

It starts the Google or Outlook OAuth login the backend hands out, and
shows the aggregated calendar events for the current session as JSON.

Run 'calagg ui' for the interactive two-tab shell, or use the one-shot
commands from scripts.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, commit, buildTimeStr string) {
	version = v
	commitHash = commit
	buildTime = buildTimeStr

	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version, commitHash, buildTime)
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file or directory (default is $XDG_CONFIG_HOME/calagg/config.toml)")
	rootCmd.PersistentFlags().String("base-url", "", "backend base URL (default: http://localhost:8080)")
	rootCmd.PersistentFlags().String("token", "", "bearer token for the session (also CALAGG_TOKEN)")

	_ = settings.BindPFlag("api.base_url", rootCmd.PersistentFlags().Lookup("base-url"))
	_ = settings.BindPFlag("session.token", rootCmd.PersistentFlags().Lookup("token"))
	_ = settings.BindEnv("session.token", "CALAGG_SESSION_TOKEN", "CALAGG_TOKEN")

	rootCmd.AddCommand(uiCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(statusCmd)
}

func initConfig() {
	// Initialize logger with verbose flag
	logger.Init(verbose)

	var err error
	cfg, err = config.Load(settings, cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	logger.Debug("configuration loaded",
		"base_url", cfg.API.BaseURL,
		"config", settings.ConfigFileUsed(),
		"token", logger.TokenHint(cfg.Session.Token))
}

func newBackendClient() (*backend.Client, error) {
	client, err := backend.NewClient(backend.Options{
		BaseURL:    cfg.API.BaseURL,
		EventsPath: cfg.API.EventsPath,
		HealthPath: cfg.API.HealthPath,
		UserAgent:  cfg.API.UserAgent,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize backend client: %w", err)
	}
	return client, nil
}

// newSession starts the process session, seeded from --token or the config.
func newSession() *session.Session {
	sess := session.New()
	if cfg.Session.Token != "" {
		sess.SetToken(cfg.Session.Token)
	}
	return sess
}
