package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

// AppName names the config directory and the environment prefix.
const AppName = "calagg"

type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Session SessionConfig `mapstructure:"session"`
	Browser BrowserConfig `mapstructure:"browser"`
	UI      UIConfig      `mapstructure:"ui"`
	Log     LogConfig     `mapstructure:"log"`
}

type APIConfig struct {
	BaseURL    string `mapstructure:"base_url"`
	EventsPath string `mapstructure:"events_path"`
	HealthPath string `mapstructure:"health_path"`
	UserAgent  string `mapstructure:"user_agent"`
}

type SessionConfig struct {
	// Token seeds the session at start; empty means no session.
	Token string `mapstructure:"token"`
}

type BrowserConfig struct {
	Open bool `mapstructure:"open"`
}

type UIConfig struct {
	StartTab string `mapstructure:"start_tab"`
}

type LogConfig struct {
	File string `mapstructure:"file"`
}

var defaultConfig = Config{
	API: APIConfig{
		BaseURL:    "http://localhost:8080",
		EventsPath: "/api/calendar/events",
		HealthPath: "/api/test/health",
		UserAgent:  "calagg/1.0",
	},
	Browser: BrowserConfig{
		Open: true,
	},
	UI: UIConfig{
		StartTab: "login",
	},
}

// Default returns a copy of the built-in configuration.
func Default() Config {
	return defaultConfig
}

// New builds a viper instance with defaults and CALAGG_* environment
// overrides, ready for flag binding before Load reads it.
func New() *viper.Viper {
	v := viper.New()
	v.SetConfigType("toml")
	v.SetConfigName("config")
	v.SetEnvPrefix(strings.ToUpper(AppName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// Load reads config.toml from configPath (or the XDG config dir), creating a
// commented default file on first run, and unmarshals the result.
func Load(v *viper.Viper, configPath string) (*Config, error) {
	if v == nil {
		v = New()
	}

	if configPath == "" {
		configDir, err := getDefaultConfigDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get config directory: %w", err)
		}
		configPath = configDir
	}

	if strings.HasSuffix(configPath, ".toml") {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(configPath)
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := createDefaultConfig(configPath); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		// A second miss is fine: defaults and environment still apply.
		_ = v.ReadInConfig()
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", defaultConfig.API.BaseURL)
	v.SetDefault("api.events_path", defaultConfig.API.EventsPath)
	v.SetDefault("api.health_path", defaultConfig.API.HealthPath)
	v.SetDefault("api.user_agent", defaultConfig.API.UserAgent)

	v.SetDefault("session.token", defaultConfig.Session.Token)
	v.SetDefault("browser.open", defaultConfig.Browser.Open)
	v.SetDefault("ui.start_tab", defaultConfig.UI.StartTab)
	v.SetDefault("log.file", defaultConfig.Log.File)
}

func createDefaultConfig(configPath string) error {
	if strings.HasSuffix(configPath, ".toml") {
		// An explicit file that does not exist is not ours to create.
		return nil
	}

	if err := os.MkdirAll(configPath, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configFile := filepath.Join(configPath, "config.toml")
	if _, err := os.Stat(configFile); err == nil {
		return nil
	}

	configContent := `# calagg configuration

[api]
base_url = "http://localhost:8080"
events_path = "/api/calendar/events"
health_path = "/api/test/health"

[browser]
open = true          # open the provider login page in the system browser

[ui]
start_tab = "login"  # login | calendar

[log]
file = ""            # interactive shell log file (default: XDG state dir)
`

	if err := os.WriteFile(configFile, []byte(configContent), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func getDefaultConfigDir() (string, error) {
	if xdg.ConfigHome == "" {
		return "", fmt.Errorf("XDG config home is not set")
	}
	return filepath.Join(xdg.ConfigHome, AppName), nil
}

func GetDefaultConfigDir() (string, error) {
	return getDefaultConfigDir()
}

// DefaultLogFile is where the interactive shell writes logs when log.file
// is unset.
func DefaultLogFile() (string, error) {
	return xdg.StateFile(filepath.Join(AppName, AppName+".log"))
}
