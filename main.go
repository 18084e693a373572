package main

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/subosito/gotenv"

	"github.com/yijiazho/calendar/cmd"
	"github.com/yijiazho/calendar/internal/config"
	"github.com/yijiazho/calendar/internal/logger"
)

// Build-time variables injected by ldflags
var (
	Version    = "dev"
	CommitHash = "unknown"
	BuildTime  = "unknown"
)

func main() {
	// Load .env if present so CALAGG_* overrides can live next to the project.
	// Order: working directory .env > XDG config dir .env (first one found is loaded)
	tryPaths := []string{".env", filepath.Join(xdg.ConfigHome, config.AppName, ".env")}
	for _, p := range tryPaths {
		if _, err := os.Stat(p); err == nil {
			if loadErr := gotenv.Load(p); loadErr == nil {
				break
			}
		}
	}

	cmd.SetVersionInfo(Version, CommitHash, BuildTime)

	if err := cmd.Execute(); err != nil {
		logger.Error("Command execution failed", "error", err)
		os.Exit(1)
	}
}
