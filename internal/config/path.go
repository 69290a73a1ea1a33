package config

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/adrg/xdg"

	"github.com/unkn0wn-root/envdesk/internal/prefs"
)

const appName = "envdesk"

func Dir() string {
	if override := os.Getenv("ENVDESK_CONFIG_DIR"); override != "" {
		return override
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ".envdesk"
	}

	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", appName)
	case "windows":
		return filepath.Join(home, "AppData", "Roaming", appName)
	default:
		return filepath.Join(home, ".config", appName)
	}
}

// StateDir holds preferences and logs.
func StateDir() string {
	if override := os.Getenv("ENVDESK_STATE_DIR"); override != "" {
		return override
	}
	return filepath.Join(xdg.StateHome, appName)
}

// PrefsPath returns the default preferences location for backend.
func PrefsPath(backend string) string {
	if backend == prefs.BackendSQLite {
		return filepath.Join(StateDir(), "prefs.db")
	}
	return filepath.Join(StateDir(), prefs.FileName)
}

func LogPath() string {
	return filepath.Join(StateDir(), appName+".log")
}

const themeDirName = "themes"

// ThemeDir returns the folder where user themes are stored.
func ThemeDir() string {
	if override := os.Getenv("ENVDESK_THEMES_DIR"); override != "" {
		return override
	}
	return filepath.Join(Dir(), themeDirName)
}
