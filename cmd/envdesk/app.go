package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/unkn0wn-root/envdesk/internal/config"
	"github.com/unkn0wn-root/envdesk/internal/logging"
	"github.com/unkn0wn-root/envdesk/internal/prefs"
	"github.com/unkn0wn-root/envdesk/internal/settings"
)

type globalOptions struct {
	logLevel     string
	prefsBackend string
	sets         []string
}

// app carries what every command needs: output streams, global flags and
// the process environment.
type app struct {
	out    io.Writer
	errOut io.Writer
	getenv func(string) string
	opts   globalOptions
}

func newApp(out, errOut io.Writer, getenv func(string) string) *app {
	if getenv == nil {
		getenv = os.Getenv
	}
	return &app{out: out, errOut: errOut, getenv: getenv}
}

// loadSettings reads the settings file and layers --set pairs and the
// dedicated flags over it. A broken settings file is reported and defaults
// are used; bad overrides are errors.
func (a *app) loadSettings() (config.Settings, config.SettingsHandle, error) {
	s, handle, err := config.LoadSettings()
	if err != nil {
		fmt.Fprintf(a.errOut, "warning: %v (using defaults)\n", err)
	}
	setPairs, err := settings.ParsePairs(a.opts.sets)
	if err != nil {
		return s, handle, err
	}
	flagPairs := make(map[string]string)
	if a.opts.logLevel != "" {
		flagPairs["log.level"] = a.opts.logLevel
	}
	if a.opts.prefsBackend != "" {
		flagPairs["preferences.backend"] = a.opts.prefsBackend
	}
	if err := s.ApplyOverrides(settings.Merge(setPairs, flagPairs)); err != nil {
		return s, handle, err
	}
	if err := s.Validate(); err != nil {
		return s, handle, err
	}
	return s, handle, nil
}

// newLogger writes to the state log file and, when console is set, to it.
func (a *app) newLogger(s config.Settings, console io.Writer) (*logging.Logger, error) {
	level, err := logging.ParseLevel(s.Log.Level)
	if err != nil {
		return nil, err
	}
	return logging.New(logging.Options{
		Level:    level,
		Console:  console,
		FilePath: config.LogPath(),
	})
}

// openPrefs opens the configured preferences store. When it cannot be
// opened the failure is reported and an in-memory store is used, so
// linked files are forgotten on exit but editing goes on.
func (a *app) openPrefs(s config.Settings, log *slog.Logger) prefs.Store {
	path := s.PrefsPath()
	p, err := prefs.Open(s.Preferences.Backend, path)
	if err != nil {
		if log != nil {
			log.Warn("preferences unavailable, keeping them in memory", "backend", s.Preferences.Backend, "path", path, "err", err)
		} else {
			fmt.Fprintf(a.errOut, "warning: %v (preferences kept in memory)\n", err)
		}
		return prefs.NewMemory()
	}
	if log != nil {
		log.Debug("preferences opened", "backend", s.Preferences.Backend, "path", path)
	}
	return p
}
