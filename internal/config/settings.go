package config

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/unkn0wn-root/envdesk/internal/envfmt"
	"github.com/unkn0wn-root/envdesk/internal/errdef"
	"github.com/unkn0wn-root/envdesk/internal/logging"
	"github.com/unkn0wn-root/envdesk/internal/prefs"
	"github.com/unkn0wn-root/envdesk/internal/settings"
)

// Duration reads and writes as a Go duration string such as "2s".
type Duration time.Duration

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(b)))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

type PreferencesSettings struct {
	Backend string `toml:"backend" yaml:"backend"`
	// Path overrides the default file under StateDir.
	Path string `toml:"path,omitempty" yaml:"path,omitempty"`
}

type WatchSettings struct {
	Enabled       bool     `toml:"enabled" yaml:"enabled"`
	Interval      Duration `toml:"interval" yaml:"interval"`
	HashUnchanged bool     `toml:"hash_unchanged" yaml:"hash_unchanged"`
	Notify        bool     `toml:"notify" yaml:"notify"`
}

type EditorSettings struct {
	MaskValues    bool   `toml:"mask_values" yaml:"mask_values"`
	DefaultExport string `toml:"default_export" yaml:"default_export"`
}

type LogSettings struct {
	Level string `toml:"level" yaml:"level"`
}

type UISettings struct {
	Theme string `toml:"theme,omitempty" yaml:"theme,omitempty"`
}

type Settings struct {
	Preferences PreferencesSettings `toml:"preferences" yaml:"preferences"`
	Watch       WatchSettings       `toml:"watch" yaml:"watch"`
	Editor      EditorSettings      `toml:"editor" yaml:"editor"`
	Log         LogSettings         `toml:"log" yaml:"log"`
	UI          UISettings          `toml:"ui" yaml:"ui"`
	// Bindings maps action ids to key sequences, replacing the defaults for
	// the listed actions.
	Bindings map[string][]string `toml:"bindings,omitempty" yaml:"bindings,omitempty"`
}

func DefaultSettings() Settings {
	return Settings{
		Preferences: PreferencesSettings{Backend: prefs.BackendJSON},
		Watch: WatchSettings{
			Enabled:  true,
			Interval: Duration(2 * time.Second),
			Notify:   true,
		},
		Editor: EditorSettings{DefaultExport: string(envfmt.FormatJSON)},
		Log:    LogSettings{Level: "info"},
	}
}

// PrefsPath resolves the preferences location for these settings.
func (s Settings) PrefsPath() string {
	if p := strings.TrimSpace(s.Preferences.Path); p != "" {
		return p
	}
	return PrefsPath(s.Preferences.Backend)
}

// Validate checks enumerated fields.
func (s Settings) Validate() error {
	switch s.Preferences.Backend {
	case prefs.BackendJSON, prefs.BackendSQLite:
	default:
		return errdef.New(errdef.CodeConfig, "preferences.backend must be %q or %q, got %q", prefs.BackendJSON, prefs.BackendSQLite, s.Preferences.Backend)
	}
	if s.Watch.Interval <= 0 {
		return errdef.New(errdef.CodeConfig, "watch.interval must be positive")
	}
	if _, err := envfmt.ParseFormat(s.Editor.DefaultExport); err != nil {
		return errdef.Wrap(errdef.CodeConfig, err, "editor.default_export")
	}
	if _, err := logging.ParseLevel(s.Log.Level); err != nil {
		return err
	}
	return nil
}

// ApplyOverrides sets fields from "section.key" pairs. Unknown keys are an
// error.
func (s *Settings) ApplyOverrides(pairs map[string]string) error {
	if len(pairs) == 0 {
		return nil
	}
	if s.Bindings == nil {
		s.Bindings = make(map[string][]string)
	}
	interval := time.Duration(s.Watch.Interval)
	a := settings.New(
		settings.StringHandler("preferences.backend", &s.Preferences.Backend),
		settings.StringHandler("preferences.path", &s.Preferences.Path),
		settings.BoolHandler("watch.enabled", &s.Watch.Enabled),
		settings.DurationHandler("watch.interval", &interval),
		settings.BoolHandler("watch.hash_unchanged", &s.Watch.HashUnchanged),
		settings.BoolHandler("watch.notify", &s.Watch.Notify),
		settings.BoolHandler("editor.mask_values", &s.Editor.MaskValues),
		settings.StringHandler("editor.default_export", &s.Editor.DefaultExport),
		settings.StringHandler("log.level", &s.Log.Level),
		settings.StringHandler("ui.theme", &s.UI.Theme),
		settings.ListHandler("bindings.", s.Bindings),
	)
	left, err := a.ApplyAll(pairs)
	if err != nil {
		return err
	}
	s.Watch.Interval = Duration(interval)
	for key := range left {
		return errdef.New(errdef.CodeConfig, "unknown setting %q", key)
	}
	return nil
}

type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// SettingsHandle records where settings came from so they can be written
// back in the same place and format.
type SettingsHandle struct {
	Path   string
	Format Format
	// Exists is false when defaults were used because no file was found.
	Exists bool
}

var settingsNames = []struct {
	name   string
	format Format
}{
	{"settings.toml", FormatTOML},
	{"settings.yaml", FormatYAML},
	{"settings.yml", FormatYAML},
}

// LoadSettings reads the first settings file found in Dir. Without one the
// defaults are returned along with a handle for settings.toml. A broken file
// yields the defaults and an error describing the problem.
func LoadSettings() (Settings, SettingsHandle, error) {
	return LoadSettingsFrom(Dir())
}

func LoadSettingsFrom(dir string) (Settings, SettingsHandle, error) {
	for _, cand := range settingsNames {
		path := filepath.Join(dir, cand.name)
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		handle := SettingsHandle{Path: path, Format: cand.format, Exists: true}
		if err != nil {
			return DefaultSettings(), handle, errdef.Wrap(errdef.CodeConfig, err, "read %s", path)
		}
		s, err := decodeSettings(data, cand.format)
		if err != nil {
			return DefaultSettings(), handle, errdef.Wrap(errdef.CodeConfig, err, "parse %s", path)
		}
		if err := s.Validate(); err != nil {
			return DefaultSettings(), handle, errdef.Wrap(errdef.CodeConfig, err, "invalid %s", path)
		}
		return s, handle, nil
	}
	return DefaultSettings(), SettingsHandle{Path: filepath.Join(dir, settingsNames[0].name), Format: FormatTOML}, nil
}

func decodeSettings(data []byte, format Format) (Settings, error) {
	s := DefaultSettings()
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &s)
	default:
		err = toml.Unmarshal(data, &s)
	}
	return s, err
}

// SaveSettings writes s to the handle's path, creating the directory.
func SaveSettings(handle SettingsHandle, s Settings) error {
	if handle.Path == "" {
		return errdef.New(errdef.CodeConfig, "settings path is empty")
	}
	var (
		data []byte
		err  error
	)
	switch handle.Format {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err = enc.Encode(s); err == nil {
			err = enc.Close()
		}
		data = buf.Bytes()
	default:
		data, err = toml.Marshal(s)
	}
	if err != nil {
		return errdef.Wrap(errdef.CodeConfig, err, "encode settings")
	}
	if err := os.MkdirAll(filepath.Dir(handle.Path), 0o755); err != nil {
		return errdef.Wrap(errdef.CodeConfig, err, "create settings dir")
	}
	tmp := handle.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errdef.Wrap(errdef.CodeConfig, err, "write settings")
	}
	if err := os.Rename(tmp, handle.Path); err != nil {
		_ = os.Remove(tmp)
		return errdef.Wrap(errdef.CodeConfig, err, "replace settings")
	}
	return nil
}
