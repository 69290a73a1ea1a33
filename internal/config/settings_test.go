package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/MakeNowJust/heredoc"

	"github.com/unkn0wn-root/envdesk/internal/errdef"
)

func TestLoadSettingsDefaultsWhenMissing(t *testing.T) {
	dir := t.TempDir()
	s, handle, err := LoadSettingsFrom(dir)
	if err != nil {
		t.Fatalf("LoadSettingsFrom: %v", err)
	}
	if handle.Exists || handle.Format != FormatTOML || handle.Path != filepath.Join(dir, "settings.toml") {
		t.Fatalf("unexpected handle %+v", handle)
	}
	if s.Preferences.Backend != "json" || !s.Watch.Enabled || time.Duration(s.Watch.Interval) != 2*time.Second {
		t.Fatalf("unexpected defaults %+v", s)
	}
	if err := s.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestLoadSettingsTOML(t *testing.T) {
	dir := t.TempDir()
	content := heredoc.Doc(`
		[preferences]
		backend = "sqlite"

		[watch]
		interval = "750ms"
		hash_unchanged = true

		[editor]
		mask_values = true
		default_export = "shell"

		[bindings]
		save_file = ["ctrl+s", "g w"]
	`)
	if err := os.WriteFile(filepath.Join(dir, "settings.toml"), []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	s, handle, err := LoadSettingsFrom(dir)
	if err != nil {
		t.Fatalf("LoadSettingsFrom: %v", err)
	}
	if !handle.Exists || handle.Format != FormatTOML {
		t.Fatalf("unexpected handle %+v", handle)
	}
	if s.Preferences.Backend != "sqlite" || time.Duration(s.Watch.Interval) != 750*time.Millisecond || !s.Watch.HashUnchanged {
		t.Fatalf("unexpected settings %+v", s)
	}
	if !s.Watch.Enabled || s.Log.Level != "info" {
		t.Fatalf("unset fields should keep defaults: %+v", s)
	}
	if !s.Editor.MaskValues || s.Editor.DefaultExport != "shell" {
		t.Fatalf("unexpected editor settings %+v", s.Editor)
	}
	if got := s.Bindings["save_file"]; len(got) != 2 || got[1] != "g w" {
		t.Fatalf("bindings = %v", s.Bindings)
	}
}

func TestLoadSettingsYAML(t *testing.T) {
	dir := t.TempDir()
	content := heredoc.Doc(`
		preferences:
		  backend: json
		  path: /tmp/prefs.json
		watch:
		  enabled: false
		  interval: 5s
		log:
		  level: debug
	`)
	if err := os.WriteFile(filepath.Join(dir, "settings.yaml"), []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	s, handle, err := LoadSettingsFrom(dir)
	if err != nil {
		t.Fatalf("LoadSettingsFrom: %v", err)
	}
	if handle.Format != FormatYAML {
		t.Fatalf("unexpected handle %+v", handle)
	}
	if s.Watch.Enabled || time.Duration(s.Watch.Interval) != 5*time.Second || s.Log.Level != "debug" {
		t.Fatalf("unexpected settings %+v", s)
	}
	if s.PrefsPath() != "/tmp/prefs.json" {
		t.Fatalf("PrefsPath = %q", s.PrefsPath())
	}
}

func TestLoadSettingsInvalidFallsBack(t *testing.T) {
	cases := map[string]string{
		"syntax":  "[preferences\nbackend = ",
		"backend": "[preferences]\nbackend = \"redis\"\n",
		"export":  "[editor]\ndefault_export = \"xml\"\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			if err := os.WriteFile(filepath.Join(dir, "settings.toml"), []byte(content), 0o644); err != nil {
				t.Fatalf("write: %v", err)
			}
			s, handle, err := LoadSettingsFrom(dir)
			if errdef.CodeOf(err) != errdef.CodeConfig {
				t.Fatalf("expected config error, got %v", err)
			}
			if !handle.Exists || s.Preferences.Backend != "json" {
				t.Fatalf("expected defaults with the broken file's handle, got %+v %+v", s, handle)
			}
		})
	}
}

func TestSaveSettingsRoundTrip(t *testing.T) {
	for _, format := range []Format{FormatTOML, FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			dir := t.TempDir()
			name := "settings.toml"
			if format == FormatYAML {
				name = "settings.yaml"
			}
			handle := SettingsHandle{Path: filepath.Join(dir, "nested", name), Format: format}

			s := DefaultSettings()
			s.Editor.MaskValues = true
			s.Watch.Interval = Duration(3 * time.Second)
			s.Bindings = map[string][]string{"quit_app": {"ctrl+q"}}
			if err := SaveSettings(handle, s); err != nil {
				t.Fatalf("SaveSettings: %v", err)
			}
			data, _ := os.ReadFile(handle.Path)
			if !strings.Contains(string(data), "3s") {
				t.Fatalf("interval should be written as a duration string:\n%s", data)
			}

			got, _, err := LoadSettingsFrom(filepath.Join(dir, "nested"))
			if err != nil {
				t.Fatalf("LoadSettingsFrom: %v", err)
			}
			if !got.Editor.MaskValues || time.Duration(got.Watch.Interval) != 3*time.Second || got.Bindings["quit_app"][0] != "ctrl+q" {
				t.Fatalf("round trip lost values: %+v", got)
			}
		})
	}
	if err := SaveSettings(SettingsHandle{}, DefaultSettings()); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestApplyOverrides(t *testing.T) {
	s := DefaultSettings()
	err := s.ApplyOverrides(map[string]string{
		"preferences.backend": "sqlite",
		"watch.interval":      "1m",
		"editor.mask_values":  "yes",
	})
	if err == nil {
		t.Fatalf("expected error for non boolean value")
	}

	s = DefaultSettings()
	err = s.ApplyOverrides(map[string]string{
		"preferences.backend": "sqlite",
		"watch.interval":      "1m",
		"editor.mask_values":  "true",
		"bindings.quit_app":   "ctrl+q,q",
	})
	if err != nil {
		t.Fatalf("ApplyOverrides: %v", err)
	}
	if s.Preferences.Backend != "sqlite" || time.Duration(s.Watch.Interval) != time.Minute || !s.Editor.MaskValues {
		t.Fatalf("unexpected settings %+v", s)
	}
	if got := s.Bindings["quit_app"]; len(got) != 2 || got[1] != "q" {
		t.Fatalf("bindings = %v", s.Bindings)
	}
	if err := s.ApplyOverrides(map[string]string{"editor.colour": "red"}); errdef.CodeOf(err) != errdef.CodeConfig {
		t.Fatalf("expected config error for unknown key, got %v", err)
	}
}

func TestPaths(t *testing.T) {
	t.Setenv("ENVDESK_CONFIG_DIR", "/cfg")
	t.Setenv("ENVDESK_STATE_DIR", "/state")
	t.Setenv("ENVDESK_THEMES_DIR", "")

	if Dir() != "/cfg" || StateDir() != "/state" {
		t.Fatalf("overrides ignored: %q %q", Dir(), StateDir())
	}
	if got := PrefsPath("json"); got != filepath.Join("/state", "data.temp.json") {
		t.Fatalf("PrefsPath(json) = %q", got)
	}
	if got := PrefsPath("sqlite"); got != filepath.Join("/state", "prefs.db") {
		t.Fatalf("PrefsPath(sqlite) = %q", got)
	}
	if got := LogPath(); got != filepath.Join("/state", "envdesk.log") {
		t.Fatalf("LogPath = %q", got)
	}
	if got := ThemeDir(); got != filepath.Join("/cfg", "themes") {
		t.Fatalf("ThemeDir = %q", got)
	}
	if got := DefaultSettings().PrefsPath(); got != filepath.Join("/state", "data.temp.json") {
		t.Fatalf("Settings.PrefsPath = %q", got)
	}
}
