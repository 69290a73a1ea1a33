package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/MakeNowJust/heredoc"

	"github.com/unkn0wn-root/envdesk/internal/config"
	"github.com/unkn0wn-root/envdesk/internal/prefs"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("ENVDESK_CONFIG_DIR", filepath.Join(dir, "config"))
	t.Setenv("ENVDESK_STATE_DIR", filepath.Join(dir, "state"))
	return dir
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code := execute(t.Context(), args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestFmtPrintsCanonicalForm(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, dir, ".env", "\n  A = 1 \n#  note\nB='two words'\n#PORT=80\n\n")

	code, out, stderr := run(t, "fmt", path)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr)
	}
	want := heredoc.Doc(`
		A=1
		# note
		B="two words"
		#PORT=80
	`)
	if out != want {
		t.Fatalf("output = %q, want %q", out, want)
	}
}

func TestFmtWriteRewritesFile(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, dir, ".env", "A = 1\n\n\nB=2\n")

	if code, _, stderr := run(t, "fmt", "--write", path); code != 0 {
		t.Fatalf("exit %d: %s", code, stderr)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got := string(data); got != "A=1\n\n\nB=2" {
		t.Fatalf("file = %q", got)
	}
}

func TestFmtMissingFile(t *testing.T) {
	dir := isolate(t)
	code, _, stderr := run(t, "fmt", filepath.Join(dir, "nope.env"))
	if code != 1 {
		t.Fatalf("exit = %d, want 1", code)
	}
	if !strings.HasPrefix(stderr, "error:") {
		t.Fatalf("stderr = %q", stderr)
	}
}

func TestExportShell(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, dir, ".env", "A=1\nB=two words\n#C=3\n")

	code, out, stderr := run(t, "export", "--format", "shell", path)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr)
	}
	want := heredoc.Doc(`
		export A=1
		export B="two words"
	`)
	if out != want {
		t.Fatalf("output = %q, want %q", out, want)
	}
}

func TestExportDefaultsToSettingsFormat(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, dir, ".env", "A=1\n")

	code, out, stderr := run(t, "export", path)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr)
	}
	if !strings.Contains(out, `"A": "1"`) {
		t.Fatalf("expected json object, got %q", out)
	}

	code, out, stderr = run(t, "--set", "editor.default_export=shell", "export", path)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr)
	}
	if out != "export A=1\n" {
		t.Fatalf("output = %q", out)
	}
}

func TestExportToFile(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, dir, ".env", "A=1\n#B=2\n")
	dst := filepath.Join(dir, "out.json")

	code, out, stderr := run(t, "export", "-f", "json", "--include-disabled", "-o", dst, path)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr)
	}
	if out != "" {
		t.Fatalf("stdout = %q, want empty", out)
	}
	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), `"B": "2"`) {
		t.Fatalf("disabled variable missing: %s", data)
	}
}

func TestExportToFileThroughSaveAs(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, dir, ".env", "A=1\n#B=2\n")
	dst := filepath.Join(dir, "vars.sh")

	if code, _, stderr := run(t, "export", "-f", "shell", "-o", dst, path); code != 0 {
		t.Fatalf("exit %d: %s", code, stderr)
	}
	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got := string(data); got != "export A=1" {
		t.Fatalf("file = %q", got)
	}
}

func TestExportUnknownFormat(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, dir, ".env", "A=1\n")
	if code, _, _ := run(t, "export", "-f", "xml", path); code != 1 {
		t.Fatalf("exit = %d, want 1", code)
	}
}

func TestDupes(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, dir, ".env", "A=1\nB=2\na=3\n#A=4\n")

	code, out, _ := run(t, "dupes", path)
	if code != 1 {
		t.Fatalf("exit = %d, want 1", code)
	}
	if out != "A\t2 entries (1, 3)\n" {
		t.Fatalf("output = %q", out)
	}

	clean := writeFile(t, dir, "clean.env", "A=1\n#A=2\n")
	code, out, _ = run(t, "dupes", clean)
	if code != 0 || out != "no duplicate keys\n" {
		t.Fatalf("exit %d output %q", code, out)
	}
}

func TestLinkedListForgetClear(t *testing.T) {
	dir := isolate(t)
	a := writeFile(t, dir, "a.env", "A=1\n")
	b := writeFile(t, dir, "b.env", "B=1\n")

	p, err := prefs.Open(prefs.BackendJSON, config.PrefsPath(prefs.BackendJSON))
	if err != nil {
		t.Fatalf("open prefs: %v", err)
	}
	for _, path := range []string{a, b} {
		if err := p.UpsertLinked(prefs.RecordFor(path, "", true)); err != nil {
			t.Fatalf("UpsertLinked: %v", err)
		}
	}
	if err := p.SetCurrentView(b); err != nil {
		t.Fatalf("SetCurrentView: %v", err)
	}
	p.Close()

	code, out, stderr := run(t, "linked", "list")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 linked files, got %q", out)
	}
	if !strings.HasPrefix(lines[1], "* b.env\topen\t") {
		t.Fatalf("current file not marked: %q", lines[1])
	}

	if code, _, stderr := run(t, "linked", "forget", a); code != 0 {
		t.Fatalf("forget exit %d: %s", code, stderr)
	}
	if code, _, _ := run(t, "linked", "forget", a); code != 1 {
		t.Fatalf("forgetting an unlinked file should fail, got %d", code)
	}
	_, out, _ = run(t, "linked", "list")
	if strings.Contains(out, "a.env") {
		t.Fatalf("a.env still linked: %q", out)
	}

	if code, _, stderr := run(t, "linked", "clear"); code != 0 {
		t.Fatalf("clear exit %d: %s", code, stderr)
	}
	_, out, _ = run(t, "linked", "list")
	if out != "" {
		t.Fatalf("expected no linked files, got %q", out)
	}
}

func TestLinkedSQLiteBackend(t *testing.T) {
	isolate(t)
	code, out, stderr := run(t, "--prefs-backend", "sqlite", "linked", "list")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr)
	}
	if out != "" {
		t.Fatalf("expected empty listing, got %q", out)
	}
	if _, err := os.Stat(config.PrefsPath(prefs.BackendSQLite)); err != nil {
		t.Fatalf("sqlite database not created: %v", err)
	}
}

func TestCorruptPreferencesFallBackToMemory(t *testing.T) {
	isolate(t)
	path := config.PrefsPath(prefs.BackendSQLite)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(strings.Repeat("not a database ", 200)), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	var errOut bytes.Buffer
	a := newApp(&bytes.Buffer{}, &errOut, os.Getenv)
	s := config.DefaultSettings()
	s.Preferences.Backend = prefs.BackendSQLite
	p := a.openPrefs(s, nil)
	defer p.Close()
	if _, ok := p.(*prefs.Memory); !ok {
		t.Fatalf("store = %T, want *prefs.Memory", p)
	}
	if !strings.Contains(errOut.String(), "preferences kept in memory") {
		t.Fatalf("fallback not reported: %q", errOut.String())
	}
	if err := p.UpsertLinked(prefs.RecordFor("/tmp/a.env", "", true)); err != nil {
		t.Fatalf("UpsertLinked on fallback: %v", err)
	}

	code, out, stderr := run(t, "--prefs-backend", "sqlite", "linked", "list")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr)
	}
	if out != "" || !strings.Contains(stderr, "preferences kept in memory") {
		t.Fatalf("stdout %q stderr %q", out, stderr)
	}
}

func TestUnknownSettingOverride(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, dir, ".env", "A=1\n")
	code, _, stderr := run(t, "--set", "nope.key=1", "export", path)
	if code != 1 || !strings.Contains(stderr, "nope.key") {
		t.Fatalf("exit %d stderr %q", code, stderr)
	}
}

func TestInitWritesSettings(t *testing.T) {
	isolate(t)
	code, out, stderr := run(t, "--set", "editor.mask_values=true", "init")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr)
	}
	want := filepath.Join(config.Dir(), "settings.toml")
	if out != "wrote "+want+"\n" {
		t.Fatalf("output = %q", out)
	}

	s, handle, err := config.LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	if !handle.Exists || !s.Editor.MaskValues {
		t.Fatalf("settings not persisted: %+v", s.Editor)
	}

	if code, _, _ := run(t, "init"); code != 1 {
		t.Fatalf("second init should refuse, got %d", code)
	}
	if code, _, stderr := run(t, "init", "--force"); code != 0 {
		t.Fatalf("forced init exit %d: %s", code, stderr)
	}
}

func TestVersion(t *testing.T) {
	isolate(t)
	code, out, _ := run(t, "version")
	if code != 0 {
		t.Fatalf("exit = %d", code)
	}
	if !strings.HasPrefix(out, "envdesk ") || !strings.Contains(out, "commit:") {
		t.Fatalf("output = %q", out)
	}
}
