package docstore

import (
	"context"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/unkn0wn-root/envdesk/internal/envfile"
	"github.com/unkn0wn-root/envdesk/internal/envfmt"
	"github.com/unkn0wn-root/envdesk/internal/errdef"
)

// IngestReport summarises opening several files at once.
type IngestReport struct {
	// Added holds the ids of newly opened documents in input order.
	Added []string
	// Duplicates holds paths that were already open.
	Duplicates []string
	Failed     map[string]error
	// Entries is the total number of entries parsed from added files.
	Entries int
}

// Summary is a one line description suitable for a status bar.
func (r IngestReport) Summary() string {
	var parts []string
	if n := len(r.Added); n > 0 {
		parts = append(parts, plural(n, "file")+" opened ("+plural(r.Entries, "entry")+")")
	}
	if n := len(r.Duplicates); n > 0 {
		parts = append(parts, plural(n, "file")+" already open")
	}
	if n := len(r.Failed); n > 0 {
		parts = append(parts, plural(n, "file")+" failed")
	}
	if len(parts) == 0 {
		return "nothing opened"
	}
	return strings.Join(parts, ", ")
}

// FailedPaths returns failed paths in sorted order.
func (r IngestReport) FailedPaths() []string {
	out := make([]string, 0, len(r.Failed))
	for p := range r.Failed {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

func plural(n int, word string) string {
	s := strconv.Itoa(n) + " " + word
	if n == 1 {
		return s
	}
	if strings.HasSuffix(word, "y") {
		return s[:len(s)-1] + "ies"
	}
	return s + "s"
}

// IngestText parses pasted or dropped text into entries.
func (s *Store) IngestText(raw string) []envfile.Entry {
	return envfile.Parse(raw)
}

// PasteText parses raw into the document. When the document only holds
// empty placeholder rows the parsed entries replace them, otherwise they are
// appended. It returns how many entries were added.
func (s *Store) PasteText(id, raw string) (int, error) {
	parsed := envfile.Parse(raw)
	if len(parsed) == 0 {
		return 0, nil
	}
	err := s.edit(id, func(d *Document) error {
		if onlyPlaceholders(d.Entries) {
			d.Entries = parsed
			return nil
		}
		d.Entries = append(d.Entries, parsed...)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(parsed), nil
}

func onlyPlaceholders(entries []envfile.Entry) bool {
	for _, e := range entries {
		if !e.IsPlaceholder() {
			return false
		}
	}
	return true
}

// IngestDroppedFiles opens each path as its own document. Paths already open
// are reported as duplicates and left alone; unreadable paths are reported
// as failures. The last added document ends up active.
func (s *Store) IngestDroppedFiles(ctx context.Context, paths []string) IngestReport {
	ctx, span := s.startSpan(ctx, "ingest", "")
	defer span.End()

	report := IngestReport{Failed: make(map[string]error)}
	seen := make(map[string]bool, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			abs = filepath.Clean(p)
		}
		if seen[abs] {
			continue
		}
		seen[abs] = true

		if _, open := s.FindByPath(abs); open {
			report.Duplicates = append(report.Duplicates, abs)
			continue
		}
		id, n, err := s.openFile(ctx, abs, "")
		if err != nil {
			report.Failed[abs] = err
			continue
		}
		report.Added = append(report.Added, id)
		report.Entries += n
	}
	span.SetAttributes(
		attribute.Int("envdesk.added", len(report.Added)),
		attribute.Int("envdesk.duplicates", len(report.Duplicates)),
		attribute.Int("envdesk.failed", len(report.Failed)),
	)
	s.log.Info("files ingested", "added", len(report.Added), "duplicates", len(report.Duplicates), "failed", len(report.Failed))
	return report
}

// Open opens a single file, or activates it when it is already open.
func (s *Store) Open(ctx context.Context, path string) (string, error) {
	report := s.IngestDroppedFiles(ctx, []string{path})
	switch {
	case len(report.Added) == 1:
		return report.Added[0], nil
	case len(report.Duplicates) == 1:
		id, _ := s.FindByPath(report.Duplicates[0])
		s.SetActive(id)
		return id, nil
	}
	for _, err := range report.Failed {
		return "", err
	}
	return "", errdef.New(errdef.CodeFilesystem, "could not open %s", path)
}

func (s *Store) openFile(ctx context.Context, path, displayName string) (string, int, error) {
	text, err := s.fs.ReadTextFile(ctx, path)
	if err != nil {
		return "", 0, err
	}
	entries := envfile.Parse(text)
	name, _ := s.fs.SplitPath(path)
	id := s.addDocument(path, name, entries, displayName, text)
	return id, len(entries), nil
}

// Import prompts for files to open and ingests the selection.
func (s *Store) Import(ctx context.Context) (IngestReport, error) {
	if s.dialogs == nil {
		return IngestReport{}, errdef.New(errdef.CodeUI, "no dialog available")
	}
	defaultPath := ""
	if d, ok := s.Active(); ok && d.Path != "" {
		_, defaultPath = s.fs.SplitPath(d.Path)
	}
	res, err := s.dialogs.PromptOpenLocation(ctx, OpenOptions{
		Title:         "Open Environment File",
		DefaultPath:   defaultPath,
		Filters:       envfmt.OpenFilters(),
		AllowMultiple: true,
	})
	if err != nil {
		return IngestReport{}, errdef.Wrap(errdef.CodeUI, err, "open prompt")
	}
	if res.Cancelled || len(res.Paths) == 0 {
		return IngestReport{}, errdef.ErrCancelled
	}
	return s.IngestDroppedFiles(ctx, res.Paths), nil
}

// NewDocument opens an unsaved document holding one empty variable.
func (s *Store) NewDocument(name string) string {
	if strings.TrimSpace(name) == "" {
		name = ".env"
	}
	return s.addDocument("", name, []envfile.Entry{envfile.NewVariable()}, "", "")
}

// Restore reopens the files preferences list as open and then activates the
// remembered current file. Records whose file is gone are marked closed and
// reported as failures.
func (s *Store) Restore(ctx context.Context) (report IngestReport) {
	ctx, span := s.startSpan(ctx, "restore", "")
	defer func() {
		span.SetAttributes(attribute.Int("envdesk.added", len(report.Added)), attribute.Int("envdesk.failed", len(report.Failed)))
		span.End()
	}()

	view, err := s.prefs.GetCurrentView()
	if err != nil {
		s.log.Warn("preferences unavailable", "op", "current view", "err", err)
	}

	report.Failed = make(map[string]error)
	for _, rec := range s.prefsLinked() {
		if !rec.IsOpen {
			continue
		}
		if _, open := s.FindByPath(rec.Filepath); open {
			report.Duplicates = append(report.Duplicates, rec.Filepath)
			continue
		}
		if !s.fs.FileExists(rec.Filepath) {
			path := rec.Filepath
			s.prefsCall("mark closed", func() error {
				_, err := s.prefs.SetOpen(path, false)
				return err
			})
			report.Failed[path] = errdef.New(errdef.CodeNotFound, "%s no longer exists", path)
			continue
		}
		id, n, err := s.openFile(ctx, rec.Filepath, rec.DisplayName)
		if err != nil {
			report.Failed[rec.Filepath] = err
			continue
		}
		report.Added = append(report.Added, id)
		report.Entries += n
	}

	if id, ok := s.FindByPath(view); ok {
		s.SetActive(id)
	}
	s.log.Info("session restored", "opened", len(report.Added), "missing", len(report.Failed))
	return report
}
