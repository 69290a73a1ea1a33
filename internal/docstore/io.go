package docstore

import (
	"context"
	"path/filepath"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/unkn0wn-root/envdesk/internal/envfile"
	"github.com/unkn0wn-root/envdesk/internal/envfmt"
	"github.com/unkn0wn-root/envdesk/internal/errdef"
	"github.com/unkn0wn-root/envdesk/internal/prefs"
)

func (s *Store) startSpan(ctx context.Context, name, docID string) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, "docstore."+name, trace.WithAttributes(attribute.String("envdesk.document.id", docID)))
}

// endSpan records err unless it is a cancellation.
func endSpan(span trace.Span, err error) {
	if err != nil && !errdef.Cancelled(err) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	if errdef.Cancelled(err) {
		span.SetAttributes(attribute.Bool("envdesk.cancelled", true))
	}
	span.End()
}

// Save writes the document to its path in env format and clears the dirty
// flag. Documents without a path fail with errdef.CodeNoPath.
func (s *Store) Save(ctx context.Context, id string) (err error) {
	ctx, span := s.startSpan(ctx, "save", id)
	defer func() { endSpan(span, err) }()

	doc, ok := s.Document(id)
	if !ok {
		return notFound(id)
	}
	if doc.Path == "" {
		return errdef.New(errdef.CodeNoPath, "%s has no file yet, use save as", doc.Title())
	}
	span.SetAttributes(attribute.String("envdesk.path", doc.Path), attribute.Int("envdesk.entries", len(doc.Entries)))

	text := envfmt.Env(doc.Entries)
	if err := s.fs.WriteTextFile(ctx, doc.Path, text); err != nil {
		s.log.Error("save failed", "path", doc.Path, "err", err)
		return err
	}

	s.commitWrite(id, doc.Path, doc.Entries, text)
	s.log.Info("document saved", "path", doc.Path)
	return nil
}

// commitWrite records a successful write of written to path. Edits made
// while the write was in flight keep the document dirty.
func (s *Store) commitWrite(id, path string, written []envfile.Entry, text string) {
	s.mu.Lock()
	d := s.findLocked(id)
	if d == nil {
		s.mu.Unlock()
		return
	}
	d.LastKnownDiskContent = text
	d.Dirty = !envfile.Equivalent(d.Entries, written)
	s.mu.Unlock()
	s.publish(Event{Kind: EventSaved, DocID: id, Path: path})
}

// SaveAs asks for a destination and writes the document there in format.
// The env format adopts the new path as the document's file; other formats
// are exports that leave the document untouched. A declined prompt returns
// errdef.ErrCancelled and changes nothing. A target that backs another open
// document is refused.
func (s *Store) SaveAs(ctx context.Context, id string, format envfmt.Format) (err error) {
	ctx, span := s.startSpan(ctx, "save_as", id)
	defer func() { endSpan(span, err) }()
	if format == "" {
		format = envfmt.FormatEnv
	}
	if !format.Valid() {
		return errdef.New(errdef.CodeFormat, "unknown format %q", string(format))
	}
	span.SetAttributes(attribute.String("envdesk.format", string(format)))

	doc, ok := s.Document(id)
	if !ok {
		return notFound(id)
	}

	title := "Save Environment File"
	if format != envfmt.FormatEnv {
		title = "Export as " + format.Label()
	}
	target, err := s.promptSave(ctx, SaveOptions{
		Title:       title,
		DefaultPath: s.defaultTarget(doc, format),
		Filters:     format.Filters(),
	})
	if err != nil {
		return err
	}
	span.SetAttributes(attribute.String("envdesk.path", target))
	if existing, open := s.FindByPath(target); open && existing != id {
		return errdef.New(errdef.CodeFilesystem, "%s is already open", target)
	}

	text, err := envfmt.Render(doc.Entries, format, envfmt.Options{})
	if err != nil {
		return err
	}
	if err := s.fs.WriteTextFile(ctx, target, text); err != nil {
		s.log.Error("save as failed", "path", target, "err", err)
		return err
	}

	if format != envfmt.FormatEnv {
		s.log.Info("document exported", "path", target, "format", string(format))
		return nil
	}

	s.adoptPath(id, doc.Path, target, text, doc.Entries)
	s.log.Info("document saved", "path", target)
	return nil
}

// Export renders a document in format without prompting or touching state.
func (s *Store) Export(id string, format envfmt.Format, opts envfmt.Options) (string, error) {
	doc, ok := s.Document(id)
	if !ok {
		return "", notFound(id)
	}
	return envfmt.Render(doc.Entries, format, opts)
}

func (s *Store) adoptPath(id, oldPath, newPath, text string, written []envfile.Entry) {
	name, _ := s.fs.SplitPath(newPath)
	s.mu.Lock()
	d := s.findLocked(id)
	if d == nil {
		s.mu.Unlock()
		return
	}
	d.Path = newPath
	d.Name = name
	d.LastKnownDiskContent = text
	d.Dirty = !envfile.Equivalent(d.Entries, written)
	displayName := d.DisplayName
	isActive := s.active == id
	s.mu.Unlock()

	if oldPath != newPath {
		if oldPath != "" {
			s.unwatchDoc(id)
			s.prefsCall("mark closed", func() error {
				_, err := s.prefs.SetOpen(oldPath, false)
				return err
			})
		}
		s.link(newPath, displayName)
		if isActive {
			s.prefsCall("set current view", func() error { return s.prefs.SetCurrentView(newPath) })
		}
		s.watchDoc(id, newPath)
	}
	s.publish(Event{Kind: EventSaved, DocID: id, Path: newPath})
}

func (s *Store) defaultTarget(doc Document, format envfmt.Format) string {
	source := doc.Name
	if source == "" {
		source = ".env"
	}
	name := format.DefaultFileName(source)
	if doc.Path == "" {
		return name
	}
	_, dir := s.fs.SplitPath(doc.Path)
	return filepath.Join(dir, name)
}

func (s *Store) promptSave(ctx context.Context, opts SaveOptions) (string, error) {
	if s.dialogs == nil {
		return "", errdef.New(errdef.CodeUI, "no dialog available")
	}
	res, err := s.dialogs.PromptSaveLocation(ctx, opts)
	if err != nil {
		return "", errdef.Wrap(errdef.CodeUI, err, "save prompt")
	}
	if res.Cancelled || res.Path() == "" {
		return "", errdef.ErrCancelled
	}
	return res.Path(), nil
}

// Clone copies a document's entries, with fresh ids, into a new file chosen
// by the user and opens it as the active document.
func (s *Store) Clone(ctx context.Context, id string) (newID string, err error) {
	ctx, span := s.startSpan(ctx, "clone", id)
	defer func() { endSpan(span, err) }()

	doc, ok := s.Document(id)
	if !ok {
		return "", notFound(id)
	}
	target, err := s.promptSave(ctx, SaveOptions{
		Title:       "Clone Environment File",
		DefaultPath: s.cloneTarget(doc),
		Filters:     envfmt.FormatEnv.Filters(),
	})
	if err != nil {
		return "", err
	}
	if existing, open := s.FindByPath(target); open && existing != id {
		return "", errdef.New(errdef.CodeFilesystem, "%s is already open", target)
	}

	entries := envfile.Clone(doc.Entries, true)
	text := envfmt.Env(entries)
	if err := s.fs.WriteTextFile(ctx, target, text); err != nil {
		s.log.Error("clone failed", "path", target, "err", err)
		return "", err
	}
	name, _ := s.fs.SplitPath(target)
	newID = s.addDocument(target, name, entries, "", text)
	span.SetAttributes(attribute.String("envdesk.path", target))
	return newID, nil
}

func (s *Store) cloneTarget(doc Document) string {
	name := doc.Name
	if name == "" {
		name = ".env"
	}
	name += ".copy"
	if doc.Path == "" {
		return name
	}
	_, dir := s.fs.SplitPath(doc.Path)
	return filepath.Join(dir, name)
}

// Reload replaces a document's entries with the file on disk and clears the
// dirty flag.
func (s *Store) Reload(ctx context.Context, id string) (err error) {
	ctx, span := s.startSpan(ctx, "reload", id)
	defer func() { endSpan(span, err) }()

	doc, ok := s.Document(id)
	if !ok {
		return notFound(id)
	}
	if doc.Path == "" {
		return errdef.New(errdef.CodeNoPath, "%s has no file to reload", doc.Title())
	}
	text, err := s.fs.ReadTextFile(ctx, doc.Path)
	if err != nil {
		s.log.Warn("reload failed", "path", doc.Path, "err", err)
		return err
	}
	entries := envfile.Parse(text)
	span.SetAttributes(attribute.Int("envdesk.entries", len(entries)))

	s.mu.Lock()
	d := s.findLocked(id)
	if d == nil {
		s.mu.Unlock()
		return notFound(id)
	}
	d.Entries = entries
	d.Dirty = false
	d.LastKnownDiskContent = text
	s.mu.Unlock()

	s.publish(Event{Kind: EventReloaded, DocID: id, Path: doc.Path})
	return nil
}

// SaveAll saves every dirty document that has a path and returns the first
// error while still attempting the rest.
func (s *Store) SaveAll(ctx context.Context) error {
	var first error
	for _, d := range s.Documents() {
		if !d.Dirty || d.Path == "" {
			continue
		}
		if err := s.Save(ctx, d.ID); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// prefsLinked lists linked records, logging and returning none when
// preferences are unavailable.
func (s *Store) prefsLinked() []prefs.Record {
	recs, err := s.prefs.ListLinked()
	if err != nil {
		s.log.Warn("preferences unavailable", "op", "list linked", "err", err)
		return nil
	}
	return recs
}
