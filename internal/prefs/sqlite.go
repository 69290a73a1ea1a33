package prefs

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/unkn0wn-root/envdesk/internal/errdef"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS linked_environments (
	filepath     TEXT PRIMARY KEY,
	project_name TEXT NOT NULL DEFAULT '',
	env_name     TEXT NOT NULL DEFAULT '',
	display_name TEXT NOT NULL DEFAULT '',
	is_open      INTEGER NOT NULL DEFAULT 0,
	position     INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS app_state (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);`

const currentViewKey = "current_view"

// SQLiteStore keeps preferences in a SQLite database. It suits setups where
// several tools share one preferences location and want row level updates.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

var _ Store = (*SQLiteStore)(nil)

// OpenSQLite opens or creates the database at path and applies the schema.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, errdef.Wrap(errdef.CodePreferences, err, "create preferences dir")
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errdef.Wrap(errdef.CodePreferences, err, "open preferences db")
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, errdef.Wrap(errdef.CodePreferences, err, "migrate preferences db")
	}
	return &SQLiteStore{db: db, path: path}, nil
}

func (s *SQLiteStore) ListLinked() ([]Record, error) {
	const query = `SELECT filepath, project_name, env_name, display_name, is_open
		FROM linked_environments ORDER BY position`
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, errdef.Wrap(errdef.CodePreferences, err, "list linked files")
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.Filepath, &r.ProjectName, &r.EnvName, &r.DisplayName, &r.IsOpen); err != nil {
			return nil, errdef.Wrap(errdef.CodePreferences, err, "scan linked file")
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errdef.Wrap(errdef.CodePreferences, err, "list linked files")
	}
	return out, nil
}

func (s *SQLiteStore) UpsertLinked(rec Record) error {
	const query = `INSERT INTO linked_environments
		(filepath, project_name, env_name, display_name, is_open, position)
		VALUES (?, ?, ?, ?, ?, COALESCE((SELECT MAX(position) FROM linked_environments), 0) + 1)
		ON CONFLICT(filepath) DO UPDATE SET
			project_name = excluded.project_name,
			env_name = excluded.env_name,
			display_name = excluded.display_name,
			is_open = excluded.is_open`
	if _, err := s.db.Exec(query, rec.Filepath, rec.ProjectName, rec.EnvName, rec.DisplayName, rec.IsOpen); err != nil {
		return errdef.Wrap(errdef.CodePreferences, err, "upsert linked file")
	}
	return nil
}

func (s *SQLiteStore) UpdateLinked(path string, p Patch) (bool, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return false, errdef.Wrap(errdef.CodePreferences, err, "begin update")
	}
	defer func() { _ = tx.Rollback() }()

	const selectQuery = `SELECT filepath, project_name, env_name, display_name, is_open
		FROM linked_environments WHERE filepath = ?`
	var r Record
	err = tx.QueryRow(selectQuery, path).Scan(&r.Filepath, &r.ProjectName, &r.EnvName, &r.DisplayName, &r.IsOpen)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, errdef.Wrap(errdef.CodePreferences, err, "load linked file")
	}

	r = p.apply(r)
	const updateQuery = `UPDATE linked_environments
		SET project_name = ?, env_name = ?, display_name = ?, is_open = ?
		WHERE filepath = ?`
	if _, err := tx.Exec(updateQuery, r.ProjectName, r.EnvName, r.DisplayName, r.IsOpen, path); err != nil {
		return false, errdef.Wrap(errdef.CodePreferences, err, "update linked file")
	}
	if err := tx.Commit(); err != nil {
		return false, errdef.Wrap(errdef.CodePreferences, err, "commit update")
	}
	return true, nil
}

func (s *SQLiteStore) RemoveLinked(path string) error {
	if _, err := s.db.Exec(`DELETE FROM linked_environments WHERE filepath = ?`, path); err != nil {
		return errdef.Wrap(errdef.CodePreferences, err, "remove linked file")
	}
	return nil
}

func (s *SQLiteStore) SetOpen(path string, open bool) (bool, error) {
	res, err := s.db.Exec(`UPDATE linked_environments SET is_open = ? WHERE filepath = ?`, open, path)
	if err != nil {
		return false, errdef.Wrap(errdef.CodePreferences, err, "set open state")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, errdef.Wrap(errdef.CodePreferences, err, "set open state")
	}
	return n > 0, nil
}

func (s *SQLiteStore) GetCurrentView() (string, error) {
	var view string
	err := s.db.QueryRow(`SELECT value FROM app_state WHERE key = ?`, currentViewKey).Scan(&view)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", errdef.Wrap(errdef.CodePreferences, err, "read current view")
	}
	return view, nil
}

func (s *SQLiteStore) SetCurrentView(path string) error {
	var err error
	if path == "" {
		_, err = s.db.Exec(`DELETE FROM app_state WHERE key = ?`, currentViewKey)
	} else {
		_, err = s.db.Exec(`INSERT INTO app_state (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value`, currentViewKey, path)
	}
	if err != nil {
		return errdef.Wrap(errdef.CodePreferences, err, "write current view")
	}
	return nil
}

func (s *SQLiteStore) ClearAll() error {
	tx, err := s.db.Begin()
	if err != nil {
		return errdef.Wrap(errdef.CodePreferences, err, "begin clear")
	}
	defer func() { _ = tx.Rollback() }()
	if _, err := tx.Exec(`DELETE FROM linked_environments`); err != nil {
		return errdef.Wrap(errdef.CodePreferences, err, "clear linked files")
	}
	if _, err := tx.Exec(`DELETE FROM app_state`); err != nil {
		return errdef.Wrap(errdef.CodePreferences, err, "clear app state")
	}
	if err := tx.Commit(); err != nil {
		return errdef.Wrap(errdef.CodePreferences, err, "commit clear")
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
