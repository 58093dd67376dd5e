// Package store keeps the client's local state (session, last opened
// project, recently viewed projects) in a SQLite file under the XDG data
// directory. Filter selections are deliberately not persisted; the
// explore view always starts empty.
package store

import (
	"database/sql"
	_ "embed"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schema string

// Setting keys
const (
	KeyLastProjectID = "last_project_id"
	KeySessionUserID = "session_user_id"
)

// Store wraps the local database
type Store struct {
	*sql.DB
}

// Open creates the local state database in the default location
func Open() (*Store, error) {
	path, err := defaultPath()
	if err != nil {
		return nil, err
	}
	return OpenPath(path)
}

// OpenPath opens (and initializes) the database at the given path
func OpenPath(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db}, nil
}

func defaultPath() (string, error) {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataDir = filepath.Join(home, ".local", "share")
	}

	appDir := filepath.Join(dataDir, "loopstate")
	if err := os.MkdirAll(appDir, 0755); err != nil {
		return "", err
	}
	return filepath.Join(appDir, "loopstate.db"), nil
}

// GetSetting retrieves a setting value by key; missing keys yield ""
func (s *Store) GetSetting(key string) (string, error) {
	var value string
	err := s.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

// SetSetting sets a setting value
func (s *Store) SetSetting(key, value string) error {
	_, err := s.Exec(`
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}

// DeleteSetting removes a setting
func (s *Store) DeleteSetting(key string) error {
	_, err := s.Exec("DELETE FROM settings WHERE key = ?", key)
	return err
}

// LastProjectID returns the last opened project id, or 0 when unset
func (s *Store) LastProjectID() (int64, error) {
	raw, err := s.GetSetting(KeyLastProjectID)
	if err != nil || raw == "" {
		return 0, err
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, nil
	}
	return id, nil
}

// SetLastProjectID records the last opened project; 0 clears it
func (s *Store) SetLastProjectID(id int64) error {
	if id == 0 {
		return s.DeleteSetting(KeyLastProjectID)
	}
	return s.SetSetting(KeyLastProjectID, strconv.FormatInt(id, 10))
}

// SessionUserID returns the persisted session user id, or 0 when logged out
func (s *Store) SessionUserID() (int64, error) {
	raw, err := s.GetSetting(KeySessionUserID)
	if err != nil || raw == "" {
		return 0, err
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, nil
	}
	return id, nil
}

// SetSessionUserID persists the logged-in user id; 0 clears the session
func (s *Store) SetSessionUserID(id int64) error {
	if id == 0 {
		return s.DeleteSetting(KeySessionUserID)
	}
	return s.SetSetting(KeySessionUserID, strconv.FormatInt(id, 10))
}

// RecentProject is a locally remembered project visit
type RecentProject struct {
	ProjectID int64
	Title     string
	OpenedAt  time.Time
}

// TouchRecentProject records a project visit, replacing any earlier one
func (s *Store) TouchRecentProject(id int64, title string) error {
	_, err := s.Exec(`
		INSERT INTO recent_projects (project_id, title, opened_at)
		VALUES (?, ?, ?)
		ON CONFLICT(project_id) DO UPDATE SET
			title = excluded.title,
			opened_at = excluded.opened_at
	`, id, title, time.Now().UTC())
	return err
}

// RecentProjects lists the most recently opened projects, newest first
func (s *Store) RecentProjects(limit int) ([]RecentProject, error) {
	rows, err := s.Query(`
		SELECT project_id, title, opened_at
		FROM recent_projects
		ORDER BY opened_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recents []RecentProject
	for rows.Next() {
		var r RecentProject
		if err := rows.Scan(&r.ProjectID, &r.Title, &r.OpenedAt); err != nil {
			return nil, err
		}
		recents = append(recents, r)
	}
	return recents, rows.Err()
}
