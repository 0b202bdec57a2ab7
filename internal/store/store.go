// Package store implements the access-controlled list/task data layer on
// SQLite. Every operation takes the authenticated user id as an explicit
// parameter; nothing here reads ambient session state, renders, or logs.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"
)

// Store wraps the SQLite database holding users, lists, tasks, and
// collaborator memberships.
type Store struct {
	db     *sql.DB
	mu     sync.RWMutex
	dbPath string
}

// Open initializes the SQLite database at the given path. The path
// ":memory:" yields a private in-memory database, used by tests.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// The modernc driver serializes access per connection; a single
	// connection also keeps ":memory:" databases from splitting into
	// independent stores.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &Store{db: db, dbPath: path}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// initialize creates the required tables.
func (s *Store) initialize() error {
	usersTable := `
	CREATE TABLE IF NOT EXISTS users (
		user_id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT UNIQUE NOT NULL,
		email TEXT UNIQUE NOT NULL,
		password TEXT NOT NULL
	);
	`

	listsTable := `
	CREATE TABLE IF NOT EXISTS lists (
		list_id INTEGER PRIMARY KEY AUTOINCREMENT,
		list_name TEXT NOT NULL,
		owner_id INTEGER NOT NULL,
		FOREIGN KEY (owner_id) REFERENCES users (user_id)
	);
	CREATE INDEX IF NOT EXISTS idx_lists_owner ON lists(owner_id);
	`

	tasksTable := `
	CREATE TABLE IF NOT EXISTS tasks (
		task_id INTEGER PRIMARY KEY,
		task_name TEXT NOT NULL,
		is_checked INTEGER DEFAULT 0,
		priority TEXT NOT NULL,
		deadline DATETIME NOT NULL,
		created_at TIMESTAMP DEFAULT (datetime('now', 'localtime')),
		list_id INTEGER,
		is_deleted INTEGER DEFAULT 0,
		FOREIGN KEY (list_id) REFERENCES lists (list_id)
	);
	CREATE INDEX IF NOT EXISTS idx_tasks_list ON tasks(list_id);
	`

	collaboratorsTable := `
	CREATE TABLE IF NOT EXISTS list_collaborators (
		list_id INTEGER NOT NULL,
		user_id INTEGER NOT NULL,
		PRIMARY KEY (list_id, user_id),
		FOREIGN KEY (list_id) REFERENCES lists (list_id),
		FOREIGN KEY (user_id) REFERENCES users (user_id)
	);
	`

	for _, stmt := range []string{usersTable, listsTable, tasksTable, collaboratorsTable} {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// hasListAccess reports whether the user owns the list or appears in its
// collaborator set. A single UNION existence probe covers both grant paths
// without fetching full rows.
func (s *Store) hasListAccess(userID, listID int64) (bool, error) {
	var one int
	err := s.db.QueryRow(`
		SELECT 1 FROM lists
		WHERE list_id = ? AND owner_id = ?
		UNION
		SELECT 1 FROM list_collaborators
		WHERE list_id = ? AND user_id = ?
	`, listID, userID, listID, userID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("access probe failed: %w", err)
	}
	return true, nil
}

// HasListAccess reports whether the user may read the list's tasks, via
// either grant path.
func (s *Store) HasListAccess(userID, listID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hasListAccess(userID, listID)
}

// isListOwner reports whether the user is the list's owner. Returns
// ErrNotFound if the list does not exist.
func (s *Store) isListOwner(userID, listID int64) (bool, error) {
	var ownerID int64
	err := s.db.QueryRow(`SELECT owner_id FROM lists WHERE list_id = ?`, listID).Scan(&ownerID)
	if err == sql.ErrNoRows {
		return false, fmt.Errorf("list %d: %w", listID, ErrNotFound)
	}
	if err != nil {
		return false, fmt.Errorf("owner lookup failed: %w", err)
	}
	return ownerID == userID, nil
}
