// Schema migrations for databases created by earlier versions of the app.
// The first version kept everything in a single flat tasks table; lists,
// collaborators, and soft deletion arrived later. These migrations bring an
// old file up to the current schema without touching existing rows.
package store

import (
	"database/sql"
	"fmt"
)

// Migration adds a column that an older database may be missing. Tables are
// created unconditionally by initialize(); only columns need patching.
type Migration struct {
	Table  string
	Column string
	Def    string
}

// pendingMigrations lists all schema migrations to apply, oldest first.
var pendingMigrations = []Migration{
	// Soft deletion (added with the undo feature)
	{"tasks", "is_deleted", "INTEGER DEFAULT 0"},
	// Per-list tasks (added when the flat table became relational)
	{"tasks", "list_id", "INTEGER REFERENCES lists (list_id)"},
	// Creation timestamp (added with sortable task views)
	{"tasks", "created_at", "TIMESTAMP"},
}

// runMigrations applies column migrations for existing databases.
func (s *Store) runMigrations() error {
	for _, m := range pendingMigrations {
		if !tableExists(s.db, m.Table) {
			continue
		}
		if columnExists(s.db, m.Table, m.Column) {
			continue
		}
		stmt := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", m.Table, m.Column, m.Def)
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %s.%s failed: %w", m.Table, m.Column, err)
		}
	}
	return nil
}

// tableExists checks if a table exists in the database.
func tableExists(db *sql.DB, table string) bool {
	var name string
	err := db.QueryRow(
		"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
	).Scan(&name)
	return err == nil
}

// columnExists checks if a column exists on a table.
func columnExists(db *sql.DB, table, column string) bool {
	rows, err := db.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return false
	}
	defer rows.Close()

	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull, pk int
		var dflt sql.NullString
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			continue
		}
		if name == column {
			return true
		}
	}
	return false
}
