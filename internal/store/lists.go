package store

import (
	"database/sql"
	"fmt"
	"strings"
)

// ResolveDefaultList returns the earliest-created list owned by the user;
// normally the one created at signup. ErrNotFound if the user owns no lists.
func (s *Store) ResolveDefaultList(userID int64) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var listID int64
	err := s.db.QueryRow(
		`SELECT list_id FROM lists WHERE owner_id = ? ORDER BY list_id ASC LIMIT 1`, userID,
	).Scan(&listID)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("user %d owns no lists: %w", userID, ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("default list lookup failed: %w", err)
	}
	return listID, nil
}

// ListAccessibleLists returns every list the user owns or collaborates on,
// one row per list, ascending by list id. The GROUP BY collapses the two
// grant paths so a list the user both owns and was (wrongly) granted never
// appears twice.
func (s *Store) ListAccessibleLists(userID int64) ([]ListSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT l.list_id, l.list_name, u.name AS owner_name
		FROM lists l
		JOIN users u ON l.owner_id = u.user_id
		LEFT JOIN list_collaborators lc ON l.list_id = lc.list_id
		WHERE l.owner_id = ? OR lc.user_id = ?
		GROUP BY l.list_id
		ORDER BY l.list_id ASC
	`, userID, userID)
	if err != nil {
		return nil, fmt.Errorf("list query failed: %w", err)
	}
	defer rows.Close()

	var lists []ListSummary
	for rows.Next() {
		var l ListSummary
		if err := rows.Scan(&l.ID, &l.Name, &l.OwnerName); err != nil {
			return nil, fmt.Errorf("list scan failed: %w", err)
		}
		lists = append(lists, l)
	}
	return lists, rows.Err()
}

// CreateList creates a list owned by the user. The name must be non-empty
// after trimming whitespace.
func (s *Store) CreateList(userID int64, name string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name = strings.TrimSpace(name)
	if name == "" {
		return 0, fmt.Errorf("list name must not be empty: %w", ErrValidation)
	}

	res, err := s.db.Exec(`INSERT INTO lists (list_name, owner_id) VALUES (?, ?)`, name, userID)
	if err != nil {
		return 0, fmt.Errorf("list insert failed: %w", err)
	}
	return res.LastInsertId()
}
