package store

import (
	"database/sql"
	"fmt"
)

// AddCollaborator grants the user with the given email access to the list.
// Only the list's owner may grant access, the owner cannot add themselves,
// and adding someone twice reports ErrAlreadyExists rather than crashing on
// the membership table's primary key.
func (s *Store) AddCollaborator(requestingUserID, listID int64, collaboratorEmail string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	owner, err := s.isListOwner(requestingUserID, listID)
	if err != nil {
		return err
	}
	if !owner {
		return fmt.Errorf("user %d does not own list %d: %w", requestingUserID, listID, ErrPermissionDenied)
	}

	var collaboratorID int64
	err = s.db.QueryRow(
		`SELECT user_id FROM users WHERE email = ?`, collaboratorEmail,
	).Scan(&collaboratorID)
	if err == sql.ErrNoRows {
		return fmt.Errorf("no user with email %q: %w", collaboratorEmail, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("user lookup failed: %w", err)
	}

	if collaboratorID == requestingUserID {
		return fmt.Errorf("cannot add yourself as collaborator: %w", ErrInvalidOperation)
	}

	var one int
	err = s.db.QueryRow(
		`SELECT 1 FROM list_collaborators WHERE list_id = ? AND user_id = ?`,
		listID, collaboratorID,
	).Scan(&one)
	if err == nil {
		return fmt.Errorf("user %d already collaborates on list %d: %w", collaboratorID, listID, ErrAlreadyExists)
	}

	if _, err := s.db.Exec(
		`INSERT INTO list_collaborators (list_id, user_id) VALUES (?, ?)`,
		listID, collaboratorID,
	); err != nil {
		// A racing insert between probe and write trips the primary key;
		// that is still a duplicate, not a failure.
		if isUniqueViolation(err) {
			return fmt.Errorf("user %d already collaborates on list %d: %w", collaboratorID, listID, ErrAlreadyExists)
		}
		return fmt.Errorf("collaborator insert failed: %w", err)
	}
	return nil
}

// RemoveCollaborator revokes a user's membership on a list. Owner-only.
// Removing someone who is not a member is not an error.
func (s *Store) RemoveCollaborator(requestingUserID, listID, collaboratorID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	owner, err := s.isListOwner(requestingUserID, listID)
	if err != nil {
		return err
	}
	if !owner {
		return fmt.Errorf("user %d does not own list %d: %w", requestingUserID, listID, ErrPermissionDenied)
	}

	if _, err := s.db.Exec(
		`DELETE FROM list_collaborators WHERE list_id = ? AND user_id = ?`,
		listID, collaboratorID,
	); err != nil {
		return fmt.Errorf("collaborator delete failed: %w", err)
	}
	return nil
}

// ListCollaborators returns the members of a list, owner excluded.
func (s *Store) ListCollaborators(listID int64) ([]Collaborator, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT u.user_id, u.name, u.email
		FROM list_collaborators lc
		JOIN users u ON lc.user_id = u.user_id
		WHERE lc.list_id = ?
		ORDER BY u.user_id ASC
	`, listID)
	if err != nil {
		return nil, fmt.Errorf("collaborator query failed: %w", err)
	}
	defer rows.Close()

	var collaborators []Collaborator
	for rows.Next() {
		var c Collaborator
		if err := rows.Scan(&c.UserID, &c.Name, &c.Email); err != nil {
			return nil, fmt.Errorf("collaborator scan failed: %w", err)
		}
		collaborators = append(collaborators, c)
	}
	return collaborators, rows.Err()
}
