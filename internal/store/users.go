package store

import (
	"database/sql"
	"fmt"
	"strings"
)

// CreateUser inserts a new user together with their default list. Both rows
// commit in one transaction so a crash can never leave a user with zero
// lists. The password must already be hashed by the caller.
func (s *Store) CreateUser(name, email, passwordHash string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		`INSERT INTO users (name, password, email) VALUES (?, ?, ?)`,
		name, passwordHash, email,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("name or email taken: %w", ErrAlreadyExists)
		}
		return 0, fmt.Errorf("user insert failed: %w", err)
	}
	userID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if _, err := tx.Exec(
		`INSERT INTO lists (list_name, owner_id) VALUES (?, ?)`,
		DefaultListName, userID,
	); err != nil {
		return 0, fmt.Errorf("default list insert failed: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("signup commit failed: %w", err)
	}
	return userID, nil
}

// GetUserByID returns the user with the given id.
func (s *Store) GetUserByID(userID int64) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var u User
	err := s.db.QueryRow(
		`SELECT user_id, name, email, password FROM users WHERE user_id = ?`, userID,
	).Scan(&u.ID, &u.Name, &u.Email, &u.Password)
	if err == sql.ErrNoRows {
		return User{}, fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}
	if err != nil {
		return User{}, fmt.Errorf("user lookup failed: %w", err)
	}
	return u, nil
}

// GetUserByName returns the user with the given display name.
func (s *Store) GetUserByName(name string) (User, error) {
	return s.getUser(`SELECT user_id, name, email, password FROM users WHERE name = ?`, name)
}

// GetUserByEmail returns the user with the given email.
func (s *Store) GetUserByEmail(email string) (User, error) {
	return s.getUser(`SELECT user_id, name, email, password FROM users WHERE email = ?`, email)
}

func (s *Store) getUser(query, arg string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var u User
	err := s.db.QueryRow(query, arg).Scan(&u.ID, &u.Name, &u.Email, &u.Password)
	if err == sql.ErrNoRows {
		return User{}, fmt.Errorf("user %q: %w", arg, ErrNotFound)
	}
	if err != nil {
		return User{}, fmt.Errorf("user lookup failed: %w", err)
	}
	return u, nil
}

// UserExists reports whether a user with the given name or email exists.
// Used as a signup pre-check before the unique constraints get a say.
func (s *Store) UserExists(name, email string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var one int
	err := s.db.QueryRow(
		`SELECT 1 FROM users WHERE name = ? OR email = ?`, name, email,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("user probe failed: %w", err)
	}
	return true, nil
}

// UpdatePassword replaces the password hash of the user with the given
// email. Used by the password-reset flow after token verification.
func (s *Store) UpdatePassword(email, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`UPDATE users SET password = ? WHERE email = ?`, passwordHash, email)
	if err != nil {
		return fmt.Errorf("password update failed: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("email %q: %w", email, ErrNotFound)
	}
	return nil
}

// UpdateProfile applies a partial update: empty fields are left untouched.
// ErrValidation if every field is empty.
func (s *Store) UpdateProfile(userID int64, name, email, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var sets []string
	var params []any

	if name != "" {
		sets = append(sets, "name = ?")
		params = append(params, name)
	}
	if email != "" {
		sets = append(sets, "email = ?")
		params = append(params, email)
	}
	if passwordHash != "" {
		sets = append(sets, "password = ?")
		params = append(params, passwordHash)
	}
	if len(sets) == 0 {
		return fmt.Errorf("no fields to update: %w", ErrValidation)
	}
	params = append(params, userID)

	query := "UPDATE users SET " + strings.Join(sets, ", ") + " WHERE user_id = ?"
	if _, err := s.db.Exec(query, params...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("name or email taken: %w", ErrAlreadyExists)
		}
		return fmt.Errorf("profile update failed: %w", err)
	}
	return nil
}

// isUniqueViolation detects SQLite UNIQUE constraint failures without tying
// the caller to driver error codes.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
