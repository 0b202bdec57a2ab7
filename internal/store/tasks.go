package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Sort/order allow-sets. Unrecognized values are not errors; they silently
// fall back to the defaults, matching the lenient query-parameter contract.
const (
	defaultSort  = "created_at"
	defaultOrder = "desc"
)

var allowedSorts = map[string]bool{
	"priority":   true,
	"created_at": true,
	"deadline":   true,
}

var allowedOrders = map[string]bool{
	"asc":  true,
	"desc": true,
}

// taskQueries maps the validated (sort, order) pair to a complete statement.
// Caller-controlled strings are never interpolated into SQL; the statement is
// always chosen from this closed set. Priority sorting uses the fixed
// severity rank (high=1, medium=2, low=3) ascending and ignores order.
var taskQueries = map[[2]string]string{
	{"priority", ""}: `SELECT task_id, task_name, is_checked, priority, deadline, created_at, list_id, is_deleted
		FROM tasks WHERE list_id = ? AND is_deleted = 0
		ORDER BY CASE priority WHEN 'high' THEN 1 WHEN 'medium' THEN 2 WHEN 'low' THEN 3 END ASC`,
	{"created_at", "asc"}: `SELECT task_id, task_name, is_checked, priority, deadline, created_at, list_id, is_deleted
		FROM tasks WHERE list_id = ? AND is_deleted = 0 ORDER BY created_at ASC`,
	{"created_at", "desc"}: `SELECT task_id, task_name, is_checked, priority, deadline, created_at, list_id, is_deleted
		FROM tasks WHERE list_id = ? AND is_deleted = 0 ORDER BY created_at DESC`,
	{"deadline", "asc"}: `SELECT task_id, task_name, is_checked, priority, deadline, created_at, list_id, is_deleted
		FROM tasks WHERE list_id = ? AND is_deleted = 0 ORDER BY deadline ASC`,
	{"deadline", "desc"}: `SELECT task_id, task_name, is_checked, priority, deadline, created_at, list_id, is_deleted
		FROM tasks WHERE list_id = ? AND is_deleted = 0 ORDER BY deadline DESC`,
}

// GetTasks returns the list's live (non-deleted) tasks for a user who owns
// or collaborates on it. Unknown sort falls back to created_at, unknown
// order to desc.
func (s *Store) GetTasks(userID, listID int64, sort, order string) ([]Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !allowedSorts[sort] {
		sort = defaultSort
	}
	if !allowedOrders[order] {
		order = defaultOrder
	}

	ok, err := s.hasListAccess(userID, listID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("user %d, list %d: %w", userID, listID, ErrAccessDenied)
	}

	key := [2]string{sort, order}
	if sort == "priority" {
		key = [2]string{"priority", ""}
	}
	query := taskQueries[key]

	rows, err := s.db.Query(query, listID)
	if err != nil {
		return nil, fmt.Errorf("task query failed: %w", err)
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// AddTask validates the fields, checks list access, and inserts a new task
// with the checked and deleted flags cleared.
func (s *Store) AddTask(userID, listID int64, name, priority, deadline string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	deadline, err := validateTaskFields(name, priority, deadline)
	if err != nil {
		return 0, err
	}

	ok, err := s.hasListAccess(userID, listID)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("user %d, list %d: %w", userID, listID, ErrAccessDenied)
	}

	res, err := s.db.Exec(
		`INSERT INTO tasks (task_name, priority, deadline, list_id) VALUES (?, ?, ?, ?)`,
		name, priority, deadline, listID,
	)
	if err != nil {
		return 0, fmt.Errorf("task insert failed: %w", err)
	}
	return res.LastInsertId()
}

// EditTask overwrites a task's name, priority, and deadline. The checked and
// deleted flags are left alone. The caller must own or collaborate on the
// task's list; editing does not bypass the read access check.
func (s *Store) EditTask(userID, taskID int64, name, priority, deadline string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	deadline, err := validateTaskFields(name, priority, deadline)
	if err != nil {
		return err
	}

	listID, err := s.taskListID(taskID)
	if err != nil {
		return err
	}

	ok, err := s.hasListAccess(userID, listID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("user %d, list %d: %w", userID, listID, ErrAccessDenied)
	}

	_, err = s.db.Exec(
		`UPDATE tasks SET task_name = ?, priority = ?, deadline = ? WHERE task_id = ?`,
		name, priority, deadline, taskID,
	)
	if err != nil {
		return fmt.Errorf("task update failed: %w", err)
	}
	return nil
}

// DeleteTask sets the soft-deletion flag. Repeated calls and calls for
// absent tasks are no-ops.
func (s *Store) DeleteTask(taskID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`UPDATE tasks SET is_deleted = 1 WHERE task_id = ?`, taskID)
	if err != nil {
		return fmt.Errorf("task delete failed: %w", err)
	}
	return nil
}

// UndoDelete clears the soft-deletion flag, restoring the task to listings
// with all its fields intact.
func (s *Store) UndoDelete(taskID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`UPDATE tasks SET is_deleted = 0 WHERE task_id = ?`, taskID)
	if err != nil {
		return fmt.Errorf("task undo failed: %w", err)
	}
	return nil
}

// ToggleTask sets the checked flag to the supplied value.
func (s *Store) ToggleTask(taskID int64, checked bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`UPDATE tasks SET is_checked = ? WHERE task_id = ?`, checked, taskID)
	if err != nil {
		return fmt.Errorf("task toggle failed: %w", err)
	}
	return nil
}

// GetTask returns a task by id regardless of its deletion flag. Callers use
// it to resolve the task's list before delete/undo redirects.
func (s *Store) GetTask(taskID int64) (Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(
		`SELECT task_id, task_name, is_checked, priority, deadline, created_at, list_id, is_deleted
		 FROM tasks WHERE task_id = ?`, taskID,
	)
	t, err := scanTask(row)
	if err == sql.ErrNoRows {
		return Task{}, fmt.Errorf("task %d: %w", taskID, ErrNotFound)
	}
	if err != nil {
		return Task{}, err
	}
	return t, nil
}

func (s *Store) taskListID(taskID int64) (int64, error) {
	var listID int64
	err := s.db.QueryRow(`SELECT list_id FROM tasks WHERE task_id = ?`, taskID).Scan(&listID)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("task %d: %w", taskID, ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("task lookup failed: %w", err)
	}
	return listID, nil
}

// validateTaskFields checks name, priority, and deadline, returning the
// deadline normalized to the full layout.
func validateTaskFields(name, priority, deadline string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("task name must not be empty: %w", ErrValidation)
	}
	if _, ok := PriorityRank[priority]; !ok {
		return "", fmt.Errorf("priority %q is not one of high/medium/low: %w", priority, ErrValidation)
	}
	parsed, err := parseDeadline(deadline)
	if err != nil {
		return "", fmt.Errorf("deadline %q is not a timestamp: %w", deadline, ErrValidation)
	}
	return parsed.Format(deadlineLayout), nil
}

func parseDeadline(deadline string) (time.Time, error) {
	if t, err := time.Parse(deadlineLayout, deadline); err == nil {
		return t, nil
	}
	return time.Parse(deadlineLayoutShort, deadline)
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(r rowScanner) (Task, error) {
	var t Task
	// Rows migrated from the pre-list schema may carry NULLs here.
	var createdAt sql.NullString
	var listID sql.NullInt64
	if err := r.Scan(&t.ID, &t.Name, &t.Checked, &t.Priority, &t.Deadline, &createdAt, &listID, &t.Deleted); err != nil {
		if err == sql.ErrNoRows {
			return Task{}, err
		}
		return Task{}, fmt.Errorf("task scan failed: %w", err)
	}
	t.ListID = listID.Int64
	// SQLite stores created_at as "YYYY-MM-DD HH:MM:SS" text.
	if ts, err := time.ParseInLocation("2006-01-02 15:04:05", createdAt.String, time.Local); err == nil {
		t.CreatedAt = ts
	}
	return t, nil
}
