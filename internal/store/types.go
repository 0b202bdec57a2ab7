package store

import "time"

// Task priorities. Exactly three values are valid input; PriorityRank gives
// them a domain order (high first) used when sorting by priority.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// PriorityRank maps each priority to its severity rank. Sorting by priority
// always uses this rank ascending, never lexical order.
var PriorityRank = map[string]int{
	PriorityHigh:   1,
	PriorityMedium: 2,
	PriorityLow:    3,
}

// DefaultListName is the name of the list every user receives at signup.
const DefaultListName = "My Dooby List"

// Deadline layouts accepted from callers. HTML datetime-local inputs omit
// seconds; stored values carry them.
const (
	deadlineLayout      = "2006-01-02T15:04:05"
	deadlineLayoutShort = "2006-01-02T15:04"
)

// Task is one row of the tasks table.
type Task struct {
	ID        int64     `json:"task_id"`
	Name      string    `json:"task_name"`
	Checked   bool      `json:"is_checked"`
	Priority  string    `json:"priority"`
	Deadline  string    `json:"deadline"`
	CreatedAt time.Time `json:"created_at"`
	ListID    int64     `json:"list_id"`
	Deleted   bool      `json:"-"`
}

// ListSummary is one list a user can see, with its owner's display name.
type ListSummary struct {
	ID        int64  `json:"list_id"`
	Name      string `json:"list_name"`
	OwnerName string `json:"owner_name"`
}

// User is one row of the users table. Password holds the bcrypt hash, never
// plaintext.
type User struct {
	ID       int64  `json:"user_id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"-"`
}

// Collaborator is a user granted access to a list without owning it.
type Collaborator struct {
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}
