package store

import "errors"

// Sentinel errors returned by store operations. Callers match them with
// errors.Is and decide how to report them; the store never does its own
// user-facing messaging.
var (
	// ErrAccessDenied means the user neither owns nor collaborates on the
	// list being read or written.
	ErrAccessDenied = errors.New("no access to this list")

	// ErrPermissionDenied means the operation is owner-only and the user
	// is not the list's owner.
	ErrPermissionDenied = errors.New("operation requires list ownership")

	// ErrValidation wraps malformed input: empty names, unknown
	// priorities, unparsable deadlines.
	ErrValidation = errors.New("invalid input")

	// ErrNotFound means a referenced task, list, or user does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidOperation marks requests that are well-formed but
	// nonsensical, such as adding yourself as a collaborator.
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrAlreadyExists marks duplicate-insert conflicts: a taken
	// username/email, or a collaborator who is already on the list.
	ErrAlreadyExists = errors.New("already exists")
)
