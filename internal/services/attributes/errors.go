package attributes

import "errors"

var (
	// ErrNotFound marks a missing schema, attribute or option.
	ErrNotFound = errors.New("not found")

	// ErrAccessDenied covers both a missing ownership chain and an ownership
	// mismatch; callers cannot tell the two apart.
	ErrAccessDenied = errors.New("access denied")

	// ErrConflict marks a uniqueness violation or an in-use violation.
	ErrConflict = errors.New("conflict")
)
