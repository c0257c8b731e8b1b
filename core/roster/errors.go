package roster

import "errors"

var (
	// errors
	ErrNotFound         = errors.New("not found")
	ErrInvalidCourse    = errors.New("course is not shared between teacher and student")
	ErrEmptyReport      = errors.New("report text cannot be empty")
	ErrAuthFailed       = errors.New("invalid credentials")
	ErrAccountSuspended = errors.New("account suspended")
	ErrEmailExists      = errors.New("a user with this email already exists")
)
