package user

import "errors"

var (
	// ErrUserNotFound indicates the user doesn't exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrForbidden indicates the caller lacks the permissions for the action.
	ErrForbidden = errors.New("user lacks the permissions to perform this action")
	// ErrInvalidInput indicates invalid user input.
	ErrInvalidInput = errors.New("invalid user input")
)
