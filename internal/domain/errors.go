package domain

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrUnauthenticated = errors.New("not signed in")
)

// ErrConflict is returned when a change would break a dependent record,
// such as deleting a commission that has orders.
var ErrConflict = errors.New("conflict")
