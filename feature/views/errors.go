package views

import "errors"

var (
	// ErrViewNotFound is returned for unknown or expired view ids.
	ErrViewNotFound = errors.New("view not found")
	// ErrInvalidKind is returned when a view is created with an unknown kind.
	ErrInvalidKind = errors.New("invalid view kind")
	// ErrTooManyViews is returned when the registry is full.
	ErrTooManyViews = errors.New("too many open views")
	// ErrUnavailable is returned when the source of a view kind is not configured.
	ErrUnavailable = errors.New("view source unavailable")
)
