package logconfig

import "errors"

var (
	// ErrNotFound is returned when a log config does not exist.
	ErrNotFound = errors.New("log config not found")
	// ErrDraftNotFound is returned when an edit draft does not exist.
	ErrDraftNotFound = errors.New("draft not found")
	// ErrInvalidConfig wraps every validation failure.
	ErrInvalidConfig = errors.New("invalid log config")
	// ErrDuplicateName is returned when another config has the same name.
	ErrDuplicateName = errors.New("log config name already exists")
	// ErrNoDatabase is returned when the service runs without a database.
	ErrNoDatabase = errors.New("database not configured")
)
