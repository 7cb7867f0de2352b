package dataset

import "github.com/pkg/errors"

var (
	// ErrNotFound is returned when a table does not exist in storage.
	ErrNotFound = errors.New("dataset not found")
	// ErrIO is returned when storage cannot be read or written.
	ErrIO = errors.New("dataset i/o error")
	// ErrMalformedInput is returned when a table cannot be parsed or lacks required columns.
	ErrMalformedInput = errors.New("malformed input")
	// ErrMisaligned is returned when tables that are joined by position do not line up.
	ErrMisaligned = errors.New("misaligned tables")
)
