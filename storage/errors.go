package storage

import (
	"errors"
)

var (
	// ErrNotFound is returned when an artifact or report does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnsupportedFormat is returned for a file whose encoding or
	// compression is not known.
	ErrUnsupportedFormat = errors.New("unsupported format")
)
