package schema

import "errors"

// Sentinel errors shared across the pipeline. Callers wrap them with %w.
var (
	// ErrSchema means the field mapping cannot produce a usable series.
	ErrSchema = errors.New("unusable field mapping")

	// ErrInvalidArgument means a stage was called with an out-of-range argument.
	ErrInvalidArgument = errors.New("invalid argument")
)
