package tabular

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingFile indicates that an input file does not exist.
	ErrMissingFile = errors.New("missing file")

	// ErrMissingColumn indicates that a required column could not be resolved.
	ErrMissingColumn = errors.New("missing column")

	// ErrUnsupportedFormat indicates a file type the reader cannot decode.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrEmpty indicates a file without a header row.
	ErrEmpty = errors.New("empty file")
)

// LoadError describes a fatal failure to load an input table.
type LoadError struct {
	// Source is the file or object name.
	Source string
	// Column is the canonical column name, when the failure concerns one.
	Column string
	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("%s: %v %q", e.Source, e.Err, e.Column)
	}
	return fmt.Sprintf("%s: %v", e.Source, e.Err)
}

// Unwrap returns the underlying cause.
func (e *LoadError) Unwrap() error {
	return e.Err
}
