package opckit

import (
	"errors"
	"fmt"
)

// Common package errors
var (
	ErrInvalidPackage  = errors.New("invalid package")
	ErrInvalidManifest = errors.New("invalid content types manifest")
	ErrNoContentType   = errors.New("part has no content type")
	ErrPartNotFound    = errors.New("part does not exist")
	ErrInvalidPartName = errors.New("invalid part name")
	ErrLimitExceeded   = errors.New("package limit exceeded")
	ErrNotSupported    = errors.New("operation not supported")
	ErrClosed          = errors.New("package already closed")
)

// PartError records an error and the operation and part name that caused it
type PartError struct {
	Op   string
	Part string
	Err  error
}

// Error implements the error interface
func (e *PartError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Part, e.Err)
}

// Unwrap returns the underlying error
func (e *PartError) Unwrap() error {
	return e.Err
}

// IsPartNotFound reports whether an error indicates that a part does not exist
func IsPartNotFound(err error) bool {
	return errors.Is(err, ErrPartNotFound)
}

// IsInvalidPackage reports whether an error indicates a malformed container,
// manifest or part declaration
func IsInvalidPackage(err error) bool {
	return errors.Is(err, ErrInvalidPackage) ||
		errors.Is(err, ErrInvalidManifest) ||
		errors.Is(err, ErrNoContentType) ||
		errors.Is(err, ErrInvalidPartName)
}
