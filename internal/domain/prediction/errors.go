package prediction

import (
	"errors"
	"fmt"
)

// ErrModelUnavailable indicates the scoring model (or its configuration)
// failed to load or respond. The HTTP boundary maps this to a 500.
var ErrModelUnavailable = errors.New("model not available")

// ErrNotFound indicates a lookup for an unknown record id.
var ErrNotFound = errors.New("record not found")

// ValidationError reports a bad or missing input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("field '%s' %s", e.Field, e.Reason)
}

// PersistenceError reports a failed durable write. A failed write does not
// abort the prediction: the caller surfaces it as data_saved=false.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
