package loginform

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	// ErrSubmitInProgress is returned by Submit while a request is in flight.
	ErrSubmitInProgress = errors.New("submission already in progress")
	// ErrUnknownField is returned when a field is not part of the active mode.
	ErrUnknownField = errors.New("unknown field")
	// ErrWrongMode is returned when an operation is not available in the active mode.
	ErrWrongMode = errors.New("operation not available in this mode")
)

// ValidationError is returned by Submit when the form is invalid.
type ValidationError struct {
	Errors Errors
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Errors))
	for f := range e.Errors {
		fields = append(fields, string(f))
	}
	slices.Sort(fields)
	return fmt.Sprintf("invalid fields: %s", strings.Join(fields, ", "))
}
