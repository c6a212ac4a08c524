package form

import (
	"errors"
	"fmt"
)

var (
	// ErrUnexpected matches every failure that is not validation-shaped.
	ErrUnexpected = errors.New("form: unexpected submission failure")
	// ErrNilContext is returned when Submit is called without a context.
	ErrNilContext = errors.New("form: context is required")
)

// SubmitError wraps an unexpected failure returned by a submit function. It
// matches ErrUnexpected with errors.Is and unwraps to the original failure.
type SubmitError struct {
	FormID string
	Err    error
}

func (e *SubmitError) Error() string {
	if e.FormID == "" {
		return fmt.Sprintf("form: submit: %v", e.Err)
	}
	return fmt.Sprintf("form %s: submit: %v", e.FormID, e.Err)
}

func (e *SubmitError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrUnexpected.
func (e *SubmitError) Is(target error) bool {
	return target == ErrUnexpected
}
