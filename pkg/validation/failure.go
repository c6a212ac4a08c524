package validation

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// DefaultMessage is shown for unmapped failures that arrive without server text.
const DefaultMessage = "Validation failed"

// CodeInvalid is assigned to failures decoded from payloads that carry
// messages but no machine readable code.
const CodeInvalid = "Invalid"

// Failure is one problem reported by the server for a submission attempt.
type Failure struct {
	Code    string `json:"code" yaml:"code"`
	Path    Path   `json:"path,omitempty" yaml:"path,omitempty"`
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
}

// String renders the failure for logs.
func (f Failure) String() string {
	var b strings.Builder
	b.WriteString(f.Code)
	if !f.Path.IsZero() {
		b.WriteString(" at ")
		b.WriteString(f.Path.String())
	}
	if msg := strings.TrimSpace(f.Message); msg != "" {
		b.WriteString(": ")
		b.WriteString(msg)
	}
	return b.String()
}

// Failurer is implemented by errors that carry structured validation failures.
// Any error in a chain implementing it is treated as validation-shaped,
// provided every failure has a code.
type Failurer interface {
	ValidationFailures() []Failure
}

// Error is the validation-shaped error returned by service collaborators when
// the server rejects a submission.
type Error struct {
	Status   int
	Title    string
	Failures []Failure
}

var _ Failurer = (*Error)(nil)

// NewError builds an Error with a 400 status.
func NewError(failures ...Failure) *Error {
	return &Error{
		Status:   http.StatusBadRequest,
		Failures: failures,
	}
}

func (e *Error) Error() string {
	if e == nil {
		return "validation: <nil>"
	}
	codes := make([]string, 0, len(e.Failures))
	for _, failure := range e.Failures {
		codes = append(codes, failure.Code)
	}
	title := strings.TrimSpace(e.Title)
	if title == "" {
		title = "validation failed"
	}
	return fmt.Sprintf("validation: %s (%s)", title, strings.Join(codes, ", "))
}

// ValidationFailures returns the failures carried by the error.
func (e *Error) ValidationFailures() []Failure {
	if e == nil {
		return nil
	}
	return e.Failures
}

// AsFailures classifies err. It reports true only when err wraps a Failurer
// whose list is non-empty and where every failure carries a code. The returned
// slice is a copy.
func AsFailures(err error) ([]Failure, bool) {
	if err == nil {
		return nil, false
	}
	var carrier Failurer
	if !errors.As(err, &carrier) {
		return nil, false
	}
	failures := carrier.ValidationFailures()
	if len(failures) == 0 {
		return nil, false
	}
	for _, failure := range failures {
		if strings.TrimSpace(failure.Code) == "" {
			return nil, false
		}
	}
	return cloneFailures(failures), true
}

// IsValidation reports whether err is validation-shaped.
func IsValidation(err error) bool {
	_, ok := AsFailures(err)
	return ok
}

func cloneFailures(src []Failure) []Failure {
	out := make([]Failure, len(src))
	for i, failure := range src {
		out[i] = Failure{
			Code:    strings.TrimSpace(failure.Code),
			Path:    append(Path(nil), failure.Path...),
			Message: failure.Message,
		}
		if len(out[i].Path) == 0 {
			out[i].Path = nil
		}
	}
	return out
}
