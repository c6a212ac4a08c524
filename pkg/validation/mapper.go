package validation

import (
	"strings"
)

// FieldMapping declares which messages a form shows for server failure codes
// against a single field. An empty Target maps onto whatever path the failure
// carries.
type FieldMapping struct {
	Target   string            `json:"target" yaml:"target"`
	Messages map[string]string `json:"messages" yaml:"messages"`
}

// FieldError is a message placed on a field.
type FieldError struct {
	Field   string
	Message string
}

// FieldMessageMapper returns the field error for a failure it recognises.
type FieldMessageMapper func(Failure) (FieldError, bool)

// MapFieldErrors compiles a FieldMapping into a reusable mapper. The mapping
// is copied, so later changes to it have no effect on the mapper.
//
// A mapper with a Target matches a failure whose code is known and whose path
// is either absent (a code-only failure) or equal to the target. A mapper
// without a Target matches known codes that carry their own path.
func MapFieldErrors(mapping FieldMapping) FieldMessageMapper {
	target := ParsePath(mapping.Target)
	messages := make(map[string]string, len(mapping.Messages))
	for code, message := range mapping.Messages {
		code = strings.TrimSpace(code)
		if code == "" {
			continue
		}
		messages[code] = message
	}

	return func(failure Failure) (FieldError, bool) {
		message, ok := messages[strings.TrimSpace(failure.Code)]
		if !ok {
			return FieldError{}, false
		}
		switch {
		case !target.IsZero() && (failure.Path.IsZero() || failure.Path.Equal(target)):
			return FieldError{Field: target.String(), Message: message}, true
		case target.IsZero() && !failure.Path.IsZero():
			return FieldError{Field: failure.Path.String(), Message: message}, true
		default:
			return FieldError{}, false
		}
	}
}

// MapAll compiles several mappings, preserving order.
func MapAll(mappings ...FieldMapping) []FieldMessageMapper {
	out := make([]FieldMessageMapper, 0, len(mappings))
	for _, mapping := range mappings {
		out = append(out, MapFieldErrors(mapping))
	}
	return out
}

// Outcome is the result of mapping one attempt's failures.
type Outcome struct {
	FieldErrors map[string]string
	Unmapped    []Failure
}

// Summary lists the unmapped messages for a form-level error summary.
func (o Outcome) Summary() []string {
	messages := make([]string, 0, len(o.Unmapped))
	for _, failure := range o.Unmapped {
		messages = append(messages, failure.Message)
	}
	return normalizeMessages(messages)
}

// ApplyMappers places each failure on a field or, failing that, in Unmapped.
// Failures are processed in arrival order; when several mappers match the
// same failure the one supplied last wins, so callers compose base mappers
// before form specific ones. A later failure for a field overwrites an
// earlier one.
func ApplyMappers(failures []Failure, mappers ...FieldMessageMapper) Outcome {
	outcome := Outcome{
		FieldErrors: make(map[string]string),
	}

	for _, failure := range failures {
		if fieldErr, ok := matchFailure(failure, mappers); ok {
			outcome.FieldErrors[fieldErr.Field] = fieldErr.Message
			continue
		}
		outcome.Unmapped = append(outcome.Unmapped, unmappedFailure(failure))
	}

	return outcome
}

func matchFailure(failure Failure, mappers []FieldMessageMapper) (FieldError, bool) {
	for i := len(mappers) - 1; i >= 0; i-- {
		mapper := mappers[i]
		if mapper == nil {
			continue
		}
		if fieldErr, ok := mapper(failure); ok && fieldErr.Field != "" {
			return fieldErr, true
		}
	}
	return FieldError{}, false
}

func unmappedFailure(failure Failure) Failure {
	message := SanitizeMessage(failure.Message)
	if message == "" {
		message = DefaultMessage
	}
	out := Failure{
		Code:    failure.Code,
		Message: message,
	}
	if !failure.Path.IsZero() {
		out.Path = append(Path(nil), failure.Path...)
	}
	return out
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))

	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}
