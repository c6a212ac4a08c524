// Package schema runs client-side shape checks on form values before they are
// submitted. Rules are declared with go-playground/validator struct tags;
// messages are looked up per field and rule so each form keeps its own copy.
package schema

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/goliatone/go-formsubmit/pkg/model"
)

// FileMinSize reports whether an uploaded file is absent or larger than min
// bytes. Refiners use it for conditional upload checks.
func FileMinSize(file *model.File, min int64) bool {
	return file == nil || file.Size > min
}

// Messages maps "field.rule" (or just "rule") onto the text shown for a
// failed check, e.g. {"title.required": "Enter a title"}.
type Messages map[string]string

// RefineFunc adds cross-field checks that struct tags cannot express. It
// returns field errors keyed by field path.
type RefineFunc[V any] func(values V) map[string]string

// Schema validates values of type V.
type Schema[V any] struct {
	messages Messages
	refiners []RefineFunc[V]
}

// Option configures a Schema.
type Option[V any] func(*Schema[V])

// WithMessages registers message copy for rules.
func WithMessages[V any](messages Messages) Option[V] {
	return func(s *Schema[V]) {
		for key, message := range messages {
			s.messages[strings.TrimSpace(key)] = message
		}
	}
}

// WithRefine appends a cross-field check. Refiners run after tag validation
// and only set errors on fields tags left clean.
func WithRefine[V any](fn RefineFunc[V]) Option[V] {
	return func(s *Schema[V]) {
		if fn != nil {
			s.refiners = append(s.refiners, fn)
		}
	}
}

// New builds a Schema for V.
func New[V any](opts ...Option[V]) *Schema[V] {
	s := &Schema[V]{messages: make(Messages)}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Validate returns field errors keyed by JSON field path. A nil map means the
// values passed every check.
func (s *Schema[V]) Validate(values V) (map[string]string, error) {
	if s == nil {
		return nil, nil
	}

	out := make(map[string]string)
	if err := engine().Struct(values); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return nil, fmt.Errorf("schema: validate: %w", err)
		}
		for _, fieldErr := range fieldErrs {
			path := fieldPath(fieldErr.Namespace())
			if _, exists := out[path]; exists {
				continue
			}
			out[path] = s.message(path, fieldErr)
		}
	}

	for _, refine := range s.refiners {
		for path, message := range refine(values) {
			if _, exists := out[path]; exists {
				continue
			}
			out[path] = message
		}
	}

	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

func (s *Schema[V]) message(path string, fieldErr validator.FieldError) string {
	rule := fieldErr.Tag()
	if message, ok := s.messages[path+"."+rule]; ok {
		return message
	}
	if message, ok := s.messages[rule]; ok {
		return message
	}
	if message, ok := defaultMessages[rule]; ok {
		return message
	}
	return "Enter a valid value"
}

var defaultMessages = map[string]string{
	"required": "This field is required",
	"email":    "Enter a valid email address",
	"url":      "Enter a valid URL",
	"oneof":    "Choose one of the allowed values",
	"min":      "Value is too short",
	"max":      "Value is too long",
	"numeric":  "Enter a number",
}

// fieldPath drops the struct name from a validator namespace, keeping the
// JSON names registered by the tag name function.
func fieldPath(namespace string) string {
	if idx := strings.Index(namespace, "."); idx >= 0 {
		namespace = namespace[idx+1:]
	}
	namespace = strings.NewReplacer("[", ".", "]", "").Replace(namespace)
	return namespace
}

var engine = sync.OnceValue(func() *validator.Validate {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	return validate
})
