// Package formsubmit maps structured server validation failures onto form
// fields and coordinates form submissions. The root package re-exports the
// common entry points of pkg/validation and pkg/form.
package formsubmit

import (
	"github.com/goliatone/go-formsubmit/pkg/form"
	"github.com/goliatone/go-formsubmit/pkg/validation"
)

// Failure is one problem reported by a service.
type Failure = validation.Failure

// Path addresses a field; numeric segments index arrays.
type Path = validation.Path

// FieldMapping declares the messages shown on one field for failure codes.
type FieldMapping = validation.FieldMapping

// FieldMessageMapper turns a recognised failure into a field error.
type FieldMessageMapper = validation.FieldMessageMapper

// Outcome is the result of applying mappers to a list of failures.
type Outcome = validation.Outcome

// ValidationError is the error services return for rejected submissions.
type ValidationError = validation.Error

// Result describes one submission attempt.
type Result = form.Result

// Actions lets a submit function touch its form.
type Actions = form.Actions

// MapFieldErrors compiles a mapping into a mapper.
func MapFieldErrors(mapping FieldMapping) FieldMessageMapper {
	return validation.MapFieldErrors(mapping)
}

// ApplyMappers partitions failures into field errors and unmapped failures.
// When several mappers match a failure, the one listed last wins.
func ApplyMappers(failures []Failure, mappers ...FieldMessageMapper) Outcome {
	return validation.ApplyMappers(failures, mappers...)
}

// NewValidationError wraps failures in a validation-shaped error.
func NewValidationError(failures ...Failure) *ValidationError {
	return validation.NewError(failures...)
}

// NewState creates a form instance seeded with initial values.
func NewState[V any](initial V) *form.State[V] {
	return form.NewState(initial)
}

// WrapSubmit binds a submit function to a form instance.
func WrapSubmit[V any](target form.Target[V], fn form.SubmitFunc[V], opts ...form.Option[V]) *form.Handler[V] {
	return form.WrapSubmit(target, fn, opts...)
}
