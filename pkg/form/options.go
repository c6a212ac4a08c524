package form

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-formsubmit/pkg/model"
	"github.com/goliatone/go-formsubmit/pkg/validation"
)

// Validator runs client-side checks before the submit function is called.
// *schema.Schema satisfies it.
type Validator[V any] interface {
	Validate(values V) (map[string]string, error)
}

// Option configures a Handler.
type Option[V any] func(*Handler[V])

// WithMappers appends field message mappers applied to every attempt.
func WithMappers[V any](mappers ...validation.FieldMessageMapper) Option[V] {
	return func(h *Handler[V]) {
		h.mappers = append(h.mappers, mappers...)
	}
}

// WithMappings compiles and appends declarative field mappings.
func WithMappings[V any](mappings ...validation.FieldMapping) Option[V] {
	return WithMappers[V](validation.MapAll(mappings...)...)
}

// WithMapperFunc derives extra mappers from the values of the failing
// attempt, e.g. different targets for ZIP and CSV uploads. Its mappers come
// after the static ones and therefore take precedence.
func WithMapperFunc[V any](fn func(values V) []validation.FieldMessageMapper) Option[V] {
	return func(h *Handler[V]) {
		h.mapperFn = fn
	}
}

// WithSchema installs client-side validation.
func WithSchema[V any](schema Validator[V]) Option[V] {
	return func(h *Handler[V]) {
		h.schema = schema
	}
}

// WithOnSuccess registers the continuation run once after a successful
// submission.
func WithOnSuccess[V any](fn func(ctx context.Context, values V)) Option[V] {
	return func(h *Handler[V]) {
		h.onSuccess = fn
	}
}

// WithModel names the form after the model and lands mapped field errors on
// declared fields. Mapped errors for paths the model does not declare fall
// back to the form-level summary.
func WithModel[V any](m model.FormModel) Option[V] {
	return func(h *Handler[V]) {
		if m.ID != "" {
			h.formID = m.ID
		}
		if len(m.Fields) > 0 {
			h.resolve = m.ResolveField
		}
	}
}

// WithFormID names the form in logs and metrics.
func WithFormID[V any](id string) Option[V] {
	return func(h *Handler[V]) {
		if id != "" {
			h.formID = id
		}
	}
}

// WithLogger sets the logger. The default discards output.
func WithLogger[V any](logger zerolog.Logger) Option[V] {
	return func(h *Handler[V]) {
		h.logger = logger
	}
}

// WithObserver receives submission lifecycle events.
func WithObserver[V any](observer Observer) Option[V] {
	return func(h *Handler[V]) {
		if observer != nil {
			h.observer = observer
		}
	}
}

// WithClock overrides time.Now for duration measurements.
func WithClock[V any](now func() time.Time) Option[V] {
	return func(h *Handler[V]) {
		if now != nil {
			h.now = now
		}
	}
}

// Observer receives submission lifecycle events.
type Observer interface {
	SubmitStarted(formID string)
	SubmitFinished(formID string, status Status, elapsed time.Duration)
}

type nopObserver struct{}

func (nopObserver) SubmitStarted(string) {}

func (nopObserver) SubmitFinished(string, Status, time.Duration) {}
