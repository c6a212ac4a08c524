package form

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-formsubmit/pkg/validation"
)

// Target is the form state a Handler writes to. *State implements it.
type Target[V any] interface {
	Values() V
	BeginSubmit() bool
	EndSubmit()
	SetFieldError(field, message string)
	SetFormErrors(failures []validation.Failure)
	ClearErrors()
	Reset()
	Live() bool
}

// SubmitFunc sends the values to a service. Returning an error that carries
// validation failures (see validation.AsFailures) marks the attempt invalid;
// any other error is unexpected.
type SubmitFunc[V any] func(ctx context.Context, values V, actions Actions) error

// Actions lets a submit function touch the form. Every action is a no-op once
// the form instance has been destroyed.
type Actions struct {
	target actionTarget
}

type actionTarget interface {
	Reset()
	SetFieldError(field, message string)
	Live() bool
}

// ResetForm restores the initial values and runs field reset callbacks.
func (a Actions) ResetForm() {
	if a.target != nil && a.target.Live() {
		a.target.Reset()
	}
}

// SetFieldError places a message on a field.
func (a Actions) SetFieldError(field, message string) {
	if a.target != nil && a.target.Live() {
		a.target.SetFieldError(field, message)
	}
}

// Live reports whether the form instance still exists.
func (a Actions) Live() bool {
	return a.target != nil && a.target.Live()
}

// Status is the terminal state of one submission attempt.
type Status int

const (
	// StatusIgnored means another submission was already in flight.
	StatusIgnored Status = iota
	// StatusSucceeded means the submit function returned nil.
	StatusSucceeded
	// StatusInvalid means client-side or server validation failed.
	StatusInvalid
	// StatusFailed means the submit function failed unexpectedly.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIgnored:
		return "ignored"
	case StatusSucceeded:
		return "succeeded"
	case StatusInvalid:
		return "invalid"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Result describes one submission attempt. Outcome is set for invalid
// attempts.
type Result struct {
	Status  Status
	Outcome validation.Outcome
}

// Handler coordinates submissions for one form instance: single-flight
// guarding, client-side validation, mapping of server failures onto fields
// and escalation of unexpected failures.
type Handler[V any] struct {
	target    Target[V]
	submit    SubmitFunc[V]
	mappers   []validation.FieldMessageMapper
	mapperFn  func(V) []validation.FieldMessageMapper
	schema    Validator[V]
	onSuccess func(context.Context, V)
	resolve   func(string) (string, bool)
	formID    string
	logger    zerolog.Logger
	observer  Observer
	now       func() time.Time
}

// WrapSubmit binds fn to a form instance.
func WrapSubmit[V any](target Target[V], fn SubmitFunc[V], opts ...Option[V]) *Handler[V] {
	h := &Handler[V]{
		target:   target,
		submit:   fn,
		logger:   zerolog.Nop(),
		observer: nopObserver{},
		now:      time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	if ider, ok := target.(interface{ ID() string }); ok {
		h.logger = h.logger.With().Str("form_instance", ider.ID()).Logger()
	}
	if h.formID != "" {
		h.logger = h.logger.With().Str("form", h.formID).Logger()
	}
	return h
}

// FormID returns the configured form name.
func (h *Handler[V]) FormID() string {
	return h.formID
}

// Submit runs one attempt. Unexpected failures are returned as *SubmitError
// after the submitting flag has been cleared; validation failures are written
// to the form and reported through the Result with a nil error. A call made
// while another attempt is in flight returns StatusIgnored without calling the
// submit function.
func (h *Handler[V]) Submit(ctx context.Context) (Result, error) {
	if ctx == nil {
		return Result{}, ErrNilContext
	}
	if h.target == nil || h.submit == nil {
		return Result{}, fmt.Errorf("form: handler is not bound to a target and submit function")
	}
	if !h.target.BeginSubmit() {
		h.logger.Debug().Msg("submit ignored, attempt already in flight or form destroyed")
		return Result{Status: StatusIgnored}, nil
	}

	started := h.now()
	status := StatusFailed
	h.observer.SubmitStarted(h.formID)
	defer func() {
		if h.target.Live() {
			h.target.EndSubmit()
		}
		h.observer.SubmitFinished(h.formID, status, h.now().Sub(started))
	}()

	if h.target.Live() {
		h.target.ClearErrors()
	}
	values := h.target.Values()

	if h.schema != nil {
		fieldErrs, err := h.schema.Validate(values)
		if err != nil {
			h.logger.Error().Err(err).Msg("client-side validation failed to run")
			return Result{Status: StatusFailed}, &SubmitError{FormID: h.formID, Err: err}
		}
		if len(fieldErrs) > 0 {
			status = StatusInvalid
			outcome := validation.Outcome{FieldErrors: fieldErrs}
			h.apply(outcome)
			h.logger.Debug().Int("field_errors", len(fieldErrs)).Msg("submit blocked by client-side validation")
			return Result{Status: StatusInvalid, Outcome: outcome}, nil
		}
	}

	h.logger.Debug().Msg("submitting form")
	err := h.submit(ctx, values, Actions{target: h.target})
	if err == nil {
		status = StatusSucceeded
		if h.onSuccess != nil {
			h.onSuccess(ctx, values)
		}
		h.logger.Info().Dur("elapsed", h.now().Sub(started)).Msg("form submitted")
		return Result{Status: StatusSucceeded}, nil
	}

	failures, ok := validation.AsFailures(err)
	if !ok {
		h.logger.Error().Err(err).Msg("form submission failed unexpectedly")
		return Result{Status: StatusFailed}, &SubmitError{FormID: h.formID, Err: err}
	}

	status = StatusInvalid
	outcome := validation.ApplyMappers(failures, h.mappersFor(values)...)
	h.apply(outcome)
	h.logger.Info().
		Int("field_errors", len(outcome.FieldErrors)).
		Int("unmapped", len(outcome.Unmapped)).
		Msg("form rejected by server validation")
	return Result{Status: StatusInvalid, Outcome: outcome}, nil
}

func (h *Handler[V]) mappersFor(values V) []validation.FieldMessageMapper {
	mappers := append([]validation.FieldMessageMapper(nil), h.mappers...)
	if h.mapperFn != nil {
		mappers = append(mappers, h.mapperFn(values)...)
	}
	if h.resolve == nil {
		return mappers
	}
	for i, mapper := range mappers {
		mappers[i] = resolvingMapper(mapper, h.resolve)
	}
	return mappers
}

// resolvingMapper only reports a match when the mapped field lands on a
// declared field, so unknown targets fall through to the summary.
func resolvingMapper(mapper validation.FieldMessageMapper, resolve func(string) (string, bool)) validation.FieldMessageMapper {
	if mapper == nil {
		return nil
	}
	return func(failure validation.Failure) (validation.FieldError, bool) {
		fieldErr, ok := mapper(failure)
		if !ok {
			return validation.FieldError{}, false
		}
		field, ok := resolve(fieldErr.Field)
		if !ok {
			return validation.FieldError{}, false
		}
		fieldErr.Field = field
		return fieldErr, true
	}
}

func (h *Handler[V]) apply(outcome validation.Outcome) {
	if !h.target.Live() {
		h.logger.Debug().Msg("form destroyed before outcome could be applied")
		return
	}
	for field, message := range outcome.FieldErrors {
		h.target.SetFieldError(field, message)
	}
	h.target.SetFormErrors(outcome.Unmapped)
}
