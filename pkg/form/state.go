package form

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/goliatone/go-formsubmit/pkg/validation"
)

// State holds one form instance: current and initial values, field errors
// keyed by dotted path, the form-level summary, the submitting flag and the
// liveness token. It is safe for concurrent use.
type State[V any] struct {
	id string

	mu         sync.RWMutex
	initial    V
	values     V
	errors     map[string]string
	formErrors []validation.Failure
	resetters  []resetter

	submitting atomic.Bool
	ctx        context.Context
	cancel     context.CancelFunc
}

type resetter struct {
	field string
	fn    func()
}

var _ Target[struct{}] = (*State[struct{}])(nil)

// NewState seeds a form instance with its initial values.
func NewState[V any](initial V) *State[V] {
	ctx, cancel := context.WithCancel(context.Background())
	return &State[V]{
		id:      uuid.NewString(),
		initial: initial,
		values:  initial,
		errors:  make(map[string]string),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// ID identifies the instance in logs.
func (s *State[V]) ID() string {
	return s.id
}

// Values returns the current values.
func (s *State[V]) Values() V {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values
}

// SetValues replaces the current values.
func (s *State[V]) SetValues(values V) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = values
}

// Update mutates the current values in place under the state lock.
func (s *State[V]) Update(fn func(values *V)) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.values)
}

// Submitting reports whether a submission is in flight.
func (s *State[V]) Submitting() bool {
	return s.submitting.Load()
}

// BeginSubmit flips the submitting flag on. It returns false when a
// submission is already in flight or the instance has been destroyed.
func (s *State[V]) BeginSubmit() bool {
	if !s.Live() {
		return false
	}
	return s.submitting.CompareAndSwap(false, true)
}

// EndSubmit flips the submitting flag off.
func (s *State[V]) EndSubmit() {
	s.submitting.Store(false)
}

// SetFieldError places a message on a field. An empty message clears it.
func (s *State[V]) SetFieldError(field, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if message == "" {
		delete(s.errors, field)
		return
	}
	s.errors[field] = message
}

// FieldError returns the message attached to a field.
func (s *State[V]) FieldError(field string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	message, ok := s.errors[field]
	return message, ok
}

// FieldErrors returns a copy of all field errors.
func (s *State[V]) FieldErrors() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.errors))
	for field, message := range s.errors {
		out[field] = message
	}
	return out
}

// SetFormErrors replaces the form-level failures shown in the error summary.
func (s *State[V]) SetFormErrors(failures []validation.Failure) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.formErrors = append([]validation.Failure(nil), failures...)
}

// FormErrors returns a copy of the form-level failures.
func (s *State[V]) FormErrors() []validation.Failure {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]validation.Failure(nil), s.formErrors...)
}

// Summary lists the form-level messages in order, de-duplicated.
func (s *State[V]) Summary() []string {
	return validation.Outcome{Unmapped: s.FormErrors()}.Summary()
}

// HasErrors reports whether any field or form-level error is set.
func (s *State[V]) HasErrors() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.errors) > 0 || len(s.formErrors) > 0
}

// ClearErrors removes all field and form-level errors.
func (s *State[V]) ClearErrors() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors = make(map[string]string)
	s.formErrors = nil
}

// OnReset registers a callback run by Reset for a field, such as clearing
// the selection of a file input that the values alone cannot express.
func (s *State[V]) OnReset(field string, fn func()) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetters = append(s.resetters, resetter{field: field, fn: fn})
}

// ResetFields lists the fields with reset callbacks, sorted.
func (s *State[V]) ResetFields() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]struct{}, len(s.resetters))
	var fields []string
	for _, r := range s.resetters {
		if _, ok := seen[r.field]; ok {
			continue
		}
		seen[r.field] = struct{}{}
		fields = append(fields, r.field)
	}
	sort.Strings(fields)
	return fields
}

// Reset restores the initial values, clears errors and runs the reset
// callbacks in registration order. Callbacks run outside the lock so they may
// read the state.
func (s *State[V]) Reset() {
	s.mu.Lock()
	s.values = s.initial
	s.errors = make(map[string]string)
	s.formErrors = nil
	callbacks := make([]func(), 0, len(s.resetters))
	for _, r := range s.resetters {
		callbacks = append(callbacks, r.fn)
	}
	s.mu.Unlock()

	for _, fn := range callbacks {
		fn()
	}
}

// Destroy marks the instance as gone. Pending submissions complete without
// touching it.
func (s *State[V]) Destroy() {
	s.cancel()
}

// Live reports whether the instance has not been destroyed.
func (s *State[V]) Live() bool {
	return s.ctx.Err() == nil
}

// Done is closed when the instance is destroyed.
func (s *State[V]) Done() <-chan struct{} {
	return s.ctx.Done()
}
