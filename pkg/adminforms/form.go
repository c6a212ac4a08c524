package adminforms

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-formsubmit/pkg/form"
	"github.com/goliatone/go-formsubmit/pkg/model"
	"github.com/goliatone/go-formsubmit/pkg/schema"
	"github.com/goliatone/go-formsubmit/pkg/validation"
)

// Entry is the untyped view of a Form used by the catalog and the CLI.
type Entry interface {
	Model() model.FormModel
	Values() map[string]any
	Bind(values map[string]any) error
	Submit(ctx context.Context) (form.Result, error)
	FieldErrors() map[string]string
	Summary() []string
	Destroy()
}

// Form bundles one form instance with its coordinator.
type Form[V any] struct {
	model   model.FormModel
	state   *form.State[V]
	schema  *schema.Schema[V]
	handler *form.Handler[V]
}

var _ Entry = (*Form[struct{}])(nil)

// Model returns the field layout.
func (f *Form[V]) Model() model.FormModel { return f.model }

// State returns the form instance.
func (f *Form[V]) State() *form.State[V] { return f.state }

// Schema returns the client-side checks.
func (f *Form[V]) Schema() *schema.Schema[V] { return f.schema }

// Handler returns the submission coordinator.
func (f *Form[V]) Handler() *form.Handler[V] { return f.handler }

// Submit runs one submission attempt.
func (f *Form[V]) Submit(ctx context.Context) (form.Result, error) {
	return f.handler.Submit(ctx)
}

// FieldErrors returns the errors currently shown on fields.
func (f *Form[V]) FieldErrors() map[string]string { return f.state.FieldErrors() }

// Summary returns the form-level messages.
func (f *Form[V]) Summary() []string { return f.state.Summary() }

// Destroy discards the instance; in-flight submissions finish without
// touching it.
func (f *Form[V]) Destroy() { f.state.Destroy() }

// Values renders the current values as a JSON-shaped tree. Files are reduced
// to their path.
func (f *Form[V]) Values() map[string]any {
	data, err := json.Marshal(f.state.Values())
	if err != nil {
		return map[string]any{}
	}
	out := make(map[string]any)
	if err := json.Unmarshal(data, &out); err != nil {
		return map[string]any{}
	}
	for _, field := range f.model.Fields {
		if field.Type != model.FieldTypeFile {
			continue
		}
		switch file := out[field.Name].(type) {
		case nil:
			delete(out, field.Name)
		case map[string]any:
			if path, _ := file["path"].(string); path != "" {
				out[field.Name] = path
			} else {
				delete(out, field.Name)
			}
		}
	}
	return out
}

// Bind overwrites the fields named in values, leaving the others as they
// are. File fields take a path.
func (f *Form[V]) Bind(values map[string]any) error {
	data, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("adminforms: %s: encode values: %w", f.model.ID, err)
	}
	var decoded V
	if err := json.Unmarshal(data, &decoded); err != nil {
		return fmt.Errorf("adminforms: %s: decode values: %w", f.model.ID, err)
	}

	current := f.state.Values()
	merged, ok := mergeNamed(current, decoded, values)
	if !ok {
		merged = decoded
	}
	f.state.SetValues(merged)
	return nil
}

// mergeNamed copies the struct fields whose JSON names appear in keys from
// src into dst.
func mergeNamed[V any](dst, src V, keys map[string]any) (V, bool) {
	dv := reflect.ValueOf(&dst).Elem()
	if dv.Kind() != reflect.Struct {
		return dst, false
	}
	sv := reflect.ValueOf(src)
	for i := 0; i < dv.NumField(); i++ {
		sf := dv.Type().Field(i)
		if !sf.IsExported() {
			continue
		}
		name := strings.SplitN(sf.Tag.Get("json"), ",", 2)[0]
		if name == "" {
			name = sf.Name
		}
		if _, ok := keys[name]; ok {
			dv.Field(i).Set(sv.Field(i))
		}
	}
	return dst, true
}

// Option configures the forms built by this package.
type Option func(*config)

type config struct {
	logger    zerolog.Logger
	observer  form.Observer
	mappings  *validation.MappingSet
	extra     []validation.FieldMapping
	initial   any
	onSuccess func(ctx context.Context, formID string)
	onReset   func(formID, field string)
}

// WithLogger sets the logger passed to the coordinator.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithObserver receives submission lifecycle events.
func WithObserver(observer form.Observer) Option {
	return func(c *config) {
		c.observer = observer
	}
}

// WithMappingSet adds the mappings a set declares for the form's id. They
// are composed after the built-in mappings and take precedence.
func WithMappingSet(set *validation.MappingSet) Option {
	return func(c *config) {
		c.mappings = set
	}
}

// WithMappings adds mappings composed after the built-in ones.
func WithMappings(mappings ...validation.FieldMapping) Option {
	return func(c *config) {
		c.extra = append(c.extra, mappings...)
	}
}

// WithInitialValues seeds the form. The value must have the form's values
// type; other types are ignored.
func WithInitialValues(values any) Option {
	return func(c *config) {
		c.initial = values
	}
}

// WithOnSuccess runs after every successful submission.
func WithOnSuccess(fn func(ctx context.Context, formID string)) Option {
	return func(c *config) {
		c.onSuccess = fn
	}
}

// WithResetHook is called for each file field cleared when a form resets.
func WithResetHook(fn func(formID, field string)) Option {
	return func(c *config) {
		c.onReset = fn
	}
}

func newConfig(opts []Option) config {
	cfg := config{logger: zerolog.Nop()}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

func initialValues[V any](cfg config, fallback V) V {
	switch v := cfg.initial.(type) {
	case V:
		return v
	case *V:
		if v != nil {
			return *v
		}
	}
	return fallback
}

// definition describes one form for newForm.
type definition[V any] struct {
	model    model.FormModel
	initial  V
	schema   *schema.Schema[V]
	submit   form.SubmitFunc[V]
	mappings []validation.FieldMapping
	// dynamic mappings are derived from the values of the failing attempt
	// and composed after the static ones.
	dynamic func(V) []validation.FieldMapping
}

func newForm[V any](def definition[V], cfg config) *Form[V] {
	state := form.NewState(def.initial)

	static := validation.MapAll(def.mappings...)
	custom := validation.MapAll(cfg.extra...)
	if cfg.mappings != nil {
		custom = append(custom, cfg.mappings.Mappers(def.model.ID)...)
	}
	dynamic := def.dynamic
	mappers := func(values V) []validation.FieldMessageMapper {
		out := append([]validation.FieldMessageMapper(nil), static...)
		if dynamic != nil {
			out = append(out, validation.MapAll(dynamic(values)...)...)
		}
		return append(out, custom...)
	}

	opts := []form.Option[V]{
		form.WithModel[V](def.model),
		form.WithLogger[V](cfg.logger),
		form.WithMapperFunc(mappers),
	}
	if def.schema != nil {
		opts = append(opts, form.WithSchema[V](def.schema))
	}
	if cfg.observer != nil {
		opts = append(opts, form.WithObserver[V](cfg.observer))
	}
	if cfg.onSuccess != nil {
		id := def.model.ID
		onSuccess := cfg.onSuccess
		opts = append(opts, form.WithOnSuccess(func(ctx context.Context, _ V) {
			onSuccess(ctx, id)
		}))
	}

	for _, field := range def.model.Fields {
		if field.Type != model.FieldTypeFile {
			continue
		}
		name := field.Name
		logger := cfg.logger
		onReset := cfg.onReset
		state.OnReset(name, func() {
			logger.Debug().Str("form", def.model.ID).Str("field", name).Msg("file input cleared")
			if onReset != nil {
				onReset(def.model.ID, name)
			}
		})
	}

	return &Form[V]{
		model:   def.model,
		state:   state,
		schema:  def.schema,
		handler: form.WrapSubmit[V](state, def.submit, opts...),
	}
}

// plain adapts a submit callback that does not need form actions.
func plain[V any](fn func(context.Context, V) error) form.SubmitFunc[V] {
	return func(ctx context.Context, values V, _ form.Actions) error {
		if fn == nil {
			return nil
		}
		return fn(ctx, values)
	}
}
