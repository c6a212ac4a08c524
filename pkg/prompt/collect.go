// Package prompt collects form values on the terminal. It walks a form
// model field by field, seeding answers from existing values and showing the
// error currently attached to each field.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-formsubmit/pkg/model"
)

// Collector prompts for form values.
type Collector struct {
	driver      Driver
	logger      zerolog.Logger
	errorPrefix string
}

// Option configures a Collector.
type Option func(*Collector)

// WithDriver overrides the prompt driver.
func WithDriver(driver Driver) Option {
	return func(c *Collector) {
		if driver != nil {
			c.driver = driver
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Collector) {
		c.logger = logger
	}
}

// WithErrorPrefix changes the marker printed before field errors.
func WithErrorPrefix(prefix string) Option {
	return func(c *Collector) {
		c.errorPrefix = prefix
	}
}

// New builds a Collector backed by survey unless WithDriver is given.
func New(opts ...Option) *Collector {
	c := &Collector{
		logger:      zerolog.Nop(),
		errorPrefix: "Error:",
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.driver == nil {
		c.driver = NewSurveyDriver(nil)
	}
	return c
}

// Collect prompts for every field of m and returns the answers. values seeds
// defaults and is not modified. fieldErrors are keyed by dotted field path.
func (c *Collector) Collect(ctx context.Context, m model.FormModel, values Values, fieldErrors map[string]string) (Values, error) {
	if ctx == nil {
		return nil, errors.New("prompt: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if c.driver == nil {
		return nil, ErrNoDriver
	}

	run := &collection{
		Collector: c,
		values:    values.Clone(),
		errors:    fieldErrors,
	}
	if title := strings.TrimSpace(m.Title); title != "" {
		if err := c.driver.Info(ctx, title); err != nil {
			return nil, err
		}
	}
	for _, field := range m.Fields {
		if err := run.promptField(ctx, field, field.Name, field.DisplayLabel()); err != nil {
			return nil, err
		}
	}
	return run.values, nil
}

// Summary prints form-level messages the way an error summary lists them.
func (c *Collector) Summary(ctx context.Context, messages []string) error {
	if len(messages) == 0 {
		return nil
	}
	if err := c.driver.Info(ctx, "There is a problem"); err != nil {
		return err
	}
	for _, message := range messages {
		if err := c.driver.Info(ctx, "  - "+message); err != nil {
			return err
		}
	}
	return nil
}

type collection struct {
	*Collector
	values Values
	errors map[string]string
}

func (r *collection) promptField(ctx context.Context, field model.Field, path, label string) error {
	if !r.conditionsMet(field, path) {
		r.logger.Debug().Str("field", path).Msg("field hidden by condition")
		return r.values.Set(path, nil)
	}
	if message, ok := r.errors[path]; ok && message != "" {
		if err := r.driver.Info(ctx, fmt.Sprintf("%s %s: %s", r.errorPrefix, label, message)); err != nil {
			return err
		}
	}

	switch field.Type {
	case model.FieldTypeBoolean:
		return r.promptBoolean(ctx, field, path, label)
	case model.FieldTypeInteger:
		return r.promptInteger(ctx, field, path, label)
	case model.FieldTypeSelect:
		return r.promptSelect(ctx, field, path, label)
	case model.FieldTypeFile:
		return r.promptFile(ctx, field, path, label)
	case model.FieldTypeArray:
		return r.promptArray(ctx, field, path, label)
	case model.FieldTypeObject:
		return r.promptObject(ctx, field, path)
	default:
		return r.promptString(ctx, field, path, label)
	}
}

func (r *collection) conditionsMet(field model.Field, path string) bool {
	if len(field.When) == 0 {
		return true
	}
	parent := ""
	if idx := strings.LastIndex(path, "."); idx >= 0 {
		parent = path[:idx+1]
	}
	for name, want := range field.When {
		got, ok := r.values.Get(parent + name)
		if !ok || fmt.Sprint(got) != want {
			return false
		}
	}
	return true
}

func (r *collection) promptString(ctx context.Context, field model.Field, path, label string) error {
	defaultVal := r.stringValue(path, field.Default)
	validate, err := stringValidator(field)
	if err != nil {
		return err
	}

	for {
		var response string
		if field.Type == model.FieldTypeText {
			response, err = r.driver.TextArea(ctx, TextAreaConfig{
				Message: label,
				Default: defaultVal,
				Help:    field.Hint,
			})
		} else {
			response, err = r.driver.Input(ctx, InputConfig{
				Message:   label,
				Default:   defaultVal,
				Help:      field.Hint,
				Validator: validate,
			})
		}
		if err != nil {
			return err
		}
		if err := validate(response); err != nil {
			if err := r.driver.Info(ctx, fmt.Sprintf("%s %s: %v", r.errorPrefix, label, err)); err != nil {
				return err
			}
			continue
		}
		return r.values.Set(path, response)
	}
}

func (r *collection) promptBoolean(ctx context.Context, field model.Field, path, label string) error {
	defaultVal := false
	if current, ok := r.values.Get(path); ok {
		defaultVal, _ = current.(bool)
	} else if def, ok := field.Default.(bool); ok {
		defaultVal = def
	}
	resp, err := r.driver.Confirm(ctx, ConfirmConfig{
		Message: label,
		Default: defaultVal,
		Help:    field.Hint,
	})
	if err != nil {
		return err
	}
	return r.values.Set(path, resp)
}

func (r *collection) promptInteger(ctx context.Context, field model.Field, path, label string) error {
	defaultVal := r.stringValue(path, field.Default)
	for {
		input, err := r.driver.Input(ctx, InputConfig{
			Message: label,
			Default: defaultVal,
			Help:    field.Hint,
		})
		if err != nil {
			return err
		}
		input = strings.TrimSpace(input)
		if input == "" {
			if field.Required {
				if err := r.driver.Info(ctx, fmt.Sprintf("%s %s: required", r.errorPrefix, label)); err != nil {
					return err
				}
				continue
			}
			return r.values.Set(path, nil)
		}
		parsed, err := strconv.ParseInt(input, 10, 64)
		if err != nil {
			if err := r.driver.Info(ctx, fmt.Sprintf("%s %s: enter a whole number", r.errorPrefix, label)); err != nil {
				return err
			}
			continue
		}
		return r.values.Set(path, parsed)
	}
}

func (r *collection) promptSelect(ctx context.Context, field model.Field, path, label string) error {
	options := make([]string, len(field.Options))
	defaultIdx := -1
	current := r.stringValue(path, field.Default)
	for i, option := range field.Options {
		options[i] = option.Label
		if option.Value == current {
			defaultIdx = i
		}
	}

	for {
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      label,
			Options:      options,
			DefaultIndex: defaultIdx,
			Help:         field.Hint,
		})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(options) {
			if err := r.driver.Info(ctx, fmt.Sprintf("%s %s: choose one of the options", r.errorPrefix, label)); err != nil {
				return err
			}
			continue
		}
		return r.values.Set(path, field.Options[idx].Value)
	}
}

func (r *collection) promptFile(ctx context.Context, field model.Field, path, label string) error {
	help := field.Hint
	if len(field.Accept) > 0 {
		help = strings.TrimSpace(help + " Accepts " + strings.Join(field.Accept, ", "))
	}
	validate := fileValidator(field)

	for {
		input, err := r.driver.Input(ctx, InputConfig{
			Message:   label,
			Default:   r.stringValue(path, nil),
			Help:      help,
			Validator: validate,
		})
		if err != nil {
			return err
		}
		input = strings.TrimSpace(input)
		if err := validate(input); err != nil {
			if err := r.driver.Info(ctx, fmt.Sprintf("%s %s: %v", r.errorPrefix, label, err)); err != nil {
				return err
			}
			continue
		}
		if input == "" {
			return r.values.Set(path, nil)
		}
		return r.values.Set(path, input)
	}
}

func (r *collection) promptArray(ctx context.Context, field model.Field, path, label string) error {
	if field.Items == nil {
		return fmt.Errorf("prompt: array field %s missing items", path)
	}

	var existing []any
	if current, ok := r.values.Get(path); ok {
		existing, _ = current.([]any)
	}

	count := 0
	for range existing {
		if err := r.promptItem(ctx, field, path, label, count); err != nil {
			return err
		}
		count++
	}

	for {
		if !(field.Required && count == 0) {
			message := "Add " + strings.ToLower(label) + "?"
			if count > 0 {
				message = "Add another to " + strings.ToLower(label) + "?"
			}
			more, err := r.driver.Confirm(ctx, ConfirmConfig{Message: message})
			if err != nil {
				return err
			}
			if !more {
				break
			}
		}
		if err := r.promptItem(ctx, field, path, label, count); err != nil {
			return err
		}
		count++
	}

	items := make([]any, 0, count)
	for i := 0; i < count; i++ {
		item, _ := r.values.Get(path + "." + strconv.Itoa(i))
		items = append(items, item)
	}
	return r.values.Set(path, items)
}

func (r *collection) promptItem(ctx context.Context, field model.Field, path, label string, idx int) error {
	item := *field.Items
	itemLabel := fmt.Sprintf("%s %d", label, idx+1)
	if item.Label != "" {
		itemLabel = fmt.Sprintf("%s %d", item.Label, idx+1)
	}
	return r.promptField(ctx, item, path+"."+strconv.Itoa(idx), itemLabel)
}

func (r *collection) promptObject(ctx context.Context, field model.Field, path string) error {
	for _, child := range field.Nested {
		if err := r.promptField(ctx, child, path+"."+child.Name, child.DisplayLabel()); err != nil {
			return err
		}
	}
	return nil
}

func (r *collection) stringValue(path string, def any) string {
	if current, ok := r.values.Get(path); ok && current != nil {
		return fmt.Sprint(current)
	}
	if def != nil {
		return fmt.Sprint(def)
	}
	return ""
}

func stringValidator(field model.Field) (func(string) error, error) {
	var pattern *regexp.Regexp
	if field.Pattern != "" {
		var err error
		pattern, err = regexp.Compile(field.Pattern)
		if err != nil {
			return nil, fmt.Errorf("prompt: field %s pattern: %w", field.Name, err)
		}
	}
	return func(value string) error {
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			if field.Required {
				return errors.New("required")
			}
			return nil
		}
		if pattern != nil && !pattern.MatchString(trimmed) {
			return fmt.Errorf("must match %s", field.Pattern)
		}
		return nil
	}, nil
}

func fileValidator(field model.Field) func(string) error {
	return func(value string) error {
		value = strings.TrimSpace(value)
		if value == "" {
			if field.Required {
				return errors.New("choose a file")
			}
			return nil
		}
		file, err := model.FileFromPath(value)
		if err != nil {
			return fmt.Errorf("cannot read %s", value)
		}
		if len(field.Accept) == 0 {
			return nil
		}
		for _, ext := range field.Accept {
			if strings.EqualFold(ext, file.Extension()) {
				return nil
			}
		}
		return fmt.Errorf("file must be %s", strings.Join(field.Accept, " or "))
	}
}
