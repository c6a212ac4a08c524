package model

import (
	"errors"
	"fmt"
	"strings"
)

// FieldType is the simplified enum for form-friendly field kinds.
type FieldType string

const (
	FieldTypeString  FieldType = "string"
	FieldTypeText    FieldType = "text"
	FieldTypeInteger FieldType = "integer"
	FieldTypeBoolean FieldType = "boolean"
	FieldTypeSelect  FieldType = "select"
	FieldTypeFile    FieldType = "file"
	FieldTypeArray   FieldType = "array"
	FieldTypeObject  FieldType = "object"
)

// Option is a selectable value for select fields.
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Hint  string `json:"hint,omitempty"`
}

// Field models an individual input inside a form.
type Field struct {
	Name     string    `json:"name"`
	Type     FieldType `json:"type"`
	Label    string    `json:"label,omitempty"`
	Hint     string    `json:"hint,omitempty"`
	Required bool      `json:"required"`
	Default  any       `json:"default,omitempty"`
	Options  []Option  `json:"options,omitempty"`
	// Accept lists file extensions for file inputs, e.g. ".csv".
	Accept []string `json:"accept,omitempty"`
	// Pattern is a regular expression checked by interactive front ends
	// before values reach the validation schema.
	Pattern string `json:"pattern,omitempty"`
	// When limits prompting to states where another field holds a value,
	// keyed by field name, e.g. {"uploadType": "zip"}.
	When   map[string]string `json:"when,omitempty"`
	Nested []Field           `json:"nested,omitempty"`
	Items  *Field            `json:"items,omitempty"`
}

// DisplayLabel returns Label or a label derived from Name.
func (f Field) DisplayLabel() string {
	if strings.TrimSpace(f.Label) != "" {
		return f.Label
	}
	return DefaultLabeler(f.Name)
}

// FormModel is the declared layout of a form.
type FormModel struct {
	ID       string  `json:"id"`
	Title    string  `json:"title,omitempty"`
	Endpoint string  `json:"endpoint"`
	Method   string  `json:"method"`
	Fields   []Field `json:"fields"`
}

var (
	errFormIDMissing       = errors.New("model: form id is required")
	errFormEndpointMissing = errors.New("model: form endpoint is required")
	errFormMethodMissing   = errors.New("model: form method is required")
)

// Validate checks the layout is usable.
func (m FormModel) Validate() error {
	if strings.TrimSpace(m.ID) == "" {
		return errFormIDMissing
	}
	if strings.TrimSpace(m.Endpoint) == "" {
		return errFormEndpointMissing
	}
	if strings.TrimSpace(m.Method) == "" {
		return errFormMethodMissing
	}
	seen := make(map[string]struct{}, len(m.Fields))
	for _, field := range m.Fields {
		if err := validateField(field); err != nil {
			return fmt.Errorf("model: form %s: %w", m.ID, err)
		}
		if _, dup := seen[field.Name]; dup {
			return fmt.Errorf("model: form %s: duplicate field %q", m.ID, field.Name)
		}
		seen[field.Name] = struct{}{}
	}
	return nil
}

// Field returns the top-level field with the given name.
func (m FormModel) Field(name string) (Field, bool) {
	for _, field := range m.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

func validateField(field Field) error {
	if strings.TrimSpace(field.Name) == "" {
		return errors.New("field name is required")
	}
	if field.Type == FieldTypeSelect && len(field.Options) == 0 {
		return fmt.Errorf("select field %q requires options", field.Name)
	}
	if field.Type == FieldTypeArray && field.Items == nil {
		return fmt.Errorf("array field %q requires items", field.Name)
	}
	for _, nested := range field.Nested {
		if err := validateField(nested); err != nil {
			return err
		}
	}
	return nil
}
