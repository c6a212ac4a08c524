package adminforms

import (
	"context"
	"net/http"

	"github.com/goliatone/go-formsubmit/pkg/model"
	"github.com/goliatone/go-formsubmit/pkg/schema"
	"github.com/goliatone/go-formsubmit/pkg/validation"
)

// ThemeValues are the values of the theme form.
type ThemeValues struct {
	Title   string `json:"title" validate:"required"`
	Summary string `json:"summary" validate:"required"`
}

var themeMappings = []validation.FieldMapping{
	{
		Target: "title",
		Messages: map[string]string{
			"SlugNotUnique": "Enter a unique title",
		},
	},
}

// NewThemeForm builds the create/edit theme form.
func NewThemeForm(submit func(context.Context, ThemeValues) error, opts ...Option) *Form[ThemeValues] {
	cfg := newConfig(opts)
	return newForm(definition[ThemeValues]{
		model: model.FormModel{
			ID:       ThemeFormID,
			Title:    "Theme",
			Endpoint: "/api/themes",
			Method:   http.MethodPost,
			Fields: []model.Field{
				{Name: "title", Type: model.FieldTypeString, Required: true},
				{Name: "summary", Type: model.FieldTypeString, Required: true},
			},
		},
		initial: initialValues(cfg, ThemeValues{}),
		schema: schema.New[ThemeValues](schema.WithMessages[ThemeValues](schema.Messages{
			"title.required":   "Enter a title",
			"summary.required": "Enter a summary",
		})),
		submit:   plain(submit),
		mappings: themeMappings,
	}, cfg)
}
