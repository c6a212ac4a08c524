package adminforms

import (
	"context"
	"net/http"

	"github.com/goliatone/go-formsubmit/pkg/model"
	"github.com/goliatone/go-formsubmit/pkg/schema"
)

// LegacyReleaseValues are the values of the legacy release form. Order is
// only edited for existing releases.
type LegacyReleaseValues struct {
	Description string `json:"description" validate:"required"`
	URL         string `json:"url" validate:"required,url"`
	Order       *int   `json:"order,omitempty"`
}

// NewLegacyReleaseForm builds the legacy release form. Seeding it with an
// order (WithInitialValues) turns on the order field, which is then
// required.
func NewLegacyReleaseForm(submit func(context.Context, LegacyReleaseValues) error, opts ...Option) *Form[LegacyReleaseValues] {
	cfg := newConfig(opts)
	initial := initialValues(cfg, LegacyReleaseValues{})
	withOrder := initial.Order != nil

	fields := []model.Field{
		{Name: "description", Type: model.FieldTypeString, Required: true},
		{Name: "url", Type: model.FieldTypeString, Label: "URL", Required: true},
	}
	if withOrder {
		fields = append(fields, model.Field{Name: "order", Type: model.FieldTypeInteger, Required: true})
	}

	return newForm(definition[LegacyReleaseValues]{
		model: model.FormModel{
			ID:       LegacyReleaseFormID,
			Title:    "Legacy release",
			Endpoint: "/api/legacy-releases",
			Method:   http.MethodPost,
			Fields:   fields,
		},
		initial: initial,
		schema: schema.New[LegacyReleaseValues](
			schema.WithMessages[LegacyReleaseValues](schema.Messages{
				"description.required": "Enter a description",
				"url.required":         "Enter a URL",
				"url.url":              "Enter a valid URL",
			}),
			schema.WithRefine[LegacyReleaseValues](func(v LegacyReleaseValues) map[string]string {
				switch {
				case !withOrder:
					return nil
				case v.Order == nil:
					return map[string]string{"order": "Enter an order"}
				case *v.Order < 0:
					return map[string]string{"order": "Enter an order greater than 0"}
				}
				return nil
			}),
		),
		submit: plain(submit),
	}, cfg)
}

// AncillaryFileValues are the editable details of an ancillary file.
type AncillaryFileValues struct {
	Title   string `json:"title" validate:"required"`
	Summary string `json:"summary" validate:"required"`
}

// NewAncillaryFileForm builds the edit ancillary file form.
func NewAncillaryFileForm(submit func(context.Context, AncillaryFileValues) error, opts ...Option) *Form[AncillaryFileValues] {
	cfg := newConfig(opts)
	return newForm(definition[AncillaryFileValues]{
		model: model.FormModel{
			ID:       AncillaryFileFormID,
			Title:    "Edit ancillary file",
			Endpoint: "/api/releases/{releaseId}/ancillary/{fileId}",
			Method:   http.MethodPut,
			Fields: []model.Field{
				{Name: "title", Type: model.FieldTypeString, Required: true},
				{Name: "summary", Type: model.FieldTypeText, Required: true},
			},
		},
		initial: initialValues(cfg, AncillaryFileValues{}),
		schema: schema.New[AncillaryFileValues](schema.WithMessages[AncillaryFileValues](schema.Messages{
			"title.required":   "Enter a title",
			"summary.required": "Enter a summary",
		})),
		submit: plain(submit),
	}, cfg)
}
