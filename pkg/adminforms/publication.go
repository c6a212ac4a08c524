package adminforms

import (
	"context"
	"net/http"

	"github.com/goliatone/go-formsubmit/pkg/model"
	"github.com/goliatone/go-formsubmit/pkg/schema"
)

// PublicationContactValues are the values of the publication contact form.
type PublicationContactValues struct {
	TeamName     string `json:"teamName" validate:"required"`
	TeamEmail    string `json:"teamEmail" validate:"required,email"`
	ContactName  string `json:"contactName" validate:"required"`
	ContactTelNo string `json:"contactTelNo" validate:"required"`
}

// NewPublicationContactForm builds the publication contact form seeded with
// the current contact.
func NewPublicationContactForm(initial PublicationContactValues, submit func(context.Context, PublicationContactValues) error, opts ...Option) *Form[PublicationContactValues] {
	cfg := newConfig(opts)
	return newForm(definition[PublicationContactValues]{
		model: model.FormModel{
			ID:       PublicationContactFormID,
			Title:    "Contact for this publication",
			Endpoint: "/api/publications/{publicationId}/contact",
			Method:   http.MethodPost,
			Fields: []model.Field{
				{Name: "teamName", Type: model.FieldTypeString, Required: true},
				{Name: "teamEmail", Type: model.FieldTypeString, Required: true},
				{Name: "contactName", Type: model.FieldTypeString, Required: true},
				{Name: "contactTelNo", Type: model.FieldTypeString, Label: "Contact telephone", Required: true},
			},
		},
		initial: initialValues(cfg, initial),
		schema: schema.New[PublicationContactValues](schema.WithMessages[PublicationContactValues](schema.Messages{
			"teamName.required":     "Enter a team name",
			"teamEmail.required":    "Enter a team email",
			"teamEmail.email":       "Enter a valid team email",
			"contactName.required":  "Enter a contact name",
			"contactTelNo.required": "Enter a contact telephone",
		})),
		submit: plain(submit),
	}, cfg)
}
