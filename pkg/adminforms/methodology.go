package adminforms

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/goliatone/go-formsubmit/pkg/model"
	"github.com/goliatone/go-formsubmit/pkg/schema"
	"github.com/goliatone/go-formsubmit/pkg/validation"
)

// Methodology title types.
const (
	TitleTypeDefault     = "default"
	TitleTypeAlternative = "alternative"
)

// MethodologySummaryValues are the values of the methodology summary form.
type MethodologySummaryValues struct {
	Title     string `json:"title"`
	TitleType string `json:"titleType" validate:"oneof=default alternative"`
}

var methodologySummaryMappings = []validation.FieldMapping{
	{
		Target: "title",
		Messages: map[string]string{
			"SlugNotUnique": "Choose a unique title",
		},
	},
}

// NewMethodologySummaryForm builds the methodology summary form. When the
// default title type is chosen, defaultTitle (the publication title) is
// submitted in place of whatever the title field holds.
func NewMethodologySummaryForm(defaultTitle string, submit func(context.Context, MethodologySummaryValues) error, opts ...Option) *Form[MethodologySummaryValues] {
	cfg := newConfig(opts)
	return newForm(definition[MethodologySummaryValues]{
		model: model.FormModel{
			ID:       MethodologySummaryFormID,
			Title:    "Methodology title",
			Endpoint: "/api/methodologies",
			Method:   http.MethodPost,
			Fields: []model.Field{
				{
					Name:  "titleType",
					Type:  model.FieldTypeSelect,
					Label: "Methodology title",
					Options: []model.Option{
						{Label: "Use publication title", Value: TitleTypeDefault, Hint: defaultTitle},
						{Label: "Set an alternative title", Value: TitleTypeAlternative},
					},
					Default: TitleTypeDefault,
				},
				{
					Name:  "title",
					Type:  model.FieldTypeString,
					Label: "Enter methodology title",
					When:  map[string]string{"titleType": TitleTypeAlternative},
				},
			},
		},
		initial: initialValues(cfg, MethodologySummaryValues{TitleType: TitleTypeDefault}),
		schema: schema.New[MethodologySummaryValues](
			schema.WithMessages[MethodologySummaryValues](schema.Messages{
				"titleType.oneof": "Choose a methodology title",
			}),
			schema.WithRefine[MethodologySummaryValues](func(v MethodologySummaryValues) map[string]string {
				if v.TitleType == TitleTypeAlternative && strings.TrimSpace(v.Title) == "" {
					return map[string]string{"title": "Enter a methodology title"}
				}
				return nil
			}),
		),
		submit: plain(func(ctx context.Context, v MethodologySummaryValues) error {
			if v.TitleType == TitleTypeDefault {
				v.Title = defaultTitle
			}
			if submit == nil {
				return nil
			}
			return submit(ctx, v)
		}),
		mappings: methodologySummaryMappings,
	}, cfg)
}

// ExternalMethodologyValues are the values of the external methodology form.
type ExternalMethodologyValues struct {
	Title string `json:"title" validate:"required"`
	URL   string `json:"url" validate:"required,url"`
}

// NewExternalMethodologyForm builds the external methodology link form.
// Links pointing at adminHost or localhost are rejected.
func NewExternalMethodologyForm(adminHost string, submit func(context.Context, ExternalMethodologyValues) error, opts ...Option) *Form[ExternalMethodologyValues] {
	cfg := newConfig(opts)
	return newForm(definition[ExternalMethodologyValues]{
		model: model.FormModel{
			ID:       ExternalMethodologyFormID,
			Title:    "External methodology",
			Endpoint: "/api/publications/{publicationId}/external-methodology",
			Method:   http.MethodPut,
			Fields: []model.Field{
				{Name: "title", Type: model.FieldTypeString, Label: "Link title", Required: true},
				{Name: "url", Type: model.FieldTypeString, Label: "URL", Required: true, Pattern: `^https?://`},
			},
		},
		initial: initialValues(cfg, ExternalMethodologyValues{URL: "https://"}),
		schema: schema.New[ExternalMethodologyValues](
			schema.WithMessages[ExternalMethodologyValues](schema.Messages{
				"title.required": "Enter an external methodology link title",
				"url.required":   "Enter an external methodology URL",
				"url.url":        "Enter a valid external methodology URL",
			}),
			schema.WithRefine[ExternalMethodologyValues](func(v ExternalMethodologyValues) map[string]string {
				if !permittedLink(v.URL, adminHost) {
					return map[string]string{"url": "URL must be on a permitted domain"}
				}
				return nil
			}),
		),
		submit: plain(submit),
	}, cfg)
}

func permittedLink(raw, adminHost string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	if host == "" || strings.Contains(host, "localhost") {
		return false
	}
	adminHost = strings.ToLower(strings.TrimSpace(adminHost))
	if adminHost != "" && strings.Contains(strings.ToLower(u.Host), adminHost) {
		return false
	}
	return true
}
