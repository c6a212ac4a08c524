package adminforms

import (
	"context"
	"net/http"

	"github.com/goliatone/go-formsubmit/pkg/form"
	"github.com/goliatone/go-formsubmit/pkg/model"
	"github.com/goliatone/go-formsubmit/pkg/schema"
)

// CommentValues are the values of the add comment form.
type CommentValues struct {
	Content string `json:"content" validate:"required"`
}

// NewCommentAddForm builds the add comment form. The form clears itself once
// the comment is saved.
func NewCommentAddForm(submit func(context.Context, CommentValues) error, opts ...Option) *Form[CommentValues] {
	cfg := newConfig(opts)
	return newForm(definition[CommentValues]{
		model: model.FormModel{
			ID:       CommentAddFormID,
			Title:    "Add comment",
			Endpoint: "/api/comments",
			Method:   http.MethodPost,
			Fields: []model.Field{
				{Name: "content", Type: model.FieldTypeText, Label: "Comment", Required: true},
			},
		},
		initial: initialValues(cfg, CommentValues{}),
		schema: schema.New[CommentValues](schema.WithMessages[CommentValues](schema.Messages{
			"content.required": "Content is required",
		})),
		submit: func(ctx context.Context, v CommentValues, actions form.Actions) error {
			if submit != nil {
				if err := submit(ctx, v); err != nil {
					return err
				}
			}
			actions.ResetForm()
			return nil
		},
	}, cfg)
}
