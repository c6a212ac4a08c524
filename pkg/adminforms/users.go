package adminforms

import (
	"context"
	"net/http"

	"github.com/goliatone/go-formsubmit/pkg/model"
	"github.com/goliatone/go-formsubmit/pkg/schema"
	"github.com/goliatone/go-formsubmit/pkg/validation"
)

// InviteReleaseRole grants a role on a release.
type InviteReleaseRole struct {
	ReleaseID    string `json:"releaseId" validate:"required"`
	ReleaseTitle string `json:"releaseTitle,omitempty"`
	ReleaseRole  string `json:"releaseRole" validate:"required"`
}

// InvitePublicationRole grants a role on a publication.
type InvitePublicationRole struct {
	PublicationID    string `json:"publicationId" validate:"required"`
	PublicationTitle string `json:"publicationTitle,omitempty"`
	PublicationRole  string `json:"publicationRole" validate:"required"`
}

// InviteUserValues are the values of the invite user form.
type InviteUserValues struct {
	UserEmail            string                  `json:"userEmail" validate:"required,email"`
	RoleID               string                  `json:"roleId" validate:"required"`
	UserReleaseRoles     []InviteReleaseRole     `json:"userReleaseRoles" validate:"dive"`
	UserPublicationRoles []InvitePublicationRole `json:"userPublicationRoles" validate:"dive"`
}

// UserInvite is the request body sent to the users service.
type UserInvite struct {
	Email                string                `json:"email"`
	RoleID               string                `json:"roleId"`
	UserReleaseRoles     []UserReleaseRole     `json:"userReleaseRoles"`
	UserPublicationRoles []UserPublicationRole `json:"userPublicationRoles"`
}

// UserReleaseRole is a release role in a UserInvite.
type UserReleaseRole struct {
	ReleaseID   string `json:"releaseId"`
	ReleaseRole string `json:"releaseRole"`
}

// UserPublicationRole is a publication role in a UserInvite.
type UserPublicationRole struct {
	PublicationID   string `json:"publicationId"`
	PublicationRole string `json:"publicationRole"`
}

var inviteUserMappings = []validation.FieldMapping{
	{
		Target: "userEmail",
		Messages: map[string]string{
			"UserAlreadyExists": "User already exists",
		},
	},
}

// NewInviteUserForm builds the invite user form. Titles carried on the role
// rows for display are dropped from the submitted invite.
func NewInviteUserForm(submit func(context.Context, UserInvite) error, opts ...Option) *Form[InviteUserValues] {
	cfg := newConfig(opts)
	return newForm(definition[InviteUserValues]{
		model: model.FormModel{
			ID:       InviteUserFormID,
			Title:    "Invite user",
			Endpoint: "/api/users/invites",
			Method:   http.MethodPost,
			Fields: []model.Field{
				{Name: "userEmail", Type: model.FieldTypeString, Label: "User email", Required: true},
				{Name: "roleId", Type: model.FieldTypeString, Label: "Role", Required: true},
				{
					Name:  "userReleaseRoles",
					Type:  model.FieldTypeArray,
					Label: "Release roles",
					Items: &model.Field{
						Type:  model.FieldTypeObject,
						Label: "Release role",
						Nested: []model.Field{
							{Name: "releaseId", Type: model.FieldTypeString, Label: "Release", Required: true},
							{Name: "releaseRole", Type: model.FieldTypeString, Label: "Release role", Required: true},
						},
					},
				},
				{
					Name:  "userPublicationRoles",
					Type:  model.FieldTypeArray,
					Label: "Publication roles",
					Items: &model.Field{
						Type:  model.FieldTypeObject,
						Label: "Publication role",
						Nested: []model.Field{
							{Name: "publicationId", Type: model.FieldTypeString, Label: "Publication", Required: true},
							{Name: "publicationRole", Type: model.FieldTypeString, Label: "Publication role", Required: true},
						},
					},
				},
			},
		},
		initial: initialValues(cfg, InviteUserValues{}),
		schema: schema.New[InviteUserValues](schema.WithMessages[InviteUserValues](schema.Messages{
			"userEmail.required": "Provide the users email",
			"userEmail.email":    "Enter a valid email address",
			"roleId.required":    "Choose role for the user",
		})),
		submit: plain(func(ctx context.Context, v InviteUserValues) error {
			if submit == nil {
				return nil
			}
			return submit(ctx, v.Invite())
		}),
		mappings: inviteUserMappings,
	}, cfg)
}

// Invite converts the form values into the service request.
func (v InviteUserValues) Invite() UserInvite {
	invite := UserInvite{
		Email:                v.UserEmail,
		RoleID:               v.RoleID,
		UserReleaseRoles:     make([]UserReleaseRole, 0, len(v.UserReleaseRoles)),
		UserPublicationRoles: make([]UserPublicationRole, 0, len(v.UserPublicationRoles)),
	}
	for _, role := range v.UserReleaseRoles {
		invite.UserReleaseRoles = append(invite.UserReleaseRoles, UserReleaseRole{
			ReleaseID:   role.ReleaseID,
			ReleaseRole: role.ReleaseRole,
		})
	}
	for _, role := range v.UserPublicationRoles {
		invite.UserPublicationRoles = append(invite.UserPublicationRoles, UserPublicationRole{
			PublicationID:   role.PublicationID,
			PublicationRole: role.PublicationRole,
		})
	}
	return invite
}
