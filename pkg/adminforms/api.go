package adminforms

import (
	"context"
	"net/http"
	"net/url"

	"github.com/goliatone/go-formsubmit/pkg/client"
)

// API submits admin forms to the admin REST services.
type API struct {
	client *client.Client
}

// NewAPI wraps a service client.
func NewAPI(c *client.Client) *API {
	return &API{client: c}
}

// CreateTheme creates a theme.
func (a *API) CreateTheme(ctx context.Context, v ThemeValues) error {
	return a.client.Do(ctx, http.MethodPost, "/api/themes", v, nil)
}

// CreateMethodology creates a methodology with the given summary.
func (a *API) CreateMethodology(ctx context.Context, v MethodologySummaryValues) error {
	return a.client.Do(ctx, http.MethodPost, "/api/methodologies", map[string]string{"title": v.Title}, nil)
}

// UpdateExternalMethodology sets a publication's external methodology link.
func (a *API) UpdateExternalMethodology(ctx context.Context, publicationID string, v ExternalMethodologyValues) error {
	return a.client.Do(ctx, http.MethodPut, "/api/publications/"+url.PathEscape(publicationID)+"/external-methodology", v, nil)
}

// InviteUser sends a user invite.
func (a *API) InviteUser(ctx context.Context, invite UserInvite) error {
	return a.client.Do(ctx, http.MethodPost, "/api/users/invites", invite, nil)
}

// UpdateContact replaces a publication's contact.
func (a *API) UpdateContact(ctx context.Context, publicationID string, v PublicationContactValues) error {
	return a.client.Do(ctx, http.MethodPost, "/api/publications/"+url.PathEscape(publicationID)+"/contact", v, nil)
}

// CreateLegacyRelease adds a legacy release to a publication.
func (a *API) CreateLegacyRelease(ctx context.Context, publicationID string, v LegacyReleaseValues) error {
	body := struct {
		LegacyReleaseValues
		PublicationID string `json:"publicationId"`
	}{v, publicationID}
	return a.client.Do(ctx, http.MethodPost, "/api/legacy-releases", body, nil)
}

// AddComment adds a comment.
func (a *API) AddComment(ctx context.Context, v CommentValues) error {
	return a.client.Do(ctx, http.MethodPost, "/api/comments", v, nil)
}

// UpdateAncillaryFile updates an ancillary file's details.
func (a *API) UpdateAncillaryFile(ctx context.Context, releaseID, fileID string, v AncillaryFileValues) error {
	path := "/api/releases/" + url.PathEscape(releaseID) + "/ancillary/" + url.PathEscape(fileID)
	return a.client.Do(ctx, http.MethodPut, path, v, nil)
}

// UploadDataFiles uploads the files for the chosen upload type.
func (a *API) UploadDataFiles(ctx context.Context, releaseID string, v DataFileUploadValues) error {
	path := "/api/releases/" + url.PathEscape(releaseID) + "/data"
	return a.client.Upload(ctx, path, map[string]string{"uploadType": v.UploadType}, v.Files(), nil)
}
