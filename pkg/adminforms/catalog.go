package adminforms

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-formsubmit/pkg/model"
)

var (
	// ErrUnknownForm is returned by Open for ids the catalog does not know.
	ErrUnknownForm = errors.New("adminforms: unknown form")
	// ErrMissingParam is returned by Open when a form needs a parameter that
	// was not given.
	ErrMissingParam = errors.New("adminforms: missing parameter")
)

// Catalog parameter names.
const (
	ParamPublicationID = "publicationId"
	ParamReleaseID     = "releaseId"
	ParamFileID        = "fileId"
	ParamDefaultTitle  = "defaultTitle"
	ParamAdminHost     = "adminHost"
)

// Params carries the route parameters some forms submit against.
type Params map[string]string

func (p Params) require(formID string, names ...string) error {
	var missing []string
	for _, name := range names {
		if strings.TrimSpace(p[name]) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s needs %s", ErrMissingParam, formID, strings.Join(missing, ", "))
	}
	return nil
}

type opener struct {
	params []string
	open   func(api *API, p Params, opts []Option) Entry
}

var catalog = map[string]opener{
	ThemeFormID: {
		open: func(api *API, _ Params, opts []Option) Entry {
			return NewThemeForm(api.CreateTheme, opts...)
		},
	},
	MethodologySummaryFormID: {
		params: []string{ParamDefaultTitle},
		open: func(api *API, p Params, opts []Option) Entry {
			return NewMethodologySummaryForm(p[ParamDefaultTitle], api.CreateMethodology, opts...)
		},
	},
	ExternalMethodologyFormID: {
		params: []string{ParamPublicationID},
		open: func(api *API, p Params, opts []Option) Entry {
			publicationID := p[ParamPublicationID]
			return NewExternalMethodologyForm(p[ParamAdminHost], func(ctx context.Context, v ExternalMethodologyValues) error {
				return api.UpdateExternalMethodology(ctx, publicationID, v)
			}, opts...)
		},
	},
	InviteUserFormID: {
		open: func(api *API, _ Params, opts []Option) Entry {
			return NewInviteUserForm(api.InviteUser, opts...)
		},
	},
	PublicationContactFormID: {
		params: []string{ParamPublicationID},
		open: func(api *API, p Params, opts []Option) Entry {
			publicationID := p[ParamPublicationID]
			return NewPublicationContactForm(PublicationContactValues{}, func(ctx context.Context, v PublicationContactValues) error {
				return api.UpdateContact(ctx, publicationID, v)
			}, opts...)
		},
	},
	LegacyReleaseFormID: {
		params: []string{ParamPublicationID},
		open: func(api *API, p Params, opts []Option) Entry {
			publicationID := p[ParamPublicationID]
			return NewLegacyReleaseForm(func(ctx context.Context, v LegacyReleaseValues) error {
				return api.CreateLegacyRelease(ctx, publicationID, v)
			}, opts...)
		},
	},
	CommentAddFormID: {
		open: func(api *API, _ Params, opts []Option) Entry {
			return NewCommentAddForm(api.AddComment, opts...)
		},
	},
	AncillaryFileFormID: {
		params: []string{ParamReleaseID, ParamFileID},
		open: func(api *API, p Params, opts []Option) Entry {
			releaseID, fileID := p[ParamReleaseID], p[ParamFileID]
			return NewAncillaryFileForm(func(ctx context.Context, v AncillaryFileValues) error {
				return api.UpdateAncillaryFile(ctx, releaseID, fileID, v)
			}, opts...)
		},
	},
	DataFileUploadFormID: {
		params: []string{ParamReleaseID},
		open: func(api *API, p Params, opts []Option) Entry {
			releaseID := p[ParamReleaseID]
			return NewDataFileUploadForm(func(ctx context.Context, v DataFileUploadValues) error {
				return api.UploadDataFiles(ctx, releaseID, v)
			}, opts...)
		},
	},
}

// Open builds the form with the given id, submitting through api.
func Open(formID string, api *API, params Params, opts ...Option) (Entry, error) {
	entry, ok := catalog[formID]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownForm, formID)
	}
	if api == nil {
		return nil, errors.New("adminforms: api is required")
	}
	if err := params.require(formID, entry.params...); err != nil {
		return nil, err
	}
	return entry.open(api, params, opts), nil
}

// FormIDs lists the catalog's form ids, sorted.
func FormIDs() []string {
	ids := make([]string, 0, len(catalog))
	for id := range catalog {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// RequiredParams lists the parameters a form needs.
func RequiredParams(formID string) []string {
	return append([]string(nil), catalog[formID].params...)
}

// Model returns the field layout of a catalog form without binding it to a
// service.
func Model(formID string) (model.FormModel, bool) {
	entry, ok := catalog[formID]
	if !ok {
		return model.FormModel{}, false
	}
	params := make(Params, len(entry.params))
	for _, name := range entry.params {
		params[name] = name
	}
	f := entry.open(&API{}, params, nil)
	defer f.Destroy()
	return f.Model(), true
}
