package adminforms_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formsubmit/pkg/adminforms"
	"github.com/goliatone/go-formsubmit/pkg/form"
	"github.com/goliatone/go-formsubmit/pkg/model"
	"github.com/goliatone/go-formsubmit/pkg/validation"
)

func rejectWith(failures ...validation.Failure) error {
	return validation.NewError(failures...)
}

func TestThemeForm_MapsSlugNotUnique(t *testing.T) {
	f := adminforms.NewThemeForm(func(context.Context, adminforms.ThemeValues) error {
		return rejectWith(
			validation.Failure{Code: "SlugNotUnique"},
			validation.Failure{Code: "ServerBoom", Message: "Something broke"},
		)
	}, adminforms.WithInitialValues(adminforms.ThemeValues{Title: "Pupils", Summary: "About pupils"}))

	result, err := f.Submit(context.Background())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.Status != form.StatusInvalid {
		t.Fatalf("expected invalid, got %s", result.Status)
	}
	if diff := cmp.Diff(map[string]string{"title": "Enter a unique title"}, f.FieldErrors()); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Something broke"}, f.Summary()); diff != "" {
		t.Fatalf("summary mismatch (-want +got):\n%s", diff)
	}
}

func TestThemeForm_ClientSideChecks(t *testing.T) {
	called := false
	f := adminforms.NewThemeForm(func(context.Context, adminforms.ThemeValues) error {
		called = true
		return nil
	})

	if _, err := f.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if called {
		t.Fatal("submit must not run with empty values")
	}
	want := map[string]string{"title": "Enter a title", "summary": "Enter a summary"}
	if diff := cmp.Diff(want, f.FieldErrors()); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}
}

func TestMethodologySummaryForm_DefaultTitle(t *testing.T) {
	var got adminforms.MethodologySummaryValues
	f := adminforms.NewMethodologySummaryForm("Pupil absence in schools", func(_ context.Context, v adminforms.MethodologySummaryValues) error {
		got = v
		return nil
	})
	f.State().SetValues(adminforms.MethodologySummaryValues{TitleType: adminforms.TitleTypeDefault, Title: "ignored"})

	result, err := f.Submit(context.Background())
	if err != nil || result.Status != form.StatusSucceeded {
		t.Fatalf("submit: %v %v", result.Status, err)
	}
	if got.Title != "Pupil absence in schools" {
		t.Fatalf("expected default title to be submitted, got %q", got.Title)
	}

	f.State().SetValues(adminforms.MethodologySummaryValues{TitleType: adminforms.TitleTypeAlternative})
	if _, err := f.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if diff := cmp.Diff(map[string]string{"title": "Enter a methodology title"}, f.FieldErrors()); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}
}

func TestExternalMethodologyForm_PermittedDomain(t *testing.T) {
	f := adminforms.NewExternalMethodologyForm("admin.example.com", func(context.Context, adminforms.ExternalMethodologyValues) error {
		return nil
	})

	cases := map[string]map[string]string{
		"https://admin.example.com/methodology": {"url": "URL must be on a permitted domain"},
		"http://localhost:3000/x":               {"url": "URL must be on a permitted domain"},
		"not a url":                             {"url": "Enter a valid external methodology URL"},
		"https://gov.uk/methodology":            {},
	}
	for raw, want := range cases {
		f.State().SetValues(adminforms.ExternalMethodologyValues{Title: "Methodology", URL: raw})
		if _, err := f.Submit(context.Background()); err != nil {
			t.Fatalf("submit %s: %v", raw, err)
		}
		if diff := cmp.Diff(want, f.FieldErrors()); diff != "" {
			t.Errorf("%s: field errors mismatch (-want +got):\n%s", raw, diff)
		}
	}
}

func TestInviteUserForm(t *testing.T) {
	var sent adminforms.UserInvite
	f := adminforms.NewInviteUserForm(func(_ context.Context, invite adminforms.UserInvite) error {
		sent = invite
		return rejectWith(validation.Failure{Code: "UserAlreadyExists"})
	})
	f.State().SetValues(adminforms.InviteUserValues{
		UserEmail: "analyst@example.com",
		RoleID:    "role-1",
		UserReleaseRoles: []adminforms.InviteReleaseRole{
			{ReleaseID: "r1", ReleaseTitle: "Academic year 2023/24", ReleaseRole: "Contributor"},
		},
	})

	if _, err := f.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}

	want := adminforms.UserInvite{
		Email:                "analyst@example.com",
		RoleID:               "role-1",
		UserReleaseRoles:     []adminforms.UserReleaseRole{{ReleaseID: "r1", ReleaseRole: "Contributor"}},
		UserPublicationRoles: []adminforms.UserPublicationRole{},
	}
	if diff := cmp.Diff(want, sent); diff != "" {
		t.Fatalf("invite mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]string{"userEmail": "User already exists"}, f.FieldErrors()); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}
}

func TestInviteUserForm_NestedSchemaPaths(t *testing.T) {
	f := adminforms.NewInviteUserForm(nil)
	f.State().SetValues(adminforms.InviteUserValues{
		UserEmail:        "analyst@example.com",
		RoleID:           "role-1",
		UserReleaseRoles: []adminforms.InviteReleaseRole{{ReleaseID: "r1"}},
	})

	if _, err := f.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	want := map[string]string{"userReleaseRoles.0.releaseRole": "This field is required"}
	if diff := cmp.Diff(want, f.FieldErrors()); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}
}

func TestDataFileUploadForm_MappingsFollowUploadType(t *testing.T) {
	failure := validation.Failure{Code: "DataFilenameNotUnique"}
	f := adminforms.NewDataFileUploadForm(func(context.Context, adminforms.DataFileUploadValues) error {
		return rejectWith(failure)
	})

	f.State().SetValues(adminforms.DataFileUploadValues{
		UploadType: adminforms.UploadTypeZip,
		ZipFile:    model.NewFile("data.zip", []byte("PK")),
	})
	if _, err := f.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if diff := cmp.Diff(map[string]string{"zipFile": "Choose a unique ZIP data file name"}, f.FieldErrors()); diff != "" {
		t.Fatalf("zip field errors mismatch (-want +got):\n%s", diff)
	}

	f.State().SetValues(adminforms.DataFileUploadValues{
		UploadType:   adminforms.UploadTypeCSV,
		DataFile:     model.NewFile("data.csv", []byte("a")),
		MetadataFile: model.NewFile("data.meta.csv", []byte("b")),
	})
	if _, err := f.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if diff := cmp.Diff(map[string]string{"dataFile": "Choose a unique data file name"}, f.FieldErrors()); diff != "" {
		t.Fatalf("csv field errors mismatch (-want +got):\n%s", diff)
	}
}

func TestDataFileUploadForm_ClientSideChecks(t *testing.T) {
	f := adminforms.NewDataFileUploadForm(nil)

	f.State().SetValues(adminforms.DataFileUploadValues{
		UploadType: adminforms.UploadTypeCSV,
		DataFile:   model.NewFile("data.csv", nil),
	})
	if _, err := f.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	want := map[string]string{
		"dataFile":     "Choose a data file that is not empty",
		"metadataFile": "Choose a metadata file",
	}
	if diff := cmp.Diff(want, f.FieldErrors()); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}

	f.State().SetValues(adminforms.DataFileUploadValues{UploadType: adminforms.UploadTypeZip})
	if _, err := f.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if diff := cmp.Diff(map[string]string{"zipFile": "Choose a ZIP file"}, f.FieldErrors()); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}
}

func TestDataFileUploadForm_ResetsFilesAfterSuccess(t *testing.T) {
	var cleared []string
	var uploaded []string
	f := adminforms.NewDataFileUploadForm(func(_ context.Context, v adminforms.DataFileUploadValues) error {
		for name, file := range v.Files() {
			uploaded = append(uploaded, name+"="+file.Name)
		}
		return nil
	}, adminforms.WithResetHook(func(formID, field string) {
		if formID != adminforms.DataFileUploadFormID {
			t.Errorf("unexpected form id %q", formID)
		}
		cleared = append(cleared, field)
	}))

	f.State().SetValues(adminforms.DataFileUploadValues{
		UploadType: adminforms.UploadTypeZip,
		ZipFile:    model.NewFile("data.zip", []byte("PK")),
	})
	result, err := f.Submit(context.Background())
	if err != nil || result.Status != form.StatusSucceeded {
		t.Fatalf("submit: %v %v", result.Status, err)
	}

	if diff := cmp.Diff([]string{"zipFile=data.zip"}, uploaded); diff != "" {
		t.Fatalf("uploaded mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"dataFile", "metadataFile", "zipFile"}, cleared); diff != "" {
		t.Fatalf("cleared mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(adminforms.DataFileUploadValues{UploadType: adminforms.UploadTypeCSV}, f.State().Values()); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestDataFileUploadForm_NoResetOnFailure(t *testing.T) {
	boom := errors.New("network down")
	var cleared int
	f := adminforms.NewDataFileUploadForm(func(context.Context, adminforms.DataFileUploadValues) error {
		return boom
	}, adminforms.WithResetHook(func(string, string) { cleared++ }))
	f.State().SetValues(adminforms.DataFileUploadValues{
		UploadType: adminforms.UploadTypeZip,
		ZipFile:    model.NewFile("data.zip", []byte("PK")),
	})

	_, err := f.Submit(context.Background())
	if !errors.Is(err, form.ErrUnexpected) || !errors.Is(err, boom) {
		t.Fatalf("expected unexpected failure wrapping boom, got %v", err)
	}
	if cleared != 0 {
		t.Fatalf("expected no reset, got %d callbacks", cleared)
	}
	if f.State().Values().ZipFile == nil {
		t.Fatal("values must survive a failed upload")
	}
}

func TestMappingSetTakesPrecedence(t *testing.T) {
	set, err := validation.ParseMappings([]byte(`
forms:
  themeForm:
    - target: title
      messages:
        SlugNotUnique: "A theme with this title already exists"
`), "override.yaml")
	if err != nil {
		t.Fatalf("parse mappings: %v", err)
	}

	f := adminforms.NewThemeForm(func(context.Context, adminforms.ThemeValues) error {
		return rejectWith(validation.Failure{Code: "SlugNotUnique", Path: validation.Path{"title"}})
	},
		adminforms.WithMappingSet(set),
		adminforms.WithInitialValues(&adminforms.ThemeValues{Title: "Pupils", Summary: "About pupils"}),
	)

	if _, err := f.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if diff := cmp.Diff(map[string]string{"title": "A theme with this title already exists"}, f.FieldErrors()); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}
}

func TestLegacyReleaseForm_Order(t *testing.T) {
	order := 2
	f := adminforms.NewLegacyReleaseForm(nil, adminforms.WithInitialValues(adminforms.LegacyReleaseValues{
		Description: "2015 release",
		URL:         "https://example.com/2015",
		Order:       &order,
	}))
	if _, ok := f.Model().Field("order"); !ok {
		t.Fatal("expected order field for existing releases")
	}

	negative := -1
	f.State().Update(func(v *adminforms.LegacyReleaseValues) { v.Order = &negative })
	if _, err := f.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if diff := cmp.Diff(map[string]string{"order": "Enter an order greater than 0"}, f.FieldErrors()); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}

	created := adminforms.NewLegacyReleaseForm(nil)
	if _, ok := created.Model().Field("order"); ok {
		t.Fatal("new legacy releases have no order field")
	}
}

func TestCommentAddForm_ClearsAfterSave(t *testing.T) {
	f := adminforms.NewCommentAddForm(func(context.Context, adminforms.CommentValues) error { return nil })
	f.State().SetValues(adminforms.CommentValues{Content: "Check this figure"})

	if _, err := f.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if got := f.State().Values().Content; got != "" {
		t.Fatalf("expected content to be cleared, got %q", got)
	}
}
