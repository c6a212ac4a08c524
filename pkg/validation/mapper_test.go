package validation_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formsubmit/pkg/validation"
)

func TestApplyMappers_TargetedMapping(t *testing.T) {
	mapper := validation.MapFieldErrors(validation.FieldMapping{
		Target:   "title",
		Messages: map[string]string{"SlugNotUnique": "Choose a unique title"},
	})

	got := validation.ApplyMappers([]validation.Failure{
		{Code: "SlugNotUnique", Path: validation.PathOf("title")},
	}, mapper)

	want := validation.Outcome{
		FieldErrors: map[string]string{"title": "Choose a unique title"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("outcome mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyMappers_UnmappedFormLevelFailure(t *testing.T) {
	got := validation.ApplyMappers([]validation.Failure{{Code: "ServerBoom"}})

	want := validation.Outcome{
		FieldErrors: map[string]string{},
		Unmapped: []validation.Failure{
			{Code: "ServerBoom", Message: validation.DefaultMessage},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("outcome mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyMappers_CodeOnlyFailureUsesTarget(t *testing.T) {
	mapper := validation.MapFieldErrors(validation.FieldMapping{
		Target:   "userEmail",
		Messages: map[string]string{"UserAlreadyExists": "User already exists"},
	})

	got := validation.ApplyMappers([]validation.Failure{{Code: "UserAlreadyExists"}}, mapper)

	if diff := cmp.Diff(map[string]string{"userEmail": "User already exists"}, got.FieldErrors); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}
	if len(got.Unmapped) != 0 {
		t.Fatalf("expected no unmapped failures, got %v", got.Unmapped)
	}
}

func TestApplyMappers_PathMismatchIsUnmapped(t *testing.T) {
	mapper := validation.MapFieldErrors(validation.FieldMapping{
		Target:   "title",
		Messages: map[string]string{"SlugNotUnique": "Choose a unique title"},
	})

	got := validation.ApplyMappers([]validation.Failure{
		{Code: "SlugNotUnique", Path: validation.PathOf("summary"), Message: "Slug taken"},
	}, mapper)

	want := []validation.Failure{
		{Code: "SlugNotUnique", Path: validation.PathOf("summary"), Message: "Slug taken"},
	}
	if diff := cmp.Diff(want, got.Unmapped); diff != "" {
		t.Fatalf("unmapped mismatch (-want +got):\n%s", diff)
	}
	if len(got.FieldErrors) != 0 {
		t.Fatalf("expected no field errors, got %v", got.FieldErrors)
	}
}

func TestApplyMappers_UntargetedMapperUsesFailurePath(t *testing.T) {
	mapper := validation.MapFieldErrors(validation.FieldMapping{
		Messages: map[string]string{"Required": "This field is required"},
	})

	got := validation.ApplyMappers([]validation.Failure{
		{Code: "Required", Path: validation.ParsePath("/body/owner/email")},
		{Code: "Required"},
	}, mapper)

	if diff := cmp.Diff(map[string]string{"owner.email": "This field is required"}, got.FieldErrors); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}
	if len(got.Unmapped) != 1 || got.Unmapped[0].Code != "Required" {
		t.Fatalf("expected path-less failure to stay unmapped, got %v", got.Unmapped)
	}
}

func TestApplyMappers_LaterMapperWins(t *testing.T) {
	base := validation.MapFieldErrors(validation.FieldMapping{
		Target:   "dataFile",
		Messages: map[string]string{"DataFilenameNotUnique": "Choose a unique data file name"},
	})
	override := validation.MapFieldErrors(validation.FieldMapping{
		Target:   "dataFile",
		Messages: map[string]string{"DataFilenameNotUnique": "Replacement files need a unique name"},
	})

	got := validation.ApplyMappers([]validation.Failure{{Code: "DataFilenameNotUnique"}}, base, override)

	want := map[string]string{"dataFile": "Replacement files need a unique name"}
	if diff := cmp.Diff(want, got.FieldErrors); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyMappers_LaterFailureOverwritesField(t *testing.T) {
	mapper := validation.MapFieldErrors(validation.FieldMapping{
		Target: "title",
		Messages: map[string]string{
			"TitleTooLong":  "Title must be 120 characters or fewer",
			"SlugNotUnique": "Choose a unique title",
		},
	})

	got := validation.ApplyMappers([]validation.Failure{
		{Code: "TitleTooLong"},
		{Code: "SlugNotUnique"},
	}, mapper)

	if diff := cmp.Diff(map[string]string{"title": "Choose a unique title"}, got.FieldErrors); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyMappers_CoverageAndIdempotence(t *testing.T) {
	mappers := validation.MapAll(
		validation.FieldMapping{Target: "title", Messages: map[string]string{"SlugNotUnique": "Choose a unique title"}},
		validation.FieldMapping{Target: "summary", Messages: map[string]string{"SummaryTooLong": "Summary is too long"}},
	)
	failures := []validation.Failure{
		{Code: "SlugNotUnique", Path: validation.PathOf("Title")},
		{Code: "Unknown", Path: validation.PathOf("items", 2, "name"), Message: "<b>Bad</b> item"},
		{Code: "SummaryTooLong"},
		{Code: "Boom"},
	}

	first := validation.ApplyMappers(failures, mappers...)
	second := validation.ApplyMappers(failures, mappers...)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("ApplyMappers is not idempotent (-first +second):\n%s", diff)
	}

	if got := len(first.FieldErrors) + len(first.Unmapped); got != len(failures) {
		t.Fatalf("expected every failure accounted for once, got %d of %d", got, len(failures))
	}

	wantUnmapped := []validation.Failure{
		{Code: "Unknown", Path: validation.PathOf("items", 2, "name"), Message: "Bad item"},
		{Code: "Boom", Message: validation.DefaultMessage},
	}
	if diff := cmp.Diff(wantUnmapped, first.Unmapped); diff != "" {
		t.Fatalf("unmapped mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Bad item", validation.DefaultMessage}, first.Summary()); diff != "" {
		t.Fatalf("summary mismatch (-want +got):\n%s", diff)
	}
}

func TestMapFieldErrors_CopiesMessages(t *testing.T) {
	messages := map[string]string{"SlugNotUnique": "Choose a unique title"}
	mapper := validation.MapFieldErrors(validation.FieldMapping{Target: "title", Messages: messages})
	messages["SlugNotUnique"] = "changed"

	fieldErr, ok := mapper(validation.Failure{Code: "SlugNotUnique"})
	if !ok {
		t.Fatalf("expected mapper to match")
	}
	if fieldErr.Message != "Choose a unique title" {
		t.Fatalf("expected original message, got %q", fieldErr.Message)
	}
}
