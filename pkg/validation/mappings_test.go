package validation_test

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formsubmit/pkg/validation"
)

func TestLoadMappings_YAMLAndJSON(t *testing.T) {
	fsys := fstest.MapFS{
		"themes.yaml": {Data: []byte(`
forms:
  themeForm:
    - target: title
      messages:
        SlugNotUnique: Enter a unique title
`)},
		"users.json": {Data: []byte(`{"forms": {"userInviteForm": [{"target": "userEmail", "messages": {"UserAlreadyExists": "User already exists"}}]}}`)},
		"README.md":  {Data: []byte("ignored")},
	}

	set, err := validation.LoadMappings(fsys)
	if err != nil {
		t.Fatalf("load mappings: %v", err)
	}

	if diff := cmp.Diff([]string{"themeForm", "userInviteForm"}, set.Forms()); diff != "" {
		t.Fatalf("forms mismatch (-want +got):\n%s", diff)
	}

	want := []validation.FieldMapping{{
		Target:   "title",
		Messages: map[string]string{"SlugNotUnique": "Enter a unique title"},
	}}
	if diff := cmp.Diff(want, set.Mappings("themeForm")); diff != "" {
		t.Fatalf("mappings mismatch (-want +got):\n%s", diff)
	}

	outcome := validation.ApplyMappers([]validation.Failure{{Code: "UserAlreadyExists"}}, set.Mappers("userInviteForm")...)
	if outcome.FieldErrors["userEmail"] != "User already exists" {
		t.Fatalf("expected compiled mapper to place error on userEmail, got %v", outcome)
	}
}

func TestLoadMappings_DuplicateForm(t *testing.T) {
	doc := []byte(`{"forms": {"themeForm": [{"target": "title", "messages": {"SlugNotUnique": "x"}}]}}`)
	fsys := fstest.MapFS{
		"a.json": {Data: doc},
		"b.json": {Data: doc},
	}

	_, err := validation.LoadMappings(fsys)
	if err == nil || !strings.Contains(err.Error(), "duplicate mappings") {
		t.Fatalf("expected duplicate mapping error, got %v", err)
	}
}

func TestParseMappings_Errors(t *testing.T) {
	if _, err := validation.ParseMappings([]byte("  "), "empty.yaml"); err == nil {
		t.Fatalf("expected error for empty file")
	}
	if _, err := validation.ParseMappings([]byte("forms:\n  themeForm:\n    - target: title\n"), "bad.yaml"); err == nil {
		t.Fatalf("expected error for mapping without messages")
	}
	if _, err := validation.ParseMappings([]byte("forms: [unterminated"), "broken.yaml"); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestLoadMappings_NilFS(t *testing.T) {
	set, err := validation.LoadMappings(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !set.Empty() {
		t.Fatalf("expected empty set")
	}
}
