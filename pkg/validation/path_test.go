package validation_test

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formsubmit/pkg/validation"
)

func TestParsePath_Notations(t *testing.T) {
	cases := map[string]validation.Path{
		"title":                     {"title"},
		"/body/owner/email":         {"owner", "email"},
		"$.body.tags[0]":            {"tags", "0"},
		"request.payload.owner":     {"owner"},
		"body/owner/phone/~1number": {"owner", "phone", "/number"},
		"#/dataFile":                {"dataFile"},
		"data":                      {"data"},
		"non_field_errors":          nil,
		"":                          nil,
		"  #  ":                     nil,
	}

	for raw, want := range cases {
		if diff := cmp.Diff(want, validation.ParsePath(raw)); diff != "" {
			t.Errorf("ParsePath(%q) mismatch (-want +got):\n%s", raw, diff)
		}
	}
}

func TestPath_EqualIgnoresCase(t *testing.T) {
	if !validation.PathOf("Title").Equal(validation.PathOf("title")) {
		t.Fatalf("expected paths to compare equal ignoring case")
	}
	if validation.PathOf("title").Equal(validation.PathOf("title", 0)) {
		t.Fatalf("expected different lengths to differ")
	}
}

func TestPath_JSONRoundTripShapes(t *testing.T) {
	var failure validation.Failure
	if err := json.Unmarshal([]byte(`{"code":"Required","path":["body","items",1,"name"]}`), &failure); err != nil {
		t.Fatalf("unmarshal array path: %v", err)
	}
	if diff := cmp.Diff(validation.PathOf("items", 1, "name"), failure.Path); diff != "" {
		t.Fatalf("array path mismatch (-want +got):\n%s", diff)
	}

	failure = validation.Failure{}
	if err := json.Unmarshal([]byte(`{"code":"Required","path":"Owner.Email"}`), &failure); err != nil {
		t.Fatalf("unmarshal string path: %v", err)
	}
	if got := failure.Path.String(); got != "Owner.Email" {
		t.Fatalf("expected Owner.Email, got %q", got)
	}

	data, err := json.Marshal(validation.PathOf("items", 1, "name"))
	if err != nil {
		t.Fatalf("marshal path: %v", err)
	}
	if string(data) != `["items",1,"name"]` {
		t.Fatalf("unexpected marshalled path %s", data)
	}
}

func TestPathOf_FractionalSegmentIsNotAnIndex(t *testing.T) {
	var failure validation.Failure
	if err := json.Unmarshal([]byte(`{"code":"Required","path":["items",1.7]}`), &failure); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if diff := cmp.Diff(validation.Path{"items", "1.7"}, failure.Path); diff != "" {
		t.Fatalf("path mismatch (-want +got):\n%s", diff)
	}
	if failure.Path.Equal(validation.PathOf("items", 1)) {
		t.Fatal("fractional segment must not address element 1")
	}
	if diff := cmp.Diff(validation.Path{"items", "2"}, validation.PathOf("items", 2.0)); diff != "" {
		t.Fatalf("whole float mismatch (-want +got):\n%s", diff)
	}
}

func TestPath_WithoutIndices(t *testing.T) {
	got := validation.PathOf("items", 3, "name").WithoutIndices()
	if diff := cmp.Diff(validation.PathOf("items", "name"), got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}
