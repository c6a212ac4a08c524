package adminforms_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formsubmit/pkg/adminforms"
	"github.com/goliatone/go-formsubmit/pkg/client"
	"github.com/goliatone/go-formsubmit/pkg/form"
)

type recorded struct {
	Method string
	Path   string
	Body   map[string]any
	Parts  map[string]string
}

func newRecordingServer(t *testing.T, status int, response string) (*adminforms.API, func() []recorded) {
	t.Helper()
	var (
		mu    sync.Mutex
		calls []recorded
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		call := recorded{Method: r.Method, Path: r.URL.Path}
		if r.Header.Get("Content-Type") == "application/json" {
			_ = json.NewDecoder(r.Body).Decode(&call.Body)
		} else if err := r.ParseMultipartForm(1 << 20); err == nil {
			call.Parts = make(map[string]string)
			for name, values := range r.MultipartForm.Value {
				call.Parts[name] = values[0]
			}
			for name, headers := range r.MultipartForm.File {
				f, _ := headers[0].Open()
				data, _ := io.ReadAll(f)
				f.Close()
				call.Parts[name] = headers[0].Filename + ":" + string(data)
			}
		}
		mu.Lock()
		calls = append(calls, call)
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, response)
	}))
	t.Cleanup(srv.Close)
	snapshot := func() []recorded {
		mu.Lock()
		defer mu.Unlock()
		return append([]recorded(nil), calls...)
	}
	return adminforms.NewAPI(client.New(client.Config{BaseURL: srv.URL})), snapshot
}

func TestOpen_UnknownFormAndMissingParams(t *testing.T) {
	api, _ := newRecordingServer(t, http.StatusOK, "{}")

	if _, err := adminforms.Open("nope", api, nil); !errors.Is(err, adminforms.ErrUnknownForm) {
		t.Fatalf("expected ErrUnknownForm, got %v", err)
	}
	if _, err := adminforms.Open(adminforms.AncillaryFileFormID, api, adminforms.Params{"releaseId": "r1"}); !errors.Is(err, adminforms.ErrMissingParam) {
		t.Fatalf("expected ErrMissingParam, got %v", err)
	}
	if diff := cmp.Diff([]string{"releaseId", "fileId"}, adminforms.RequiredParams(adminforms.AncillaryFileFormID)); diff != "" {
		t.Fatalf("required params mismatch (-want +got):\n%s", diff)
	}
	if got := len(adminforms.FormIDs()); got != 9 {
		t.Fatalf("expected 9 forms, got %d", got)
	}
}

func TestOpen_ThemeRejectedByService(t *testing.T) {
	api, calls := newRecordingServer(t, http.StatusBadRequest,
		`{"title":"Validation failed","errors":[{"code":"SlugNotUnique","path":"title"},{"code":"Whoops","message":"Theme service unavailable"}]}`)

	entry, err := adminforms.Open(adminforms.ThemeFormID, api, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := entry.Bind(map[string]any{"title": "Pupils", "summary": "About pupils"}); err != nil {
		t.Fatalf("bind: %v", err)
	}

	result, err := entry.Submit(context.Background())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.Status != form.StatusInvalid {
		t.Fatalf("expected invalid, got %s", result.Status)
	}

	wantCalls := []recorded{{
		Method: http.MethodPost,
		Path:   "/api/themes",
		Body:   map[string]any{"title": "Pupils", "summary": "About pupils"},
	}}
	if diff := cmp.Diff(wantCalls, calls()); diff != "" {
		t.Fatalf("calls mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]string{"title": "Enter a unique title"}, entry.FieldErrors()); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Theme service unavailable"}, entry.Summary()); diff != "" {
		t.Fatalf("summary mismatch (-want +got):\n%s", diff)
	}
}

func TestOpen_ServiceErrorIsUnexpected(t *testing.T) {
	api, _ := newRecordingServer(t, http.StatusInternalServerError, `{"title":"boom"}`)

	entry, err := adminforms.Open(adminforms.CommentAddFormID, api, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := entry.Bind(map[string]any{"content": "Check this figure"}); err != nil {
		t.Fatalf("bind: %v", err)
	}

	_, err = entry.Submit(context.Background())
	var statusErr *client.StatusError
	if !errors.Is(err, form.ErrUnexpected) || !errors.As(err, &statusErr) {
		t.Fatalf("expected unexpected status error, got %v", err)
	}
	if statusErr.Status != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", statusErr.Status)
	}
	if got := entry.Values()["content"]; got != "Check this figure" {
		t.Fatalf("values must survive a failed submit, got %v", got)
	}
}

func TestOpen_DataFileUploadFromPaths(t *testing.T) {
	api, calls := newRecordingServer(t, http.StatusCreated, "{}")

	dir := t.TempDir()
	zipPath := filepath.Join(dir, "data.zip")
	if err := os.WriteFile(zipPath, []byte("PK"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	entry, err := adminforms.Open(adminforms.DataFileUploadFormID, api, adminforms.Params{"releaseId": "rel-1"})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := entry.Bind(map[string]any{"uploadType": "zip", "zipFile": zipPath}); err != nil {
		t.Fatalf("bind: %v", err)
	}
	if diff := cmp.Diff(map[string]any{"uploadType": "zip", "zipFile": zipPath}, entry.Values()); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}

	result, err := entry.Submit(context.Background())
	if err != nil || result.Status != form.StatusSucceeded {
		t.Fatalf("submit: %v %v", result.Status, err)
	}

	wantCalls := []recorded{{
		Method: http.MethodPost,
		Path:   "/api/releases/rel-1/data",
		Parts:  map[string]string{"uploadType": "zip", "zipFile": "data.zip:PK"},
	}}
	if diff := cmp.Diff(wantCalls, calls()); diff != "" {
		t.Fatalf("calls mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]any{"uploadType": "csv"}, entry.Values()); diff != "" {
		t.Fatalf("expected reset values (-want +got):\n%s", diff)
	}
}

func TestBind_KeepsUnnamedFields(t *testing.T) {
	f := adminforms.NewPublicationContactForm(adminforms.PublicationContactValues{
		TeamName:     "Explore Education Statistics",
		TeamEmail:    "explore.statistics@example.com",
		ContactName:  "Sam",
		ContactTelNo: "0123456789",
	}, nil)

	if err := f.Bind(map[string]any{"contactName": "Alex"}); err != nil {
		t.Fatalf("bind: %v", err)
	}
	want := adminforms.PublicationContactValues{
		TeamName:     "Explore Education Statistics",
		TeamEmail:    "explore.statistics@example.com",
		ContactName:  "Alex",
		ContactTelNo: "0123456789",
	}
	if diff := cmp.Diff(want, f.State().Values()); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}

	if err := f.Bind(map[string]any{"teamEmail": 42}); err == nil {
		t.Fatal("expected a type mismatch to fail")
	}
}

func TestModel(t *testing.T) {
	m, ok := adminforms.Model(adminforms.DataFileUploadFormID)
	if !ok {
		t.Fatal("expected data file upload model")
	}
	if field, ok := m.ResolveField("zipFile"); !ok || field != "zipFile" {
		t.Fatalf("expected zipFile to resolve, got %q %v", field, ok)
	}
	if _, ok := adminforms.Model("nope"); ok {
		t.Fatal("unknown form must not have a model")
	}
}
