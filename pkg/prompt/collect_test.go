package prompt_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formsubmit/pkg/model"
	"github.com/goliatone/go-formsubmit/pkg/prompt"
)

type stubDriver struct {
	inputs     []string
	selectIdx  []int
	confirm    []bool
	textAreas  []string
	infos      []string
	inputPos   int
	selectPos  int
	confirmPos int
	textPos    int
}

func (s *stubDriver) Input(_ context.Context, _ prompt.InputConfig) (string, error) {
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ prompt.ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, _ prompt.SelectConfig) (int, error) {
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) TextArea(_ context.Context, _ prompt.TextAreaConfig) (string, error) {
	if s.textPos >= len(s.textAreas) {
		return "", errors.New("no textarea scripted")
	}
	val := s.textAreas[s.textPos]
	s.textPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infos = append(s.infos, msg)
	return nil
}

func TestCollect_ThemeFormShowsErrorsAndRetries(t *testing.T) {
	m := model.FormModel{
		ID:       "theme",
		Title:    "Create theme",
		Endpoint: "/api/themes",
		Method:   "POST",
		Fields: []model.Field{
			{Name: "title", Type: model.FieldTypeString, Required: true},
			{Name: "summary", Type: model.FieldTypeText},
		},
	}
	driver := &stubDriver{
		inputs:    []string{"", "Pupil absence"},
		textAreas: []string{"All about absence"},
	}

	values, err := prompt.New(prompt.WithDriver(driver)).Collect(context.Background(), m,
		prompt.Values{"title": "Pupils"},
		map[string]string{"title": "Enter a unique title"},
	)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}

	want := prompt.Values{"title": "Pupil absence", "summary": "All about absence"}
	if diff := cmp.Diff(want, values); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	wantInfos := []string{
		"Create theme",
		"Error: Title: Enter a unique title",
		"Error: Title: required",
	}
	if diff := cmp.Diff(wantInfos, driver.infos); diff != "" {
		t.Fatalf("info mismatch (-want +got):\n%s", diff)
	}
}

func TestCollect_ConditionalFilesAndSelect(t *testing.T) {
	dir := t.TempDir()
	zipPath := filepath.Join(dir, "data.zip")
	if err := os.WriteFile(zipPath, []byte("PK"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	csvPath := filepath.Join(dir, "data.csv")
	if err := os.WriteFile(csvPath, []byte("a"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	m := model.FormModel{
		ID:       "dataFileUploadForm",
		Endpoint: "/api/releases/{releaseId}/data",
		Method:   "POST",
		Fields: []model.Field{
			{Name: "uploadType", Type: model.FieldTypeSelect, Options: []model.Option{
				{Label: "CSV files", Value: "csv"},
				{Label: "ZIP file", Value: "zip"},
			}},
			{Name: "dataFile", Type: model.FieldTypeFile, Accept: []string{".csv"}, When: map[string]string{"uploadType": "csv"}},
			{Name: "zipFile", Type: model.FieldTypeFile, Accept: []string{".zip"}, Required: true, When: map[string]string{"uploadType": "zip"}},
		},
	}
	driver := &stubDriver{
		selectIdx: []int{1},
		inputs:    []string{csvPath, zipPath},
	}

	values, err := prompt.New(prompt.WithDriver(driver)).Collect(context.Background(), m,
		prompt.Values{"dataFile": csvPath},
		nil,
	)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}

	want := prompt.Values{"uploadType": "zip", "zipFile": zipPath}
	if diff := cmp.Diff(want, values); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Error: ZIP file: file must be .zip"}, driver.infos); diff != "" {
		t.Fatalf("info mismatch (-want +got):\n%s", diff)
	}
}

func TestCollect_ArrayOfObjects(t *testing.T) {
	m := model.FormModel{
		ID:       "user-invite",
		Endpoint: "/api/users/invites",
		Method:   "POST",
		Fields: []model.Field{
			{Name: "userEmail", Type: model.FieldTypeString, Required: true},
			{
				Name: "userReleaseRoles",
				Type: model.FieldTypeArray,
				Items: &model.Field{
					Label: "Release role",
					Type:  model.FieldTypeObject,
					Nested: []model.Field{
						{Name: "releaseId", Type: model.FieldTypeString, Required: true},
						{Name: "releaseRole", Type: model.FieldTypeString, Required: true},
					},
				},
			},
			{Name: "notify", Type: model.FieldTypeBoolean, Default: true},
			{Name: "order", Type: model.FieldTypeInteger},
		},
	}
	driver := &stubDriver{
		inputs:  []string{"a@example.com", "r1", "Contributor", "r2", "Approver", "x", "3"},
		confirm: []bool{true, true, false, false},
	}

	values, err := prompt.New(prompt.WithDriver(driver)).Collect(context.Background(), m, nil, nil)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}

	want := prompt.Values{
		"userEmail": "a@example.com",
		"userReleaseRoles": []any{
			map[string]any{"releaseId": "r1", "releaseRole": "Contributor"},
			map[string]any{"releaseId": "r2", "releaseRole": "Approver"},
		},
		"notify": false,
		"order":  int64(3),
	}
	if diff := cmp.Diff(want, values); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestCollect_Aborted(t *testing.T) {
	m := model.FormModel{Fields: []model.Field{{Name: "title"}}}
	_, err := prompt.New(prompt.WithDriver(&stubDriver{})).Collect(context.Background(), m, nil, nil)
	if err == nil {
		t.Fatal("expected driver error to propagate")
	}
}

func TestValues_SetAndGet(t *testing.T) {
	values := prompt.Values{}
	if err := values.Set("roles.1.id", "r2"); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, ok := values.Get("roles.1.id")
	if !ok || got != "r2" {
		t.Fatalf("expected r2, got %v", got)
	}
	if _, ok := values.Get("roles.0.id"); ok {
		t.Fatal("expected empty first item")
	}
	if err := values.Set("roles", nil); err != nil {
		t.Fatalf("set nil: %v", err)
	}
	if _, ok := values.Get("roles"); ok {
		t.Fatal("expected key to be removed")
	}
}

func TestSummary(t *testing.T) {
	driver := &stubDriver{}
	if err := prompt.New(prompt.WithDriver(driver)).Summary(context.Background(), []string{"Something broke"}); err != nil {
		t.Fatalf("summary: %v", err)
	}
	if diff := cmp.Diff([]string{"There is a problem", "  - Something broke"}, driver.infos); diff != "" {
		t.Fatalf("info mismatch (-want +got):\n%s", diff)
	}
}
