package adminapi

import (
	"encoding/json"
	"net/http"

	"github.com/goliatone/go-formsubmit/pkg/validation"
)

// Error codes emitted by the services.
const (
	CodeSlugNotUnique     = "SlugNotUnique"
	CodeUserAlreadyExists = "UserAlreadyExists"
	CodeRequired          = "Required"
	CodeInvalidEmail      = "InvalidEmail"
	CodeInvalidURL        = "InvalidUrl"
	CodeUnknownUpload     = "UnknownUploadType"

	CodeDataFileCannotBeEmpty                  = "DataFileCannotBeEmpty"
	CodeMetadataFileCannotBeEmpty              = "MetadataFileCannotBeEmpty"
	CodeDataFileMustBeCsvFile                  = "DataFileMustBeCsvFile"
	CodeMetaFileMustBeCsvFile                  = "MetaFileMustBeCsvFile"
	CodeDataFilenameNotUnique                  = "DataFilenameNotUnique"
	CodeDataAndMetadataFilesCannotHaveSameName = "DataAndMetadataFilesCannotHaveTheSameName"
	CodeDataFilenameSpecialCharacters          = "DataFilenameCannotContainSpacesOrSpecialCharacters"
	CodeMetaFilenameSpecialCharacters          = "MetaFilenameCannotContainSpacesOrSpecialCharacters"
	CodeMetaFileIsIncorrectlyNamed             = "MetaFileIsIncorrectlyNamed"
	CodeDataZipMustBeZipFile                   = "DataZipMustBeZipFile"
	CodeDataZipFileCanOnlyContainTwoFiles      = "DataZipFileCanOnlyContainTwoFiles"
	CodeDataZipFileDoesNotContainCsvFiles      = "DataZipFileDoesNotContainCsvFiles"
)

type problem struct {
	Type   string               `json:"type,omitempty"`
	Title  string               `json:"title"`
	Status int                  `json:"status"`
	Errors []validation.Failure `json:"errors"`
}

type failures []validation.Failure

func (f *failures) add(code, path, message string) {
	*f = append(*f, validation.Failure{Code: code, Path: validation.ParsePath(path), Message: message})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeProblem(w http.ResponseWriter, errs failures) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(http.StatusBadRequest)
	_ = json.NewEncoder(w).Encode(problem{
		Title:  "One or more validation errors occurred.",
		Status: http.StatusBadRequest,
		Errors: errs,
	})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"title":  http.StatusText(status),
		"status": status,
		"detail": message,
	})
}
