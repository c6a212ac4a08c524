package adminforms

import (
	"context"
	"net/http"

	"github.com/goliatone/go-formsubmit/pkg/form"
	"github.com/goliatone/go-formsubmit/pkg/model"
	"github.com/goliatone/go-formsubmit/pkg/schema"
	"github.com/goliatone/go-formsubmit/pkg/validation"
)

// Upload types.
const (
	UploadTypeCSV = "csv"
	UploadTypeZip = "zip"
)

// DataFileUploadValues are the values of the data file upload form.
type DataFileUploadValues struct {
	UploadType   string      `json:"uploadType" validate:"oneof=csv zip"`
	DataFile     *model.File `json:"dataFile"`
	MetadataFile *model.File `json:"metadataFile"`
	ZipFile      *model.File `json:"zipFile"`
}

// Files returns the files submitted for the chosen upload type keyed by
// field name.
func (v DataFileUploadValues) Files() map[string]*model.File {
	if v.UploadType == UploadTypeZip {
		return map[string]*model.File{"zipFile": v.ZipFile}
	}
	return map[string]*model.File{
		"dataFile":     v.DataFile,
		"metadataFile": v.MetadataFile,
	}
}

// DataFileUploadMappings returns the server error mappings for the upload
// type in values.
func DataFileUploadMappings(values DataFileUploadValues) []validation.FieldMapping {
	if values.UploadType == UploadTypeZip {
		return []validation.FieldMapping{
			{
				Target: "zipFile",
				Messages: map[string]string{
					"DataZipMustBeZipFile":                               "Choose a valid ZIP file",
					"DataZipFileCanOnlyContainTwoFiles":                  "ZIP file can only contain two CSV files",
					"DataZipFileDoesNotContainCsvFiles":                  "ZIP file does not contain any CSV files",
					"DataFilenameNotUnique":                              "Choose a unique ZIP data file name",
					"DataAndMetadataFilesCannotHaveTheSameName":          "ZIP data and metadata filenames cannot be the same",
					"DataFileCannotBeEmpty":                              "Choose a ZIP data file that is not empty",
					"DataFilenameCannotContainSpacesOrSpecialCharacters": "ZIP data filename cannot contain spaces or special characters",
					"MetadataFileCannotBeEmpty":                          "Choose a ZIP metadata file that is not empty",
					"MetaFilenameCannotContainSpacesOrSpecialCharacters": "ZIP metadata filename cannot contain spaces or special characters",
					"MetaFileIsIncorrectlyNamed":                         "ZIP metadata filename must end with .meta.csv",
				},
			},
		}
	}

	return []validation.FieldMapping{
		{
			Target: "dataFile",
			Messages: map[string]string{
				"DataFilenameNotUnique":                              "Choose a unique data file name",
				"DataAndMetadataFilesCannotHaveTheSameName":          "Choose a different file name for data and metadata files",
				"DataFileCannotBeEmpty":                              "Choose a data file that is not empty",
				"DataFileMustBeCsvFile":                              "Data file must be a CSV with UTF-8 encoding",
				"DataFilenameCannotContainSpacesOrSpecialCharacters": "Data filename cannot contain spaces or special characters",
			},
		},
		{
			Target: "metadataFile",
			Messages: map[string]string{
				"MetadataFileCannotBeEmpty":                          "Choose a metadata file that is not empty",
				"MetaFileMustBeCsvFile":                              "Metadata file must be a CSV with UTF-8 encoding",
				"MetaFilenameCannotContainSpacesOrSpecialCharacters": "Metadata filename cannot contain spaces or special characters",
				"MetaFileIsIncorrectlyNamed":                         "Metadata filename is incorrectly named",
			},
		},
	}
}

func checkDataFileUpload(v DataFileUploadValues) map[string]string {
	errs := make(map[string]string)
	switch v.UploadType {
	case UploadTypeCSV:
		if v.DataFile == nil {
			errs["dataFile"] = "Choose a data file"
		} else if !schema.FileMinSize(v.DataFile, 0) {
			errs["dataFile"] = "Choose a data file that is not empty"
		}
		if v.MetadataFile == nil {
			errs["metadataFile"] = "Choose a metadata file"
		} else if !schema.FileMinSize(v.MetadataFile, 0) {
			errs["metadataFile"] = "Choose a metadata file that is not empty"
		}
	case UploadTypeZip:
		if v.ZipFile == nil {
			errs["zipFile"] = "Choose a ZIP file"
		} else if !schema.FileMinSize(v.ZipFile, 0) {
			errs["zipFile"] = "Choose a ZIP file that is not empty"
		}
	}
	return errs
}

// NewDataFileUploadForm builds the data file upload form. Server error
// mappings switch with the upload type. After a successful upload the form
// resets, clearing every file input.
func NewDataFileUploadForm(submit func(context.Context, DataFileUploadValues) error, opts ...Option) *Form[DataFileUploadValues] {
	cfg := newConfig(opts)
	return newForm(definition[DataFileUploadValues]{
		model: model.FormModel{
			ID:       DataFileUploadFormID,
			Title:    "Upload data files",
			Endpoint: "/api/releases/{releaseId}/data",
			Method:   http.MethodPost,
			Fields: []model.Field{
				{
					Name:  "uploadType",
					Type:  model.FieldTypeSelect,
					Label: "Choose upload method",
					Options: []model.Option{
						{Label: "CSV files", Value: UploadTypeCSV},
						{Label: "ZIP file", Value: UploadTypeZip, Hint: "Recommended for larger data files"},
					},
					Default: UploadTypeCSV,
				},
				{
					Name:   "dataFile",
					Type:   model.FieldTypeFile,
					Label:  "Upload data file",
					Accept: []string{".csv"},
					When:   map[string]string{"uploadType": UploadTypeCSV},
				},
				{
					Name:   "metadataFile",
					Type:   model.FieldTypeFile,
					Label:  "Upload metadata file",
					Accept: []string{".csv"},
					When:   map[string]string{"uploadType": UploadTypeCSV},
				},
				{
					Name:   "zipFile",
					Type:   model.FieldTypeFile,
					Label:  "Upload ZIP file",
					Hint:   "Must contain both the data and metadata CSV files",
					Accept: []string{".zip"},
					When:   map[string]string{"uploadType": UploadTypeZip},
				},
			},
		},
		initial: initialValues(cfg, DataFileUploadValues{UploadType: UploadTypeCSV}),
		schema: schema.New[DataFileUploadValues](
			schema.WithMessages[DataFileUploadValues](schema.Messages{
				"uploadType.oneof": "Choose an upload method",
			}),
			schema.WithRefine[DataFileUploadValues](checkDataFileUpload),
		),
		submit: func(ctx context.Context, v DataFileUploadValues, actions form.Actions) error {
			if submit != nil {
				if err := submit(ctx, v); err != nil {
					return err
				}
			}
			actions.ResetForm()
			return nil
		},
		dynamic: DataFileUploadMappings,
	}, cfg)
}
