package adminapi

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
)

const (
	uploadTypeCSV = "csv"
	uploadTypeZip = "zip"
)

var filenamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// uploaded is a file read from a multipart part or a ZIP entry.
type uploaded struct {
	name    string
	content []byte
}

func (u uploaded) size() int64 { return int64(len(u.content)) }

// UploadDataFiles handles POST /api/releases/{releaseId}/data. CSV uploads
// carry dataFile and metadataFile parts; ZIP uploads a zipFile part holding
// both.
func (h *Handler) UploadDataFiles(w http.ResponseWriter, r *http.Request) {
	releaseID := chi.URLParam(r, "releaseId")
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "upload is too large")
			return
		}
		writeError(w, http.StatusBadRequest, "expected a multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	var (
		errs       failures
		data, meta uploaded
		uploadType = strings.TrimSpace(r.FormValue("uploadType"))
	)
	switch uploadType {
	case "", uploadTypeCSV:
		uploadType = uploadTypeCSV
		var okData, okMeta bool
		data, okData = readPart(r.MultipartForm, "dataFile")
		meta, okMeta = readPart(r.MultipartForm, "metadataFile")
		if !okData {
			errs.add(CodeRequired, "dataFile", "Data file is required")
		}
		if !okMeta {
			errs.add(CodeRequired, "metadataFile", "Metadata file is required")
		}
		if okData && okMeta {
			checkCSV(&errs, data, meta)
		}
	case uploadTypeZip:
		archive, ok := readPart(r.MultipartForm, "zipFile")
		if !ok {
			errs.add(CodeRequired, "zipFile", "ZIP file is required")
			break
		}
		data, meta = checkZip(&errs, archive)
	default:
		errs.add(CodeUnknownUpload, "uploadType", "Upload type must be csv or zip")
	}

	if len(errs) == 0 {
		checkPair(&errs, data, meta)
		if h.store.HasDataFile(releaseID, data.name) {
			errs.add(CodeDataFilenameNotUnique, "", "")
		}
	}
	if len(errs) > 0 {
		h.reject(w, r, errs)
		return
	}

	file, ok := h.store.AddDataFile(DataFile{
		ReleaseID:    releaseID,
		Filename:     data.name,
		MetaFilename: meta.name,
		Size:         data.size(),
		UploadType:   uploadType,
	})
	if !ok {
		errs.add(CodeDataFilenameNotUnique, "", "")
		h.reject(w, r, errs)
		return
	}
	writeJSON(w, http.StatusCreated, file)
}

func readPart(form *multipart.Form, name string) (uploaded, bool) {
	headers := form.File[name]
	if len(headers) == 0 {
		return uploaded{}, false
	}
	f, err := headers[0].Open()
	if err != nil {
		return uploaded{}, false
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return uploaded{}, false
	}
	return uploaded{name: path.Base(headers[0].Filename), content: content}, true
}

func checkCSV(errs *failures, data, meta uploaded) {
	if !isCSV(data) {
		errs.add(CodeDataFileMustBeCsvFile, "", "")
	}
	if !isCSV(meta) {
		errs.add(CodeMetaFileMustBeCsvFile, "", "")
	}
}

func isCSV(u uploaded) bool {
	return strings.EqualFold(path.Ext(u.name), ".csv") && utf8.Valid(u.content)
}

// checkZip extracts the data and metadata entries of a ZIP upload.
func checkZip(errs *failures, archive uploaded) (data, meta uploaded) {
	if !strings.EqualFold(path.Ext(archive.name), ".zip") {
		errs.add(CodeDataZipMustBeZipFile, "", "")
		return
	}
	reader, err := zip.NewReader(bytes.NewReader(archive.content), archive.size())
	if err != nil {
		errs.add(CodeDataZipMustBeZipFile, "", "")
		return
	}

	var entries []uploaded
	csvCount := 0
	for _, entry := range reader.File {
		if entry.FileInfo().IsDir() {
			continue
		}
		content, err := readZipEntry(entry)
		if err != nil {
			errs.add(CodeDataZipMustBeZipFile, "", "")
			return
		}
		u := uploaded{name: path.Base(entry.Name), content: content}
		if strings.EqualFold(path.Ext(u.name), ".csv") {
			csvCount++
		}
		entries = append(entries, u)
	}

	switch {
	case csvCount == 0:
		errs.add(CodeDataZipFileDoesNotContainCsvFiles, "", "")
		return
	case len(entries) != 2 || csvCount != 2:
		errs.add(CodeDataZipFileCanOnlyContainTwoFiles, "", "")
		return
	}

	data, meta = entries[0], entries[1]
	if isMetaName(data.name) && !isMetaName(meta.name) {
		data, meta = meta, data
	}
	return data, meta
}

func readZipEntry(entry *zip.File) ([]byte, error) {
	rc, err := entry.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func isMetaName(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".meta.csv")
}

// checkPair applies the naming and size rules shared by CSV and ZIP uploads.
func checkPair(errs *failures, data, meta uploaded) {
	if data.size() == 0 {
		errs.add(CodeDataFileCannotBeEmpty, "", "")
	}
	if meta.size() == 0 {
		errs.add(CodeMetadataFileCannotBeEmpty, "", "")
	}
	if !filenamePattern.MatchString(data.name) {
		errs.add(CodeDataFilenameSpecialCharacters, "", "")
	}
	if !filenamePattern.MatchString(meta.name) {
		errs.add(CodeMetaFilenameSpecialCharacters, "", "")
	}
	if strings.EqualFold(data.name, meta.name) {
		errs.add(CodeDataAndMetadataFilesCannotHaveSameName, "", "")
	} else if !isMetaName(meta.name) {
		errs.add(CodeMetaFileIsIncorrectlyNamed, "", "")
	}
}
