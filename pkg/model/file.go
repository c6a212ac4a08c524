package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// File is the value held by file inputs.
type File struct {
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	ContentType string `json:"contentType,omitempty"`
	// Path is set for files read from disk.
	Path string `json:"path,omitempty"`

	open func() (io.ReadCloser, error)
}

// NewFile wraps in-memory content.
func NewFile(name string, content []byte) *File {
	data := append([]byte(nil), content...)
	return &File{
		Name: name,
		Size: int64(len(data)),
		open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

// FileFromPath stats a file on disk; its content is read lazily by Open.
func FileFromPath(path string) (*File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("model: %s is a directory", path)
	}
	return &File{
		Name: filepath.Base(path),
		Size: info.Size(),
		Path: path,
		open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}, nil
}

// Open returns the file content.
func (f *File) Open() (io.ReadCloser, error) {
	if f == nil || f.open == nil {
		return nil, errors.New("model: file has no content")
	}
	return f.open()
}

// Extension returns the lower-cased extension including the dot. Files named
// "x.meta.csv" report ".csv".
func (f *File) Extension() string {
	if f == nil {
		return ""
	}
	return strings.ToLower(filepath.Ext(f.Name))
}

// UnmarshalJSON accepts either a path string or an object carrying a path.
// The file is stat'ed so Size reflects the file on disk.
func (f *File) UnmarshalJSON(data []byte) error {
	var path string
	if err := json.Unmarshal(data, &path); err != nil {
		var ref struct {
			Path string `json:"path"`
		}
		if err := json.Unmarshal(data, &ref); err != nil {
			return fmt.Errorf("model: file must be a path or an object with a path: %w", err)
		}
		path = ref.Path
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return errors.New("model: file path is empty")
	}

	loaded, err := FileFromPath(path)
	if err != nil {
		return err
	}
	*f = *loaded
	return nil
}
