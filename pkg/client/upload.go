package client

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sort"

	"github.com/goliatone/go-formsubmit/pkg/model"
)

// Upload posts a multipart form. Nil files are skipped. The body is streamed
// so large data files are never held in memory.
func (c *Client) Upload(ctx context.Context, path string, fields map[string]string, files map[string]*model.File, out any) error {
	reader, writer := io.Pipe()
	form := multipart.NewWriter(writer)

	go func() {
		writer.CloseWithError(writeMultipart(form, fields, files))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(path), reader)
	if err != nil {
		reader.Close()
		return fmt.Errorf("client: create request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	return c.send(req, out)
}

func writeMultipart(form *multipart.Writer, fields map[string]string, files map[string]*model.File) error {
	for _, name := range sortedKeys(fields) {
		if err := form.WriteField(name, fields[name]); err != nil {
			return fmt.Errorf("client: write field %s: %w", name, err)
		}
	}

	names := make([]string, 0, len(files))
	for name, file := range files {
		if file != nil {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	for _, name := range names {
		if err := writeFilePart(form, name, files[name]); err != nil {
			return err
		}
	}
	return form.Close()
}

func writeFilePart(form *multipart.Writer, name string, file *model.File) error {
	src, err := file.Open()
	if err != nil {
		return fmt.Errorf("client: open %s: %w", name, err)
	}
	defer src.Close()

	part, err := form.CreateFormFile(name, file.Name)
	if err != nil {
		return fmt.Errorf("client: create part %s: %w", name, err)
	}
	if _, err := io.Copy(part, src); err != nil {
		return fmt.Errorf("client: copy %s: %w", name, err)
	}
	return nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
