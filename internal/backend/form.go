package backend

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
)

// Upload is a file forwarded to the backend as a multipart part.
type Upload struct {
	Filename string
	Content  io.Reader
}

// multipartForm encodes fields (name, value pairs) and an optional file
// under the "file" part. Empty values are skipped.
func multipartForm(file *Upload, fields ...string) (string, *bytes.Buffer, error) {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)

	for i := 0; i+1 < len(fields); i += 2 {
		if fields[i+1] == "" {
			continue
		}
		if err := form.WriteField(fields[i], fields[i+1]); err != nil {
			return "", nil, fmt.Errorf("backend: failed to build form: %w", err)
		}
	}
	if file != nil {
		part, err := form.CreateFormFile("file", file.Filename)
		if err != nil {
			return "", nil, fmt.Errorf("backend: failed to build form: %w", err)
		}
		if _, err := io.Copy(part, file.Content); err != nil {
			return "", nil, fmt.Errorf("backend: failed to read upload: %w", err)
		}
	}
	if err := form.Close(); err != nil {
		return "", nil, fmt.Errorf("backend: failed to build form: %w", err)
	}
	return form.FormDataContentType(), &buf, nil
}
