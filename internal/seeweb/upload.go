package seeweb

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
)

// UploadFile posts a package archive to the RO creation form.
func (c *Client) UploadFile(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("submit_upload", "True"); err != nil {
		return fmt.Errorf("building upload form: %w", err)
	}
	part, err := mw.CreateFormFile("upload_file", filepath.Base(path))
	if err != nil {
		return fmt.Errorf("building upload form: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("building upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+PathUpload, &buf)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if err := c.do(req, PathUpload, nil); err != nil {
		return fmt.Errorf("uploading %s: %w", filepath.Base(path), err)
	}
	c.logger.Info("uploaded archive", "file", filepath.Base(path))
	return nil
}
