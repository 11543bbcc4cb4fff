package api

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
)

// ProgressFunc receives advisory upload progress: bytes of the file sent so
// far and the file's total size.
type ProgressFunc func(sent, total int64)

// RequestOption mutates an outgoing request before it is sent.
type RequestOption func(*http.Request)

// WithHeader sets a header on the outgoing request. Used for idempotency
// keys on retried uploads.
func WithHeader(key, value string) RequestOption {
	return func(req *http.Request) {
		req.Header.Set(key, value)
	}
}

// UploadMultipart streams the file at filePath plus the given form fields to
// path as a multipart/form-data POST, reporting progress as the file body is
// consumed. The response is decoded into out when non-nil.
//
// The body is streamed through a pipe, so large videos are never buffered in
// memory. One call is one attempt; retry policy belongs to the caller.
func (c *Client) UploadMultipart(ctx context.Context, path string, fields map[string]string, fileField, filePath string, onProgress ProgressFunc, out any, opts ...RequestOption) error {
	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("failed to open upload file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat upload file: %w", err)
	}
	total := info.Size()

	pr, pw := io.Pipe()
	writer := multipart.NewWriter(pw)

	go func() {
		err := writeMultipart(writer, fields, fileField, filepath.Base(filePath), &progressReader{r: file, total: total, report: onProgress})
		if cerr := writer.Close(); err == nil {
			err = cerr
		}
		pw.CloseWithError(err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, pr)
	if err != nil {
		return fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	for _, opt := range opts {
		opt(req)
	}

	return c.Do(req, out)
}

func writeMultipart(writer *multipart.Writer, fields map[string]string, fileField, filename string, body io.Reader) error {
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return fmt.Errorf("failed to write form field %s: %w", key, err)
		}
	}

	part, err := writer.CreateFormFile(fileField, filename)
	if err != nil {
		return fmt.Errorf("failed to create file part: %w", err)
	}

	if _, err := io.Copy(part, body); err != nil {
		return fmt.Errorf("failed to stream file: %w", err)
	}

	return nil
}

// progressReader counts bytes as the file body is read into the request.
type progressReader struct {
	r      io.Reader
	total  int64
	sent   int64
	report ProgressFunc
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.sent += int64(n)
		if p.report != nil {
			p.report(p.sent, p.total)
		}
	}
	return n, err
}
