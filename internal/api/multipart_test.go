package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestUploadMultipart(t *testing.T) {
	tmpDir := t.TempDir()
	filePath := filepath.Join(tmpDir, "clip.mp4")
	payload := make([]byte, 64*1024)
	if err := os.WriteFile(filePath, payload, 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	t.Run("Streams Fields And File", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := r.ParseMultipartForm(1 << 20); err != nil {
				t.Errorf("failed to parse multipart form: %v", err)
			}
			if got := r.FormValue("title"); got != "My Clip" {
				t.Errorf("expected title field, got %q", got)
			}
			file, header, err := r.FormFile("file")
			if err != nil {
				t.Fatalf("expected file part: %v", err)
			}
			defer file.Close()
			if header.Filename != "clip.mp4" {
				t.Errorf("expected filename clip.mp4, got %s", header.Filename)
			}
			w.Write([]byte(`{"success": true}`))
		}))
		defer srv.Close()

		client := NewClient(srv.URL, Options{})

		var out struct {
			Success bool `json:"success"`
		}
		err := client.UploadMultipart(context.Background(), "/api/upload/upload_video",
			map[string]string{"title": "My Clip"}, "file", filePath, nil, &out)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !out.Success {
			t.Error("expected decoded success response")
		}
	})

	t.Run("Reports Progress", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{}`))
		}))
		defer srv.Close()

		client := NewClient(srv.URL, Options{})

		var lastSent, lastTotal int64
		calls := 0
		err := client.UploadMultipart(context.Background(), "/upload", nil, "file", filePath,
			func(sent, total int64) {
				lastSent, lastTotal = sent, total
				calls++
			}, nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if calls == 0 {
			t.Fatal("expected progress callbacks")
		}
		if lastTotal != int64(len(payload)) {
			t.Errorf("expected total %d, got %d", len(payload), lastTotal)
		}
		if lastSent != lastTotal {
			t.Errorf("expected final progress to equal total, got %d/%d", lastSent, lastTotal)
		}
	})

	t.Run("Missing File", func(t *testing.T) {
		client := NewClient("http://localhost:1", Options{})
		err := client.UploadMultipart(context.Background(), "/upload", nil, "file",
			filepath.Join(tmpDir, "missing.mp4"), nil, nil)
		if err == nil {
			t.Error("expected error for missing file")
		}
	})
}
