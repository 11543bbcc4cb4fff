package upload

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"pushcast/internal/api"
	"pushcast/internal/models"
	testhelpers "pushcast/internal/testing"
)

// writeVideoFixture creates a small file with a valid ISO BMFF ftyp header.
func writeVideoFixture(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "clip.mp4")
	header := []byte{0x00, 0x00, 0x00, 0x18, 'f', 't', 'y', 'p', 'i', 's', 'o', 'm',
		0x00, 0x00, 0x02, 0x00, 'i', 's', 'o', 'm', 'm', 'p', '4', '1'}
	body := append(header, make([]byte, 4096)...)
	if err := os.WriteFile(path, body, 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return path
}

func validRequest(t *testing.T) Request {
	return Request{
		Path: writeVideoFixture(t),
		Metadata: models.VideoMetadata{
			Title:   "Testvideo",
			Privacy: models.PrivacyPrivate,
		},
		Platforms: []models.Platform{models.YouTube, models.TikTok},
	}
}

func newTestUploader(handler http.Handler) (*Uploader, *httptest.Server) {
	server := httptest.NewServer(handler)
	client := api.NewClient(server.URL, api.Options{Logger: log.New(io.Discard)})
	return NewUploader(client, Options{Logger: log.New(io.Discard)}), server
}

func TestUploadVideo(t *testing.T) {
	t.Run("sends metadata and file", func(t *testing.T) {
		var gotFields map[string]string
		var gotFile string
		var gotKey string

		uploader, server := newTestUploader(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotKey = r.Header.Get("X-Idempotency-Key")
			if err := r.ParseMultipartForm(1 << 20); err != nil {
				t.Fatalf("failed to parse multipart: %v", err)
			}
			gotFields = map[string]string{}
			for key, values := range r.MultipartForm.Value {
				gotFields[key] = values[0]
			}
			if files := r.MultipartForm.File["file"]; len(files) > 0 {
				gotFile = files[0].Filename
			}
			w.Write([]byte(`{
				"success": true, "video_id": "vid-1", "message": "ok",
				"results": [
					{"platform": "youtube", "success": true, "url": "https://youtu.be/x"},
					{"platform": "tiktok", "success": false, "error": "quota exceeded"}
				]
			}`))
		}))
		defer server.Close()

		response, err := uploader.UploadVideo(context.Background(), validRequest(t), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if gotFields["title"] != "Testvideo" {
			t.Errorf("unexpected title field: %q", gotFields["title"])
		}
		if gotFields["platforms"] != "youtube,tiktok" {
			t.Errorf("unexpected platforms field: %q", gotFields["platforms"])
		}
		if gotFields["privacy"] != "private" {
			t.Errorf("unexpected privacy field: %q", gotFields["privacy"])
		}
		if gotFile != "clip.mp4" {
			t.Errorf("unexpected filename: %q", gotFile)
		}
		if gotKey == "" {
			t.Error("expected an idempotency key header")
		}

		if response.VideoID != "vid-1" {
			t.Errorf("unexpected video id: %s", response.VideoID)
		}
	})

	t.Run("preserves per-platform results", func(t *testing.T) {
		uploader, server := newTestUploader(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			io.Copy(io.Discard, r.Body)
			w.Write([]byte(`{
				"success": false, "video_id": "vid-2", "message": "teilweise fehlgeschlagen",
				"results": [
					{"platform": "youtube", "success": true, "url": "https://youtu.be/y"},
					{"platform": "tiktok", "success": false, "error": "quota exceeded"}
				]
			}`))
		}))
		defer server.Close()

		response, err := uploader.UploadVideo(context.Background(), validRequest(t), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(response.Results) != 2 {
			t.Fatalf("expected both platform results, got %d", len(response.Results))
		}
		if !response.Results[0].Success || response.Results[0].Platform != "youtube" {
			t.Errorf("unexpected first result: %+v", response.Results[0])
		}
		if response.Results[1].Success || response.Results[1].Error != "quota exceeded" {
			t.Errorf("unexpected second result: %+v", response.Results[1])
		}
	})

	t.Run("validation failures never reach the network", func(t *testing.T) {
		transport := &testhelpers.CountingRoundTripper{}
		client := api.NewClient("http://backend.test", api.Options{
			HTTPClient: &http.Client{Transport: transport},
			Logger:     log.New(io.Discard),
		})
		uploader := NewUploader(client, Options{Logger: log.New(io.Discard)})

		req := validRequest(t)
		req.Metadata.Title = ""

		_, err := uploader.UploadVideo(context.Background(), req, nil)

		var validationErr *ValidationError
		if !errors.As(err, &validationErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if validationErr.Messages[0] != "Titel ist erforderlich" {
			t.Errorf("unexpected message: %q", validationErr.Messages[0])
		}
		if transport.Count() != 0 {
			t.Errorf("expected zero network calls, got %d", transport.Count())
		}
	})

	t.Run("requires at least one platform", func(t *testing.T) {
		uploader := NewUploader(api.NewClient("http://backend.test", api.Options{Logger: log.New(io.Discard)}), Options{Logger: log.New(io.Discard)})

		req := validRequest(t)
		req.Platforms = nil

		_, err := uploader.UploadVideo(context.Background(), req, nil)
		if err == nil || !strings.Contains(err.Error(), "Mindestens eine Plattform") {
			t.Errorf("expected platform validation error, got %v", err)
		}
	})

	t.Run("retries transport failures under one key", func(t *testing.T) {
		var keys []string
		attempts := 0

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			attempts++
			keys = append(keys, r.Header.Get("X-Idempotency-Key"))
			if attempts < 3 {
				conn, _, _ := w.(http.Hijacker).Hijack()
				conn.Close()
				return
			}
			io.Copy(io.Discard, r.Body)
			w.Write([]byte(`{"success": true, "video_id": "vid-3", "message": "ok"}`))
		}))
		defer server.Close()

		client := api.NewClient(server.URL, api.Options{Logger: log.New(io.Discard)})
		uploader := NewUploader(client, Options{Logger: log.New(io.Discard), MaxRetries: 3})

		response, err := uploader.UploadVideo(context.Background(), validRequest(t), nil)
		if err != nil {
			t.Fatalf("expected retry to recover, got %v", err)
		}
		if response.VideoID != "vid-3" {
			t.Errorf("unexpected video id: %s", response.VideoID)
		}
		if attempts != 3 {
			t.Errorf("expected 3 attempts, got %d", attempts)
		}
		for _, key := range keys[1:] {
			if key != keys[0] {
				t.Error("idempotency key must stay stable across retries")
			}
		}
	})

	t.Run("does not retry server errors", func(t *testing.T) {
		attempts := 0
		uploader, server := newTestUploader(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			attempts++
			io.Copy(io.Discard, r.Body)
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"detail": "Interner Serverfehler"}`))
		}))
		defer server.Close()

		_, err := uploader.UploadVideo(context.Background(), validRequest(t), nil)
		if err == nil {
			t.Fatal("expected error")
		}
		if attempts != 1 {
			t.Errorf("server responses must not be retried, got %d attempts", attempts)
		}
	})

	t.Run("progress resets before and after", func(t *testing.T) {
		uploader, server := newTestUploader(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			io.Copy(io.Discard, r.Body)
			w.Write([]byte(`{"success": true, "video_id": "vid-4", "message": "ok"}`))
		}))
		defer server.Close()

		progress := make(chan ProgressUpdate, 64)
		if _, err := uploader.UploadVideo(context.Background(), validRequest(t), progress); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		close(progress)

		var updates []ProgressUpdate
		for update := range progress {
			updates = append(updates, update)
		}
		if len(updates) < 3 {
			t.Fatalf("expected several updates, got %d", len(updates))
		}

		first, last := updates[0], updates[len(updates)-1]
		if first.Percent != 0 || last.Percent != 0 {
			t.Errorf("percent must reset around the upload, got first=%v last=%v", first.Percent, last.Percent)
		}

		var sawTransfer bool
		for _, update := range updates {
			if update.Phase == Transfer && update.Sent > 0 {
				sawTransfer = true
			}
		}
		if !sawTransfer {
			t.Error("expected transfer progress with bytes sent")
		}

		if uploader.InFlight() {
			t.Error("InFlight must be false after return")
		}
	})
}
