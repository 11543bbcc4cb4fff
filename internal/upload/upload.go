// package upload publishes videos to the connected platforms through the
// backend's multipart endpoint.
//
// Uploads emit progress updates via channels for non-blocking status
// reporting to CLI/UI layers.
package upload

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/charmbracelet/log"

	"pushcast/internal/api"
	"pushcast/internal/models"
	"pushcast/internal/repositories"
	"pushcast/internal/shared"
	"pushcast/internal/validate"
)

// Request describes a single video upload.
type Request struct {
	Path      string                // path to the local video file
	Metadata  models.VideoMetadata  // user-supplied fields
	Platforms []models.Platform     // publishing destinations
}

// ValidationError carries the user-facing messages from a failed local
// validation. Uploads that fail validation never reach the network.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, "; ")
}

// Options configures an [Uploader].
type Options struct {
	Repository    *repositories.VideoRepository // optional local upload history
	Logger        *log.Logger
	MaxFileSizeMB int // defaults to validate.DefaultMaxFileSizeMB
	MaxRetries    int // transport-level retry attempts, defaults to 3
}

// Uploader publishes videos and keeps a local history of the attempts.
type Uploader struct {
	client     *api.Client
	repo       *repositories.VideoRepository
	logger     *log.Logger
	maxSizeMB  int
	maxRetries int
	inFlight   atomic.Bool
}

// NewUploader creates an uploader backed by the given API client.
func NewUploader(client *api.Client, opts Options) *Uploader {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	maxSize := opts.MaxFileSizeMB
	if maxSize <= 0 {
		maxSize = validate.DefaultMaxFileSizeMB
	}

	retries := opts.MaxRetries
	if retries <= 0 {
		retries = 3
	}

	return &Uploader{
		client:     client,
		repo:       opts.Repository,
		logger:     logger,
		maxSizeMB:  maxSize,
		maxRetries: retries,
	}
}

// InFlight reports whether an upload is currently running.
func (u *Uploader) InFlight() bool {
	return u.inFlight.Load()
}

// UploadVideo validates the request locally, then streams the file to the
// backend and returns the per-platform results.
//
// Progress updates are sent non-blocking; a nil channel is fine. The transfer
// percentage resets to zero before the upload starts and after it finishes,
// regardless of outcome. Transport failures are retried a bounded number of
// times under one idempotency key; server responses are never retried.
func (u *Uploader) UploadVideo(ctx context.Context, req Request, progress chan<- ProgressUpdate) (*models.UploadResponse, error) {
	u.inFlight.Store(true)
	defer u.inFlight.Store(false)

	sendProgress(progress, transferUpdate(0, 0))
	defer sendProgress(progress, transferUpdate(0, 0))

	sendProgress(progress, validateUpdate())
	if err := u.validateRequest(req); err != nil {
		return nil, err
	}

	info, err := os.Stat(req.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat upload file: %w", err)
	}

	sendProgress(progress, prepareUpdate(req.Path))

	fields := map[string]string{
		"title":     req.Metadata.Title,
		"privacy":   string(req.Metadata.Privacy),
		"platforms": joinPlatforms(req.Platforms),
	}
	if req.Metadata.Description != "" {
		fields["description"] = req.Metadata.Description
	}
	if len(req.Metadata.Tags) > 0 {
		fields["tags"] = strings.Join(req.Metadata.Tags, ",")
	}
	if req.Metadata.Category != "" {
		fields["category"] = req.Metadata.Category
	}

	record := u.recordAttempt(req, info.Size())

	idempotencyKey := shared.GenerateID()
	total := info.Size()

	var response models.UploadResponse
	err = retry.Do(
		func() error {
			sendProgress(progress, transferUpdate(0, total))
			return u.client.UploadMultipart(ctx, "/api/upload/upload_video", fields, "file", req.Path,
				func(sent, size int64) {
					sendProgress(progress, transferUpdate(sent, size))
				},
				&response,
				api.WithHeader("X-Idempotency-Key", idempotencyKey),
			)
		},
		retry.Context(ctx),
		retry.Attempts(uint(u.maxRetries)),
		retry.Delay(500*time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(api.IsNetworkError),
		retry.OnRetry(func(n uint, err error) {
			u.logger.Warn("upload transport failure, retrying", "attempt", n+1, "error", err)
		}),
	)
	if err != nil {
		u.finishAttempt(record, models.StatusFailed, nil)
		return nil, err
	}

	sendProgress(progress, finalizeUpdate(len(response.Results)))
	u.finishAttempt(record, statusFromResponse(&response), &response)

	return &response, nil
}

func (u *Uploader) validateRequest(req Request) error {
	var messages []string

	if report := validate.VideoMetadata(req.Metadata.Title, req.Metadata.Description, req.Metadata.Tags); !report.Valid {
		messages = append(messages, report.Errors...)
	}

	if !validate.IsValidVideoFile(req.Path) {
		messages = append(messages, "Ungültiges Videoformat")
	} else if !validate.IsValidFileSize(req.Path, u.maxSizeMB) {
		messages = append(messages, fmt.Sprintf("Datei überschreitet die maximale Größe von %d MB", u.maxSizeMB))
	}

	if len(req.Platforms) == 0 {
		messages = append(messages, "Mindestens eine Plattform muss ausgewählt werden")
	}
	for _, platform := range req.Platforms {
		if _, ok := models.ParsePlatform(string(platform)); !ok {
			messages = append(messages, fmt.Sprintf("Unbekannte Plattform: %s", platform))
		}
	}

	if len(messages) > 0 {
		return &ValidationError{Messages: messages}
	}
	return nil
}

// recordAttempt writes a pending history row. A nil repository disables
// history; failures are logged and the upload proceeds.
func (u *Uploader) recordAttempt(req Request, size int64) *models.VideoRecord {
	if u.repo == nil {
		return nil
	}

	record := models.NewVideoRecord(0, req.Path, size, req.Metadata, req.Platforms)
	if err := u.repo.Create(record); err != nil {
		u.logger.Warn("failed to record upload attempt", "error", err)
		return nil
	}
	return record
}

func (u *Uploader) finishAttempt(record *models.VideoRecord, status models.VideoStatus, response *models.UploadResponse) {
	if record == nil {
		return
	}

	record.SetStatus(status)
	if response != nil {
		record.SetRemoteID(response.VideoID)
	}
	if err := u.repo.Update(record); err != nil {
		u.logger.Warn("failed to update upload history", "error", err)
		return
	}

	if response != nil && len(response.Results) > 0 {
		if err := u.repo.SaveResults(record.ID(), response.Results); err != nil {
			u.logger.Warn("failed to save upload results", "error", err)
		}
	}
}

// statusFromResponse maps per-platform outcomes to a record status. Partial
// success still counts as uploaded; the per-platform rows carry the detail.
func statusFromResponse(response *models.UploadResponse) models.VideoStatus {
	if len(response.Results) == 0 {
		if response.Success {
			return models.StatusUploaded
		}
		return models.StatusFailed
	}

	for _, result := range response.Results {
		if result.Success {
			return models.StatusUploaded
		}
	}
	return models.StatusFailed
}

func joinPlatforms(platforms []models.Platform) string {
	names := make([]string, len(platforms))
	for i, platform := range platforms {
		names[i] = string(platform)
	}
	return strings.Join(names, ",")
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks the upload.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full, skip this update
	}
}
