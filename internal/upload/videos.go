package upload

import (
	"context"
	"fmt"

	"pushcast/internal/models"
	"pushcast/internal/shared"
)

// Status fetches the current state of an uploaded video.
func (u *Uploader) Status(ctx context.Context, videoID string) (*models.Video, error) {
	var video models.Video
	if err := u.client.Get(ctx, fmt.Sprintf("/api/upload/video/%s", videoID), &video); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", shared.ErrVideoNotFound, videoID, err)
	}
	return &video, nil
}

// ListByUser fetches all videos the user has uploaded.
func (u *Uploader) ListByUser(ctx context.Context, userID string) ([]models.Video, error) {
	var response struct {
		Videos []models.Video `json:"videos"`
	}
	if err := u.client.Get(ctx, fmt.Sprintf("/api/upload/videos/user/%s", userID), &response); err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}
	return response.Videos, nil
}

// Update patches mutable metadata fields of an uploaded video.
func (u *Uploader) Update(ctx context.Context, videoID string, changes map[string]any) (*models.Video, error) {
	var video models.Video
	if err := u.client.Patch(ctx, fmt.Sprintf("/api/upload/video/%s", videoID), changes, &video); err != nil {
		return nil, fmt.Errorf("failed to update video %s: %w", videoID, err)
	}
	return &video, nil
}

// Delete removes an uploaded video. The backend requires the owning user ID
// in the request body.
func (u *Uploader) Delete(ctx context.Context, videoID, userID string) error {
	body := map[string]string{"user_id": userID}
	if err := u.client.Delete(ctx, fmt.Sprintf("/api/upload/video/%s", videoID), body, nil); err != nil {
		return fmt.Errorf("failed to delete video %s: %w", videoID, err)
	}

	if u.repo != nil {
		if record, err := u.repo.GetByRemoteID(videoID); err == nil {
			if err := u.repo.Delete(record.ID()); err != nil {
				u.logger.Warn("failed to remove video from local history", "error", err)
			}
		}
	}

	return nil
}

// History returns the locally recorded upload attempts, newest first.
func (u *Uploader) History() ([]*models.VideoRecord, error) {
	if u.repo == nil {
		return nil, nil
	}
	return u.repo.List(nil)
}
