package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"pushcast/internal/models"
	"pushcast/internal/shared"
)

// VideoRepository implements [models.Repository] for [models.VideoRecord]
// persistence: the local history of upload attempts and their outcomes.
type VideoRepository struct {
	db *sql.DB
}

// NewVideoRepository creates a new [VideoRepository] with the given database connection
func NewVideoRepository(db *sql.DB) *VideoRepository {
	return &VideoRepository{db: db}
}

// Create inserts a new video record into the database with generated ID and sequence
func (r *VideoRepository) Create(video *models.VideoRecord) error {
	sequence, err := NextSequence(r.db, "videos")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	video.SetID(id)
	video.SetSequence(sequence)

	if err := video.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO videos (id, sequence, remote_id, title, description, tags, platforms, privacy, status, file_path, file_size, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query, id, sequence, nullable(video.RemoteID()), video.Title(), video.Description(),
		video.Tags(), video.Platforms(), video.Privacy(), string(video.Status()),
		video.FilePath(), video.FileSize(), video.CreatedAt(), video.UpdatedAt())
	if err != nil {
		return fmt.Errorf("failed to insert video: %w", err)
	}

	return nil
}

// Get retrieves a video record by ID, excluding soft-deleted records
func (r *VideoRepository) Get(id string) (*models.VideoRecord, error) {
	query := `
		SELECT id, sequence, remote_id, title, description, tags, platforms, privacy, status, file_path, file_size, created_at, updated_at, deleted_at
		FROM videos
		WHERE id = ? AND deleted_at IS NULL
	`

	video, err := scanVideo(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", shared.ErrVideoNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query video: %w", err)
	}

	results, err := r.resultsFor(video.ID())
	if err != nil {
		return nil, err
	}
	video.SetResults(results)

	return video, nil
}

// GetByRemoteID retrieves a video record by the service-assigned video ID.
func (r *VideoRepository) GetByRemoteID(remoteID string) (*models.VideoRecord, error) {
	query := `
		SELECT id, sequence, remote_id, title, description, tags, platforms, privacy, status, file_path, file_size, created_at, updated_at, deleted_at
		FROM videos
		WHERE remote_id = ? AND deleted_at IS NULL
	`

	video, err := scanVideo(r.db.QueryRow(query, remoteID))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: remote %s", shared.ErrVideoNotFound, remoteID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query video: %w", err)
	}

	return video, nil
}

// Update modifies an existing video record in the database
func (r *VideoRepository) Update(video *models.VideoRecord) error {
	if err := video.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	video.SetUpdatedAt(now)

	query := `
		UPDATE videos
		SET remote_id = ?, title = ?, description = ?, tags = ?, privacy = ?, status = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, nullable(video.RemoteID()), video.Title(), video.Description(),
		video.Tags(), video.Privacy(), string(video.Status()), now, video.ID())
	if err != nil {
		return fmt.Errorf("failed to update video: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("video not found or already deleted: %s", video.ID())
	}

	return nil
}

// Delete soft-deletes a video record by ID
func (r *VideoRepository) Delete(id string) error {
	now := time.Now()

	query := `
		UPDATE videos
		SET deleted_at = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete video: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrVideoNotFound, id)
	}

	return nil
}

// List retrieves video records matching the given criteria, newest first.
// Supported criteria: "status".
func (r *VideoRepository) List(criteria map[string]any) ([]*models.VideoRecord, error) {
	query := `
		SELECT id, sequence, remote_id, title, description, tags, platforms, privacy, status, file_path, file_size, created_at, updated_at, deleted_at
		FROM videos
		WHERE deleted_at IS NULL
	`
	args := []any{}

	if status, ok := criteria["status"]; ok {
		query += " AND status = ?"
		args = append(args, status)
	}

	query += " ORDER BY sequence DESC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}
	defer rows.Close()

	var videos []*models.VideoRecord
	for rows.Next() {
		video, err := scanVideo(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan video: %w", err)
		}
		videos = append(videos, video)
	}

	return videos, rows.Err()
}

// SaveResults replaces the per-platform outcomes recorded for a video.
func (r *VideoRepository) SaveResults(videoID string, results []models.UploadResult) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM upload_results WHERE video_id = ?", videoID); err != nil {
		return fmt.Errorf("failed to clear previous results: %w", err)
	}

	now := time.Now()
	for _, res := range results {
		_, err := tx.Exec(`
			INSERT INTO upload_results (id, video_id, platform, success, url, error, platform_video_id, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, shared.GenerateID(), videoID, res.Platform, res.Success, nullable(res.URL), nullable(res.Error), nullable(res.VideoID), now)
		if err != nil {
			return fmt.Errorf("failed to insert result for %s: %w", res.Platform, err)
		}
	}

	return tx.Commit()
}

// resultsFor loads the per-platform outcomes for a video.
func (r *VideoRepository) resultsFor(videoID string) ([]models.UploadResult, error) {
	rows, err := r.db.Query(`
		SELECT platform, success, url, error, platform_video_id
		FROM upload_results
		WHERE video_id = ?
		ORDER BY platform
	`, videoID)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer rows.Close()

	var results []models.UploadResult
	for rows.Next() {
		var res models.UploadResult
		var url, errMsg, platformVideoID sql.NullString
		if err := rows.Scan(&res.Platform, &res.Success, &url, &errMsg, &platformVideoID); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		res.URL = url.String
		res.Error = errMsg.String
		res.VideoID = platformVideoID.String
		results = append(results, res)
	}

	return results, rows.Err()
}

// rowScanner abstracts *sql.Row and *sql.Rows for scanVideo.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanVideo(row rowScanner) (*models.VideoRecord, error) {
	var (
		id, title, platforms, privacy, status, filePath string
		remoteID, description, tags                     sql.NullString
		sequence                                        int
		fileSize                                        int64
		createdAt, updatedAt                            time.Time
		deletedAt                                       sql.NullTime
	)

	err := row.Scan(&id, &sequence, &remoteID, &title, &description, &tags, &platforms,
		&privacy, &status, &filePath, &fileSize, &createdAt, &updatedAt, &deletedAt)
	if err != nil {
		return nil, err
	}

	video := models.NewVideoRecord(sequence, filePath, fileSize, models.VideoMetadata{
		Title:       title,
		Description: description.String,
		Privacy:     models.Privacy(privacy),
	}, nil)
	video.SetID(id)
	video.SetRemoteID(remoteID.String)
	video.SetStatus(models.VideoStatus(status))
	video.SetCreatedAt(createdAt)
	video.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		video.SetDeletedAt(&deletedAt.Time)
	}
	video.SetTags(tags.String)
	video.SetPlatformsRaw(platforms)

	return video, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
