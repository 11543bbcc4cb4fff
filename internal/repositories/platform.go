package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"pushcast/internal/models"
	"pushcast/internal/shared"
)

// PlatformRepository persists cached platform connection status.
//
// One row per user+platform pair (UNIQUE constraint); Upsert keeps the row
// current so the staleness window survives process restarts.
type PlatformRepository struct {
	db *sql.DB
}

// NewPlatformRepository creates a new [PlatformRepository] with the given database connection
func NewPlatformRepository(db *sql.DB) *PlatformRepository {
	return &PlatformRepository{db: db}
}

// Upsert inserts or refreshes the cached status row for a user+platform pair.
func (r *PlatformRepository) Upsert(record *models.PlatformRecord) error {
	if err := record.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	existingID, err := r.lookupID(record.UserID(), string(record.Platform()))
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("failed to check existing status: %w", err)
	}

	now := time.Now()
	if existingID != "" {
		record.SetID(existingID)
		record.SetUpdatedAt(now)
		_, err := r.db.Exec(`
			UPDATE platform_status
			SET connected = ?, username = ?, last_sync = ?, fetched_at = ?, updated_at = ?
			WHERE id = ?
		`, record.Connected(), nullable(record.Username()), record.LastSync(), record.FetchedAt(), now, existingID)
		if err != nil {
			return fmt.Errorf("failed to update platform status: %w", err)
		}
		return nil
	}

	sequence, err := NextSequence(r.db, "platform_status")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	record.SetID(id)
	record.SetSequence(sequence)

	_, err = r.db.Exec(`
		INSERT INTO platform_status (id, sequence, user_id, platform, connected, username, last_sync, fetched_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, id, sequence, record.UserID(), string(record.Platform()), record.Connected(),
		nullable(record.Username()), record.LastSync(), record.FetchedAt(), record.CreatedAt(), record.UpdatedAt())
	if err != nil {
		return fmt.Errorf("failed to insert platform status: %w", err)
	}

	return nil
}

// ListByUser returns all cached status rows for a user.
func (r *PlatformRepository) ListByUser(userID string) ([]*models.PlatformRecord, error) {
	rows, err := r.db.Query(`
		SELECT id, sequence, user_id, platform, connected, username, last_sync, fetched_at, created_at, updated_at
		FROM platform_status
		WHERE user_id = ?
		ORDER BY platform
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list platform status: %w", err)
	}
	defer rows.Close()

	var records []*models.PlatformRecord
	for rows.Next() {
		record, err := scanPlatform(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan platform status: %w", err)
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

// DeleteByUser removes all cached rows for a user. Used on session reset.
func (r *PlatformRepository) DeleteByUser(userID string) error {
	if _, err := r.db.Exec("DELETE FROM platform_status WHERE user_id = ?", userID); err != nil {
		return fmt.Errorf("failed to clear platform status: %w", err)
	}
	return nil
}

func (r *PlatformRepository) lookupID(userID, platform string) (string, error) {
	var id string
	err := r.db.QueryRow("SELECT id FROM platform_status WHERE user_id = ? AND platform = ?", userID, platform).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func scanPlatform(rows *sql.Rows) (*models.PlatformRecord, error) {
	var (
		id, userID, platform    string
		sequence                int
		connected               bool
		username                sql.NullString
		lastSync                sql.NullTime
		fetchedAt               time.Time
		createdAt, updatedAt    time.Time
	)

	err := rows.Scan(&id, &sequence, &userID, &platform, &connected, &username, &lastSync, &fetchedAt, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	status := models.PlatformStatus{Connected: connected, Username: username.String}
	if lastSync.Valid {
		status.LastSync = &lastSync.Time
	}

	record := models.NewPlatformRecord(sequence, userID, models.Platform(platform), status, fetchedAt)
	record.SetID(id)
	record.SetCreatedAt(createdAt)
	record.SetUpdatedAt(updatedAt)

	return record, nil
}
