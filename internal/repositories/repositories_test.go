package repositories

import (
	"database/sql"
	"testing"
	"time"

	"pushcast/internal/models"
	"pushcast/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		t.Fatalf("failed to enable foreign keys: %v", err)
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func testVideo() *models.VideoRecord {
	return models.NewVideoRecord(0, "/tmp/clip.mp4", 1024, models.VideoMetadata{
		Title:       "Test Clip",
		Description: "A test upload",
		Tags:        []string{"go", "cli"},
		Privacy:     models.PrivacyPrivate,
	}, []models.Platform{models.YouTube, models.TikTok})
}

func TestVideoRepository(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewVideoRepository(db)
		video := testVideo()

		if err := repo.Create(video); err != nil {
			t.Fatalf("failed to create video: %v", err)
		}

		if video.ID() == "" {
			t.Error("video ID should be set after creation")
		}
		if video.Sequence() == 0 {
			t.Error("video sequence should be set after creation")
		}
	})

	t.Run("Get", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewVideoRepository(db)
		video := testVideo()

		if err := repo.Create(video); err != nil {
			t.Fatalf("failed to create video: %v", err)
		}

		retrieved, err := repo.Get(video.ID())
		if err != nil {
			t.Fatalf("failed to get video: %v", err)
		}

		if retrieved.Title() != "Test Clip" {
			t.Errorf("expected title Test Clip, got %s", retrieved.Title())
		}
		if retrieved.Tags() != "go,cli" {
			t.Errorf("expected tags go,cli, got %s", retrieved.Tags())
		}
		if got := retrieved.PlatformList(); len(got) != 2 || got[0] != "youtube" {
			t.Errorf("expected platforms [youtube tiktok], got %v", got)
		}
	})

	t.Run("Update", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewVideoRepository(db)
		video := testVideo()

		if err := repo.Create(video); err != nil {
			t.Fatalf("failed to create video: %v", err)
		}

		video.SetRemoteID("srv_42")
		video.SetStatus(models.StatusUploaded)
		if err := repo.Update(video); err != nil {
			t.Fatalf("failed to update video: %v", err)
		}

		retrieved, err := repo.GetByRemoteID("srv_42")
		if err != nil {
			t.Fatalf("failed to get by remote ID: %v", err)
		}
		if retrieved.Status() != models.StatusUploaded {
			t.Errorf("expected status uploaded, got %s", retrieved.Status())
		}
	})

	t.Run("Delete", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewVideoRepository(db)
		video := testVideo()

		if err := repo.Create(video); err != nil {
			t.Fatalf("failed to create video: %v", err)
		}

		if err := repo.Delete(video.ID()); err != nil {
			t.Fatalf("failed to delete video: %v", err)
		}

		if _, err := repo.Get(video.ID()); err == nil {
			t.Error("expected error when getting deleted video")
		}

		if err := repo.Delete(video.ID()); err == nil {
			t.Error("expected error deleting an already-deleted video")
		}
	})

	t.Run("List", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewVideoRepository(db)

		first := testVideo()
		if err := repo.Create(first); err != nil {
			t.Fatalf("failed to create first video: %v", err)
		}
		second := testVideo()
		second.SetStatus(models.StatusPending)
		if err := repo.Create(second); err != nil {
			t.Fatalf("failed to create second video: %v", err)
		}
		second.SetStatus(models.StatusUploaded)
		if err := repo.Update(second); err != nil {
			t.Fatalf("failed to update second video: %v", err)
		}

		all, err := repo.List(nil)
		if err != nil {
			t.Fatalf("failed to list videos: %v", err)
		}
		if len(all) != 2 {
			t.Fatalf("expected 2 videos, got %d", len(all))
		}
		if all[0].ID() != second.ID() {
			t.Error("expected newest video first")
		}

		uploaded, err := repo.List(map[string]any{"status": "uploaded"})
		if err != nil {
			t.Fatalf("failed to list by status: %v", err)
		}
		if len(uploaded) != 1 {
			t.Errorf("expected 1 uploaded video, got %d", len(uploaded))
		}
	})

	t.Run("SaveResults", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewVideoRepository(db)
		video := testVideo()

		if err := repo.Create(video); err != nil {
			t.Fatalf("failed to create video: %v", err)
		}

		results := []models.UploadResult{
			{Platform: "youtube", Success: true, URL: "https://youtu.be/x", VideoID: "yt1"},
			{Platform: "tiktok", Success: false, Error: "quota exceeded"},
		}
		if err := repo.SaveResults(video.ID(), results); err != nil {
			t.Fatalf("failed to save results: %v", err)
		}

		retrieved, err := repo.Get(video.ID())
		if err != nil {
			t.Fatalf("failed to get video: %v", err)
		}

		got := retrieved.Results()
		if len(got) != 2 {
			t.Fatalf("expected 2 results, got %d", len(got))
		}
		// Ordered by platform: tiktok before youtube
		if got[0].Platform != "tiktok" || got[0].Success {
			t.Errorf("expected failed tiktok result, got %+v", got[0])
		}
		if got[1].Platform != "youtube" || !got[1].Success {
			t.Errorf("expected successful youtube result, got %+v", got[1])
		}

		// Replacement is wholesale
		if err := repo.SaveResults(video.ID(), results[:1]); err != nil {
			t.Fatalf("failed to replace results: %v", err)
		}
		retrieved, _ = repo.Get(video.ID())
		if len(retrieved.Results()) != 1 {
			t.Errorf("expected results to be replaced, got %d", len(retrieved.Results()))
		}
	})
}

func TestPlatformRepository(t *testing.T) {
	t.Run("Upsert And List", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewPlatformRepository(db)
		now := time.Now()

		record := models.NewPlatformRecord(0, "u1", models.YouTube, models.PlatformStatus{
			Connected: true,
			Username:  "creator",
			LastSync:  &now,
		}, now)

		if err := repo.Upsert(record); err != nil {
			t.Fatalf("failed to upsert: %v", err)
		}

		records, err := repo.ListByUser("u1")
		if err != nil {
			t.Fatalf("failed to list: %v", err)
		}
		if len(records) != 1 {
			t.Fatalf("expected 1 record, got %d", len(records))
		}
		if !records[0].Connected() || records[0].Username() != "creator" {
			t.Errorf("unexpected record: %+v", records[0].Status())
		}

		// Second upsert updates in place
		updated := models.NewPlatformRecord(0, "u1", models.YouTube, models.PlatformStatus{Connected: false}, time.Now())
		if err := repo.Upsert(updated); err != nil {
			t.Fatalf("failed to re-upsert: %v", err)
		}

		records, _ = repo.ListByUser("u1")
		if len(records) != 1 {
			t.Fatalf("expected upsert to update in place, got %d rows", len(records))
		}
		if records[0].Connected() {
			t.Error("expected connected=false after update")
		}
	})

	t.Run("DeleteByUser", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewPlatformRepository(db)
		now := time.Now()

		for _, p := range models.AllPlatforms {
			record := models.NewPlatformRecord(0, "u1", p, models.PlatformStatus{}, now)
			if err := repo.Upsert(record); err != nil {
				t.Fatalf("failed to upsert %s: %v", p, err)
			}
		}

		if err := repo.DeleteByUser("u1"); err != nil {
			t.Fatalf("failed to delete: %v", err)
		}

		records, _ := repo.ListByUser("u1")
		if len(records) != 0 {
			t.Errorf("expected no records after delete, got %d", len(records))
		}
	})

	t.Run("Rejects Unknown Platform", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewPlatformRepository(db)
		record := models.NewPlatformRecord(0, "u1", models.Platform("myspace"), models.PlatformStatus{}, time.Now())

		if err := repo.Upsert(record); err == nil {
			t.Error("expected validation error for unknown platform")
		}
	})
}
