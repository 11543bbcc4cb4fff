package formatter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"pushcast/internal/models"
)

var sampleVideos = []models.Video{
	{
		ID:        "vid-1",
		Title:     "Mein erstes Video",
		Status:    "uploaded",
		Platforms: []string{"youtube", "tiktok"},
		Privacy:   "public",
		CreatedAt: "2026-08-01T10:00:00Z",
	},
	{
		ID:      "vid-2",
		Title:   "Entwurf",
		Status:  "pending",
		Privacy: "private",
	},
}

func TestExporters(t *testing.T) {
	t.Run("VideosToCSV", func(t *testing.T) {
		data, err := VideosToCSV(sampleVideos)
		if err != nil {
			t.Fatalf("VideosToCSV failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, "ID,Title,Status,Platforms,Privacy,Created") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "vid-1") {
			t.Errorf("CSV missing first video ID")
		}
		if !strings.Contains(output, "youtube tiktok") {
			t.Errorf("CSV missing platforms column")
		}

		lines := strings.Split(strings.TrimSpace(output), "\n")
		if len(lines) != 3 {
			t.Errorf("expected 3 CSV lines, got %d", len(lines))
		}
	})

	t.Run("VideosToText", func(t *testing.T) {
		output := string(VideosToText(sampleVideos))

		if !strings.Contains(output, "Videos: 2") {
			t.Errorf("text missing count, got: %s", output)
		}
		if !strings.Contains(output, "1. Mein erstes Video [uploaded]") {
			t.Errorf("text missing numbered entry, got: %s", output)
		}
		if !strings.Contains(output, "Platforms: youtube, tiktok") {
			t.Errorf("text missing platforms line")
		}
	})

	t.Run("VideosToMarkdown", func(t *testing.T) {
		output := string(VideosToMarkdown(sampleVideos, "Uploads"))

		if !strings.Contains(output, "# Uploads") {
			t.Errorf("markdown missing heading")
		}
		if !strings.Contains(output, "| Mein erstes Video | uploaded | youtube, tiktok | public |") {
			t.Errorf("markdown missing table row, got: %s", output)
		}
	})
}

func TestResultsToText(t *testing.T) {
	response := &models.UploadResponse{
		Success: false,
		VideoID: "vid-1",
		Message: "Upload teilweise fehlgeschlagen",
		Results: []models.UploadResult{
			{Platform: "youtube", Success: true, URL: "https://youtu.be/x"},
			{Platform: "tiktok", Success: false, Error: "quota exceeded"},
		},
	}

	output := string(ResultsToText(response))

	if !strings.Contains(output, "✓ youtube → https://youtu.be/x") {
		t.Errorf("missing success line, got: %s", output)
	}
	if !strings.Contains(output, "✗ tiktok: quota exceeded") {
		t.Errorf("missing failure line, got: %s", output)
	}
}

func TestPlatformsToText(t *testing.T) {
	lastSync := time.Date(2026, 8, 15, 9, 30, 0, 0, time.UTC)
	statuses := map[models.Platform]models.PlatformStatus{
		models.YouTube: {Connected: true, Username: "creator", LastSync: &lastSync},
	}

	output := string(PlatformsToText(statuses))

	if !strings.Contains(output, "✓ youtube") || !strings.Contains(output, "(creator)") {
		t.Errorf("missing connected line, got: %s", output)
	}
	if !strings.Contains(output, "letzter Abgleich 2026-08-15 09:30") {
		t.Errorf("missing last sync, got: %s", output)
	}
	if !strings.Contains(output, "✗ tiktok") || !strings.Contains(output, "✗ instagram") {
		t.Errorf("missing disconnected platforms, got: %s", output)
	}
}

func TestHumanSize(t *testing.T) {
	cases := []struct {
		bytes int64
		want  string
	}{
		{512, "512 B"},
		{1536, "1.5 KB"},
		{5 << 20, "5.0 MB"},
		{3 << 30, "3.00 GB"},
	}

	for _, tc := range cases {
		if got := HumanSize(tc.bytes); got != tc.want {
			t.Errorf("HumanSize(%d) = %q, want %q", tc.bytes, got, tc.want)
		}
	}
}

func TestWriteCSVExport(t *testing.T) {
	tmpDir := t.TempDir()
	base := filepath.Join(tmpDir, "export")

	result, err := WriteCSVExport(sampleVideos, "u1", base)
	if err != nil {
		t.Fatalf("WriteCSVExport failed: %v", err)
	}

	if result.VideosFile != base+"_videos.csv" {
		t.Errorf("unexpected videos file: %s", result.VideosFile)
	}

	csvData, err := os.ReadFile(result.VideosFile)
	if err != nil {
		t.Fatalf("failed to read CSV file: %v", err)
	}
	if !strings.Contains(string(csvData), "Mein erstes Video") {
		t.Errorf("CSV file missing content")
	}

	metaData, err := os.ReadFile(result.MetadataFile)
	if err != nil {
		t.Fatalf("failed to read metadata file: %v", err)
	}
	if !strings.Contains(string(metaData), `"user_id": "u1"`) {
		t.Errorf("metadata missing user id, got: %s", metaData)
	}
}
