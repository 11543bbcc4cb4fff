// package formatter provides functions to export video and platform data to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"pushcast/internal/models"
)

// VideosToCSV converts an upload list to CSV format with columns: ID, Title, Status, Platforms, Privacy, Created
func VideosToCSV(videos []models.Video) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Status", "Platforms", "Privacy", "Created"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, video := range videos {
		record := []string{
			video.ID,
			video.Title,
			video.Status,
			strings.Join(video.Platforms, " "),
			video.Privacy,
			video.CreatedAt,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// VideosToText converts an upload list to plain text format
func VideosToText(videos []models.Video) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Videos: %d\n\n", len(videos)))
	for i, video := range videos {
		buf.WriteString(fmt.Sprintf("%d. %s [%s]\n", i+1, video.Title, video.Status))
		if len(video.Platforms) > 0 {
			buf.WriteString(fmt.Sprintf("   Platforms: %s\n", strings.Join(video.Platforms, ", ")))
		}
		if video.CreatedAt != "" {
			buf.WriteString(fmt.Sprintf("   Created: %s\n", video.CreatedAt))
		}
	}

	return buf.Bytes()
}

// ResultsToText renders the per-platform outcome of an upload.
//
// Every result keeps its own line; partial success is visible as a mix of
// check marks and errors.
func ResultsToText(response *models.UploadResponse) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Video: %s\n", response.VideoID))
	if response.Message != "" {
		buf.WriteString(fmt.Sprintf("%s\n", response.Message))
	}
	buf.WriteString("\n")

	for _, result := range response.Results {
		if result.Success {
			buf.WriteString(fmt.Sprintf("✓ %s", result.Platform))
			if result.URL != "" {
				buf.WriteString(fmt.Sprintf(" → %s", result.URL))
			}
		} else {
			buf.WriteString(fmt.Sprintf("✗ %s: %s", result.Platform, result.Error))
		}
		buf.WriteString("\n")
	}

	return buf.Bytes()
}

// PlatformsToText renders the connection dashboard as plain text.
func PlatformsToText(statuses map[models.Platform]models.PlatformStatus) []byte {
	var buf bytes.Buffer

	for _, platform := range models.AllPlatforms {
		status := statuses[platform]
		if status.Connected {
			buf.WriteString(fmt.Sprintf("✓ %-10s verbunden", platform))
			if status.Username != "" {
				buf.WriteString(fmt.Sprintf(" (%s)", status.Username))
			}
			if status.LastSync != nil {
				buf.WriteString(fmt.Sprintf(", letzter Abgleich %s", status.LastSync.Format("2006-01-02 15:04")))
			}
		} else {
			buf.WriteString(fmt.Sprintf("✗ %-10s nicht verbunden", platform))
		}
		buf.WriteString("\n")
	}

	return buf.Bytes()
}

// VideosToMarkdown converts an upload list to a Markdown table.
func VideosToMarkdown(videos []models.Video, heading string) []byte {
	var buf bytes.Buffer

	if heading != "" {
		buf.WriteString(fmt.Sprintf("# %s\n\n", heading))
	}

	buf.WriteString("| Title | Status | Platforms | Privacy |\n")
	buf.WriteString("|---|---|---|---|\n")
	for _, video := range videos {
		buf.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n",
			video.Title, video.Status, strings.Join(video.Platforms, ", "), video.Privacy))
	}

	return buf.Bytes()
}

// HumanSize renders a byte count in the largest fitting binary unit.
func HumanSize(bytes int64) string {
	const (
		kb = 1 << 10
		mb = 1 << 20
		gb = 1 << 30
	)

	switch {
	case bytes >= gb:
		return fmt.Sprintf("%.2f GB", float64(bytes)/gb)
	case bytes >= mb:
		return fmt.Sprintf("%.1f MB", float64(bytes)/mb)
	case bytes >= kb:
		return fmt.Sprintf("%.1f KB", float64(bytes)/kb)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// CSVExportResult contains the paths of files created by WriteCSVExport
type CSVExportResult struct {
	VideosFile   string
	MetadataFile string
}

// WriteCSVExport exports an upload list to CSV with an accompanying metadata JSON file.
//
// Defaults to the user ID as the base filename & creates {base}_videos.csv and {base}_metadata.json
func WriteCSVExport(videos []models.Video, userID, baseFilepath string) (*CSVExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = userID
	}

	csvData, err := VideosToCSV(videos)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	videosFile := baseFilepath + "_videos.csv"
	if err := os.WriteFile(videosFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	metadata := map[string]any{"user_id": userID, "count": len(videos)}
	metadataJSON, err := json.MarshalIndent(metadata, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to generate metadata JSON: %w", err)
	}

	metadataFile := baseFilepath + "_metadata.json"
	if err := os.WriteFile(metadataFile, metadataJSON, 0644); err != nil {
		return nil, fmt.Errorf("failed to write metadata file: %w", err)
	}

	return &CSVExportResult{
		VideosFile:   videosFile,
		MetadataFile: metadataFile,
	}, nil
}
