// package models defines the data model for the pushcast publishing client
package models

import (
	"time"
)

// Model defines the base interface for all persistent models in the publishing client.
// Implementations include VideoRecord and PlatformRecord.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	UpdatedAt() time.Time // UpdatedAt returns when this model was last updated
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Repository defines the interface for data access operations.
// Implementations handle database interactions for specific model types.
type Repository[T Model] interface {
	Create(model T) error                      // Create inserts a new model into the database
	Get(id string) (T, error)                  // Get retrieves a model by its ID
	Update(model T) error                      // Update modifies an existing model in the database
	Delete(id string) error                    // Delete removes a model from the database by its ID
	List(criteria map[string]any) ([]T, error) // List retrieves all models matching the given criteria
}

// Platform identifies an external publishing destination.
type Platform string

const (
	YouTube   Platform = "youtube"
	TikTok    Platform = "tiktok"
	Instagram Platform = "instagram"
)

// AllPlatforms lists every supported publishing destination.
var AllPlatforms = []Platform{YouTube, TikTok, Instagram}

// ParsePlatform validates and normalizes a platform name.
func ParsePlatform(name string) (Platform, bool) {
	switch Platform(name) {
	case YouTube, TikTok, Instagram:
		return Platform(name), true
	default:
		return "", false
	}
}

// Privacy controls video visibility after publishing.
type Privacy string

const (
	PrivacyPublic   Privacy = "public"
	PrivacyPrivate  Privacy = "private"
	PrivacyUnlisted Privacy = "unlisted"
)

// VideoStatus tracks the lifecycle of an uploaded video.
type VideoStatus string

const (
	StatusPending    VideoStatus = "pending"
	StatusProcessing VideoStatus = "processing"
	StatusUploaded   VideoStatus = "uploaded"
	StatusFailed     VideoStatus = "failed"
)

// ConnectedPlatform describes a platform linked to a user account,
// as reported by the publishing service.
type ConnectedPlatform struct {
	Platform    string `json:"platform"`
	Username    string `json:"username,omitempty"`
	ChannelID   string `json:"channel_id,omitempty"`
	ConnectedAt string `json:"connected_at,omitempty"`
}

// User represents an account on the publishing service.
// Owned by the session store; other packages read it but never mutate it.
type User struct {
	UserID             string              `json:"id"`
	Email              string              `json:"email"`
	Username           string              `json:"username,omitempty"`
	IsVerified         bool                `json:"is_verified"`
	ConnectedPlatforms []ConnectedPlatform `json:"connected_platforms,omitempty"`
	CreatedAtRaw       string              `json:"created_at,omitempty"`
	UpdatedAtRaw       string              `json:"updated_at,omitempty"`
}

// VideoMetadata contains the user-supplied fields attached to an upload.
type VideoMetadata struct {
	Title       string
	Description string
	Tags        []string
	Privacy     Privacy
	Category    string
}

// Video represents a video record as returned by the publishing service.
type Video struct {
	ID          string   `json:"video_id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Tags        string   `json:"tags,omitempty"`
	Platforms   []string `json:"platforms,omitempty"`
	Privacy     string   `json:"privacy_status,omitempty"`
	Status      string   `json:"status"`
	CreatedAt   string   `json:"created_at,omitempty"`
	UpdatedAt   string   `json:"updated_at,omitempty"`
}

// UploadResult is the per-platform outcome of a single publish attempt.
/// Transient: produced by one upload call and replaced wholesale by the next.
type UploadResult struct {
	Platform string `json:"platform"`
	Success  bool   `json:"success"`
	URL      string `json:"url,omitempty"`
	Error    string `json:"error,omitempty"`
	VideoID  string `json:"videoId,omitempty"`
}

// UploadResponse is the service response to a video upload request.
//
// Partial success across platforms is possible: Results carries one entry per
// target platform and must be surfaced entry-for-entry, never collapsed into
// the top-level Success bit.
type UploadResponse struct {
	Success bool           `json:"success"`
	VideoID string         `json:"video_id"`
	Status  string         `json:"status,omitempty"`
	Message string         `json:"message"`
	Results []UploadResult `json:"results,omitempty"`
}

// PlatformStatus describes the connection state of a single platform.
// Entries are independent per platform; there are no cross-platform invariants.
type PlatformStatus struct {
	Connected bool       `json:"connected"`
	LastSync  *time.Time `json:"last_sync,omitempty"`
	Username  string     `json:"username,omitempty"`
}
