package models

import (
	"fmt"
	"strings"
	"time"
)

// VideoRecord is the locally persisted history entry for one upload attempt.
//
// Implements [Model]. The record mirrors what was sent to the publishing
// service plus the per-platform outcomes once the upload resolves.
type VideoRecord struct {
	id           string
	sequence     int
	remoteID     string
	title        string
	description  string
	tags         string
	platforms    string
	privacy      string
	status       VideoStatus
	filePath     string
	fileSize     int64
	results      []UploadResult
	createdAt    time.Time
	updatedAt    time.Time
	deletedAt    *time.Time
}

// NewVideoRecord creates a history entry for an upload of the given file and metadata.
func NewVideoRecord(sequence int, filePath string, fileSize int64, meta VideoMetadata, platforms []Platform) *VideoRecord {
	now := time.Now()
	names := make([]string, len(platforms))
	for i, p := range platforms {
		names[i] = string(p)
	}

	privacy := meta.Privacy
	if privacy == "" {
		privacy = PrivacyPrivate
	}

	return &VideoRecord{
		sequence:    sequence,
		title:       meta.Title,
		description: meta.Description,
		tags:        strings.Join(meta.Tags, ","),
		platforms:   strings.Join(names, ","),
		privacy:     string(privacy),
		status:      StatusPending,
		filePath:    filePath,
		fileSize:    fileSize,
		createdAt:   now,
		updatedAt:   now,
	}
}

func (v *VideoRecord) ID() string            { return v.id }
func (v *VideoRecord) Sequence() int         { return v.sequence }
func (v *VideoRecord) RemoteID() string      { return v.remoteID }
func (v *VideoRecord) Title() string         { return v.title }
func (v *VideoRecord) Description() string   { return v.description }
func (v *VideoRecord) Tags() string          { return v.tags }
func (v *VideoRecord) Platforms() string     { return v.platforms }
func (v *VideoRecord) Privacy() string       { return v.privacy }
func (v *VideoRecord) Status() VideoStatus   { return v.status }
func (v *VideoRecord) FilePath() string      { return v.filePath }
func (v *VideoRecord) FileSize() int64       { return v.fileSize }
func (v *VideoRecord) Results() []UploadResult { return v.results }
func (v *VideoRecord) CreatedAt() time.Time  { return v.createdAt }
func (v *VideoRecord) UpdatedAt() time.Time  { return v.updatedAt }
func (v *VideoRecord) DeletedAt() *time.Time { return v.deletedAt }

func (v *VideoRecord) SetID(id string)               { v.id = id }
func (v *VideoRecord) SetTags(tags string)           { v.tags = tags }
func (v *VideoRecord) SetPlatformsRaw(p string)      { v.platforms = p }
func (v *VideoRecord) SetSequence(seq int)           { v.sequence = seq }
func (v *VideoRecord) SetRemoteID(id string)         { v.remoteID = id }
func (v *VideoRecord) SetStatus(s VideoStatus)       { v.status = s }
func (v *VideoRecord) SetResults(r []UploadResult)   { v.results = r }
func (v *VideoRecord) SetCreatedAt(t time.Time)      { v.createdAt = t }
func (v *VideoRecord) SetUpdatedAt(t time.Time)      { v.updatedAt = t }
func (v *VideoRecord) SetDeletedAt(t *time.Time)     { v.deletedAt = t }

// Validate checks required fields before persistence.
func (v *VideoRecord) Validate() error {
	if v.title == "" {
		return fmt.Errorf("video record requires a title")
	}
	if v.platforms == "" {
		return fmt.Errorf("video record requires at least one target platform")
	}
	if v.filePath == "" {
		return fmt.Errorf("video record requires a file path")
	}
	return nil
}

// PlatformList splits the stored comma-joined platform names.
func (v *VideoRecord) PlatformList() []string {
	if v.platforms == "" {
		return nil
	}
	return strings.Split(v.platforms, ",")
}

// PlatformRecord is a locally persisted platform connection status row.
//
// Implements [Model]. FetchedAt carries the staleness bookkeeping so the
// cache window survives process restarts.
type PlatformRecord struct {
	id        string
	sequence  int
	userID    string
	platform  Platform
	connected bool
	username  string
	lastSync  *time.Time
	fetchedAt time.Time
	createdAt time.Time
	updatedAt time.Time
}

// NewPlatformRecord creates a status row for one user+platform pair.
func NewPlatformRecord(sequence int, userID string, platform Platform, status PlatformStatus, fetchedAt time.Time) *PlatformRecord {
	now := time.Now()
	return &PlatformRecord{
		sequence:  sequence,
		userID:    userID,
		platform:  platform,
		connected: status.Connected,
		username:  status.Username,
		lastSync:  status.LastSync,
		fetchedAt: fetchedAt,
		createdAt: now,
		updatedAt: now,
	}
}

func (p *PlatformRecord) ID() string           { return p.id }
func (p *PlatformRecord) Sequence() int        { return p.sequence }
func (p *PlatformRecord) UserID() string       { return p.userID }
func (p *PlatformRecord) Platform() Platform   { return p.platform }
func (p *PlatformRecord) Connected() bool      { return p.connected }
func (p *PlatformRecord) Username() string     { return p.username }
func (p *PlatformRecord) LastSync() *time.Time { return p.lastSync }
func (p *PlatformRecord) FetchedAt() time.Time { return p.fetchedAt }
func (p *PlatformRecord) CreatedAt() time.Time { return p.createdAt }
func (p *PlatformRecord) UpdatedAt() time.Time { return p.updatedAt }

func (p *PlatformRecord) SetID(id string)           { p.id = id }
func (p *PlatformRecord) SetSequence(seq int)       { p.sequence = seq }
func (p *PlatformRecord) SetUpdatedAt(t time.Time)  { p.updatedAt = t }
func (p *PlatformRecord) SetCreatedAt(t time.Time)  { p.createdAt = t }
func (p *PlatformRecord) SetFetchedAt(t time.Time)  { p.fetchedAt = t }
func (p *PlatformRecord) SetStatus(s PlatformStatus) {
	p.connected = s.Connected
	p.username = s.Username
	p.lastSync = s.LastSync
}

// Status converts the row back into the transport-facing shape.
func (p *PlatformRecord) Status() PlatformStatus {
	return PlatformStatus{
		Connected: p.connected,
		LastSync:  p.lastSync,
		Username:  p.username,
	}
}

// Validate checks required fields before persistence.
func (p *PlatformRecord) Validate() error {
	if p.userID == "" {
		return fmt.Errorf("platform record requires a user ID")
	}
	if _, ok := ParsePlatform(string(p.platform)); !ok {
		return fmt.Errorf("unknown platform %q", p.platform)
	}
	return nil
}
