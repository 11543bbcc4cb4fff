package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"pushcast/internal/models"
	"pushcast/internal/shared"
)

// Stable storage keys. Existing sessions depend on these names.
const (
	userFile  = "user.json"
	tokenFile = "access_token"
)

// currentSchema tags the on-disk user envelope so future layout changes can
// migrate instead of silently misreading old files.
const currentSchema = 1

// userEnvelope versions the persisted user record.
type userEnvelope struct {
	Schema int          `json:"schema"`
	User   *models.User `json:"user"`
}

// Storage persists the session pair (user record and access token) as two
// files under the state directory, mirroring the two storage keys the
// session has always used.
type Storage struct {
	dir string
}

// NewStorage creates session storage rooted at dir.
func NewStorage(dir string) *Storage {
	return &Storage{dir: dir}
}

func (s *Storage) userPath() string  { return filepath.Join(s.dir, userFile) }
func (s *Storage) tokenPath() string { return filepath.Join(s.dir, tokenFile) }

// SaveUser writes the user record inside a versioned envelope.
func (s *Storage) SaveUser(user *models.User) error {
	data, err := json.Marshal(userEnvelope{Schema: currentSchema, User: user})
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}

	if err := os.WriteFile(s.userPath(), data, 0600); err != nil {
		return fmt.Errorf("failed to persist user: %w", err)
	}

	return nil
}

// SaveToken writes the raw access token.
func (s *Storage) SaveToken(token string) error {
	if err := os.WriteFile(s.tokenPath(), []byte(token), 0600); err != nil {
		return fmt.Errorf("failed to persist token: %w", err)
	}
	return nil
}

// LoadUser reads the persisted user record.
//
// A schema-1 envelope is read directly. A legacy bare user object (written
// before envelopes existed) is accepted and rewritten in envelope form.
// Anything else is corruption and returns [shared.ErrSessionCorrupt].
func (s *Storage) LoadUser() (*models.User, error) {
	data, err := os.ReadFile(s.userPath())
	if err != nil {
		return nil, err
	}

	var envelope userEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrSessionCorrupt, err)
	}

	switch {
	case envelope.Schema == currentSchema && envelope.User != nil:
		return envelope.User, nil
	case envelope.Schema == 0 && envelope.User == nil:
		// Possibly a legacy bare user object. Migrate it if it parses.
		var legacy models.User
		if err := json.Unmarshal(data, &legacy); err != nil || legacy.UserID == "" {
			return nil, shared.ErrSessionCorrupt
		}
		if err := s.SaveUser(&legacy); err != nil {
			return nil, err
		}
		return &legacy, nil
	default:
		return nil, fmt.Errorf("%w: unknown schema %d", shared.ErrSessionCorrupt, envelope.Schema)
	}
}

// LoadToken reads the persisted raw token.
func (s *Storage) LoadToken() (string, error) {
	data, err := os.ReadFile(s.tokenPath())
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ClearToken removes only the persisted token.
func (s *Storage) ClearToken() {
	os.Remove(s.tokenPath())
}

// Clear removes both persisted session files. Missing files are fine.
func (s *Storage) Clear() {
	os.Remove(s.userPath())
	os.Remove(s.tokenPath())
}
