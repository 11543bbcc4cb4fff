// package session holds the authenticated user and access token for the
// publishing service and keeps both in sync with durable storage.
//
// The session is a two-state machine: Anonymous (no user, no token) and
// Authenticated (both present). The invariant is strict — the store never
// holds a token without a user or a user without a token, neither in memory
// nor on disk. Any operation that fails partway rolls back to fully
// Anonymous rather than leaving a half-set session.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"pushcast/internal/api"
	"pushcast/internal/models"
	"pushcast/internal/shared"
)

// Store is the session state machine.
//
// Store implements [api.TokenSource]; the HTTP client asks it for the
// bearer token on every request, so the token follows the session without
// any global mutable default headers.
type Store struct {
	mu      sync.RWMutex
	client  *api.Client
	storage *Storage
	logger  *log.Logger

	user  *models.User
	token string
}

// NewStore creates a session store backed by the given client and storage.
func NewStore(client *api.Client, storage *Storage, logger *log.Logger) *Store {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Store{
		client:  client,
		storage: storage,
		logger:  logger.With("component", "session"),
	}
}

// Token returns the current access token, or "" when Anonymous.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns the current user, or nil when Anonymous.
func (s *Store) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// IsAuthenticated reports whether both user and token are present.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil && s.token != ""
}

// UserID returns the current user's ID, or "" when Anonymous.
func (s *Store) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return ""
	}
	return s.user.UserID
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginUser struct {
	ID                 string                     `json:"id"`
	UserID             string                     `json:"user_id"`
	Email              string                     `json:"email"`
	Username           string                     `json:"username"`
	IsVerified         bool                       `json:"is_verified"`
	ConnectedPlatforms []models.ConnectedPlatform `json:"connected_platforms"`
	CreatedAt          string                     `json:"created_at"`
	UpdatedAt          string                     `json:"updated_at"`
}

func (u loginUser) toUser() *models.User {
	id := u.UserID
	if id == "" {
		id = u.ID
	}
	return &models.User{
		UserID:             id,
		Email:              u.Email,
		Username:           u.Username,
		IsVerified:         u.IsVerified,
		ConnectedPlatforms: u.ConnectedPlatforms,
		CreatedAtRaw:       u.CreatedAt,
		UpdatedAtRaw:       u.UpdatedAt,
	}
}

type loginResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	User        loginUser `json:"user"`
}

// Login authenticates against the service and transitions
// Anonymous → Authenticated.
//
// Persistence happens before the token becomes observable through Token(),
// so no request can go out with a token that would not survive a restart.
// On any failure the session is fully cleared before the error is returned.
func (s *Store) Login(ctx context.Context, email, password string) (*models.User, error) {
	var resp loginResponse
	err := s.client.Post(ctx, "/auth/login", loginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		s.Clear()
		return nil, fmt.Errorf("%w: %w", shared.ErrAuthFailed, err)
	}

	user := resp.User.toUser()
	if resp.AccessToken == "" || user.UserID == "" {
		s.Clear()
		return nil, fmt.Errorf("%w: malformed login response", shared.ErrAuthFailed)
	}

	if err := s.storage.SaveUser(user); err != nil {
		s.Clear()
		return nil, err
	}
	if err := s.storage.SaveToken(resp.AccessToken); err != nil {
		s.Clear()
		return nil, err
	}

	s.mu.Lock()
	s.user = user
	s.token = resp.AccessToken
	s.mu.Unlock()

	s.logger.Info("logged in", "user", user.Email)
	return user, nil
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username,omitempty"`
}

// Register creates a new account. Registration is not auto-login: session
// state is never changed here. Returns the service's confirmation message.
func (s *Store) Register(ctx context.Context, email, password, username string) (string, error) {
	var resp struct {
		Message string `json:"message"`
	}
	err := s.client.Post(ctx, "/auth/register", registerRequest{Email: email, Password: password, Username: username}, &resp)
	if err != nil {
		return "", err
	}

	if resp.Message == "" {
		resp.Message = "Registrierung erfolgreich. Bitte prüfe deine Emails."
	}
	return resp.Message, nil
}

// Logout clears the session unconditionally. The server is notified on a
// best-effort basis; local state is cleared regardless. Idempotent.
func (s *Store) Logout(ctx context.Context) {
	if s.IsAuthenticated() {
		if err := s.client.Post(ctx, "/auth/logout", nil, nil); err != nil {
			s.logger.Debugf("server logout failed, clearing locally anyway: %v", err)
		}
	}
	s.Clear()
}

// Clear drops the in-memory and persisted session. Safe to call from any state.
func (s *Store) Clear() {
	s.mu.Lock()
	s.user = nil
	s.token = ""
	s.mu.Unlock()
	s.storage.Clear()
}

// HandleUnauthorized is the hook the HTTP client invokes on a 401 response.
// The token is no longer valid, so the whole session goes with it; keeping a
// user without a token would violate the session invariant.
func (s *Store) HandleUnauthorized() {
	s.logger.Warn("session rejected by server, clearing")
	s.Clear()
}

// InitFromStorage restores a persisted session at startup.
//
// Only a complete pair restores Authenticated state. A missing half or a
// corrupted user file forces a full clear so no token leaks into memory
// without its user.
func (s *Store) InitFromStorage() error {
	token, tokenErr := s.storage.LoadToken()
	user, userErr := s.storage.LoadUser()

	if tokenErr != nil || userErr != nil || token == "" || user == nil {
		if userErr != nil || tokenErr != nil {
			s.logger.Debug("no restorable session, starting anonymous")
		}
		s.Clear()
		return nil
	}

	s.mu.Lock()
	s.user = user
	s.token = token
	s.mu.Unlock()

	s.logger.Info("session restored", "user", user.Email)
	return nil
}

// RefreshUser fetches the current user record and overwrites the stored
// user. The token is never touched. On failure the existing session is left
// exactly as it was.
func (s *Store) RefreshUser(ctx context.Context) (*models.User, error) {
	if !s.IsAuthenticated() {
		return nil, shared.ErrNotAuthenticated
	}

	var resp loginUser
	if err := s.client.Get(ctx, "/auth/me", &resp); err != nil {
		return nil, err
	}

	user := resp.toUser()
	if user.UserID == "" {
		return nil, fmt.Errorf("%w: malformed user record", shared.ErrAPIRequest)
	}

	if err := s.storage.SaveUser(user); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.user = user
	s.mu.Unlock()

	return user, nil
}
