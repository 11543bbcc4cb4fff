// Package platforms maintains the connection state of the supported
// publishing destinations.
//
// The [Store] caches per-platform status fetched from the backend and only
// refetches once the staleness window has elapsed (or when forced). Connect
// and disconnect always complete a server round trip before the cache is
// touched, so the cache never claims a connection the backend has not
// confirmed. When a repository is attached, fetched status is written
// through to sqlite so the cache survives process restarts.
package platforms

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"pushcast/internal/api"
	"pushcast/internal/models"
	"pushcast/internal/repositories"
	"pushcast/internal/shared"
)

// DefaultStaleness is how long fetched platform status stays fresh.
const DefaultStaleness = 5 * time.Minute

// Options configures a [Store].
type Options struct {
	Repository   *repositories.PlatformRepository // optional sqlite write-through
	Logger       *log.Logger
	Staleness    time.Duration     // defaults to DefaultStaleness
	CallbackAddr string            // local listener for connect flows, host:port
	OpenBrowser  func(string) error // defaults to shared.OpenBrowser
}

// Store caches platform connection status for the signed-in user.
//
// All methods are safe for concurrent use.
type Store struct {
	client      *api.Client
	repo        *repositories.PlatformRepository
	logger      *log.Logger
	staleness   time.Duration
	callback    string
	openBrowser func(string) error
	now         func() time.Time

	mu        sync.RWMutex
	cache     map[models.Platform]models.PlatformStatus
	lastFetch time.Time
	loading   bool
	err       error
}

// NewStore creates a platform status store backed by the given API client.
func NewStore(client *api.Client, opts Options) *Store {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	staleness := opts.Staleness
	if staleness <= 0 {
		staleness = DefaultStaleness
	}

	open := opts.OpenBrowser
	if open == nil {
		open = shared.OpenBrowser
	}

	return &Store{
		client:      client,
		repo:        opts.Repository,
		logger:      logger,
		staleness:   staleness,
		callback:    opts.CallbackAddr,
		openBrowser: open,
		now:         time.Now,
	}
}

// Status returns the cached status for a single platform.
func (s *Store) Status(platform models.Platform) (models.PlatformStatus, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	status, ok := s.cache[platform]
	return status, ok
}

// All returns a copy of the cached status map.
func (s *Store) All() map[models.Platform]models.PlatformStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return copyCache(s.cache)
}

// Loading reports whether a fetch is currently in flight.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.loading
}

// Err returns the error from the most recent failed fetch, or nil after a
// successful one.
func (s *Store) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.err
}

// FetchStatus returns the connection status for every supported platform.
//
// While the cache is fresh and force is false, the cached map is returned
// without a network call. A failed refresh records the error but keeps the
// stale cache so callers can still render the last known state.
func (s *Store) FetchStatus(ctx context.Context, userID string, force bool) (map[models.Platform]models.PlatformStatus, error) {
	s.mu.Lock()
	if !force && s.cache != nil && s.now().Sub(s.lastFetch) < s.staleness {
		cached := copyCache(s.cache)
		s.mu.Unlock()
		return cached, nil
	}
	s.loading = true
	s.mu.Unlock()

	var payload map[string]models.PlatformStatus
	err := s.client.Get(ctx, fmt.Sprintf("/user/%s/status", userID), &payload)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false

	if err != nil {
		s.err = err
		s.logger.Warn("platform status fetch failed", "error", err)
		return copyCache(s.cache), err
	}

	fetched := make(map[models.Platform]models.PlatformStatus, len(models.AllPlatforms))
	for _, platform := range models.AllPlatforms {
		fetched[platform] = payload[string(platform)]
	}

	s.cache = fetched
	s.lastFetch = s.now()
	s.err = nil

	s.persist(userID, fetched)

	return copyCache(fetched), nil
}

// Disconnect revokes a platform connection on the backend, then marks the
// cached entry as disconnected.
func (s *Store) Disconnect(ctx context.Context, userID string, platform models.Platform) error {
	if err := s.client.Post(ctx, fmt.Sprintf("/api/%s/disconnect", platform), nil, nil); err != nil {
		return fmt.Errorf("%w: %s: %v", shared.ErrDisconnectFailed, platform, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cache != nil {
		s.cache[platform] = models.PlatformStatus{}
		s.persist(userID, map[models.Platform]models.PlatformStatus{platform: {}})
	}

	return nil
}

// RefreshToken asks the backend to refresh the stored platform credentials.
func (s *Store) RefreshToken(ctx context.Context, platform models.Platform) error {
	if err := s.client.Post(ctx, fmt.Sprintf("/api/%s/refresh", platform), nil, nil); err != nil {
		return fmt.Errorf("failed to refresh %s token: %w", platform, err)
	}
	return nil
}

// Reset clears the cache, pending error, and staleness clock. Called on logout.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache = nil
	s.lastFetch = time.Time{}
	s.loading = false
	s.err = nil
}

// Restore seeds the cache from rows persisted by a previous run. The
// staleness clock is set to the oldest row so a fresh fetch still happens
// once the window has truly elapsed.
func (s *Store) Restore(userID string) error {
	if s.repo == nil {
		return nil
	}

	records, err := s.repo.ListByUser(userID)
	if err != nil {
		return fmt.Errorf("failed to restore platform status: %w", err)
	}
	if len(records) == 0 {
		return nil
	}

	cache := make(map[models.Platform]models.PlatformStatus, len(records))
	oldest := records[0].FetchedAt()
	for _, record := range records {
		cache[record.Platform()] = record.Status()
		if record.FetchedAt().Before(oldest) {
			oldest = record.FetchedAt()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = cache
	s.lastFetch = oldest

	return nil
}

// persist writes status entries through to sqlite. Failures are logged but
// never surfaced; the in-memory cache is authoritative for this run.
// Callers must hold s.mu.
func (s *Store) persist(userID string, entries map[models.Platform]models.PlatformStatus) {
	if s.repo == nil {
		return
	}

	fetchedAt := s.now()
	for platform, status := range entries {
		record := models.NewPlatformRecord(0, userID, platform, status, fetchedAt)
		if err := s.repo.Upsert(record); err != nil {
			s.logger.Warn("failed to persist platform status", "platform", platform, "error", err)
		}
	}
}

func copyCache(cache map[models.Platform]models.PlatformStatus) map[models.Platform]models.PlatformStatus {
	if cache == nil {
		return nil
	}

	out := make(map[models.Platform]models.PlatformStatus, len(cache))
	for platform, status := range cache {
		out[platform] = status
	}
	return out
}
