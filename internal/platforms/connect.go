package platforms

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"pushcast/internal/models"
	"pushcast/internal/server"
	"pushcast/internal/shared"
)

// youtubeUploadScope is the YouTube Data API scope needed to publish videos.
const youtubeUploadScope = "https://www.googleapis.com/auth/youtube.upload"

// DefaultConnectTimeout bounds how long a connect flow waits for the user
// to finish authorization in the browser.
const DefaultConnectTimeout = 2 * time.Minute

// ConnectOptions carries per-flow parameters for [Store.Connect].
type ConnectOptions struct {
	ClientSecretsPath string        // Google client secrets file, YouTube only
	Timeout           time.Duration // defaults to DefaultConnectTimeout
}

// Connect links a platform account to the backend.
//
// YouTube runs the OAuth code exchange locally and posts the resulting token
// to the backend. TikTok and Instagram receive an authorization URL from the
// backend, which completes the exchange itself and redirects the browser to
// the local listener when done. Either way the cache is only updated from a
// forced status fetch after the backend has acknowledged the connection.
func (s *Store) Connect(ctx context.Context, userID string, platform models.Platform, opts ConnectOptions) error {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultConnectTimeout
	}

	var err error
	switch platform {
	case models.YouTube:
		err = s.connectYouTube(ctx, opts.ClientSecretsPath, timeout)
	case models.TikTok, models.Instagram:
		err = s.connectViaBackend(ctx, platform, timeout)
	default:
		return fmt.Errorf("%w: %s", shared.ErrUnknownPlatform, platform)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %v", shared.ErrConnectFailed, platform, err)
	}

	if _, err := s.FetchStatus(ctx, userID, true); err != nil {
		return fmt.Errorf("connected %s but failed to confirm status: %w", platform, err)
	}

	status, _ := s.Status(platform)
	if !status.Connected {
		return fmt.Errorf("%w: %s: backend did not confirm the connection", shared.ErrConnectFailed, platform)
	}

	return nil
}

// connectYouTube drives the local authorization code flow and hands the
// token to the backend for storage.
func (s *Store) connectYouTube(ctx context.Context, secretsPath string, timeout time.Duration) error {
	if secretsPath == "" {
		return fmt.Errorf("%w: client secrets path is required for youtube", shared.ErrMissingCredentials)
	}

	data, err := os.ReadFile(secretsPath)
	if err != nil {
		return fmt.Errorf("failed to read client secrets: %w", err)
	}

	config, err := google.ConfigFromJSON(data, youtubeUploadScope)
	if err != nil {
		return fmt.Errorf("failed to parse client secrets: %w", err)
	}
	config.RedirectURL = fmt.Sprintf("http://%s/callback", s.callback)

	state, err := shared.GenerateState()
	if err != nil {
		return err
	}

	handler := server.NewOAuthHandler(config, string(models.YouTube), state)
	authURL := config.AuthCodeURL(state, oauth2.AccessTypeOffline)

	result, err := awaitResult(ctx, s, handler, handler.Result(), authURL, timeout)
	if err != nil {
		return err
	}
	if result.Error() != nil {
		return result.Error()
	}
	if result.Token == nil {
		return fmt.Errorf("no token received")
	}

	body := map[string]any{
		"access_token":  result.Token.AccessToken,
		"refresh_token": result.Token.RefreshToken,
		"expires_at":    result.Token.Expiry,
	}
	if err := s.client.Post(ctx, fmt.Sprintf("/api/%s/connect", models.YouTube), body, nil); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}

	return nil
}

// connectViaBackend asks the backend for an authorization URL and waits for
// its completion redirect on the local listener.
func (s *Store) connectViaBackend(ctx context.Context, platform models.Platform, timeout time.Duration) error {
	state, err := shared.GenerateState()
	if err != nil {
		return err
	}

	request := map[string]string{
		"redirect_uri": fmt.Sprintf("http://%s/connected", s.callback),
		"state":        state,
	}
	var response struct {
		AuthURL string `json:"auth_url"`
	}
	if err := s.client.Post(ctx, fmt.Sprintf("/api/%s/connect", platform), request, &response); err != nil {
		return err
	}
	if response.AuthURL == "" {
		return fmt.Errorf("backend returned no authorization url")
	}

	handler := server.NewPingHandler(string(platform), state)

	result, err := awaitResult(ctx, s, handler, handler.Result(), response.AuthURL, timeout)
	if err != nil {
		return err
	}
	if result.Error() != nil {
		return result.Error()
	}

	return nil
}

// awaitResult serves the handler on the local listener, opens the browser,
// and waits for exactly one result, a server error, or the deadline.
func awaitResult[T any](ctx context.Context, s *Store, handler server.Handler, results <-chan T, authURL string, timeout time.Duration) (T, error) {
	var zero T

	router := server.NewBasicRouter()
	router.Use(server.RequestLogger(s.logger))
	router.Handler(handler)

	serveCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	serverErrors := make(chan error, 1)
	go func() {
		if err := server.Serve(serveCtx, s.callback, router); err != nil {
			serverErrors <- err
		}
	}()

	time.Sleep(100 * time.Millisecond)

	s.logger.Info("opening browser for authorization", "url", authURL)
	if err := s.openBrowser(authURL); err != nil {
		s.logger.Warn("could not open browser automatically, open the URL manually", "url", authURL, "error", err)
	}

	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	select {
	case result := <-results:
		return result, nil
	case err := <-serverErrors:
		return zero, fmt.Errorf("callback server error: %w", err)
	case <-ctx.Done():
		return zero, ctx.Err()
	case <-deadline.C:
		return zero, fmt.Errorf("%w: authorization timed out after %s", shared.ErrTimeout, timeout)
	}
}
