// package api provides the HTTP client for the publishing service.
//
// The client owns the cross-cutting request concerns: bearer token
// injection from an injected [TokenSource], client-side rate limiting,
// and the shared handling of unauthorized, forbidden, and server error
// responses. Endpoint semantics live with the stores that call it.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"pushcast/internal/shared"
)

// TokenSource supplies the bearer token attached to outgoing requests.
// An empty token means the request goes out unauthenticated.
//
// The session store implements this interface; injecting it here replaces
// the hidden global-header coupling between session and transport.
type TokenSource interface {
	Token() string
}

// UnauthorizedHook is invoked when the service answers 401.
// The session store registers a hook that clears its persisted token.
type UnauthorizedHook func()

// Client is the configured HTTP client for the publishing service.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	tokens         TokenSource
	onUnauthorized UnauthorizedHook
	limiter        *rate.Limiter
	logger         *log.Logger
}

// Options configures a [Client].
type Options struct {
	HTTPClient     *http.Client
	Tokens         TokenSource
	OnUnauthorized UnauthorizedHook
	RequestsPerSec float64
	Logger         *log.Logger
}

// NewClient creates a client for the publishing service at baseURL.
func NewClient(baseURL string, opts Options) *Client {
	if baseURL == "" {
		baseURL = "http://localhost:8000"
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	var limiter *rate.Limiter
	if opts.RequestsPerSec > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSec), 1)
	}

	return &Client{
		baseURL:        baseURL,
		httpClient:     opts.HTTPClient,
		tokens:         opts.Tokens,
		onUnauthorized: opts.OnUnauthorized,
		limiter:        limiter,
		logger:         opts.Logger,
	}
}

// BaseURL returns the configured service base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SetUnauthorizedHook replaces the 401 hook. Used during wiring when the
// session store is constructed after the client.
func (c *Client) SetUnauthorizedHook(hook UnauthorizedHook) {
	c.onUnauthorized = hook
}

// SetTokenSource replaces the token source, for the same wiring reason.
func (c *Client) SetTokenSource(tokens TokenSource) {
	c.tokens = tokens
}

// Get performs a GET request and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.doJSON(ctx, http.MethodGet, path, nil, out)
}

// Post performs a POST request with a JSON body and decodes the response into out.
func (c *Client) Post(ctx context.Context, path string, in, out any) error {
	return c.doJSON(ctx, http.MethodPost, path, in, out)
}

// Patch performs a PATCH request with a JSON body and decodes the response into out.
func (c *Client) Patch(ctx context.Context, path string, in, out any) error {
	return c.doJSON(ctx, http.MethodPatch, path, in, out)
}

// Delete performs a DELETE request. The publishing service expects a JSON
// body on some deletes (e.g. user-scoped video deletion), so in may be non-nil.
func (c *Client) Delete(ctx context.Context, path string, in, out any) error {
	return c.doJSON(ctx, http.MethodDelete, path, in, out)
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.Do(req, out)
}

// Do sends a prepared request: waits for the rate limiter, attaches the
// bearer token, and runs the shared response handling. When out is non-nil
// the successful response body is decoded into it as JSON.
func (c *Client) Do(req *http.Request, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(req.Context()); err != nil {
			return fmt.Errorf("rate limit wait: %w", err)
		}
	}

	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// No response received: a transport failure, not a server answer.
		c.logger.Errorf("no response from %s %s: %v", req.Method, req.URL.Path, err)
		return fmt.Errorf("%w: %v", ErrNoResponse, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if err := c.checkStatus(req, resp.StatusCode, respBody); err != nil {
		return err
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// checkStatus applies the shared error policy for non-2xx responses.
//
// 401 clears the session token via the unauthorized hook; 403 and 5xx are
// logged but leave session state untouched. All propagate to the caller.
func (c *Client) checkStatus(req *http.Request, status int, body []byte) error {
	if status >= 200 && status < 300 {
		return nil
	}

	apiErr := newError(status, body)

	switch {
	case status == http.StatusUnauthorized:
		c.logger.Warnf("unauthorized response from %s, clearing session token", req.URL.Path)
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return fmt.Errorf("%w: %w", shared.ErrNotAuthenticated, apiErr)
	case status == http.StatusForbidden:
		c.logger.Warnf("forbidden: %s %s: %s", req.Method, req.URL.Path, apiErr.Detail)
		return fmt.Errorf("%w: %w", shared.ErrForbidden, apiErr)
	case status >= 500:
		c.logger.Errorf("server error: %s %s: status %d body %s", req.Method, req.URL.Path, status, truncate(body, 512))
	}

	return apiErr
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
