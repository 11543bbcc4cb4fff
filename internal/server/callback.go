package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"golang.org/x/oauth2"
)

const successPage = `
<!DOCTYPE html>
<html>
<head>
    <title>Verbindung hergestellt</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
               display: flex; align-items: center; justify-content: center; height: 100vh;
               margin: 0; background: #f5f5f5; }
        .container { text-align: center; background: white; padding: 2rem;
                     border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        h1 { color: #6366f1; margin: 0 0 1rem 0; }
        p { color: #666; margin: 0; }
    </style>
</head>
<body>
    <div class="container">
        <h1>✓ %s verbunden</h1>
        <p>Du kannst dieses Fenster schließen und zum Terminal zurückkehren.</p>
    </div>
</body>
</html>
`

// OAuthResult contains the result of an OAuth authorization code flow.
type OAuthResult struct {
	Token *oauth2.Token
	err   error
}

func (o *OAuthResult) Error() error {
	return o.err
}

// OAuthHandler handles the OAuth2 redirect for platforms connected with a
// local authorization code exchange. Implements the Handler interface for
// registration with a Router.
type OAuthHandler struct {
	config      *oauth2.Config
	platform    string
	state       string
	resultChan  chan OAuthResult
	once        sync.Once
	callbackHit bool
	mu          sync.Mutex
}

// NewOAuthHandler creates a new OAuth handler for the named platform.
// The state token should be cryptographically random for CSRF protection.
func NewOAuthHandler(config *oauth2.Config, platform, state string) *OAuthHandler {
	return &OAuthHandler{
		config:     config,
		platform:   platform,
		state:      state,
		resultChan: make(chan OAuthResult, 1),
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *OAuthHandler) Routes() []string {
	return []string{"/callback"}
}

// ServeHTTP handles the OAuth callback request.
//
// Validates the state parameter, exchanges the authorization code for tokens,
// and sends the result through the result channel.
func (h *OAuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Only handle callback once
	h.mu.Lock()
	if h.callbackHit {
		h.mu.Unlock()
		http.Error(w, "Callback already processed", http.StatusBadRequest)
		return
	}
	h.callbackHit = true
	h.mu.Unlock()

	state := r.URL.Query().Get("state")
	if state != h.state {
		err := fmt.Errorf("invalid state parameter")
		h.Send(OAuthResult{err: err})
		http.Error(w, "Invalid state parameter", http.StatusBadRequest)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		errParam := r.URL.Query().Get("error")
		errDesc := r.URL.Query().Get("error_description")
		err := fmt.Errorf("authorization failed: %s - %s", errParam, errDesc)
		h.Send(OAuthResult{err: err})
		http.Error(w, "Authorization failed", http.StatusBadRequest)
		return
	}

	token, err := h.config.Exchange(context.Background(), code)
	if err != nil {
		h.Send(OAuthResult{err: fmt.Errorf("token exchange failed: %w", err)})
		http.Error(w, "Token exchange failed", http.StatusInternalServerError)
		return
	}

	h.Send(OAuthResult{Token: token})

	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, successPage, h.platform)
}

// Send sends the OAuth result through the channel (only once).
func (h *OAuthHandler) Send(result OAuthResult) {
	h.once.Do(func() {
		h.resultChan <- result
		close(h.resultChan)
	})
}

// Result returns the result channel for receiving OAuth flow completion.
//
// Channel will receive exactly one result and then be closed.
func (h *OAuthHandler) Result() <-chan OAuthResult {
	return h.resultChan
}

// PingResult contains the outcome of a backend-driven connect flow.
type PingResult struct {
	Status string
	err    error
}

func (p *PingResult) Error() error {
	return p.err
}

// PingHandler handles the completion redirect for platforms whose OAuth
// exchange happens on the backend. The backend redirects the browser to
// this handler once the connection is stored, carrying only a status.
type PingHandler struct {
	platform   string
	state      string
	resultChan chan PingResult
	once       sync.Once
	pingHit    bool
	mu         sync.Mutex
}

// NewPingHandler creates a handler for backend connect completion pings.
func NewPingHandler(platform, state string) *PingHandler {
	return &PingHandler{
		platform:   platform,
		state:      state,
		resultChan: make(chan PingResult, 1),
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *PingHandler) Routes() []string {
	return []string{"/connected"}
}

// ServeHTTP handles the completion ping.
//
// Validates the state parameter and reports the status query parameter
// through the result channel.
func (h *PingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	if h.pingHit {
		h.mu.Unlock()
		http.Error(w, "Already processed", http.StatusBadRequest)
		return
	}
	h.pingHit = true
	h.mu.Unlock()

	state := r.URL.Query().Get("state")
	if state != h.state {
		err := fmt.Errorf("invalid state parameter")
		h.Send(PingResult{err: err})
		http.Error(w, "Invalid state parameter", http.StatusBadRequest)
		return
	}

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		err := fmt.Errorf("connect failed: %s", errParam)
		h.Send(PingResult{err: err})
		http.Error(w, "Connect failed", http.StatusBadRequest)
		return
	}

	status := r.URL.Query().Get("status")
	if status == "" {
		status = "connected"
	}

	h.Send(PingResult{Status: status})

	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, successPage, h.platform)
}

// Send sends the ping result through the channel (only once).
func (h *PingHandler) Send(result PingResult) {
	h.once.Do(func() {
		h.resultChan <- result
		close(h.resultChan)
	})
}

// Result returns the result channel for receiving connect completion.
//
// Channel will receive exactly one result and then be closed.
func (h *PingHandler) Result() <-chan PingResult {
	return h.resultChan
}
