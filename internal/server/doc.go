// Package server provides HTTP routing, middleware, and the local callback
// listener used during platform connect flows.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # Callback Handlers
//
// [OAuthHandler] implements the OAuth2 authorization code callback for
// platforms connected with a local code exchange. It validates the state
// parameter (CSRF protection), exchanges the authorization code for tokens,
// and sends the result through a channel.
//
// [PingHandler] handles the completion redirect for platforms whose token
// exchange happens on the backend. The backend redirects the browser here
// once the connection is stored, carrying only a status.
//
// Both handlers process exactly one request to prevent replay attacks, and
// deliver exactly one result on their channel before closing it.
//
// # Usage
//
// When the user runs a platform connect command, a temporary HTTP server
// starts on the configured localhost address, handles the callback, and
// shuts down once the result is received or the context is cancelled.
package server
