// Package server provides HTTP routing, middleware, and the OAuth callback
// handler backing the CLI's Spotify authorization flow.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # OAuth Callback Handler
//
// [OAuthHandler] implements the OAuth2 authorization code callback flow.
//
// The handler validates the state parameter (CSRF protection), exchanges the authorization code for tokens,
// and sends the result through a channel.
//
// It only processes one callback to prevent replay attacks.
//
// # Usage
//
// When the user runs `tagtune auth`, a temporary HTTP server starts on the
// configured host/port, handles the Spotify callback, and shuts down after
// the OAuth token is received. The token is then persisted for the sync and
// playlist commands.
package server
