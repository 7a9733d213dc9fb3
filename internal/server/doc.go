// Package server provides the HTTP boundary for the tool catalog: routing,
// bearer-token gating, request logging, and the OAuth callback used by the
// credential bootstrap flow.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first),
// following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with
// method filtering.
//
// # Tool Endpoints
//
// [ToolsHandler] serves the catalog: GET /tools lists registered tools with
// their descriptions, POST /tools/{name} invokes one tool with a JSON
// parameter object and returns the rendered result or a presented error.
// GET /health answers without authentication so probes work unconfigured.
//
// Every other route sits behind [BearerAuth], a static-token gate compared in
// constant time. There are no scopes and no token expiry on this boundary;
// Spotify-side authorization is handled by the token store, not here.
//
// # OAuth Callback Handler
//
// OAuthHandler implements the OAuth2 authorization code callback flow for
// minting a refresh token. The handler validates the state parameter,
// exchanges the authorization code, and sends the result through a channel.
// It only processes one callback to prevent replay attacks.
package server
