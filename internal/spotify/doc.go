// Package spotify implements the authenticated Spotify Web API accessor and
// its token lifecycle.
//
// # Token Lifecycle
//
// [TokenStore] owns the single cached access token and its expiry. A token is
// reused while the current time is strictly before expiry minus a 60 second
// safety margin; past that point the next caller performs exactly one token
// request. Two grant flows are supported, selected by configuration:
//
//   - refresh_token when a long-lived refresh credential is configured
//     (user-scoped access)
//   - client_credentials otherwise (catalog-only access)
//
// Both flows pass the client id and secret as an HTTP Basic auth header.
//
// The store's mutex guards only the cached fields. It is deliberately not held
// across the token request, so two concurrent refreshes may both fire; either
// resulting token is valid and the last write wins.
//
// # Accessor
//
// [Client] wraps GET/POST calls to api.spotify.com/v1. Every request obtains a
// token first and attaches a Bearer header. Outbound calls carry a request
// timeout and pass through a client-side [rate.Limiter]. Responses with status
// >= 400 become [UpstreamError] values carrying path, status, and body; there
// is no retry.
//
// # Error Handling
//
// Errors wrap sentinels from the shared package:
//   - [shared.ErrMissingCredentials] : client id/secret absent, checked before any network call
//   - [shared.ErrAuthFailed] : token endpoint rejected the grant (via [AuthError])
//   - [shared.ErrTransport] : network failure
//   - [shared.ErrUpstream] : resource API returned >= 400 (via [UpstreamError])
package spotify
