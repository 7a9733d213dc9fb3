package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/oakmoss/tonearm/internal/shared"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"

	// tokenSafetyMargin keeps a token from being used when it could expire
	// mid-flight.
	tokenSafetyMargin = 60 * time.Second

	// defaultExpirySeconds applies when the token response omits expires_in.
	defaultExpirySeconds = 3600
)

// GrantRefreshToken and GrantClientCredentials name the two OAuth grant flows
// the token store can use.
const (
	GrantRefreshToken      = "refresh_token"
	GrantClientCredentials = "client_credentials"
)

// Credentials is the immutable credential set supplied at process start.
type Credentials struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
}

// AuthError reports a non-200 response from the token endpoint, carrying the
// HTTP status and response body for diagnostics.
type AuthError struct {
	Status int
	Body   string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("spotify auth failed: HTTP %d: %s", e.Status, e.Body)
}

func (e *AuthError) Unwrap() error { return shared.ErrAuthFailed }

// TokenStore owns the cached access token and its expiry and decides whether
// to reuse the cached token or request a new one.
type TokenStore struct {
	creds      Credentials
	httpClient *http.Client
	tokenURL   string
	logger     *log.Logger
	now        func() time.Time

	mu          sync.Mutex
	accessToken string
	expiresAt   time.Time
}

// NewTokenStore creates a token store for the given credential set.
//
// The HTTP client defaults to one with a 15 second timeout; the logger
// defaults to a fresh shared logger.
func NewTokenStore(creds Credentials, httpClient *http.Client, logger *log.Logger) *TokenStore {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &TokenStore{
		creds:      creds,
		httpClient: httpClient,
		tokenURL:   spotifyTokenURL,
		logger:     logger,
		now:        time.Now,
	}
}

// WithEndpoint overrides the token endpoint URL and returns the store.
func (s *TokenStore) WithEndpoint(tokenURL string) *TokenStore {
	s.tokenURL = tokenURL
	return s
}

// GrantFlow reports which grant the store will use on its next refresh.
func (s *TokenStore) GrantFlow() string {
	if s.creds.RefreshToken != "" {
		return GrantRefreshToken
	}
	return GrantClientCredentials
}

// Token returns a valid access token, reusing the cached one while it remains
// inside the safety margin and refreshing it otherwise.
//
// Idempotent within the validity window: repeated calls return the same
// string and perform no network calls.
func (s *TokenStore) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	token, expiresAt := s.accessToken, s.expiresAt
	s.mu.Unlock()

	if token != "" && s.now().Before(expiresAt.Add(-tokenSafetyMargin)) {
		return token, nil
	}

	return s.refresh(ctx)
}

// refresh performs one POST to the token endpoint using the configured grant
// flow and stores the result. A failed refresh leaves the cache untouched.
func (s *TokenStore) refresh(ctx context.Context) (string, error) {
	if s.creds.ClientID == "" || s.creds.ClientSecret == "" {
		return "", fmt.Errorf("%w: set client_id and client_secret in config.toml or SPOTIFY_CLIENT_ID/SPOTIFY_CLIENT_SECRET", shared.ErrMissingCredentials)
	}

	form := url.Values{}
	grant := s.GrantFlow()
	switch grant {
	case GrantRefreshToken:
		form.Set("grant_type", "refresh_token")
		form.Set("refresh_token", s.creds.RefreshToken)
	default:
		form.Set("grant_type", "client_credentials")
	}

	s.logger.Debug("requesting access token", "grant", grant)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.SetBasicAuth(s.creds.ClientID, s.creds.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: token endpoint: %v", shared.ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: reading token response: %v", shared.ErrTransport, err)
	}

	if resp.StatusCode != http.StatusOK {
		s.logger.Error("token endpoint rejected grant", "status", resp.StatusCode, "grant", grant)
		return "", &AuthError{Status: resp.StatusCode, Body: string(body)}
	}

	var tr struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &tr); err != nil {
		return "", fmt.Errorf("%w: malformed token response: %v", shared.ErrAuthFailed, err)
	}
	if tr.AccessToken == "" {
		return "", fmt.Errorf("%w: token response missing access_token", shared.ErrAuthFailed)
	}
	if tr.ExpiresIn <= 0 {
		tr.ExpiresIn = defaultExpirySeconds
	}

	expiresAt := s.now().Add(time.Duration(tr.ExpiresIn) * time.Second)

	s.mu.Lock()
	s.accessToken = tr.AccessToken
	s.expiresAt = expiresAt
	s.mu.Unlock()

	s.logger.Debug("access token refreshed", "expires_in", tr.ExpiresIn)

	return tr.AccessToken, nil
}
