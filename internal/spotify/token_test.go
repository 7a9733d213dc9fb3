package spotify

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/oakmoss/tonearm/internal/shared"
)

func testCreds() Credentials {
	return Credentials{ClientID: "test_client_id", ClientSecret: "test_client_secret"}
}

// newTokenServer returns an httptest server acting as the token endpoint and
// a counter of requests received.
func newTokenServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *atomic.Int64) {
	t.Helper()
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func tokenJSON(token string, expiresIn int) string {
	if expiresIn > 0 {
		return fmt.Sprintf(`{"access_token":%q,"token_type":"Bearer","expires_in":%d}`, token, expiresIn)
	}
	return fmt.Sprintf(`{"access_token":%q,"token_type":"Bearer"}`, token)
}

func TestTokenStore(t *testing.T) {
	ctx := context.Background()

	t.Run("Caching", func(t *testing.T) {
		srv, hits := newTokenServer(t, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, tokenJSON("tok_1", 3600))
		})

		store := NewTokenStore(testCreds(), srv.Client(), nil)
		store.tokenURL = srv.URL

		first, err := store.Token(ctx)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if first != "tok_1" {
			t.Errorf("expected tok_1, got %s", first)
		}

		for i := 0; i < 5; i++ {
			tok, err := store.Token(ctx)
			if err != nil {
				t.Fatalf("expected no error on cached call, got %v", err)
			}
			if tok != first {
				t.Errorf("expected cached token %s, got %s", first, tok)
			}
		}

		if hits.Load() != 1 {
			t.Errorf("expected exactly 1 token request, got %d", hits.Load())
		}
	})

	t.Run("Safety Margin", func(t *testing.T) {
		srv, hits := newTokenServer(t, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, tokenJSON(fmt.Sprintf("tok_%d", time.Now().UnixNano()), 3600))
		})

		store := NewTokenStore(testCreds(), srv.Client(), nil)
		store.tokenURL = srv.URL

		base := time.Now()
		store.now = func() time.Time { return base }

		first, err := store.Token(ctx)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		// One second inside the margin: still cached.
		store.now = func() time.Time { return base.Add(3600*time.Second - tokenSafetyMargin - time.Second) }
		tok, _ := store.Token(ctx)
		if tok != first {
			t.Error("expected cached token inside safety margin")
		}
		if hits.Load() != 1 {
			t.Errorf("expected 1 request, got %d", hits.Load())
		}

		// Exactly at the margin boundary: refresh.
		store.now = func() time.Time { return base.Add(3600*time.Second - tokenSafetyMargin) }
		tok, err = store.Token(ctx)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if tok == first {
			t.Error("expected a refreshed token at the margin boundary")
		}
		if hits.Load() != 2 {
			t.Errorf("expected exactly 2 requests, got %d", hits.Load())
		}
	})

	t.Run("Default Expiry", func(t *testing.T) {
		srv, _ := newTokenServer(t, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, tokenJSON("tok_noexp", 0))
		})

		store := NewTokenStore(testCreds(), srv.Client(), nil)
		store.tokenURL = srv.URL

		base := time.Now()
		store.now = func() time.Time { return base }

		if _, err := store.Token(ctx); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		want := base.Add(defaultExpirySeconds * time.Second)
		if !store.expiresAt.Equal(want) {
			t.Errorf("expected expiry %v, got %v", want, store.expiresAt)
		}
	})

	t.Run("Grant Selection", func(t *testing.T) {
		t.Run("Client Credentials", func(t *testing.T) {
			var gotGrant, gotAuth string
			srv, _ := newTokenServer(t, func(w http.ResponseWriter, r *http.Request) {
				r.ParseForm()
				gotGrant = r.PostForm.Get("grant_type")
				gotAuth = r.Header.Get("Authorization")
				fmt.Fprint(w, tokenJSON("tok_cc", 3600))
			})

			store := NewTokenStore(testCreds(), srv.Client(), nil)
			store.tokenURL = srv.URL

			if store.GrantFlow() != GrantClientCredentials {
				t.Errorf("expected client_credentials flow, got %s", store.GrantFlow())
			}

			if _, err := store.Token(ctx); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if gotGrant != "client_credentials" {
				t.Errorf("expected client_credentials grant, got %s", gotGrant)
			}

			wantAuth := "Basic " + base64.StdEncoding.EncodeToString([]byte("test_client_id:test_client_secret"))
			if gotAuth != wantAuth {
				t.Errorf("expected Basic auth header, got %s", gotAuth)
			}
		})

		t.Run("Refresh Token", func(t *testing.T) {
			var gotGrant, gotRefresh, gotAuth string
			srv, _ := newTokenServer(t, func(w http.ResponseWriter, r *http.Request) {
				r.ParseForm()
				gotGrant = r.PostForm.Get("grant_type")
				gotRefresh = r.PostForm.Get("refresh_token")
				gotAuth = r.Header.Get("Authorization")
				fmt.Fprint(w, tokenJSON("tok_rt", 3600))
			})

			creds := testCreds()
			creds.RefreshToken = "long_lived_refresh"
			store := NewTokenStore(creds, srv.Client(), nil)
			store.tokenURL = srv.URL

			if store.GrantFlow() != GrantRefreshToken {
				t.Errorf("expected refresh_token flow, got %s", store.GrantFlow())
			}

			if _, err := store.Token(ctx); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if gotGrant != "refresh_token" {
				t.Errorf("expected refresh_token grant, got %s", gotGrant)
			}
			if gotRefresh != "long_lived_refresh" {
				t.Errorf("expected refresh credential in body, got %s", gotRefresh)
			}
			if !strings.HasPrefix(gotAuth, "Basic ") {
				t.Errorf("expected Basic auth header, got %s", gotAuth)
			}
		})
	})

	t.Run("Missing Credentials", func(t *testing.T) {
		srv, hits := newTokenServer(t, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, tokenJSON("tok", 3600))
		})

		store := NewTokenStore(Credentials{}, srv.Client(), nil)
		store.tokenURL = srv.URL

		_, err := store.Token(ctx)
		if !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
		if hits.Load() != 0 {
			t.Error("expected no network call with missing credentials")
		}
	})

	t.Run("Rejected Grant", func(t *testing.T) {
		srv, _ := newTokenServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, `{"error":"invalid_client"}`)
		})

		store := NewTokenStore(testCreds(), srv.Client(), nil)
		store.tokenURL = srv.URL

		_, err := store.Token(ctx)
		if err == nil {
			t.Fatal("expected error for rejected grant")
		}

		var authErr *AuthError
		if !errors.As(err, &authErr) {
			t.Fatalf("expected AuthError, got %T: %v", err, err)
		}
		if authErr.Status != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", authErr.Status)
		}
		if !strings.Contains(authErr.Body, "invalid_client") {
			t.Errorf("expected body to carry upstream detail, got %s", authErr.Body)
		}
		if !errors.Is(err, shared.ErrAuthFailed) {
			t.Error("expected AuthError to wrap ErrAuthFailed")
		}

		if store.accessToken != "" {
			t.Error("expected no token cached after rejected grant")
		}
	})

	t.Run("Transport Failure", func(t *testing.T) {
		srv, _ := newTokenServer(t, func(w http.ResponseWriter, r *http.Request) {})
		client := srv.Client()
		srv.Close()

		store := NewTokenStore(testCreds(), client, nil)
		store.tokenURL = srv.URL

		_, err := store.Token(ctx)
		if !errors.Is(err, shared.ErrTransport) {
			t.Errorf("expected ErrTransport, got %v", err)
		}
	})
}
