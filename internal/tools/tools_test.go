package tools

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/oakmoss/tonearm/internal/shared"
	"github.com/oakmoss/tonearm/internal/spotify"
)

// newTestCatalog wires a catalog against httptest token and resource servers.
func newTestCatalog(t *testing.T, handler http.HandlerFunc) *Catalog {
	t.Helper()

	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"access_token":"test_access","token_type":"Bearer","expires_in":3600}`))
	}))
	t.Cleanup(tokenSrv.Close)

	apiSrv := httptest.NewServer(handler)
	t.Cleanup(apiSrv.Close)

	creds := spotify.Credentials{ClientID: "id", ClientSecret: "secret"}
	store := spotify.NewTokenStore(creds, tokenSrv.Client(), nil).WithEndpoint(tokenSrv.URL)
	client := spotify.NewClient(store, spotify.ClientOpts{BaseURL: apiSrv.URL, RateLimit: 1000})

	return NewCatalog(client, CatalogOpts{})
}

func runTool(t *testing.T, c *Catalog, name string, params Params) (*Result, error) {
	t.Helper()

	reg := NewRegistry()
	c.RegisterAll(reg)
	tool, err := reg.Get(name)
	if err != nil {
		t.Fatalf("tool %s not registered: %v", name, err)
	}
	return tool.Run(context.Background(), params)
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	reg.Register(Tool{Name: "beta"})
	reg.Register(Tool{Name: "alpha"})

	t.Run("Get", func(t *testing.T) {
		if _, err := reg.Get("alpha"); err != nil {
			t.Errorf("expected alpha registered, got %v", err)
		}
	})

	t.Run("Unknown Tool", func(t *testing.T) {
		_, err := reg.Get("missing")
		if !errors.Is(err, shared.ErrToolNotFound) {
			t.Errorf("expected ErrToolNotFound, got %v", err)
		}
	})

	t.Run("List Sorted", func(t *testing.T) {
		list := reg.List()
		if len(list) != 2 || list[0].Name != "alpha" || list[1].Name != "beta" {
			t.Errorf("expected sorted list, got %+v", list)
		}
	})

	t.Run("Full Catalog Size", func(t *testing.T) {
		full := NewRegistry()
		newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {}).RegisterAll(full)
		if got := len(full.List()); got != 24 {
			t.Errorf("expected 24 registered tools, got %d", got)
		}
	})
}

func TestParams(t *testing.T) {
	t.Run("Required String", func(t *testing.T) {
		p := Params{"q": "blondie"}
		got, err := p.String("q")
		if err != nil || got != "blondie" {
			t.Errorf("expected blondie, got %q err %v", got, err)
		}

		if _, err := p.String("missing"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}

		p["empty"] = ""
		if _, err := p.String("empty"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument for empty string, got %v", err)
		}
	})

	t.Run("Int Default", func(t *testing.T) {
		p := Params{"limit": float64(5)}
		if got := p.IntOr("limit", 10); got != 5 {
			t.Errorf("expected 5, got %d", got)
		}
		if got := p.IntOr("missing", 10); got != 10 {
			t.Errorf("expected default 10, got %d", got)
		}
	})

	t.Run("String Slice", func(t *testing.T) {
		p := Params{"ids": []any{"a", "b"}}
		got, err := p.StringSlice("ids")
		if err != nil || len(got) != 2 {
			t.Errorf("expected [a b], got %v err %v", got, err)
		}

		got, err = p.StringSlice("missing")
		if err != nil || got != nil {
			t.Errorf("expected nil for absent key, got %v err %v", got, err)
		}

		p["bad"] = []any{"a", 3}
		if _, err := p.StringSlice("bad"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestPassthroughTools(t *testing.T) {
	t.Run("Search Requires Query", func(t *testing.T) {
		c := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {})
		_, err := runTool(t, c, "search_tracks", Params{})
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("Playlist 404 Remediation", func(t *testing.T) {
		c := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":{"status":404,"message":"Resource not found"}}`))
		})

		result, err := runTool(t, c, "get_playlist", Params{"playlist_id": "pl1"})
		if err != nil {
			t.Fatalf("expected remediation text instead of error, got %v", err)
		}
		if !strings.Contains(result.Text, "requires user authorization") {
			t.Errorf("expected remediation guidance, got %s", result.Text)
		}
		if !strings.Contains(result.Text, "pl1") {
			t.Errorf("expected playlist id in guidance, got %s", result.Text)
		}
	})

	t.Run("Playlist Other Errors Surface", func(t *testing.T) {
		c := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error":{"status":500}}`))
		})

		_, err := runTool(t, c, "get_playlist", Params{"playlist_id": "pl1"})
		if !errors.Is(err, shared.ErrUpstream) {
			t.Errorf("expected upstream error to surface, got %v", err)
		}
	})

	t.Run("Recommendations Require Seed", func(t *testing.T) {
		c := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {})
		_, err := runTool(t, c, "get_recommendations", Params{})
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("Genre Seeds Fallback", func(t *testing.T) {
		c := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":{"status":404}}`))
		})

		result, err := runTool(t, c, "get_genre_seeds", Params{})
		if err != nil {
			t.Fatalf("expected fallback list instead of error, got %v", err)
		}
		if !strings.Contains(result.Text, "afrobeat") {
			t.Errorf("expected fallback genres, got %s", result.Text)
		}
	})

	t.Run("Related Artists Search Fallback", func(t *testing.T) {
		c := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
			switch {
			case r.URL.Path == "/artists/a1/related-artists":
				w.WriteHeader(http.StatusNotFound)
				w.Write([]byte(`{"error":{"status":404}}`))
			case r.URL.Path == "/artists/a1":
				w.Write([]byte(`{"id":"a1","name":"Blondie"}`))
			case r.URL.Path == "/search":
				w.Write([]byte(`{"artists":{"items":[{"id":"a1","name":"Blondie"},{"id":"a2","name":"Television"}]}}`))
			default:
				t.Errorf("unexpected path %s", r.URL.Path)
			}
		})

		result, err := runTool(t, c, "get_related_artists", Params{"artist_id": "a1"})
		if err != nil {
			t.Fatalf("expected search fallback, got %v", err)
		}
		if !strings.Contains(result.Text, "Television") {
			t.Errorf("expected fallback artist in result, got %s", result.Text)
		}
		if strings.Contains(result.Text, `"a1"`) {
			t.Errorf("expected original artist filtered out, got %s", result.Text)
		}
	})
}

func TestFeatureTools(t *testing.T) {
	t.Run("Compare Track Count Bounds", func(t *testing.T) {
		c := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {})

		result, err := runTool(t, c, "compare_tracks", Params{"track_ids": []any{"only"}})
		if err != nil {
			t.Fatalf("expected guidance text, got %v", err)
		}
		if !strings.Contains(result.Text, "between 2 and 5") {
			t.Errorf("expected bounds guidance, got %s", result.Text)
		}
	})

	t.Run("Compare Tracks", func(t *testing.T) {
		c := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
			switch {
			case strings.HasPrefix(r.URL.Path, "/tracks/"):
				id := strings.TrimPrefix(r.URL.Path, "/tracks/")
				w.Write([]byte(`{"id":"` + id + `","name":"Track ` + id + `","artists":[{"name":"Artist ` + id + `"}]}`))
			case strings.HasPrefix(r.URL.Path, "/audio-features/"):
				w.Write([]byte(`{"danceability":0.5,"energy":0.6,"valence":0.7,"tempo":120,"acousticness":0.1,"instrumentalness":0.2}`))
			}
		})

		result, err := runTool(t, c, "compare_tracks", Params{"track_ids": []any{"x", "y"}})
		if err != nil {
			t.Fatalf("expected comparison, got %v", err)
		}
		if !strings.Contains(result.Text, "Track x by Artist x") {
			t.Errorf("expected track label in comparison, got %s", result.Text)
		}
		if !strings.Contains(result.Text, "danceability") {
			t.Errorf("expected feature keys, got %s", result.Text)
		}
	})

	t.Run("Audio Features Bulk", func(t *testing.T) {
		c := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/audio-features" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			w.Write([]byte(`{"audio_features":[{"id":"x","valence":0.9}]}`))
		})

		result, err := runTool(t, c, "get_audio_features", Params{"track_ids": []any{"x"}})
		if err != nil {
			t.Fatalf("expected bulk features, got %v", err)
		}
		if !strings.Contains(result.Text, "0.9") {
			t.Errorf("expected feature values, got %s", result.Text)
		}
	})

	t.Run("Audio Features Sweep Fallback", func(t *testing.T) {
		c := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
			switch {
			case r.URL.Path == "/audio-features":
				w.WriteHeader(http.StatusForbidden)
				w.Write([]byte(`{"error":{"status":403}}`))
			case strings.HasPrefix(r.URL.Path, "/tracks/"):
				w.Write([]byte(`{"id":"x","name":"Heart of Glass","artists":[{"name":"Blondie"}],"album":{"name":"Parallel Lines"}}`))
			case strings.HasPrefix(r.URL.Path, "/audio-features/"):
				w.Write([]byte(`{"valence":0.8}`))
			}
		})

		result, err := runTool(t, c, "get_audio_features", Params{"track_ids": []any{"x"}})
		if err != nil {
			t.Fatalf("expected sweep fallback, got %v", err)
		}
		if !strings.Contains(result.Text, "Heart of Glass") {
			t.Errorf("expected per-track sweep record, got %s", result.Text)
		}
	})
}

func TestDerivedTools(t *testing.T) {
	// Serves top tracks per window and bulk features keyed by the first ID in
	// the request.
	handler := func(valences map[string]string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/me/top/tracks":
				window := r.URL.Query().Get("time_range")
				w.Write([]byte(`{"items":[{"id":"` + window + `_1"},{"id":"` + window + `_2"}]}`))
			case "/audio-features":
				ids := strings.Split(r.URL.Query().Get("ids"), ",")
				w.Write([]byte(valences[ids[0]]))
			default:
				w.WriteHeader(http.StatusNotFound)
			}
		}
	}

	t.Run("Listening Shift Mellow", func(t *testing.T) {
		c := newTestCatalog(t, handler(map[string]string{
			"short_term_1": `{"audio_features":[{"valence":0.8},{"valence":0.8}]}`,
			"long_term_1":  `{"audio_features":[{"valence":0.5},{"valence":0.5}]}`,
		}))

		result, err := runTool(t, c, "analyze_listening_shift", Params{
			"start_range": "short_term",
			"end_range":   "long_term",
		})
		if err != nil {
			t.Fatalf("expected shift result, got %v", err)
		}
		if !strings.Contains(result.Text, "more mellow") {
			t.Errorf("expected mellow vibe, got %s", result.Text)
		}
		if !strings.Contains(result.Text, "-0.3") {
			t.Errorf("expected delta in message, got %s", result.Text)
		}
	})

	t.Run("Listening Shift Requires Ranges", func(t *testing.T) {
		c := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {})
		_, err := runTool(t, c, "analyze_listening_shift", Params{"start_range": "short_term"})
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("Future Taste Hyped", func(t *testing.T) {
		c := newTestCatalog(t, handler(map[string]string{
			"short_term_1": `{"audio_features":[{"energy":0.9},{"energy":0.9}]}`,
			"long_term_1":  `{"audio_features":[{"energy":0.4},{"energy":0.4}]}`,
		}))

		result, err := runTool(t, c, "predict_future_taste", Params{})
		if err != nil {
			t.Fatalf("expected forecast, got %v", err)
		}
		if !strings.Contains(result.Text, "getting hyped") {
			t.Errorf("expected hyped forecast, got %s", result.Text)
		}
	})

	t.Run("Empty Windows Error", func(t *testing.T) {
		c := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/me/top/tracks" {
				w.Write([]byte(`{"items":[]}`))
				return
			}
			w.WriteHeader(http.StatusNotFound)
		})

		_, err := runTool(t, c, "predict_future_taste", Params{})
		if !errors.Is(err, shared.ErrEmptyGroup) {
			t.Errorf("expected ErrEmptyGroup, got %v", err)
		}
	})

	t.Run("Listener Identity", func(t *testing.T) {
		c := newTestCatalog(t, func(w http.ResponseWriter, r *http.Request) {
			switch {
			case r.URL.Path == "/me/top/tracks":
				w.Write([]byte(`{"items":[{"id":"t1","artists":[{"id":"a1"}]},{"id":"t2","artists":[{"id":"a1"},{"id":"a2"}]}]}`))
			case r.URL.Path == "/artists/a1":
				w.Write([]byte(`{"id":"a1","genres":["jazz","bebop"]}`))
			case r.URL.Path == "/artists/a2":
				w.Write([]byte(`{"id":"a2","genres":["jazz"]}`))
			default:
				w.WriteHeader(http.StatusNotFound)
			}
		})

		result, err := runTool(t, c, "get_listener_identity", Params{})
		if err != nil {
			t.Fatalf("expected identity, got %v", err)
		}
		if !strings.Contains(result.Text, "Cool Cat Connoisseur") {
			t.Errorf("expected jazz persona, got %s", result.Text)
		}
	})
}

func TestPresent(t *testing.T) {
	t.Run("Upstream", func(t *testing.T) {
		err := &spotify.UpstreamError{Path: "tracks/x", Status: 500, Body: "boom"}
		got := Present(err)
		if !strings.Contains(got, "tracks/x") || !strings.Contains(got, "500") {
			t.Errorf("expected path and status in message, got %s", got)
		}
	})

	t.Run("Auth", func(t *testing.T) {
		got := Present(&spotify.AuthError{Status: 400, Body: "invalid_client"})
		if !strings.Contains(got, "authentication failed") {
			t.Errorf("expected auth message, got %s", got)
		}
	})

	t.Run("Missing Credentials", func(t *testing.T) {
		got := Present(shared.ErrMissingCredentials)
		if !strings.Contains(got, "SPOTIFY_CLIENT_ID") {
			t.Errorf("expected setup guidance, got %s", got)
		}
	})

	t.Run("Empty Group", func(t *testing.T) {
		got := Present(shared.ErrEmptyGroup)
		if !strings.Contains(got, "listening data") {
			t.Errorf("expected data guidance, got %s", got)
		}
	})
}
