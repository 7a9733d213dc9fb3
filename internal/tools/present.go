package tools

import (
	"errors"
	"fmt"

	"github.com/oakmoss/tonearm/internal/shared"
	"github.com/oakmoss/tonearm/internal/spotify"
)

// Present maps a tool error to text suitable for the boundary. Upstream and
// auth failures keep their diagnostic detail; everything else passes through.
func Present(err error) string {
	var upstream *spotify.UpstreamError
	if errors.As(err, &upstream) {
		return fmt.Sprintf("Spotify request failed: %s returned HTTP %d.\n%s", upstream.Path, upstream.Status, upstream.Body)
	}

	var auth *spotify.AuthError
	if errors.As(err, &auth) {
		return fmt.Sprintf("Spotify authentication failed (HTTP %d). Check your client credentials.\n%s", auth.Status, auth.Body)
	}

	switch {
	case errors.Is(err, shared.ErrMissingCredentials):
		return "Spotify credentials are not configured. Set client_id and client_secret in config.toml or the SPOTIFY_CLIENT_ID/SPOTIFY_CLIENT_SECRET environment variables."
	case errors.Is(err, shared.ErrEmptyGroup):
		return "Not enough listening data to compute this metric: " + err.Error()
	case errors.Is(err, shared.ErrToolNotFound):
		return err.Error()
	default:
		return err.Error()
	}
}
