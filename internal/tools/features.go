package tools

import (
	"context"
	"fmt"

	"github.com/oakmoss/tonearm/internal/shared"
	"github.com/oakmoss/tonearm/internal/spotify"
)

// featuresExplanation describes what audio features cover when neither the
// bulk endpoint nor the per-track sweep yields anything.
const featuresExplanation = "Unable to access audio features via Spotify API. This is likely due to:\n\n" +
	"1. Permission restrictions with client credentials authentication\n" +
	"2. The audio-features endpoint requires user authorization\n\n" +
	"To fix this:\n" +
	"- Set up a refresh token with the 'user-read-private' scope\n" +
	"- Add it to config.toml or SPOTIFY_REFRESH_TOKEN\n\n" +
	"For now, here's what audio features typically include:\n\n" +
	"- danceability: How suitable a track is for dancing (0.0 to 1.0)\n" +
	"- energy: Perceptual measure of intensity and activity (0.0 to 1.0)\n" +
	"- valence: Musical positiveness conveyed by a track (0.0 to 1.0)\n" +
	"- tempo: Estimated tempo in BPM\n" +
	"- acousticness: Confidence measure of whether the track is acoustic (0.0 to 1.0)\n" +
	"- instrumentalness: Predicts whether a track contains no vocals (0.0 to 1.0)\n" +
	"- liveness: Detects presence of audience in the recording (0.0 to 1.0)\n" +
	"- speechiness: Presence of spoken words in a track (0.0 to 1.0)"

// comparedFeatures are the attributes compare_tracks lays side by side.
var comparedFeatures = []string{
	"danceability", "energy", "valence", "tempo", "acousticness", "instrumentalness",
}

// featureTools covers audio features, analysis, and comparison.
func (c *Catalog) featureTools() []Tool {
	return []Tool{
		{
			Name:        "get_audio_features",
			Description: "Get audio features.",
			UseWhen:     "Retrieve audio features for tracks.",
			Run:         c.audioFeatures,
		},
		{
			Name:        "get_audio_analysis",
			Description: "Get audio analysis.",
			UseWhen:     "Get detailed audio analysis for a track.",
			Run: func(ctx context.Context, params Params) (*Result, error) {
				id, err := params.String("track_id")
				if err != nil {
					return nil, err
				}
				summary, err := c.client.AudioAnalysis(ctx, id)
				if err != nil {
					return nil, err
				}
				return jsonResult(summary)
			},
		},
		{
			Name:        "compare_tracks",
			Description: "Compare tracks.",
			UseWhen:     "Compare audio features between tracks.",
			Run:         c.compareTracks,
		},
	}
}

// audioFeatures tries the bulk endpoint, then falls back to a per-track
// sweep, then to an explanation when nothing came back.
func (c *Catalog) audioFeatures(ctx context.Context, params Params) (*Result, error) {
	ids, err := params.StringSlice("track_ids")
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: track_ids", shared.ErrMissingArgument)
	}

	records, err := c.client.AudioFeatures(ctx, ids)
	if err == nil && len(records) > 0 {
		return jsonResult(records)
	}
	if err != nil {
		c.logger.Warn("bulk audio features request failed", "error", err)
	}

	swept := c.client.FeatureSweep(ctx, ids, spotify.SweepOpts{})
	if len(swept) > 0 {
		return jsonResult(swept)
	}

	return textResult(featuresExplanation), nil
}

// compareTracks lays the core feature attributes of 2 to 5 tracks side by
// side, keyed by "name by artist".
func (c *Catalog) compareTracks(ctx context.Context, params Params) (*Result, error) {
	ids, err := params.StringSlice("track_ids")
	if err != nil {
		return nil, err
	}
	if len(ids) < 2 || len(ids) > 5 {
		return textResult("Please provide between 2 and 5 track IDs for comparison"), nil
	}

	type entry struct {
		label    string
		features map[string]any
	}
	entries := make([]entry, 0, len(ids))
	var available int

	for _, id := range ids {
		label := "Unknown Track by Unknown Artist"
		if track, err := c.client.TrackInfo(ctx, id); err == nil {
			artist := "Unknown Artist"
			if len(track.Artists) > 0 {
				artist = track.Artists[0].Name
			}
			label = fmt.Sprintf("%s by %s", track.Name, artist)
		} else {
			c.logger.Warn("failed to fetch track for comparison", "track", id, "error", err)
		}

		features, err := c.client.TrackFeatures(ctx, id)
		if err != nil {
			c.logger.Warn("failed to fetch features for comparison", "track", id, "error", err)
			features = nil
		} else {
			available++
		}
		entries = append(entries, entry{label: label, features: features})
	}

	if available < 2 {
		return textResult("Could not retrieve audio features for the provided tracks. Please verify the track IDs and try again."), nil
	}

	comparison := make(map[string]map[string]any, len(comparedFeatures))
	for _, name := range comparedFeatures {
		comparison[name] = make(map[string]any)
		for _, e := range entries {
			if e.features != nil {
				comparison[name][e.label] = e.features[name]
			}
		}
	}
	return jsonResult(comparison)
}
