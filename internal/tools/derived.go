package tools

import (
	"context"
	"fmt"
	"math"

	"github.com/oakmoss/tonearm/internal/insights"
)

// derivedTools covers the metrics computed from top-track feature groups.
func (c *Catalog) derivedTools() []Tool {
	return []Tool{
		{
			Name:        "analyze_listening_shift",
			Description: "Analyze your listening shift between two periods.",
			UseWhen:     "You want to see how your music taste has changed over time.",
			SideEffects: "Fetches your top tracks and computes feature differences.",
			Run:         c.listeningShift,
		},
		{
			Name:        "predict_future_taste",
			Description: "Predict your future listening based on trend.",
			UseWhen:     "You want to see where your music taste is going.",
			Run:         c.futureTaste,
		},
		{
			Name:        "get_listener_identity",
			Description: "Get your listener identity and subculture match.",
			UseWhen:     "You want a fun typology based on your listening profile.",
			SideEffects: "Fetches top genres and maps to a persona label.",
			Run:         c.listenerIdentity,
		},
	}
}

// windowFeatures fetches the top tracks for a listening window and returns
// their audio-feature records.
func (c *Catalog) windowFeatures(ctx context.Context, timeRange string, limit int) ([]insights.Record, error) {
	tracks, err := c.client.TopTracks(ctx, timeRange, limit)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(tracks))
	for _, t := range tracks {
		ids = append(ids, t.ID)
	}
	if len(ids) == 0 {
		return nil, nil
	}
	return c.client.AudioFeatures(ctx, ids)
}

func (c *Catalog) listeningShift(ctx context.Context, params Params) (*Result, error) {
	startRange, err := params.String("start_range")
	if err != nil {
		return nil, err
	}
	endRange, err := params.String("end_range")
	if err != nil {
		return nil, err
	}

	before, err := c.windowFeatures(ctx, startRange, 20)
	if err != nil {
		return nil, err
	}
	after, err := c.windowFeatures(ctx, endRange, 20)
	if err != nil {
		return nil, err
	}

	shift, err := insights.ReduceAndClassify(before, after, "valence", c.classifier)
	if err != nil {
		return nil, err
	}

	var vibe string
	switch shift.Label {
	case insights.LabelUpbeat:
		vibe = "more upbeat"
	case insights.LabelMellow:
		vibe = "more mellow"
	default:
		vibe = "mostly stable"
	}

	return jsonResult(map[string]any{
		"shift_message": fmt.Sprintf(
			"Your average vibe shifted by %.2f between %s and %s, indicating you're becoming %s.",
			shift.Delta, startRange, endRange, vibe),
		"delta_valence": shift.Delta,
		"label":         shift.Label,
	})
}

func (c *Catalog) futureTaste(ctx context.Context, _ Params) (*Result, error) {
	recent, err := c.windowFeatures(ctx, "short_term", 10)
	if err != nil {
		return nil, err
	}
	baseline, err := c.windowFeatures(ctx, "long_term", 10)
	if err != nil {
		return nil, err
	}

	shift, err := insights.ReduceAndClassify(baseline, recent, "energy", c.classifier)
	if err != nil {
		return nil, err
	}

	var forecast string
	switch shift.Label {
	case insights.LabelUpbeat:
		forecast = "you're getting hyped"
	case insights.LabelMellow:
		forecast = "you're winding down"
	default:
		forecast = "vibe equilibrium"
	}

	return jsonResult(map[string]any{
		"energy_forecast": forecast,
		"delta_energy":    round3(shift.Delta),
		"label":           shift.Label,
	})
}

// listenerIdentity tallies genres across the artists behind the medium-term
// top tracks and maps the dominant one to a persona.
func (c *Catalog) listenerIdentity(ctx context.Context, _ Params) (*Result, error) {
	tracks, err := c.client.TopTracks(ctx, "medium_term", 30)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	counts := make(map[string]int)
	for _, track := range tracks {
		for _, artist := range track.Artists {
			if artist.ID == "" || seen[artist.ID] {
				continue
			}
			seen[artist.ID] = true

			genres, err := c.client.ArtistGenres(ctx, artist.ID)
			if err != nil {
				c.logger.Warn("failed to fetch artist genres", "artist", artist.ID, "error", err)
				continue
			}
			for _, g := range genres {
				counts[g]++
			}
		}
	}

	ranked := insights.RankGenres(counts)
	dominant := "unknown"
	if len(ranked) > 0 {
		dominant = ranked[0].Genre
	}
	if len(ranked) > 5 {
		ranked = ranked[:5]
	}

	return jsonResult(map[string]any{
		"identity":   insights.Persona(dominant),
		"top_genres": ranked,
		"quirk":      insights.Quirk(),
	})
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
