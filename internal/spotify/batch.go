package spotify

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// sweep defaults bound how hard the per-track fallback hits the API.
const (
	sweepMaxTracks  = 20
	sweepNumWorkers = 3
	sweepRateLimit  = 5.0
)

// unavailable marks feature fields the API would not serve.
const unavailable = "Information not available"

// featureFieldNames lists the audio-feature attributes substituted when a
// track's features cannot be fetched.
var featureFieldNames = []string{
	"acousticness", "danceability", "energy", "instrumentalness",
	"key", "liveness", "loudness", "mode", "speechiness", "tempo",
	"time_signature", "valence",
}

// SweepOpts configures a best-effort feature sweep.
type SweepOpts struct {
	MaxTracks  int
	NumWorkers int
	RateLimit  float64
}

// FeatureSweep fetches track details and audio features for each ID
// individually, continuing past per-track failures. This is the uniform
// best-effort continuation policy for multi-call tools: a failed feature
// lookup yields a record with placeholder fields and a note rather than
// aborting the sweep.
//
// Results preserve input order. The sweep shares nothing between tracks, so
// workers fan out behind a rate limiter.
func (c *Client) FeatureSweep(ctx context.Context, trackIDs []string, opts SweepOpts) []map[string]any {
	if opts.MaxTracks <= 0 {
		opts.MaxTracks = sweepMaxTracks
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = sweepNumWorkers
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = sweepRateLimit
	}
	if len(trackIDs) > opts.MaxTracks {
		trackIDs = trackIDs[:opts.MaxTracks]
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	results := make([]map[string]any, len(trackIDs))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < opts.NumWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if err := limiter.Wait(ctx); err != nil {
					return
				}
				results[i] = c.sweepOne(ctx, trackIDs[i])
			}
		}()
	}

	for i := range trackIDs {
		select {
		case <-ctx.Done():
		case jobs <- i:
			continue
		}
		break
	}
	close(jobs)
	wg.Wait()

	collected := make([]map[string]any, 0, len(results))
	for _, rec := range results {
		if rec != nil {
			collected = append(collected, rec)
		}
	}
	return collected
}

// sweepOne assembles one track's record: context from the track endpoint,
// then audio features, then placeholders when features are unreachable.
func (c *Client) sweepOne(ctx context.Context, trackID string) map[string]any {
	record := map[string]any{"id": trackID}

	if track, err := c.TrackInfo(ctx, trackID); err == nil {
		record["track_name"] = track.Name
		if len(track.Artists) > 0 {
			record["artist"] = track.Artists[0].Name
		}
		record["album"] = track.Album.Name
		record["popularity"] = track.Popularity
		record["duration_ms"] = track.DurationMS
	} else {
		c.logger.Warn("failed to fetch track info", "track", trackID, "error", err)
	}

	features, err := c.TrackFeatures(ctx, trackID)
	if err == nil && features != nil {
		for k, v := range features {
			record[k] = v
		}
		return record
	}
	c.logger.Warn("failed to fetch audio features", "track", trackID, "error", err)

	for _, field := range featureFieldNames {
		record[field] = unavailable
	}
	record["note"] = "Audio features unavailable - API permission restrictions"
	return record
}
