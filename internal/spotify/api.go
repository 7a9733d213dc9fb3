// Spotify Web API endpoint wrappers.
//
// Response shapes based on https://developer.spotify.com/documentation/web-api/reference/
package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// ArtistRef is the abbreviated artist object embedded in tracks.
type ArtistRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// AlbumRef is the abbreviated album object embedded in tracks.
type AlbumRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Track represents a Spotify track.
type Track struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Artists    []ArtistRef `json:"artists"`
	Album      AlbumRef    `json:"album"`
	DurationMS int         `json:"duration_ms"`
	Popularity int         `json:"popularity"`
	URI        string      `json:"uri"`
}

// Search queries the search endpoint for one entity kind (track, artist,
// album) and returns the matching sub-object of the response.
func (c *Client) Search(ctx context.Context, query, kind string, limit int) (json.RawMessage, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("type", kind)
	params.Set("limit", strconv.Itoa(limit))

	var resp map[string]json.RawMessage
	if err := c.Get(ctx, "search", params, &resp); err != nil {
		return nil, err
	}

	section, ok := resp[kind+"s"]
	if !ok {
		return json.RawMessage("{}"), nil
	}
	return section, nil
}

// Artist retrieves an artist object by ID.
func (c *Client) Artist(ctx context.Context, artistID string) (json.RawMessage, error) {
	return c.GetRaw(ctx, "artists/"+artistID, nil)
}

// ArtistGenres returns the genre list for an artist, or an empty list when
// the lookup fails.
func (c *Client) ArtistGenres(ctx context.Context, artistID string) ([]string, error) {
	var artist struct {
		Genres []string `json:"genres"`
	}
	if err := c.Get(ctx, "artists/"+artistID, nil, &artist); err != nil {
		return nil, err
	}
	return artist.Genres, nil
}

// ArtistAlbums retrieves an artist's discography.
func (c *Client) ArtistAlbums(ctx context.Context, artistID string, limit int) (json.RawMessage, error) {
	return c.GetRaw(ctx, "artists/"+artistID+"/albums", limitParams(limit))
}

// ArtistTopTracks retrieves an artist's most popular tracks for a market.
func (c *Client) ArtistTopTracks(ctx context.Context, artistID, market string) (json.RawMessage, error) {
	params := url.Values{}
	params.Set("market", market)
	return c.GetRaw(ctx, "artists/"+artistID+"/top-tracks", params)
}

// RelatedArtists retrieves artists similar to the given one.
func (c *Client) RelatedArtists(ctx context.Context, artistID string) (json.RawMessage, error) {
	return c.GetRaw(ctx, "artists/"+artistID+"/related-artists", nil)
}

// Album retrieves an album object by ID.
func (c *Client) Album(ctx context.Context, albumID string) (json.RawMessage, error) {
	return c.GetRaw(ctx, "albums/"+albumID, nil)
}

// AlbumTracks retrieves the tracks on an album.
func (c *Client) AlbumTracks(ctx context.Context, albumID string, limit int) (json.RawMessage, error) {
	return c.GetRaw(ctx, "albums/"+albumID+"/tracks", limitParams(limit))
}

// Playlist retrieves a playlist object by ID.
func (c *Client) Playlist(ctx context.Context, playlistID string) (json.RawMessage, error) {
	return c.GetRaw(ctx, "playlists/"+playlistID, nil)
}

// PlaylistTracks retrieves the items of a playlist.
func (c *Client) PlaylistTracks(ctx context.Context, playlistID string, limit int) (json.RawMessage, error) {
	return c.GetRaw(ctx, "playlists/"+playlistID+"/tracks", limitParams(limit))
}

// TrackRaw retrieves the full track object by ID for pass-through tools.
func (c *Client) TrackRaw(ctx context.Context, trackID string) (json.RawMessage, error) {
	return c.GetRaw(ctx, "tracks/"+trackID, nil)
}

// TrackInfo retrieves a typed track object by ID.
func (c *Client) TrackInfo(ctx context.Context, trackID string) (*Track, error) {
	var track Track
	if err := c.Get(ctx, "tracks/"+trackID, nil, &track); err != nil {
		return nil, err
	}
	return &track, nil
}

// RecommendationSeeds holds the seed parameters for the recommendations
// endpoint. At least one seed list must be non-empty.
type RecommendationSeeds struct {
	Artists []string
	Tracks  []string
	Genres  []string
}

// Empty reports whether no seed was provided.
func (s RecommendationSeeds) Empty() bool {
	return len(s.Artists) == 0 && len(s.Tracks) == 0 && len(s.Genres) == 0
}

// Recommendations retrieves recommended tracks for the given seeds.
func (c *Client) Recommendations(ctx context.Context, seeds RecommendationSeeds, limit int) (json.RawMessage, error) {
	params := limitParams(limit)
	if len(seeds.Artists) > 0 {
		params.Set("seed_artists", strings.Join(seeds.Artists, ","))
	}
	if len(seeds.Tracks) > 0 {
		params.Set("seed_tracks", strings.Join(seeds.Tracks, ","))
	}
	if len(seeds.Genres) > 0 {
		params.Set("seed_genres", strings.Join(seeds.Genres, ","))
	}

	var resp struct {
		Tracks json.RawMessage `json:"tracks"`
	}
	if err := c.Get(ctx, "recommendations", params, &resp); err != nil {
		return nil, err
	}
	return resp.Tracks, nil
}

// GenreSeeds retrieves the available genre seeds for recommendations.
func (c *Client) GenreSeeds(ctx context.Context) (json.RawMessage, error) {
	return c.GetRaw(ctx, "recommendations/available-genre-seeds", nil)
}

// NewReleases retrieves the latest album releases for a country.
func (c *Client) NewReleases(ctx context.Context, limit int, country string) (json.RawMessage, error) {
	return c.browseSection(ctx, "browse/new-releases", "albums", limit, country)
}

// FeaturedPlaylists retrieves the curated featured playlists for a country.
func (c *Client) FeaturedPlaylists(ctx context.Context, limit int, country string) (json.RawMessage, error) {
	return c.browseSection(ctx, "browse/featured-playlists", "playlists", limit, country)
}

// Categories retrieves the browse categories for a country.
func (c *Client) Categories(ctx context.Context, limit int, country string) (json.RawMessage, error) {
	return c.browseSection(ctx, "browse/categories", "categories", limit, country)
}

// CategoryPlaylists retrieves the playlists for a browse category.
func (c *Client) CategoryPlaylists(ctx context.Context, categoryID string, limit int) (json.RawMessage, error) {
	var resp map[string]json.RawMessage
	if err := c.Get(ctx, "browse/categories/"+categoryID+"/playlists", limitParams(limit), &resp); err != nil {
		return nil, err
	}
	if section, ok := resp["playlists"]; ok {
		return section, nil
	}
	return json.RawMessage("{}"), nil
}

// AudioFeatures retrieves audio features for up to 50 tracks at once. Records
// are returned as opaque field maps; entries the upstream could not resolve
// come back nil and are dropped.
func (c *Client) AudioFeatures(ctx context.Context, trackIDs []string) ([]map[string]any, error) {
	if len(trackIDs) == 0 {
		return nil, fmt.Errorf("no track IDs provided")
	}
	if len(trackIDs) > 50 {
		trackIDs = trackIDs[:50]
	}

	params := url.Values{}
	params.Set("ids", strings.Join(trackIDs, ","))

	var resp struct {
		AudioFeatures []map[string]any `json:"audio_features"`
	}
	if err := c.Get(ctx, "audio-features", params, &resp); err != nil {
		return nil, err
	}

	records := make([]map[string]any, 0, len(resp.AudioFeatures))
	for _, rec := range resp.AudioFeatures {
		if rec != nil {
			records = append(records, rec)
		}
	}
	return records, nil
}

// TrackFeatures retrieves the audio features of a single track.
func (c *Client) TrackFeatures(ctx context.Context, trackID string) (map[string]any, error) {
	var record map[string]any
	if err := c.Get(ctx, "audio-features/"+trackID, nil, &record); err != nil {
		return nil, err
	}
	return record, nil
}

// AudioAnalysisSummary condenses the very large audio-analysis response into
// counts per section type plus the track summary block.
type AudioAnalysisSummary struct {
	Track         json.RawMessage `json:"track"`
	SectionsCount int             `json:"sections_count"`
	SegmentsCount int             `json:"segments_count"`
	BeatsCount    int             `json:"beats_count"`
	BarsCount     int             `json:"bars_count"`
}

// AudioAnalysis retrieves the audio analysis for a track, summarized.
func (c *Client) AudioAnalysis(ctx context.Context, trackID string) (*AudioAnalysisSummary, error) {
	var resp struct {
		Track    json.RawMessage   `json:"track"`
		Sections []json.RawMessage `json:"sections"`
		Segments []json.RawMessage `json:"segments"`
		Beats    []json.RawMessage `json:"beats"`
		Bars     []json.RawMessage `json:"bars"`
	}
	if err := c.Get(ctx, "audio-analysis/"+trackID, nil, &resp); err != nil {
		return nil, err
	}

	return &AudioAnalysisSummary{
		Track:         resp.Track,
		SectionsCount: len(resp.Sections),
		SegmentsCount: len(resp.Segments),
		BeatsCount:    len(resp.Beats),
		BarsCount:     len(resp.Bars),
	}, nil
}

// TopTracks retrieves the authenticated user's top tracks for a listening
// window (short_term, medium_term, long_term). Requires the refresh-token
// grant flow.
func (c *Client) TopTracks(ctx context.Context, timeRange string, limit int) ([]Track, error) {
	params := limitParams(limit)
	params.Set("time_range", timeRange)

	var resp struct {
		Items []Track `json:"items"`
	}
	if err := c.Get(ctx, "me/top/tracks", params, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// browseSection fetches a browse endpoint and unwraps the named envelope key.
func (c *Client) browseSection(ctx context.Context, path, key string, limit int, country string) (json.RawMessage, error) {
	params := limitParams(limit)
	if country != "" {
		params.Set("country", country)
	}

	var resp map[string]json.RawMessage
	if err := c.Get(ctx, path, params, &resp); err != nil {
		return nil, err
	}
	if section, ok := resp[key]; ok {
		return section, nil
	}
	return json.RawMessage("{}"), nil
}

func limitParams(limit int) url.Values {
	params := url.Values{}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	return params
}
