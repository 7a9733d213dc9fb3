package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/oakmoss/tonearm/internal/shared"
	"github.com/oakmoss/tonearm/internal/spotify"
)

// searchTools covers the three keyword search entry points.
func (c *Catalog) searchTools() []Tool {
	search := func(kind string) RunFunc {
		return func(ctx context.Context, params Params) (*Result, error) {
			query, err := params.String("q")
			if err != nil {
				return nil, err
			}
			raw, err := c.client.Search(ctx, query, kind, params.IntOr("limit", 10))
			if err != nil {
				return nil, err
			}
			return rawResult(raw)
		}
	}

	return []Tool{
		{
			Name:        "search_tracks",
			Description: "Search tracks by keyword.",
			UseWhen:     "Find tracks matching query.",
			Run:         search("track"),
		},
		{
			Name:        "search_artists",
			Description: "Search artists by keyword.",
			UseWhen:     "Find artists matching query.",
			Run:         search("artist"),
		},
		{
			Name:        "search_albums",
			Description: "Search albums by keyword.",
			UseWhen:     "Find albums matching query.",
			Run:         search("album"),
		},
	}
}

// libraryTools covers track, artist, album, and playlist lookups.
func (c *Catalog) libraryTools() []Tool {
	return []Tool{
		{
			Name:        "get_track",
			Description: "Get track details.",
			UseWhen:     "Get detailed track info.",
			Run: func(ctx context.Context, params Params) (*Result, error) {
				id, err := params.String("track_id")
				if err != nil {
					return nil, err
				}
				raw, err := c.client.TrackRaw(ctx, id)
				if err != nil {
					return nil, err
				}
				return rawResult(raw)
			},
		},
		{
			Name:        "get_artist",
			Description: "Get artist details.",
			UseWhen:     "View artist info.",
			Run: func(ctx context.Context, params Params) (*Result, error) {
				id, err := params.String("artist_id")
				if err != nil {
					return nil, err
				}
				raw, err := c.client.Artist(ctx, id)
				if err != nil {
					return nil, err
				}
				return rawResult(raw)
			},
		},
		{
			Name:        "get_artist_albums",
			Description: "Get artist's albums.",
			UseWhen:     "View artist's discography.",
			Run: func(ctx context.Context, params Params) (*Result, error) {
				id, err := params.String("artist_id")
				if err != nil {
					return nil, err
				}
				raw, err := c.client.ArtistAlbums(ctx, id, params.IntOr("limit", 20))
				if err != nil {
					return nil, err
				}
				return rawResult(raw)
			},
		},
		{
			Name:        "get_artist_top_tracks",
			Description: "Get artist's top tracks.",
			UseWhen:     "View artist's popular songs.",
			Run: func(ctx context.Context, params Params) (*Result, error) {
				id, err := params.String("artist_id")
				if err != nil {
					return nil, err
				}
				raw, err := c.client.ArtistTopTracks(ctx, id, params.StringOr("market", "US"))
				if err != nil {
					return nil, err
				}
				return rawResult(raw)
			},
		},
		{
			Name:        "get_related_artists",
			Description: "Get related artists.",
			UseWhen:     "Find similar artists.",
			Run:         c.relatedArtists,
		},
		{
			Name:        "get_album",
			Description: "Get album details.",
			UseWhen:     "View album info.",
			Run: func(ctx context.Context, params Params) (*Result, error) {
				id, err := params.String("album_id")
				if err != nil {
					return nil, err
				}
				raw, err := c.client.Album(ctx, id)
				if err != nil {
					return nil, err
				}
				return rawResult(raw)
			},
		},
		{
			Name:        "get_album_tracks",
			Description: "Get album tracks.",
			UseWhen:     "View tracks in an album.",
			Run: func(ctx context.Context, params Params) (*Result, error) {
				id, err := params.String("album_id")
				if err != nil {
					return nil, err
				}
				raw, err := c.client.AlbumTracks(ctx, id, params.IntOr("limit", 20))
				if err != nil {
					return nil, err
				}
				return rawResult(raw)
			},
		},
		{
			Name:        "get_playlist",
			Description: "Get playlist details.",
			UseWhen:     "Fetch playlist info.",
			Run: func(ctx context.Context, params Params) (*Result, error) {
				id, err := params.String("playlist_id")
				if err != nil {
					return nil, err
				}
				raw, err := c.client.Playlist(ctx, id)
				if err != nil {
					if notFound(err) {
						return textResult(playlistRemediation(id, "playlist", "Try searching for public playlists instead.")), nil
					}
					return nil, err
				}
				return rawResult(raw)
			},
		},
		{
			Name:        "get_playlist_tracks",
			Description: "Get playlist tracks.",
			UseWhen:     "Fetch playlist items.",
			Run: func(ctx context.Context, params Params) (*Result, error) {
				id, err := params.String("playlist_id")
				if err != nil {
					return nil, err
				}
				raw, err := c.client.PlaylistTracks(ctx, id, params.IntOr("limit", 20))
				if err != nil {
					if notFound(err) {
						return textResult(playlistRemediation(id, "tracks for playlist", "Try searching for tracks directly or browse featured playlists.")), nil
					}
					return nil, err
				}
				return rawResult(raw)
			},
		},
	}
}

// relatedArtists verifies the artist exists, then falls back to a name search
// when the related-artists endpoint is unavailable.
func (c *Catalog) relatedArtists(ctx context.Context, params Params) (*Result, error) {
	id, err := params.String("artist_id")
	if err != nil {
		return nil, err
	}

	var artist struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	artistRaw, err := c.client.Artist(ctx, id)
	if err != nil {
		if notFound(err) {
			return textResult(fmt.Sprintf("Error: Artist with ID '%s' not found in Spotify database. Please check the ID and try again.", id)), nil
		}
		return nil, err
	}
	if err := json.Unmarshal(artistRaw, &artist); err != nil {
		return nil, fmt.Errorf("failed to decode artist: %w", err)
	}

	raw, err := c.client.RelatedArtists(ctx, id)
	if err == nil {
		return rawResult(raw)
	}
	c.logger.Warn("related-artists endpoint failed, using search fallback", "artist", id, "error", err)

	searchRaw, err := c.client.Search(ctx, "artist:"+artist.Name, "artist", 10)
	if err != nil {
		return nil, err
	}

	var section struct {
		Items []json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal(searchRaw, &section); err != nil {
		return nil, fmt.Errorf("failed to decode search results: %w", err)
	}

	filtered := make([]json.RawMessage, 0, len(section.Items))
	for _, item := range section.Items {
		var ref struct {
			ID string `json:"id"`
		}
		if json.Unmarshal(item, &ref) == nil && ref.ID == id {
			continue
		}
		filtered = append(filtered, item)
	}

	if len(filtered) == 0 {
		return textResult(fmt.Sprintf("No related artists found for %s (ID: %s)", artist.Name, id)), nil
	}
	return jsonResult(map[string]any{"artists": filtered})
}

// browseTools covers the browse and recommendation endpoints.
func (c *Catalog) browseTools() []Tool {
	browse := func(fetch func(ctx context.Context, limit int, country string) (json.RawMessage, error)) RunFunc {
		return func(ctx context.Context, params Params) (*Result, error) {
			raw, err := fetch(ctx, params.IntOr("limit", 20), params.StringOr("country", "US"))
			if err != nil {
				return nil, err
			}
			return rawResult(raw)
		}
	}

	return []Tool{
		{
			Name:        "get_recommendations",
			Description: "Get recommendations.",
			UseWhen:     "Get track recommendations.",
			Run:         c.recommendations,
		},
		{
			Name:        "get_genre_seeds",
			Description: "Get available genre seeds.",
			UseWhen:     "List genres for recommendations.",
			Run:         c.genreSeeds,
		},
		{
			Name:        "get_new_releases",
			Description: "Get new releases.",
			UseWhen:     "View latest album releases.",
			Run:         browse(c.client.NewReleases),
		},
		{
			Name:        "get_featured_playlists",
			Description: "Get featured playlists.",
			UseWhen:     "View curated featured playlists.",
			Run:         browse(c.client.FeaturedPlaylists),
		},
		{
			Name:        "get_categories",
			Description: "Get categories.",
			UseWhen:     "Browse content categories.",
			Run:         browse(c.client.Categories),
		},
		{
			Name:        "get_category_playlists",
			Description: "Get category playlists.",
			UseWhen:     "View playlists for a category.",
			Run: func(ctx context.Context, params Params) (*Result, error) {
				id, err := params.String("category_id")
				if err != nil {
					return nil, err
				}
				raw, err := c.client.CategoryPlaylists(ctx, id, params.IntOr("limit", 20))
				if err != nil {
					return nil, err
				}
				return rawResult(raw)
			},
		},
	}
}

func (c *Catalog) recommendations(ctx context.Context, params Params) (*Result, error) {
	seeds := spotify.RecommendationSeeds{}
	var err error
	if seeds.Artists, err = params.StringSlice("seed_artists"); err != nil {
		return nil, err
	}
	if seeds.Tracks, err = params.StringSlice("seed_tracks"); err != nil {
		return nil, err
	}
	if seeds.Genres, err = params.StringSlice("seed_genres"); err != nil {
		return nil, err
	}
	if seeds.Empty() {
		return nil, fmt.Errorf("%w: at least one of seed_artists, seed_tracks, or seed_genres is required", shared.ErrMissingArgument)
	}

	raw, err := c.client.Recommendations(ctx, seeds, params.IntOr("limit", 10))
	if err != nil {
		return nil, err
	}
	return rawResult(raw)
}

// fallbackGenres stands in when the genre-seeds endpoint is unavailable.
var fallbackGenres = []string{
	"acoustic", "afrobeat", "alt-rock", "alternative", "ambient", "blues",
	"classical", "country", "dance", "electronic", "folk", "funk", "hip-hop",
	"house", "indie", "jazz", "metal", "pop", "r-n-b", "reggae", "rock", "soul",
}

func (c *Catalog) genreSeeds(ctx context.Context, _ Params) (*Result, error) {
	raw, err := c.client.GenreSeeds(ctx)
	if err != nil {
		if errors.Is(err, shared.ErrUpstream) {
			c.logger.Warn("genre seeds endpoint failed, using fallback list", "error", err)
			return jsonResult(map[string]any{"genres": fallbackGenres})
		}
		return nil, err
	}
	return rawResult(raw)
}

// notFound reports whether an error is an upstream 404.
func notFound(err error) bool {
	var upstream *spotify.UpstreamError
	return errors.As(err, &upstream) && upstream.NotFound()
}

// playlistRemediation explains the authorization gap behind playlist 404s.
func playlistRemediation(id, what, alternative string) string {
	return fmt.Sprintf(
		"Unable to access %s %s. Spotify requires user authorization to access playlists.\n\n"+
			"To fix this:\n"+
			"1. Set up a refresh token with the proper scopes\n"+
			"2. Add it to config.toml or SPOTIFY_REFRESH_TOKEN\n\n"+
			"Alternative: %s", what, id, alternative)
}
