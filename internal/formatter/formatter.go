// package formatter renders the tool catalog and tool results for terminal
// output (plain text, Markdown, JSON)
package formatter

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/oakmoss/tonearm/internal/shared"
	"github.com/oakmoss/tonearm/internal/spotify"
	"github.com/oakmoss/tonearm/internal/tools"
)

// CatalogToText converts a tool list to an aligned plain-text listing.
func CatalogToText(catalog []tools.Tool) []byte {
	var buf bytes.Buffer

	width := 0
	for _, t := range catalog {
		if len(t.Name) > width {
			width = len(t.Name)
		}
	}

	buf.WriteString(fmt.Sprintf("Tools: %d\n\n", len(catalog)))
	for _, t := range catalog {
		buf.WriteString(fmt.Sprintf("%-*s  %s\n", width, t.Name, t.Description))
	}

	return buf.Bytes()
}

// CatalogToMarkdown converts a tool list to a Markdown document with one
// section per tool.
func CatalogToMarkdown(catalog []tools.Tool) []byte {
	var buf bytes.Buffer

	buf.WriteString("# Tools\n\n")
	for _, t := range catalog {
		buf.WriteString(fmt.Sprintf("## %s\n\n", t.Name))
		buf.WriteString(fmt.Sprintf("%s\n\n", t.Description))
		buf.WriteString(fmt.Sprintf("**Use when**: %s\n", t.UseWhen))
		if t.SideEffects != "" {
			buf.WriteString(fmt.Sprintf("**Side effects**: %s\n", t.SideEffects))
		}
		buf.WriteString("\n")
	}

	return buf.Bytes()
}

// CatalogToJSON converts a tool list to JSON.
func CatalogToJSON(catalog []tools.Tool) ([]byte, error) {
	return shared.MarshalJSON(map[string]any{"tools": catalog}, true)
}

// ResultToText renders an invocation result. JSON payloads come back
// re-indented; anything else passes through untouched.
func ResultToText(result *tools.Result) []byte {
	var v any
	if err := json.Unmarshal([]byte(result.Text), &v); err != nil {
		return []byte(result.Text)
	}

	pretty, err := shared.MarshalJSON(v, true)
	if err != nil {
		return []byte(result.Text)
	}
	return pretty
}

// TracksToText converts a track list to a numbered plain-text listing.
func TracksToText(trackList []spotify.Track) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Tracks: %d\n\n", len(trackList)))
	for i, track := range trackList {
		artist := ""
		if len(track.Artists) > 0 {
			artist = track.Artists[0].Name
		}
		buf.WriteString(fmt.Sprintf("%d. %s - %s", i+1, artist, track.Name))
		if track.Album.Name != "" {
			buf.WriteString(fmt.Sprintf(" (%s)", track.Album.Name))
		}
		buf.WriteString("\n")
	}

	return buf.Bytes()
}
