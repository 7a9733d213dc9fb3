package insights

import (
	"math/rand"
	"sort"
)

// personaMap pairs a dominant genre with a listener persona label.
var personaMap = map[string]string{
	"synthwave":  "Dreamy Synthwave Wizard",
	"trap":       "Nocturnal Basshead",
	"indie rock": "Melancholy Coffee Shop Poet",
	"k-pop":      "Bubblegum Daydreamer",
	"classical":  "Timeless Virtuoso",
	"jazz":       "Cool Cat Connoisseur",
	"metal":      "Thunderhead Rebel",
	"edm":        "Neon Rave Chaser",
	"folk":       "Nature-Strumming Wanderer",
}

// fallbackPersona covers unmapped or unknown dominant genres.
const fallbackPersona = "Eclectic Nomad"

var quirks = []string{
	"You probably wear headphones in the shower.",
	"Your Discover Weekly has existential crises.",
	"Your playlists are better than therapy.",
	"You judge people by their skip rate.",
}

// Persona resolves the persona label for a dominant genre.
func Persona(dominantGenre string) string {
	if p, ok := personaMap[dominantGenre]; ok {
		return p
	}
	return fallbackPersona
}

// Quirk returns a random quirk line for identity output.
func Quirk() string {
	return quirks[rand.Intn(len(quirks))]
}

// GenreCount is one entry of a ranked genre tally.
type GenreCount struct {
	Genre string `json:"genre"`
	Count int    `json:"count"`
}

// RankGenres orders a genre tally by descending count. Ties break on genre
// name so output is deterministic.
func RankGenres(counts map[string]int) []GenreCount {
	ranked := make([]GenreCount, 0, len(counts))
	for g, n := range counts {
		ranked = append(ranked, GenreCount{Genre: g, Count: n})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Genre < ranked[j].Genre
	})
	return ranked
}
