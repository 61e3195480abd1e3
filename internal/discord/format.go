package discord

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"brewgraph/internal/catalog"
	"brewgraph/internal/constants"
	"brewgraph/internal/graph"
)

// truncate cuts s to at most limit bytes, backing off to the previous rune
// boundary so multibyte characters are never split
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit]
}

// stars renders a rank as filled stars on an empty five-star row
func stars(rank int) string {
	if rank < 0 {
		rank = 0
	}
	if rank > constants.MaxRank {
		rank = constants.MaxRank
	}
	return strings.Repeat("★", rank) + strings.Repeat("☆", constants.MaxRank-rank)
}

// formatBeer renders one catalog entry, with the caller's current rating
// when there is one
func formatBeer(b catalog.Beer, liked *graph.Liked) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("[%s] %s", b.ID, b.Name))
	if liked != nil {
		sb.WriteString(" " + stars(liked.Rank))
	}
	sb.WriteString("\n")
	if b.Brewery != "" {
		sb.WriteString("\tBrewery: " + b.Brewery + "\n")
	}
	if b.Type != "" {
		sb.WriteString("\tType:    " + b.Type + "\n")
	}
	if b.Origin != "" {
		sb.WriteString("\tOrigin:  " + b.Origin + "\n")
	}
	return sb.String()
}

// formatToplist renders a brewery/style toplist
func formatToplist(title string, entities []graph.TopEntity) string {
	var sb strings.Builder
	sb.WriteString(title + ":\n")
	for _, e := range entities {
		sb.WriteString(fmt.Sprintf("\t%s — %d likes, avg %.1f\n", e.Name, e.LikeCount, e.AvgRank))
	}
	return sb.String()
}

func helpText(prefix string) string {
	return strings.Join([]string{
		"I keep track of the beers you like and tell you what to try next.",
		"",
		prefix + "search <name> — find beers in the catalog",
		prefix + "rate <beer-id> <1-5> — rate a beer",
		prefix + "ratebrewery <id> <1-5> — rate a brewery",
		prefix + "ratestyle <id> <1-5> — rate a style",
		prefix + "recommend — beers your peers liked that you haven't rated",
		prefix + "top breweries|styles [me] — most liked breweries or styles",
		prefix + "comment <beer-id> <text> — comment on a beer",
		prefix + "reply <comment-id> <text> — reply to a comment",
	}, "\n")
}
