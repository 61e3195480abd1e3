package recommend

import (
	"sort"

	"brewgraph/internal/constants"
)

// ============================================================================
// Recommendation Scoring
// ============================================================================

// Path is one qualifying peer-overlap triple decoded at the store boundary:
// the target user and a peer both rated a shared beer highly, and the peer
// also rated the candidate beer highly.
type Path struct {
	BeerID        string `json:"beer_id"`
	BeerName      string `json:"beer_name"`
	UserRank      int    `json:"user_rank"`
	PeerRank      int    `json:"peer_rank"`
	CandidateRank int    `json:"candidate_rank"`
}

// Suggestion is a candidate beer with its accumulated score
type Suggestion struct {
	BeerID string `json:"beer_id"`
	Name   string `json:"name"`
	Score  int    `json:"score"`
}

// Score accumulates peer-overlap paths into ranked suggestions.
//
// Each path contributes the sum of its three ranks to the candidate beer's
// score, so beers reachable via more, and higher-rated, overlapping paths
// score higher. Candidates are keyed by beer id in a map, which keeps the
// accumulation correct under value semantics and avoids a linear scan per
// path. Ties are broken by beer id ascending so output is deterministic
// regardless of store result order. The result is capped at
// constants.MaxSuggestions; an empty input yields an empty (non-nil) slice.
func Score(paths []Path) []Suggestion {
	scores := make(map[string]*Suggestion, len(paths))

	for _, p := range paths {
		s, ok := scores[p.BeerID]
		if !ok {
			s = &Suggestion{BeerID: p.BeerID, Name: p.BeerName}
			scores[p.BeerID] = s
		}
		s.Score += p.UserRank + p.PeerRank + p.CandidateRank
	}

	ranked := make([]Suggestion, 0, len(scores))
	for _, s := range scores {
		ranked = append(ranked, *s)
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].BeerID < ranked[j].BeerID
	})

	if len(ranked) > constants.MaxSuggestions {
		ranked = ranked[:constants.MaxSuggestions]
	}

	return ranked
}
