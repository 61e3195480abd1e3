package recommend

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScore_SingleOverlap(t *testing.T) {
	// User A rated beer X with 5, peer B rated X with 4 and Y with 5:
	// Y scores 5+4+5 = 14 and is the only candidate.
	paths := []Path{
		{BeerID: "y", BeerName: "Beer Y", UserRank: 5, PeerRank: 4, CandidateRank: 5},
	}

	got := Score(paths)
	require.Len(t, got, 1)
	assert.Equal(t, "y", got[0].BeerID)
	assert.Equal(t, "Beer Y", got[0].Name)
	assert.Equal(t, 14, got[0].Score)
}

func TestScore_AccumulatesAcrossPaths(t *testing.T) {
	// The same candidate reached via two peers sums both contributions.
	paths := []Path{
		{BeerID: "y", BeerName: "Beer Y", UserRank: 5, PeerRank: 4, CandidateRank: 5},
		{BeerID: "y", BeerName: "Beer Y", UserRank: 4, PeerRank: 4, CandidateRank: 4},
		{BeerID: "z", BeerName: "Beer Z", UserRank: 4, PeerRank: 4, CandidateRank: 4},
	}

	got := Score(paths)
	require.Len(t, got, 2)
	assert.Equal(t, "y", got[0].BeerID)
	assert.Equal(t, 26, got[0].Score)
	assert.Equal(t, "z", got[1].BeerID)
	assert.Equal(t, 12, got[1].Score)
}

func TestScore_TieBreakByBeerID(t *testing.T) {
	paths := []Path{
		{BeerID: "b", BeerName: "Beer B", UserRank: 4, PeerRank: 4, CandidateRank: 4},
		{BeerID: "a", BeerName: "Beer A", UserRank: 4, PeerRank: 4, CandidateRank: 4},
	}

	got := Score(paths)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].BeerID)
	assert.Equal(t, "b", got[1].BeerID)
}

func TestScore_CapsOutput(t *testing.T) {
	var paths []Path
	for i := 0; i < 20; i++ {
		paths = append(paths, Path{
			BeerID:        fmt.Sprintf("beer-%02d", i),
			BeerName:      fmt.Sprintf("Beer %d", i),
			UserRank:      4,
			PeerRank:      4,
			CandidateRank: 4,
		})
	}

	got := Score(paths)
	assert.Len(t, got, 5)
}

func TestScore_EmptyInput(t *testing.T) {
	got := Score(nil)
	require.NotNil(t, got)
	assert.Empty(t, got)
}
