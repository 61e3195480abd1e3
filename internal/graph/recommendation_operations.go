package graph

import (
	"context"

	"brewgraph/internal/constants"
	"brewgraph/internal/recommend"
	apperrors "brewgraph/pkg/errors"
)

// ============================================================================
// Recommendation Traversal
// ============================================================================

// PeerOverlapPaths runs the read-only collaborative traversal for a user:
// every (shared beer, peer, candidate beer) triple where all three LIKED
// edges carry rank >= the like threshold and the candidate is not already
// liked by the target user at any rank. Records are decoded into
// recommend.Path structs at the store boundary; scoring happens in the
// recommend package. A user with no high ratings yields an empty slice.
func (r *Repository) PeerOverlapPaths(ctx context.Context, userID int64) ([]recommend.Path, error) {
	session := r.readSession(ctx)
	defer session.Close(ctx)

	query := `
		MATCH (u:User {id: $userID})-[l:LIKED]->(b:Beer)<-[l2:LIKED]-(peer:User)-[l3:LIKED]->(cand:Beer)
		WHERE l.rank >= $threshold
		  AND l2.rank >= $threshold
		  AND l3.rank >= $threshold
		  AND peer.id <> u.id
		  AND NOT (u)-[:LIKED]->(cand)
		RETURN cand.id as beer_id, cand.name as beer_name,
		       l.rank as user_rank, l2.rank as peer_rank, l3.rank as candidate_rank
	`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"userID":    userID,
		"threshold": constants.LikeThreshold,
	})
	if err != nil {
		return nil, apperrors.NewGraphQueryFailed("peer overlap paths", err)
	}

	paths := []recommend.Path{}
	for result.Next(ctx) {
		record := result.Record()
		paths = append(paths, recommend.Path{
			BeerID:        getStringFromRecord(record, "beer_id"),
			BeerName:      getStringFromRecord(record, "beer_name"),
			UserRank:      getIntFromRecord(record, "user_rank"),
			PeerRank:      getIntFromRecord(record, "peer_rank"),
			CandidateRank: getIntFromRecord(record, "candidate_rank"),
		})
	}
	if err := result.Err(); err != nil {
		return nil, apperrors.NewGraphQueryFailed("peer overlap paths", err)
	}

	return paths, nil
}
