package graph

import (
	"context"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	apperrors "brewgraph/pkg/errors"
)

// ============================================================================
// Rating Operations
// ============================================================================

// A LIKED edge between a user and a target is singular: MERGE matches the
// existing edge and the rank/at properties are overwritten on both the
// create and match paths, so re-rating replaces the prior rank instead of
// creating a second edge.

// UpsertBeerLiked merges a LIKED edge from a user to a beer. The beer must
// already exist in the graph; liking an unknown beer id returns a not-found
// error and writes nothing.
func (r *Repository) UpsertBeerLiked(ctx context.Context, userID int64, beerID string, liked Liked) error {
	session := r.writeSession(ctx)
	defer session.Close(ctx)

	query := `
		MATCH (b:Beer {id: $beerID})
		MATCH (u:User {id: $userID})
		MERGE (u)-[l:LIKED]->(b)
		ON CREATE SET l.rank = $rank, l.at = datetime($at)
		ON MATCH SET l.rank = $rank, l.at = datetime($at)
		RETURN l.rank as rank
	`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"userID": userID,
		"beerID": beerID,
		"rank":   liked.Rank,
		"at":     liked.At.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return apperrors.NewGraphQueryFailed("upsert beer liked", err)
	}

	matched, err := consumeSingle(ctx, result)
	if err != nil {
		return apperrors.NewGraphQueryFailed("upsert beer liked", err)
	}
	if !matched {
		return apperrors.NewBeerNotFound(beerID)
	}

	return nil
}

// UpsertBreweryLiked merges a LIKED edge from a user to a brewery
func (r *Repository) UpsertBreweryLiked(ctx context.Context, userID, breweryID int64, liked Liked) error {
	session := r.writeSession(ctx)
	defer session.Close(ctx)

	query := `
		MATCH (br:Brewery {id: $breweryID})
		MATCH (u:User {id: $userID})
		MERGE (u)-[l:LIKED]->(br)
		ON CREATE SET l.rank = $rank, l.at = datetime($at)
		ON MATCH SET l.rank = $rank, l.at = datetime($at)
		RETURN l.rank as rank
	`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"userID":    userID,
		"breweryID": breweryID,
		"rank":      liked.Rank,
		"at":        liked.At.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return apperrors.NewGraphQueryFailed("upsert brewery liked", err)
	}

	matched, err := consumeSingle(ctx, result)
	if err != nil {
		return apperrors.NewGraphQueryFailed("upsert brewery liked", err)
	}
	if !matched {
		return apperrors.NewBreweryNotFound(breweryID)
	}

	return nil
}

// UpsertStyleLiked merges a LIKED edge from a user to a style
func (r *Repository) UpsertStyleLiked(ctx context.Context, userID, styleID int64, liked Liked) error {
	session := r.writeSession(ctx)
	defer session.Close(ctx)

	query := `
		MATCH (s:Style {id: $styleID})
		MATCH (u:User {id: $userID})
		MERGE (u)-[l:LIKED]->(s)
		ON CREATE SET l.rank = $rank, l.at = datetime($at)
		ON MATCH SET l.rank = $rank, l.at = datetime($at)
		RETURN l.rank as rank
	`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"userID":  userID,
		"styleID": styleID,
		"rank":    liked.Rank,
		"at":      liked.At.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return apperrors.NewGraphQueryFailed("upsert style liked", err)
	}

	matched, err := consumeSingle(ctx, result)
	if err != nil {
		return apperrors.NewGraphQueryFailed("upsert style liked", err)
	}
	if !matched {
		return apperrors.NewStyleNotFound(styleID)
	}

	return nil
}

// GetBeerLiked returns the LIKED edge between a user and a beer, or nil when
// the user has not rated that beer.
func (r *Repository) GetBeerLiked(ctx context.Context, userID int64, beerID string) (*Liked, error) {
	session := r.readSession(ctx)
	defer session.Close(ctx)

	query := `
		MATCH (:User {id: $userID})-[l:LIKED]->(:Beer {id: $beerID})
		RETURN l.rank as rank, l.at as at
	`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"userID": userID,
		"beerID": beerID,
	})
	if err != nil {
		return nil, apperrors.NewGraphQueryFailed("get beer liked", err)
	}

	if !result.Next(ctx) {
		if err := result.Err(); err != nil {
			return nil, apperrors.NewGraphQueryFailed("get beer liked", err)
		}
		return nil, nil
	}

	record := result.Record()
	return &Liked{
		Rank: getIntFromRecord(record, "rank"),
		At:   getTimeFromRecord(record, "at"),
	}, nil
}

// consumeSingle consumes a result that should contain at least one record.
// No record with no error means a MATCH precondition failed and nothing was
// written.
func consumeSingle(ctx context.Context, result neo4j.ResultWithContext) (bool, error) {
	if result.Next(ctx) {
		return true, nil
	}
	if err := result.Err(); err != nil {
		return false, err
	}
	return false, nil
}
