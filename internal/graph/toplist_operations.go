package graph

import (
	"context"

	apperrors "brewgraph/pkg/errors"
)

// ============================================================================
// Toplist Operations
// ============================================================================

// TopBreweries returns breweries ordered by like count with their average
// rank. ScopeUser restricts the aggregation to the given user's likes;
// ScopeGlobal ignores userID.
func (r *Repository) TopBreweries(ctx context.Context, scope Scope, userID int64) ([]TopEntity, error) {
	return r.topEntities(ctx, "Brewery", scope, userID)
}

// TopStyles returns styles ordered by like count with their average rank
func (r *Repository) TopStyles(ctx context.Context, scope Scope, userID int64) ([]TopEntity, error) {
	return r.topEntities(ctx, "Style", scope, userID)
}

// topEntities aggregates LIKED edges into a toplist. The label is one of the
// two fixed node labels above, never caller input; Cypher cannot parameterize
// labels so it is interpolated.
func (r *Repository) topEntities(ctx context.Context, label string, scope Scope, userID int64) ([]TopEntity, error) {
	session := r.readSession(ctx)
	defer session.Close(ctx)

	query := `
		MATCH (u:User)-[l:LIKED]->(e:` + label + `)
		RETURN e.name as name, count(l) as like_count, avg(l.rank) as avg_rank
		ORDER BY like_count DESC, name ASC
	`
	params := map[string]interface{}{}

	if scope == ScopeUser {
		query = `
			MATCH (u:User {id: $userID})-[l:LIKED]->(e:` + label + `)
			RETURN e.name as name, count(l) as like_count, avg(l.rank) as avg_rank
			ORDER BY like_count DESC, name ASC
		`
		params["userID"] = userID
	}

	result, err := session.Run(ctx, query, params)
	if err != nil {
		return nil, apperrors.NewGraphQueryFailed("top entities", err)
	}

	entities := []TopEntity{}
	for result.Next(ctx) {
		record := result.Record()
		entities = append(entities, TopEntity{
			Name:      getStringFromRecord(record, "name"),
			LikeCount: getInt64FromRecord(record, "like_count"),
			AvgRank:   getFloat64FromRecord(record, "avg_rank"),
		})
	}
	if err := result.Err(); err != nil {
		return nil, apperrors.NewGraphQueryFailed("top entities", err)
	}

	return entities, nil
}
