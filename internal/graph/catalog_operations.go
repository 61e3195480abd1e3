package graph

import (
	"context"

	apperrors "brewgraph/pkg/errors"
)

// ============================================================================
// Catalog Operations
// ============================================================================

// UpsertBeer merges a beer node by id. The name is set only on creation;
// catalog nodes are immutable after load except for relationship attachment.
func (r *Repository) UpsertBeer(ctx context.Context, beerID, name string) error {
	session := r.writeSession(ctx)
	defer session.Close(ctx)

	query := `
		MERGE (b:Beer {id: $beerID})
		ON CREATE SET b.name = $name
		RETURN b.id as id
	`

	_, err := session.Run(ctx, query, map[string]interface{}{
		"beerID": beerID,
		"name":   name,
	})
	if err != nil {
		return apperrors.NewGraphQueryFailed("upsert beer", err)
	}

	return nil
}

// UpsertBrewery merges a brewery node and links the given beer to it with a
// BREWED_BY edge. The beer must already exist; a missing beer makes the whole
// write a no-op and returns a not-found error so no orphan brewery is left
// behind.
func (r *Repository) UpsertBrewery(ctx context.Context, beerID string, brewery Brewery) error {
	session := r.writeSession(ctx)
	defer session.Close(ctx)

	query := `
		MATCH (b:Beer {id: $beerID})
		MERGE (br:Brewery {id: $breweryID})
		ON CREATE SET br.name = $breweryName
		MERGE (b)-[:BREWED_BY]->(br)
		RETURN br.id as id
	`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"beerID":      beerID,
		"breweryID":   brewery.ID,
		"breweryName": brewery.Name,
	})
	if err != nil {
		return apperrors.NewGraphQueryFailed("upsert brewery", err)
	}

	matched, err := consumeSingle(ctx, result)
	if err != nil {
		return apperrors.NewGraphQueryFailed("upsert brewery", err)
	}
	if !matched {
		return apperrors.NewBeerNotFound(beerID)
	}

	return nil
}

// UpsertStyle merges a style node and links the given beer to it with an
// IS_TYPE edge. Same referential precondition as UpsertBrewery.
func (r *Repository) UpsertStyle(ctx context.Context, beerID string, style Style) error {
	session := r.writeSession(ctx)
	defer session.Close(ctx)

	query := `
		MATCH (b:Beer {id: $beerID})
		MERGE (s:Style {id: $styleID})
		ON CREATE SET s.name = $styleName
		MERGE (b)-[:IS_TYPE]->(s)
		RETURN s.id as id
	`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"beerID":    beerID,
		"styleID":   style.ID,
		"styleName": style.Name,
	})
	if err != nil {
		return apperrors.NewGraphQueryFailed("upsert style", err)
	}

	matched, err := consumeSingle(ctx, result)
	if err != nil {
		return apperrors.NewGraphQueryFailed("upsert style", err)
	}
	if !matched {
		return apperrors.NewBeerNotFound(beerID)
	}

	return nil
}
