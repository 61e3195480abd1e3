package graph

import (
	"context"
	"time"

	apperrors "brewgraph/pkg/errors"
)

// ============================================================================
// Comment Operations
// ============================================================================

// UpsertCommentAboutBeer merges a comment node, links WROTE from the user and
// ABOUT to the beer. The beer and user must already exist.
func (r *Repository) UpsertCommentAboutBeer(ctx context.Context, userID int64, beerID string, comment Comment) error {
	session := r.writeSession(ctx)
	defer session.Close(ctx)

	query := `
		MATCH (b:Beer {id: $beerID})
		MATCH (u:User {id: $userID})
		MERGE (c:Comment {id: $commentID})
		ON CREATE SET c.text = $text, c.at = datetime($at)
		ON MATCH SET c.text = $text, c.at = datetime($at)
		MERGE (u)-[:WROTE]->(c)
		MERGE (c)-[:ABOUT]->(b)
		RETURN c.id as id
	`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"userID":    userID,
		"beerID":    beerID,
		"commentID": comment.ID,
		"text":      comment.Text,
		"at":        comment.At.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return apperrors.NewGraphQueryFailed("upsert comment about beer", err)
	}

	matched, err := consumeSingle(ctx, result)
	if err != nil {
		return apperrors.NewGraphQueryFailed("upsert comment about beer", err)
	}
	if !matched {
		return apperrors.NewBeerNotFound(beerID)
	}

	return nil
}

// UpsertCommentAboutComment merges a reply comment and links it ABOUT its
// parent comment, enabling threaded comments. The parent must already exist.
func (r *Repository) UpsertCommentAboutComment(ctx context.Context, userID int64, parentCommentID string, comment Comment) error {
	session := r.writeSession(ctx)
	defer session.Close(ctx)

	query := `
		MATCH (parent:Comment {id: $parentID})
		MATCH (u:User {id: $userID})
		MERGE (c:Comment {id: $commentID})
		ON CREATE SET c.text = $text, c.at = datetime($at)
		ON MATCH SET c.text = $text, c.at = datetime($at)
		MERGE (u)-[:WROTE]->(c)
		MERGE (c)-[:ABOUT]->(parent)
		RETURN c.id as id
	`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"userID":    userID,
		"parentID":  parentCommentID,
		"commentID": comment.ID,
		"text":      comment.Text,
		"at":        comment.At.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return apperrors.NewGraphQueryFailed("upsert comment about comment", err)
	}

	matched, err := consumeSingle(ctx, result)
	if err != nil {
		return apperrors.NewGraphQueryFailed("upsert comment about comment", err)
	}
	if !matched {
		return apperrors.NewCommentNotFound(parentCommentID)
	}

	return nil
}
