package graph

import (
	"context"

	"go.uber.org/zap"

	apperrors "brewgraph/pkg/errors"
)

// ============================================================================
// Schema Operations
// ============================================================================

// EnsureSchema declares uniqueness constraints on node ids so the store
// itself rejects duplicate nodes under concurrent upserts. Idempotent; safe
// to call on every startup.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	session := r.writeSession(ctx)
	defer session.Close(ctx)

	constraints := []string{
		"CREATE CONSTRAINT user_id_unique IF NOT EXISTS FOR (u:User) REQUIRE u.id IS UNIQUE",
		"CREATE CONSTRAINT beer_id_unique IF NOT EXISTS FOR (b:Beer) REQUIRE b.id IS UNIQUE",
		"CREATE CONSTRAINT brewery_id_unique IF NOT EXISTS FOR (br:Brewery) REQUIRE br.id IS UNIQUE",
		"CREATE CONSTRAINT style_id_unique IF NOT EXISTS FOR (s:Style) REQUIRE s.id IS UNIQUE",
	}

	for _, constraint := range constraints {
		if _, err := session.Run(ctx, constraint, nil); err != nil {
			return apperrors.NewGraphQueryFailed("ensure schema", err)
		}
	}

	r.logger.Info("Graph schema constraints ensured")
	return nil
}

// ResetAll destructively removes all nodes and relationships. Used only by
// data-loading and test flows.
func (r *Repository) ResetAll(ctx context.Context) error {
	session := r.writeSession(ctx)
	defer session.Close(ctx)

	if _, err := session.Run(ctx, "MATCH (n) DETACH DELETE n", nil); err != nil {
		return apperrors.NewGraphQueryFailed("reset all", err)
	}

	r.logger.Warn("All graph data deleted", zap.String("operation", "reset_all"))
	return nil
}
