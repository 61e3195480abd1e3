// Package beer is the application service over the graph store: it validates
// caller input, orchestrates upserts, and composes the recommendation
// traversal with the scorer. Chat handlers and the HTTP API talk to this
// package, never to the repository directly.
package beer

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"brewgraph/internal/catalog"
	"brewgraph/internal/constants"
	"brewgraph/internal/graph"
	"brewgraph/internal/recommend"
	apperrors "brewgraph/pkg/errors"
	"brewgraph/pkg/logger"
)

// TargetType selects what kind of entity a rating points at
type TargetType string

const (
	// TargetBeer rates a beer
	TargetBeer TargetType = "beer"
	// TargetBrewery rates a brewery
	TargetBrewery TargetType = "brewery"
	// TargetStyle rates a style
	TargetStyle TargetType = "style"
)

// GraphStore is the slice of the graph repository the service depends on
type GraphStore interface {
	UpsertUser(ctx context.Context, user graph.User) error
	UpsertBeer(ctx context.Context, beerID, name string) error
	UpsertBrewery(ctx context.Context, beerID string, brewery graph.Brewery) error
	UpsertStyle(ctx context.Context, beerID string, style graph.Style) error
	UpsertBeerLiked(ctx context.Context, userID int64, beerID string, liked graph.Liked) error
	UpsertBreweryLiked(ctx context.Context, userID, breweryID int64, liked graph.Liked) error
	UpsertStyleLiked(ctx context.Context, userID, styleID int64, liked graph.Liked) error
	GetBeerLiked(ctx context.Context, userID int64, beerID string) (*graph.Liked, error)
	UpsertCommentAboutBeer(ctx context.Context, userID int64, beerID string, comment graph.Comment) error
	UpsertCommentAboutComment(ctx context.Context, userID int64, parentCommentID string, comment graph.Comment) error
	PeerOverlapPaths(ctx context.Context, userID int64) ([]recommend.Path, error)
	TopBreweries(ctx context.Context, scope graph.Scope, userID int64) ([]graph.TopEntity, error)
	TopStyles(ctx context.Context, scope graph.Scope, userID int64) ([]graph.TopEntity, error)
}

// Service implements the caller-facing API
type Service struct {
	store  GraphStore
	logger *zap.Logger
}

// NewService creates a new beer service
func NewService(store GraphStore) *Service {
	return &Service{
		store:  store,
		logger: logger.Get(),
	}
}

// RecordRating upserts the user's profile and then the singular LIKED edge to
// the target. The rank is validated before any store write; a rank outside
// [1,5] is a caller contract violation, never clamped. The two upserts are
// individually atomic but not atomic as a pair.
func (s *Service) RecordRating(ctx context.Context, profile graph.User, targetID string, target TargetType, rank int, at time.Time) error {
	if rank < constants.MinRank || rank > constants.MaxRank {
		return apperrors.NewRankOutOfRange(rank)
	}
	if strings.TrimSpace(targetID) == "" {
		return apperrors.NewInvalidID(targetID)
	}

	liked := graph.Liked{Rank: rank, At: at}

	switch target {
	case TargetBeer:
		if err := s.store.UpsertUser(ctx, profile); err != nil {
			return err
		}
		return s.store.UpsertBeerLiked(ctx, profile.ID, targetID, liked)

	case TargetBrewery:
		breweryID, err := strconv.ParseInt(targetID, 10, 64)
		if err != nil {
			return apperrors.NewInvalidID(targetID)
		}
		if err := s.store.UpsertUser(ctx, profile); err != nil {
			return err
		}
		return s.store.UpsertBreweryLiked(ctx, profile.ID, breweryID, liked)

	case TargetStyle:
		styleID, err := strconv.ParseInt(targetID, 10, 64)
		if err != nil {
			return apperrors.NewInvalidID(targetID)
		}
		if err := s.store.UpsertUser(ctx, profile); err != nil {
			return err
		}
		return s.store.UpsertStyleLiked(ctx, profile.ID, styleID, liked)

	default:
		return apperrors.NewInvalidID(string(target))
	}
}

// GetRating returns the user's rating of a beer, or nil when there is none
func (s *Service) GetRating(ctx context.Context, userID int64, beerID string) (*graph.Liked, error) {
	return s.store.GetBeerLiked(ctx, userID, beerID)
}

// Recommend returns ranked beer suggestions for a user based on peer rating
// overlap. An empty slice is a valid result meaning there is not enough data,
// not a failure; callers render it as such.
func (s *Service) Recommend(ctx context.Context, userID int64) ([]recommend.Suggestion, error) {
	paths, err := s.store.PeerOverlapPaths(ctx, userID)
	if err != nil {
		return nil, err
	}
	return recommend.Score(paths), nil
}

// ListTopBreweries returns breweries ordered by like count
func (s *Service) ListTopBreweries(ctx context.Context, scope graph.Scope, userID int64) ([]graph.TopEntity, error) {
	return s.store.TopBreweries(ctx, scope, userID)
}

// ListTopStyles returns styles ordered by like count
func (s *Service) ListTopStyles(ctx context.Context, scope graph.Scope, userID int64) ([]graph.TopEntity, error) {
	return s.store.TopStyles(ctx, scope, userID)
}

// CommentOnBeer records a comment about a beer. A missing comment id gets a
// fresh uuid so callers without a platform message id can still comment.
func (s *Service) CommentOnBeer(ctx context.Context, profile graph.User, beerID, commentID, text string, at time.Time) (string, error) {
	if strings.TrimSpace(beerID) == "" {
		return "", apperrors.NewInvalidID(beerID)
	}
	if commentID == "" {
		commentID = uuid.New().String()
	}

	if err := s.store.UpsertUser(ctx, profile); err != nil {
		return "", err
	}
	comment := graph.Comment{ID: commentID, Text: text, At: at}
	if err := s.store.UpsertCommentAboutBeer(ctx, profile.ID, beerID, comment); err != nil {
		return "", err
	}
	return commentID, nil
}

// ReplyToComment records a threaded reply to an existing comment
func (s *Service) ReplyToComment(ctx context.Context, profile graph.User, parentCommentID, commentID, text string, at time.Time) (string, error) {
	if strings.TrimSpace(parentCommentID) == "" {
		return "", apperrors.NewInvalidID(parentCommentID)
	}
	if commentID == "" {
		commentID = uuid.New().String()
	}

	if err := s.store.UpsertUser(ctx, profile); err != nil {
		return "", err
	}
	comment := graph.Comment{ID: commentID, Text: text, At: at}
	if err := s.store.UpsertCommentAboutComment(ctx, profile.ID, parentCommentID, comment); err != nil {
		return "", err
	}
	return commentID, nil
}

// LoadSummary reports what a catalog load wrote to the graph
type LoadSummary struct {
	Beers     int
	Breweries int
	Styles    int
}

// LoadCatalog populates Beer, Brewery and Style nodes from catalog tuples.
// Multi-valued brewery/type fields are comma-split and trimmed; each distinct
// name is assigned a numeric id in first-seen order and reused for every
// later occurrence.
func (s *Service) LoadCatalog(ctx context.Context, beers []catalog.Beer) (*LoadSummary, error) {
	breweryIDs := make(map[string]int64)
	styleIDs := make(map[string]int64)

	for _, beer := range beers {
		if err := s.store.UpsertBeer(ctx, beer.ID, beer.Name); err != nil {
			return nil, err
		}

		for _, name := range splitTrimmed(beer.Brewery) {
			id, ok := breweryIDs[name]
			if !ok {
				id = int64(len(breweryIDs))
				breweryIDs[name] = id
			}
			if err := s.store.UpsertBrewery(ctx, beer.ID, graph.Brewery{ID: id, Name: name}); err != nil {
				return nil, err
			}
		}

		for _, name := range splitTrimmed(beer.Type) {
			id, ok := styleIDs[name]
			if !ok {
				id = int64(len(styleIDs))
				styleIDs[name] = id
			}
			if err := s.store.UpsertStyle(ctx, beer.ID, graph.Style{ID: id, Name: name}); err != nil {
				return nil, err
			}
		}
	}

	summary := &LoadSummary{
		Beers:     len(beers),
		Breweries: len(breweryIDs),
		Styles:    len(styleIDs),
	}
	s.logger.Info("Catalog loaded into graph",
		zap.Int("beers", summary.Beers),
		zap.Int("breweries", summary.Breweries),
		zap.Int("styles", summary.Styles),
	)
	return summary, nil
}

// splitTrimmed splits a comma-separated catalog field into trimmed,
// non-empty values
func splitTrimmed(field string) []string {
	parts := strings.Split(field, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}
