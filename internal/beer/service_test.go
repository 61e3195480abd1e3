package beer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brewgraph/internal/catalog"
	"brewgraph/internal/graph"
	"brewgraph/internal/recommend"
	apperrors "brewgraph/pkg/errors"
)

// fakeStore records upsert calls and plays back canned results
type fakeStore struct {
	users        []graph.User
	beerLikes    map[string]graph.Liked
	breweryLikes map[int64]graph.Liked
	styleLikes   map[int64]graph.Liked

	beers     []string
	breweries []graph.Brewery
	styles    []graph.Style

	beerComments   map[string]graph.Comment
	commentReplies map[string]graph.Comment

	paths    []recommend.Path
	pathsErr error
	likedErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		beerLikes:      make(map[string]graph.Liked),
		breweryLikes:   make(map[int64]graph.Liked),
		styleLikes:     make(map[int64]graph.Liked),
		beerComments:   make(map[string]graph.Comment),
		commentReplies: make(map[string]graph.Comment),
	}
}

func (f *fakeStore) UpsertUser(_ context.Context, user graph.User) error {
	f.users = append(f.users, user)
	return nil
}

func (f *fakeStore) UpsertBeer(_ context.Context, beerID, _ string) error {
	f.beers = append(f.beers, beerID)
	return nil
}

func (f *fakeStore) UpsertBrewery(_ context.Context, _ string, brewery graph.Brewery) error {
	f.breweries = append(f.breweries, brewery)
	return nil
}

func (f *fakeStore) UpsertStyle(_ context.Context, _ string, style graph.Style) error {
	f.styles = append(f.styles, style)
	return nil
}

func (f *fakeStore) UpsertBeerLiked(_ context.Context, _ int64, beerID string, liked graph.Liked) error {
	if f.likedErr != nil {
		return f.likedErr
	}
	f.beerLikes[beerID] = liked
	return nil
}

func (f *fakeStore) UpsertBreweryLiked(_ context.Context, _ int64, breweryID int64, liked graph.Liked) error {
	f.breweryLikes[breweryID] = liked
	return nil
}

func (f *fakeStore) UpsertStyleLiked(_ context.Context, _ int64, styleID int64, liked graph.Liked) error {
	f.styleLikes[styleID] = liked
	return nil
}

func (f *fakeStore) GetBeerLiked(_ context.Context, _ int64, beerID string) (*graph.Liked, error) {
	if liked, ok := f.beerLikes[beerID]; ok {
		return &liked, nil
	}
	return nil, nil
}

func (f *fakeStore) UpsertCommentAboutBeer(_ context.Context, _ int64, beerID string, comment graph.Comment) error {
	f.beerComments[beerID] = comment
	return nil
}

func (f *fakeStore) UpsertCommentAboutComment(_ context.Context, _ int64, parentID string, comment graph.Comment) error {
	f.commentReplies[parentID] = comment
	return nil
}

func (f *fakeStore) PeerOverlapPaths(_ context.Context, _ int64) ([]recommend.Path, error) {
	return f.paths, f.pathsErr
}

func (f *fakeStore) TopBreweries(_ context.Context, _ graph.Scope, _ int64) ([]graph.TopEntity, error) {
	return nil, nil
}

func (f *fakeStore) TopStyles(_ context.Context, _ graph.Scope, _ int64) ([]graph.TopEntity, error) {
	return nil, nil
}

func testProfile() graph.User {
	return graph.User{ID: 220987852, Username: "ovesco", FirstName: "guillaume", LanguageCode: "fr"}
}

func TestService_RecordRating_RejectsRankOutOfRange(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)

	for _, rank := range []int{0, -1, 6, 42} {
		err := svc.RecordRating(context.Background(), testProfile(), "beer-1", TargetBeer, rank, time.Now())
		require.Error(t, err, "rank %d", rank)
		assert.True(t, apperrors.IsValidation(err))
	}

	// Validation happens before any store write
	assert.Empty(t, store.users)
	assert.Empty(t, store.beerLikes)
}

func TestService_RecordRating_RejectsEmptyTargetID(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)

	err := svc.RecordRating(context.Background(), testProfile(), "  ", TargetBeer, 3, time.Now())
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestService_RecordRating_RejectsMalformedNumericID(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)

	err := svc.RecordRating(context.Background(), testProfile(), "not-a-number", TargetBrewery, 4, time.Now())
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Empty(t, store.users)
}

func TestService_RecordRating_Beer(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)

	at := time.Date(2021, 3, 14, 15, 9, 26, 0, time.UTC)
	err := svc.RecordRating(context.Background(), testProfile(), "beer-1", TargetBeer, 5, at)
	require.NoError(t, err)

	// Profile is refreshed on every rating
	require.Len(t, store.users, 1)
	assert.Equal(t, "ovesco", store.users[0].Username)

	liked, ok := store.beerLikes["beer-1"]
	require.True(t, ok)
	assert.Equal(t, 5, liked.Rank)
	assert.Equal(t, at, liked.At)
}

func TestService_RecordRating_BreweryAndStyle(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)

	require.NoError(t, svc.RecordRating(context.Background(), testProfile(), "7", TargetBrewery, 4, time.Now()))
	require.NoError(t, svc.RecordRating(context.Background(), testProfile(), "3", TargetStyle, 2, time.Now()))

	assert.Contains(t, store.breweryLikes, int64(7))
	assert.Contains(t, store.styleLikes, int64(3))
}

func TestService_RecordRating_PropagatesNotFound(t *testing.T) {
	store := newFakeStore()
	store.likedErr = apperrors.NewBeerNotFound("ghost")
	svc := NewService(store)

	err := svc.RecordRating(context.Background(), testProfile(), "ghost", TargetBeer, 4, time.Now())
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestService_Recommend_ScoresPaths(t *testing.T) {
	store := newFakeStore()
	store.paths = []recommend.Path{
		{BeerID: "y", BeerName: "Beer Y", UserRank: 5, PeerRank: 4, CandidateRank: 5},
	}
	svc := NewService(store)

	suggestions, err := svc.Recommend(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	assert.Equal(t, 14, suggestions[0].Score)
}

func TestService_Recommend_EmptyIsSuccess(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)

	suggestions, err := svc.Recommend(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, suggestions)
}

func TestService_CommentOnBeer_MintsID(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)

	id, err := svc.CommentOnBeer(context.Background(), testProfile(), "beer-1", "", "great head retention", time.Now())
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	comment, ok := store.beerComments["beer-1"]
	require.True(t, ok)
	assert.Equal(t, id, comment.ID)
	assert.Equal(t, "great head retention", comment.Text)
}

func TestService_ReplyToComment_KeepsGivenID(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)

	id, err := svc.ReplyToComment(context.Background(), testProfile(), "parent-1", "reply-1", "agreed", time.Now())
	require.NoError(t, err)
	assert.Equal(t, "reply-1", id)
	assert.Contains(t, store.commentReplies, "parent-1")
}

func TestService_LoadCatalog_FirstSeenNumbering(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)

	beers := []catalog.Beer{
		{ID: "1", Name: "One", Brewery: "Alpha, Beta", Type: "IPA"},
		{ID: "2", Name: "Two", Brewery: " Beta , Gamma", Type: "IPA, Stout"},
	}

	summary, err := svc.LoadCatalog(context.Background(), beers)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Beers)
	assert.Equal(t, 3, summary.Breweries)
	assert.Equal(t, 2, summary.Styles)

	// Distinct trimmed names get ids in first-seen order, reused on repeats
	wantBreweries := []graph.Brewery{
		{ID: 0, Name: "Alpha"},
		{ID: 1, Name: "Beta"},
		{ID: 1, Name: "Beta"},
		{ID: 2, Name: "Gamma"},
	}
	assert.Equal(t, wantBreweries, store.breweries)

	wantStyles := []graph.Style{
		{ID: 0, Name: "IPA"},
		{ID: 0, Name: "IPA"},
		{ID: 1, Name: "Stout"},
	}
	assert.Equal(t, wantStyles, store.styles)
}
