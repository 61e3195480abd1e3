package graph

import (
	"context"
	"testing"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"brewgraph/internal/recommend"
	apperrors "brewgraph/pkg/errors"
)

// These tests require a running Neo4j instance on bolt://localhost:7687
// (neo4j/password). Run with -short to skip them.

func TestRepository_UpsertUser_Idempotent(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	repo, cleanup := newTestRepository(t)
	defer cleanup()

	userID := testUserID()

	if err := repo.UpsertUser(ctx, User{ID: userID, Username: "first", FirstName: "Guillaume"}); err != nil {
		t.Fatalf("UpsertUser failed: %v", err)
	}
	if err := repo.UpsertUser(ctx, User{ID: userID, Username: "second", FirstName: "Christopher"}); err != nil {
		t.Fatalf("UpsertUser failed: %v", err)
	}

	user, err := repo.GetUser(ctx, userID)
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if user.Username != "second" {
		t.Errorf("Expected last write to win, got username %q", user.Username)
	}

	// Exactly one node must exist for the id
	count := countNodes(t, repo, "MATCH (u:User {id: $id}) RETURN count(u) as n", map[string]interface{}{"id": userID})
	if count != 1 {
		t.Errorf("Expected 1 user node, got %d", count)
	}
}

func TestRepository_UpsertBeerLiked_SingularEdge(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	repo, cleanup := newTestRepository(t)
	defer cleanup()

	userID := testUserID()
	beerID := "test-beer-" + time.Now().Format("20060102150405")

	if err := repo.UpsertUser(ctx, User{ID: userID, Username: "rater"}); err != nil {
		t.Fatalf("UpsertUser failed: %v", err)
	}
	if err := repo.UpsertBeer(ctx, beerID, "Test IPA"); err != nil {
		t.Fatalf("UpsertBeer failed: %v", err)
	}

	if err := repo.UpsertBeerLiked(ctx, userID, beerID, Liked{Rank: 3, At: time.Now()}); err != nil {
		t.Fatalf("UpsertBeerLiked failed: %v", err)
	}
	if err := repo.UpsertBeerLiked(ctx, userID, beerID, Liked{Rank: 5, At: time.Now()}); err != nil {
		t.Fatalf("UpsertBeerLiked failed: %v", err)
	}

	liked, err := repo.GetBeerLiked(ctx, userID, beerID)
	if err != nil {
		t.Fatalf("GetBeerLiked failed: %v", err)
	}
	if liked == nil {
		t.Fatal("Expected a LIKED edge, got none")
	}
	if liked.Rank != 5 {
		t.Errorf("Expected re-rating to overwrite rank, got %d", liked.Rank)
	}

	count := countNodes(t, repo,
		"MATCH (:User {id: $userID})-[l:LIKED]->(:Beer {id: $beerID}) RETURN count(l) as n",
		map[string]interface{}{"userID": userID, "beerID": beerID})
	if count != 1 {
		t.Errorf("Expected exactly 1 LIKED edge, got %d", count)
	}
}

func TestRepository_UpsertBeerLiked_BeerMissing(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	repo, cleanup := newTestRepository(t)
	defer cleanup()

	userID := testUserID()
	if err := repo.UpsertUser(ctx, User{ID: userID, Username: "rater"}); err != nil {
		t.Fatalf("UpsertUser failed: %v", err)
	}

	err := repo.UpsertBeerLiked(ctx, userID, "never-loaded", Liked{Rank: 4, At: time.Now()})
	if err == nil {
		t.Fatal("Expected a not-found error for an unknown beer id")
	}
	if !apperrors.IsNotFound(err) {
		t.Errorf("Expected not-found error, got %v", err)
	}

	count := countNodes(t, repo,
		"MATCH (:User {id: $userID})-[l:LIKED]->() RETURN count(l) as n",
		map[string]interface{}{"userID": userID})
	if count != 0 {
		t.Errorf("Expected no edge to be created, got %d", count)
	}
}

func TestRepository_PeerOverlapPaths_ScoringExample(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	repo, cleanup := newTestRepository(t)
	defer cleanup()

	now := time.Now()
	userA := testUserID()
	userB := userA + 1
	beerX := "test-x-" + time.Now().Format("20060102150405")
	beerY := "test-y-" + time.Now().Format("20060102150405")

	mustUpsert(t, repo.UpsertUser(ctx, User{ID: userA, Username: "a"}))
	mustUpsert(t, repo.UpsertUser(ctx, User{ID: userB, Username: "b"}))
	mustUpsert(t, repo.UpsertBeer(ctx, beerX, "Beer X"))
	mustUpsert(t, repo.UpsertBeer(ctx, beerY, "Beer Y"))
	mustUpsert(t, repo.UpsertBeerLiked(ctx, userA, beerX, Liked{Rank: 5, At: now}))
	mustUpsert(t, repo.UpsertBeerLiked(ctx, userB, beerX, Liked{Rank: 4, At: now}))
	mustUpsert(t, repo.UpsertBeerLiked(ctx, userB, beerY, Liked{Rank: 5, At: now}))

	paths, err := repo.PeerOverlapPaths(ctx, userA)
	if err != nil {
		t.Fatalf("PeerOverlapPaths failed: %v", err)
	}

	suggestions := recommend.Score(paths)
	if len(suggestions) != 1 {
		t.Fatalf("Expected exactly 1 suggestion, got %d", len(suggestions))
	}
	if suggestions[0].BeerID != beerY {
		t.Errorf("Expected %s to be recommended, got %s", beerY, suggestions[0].BeerID)
	}
	if suggestions[0].Score != 14 {
		t.Errorf("Expected score 14 (5+4+5), got %d", suggestions[0].Score)
	}
}

func TestRepository_PeerOverlapPaths_ExcludesRatedCandidates(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	repo, cleanup := newTestRepository(t)
	defer cleanup()

	now := time.Now()
	userA := testUserID()
	userB := userA + 1
	stamp := now.Format("20060102150405")
	beerX := "test-excl-x-" + stamp
	beerY := "test-excl-y-" + stamp
	beerZ := "test-excl-z-" + stamp

	mustUpsert(t, repo.UpsertUser(ctx, User{ID: userA, Username: "a"}))
	mustUpsert(t, repo.UpsertUser(ctx, User{ID: userB, Username: "b"}))
	mustUpsert(t, repo.UpsertBeer(ctx, beerX, "Beer X"))
	mustUpsert(t, repo.UpsertBeer(ctx, beerY, "Beer Y"))
	mustUpsert(t, repo.UpsertBeer(ctx, beerZ, "Beer Z"))

	// A and B overlap on X. B loves Y and Z, but A has already rated Y,
	// even if only at rank 2, so only Z may come back.
	mustUpsert(t, repo.UpsertBeerLiked(ctx, userA, beerX, Liked{Rank: 5, At: now}))
	mustUpsert(t, repo.UpsertBeerLiked(ctx, userA, beerY, Liked{Rank: 2, At: now}))
	mustUpsert(t, repo.UpsertBeerLiked(ctx, userB, beerX, Liked{Rank: 4, At: now}))
	mustUpsert(t, repo.UpsertBeerLiked(ctx, userB, beerY, Liked{Rank: 5, At: now}))
	mustUpsert(t, repo.UpsertBeerLiked(ctx, userB, beerZ, Liked{Rank: 5, At: now}))

	paths, err := repo.PeerOverlapPaths(ctx, userA)
	if err != nil {
		t.Fatalf("PeerOverlapPaths failed: %v", err)
	}
	for _, p := range paths {
		if p.BeerID == beerY {
			t.Errorf("Candidate %s is already rated by the target user and must not appear in any path", beerY)
		}
	}

	suggestions := recommend.Score(paths)
	if len(suggestions) != 1 {
		t.Fatalf("Expected exactly 1 suggestion, got %d", len(suggestions))
	}
	if suggestions[0].BeerID != beerZ {
		t.Errorf("Expected %s to be recommended, got %s", beerZ, suggestions[0].BeerID)
	}
}

func TestRepository_PeerOverlapPaths_NoRatings(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	repo, cleanup := newTestRepository(t)
	defer cleanup()

	userID := testUserID()
	mustUpsert(t, repo.UpsertUser(ctx, User{ID: userID, Username: "loner"}))

	paths, err := repo.PeerOverlapPaths(ctx, userID)
	if err != nil {
		t.Fatalf("PeerOverlapPaths failed: %v", err)
	}
	if len(paths) != 0 {
		t.Errorf("Expected no paths for a user with no ratings, got %d", len(paths))
	}
}

// Test helpers

func newTestRepository(t *testing.T) (*Repository, func()) {
	t.Helper()

	driver, err := neo4j.NewDriverWithContext("bolt://localhost:7687", neo4j.BasicAuth("neo4j", "password", ""))
	if err != nil {
		t.Fatalf("Failed to create driver: %v", err)
	}

	ctx := context.Background()
	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		t.Fatalf("Failed to verify Neo4j connectivity: %v", err)
	}

	repo := NewRepository(driver)
	if err := repo.EnsureSchema(ctx); err != nil {
		driver.Close(ctx)
		t.Fatalf("EnsureSchema failed: %v", err)
	}

	cleanup := func() {
		session := driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
		_, _ = session.Run(ctx,
			"MATCH (n) WHERE (n:User AND n.id >= $base) OR (n:Beer AND n.id STARTS WITH 'test-') DETACH DELETE n",
			map[string]interface{}{"base": testIDBase})
		session.Close(ctx)
		driver.Close(ctx)
	}

	return repo, cleanup
}

const testIDBase int64 = 900000000000

func testUserID() int64 {
	return testIDBase + time.Now().UnixNano()%1000000
}

func mustUpsert(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
}

func countNodes(t *testing.T, repo *Repository, query string, params map[string]interface{}) int64 {
	t.Helper()
	ctx := context.Background()

	session := repo.readSession(ctx)
	defer session.Close(ctx)

	result, err := session.Run(ctx, query, params)
	if err != nil {
		t.Fatalf("count query failed: %v", err)
	}
	if !result.Next(ctx) {
		t.Fatalf("count query returned no record: %v", result.Err())
	}
	return getInt64FromRecord(result.Record(), "n")
}
