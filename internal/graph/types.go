package graph

import "time"

// ============================================================================
// Graph Types
// ============================================================================

// User represents a user in the graph. The id is the external messaging
// platform's user id.
type User struct {
	ID           int64  `json:"id"`
	IsBot        bool   `json:"is_bot"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Username     string `json:"username"`
	LanguageCode string `json:"language_code"`
}

// Brewery represents a brewery node, derived from catalog fields at load time
type Brewery struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Style represents a beer style node, derived from the catalog "type" field
type Style struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Liked carries the properties of a LIKED edge
type Liked struct {
	Rank int       `json:"rank"`
	At   time.Time `json:"at"`
}

// Comment represents a free-text annotation about a beer or another comment
type Comment struct {
	ID   string    `json:"id"`
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// TopEntity is one row of a brewery/style toplist
type TopEntity struct {
	Name      string  `json:"name"`
	LikeCount int64   `json:"like_count"`
	AvgRank   float64 `json:"avg_rank"`
}

// Scope selects whether a toplist aggregates over all users or a single one
type Scope string

const (
	// ScopeGlobal aggregates likes from every user
	ScopeGlobal Scope = "global"
	// ScopeUser aggregates only the given user's likes
	ScopeUser Scope = "user"
)
