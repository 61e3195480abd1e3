package constants

// Rating constants
const (
	// MinRank is the lowest rating a user can assign
	MinRank = 1
	// MaxRank is the highest rating a user can assign
	MaxRank = 5
	// LikeThreshold is the minimum rank treated as a high-confidence like
	// by the recommendation traversal
	LikeThreshold = 4
)

// Recommendation constants
const (
	// MaxSuggestions caps the number of recommendations returned to a user
	MaxSuggestions = 5
)

// Catalog constants
const (
	// DefaultSearchLimit is the maximum number of beers returned by a name search
	DefaultSearchLimit = 10
)

// Discord constants
const (
	// DiscordMaxMessageLength is the maximum character limit for Discord messages
	DiscordMaxMessageLength = 2000
)
