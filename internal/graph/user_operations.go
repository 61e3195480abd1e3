package graph

import (
	"context"

	apperrors "brewgraph/pkg/errors"
)

// ============================================================================
// User Operations
// ============================================================================

// UpsertUser merges a user node by id. Profile fields are overwritten on both
// the create and match paths, so the last write always wins.
func (r *Repository) UpsertUser(ctx context.Context, user User) error {
	session := r.writeSession(ctx)
	defer session.Close(ctx)

	query := `
		MERGE (u:User {id: $userID})
		ON CREATE SET
			u.isBot = $isBot,
			u.firstName = $firstName,
			u.lastName = $lastName,
			u.username = $username,
			u.languageCode = $languageCode
		ON MATCH SET
			u.isBot = $isBot,
			u.firstName = $firstName,
			u.lastName = $lastName,
			u.username = $username,
			u.languageCode = $languageCode
	`

	_, err := session.Run(ctx, query, map[string]interface{}{
		"userID":       user.ID,
		"isBot":        user.IsBot,
		"firstName":    user.FirstName,
		"lastName":     user.LastName,
		"username":     user.Username,
		"languageCode": user.LanguageCode,
	})
	if err != nil {
		return apperrors.NewGraphQueryFailed("upsert user", err)
	}

	return nil
}

// GetUser fetches a user node by id
func (r *Repository) GetUser(ctx context.Context, userID int64) (*User, error) {
	session := r.readSession(ctx)
	defer session.Close(ctx)

	query := `
		MATCH (u:User {id: $userID})
		RETURN u.id as id, u.isBot as is_bot, u.firstName as first_name,
		       u.lastName as last_name, u.username as username,
		       u.languageCode as language_code
	`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"userID": userID,
	})
	if err != nil {
		return nil, apperrors.NewGraphQueryFailed("get user", err)
	}

	if !result.Next(ctx) {
		if err := result.Err(); err != nil {
			return nil, apperrors.NewGraphQueryFailed("get user", err)
		}
		return nil, apperrors.NewUserNotFound(userID)
	}

	record := result.Record()
	user := &User{
		ID:           getInt64FromRecord(record, "id"),
		FirstName:    getStringFromRecord(record, "first_name"),
		LastName:     getStringFromRecord(record, "last_name"),
		Username:     getStringFromRecord(record, "username"),
		LanguageCode: getStringFromRecord(record, "language_code"),
	}
	if isBot, ok := record.Get("is_bot"); ok {
		if b, ok := isBot.(bool); ok {
			user.IsBot = b
		}
	}

	return user, nil
}
