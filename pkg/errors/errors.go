package errors

import (
	"fmt"
	"time"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeGraph represents graph database errors
	ErrorTypeGraph ErrorType = "graph"
	// ErrorTypeCatalog represents document catalog errors
	ErrorTypeCatalog ErrorType = "catalog"
	// ErrorTypeNotFound represents missing-entity errors
	ErrorTypeNotFound ErrorType = "not_found"
	// ErrorTypeValidation represents caller contract violations
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeDiscord represents Discord-related errors
	ErrorTypeDiscord ErrorType = "discord"
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
)

// BaseError is the base error type with common fields
type BaseError struct {
	Type      ErrorType
	Message   string
	Timestamp time.Time
	Err       error // Wrapped error
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error for error unwrapping
func (e *BaseError) Unwrap() error {
	return e.Err
}

// NewBaseError creates a new base error
func NewBaseError(errType ErrorType, message string, err error) *BaseError {
	return &BaseError{
		Type:      errType,
		Message:   message,
		Timestamp: time.Now(),
		Err:       err,
	}
}

// Graph Errors

// ErrGraphConnectionFailed is returned when the Neo4j connection fails.
// The store's transport failure propagates unchanged; retry policy lives
// with the driver, not here.
type ErrGraphConnectionFailed struct {
	*BaseError
	URI string
}

func NewGraphConnectionFailed(uri string, err error) *ErrGraphConnectionFailed {
	return &ErrGraphConnectionFailed{
		BaseError: NewBaseError(ErrorTypeGraph, fmt.Sprintf("failed to connect to Neo4j: %s", uri), err),
		URI:       uri,
	}
}

// ErrGraphQueryFailed is returned when a graph query fails
type ErrGraphQueryFailed struct {
	*BaseError
	Operation string
}

func NewGraphQueryFailed(operation string, err error) *ErrGraphQueryFailed {
	return &ErrGraphQueryFailed{
		BaseError: NewBaseError(ErrorTypeGraph, fmt.Sprintf("query failed: %s", operation), err),
		Operation: operation,
	}
}

// Not-found Errors

// ErrUserNotFound is returned when a user is not found in the graph
type ErrUserNotFound struct {
	*BaseError
	UserID int64
}

func NewUserNotFound(userID int64) *ErrUserNotFound {
	return &ErrUserNotFound{
		BaseError: NewBaseError(ErrorTypeNotFound, fmt.Sprintf("user not found: %d", userID), nil),
		UserID:    userID,
	}
}

// ErrBeerNotFound is returned when a beer id was never loaded into the graph
type ErrBeerNotFound struct {
	*BaseError
	BeerID string
}

func NewBeerNotFound(beerID string) *ErrBeerNotFound {
	return &ErrBeerNotFound{
		BaseError: NewBaseError(ErrorTypeNotFound, fmt.Sprintf("beer not found: %s", beerID), nil),
		BeerID:    beerID,
	}
}

// ErrBreweryNotFound is returned when a brewery id does not exist
type ErrBreweryNotFound struct {
	*BaseError
	BreweryID int64
}

func NewBreweryNotFound(breweryID int64) *ErrBreweryNotFound {
	return &ErrBreweryNotFound{
		BaseError: NewBaseError(ErrorTypeNotFound, fmt.Sprintf("brewery not found: %d", breweryID), nil),
		BreweryID: breweryID,
	}
}

// ErrStyleNotFound is returned when a style id does not exist
type ErrStyleNotFound struct {
	*BaseError
	StyleID int64
}

func NewStyleNotFound(styleID int64) *ErrStyleNotFound {
	return &ErrStyleNotFound{
		BaseError: NewBaseError(ErrorTypeNotFound, fmt.Sprintf("style not found: %d", styleID), nil),
		StyleID:   styleID,
	}
}

// ErrCommentNotFound is returned when a parent comment does not exist
type ErrCommentNotFound struct {
	*BaseError
	CommentID string
}

func NewCommentNotFound(commentID string) *ErrCommentNotFound {
	return &ErrCommentNotFound{
		BaseError: NewBaseError(ErrorTypeNotFound, fmt.Sprintf("comment not found: %s", commentID), nil),
		CommentID: commentID,
	}
}

// ErrCatalogBeerNotFound is returned when a beer is missing from the document catalog
type ErrCatalogBeerNotFound struct {
	*BaseError
	BeerID string
}

func NewCatalogBeerNotFound(beerID string) *ErrCatalogBeerNotFound {
	return &ErrCatalogBeerNotFound{
		BaseError: NewBaseError(ErrorTypeNotFound, fmt.Sprintf("beer not in catalog: %s", beerID), nil),
		BeerID:    beerID,
	}
}

// Validation Errors

// ErrRankOutOfRange is returned when a rank is outside [1,5].
// Rejected before any store write is attempted.
type ErrRankOutOfRange struct {
	*BaseError
	Rank int
}

func NewRankOutOfRange(rank int) *ErrRankOutOfRange {
	return &ErrRankOutOfRange{
		BaseError: NewBaseError(ErrorTypeValidation, fmt.Sprintf("rank must be between 1 and 5, got %d", rank), nil),
		Rank:      rank,
	}
}

// ErrInvalidID is returned when an id is malformed for its target type
type ErrInvalidID struct {
	*BaseError
	Raw string
}

func NewInvalidID(raw string) *ErrInvalidID {
	return &ErrInvalidID{
		BaseError: NewBaseError(ErrorTypeValidation, fmt.Sprintf("malformed id: %q", raw), nil),
		Raw:       raw,
	}
}

// Catalog Errors

// ErrCatalogUnavailable is returned when the document store cannot be opened
type ErrCatalogUnavailable struct {
	*BaseError
	Path string
}

func NewCatalogUnavailable(path string, err error) *ErrCatalogUnavailable {
	return &ErrCatalogUnavailable{
		BaseError: NewBaseError(ErrorTypeCatalog, fmt.Sprintf("catalog store unavailable: %s", path), err),
		Path:      path,
	}
}

// Discord Errors

// ErrDiscordSessionFailed is returned when the Discord session cannot be
// created or opened
type ErrDiscordSessionFailed struct {
	*BaseError
	Stage string
}

func NewDiscordSessionFailed(stage string, err error) *ErrDiscordSessionFailed {
	return &ErrDiscordSessionFailed{
		BaseError: NewBaseError(ErrorTypeDiscord, fmt.Sprintf("discord session %s failed", stage), err),
		Stage:     stage,
	}
}

// Config Errors

// ErrConfigInvalid is returned when configuration fails validation
type ErrConfigInvalid struct {
	*BaseError
}

func NewConfigInvalid(err error) *ErrConfigInvalid {
	return &ErrConfigInvalid{
		BaseError: NewBaseError(ErrorTypeConfig, "invalid configuration", err),
	}
}

// Helper functions

// IsErrorType checks if an error is of a specific type
func IsErrorType(err error, errType ErrorType) bool {
	if baseErr, ok := err.(*BaseError); ok {
		return baseErr.Type == errType
	}
	if typed, ok := err.(interface{ base() *BaseError }); ok {
		return typed.base().Type == errType
	}
	if wrapped, ok := err.(interface{ Unwrap() error }); ok {
		if inner := wrapped.Unwrap(); inner != nil {
			return IsErrorType(inner, errType)
		}
	}
	return false
}

func (e *BaseError) base() *BaseError { return e }

// IsNotFound reports whether the error signals a missing required entity
func IsNotFound(err error) bool {
	return IsErrorType(err, ErrorTypeNotFound)
}

// IsValidation reports whether the error is a caller contract violation
func IsValidation(err error) bool {
	return IsErrorType(err, ErrorTypeValidation)
}
