package storage

import (
	"context"
	"errors"
	"time"

	"github.com/rz1986/gameportal/internal/model"
)

// ErrSessionNotFound is returned by SessionStore for unknown or expired tokens
var ErrSessionNotFound = errors.New("session not found")

// GameSort selects the ordering of catalog listings
type GameSort string

const (
	// SortByRating orders by average rating descending, ties by title ascending
	SortByRating GameSort = "rating"
	// SortByTitle orders by title ascending
	SortByTitle GameSort = "title"
)

// Storage defines the interface for data persistence
type Storage interface {
	// User operations
	CreateUser(ctx context.Context, user *model.User) (model.UserID, error)
	GetUser(ctx context.Context, id model.UserID) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	GetUserByPhone(ctx context.Context, phone string) (*model.User, error)
	UpdateUser(ctx context.Context, user *model.User) error

	// Game operations
	CreateGame(ctx context.Context, game *model.Game) (model.GameID, error)
	GetGame(ctx context.Context, id model.GameID) (*model.Game, error)
	GetGameBySlug(ctx context.Context, slug string) (*model.Game, error)
	UpdateGame(ctx context.Context, game *model.Game) error
	// DeleteGame removes a game along with its ratings and play sessions
	DeleteGame(ctx context.Context, id model.GameID) error
	// ListGames returns every game with its aggregate rating, in the given order
	ListGames(ctx context.Context, sort GameSort) ([]*model.GameListing, error)

	// Rating operations
	// UpsertRating inserts or overwrites the rating for (UserID, GameID)
	UpsertRating(ctx context.Context, rating *model.Rating) error
	GetRating(ctx context.Context, userID model.UserID, gameID model.GameID) (*model.Rating, error)
	// GetRatingSummary returns the average score and count for a game.
	// A game with no ratings yields (0, 0, nil).
	GetRatingSummary(ctx context.Context, gameID model.GameID) (float64, int, error)

	// Play session operations
	CreatePlay(ctx context.Context, play *model.PlaySession) (model.PlayID, error)
	// ListPlaysForUser returns the user's play records, most recent first
	ListPlaysForUser(ctx context.Context, userID model.UserID) ([]*model.PlayRecord, error)

	// Verification code operations
	CreateVerificationCode(ctx context.Context, code *model.VerificationCode) error
	// GetLatestVerificationCode returns the newest code for a phone number,
	// or model.ErrInvalidCode when none exists
	GetLatestVerificationCode(ctx context.Context, phone string) (*model.VerificationCode, error)
	DeleteVerificationCodes(ctx context.Context, phone string) error

	Close() error
}

// SessionStore holds the session-token-to-user mapping. Implementations may
// expire entries on their own (Redis TTL); the auth service still checks
// ExpiresAt against the clock.
type SessionStore interface {
	SaveSession(ctx context.Context, session *model.Session, ttl time.Duration) error
	GetSession(ctx context.Context, token string) (*model.Session, error)
	DeleteSession(ctx context.Context, token string) error
}
