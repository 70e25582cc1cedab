package rating

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rz1986/gameportal/internal/dependencies/clock"
	"github.com/rz1986/gameportal/internal/model"
	"github.com/rz1986/gameportal/internal/services/auth"
	"github.com/rz1986/gameportal/internal/storage"
)

// Service records ratings and play history and computes leaderboards
type Service struct {
	storage storage.Storage
	auth    *auth.Service
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates a new rating service
func New(store storage.Storage, authService *auth.Service, clk clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: store,
		auth:    authService,
		clock:   clk,
		logger:  logger,
	}
}

// RateGame upserts the caller's rating for a game. Re-rating overwrites;
// the game's average is recomputed lazily on the next read.
func (s *Service) RateGame(ctx context.Context, token string, gameID model.GameID, score int) error {
	user, err := s.auth.GetUser(ctx, token)
	if err != nil {
		return err
	}

	if !model.ValidScore(score) {
		return fmt.Errorf("%w: score must be between %d and %d", model.ErrInvalidInput, model.MinScore, model.MaxScore)
	}

	rating := &model.Rating{
		UserID:    user.ID,
		GameID:    gameID,
		Score:     score,
		CreatedAt: s.clock.Now(),
	}
	if err := s.storage.UpsertRating(ctx, rating); err != nil {
		return err
	}

	s.logger.Info("game rated",
		slog.Int64("user_id", int64(user.ID)),
		slog.Int64("game_id", int64(gameID)),
		slog.Int("score", score),
	)
	return nil
}

// GetUserRating returns the caller's rating for a game, or nil if unrated
func (s *Service) GetUserRating(ctx context.Context, token string, gameID model.GameID) (*model.Rating, error) {
	user, err := s.auth.GetUser(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.storage.GetRating(ctx, user.ID, gameID)
}

// GameAverage returns the average score and rating count for a game.
// An unrated game averages 0.
func (s *Service) GameAverage(ctx context.Context, gameID model.GameID) (float64, int, error) {
	return s.storage.GetRatingSummary(ctx, gameID)
}

// RecordPlay appends a play session for the caller
func (s *Service) RecordPlay(ctx context.Context, token string, gameID model.GameID) error {
	user, err := s.auth.GetUser(ctx, token)
	if err != nil {
		return err
	}

	play := &model.PlaySession{
		UserID:   user.ID,
		GameID:   gameID,
		PlayedAt: s.clock.Now(),
	}
	if _, err := s.storage.CreatePlay(ctx, play); err != nil {
		return err
	}

	s.logger.Info("play recorded",
		slog.Int64("user_id", int64(user.ID)),
		slog.Int64("game_id", int64(gameID)),
	)
	return nil
}

// GetHistory returns the caller's play sessions, most recent first
func (s *Service) GetHistory(ctx context.Context, token string) ([]*model.PlayRecord, error) {
	user, err := s.auth.GetUser(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.storage.ListPlaysForUser(ctx, user.ID)
}

// Leaderboard returns games by average rating descending, ties broken by
// title ascending. A limit of 0 returns every game.
func (s *Service) Leaderboard(ctx context.Context, limit int) ([]*model.GameListing, error) {
	listings, err := s.storage.ListGames(ctx, storage.SortByRating)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(listings) > limit {
		listings = listings[:limit]
	}
	return listings, nil
}
