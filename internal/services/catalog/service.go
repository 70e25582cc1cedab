package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/rz1986/gameportal/internal/dependencies/clock"
	"github.com/rz1986/gameportal/internal/model"
	"github.com/rz1986/gameportal/internal/services/auth"
	"github.com/rz1986/gameportal/internal/storage"
)

var (
	// Letters, digits, and CJK ideographs survive slugification; every
	// other run collapses into a single hyphen.
	slugStripRe = regexp.MustCompile(`[^a-zA-Z0-9\p{Han}]+`)

	sanitizeText = bluemonday.StrictPolicy()
)

// allowedAssetExts are the upload extensions accepted for game bundles
var allowedAssetExts = map[string]bool{
	".html": true,
	".htm":  true,
}

// Slugify derives a URL-safe slug from a game title
func Slugify(title string) string {
	slug := strings.Trim(slugStripRe.ReplaceAllString(title, "-"), "-")
	slug = strings.ToLower(slug)
	if slug == "" {
		return "game"
	}
	return slug
}

// AllowedAssetName reports whether an uploaded bundle filename has an
// accepted extension
func AllowedAssetName(name string) bool {
	return allowedAssetExts[strings.ToLower(filepath.Ext(name))]
}

// GameInput carries the fields of a game upload or edit.
// Description and Instructions are sanitized; PlayMarkup is trusted
// admin-provided content rendered verbatim on the play page.
type GameInput struct {
	Title        string
	Slug         string // optional; derived from Title when empty
	Description  string
	Instructions string
	PlayMarkup   string
	// AssetName is the filename of an uploaded bundle, when the markup
	// came from a file rather than the inline field
	AssetName string
}

// Service manages the game catalog
type Service struct {
	storage storage.Storage
	auth    *auth.Service
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates a new catalog service
func New(store storage.Storage, authService *auth.Service, clk clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: store,
		auth:    authService,
		clock:   clk,
		logger:  logger,
	}
}

// ListGames returns catalog entries with aggregate ratings in the given order
func (s *Service) ListGames(ctx context.Context, sort storage.GameSort) ([]*model.GameListing, error) {
	return s.storage.ListGames(ctx, sort)
}

// GetGame returns the game with the given slug
func (s *Service) GetGame(ctx context.Context, slug string) (*model.Game, error) {
	return s.storage.GetGameBySlug(ctx, slug)
}

// GetGameByID returns the game with the given id
func (s *Service) GetGameByID(ctx context.Context, id model.GameID) (*model.Game, error) {
	return s.storage.GetGame(ctx, id)
}

// UploadGame publishes a new game. Requires an admin session.
func (s *Service) UploadGame(ctx context.Context, token string, input GameInput) (*model.Game, error) {
	admin, err := s.auth.RequireAdmin(ctx, token)
	if err != nil {
		return nil, err
	}

	game, err := s.buildGame(input)
	if err != nil {
		return nil, err
	}
	game.UploaderID = admin.ID
	game.CreatedAt = s.clock.Now()

	id, err := s.storage.CreateGame(ctx, game)
	if err != nil {
		return nil, err
	}
	game.ID = id

	s.logger.Info("game published",
		slog.Int64("game_id", int64(id)),
		slog.String("slug", game.Slug),
		slog.Int64("uploader_id", int64(admin.ID)),
	)
	return game, nil
}

// UpdateGame edits an existing game's metadata. Requires an admin session.
func (s *Service) UpdateGame(ctx context.Context, token string, id model.GameID, input GameInput) (*model.Game, error) {
	if _, err := s.auth.RequireAdmin(ctx, token); err != nil {
		return nil, err
	}

	existing, err := s.storage.GetGame(ctx, id)
	if err != nil {
		return nil, err
	}

	game, err := s.buildGame(input)
	if err != nil {
		return nil, err
	}
	game.ID = existing.ID
	game.UploaderID = existing.UploaderID
	game.CreatedAt = existing.CreatedAt

	if err := s.storage.UpdateGame(ctx, game); err != nil {
		return nil, err
	}

	s.logger.Info("game updated", slog.Int64("game_id", int64(id)), slog.String("slug", game.Slug))
	return game, nil
}

// DeleteGame removes a game and, by policy, its ratings and play history.
// Requires an admin session.
func (s *Service) DeleteGame(ctx context.Context, token string, id model.GameID) error {
	if _, err := s.auth.RequireAdmin(ctx, token); err != nil {
		return err
	}

	if err := s.storage.DeleteGame(ctx, id); err != nil {
		return err
	}

	s.logger.Info("game deleted", slog.Int64("game_id", int64(id)))
	return nil
}

// buildGame validates and normalizes input into a Game
func (s *Service) buildGame(input GameInput) (*model.Game, error) {
	title := strings.TrimSpace(sanitizeText.Sanitize(input.Title))
	description := strings.TrimSpace(sanitizeText.Sanitize(input.Description))
	instructions := strings.TrimSpace(sanitizeText.Sanitize(input.Instructions))
	markup := strings.TrimSpace(input.PlayMarkup)

	if input.AssetName != "" && !AllowedAssetName(input.AssetName) {
		return nil, fmt.Errorf("%w: game bundle must be an .html file", model.ErrInvalidInput)
	}
	if title == "" || description == "" || instructions == "" || markup == "" {
		return nil, fmt.Errorf("%w: title, description, instructions, and play markup are required", model.ErrInvalidInput)
	}

	slug := strings.TrimSpace(input.Slug)
	if slug == "" {
		slug = Slugify(title)
	} else if slug != Slugify(slug) {
		return nil, fmt.Errorf("%w: slug may only contain lowercase letters, digits, and hyphens", model.ErrInvalidInput)
	}

	return &model.Game{
		Title:        title,
		Slug:         slug,
		Description:  description,
		Instructions: instructions,
		PlayMarkup:   markup,
	}, nil
}
