package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/rz1986/gameportal/internal/model"
	"github.com/rz1986/gameportal/internal/storage"
)

// Storage is a SQLite-backed implementation of the storage interface
type Storage struct {
	db *sql.DB
}

// New opens (or creates) the database at path and runs schema bootstrap.
// Foreign key enforcement is requested through the DSN so it applies to
// every pooled connection rather than only the one that ran the schema.
func New(path string) (*Storage, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Storage{db: db}, nil
}

var _ storage.Storage = (*Storage)(nil)

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// User operations

func (s *Storage) CreateUser(ctx context.Context, user *model.User) (model.UserID, error) {
	result, err := s.db.ExecContext(ctx,
		"INSERT INTO users (username, phone, password_hash, is_admin, created_at) VALUES (?, ?, ?, ?, ?)",
		user.Username, user.Phone, user.PasswordHash, user.IsAdmin, user.CreatedAt.UnixNano(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, model.ErrDuplicateIdentity
		}
		return 0, fmt.Errorf("failed to create user: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read user id: %w", err)
	}
	return model.UserID(id), nil
}

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx,
		"SELECT id, username, phone, password_hash, is_admin, created_at FROM users WHERE id = ?", id))
}

func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx,
		"SELECT id, username, phone, password_hash, is_admin, created_at FROM users WHERE username = ?", username))
}

func (s *Storage) GetUserByPhone(ctx context.Context, phone string) (*model.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx,
		"SELECT id, username, phone, password_hash, is_admin, created_at FROM users WHERE phone = ?", phone))
}

func (s *Storage) scanUser(row *sql.Row) (*model.User, error) {
	user := &model.User{}
	var createdAt int64
	err := row.Scan(&user.ID, &user.Username, &user.Phone, &user.PasswordHash, &user.IsAdmin, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	user.CreatedAt = time.Unix(0, createdAt)
	return user, nil
}

func (s *Storage) UpdateUser(ctx context.Context, user *model.User) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE users SET username = ?, phone = ?, password_hash = ?, is_admin = ? WHERE id = ?",
		user.Username, user.Phone, user.PasswordHash, user.IsAdmin, user.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return model.ErrDuplicateIdentity
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if affected == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

// Game operations

func (s *Storage) CreateGame(ctx context.Context, game *model.Game) (model.GameID, error) {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO games (title, slug, description, instructions, play_markup, uploader_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		game.Title, game.Slug, game.Description, game.Instructions, game.PlayMarkup,
		game.UploaderID, game.CreatedAt.UnixNano(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, model.ErrDuplicateSlug
		}
		return 0, fmt.Errorf("failed to create game: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read game id: %w", err)
	}
	return model.GameID(id), nil
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	return s.scanGame(s.db.QueryRowContext(ctx,
		`SELECT id, title, slug, description, instructions, play_markup, uploader_id, created_at
		 FROM games WHERE id = ?`, id))
}

func (s *Storage) GetGameBySlug(ctx context.Context, slug string) (*model.Game, error) {
	return s.scanGame(s.db.QueryRowContext(ctx,
		`SELECT id, title, slug, description, instructions, play_markup, uploader_id, created_at
		 FROM games WHERE slug = ?`, slug))
}

func (s *Storage) scanGame(row *sql.Row) (*model.Game, error) {
	game := &model.Game{}
	var createdAt int64
	err := row.Scan(&game.ID, &game.Title, &game.Slug, &game.Description,
		&game.Instructions, &game.PlayMarkup, &game.UploaderID, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrGameNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	game.CreatedAt = time.Unix(0, createdAt)
	return game, nil
}

func (s *Storage) UpdateGame(ctx context.Context, game *model.Game) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE games SET title = ?, slug = ?, description = ?, instructions = ?, play_markup = ?
		 WHERE id = ?`,
		game.Title, game.Slug, game.Description, game.Instructions, game.PlayMarkup, game.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return model.ErrDuplicateSlug
		}
		return fmt.Errorf("failed to update game: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update game: %w", err)
	}
	if affected == 0 {
		return model.ErrGameNotFound
	}
	return nil
}

func (s *Storage) DeleteGame(ctx context.Context, id model.GameID) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Dependent rows go first so the delete succeeds regardless of
	// whether cascade is in effect on this connection.
	if _, err := tx.ExecContext(ctx, "DELETE FROM ratings WHERE game_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete ratings: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM play_history WHERE game_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete play history: %w", err)
	}
	result, err := tx.ExecContext(ctx, "DELETE FROM games WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}
	if affected == 0 {
		return model.ErrGameNotFound
	}
	return tx.Commit()
}

func (s *Storage) ListGames(ctx context.Context, sort storage.GameSort) ([]*model.GameListing, error) {
	order := "avg_score DESC, LOWER(g.title) ASC"
	if sort == storage.SortByTitle {
		order = "LOWER(g.title) ASC"
	}

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT g.id, g.title, g.slug, g.description, g.instructions, g.play_markup,
		       g.uploader_id, g.created_at,
		       COALESCE(AVG(r.score), 0) AS avg_score,
		       COUNT(r.score) AS rating_count
		FROM games g
		LEFT JOIN ratings r ON r.game_id = g.id
		GROUP BY g.id
		ORDER BY %s`, order))
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	defer rows.Close()

	var listings []*model.GameListing
	for rows.Next() {
		game := &model.Game{}
		listing := &model.GameListing{Game: game}
		var createdAt int64
		if err := rows.Scan(&game.ID, &game.Title, &game.Slug, &game.Description,
			&game.Instructions, &game.PlayMarkup, &game.UploaderID, &createdAt,
			&listing.Average, &listing.RatingCount); err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		game.CreatedAt = time.Unix(0, createdAt)
		listings = append(listings, listing)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	return listings, nil
}

// Rating operations

func (s *Storage) UpsertRating(ctx context.Context, rating *model.Rating) error {
	if _, err := s.GetGame(ctx, rating.GameID); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO ratings (user_id, game_id, score, created_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(user_id, game_id) DO UPDATE SET score = excluded.score, created_at = excluded.created_at`,
		rating.UserID, rating.GameID, rating.Score, rating.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert rating: %w", err)
	}
	return nil
}

func (s *Storage) GetRating(ctx context.Context, userID model.UserID, gameID model.GameID) (*model.Rating, error) {
	rating := &model.Rating{}
	var createdAt int64
	err := s.db.QueryRowContext(ctx,
		"SELECT user_id, game_id, score, created_at FROM ratings WHERE user_id = ? AND game_id = ?",
		userID, gameID,
	).Scan(&rating.UserID, &rating.GameID, &rating.Score, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rating: %w", err)
	}
	rating.CreatedAt = time.Unix(0, createdAt)
	return rating, nil
}

func (s *Storage) GetRatingSummary(ctx context.Context, gameID model.GameID) (float64, int, error) {
	var avg float64
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COALESCE(AVG(score), 0), COUNT(score) FROM ratings WHERE game_id = ?",
		gameID,
	).Scan(&avg, &count)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to get rating summary: %w", err)
	}
	return avg, count, nil
}

// Play session operations

func (s *Storage) CreatePlay(ctx context.Context, play *model.PlaySession) (model.PlayID, error) {
	if _, err := s.GetGame(ctx, play.GameID); err != nil {
		return 0, err
	}
	result, err := s.db.ExecContext(ctx,
		"INSERT INTO play_history (user_id, game_id, played_at) VALUES (?, ?, ?)",
		play.UserID, play.GameID, play.PlayedAt.UnixNano(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to record play: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read play id: %w", err)
	}
	return model.PlayID(id), nil
}

func (s *Storage) ListPlaysForUser(ctx context.Context, userID model.UserID) ([]*model.PlayRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.user_id, p.game_id, p.played_at, g.title, g.slug
		FROM play_history p
		JOIN games g ON g.id = p.game_id
		WHERE p.user_id = ?
		ORDER BY p.played_at DESC, p.id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list plays: %w", err)
	}
	defer rows.Close()

	var records []*model.PlayRecord
	for rows.Next() {
		record := &model.PlayRecord{}
		var playedAt int64
		if err := rows.Scan(&record.ID, &record.UserID, &record.GameID, &playedAt,
			&record.GameTitle, &record.GameSlug); err != nil {
			return nil, fmt.Errorf("failed to scan play: %w", err)
		}
		record.PlayedAt = time.Unix(0, playedAt)
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list plays: %w", err)
	}
	return records, nil
}

// Verification code operations

func (s *Storage) CreateVerificationCode(ctx context.Context, code *model.VerificationCode) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO verification_codes (phone, code, created_at) VALUES (?, ?, ?)",
		code.Phone, code.Code, code.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to create verification code: %w", err)
	}
	return nil
}

func (s *Storage) GetLatestVerificationCode(ctx context.Context, phone string) (*model.VerificationCode, error) {
	code := &model.VerificationCode{}
	var createdAt int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id, phone, code, created_at FROM verification_codes
		 WHERE phone = ? ORDER BY created_at DESC, id DESC LIMIT 1`, phone,
	).Scan(&code.ID, &code.Phone, &code.Code, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrInvalidCode
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get verification code: %w", err)
	}
	code.CreatedAt = time.Unix(0, createdAt)
	return code, nil
}

func (s *Storage) DeleteVerificationCodes(ctx context.Context, phone string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM verification_codes WHERE phone = ?", phone); err != nil {
		return fmt.Errorf("failed to delete verification codes: %w", err)
	}
	return nil
}

// Close closes the underlying database handle
func (s *Storage) Close() error {
	return s.db.Close()
}
