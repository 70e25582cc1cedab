package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/rz1986/gameportal/internal/model"
	"github.com/rz1986/gameportal/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// Used in tests and as the default dev backend.
type Storage struct {
	mu sync.RWMutex

	users         map[model.UserID]*model.User
	usernameIndex map[string]model.UserID
	phoneIndex    map[string]model.UserID
	games         map[model.GameID]*model.Game
	slugIndex     map[string]model.GameID
	ratings       map[ratingKey]*model.Rating
	plays         []*model.PlaySession
	codes         map[string][]*model.VerificationCode

	nextUserID model.UserID
	nextGameID model.GameID
	nextPlayID model.PlayID
	nextCodeID int64
}

type ratingKey struct {
	userID model.UserID
	gameID model.GameID
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		users:         make(map[model.UserID]*model.User),
		usernameIndex: make(map[string]model.UserID),
		phoneIndex:    make(map[string]model.UserID),
		games:         make(map[model.GameID]*model.Game),
		slugIndex:     make(map[string]model.GameID),
		ratings:       make(map[ratingKey]*model.Rating),
		codes:         make(map[string][]*model.VerificationCode),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// User operations

func (s *Storage) CreateUser(_ context.Context, user *model.User) (model.UserID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.usernameIndex[user.Username]; taken {
		return 0, model.ErrDuplicateIdentity
	}
	if _, taken := s.phoneIndex[user.Phone]; taken {
		return 0, model.ErrDuplicateIdentity
	}

	s.nextUserID++
	u := *user
	u.ID = s.nextUserID
	s.users[u.ID] = &u
	s.usernameIndex[u.Username] = u.ID
	s.phoneIndex[u.Phone] = u.ID
	return u.ID, nil
}

func (s *Storage) GetUser(_ context.Context, id model.UserID) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	u := *user
	return &u, nil
}

func (s *Storage) GetUserByUsername(_ context.Context, username string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.usernameIndex[username]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	u := *s.users[id]
	return &u, nil
}

func (s *Storage) GetUserByPhone(_ context.Context, phone string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.phoneIndex[phone]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	u := *s.users[id]
	return &u, nil
}

func (s *Storage) UpdateUser(_ context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.users[user.ID]
	if !ok {
		return model.ErrUserNotFound
	}
	if user.Username != old.Username {
		if _, taken := s.usernameIndex[user.Username]; taken {
			return model.ErrDuplicateIdentity
		}
		delete(s.usernameIndex, old.Username)
		s.usernameIndex[user.Username] = user.ID
	}
	if user.Phone != old.Phone {
		if _, taken := s.phoneIndex[user.Phone]; taken {
			return model.ErrDuplicateIdentity
		}
		delete(s.phoneIndex, old.Phone)
		s.phoneIndex[user.Phone] = user.ID
	}
	u := *user
	s.users[user.ID] = &u
	return nil
}

// Game operations

func (s *Storage) CreateGame(_ context.Context, game *model.Game) (model.GameID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.slugIndex[game.Slug]; taken {
		return 0, model.ErrDuplicateSlug
	}

	s.nextGameID++
	g := *game
	g.ID = s.nextGameID
	s.games[g.ID] = &g
	s.slugIndex[g.Slug] = g.ID
	return g.ID, nil
}

func (s *Storage) GetGame(_ context.Context, id model.GameID) (*model.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	game, ok := s.games[id]
	if !ok {
		return nil, model.ErrGameNotFound
	}
	g := *game
	return &g, nil
}

func (s *Storage) GetGameBySlug(_ context.Context, slug string) (*model.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.slugIndex[slug]
	if !ok {
		return nil, model.ErrGameNotFound
	}
	g := *s.games[id]
	return &g, nil
}

func (s *Storage) UpdateGame(_ context.Context, game *model.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.games[game.ID]
	if !ok {
		return model.ErrGameNotFound
	}
	if game.Slug != old.Slug {
		if _, taken := s.slugIndex[game.Slug]; taken {
			return model.ErrDuplicateSlug
		}
		delete(s.slugIndex, old.Slug)
		s.slugIndex[game.Slug] = game.ID
	}
	g := *game
	s.games[game.ID] = &g
	return nil
}

func (s *Storage) DeleteGame(_ context.Context, id model.GameID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	game, ok := s.games[id]
	if !ok {
		return model.ErrGameNotFound
	}
	delete(s.slugIndex, game.Slug)
	delete(s.games, id)

	for key := range s.ratings {
		if key.gameID == id {
			delete(s.ratings, key)
		}
	}
	kept := s.plays[:0]
	for _, play := range s.plays {
		if play.GameID != id {
			kept = append(kept, play)
		}
	}
	s.plays = kept
	return nil
}

func (s *Storage) ListGames(_ context.Context, sortBy storage.GameSort) ([]*model.GameListing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	listings := make([]*model.GameListing, 0, len(s.games))
	for id, game := range s.games {
		avg, count := s.ratingSummaryLocked(id)
		g := *game
		listings = append(listings, &model.GameListing{
			Game:        &g,
			Average:     avg,
			RatingCount: count,
		})
	}

	switch sortBy {
	case storage.SortByTitle:
		sort.Slice(listings, func(i, j int) bool {
			return strings.ToLower(listings[i].Game.Title) < strings.ToLower(listings[j].Game.Title)
		})
	default:
		sort.Slice(listings, func(i, j int) bool {
			if listings[i].Average != listings[j].Average {
				return listings[i].Average > listings[j].Average
			}
			return strings.ToLower(listings[i].Game.Title) < strings.ToLower(listings[j].Game.Title)
		})
	}
	return listings, nil
}

// Rating operations

func (s *Storage) UpsertRating(_ context.Context, rating *model.Rating) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[rating.GameID]; !ok {
		return model.ErrGameNotFound
	}
	r := *rating
	s.ratings[ratingKey{rating.UserID, rating.GameID}] = &r
	return nil
}

func (s *Storage) GetRating(_ context.Context, userID model.UserID, gameID model.GameID) (*model.Rating, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rating, ok := s.ratings[ratingKey{userID, gameID}]
	if !ok {
		return nil, nil
	}
	r := *rating
	return &r, nil
}

func (s *Storage) GetRatingSummary(_ context.Context, gameID model.GameID) (float64, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	avg, count := s.ratingSummaryLocked(gameID)
	return avg, count, nil
}

func (s *Storage) ratingSummaryLocked(gameID model.GameID) (float64, int) {
	sum, count := 0, 0
	for key, rating := range s.ratings {
		if key.gameID == gameID {
			sum += rating.Score
			count++
		}
	}
	if count == 0 {
		return 0, 0
	}
	return float64(sum) / float64(count), count
}

// Play session operations

func (s *Storage) CreatePlay(_ context.Context, play *model.PlaySession) (model.PlayID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[play.GameID]; !ok {
		return 0, model.ErrGameNotFound
	}
	s.nextPlayID++
	p := *play
	p.ID = s.nextPlayID
	s.plays = append(s.plays, &p)
	return p.ID, nil
}

func (s *Storage) ListPlaysForUser(_ context.Context, userID model.UserID) ([]*model.PlayRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var records []*model.PlayRecord
	for _, play := range s.plays {
		if play.UserID != userID {
			continue
		}
		record := &model.PlayRecord{PlaySession: *play}
		if game, ok := s.games[play.GameID]; ok {
			record.GameTitle = game.Title
			record.GameSlug = game.Slug
		}
		records = append(records, record)
	}

	// Most recent first; the newer session wins timestamp ties
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].PlayedAt.Equal(records[j].PlayedAt) {
			return records[i].ID > records[j].ID
		}
		return records[i].PlayedAt.After(records[j].PlayedAt)
	})
	return records, nil
}

// Verification code operations

func (s *Storage) CreateVerificationCode(_ context.Context, code *model.VerificationCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextCodeID++
	c := *code
	c.ID = s.nextCodeID
	s.codes[c.Phone] = append(s.codes[c.Phone], &c)
	return nil
}

func (s *Storage) GetLatestVerificationCode(_ context.Context, phone string) (*model.VerificationCode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	codes := s.codes[phone]
	if len(codes) == 0 {
		return nil, model.ErrInvalidCode
	}
	c := *codes[len(codes)-1]
	return &c, nil
}

func (s *Storage) DeleteVerificationCodes(_ context.Context, phone string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.codes, phone)
	return nil
}

// Close is a no-op for the in-memory backend
func (s *Storage) Close() error {
	return nil
}
