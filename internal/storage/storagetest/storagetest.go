// Package storagetest holds a conformance suite run against every Storage
// backend.
package storagetest

import (
	"context"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/rz1986/gameportal/internal/model"
	"github.com/rz1986/gameportal/internal/storage"
)

// Suite exercises the storage.Storage contract. Backend test packages embed
// it and supply a factory.
type Suite struct {
	suite.Suite

	// Factory builds a fresh empty store for each test
	Factory func() storage.Storage

	storage  storage.Storage
	ctx      context.Context
	now      time.Time
	uploader *model.User
}

func (s *Suite) SetupTest() {
	s.storage = s.Factory()
	s.ctx = context.Background()
	s.now = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s.uploader = nil
}

func (s *Suite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
}

func (s *Suite) createUser(username, phone string) *model.User {
	s.T().Helper()
	user := &model.User{
		Username:     username,
		Phone:        phone,
		PasswordHash: "hashed",
		CreatedAt:    s.now,
	}
	id, err := s.storage.CreateUser(s.ctx, user)
	s.Require().NoError(err)
	user.ID = id
	return user
}

// createGame lazily provisions a shared uploader so the games table's
// uploader_id foreign key is satisfied on backends that enforce it.
func (s *Suite) createGame(title, slug string) *model.Game {
	s.T().Helper()
	if s.uploader == nil {
		s.uploader = s.createUser("uploader", "13999999999")
	}
	game := &model.Game{
		Title:        title,
		Slug:         slug,
		Description:  "desc",
		Instructions: "instr",
		PlayMarkup:   "<canvas></canvas>",
		UploaderID:   s.uploader.ID,
		CreatedAt:    s.now,
	}
	id, err := s.storage.CreateGame(s.ctx, game)
	s.Require().NoError(err)
	game.ID = id
	return game
}

func (s *Suite) rate(userID model.UserID, gameID model.GameID, score int) {
	s.T().Helper()
	s.Require().NoError(s.storage.UpsertRating(s.ctx, &model.Rating{
		UserID:    userID,
		GameID:    gameID,
		Score:     score,
		CreatedAt: s.now,
	}))
}

// User tests

func (s *Suite) TestCreateAndGetUser() {
	user := s.createUser("alice", "13900001111")

	got, err := s.storage.GetUser(s.ctx, user.ID)
	s.Require().NoError(err)
	s.Equal("alice", got.Username)
	s.Equal("13900001111", got.Phone)
	s.Equal("hashed", got.PasswordHash)
}

func (s *Suite) TestGetUserNotFound() {
	_, err := s.storage.GetUser(s.ctx, model.UserID(999))
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *Suite) TestGetUserByUsername() {
	s.createUser("alice", "13900001111")

	got, err := s.storage.GetUserByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal("alice", got.Username)

	_, err = s.storage.GetUserByUsername(s.ctx, "bob")
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *Suite) TestGetUserByPhone() {
	s.createUser("alice", "13900001111")

	got, err := s.storage.GetUserByPhone(s.ctx, "13900001111")
	s.Require().NoError(err)
	s.Equal("alice", got.Username)

	_, err = s.storage.GetUserByPhone(s.ctx, "13900009999")
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *Suite) TestCreateUserDuplicateUsername() {
	s.createUser("alice", "13900001111")

	_, err := s.storage.CreateUser(s.ctx, &model.User{
		Username: "alice", Phone: "13900002222", PasswordHash: "x", CreatedAt: s.now,
	})
	s.ErrorIs(err, model.ErrDuplicateIdentity)
}

func (s *Suite) TestCreateUserDuplicatePhone() {
	s.createUser("alice", "13900001111")

	_, err := s.storage.CreateUser(s.ctx, &model.User{
		Username: "bob", Phone: "13900001111", PasswordHash: "x", CreatedAt: s.now,
	})
	s.ErrorIs(err, model.ErrDuplicateIdentity)
}

func (s *Suite) TestUpdateUser() {
	user := s.createUser("alice", "13900001111")
	user.IsAdmin = true

	s.Require().NoError(s.storage.UpdateUser(s.ctx, user))

	got, err := s.storage.GetUser(s.ctx, user.ID)
	s.Require().NoError(err)
	s.True(got.IsAdmin)
}

// Game tests

func (s *Suite) TestCreateAndGetGame() {
	game := s.createGame("Snake Classic", "snake-classic")

	got, err := s.storage.GetGame(s.ctx, game.ID)
	s.Require().NoError(err)
	s.Equal("Snake Classic", got.Title)
	s.Equal("<canvas></canvas>", got.PlayMarkup)
}

func (s *Suite) TestGetGameBySlug() {
	s.createGame("Snake Classic", "snake-classic")

	got, err := s.storage.GetGameBySlug(s.ctx, "snake-classic")
	s.Require().NoError(err)
	s.Equal("Snake Classic", got.Title)

	_, err = s.storage.GetGameBySlug(s.ctx, "missing")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *Suite) TestCreateGameDuplicateSlug() {
	s.createGame("Snake Classic", "snake-classic")

	_, err := s.storage.CreateGame(s.ctx, &model.Game{
		Title: "Other", Slug: "snake-classic",
		Description: "d", Instructions: "i", PlayMarkup: "<p></p>", CreatedAt: s.now,
	})
	s.ErrorIs(err, model.ErrDuplicateSlug)
}

func (s *Suite) TestUpdateGame() {
	game := s.createGame("Snake Classic", "snake-classic")
	game.Title = "Snake Deluxe"

	s.Require().NoError(s.storage.UpdateGame(s.ctx, game))

	got, err := s.storage.GetGame(s.ctx, game.ID)
	s.Require().NoError(err)
	s.Equal("Snake Deluxe", got.Title)
}

func (s *Suite) TestDeleteGameCascades() {
	user := s.createUser("alice", "13900001111")
	game := s.createGame("Snake Classic", "snake-classic")
	s.rate(user.ID, game.ID, 4)
	_, err := s.storage.CreatePlay(s.ctx, &model.PlaySession{
		UserID: user.ID, GameID: game.ID, PlayedAt: s.now,
	})
	s.Require().NoError(err)

	s.Require().NoError(s.storage.DeleteGame(s.ctx, game.ID))

	_, err = s.storage.GetGame(s.ctx, game.ID)
	s.ErrorIs(err, model.ErrGameNotFound)

	rating, err := s.storage.GetRating(s.ctx, user.ID, game.ID)
	s.Require().NoError(err)
	s.Nil(rating)

	plays, err := s.storage.ListPlaysForUser(s.ctx, user.ID)
	s.Require().NoError(err)
	s.Empty(plays)
}

func (s *Suite) TestListGamesByRating() {
	user := s.createUser("alice", "13900001111")
	low := s.createGame("Block Drop", "block-drop")
	high := s.createGame("Memory Match", "memory-match")
	unrated := s.createGame("Zebra Run", "zebra-run")

	s.rate(user.ID, low.ID, 2)
	s.rate(user.ID, high.ID, 5)

	listings, err := s.storage.ListGames(s.ctx, storage.SortByRating)
	s.Require().NoError(err)
	s.Require().Len(listings, 3)
	s.Equal(high.ID, listings[0].ID)
	s.Equal(low.ID, listings[1].ID)
	s.Equal(unrated.ID, listings[2].ID)
	s.InDelta(5.0, listings[0].Average, 1e-9)
	s.Equal(1, listings[0].RatingCount)
	s.Zero(listings[2].Average)
}

func (s *Suite) TestListGamesRatingTiesBreakByTitle() {
	user := s.createUser("alice", "13900001111")
	zebra := s.createGame("Zebra Run", "zebra-run")
	apple := s.createGame("Apple Catch", "apple-catch")

	s.rate(user.ID, zebra.ID, 4)
	s.rate(user.ID, apple.ID, 4)

	listings, err := s.storage.ListGames(s.ctx, storage.SortByRating)
	s.Require().NoError(err)
	s.Require().Len(listings, 2)
	s.Equal(apple.ID, listings[0].ID)
	s.Equal(zebra.ID, listings[1].ID)
}

func (s *Suite) TestListGamesByTitle() {
	s.createGame("Zebra Run", "zebra-run")
	s.createGame("Apple Catch", "apple-catch")

	listings, err := s.storage.ListGames(s.ctx, storage.SortByTitle)
	s.Require().NoError(err)
	s.Require().Len(listings, 2)
	s.Equal("Apple Catch", listings[0].Title)
	s.Equal("Zebra Run", listings[1].Title)
}

// Rating tests

func (s *Suite) TestUpsertRatingOverwrites() {
	user := s.createUser("alice", "13900001111")
	game := s.createGame("Snake Classic", "snake-classic")

	s.rate(user.ID, game.ID, 3)
	s.rate(user.ID, game.ID, 5)

	rating, err := s.storage.GetRating(s.ctx, user.ID, game.ID)
	s.Require().NoError(err)
	s.Require().NotNil(rating)
	s.Equal(5, rating.Score)

	avg, count, err := s.storage.GetRatingSummary(s.ctx, game.ID)
	s.Require().NoError(err)
	s.Equal(1, count)
	s.InDelta(5.0, avg, 1e-9)
}

func (s *Suite) TestUpsertRatingUnknownGame() {
	user := s.createUser("alice", "13900001111")

	err := s.storage.UpsertRating(s.ctx, &model.Rating{
		UserID: user.ID, GameID: model.GameID(999), Score: 3, CreatedAt: s.now,
	})
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *Suite) TestGetRatingSummaryAveragesAcrossUsers() {
	game := s.createGame("Snake Classic", "snake-classic")
	for i, score := range []int{2, 3, 4} {
		user := s.createUser(
			"user"+string(rune('a'+i)),
			"1390000222"+string(rune('0'+i)),
		)
		s.rate(user.ID, game.ID, score)
	}

	avg, count, err := s.storage.GetRatingSummary(s.ctx, game.ID)
	s.Require().NoError(err)
	s.Equal(3, count)
	s.InDelta(3.0, avg, 1e-9)
}

func (s *Suite) TestGetRatingNilWhenAbsent() {
	user := s.createUser("alice", "13900001111")
	game := s.createGame("Snake Classic", "snake-classic")

	rating, err := s.storage.GetRating(s.ctx, user.ID, game.ID)
	s.Require().NoError(err)
	s.Nil(rating)
}

// Play session tests

func (s *Suite) TestCreatePlayAndListHistory() {
	user := s.createUser("alice", "13900001111")
	game := s.createGame("Snake Classic", "snake-classic")

	_, err := s.storage.CreatePlay(s.ctx, &model.PlaySession{
		UserID: user.ID, GameID: game.ID, PlayedAt: s.now,
	})
	s.Require().NoError(err)

	plays, err := s.storage.ListPlaysForUser(s.ctx, user.ID)
	s.Require().NoError(err)
	s.Require().Len(plays, 1)
	s.Equal(game.ID, plays[0].GameID)
	s.Equal("Snake Classic", plays[0].GameTitle)
	s.Equal("snake-classic", plays[0].GameSlug)
}

func (s *Suite) TestListPlaysMostRecentFirst() {
	user := s.createUser("alice", "13900001111")
	first := s.createGame("Snake Classic", "snake-classic")
	second := s.createGame("Memory Match", "memory-match")

	for i, game := range []*model.Game{first, second, first} {
		_, err := s.storage.CreatePlay(s.ctx, &model.PlaySession{
			UserID:   user.ID,
			GameID:   game.ID,
			PlayedAt: s.now.Add(time.Duration(i) * time.Minute),
		})
		s.Require().NoError(err)
	}

	plays, err := s.storage.ListPlaysForUser(s.ctx, user.ID)
	s.Require().NoError(err)
	s.Require().Len(plays, 3)
	s.Equal(first.ID, plays[0].GameID)
	s.Equal(second.ID, plays[1].GameID)
	s.Equal(first.ID, plays[2].GameID)
}

func (s *Suite) TestListPlaysSameTimestampKeepsInsertionOrder() {
	user := s.createUser("alice", "13900001111")
	first := s.createGame("Snake Classic", "snake-classic")
	second := s.createGame("Memory Match", "memory-match")

	for _, game := range []*model.Game{first, second} {
		_, err := s.storage.CreatePlay(s.ctx, &model.PlaySession{
			UserID: user.ID, GameID: game.ID, PlayedAt: s.now,
		})
		s.Require().NoError(err)
	}

	plays, err := s.storage.ListPlaysForUser(s.ctx, user.ID)
	s.Require().NoError(err)
	s.Require().Len(plays, 2)
	s.Equal(second.ID, plays[0].GameID)
	s.Equal(first.ID, plays[1].GameID)
}

func (s *Suite) TestCreatePlayUnknownGame() {
	user := s.createUser("alice", "13900001111")

	_, err := s.storage.CreatePlay(s.ctx, &model.PlaySession{
		UserID: user.ID, GameID: model.GameID(999), PlayedAt: s.now,
	})
	s.ErrorIs(err, model.ErrGameNotFound)
}

// Verification code tests

func (s *Suite) TestVerificationCodeLatestWins() {
	for i, code := range []string{"111111", "222222"} {
		s.Require().NoError(s.storage.CreateVerificationCode(s.ctx, &model.VerificationCode{
			Phone:     "13900001111",
			Code:      code,
			CreatedAt: s.now.Add(time.Duration(i) * time.Minute),
		}))
	}

	latest, err := s.storage.GetLatestVerificationCode(s.ctx, "13900001111")
	s.Require().NoError(err)
	s.Equal("222222", latest.Code)
}

func (s *Suite) TestVerificationCodeMissing() {
	_, err := s.storage.GetLatestVerificationCode(s.ctx, "13900001111")
	s.ErrorIs(err, model.ErrInvalidCode)
}

func (s *Suite) TestDeleteVerificationCodes() {
	s.Require().NoError(s.storage.CreateVerificationCode(s.ctx, &model.VerificationCode{
		Phone: "13900001111", Code: "111111", CreatedAt: s.now,
	}))

	s.Require().NoError(s.storage.DeleteVerificationCodes(s.ctx, "13900001111"))

	_, err := s.storage.GetLatestVerificationCode(s.ctx, "13900001111")
	s.ErrorIs(err, model.ErrInvalidCode)
}
