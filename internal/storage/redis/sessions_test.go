package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/rz1986/gameportal/internal/model"
	"github.com/rz1986/gameportal/internal/storage"
)

type SessionSuite struct {
	suite.Suite
	mini  *miniredis.Miniredis
	store *SessionStore
	ctx   context.Context
}

func TestSessionSuite(t *testing.T) {
	suite.Run(t, new(SessionSuite))
}

func (s *SessionSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	s.store = NewWithClient(client)
	s.ctx = context.Background()
}

func (s *SessionSuite) TearDownTest() {
	if s.store != nil {
		_ = s.store.Close()
	}
}

func (s *SessionSuite) newSession(token string) *model.Session {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	return &model.Session{
		Token:     token,
		UserID:    model.UserID(7),
		CreatedAt: now,
		ExpiresAt: now.Add(time.Hour),
	}
}

func (s *SessionSuite) TestSaveAndGetSession() {
	session := s.newSession("tok-1")
	s.Require().NoError(s.store.SaveSession(s.ctx, session, time.Hour))

	got, err := s.store.GetSession(s.ctx, "tok-1")
	s.Require().NoError(err)
	s.Equal(model.UserID(7), got.UserID)
	s.True(got.ExpiresAt.Equal(session.ExpiresAt))
}

func (s *SessionSuite) TestGetSessionNotFound() {
	_, err := s.store.GetSession(s.ctx, "missing")
	s.ErrorIs(err, storage.ErrSessionNotFound)
}

func (s *SessionSuite) TestSessionExpiresWithTTL() {
	session := s.newSession("tok-1")
	s.Require().NoError(s.store.SaveSession(s.ctx, session, time.Minute))

	s.mini.FastForward(2 * time.Minute)

	_, err := s.store.GetSession(s.ctx, "tok-1")
	s.ErrorIs(err, storage.ErrSessionNotFound)
}

func (s *SessionSuite) TestDeleteSession() {
	session := s.newSession("tok-1")
	s.Require().NoError(s.store.SaveSession(s.ctx, session, time.Hour))

	s.Require().NoError(s.store.DeleteSession(s.ctx, "tok-1"))

	_, err := s.store.GetSession(s.ctx, "tok-1")
	s.ErrorIs(err, storage.ErrSessionNotFound)
}

func (s *SessionSuite) TestSessionsAreNamespaced() {
	session := s.newSession("tok-1")
	s.Require().NoError(s.store.SaveSession(s.ctx, session, time.Hour))

	keys := s.mini.Keys()
	s.Require().Len(keys, 1)
	s.Equal("gameportal:session:tok-1", keys[0])
}
