package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/rz1986/gameportal/internal/model"
	"github.com/rz1986/gameportal/internal/storage"
	"github.com/rz1986/gameportal/internal/storage/memory"
)

type SessionSuite struct {
	suite.Suite
	store *memory.SessionStore
	ctx   context.Context
}

func TestSessionSuite(t *testing.T) {
	suite.Run(t, new(SessionSuite))
}

func (s *SessionSuite) SetupTest() {
	s.store = memory.NewSessionStore()
	s.ctx = context.Background()
}

func (s *SessionSuite) TestSaveAndGetSession() {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	session := &model.Session{
		Token:     "tok-1",
		UserID:    model.UserID(7),
		CreatedAt: now,
		ExpiresAt: now.Add(time.Hour),
	}

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

func (s *SessionSuite) TestDeleteSession() {
	session := &model.Session{Token: "tok-1", UserID: model.UserID(7)}
	s.Require().NoError(s.store.SaveSession(s.ctx, session, time.Hour))

	s.Require().NoError(s.store.DeleteSession(s.ctx, "tok-1"))

	_, err := s.store.GetSession(s.ctx, "tok-1")
	s.ErrorIs(err, storage.ErrSessionNotFound)
}

func (s *SessionSuite) TestDeleteSessionIsIdempotent() {
	s.NoError(s.store.DeleteSession(s.ctx, "missing"))
}
