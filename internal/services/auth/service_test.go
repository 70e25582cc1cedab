package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/rz1986/gameportal/internal/dependencies/mocks"
	"github.com/rz1986/gameportal/internal/model"
	"github.com/rz1986/gameportal/internal/storage/memory"
	"github.com/rz1986/gameportal/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage  *memory.Storage
	sessions *memory.SessionStore
	clock    *mocks.MockClock
	random   *mocks.MockRandom
	service  *Service
	ctx      context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.sessions = memory.NewSessionStore()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom("123456")
	s.service = New(s.storage, s.sessions, s.clock, s.random, DefaultConfig(), testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ServiceSuite) register(username, phone, password string) *model.User {
	s.T().Helper()
	code, err := s.service.SendVerificationCode(s.ctx, phone)
	s.Require().NoError(err)
	user, err := s.service.Register(s.ctx, username, phone, password, code)
	s.Require().NoError(err)
	return user
}

// SendVerificationCode tests

func (s *ServiceSuite) TestSendVerificationCodeSucceeds() {
	code, err := s.service.SendVerificationCode(s.ctx, "13900001111")
	s.Require().NoError(err)
	s.Equal("123456", code)
}

func (s *ServiceSuite) TestSendVerificationCodeNormalizesPhone() {
	_, err := s.service.SendVerificationCode(s.ctx, "139-0000-1111")
	s.Require().NoError(err)

	stored, err := s.storage.GetLatestVerificationCode(s.ctx, "13900001111")
	s.Require().NoError(err)
	s.Equal("123456", stored.Code)
}

func (s *ServiceSuite) TestSendVerificationCodeRejectsShortPhone() {
	_, err := s.service.SendVerificationCode(s.ctx, "12345")
	s.ErrorIs(err, model.ErrInvalidInput)
}

// Register tests

func (s *ServiceSuite) TestRegisterSucceeds() {
	user := s.register("alice", "13900001111", "password1")

	s.NotZero(user.ID)
	s.Equal("alice", user.Username)
	s.Equal("13900001111", user.Phone)
	s.False(user.IsAdmin)
}

func (s *ServiceSuite) TestRegisterHashesPassword() {
	s.register("alice", "13900001111", "password1")

	stored, err := s.storage.GetUserByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.NotEmpty(stored.PasswordHash)
	s.NotEqual("password1", stored.PasswordHash)
}

func (s *ServiceSuite) TestRegisterFailsWithWrongCode() {
	_, err := s.service.SendVerificationCode(s.ctx, "13900001111")
	s.Require().NoError(err)

	_, err = s.service.Register(s.ctx, "alice", "13900001111", "password1", "000000")
	s.ErrorIs(err, model.ErrInvalidCode)
}

func (s *ServiceSuite) TestRegisterFailsWithoutCode() {
	_, err := s.service.Register(s.ctx, "alice", "13900001111", "password1", "123456")
	s.ErrorIs(err, model.ErrInvalidCode)
}

func (s *ServiceSuite) TestRegisterFailsWithExpiredCode() {
	code, err := s.service.SendVerificationCode(s.ctx, "13900001111")
	s.Require().NoError(err)

	s.clock.Advance(model.VerificationCodeTTL + time.Second)

	_, err = s.service.Register(s.ctx, "alice", "13900001111", "password1", code)
	s.ErrorIs(err, model.ErrInvalidCode)
}

func (s *ServiceSuite) TestRegisterAcceptsCodeJustBeforeExpiry() {
	code, err := s.service.SendVerificationCode(s.ctx, "13900001111")
	s.Require().NoError(err)

	s.clock.Advance(model.VerificationCodeTTL - time.Second)

	_, err = s.service.Register(s.ctx, "alice", "13900001111", "password1", code)
	s.NoError(err)
}

func (s *ServiceSuite) TestRegisterChecksLatestCodeOnly() {
	_, err := s.service.SendVerificationCode(s.ctx, "13900001111")
	s.Require().NoError(err)

	s.random.Next = "654321"
	_, err = s.service.SendVerificationCode(s.ctx, "13900001111")
	s.Require().NoError(err)

	_, err = s.service.Register(s.ctx, "alice", "13900001111", "password1", "123456")
	s.ErrorIs(err, model.ErrInvalidCode)

	_, err = s.service.Register(s.ctx, "alice", "13900001111", "password1", "654321")
	s.NoError(err)
}

func (s *ServiceSuite) TestRegisterClearsCodesAfterUse() {
	code, err := s.service.SendVerificationCode(s.ctx, "13900001111")
	s.Require().NoError(err)

	_, err = s.service.Register(s.ctx, "alice", "13900001111", "password1", code)
	s.Require().NoError(err)

	_, err = s.storage.GetLatestVerificationCode(s.ctx, "13900001111")
	s.ErrorIs(err, model.ErrInvalidCode)
}

func (s *ServiceSuite) TestRegisterFailsIfUsernameTaken() {
	s.register("alice", "13900001111", "password1")

	_, err := s.service.SendVerificationCode(s.ctx, "13900002222")
	s.Require().NoError(err)
	_, err = s.service.Register(s.ctx, "alice", "13900002222", "password1", "123456")
	s.ErrorIs(err, model.ErrDuplicateIdentity)
}

func (s *ServiceSuite) TestRegisterFailsIfPhoneTaken() {
	s.register("alice", "13900001111", "password1")

	_, err := s.service.SendVerificationCode(s.ctx, "13900001111")
	s.Require().NoError(err)
	_, err = s.service.Register(s.ctx, "bob", "13900001111", "password1", "123456")
	s.ErrorIs(err, model.ErrDuplicateIdentity)
}

func (s *ServiceSuite) TestRegisterRejectsBadUsername() {
	_, err := s.service.SendVerificationCode(s.ctx, "13900001111")
	s.Require().NoError(err)

	for _, username := range []string{"ab", "has space", "way_too_long_username_here", "bad!chars"} {
		_, err = s.service.Register(s.ctx, username, "13900001111", "password1", "123456")
		s.ErrorIs(err, model.ErrInvalidInput, "username %q", username)
	}
}

func (s *ServiceSuite) TestRegisterRejectsShortPassword() {
	_, err := s.service.SendVerificationCode(s.ctx, "13900001111")
	s.Require().NoError(err)

	_, err = s.service.Register(s.ctx, "alice", "13900001111", "short", "123456")
	s.ErrorIs(err, model.ErrInvalidInput)
}

// Login tests

func (s *ServiceSuite) TestLoginByUsername() {
	s.register("alice", "13900001111", "password1")

	session, err := s.service.Login(s.ctx, "alice", "password1")
	s.Require().NoError(err)
	s.NotEmpty(session.Token)
	s.Equal("alice", session.User.Username)
}

func (s *ServiceSuite) TestLoginByPhone() {
	s.register("alice", "13900001111", "password1")

	session, err := s.service.Login(s.ctx, "139 0000 1111", "password1")
	s.Require().NoError(err)
	s.Equal("alice", session.User.Username)
}

func (s *ServiceSuite) TestLoginFailsWithWrongPassword() {
	s.register("alice", "13900001111", "password1")

	_, err := s.service.Login(s.ctx, "alice", "wrongpassword")
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *ServiceSuite) TestLoginFailsWithUnknownIdentity() {
	_, err := s.service.Login(s.ctx, "nobody", "password1")
	s.ErrorIs(err, ErrInvalidCredentials)
}

// ValidateSession tests

func (s *ServiceSuite) TestValidateSessionSucceeds() {
	s.register("alice", "13900001111", "password1")
	session, err := s.service.Login(s.ctx, "alice", "password1")
	s.Require().NoError(err)

	validated, err := s.service.ValidateSession(s.ctx, session.Token)
	s.Require().NoError(err)
	s.Equal(session.Token, validated.Token)
	s.Equal("alice", validated.User.Username)
}

func (s *ServiceSuite) TestValidateSessionFailsForUnknownToken() {
	_, err := s.service.ValidateSession(s.ctx, "not-a-token")
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *ServiceSuite) TestValidateSessionFailsAfterExpiry() {
	s.register("alice", "13900001111", "password1")
	session, err := s.service.Login(s.ctx, "alice", "password1")
	s.Require().NoError(err)

	s.clock.Advance(DefaultConfig().SessionDuration + time.Minute)

	_, err = s.service.ValidateSession(s.ctx, session.Token)
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *ServiceSuite) TestValidateSessionFailsAfterLogout() {
	s.register("alice", "13900001111", "password1")
	session, err := s.service.Login(s.ctx, "alice", "password1")
	s.Require().NoError(err)

	s.Require().NoError(s.service.Logout(s.ctx, session.Token))

	_, err = s.service.ValidateSession(s.ctx, session.Token)
	s.ErrorIs(err, ErrInvalidSession)
}

// RequireAdmin tests

func (s *ServiceSuite) TestRequireAdminRejectsPlayer() {
	s.register("alice", "13900001111", "password1")
	session, err := s.service.Login(s.ctx, "alice", "password1")
	s.Require().NoError(err)

	_, err = s.service.RequireAdmin(s.ctx, session.Token)
	s.ErrorIs(err, model.ErrForbidden)
}

func (s *ServiceSuite) TestRequireAdminAcceptsAdmin() {
	user := s.register("alice", "13900001111", "password1")
	user.IsAdmin = true
	s.Require().NoError(s.storage.UpdateUser(s.ctx, user))

	session, err := s.service.Login(s.ctx, "alice", "password1")
	s.Require().NoError(err)

	admin, err := s.service.RequireAdmin(s.ctx, session.Token)
	s.Require().NoError(err)
	s.True(admin.IsAdmin)
}

// NormalizePhone tests

func (s *ServiceSuite) TestNormalizePhone() {
	s.Equal("13900001111", NormalizePhone("139-0000-1111"))
	s.Equal("13900001111", NormalizePhone(" 139 0000 1111 "))
	s.Equal("13900001111", NormalizePhone("13900001111"))
}
