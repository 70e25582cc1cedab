package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/crypto/bcrypt"

	"github.com/rz1986/gameportal/internal/dependencies/clock"
	"github.com/rz1986/gameportal/internal/dependencies/random"
	"github.com/rz1986/gameportal/internal/model"
	"github.com/rz1986/gameportal/internal/storage"
)

// Errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidSession     = errors.New("invalid or expired session")
)

var (
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]{3,20}$`)
	// 11-digit mainland mobile number starting with 1
	phoneRe      = regexp.MustCompile(`^1\d{10}$`)
	nonDigitRe   = regexp.MustCompile(`\D`)
	sanitizeHTML = bluemonday.StrictPolicy()
)

const verificationCodeLength = 6

// NormalizePhone strips everything but digits from a phone number
func NormalizePhone(phone string) string {
	return nonDigitRe.ReplaceAllString(phone, "")
}

// Session is an authenticated session joined with its user
type Session struct {
	Token     string
	User      model.User
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Config holds configuration for the auth service
type Config struct {
	SessionDuration time.Duration
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		SessionDuration: 24 * time.Hour,
	}
}

// Service handles registration, login, and session management
type Service struct {
	storage  storage.Storage
	sessions storage.SessionStore
	clock    clock.Clock
	random   random.Random
	logger   *slog.Logger

	sessionDuration time.Duration
}

// New creates a new auth service
func New(store storage.Storage, sessions storage.SessionStore, clk clock.Clock, rnd random.Random, cfg Config, logger *slog.Logger) *Service {
	if cfg.SessionDuration == 0 {
		cfg.SessionDuration = DefaultConfig().SessionDuration
	}
	return &Service{
		storage:         store,
		sessions:        sessions,
		clock:           clk,
		random:          rnd,
		logger:          logger,
		sessionDuration: cfg.SessionDuration,
	}
}

// SendVerificationCode stores a fresh 6-digit code for the phone number and
// returns it. Returning the code to the caller is demo behavior; a real
// deployment would hand it to an SMS gateway instead.
func (s *Service) SendVerificationCode(ctx context.Context, phone string) (string, error) {
	phone = NormalizePhone(phone)
	if !phoneRe.MatchString(phone) {
		return "", fmt.Errorf("%w: phone must be an 11-digit mobile number", model.ErrInvalidInput)
	}

	code := &model.VerificationCode{
		Phone:     phone,
		Code:      s.random.Digits(verificationCodeLength),
		CreatedAt: s.clock.Now(),
	}
	if err := s.storage.CreateVerificationCode(ctx, code); err != nil {
		return "", err
	}

	s.logger.Info("verification code issued", slog.String("phone", phone))
	return code.Code, nil
}

// Register creates a player account. The verification code must be the most
// recent one issued for the phone and no older than its validity window.
func (s *Service) Register(ctx context.Context, username, phone, password, code string) (*model.User, error) {
	username = strings.TrimSpace(sanitizeHTML.Sanitize(username))
	phone = NormalizePhone(phone)

	if !usernameRe.MatchString(username) {
		return nil, fmt.Errorf("%w: username must be 3-20 letters, digits, or underscores", model.ErrInvalidInput)
	}
	if !phoneRe.MatchString(phone) {
		return nil, fmt.Errorf("%w: phone must be an 11-digit mobile number", model.ErrInvalidInput)
	}
	if len(password) < 6 {
		return nil, fmt.Errorf("%w: password must be at least 6 characters", model.ErrInvalidInput)
	}

	if _, err := s.storage.GetUserByUsername(ctx, username); err == nil {
		return nil, model.ErrDuplicateIdentity
	} else if !errors.Is(err, model.ErrUserNotFound) {
		return nil, err
	}
	if _, err := s.storage.GetUserByPhone(ctx, phone); err == nil {
		return nil, model.ErrDuplicateIdentity
	} else if !errors.Is(err, model.ErrUserNotFound) {
		return nil, err
	}

	verification, err := s.storage.GetLatestVerificationCode(ctx, phone)
	if err != nil {
		if errors.Is(err, model.ErrInvalidCode) {
			return nil, model.ErrInvalidCode
		}
		return nil, err
	}
	if verification.Code != code || verification.ExpiredAt(s.clock.Now()) {
		return nil, model.ErrInvalidCode
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:     username,
		Phone:        phone,
		PasswordHash: string(hash),
		IsAdmin:      false,
		CreatedAt:    s.clock.Now(),
	}

	id, err := s.storage.CreateUser(ctx, user)
	if err != nil {
		return nil, err
	}
	user.ID = id

	// Code is single-use
	if err := s.storage.DeleteVerificationCodes(ctx, phone); err != nil {
		s.logger.Warn("failed to clear verification codes", slog.String("phone", phone), slog.String("error", err.Error()))
	}

	s.logger.Info("user registered", slog.Int64("user_id", int64(user.ID)), slog.String("username", username))
	return user, nil
}

// Login authenticates by username or phone number and creates a session
func (s *Service) Login(ctx context.Context, identity, password string) (*Session, error) {
	identity = strings.TrimSpace(identity)

	user, err := s.storage.GetUserByUsername(ctx, identity)
	if errors.Is(err, model.ErrUserNotFound) {
		user, err = s.storage.GetUserByPhone(ctx, NormalizePhone(identity))
	}
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.createSession(ctx, user)
}

// Logout invalidates a session token
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.sessions.DeleteSession(ctx, token)
}

// ValidateSession checks a session token and returns the session with its user
func (s *Service) ValidateSession(ctx context.Context, token string) (*Session, error) {
	stored, err := s.sessions.GetSession(ctx, token)
	if err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			return nil, ErrInvalidSession
		}
		return nil, err
	}

	if stored.ExpiredAt(s.clock.Now()) {
		_ = s.sessions.DeleteSession(ctx, token)
		return nil, ErrInvalidSession
	}

	user, err := s.storage.GetUser(ctx, stored.UserID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, ErrInvalidSession
		}
		return nil, err
	}

	return &Session{
		Token:     stored.Token,
		User:      *user,
		CreatedAt: stored.CreatedAt,
		ExpiresAt: stored.ExpiresAt,
	}, nil
}

// GetUser returns the user for a session token
func (s *Service) GetUser(ctx context.Context, token string) (*model.User, error) {
	session, err := s.ValidateSession(ctx, token)
	if err != nil {
		return nil, err
	}
	return &session.User, nil
}

// RequireAdmin validates the session and checks the admin role
func (s *Service) RequireAdmin(ctx context.Context, token string) (*model.User, error) {
	session, err := s.ValidateSession(ctx, token)
	if err != nil {
		return nil, err
	}
	if !session.User.IsAdmin {
		return nil, model.ErrForbidden
	}
	return &session.User, nil
}

func (s *Service) createSession(ctx context.Context, user *model.User) (*Session, error) {
	now := s.clock.Now()
	session := &model.Session{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionDuration),
	}

	if err := s.sessions.SaveSession(ctx, session, s.sessionDuration); err != nil {
		return nil, err
	}

	s.logger.Info("session created", slog.Int64("user_id", int64(user.ID)))
	return &Session{
		Token:     session.Token,
		User:      *user,
		CreatedAt: session.CreatedAt,
		ExpiresAt: session.ExpiresAt,
	}, nil
}
