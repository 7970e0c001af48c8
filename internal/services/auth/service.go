package auth

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ArnavSingha/ApniSec/internal/domain/model"
	"github.com/ArnavSingha/ApniSec/internal/pkg/apperr"
	"github.com/ArnavSingha/ApniSec/internal/pkg/validate"
)

type UserStore interface {
	CreateUser(ctx context.Context, user model.User) (model.User, error)
	GetUserByID(ctx context.Context, id string) (model.User, error)
	GetUserByEmail(ctx context.Context, email string) (model.User, error)
	SetResetToken(ctx context.Context, userID, digest string, expiresAt time.Time) error
	GetUserByResetToken(ctx context.Context, digest string, now time.Time) (model.User, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string, now time.Time) error
}

type Notifier interface {
	SendWelcome(ctx context.Context, to, name string)
	SendPasswordReset(ctx context.Context, to, resetURL string)
}

type Config struct {
	ResetTokenTTL time.Duration
	BcryptCost    int
	AppBaseURL    string
}

type Service struct {
	users    UserStore
	tokens   *TokenManager
	notifier Notifier
	cfg      Config
	logger   *zap.Logger
	now      func() time.Time

	// compared against when the email is unknown so both login failures cost one bcrypt run
	dummyHash string
}

func NewService(users UserStore, tokens *TokenManager, notifier Notifier, cfg Config, logger *zap.Logger) *Service {
	if cfg.ResetTokenTTL <= 0 {
		cfg.ResetTokenTTL = 10 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	dummy, err := HashPassword("not-a-real-password", cfg.BcryptCost)
	if err != nil {
		dummy = fallbackDummyHash
	}

	return &Service{
		users:     users,
		tokens:    tokens,
		notifier:  notifier,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
		dummyHash: dummy,
	}
}

func (s *Service) Tokens() *TokenManager {
	return s.tokens
}

// Register creates the account without starting a session; the caller logs
// in separately.
func (s *Service) Register(ctx context.Context, in RegisterInput) (model.User, error) {
	hash, err := HashPassword(in.Password, s.cfg.BcryptCost)
	if err != nil {
		return model.User{}, passwordError(err)
	}

	now := s.now().UTC()
	user, err := s.users.CreateUser(ctx, model.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        validate.NormalizeEmail(in.Email),
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, model.ErrDuplicate) {
			return model.User{}, apperr.Conflict(MsgEmailTaken)
		}
		return model.User{}, fmt.Errorf("create user: %w", err)
	}

	if s.notifier != nil {
		s.notifier.SendWelcome(ctx, user.Email, user.Name)
	}

	return user, nil
}

// Login answers the same error for an unknown email and a wrong password.
func (s *Service) Login(ctx context.Context, in LoginInput) (Session, error) {
	user, err := s.users.GetUserByEmail(ctx, validate.NormalizeEmail(in.Email))
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			CheckPassword(s.dummyHash, in.Password)
			return Session{}, apperr.Unauthenticated(MsgInvalidCredentials)
		}
		return Session{}, fmt.Errorf("get user by email: %w", err)
	}

	if !CheckPassword(user.PasswordHash, in.Password) {
		return Session{}, apperr.Unauthenticated(MsgInvalidCredentials)
	}

	return s.issue(user)
}

func (s *Service) CurrentUser(ctx context.Context, userID string) (model.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) || errors.Is(err, model.ErrInvalidID) {
			return model.User{}, apperr.NotFound(MsgUserNotFound)
		}
		return model.User{}, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// ForgotPassword stores a fresh reset digest and mails the raw token.
// Unknown emails succeed silently so the endpoint cannot be used to probe accounts.
func (s *Service) ForgotPassword(ctx context.Context, email, origin string) error {
	email = validate.NormalizeEmail(email)
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			s.logger.Info("password reset requested for unknown email")
			return nil
		}
		return fmt.Errorf("get user by email: %w", err)
	}

	base := strings.TrimRight(s.cfg.AppBaseURL, "/")
	if base == "" {
		base = strings.TrimRight(origin, "/")
	}
	if base == "" {
		return errors.New("could not determine application origin")
	}

	raw, digest, err := NewResetToken()
	if err != nil {
		return err
	}

	expiresAt := s.now().UTC().Add(s.cfg.ResetTokenTTL)
	if err := s.users.SetResetToken(ctx, user.ID, digest, expiresAt); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	if s.notifier != nil {
		resetURL := base + "/reset-password?token=" + url.QueryEscape(raw)
		s.notifier.SendPasswordReset(ctx, user.Email, resetURL)
	}
	return nil
}

// ResetPassword consumes a reset token and signs the user in.
func (s *Service) ResetPassword(ctx context.Context, in ResetPasswordInput) (Session, error) {
	now := s.now().UTC()
	user, err := s.users.GetUserByResetToken(ctx, HashResetToken(strings.TrimSpace(in.Token)), now)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return Session{}, apperr.Validation(MsgInvalidResetToken)
		}
		return Session{}, fmt.Errorf("get user by reset token: %w", err)
	}

	hash, err := HashPassword(in.NewPassword, s.cfg.BcryptCost)
	if err != nil {
		return Session{}, passwordError(err)
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash, now); err != nil {
		return Session{}, fmt.Errorf("update password: %w", err)
	}

	user.PasswordHash = hash
	user.ResetTokenHash = ""
	user.ResetTokenExpiry = nil
	user.UpdatedAt = now
	return s.issue(user)
}

func (s *Service) issue(user model.User) (Session, error) {
	token, expiresAt, err := s.tokens.Sign(user.ID)
	if err != nil {
		return Session{}, err
	}
	return Session{User: user, Token: token, ExpiresAt: expiresAt}, nil
}
