package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"go-clean-api/internal/application/apperrors"
	"go-clean-api/internal/domain/entity"
	"go-clean-api/internal/domain/repository"
	"go-clean-api/pkg/helpers"
	"go-clean-api/pkg/mailer"
	"go-clean-api/pkg/validation"
)

func keyLockout(email string) string { return "auth:lockout:" + email }
func keyResetToken(t string) string  { return "auth:reset:token:" + t }

// Options tunes lockout and reset-token behavior.
type Options struct {
	LockoutMaxAttempts int
	LockoutWindow      time.Duration
	ResetTokenTTL      time.Duration
	MailEnabled        bool
}

// Service implements the session actions: login, register, change/reset
// password, logout and current-user projection. Credential storage is
// bcrypt; tokens are HS256 bearer tokens carrying role claims. Redis backs
// the lockout counters and reset tokens and is optional; when absent those
// features degrade to no-ops.
type Service struct {
	Repo   repository.UserRepository
	JWT    *helpers.JWTManager
	Redis  *redis.Client
	Pub    *helpers.RabbitPublisher
	Logger *logrus.Logger
	Opts   Options
}

func NewService(repo repository.UserRepository, jwt *helpers.JWTManager, rdb *redis.Client, pub *helpers.RabbitPublisher, logger *logrus.Logger, opts Options) *Service {
	if opts.LockoutMaxAttempts <= 0 {
		opts.LockoutMaxAttempts = 5
	}
	if opts.LockoutWindow <= 0 {
		opts.LockoutWindow = 30 * time.Minute
	}
	if opts.ResetTokenTTL <= 0 {
		opts.ResetTokenTTL = 30 * time.Minute
	}
	return &Service{Repo: repo, JWT: jwt, Redis: rdb, Pub: pub, Logger: logger, Opts: opts}
}

var errInvalidCredentials = apperrors.NewUnauthorized("Invalid credentials")

// Login authenticates email/password and issues a bearer token. Wrong
// password, unknown email, deactivated and locked-out accounts all fail
// identically.
func (s *Service) Login(ctx context.Context, dto LoginDto) (*AuthResponse, error) {
	if errs := validation.Check(dto); errs != nil {
		return nil, apperrors.NewValidation("Invalid payload", errs)
	}

	u, err := s.Repo.GetByEmail(ctx, dto.Email)
	if err != nil || !u.IsActive {
		return nil, errInvalidCredentials
	}
	if s.lockedOut(ctx, dto.Email) {
		return nil, errInvalidCredentials
	}
	if !helpers.CheckPassword(u.PasswordHash, dto.Password) {
		s.recordFailure(ctx, dto.Email)
		return nil, errInvalidCredentials
	}
	s.clearFailures(ctx, dto.Email)

	u.UpdateLastLogin()
	if err := s.Repo.UpdateLastLogin(ctx, u); err != nil {
		return nil, err
	}

	return s.issueToken(u)
}

func (s *Service) issueToken(u *entity.User) (*AuthResponse, error) {
	token, exp, err := s.JWT.Generate(u.ID, u.Email, u.FullName(), u.Roles)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Error("token generation failed")
		return nil, err
	}
	return &AuthResponse{
		Token:     token,
		UserID:    u.ID,
		Email:     u.Email,
		UserName:  u.UserName,
		FullName:  u.FullName(),
		Roles:     u.Roles,
		ExpiresOn: exp,
	}, nil
}

// Register creates a user with the default role and logs it straight in.
func (s *Service) Register(ctx context.Context, dto RegisterDto) (*AuthResponse, error) {
	if errs := validation.Check(dto); errs != nil {
		return nil, apperrors.NewValidation("Invalid payload", errs)
	}

	exists, err := s.Repo.EmailExists(ctx, dto.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.NewBadRequest("Registration failed. User may already exist.")
	}

	hash, err := helpers.HashPassword(dto.Password)
	if err != nil {
		return nil, err
	}
	u := &entity.User{
		Email:         dto.Email,
		UserName:      dto.Email,
		FirstName:     dto.FirstName,
		LastName:      dto.LastName,
		PasswordHash:  hash,
		SecurityStamp: uuid.NewString(),
		IsActive:      true,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		return nil, err
	}
	if err := s.Repo.AddToRole(ctx, u.ID, entity.RoleUser); err != nil {
		return nil, err
	}

	s.enqueueEmail(ctx, mailer.EmailJob{
		To:      u.Email,
		Kind:    mailer.KindWelcome,
		Subject: mailer.SubjectFor(mailer.KindWelcome),
		Text:    "Hi " + u.FullName() + ", your account is ready.",
	})

	// Auto-login after registration.
	return s.Login(ctx, LoginDto{Email: dto.Email, Password: dto.Password})
}

// ChangePassword verifies the current password and rotates credential and
// security stamp.
func (s *Service) ChangePassword(ctx context.Context, userID string, dto ChangePasswordDto) error {
	if errs := validation.Check(dto); errs != nil {
		return apperrors.NewValidation("Invalid payload", errs)
	}
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		return apperrors.NewBadRequest("Password change failed")
	}
	if !helpers.CheckPassword(u.PasswordHash, dto.CurrentPassword) {
		return apperrors.NewBadRequest("Password change failed")
	}
	hash, err := helpers.HashPassword(dto.NewPassword)
	if err != nil {
		return err
	}
	return s.Repo.UpdatePassword(ctx, u.ID, hash, uuid.NewString())
}

// ForgotPassword issues a redis-backed reset token and mails it. Always
// succeeds from the caller's point of view to avoid account enumeration.
func (s *Service) ForgotPassword(ctx context.Context, dto ForgotPasswordDto) error {
	if errs := validation.Check(dto); errs != nil {
		return apperrors.NewValidation("Invalid payload", errs)
	}
	u, err := s.Repo.GetByEmail(ctx, dto.Email)
	if err != nil || s.Redis == nil {
		return nil
	}
	token, err := genToken(32)
	if err != nil {
		return err
	}
	if err := s.Redis.Set(ctx, keyResetToken(token), u.ID, s.Opts.ResetTokenTTL).Err(); err != nil {
		s.Logger.WithError(err).Warn("storing reset token failed")
		return nil
	}
	s.enqueueEmail(ctx, mailer.EmailJob{
		To:      u.Email,
		Kind:    mailer.KindPasswordReset,
		Subject: mailer.SubjectFor(mailer.KindPasswordReset),
		Text:    "Use this token to reset your password: " + token,
		Data:    map[string]any{"token": token},
	})
	return nil
}

// ResetPassword consumes a reset token and rotates credential and security
// stamp.
func (s *Service) ResetPassword(ctx context.Context, dto ResetPasswordDto) error {
	if errs := validation.Check(dto); errs != nil {
		return apperrors.NewValidation("Invalid payload", errs)
	}
	failed := apperrors.NewBadRequest("Password reset failed")

	u, err := s.Repo.GetByEmail(ctx, dto.Email)
	if err != nil {
		return failed
	}
	if s.Redis == nil {
		return failed
	}
	ownerID, err := s.Redis.Get(ctx, keyResetToken(dto.Token)).Result()
	if err != nil || ownerID != u.ID {
		return failed
	}
	hash, err := helpers.HashPassword(dto.NewPassword)
	if err != nil {
		return err
	}
	if err := s.Repo.UpdatePassword(ctx, u.ID, hash, uuid.NewString()); err != nil {
		return err
	}
	s.Redis.Del(ctx, keyResetToken(dto.Token))
	return nil
}

// Logout rotates the security stamp. Already-issued bearer tokens stay
// structurally valid until expiry; there is no revocation list.
func (s *Service) Logout(ctx context.Context, userID string) error {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewNotFound("User", userID)
		}
		return err
	}
	return s.Repo.UpdateSecurityStamp(ctx, u.ID, uuid.NewString())
}

// GetCurrentUser projects the user, with role names resolved.
func (s *Service) GetCurrentUser(ctx context.Context, userID string) (*UserDto, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("User", userID)
		}
		return nil, err
	}
	return toUserDto(u), nil
}

func (s *Service) lockedOut(ctx context.Context, email string) bool {
	if s.Redis == nil {
		return false
	}
	n, err := s.Redis.Get(ctx, keyLockout(email)).Int()
	return err == nil && n >= s.Opts.LockoutMaxAttempts
}

func (s *Service) recordFailure(ctx context.Context, email string) {
	if s.Redis == nil {
		return
	}
	key := keyLockout(email)
	pipe := s.Redis.Pipeline()
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, s.Opts.LockoutWindow)
	if _, err := pipe.Exec(ctx); err != nil {
		s.Logger.WithError(err).WithField("key", key).Warn("lockout pipeline failed")
	}
}

func (s *Service) clearFailures(ctx context.Context, email string) {
	if s.Redis == nil {
		return
	}
	s.Redis.Del(ctx, keyLockout(email))
}

func (s *Service) enqueueEmail(ctx context.Context, job mailer.EmailJob) {
	if s.Pub == nil || !s.Opts.MailEnabled {
		return
	}
	if err := s.Pub.PublishJSON(ctx, job); err != nil {
		s.Logger.WithError(err).WithField("to", job.To).Warn("email enqueue failed")
	}
}

func genToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
