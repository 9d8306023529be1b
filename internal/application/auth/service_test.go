package auth

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"go-clean-api/internal/application/apperrors"
	"go-clean-api/internal/domain/entity"
	"go-clean-api/internal/domain/repository"
	"go-clean-api/pkg/helpers"
)

type fakeUsers struct {
	byID    map[string]*entity.User
	roles   map[string][]string
	nextID  int
	byEmail map[string]string
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{
		byID:    map[string]*entity.User{},
		roles:   map[string][]string{},
		byEmail: map[string]string{},
	}
}

func (f *fakeUsers) Create(ctx context.Context, u *entity.User) error {
	f.nextID++
	u.ID = fmt.Sprintf("user-%d", f.nextID)
	u.CreatedAt = time.Now().UTC()
	f.byID[u.ID] = u
	f.byEmail[u.Email] = u.ID
	return nil
}

func (f *fakeUsers) GetByID(ctx context.Context, id string) (*entity.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	cp.Roles = f.roles[id]
	return &cp, nil
}

func (f *fakeUsers) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	id, ok := f.byEmail[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return f.GetByID(ctx, id)
}

func (f *fakeUsers) EmailExists(ctx context.Context, email string) (bool, error) {
	_, ok := f.byEmail[email]
	return ok, nil
}

func (f *fakeUsers) AddToRole(ctx context.Context, userID, roleName string) error {
	f.roles[userID] = append(f.roles[userID], roleName)
	return nil
}

func (f *fakeUsers) UpdateLastLogin(ctx context.Context, u *entity.User) error {
	f.byID[u.ID].LastLoginAt = u.LastLoginAt
	return nil
}

func (f *fakeUsers) UpdatePassword(ctx context.Context, userID, passwordHash, securityStamp string) error {
	u, ok := f.byID[userID]
	if !ok {
		return repository.ErrNotFound
	}
	u.PasswordHash = passwordHash
	u.SecurityStamp = securityStamp
	return nil
}

func (f *fakeUsers) UpdateSecurityStamp(ctx context.Context, userID, securityStamp string) error {
	u, ok := f.byID[userID]
	if !ok {
		return repository.ErrNotFound
	}
	u.SecurityStamp = securityStamp
	return nil
}

var _ repository.UserRepository = (*fakeUsers)(nil)

func newTestService(repo repository.UserRepository) *Service {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	jwtm := helpers.NewJWTManager("test-secret-test-secret", "api-tests", "api-clients", time.Hour)
	return NewService(repo, jwtm, nil, nil, logger, Options{})
}

const testPassword = "Sup3r$ecret"

func registerUser(t *testing.T, svc *Service, email string) *AuthResponse {
	t.Helper()
	res, err := svc.Register(context.Background(), RegisterDto{
		Email:           email,
		Password:        testPassword,
		ConfirmPassword: testPassword,
		FirstName:       "Ada",
		LastName:        "Lovelace",
	})
	require.NoError(t, err)
	return res
}

func TestRegister(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("registers and logs straight in", func(t *testing.T) {
		svc := newTestService(newFakeUsers())
		res := registerUser(t, svc, "ada@example.com")

		require.NotEmpty(t, res.Token)
		require.Equal(t, "ada@example.com", res.Email)
		require.Equal(t, "ada@example.com", res.UserName)
		require.Equal(t, "Ada Lovelace", res.FullName)
		require.Equal(t, []string{entity.RoleUser}, res.Roles)
		require.True(t, res.ExpiresOn.After(time.Now()))
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		svc := newTestService(newFakeUsers())
		registerUser(t, svc, "ada@example.com")

		_, err := svc.Register(ctx, RegisterDto{
			Email:           "ada@example.com",
			Password:        testPassword,
			ConfirmPassword: testPassword,
			FirstName:       "Ada",
			LastName:        "Lovelace",
		})
		var badReq *apperrors.BadRequestError
		require.ErrorAs(t, err, &badReq)
	})

	t.Run("rejects weak password", func(t *testing.T) {
		svc := newTestService(newFakeUsers())
		_, err := svc.Register(ctx, RegisterDto{
			Email:           "weak@example.com",
			Password:        "password",
			ConfirmPassword: "password",
			FirstName:       "A",
			LastName:        "B",
		})
		var badReq *apperrors.BadRequestError
		require.ErrorAs(t, err, &badReq)
		require.Contains(t, badReq.ValidationErrors, "password")
	})

	t.Run("rejects mismatched confirmation", func(t *testing.T) {
		svc := newTestService(newFakeUsers())
		_, err := svc.Register(ctx, RegisterDto{
			Email:           "m@example.com",
			Password:        testPassword,
			ConfirmPassword: testPassword + "x",
			FirstName:       "A",
			LastName:        "B",
		})
		var badReq *apperrors.BadRequestError
		require.ErrorAs(t, err, &badReq)
		require.Contains(t, badReq.ValidationErrors, "confirmPassword")
	})
}

func TestLogin(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("valid credentials issue a token and record the login", func(t *testing.T) {
		repo := newFakeUsers()
		svc := newTestService(repo)
		registerUser(t, svc, "ada@example.com")

		res, err := svc.Login(ctx, LoginDto{Email: "ada@example.com", Password: testPassword})
		require.NoError(t, err)
		require.NotEmpty(t, res.Token)

		u, err := repo.GetByEmail(ctx, "ada@example.com")
		require.NoError(t, err)
		require.NotNil(t, u.LastLoginAt)
	})

	t.Run("failures are indistinguishable", func(t *testing.T) {
		repo := newFakeUsers()
		svc := newTestService(repo)
		res := registerUser(t, svc, "ada@example.com")

		_, wrongPwd := svc.Login(ctx, LoginDto{Email: "ada@example.com", Password: "Wr0ng!pass"})
		_, unknown := svc.Login(ctx, LoginDto{Email: "ghost@example.com", Password: testPassword})

		repo.byID[res.UserID].IsActive = false
		_, inactive := svc.Login(ctx, LoginDto{Email: "ada@example.com", Password: testPassword})

		var u1, u2, u3 *apperrors.UnauthorizedError
		require.ErrorAs(t, wrongPwd, &u1)
		require.ErrorAs(t, unknown, &u2)
		require.ErrorAs(t, inactive, &u3)
		require.Equal(t, u1.Error(), u2.Error())
		require.Equal(t, u2.Error(), u3.Error())
	})

	t.Run("issued token parses with expected claims", func(t *testing.T) {
		svc := newTestService(newFakeUsers())
		res := registerUser(t, svc, "ada@example.com")

		claims, err := svc.JWT.Parse(res.Token)
		require.NoError(t, err)
		require.Equal(t, res.UserID, claims.Subject)
		require.Equal(t, "ada@example.com", claims.Email)
		require.Equal(t, []string{entity.RoleUser}, claims.Roles)
	})
}

func TestChangePassword(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("rotates credential and stamp", func(t *testing.T) {
		repo := newFakeUsers()
		svc := newTestService(repo)
		res := registerUser(t, svc, "ada@example.com")
		before := repo.byID[res.UserID].SecurityStamp

		next := "N3w$ecretPwd"
		err := svc.ChangePassword(ctx, res.UserID, ChangePasswordDto{
			CurrentPassword:    testPassword,
			NewPassword:        next,
			ConfirmNewPassword: next,
		})
		require.NoError(t, err)
		require.NotEqual(t, before, repo.byID[res.UserID].SecurityStamp)

		_, err = svc.Login(ctx, LoginDto{Email: "ada@example.com", Password: next})
		require.NoError(t, err)
		_, err = svc.Login(ctx, LoginDto{Email: "ada@example.com", Password: testPassword})
		require.Error(t, err)
	})

	t.Run("rejects wrong current password", func(t *testing.T) {
		repo := newFakeUsers()
		svc := newTestService(repo)
		res := registerUser(t, svc, "ada@example.com")

		err := svc.ChangePassword(ctx, res.UserID, ChangePasswordDto{
			CurrentPassword:    "Wr0ng!pass",
			NewPassword:        "N3w$ecretPwd",
			ConfirmNewPassword: "N3w$ecretPwd",
		})
		var badReq *apperrors.BadRequestError
		require.ErrorAs(t, err, &badReq)
	})
}

func TestLogout(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("rotates the security stamp", func(t *testing.T) {
		repo := newFakeUsers()
		svc := newTestService(repo)
		res := registerUser(t, svc, "ada@example.com")
		before := repo.byID[res.UserID].SecurityStamp

		require.NoError(t, svc.Logout(ctx, res.UserID))
		require.NotEqual(t, before, repo.byID[res.UserID].SecurityStamp)
	})

	t.Run("issued tokens stay valid until expiry", func(t *testing.T) {
		svc := newTestService(newFakeUsers())
		res := registerUser(t, svc, "ada@example.com")

		require.NoError(t, svc.Logout(ctx, res.UserID))
		_, err := svc.JWT.Parse(res.Token)
		require.NoError(t, err)
	})

	t.Run("unknown user is not found", func(t *testing.T) {
		svc := newTestService(newFakeUsers())
		err := svc.Logout(ctx, "nope")
		var notFound *apperrors.NotFoundError
		require.ErrorAs(t, err, &notFound)
	})
}

func TestGetCurrentUser(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("projects the profile with roles", func(t *testing.T) {
		svc := newTestService(newFakeUsers())
		res := registerUser(t, svc, "ada@example.com")

		dto, err := svc.GetCurrentUser(ctx, res.UserID)
		require.NoError(t, err)
		require.Equal(t, "ada@example.com", dto.Email)
		require.Equal(t, "Ada Lovelace", dto.FullName)
		require.Equal(t, []string{entity.RoleUser}, dto.Roles)
	})

	t.Run("unknown user is not found", func(t *testing.T) {
		svc := newTestService(newFakeUsers())
		_, err := svc.GetCurrentUser(ctx, "nope")
		var notFound *apperrors.NotFoundError
		require.ErrorAs(t, err, &notFound)
	})
}

func newRedisService(t *testing.T, repo repository.UserRepository) (*Service, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	svc := newTestService(repo)
	svc.Redis = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return svc, mr
}

func TestLockout(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("five failures lock even the right password out", func(t *testing.T) {
		svc, _ := newRedisService(t, newFakeUsers())
		registerUser(t, svc, "ada@example.com")

		for i := 0; i < 5; i++ {
			_, err := svc.Login(ctx, LoginDto{Email: "ada@example.com", Password: "Wr0ng!pass"})
			require.Error(t, err)
		}
		_, err := svc.Login(ctx, LoginDto{Email: "ada@example.com", Password: testPassword})
		var unauthorized *apperrors.UnauthorizedError
		require.ErrorAs(t, err, &unauthorized)
	})

	t.Run("lockout expires with the window", func(t *testing.T) {
		svc, mr := newRedisService(t, newFakeUsers())
		registerUser(t, svc, "ada@example.com")

		for i := 0; i < 5; i++ {
			_, _ = svc.Login(ctx, LoginDto{Email: "ada@example.com", Password: "Wr0ng!pass"})
		}
		mr.FastForward(31 * time.Minute)

		_, err := svc.Login(ctx, LoginDto{Email: "ada@example.com", Password: testPassword})
		require.NoError(t, err)
	})

	t.Run("a successful login clears the counter", func(t *testing.T) {
		svc, _ := newRedisService(t, newFakeUsers())
		registerUser(t, svc, "ada@example.com")

		for i := 0; i < 4; i++ {
			_, _ = svc.Login(ctx, LoginDto{Email: "ada@example.com", Password: "Wr0ng!pass"})
		}
		_, err := svc.Login(ctx, LoginDto{Email: "ada@example.com", Password: testPassword})
		require.NoError(t, err)

		// The slate is clean again.
		for i := 0; i < 4; i++ {
			_, _ = svc.Login(ctx, LoginDto{Email: "ada@example.com", Password: "Wr0ng!pass"})
		}
		_, err = svc.Login(ctx, LoginDto{Email: "ada@example.com", Password: testPassword})
		require.NoError(t, err)
	})
}

func storedResetToken(t *testing.T, mr *miniredis.Miniredis) string {
	t.Helper()
	for _, key := range mr.Keys() {
		if strings.HasPrefix(key, "auth:reset:token:") {
			return strings.TrimPrefix(key, "auth:reset:token:")
		}
	}
	t.Fatal("no reset token stored")
	return ""
}

func TestPasswordReset(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("unknown email still succeeds", func(t *testing.T) {
		svc := newTestService(newFakeUsers())
		require.NoError(t, svc.ForgotPassword(ctx, ForgotPasswordDto{Email: "ghost@example.com"}))
	})

	t.Run("token resets the password exactly once", func(t *testing.T) {
		svc, mr := newRedisService(t, newFakeUsers())
		registerUser(t, svc, "ada@example.com")

		require.NoError(t, svc.ForgotPassword(ctx, ForgotPasswordDto{Email: "ada@example.com"}))
		token := storedResetToken(t, mr)

		dto := ResetPasswordDto{
			Email:              "ada@example.com",
			Token:              token,
			NewPassword:        "N3w$ecretPwd",
			ConfirmNewPassword: "N3w$ecretPwd",
		}
		require.NoError(t, svc.ResetPassword(ctx, dto))

		_, err := svc.Login(ctx, LoginDto{Email: "ada@example.com", Password: "N3w$ecretPwd"})
		require.NoError(t, err)

		// Consumed; a replay fails.
		var badReq *apperrors.BadRequestError
		require.ErrorAs(t, svc.ResetPassword(ctx, dto), &badReq)
	})

	t.Run("token bound to another account is rejected", func(t *testing.T) {
		svc, mr := newRedisService(t, newFakeUsers())
		registerUser(t, svc, "ada@example.com")
		registerUser(t, svc, "grace@example.com")

		require.NoError(t, svc.ForgotPassword(ctx, ForgotPasswordDto{Email: "ada@example.com"}))
		token := storedResetToken(t, mr)

		err := svc.ResetPassword(ctx, ResetPasswordDto{
			Email:              "grace@example.com",
			Token:              token,
			NewPassword:        "N3w$ecretPwd",
			ConfirmNewPassword: "N3w$ecretPwd",
		})
		var badReq *apperrors.BadRequestError
		require.ErrorAs(t, err, &badReq)
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		svc, mr := newRedisService(t, newFakeUsers())
		registerUser(t, svc, "ada@example.com")

		require.NoError(t, svc.ForgotPassword(ctx, ForgotPasswordDto{Email: "ada@example.com"}))
		token := storedResetToken(t, mr)
		mr.FastForward(31 * time.Minute)

		err := svc.ResetPassword(ctx, ResetPasswordDto{
			Email:              "ada@example.com",
			Token:              token,
			NewPassword:        "N3w$ecretPwd",
			ConfirmNewPassword: "N3w$ecretPwd",
		})
		var badReq *apperrors.BadRequestError
		require.ErrorAs(t, err, &badReq)
	})
}
