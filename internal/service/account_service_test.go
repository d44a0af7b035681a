package service

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/account-service/internal/auth"
	"github.com/spec-kit/account-service/internal/config"
	"github.com/spec-kit/account-service/internal/domain"
	"github.com/spec-kit/account-service/internal/repository"
	apperrors "github.com/spec-kit/account-service/pkg/util"
)

func testAuthConfig() config.Config {
	return config.Config{
		Auth: config.AuthConfig{
			JWTSecret:             "test-secret",
			JWTIssuer:             "account-service",
			JWTAudience:           "account-service-clients",
			AccessTokenTTLMinutes: 60,
			BcryptCost:            bcrypt.MinCost,
		},
	}
}

func newTestService() (*AccountService, repository.UserRepository) {
	repo := repository.NewMemoryUserRepository()
	svc := NewAccountService(testAuthConfig(), AccountDependencies{UserRepo: repo})
	return svc, repo
}

func TestSignup(t *testing.T) {
	t.Parallel()

	svc, repo := newTestService()
	ctx := context.Background()

	user, err := svc.Signup(ctx, "Ada", "ada@x.com", "user", "Strong1!")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "Ada", user.Name)
	assert.Equal(t, "ada@x.com", user.Email)
	assert.Equal(t, "user", user.Role)
	assert.NotEqual(t, "Strong1!", user.PasswordHash)
	require.NoError(t, auth.ComparePassword(user.PasswordHash, "Strong1!"))

	stored, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, stored.Email)
}

func TestSignupDefaultsRole(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService()

	user, err := svc.Signup(context.Background(), "Ada", "ada@x.com", "", "Strong1!")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultRole, user.Role)
}

func TestSignupValidation(t *testing.T) {
	t.Parallel()

	svc, repo := newTestService()
	ctx := context.Background()

	cases := []struct {
		name, email, password, wantMessage string
	}{
		{"Ada", "", "Strong1!", "Email is required."},
		{"Ada", "not-an-email", "Strong1!", "Invalid email format."},
		{"", "ada@x.com", "Strong1!", "Name cannot be empty"},
		{"Ada", "ada@x.com", "", "Password is required."},
		{"Ada", "ada@x.com", "weak", "Password must be at least 8 characters, include upper and lowercase letters, a digit, and a special character."},
	}
	for _, tc := range cases {
		_, err := svc.Signup(ctx, tc.name, tc.email, "", tc.password)
		require.Error(t, err)
		de := apperrors.ToDomainError(err)
		assert.Equal(t, "VALIDATION_FAILED", de.Code)
		assert.Equal(t, tc.wantMessage, de.Message)
	}

	users, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, users, "failed signups must not mutate the store")
}

func TestSignupConflictCaseInsensitive(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Signup(ctx, "Ada", "a@b.com", "user", "Strong1!")
	require.NoError(t, err)

	_, err = svc.Signup(ctx, "Other", "A@B.com", "user", "Strong1!")
	require.Error(t, err)
	de := apperrors.ToDomainError(err)
	assert.Equal(t, "CONFLICT", de.Code)
	assert.Equal(t, "Email is already in use.", de.Message)
}

func TestSignupConstraintViolationOnInsert(t *testing.T) {
	t.Parallel()

	// simulates the losing side of a concurrent signup race: the pre-check
	// passes but the store's unique index rejects the insert
	repo := &racingRepository{UserRepository: repository.NewMemoryUserRepository()}
	svc := NewAccountService(testAuthConfig(), AccountDependencies{UserRepo: repo})

	_, err := svc.Signup(context.Background(), "Ada", "ada@x.com", "", "Strong1!")
	require.Error(t, err)
	de := apperrors.ToDomainError(err)
	assert.Equal(t, "CONFLICT", de.Code)
}

type racingRepository struct {
	repository.UserRepository
}

func (r *racingRepository) GetByEmail(context.Context, string) (*domain.User, error) {
	return nil, pgx.ErrNoRows
}

func (r *racingRepository) Create(context.Context, *domain.User) error {
	return repository.ErrEmailTaken
}

func TestLogin(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Signup(ctx, "Ada", "ada@x.com", "admin", "Strong1!")
	require.NoError(t, err)

	user, token, expiresAt, err := svc.Login(ctx, "ada@x.com", "Strong1!")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := svc.TokenManager().Verify(token)
	require.NoError(t, err)
	assert.Equal(t, created.ID, claims.SubjectID())
	assert.Equal(t, "Ada", claims.Name)
	assert.Equal(t, "admin", claims.Role)
}

func TestLoginCaseInsensitiveEmail(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Signup(ctx, "Ada", "ada@x.com", "", "Strong1!")
	require.NoError(t, err)

	_, token, _, err := svc.Login(ctx, "ADA@X.COM", "Strong1!")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestLoginInvalidCredentialsIndistinguishable(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Signup(ctx, "Ada", "ada@x.com", "", "Strong1!")
	require.NoError(t, err)

	_, _, _, wrongPassword := svc.Login(ctx, "ada@x.com", "Wrong1!x")
	require.Error(t, wrongPassword)
	_, _, _, unknownEmail := svc.Login(ctx, "nobody@x.com", "Strong1!")
	require.Error(t, unknownEmail)

	wp := apperrors.ToDomainError(wrongPassword)
	ue := apperrors.ToDomainError(unknownEmail)
	assert.Equal(t, wp.Code, ue.Code)
	assert.Equal(t, wp.Message, ue.Message)
	assert.Equal(t, wp.HTTPStatus, ue.HTTPStatus)
	assert.Equal(t, "INVALID_CREDENTIALS", wp.Code)
}

func TestLoginValidation(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService()
	ctx := context.Background()

	_, _, _, err := svc.Login(ctx, "not-an-email", "Strong1!")
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)

	_, _, _, err = svc.Login(ctx, "ada@x.com", "")
	require.Error(t, err)
	de := apperrors.ToDomainError(err)
	assert.Equal(t, "VALIDATION_FAILED", de.Code)
	assert.Equal(t, "Password cannot be empty", de.Message)
}

func TestLoginMissingTokenConfig(t *testing.T) {
	t.Parallel()

	cfg := testAuthConfig()
	cfg.Auth.JWTSecret = ""
	repo := repository.NewMemoryUserRepository()
	svc := NewAccountService(cfg, AccountDependencies{UserRepo: repo})
	ctx := context.Background()

	_, err := svc.Signup(ctx, "Ada", "ada@x.com", "", "Strong1!")
	require.NoError(t, err)

	_, _, _, err = svc.Login(ctx, "ada@x.com", "Strong1!")
	require.Error(t, err)
	de := apperrors.ToDomainError(err)
	assert.Equal(t, "SERVER_MISCONFIGURED", de.Code)
	assert.Equal(t, 500, de.HTTPStatus)
}

func TestCurrentUser(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Signup(ctx, "Ada", "ada@x.com", "", "Strong1!")
	require.NoError(t, err)
	_, token, _, err := svc.Login(ctx, "ada@x.com", "Strong1!")
	require.NoError(t, err)

	claims, err := svc.TokenManager().Verify(token)
	require.NoError(t, err)

	user, err := svc.CurrentUser(ctx, claims)
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)

	_, err = svc.CurrentUser(ctx, nil)
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", apperrors.ToDomainError(err).Code)
}

func TestUpdateUser(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Signup(ctx, "Ada", "ada@x.com", "", "Strong1!")
	require.NoError(t, err)

	updated, err := svc.UpdateUser(ctx, created.ID, UpdatePatch{Name: "Ada L.", Role: "admin"})
	require.NoError(t, err)
	assert.Equal(t, "Ada L.", updated.Name)
	assert.Equal(t, "admin", updated.Role)
	assert.Equal(t, "ada@x.com", updated.Email, "blank patch fields stay untouched")

	_, err = svc.UpdateUser(ctx, created.ID, UpdatePatch{Email: "bad-email"})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)

	_, err = svc.UpdateUser(ctx, "unknown-id", UpdatePatch{Name: "X"})
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
}

func TestUpdateUserEmailConflict(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Signup(ctx, "Ada", "ada@x.com", "", "Strong1!")
	require.NoError(t, err)
	other, err := svc.Signup(ctx, "Grace", "grace@x.com", "", "Strong1!")
	require.NoError(t, err)

	_, err = svc.UpdateUser(ctx, other.ID, UpdatePatch{Email: "ADA@X.com"})
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperrors.ToDomainError(err).Code)
}

func TestDeleteUser(t *testing.T) {
	t.Parallel()

	svc, repo := newTestService()
	ctx := context.Background()

	created, err := svc.Signup(ctx, "Ada", "ada@x.com", "", "Strong1!")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteUser(ctx, created.ID))
	_, err = repo.GetByID(ctx, created.ID)
	require.Error(t, err)

	err = svc.DeleteUser(ctx, created.ID)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
}

func TestListUsers(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Signup(ctx, "Ada", "ada@x.com", "", "Strong1!")
	require.NoError(t, err)
	_, err = svc.Signup(ctx, "Grace", "grace@x.com", "", "Strong1!")
	require.NoError(t, err)

	users, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}
