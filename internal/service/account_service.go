package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/account-service/internal/auth"
	"github.com/spec-kit/account-service/internal/config"
	"github.com/spec-kit/account-service/internal/domain"
	"github.com/spec-kit/account-service/internal/events"
	"github.com/spec-kit/account-service/internal/repository"
	"github.com/spec-kit/account-service/internal/validation"
	apperrors "github.com/spec-kit/account-service/pkg/util"
)

// AccountService coordinates signup, login, and token-gated account access.
// Each call is a single validate, check, act sequence; a failure at any step
// aborts before the store is mutated.
type AccountService struct {
	users      repository.UserRepository
	tokens     *auth.TokenManager
	dispatcher events.Dispatcher
	bcryptCost int
}

// AccountDependencies encapsulates collaborator requirements.
type AccountDependencies struct {
	UserRepo   repository.UserRepository
	Dispatcher events.Dispatcher
}

// NewAccountService builds the service. Token parameters come from the config
// struct; nothing here reads the environment.
func NewAccountService(cfg config.Config, deps AccountDependencies) *AccountService {
	return &AccountService{
		users: deps.UserRepo,
		tokens: auth.NewTokenManager(auth.TokenConfig{
			Secret:   cfg.Auth.JWTSecret,
			Issuer:   cfg.Auth.JWTIssuer,
			Audience: cfg.Auth.JWTAudience,
			TTL:      cfg.Auth.AccessTokenTTL(),
		}),
		dispatcher: deps.Dispatcher,
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// UpdatePatch carries partial account updates. Blank fields are left untouched.
type UpdatePatch struct {
	Name  string
	Email string
	Role  string
}

// Signup registers a new account. The returned user carries the stored hash
// internally; handlers must never serialize it.
func (s *AccountService) Signup(ctx context.Context, name, email, role, password string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	role = strings.TrimSpace(role)
	password = strings.TrimSpace(password)

	if err := validation.First(
		func() error { return validation.Email(email) },
		func() error { return validation.NonEmpty(name, "Name cannot be empty") },
		func() error { return validation.StrongPassword(password) },
	); err != nil {
		return nil, apperrors.NewValidationError(err.Error(), nil)
	}

	if role == "" {
		role = domain.DefaultRole
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("Email is already in use.", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         name,
		Role:         role,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// the unique index closes the check-then-insert race
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, apperrors.NewConflict("Email is already in use.", nil)
		}
		return nil, err
	}

	s.publish(ctx, events.EventUserRegistered, user.ID, events.UserRegisteredPayload{
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	})
	return user, nil
}

// Login authenticates by email and password and issues an access token.
// An unknown email and a wrong password produce the identical error.
func (s *AccountService) Login(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	email = strings.TrimSpace(email)
	password = strings.TrimSpace(password)

	if err := validation.First(
		func() error { return validation.Email(email) },
		func() error { return validation.NonEmpty(password, "Password cannot be empty") },
	); err != nil {
		return nil, "", time.Time{}, apperrors.NewValidationError(err.Error(), nil)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewInvalidCredentials()
		}
		return nil, "", time.Time{}, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewInvalidCredentials()
	}

	token, expiresAt, err := s.tokens.Issue(user.ID, user.Name, user.Role)
	if err != nil {
		if errors.Is(err, auth.ErrMisconfigured) {
			return nil, "", time.Time{}, apperrors.NewServerConfigError("JWT configuration is incomplete.")
		}
		return nil, "", time.Time{}, err
	}

	s.publish(ctx, events.EventUserLoggedIn, user.ID, events.UserLoggedInPayload{
		Email:          user.Email,
		TokenExpiresAt: expiresAt,
	})
	return user, token, expiresAt, nil
}

// CurrentUser resolves the caller's account from verified token claims.
func (s *AccountService) CurrentUser(ctx context.Context, claims *auth.Claims) (*domain.User, error) {
	if claims == nil || claims.SubjectID() == "" {
		return nil, apperrors.NewUnauthorized("missing or invalid token")
	}
	user, err := s.users.GetByID(ctx, claims.SubjectID())
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, err
	}
	return user, nil
}

// GetUser fetches an account by id.
func (s *AccountService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	if err := validation.NonEmpty(id, "Id cannot be empty"); err != nil {
		return nil, apperrors.NewValidationError(err.Error(), nil)
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, err
	}
	return user, nil
}

// ListUsers returns all accounts.
func (s *AccountService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.users.List(ctx)
}

// UpdateUser applies a partial update. Blank patch fields keep their stored
// values; a changed email is re-validated and stays subject to the unique
// constraint.
func (s *AccountService) UpdateUser(ctx context.Context, id string, patch UpdatePatch) (*domain.User, error) {
	if err := validation.NonEmpty(id, "Id cannot be empty"); err != nil {
		return nil, apperrors.NewValidationError(err.Error(), nil)
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, err
	}

	changed := make([]string, 0, 3)
	if name := strings.TrimSpace(patch.Name); name != "" {
		user.Name = name
		changed = append(changed, "name")
	}
	if email := strings.TrimSpace(patch.Email); email != "" {
		if err := validation.Email(email); err != nil {
			return nil, apperrors.NewValidationError(err.Error(), nil)
		}
		user.Email = email
		changed = append(changed, "email")
	}
	if role := strings.TrimSpace(patch.Role); role != "" {
		user.Role = role
		changed = append(changed, "role")
	}

	if len(changed) == 0 {
		return user, nil
	}

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, apperrors.NewConflict("Email is already in use.", nil)
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, err
	}

	s.publish(ctx, events.EventUserUpdated, user.ID, events.UserUpdatedPayload{Fields: changed})
	return user, nil
}

// DeleteUser removes an account.
func (s *AccountService) DeleteUser(ctx context.Context, id string) error {
	if err := validation.NonEmpty(id, "Id cannot be empty"); err != nil {
		return apperrors.NewValidationError(err.Error(), nil)
	}

	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user", nil)
		}
		return err
	}

	s.publish(ctx, events.EventUserDeleted, id, nil)
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AccountService) TokenManager() *auth.TokenManager {
	return s.tokens
}

func (s *AccountService) publish(ctx context.Context, eventType events.EventType, userID string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		UserID:    userID,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
