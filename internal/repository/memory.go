package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/account-service/internal/domain"
)

// memoryUserRepository is an in-process store used in tests and when no
// Postgres DSN is configured. It mirrors the Postgres behavior, including
// the case-insensitive unique-email constraint on insert and update.
type memoryUserRepository struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

// NewMemoryUserRepository returns an in-memory implementation.
func NewMemoryUserRepository() UserRepository {
	return &memoryUserRepository{users: make(map[string]*domain.User)}
}

func (r *memoryUserRepository) emailTaken(email, excludeID string) bool {
	for _, u := range r.users {
		if u.ID != excludeID && strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}

func (r *memoryUserRepository) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.emailTaken(user.Email, "") {
		return ErrEmailTaken
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *memoryUserRepository) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	if r.emailTaken(user.Email, user.ID) {
		return ErrEmailTaken
	}
	user.UpdatedAt = time.Now()
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *memoryUserRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.users, id)
	return nil
}

func (r *memoryUserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *user
	return &clone, nil
}

func (r *memoryUserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	email = strings.TrimSpace(email)
	for _, user := range r.users {
		if strings.EqualFold(user.Email, email) {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memoryUserRepository) List(_ context.Context) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.User, 0, len(r.users))
	for _, user := range r.users {
		clone := *user
		out = append(out, &clone)
	}
	return out, nil
}
