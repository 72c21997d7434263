package store

import (
	"context"
	"sync"

	"github.com/serroba/shortlink/internal/auth"
)

// UserMemoryStore is an in-memory implementation of auth.UserRepository.
type UserMemoryStore struct {
	mu      sync.RWMutex
	byEmail map[string]auth.User
}

// NewUserMemoryStore creates a new in-memory user store.
func NewUserMemoryStore() *UserMemoryStore {
	return &UserMemoryStore{
		byEmail: make(map[string]auth.User),
	}
}

func (m *UserMemoryStore) Create(_ context.Context, user *auth.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, taken := m.byEmail[user.Email]; taken {
		return auth.ErrEmailTaken
	}

	m.byEmail[user.Email] = *user

	return nil
}

func (m *UserMemoryStore) GetByEmail(_ context.Context, email string) (*auth.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.byEmail[email]
	if !ok {
		return nil, auth.ErrUserNotFound
	}

	return &user, nil
}

var _ auth.UserRepository = (*UserMemoryStore)(nil)
