package memory

import (
	"context"
	"sync"

	"edugames-service/internal/domain"
)

// UserStore is an in-memory implementation of auth.UserStore.
type UserStore struct {
	mu    sync.RWMutex
	users map[string]domain.User // keyed by username
}

func NewUserStore() *UserStore {
	return &UserStore{users: make(map[string]domain.User)}
}

func (s *UserStore) Create(_ context.Context, u domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.Username]; ok {
		return domain.ErrUserExists
	}
	s.users[u.Username] = u
	return nil
}

func (s *UserStore) GetByUsername(_ context.Context, username string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[username]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return u, nil
}
