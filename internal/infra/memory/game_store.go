package memory

import (
	"context"
	"sync"

	"edugames-service/internal/domain"
)

// GameStore is an in-memory implementation of app.GameStore, useful for
// tests and demo runs without Postgres.
type GameStore struct {
	mu    sync.RWMutex
	games map[string]domain.Game
}

func NewGameStore() *GameStore {
	return &GameStore{games: make(map[string]domain.Game)}
}

func (s *GameStore) Create(_ context.Context, g domain.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[g.ID] = g
	return nil
}

func (s *GameStore) GetByID(_ context.Context, id string) (domain.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.games[id]
	if !ok {
		return domain.Game{}, domain.ErrGameNotFound
	}
	return g, nil
}

func (s *GameStore) GetByName(_ context.Context, name string) (domain.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, g := range s.games {
		if g.Name == name {
			return g, nil
		}
	}
	return domain.Game{}, domain.ErrGameNotFound
}

func (s *GameStore) Update(_ context.Context, g domain.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.games[g.ID]
	if !ok {
		return domain.ErrGameNotFound
	}
	g.TotalPlayed = stored.TotalPlayed
	s.games[g.ID] = g
	return nil
}

func (s *GameStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[id]; !ok {
		return domain.ErrGameNotFound
	}
	delete(s.games, id)
	return nil
}

func (s *GameStore) List(_ context.Context, templateSlug, creatorID string) ([]domain.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Game
	for _, g := range s.games {
		if templateSlug != "" && g.TemplateSlug != templateSlug {
			continue
		}
		if creatorID != "" && g.CreatorID != creatorID {
			continue
		}
		out = append(out, g)
	}
	return out, nil
}

func (s *GameStore) IncrementPlayCount(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.games[id]
	if !ok {
		return domain.ErrGameNotFound
	}
	g.TotalPlayed++
	s.games[id] = g
	return nil
}
