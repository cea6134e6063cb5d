package memory

import (
	"context"
	"sort"
	"sync"

	"edugames-service/internal/domain"
)

// LeaderboardStore keeps scores in memory, ordered on read.
type LeaderboardStore struct {
	mu      sync.RWMutex
	entries map[string][]domain.LeaderboardEntry
}

func NewLeaderboardStore() *LeaderboardStore {
	return &LeaderboardStore{entries: make(map[string][]domain.LeaderboardEntry)}
}

func (s *LeaderboardStore) Append(_ context.Context, e domain.LeaderboardEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[e.GameID] = append(s.entries[e.GameID], e)
	return nil
}

func (s *LeaderboardStore) Top(_ context.Context, gameID string, limit int) ([]domain.LeaderboardEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.entries[gameID]
	out := make([]domain.LeaderboardEntry, len(all))
	copy(out, all)

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		// Tie-break by who got there first.
		return out[i].AchievedAt.Before(out[j].AchievedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
