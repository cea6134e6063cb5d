package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"edugames-service/internal/domain"
)

// LeaderboardStore persists final scores in Postgres.
type LeaderboardStore struct {
	pool *pgxpool.Pool
}

func NewLeaderboardStore(pool *pgxpool.Pool) *LeaderboardStore {
	return &LeaderboardStore{pool: pool}
}

func (s *LeaderboardStore) Append(ctx context.Context, e domain.LeaderboardEntry) error {
	const stmt = `
INSERT INTO leaderboard (game_id, player_name, score, achieved_at)
VALUES ($1, $2, $3, $4)`

	if _, err := s.pool.Exec(ctx, stmt, e.GameID, e.PlayerName, e.Score, e.AchievedAt); err != nil {
		return fmt.Errorf("insert leaderboard entry: %w", err)
	}
	return nil
}

func (s *LeaderboardStore) Top(ctx context.Context, gameID string, limit int) ([]domain.LeaderboardEntry, error) {
	const stmt = `
SELECT game_id, player_name, score, achieved_at
FROM leaderboard
WHERE game_id = $1
ORDER BY score DESC, achieved_at ASC
LIMIT $2`

	rows, err := s.pool.Query(ctx, stmt, gameID, limit)
	if err != nil {
		return nil, fmt.Errorf("query leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []domain.LeaderboardEntry
	for rows.Next() {
		var e domain.LeaderboardEntry
		if err := rows.Scan(&e.GameID, &e.PlayerName, &e.Score, &e.AchievedAt); err != nil {
			return nil, fmt.Errorf("scan leaderboard entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
