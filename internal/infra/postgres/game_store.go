package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"edugames-service/internal/domain"
)

// GameStore persists game content records in Postgres. The per-template
// payload lives in a JSONB column and is never interpreted here.
type GameStore struct {
	pool *pgxpool.Pool
}

func NewGameStore(pool *pgxpool.Pool) *GameStore {
	return &GameStore{pool: pool}
}

const gameColumns = `id, template_slug, creator_id, name, description, thumbnail_image, is_published, total_played, config, created_at, updated_at`

func (s *GameStore) Create(ctx context.Context, g domain.Game) error {
	const stmt = `
INSERT INTO games (` + gameColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := s.pool.Exec(ctx, stmt,
		g.ID, g.TemplateSlug, g.CreatorID, g.Name, g.Description, g.ThumbnailImage,
		g.IsPublished, g.TotalPlayed, g.Config, g.CreatedAt, g.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert game: %w", err)
	}
	return nil
}

func (s *GameStore) GetByID(ctx context.Context, id string) (domain.Game, error) {
	const stmt = `SELECT ` + gameColumns + ` FROM games WHERE id = $1`
	return s.scanGame(s.pool.QueryRow(ctx, stmt, id))
}

func (s *GameStore) GetByName(ctx context.Context, name string) (domain.Game, error) {
	const stmt = `SELECT ` + gameColumns + ` FROM games WHERE name = $1`
	return s.scanGame(s.pool.QueryRow(ctx, stmt, name))
}

func (s *GameStore) Update(ctx context.Context, g domain.Game) error {
	const stmt = `
UPDATE games
SET name = $2, description = $3, thumbnail_image = $4, is_published = $5, config = $6, updated_at = $7
WHERE id = $1`

	tag, err := s.pool.Exec(ctx, stmt,
		g.ID, g.Name, g.Description, g.ThumbnailImage, g.IsPublished, g.Config, g.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update game: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrGameNotFound
	}
	return nil
}

func (s *GameStore) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM games WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete game: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrGameNotFound
	}
	return nil
}

func (s *GameStore) List(ctx context.Context, templateSlug, creatorID string) ([]domain.Game, error) {
	const stmt = `
SELECT ` + gameColumns + `
FROM games
WHERE ($1 = '' OR template_slug = $1)
  AND ($2 = '' OR creator_id = $2)
ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, stmt, templateSlug, creatorID)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	defer rows.Close()

	var games []domain.Game
	for rows.Next() {
		g, err := s.scanGame(rows)
		if err != nil {
			return nil, err
		}
		games = append(games, g)
	}
	return games, rows.Err()
}

func (s *GameStore) IncrementPlayCount(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `UPDATE games SET total_played = total_played + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("increment play count: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrGameNotFound
	}
	return nil
}

func (s *GameStore) scanGame(row pgx.Row) (domain.Game, error) {
	var g domain.Game
	err := row.Scan(&g.ID, &g.TemplateSlug, &g.CreatorID, &g.Name, &g.Description,
		&g.ThumbnailImage, &g.IsPublished, &g.TotalPlayed, &g.Config, &g.CreatedAt, &g.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Game{}, domain.ErrGameNotFound
	}
	if err != nil {
		return domain.Game{}, fmt.Errorf("scan game: %w", err)
	}
	return g, nil
}
