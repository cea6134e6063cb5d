package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"edugames-service/internal/domain"
)

// UserStore persists platform accounts in Postgres.
type UserStore struct {
	pool *pgxpool.Pool
}

func NewUserStore(pool *pgxpool.Pool) *UserStore {
	return &UserStore{pool: pool}
}

func (s *UserStore) Create(ctx context.Context, u domain.User) error {
	const stmt = `
INSERT INTO users (id, username, password_hash, role, created_at)
VALUES ($1, $2, $3, $4, $5)`

	_, err := s.pool.Exec(ctx, stmt, u.ID, u.Username, u.PasswordHash, u.Role, u.CreatedAt)

	var pgErr *pgconn.PgError
	const codeUniqueViolation = "23505"
	if errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation {
		return domain.ErrUserExists
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *UserStore) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	const stmt = `SELECT id, username, password_hash, role, created_at FROM users WHERE username = $1`

	var u domain.User
	err := s.pool.QueryRow(ctx, stmt, username).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, domain.ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}
