package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"edugames-service/internal/domain"
)

// SessionRegistry stores quiz sessions as JSON values in Redis with a TTL.
// Unlike the in-process registry this one survives restarts and is shared
// across instances, so a session started on one replica can be resumed on
// another. Every Put refreshes the TTL, which doubles as idle eviction.
type SessionRegistry struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionRegistry(client *redis.Client, ttl time.Duration) *SessionRegistry {
	return &SessionRegistry{client: client, ttl: ttl}
}

func (r *SessionRegistry) Put(ctx context.Context, id string, s domain.QuizSession) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return r.client.Set(ctx, r.key(id), data, r.ttl).Err()
}

func (r *SessionRegistry) Get(ctx context.Context, id string) (domain.QuizSession, error) {
	data, err := r.client.Get(ctx, r.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.QuizSession{}, domain.ErrSessionNotFound
	}
	if err != nil {
		return domain.QuizSession{}, fmt.Errorf("get session: %w", err)
	}

	var s domain.QuizSession
	if err := json.Unmarshal(data, &s); err != nil {
		return domain.QuizSession{}, fmt.Errorf("decode session: %w", err)
	}
	return s, nil
}

func (r *SessionRegistry) Delete(ctx context.Context, id string) error {
	return r.client.Del(ctx, r.key(id)).Err()
}

func (r *SessionRegistry) key(id string) string {
	return "play:session:" + id
}
