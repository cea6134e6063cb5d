package memory

import (
	"context"
	"sync"
	"time"

	"edugames-service/internal/domain"
)

// SessionRegistry is the in-process implementation of app.SessionRegistry:
// a mutex-guarded map of live quiz sessions. Entries idle longer than the
// TTL are evicted so abandoned sessions do not pile up; a TTL of zero
// disables expiry.
type SessionRegistry struct {
	ttl   time.Duration
	clock func() time.Time

	mu       sync.RWMutex
	sessions map[string]domain.QuizSession
}

func NewSessionRegistry(ttl time.Duration) *SessionRegistry {
	return &SessionRegistry{
		ttl:      ttl,
		clock:    time.Now,
		sessions: make(map[string]domain.QuizSession),
	}
}

func (r *SessionRegistry) Put(_ context.Context, id string, s domain.QuizSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[id] = s
	return nil
}

func (r *SessionRegistry) Get(_ context.Context, id string) (domain.QuizSession, error) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok || r.expired(s) {
		return domain.QuizSession{}, domain.ErrSessionNotFound
	}
	return s, nil
}

func (r *SessionRegistry) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	return nil
}

// Len reports the number of live entries, expired ones included until the
// next sweep.
func (r *SessionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sweep drops every expired session and returns how many were removed.
func (r *SessionRegistry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, s := range r.sessions {
		if r.expired(s) {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}

// Run sweeps periodically until the context is canceled.
func (r *SessionRegistry) Run(ctx context.Context, interval time.Duration) {
	if r.ttl <= 0 || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}

func (r *SessionRegistry) expired(s domain.QuizSession) bool {
	return r.ttl > 0 && r.clock().Sub(s.LastActivity) > r.ttl
}
