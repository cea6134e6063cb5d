package app

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"edugames-service/internal/domain"
	"edugames-service/internal/quiz"
)

// SessionRegistry holds live play sessions keyed by an opaque session id.
// Entries are replaced whole on every transition; the registry is the sole
// owner of live session state.
type SessionRegistry interface {
	Put(ctx context.Context, id string, s domain.QuizSession) error
	Get(ctx context.Context, id string) (domain.QuizSession, error)
	Delete(ctx context.Context, id string) error
}

// ConfigSource loads the decoded quiz config for a game (typically through
// a TTL cache in front of the game store).
type ConfigSource interface {
	QuizConfig(ctx context.Context, gameID string) (domain.QuizConfig, error)
}

// LeaderboardStore persists final scores.
type LeaderboardStore interface {
	Append(ctx context.Context, e domain.LeaderboardEntry) error
	Top(ctx context.Context, gameID string, limit int) ([]domain.LeaderboardEntry, error)
}

// PlayService drives win-or-lose-quiz play sessions: it owns the glue
// between the pure engine, the session registry, and the content store.
type PlayService struct {
	games       GameStore
	configs     ConfigSource
	sessions    SessionRegistry
	leaderboard LeaderboardStore
	clock       func() time.Time
}

func NewPlayService(games GameStore, configs ConfigSource, sessions SessionRegistry, leaderboard LeaderboardStore) *PlayService {
	return &PlayService{
		games:       games,
		configs:     configs,
		sessions:    sessions,
		leaderboard: leaderboard,
		clock:       time.Now,
	}
}

// StartResult is the payload returned when a play session begins. The first
// question is already redacted.
type StartResult struct {
	SessionID       string               `json:"sessionId"`
	GameID          string               `json:"gameId"`
	GameName        string               `json:"gameName"`
	PlayerPoints    int                  `json:"playerPoints"`
	CurrentQuestion *domain.QuestionView `json:"currentQuestion"`
	TotalQuestions  int                  `json:"totalQuestions"`
	MinBetAmount    int                  `json:"minBetAmount"`
	MaxBetAmount    int                  `json:"maxBetAmount,omitempty"`
}

// Start loads a published quiz game, initializes a fresh session and
// registers it under a new unguessable id.
func (s *PlayService) Start(ctx context.Context, gameID string) (*StartResult, error) {
	game, err := s.games.GetByID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game.TemplateSlug != domain.TemplateWinOrLoseQuiz {
		return nil, domain.ErrGameNotFound
	}
	if !game.IsPublished {
		return nil, domain.ErrGameNotPublished
	}

	cfg, err := s.configs.QuizConfig(ctx, gameID)
	if err != nil {
		return nil, err
	}

	session := quiz.Initialize(cfg)
	session.LastActivity = s.clock()

	sessionID := uuid.NewString()
	if err := s.sessions.Put(ctx, sessionID, session); err != nil {
		return nil, err
	}

	// Best effort: the play counter must not fail a started session.
	if err := s.games.IncrementPlayCount(ctx, gameID); err != nil {
		log.Printf("play: increment play count for %s: %v", gameID, err)
	}

	minBet := cfg.MinBetAmount
	if minBet == 0 {
		minBet = 1
	}

	return &StartResult{
		SessionID:       sessionID,
		GameID:          game.ID,
		GameName:        game.Name,
		PlayerPoints:    session.PlayerPoints,
		CurrentQuestion: quiz.CurrentQuestion(cfg, session),
		TotalQuestions:  len(cfg.Questions),
		MinBetAmount:    minBet,
		MaxBetAmount:    cfg.MaxBetAmount,
	}, nil
}

// AnswerOutcome bundles the transition result with what the client needs
// next: the following question while playing, the statistics once done.
type AnswerOutcome struct {
	domain.AnswerResult
	NextQuestion *domain.QuestionView `json:"nextQuestion"`
	Statistics   *domain.Statistics   `json:"statistics"`
}

// Answer applies one bet+answer submission to a live session. The registry
// entry is replaced with the successor state, or deleted the moment the
// session terminates; only the leaderboard entry outlives a finished game.
func (s *PlayService) Answer(ctx context.Context, gameID, sessionID, playerName string, sub domain.AnswerSubmission) (*AnswerOutcome, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	cfg, err := s.configs.QuizConfig(ctx, gameID)
	if err != nil {
		return nil, err
	}

	next, result, err := quiz.ProcessAnswer(cfg, session, sub)
	if err != nil {
		return nil, err
	}
	next.LastActivity = s.clock()

	outcome := &AnswerOutcome{AnswerResult: result}

	if next.IsFinished {
		// The in-memory transition already succeeded; external side effects
		// below are best effort and must not corrupt it.
		if err := s.sessions.Delete(ctx, sessionID); err != nil {
			log.Printf("play: delete finished session %s: %v", sessionID, err)
		}
		stats := quiz.ComputeStatistics(next)
		outcome.Statistics = &stats
		s.recordScore(ctx, gameID, playerName, next.FinalScore)
		return outcome, nil
	}

	if err := s.sessions.Put(ctx, sessionID, next); err != nil {
		return nil, err
	}
	outcome.NextQuestion = quiz.CurrentQuestion(cfg, next)
	return outcome, nil
}

// Stats reports session statistics, mid-game or right before the session
// is torn down. Sessions are keyed globally by id alone: ids are
// unguessable uuids, so no game-id cross-check is performed.
func (s *PlayService) Stats(ctx context.Context, sessionID string) (domain.Statistics, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return domain.Statistics{}, err
	}
	return quiz.ComputeStatistics(session), nil
}

// Leaderboard returns the best scores for a game, highest first.
func (s *PlayService) Leaderboard(ctx context.Context, gameID string, limit int) ([]domain.LeaderboardEntry, error) {
	if _, err := s.games.GetByID(ctx, gameID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 10
	}
	return s.leaderboard.Top(ctx, gameID, limit)
}

func (s *PlayService) recordScore(ctx context.Context, gameID, playerName string, score int) {
	if playerName == "" {
		playerName = "anonymous"
	}
	err := s.leaderboard.Append(ctx, domain.LeaderboardEntry{
		GameID:     gameID,
		PlayerName: playerName,
		Score:      score,
		AchievedAt: s.clock(),
	})
	if err != nil {
		log.Printf("play: record score for game %s: %v", gameID, err)
	}
}
