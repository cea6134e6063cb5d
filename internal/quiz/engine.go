// Package quiz implements the win-or-lose betting quiz engine: a pure
// state machine over (QuizConfig, QuizSession) pairs. No function here
// performs I/O or depends on hidden state, which keeps every transition
// trivially testable and safe to call from any goroutine.
package quiz

import (
	"fmt"

	"edugames-service/internal/domain"
)

const defaultInitialPoints = 100

// ValidateConfig checks a quiz config for structural soundness. It is
// called at game create/update time, and again before a merged partial
// update replaces the stored config.
func ValidateConfig(cfg domain.QuizConfig) error {
	if len(cfg.Questions) == 0 {
		return domain.ErrNoQuestions
	}
	for i, q := range cfg.Questions {
		if len(q.Options) < 2 || len(q.Options) > 6 {
			return fmt.Errorf("question %d: %w", i, domain.ErrBadOptionCount)
		}
		if q.CorrectAnswerIndex < 0 || q.CorrectAnswerIndex >= len(q.Options) {
			return fmt.Errorf("question %d: %w", i, domain.ErrBadAnswerIndex)
		}
	}
	return nil
}

// Initialize produces the starting session state for a config.
func Initialize(cfg domain.QuizConfig) domain.QuizSession {
	points := cfg.InitialPoints
	if points <= 0 {
		points = defaultInitialPoints
	}
	return domain.QuizSession{
		CurrentQuestionIndex: 0,
		PlayerPoints:         points,
		AnswerHistory:        []domain.AnswerRecord{},
		IsFinished:           false,
	}
}

// CurrentQuestion returns the question the session is waiting on, with the
// correct answer redacted. It returns nil once the session finished or the
// question bank is exhausted.
func CurrentQuestion(cfg domain.QuizConfig, s domain.QuizSession) *domain.QuestionView {
	if s.IsFinished || s.CurrentQuestionIndex >= len(cfg.Questions) {
		return nil
	}
	q := cfg.Questions[s.CurrentQuestionIndex]
	return &domain.QuestionView{
		QuestionIndex: s.CurrentQuestionIndex,
		Question:      q.Question,
		Options:       q.Options,
	}
}

// ProcessAnswer validates a submission against the current state and, if
// valid, returns the successor state plus the transition outcome. The input
// state is never modified; on error it is returned unchanged.
//
// Preconditions are checked in a fixed order so each failure mode is
// distinct: finished session, exhausted questions, bet above balance, bet
// below the configured minimum, bet above the configured maximum, answer
// index out of range.
func ProcessAnswer(cfg domain.QuizConfig, s domain.QuizSession, a domain.AnswerSubmission) (domain.QuizSession, domain.AnswerResult, error) {
	if s.IsFinished {
		return s, domain.AnswerResult{}, domain.ErrGameFinished
	}
	if s.CurrentQuestionIndex >= len(cfg.Questions) {
		return s, domain.AnswerResult{}, domain.ErrNoMoreQuestions
	}

	question := cfg.Questions[s.CurrentQuestionIndex]

	if a.BetAmount > s.PlayerPoints {
		return s, domain.AnswerResult{}, fmt.Errorf("%w: have %d points, tried to bet %d",
			domain.ErrInsufficientPoints, s.PlayerPoints, a.BetAmount)
	}
	if cfg.MinBetAmount > 0 && a.BetAmount < cfg.MinBetAmount {
		return s, domain.AnswerResult{}, fmt.Errorf("%w: bet must be at least %d",
			domain.ErrBetTooLow, cfg.MinBetAmount)
	}
	if cfg.MaxBetAmount > 0 && a.BetAmount > cfg.MaxBetAmount {
		return s, domain.AnswerResult{}, fmt.Errorf("%w: bet cannot exceed %d",
			domain.ErrBetTooHigh, cfg.MaxBetAmount)
	}
	if a.SelectedAnswerIndex < 0 || a.SelectedAnswerIndex >= len(question.Options) {
		return s, domain.AnswerResult{}, domain.ErrInvalidAnswerIndex
	}

	isCorrect := a.SelectedAnswerIndex == question.CorrectAnswerIndex
	pointsChange := -a.BetAmount
	if isCorrect {
		pointsChange = a.BetAmount
	}
	newPoints := s.PlayerPoints + pointsChange

	next := domain.QuizSession{
		CurrentQuestionIndex: s.CurrentQuestionIndex + 1,
		PlayerPoints:         newPoints,
		AnswerHistory: append(append([]domain.AnswerRecord{}, s.AnswerHistory...), domain.AnswerRecord{
			QuestionIndex:       s.CurrentQuestionIndex,
			BetAmount:           a.BetAmount,
			SelectedAnswerIndex: a.SelectedAnswerIndex,
			IsCorrect:           isCorrect,
			PointsChange:        pointsChange,
		}),
		LastActivity: s.LastActivity,
	}

	// Both running out of questions and going bankrupt are terminal;
	// bankruptcy ends the game even with questions remaining.
	next.IsFinished = next.CurrentQuestionIndex >= len(cfg.Questions) || newPoints <= 0
	if next.IsFinished {
		next.FinalScore = newPoints
	}

	return next, domain.AnswerResult{
		IsCorrect:          isCorrect,
		CorrectAnswerIndex: question.CorrectAnswerIndex,
		PointsChange:       pointsChange,
		NewPoints:          newPoints,
		IsGameFinished:     next.IsFinished,
	}, nil
}

// ComputeStatistics summarizes a session. It is pure and callable at any
// point; before termination FinalScore falls back to the live balance.
func ComputeStatistics(s domain.QuizSession) domain.Statistics {
	total := len(s.AnswerHistory)
	correct := 0
	totalBet := 0
	for _, h := range s.AnswerHistory {
		if h.IsCorrect {
			correct++
		}
		totalBet += h.BetAmount
	}

	accuracy := 0
	if total > 0 {
		accuracy = int(float64(correct)/float64(total)*100 + 0.5)
	}

	finalScore := s.FinalScore
	if !s.IsFinished {
		finalScore = s.PlayerPoints
	}

	return domain.Statistics{
		TotalQuestions: total,
		CorrectAnswers: correct,
		WrongAnswers:   total - correct,
		Accuracy:       accuracy,
		FinalScore:     finalScore,
		TotalBet:       totalBet,
	}
}
