package domain

import "errors"

// Config validation errors.
var (
	// ErrNoQuestions is returned when a quiz config has an empty question bank.
	ErrNoQuestions = errors.New("quiz must have at least one question")
	// ErrBadAnswerIndex is returned when a question's correct answer index is
	// out of range for its options.
	ErrBadAnswerIndex = errors.New("invalid correct answer index")
	// ErrBadOptionCount is returned when a question has fewer than two or
	// more than six options.
	ErrBadOptionCount = errors.New("question must have between 2 and 6 options")
)

// Session errors.
var (
	// ErrSessionNotFound is returned for an unknown or expired session id.
	ErrSessionNotFound = errors.New("play session not found or expired")
	// ErrGameFinished is returned when answering a session that already terminated.
	ErrGameFinished = errors.New("game is already finished")
	// ErrNoMoreQuestions is returned when the question bank is exhausted.
	ErrNoMoreQuestions = errors.New("no more questions available")
)

// Bet and answer validation errors. All are recoverable by resubmitting a
// corrected request.
var (
	ErrInsufficientPoints = errors.New("insufficient points")
	ErrBetTooLow          = errors.New("bet amount below minimum")
	ErrBetTooHigh         = errors.New("bet amount above maximum")
	ErrInvalidAnswerIndex = errors.New("invalid answer index")
)

// Content and identity errors.
var (
	ErrGameNotFound     = errors.New("game not found")
	ErrGameNameTaken    = errors.New("game name already exists")
	ErrGameNotPublished = errors.New("game is not published")
	ErrForbidden        = errors.New("user cannot access this game")
	ErrUserNotFound     = errors.New("user not found")
	ErrUserExists       = errors.New("username already taken")
	ErrBadCredentials   = errors.New("invalid username or password")
)
