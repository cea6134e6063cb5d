package domain

import (
	"encoding/json"
	"time"
)

// Game template slugs understood by the platform. Only the win-or-lose
// quiz has server-side play sessions; the rest are content records whose
// payload is interpreted entirely by the client.
const (
	TemplateWinOrLoseQuiz    = "win-or-lose-quiz"
	TemplateHangman          = "hangman"
	TemplatePuzzle           = "puzzle"
	TemplateGroupSort        = "group-sort"
	TemplateMathGenerator    = "math-generator"
	TemplateTypeTheAnswer    = "type-the-answer"
	TemplatePairOrNoPair     = "pair-or-no-pair"
	TemplateWatchAndMemorize = "watch-and-memorize"
)

// Game is a generic content record. Config is the opaque per-template
// payload; it is decoded into a concrete config type (e.g. QuizConfig)
// only at the boundary, keyed by TemplateSlug.
type Game struct {
	ID             string          `json:"id"`
	TemplateSlug   string          `json:"templateSlug"`
	CreatorID      string          `json:"-"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	ThumbnailImage string          `json:"thumbnailImage"`
	IsPublished    bool            `json:"isPublished"`
	TotalPlayed    int             `json:"totalPlayed"`
	Config         json.RawMessage `json:"config,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// QuizQuestion is one multiple-choice question of a betting quiz.
type QuizQuestion struct {
	Question           string   `json:"question"`
	Options            []string `json:"options"`
	CorrectAnswerIndex int      `json:"correctAnswerIndex"`
}

// QuizConfig is the decoded win-or-lose-quiz payload. It is immutable for
// the lifetime of a play session.
type QuizConfig struct {
	Questions     []QuizQuestion `json:"questions"`
	InitialPoints int            `json:"initialPoints,omitempty"` // defaults to 100
	MinBetAmount  int            `json:"minBetAmount,omitempty"`  // defaults to 1
	MaxBetAmount  int            `json:"maxBetAmount,omitempty"`  // 0 = unbounded
}

// AnswerRecord is one answered question. Immutable once appended.
type AnswerRecord struct {
	QuestionIndex       int  `json:"questionIndex"`
	BetAmount           int  `json:"betAmount"`
	SelectedAnswerIndex int  `json:"selectedAnswerIndex"`
	IsCorrect           bool `json:"isCorrect"`
	PointsChange        int  `json:"pointsChange"`
}

// QuizSession is one player's progress through one play of a QuizConfig.
// Sessions are replaced whole on every transition, never mutated in place.
type QuizSession struct {
	CurrentQuestionIndex int            `json:"currentQuestionIndex"`
	PlayerPoints         int            `json:"playerPoints"`
	AnswerHistory        []AnswerRecord `json:"answerHistory"`
	IsFinished           bool           `json:"isFinished"`
	FinalScore           int            `json:"finalScore,omitempty"`
	LastActivity         time.Time      `json:"lastActivity"`
}

// AnswerSubmission is the player's input for one question.
type AnswerSubmission struct {
	SelectedAnswerIndex int `json:"selectedAnswerIndex"`
	BetAmount           int `json:"betAmount"`
}

// AnswerResult reveals the outcome of a single transition. The correct
// answer index is only disclosed here, after the question was answered.
type AnswerResult struct {
	IsCorrect          bool `json:"isCorrect"`
	CorrectAnswerIndex int  `json:"correctAnswerIndex"`
	PointsChange       int  `json:"pointsChange"`
	NewPoints          int  `json:"newPoints"`
	IsGameFinished     bool `json:"isGameFinished"`
}

// QuestionView is the client-facing shape of an unanswered question.
// It deliberately has no field for the correct answer.
type QuestionView struct {
	QuestionIndex int      `json:"questionIndex"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
}

// Statistics summarizes a session, mid-game or after it finished.
type Statistics struct {
	TotalQuestions int `json:"totalQuestions"`
	CorrectAnswers int `json:"correctAnswers"`
	WrongAnswers   int `json:"wrongAnswers"`
	Accuracy       int `json:"accuracy"`
	FinalScore     int `json:"finalScore"`
	TotalBet       int `json:"totalBet"`
}

// LeaderboardEntry is one persisted score for a game.
type LeaderboardEntry struct {
	GameID     string    `json:"gameId"`
	PlayerName string    `json:"playerName"`
	Score      int       `json:"score"`
	AchievedAt time.Time `json:"achievedAt"`
}

// User roles.
const (
	RoleUser       = "USER"
	RoleSuperAdmin = "SUPER_ADMIN"
)

// User is a platform account. PasswordHash is a bcrypt hash.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}
