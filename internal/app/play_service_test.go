package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"edugames-service/internal/app"
	"edugames-service/internal/domain"
	"edugames-service/internal/infra/memory"
)

type testEnv struct {
	games       *memory.GameStore
	sessions    *memory.SessionRegistry
	leaderboard *memory.LeaderboardStore
	gameSvc     *app.GameService
	playSvc     *app.PlayService
}

func newTestEnv() *testEnv {
	games := memory.NewGameStore()
	sessions := memory.NewSessionRegistry(time.Minute)
	leaderboard := memory.NewLeaderboardStore()
	configs := memory.NewConfigCache(app.NewConfigLoader(games), time.Minute)

	return &testEnv{
		games:       games,
		sessions:    sessions,
		leaderboard: leaderboard,
		gameSvc:     app.NewGameService(games, configs),
		playSvc:     app.NewPlayService(games, configs, sessions, leaderboard),
	}
}

func creator() app.Identity {
	return app.Identity{UserID: "creator-1", Role: domain.RoleUser}
}

func sampleConfig() domain.QuizConfig {
	return domain.QuizConfig{
		Questions: []domain.QuizQuestion{
			{Question: "2+2?", Options: []string{"3", "4"}, CorrectAnswerIndex: 1},
			{Question: "3*3?", Options: []string{"9", "6"}, CorrectAnswerIndex: 0},
		},
		InitialPoints: 100,
		MinBetAmount:  5,
		MaxBetAmount:  50,
	}
}

func (e *testEnv) seedGame(t *testing.T, published bool) domain.Game {
	t.Helper()
	game, err := e.gameSvc.CreateQuiz(context.Background(), creator(), app.CreateQuizInput{
		Name:        "Seeded Quiz",
		IsPublished: published,
		Config:      sampleConfig(),
	})
	if err != nil {
		t.Fatalf("seed game: %v", err)
	}
	return game
}

func TestStartAnswerFinishFlow(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	game := env.seedGame(t, true)

	started, err := env.playSvc.Start(ctx, game.ID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if started.PlayerPoints != 100 {
		t.Fatalf("points = %d, want 100", started.PlayerPoints)
	}
	if started.MinBetAmount != 5 || started.MaxBetAmount != 50 {
		t.Fatalf("bet bounds = %d..%d, want 5..50", started.MinBetAmount, started.MaxBetAmount)
	}
	if started.CurrentQuestion == nil || started.CurrentQuestion.QuestionIndex != 0 {
		t.Fatalf("current question = %+v", started.CurrentQuestion)
	}

	if g, _ := env.games.GetByID(ctx, game.ID); g.TotalPlayed != 1 {
		t.Fatalf("total played = %d, want 1", g.TotalPlayed)
	}

	// Correct answer.
	outcome, err := env.playSvc.Answer(ctx, game.ID, started.SessionID, "", domain.AnswerSubmission{
		SelectedAnswerIndex: 1,
		BetAmount:           10,
	})
	if err != nil {
		t.Fatalf("answer: %v", err)
	}
	if !outcome.IsCorrect || outcome.NewPoints != 110 {
		t.Fatalf("outcome = %+v", outcome.AnswerResult)
	}
	if outcome.NextQuestion == nil || outcome.NextQuestion.QuestionIndex != 1 {
		t.Fatalf("next question = %+v", outcome.NextQuestion)
	}
	if outcome.Statistics != nil {
		t.Fatal("statistics should only appear on the final answer")
	}

	// Wrong answer on the last question ends the session.
	outcome, err = env.playSvc.Answer(ctx, game.ID, started.SessionID, "Alice", domain.AnswerSubmission{
		SelectedAnswerIndex: 1,
		BetAmount:           10,
	})
	if err != nil {
		t.Fatalf("answer: %v", err)
	}
	if outcome.IsCorrect || !outcome.IsGameFinished || outcome.NewPoints != 100 {
		t.Fatalf("outcome = %+v", outcome.AnswerResult)
	}
	if outcome.Statistics == nil || outcome.Statistics.FinalScore != 100 || outcome.Statistics.Accuracy != 50 {
		t.Fatalf("statistics = %+v", outcome.Statistics)
	}

	// Session is torn down, final score is on the leaderboard.
	if _, err := env.playSvc.Stats(ctx, started.SessionID); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("stats after finish: got %v, want ErrSessionNotFound", err)
	}
	entries, err := env.playSvc.Leaderboard(ctx, game.ID, 0)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(entries) != 1 || entries[0].PlayerName != "Alice" || entries[0].Score != 100 {
		t.Fatalf("entries = %+v", entries)
	}
}

func TestStartRejectsUnpublishedAndUnknown(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	game := env.seedGame(t, false)

	if _, err := env.playSvc.Start(ctx, game.ID); !errors.Is(err, domain.ErrGameNotPublished) {
		t.Fatalf("draft game: got %v, want ErrGameNotPublished", err)
	}
	if _, err := env.playSvc.Start(ctx, "missing"); !errors.Is(err, domain.ErrGameNotFound) {
		t.Fatalf("unknown game: got %v, want ErrGameNotFound", err)
	}
}

func TestAnswerRejectionsLeaveSessionIntact(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	game := env.seedGame(t, true)

	started, err := env.playSvc.Start(ctx, game.ID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	cases := []struct {
		name string
		sub  domain.AnswerSubmission
		want error
	}{
		{"bet over points", domain.AnswerSubmission{SelectedAnswerIndex: 1, BetAmount: 999}, domain.ErrInsufficientPoints},
		{"bet below min", domain.AnswerSubmission{SelectedAnswerIndex: 1, BetAmount: 2}, domain.ErrBetTooLow},
		{"bet above max", domain.AnswerSubmission{SelectedAnswerIndex: 1, BetAmount: 60}, domain.ErrBetTooHigh},
		{"answer index out of range", domain.AnswerSubmission{SelectedAnswerIndex: 7, BetAmount: 10}, domain.ErrInvalidAnswerIndex},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := env.playSvc.Answer(ctx, game.ID, started.SessionID, "", tc.sub); !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}

	// After all rejections the session is still on question zero.
	stats, err := env.playSvc.Stats(ctx, started.SessionID)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalQuestions != 0 {
		t.Fatalf("answered = %d, want 0", stats.TotalQuestions)
	}
}

func TestBankruptcyEndsSession(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()

	game, err := env.gameSvc.CreateQuiz(ctx, creator(), app.CreateQuizInput{
		Name:        "All In",
		IsPublished: true,
		Config: domain.QuizConfig{
			Questions: []domain.QuizQuestion{
				{Question: "Q1", Options: []string{"a", "b"}, CorrectAnswerIndex: 0},
				{Question: "Q2", Options: []string{"a", "b"}, CorrectAnswerIndex: 0},
			},
			InitialPoints: 50,
		},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	started, err := env.playSvc.Start(ctx, game.ID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	outcome, err := env.playSvc.Answer(ctx, game.ID, started.SessionID, "Bob", domain.AnswerSubmission{
		SelectedAnswerIndex: 1, // wrong
		BetAmount:           50,
	})
	if err != nil {
		t.Fatalf("answer: %v", err)
	}
	if !outcome.IsGameFinished || outcome.NewPoints != 0 {
		t.Fatalf("outcome = %+v", outcome.AnswerResult)
	}
	if outcome.Statistics == nil || outcome.Statistics.FinalScore != 0 {
		t.Fatalf("statistics = %+v", outcome.Statistics)
	}

	entries, err := env.playSvc.Leaderboard(ctx, game.ID, 5)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(entries) != 1 || entries[0].Score != 0 {
		t.Fatalf("entries = %+v", entries)
	}
}

func TestLeaderboardOrderingAndLimit(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	game := env.seedGame(t, true)

	scores := []int{120, 200, 80}
	for _, score := range scores {
		if err := env.leaderboard.Append(ctx, domain.LeaderboardEntry{
			GameID: game.ID, PlayerName: "p", Score: score, AchievedAt: time.Now(),
		}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	entries, err := env.playSvc.Leaderboard(ctx, game.ID, 2)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(entries) != 2 || entries[0].Score != 200 || entries[1].Score != 120 {
		t.Fatalf("entries = %+v", entries)
	}

	if _, err := env.playSvc.Leaderboard(ctx, "missing", 2); !errors.Is(err, domain.ErrGameNotFound) {
		t.Fatalf("unknown game: got %v, want ErrGameNotFound", err)
	}
}
