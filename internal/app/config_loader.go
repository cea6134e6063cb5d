package app

import (
	"context"
	"encoding/json"
	"fmt"

	"edugames-service/internal/domain"
)

// ConfigLoader decodes the win-or-lose-quiz payload straight from the game
// store. The infra caches (memory, Redis) sit in front of it.
type ConfigLoader struct {
	games GameStore
}

func NewConfigLoader(games GameStore) *ConfigLoader {
	return &ConfigLoader{games: games}
}

func (l *ConfigLoader) LoadQuizConfig(ctx context.Context, gameID string) (domain.QuizConfig, error) {
	game, err := l.games.GetByID(ctx, gameID)
	if err != nil {
		return domain.QuizConfig{}, err
	}
	if game.TemplateSlug != domain.TemplateWinOrLoseQuiz {
		return domain.QuizConfig{}, domain.ErrGameNotFound
	}

	var cfg domain.QuizConfig
	if err := json.Unmarshal(game.Config, &cfg); err != nil {
		return domain.QuizConfig{}, fmt.Errorf("decode quiz config: %w", err)
	}
	return cfg, nil
}
