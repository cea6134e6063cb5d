package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"edugames-service/internal/domain"
	"edugames-service/internal/quiz"
)

// GameStore persists generic game content records.
type GameStore interface {
	Create(ctx context.Context, g domain.Game) error
	GetByID(ctx context.Context, id string) (domain.Game, error)
	GetByName(ctx context.Context, name string) (domain.Game, error)
	Update(ctx context.Context, g domain.Game) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, templateSlug, creatorID string) ([]domain.Game, error)
	IncrementPlayCount(ctx context.Context, id string) error
}

// Identity is the resolved caller: a user id plus role, or anonymous.
type Identity struct {
	UserID string
	Role   string
}

func (id Identity) Anonymous() bool { return id.UserID == "" }

// canManage reports whether the identity may mutate a game record.
func (id Identity) canManage(g domain.Game) bool {
	return id.Role == domain.RoleSuperAdmin || (id.UserID != "" && id.UserID == g.CreatorID)
}

// ConfigInvalidator drops cached quiz configs after a game record changed.
type ConfigInvalidator interface {
	Invalidate(ctx context.Context, gameID string)
}

// GameService is the content CRUD layer: it validates and persists game
// records, treating the per-template payload as an opaque document except
// for the win-or-lose-quiz, whose config the engine validates.
type GameService struct {
	games GameStore
	cache ConfigInvalidator
	clock func() time.Time
}

// NewGameService builds the CRUD service. cache may be nil when no config
// cache sits in front of the store.
func NewGameService(games GameStore, cache ConfigInvalidator) *GameService {
	return &GameService{games: games, cache: cache, clock: time.Now}
}

func (s *GameService) invalidate(ctx context.Context, gameID string) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, gameID)
	}
}

// CreateQuizInput carries the fields of a new win-or-lose-quiz.
type CreateQuizInput struct {
	Name           string            `json:"name"`
	Description    string            `json:"description"`
	ThumbnailImage string            `json:"thumbnailImage"`
	IsPublished    bool              `json:"isPublished"`
	Config         domain.QuizConfig `json:"config"`
}

// CreateQuiz validates and persists a new betting quiz owned by the caller.
func (s *GameService) CreateQuiz(ctx context.Context, id Identity, in CreateQuizInput) (domain.Game, error) {
	if id.Anonymous() {
		return domain.Game{}, domain.ErrForbidden
	}

	cfg := applyQuizDefaults(in.Config)
	if err := quiz.ValidateConfig(cfg); err != nil {
		return domain.Game{}, err
	}
	if cfg.MaxBetAmount > 0 && cfg.MaxBetAmount < cfg.MinBetAmount {
		return domain.Game{}, fmt.Errorf("%w: max bet %d below min bet %d",
			domain.ErrBetTooHigh, cfg.MaxBetAmount, cfg.MinBetAmount)
	}

	if in.Name != "" {
		if _, err := s.games.GetByName(ctx, in.Name); err == nil {
			return domain.Game{}, domain.ErrGameNameTaken
		} else if !errors.Is(err, domain.ErrGameNotFound) {
			return domain.Game{}, err
		}
	}

	raw, err := json.Marshal(cfg)
	if err != nil {
		return domain.Game{}, fmt.Errorf("encode config: %w", err)
	}

	now := s.clock()
	game := domain.Game{
		ID:             uuid.NewString(),
		TemplateSlug:   domain.TemplateWinOrLoseQuiz,
		CreatorID:      id.UserID,
		Name:           in.Name,
		Description:    in.Description,
		ThumbnailImage: in.ThumbnailImage,
		IsPublished:    in.IsPublished,
		Config:         raw,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if game.Name == "" {
		game.Name = "Win or Lose Quiz " + game.ID[:8]
	}
	if game.Description == "" {
		game.Description = "A betting-based quiz game"
	}
	if game.ThumbnailImage == "" {
		game.ThumbnailImage = "/default-thumbnail.png"
	}

	if err := s.games.Create(ctx, game); err != nil {
		return domain.Game{}, err
	}
	return game, nil
}

// GetQuiz returns a quiz record including its config. Unpublished games are
// only visible to their creator and admins.
func (s *GameService) GetQuiz(ctx context.Context, id Identity, gameID string) (domain.Game, error) {
	game, err := s.games.GetByID(ctx, gameID)
	if err != nil {
		return domain.Game{}, err
	}
	if game.TemplateSlug != domain.TemplateWinOrLoseQuiz {
		return domain.Game{}, domain.ErrGameNotFound
	}
	if !id.canManage(game) {
		return domain.Game{}, domain.ErrForbidden
	}
	return game, nil
}

// UpdateQuizInput is a partial update; nil fields keep their stored value.
type UpdateQuizInput struct {
	Name           *string               `json:"name"`
	Description    *string               `json:"description"`
	ThumbnailImage *string               `json:"thumbnailImage"`
	IsPublished    *bool                 `json:"isPublished"`
	Questions      []domain.QuizQuestion `json:"questions"`
	InitialPoints  *int                  `json:"initialPoints"`
	MinBetAmount   *int                  `json:"minBetAmount"`
	MaxBetAmount   *int                  `json:"maxBetAmount"`
}

// UpdateQuiz merges a partial update into the stored record. The merged
// config goes through full validation again before it replaces the old one.
func (s *GameService) UpdateQuiz(ctx context.Context, id Identity, gameID string, in UpdateQuizInput) (domain.Game, error) {
	game, err := s.games.GetByID(ctx, gameID)
	if err != nil {
		return domain.Game{}, err
	}
	if game.TemplateSlug != domain.TemplateWinOrLoseQuiz {
		return domain.Game{}, domain.ErrGameNotFound
	}
	if !id.canManage(game) {
		return domain.Game{}, domain.ErrForbidden
	}

	if in.Name != nil && *in.Name != game.Name {
		if other, err := s.games.GetByName(ctx, *in.Name); err == nil && other.ID != game.ID {
			return domain.Game{}, domain.ErrGameNameTaken
		} else if err != nil && !errors.Is(err, domain.ErrGameNotFound) {
			return domain.Game{}, err
		}
		game.Name = *in.Name
	}
	if in.Description != nil {
		game.Description = *in.Description
	}
	if in.ThumbnailImage != nil {
		game.ThumbnailImage = *in.ThumbnailImage
	}
	if in.IsPublished != nil {
		game.IsPublished = *in.IsPublished
	}

	var cfg domain.QuizConfig
	if err := json.Unmarshal(game.Config, &cfg); err != nil {
		return domain.Game{}, fmt.Errorf("decode stored config: %w", err)
	}
	if in.Questions != nil {
		cfg.Questions = in.Questions
	}
	if in.InitialPoints != nil {
		cfg.InitialPoints = *in.InitialPoints
	}
	if in.MinBetAmount != nil {
		cfg.MinBetAmount = *in.MinBetAmount
	}
	if in.MaxBetAmount != nil {
		cfg.MaxBetAmount = *in.MaxBetAmount
	}
	cfg = applyQuizDefaults(cfg)

	if err := quiz.ValidateConfig(cfg); err != nil {
		return domain.Game{}, err
	}
	if cfg.MaxBetAmount > 0 && cfg.MaxBetAmount < cfg.MinBetAmount {
		return domain.Game{}, fmt.Errorf("%w: max bet %d below min bet %d",
			domain.ErrBetTooHigh, cfg.MaxBetAmount, cfg.MinBetAmount)
	}

	raw, err := json.Marshal(cfg)
	if err != nil {
		return domain.Game{}, fmt.Errorf("encode config: %w", err)
	}
	game.Config = raw
	game.UpdatedAt = s.clock()

	if err := s.games.Update(ctx, game); err != nil {
		return domain.Game{}, err
	}
	s.invalidate(ctx, gameID)
	return game, nil
}

// DeleteQuiz removes a quiz record.
func (s *GameService) DeleteQuiz(ctx context.Context, id Identity, gameID string) error {
	game, err := s.games.GetByID(ctx, gameID)
	if err != nil {
		return err
	}
	if game.TemplateSlug != domain.TemplateWinOrLoseQuiz {
		return domain.ErrGameNotFound
	}
	if !id.canManage(game) {
		return domain.ErrForbidden
	}
	if err := s.games.Delete(ctx, gameID); err != nil {
		return err
	}
	s.invalidate(ctx, gameID)
	return nil
}

// ListQuizzes lists the caller's quizzes (all of them for admins).
func (s *GameService) ListQuizzes(ctx context.Context, id Identity) ([]domain.Game, error) {
	if id.Anonymous() {
		return nil, domain.ErrForbidden
	}
	creator := id.UserID
	if id.Role == domain.RoleSuperAdmin {
		creator = ""
	}
	return s.games.List(ctx, domain.TemplateWinOrLoseQuiz, creator)
}

func applyQuizDefaults(cfg domain.QuizConfig) domain.QuizConfig {
	if cfg.InitialPoints <= 0 {
		cfg.InitialPoints = 100
	}
	if cfg.MinBetAmount <= 0 {
		cfg.MinBetAmount = 1
	}
	return cfg
}
