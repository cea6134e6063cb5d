package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"edugames-service/internal/app"
	"edugames-service/internal/auth"
	"edugames-service/internal/domain"
)

// GameHandler exposes the win-or-lose-quiz content CRUD over REST.
type GameHandler struct {
	games  *app.GameService
	logger *slog.Logger
}

func NewGameHandler(games *app.GameService, logger *slog.Logger) *GameHandler {
	return &GameHandler{games: games, logger: logger}
}

func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in app.CreateQuizInput
	if err := readJSON(r, &in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}

	game, err := h.games.CreateQuiz(r.Context(), auth.IdentityFromContext(r.Context()), in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, game)
}

func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	game, err := h.games.GetQuiz(r.Context(), auth.IdentityFromContext(r.Context()), chi.URLParam(r, "gameID"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, game)
}

func (h *GameHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in app.UpdateQuizInput
	if err := readJSON(r, &in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}

	game, err := h.games.UpdateQuiz(r.Context(), auth.IdentityFromContext(r.Context()), chi.URLParam(r, "gameID"), in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, game)
}

func (h *GameHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.games.DeleteQuiz(r.Context(), auth.IdentityFromContext(r.Context()), chi.URLParam(r, "gameID")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *GameHandler) List(w http.ResponseWriter, r *http.Request) {
	games, err := h.games.ListQuizzes(r.Context(), auth.IdentityFromContext(r.Context()))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if games == nil {
		games = []domain.Game{}
	}
	writeJSON(w, http.StatusOK, games)
}
