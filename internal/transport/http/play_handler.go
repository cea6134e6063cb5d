package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"edugames-service/internal/app"
	"edugames-service/internal/domain"
)

// PlayHandler exposes the play flow: start a session, submit answers,
// read statistics and the leaderboard. All of it is anonymous.
type PlayHandler struct {
	play   *app.PlayService
	logger *slog.Logger
}

func NewPlayHandler(play *app.PlayService, logger *slog.Logger) *PlayHandler {
	return &PlayHandler{play: play, logger: logger}
}

func (h *PlayHandler) Start(w http.ResponseWriter, r *http.Request) {
	result, err := h.play.Start(r.Context(), chi.URLParam(r, "gameID"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

type answerRequest struct {
	SessionID           string `json:"sessionId"`
	SelectedAnswerIndex int    `json:"selectedAnswerIndex"`
	BetAmount           int    `json:"betAmount"`
	PlayerName          string `json:"playerName,omitempty"`
}

func (h *PlayHandler) Answer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := readJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}
	if req.SessionID == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "sessionId is required"})
		return
	}

	outcome, err := h.play.Answer(r.Context(), chi.URLParam(r, "gameID"), req.SessionID, req.PlayerName, domain.AnswerSubmission{
		SelectedAnswerIndex: req.SelectedAnswerIndex,
		BetAmount:           req.BetAmount,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}

func (h *PlayHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.play.Stats(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *PlayHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	entries, err := h.play.Leaderboard(r.Context(), chi.URLParam(r, "gameID"), limit)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if entries == nil {
		entries = []domain.LeaderboardEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}
