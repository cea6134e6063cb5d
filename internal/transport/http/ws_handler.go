package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"edugames-service/internal/app"
	"edugames-service/internal/domain"
)

// WSHandler runs a full play session over a single websocket connection:
// one session per connection, one answer per inbound frame. Session state
// still lives in the registry, so a dropped connection can resume over
// REST with the same session id.
type WSHandler struct {
	play     *app.PlayService
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(play *app.PlayService, logger *slog.Logger) *WSHandler {
	return &WSHandler{
		play:   play,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type answerPayload struct {
	SelectedAnswerIndex int    `json:"selectedAnswerIndex"`
	BetAmount           int    `json:"betAmount"`
	PlayerName          string `json:"playerName,omitempty"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades the request and drives the session loop until the game
// finishes or the client goes away.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	gameID := r.URL.Query().Get("gameId")
	if gameID == "" {
		http.Error(w, "missing gameId", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("ws upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	started, err := h.play.Start(r.Context(), gameID)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	if err := conn.WriteJSON(outboundMessage[*app.StartResult]{Type: "started", Payload: started}); err != nil {
		h.logger.Warn("ws write error", "err", err)
		return
	}

	for {
		var msg inboundMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Warn("ws read error", "err", err)
			}
			return
		}
		if msg.Type != "answer" {
			_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: "unknown message type: " + msg.Type}})
			continue
		}

		var payload answerPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: "malformed answer payload"}})
			continue
		}

		outcome, err := h.play.Answer(r.Context(), gameID, started.SessionID, payload.PlayerName, domain.AnswerSubmission{
			SelectedAnswerIndex: payload.SelectedAnswerIndex,
			BetAmount:           payload.BetAmount,
		})
		if err != nil {
			// Rejected bets and bad indexes leave the session alive; keep
			// the connection open so the client can retry.
			_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
			continue
		}

		if err := conn.WriteJSON(outboundMessage[*app.AnswerOutcome]{Type: "answerResult", Payload: outcome}); err != nil {
			h.logger.Warn("ws write error", "err", err)
			return
		}
		if outcome.IsGameFinished {
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "game finished"))
			return
		}
	}
}
