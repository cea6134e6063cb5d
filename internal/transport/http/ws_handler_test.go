package http

import (
	"net/http"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestWebSocketPlayFlow(t *testing.T) {
	server := newTestServer(t)
	token := registerUser(t, server.URL, "creator")
	gameID := createPublishedQuiz(t, server.URL, token, "WS Quiz")

	u := "ws" + server.URL[len("http"):] + "/ws/play?gameId=" + gameID
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// Expect the started frame first.
	_, payload := readNext(conn, t, "started")
	if payload["sessionId"] == "" {
		t.Fatal("started frame missing session id")
	}
	if payload["playerPoints"].(float64) != 100 {
		t.Fatalf("playerPoints = %v, want 100", payload["playerPoints"])
	}

	// An over-limit bet is an error frame, but the session stays alive.
	send := map[string]any{
		"type":    "answer",
		"payload": map[string]any{"selectedAnswerIndex": 1, "betAmount": 999},
	}
	if err := conn.WriteJSON(send); err != nil {
		t.Fatalf("write answer: %v", err)
	}
	readNext(conn, t, "error")

	// Correct answer advances the game.
	send["payload"] = map[string]any{"selectedAnswerIndex": 1, "betAmount": 10}
	if err := conn.WriteJSON(send); err != nil {
		t.Fatalf("write answer: %v", err)
	}
	_, payload = readNext(conn, t, "answerResult")
	if payload["isCorrect"] != true {
		t.Fatalf("isCorrect = %v, want true", payload["isCorrect"])
	}
	if payload["newPoints"].(float64) != 110 {
		t.Fatalf("newPoints = %v, want 110", payload["newPoints"])
	}

	// Wrong answer on the last question finishes the game; the final frame
	// carries the statistics and the server closes the connection.
	send["payload"] = map[string]any{"selectedAnswerIndex": 1, "betAmount": 10, "playerName": "Alice"}
	if err := conn.WriteJSON(send); err != nil {
		t.Fatalf("write answer: %v", err)
	}
	_, payload = readNext(conn, t, "answerResult")
	if payload["isGameFinished"] != true {
		t.Fatalf("isGameFinished = %v, want true", payload["isGameFinished"])
	}
	if payload["statistics"] == nil {
		t.Fatal("final frame missing statistics")
	}

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if _, _, err := conn.ReadMessage(); !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
		t.Fatalf("expected normal close, got %v", err)
	}
}

func TestWebSocketUnknownGame(t *testing.T) {
	server := newTestServer(t)

	u := "ws" + server.URL[len("http"):] + "/ws/play?gameId=missing"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	readNext(conn, t, "error")
}

func TestWebSocketMissingGameID(t *testing.T) {
	server := newTestServer(t)

	u := "ws" + server.URL[len("http"):] + "/ws/play"
	_, resp, err := websocket.DefaultDialer.Dial(u, nil)
	if err == nil {
		t.Fatal("expected handshake failure")
	}
	if resp == nil || resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("handshake response = %+v, want 400", resp)
	}
}

func readNext(conn *websocket.Conn, t *testing.T, expect string) (string, map[string]any) {
	t.Helper()
	var msg struct {
		Type    string         `json:"type"`
		Payload map[string]any `json:"payload"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read json: %v", err)
	}
	if expect != "" && msg.Type != expect {
		t.Fatalf("expected type %s, got %s", expect, msg.Type)
	}
	return msg.Type, msg.Payload
}
