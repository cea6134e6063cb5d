package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"edugames-service/internal/domain"
)

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func readJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// writeError translates domain sentinels into HTTP statuses. Anything not
// recognized is a 500 and gets logged, never echoed to the client.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, domain.ErrGameNotFound),
		errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInsufficientPoints),
		errors.Is(err, domain.ErrBetTooLow),
		errors.Is(err, domain.ErrBetTooHigh),
		errors.Is(err, domain.ErrInvalidAnswerIndex),
		errors.Is(err, domain.ErrNoQuestions),
		errors.Is(err, domain.ErrBadAnswerIndex),
		errors.Is(err, domain.ErrBadOptionCount):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrForbidden),
		errors.Is(err, domain.ErrGameNotPublished):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrGameFinished),
		errors.Is(err, domain.ErrNoMoreQuestions),
		errors.Is(err, domain.ErrGameNameTaken),
		errors.Is(err, domain.ErrUserExists):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrBadCredentials):
		status = http.StatusUnauthorized
	}

	if status == http.StatusInternalServerError {
		logger.Error("internal error", "err", err)
		writeJSON(w, status, errorBody{Error: "internal server error"})
		return
	}
	writeJSON(w, status, errorBody{Error: err.Error()})
}
