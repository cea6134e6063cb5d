package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"edugames-service/internal/app"
	"edugames-service/internal/auth"
)

// NewRouter assembles the full HTTP surface: REST content CRUD, the
// anonymous play flow, account endpoints, and the websocket play channel.
func NewRouter(games *app.GameService, play *app.PlayService, authSvc *auth.Service, logger *slog.Logger) http.Handler {
	gameHandler := NewGameHandler(games, logger)
	playHandler := NewPlayHandler(play, logger)
	authHandler := NewAuthHandler(authSvc, logger)
	wsHandler := NewWSHandler(play, logger)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(newStructuredLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(authSvc.Middleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		r.Route("/games/win-or-lose-quiz", func(r chi.Router) {
			r.Post("/", gameHandler.Create)
			r.Get("/", gameHandler.List)

			r.Route("/{gameID}", func(r chi.Router) {
				r.Get("/", gameHandler.Get)
				r.Patch("/", gameHandler.Update)
				r.Delete("/", gameHandler.Delete)

				r.Post("/play", playHandler.Start)
				r.Post("/answer", playHandler.Answer)
				r.Get("/stats/{sessionID}", playHandler.Stats)
				r.Get("/leaderboard", playHandler.Leaderboard)
			})
		})
	})

	r.Get("/ws/play", wsHandler.ServeWS)

	return r
}

func newStructuredLogger(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				logger.Info("http request",
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.Status(),
					"bytes", ww.BytesWritten(),
					"duration_ms", time.Since(start).Milliseconds(),
					"request_id", middleware.GetReqID(r.Context()),
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
