package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"edugames-service/internal/app"
	"edugames-service/internal/auth"
	"edugames-service/internal/config"
	"edugames-service/internal/infra/memory"
	"edugames-service/internal/infra/postgres"
	redisinfra "edugames-service/internal/infra/redis"
	transport "edugames-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the edugames server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	// Content and leaderboard live in Postgres when configured, otherwise
	// everything stays in process memory.
	var (
		games       app.GameStore
		leaderboard app.LeaderboardStore
		users       auth.UserStore
	)
	if pool != nil {
		games = postgres.NewGameStore(pool)
		leaderboard = postgres.NewLeaderboardStore(pool)
		users = postgres.NewUserStore(pool)
	} else {
		games = memory.NewGameStore()
		leaderboard = memory.NewLeaderboardStore()
		users = memory.NewUserStore()
	}

	sessionTTL := config.TTLDuration(cfg.Session.TTL, 30*time.Minute)
	cacheTTL := config.TTLDuration(cfg.Cache.TTL, 10*time.Minute)

	loader := app.NewConfigLoader(games)
	var configs interface {
		app.ConfigSource
		app.ConfigInvalidator
	}
	if redisClient != nil {
		configs = redisinfra.NewConfigCache(redisClient, loader, cacheTTL)
	} else {
		configs = memory.NewConfigCache(loader, cacheTTL)
	}

	var sessions app.SessionRegistry
	if redisClient != nil {
		sessions = redisinfra.NewSessionRegistry(redisClient, sessionTTL)
	} else {
		registry := memory.NewSessionRegistry(sessionTTL)
		go registry.Run(ctx, time.Minute)
		sessions = registry
	}

	gameService := app.NewGameService(games, configs)
	playService := app.NewPlayService(games, configs, sessions, leaderboard)

	secret := cfg.Auth.Secret
	if secret == "" {
		secret = "dev-secret-change-me"
		logger.Warn("auth secret not configured, using insecure default")
	}
	tokenTTL := config.TTLDuration(cfg.Auth.TokenTTL, 24*time.Hour)
	authService := auth.NewService(users, secret, tokenTTL)

	server := &http.Server{
		Addr:              ":" + finalPort,
		Handler:           transport.NewRouter(gameService, playService, authService, logger),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.Info("starting edugames service", "port", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "err", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		logger.Info("shutting down server")
	case <-ctx.Done():
		logger.Info("context canceled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
