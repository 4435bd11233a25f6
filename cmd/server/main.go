package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	goredis "github.com/redis/go-redis/v9"

	"github.com/hutamy/go-invoice-frontend/internal/api"
	"github.com/hutamy/go-invoice-frontend/internal/config"
	"github.com/hutamy/go-invoice-frontend/internal/logging"
	"github.com/hutamy/go-invoice-frontend/internal/server"
	"github.com/hutamy/go-invoice-frontend/internal/token"
)

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func setupRedis(ctx context.Context, redisURL string) *goredis.Client {
	opts, err := goredis.ParseURL(redisURL)
	if err != nil {
		slog.Error("Invalid Redis URL", "error", err)
		os.Exit(1)
	}

	client := goredis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	return client
}

func newBackendHTTPClient(cfg *config.Config) *http.Client {
	client := &http.Client{Timeout: cfg.BackendTimeout}
	if cfg.BreakerEnabled {
		client.Transport = api.NewBreakerTransport(nil)
	}
	return client
}

func runGracefulShutdown(srv *server.Server, stopEviction func(), redisClient *goredis.Client) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		stopEviction()
		if err := redisClient.Close(); err != nil {
			slog.Error("Failed to close Redis client", "error", err)
		}

		close(done)
	}()

	return done
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	// Initialize structured logging
	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port)

	redisClient := setupRedis(context.Background(), cfg.RedisURL)

	// The backend clients share one HTTP client so the circuit breaker sees
	// every request.
	httpClient := newBackendHTTPClient(cfg)

	manager := api.NewManager(cfg.ClientIdleTTL, clock, func(sessionID uuid.UUID) *api.Client {
		return api.New(api.Options{
			BaseURL:    cfg.BackendBaseURL,
			Tokens:     token.NewRedisStore(redisClient, sessionID, cfg.SessionMaxAge),
			HTTPClient: httpClient,
			OnAuthFailure: func() {
				logging.WithSession(sessionID.String()).Info("Session terminated after failed token refresh")
			},
		})
	})
	stopEviction := manager.StartEvictionTimer(5 * time.Minute)

	publicClient := api.New(api.Options{
		BaseURL:    cfg.BackendBaseURL,
		Tokens:     token.NewMemoryStore(),
		HTTPClient: httpClient,
	})

	srv, err := server.NewServer(cfg, manager, publicClient, redisClient)
	if err != nil {
		slog.Error("Failed to create server", "error", err)
		os.Exit(1)
	}

	done := runGracefulShutdown(srv, stopEviction, redisClient)

	slog.Info("Server starting", "port", cfg.Port)
	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}
