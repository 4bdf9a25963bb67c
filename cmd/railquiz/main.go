package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	api "github.com/mind-engage/railquiz/internal/api/http"
	"github.com/mind-engage/railquiz/internal/config"
	"github.com/mind-engage/railquiz/internal/db"
	"github.com/mind-engage/railquiz/internal/logging"
	"github.com/mind-engage/railquiz/internal/ollama"
	"github.com/mind-engage/railquiz/internal/quiz"
	"github.com/mind-engage/railquiz/internal/session"
	"github.com/mind-engage/railquiz/internal/telemetry"
	"github.com/mind-engage/railquiz/internal/web"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
)

func main() {
	// .env is optional
	_ = godotenv.Load()
	cfg := config.FromEnv()
	telemetry.InstallPropagator()

	logger, logFile, err := logging.Open(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logging: %v", err)
	}
	defer logFile.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Sessions ---
	backend, err := openBackend(ctx, cfg, logger)
	if err != nil {
		logger.Error("session backend", "driver", cfg.SessionDriver, "err", err)
		os.Exit(1)
	}
	defer backend.Close()

	secret, err := session.NewSecret()
	if err != nil {
		logger.Error("session secret", "err", err)
		os.Exit(1)
	}
	sm, err := session.NewManager(secret, backend, session.Options{TTL: cfg.SessionTTL, Secure: cfg.SecureCookies()})
	if err != nil {
		logger.Error("session manager", "err", err)
		os.Exit(1)
	}

	// --- Quiz ---
	client := ollama.New(ollama.Config{
		Endpoint:    cfg.OllamaEndpoint,
		Model:       cfg.OllamaModel,
		Temperature: cfg.OllamaTemperature,
		TopP:        cfg.OllamaTopP,
		Timeout:     cfg.OllamaTimeout,
	})
	svc := quiz.NewService(client, logger)

	pages, err := web.LoadPages()
	if err != nil {
		logger.Error("templates", "err", err)
		os.Exit(1)
	}

	// --- Router ---
	r := chi.NewRouter()
	accessLog := &middleware.DefaultLogFormatter{Logger: slog.NewLogLogger(logger.Handler(), slog.LevelInfo), NoColor: true}
	r.Use(middleware.RequestID, middleware.RealIP, middleware.RequestLogger(accessLog), middleware.Recoverer)
	if cfg.HTTPTimeout > 0 {
		r.Use(middleware.Timeout(cfg.HTTPTimeout))
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	api.MountQuiz(r, svc, sm, pages, logger)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: telemetry.Handler(r, "railquiz"), ReadHeaderTimeout: 10 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("listening", "addr", cfg.HTTPAddr, "mode", cfg.Mode, "sessions", cfg.SessionDriver,
		"model", cfg.OllamaModel, "endpoint", cfg.OllamaEndpoint)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server", "err", err)
		os.Exit(1)
	}
	logger.Info("shutdown complete")
}

const purgeEvery = 10 * time.Minute

func openBackend(ctx context.Context, cfg config.Config, logger *slog.Logger) (session.Backend, error) {
	switch cfg.SessionDriver {
	case "memory", "":
		b := session.NewMemoryBackend()
		go session.RunPurger(ctx, b, purgeEvery, logger)
		return b, nil
	case "sqlite", "postgres":
		openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		dbh, err := db.Open(openCtx, db.Driver(cfg.SessionDriver), cfg.DBDSN)
		if err != nil {
			return nil, err
		}
		b := session.NewSQLBackend(dbh)
		go session.RunPurger(ctx, b, purgeEvery, logger)
		return b, nil
	case "redis":
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return session.NewRedisBackend(pingCtx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	default:
		return nil, fmt.Errorf("unknown SESSION_DRIVER %q", cfg.SessionDriver)
	}
}
