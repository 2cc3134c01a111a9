package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/officegames/rating-system/config"
	"github.com/officegames/rating-system/db"
	"github.com/officegames/rating-system/handlers"
	"github.com/officegames/rating-system/metrics"
	"github.com/officegames/rating-system/notifications"
	"github.com/officegames/rating-system/repositories"
	api "github.com/officegames/rating-system/routes"
	"github.com/officegames/rating-system/services"
	"github.com/officegames/rating-system/storage"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		}
	}()
	logger.Info("database connection established")

	var uploader storage.FileUploader
	if cfg.R2Enabled() {
		uploader, err = storage.NewR2Uploader(context.Background(), storage.R2Config{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("R2 uploader initialized")
	} else {
		logger.Info("R2 not configured, avatar uploads disabled")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	appMetrics := metrics.New(registry)

	wsHub := notifications.NewHub(logger)
	go wsHub.Run()

	notifier := notifications.MultiNotifier{wsHub}
	if cfg.SlackWebhookURL != "" {
		notifier = append(notifier, notifications.NewSlackNotifier(cfg.SlackWebhookURL))
	}

	userRepo := repositories.NewPostgresUserRepository(dbConn)
	guestRepo := repositories.NewPostgresGuestRepository(dbConn)
	gameRepo := repositories.NewPostgresGameRepository(dbConn)
	seasonRepo := repositories.NewPostgresSeasonRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	ratingRepo := repositories.NewPostgresRatingRepository(dbConn)

	txRunner := services.NewSQLTxRunner(dbConn)
	authService := services.NewAuthService(userRepo, []byte(cfg.JWTSecretKey))
	userService := services.NewUserService(userRepo, guestRepo, uploader)
	gameService := services.NewGameService(gameRepo)
	seasonService := services.NewSeasonService(seasonRepo, gameRepo, txRunner)
	rosterService := services.NewRosterService(userRepo, guestRepo)
	transferService := services.NewTransferService(ratingRepo)
	leaderboardService := services.NewLeaderboardService(ratingRepo, gameRepo)
	matchService := services.NewMatchService(
		matchRepo,
		gameRepo,
		seasonRepo,
		ratingRepo,
		rosterService,
		transferService,
		txRunner,
		notifier,
		appMetrics,
		logger,
		cfg.Rating,
	)
	logger.Info("services initialized")

	router := chi.NewRouter()
	api.Setup(router, api.Handlers{
		Auth:        handlers.NewAuthHandler(authService),
		User:        handlers.NewUserHandler(userService),
		Game:        handlers.NewGameHandler(gameService),
		Season:      handlers.NewSeasonHandler(seasonService),
		Match:       handlers.NewMatchHandler(matchService),
		Leaderboard: handlers.NewLeaderboardHandler(leaderboardService),
		WebSocket:   handlers.NewWebSocketHandler(wsHub, logger),
	}, authService, cfg.CORSAllowedOrigins, registry)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
}
