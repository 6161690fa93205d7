package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexivanou/weather-requests-api/internal/api"
	"github.com/alexivanou/weather-requests-api/internal/auth"
	"github.com/alexivanou/weather-requests-api/internal/config"
	"github.com/alexivanou/weather-requests-api/internal/database"
	"github.com/alexivanou/weather-requests-api/internal/openmeteo"
	"github.com/alexivanou/weather-requests-api/internal/repository"
	"github.com/alexivanou/weather-requests-api/internal/service"
	"github.com/alexivanou/weather-requests-api/internal/stats"
	"github.com/alexivanou/weather-requests-api/internal/weather"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	db, err := database.Connect(context.Background(), cfg.DB)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatal("Failed to ping database", zap.Error(err))
	}
	logger.Info("Connected to database", zap.String("type", string(cfg.DB.Type)))

	// Run migrations
	if err := database.Migrate(db, cfg.DB, "migrations"); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	repos := repository.NewRepositories(db, cfg.DB.Type)

	client := openmeteo.NewClient(cfg.Weather, logger.Named("openmeteo"))
	resolver := weather.NewResolver(client)
	sessions := auth.NewSessionStore(repos.Session, cfg.Auth.SessionTTL)

	sweeper := auth.NewSweeper(sessions, cfg.Auth.SweepInterval, logger.Named("sweeper"))
	if err := sweeper.Start(); err != nil {
		logger.Fatal("Failed to start session sweeper", zap.Error(err))
	}
	defer sweeper.Stop()

	svc := service.NewService(repos.User, repos.WeatherRequest, sessions, client, resolver)
	statsCollector := stats.NewCollector(db, cfg.DB).WithUpstream(client)
	router := api.NewRouter(svc, statsCollector, logger.Named("http"))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
