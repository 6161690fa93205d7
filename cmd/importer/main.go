package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/alexivanou/weather-requests-api/internal/auth"
	"github.com/alexivanou/weather-requests-api/internal/config"
	"github.com/alexivanou/weather-requests-api/internal/database"
	"github.com/alexivanou/weather-requests-api/internal/importer"
	"github.com/alexivanou/weather-requests-api/internal/openmeteo"
	"github.com/alexivanou/weather-requests-api/internal/repository"
	"github.com/alexivanou/weather-requests-api/internal/service"
	"github.com/alexivanou/weather-requests-api/internal/weather"
	"go.uber.org/zap"
)

func main() {
	var (
		file     = flag.String("file", "", "Tab-separated file (or .zip) of weather requests to import")
		username = flag.String("username", "", "Owner of the imported requests")
	)
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if *file == "" || *username == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}
	if cfg.DB.IsMemory() {
		logger.Warn("Importing into an in-memory database; the data is discarded when this process exits")
	}

	ctx := context.Background()
	db, err := database.Connect(ctx, cfg.DB)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := database.Migrate(db, cfg.DB, "migrations"); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	repos := repository.NewRepositories(db, cfg.DB.Type)
	user, err := repos.User.GetUserByUsername(ctx, *username)
	if err != nil {
		logger.Fatal("Failed to look up user", zap.Error(err))
	}
	if user == nil {
		logger.Fatal("Unknown user", zap.String("username", *username))
	}

	client := openmeteo.NewClient(cfg.Weather, logger.Named("openmeteo"))
	sessions := auth.NewSessionStore(repos.Session, cfg.Auth.SessionTTL)
	svc := service.NewService(repos.User, repos.WeatherRequest, sessions, client, weather.NewResolver(client))

	logger.Info("Starting import", zap.String("file", *file), zap.String("username", user.Username))
	start := time.Now()

	imp := importer.NewImporter(importer.NewParser(cfg.Importer), svc, logger)
	result, err := imp.Run(ctx, *file, user.ID)
	if err != nil {
		logger.Fatal("Import failed", zap.Error(err))
	}

	logger.Info("Import completed",
		zap.Int("imported", result.Imported),
		zap.Int("skipped", len(result.Failures)),
		zap.Duration("took", time.Since(start)),
	)
}
