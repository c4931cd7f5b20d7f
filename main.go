// main.go
package main

import (
	"log"

	"catalog-review/cmd"
	"catalog-review/internal/data/repository"
	"catalog-review/internal/wire"
	"catalog-review/migrations"
	"catalog-review/pkg/database"
	"catalog-review/pkg/events"
	"catalog-review/pkg/rabbitmq"
	"catalog-review/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	if config.Database.AutoMigrate {
		sqlDB := db.SQLDB()
		if err := migrations.Migrate(sqlDB); err != nil {
			logger.Fatal("Failed to apply migrations", zap.Error(err))
		}
		sqlDB.Close()
		logger.Info("Database migrations applied")
	}

	// Event publisher, optional
	var publisher events.Publisher = events.NopPublisher{}
	if config.RabbitMQ.URL != "" {
		client, err := rabbitmq.NewClient(rabbitmq.Config{
			URL:      config.RabbitMQ.URL,
			Exchange: config.RabbitMQ.Exchange,
		}, logger)
		if err != nil {
			logger.Fatal("Failed to connect to RabbitMQ", zap.Error(err))
		}
		defer client.Close()
		publisher = client
	} else {
		logger.Info("RABBITMQ_URL not set, domain events are discarded")
	}

	// Initialize all repositories
	repos := repository.NewRepository(db, logger)

	// Wire all dependencies
	app, err := wire.Wiring(repos, publisher, config, logger)
	if err != nil {
		logger.Fatal("Failed to wire application", zap.Error(err))
	}

	// Start server
	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	if err := cmd.APIServer(app.Router, config.App.Port, logger); err != nil {
		logger.Error("Server exited with error", zap.Error(err))
	}
}
