// main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"movie-catalog/cmd"
	"movie-catalog/internal/data/repository"
	"movie-catalog/internal/usecase"
	"movie-catalog/internal/wire"
	"movie-catalog/migrations"
	"movie-catalog/pkg/cache"
	"movie-catalog/pkg/database"
	"movie-catalog/pkg/mailer"
	"movie-catalog/pkg/media"
	"movie-catalog/pkg/middleware"
	"movie-catalog/pkg/queue"
	"movie-catalog/pkg/utils"

	"go.uber.org/zap"
)

const sessionCleanupInterval = time.Hour

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Name, config.App.Debug)
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database
	db, err := database.InitDB(ctx, config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	if err := database.Migrate(migrations.FS, database.DSN(config.Database, "pgx5"), logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Initialize all repositories
	repos := repository.NewRepository(db, logger)

	deps := usecase.Deps{
		Repo:      repos,
		Config:    config,
		Publisher: queue.NewPublisher(config.RabbitMQ.URL, logger),
	}
	defer deps.Publisher.Close()

	// redis is optional, access checks fall back to the database
	if config.Redis.Addr != "" {
		redisCache, err := cache.InitRedis(ctx, config.Redis)
		if err != nil {
			logger.Warn("Redis unavailable, running without cache", zap.Error(err))
		} else {
			defer redisCache.Close()
			deps.Cache = redisCache
		}
	}

	if deps.Mailer, err = mailer.New(config.Email, config.App.Name, logger); err != nil {
		logger.Fatal("Failed to init mailer", zap.Error(err))
	}
	if deps.Media, err = media.NewStore(ctx, config.Media, logger); err != nil {
		logger.Fatal("Failed to init media store", zap.Error(err))
	}

	service := usecase.NewService(deps, logger)

	if err := service.User.EnsureAdmin(ctx, config.Admin.Email, config.Admin.Password); err != nil {
		logger.Fatal("Failed to seed admin account", zap.Error(err))
	}

	if config.RabbitMQ.URL != "" {
		consumer := queue.NewConsumer(config.RabbitMQ.URL, service.Notification.HandleRequestReviewed, logger)
		go func() {
			if err := consumer.Run(ctx); err != nil && ctx.Err() == nil {
				logger.Error("Notification consumer stopped", zap.Error(err))
			}
		}()
	}

	go cleanSessions(ctx, repos, logger)

	cookies := middleware.NewSessionStore(config.Session.Secret, config.Session.ExpiryHours*3600, !config.App.Debug)

	// Wire all dependencies
	app := wire.Wiring(service, repos, cookies, config, logger)

	// Start server
	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	if err := cmd.APIServer(ctx, app.Router, config.App.Port, logger); err != nil {
		logger.Error("Server error", zap.Error(err))
	}
}

func cleanSessions(ctx context.Context, repos *repository.Repository, logger *zap.Logger) {
	ticker := time.NewTicker(sessionCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := repos.Session.CleanExpiredSessions(ctx)
			if err != nil {
				logger.Error("Failed to clean expired sessions", zap.Error(err))
				continue
			}
			if n > 0 {
				logger.Info("Expired sessions cleaned", zap.Int64("deleted", n))
			}
		}
	}
}
