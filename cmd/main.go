package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/joho/godotenv"
	"github.com/minio/minio-go/v7"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	_ "photo-map/docs"
	"photo-map/internal/config"
	"photo-map/internal/handlers"
	"photo-map/internal/metrics"
	"photo-map/internal/repository"
	"photo-map/internal/services"
	"photo-map/internal/services/cache"
	"photo-map/internal/services/caches"
	"photo-map/internal/storage"
)

// @title Photo Map API
// @version 1.0
// @description Upload geotagged photos, browse them in a gallery and on a map.
// @BasePath /api
func main() {
	// A missing .env file is fine; the environment may already be set.
	_ = godotenv.Load()

	cfg := InitConfig()
	logger := InitLogger(cfg)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db := ConnectDatabase(cfg, logger)
	photoRepo := repository.NewPhotoRepository(db)
	MigrateDatabase(photoRepo, logger)
	minioClient := InitMinIOClient(ctx, cfg, logger)

	m := metrics.NewMetrics(prometheus.DefaultRegisterer)
	blobs := storage.NewMinioBlobStore(minioClient, cfg.MinioBucket, m)
	urlCache := InitURLCache(ctx, cfg, logger)
	cacheService := services.NewCacheService(urlCache, blobs, cfg.SignedURLTTL, m, logger)
	sessions := services.NewSessionStore(cfg.SessionTTL, m, logger)
	go sessions.RunCleanup(ctx, time.Minute)
	photoService := services.NewPhotoService(photoRepo, blobs, cacheService, sessions, m, logger, cfg.MaxUploadBytes)
	photoService.SetImportLimits(cfg.MaxImportBytes, cfg.MaxImportEntries)

	app := fiber.New(fiber.Config{
		BodyLimit:             int(cfg.MaxArchiveBytes),
		DisableStartupMessage: true,
	})
	app.Use(handlers.Recovery(logger))
	app.Use(handlers.RequestLogger(logger))

	//Register Prometheus metrics endpoint
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	handlers.RegisterRoutes(app,
		handlers.NewUploadHandler(photoService, logger, cfg.MaxUploadBytes),
		handlers.NewPhotoHandler(photoService, logger),
	)

	routes := app.GetRoutes()
	logger.Info("registered routes", zap.Int("count", len(routes)))
	for _, r := range routes {
		logger.Debug("route", zap.String("method", r.Method), zap.String("path", r.Path))
	}

	go func() {
		<-ctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			logger.Error("shutdown failed", zap.Error(err))
		}
	}()

	logger.Info("server listening", zap.String("port", cfg.AppPort))
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func InitConfig() *config.Config {
	cfg, err := config.LoadConfig()
	if err != nil {
		// No logger yet: the level and format are part of the config.
		zap.NewExample().Fatal("config error", zap.Error(err))
	}
	return cfg
}

func InitLogger(cfg *config.Config) *zap.Logger {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}

	zapCfg := zap.NewProductionConfig()
	if cfg.LogFormat == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := zapCfg.Build()
	if err != nil {
		zap.NewExample().Fatal("logger initialization failed", zap.Error(err))
	}
	return logger
}

func ConnectDatabase(cfg *config.Config, logger *zap.Logger) *gorm.DB {
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		logger.Fatal("database connection failed", zap.String("driver", cfg.DBDriver), zap.Error(err))
	}
	return db
}

func MigrateDatabase(repo *repository.PhotoRepositoryImpl, logger *zap.Logger) {
	if err := repo.EnsureSchema(); err != nil {
		logger.Fatal("database migration failed", zap.Error(err))
	}
}

func InitMinIOClient(ctx context.Context, cfg *config.Config, logger *zap.Logger) *minio.Client {
	minioClient, err := storage.NewMinioClient(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("MinIO client initialization failed", zap.Error(err))
	}
	return minioClient
}

func InitURLCache(ctx context.Context, cfg *config.Config, logger *zap.Logger) cache.URLCache {
	if cfg.CacheBackend == config.CacheRedis {
		redisClient, err := storage.NewRedisClient(ctx, cfg.RedisHost, cfg.RedisPort)
		if err != nil {
			logger.Fatal("Redis client initialization failed", zap.Error(err))
		}
		logger.Info("signed url cache", zap.String("backend", "redis"))
		return caches.NewRedisCache(redisClient, logger)
	}
	logger.Info("signed url cache", zap.String("backend", "memory"), zap.Int("size", cfg.CacheSize))
	return caches.NewMemoryCache(cfg.CacheSize, cfg.SignedURLTTL)
}
