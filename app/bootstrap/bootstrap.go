package bootstrap

import (
	"log"
	"time"

	"github.com/aihub/citeguard-go/internal/citation"
	"github.com/aihub/citeguard-go/internal/config"
	"github.com/aihub/citeguard-go/internal/database"
	"github.com/aihub/citeguard-go/internal/kafka"
	"github.com/aihub/citeguard-go/internal/knowledge"
	"github.com/aihub/citeguard-go/internal/logger"
	"github.com/aihub/citeguard-go/internal/repository"
	"github.com/aihub/citeguard-go/internal/services"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// App encapsulates lifecycle resources that need to be cleaned up on shutdown.
type App struct {
	ValidationService *services.ValidationService
	DocumentService   *services.DocumentService
	RetrievalService  *services.RetrievalService

	cleanupTasks []func() error
}

// Init bootstraps configuration, logger, database connections and the
// service graph required by the Beego application.
func Init() (*App, error) {
	// Load environment variables from .env if present (non-fatal if missing).
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	if err := logger.InitLogger(); err != nil {
		return nil, err
	}

	if err := config.LoadConfig(); err != nil {
		return nil, err
	}
	cfg := config.AppConfig

	app := &App{}

	db, err := database.InitDB()
	if err != nil {
		return nil, err
	}
	app.cleanupTasks = append(app.cleanupTasks, func() error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	})

	// Redis为可选依赖，不可用时嵌入缓存自动退化为直连
	if cfg.Redis.Enabled {
		if _, err := database.InitRedis(); err != nil {
			logger.Warn("Redis unavailable, embedding cache disabled", zap.Error(err))
		} else {
			app.cleanupTasks = append(app.cleanupTasks, database.CloseRedis)
		}
	}

	// Kafka审计事件同样可选
	if cfg.Kafka.Enabled {
		if err := kafka.InitProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic); err != nil {
			logger.Warn("Kafka unavailable, validation audit events disabled", zap.Error(err))
		} else {
			app.cleanupTasks = append(app.cleanupTasks, func() error {
				return kafka.GetProducer().Close()
			})
		}
	}

	embedder := knowledge.NewOpenAIEmbedder(
		cfg.Embedding.APIKey,
		cfg.Embedding.Model,
		time.Duration(cfg.Embedding.TimeoutSeconds)*time.Second,
	)
	if !embedder.Ready() {
		logger.Warn("Embedding provider not configured, relevance checks will fail closed")
	}
	embedder = knowledge.NewCachingEmbedder(
		embedder,
		database.RedisClient,
		cfg.Embedding.Model,
		time.Duration(cfg.Embedding.CacheTTL)*time.Second,
	)

	repo := repository.NewDocumentRepository(db)

	validationCfg := citation.Config{
		RelevanceThreshold: cfg.Validation.RelevanceThreshold,
		ContentCharLimit:   cfg.Validation.ContentCharLimit,
		MaxParallel:        cfg.Validation.MaxParallel,
		CheckTimeout:       time.Duration(cfg.Validation.TimeoutSeconds) * time.Second,
	}

	app.ValidationService = services.NewValidationService(repo, embedder, validationCfg)
	app.DocumentService = services.NewDocumentService(repo, cfg.Validation.DocumentCharLimit)
	app.RetrievalService = services.NewRetrievalService(repo, embedder, cfg.Retrieval)

	logger.Info("Application bootstrap completed")
	return app, nil
}

// Shutdown 按注册逆序释放资源
func (a *App) Shutdown() {
	for i := len(a.cleanupTasks) - 1; i >= 0; i-- {
		if err := a.cleanupTasks[i](); err != nil {
			logger.Error("Cleanup task failed", zap.Error(err))
		}
	}
	logger.Sync()
}
