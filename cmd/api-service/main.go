package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang-stock-sentiment/internal/analytics/config"
	delivery "golang-stock-sentiment/internal/analytics/delivery/http"
	_ "golang-stock-sentiment/internal/analytics/docs"
	"golang-stock-sentiment/internal/analytics/dto"
	"golang-stock-sentiment/internal/analytics/repository"
	"golang-stock-sentiment/internal/analytics/service"
	"golang-stock-sentiment/pkg/cache"
	"golang-stock-sentiment/pkg/logger"
	"golang-stock-sentiment/pkg/postgres"
	"golang-stock-sentiment/pkg/redis"
	"golang-stock-sentiment/pkg/telegram"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	swagger "github.com/swaggo/echo-swagger"
	"google.golang.org/genai"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the sentiment analytics API service",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting API Service", logger.StringField("name", cfg.App.Name))

	db, err := postgres.NewDB(postgres.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		appLogger.Fatal("Failed to initialize database", logger.ErrorField(err))
	}
	if sqlDB, err := db.DB.DB(); err == nil {
		defer sqlDB.Close()
	}

	var redisClient *redis.Client
	var store cache.Store
	switch cfg.Cache.Driver {
	case "memory":
		store = cache.NewMemoryStore()
	default:
		redisClient, err = redis.NewClient(redis.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err != nil {
			appLogger.Fatal("Failed to initialize Redis", logger.ErrorField(err))
		}
		defer redisClient.Close()
		store = cache.NewRedisStore(redisClient.Client, appLogger)
	}

	articleRepo := repository.NewArticleRepository(db.DB)
	priceRepo := repository.NewPriceRepository(db.DB)
	signalRepo := repository.NewPredictionSignalRepository(db.DB)

	analyzer := newAnalyzer(cfg, appLogger)
	notifier := newNotifier(cfg, appLogger)

	// With a redis stream the worker service processes jobs; without one they
	// run in-process on background goroutines.
	var jobSvc service.SentimentJobService
	var queue service.TaskQueue
	if redisClient != nil {
		queue = service.NewRedisTaskQueue(redisClient.Client, cfg.Redis.StreamMaxLen)
	} else {
		queue = service.NewInlineTaskQueue(func(ctx context.Context, task dto.SentimentJobTask) {
			if err := jobSvc.Process(ctx, task); err != nil {
				appLogger.Error("Sentiment job processing failed",
					logger.StringField("job_id", task.JobID),
					logger.ErrorField(err))
			}
		}, appLogger)
	}
	jobSvc = service.NewSentimentJobService(cfg, appLogger, store, analyzer, articleRepo, queue, notifier)
	predictionSvc := service.NewPredictionService(cfg, appLogger, priceRepo, signalRepo, jobSvc, notifier)

	e := echo.New()
	e.HideBanner = true

	apiV1 := e.Group("/api/v1")
	sentimentHandler := delivery.NewSentimentHandler(jobSvc, appLogger)
	sentimentHandler.RegisterRoutes(apiV1.Group("/sentiment"))
	predictionHandler := delivery.NewPredictionHandler(predictionSvc, appLogger)
	predictionHandler.RegisterRoutes(apiV1.Group("/predictions"))

	e.GET("/swagger/*", swagger.WrapHandler)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.API.Port)
		appLogger.Info("HTTP server starting", logger.StringField("address", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			appLogger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop()
		}
	}()

	<-ctx.Done()

	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	appLogger.Info("Server exiting")
}

func newAnalyzer(cfg *config.Config, appLogger *logger.Logger) repository.SentimentAnalyzer {
	switch cfg.Analyzer.Provider {
	case "gemini":
		genAiClient, err := genai.NewClient(context.Background(), &genai.ClientConfig{
			APIKey: cfg.Gemini.APIKey,
		})
		if err != nil {
			appLogger.Fatal("Failed to initialize Gemini client", logger.ErrorField(err))
		}
		analyzer, err := repository.NewGeminiAnalyzer(cfg, appLogger, genAiClient)
		if err != nil {
			appLogger.Fatal("Failed to initialize Gemini analyzer", logger.ErrorField(err))
		}
		return analyzer
	default:
		return repository.NewLexiconAnalyzer()
	}
}

func newNotifier(cfg *config.Config, appLogger *logger.Logger) telegram.Notifier {
	if !cfg.Telegram.Enabled {
		return nil
	}
	notifier, err := telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
	if err != nil {
		appLogger.Fatal("Failed to initialize Telegram notifier", logger.ErrorField(err))
	}
	return notifier
}

// @title Stock Sentiment Analytics API
// @version 1.0
// @description Financial news sentiment analytics and price direction prediction.
// @BasePath /api/v1
func main() {
	rootCmd := &cobra.Command{Use: "api-service"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-api.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing api-service CLI: %s\n", err)
		os.Exit(1)
	}
}
