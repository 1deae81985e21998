package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"golang-stock-sentiment/internal/analytics/config"
	"golang-stock-sentiment/internal/analytics/delivery/consumer"
	"golang-stock-sentiment/internal/analytics/repository"
	"golang-stock-sentiment/internal/analytics/service"
	"golang-stock-sentiment/pkg/cache"
	"golang-stock-sentiment/pkg/common"
	"golang-stock-sentiment/pkg/logger"
	"golang-stock-sentiment/pkg/postgres"
	"golang-stock-sentiment/pkg/redis"
	"golang-stock-sentiment/pkg/telegram"

	"github.com/spf13/cobra"
	"google.golang.org/genai"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the sentiment analytics worker service",
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

	appLogger.Info("Starting Worker Service", logger.StringField("name", cfg.App.Name))

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

	redisClient, err := redis.NewClient(redis.Config{
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

	// MKSTREAM creates the stream if it doesn't exist
	if err := redisClient.XGroupCreateMkStream(context.Background(), common.RedisStreamSentimentJobs, common.RedisStreamGroup, "0").Err(); err != nil {
		if err.Error() != "BUSYGROUP Consumer Group name already exists" {
			appLogger.Fatal("Failed to create consumer group", logger.ErrorField(err))
		}
	}

	store := cache.NewRedisStore(redisClient.Client, appLogger)

	articleRepo := repository.NewArticleRepository(db.DB)
	priceRepo := repository.NewPriceRepository(db.DB)
	signalRepo := repository.NewPredictionSignalRepository(db.DB)
	feedRepo := repository.NewNewsFeedRepository(cfg, appLogger)

	analyzer := newAnalyzer(cfg, appLogger)
	notifier := newNotifier(cfg, appLogger)

	queue := service.NewRedisTaskQueue(redisClient.Client, cfg.Redis.StreamMaxLen)
	jobSvc := service.NewSentimentJobService(cfg, appLogger, store, analyzer, articleRepo, queue, notifier)
	predictionSvc := service.NewPredictionService(cfg, appLogger, priceRepo, signalRepo, jobSvc, notifier)
	ingestionSvc := service.NewIngestionService(cfg, appLogger, store, feedRepo, articleRepo, jobSvc)

	schedulerSvc := service.NewSchedulerService(cfg, appLogger, ingestionSvc, jobSvc, predictionSvc)
	if err := schedulerSvc.Start(ctx); err != nil {
		appLogger.Fatal("Failed to start scheduler", logger.ErrorField(err))
	}

	redisConsumer := consumer.NewRedisConsumer(cfg, redisClient.Client, jobSvc, appLogger)
	redisConsumer.Start(ctx)

	appLogger.Info("Worker service started. Waiting for tasks...")

	<-ctx.Done()

	appLogger.Info("Shutting down worker...")
	redisConsumer.Stop()
	schedulerSvc.Stop()
	appLogger.Info("Worker exiting")
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

func main() {
	rootCmd := &cobra.Command{Use: "worker-service"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-worker.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing worker-service CLI: %s\n", err)
		os.Exit(1)
	}
}
