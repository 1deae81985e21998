package consumer

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"golang-stock-sentiment/internal/analytics/config"
	"golang-stock-sentiment/internal/analytics/dto"
	"golang-stock-sentiment/internal/analytics/service"
	"golang-stock-sentiment/pkg/common"
	"golang-stock-sentiment/pkg/logger"
	"golang-stock-sentiment/pkg/utils"
)

const (
	defaultStreamReadTimeout = 10 * time.Second
	defaultJobTimeout        = 10 * time.Minute
)

// RedisConsumer reads sentiment job tasks from the job stream and runs them.
type RedisConsumer struct {
	cfg         *config.Config
	redisClient *redis.Client
	jobSvc      service.SentimentJobService
	logger      *logger.Logger
	stopChan    chan struct{}
	wg          sync.WaitGroup
}

// NewRedisConsumer creates a new RedisConsumer.
func NewRedisConsumer(
	cfg *config.Config,
	redisClient *redis.Client,
	jobSvc service.SentimentJobService,
	log *logger.Logger,
) *RedisConsumer {
	return &RedisConsumer{
		cfg:         cfg,
		redisClient: redisClient,
		jobSvc:      jobSvc,
		logger:      log,
		stopChan:    make(chan struct{}),
	}
}

// Start begins the consumer's task processing loop.
func (c *RedisConsumer) Start(ctx context.Context) {
	c.logger.Info("Redis consumer started",
		logger.StringField("stream", common.RedisStreamSentimentJobs))
	c.wg.Add(1)
	utils.GoSafe(func() {
		defer c.wg.Done()
		for {
			select {
			case <-ctx.Done():
				c.logger.Info("Redis consumer stopping due to context cancellation")
				return
			case <-c.stopChan:
				c.logger.Info("Redis consumer stopping")
				return
			default:
				readCtx, cancel := context.WithTimeout(ctx, c.streamReadTimeout())
				c.processNext(readCtx)
				cancel()
			}
		}
	})
}

// Stop gracefully shuts down the consumer.
func (c *RedisConsumer) Stop() {
	close(c.stopChan)
	c.wg.Wait()
	c.logger.Info("Redis consumer stopped")
}

// processNext reads and runs at most one task from the stream.
func (c *RedisConsumer) processNext(ctx context.Context) {
	streams, err := c.redisClient.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    common.RedisStreamGroup,
		Consumer: common.RedisStreamConsumer,
		Streams:  []string{common.RedisStreamSentimentJobs, ">"},
		Count:    1,
		Block:    2 * time.Second, // short block so shutdown stays responsive
	}).Result()
	if err != nil {
		if err == context.Canceled || err == context.DeadlineExceeded || err == redis.Nil {
			return
		}
		c.logger.Error("Failed to read from stream", logger.ErrorField(err))
		return
	}
	if len(streams) == 0 || len(streams[0].Messages) == 0 {
		return
	}

	message := streams[0].Messages[0]
	payload, ok := message.Values["payload"].(string)
	if !ok {
		c.logger.Error("Field 'payload' not found or not a string in stream message",
			logger.StringField("message_id", message.ID))
		c.ack(ctx, message.ID)
		return
	}

	var task dto.SentimentJobTask
	if err := json.Unmarshal([]byte(payload), &task); err != nil {
		c.logger.Error("Failed to unmarshal task payload",
			logger.ErrorField(err),
			logger.StringField("message_id", message.ID))
		// Ack so a malformed message is not redelivered forever.
		c.ack(ctx, message.ID)
		return
	}

	jobCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.jobTimeout())
	defer cancel()
	if err := c.jobSvc.Process(jobCtx, task); err != nil {
		c.logger.Error("Sentiment job processing failed",
			logger.StringField("job_id", task.JobID),
			logger.ErrorField(err))
	}
	// The job record carries the outcome either way; never redeliver.
	c.ack(jobCtx, message.ID)
}

func (c *RedisConsumer) ack(ctx context.Context, messageID string) {
	if err := c.redisClient.XAck(ctx, common.RedisStreamSentimentJobs, common.RedisStreamGroup, messageID).Err(); err != nil {
		c.logger.Error("Failed to acknowledge message",
			logger.ErrorField(err),
			logger.StringField("message_id", messageID))
	}
}

func (c *RedisConsumer) streamReadTimeout() time.Duration {
	if c.cfg.Worker.StreamReadTimeout > 0 {
		return c.cfg.Worker.StreamReadTimeout
	}
	return defaultStreamReadTimeout
}

func (c *RedisConsumer) jobTimeout() time.Duration {
	if c.cfg.Worker.JobTimeout > 0 {
		return c.cfg.Worker.JobTimeout
	}
	return defaultJobTimeout
}
