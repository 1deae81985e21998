package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"golang-stock-sentiment/internal/analytics/dto"
	"golang-stock-sentiment/pkg/common"
	"golang-stock-sentiment/pkg/logger"
	"golang-stock-sentiment/pkg/utils"
)

// TaskQueue hands a triggered sentiment job off for processing. The trigger
// path never blocks on the pipeline; clients learn the outcome by polling.
type TaskQueue interface {
	EnqueueSentimentJob(ctx context.Context, task dto.SentimentJobTask) error
}

// redisTaskQueue publishes tasks to the sentiment job stream consumed by the
// worker service.
type redisTaskQueue struct {
	client       *redis.Client
	streamMaxLen int64
}

// NewRedisTaskQueue creates a TaskQueue backed by a redis stream.
func NewRedisTaskQueue(client *redis.Client, streamMaxLen int64) TaskQueue {
	return &redisTaskQueue{client: client, streamMaxLen: streamMaxLen}
}

func (q *redisTaskQueue) EnqueueSentimentJob(ctx context.Context, task dto.SentimentJobTask) error {
	payload, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal task payload: %w", err)
	}

	err = q.client.XAdd(ctx, &redis.XAddArgs{
		Stream: common.RedisStreamSentimentJobs,
		MaxLen: q.streamMaxLen,
		Approx: true,
		Values: map[string]interface{}{"payload": string(payload)},
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to enqueue sentiment job: %w", err)
	}
	return nil
}

// inlineTaskQueue runs the handler in a background goroutine within the same
// process. Used when no redis stream is configured.
type inlineTaskQueue struct {
	handler func(ctx context.Context, task dto.SentimentJobTask)
	logger  *logger.Logger
}

// NewInlineTaskQueue creates a TaskQueue that dispatches tasks to handler
// in-process. Work already dispatched runs to completion even if the
// triggering caller goes away.
func NewInlineTaskQueue(handler func(ctx context.Context, task dto.SentimentJobTask), log *logger.Logger) TaskQueue {
	return &inlineTaskQueue{handler: handler, logger: log}
}

func (q *inlineTaskQueue) EnqueueSentimentJob(_ context.Context, task dto.SentimentJobTask) error {
	utils.GoSafe(func() {
		// Detached from the trigger's context: the job is not cancellable
		// once dispatched, pollers can only stop watching it.
		q.handler(context.Background(), task)
	})
	return nil
}
