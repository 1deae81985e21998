package cache

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Provider-imposed batch limits. Writes are chunked to MaxBatchWriteSize items
// per call, reads to MaxBatchReadSize keys.
const (
	MaxBatchWriteSize = 25
	MaxBatchReadSize  = 100
)

// Item is a single keyed value in the store.
type Item struct {
	Key   string
	Value []byte
}

// Store is a TTL'd key/value store. It is the only shared mutable resource in
// the analytics pipeline; all mutation goes through idempotent keyed writes.
//
// Put overwrites unconditionally. PutIfAbsent is a conditional write that is a
// no-op (not an error) when the key already exists; the job orchestrator's
// dedup relies on this. BatchPut provides no such guarantee and may overwrite,
// so callers must pre-filter via Exists/BatchGet before batch-writing data
// that requires dedup.
type Store interface {
	Get(ctx context.Context, key string) (*Item, error)
	Put(ctx context.Context, item Item, ttl time.Duration) error
	PutIfAbsent(ctx context.Context, item Item, ttl time.Duration) (bool, error)
	// BatchGet returns the items found for keys; missing keys are silently omitted.
	BatchGet(ctx context.Context, keys []string) ([]Item, error)
	BatchPut(ctx context.Context, items []Item, ttl time.Duration) error
	Exists(ctx context.Context, key string) (bool, error)
}

const (
	articleKeyPrefix   = "ARTICLES_"
	sentimentKeyPrefix = "SENTIMENT_"
	jobKeyPrefix       = "JOB_"
)

// TTLFromDays converts a day count to a duration.
func TTLFromDays(days int) time.Duration {
	return time.Duration(days) * 24 * time.Hour
}

// ExpiryEpoch returns the expiry instant now+days in epoch seconds, the
// store's native unit.
func ExpiryEpoch(now time.Time, days int) int64 {
	return now.Add(TTLFromDays(days)).Unix()
}

// GenerateArticleKey builds the cache key for a ticker's articles on a
// calendar date. Tickers are case-normalized to upper.
func GenerateArticleKey(ticker, date string) string {
	return fmt.Sprintf("%s%s_%s", articleKeyPrefix, strings.ToUpper(ticker), date)
}

// ParseArticleKey is the inverse of GenerateArticleKey.
func ParseArticleKey(key string) (ticker, date string, err error) {
	rest, ok := strings.CutPrefix(key, articleKeyPrefix)
	if !ok {
		return "", "", fmt.Errorf("not an article key: %s", key)
	}
	parts := strings.SplitN(rest, "_", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("malformed article key: %s", key)
	}
	return parts[0], parts[1], nil
}

// GenerateSentimentKey builds the cache key for one article's sentiment record.
func GenerateSentimentKey(ticker, articleHash string) string {
	return fmt.Sprintf("%s%s_%s", sentimentKeyPrefix, strings.ToUpper(ticker), articleHash)
}

// GenerateJobKey builds the cache key for a sentiment job record.
func GenerateJobKey(jobID string) string {
	return jobKeyPrefix + jobID
}

// ChunkKeys splits keys into slices of at most size.
func ChunkKeys(keys []string, size int) [][]string {
	var chunks [][]string
	for len(keys) > size {
		chunks = append(chunks, keys[:size])
		keys = keys[size:]
	}
	if len(keys) > 0 {
		chunks = append(chunks, keys)
	}
	return chunks
}

// ChunkItems splits items into slices of at most size.
func ChunkItems(items []Item, size int) [][]Item {
	var chunks [][]Item
	for len(items) > size {
		chunks = append(chunks, items[:size])
		items = items[size:]
	}
	if len(items) > 0 {
		chunks = append(chunks, items)
	}
	return chunks
}
