package common

const (
	RedisStreamSentimentJobs = "sentiment.job.execution"

	RedisStreamGroup    = "analytics-group"
	RedisStreamConsumer = "analytics-consumer"
)

// Sentiment classification thresholds, shared by the article-level classifier
// and the daily aggregator so the two can never drift apart.
const (
	SentimentPositiveThreshold = 0.1
	SentimentNegativeThreshold = -0.1
)
