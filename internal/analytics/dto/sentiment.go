package dto

import (
	"time"

	"golang-stock-sentiment/internal/entity"
)

// TriggerSentimentJobRequest is the DTO for triggering a sentiment job.
type TriggerSentimentJobRequest struct {
	Ticker    string `json:"ticker"`
	StartDate string `json:"start_date"` // YYYY-MM-DD
	EndDate   string `json:"end_date"`   // YYYY-MM-DD
}

// SentimentJobResponse is the pollable view of a sentiment job. Cached is
// true when the trigger short-circuited on an already-completed job.
type SentimentJobResponse struct {
	JobID             string     `json:"job_id"`
	Status            string     `json:"status"`
	Ticker            string     `json:"ticker"`
	StartDate         string     `json:"start_date"`
	EndDate           string     `json:"end_date"`
	StartedAt         time.Time  `json:"started_at"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`
	ArticlesProcessed int        `json:"articles_processed"`
	Error             string     `json:"error,omitempty"`
	Cached            bool       `json:"cached"`
}

// NewSentimentJobResponse maps a job entity to its API representation.
func NewSentimentJobResponse(job *entity.SentimentJob, cached bool) *SentimentJobResponse {
	return &SentimentJobResponse{
		JobID:             job.JobID,
		Status:            string(job.Status),
		Ticker:            job.Ticker,
		StartDate:         job.StartDate,
		EndDate:           job.EndDate,
		StartedAt:         job.StartedAt,
		CompletedAt:       job.CompletedAt,
		ArticlesProcessed: job.ArticlesProcessed,
		Error:             job.Error,
		Cached:            cached,
	}
}

// SentimentResultsResponse carries the aggregated daily sentiment for a ticker.
type SentimentResultsResponse struct {
	Ticker         string                  `json:"ticker"`
	DailySentiment []entity.DailySentiment `json:"daily_sentiment"`
	Cached         bool                    `json:"cached"`
}

// SentimentStat is one classification bucket of an article analysis: the
// matched token count and the share of recognized tokens it represents.
type SentimentStat struct {
	Count      int     `json:"count"`
	Confidence float64 `json:"confidence"`
}

// AnalysisResult is the outcome of scoring a single article.
type AnalysisResult struct {
	Hash     string        `json:"hash"`
	Positive SentimentStat `json:"positive"`
	Negative SentimentStat `json:"negative"`
	Neutral  SentimentStat `json:"neutral"`
	Score    float64       `json:"score"`
}

// SentimentJobTask is the payload handed to the worker through the job stream.
type SentimentJobTask struct {
	JobID     string `json:"job_id"`
	Ticker    string `json:"ticker"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}
