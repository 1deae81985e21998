package entity

import (
	"fmt"
	"strings"
	"time"
)

// JobStatus is the lifecycle state of a sentiment job.
type JobStatus string

const (
	JobStatusPending    JobStatus = "PENDING"
	JobStatusInProgress JobStatus = "IN_PROGRESS"
	JobStatusCompleted  JobStatus = "COMPLETED"
	JobStatusFailed     JobStatus = "FAILED"
)

// Terminal reports whether the status is a terminal state.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// SentimentJobID builds the deterministic job identifier for a ticker and
// date range: {TICKER}_{startDate}_{endDate}. One job exists per distinct
// triple; re-triggering a completed job is a no-op.
func SentimentJobID(ticker, startDate, endDate string) string {
	return fmt.Sprintf("%s_%s_%s", strings.ToUpper(ticker), startDate, endDate)
}

// SentimentJob is the pollable record of one sentiment analysis run. The job
// record expires on its own TTL, independent of the sentiment data it
// produced.
type SentimentJob struct {
	JobID             string     `json:"job_id"`
	Ticker            string     `json:"ticker"`
	StartDate         string     `json:"start_date"`
	EndDate           string     `json:"end_date"`
	Status            JobStatus  `json:"status"`
	StartedAt         time.Time  `json:"started_at"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`
	ArticlesProcessed int        `json:"articles_processed"`
	Error             string     `json:"error,omitempty"`
	ExpiresAt         int64      `json:"expires_at"`
}
