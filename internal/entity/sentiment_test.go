package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifySentimentScore(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{score: 1, want: SentimentPositive},
		{score: 0.11, want: SentimentPositive},
		{score: 0.1, want: SentimentNeutral}, // boundary is inclusive of neutral
		{score: 0, want: SentimentNeutral},
		{score: -0.1, want: SentimentNeutral},
		{score: -0.11, want: SentimentNegative},
		{score: -1, want: SentimentNegative},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifySentimentScore(tt.score), "score %v", tt.score)
	}
}

func TestSentimentJobID(t *testing.T) {
	assert.Equal(t, "AAPL_2026-01-01_2026-01-31", SentimentJobID("aapl", "2026-01-01", "2026-01-31"))
}

func TestJobStatusTerminal(t *testing.T) {
	assert.False(t, JobStatusPending.Terminal())
	assert.False(t, JobStatusInProgress.Terminal())
	assert.True(t, JobStatusCompleted.Terminal())
	assert.True(t, JobStatusFailed.Terminal())
}

func TestArticleText(t *testing.T) {
	assert.Equal(t, "title", Article{Title: "title"}.Text())
	assert.Equal(t, "title body", Article{Title: "title", Description: "body"}.Text())
}
