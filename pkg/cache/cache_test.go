package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateArticleKey(t *testing.T) {
	assert.Equal(t, "ARTICLES_AAPL_2026-01-15", GenerateArticleKey("aapl", "2026-01-15"))
	assert.Equal(t, "ARTICLES_MSFT_2026-02-01", GenerateArticleKey("MSFT", "2026-02-01"))
}

func TestParseArticleKey(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		wantTicker string
		wantDate   string
		wantErr    bool
	}{
		{name: "round trip", key: GenerateArticleKey("aapl", "2026-01-15"), wantTicker: "AAPL", wantDate: "2026-01-15"},
		{name: "wrong prefix", key: "SENTIMENT_AAPL_abc", wantErr: true},
		{name: "missing date", key: "ARTICLES_AAPL", wantErr: true},
		{name: "empty ticker", key: "ARTICLES__2026-01-15", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ticker, date, err := ParseArticleKey(tt.key)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantTicker, ticker)
			assert.Equal(t, tt.wantDate, date)
		})
	}
}

func TestGenerateSentimentKey(t *testing.T) {
	assert.Equal(t, "SENTIMENT_AAPL_abc123", GenerateSentimentKey("aapl", "abc123"))
}

func TestGenerateJobKey(t *testing.T) {
	assert.Equal(t, "JOB_AAPL_2026-01-01_2026-01-31", GenerateJobKey("AAPL_2026-01-01_2026-01-31"))
}

func TestExpiryEpoch(t *testing.T) {
	now := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, now.Add(30*24*time.Hour).Unix(), ExpiryEpoch(now, 30))
}

func TestChunkKeys(t *testing.T) {
	tests := []struct {
		name      string
		count     int
		size      int
		wantSizes []int
	}{
		{name: "empty", count: 0, size: 25, wantSizes: nil},
		{name: "under limit", count: 10, size: 25, wantSizes: []int{10}},
		{name: "exact limit", count: 25, size: 25, wantSizes: []int{25}},
		{name: "over limit", count: 60, size: 25, wantSizes: []int{25, 25, 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keys := make([]string, tt.count)
			chunks := ChunkKeys(keys, tt.size)
			require.Len(t, chunks, len(tt.wantSizes))
			for i, want := range tt.wantSizes {
				assert.Len(t, chunks[i], want)
			}
		})
	}
}

func TestChunkItems(t *testing.T) {
	items := make([]Item, 30)
	chunks := ChunkItems(items, MaxBatchWriteSize)
	require.Len(t, chunks, 2)
	assert.Len(t, chunks[0], 25)
	assert.Len(t, chunks[1], 5)
}
