package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang-stock-sentiment/internal/entity"
)

func TestAggregateDaily_Empty(t *testing.T) {
	assert.Empty(t, AggregateDaily(nil, nil))
	assert.Empty(t, AggregateDaily(nil, []entity.Article{{Hash: "h", Date: "2026-01-01"}}))
}

func TestAggregateDaily_GroupsByDateSorted(t *testing.T) {
	articles := []entity.Article{
		{Hash: "h1", Date: "2026-01-02"},
		{Hash: "h2", Date: "2026-01-01"},
		{Hash: "h3", Date: "2026-01-02"},
	}
	records := []entity.SentimentRecord{
		{ArticleHash: "h1", PositiveCount: 3, NegativeCount: 1},
		{ArticleHash: "h2", PositiveCount: 0, NegativeCount: 2},
		{ArticleHash: "h3", PositiveCount: 2, NegativeCount: 0},
	}

	daily := AggregateDaily(records, articles)
	require.Len(t, daily, 2)

	assert.Equal(t, "2026-01-01", daily[0].Date)
	assert.Equal(t, 0, daily[0].PositiveTotal)
	assert.Equal(t, 2, daily[0].NegativeTotal)
	assert.Equal(t, 1, daily[0].ArticleCount)
	assert.InDelta(t, -1.0, daily[0].Score, 1e-9)
	assert.Equal(t, entity.SentimentNegative, daily[0].Classification)

	assert.Equal(t, "2026-01-02", daily[1].Date)
	assert.Equal(t, 5, daily[1].PositiveTotal)
	assert.Equal(t, 1, daily[1].NegativeTotal)
	assert.Equal(t, 2, daily[1].ArticleCount)
	assert.InDelta(t, 4.0/6.0, daily[1].Score, 1e-9)
	assert.Equal(t, entity.SentimentPositive, daily[1].Classification)
}

func TestAggregateDaily_BalancedCountsAreNeutral(t *testing.T) {
	articles := []entity.Article{{Hash: "h1", Date: "2026-01-01"}}
	records := []entity.SentimentRecord{
		{ArticleHash: "h1", PositiveCount: 5, NegativeCount: 5},
	}

	daily := AggregateDaily(records, articles)
	require.Len(t, daily, 1)
	assert.Zero(t, daily[0].Score)
	assert.Equal(t, entity.SentimentNeutral, daily[0].Classification)
}

func TestAggregateDaily_ZeroCountsStayNeutral(t *testing.T) {
	articles := []entity.Article{{Hash: "h1", Date: "2026-01-01"}}
	records := []entity.SentimentRecord{
		{ArticleHash: "h1", PositiveCount: 0, NegativeCount: 0},
	}

	daily := AggregateDaily(records, articles)
	require.Len(t, daily, 1)
	assert.Zero(t, daily[0].Score)
	assert.Equal(t, entity.SentimentNeutral, daily[0].Classification)
	assert.Equal(t, 1, daily[0].ArticleCount)
}

func TestAggregateDaily_OrphanRecordsDropped(t *testing.T) {
	articles := []entity.Article{{Hash: "known", Date: "2026-01-01"}}
	records := []entity.SentimentRecord{
		{ArticleHash: "known", PositiveCount: 1},
		{ArticleHash: "unknown", PositiveCount: 100},
	}

	daily := AggregateDaily(records, articles)
	require.Len(t, daily, 1)
	assert.Equal(t, 1, daily[0].PositiveTotal)
	assert.Equal(t, 1, daily[0].ArticleCount)
}
