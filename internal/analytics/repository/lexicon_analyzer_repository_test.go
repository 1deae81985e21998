package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang-stock-sentiment/internal/entity"
)

func TestLexiconAnalyzer_AnalyzeText(t *testing.T) {
	analyzer := &lexiconAnalyzer{}

	tests := []struct {
		name         string
		text         string
		wantPositive int
		wantNegative int
		wantScore    float64
	}{
		{
			name:      "empty text",
			text:      "",
			wantScore: 0,
		},
		{
			name:         "positive text",
			text:         "Shares surge on record profit and strong growth",
			wantPositive: 5,
			wantNegative: 0,
			wantScore:    1,
		},
		{
			name:         "negative text",
			text:         "Stock plunged after lawsuit and weak earnings miss",
			wantPositive: 0,
			wantNegative: 4,
			wantScore:    -1,
		},
		{
			name:         "mixed text",
			text:         "profit growth but lawsuit risk",
			wantPositive: 2,
			wantNegative: 2,
			wantScore:    0,
		},
		{
			name:      "no sentiment words",
			text:      "the company held its annual meeting on tuesday",
			wantScore: 0,
		},
		{
			name:         "case insensitive",
			text:         "SURGE Rally BULLISH",
			wantPositive: 3,
			wantScore:    1,
		},
		{
			name:         "punctuation and digits ignored",
			text:         "profit!!! 2026 +15% gains...",
			wantPositive: 2,
			wantScore:    1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := analyzer.AnalyzeText(tt.text, "hash-1")
			assert.Equal(t, "hash-1", result.Hash)
			assert.Equal(t, tt.wantPositive, result.Positive.Count)
			assert.Equal(t, tt.wantNegative, result.Negative.Count)
			assert.InDelta(t, tt.wantScore, result.Score, 1e-9)
		})
	}
}

func TestLexiconAnalyzer_ConfidenceSharesSumToOne(t *testing.T) {
	analyzer := &lexiconAnalyzer{}

	result := analyzer.AnalyzeText("profit loss meeting agenda", "h")
	sum := result.Positive.Confidence + result.Negative.Confidence + result.Neutral.Confidence
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestLexiconAnalyzer_EmptyTextZeroConfidence(t *testing.T) {
	analyzer := &lexiconAnalyzer{}

	result := analyzer.AnalyzeText("", "h")
	assert.Zero(t, result.Positive.Confidence)
	assert.Zero(t, result.Negative.Confidence)
	assert.Zero(t, result.Neutral.Confidence)
}

func TestLexiconAnalyzer_MalformedInputSafe(t *testing.T) {
	analyzer := &lexiconAnalyzer{}

	for _, text := range []string{"\x00\xff\xfe", "日本語のテキスト", "    ", "''''"} {
		result := analyzer.AnalyzeText(text, "h")
		assert.GreaterOrEqual(t, result.Positive.Count, 0)
		assert.GreaterOrEqual(t, result.Negative.Count, 0)
	}
}

func TestLexiconAnalyzer_AnalyzeBatchPreservesOrder(t *testing.T) {
	analyzer := NewLexiconAnalyzer()

	articles := []entity.Article{
		{Hash: "h1", Title: "record profit surge"},
		{Hash: "h2", Title: "lawsuit and losses"},
		{Hash: "h3", Title: "quarterly report published"},
	}

	results, err := analyzer.AnalyzeBatch(context.Background(), articles)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "h1", results[0].Hash)
	assert.Greater(t, results[0].Score, 0.0)
	assert.Equal(t, "h2", results[1].Hash)
	assert.Less(t, results[1].Score, 0.0)
	assert.Equal(t, "h3", results[2].Hash)
	assert.Zero(t, results[2].Score)
}

func TestLexiconAnalyzer_AnalyzeUsesTitleAndDescription(t *testing.T) {
	analyzer := NewLexiconAnalyzer()

	result, err := analyzer.Analyze(context.Background(), entity.Article{
		Hash:        "h",
		Title:       "profit beats estimates",
		Description: "growth momentum continues",
	})
	require.NoError(t, err)
	assert.Equal(t, 4, result.Positive.Count)
}
