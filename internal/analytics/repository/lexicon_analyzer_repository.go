package repository

import (
	"context"
	"regexp"
	"strings"

	"golang-stock-sentiment/internal/analytics/dto"
	"golang-stock-sentiment/internal/entity"
)

// Finance-tuned word lists. Tokens outside both lists are counted as neutral.
var positiveWords = map[string]struct{}{
	"gain": {}, "gains": {}, "growth": {}, "profit": {}, "profits": {},
	"profitable": {}, "surge": {}, "surges": {}, "surged": {}, "rally": {},
	"rallies": {}, "rallied": {}, "record": {}, "beat": {}, "beats": {},
	"strong": {}, "stronger": {}, "upgrade": {}, "upgraded": {}, "bullish": {},
	"boom": {}, "positive": {}, "rise": {}, "rises": {}, "rose": {},
	"rising": {}, "soar": {}, "soars": {}, "soared": {}, "outperform": {},
	"outperforms": {}, "outperformed": {}, "win": {}, "wins": {}, "winning": {},
	"success": {}, "successful": {}, "breakthrough": {}, "expansion": {},
	"expand": {}, "expands": {}, "recovery": {}, "recover": {}, "recovers": {},
	"optimistic": {}, "momentum": {}, "dividend": {}, "buyback": {},
	"exceed": {}, "exceeds": {}, "exceeded": {}, "robust": {}, "jump": {},
	"jumps": {}, "jumped": {}, "climb": {}, "climbs": {}, "climbed": {},
	"upside": {}, "innovative": {}, "demand": {}, "advance": {}, "advances": {},
}

var negativeWords = map[string]struct{}{
	"loss": {}, "losses": {}, "decline": {}, "declines": {}, "declined": {},
	"drop": {}, "drops": {}, "dropped": {}, "fall": {}, "falls": {},
	"fell": {}, "falling": {}, "plunge": {}, "plunges": {}, "plunged": {},
	"crash": {}, "crashes": {}, "crashed": {}, "weak": {}, "weaker": {},
	"weakness": {}, "downgrade": {}, "downgraded": {}, "bearish": {},
	"recession": {}, "negative": {}, "miss": {}, "misses": {}, "missed": {},
	"lawsuit": {}, "fraud": {}, "probe": {}, "investigation": {}, "fine": {},
	"fined": {}, "penalty": {}, "layoff": {}, "layoffs": {}, "cut": {},
	"cuts": {}, "bankruptcy": {}, "bankrupt": {}, "default": {}, "debt": {},
	"warning": {}, "warns": {}, "warned": {}, "slump": {}, "slumps": {},
	"slumped": {}, "tumble": {}, "tumbles": {}, "tumbled": {}, "risk": {},
	"risks": {}, "risky": {}, "concern": {}, "concerns": {}, "fear": {},
	"fears": {}, "sell": {}, "selloff": {}, "downturn": {}, "underperform": {},
	"underperforms": {}, "underperformed": {}, "volatile": {}, "scandal": {},
}

var tokenPattern = regexp.MustCompile(`[a-z']+`)

// lexiconAnalyzer is a deterministic, pure sentiment scorer. It never fails:
// malformed input, mixed scripts, and unrecognized tokens are simply uncounted.
type lexiconAnalyzer struct{}

// NewLexiconAnalyzer creates the lexicon-based SentimentAnalyzer.
func NewLexiconAnalyzer() SentimentAnalyzer {
	return &lexiconAnalyzer{}
}

// AnalyzeText scores raw text. Exposed directly because it is pure and
// error-free; the interface methods wrap it.
func (a *lexiconAnalyzer) AnalyzeText(text, id string) dto.AnalysisResult {
	tokens := tokenPattern.FindAllString(strings.ToLower(text), -1)

	var positive, negative, neutral int
	for _, token := range tokens {
		if _, ok := positiveWords[token]; ok {
			positive++
			continue
		}
		if _, ok := negativeWords[token]; ok {
			negative++
			continue
		}
		neutral++
	}

	var score float64
	if positive+negative > 0 {
		score = float64(positive-negative) / float64(positive+negative)
	}

	total := len(tokens)
	confidence := func(count int) float64 {
		if total == 0 {
			return 0
		}
		return float64(count) / float64(total)
	}

	return dto.AnalysisResult{
		Hash:     id,
		Positive: dto.SentimentStat{Count: positive, Confidence: confidence(positive)},
		Negative: dto.SentimentStat{Count: negative, Confidence: confidence(negative)},
		Neutral:  dto.SentimentStat{Count: neutral, Confidence: confidence(neutral)},
		Score:    score,
	}
}

func (a *lexiconAnalyzer) Analyze(_ context.Context, article entity.Article) (*dto.AnalysisResult, error) {
	result := a.AnalyzeText(article.Text(), article.Hash)
	return &result, nil
}

// AnalyzeBatch analyzes each article independently; there is no shared state
// between analyses.
func (a *lexiconAnalyzer) AnalyzeBatch(ctx context.Context, articles []entity.Article) ([]dto.AnalysisResult, error) {
	results := make([]dto.AnalysisResult, len(articles))
	for i, article := range articles {
		results[i] = a.AnalyzeText(article.Text(), article.Hash)
	}
	return results, nil
}
