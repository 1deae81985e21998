package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"golang-stock-sentiment/internal/analytics/config"
	"golang-stock-sentiment/internal/analytics/dto"
	"golang-stock-sentiment/internal/entity"
	"golang-stock-sentiment/pkg/logger"
)

// geminiAnalyzer is a SentimentAnalyzer that delegates scoring to the Google
// Gemini API. Unlike the lexicon analyzer it can fail (quota, network,
// malformed completions), which is what the orchestrator's batch escalation
// policy exists for.
type geminiAnalyzer struct {
	cfg            *config.Config
	logger         *logger.Logger
	genAiClient    *genai.Client
	requestLimiter *rate.Limiter
}

// geminiArticleScore is one entry of the model's JSON answer.
type geminiArticleScore struct {
	Hash          string  `json:"hash"`
	PositiveCount int     `json:"positive_count"`
	NegativeCount int     `json:"negative_count"`
	Score         float64 `json:"score"`
}

// NewGeminiAnalyzer creates a Gemini-backed SentimentAnalyzer.
func NewGeminiAnalyzer(cfg *config.Config, log *logger.Logger, genAiClient *genai.Client) (SentimentAnalyzer, error) {
	if cfg.Gemini.Model == "" {
		return nil, fmt.Errorf("gemini analyzer requires a model name")
	}

	maxPerMinute := cfg.Gemini.MaxRequestPerMinute
	if maxPerMinute <= 0 {
		maxPerMinute = 10
	}
	secondsPerRequest := time.Minute / time.Duration(maxPerMinute)

	return &geminiAnalyzer{
		cfg:            cfg,
		logger:         log,
		genAiClient:    genAiClient,
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
	}, nil
}

func (r *geminiAnalyzer) Analyze(ctx context.Context, article entity.Article) (*dto.AnalysisResult, error) {
	raw, err := r.generate(ctx, BuildAnalyzeArticlePrompt(article))
	if err != nil {
		return nil, err
	}

	var score geminiArticleScore
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &score); err != nil {
		return nil, fmt.Errorf("failed to parse gemini response: %w", err)
	}
	score.Hash = article.Hash

	result := toAnalysisResult(score)
	return &result, nil
}

func (r *geminiAnalyzer) AnalyzeBatch(ctx context.Context, articles []entity.Article) ([]dto.AnalysisResult, error) {
	if len(articles) == 0 {
		return nil, nil
	}

	raw, err := r.generate(ctx, BuildAnalyzeBatchPrompt(articles))
	if err != nil {
		return nil, err
	}

	var scores []geminiArticleScore
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &scores); err != nil {
		return nil, fmt.Errorf("failed to parse gemini batch response: %w", err)
	}
	if len(scores) != len(articles) {
		return nil, fmt.Errorf("gemini batch response has %d entries, want %d", len(scores), len(articles))
	}

	byHash := make(map[string]geminiArticleScore, len(scores))
	for _, score := range scores {
		byHash[score.Hash] = score
	}

	results := make([]dto.AnalysisResult, 0, len(articles))
	for _, article := range articles {
		score, ok := byHash[article.Hash]
		if !ok {
			return nil, fmt.Errorf("gemini batch response is missing article %s", article.Hash)
		}
		results = append(results, toAnalysisResult(score))
	}
	return results, nil
}

func (r *geminiAnalyzer) generate(ctx context.Context, prompt string) (string, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("failed to wait for request limit: %w", err)
	}

	contents := []*genai.Content{
		genai.NewContentFromText(prompt, "user"),
	}

	resp, err := r.genAiClient.Models.GenerateContent(ctx, r.cfg.Gemini.Model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("gemini returned an empty completion")
	}

	r.logger.Debug("Gemini completion received", logger.IntField("length", len(text)))
	return text, nil
}

func toAnalysisResult(score geminiArticleScore) dto.AnalysisResult {
	total := score.PositiveCount + score.NegativeCount
	computed := 0.0
	if total > 0 {
		computed = float64(score.PositiveCount-score.NegativeCount) / float64(total)
	}
	// Trust the counts over the model's own arithmetic.
	confidence := func(count int) float64 {
		if total == 0 {
			return 0
		}
		return float64(count) / float64(total)
	}
	return dto.AnalysisResult{
		Hash:     score.Hash,
		Positive: dto.SentimentStat{Count: score.PositiveCount, Confidence: confidence(score.PositiveCount)},
		Negative: dto.SentimentStat{Count: score.NegativeCount, Confidence: confidence(score.NegativeCount)},
		Score:    computed,
	}
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
