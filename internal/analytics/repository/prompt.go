package repository

import (
	"fmt"
	"strings"

	"golang-stock-sentiment/internal/entity"
	"golang-stock-sentiment/pkg/utils"
)

const maxPromptArticleChars = 1500

// BuildAnalyzeArticlePrompt builds the prompt for scoring a single article.
func BuildAnalyzeArticlePrompt(article entity.Article) string {
	var b strings.Builder
	b.WriteString("You are a financial news sentiment scorer.\n")
	b.WriteString("Score the following article and answer ONLY with a JSON object of the form\n")
	b.WriteString(`{"hash": "...", "positive_count": 0, "negative_count": 0, "score": 0.0}` + "\n")
	b.WriteString("where positive_count and negative_count are the number of clearly positive and negative statements about the ticker, and score is (positive_count - negative_count) / (positive_count + negative_count), or 0 when both are 0.\n\n")
	writeArticle(&b, article)
	return b.String()
}

// BuildAnalyzeBatchPrompt builds the prompt for scoring a set of articles in
// one call. The model must answer with one JSON array entry per article.
func BuildAnalyzeBatchPrompt(articles []entity.Article) string {
	var b strings.Builder
	b.WriteString("You are a financial news sentiment scorer.\n")
	b.WriteString(fmt.Sprintf("Score each of the %d articles below and answer ONLY with a JSON array, one object per article, of the form\n", len(articles)))
	b.WriteString(`[{"hash": "...", "positive_count": 0, "negative_count": 0, "score": 0.0}]` + "\n")
	b.WriteString("where positive_count and negative_count are the number of clearly positive and negative statements about the ticker, and score is (positive_count - negative_count) / (positive_count + negative_count), or 0 when both are 0.\n\n")
	for i, article := range articles {
		b.WriteString(fmt.Sprintf("--- Article %d ---\n", i+1))
		writeArticle(&b, article)
		b.WriteString("\n")
	}
	return b.String()
}

func writeArticle(b *strings.Builder, article entity.Article) {
	b.WriteString(fmt.Sprintf("Hash: %s\n", article.Hash))
	b.WriteString(fmt.Sprintf("Ticker: %s\n", article.Ticker))
	b.WriteString(fmt.Sprintf("Date: %s\n", article.Date))
	b.WriteString(fmt.Sprintf("Title: %s\n", article.Title))
	b.WriteString(fmt.Sprintf("Text: %s\n", utils.TruncateText(article.Description, maxPromptArticleChars)))
}
