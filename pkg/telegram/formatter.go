package telegram

import (
	"fmt"
	"strings"

	"golang-stock-sentiment/internal/entity"
)

// FormatJobResult renders a completed or failed sentiment job for Telegram.
func FormatJobResult(job *entity.SentimentJob, daily []entity.DailySentiment) string {
	var b strings.Builder

	if job.Status == entity.JobStatusFailed {
		b.WriteString(fmt.Sprintf("❌ *Sentiment job failed* `%s`\n", job.JobID))
		b.WriteString(fmt.Sprintf("Error: %s\n", job.Error))
		return b.String()
	}

	b.WriteString(fmt.Sprintf("✅ *Sentiment job completed* `%s`\n", job.JobID))
	b.WriteString(fmt.Sprintf("Articles analyzed: %d\n", job.ArticlesProcessed))

	if len(daily) > 0 {
		b.WriteString("\n*Daily sentiment*\n")
		for _, day := range daily {
			b.WriteString(fmt.Sprintf("`%s` %s score %.2f (%d articles)\n",
				day.Date, sentimentEmoji(day.Classification), day.Score, day.ArticleCount))
		}
	}
	return b.String()
}

// FormatPredictionSignal renders a stored prediction signal for Telegram.
func FormatPredictionSignal(signal *entity.PredictionSignal) string {
	arrow := "📈"
	if signal.Direction == entity.DirectionDown {
		arrow = "📉"
	}
	return fmt.Sprintf("%s *%s* predicted *%s* (p=%.2f, cv accuracy %.2f, %d samples)",
		arrow, signal.Ticker, signal.Direction, signal.Probability, signal.CVAccuracy, signal.SampleCount)
}

func sentimentEmoji(classification string) string {
	switch classification {
	case entity.SentimentPositive:
		return "🟢"
	case entity.SentimentNegative:
		return "🔴"
	default:
		return "⚪"
	}
}
