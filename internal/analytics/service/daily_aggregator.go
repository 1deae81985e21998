package service

import (
	"sort"

	"golang-stock-sentiment/internal/entity"
)

// AggregateDaily groups article-level sentiment records by the calendar date
// of their matching article and classifies each day. Records whose article
// cannot be found are dropped, not erred. The result is sorted ascending by
// date; lexicographic ISO-date order is chronological order.
func AggregateDaily(records []entity.SentimentRecord, articles []entity.Article) []entity.DailySentiment {
	dateByHash := make(map[string]string, len(articles))
	for _, article := range articles {
		dateByHash[article.Hash] = article.Date
	}

	byDate := make(map[string]*entity.DailySentiment)
	for _, record := range records {
		date, ok := dateByHash[record.ArticleHash]
		if !ok {
			continue
		}
		day, ok := byDate[date]
		if !ok {
			day = &entity.DailySentiment{Date: date}
			byDate[date] = day
		}
		day.PositiveTotal += record.PositiveCount
		day.NegativeTotal += record.NegativeCount
		day.ArticleCount++
	}

	result := make([]entity.DailySentiment, 0, len(byDate))
	for _, day := range byDate {
		if total := day.PositiveTotal + day.NegativeTotal; total > 0 {
			day.Score = float64(day.PositiveTotal-day.NegativeTotal) / float64(total)
		}
		day.Classification = entity.ClassifySentimentScore(day.Score)
		result = append(result, *day)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Date < result[j].Date
	})
	return result
}
