package usecase

import (
	"TrendPulse/internal/domain/models"
)

// Aggregator reduces one day's bucket to volume and label shares.
type Aggregator struct{}

// NewAggregator creates an aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Stats computes the day's statistics. The second return is false for an
// empty bucket: a zero-volume day carries no information and emits no row.
// Percentages stay unrounded here; presentation rounding happens when the
// final signal row is built.
func (a *Aggregator) Stats(bucket *models.DailyBucket) (models.DailyStats, bool) {
	if bucket == nil || len(bucket.Posts) == 0 {
		return models.DailyStats{}, false
	}

	var buy, sell, neutral int
	var keywordSum float64
	for _, post := range bucket.Posts {
		switch post.Label {
		case models.LabelBuy:
			buy++
		case models.LabelSell:
			sell++
		default:
			neutral++
		}
		keywordSum += post.KeywordScore
	}

	volume := len(bucket.Posts)
	return models.DailyStats{
		Day:             bucket.Day,
		TweetVolume:     volume,
		BuyPct:          float64(buy) / float64(volume),
		SellPct:         float64(sell) / float64(volume),
		NeutralPct:      float64(neutral) / float64(volume),
		AvgKeywordScore: keywordSum / float64(volume),
	}, true
}
