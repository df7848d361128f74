package models

// Day is a calendar date in the market timezone, formatted 2006-01-02.
// String ordering matches chronological ordering.
type Day string

// DailyBucket holds one market-day's retained posts, in arrival order,
// with distinct dedup keys. Discarded after aggregation.
type DailyBucket struct {
	Day   Day
	Posts []ClassifiedPost
}

// DailyStats are the volume and share statistics for one day's bucket.
type DailyStats struct {
	Day             Day
	TweetVolume     int
	BuyPct          float64
	SellPct         float64
	NeutralPct      float64
	AvgKeywordScore float64 // mean keyword_score over retained posts, [-1, 1]
}

// DailySignal is one output row. Immutable once written; the full output
// is sorted ascending by Day.
type DailySignal struct {
	Day           Day     `json:"date"`
	TweetVolume   int     `json:"tweet_volume"`
	BuyPct        float64 `json:"buy_pct"`
	SellPct       float64 `json:"sell_pct"`
	NeutralPct    float64 `json:"neutral_pct"`
	Signal        Label   `json:"signal"`
	ConfidencePct float64 `json:"confidence_pct"`
	LowVolume     bool    `json:"low_volume"`
}
