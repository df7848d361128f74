package models

import "time"

// Label is the discrete sentiment call for a post or a day.
type Label string

const (
	LabelBuy     Label = "buy"
	LabelSell    Label = "sell"
	LabelNeutral Label = "neutral"
)

// FeatureRecord is one post reduced to the fields the engine needs.
// Scores are computed upstream; the engine never recomputes them.
type FeatureRecord struct {
	ID                string
	Timestamp         time.Time
	DedupKey          string
	Language          string
	KeywordScore      float64  // [-1, 1], positive = bullish keyword density
	EmbeddingPolarity *float64 // [-1, 1]; nil when the sentiment model produced no score
}

// HasEmbedding reports whether a model-derived polarity is present.
func (r FeatureRecord) HasEmbedding() bool {
	return r.EmbeddingPolarity != nil
}

// ClassifiedPost is a FeatureRecord with its per-post decision attached.
// Immutable once created.
type ClassifiedPost struct {
	FeatureRecord
	Label     Label
	Magnitude float64 // min(1, |blended polarity|)
}
