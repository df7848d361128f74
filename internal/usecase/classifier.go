package usecase

import (
	"math"

	"TrendPulse/internal/domain/models"
)

// Classifier maps one feature record to a discrete label plus a polarity
// magnitude. Pure and deterministic; thresholds and weights come from
// configuration, never hardcoded here.
type Classifier struct {
	buyThreshold    float64
	sellThreshold   float64
	keywordWeight   float64
	embeddingWeight float64
}

// NewClassifier creates a classifier. Config validation has already
// established sellThreshold < 0 < buyThreshold and the weights sum to 1.
func NewClassifier(buyThreshold, sellThreshold, keywordWeight, embeddingWeight float64) *Classifier {
	return &Classifier{
		buyThreshold:    buyThreshold,
		sellThreshold:   sellThreshold,
		keywordWeight:   keywordWeight,
		embeddingWeight: embeddingWeight,
	}
}

// Classify blends the keyword score with the embedding polarity and applies
// the thresholds. When the record has no embedding polarity the keyword
// score carries full weight for that record only; the second return reports
// that fallback so the run summary can count it.
func (c *Classifier) Classify(rec models.FeatureRecord) (models.ClassifiedPost, bool) {
	p := rec.KeywordScore
	fellBack := !rec.HasEmbedding()
	if !fellBack {
		p = c.keywordWeight*rec.KeywordScore + c.embeddingWeight*(*rec.EmbeddingPolarity)
	}

	label := models.LabelNeutral
	switch {
	case p > c.buyThreshold:
		label = models.LabelBuy
	case p < c.sellThreshold:
		label = models.LabelSell
	}

	return models.ClassifiedPost{
		FeatureRecord: rec,
		Label:         label,
		Magnitude:     math.Min(1, math.Abs(p)),
	}, fellBack
}
