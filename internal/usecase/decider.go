package usecase

import (
	"math"

	"TrendPulse/internal/domain/models"
)

// Confidence modes. "share" reports the winning class's share; "composite"
// reproduces the historical blend of buy share, keyword tone, and volume.
// Both are documented heuristics, not statistical intervals.
const (
	ConfidenceShare     = "share"
	ConfidenceComposite = "composite"
)

// Decider turns one day's statistics into the final signal row.
type Decider struct {
	minVolumePct   float64
	minDailyVolume int
	mode           string
}

// NewDecider creates a decider. mode is one of the Confidence constants;
// config validation has already rejected anything else.
func NewDecider(minVolumePct float64, minDailyVolume int, mode string) *Decider {
	return &Decider{
		minVolumePct:   minVolumePct,
		minDailyVolume: minDailyVolume,
		mode:           mode,
	}
}

// Decide applies the plurality rule with the min_volume_pct floor. An exact
// buy/sell tie is always neutral. Days under min_daily_volume are forced
// neutral and flagged low_volume so consumers can discount them.
func (d *Decider) Decide(stats models.DailyStats) models.DailySignal {
	signal := models.LabelNeutral
	switch {
	case stats.BuyPct > stats.SellPct && stats.BuyPct >= d.minVolumePct:
		signal = models.LabelBuy
	case stats.SellPct > stats.BuyPct && stats.SellPct >= d.minVolumePct:
		signal = models.LabelSell
	}

	lowVolume := stats.TweetVolume < d.minDailyVolume
	if lowVolume {
		signal = models.LabelNeutral
	}

	return models.DailySignal{
		Day:           stats.Day,
		TweetVolume:   stats.TweetVolume,
		BuyPct:        round2(stats.BuyPct),
		SellPct:       round2(stats.SellPct),
		NeutralPct:    round2(stats.NeutralPct),
		Signal:        signal,
		ConfidencePct: d.confidence(stats),
		LowVolume:     lowVolume,
	}
}

func (d *Decider) confidence(stats models.DailyStats) float64 {
	var score float64
	switch d.mode {
	case ConfidenceComposite:
		volumeTerm := math.Min(float64(stats.TweetVolume)/500, 1)
		keywordTerm := (stats.AvgKeywordScore + 1) / 2
		score = 100 * (0.5*stats.BuyPct + 0.3*keywordTerm + 0.2*volumeTerm)
	default:
		score = 100 * math.Max(stats.BuyPct, math.Max(stats.SellPct, stats.NeutralPct))
	}
	return round1(math.Max(0, math.Min(100, score)))
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
