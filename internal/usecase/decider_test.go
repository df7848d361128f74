package usecase

import (
	"testing"

	"TrendPulse/internal/domain/models"
)

func sampleStats() models.DailyStats {
	// 930 buy / 366 sell / 227 neutral out of 1523
	return models.DailyStats{
		Day:             "2025-08-03",
		TweetVolume:     1523,
		BuyPct:          930.0 / 1523,
		SellPct:         366.0 / 1523,
		NeutralPct:      227.0 / 1523,
		AvgKeywordScore: 0.12,
	}
}

func TestDecidePluralityBuy(t *testing.T) {
	d := NewDecider(0, 20, ConfidenceShare)

	s := d.Decide(sampleStats())
	if s.Signal != models.LabelBuy {
		t.Fatalf("expected buy, got %s", s.Signal)
	}
	if s.LowVolume {
		t.Fatalf("1523 posts must not be low volume")
	}
	if s.BuyPct != 0.61 || s.SellPct != 0.24 || s.NeutralPct != 0.15 {
		t.Fatalf("wrong rounded shares: %g %g %g", s.BuyPct, s.SellPct, s.NeutralPct)
	}
	// 930/1523 = 0.61064, share confidence rounds to one decimal
	if s.ConfidencePct != 61.1 {
		t.Fatalf("expected share confidence 61.1, got %g", s.ConfidencePct)
	}
}

func TestDecideCompositeConfidence(t *testing.T) {
	d := NewDecider(0, 20, ConfidenceComposite)

	s := d.Decide(sampleStats())
	if s.Signal != models.LabelBuy {
		t.Fatalf("expected buy, got %s", s.Signal)
	}
	// 100*(0.5*0.61064 + 0.3*(1.12/2) + 0.2*1) = 67.3
	if s.ConfidencePct != 67.3 {
		t.Fatalf("expected composite confidence 67.3, got %g", s.ConfidencePct)
	}
}

func TestDecideTieIsNeutral(t *testing.T) {
	d := NewDecider(0, 0, ConfidenceShare)

	s := d.Decide(models.DailyStats{
		Day:         "2025-08-05",
		TweetVolume: 100,
		BuyPct:      0.45,
		SellPct:     0.45,
		NeutralPct:  0.10,
	})
	if s.Signal != models.LabelNeutral {
		t.Fatalf("tie must be neutral, got %s", s.Signal)
	}
	if s.ConfidencePct != 45.0 {
		t.Fatalf("expected confidence 45.0, got %g", s.ConfidencePct)
	}
}

func TestDecideMinVolumePctFloor(t *testing.T) {
	d := NewDecider(0.5, 0, ConfidenceShare)

	s := d.Decide(models.DailyStats{
		Day:         "2025-08-05",
		TweetVolume: 100,
		BuyPct:      0.40,
		SellPct:     0.30,
		NeutralPct:  0.30,
	})
	if s.Signal != models.LabelNeutral {
		t.Fatalf("buy share below floor must be neutral, got %s", s.Signal)
	}
}

func TestDecideLowVolumeForcedNeutral(t *testing.T) {
	d := NewDecider(0, 20, ConfidenceShare)

	s := d.Decide(models.DailyStats{
		Day:         "2025-08-06",
		TweetVolume: 5,
		BuyPct:      0.8,
		SellPct:     0.2,
	})
	if s.Signal != models.LabelNeutral {
		t.Fatalf("low-volume day must be neutral, got %s", s.Signal)
	}
	if !s.LowVolume {
		t.Fatalf("low-volume flag must be set")
	}
	if s.ConfidencePct != 80.0 {
		t.Fatalf("confidence still computed the same way, got %g", s.ConfidencePct)
	}
}

func TestDecideSellSide(t *testing.T) {
	d := NewDecider(0, 0, ConfidenceShare)

	s := d.Decide(models.DailyStats{
		Day:         "2025-08-07",
		TweetVolume: 50,
		BuyPct:      0.2,
		SellPct:     0.5,
		NeutralPct:  0.3,
	})
	if s.Signal != models.LabelSell {
		t.Fatalf("expected sell, got %s", s.Signal)
	}
	if s.ConfidencePct != 50.0 {
		t.Fatalf("expected confidence 50.0, got %g", s.ConfidencePct)
	}
}
