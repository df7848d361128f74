package usecase

import (
	"testing"
	"time"

	"TrendPulse/internal/domain/models"
)

func rec(kw float64, emb *float64) models.FeatureRecord {
	return models.FeatureRecord{
		ID:                "p1",
		Timestamp:         time.Date(2025, 8, 3, 12, 0, 0, 0, time.UTC),
		DedupKey:          "d1",
		Language:          "en",
		KeywordScore:      kw,
		EmbeddingPolarity: emb,
	}
}

func fptr(v float64) *float64 { return &v }

func TestClassifyBlended(t *testing.T) {
	c := NewClassifier(0.2, -0.2, 0.6, 0.4)

	// 0.6*0.5 + 0.4*0.5 = 0.5 > 0.2
	post, fellBack := c.Classify(rec(0.5, fptr(0.5)))
	if fellBack {
		t.Fatalf("unexpected fallback with embedding present")
	}
	if post.Label != models.LabelBuy {
		t.Fatalf("expected buy, got %s", post.Label)
	}
	if post.Magnitude != 0.5 {
		t.Fatalf("expected magnitude 0.5, got %g", post.Magnitude)
	}

	// 0.6*0.1 + 0.4*(-0.9) = -0.3 < -0.2
	post, _ = c.Classify(rec(0.1, fptr(-0.9)))
	if post.Label != models.LabelSell {
		t.Fatalf("expected sell, got %s", post.Label)
	}

	// 0.6*0.2 + 0.4*0.2 = 0.2, not strictly above threshold
	post, _ = c.Classify(rec(0.2, fptr(0.2)))
	if post.Label != models.LabelNeutral {
		t.Fatalf("expected neutral at exact threshold, got %s", post.Label)
	}
}

func TestClassifyFallbackWithoutEmbedding(t *testing.T) {
	c := NewClassifier(0.2, -0.2, 0.6, 0.4)

	// keyword carries full weight: 0.3 > 0.2 even though 0.6*0.3 would not be
	post, fellBack := c.Classify(rec(0.3, nil))
	if !fellBack {
		t.Fatalf("expected fallback without embedding")
	}
	if post.Label != models.LabelBuy {
		t.Fatalf("expected buy via fallback, got %s", post.Label)
	}
}

func TestClassifyMagnitudeClamped(t *testing.T) {
	c := NewClassifier(0.2, -0.2, 0.5, 0.5)

	post, _ := c.Classify(rec(1.5, fptr(1.5)))
	if post.Magnitude != 1 {
		t.Fatalf("expected magnitude clamped to 1, got %g", post.Magnitude)
	}
}

func TestClassifyDeterministic(t *testing.T) {
	c := NewClassifier(0.2, -0.2, 0.6, 0.4)
	in := rec(0.37, fptr(-0.12))

	first, _ := c.Classify(in)
	for i := 0; i < 100; i++ {
		got, _ := c.Classify(in)
		if got.Label != first.Label || got.Magnitude != first.Magnitude {
			t.Fatalf("classification not deterministic: %v vs %v", got, first)
		}
	}
}
