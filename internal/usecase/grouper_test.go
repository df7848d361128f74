package usecase

import (
	"testing"
	"time"

	"TrendPulse/internal/domain/models"
)

func post(id, dedup, lang string, ts time.Time) models.ClassifiedPost {
	return models.ClassifiedPost{
		FeatureRecord: models.FeatureRecord{
			ID:        id,
			Timestamp: ts,
			DedupKey:  dedup,
			Language:  lang,
		},
		Label: models.LabelNeutral,
	}
}

func TestGroupMarketTimezoneDay(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	g := NewGrouper(ny, nil)

	// 03:00 UTC on Aug 4 is still Aug 3 in New York
	buckets, _ := g.Group([]models.ClassifiedPost{
		post("a", "a", "en", time.Date(2025, 8, 4, 3, 0, 0, 0, time.UTC)),
		post("b", "b", "en", time.Date(2025, 8, 4, 15, 0, 0, 0, time.UTC)),
	})

	if len(buckets) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(buckets))
	}
	if b := buckets[models.Day("2025-08-03")]; b == nil || len(b.Posts) != 1 {
		t.Fatalf("expected the early-UTC post in 2025-08-03: %+v", b)
	}
	if b := buckets[models.Day("2025-08-04")]; b == nil || len(b.Posts) != 1 {
		t.Fatalf("expected the afternoon post in 2025-08-04: %+v", b)
	}
}

func TestGroupDedupFirstSeenWins(t *testing.T) {
	g := NewGrouper(time.UTC, nil)
	day := time.Date(2025, 8, 3, 10, 0, 0, 0, time.UTC)

	first := post("a", "same", "en", day)
	first.Label = models.LabelBuy
	dup := post("b", "same", "en", day.Add(time.Hour))
	dup.Label = models.LabelSell

	buckets, stats := g.Group([]models.ClassifiedPost{first, dup})
	if stats.DuplicatesDropped != 1 {
		t.Fatalf("expected 1 duplicate dropped, got %d", stats.DuplicatesDropped)
	}
	b := buckets[models.Day("2025-08-03")]
	if b == nil || len(b.Posts) != 1 {
		t.Fatalf("expected single retained post: %+v", b)
	}
	if b.Posts[0].ID != "a" || b.Posts[0].Label != models.LabelBuy {
		t.Fatalf("expected first-seen post retained, got %+v", b.Posts[0])
	}
}

func TestGroupDedupIdempotent(t *testing.T) {
	g := NewGrouper(time.UTC, nil)
	day := time.Date(2025, 8, 3, 10, 0, 0, 0, time.UTC)
	posts := []models.ClassifiedPost{
		post("a", "k1", "en", day),
		post("b", "k2", "en", day.Add(time.Minute)),
	}

	base, _ := g.Group(posts)
	withDups, _ := g.Group(append(posts, posts...))

	if len(base) != len(withDups) {
		t.Fatalf("bucket count changed: %d vs %d", len(base), len(withDups))
	}
	for day, b := range base {
		other := withDups[day]
		if other == nil || len(other.Posts) != len(b.Posts) {
			t.Fatalf("day %s differs after duplicate append", day)
		}
		for i := range b.Posts {
			if b.Posts[i].ID != other.Posts[i].ID {
				t.Fatalf("day %s post order differs after duplicate append", day)
			}
		}
	}
}

func TestGroupSameDedupKeyAcrossDays(t *testing.T) {
	g := NewGrouper(time.UTC, nil)

	buckets, stats := g.Group([]models.ClassifiedPost{
		post("a", "same", "en", time.Date(2025, 8, 3, 10, 0, 0, 0, time.UTC)),
		post("b", "same", "en", time.Date(2025, 8, 4, 10, 0, 0, 0, time.UTC)),
	})
	if stats.DuplicatesDropped != 0 {
		t.Fatalf("dedup must be per-day, dropped %d", stats.DuplicatesDropped)
	}
	if len(buckets) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(buckets))
	}
}

func TestGroupLanguageAllowlist(t *testing.T) {
	g := NewGrouper(time.UTC, []string{"en", "hi"})
	day := time.Date(2025, 8, 3, 10, 0, 0, 0, time.UTC)

	buckets, stats := g.Group([]models.ClassifiedPost{
		post("a", "a", "en", day),
		post("b", "b", "fr", day),
		post("c", "c", "hi", day),
	})
	if stats.LanguageFiltered != 1 {
		t.Fatalf("expected 1 filtered, got %d", stats.LanguageFiltered)
	}
	b := buckets[models.Day("2025-08-03")]
	if b == nil || len(b.Posts) != 2 {
		t.Fatalf("expected 2 retained posts: %+v", b)
	}
}

func TestGroupInvalidTimestampCounted(t *testing.T) {
	g := NewGrouper(time.UTC, nil)

	buckets, stats := g.Group([]models.ClassifiedPost{
		post("a", "a", "en", time.Time{}),
		post("b", "b", "en", time.Date(2025, 8, 3, 10, 0, 0, 0, time.UTC)),
	})
	if stats.InvalidTimestamps != 1 {
		t.Fatalf("expected 1 invalid timestamp, got %d", stats.InvalidTimestamps)
	}
	if len(buckets) != 1 {
		t.Fatalf("expected 1 bucket, got %d", len(buckets))
	}
}
