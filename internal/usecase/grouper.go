package usecase

import (
	"time"

	"TrendPulse/internal/domain/models"
	"TrendPulse/pkg/util"
)

// GroupStats counts the posts the grouper dropped and why.
type GroupStats struct {
	LanguageFiltered  int
	DuplicatesDropped int
	InvalidTimestamps int
}

// Grouper buckets classified posts into market-timezone calendar days.
// Dedup collisions within a day keep the first-seen post; re-running on the
// same input plus exact duplicates yields identical buckets.
type Grouper struct {
	loc       *time.Location
	allowlist map[string]struct{}
}

// NewGrouper creates a grouper. An empty language list allows every
// language.
func NewGrouper(loc *time.Location, languages []string) *Grouper {
	var allow map[string]struct{}
	if len(languages) > 0 {
		allow = make(map[string]struct{}, len(languages))
		for _, lang := range languages {
			allow[lang] = struct{}{}
		}
	}
	return &Grouper{loc: loc, allowlist: allow}
}

// Group partitions posts by calendar day. Order-sensitive: dedup keeps the
// first occurrence in input order, so callers must not reorder posts before
// grouping.
func (g *Grouper) Group(posts []models.ClassifiedPost) (map[models.Day]*models.DailyBucket, GroupStats) {
	buckets := make(map[models.Day]*models.DailyBucket)
	seen := make(map[models.Day]map[string]struct{})
	var stats GroupStats

	for _, post := range posts {
		if g.allowlist != nil {
			if _, ok := g.allowlist[post.Language]; !ok {
				stats.LanguageFiltered++
				continue
			}
		}

		key, ok := util.DayKey(post.Timestamp, g.loc)
		if !ok {
			stats.InvalidTimestamps++
			continue
		}
		day := models.Day(key)

		if _, ok := seen[day]; !ok {
			seen[day] = make(map[string]struct{})
		}
		if _, dup := seen[day][post.DedupKey]; dup {
			stats.DuplicatesDropped++
			continue
		}
		seen[day][post.DedupKey] = struct{}{}

		bucket, ok := buckets[day]
		if !ok {
			bucket = &models.DailyBucket{Day: day}
			buckets[day] = bucket
		}
		bucket.Posts = append(bucket.Posts, post)
	}

	return buckets, stats
}
