package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"TrendPulse/internal/domain/models"
	domrepo "TrendPulse/internal/domain/repository"
	pkgch "TrendPulse/pkg/clickhouse"
	applogger "TrendPulse/pkg/logger"
)

// CHFeatureSource implements FeatureSource backed by ClickHouse.
type CHFeatureSource struct {
	db    *sql.DB
	table string
	l     *applogger.Logger
}

// NewCHFeatureSource creates a ClickHouse-backed feature source reading from
// <database>.tweet_features.
func NewCHFeatureSource(ch *pkgch.Client, database string) *CHFeatureSource {
	return &CHFeatureSource{db: ch.DB(), table: database + ".tweet_features"}
}

// SetLogger injects a structured logger.
func (s *CHFeatureSource) SetLogger(l *applogger.Logger) { s.l = l }

func (s *CHFeatureSource) Scan(ctx context.Context, f domrepo.Filter, yield func(models.FeatureRecord) error, onErr func(*models.RecordError)) error {
	start := time.Now()

	q := fmt.Sprintf(`
        SELECT id, ts, dedup_key, language, keyword_score, embedding_polarity
        FROM %s
        WHERE 1 = 1`, s.table)
	args := make([]interface{}, 0, 2)
	if !f.From.IsZero() {
		q += " AND ts >= ?"
		args = append(args, f.From)
	}
	if !f.To.IsZero() {
		q += " AND ts <= ?"
		args = append(args, f.To)
	}
	q += " ORDER BY ts ASC, id ASC"

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse feature scan query error",
				applogger.String("table", s.table),
				applogger.Error(err),
			)
		}
		return fmt.Errorf("%w: query %s: %v", models.ErrSourceUnavailable, s.table, err)
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var (
			id, dedupKey, language string
			ts                     time.Time
			kw                     float64
			emb                    sql.NullFloat64
		)
		if err := rows.Scan(&id, &ts, &dedupKey, &language, &kw, &emb); err != nil {
			onErr(&models.RecordError{Kind: models.KindMissingField, Err: fmt.Errorf("scan row: %w", err)})
			continue
		}

		if id == "" {
			onErr(&models.RecordError{Kind: models.KindMissingField, Err: fmt.Errorf("id is empty")})
			continue
		}
		if ts.IsZero() {
			onErr(&models.RecordError{Kind: models.KindInvalidTimestamp, ID: id, Err: fmt.Errorf("zero timestamp")})
			continue
		}

		rec := models.FeatureRecord{
			ID:           id,
			Timestamp:    ts,
			DedupKey:     dedupKey,
			Language:     language,
			KeywordScore: kw,
		}
		if emb.Valid {
			v := emb.Float64
			rec.EmbeddingPolarity = &v
		}
		if rec.DedupKey == "" {
			rec.DedupKey = id
		}
		if err := yield(rec); err != nil {
			return err
		}
		count++
	}
	if err := rows.Err(); err != nil {
		if s.l != nil {
			s.l.Error("clickhouse feature scan rows error",
				applogger.String("table", s.table),
				applogger.Error(err),
			)
		}
		return fmt.Errorf("%w: rows %s: %v", models.ErrSourceUnavailable, s.table, err)
	}

	if s.l != nil {
		s.l.Info("clickhouse feature scan ok",
			applogger.String("table", s.table),
			applogger.Int("rows", count),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return nil
}
