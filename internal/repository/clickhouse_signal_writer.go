package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"TrendPulse/internal/domain/models"
	pkgch "TrendPulse/pkg/clickhouse"
)

// CHSignalWriter persists daily signals into ClickHouse. The target table is
// a ReplacingMergeTree keyed by date, so re-running a day overwrites it.
type CHSignalWriter struct {
	db    *sql.DB
	table string
}

// NewCHSignalWriter creates a ClickHouse signal writer targeting
// <database>.daily_signals.
func NewCHSignalWriter(ch *pkgch.Client, database string) *CHSignalWriter {
	return &CHSignalWriter{db: ch.DB(), table: database + ".daily_signals"}
}

func (w *CHSignalWriter) Write(ctx context.Context, signals []models.DailySignal) error {
	if len(signals) == 0 {
		return nil
	}

	// Multi-row VALUES to reduce round-trips, chunked.
	const chunkSize = 2000
	for start := 0; start < len(signals); start += chunkSize {
		end := start + chunkSize
		if end > len(signals) {
			end = len(signals)
		}

		values := make([]string, 0, end-start)
		args := make([]interface{}, 0, (end-start)*8)
		for _, s := range signals[start:end] {
			values = append(values, "(?, ?, ?, ?, ?, ?, ?, ?)")
			args = append(args,
				string(s.Day),
				uint32(s.TweetVolume),
				s.BuyPct,
				s.SellPct,
				s.NeutralPct,
				string(s.Signal),
				s.ConfidencePct,
				s.LowVolume,
			)
		}
		q := fmt.Sprintf("INSERT INTO %s (date, tweet_volume, buy_pct, sell_pct, neutral_pct, signal, confidence_pct, low_volume) VALUES %s",
			w.table, strings.Join(values, ","))
		if _, err := w.db.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("%w: insert %s: %v", models.ErrWriteFailure, w.table, err)
		}
	}
	return nil
}
