package repository

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"TrendPulse/internal/domain/models"
)

// CSVSignalWriter writes the daily signal table to a CSV file, one row per
// day in the order given.
type CSVSignalWriter struct {
	path string
}

// NewCSVSignalWriter creates a CSV signal writer.
func NewCSVSignalWriter(path string) *CSVSignalWriter {
	return &CSVSignalWriter{path: path}
}

func (w *CSVSignalWriter) Write(ctx context.Context, signals []models.DailySignal) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if dir := filepath.Dir(w.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: mkdir %s: %v", models.ErrWriteFailure, dir, err)
		}
	}

	file, err := os.Create(w.path)
	if err != nil {
		return fmt.Errorf("%w: create %s: %v", models.ErrWriteFailure, w.path, err)
	}
	defer file.Close()

	cw := csv.NewWriter(file)
	if err := cw.Write([]string{"date", "tweet_volume", "buy_pct", "sell_pct", "signal", "confidence_pct"}); err != nil {
		return fmt.Errorf("%w: write header %s: %v", models.ErrWriteFailure, w.path, err)
	}

	for _, s := range signals {
		row := []string{
			string(s.Day),
			strconv.Itoa(s.TweetVolume),
			strconv.FormatFloat(s.BuyPct, 'f', 2, 64),
			strconv.FormatFloat(s.SellPct, 'f', 2, 64),
			string(s.Signal),
			strconv.FormatFloat(s.ConfidencePct, 'f', 1, 64),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("%w: write row %s %s: %v", models.ErrWriteFailure, s.Day, w.path, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("%w: flush %s: %v", models.ErrWriteFailure, w.path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %v", models.ErrWriteFailure, w.path, err)
	}
	return nil
}
