package repository

import (
	"bufio"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"TrendPulse/internal/domain/models"
	domrepo "TrendPulse/internal/domain/repository"
	applogger "TrendPulse/pkg/logger"
	"TrendPulse/pkg/util"
)

// FileFeatureSource reads feature records from a CSV or JSONL file. The
// format is chosen by extension; each Scan reopens the file, so a scan can
// be restarted at any time.
type FileFeatureSource struct {
	path string
	l    *applogger.Logger
}

// NewFileFeatureSource creates a file-backed feature source.
func NewFileFeatureSource(path string) *FileFeatureSource {
	return &FileFeatureSource{path: path}
}

// SetLogger injects a structured logger.
func (s *FileFeatureSource) SetLogger(l *applogger.Logger) { s.l = l }

func (s *FileFeatureSource) Scan(ctx context.Context, f domrepo.Filter, yield func(models.FeatureRecord) error, onErr func(*models.RecordError)) error {
	file, err := os.Open(s.path)
	if err != nil {
		return fmt.Errorf("%w: open %s: %v", models.ErrSourceUnavailable, s.path, err)
	}
	defer file.Close()

	switch strings.ToLower(filepath.Ext(s.path)) {
	case ".jsonl", ".ndjson":
		return s.scanJSONL(ctx, file, f, yield, onErr)
	default:
		return s.scanCSV(ctx, file, f, yield, onErr)
	}
}

// jsonlRecord is the wire shape of one JSONL line. Timestamp stays a string
// so malformed values become record errors rather than decode failures.
type jsonlRecord struct {
	ID                string   `json:"id"`
	Timestamp         string   `json:"timestamp"`
	DedupKey          string   `json:"dedup_key"`
	Language          string   `json:"language"`
	KeywordScore      *float64 `json:"keyword_score"`
	EmbeddingPolarity *float64 `json:"embedding_polarity"`
}

func (s *FileFeatureSource) scanJSONL(ctx context.Context, r io.Reader, f domrepo.Filter, yield func(models.FeatureRecord) error, onErr func(*models.RecordError)) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}

		var row jsonlRecord
		if err := json.Unmarshal([]byte(line), &row); err != nil {
			onErr(&models.RecordError{Kind: models.KindMissingField, Err: fmt.Errorf("decode line: %w", err)})
			continue
		}

		rec, recErr := buildRecord(row.ID, row.Timestamp, row.DedupKey, row.Language, row.KeywordScore, row.EmbeddingPolarity)
		if recErr != nil {
			onErr(recErr)
			continue
		}
		if !f.Match(rec) {
			continue
		}
		if err := yield(rec); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("%w: read %s: %v", models.ErrSourceUnavailable, s.path, err)
	}
	return nil
}

func (s *FileFeatureSource) scanCSV(ctx context.Context, r io.Reader, f domrepo.Filter, yield func(models.FeatureRecord) error, onErr func(*models.RecordError)) error {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return fmt.Errorf("%w: read header %s: %v", models.ErrSourceUnavailable, s.path, err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(strings.ToLower(name))] = i
	}
	for _, required := range []string{"id", "timestamp", "keyword_score"} {
		if _, ok := col[required]; !ok {
			return fmt.Errorf("%w: %s: missing column %q", models.ErrSourceUnavailable, s.path, required)
		}
	}

	field := func(row []string, name string) string {
		idx, ok := col[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		row, err := cr.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			onErr(&models.RecordError{Kind: models.KindMissingField, Err: fmt.Errorf("read row: %w", err)})
			continue
		}

		// A present but non-numeric score fails the record; only an empty
		// cell means absent.
		var kw *float64
		if raw := field(row, "keyword_score"); raw != "" {
			v, perr := strconv.ParseFloat(raw, 64)
			if perr != nil {
				onErr(&models.RecordError{
					Kind: models.KindMissingField,
					ID:   field(row, "id"),
					Err:  fmt.Errorf("keyword_score %q: %v", raw, perr),
				})
				continue
			}
			kw = &v
		}
		var emb *float64
		if raw := field(row, "embedding_polarity"); raw != "" {
			v, perr := strconv.ParseFloat(raw, 64)
			if perr != nil {
				onErr(&models.RecordError{
					Kind: models.KindMissingField,
					ID:   field(row, "id"),
					Err:  fmt.Errorf("embedding_polarity %q: %v", raw, perr),
				})
				continue
			}
			emb = &v
		}

		rec, recErr := buildRecord(field(row, "id"), field(row, "timestamp"), field(row, "dedup_key"), field(row, "language"), kw, emb)
		if recErr != nil {
			onErr(recErr)
			continue
		}
		if !f.Match(rec) {
			continue
		}
		if err := yield(rec); err != nil {
			return err
		}
	}
}

// buildRecord validates raw fields into a FeatureRecord. A record with no
// usable score at all cannot be classified and is rejected as missing_field.
func buildRecord(id, ts, dedupKey, language string, kw, emb *float64) (models.FeatureRecord, *models.RecordError) {
	if id == "" {
		return models.FeatureRecord{}, &models.RecordError{
			Kind: models.KindMissingField,
			Err:  fmt.Errorf("id is empty"),
		}
	}
	t, ok := util.ParseTime(ts)
	if !ok {
		return models.FeatureRecord{}, &models.RecordError{
			Kind: models.KindInvalidTimestamp,
			ID:   id,
			Err:  fmt.Errorf("unparseable timestamp %q", ts),
		}
	}
	if kw == nil && emb == nil {
		return models.FeatureRecord{}, &models.RecordError{
			Kind: models.KindMissingField,
			ID:   id,
			Err:  fmt.Errorf("no keyword_score or embedding_polarity"),
		}
	}

	rec := models.FeatureRecord{
		ID:                id,
		Timestamp:         t,
		DedupKey:          dedupKey,
		Language:          language,
		EmbeddingPolarity: emb,
	}
	if kw != nil {
		rec.KeywordScore = *kw
	}
	if rec.DedupKey == "" {
		rec.DedupKey = id
	}
	return rec, nil
}
