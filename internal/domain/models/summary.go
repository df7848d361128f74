package models

import "time"

// RunSummary accounts for every record the run touched. Record-level errors
// are isolated here instead of aborting the run; nothing is dropped without
// being counted.
type RunSummary struct {
	RecordsRead        int                 `json:"records_read"`
	Classified         int                 `json:"classified"`
	LanguageFiltered   int                 `json:"language_filtered"`
	DuplicatesDropped  int                 `json:"duplicates_dropped"`
	EmbeddingFallbacks int                 `json:"embedding_fallbacks"`
	DaysEmitted        int                 `json:"days_emitted"`
	SinkFailures       int                 `json:"sink_failures"`
	RecordErrors       map[ErrorKind]int   `json:"record_errors,omitempty"`
	StartedAt          time.Time           `json:"started_at"`
	FinishedAt         time.Time           `json:"finished_at"`
}

// NewRunSummary starts a summary for a run beginning now.
func NewRunSummary() *RunSummary {
	return &RunSummary{
		RecordErrors: make(map[ErrorKind]int),
		StartedAt:    time.Now(),
	}
}

// CountError tallies one skipped record of the given kind.
func (s *RunSummary) CountError(kind ErrorKind) {
	s.RecordErrors[kind]++
}

// ErrorTotal is the number of records skipped for any reason.
func (s *RunSummary) ErrorTotal() int {
	total := 0
	for _, n := range s.RecordErrors {
		total += n
	}
	return total
}
