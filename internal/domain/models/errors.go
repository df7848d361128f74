package models

import (
	"errors"
	"fmt"
)

// Fatal error classes. Record-level problems use RecordError instead and
// never abort a run.
var (
	// ErrSourceUnavailable means the backing feature data cannot be read at all.
	ErrSourceUnavailable = errors.New("feature source unavailable")

	// ErrWriteFailure means the output destination rejected the signal table.
	ErrWriteFailure = errors.New("signal write failure")
)

// ErrorKind tags a per-record failure for the run summary tally.
type ErrorKind string

const (
	KindInvalidTimestamp ErrorKind = "invalid_timestamp"
	KindMissingField     ErrorKind = "missing_field"
)

// RecordError is a per-record failure. The record is skipped and counted;
// the run continues.
type RecordError struct {
	Kind ErrorKind
	ID   string // post id when known, may be empty for unparseable rows
	Err  error
}

func (e *RecordError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("record %s: %s: %v", e.ID, e.Kind, e.Err)
	}
	return fmt.Sprintf("record: %s: %v", e.Kind, e.Err)
}

func (e *RecordError) Unwrap() error { return e.Err }
