package domain

import (
	"encoding/json"
	"errors"
)

// LoadStats collects diagnostics for one load. Failures recorded here never abort the load.
type LoadStats struct {
	SourcesRead        int             `json:"sources_read"`
	SourcesExitedEarly int             `json:"sources_exited_early"`
	LinesRead          int             `json:"lines_read"`
	RecordsMatched     int             `json:"records_matched"`
	SkippedSources     []SourceFailure `json:"skipped_sources,omitempty"`
	LineFailures       []LineFailure   `json:"line_failures,omitempty"`
}

// FailureCount returns the number of line failures caused by reason.
func (s *LoadStats) FailureCount(reason error) int {
	if s == nil {
		return 0
	}
	n := 0
	for _, f := range s.LineFailures {
		if errors.Is(f.Err, reason) {
			n++
		}
	}
	return n
}

// SourceFailure describes a source that was skipped.
type SourceFailure struct {
	Source string
	Err    error
}

// MarshalJSON renders the failure with its error message.
func (f SourceFailure) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Source string `json:"source"`
		Error  string `json:"error"`
	}{f.Source, errString(f.Err)})
}

// LineFailure describes a line that could not be parsed.
type LineFailure struct {
	Source string
	Line   int
	Err    error
}

// MarshalJSON renders the failure with its error message.
func (f LineFailure) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Source string `json:"source"`
		Line   int    `json:"line"`
		Error  string `json:"error"`
	}{f.Source, f.Line, errString(f.Err)})
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
