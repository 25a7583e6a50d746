package cookielog

import (
	"bufio"
	"errors"
	"fmt"
	"log"

	"example.com/mostactive/internal/domain"
	"example.com/mostactive/internal/observability"
)

const maxLineSize = 1 << 20

// SourceError wraps domain.ErrUnreadableSource with the cause and the source name.
type SourceError struct {
	Source string
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%v %s: %v", domain.ErrUnreadableSource, e.Source, e.Err)
}

// Is matches domain.ErrUnreadableSource.
func (e *SourceError) Is(target error) bool {
	return target == domain.ErrUnreadableSource
}

// Unwrap returns the underlying cause.
func (e *SourceError) Unwrap() error {
	return e.Err
}

// Option configures optional behaviour for the Loader.
type Option func(*Loader)

// WithLogger overrides the logger used to report skipped lines and sources.
func WithLogger(logger *log.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// Loader collects the per-cookie activity for one day from a set of sources.
//
// Lines in a source must be sorted by timestamp, most recent first. The scan of a
// source stops at the first record dated after the day following the target date,
// so records out of that order may be missed.
type Loader struct {
	logger *log.Logger
}

// NewLoader constructs a Loader.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		logger: log.New(log.Writer(), "[loader] ", log.LstdFlags|log.Lshortfile),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads every source in order and returns the activity observed on date.
// Unparseable lines and unreadable sources are recorded in the stats and skipped;
// only an empty source list fails the call.
func (l *Loader) Load(sources []domain.Source, date domain.Date) (domain.ActivitySet, *domain.LoadStats, error) {
	if len(sources) == 0 {
		return nil, nil, domain.ErrNoSources
	}

	activity := make(domain.ActivitySet)
	stats := &domain.LoadStats{}
	nextDay := date.Next()

	for _, source := range sources {
		found, err := l.loadSource(source, date, nextDay, stats)
		if err != nil {
			l.logger.Printf("skipping source: %v", err)
			stats.SkippedSources = append(stats.SkippedSources, domain.SourceFailure{Source: source.Name(), Err: err})
			observability.RecordSource(observability.OutcomeSkipped)
			continue
		}
		activity.Merge(found)
		stats.SourcesRead++
		observability.RecordSource(observability.OutcomeRead)
	}

	for _, a := range activity {
		stats.RecordsMatched += a.Count()
	}
	observability.RecordMatched(stats.RecordsMatched)

	return activity, stats, nil
}

// loadSource scans a single source. Its activity is returned only when the whole
// source was read without an I/O error.
func (l *Loader) loadSource(source domain.Source, date, nextDay domain.Date, stats *domain.LoadStats) (domain.ActivitySet, error) {
	rc, err := source.Open()
	if err != nil {
		return nil, &SourceError{Source: source.Name(), Err: err}
	}
	defer rc.Close()

	l.logger.Printf("reading %s", source.Name())

	found := make(domain.ActivitySet)
	scanner := bufio.NewScanner(rc)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if lineNo == 1 {
			continue
		}
		stats.LinesRead++
		observability.RecordLineRead()

		record, err := ParseLine(scanner.Text())
		if err != nil {
			l.recordFailure(source.Name(), lineNo, err, stats)
			continue
		}

		if nextDay.EndsBefore(record.Timestamp) {
			stats.SourcesExitedEarly++
			observability.RecordEarlyExit()
			break
		}

		if date.Contains(record.Timestamp) {
			found.Add(record)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, &SourceError{Source: source.Name(), Err: err}
	}

	return found, nil
}

func (l *Loader) recordFailure(source string, lineNo int, err error, stats *domain.LoadStats) {
	l.logger.Printf("%s:%d: %v", source, lineNo, err)
	stats.LineFailures = append(stats.LineFailures, domain.LineFailure{Source: source, Line: lineNo, Err: err})
	observability.RecordParseFailure(failureReason(err))
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrMalformedLine):
		return "malformed_line"
	case errors.Is(err, domain.ErrInvalidTimestamp):
		return "invalid_timestamp"
	default:
		return "unknown"
	}
}
