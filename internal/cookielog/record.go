// Package cookielog reads comma-separated cookie access logs.
package cookielog

import (
	"fmt"
	"strings"
	"time"

	"example.com/mostactive/internal/domain"
)

const (
	// Delimiter separates the cookie identifier from the timestamp.
	Delimiter = ","
	// TimestampLayout is the only accepted timestamp form, e.g. 2018-12-09T14:19:00+00:00.
	TimestampLayout = "2006-01-02T15:04:05-07:00"
)

// ParseFailure reports why a line could not be turned into a record.
type ParseFailure struct {
	Reason error
	Line   string
}

func (f *ParseFailure) Error() string {
	return fmt.Sprintf("%v: %q", f.Reason, f.Line)
}

// Unwrap exposes the failure reason to errors.Is.
func (f *ParseFailure) Unwrap() error {
	return f.Reason
}

// ParseLine converts one log line into a record. Failures are always *ParseFailure
// wrapping domain.ErrMalformedLine or domain.ErrInvalidTimestamp.
func ParseLine(line string) (domain.CookieRecord, error) {
	line = strings.TrimSuffix(line, "\r")

	fields := strings.Split(line, Delimiter)
	if len(fields) != 2 || fields[0] == "" {
		return domain.CookieRecord{}, &ParseFailure{Reason: domain.ErrMalformedLine, Line: line}
	}

	ts, err := parseTimestamp(fields[1])
	if err != nil {
		return domain.CookieRecord{}, &ParseFailure{Reason: domain.ErrInvalidTimestamp, Line: line}
	}

	return domain.CookieRecord{CookieID: fields[0], Timestamp: ts}, nil
}

// time.Parse tolerates fractional seconds the layout does not mention, so the
// length check keeps the format exact.
func parseTimestamp(value string) (time.Time, error) {
	if len(value) != len(TimestampLayout) {
		return time.Time{}, fmt.Errorf("unexpected timestamp length %d", len(value))
	}
	return time.Parse(TimestampLayout, value)
}
