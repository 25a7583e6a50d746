package domain

import "errors"

var (
	// ErrMalformedLine indicates a log line without exactly two comma-separated fields.
	ErrMalformedLine = errors.New("malformed line")
	// ErrInvalidTimestamp indicates a timestamp not in YYYY-MM-DDTHH:MM:SS±HH:MM form.
	ErrInvalidTimestamp = errors.New("invalid timestamp")
	// ErrUnreadableSource is returned when a source cannot be opened or read.
	ErrUnreadableSource = errors.New("unreadable source")
	// ErrNoSources is returned when a load is requested without any source.
	ErrNoSources = errors.New("no sources supplied")
	// ErrInvalidDate is returned when a target date cannot be parsed.
	ErrInvalidDate = errors.New("invalid date")
)
