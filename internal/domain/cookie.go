package domain

import (
	"io"
	"time"
)

// CookieRecord is a single parsed log line.
type CookieRecord struct {
	CookieID  string
	Timestamp time.Time
}

// CookieActivity accumulates the timestamps observed for one cookie on the target day.
// Timestamps keep the order in which they were read.
type CookieActivity struct {
	CookieID   string
	Timestamps []time.Time
}

// Count returns the number of accesses recorded for the cookie.
func (a *CookieActivity) Count() int {
	if a == nil {
		return 0
	}
	return len(a.Timestamps)
}

// ActivitySet maps cookie identifiers to their accumulated activity.
type ActivitySet map[string]*CookieActivity

// Add appends the record's timestamp to its cookie, creating the entry on first sighting.
func (s ActivitySet) Add(record CookieRecord) {
	activity, ok := s[record.CookieID]
	if !ok {
		activity = &CookieActivity{CookieID: record.CookieID}
		s[record.CookieID] = activity
	}
	activity.Timestamps = append(activity.Timestamps, record.Timestamp)
}

// Merge folds other into s. Timestamps from other are appended after the ones already in s.
func (s ActivitySet) Merge(other ActivitySet) {
	for id, activity := range other {
		existing, ok := s[id]
		if !ok {
			s[id] = &CookieActivity{
				CookieID:   id,
				Timestamps: append([]time.Time(nil), activity.Timestamps...),
			}
			continue
		}
		existing.Timestamps = append(existing.Timestamps, activity.Timestamps...)
	}
}

// Counts returns the access count per cookie.
func (s ActivitySet) Counts() map[string]int {
	counts := make(map[string]int, len(s))
	for id, activity := range s {
		counts[id] = activity.Count()
	}
	return counts
}

// Source is a named stream of log lines. Open is called once per load and the
// returned reader is closed before the next source is opened.
type Source interface {
	Name() string
	Open() (io.ReadCloser, error)
}
