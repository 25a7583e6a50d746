// Package domain defines the cookie activity model and the most-active selection rules.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// ActivityLoader reads sources and returns the activity observed on a single day.
type ActivityLoader interface {
	Load(sources []Source, date Date) (ActivitySet, *LoadStats, error)
}

// Report is the outcome of one analysis run.
type Report struct {
	RunID       string         `json:"run_id"`
	Date        Date           `json:"date"`
	Cookies     []string       `json:"cookies"`
	MaxCount    int            `json:"max_count"`
	Counts      map[string]int `json:"counts"`
	Stats       *LoadStats     `json:"stats"`
	GeneratedAt time.Time      `json:"generated_at"`
}

// Service orchestrates loading and aggregation.
type Service struct {
	loader ActivityLoader
	now    func() time.Time
}

// NewService constructs a Service.
func NewService(loader ActivityLoader) *Service {
	return &Service{loader: loader, now: time.Now}
}

// MostActiveCookies loads the sources and reports the cookies most often seen on date.
func (s *Service) MostActiveCookies(sources []Source, date Date) (*Report, error) {
	activity, stats, err := s.loader.Load(sources, date)
	if err != nil {
		return nil, err
	}

	cookies := MostActive(activity)
	maxCount := 0
	if len(cookies) > 0 {
		maxCount = activity[cookies[0]].Count()
	}

	return &Report{
		RunID:       uuid.NewString(),
		Date:        date,
		Cookies:     cookies,
		MaxCount:    maxCount,
		Counts:      activity.Counts(),
		Stats:       stats,
		GeneratedAt: s.now().UTC(),
	}, nil
}
