package domain

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestServiceMostActiveCookies(t *testing.T) {
	loader := &stubLoader{
		activity: activityWithCounts(map[string]int{"cookie1": 1, "cookie2": 1}),
		stats:    &LoadStats{SourcesRead: 1, LinesRead: 2, RecordsMatched: 2},
	}
	service := NewService(loader)
	service.now = func() time.Time { return time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC) }

	date := Date{2018, time.December, 9}
	report, err := service.MostActiveCookies([]Source{nil}, date)
	require.NoError(t, err)

	require.Equal(t, date, loader.date)
	require.Equal(t, []string{"cookie1", "cookie2"}, report.Cookies)
	require.Equal(t, 1, report.MaxCount)
	require.Equal(t, map[string]int{"cookie1": 1, "cookie2": 1}, report.Counts)
	require.NotEmpty(t, report.RunID)
	require.Same(t, loader.stats, report.Stats)
}

func TestServiceNoActivity(t *testing.T) {
	service := NewService(&stubLoader{activity: ActivitySet{}, stats: &LoadStats{}})

	report, err := service.MostActiveCookies([]Source{nil}, Date{2018, time.December, 9})
	require.NoError(t, err)
	require.Empty(t, report.Cookies)
	require.Zero(t, report.MaxCount)
}

func TestServicePropagatesLoadError(t *testing.T) {
	service := NewService(&stubLoader{err: ErrNoSources})

	_, err := service.MostActiveCookies(nil, Date{2018, time.December, 9})
	require.ErrorIs(t, err, ErrNoSources)
}

func TestReportJSON(t *testing.T) {
	report := Report{
		RunID:    "run-1",
		Date:     Date{2018, time.December, 9},
		Cookies:  []string{"cookie1"},
		MaxCount: 2,
		Stats: &LoadStats{
			SkippedSources: []SourceFailure{{Source: "x.csv", Err: errors.New("gone")}},
			LineFailures:   []LineFailure{{Source: "y.csv", Line: 3, Err: ErrMalformedLine}},
		},
	}

	data, err := json.Marshal(report)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, "2018-12-09", decoded["date"])
	stats := decoded["stats"].(map[string]any)
	require.Equal(t, "gone", stats["skipped_sources"].([]any)[0].(map[string]any)["error"])
	require.Equal(t, "malformed line", stats["line_failures"].([]any)[0].(map[string]any)["error"])
}

type stubLoader struct {
	activity ActivitySet
	stats    *LoadStats
	err      error
	date     Date
}

func (l *stubLoader) Load(_ []Source, date Date) (ActivitySet, *LoadStats, error) {
	l.date = date
	return l.activity, l.stats, l.err
}
