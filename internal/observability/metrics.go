// Package observability holds the Prometheus collectors shared by the analyzer.
package observability

import (
	"sort"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

const namespace = "mostactive"

var (
	linesReadCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "loader",
		Name:      "lines_read_total",
		Help:      "Number of data lines read from cookie logs, headers excluded.",
	})

	parseFailureCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "loader",
		Name:      "parse_failures_total",
		Help:      "Number of skipped lines grouped by failure reason.",
	}, []string{"reason"})

	sourcesCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "loader",
		Name:      "sources_total",
		Help:      "Number of sources processed, labeled by outcome.",
	}, []string{"outcome"})

	recordsMatchedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "loader",
		Name:      "records_matched_total",
		Help:      "Number of records that fell on the target date.",
	})

	earlyExitCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "loader",
		Name:      "early_exits_total",
		Help:      "Number of sources whose scan stopped once past the target date.",
	})

	runDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "run",
		Name:      "duration_seconds",
		Help:      "Time spent loading and aggregating cookie logs.",
		Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
	})

	lastRunGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "run",
		Name:      "last_success_timestamp_seconds",
		Help:      "Unix timestamp of the most recent successful run.",
	})
)

// Source outcomes.
const (
	OutcomeRead    = "read"
	OutcomeSkipped = "skipped"
)

func init() {
	prometheus.MustRegister(linesReadCounter, parseFailureCounter, sourcesCounter, recordsMatchedCounter, earlyExitCounter, runDuration, lastRunGauge)
}

// RecordLineRead counts one data line.
func RecordLineRead() {
	linesReadCounter.Inc()
}

// RecordParseFailure counts a skipped line.
func RecordParseFailure(reason string) {
	parseFailureCounter.WithLabelValues(reason).Inc()
}

// RecordSource counts a processed source with its outcome.
func RecordSource(outcome string) {
	sourcesCounter.WithLabelValues(outcome).Inc()
}

// RecordMatched counts records on the target date.
func RecordMatched(n int) {
	if n <= 0 {
		return
	}
	recordsMatchedCounter.Add(float64(n))
}

// RecordEarlyExit counts a source scan that stopped before EOF.
func RecordEarlyExit() {
	earlyExitCounter.Inc()
}

// ObserveRun records the duration of a run and, when it succeeded, its completion time.
func ObserveRun(start time.Time, succeeded bool) {
	runDuration.Observe(time.Since(start).Seconds())
	if succeeded {
		lastRunGauge.Set(float64(time.Now().Unix()))
	}
}

// WriteTextfile dumps the default registry in the node_exporter textfile format.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}

// Snapshot flattens counters and gauges from g whose names carry the analyzer namespace.
// Keys are the metric name followed by its labels, e.g. `name{reason="x"}`.
func Snapshot(g prometheus.Gatherer) (map[string]float64, error) {
	families, err := g.Gather()
	if err != nil {
		return nil, err
	}

	out := make(map[string]float64)
	for _, family := range families {
		if !strings.HasPrefix(family.GetName(), namespace+"_") {
			continue
		}
		for _, metric := range family.GetMetric() {
			value, ok := metricValue(family.GetType(), metric)
			if !ok {
				continue
			}
			out[family.GetName()+labelSuffix(metric.GetLabel())] = value
		}
	}
	return out, nil
}

func metricValue(kind dto.MetricType, metric *dto.Metric) (float64, bool) {
	switch kind {
	case dto.MetricType_COUNTER:
		return metric.GetCounter().GetValue(), true
	case dto.MetricType_GAUGE:
		return metric.GetGauge().GetValue(), true
	case dto.MetricType_HISTOGRAM:
		return float64(metric.GetHistogram().GetSampleCount()), true
	default:
		return 0, false
	}
}

func labelSuffix(labels []*dto.LabelPair) string {
	if len(labels) == 0 {
		return ""
	}
	parts := make([]string, 0, len(labels))
	for _, label := range labels {
		parts = append(parts, label.GetName()+`="`+label.GetValue()+`"`)
	}
	sort.Strings(parts)
	return "{" + strings.Join(parts, ",") + "}"
}
