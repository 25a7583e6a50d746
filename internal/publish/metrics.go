package publish

import "github.com/prometheus/client_golang/prometheus"

var (
	deliveredCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "mostactive",
		Subsystem: "publish",
		Name:      "reports_delivered_total",
		Help:      "Number of reports successfully published to Kafka.",
	})

	failedCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mostactive",
		Subsystem: "publish",
		Name:      "reports_failed_total",
		Help:      "Number of reports that could not be published, labeled by stage.",
	}, []string{"stage"})
)

func init() {
	prometheus.MustRegister(deliveredCounter, failedCounter)
}
