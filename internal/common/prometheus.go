package common

import "github.com/prometheus/client_golang/prometheus"

const (
	HTTPRequestTotal           = "http_requests_total"
	HTTPRequestDurationSeconds = "http_request_duration_seconds"
	IngestionMessageTotal      = "ingestion_messages_total"
	EventPublishFailureTotal   = "event_publish_failure_total"
)

var (
	PromCounters = map[string]*prometheus.CounterVec{
		HTTPRequestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: HTTPRequestTotal,
			Help: "Count of all HTTP requests",
		}, []string{"path", "code"}),
		IngestionMessageTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: IngestionMessageTotal,
			Help: "Count of ingestion messages by operation and result",
		}, []string{"op", "result"}),
		EventPublishFailureTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: EventPublishFailureTotal,
			Help: "Count of domain events which could not be published",
		}, []string{"topic"}),
	}

	PromHistograms = map[string]*prometheus.HistogramVec{
		HTTPRequestDurationSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: HTTPRequestDurationSeconds,
			Help: "Duration of all HTTP requests",
		}, []string{"path", "code"}),
	}
)

// PromCollectors returns every collector of this service.
func PromCollectors() []prometheus.Collector {
	collectors := []prometheus.Collector{}
	for _, counter := range PromCounters {
		collectors = append(collectors, counter)
	}

	for _, histogram := range PromHistograms {
		collectors = append(collectors, histogram)
	}

	return collectors
}
