package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce         sync.Once
	httpRequestsTotal    *prometheus.CounterVec
	httpLatencySeconds   *prometheus.HistogramVec
	httpErrorsTotal      *prometheus.CounterVec
	datasetsLoadedTotal  *prometheus.CounterVec
	datasetBuildSeconds  *prometheus.HistogramVec
	snapshotsSavedTotal  prometheus.Counter
	eventsPublishedTotal *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used by the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tonetrace_http_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tonetrace_http_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		httpErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tonetrace_http_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		datasetsLoadedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tonetrace_datasets_loaded_total",
			Help: "Datasets served, by source and cache outcome.",
		}, []string{"source", "cache"})

		datasetBuildSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tonetrace_dataset_build_seconds",
			Help:    "Time spent synthesizing or loading a dataset.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
		}, []string{"source"})

		snapshotsSavedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tonetrace_snapshots_saved_total",
			Help: "Dataset snapshots persisted.",
		})

		eventsPublishedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tonetrace_events_published_total",
			Help: "Dataset events published, by outcome.",
		}, []string{"outcome"})

		prometheus.MustRegister(
			httpRequestsTotal,
			httpLatencySeconds,
			httpErrorsTotal,
			datasetsLoadedTotal,
			datasetBuildSeconds,
			snapshotsSavedTotal,
			eventsPublishedTotal,
		)
	})
}

// HTTPRequests exposes the request counter.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the request latency histogram.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// HTTPErrors exposes the error response counter.
func HTTPErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return httpErrorsTotal
}

// DatasetsLoaded exposes the dataset counter.
func DatasetsLoaded() *prometheus.CounterVec {
	RegisterMetrics()
	return datasetsLoadedTotal
}

// DatasetBuildDuration exposes the dataset build histogram.
func DatasetBuildDuration() *prometheus.HistogramVec {
	RegisterMetrics()
	return datasetBuildSeconds
}

// SnapshotsSaved exposes the snapshot counter.
func SnapshotsSaved() prometheus.Counter {
	RegisterMetrics()
	return snapshotsSavedTotal
}

// EventsPublished exposes the event counter.
func EventsPublished() *prometheus.CounterVec {
	RegisterMetrics()
	return eventsPublishedTotal
}
