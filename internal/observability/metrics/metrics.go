package metrics

import "github.com/prometheus/client_golang/prometheus"

// SyncMetrics exposes counters/gauges for the collection sync bridge.
type SyncMetrics struct {
	snapshotsTotal  *prometheus.CounterVec
	snapshotRecords *prometheus.GaugeVec
	emptyIgnored    *prometheus.CounterVec
	writesTotal     *prometheus.CounterVec
}

func NewSyncMetrics(reg prometheus.Registerer) *SyncMetrics {
	m := &SyncMetrics{
		snapshotsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ortocare",
			Subsystem: "sync",
			Name:      "snapshots_total",
			Help:      "Total collection snapshots delivered",
		}, []string{"collection"}),
		snapshotRecords: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "ortocare",
			Subsystem: "sync",
			Name:      "snapshot_records",
			Help:      "Record count of the most recent snapshot per collection",
		}, []string{"collection"}),
		emptyIgnored: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ortocare",
			Subsystem: "sync",
			Name:      "empty_snapshots_ignored_total",
			Help:      "Empty snapshots discarded by the state container",
		}, []string{"collection"}),
		writesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ortocare",
			Subsystem: "sync",
			Name:      "writes_total",
			Help:      "Document writes through the bridge",
		}, []string{"collection", "op", "status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.snapshotsTotal, m.snapshotRecords, m.emptyIgnored, m.writesTotal)
	return m
}

func (m *SyncMetrics) ObserveSnapshot(collection string, records int) {
	if m == nil {
		return
	}
	m.snapshotsTotal.WithLabelValues(collection).Inc()
	m.snapshotRecords.WithLabelValues(collection).Set(float64(records))
}

func (m *SyncMetrics) ObserveEmptyIgnored(collection string) {
	if m == nil {
		return
	}
	m.emptyIgnored.WithLabelValues(collection).Inc()
}

func (m *SyncMetrics) ObserveWrite(collection, op, status string) {
	if m == nil {
		return
	}
	m.writesTotal.WithLabelValues(collection, op, status).Inc()
}

// AssistantMetrics exposes counters/histograms for the AI assistant.
type AssistantMetrics struct {
	requestsTotal *prometheus.CounterVec
	latency       *prometheus.HistogramVec
}

func NewAssistantMetrics(reg prometheus.Registerer) *AssistantMetrics {
	m := &AssistantMetrics{
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ortocare",
			Subsystem: "assistant",
			Name:      "requests_total",
			Help:      "Assistant analyses by outcome",
		}, []string{"outcome"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ortocare",
			Subsystem: "assistant",
			Name:      "latency_seconds",
			Help:      "Latency of assistant analyses",
			Buckets:   []float64{0.25, 0.5, 1, 2, 3, 5, 8, 10, 15, 20, 30},
		}, []string{"outcome"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.requestsTotal, m.latency)
	return m
}

func (m *AssistantMetrics) ObserveRequest(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(outcome).Inc()
	m.latency.WithLabelValues(outcome).Observe(seconds)
}
