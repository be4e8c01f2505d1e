package metrics

import "github.com/prometheus/client_golang/prometheus"

// AppointmentMetrics exposes counters/histograms for appointment requests.
type AppointmentMetrics struct {
	requestsTotal   *prometheus.CounterVec
	rejectionsTotal *prometheus.CounterVec
	latency         prometheus.Histogram
}

// NewAppointmentMetrics registers appointment metrics on reg, or the default
// registerer when reg is nil.
func NewAppointmentMetrics(reg prometheus.Registerer) *AppointmentMetrics {
	m := &AppointmentMetrics{
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dental",
			Subsystem: "appointments",
			Name:      "requests_total",
			Help:      "Appointment requests by outcome",
		}, []string{"outcome"}),
		rejectionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dental",
			Subsystem: "appointments",
			Name:      "rejections_total",
			Help:      "Rejected appointment requests by failed rule",
		}, []string{"rule"}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "dental",
			Subsystem: "appointments",
			Name:      "request_latency_seconds",
			Help:      "Latency of appointment request validation",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.requestsTotal, m.rejectionsTotal, m.latency)
	return m
}

// ObserveRequest records one handled request. outcome is "accepted",
// "rejected", "malformed" or "error".
func (m *AppointmentMetrics) ObserveRequest(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(outcome).Inc()
	m.latency.Observe(seconds)
}

// ObserveRejection records the validation rule that failed first.
func (m *AppointmentMetrics) ObserveRejection(rule string) {
	if m == nil {
		return
	}
	m.rejectionsTotal.WithLabelValues(rule).Inc()
}

// DirectoryMetrics exposes counters/histograms for directory lookups.
type DirectoryMetrics struct {
	searchesTotal *prometheus.CounterVec
	resultCount   prometheus.Histogram
	lookupsTotal  *prometheus.CounterVec
}

// NewDirectoryMetrics registers directory metrics on reg, or the default
// registerer when reg is nil.
func NewDirectoryMetrics(reg prometheus.Registerer) *DirectoryMetrics {
	m := &DirectoryMetrics{
		searchesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dental",
			Subsystem: "directory",
			Name:      "searches_total",
			Help:      "Directory list requests, split by whether a query or facet was applied",
		}, []string{"filtered"}),
		resultCount: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "dental",
			Subsystem: "directory",
			Name:      "search_results",
			Help:      "Number of dentists returned per list request",
			Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100},
		}),
		lookupsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dental",
			Subsystem: "directory",
			Name:      "lookups_total",
			Help:      "Single dentist lookups by result",
		}, []string{"result"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.searchesTotal, m.resultCount, m.lookupsTotal)
	return m
}

func (m *DirectoryMetrics) ObserveSearch(filtered bool, results int) {
	if m == nil {
		return
	}
	label := "false"
	if filtered {
		label = "true"
	}
	m.searchesTotal.WithLabelValues(label).Inc()
	m.resultCount.Observe(float64(results))
}

func (m *DirectoryMetrics) ObserveLookup(found bool) {
	if m == nil {
		return
	}
	result := "found"
	if !found {
		result = "not_found"
	}
	m.lookupsTotal.WithLabelValues(result).Inc()
}
