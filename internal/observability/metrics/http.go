package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HTTPServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	glossaryRequestsTotal *prometheus.CounterVec
	glossaryDuration      *prometheus.HistogramVec
	glossaryItems         *prometheus.HistogramVec
	glossaryDegradedTotal *prometheus.CounterVec
	exportsTotal          *prometheus.CounterVec
	uploadsTotal          *prometheus.CounterVec
	uploadBytes           *prometheus.HistogramVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lectern",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "lectern",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "lectern",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	glossaryRequestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lectern",
			Subsystem: "glossary",
			Name:      "requests_total",
			Help:      "Total glossary requests by outcome.",
		},
		[]string{"service", "outcome"},
	)
	glossaryDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "lectern",
			Subsystem: "glossary",
			Name:      "duration_seconds",
			Help:      "Glossary request duration in seconds, split by cache outcome.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "cached"},
	)
	glossaryItems := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "lectern",
			Subsystem: "glossary",
			Name:      "items",
			Help:      "Distribution of glossary items per successful request.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21, 34},
		},
		[]string{"service"},
	)
	glossaryDegradedTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lectern",
			Subsystem: "glossary",
			Name:      "degraded_total",
			Help:      "Total glossaries served as the parse-failure fallback item.",
		},
		[]string{"service"},
	)
	exportsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lectern",
			Subsystem: "glossary",
			Name:      "exports_total",
			Help:      "Total XLSX glossary exports.",
		},
		[]string{"service"},
	)
	uploadsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lectern",
			Subsystem: "library",
			Name:      "uploads_total",
			Help:      "Total accepted lecture uploads.",
		},
		[]string{"service"},
	)
	uploadBytes := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "lectern",
			Subsystem: "library",
			Name:      "upload_bytes",
			Help:      "Distribution of uploaded lecture sizes in bytes.",
			Buckets:   prometheus.ExponentialBuckets(64*1024, 4, 8),
		},
		[]string{"service"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		glossaryRequestsTotal,
		glossaryDuration,
		glossaryItems,
		glossaryDegradedTotal,
		exportsTotal,
		uploadsTotal,
		uploadBytes,
	)

	return &HTTPServerMetrics{
		registry:              registry,
		requestTotal:          requestTotal,
		requestDuration:       requestDuration,
		requestInFlight:       requestInFlight,
		glossaryRequestsTotal: glossaryRequestsTotal,
		glossaryDuration:      glossaryDuration,
		glossaryItems:         glossaryItems,
		glossaryDegradedTotal: glossaryDegradedTotal,
		exportsTotal:          exportsTotal,
		uploadsTotal:          uploadsTotal,
		uploadBytes:           uploadBytes,
	}
}

func (m *HTTPServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *HTTPServerMetrics) Middleware(service string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := normalizePath(r.URL.Path)
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		m.requestTotal.WithLabelValues(
			service,
			r.Method,
			path,
			strconv.Itoa(recorder.statusCode),
		).Inc()
		m.requestDuration.WithLabelValues(service, r.Method, path).Observe(time.Since(start).Seconds())
	})
}

// normalizePath collapses per-resource URLs so metric cardinality stays flat.
func normalizePath(path string) string {
	if !strings.HasPrefix(path, "/v1/") {
		return path
	}
	segments := strings.Split(strings.TrimPrefix(path, "/v1/"), "/")
	switch segments[0] {
	case "lectures":
		if len(segments) == 1 {
			return "/v1/lectures"
		}
		normalized := []string{"", "v1", "lectures", "{lecture_id}"}
		rest := segments[2:]
		for i, seg := range rest {
			// image ids sit directly under "images"
			if i > 0 && rest[i-1] == "images" {
				seg = "{image_id}"
			}
			normalized = append(normalized, seg)
		}
		return strings.Join(normalized, "/")
	case "dictionary":
		if len(segments) > 1 {
			return "/v1/dictionary/{entry_id}"
		}
		return "/v1/dictionary"
	default:
		return path
	}
}

func (m *HTTPServerMetrics) RecordGlossaryOutcome(service, outcome string) {
	if outcome == "" {
		outcome = "unknown"
	}
	m.glossaryRequestsTotal.WithLabelValues(service, outcome).Inc()
}

func (m *HTTPServerMetrics) RecordGlossaryObservation(service string, cached bool, itemCount int, duration time.Duration) {
	m.glossaryDuration.WithLabelValues(service, strconv.FormatBool(cached)).Observe(duration.Seconds())
	m.glossaryItems.WithLabelValues(service).Observe(float64(itemCount))
}

func (m *HTTPServerMetrics) RecordGlossaryDegraded(service string) {
	m.glossaryDegradedTotal.WithLabelValues(service).Inc()
}

func (m *HTTPServerMetrics) RecordGlossaryExport(service string) {
	m.exportsTotal.WithLabelValues(service).Inc()
}

func (m *HTTPServerMetrics) RecordUpload(service string, sizeBytes int64) {
	m.uploadsTotal.WithLabelValues(service).Inc()
	if sizeBytes > 0 {
		m.uploadBytes.WithLabelValues(service).Observe(float64(sizeBytes))
	}
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Flush() {
	flusher, ok := w.ResponseWriter.(http.Flusher)
	if ok {
		flusher.Flush()
	}
}

func (w *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not implement http.Hijacker")
	}
	return hijacker.Hijack()
}

func (w *statusRecorder) Push(target string, opts *http.PushOptions) error {
	pusher, ok := w.ResponseWriter.(http.Pusher)
	if !ok {
		return http.ErrNotSupported
	}
	return pusher.Push(target, opts)
}
