package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus collectors of the photo service.
type Metrics struct {
	uploads        *prometheus.CounterVec
	extraction     *prometheus.CounterVec
	saves          *prometheus.CounterVec
	saveFailures   *prometheus.CounterVec
	urlCache       *prometheus.CounterVec
	blobLatency    *prometheus.HistogramVec
	activeSessions prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		uploads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "photo_uploads_total",
				Help: "Uploaded files by outcome",
			},
			[]string{"outcome"},
		),
		extraction: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "photo_exif_extraction_total",
				Help: "EXIF fields found or missing in uploaded files",
			},
			[]string{"field", "result"},
		),
		saves: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "photo_saves_total",
				Help: "Saved photos by location source",
			},
			[]string{"source"},
		),
		saveFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "photo_save_failures_total",
				Help: "Failed saves by the step that failed",
			},
			[]string{"step"},
		),
		urlCache: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "photo_signed_url_cache_total",
				Help: "Signed URL cache lookups by result",
			},
			[]string{"result"},
		),
		blobLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "photo_blob_operation_duration_ms",
				Help:    "Latency of object storage operations in milliseconds",
				Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
			},
			[]string{"operation"},
		),
		activeSessions: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "photo_upload_sessions",
				Help: "Upload sessions waiting to be saved or discarded",
			},
		),
	}
}

// RecordUpload counts an upload attempt; outcome is "accepted" or "rejected".
func (m *Metrics) RecordUpload(outcome string) {
	m.uploads.WithLabelValues(outcome).Inc()
}

// RecordExtraction counts which metadata fields an upload carried.
func (m *Metrics) RecordExtraction(hasCoordinates, hasCaptureTime bool) {
	m.extraction.WithLabelValues("coordinates", presence(hasCoordinates)).Inc()
	m.extraction.WithLabelValues("capture_time", presence(hasCaptureTime)).Inc()
}

// RecordSave counts a stored photo by where its location came from.
func (m *Metrics) RecordSave(source string) {
	m.saves.WithLabelValues(source).Inc()
}

// RecordSaveFailure counts a failed save by step ("blob", "metadata").
func (m *Metrics) RecordSaveFailure(step string) {
	m.saveFailures.WithLabelValues(step).Inc()
}

// RecordCacheHit increments the signed URL cache hit counter.
func (m *Metrics) RecordCacheHit() {
	m.urlCache.WithLabelValues("hit").Inc()
}

// RecordCacheMiss increments the signed URL cache miss counter.
func (m *Metrics) RecordCacheMiss() {
	m.urlCache.WithLabelValues("miss").Inc()
}

// ObserveBlob records how long an object storage operation took.
func (m *Metrics) ObserveBlob(operation string, started time.Time) {
	m.blobLatency.WithLabelValues(operation).Observe(float64(time.Since(started).Microseconds()) / 1000.0)
}

// SetActiveSessions sets the number of open upload sessions.
func (m *Metrics) SetActiveSessions(n int) {
	m.activeSessions.Set(float64(n))
}

func presence(ok bool) string {
	if ok {
		return "present"
	}
	return "absent"
}
