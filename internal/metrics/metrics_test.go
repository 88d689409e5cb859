package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCountersAreLabelled(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordUpload("accepted")
	m.RecordUpload("accepted")
	m.RecordUpload("rejected")
	m.RecordExtraction(true, false)
	m.RecordSave("exif")
	m.RecordSaveFailure("metadata")
	m.RecordCacheHit()
	m.RecordCacheMiss()
	m.RecordCacheMiss()
	m.SetActiveSessions(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.uploads.WithLabelValues("accepted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.uploads.WithLabelValues("rejected")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.extraction.WithLabelValues("coordinates", "present")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.extraction.WithLabelValues("capture_time", "absent")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.saves.WithLabelValues("exif")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.saveFailures.WithLabelValues("metadata")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.urlCache.WithLabelValues("hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.urlCache.WithLabelValues("miss")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.activeSessions))
}

func TestObserveBlob(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	m.ObserveBlob("put", time.Now().Add(-10*time.Millisecond))
	assert.Equal(t, 1, testutil.CollectAndCount(m.blobLatency))
}

func TestSeparateRegistriesDoNotCollide(t *testing.T) {
	assert.NotPanics(t, func() {
		NewMetrics(prometheus.NewRegistry())
		NewMetrics(prometheus.NewRegistry())
	})
}
