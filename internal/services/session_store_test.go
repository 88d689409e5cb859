package services

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"photo-map/internal/extraction"
	"photo-map/internal/location"
	"photo-map/internal/metrics"
	"photo-map/internal/models"
)

func newStore(ttl time.Duration) (*SessionStore, *time.Time) {
	s := NewSessionStore(ttl, metrics.NewMetrics(prometheus.NewRegistry()), zap.NewNop())
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	return s, &now
}

func TestSessionStoreSweepDropsIdleSessions(t *testing.T) {
	s, now := newStore(30 * time.Minute)

	old := s.Open("old.jpg", "image/jpeg", []byte{1}, extraction.Metadata{})
	*now = now.Add(20 * time.Minute)
	fresh := s.Open("fresh.jpg", "image/jpeg", []byte{1}, extraction.Metadata{})

	*now = now.Add(15 * time.Minute)
	assert.Equal(t, 1, s.Sweep())

	assert.ErrorIs(t, s.With(old.ID, func(*UploadSession) error { return nil }), ErrSessionNotFound)
	assert.NoError(t, s.With(fresh.ID, func(*UploadSession) error { return nil }))
}

func TestSessionStoreSweepNeverPicksALocation(t *testing.T) {
	s, now := newStore(time.Minute)
	sess := s.Open("a.jpg", "image/jpeg", []byte{1}, extraction.Metadata{})

	*now = now.Add(time.Hour)
	s.Sweep()

	assert.Equal(t, location.NoLocation, sess.Resolution.State())
	assert.Zero(t, s.Len())
}

func TestSessionStoreClaimIsExclusive(t *testing.T) {
	s, _ := newStore(time.Hour)
	meta := extraction.Metadata{Coordinates: &models.Coordinates{Latitude: 1, Longitude: 2}}
	sess := s.Open("a.jpg", "image/jpeg", []byte{1}, meta)

	var wg sync.WaitGroup
	var mu sync.Mutex
	claimed := 0
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, _, err := s.Claim(sess.ID); err == nil {
				mu.Lock()
				claimed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, claimed)

	s.Restore(sess)
	_, coords, err := s.Claim(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, models.Coordinates{Latitude: 1, Longitude: 2}, coords)
}

func TestSessionStoreClaimWithoutLocationKeepsSession(t *testing.T) {
	s, _ := newStore(time.Hour)
	sess := s.Open("a.jpg", "image/jpeg", []byte{1}, extraction.Metadata{})

	_, _, err := s.Claim(sess.ID)
	assert.ErrorIs(t, err, location.ErrNoLocation)
	assert.Equal(t, 1, s.Len())

	_, _, err = s.Claim(uuid.New())
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
