package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"photo-map/internal/extraction"
	"photo-map/internal/location"
	"photo-map/internal/metrics"
	"photo-map/internal/models"
)

// UploadSession is one photo waiting for a location decision before it is saved.
type UploadSession struct {
	ID          uuid.UUID
	Filename    string
	ContentType string
	Data        []byte
	Metadata    extraction.Metadata
	Resolution  *location.Resolution
	CreatedAt   time.Time
	touchedAt   time.Time
}

// SessionStore holds upload sessions in memory. Sessions idle for longer than
// the TTL are dropped; nothing is saved on the user's behalf.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*UploadSession
	ttl      time.Duration
	metrics  *metrics.Metrics
	logger   *zap.Logger
	now      func() time.Time
}

func NewSessionStore(ttl time.Duration, m *metrics.Metrics, logger *zap.Logger) *SessionStore {
	return &SessionStore{
		sessions: make(map[uuid.UUID]*UploadSession),
		ttl:      ttl,
		metrics:  m,
		logger:   logger,
		now:      time.Now,
	}
}

// Open registers a new session and returns it.
func (s *SessionStore) Open(filename, contentType string, data []byte, meta extraction.Metadata) *UploadSession {
	now := s.now()
	sess := &UploadSession{
		ID:          uuid.New(),
		Filename:    filename,
		ContentType: contentType,
		Data:        data,
		Metadata:    meta,
		Resolution:  location.NewResolution(meta),
		CreatedAt:   now,
		touchedAt:   now,
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	n := len(s.sessions)
	s.mu.Unlock()

	s.metrics.SetActiveSessions(n)
	return sess
}

// With runs fn on the session while holding the store lock, so one session is
// never changed by two requests at once.
func (s *SessionStore) With(id uuid.UUID, fn func(*UploadSession) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	sess.touchedAt = s.now()
	return fn(sess)
}

// Claim takes a ready session out of the store so exactly one save can run for
// it. Sessions without a location stay in place and ErrNoLocation is returned.
func (s *SessionStore) Claim(id uuid.UUID) (*UploadSession, models.Coordinates, error) {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	if !ok {
		s.mu.Unlock()
		return nil, models.Coordinates{}, ErrSessionNotFound
	}
	coords, err := sess.Resolution.Resolve()
	if err != nil {
		sess.touchedAt = s.now()
		s.mu.Unlock()
		return nil, models.Coordinates{}, err
	}
	delete(s.sessions, id)
	n := len(s.sessions)
	s.mu.Unlock()

	s.metrics.SetActiveSessions(n)
	return sess, coords, nil
}

// Restore puts back a session whose save failed.
func (s *SessionStore) Restore(sess *UploadSession) {
	s.mu.Lock()
	sess.touchedAt = s.now()
	s.sessions[sess.ID] = sess
	n := len(s.sessions)
	s.mu.Unlock()

	s.metrics.SetActiveSessions(n)
}

// Remove forgets the session. It reports whether the session existed.
func (s *SessionStore) Remove(id uuid.UUID) bool {
	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	n := len(s.sessions)
	s.mu.Unlock()

	s.metrics.SetActiveSessions(n)
	return ok
}

// Len returns the number of open sessions.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep drops sessions idle longer than the TTL and returns how many went.
func (s *SessionStore) Sweep() int {
	cutoff := s.now().Add(-s.ttl)

	s.mu.Lock()
	removed := 0
	for id, sess := range s.sessions {
		if sess.touchedAt.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	n := len(s.sessions)
	s.mu.Unlock()

	s.metrics.SetActiveSessions(n)
	return removed
}

// RunCleanup sweeps periodically until ctx is done.
func (s *SessionStore) RunCleanup(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := s.Sweep(); removed > 0 {
				s.logger.Info("dropped idle upload sessions", zap.Int("count", removed))
			}
		}
	}
}
