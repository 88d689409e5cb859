package services

import (
	"bytes"
	"context"
	"fmt"
	"image/color"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/glebarez/sqlite"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"photo-map/internal/extraction/exiftest"
	"photo-map/internal/metrics"
	"photo-map/internal/models"
	"photo-map/internal/repository"
	"photo-map/internal/services/caches"
)

type fakeBlobs struct {
	mu        sync.Mutex
	objects   map[string][]byte
	signs     int
	putErr    error
	signErr   error
	removeErr error
}

func newFakeBlobs() *fakeBlobs {
	return &fakeBlobs{objects: map[string][]byte{}}
}

func (f *fakeBlobs) Put(_ context.Context, key string, data []byte, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.putErr != nil {
		return "", f.putErr
	}
	f.objects[key] = data
	return "http://blobs/photos/" + key, nil
}

func (f *fakeBlobs) Sign(_ context.Context, key string, ttl time.Duration) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.signErr != nil {
		return "", f.signErr
	}
	f.signs++
	return fmt.Sprintf("http://blobs/photos/%s?sig=%d&ttl=%s", key, f.signs, ttl), nil
}

func (f *fakeBlobs) Remove(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.removeErr != nil {
		return f.removeErr
	}
	delete(f.objects, key)
	return nil
}

func (f *fakeBlobs) keys(prefix string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for k := range f.objects {
		if strings.HasPrefix(k, prefix) {
			out = append(out, k)
		}
	}
	return out
}

func (f *fakeBlobs) signCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.signs
}

// failingRepo lets the metadata store refuse inserts.
type failingRepo struct {
	repository.PhotoRepository
	createErr error
}

func (r *failingRepo) Create(ctx context.Context, photo *models.Photo) error {
	if r.createErr != nil {
		return r.createErr
	}
	return r.PhotoRepository.Create(ctx, photo)
}

type fixture struct {
	svc      *PhotoService
	blobs    *fakeBlobs
	repo     *failingRepo
	sessions *SessionStore
	urls     *CacheService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "photos.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	base := repository.NewPhotoRepository(db)
	require.NoError(t, base.EnsureSchema())

	m := metrics.NewMetrics(prometheus.NewRegistry())
	log := zap.NewNop()
	blobs := newFakeBlobs()
	repo := &failingRepo{PhotoRepository: base}
	sessions := NewSessionStore(30*time.Minute, m, log)
	urls := NewCacheService(caches.NewMemoryCache(128, time.Hour), blobs, time.Hour, m, log)

	return &fixture{
		svc:      NewPhotoService(repo, blobs, urls, sessions, m, log, 5<<20),
		blobs:    blobs,
		repo:     repo,
		sessions: sessions,
		urls:     urls,
	}
}

func plainJPEG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, imaging.New(64, 48, color.NRGBA{R: 10, G: 120, B: 200, A: 255}), imaging.JPEG))
	return buf.Bytes()
}

// warsawJPEG is a real image taken at 52.229722 N, 21.012222 E on 2023-06-15.
func warsawJPEG(t *testing.T) []byte {
	t.Helper()
	return exiftest.WithExif(plainJPEG(t), exiftest.TIFF(
		exiftest.DateTaken("2023:06:15 12:00:00"),
		exiftest.GPS("N", [3]uint32{52, 13, 47}, "E", [3]uint32{21, 0, 44}),
	))
}
