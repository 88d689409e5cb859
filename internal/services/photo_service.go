package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"photo-map/internal/conversion"
	"photo-map/internal/extraction"
	"photo-map/internal/location"
	"photo-map/internal/metrics"
	"photo-map/internal/models"
	"photo-map/internal/repository"
	"photo-map/internal/services/cache"
	"photo-map/internal/storage"
	"photo-map/internal/utils"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100

	// DefaultMapZoom is used for every map; the center falls back to DefaultMapCenter.
	DefaultMapZoom = 6

	photoPrefix     = "photos/"
	thumbnailPrefix = "thumbnails/"
	jpegContentType = "image/jpeg"
)

// DefaultMapCenter is shown when no photos exist yet.
var DefaultMapCenter = models.Coordinates{Latitude: 52, Longitude: 19}

// UploadStatus is the externally visible state of an upload session.
type UploadStatus struct {
	ID          uuid.UUID           `json:"id"`
	Filename    string              `json:"filename"`
	Size        int                 `json:"size"`
	State       location.State      `json:"state"`
	Ready       bool                `json:"ready"`
	Source      string              `json:"source"`
	CaptureTime *time.Time          `json:"capture_time,omitempty"`
	Coordinates *models.Coordinates `json:"coordinates,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
}

func statusOf(sess *UploadSession) UploadStatus {
	state := sess.Resolution.State()
	return UploadStatus{
		ID:          sess.ID,
		Filename:    sess.Filename,
		Size:        len(sess.Data),
		State:       state,
		Ready:       sess.Resolution.Ready(),
		Source:      state.Source(),
		CaptureTime: sess.Metadata.CaptureTime,
		Coordinates: sess.Resolution.Coordinates(),
		CreatedAt:   sess.CreatedAt,
	}
}

// GalleryQuery is a gallery filter plus the requested page.
type GalleryQuery struct {
	Filter   repository.GalleryFilter
	Page     int
	PageSize int
}

// Normalize applies the paging defaults and bounds.
func (q *GalleryQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = DefaultPageSize
	}
	if q.PageSize > MaxPageSize {
		q.PageSize = MaxPageSize
	}
}

// ImportFailure names an archive entry that could not be processed.
type ImportFailure struct {
	Filename string `json:"filename"`
	Error    string `json:"error"`
}

// ImportResult summarizes an archive import. Photos without a location stay
// pending as upload sessions.
type ImportResult struct {
	Saved   []models.PhotoView `json:"saved"`
	Pending []UploadStatus     `json:"pending"`
	Failed  []ImportFailure    `json:"failed"`
}

// PhotoService runs the upload flow and serves stored photos.
type PhotoService struct {
	repo          repository.PhotoRepository
	blobs         storage.BlobStore
	urls          *CacheService
	sessions      *SessionStore
	metrics       *metrics.Metrics
	logger        *zap.Logger
	maxFileSize   int64
	importLimits  extraction.ArchiveLimits
	thumbnailSize int
}

// NewPhotoService wires the service. maxFileSize bounds a single photo in bytes.
func NewPhotoService(
	repo repository.PhotoRepository,
	blobs storage.BlobStore,
	urls *CacheService,
	sessions *SessionStore,
	m *metrics.Metrics,
	logger *zap.Logger,
	maxFileSize int64,
) *PhotoService {
	return &PhotoService{
		repo:          repo,
		blobs:         blobs,
		urls:          urls,
		sessions:      sessions,
		metrics:       m,
		logger:        logger,
		maxFileSize:   maxFileSize,
		importLimits:  extraction.ArchiveLimits{MaxFileSize: maxFileSize},
		thumbnailSize: conversion.DefaultThumbnailSize,
	}
}

// SetImportLimits caps the decompressed bytes and the photo count of one archive import.
// Zero values keep the extraction defaults.
func (s *PhotoService) SetImportLimits(maxBytes int64, maxEntries int) {
	s.importLimits.MaxTotalBytes = maxBytes
	s.importLimits.MaxEntries = maxEntries
}

// BeginUpload checks the file, extracts its metadata and opens an upload session.
func (s *PhotoService) BeginUpload(filename, contentType string, data []byte) (UploadStatus, error) {
	switch {
	case !extraction.IsJPEG(filename):
		s.metrics.RecordUpload("rejected")
		return UploadStatus{}, ErrUnsupportedFile
	case len(data) == 0:
		s.metrics.RecordUpload("rejected")
		return UploadStatus{}, ErrEmptyFile
	case s.maxFileSize > 0 && int64(len(data)) > s.maxFileSize:
		s.metrics.RecordUpload("rejected")
		return UploadStatus{}, ErrFileTooLarge
	}
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = jpegContentType
	}

	meta := extraction.ExtractMetadata(data)
	s.metrics.RecordUpload("accepted")
	s.metrics.RecordExtraction(meta.Coordinates != nil, meta.CaptureTime != nil)

	sess := s.sessions.Open(filename, contentType, data, meta)
	s.logger.Debug("upload session opened",
		zap.String("session", sess.ID.String()),
		zap.String("filename", filename),
		zap.String("state", string(sess.Resolution.State())))
	return statusOf(sess), nil
}

// GetUpload returns the state of an upload session.
func (s *PhotoService) GetUpload(id uuid.UUID) (UploadStatus, error) {
	var status UploadStatus
	err := s.sessions.With(id, func(sess *UploadSession) error {
		status = statusOf(sess)
		return nil
	})
	return status, err
}

// SelectLocation records a user supplied point for a session without EXIF coordinates.
func (s *PhotoService) SelectLocation(id uuid.UUID, c models.Coordinates) (UploadStatus, error) {
	var status UploadStatus
	err := s.sessions.With(id, func(sess *UploadSession) error {
		if err := sess.Resolution.SelectPoint(c); err != nil {
			return err
		}
		status = statusOf(sess)
		return nil
	})
	return status, err
}

// DiscardUpload drops a session without saving anything.
func (s *PhotoService) DiscardUpload(id uuid.UUID) error {
	if !s.sessions.Remove(id) {
		return ErrSessionNotFound
	}
	return nil
}

// SaveUpload stores the photo of a ready session: blob first, then the metadata
// row. If the row cannot be written the blobs are removed again and the session
// is kept so the user may retry.
func (s *PhotoService) SaveUpload(ctx context.Context, id uuid.UUID) (*models.PhotoView, error) {
	sess, coords, err := s.sessions.Claim(id)
	if err != nil {
		return nil, err
	}

	view, err := s.store(ctx, sess, coords)
	if err != nil {
		s.sessions.Restore(sess)
		return nil, err
	}
	return view, nil
}

func (s *PhotoService) store(ctx context.Context, sess *UploadSession, coords models.Coordinates) (*models.PhotoView, error) {
	objectID := uuid.New()
	storageKey := photoPrefix + objectID.String() + ".jpg"

	blobURL, err := s.blobs.Put(ctx, storageKey, sess.Data, sess.ContentType)
	if err != nil {
		s.metrics.RecordSaveFailure("blob")
		return nil, unavailable(err, "could not store photo")
	}

	thumbnailKey := s.storeThumbnail(ctx, objectID, sess.Data)

	photo := &models.Photo{
		Filename:     sess.Filename,
		Latitude:     coords.Latitude,
		Longitude:    coords.Longitude,
		BlobURL:      blobURL,
		StorageKey:   storageKey,
		ThumbnailKey: thumbnailKey,
		ContentType:  sess.ContentType,
		Size:         int64(len(sess.Data)),
		DateTaken:    sess.Metadata.CaptureTime,
	}
	if err := s.repo.Create(ctx, photo); err != nil {
		s.metrics.RecordSaveFailure("metadata")
		// If DB save fails, remove the blobs to avoid orphan files
		s.removeBlob(ctx, storageKey)
		if thumbnailKey != "" {
			s.removeBlob(ctx, thumbnailKey)
		}
		if errors.Is(err, models.ErrInvalidPhoto) {
			return nil, err
		}
		return nil, unavailable(err, "failed to save metadata to database")
	}

	source := sess.Resolution.State().Source()
	s.metrics.RecordSave(source)
	s.logger.Info("photo saved",
		zap.String("id", photo.ID.String()),
		zap.String("filename", photo.Filename),
		zap.String("source", source))
	return s.view(ctx, *photo), nil
}

// storeThumbnail returns the thumbnail key, or "" when none could be made.
func (s *PhotoService) storeThumbnail(ctx context.Context, objectID uuid.UUID, data []byte) string {
	thumb, err := conversion.GenerateThumbnail(data, s.thumbnailSize)
	if err != nil {
		s.logger.Warn("thumbnail generation failed", zap.String("object", objectID.String()), zap.Error(err))
		return ""
	}
	key := thumbnailPrefix + objectID.String() + ".jpg"
	if _, err := s.blobs.Put(ctx, key, thumb, conversion.ThumbnailContentType); err != nil {
		s.logger.Warn("thumbnail upload failed", zap.String("object", objectID.String()), zap.Error(err))
		return ""
	}
	return key
}

func (s *PhotoService) removeBlob(ctx context.Context, key string) {
	if err := s.blobs.Remove(ctx, key); err != nil {
		s.logger.Error("could not remove orphaned blob", zap.String("key", key), zap.Error(err))
	}
	s.urls.Invalidate(ctx, key)
}

// ImportArchive opens every JPEG in an archive as an upload. Located photos are
// saved right away; the others wait for a user point like single uploads do.
func (s *PhotoService) ImportArchive(ctx context.Context, archivePath string) (*ImportResult, error) {
	result := &ImportResult{
		Saved:   []models.PhotoView{},
		Pending: []UploadStatus{},
		Failed:  []ImportFailure{},
	}

	err := extraction.WalkArchiveImages(ctx, archivePath, s.importLimits, func(f extraction.ArchiveFile) error {
		status, err := s.BeginUpload(f.Name, jpegContentType, f.Data)
		if err != nil {
			result.Failed = append(result.Failed, ImportFailure{Filename: f.Name, Error: err.Error()})
			return nil
		}
		if !status.Ready {
			result.Pending = append(result.Pending, status)
			return nil
		}
		view, err := s.SaveUpload(ctx, status.ID)
		if err != nil {
			s.logger.Warn("archive entry not saved", zap.String("filename", f.Name), zap.Error(err))
			result.Failed = append(result.Failed, ImportFailure{Filename: f.Name, Error: err.Error()})
			s.sessions.Remove(status.ID)
			return nil
		}
		result.Saved = append(result.Saved, *view)
		return nil
	})
	if err != nil {
		// Pending sessions of a rejected archive would only hold memory until they expire.
		for _, p := range result.Pending {
			s.sessions.Remove(p.ID)
		}
		s.logger.Warn("archive import stopped",
			zap.Int("saved", len(result.Saved)),
			zap.Int("discarded", len(result.Pending)),
			zap.Error(err))
		return nil, errors.Wrap(err, "failed to read archive")
	}

	s.logger.Info("archive imported",
		zap.Int("saved", len(result.Saved)),
		zap.Int("pending", len(result.Pending)),
		zap.Int("failed", len(result.Failed)))
	return result, nil
}

// Gallery returns one page of photos matching the query.
func (s *PhotoService) Gallery(ctx context.Context, q GalleryQuery) (*models.GalleryPage, error) {
	q.Normalize()
	if q.Filter.Near != nil && !q.Filter.Near.Valid() {
		return nil, location.ErrInvalidCoordinates
	}
	if math.IsNaN(q.Filter.RadiusMeters) || q.Filter.RadiusMeters < 0 {
		return nil, fmt.Errorf("invalid radius %v", q.Filter.RadiusMeters)
	}

	photos, total, err := s.repo.Query(ctx, q.Filter, repository.Page{Number: q.Page, Size: q.PageSize})
	if err != nil {
		return nil, unavailable(err, "could not query photos")
	}

	items := make([]models.PhotoView, 0, len(photos))
	for _, p := range photos {
		items = append(items, *s.view(ctx, p))
	}
	return &models.GalleryPage{Items: items, Total: total, Page: q.Page, PageSize: q.PageSize}, nil
}

// GetPhoto returns a stored photo with signed links.
func (s *PhotoService) GetPhoto(ctx context.Context, id uuid.UUID) (*models.PhotoView, error) {
	photo, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, *photo), nil
}

// ImageURL returns a signed link to the full image of a stored photo.
func (s *PhotoService) ImageURL(ctx context.Context, id uuid.UUID) (string, error) {
	photo, err := s.lookup(ctx, id)
	if err != nil {
		return "", err
	}
	signed, err := s.urls.SignedURL(ctx, photo.StorageKey)
	if err != nil {
		return "", unavailable(err, "could not sign image url")
	}
	return signed, nil
}

// MapView returns a marker per photo, centered on their mean position.
func (s *PhotoService) MapView(ctx context.Context) (*models.MapView, error) {
	photos, err := s.repo.ListForMap(ctx)
	if err != nil {
		return nil, unavailable(err, "could not list photos")
	}

	view := &models.MapView{Center: DefaultMapCenter, Zoom: DefaultMapZoom, Markers: make([]models.Marker, 0, len(photos))}
	if len(photos) == 0 {
		return view, nil
	}

	lats := make([]float64, 0, len(photos))
	lngs := make([]float64, 0, len(photos))
	for _, p := range photos {
		view.Markers = append(view.Markers, models.Marker{ID: p.ID, Label: p.Filename, Latitude: p.Latitude, Longitude: p.Longitude})
		lats = append(lats, p.Latitude)
		lngs = append(lngs, p.Longitude)
	}
	view.Center.Latitude, view.Center.Longitude = utils.MeanCenter(lats, lngs)
	return view, nil
}

// PendingUploads returns the number of upload sessions awaiting a save.
func (s *PhotoService) PendingUploads() int {
	return s.sessions.Len()
}

// CacheStats reports signed URL cache statistics.
func (s *PhotoService) CacheStats() cache.LayerStats {
	return s.urls.Stats()
}

func (s *PhotoService) lookup(ctx context.Context, id uuid.UUID) (*models.Photo, error) {
	photo, err := s.repo.Get(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, unavailable(err, "could not load photo")
	}
	return photo, nil
}

// view attaches signed links. A signing failure leaves the link empty.
func (s *PhotoService) view(ctx context.Context, p models.Photo) *models.PhotoView {
	v := &models.PhotoView{Photo: p}

	signed, err := s.urls.SignedURL(ctx, p.StorageKey)
	if err != nil {
		s.logger.Warn("could not sign image url", zap.String("id", p.ID.String()), zap.Error(err))
	} else {
		v.ImageURL = signed
	}

	if p.ThumbnailKey != "" {
		thumb, err := s.urls.SignedURL(ctx, p.ThumbnailKey)
		if err != nil {
			s.logger.Warn("could not sign thumbnail url", zap.String("id", p.ID.String()), zap.Error(err))
		} else {
			v.ThumbnailURL = thumb
		}
	}
	return v
}
