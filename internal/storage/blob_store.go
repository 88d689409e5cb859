package storage

import (
	"bytes"
	"context"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/pkg/errors"

	"photo-map/internal/metrics"
)

// BlobStore keeps the photo bytes. Keys are unique per upload, so Put may overwrite.
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Sign(ctx context.Context, key string, ttl time.Duration) (string, error)
	Remove(ctx context.Context, key string) error
}

// MinioBlobStore stores blobs in one MinIO/S3 bucket.
type MinioBlobStore struct {
	client  *minio.Client
	bucket  string
	metrics *metrics.Metrics
}

// NewMinioBlobStore creates a blob store for the given bucket.
func NewMinioBlobStore(client *minio.Client, bucket string, m *metrics.Metrics) *MinioBlobStore {
	return &MinioBlobStore{client: client, bucket: bucket, metrics: m}
}

// Put uploads data under key and returns the object's locator.
func (s *MinioBlobStore) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	defer s.metrics.ObserveBlob("put", time.Now())

	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", errors.Wrap(err, "failed to upload to MinIO")
	}
	return s.client.EndpointURL().JoinPath(s.bucket, key).String(), nil
}

// Sign returns a presigned GET URL valid for ttl.
func (s *MinioBlobStore) Sign(ctx context.Context, key string, ttl time.Duration) (string, error) {
	defer s.metrics.ObserveBlob("sign", time.Now())

	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, ttl, url.Values{})
	if err != nil {
		return "", errors.Wrap(err, "failed to presign object")
	}
	return u.String(), nil
}

// Remove deletes the object; removing a missing key is not an error.
func (s *MinioBlobStore) Remove(ctx context.Context, key string) error {
	defer s.metrics.ObserveBlob("remove", time.Now())

	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return errors.Wrap(err, "failed to remove from MinIO")
	}
	return nil
}
