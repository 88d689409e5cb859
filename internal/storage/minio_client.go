package storage

import (
	"context"
	"net/http"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"photo-map/internal/config"
)

// NewMinioClient initializes a MinIO client and ensures the bucket exists.
func NewMinioClient(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*minio.Client, error) {
	minioClient, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  minioCredentials(cfg),
		Secure: cfg.MinioSSL,
	})
	if err != nil {
		return nil, errors.Wrap(err, "could not create minio client")
	}
	// Ensure the bucket exists (create if not present)
	exists, err := minioClient.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, errors.Wrap(err, "could not check bucket")
	}
	if !exists {
		if err := minioClient.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, errors.Wrap(err, "could not create bucket")
		}
		logger.Info("created bucket", zap.String("bucket", cfg.MinioBucket))
	}
	return minioClient, nil
}

// minioCredentials uses the static keys, or in IAM mode the first provider of
// environment and instance identity that yields credentials.
func minioCredentials(cfg *config.Config) *credentials.Credentials {
	if cfg.AuthMode != config.AuthIAM {
		return credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, "")
	}
	return credentials.NewChainCredentials([]credentials.Provider{
		&credentials.EnvMinio{},
		&credentials.EnvAWS{},
		&credentials.IAM{Client: &http.Client{Transport: http.DefaultTransport}},
	})
}
