package storage

import (
	"context"
	"fmt"

	"storefront-cms-backend/internal/config"
)

// New picks the storage backend named by cfg.StorageDriver.
func New(ctx context.Context, cfg *config.Config) (Storage, error) {
	switch cfg.StorageDriver {
	case "", "local":
		local, err := NewLocal(cfg.UploadDir, cfg.UploadURL)
		if err != nil {
			return nil, err
		}
		return local, nil
	case "s3":
		if cfg.S3Region == "" || cfg.S3Bucket == "" || cfg.S3PublicBaseURL == "" {
			return nil, fmt.Errorf("S3 config missing: S3_REGION, S3_BUCKET, S3_PUBLIC_BASE_URL required")
		}
		remote, err := NewS3(ctx, S3Config{
			Region:        cfg.S3Region,
			Bucket:        cfg.S3Bucket,
			Prefix:        cfg.S3Prefix,
			PublicBaseURL: cfg.S3PublicBaseURL,
		})
		if err != nil {
			return nil, err
		}
		return remote, nil
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER: %s", cfg.StorageDriver)
	}
}
