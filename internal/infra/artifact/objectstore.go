package artifact

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ObjectStoreConfig locates an artifact in an S3-compatible bucket.
type ObjectStoreConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Key       string
	Region    string
}

// ObjectStoreFetcher downloads the artifact from S3/R2/MinIO to local disk.
type ObjectStoreFetcher struct {
	client *minio.Client
	bucket string
	key    string
	logger *slog.Logger
}

// NewObjectStoreFetcher constructs the fetcher. No network call is made until Fetch.
func NewObjectStoreFetcher(cfg ObjectStoreConfig, logger *slog.Logger) (*ObjectStoreFetcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if strings.TrimSpace(cfg.Bucket) == "" || strings.TrimSpace(cfg.Key) == "" {
		return nil, errors.New("object store bucket and key are required")
	}
	endpoint := sanitizeEndpoint(cfg.Endpoint)
	if endpoint == "" {
		return nil, errors.New("object store endpoint is required")
	}
	client, err := minio.New(endpoint, &minio.Options{
		Creds:        credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:       !strings.HasPrefix(strings.ToLower(strings.TrimSpace(cfg.Endpoint)), "http://"),
		Region:       cfg.Region,
		BucketLookup: minio.BucketLookupPath,
	})
	if err != nil {
		return nil, fmt.Errorf("init object store client: %w", err)
	}
	return &ObjectStoreFetcher{
		client: client,
		bucket: cfg.Bucket,
		key:    cfg.Key,
		logger: logger.With("component", "artifact.objectstore"),
	}, nil
}

// Fetch writes the configured object to dest, replacing any existing file.
func (f *ObjectStoreFetcher) Fetch(ctx context.Context, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("prepare artifact dir: %w", err)
	}
	if err := f.client.FGetObject(ctx, f.bucket, f.key, dest, minio.GetObjectOptions{}); err != nil {
		return fmt.Errorf("download s3://%s/%s: %w", f.bucket, f.key, err)
	}
	f.logger.Info("model artifact downloaded", "bucket", f.bucket, "key", f.key, "dest", dest)
	return nil
}

var _ Fetcher = (*ObjectStoreFetcher)(nil)

// sanitizeEndpoint removes schemes and paths to satisfy minio.New expectations.
func sanitizeEndpoint(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return raw
	}
	lower := strings.ToLower(raw)
	switch {
	case strings.HasPrefix(lower, "https://"):
		raw = raw[len("https://"):]
	case strings.HasPrefix(lower, "http://"):
		raw = raw[len("http://"):]
	}
	if i := strings.Index(raw, "/"); i >= 0 {
		raw = raw[:i]
	}
	return raw
}
