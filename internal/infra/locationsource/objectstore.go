package locationsource

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/yanqian/prayer-api/internal/domain/location"
)

const maxDatasetBytes = 8 << 20

// ObjectSource reads the dataset from an S3-compatible bucket (R2, Spaces, MinIO).
type ObjectSource struct {
	client *minio.Client
	bucket string
	key    string
}

// NewObjectSource constructs the minio client for endpoint.
func NewObjectSource(endpoint, accessKey, secretKey, region, bucket, key string) (*ObjectSource, error) {
	if strings.TrimSpace(bucket) == "" || strings.TrimSpace(key) == "" {
		return nil, fmt.Errorf("object store bucket and key are required")
	}
	useSSL := !strings.HasPrefix(strings.ToLower(strings.TrimSpace(endpoint)), "http://")
	client, err := minio.New(sanitizeEndpoint(endpoint), &minio.Options{
		Creds:        credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure:       useSSL,
		Region:       region,
		BucketLookup: minio.BucketLookupPath,
	})
	if err != nil {
		return nil, fmt.Errorf("init object store client: %w", err)
	}
	return &ObjectSource{client: client, bucket: bucket, key: key}, nil
}

// Load implements location.Source.
func (s *ObjectSource) Load(ctx context.Context) ([]location.Location, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get dataset object: %w", err)
	}
	defer obj.Close()

	data, err := io.ReadAll(io.LimitReader(obj, maxDatasetBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read dataset object %s/%s: %w", s.bucket, s.key, err)
	}
	if len(data) > maxDatasetBytes {
		return nil, fmt.Errorf("dataset object %s/%s exceeds %d bytes", s.bucket, s.key, maxDatasetBytes)
	}
	return location.Decode(data, location.FormatFromName(s.key))
}

var _ location.Source = (*ObjectSource)(nil)

// sanitizeEndpoint removes schemes and paths to satisfy minio.New expectations.
func sanitizeEndpoint(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return raw
	}
	raw = strings.TrimPrefix(strings.TrimPrefix(raw, "https://"), "http://")
	if idx := strings.Index(raw, "/"); idx >= 0 {
		raw = raw[:idx]
	}
	return raw
}
