package checks

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"pick-reconciler/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// StorageReport describes the state of the archive bucket.
type StorageReport struct {
	Bucket       string `json:"bucket"`
	BucketExists bool   `json:"bucket_exists"`
	Prefix       string `json:"prefix"`
	PrefixExists bool   `json:"prefix_exists"`
	Status       string `json:"status"` // "ok", "missing"
}

// Missing reports whether anything must be created.
func (r StorageReport) Missing() bool {
	return !r.BucketExists || !r.PrefixExists
}

// CheckStorage verifies that the archive bucket and prefix exist.
func CheckStorage(ctx context.Context, client storage.Client, bucket, prefix string) (*StorageReport, error) {
	report := &StorageReport{Bucket: bucket, Prefix: folder(prefix), Status: "ok"}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	report.BucketExists = exists

	if exists {
		opts := minio.ListObjectsOptions{
			Prefix:    report.Prefix,
			Recursive: false,
			MaxKeys:   1,
		}
		for obj := range client.ListObjects(ctx, bucket, opts) {
			if obj.Err != nil {
				return nil, fmt.Errorf("failed to list %s: %w", report.Prefix, obj.Err)
			}
			report.PrefixExists = true
			break
		}
	}

	if report.Missing() {
		report.Status = "missing"
	}
	return report, nil
}

// FixStorage creates the bucket and the prefix marker object when missing.
func FixStorage(ctx context.Context, client storage.Client, report *StorageReport, region string, logger *zap.Logger) error {
	if !report.BucketExists {
		if err := client.MakeBucket(ctx, report.Bucket, minio.MakeBucketOptions{Region: region}); err != nil {
			logger.Error("Failed to create bucket", zap.String("bucket", report.Bucket), zap.Error(err))
			return err
		}
		logger.Info("Created missing bucket", zap.String("bucket", report.Bucket))
		report.BucketExists = true
	}

	if !report.PrefixExists {
		_, err := client.PutObject(ctx, report.Bucket, report.Prefix, bytes.NewReader([]byte{}), 0, minio.PutObjectOptions{})
		if err != nil {
			logger.Error("Failed to create folder", zap.String("folder", report.Prefix), zap.Error(err))
			return err
		}
		logger.Info("Created missing folder", zap.String("folder", report.Prefix))
		report.PrefixExists = true
	}

	report.Status = "fixed"
	return nil
}

func folder(prefix string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return ""
	}
	return prefix + "/"
}
