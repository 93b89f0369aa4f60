package checks

import (
	"bytes"
	"context"
	"fmt"

	"flashdeck/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// WriteCheckKey is the object written, read back and removed to verify
// that profile documents can be stored.
const WriteCheckKey = "_integrity/write-check"

// StorageReport describes the profile bucket.
type StorageReport struct {
	Bucket     string `json:"bucket"`
	Exists     bool   `json:"exists"`
	Writable   bool   `json:"writable"`
	WriteError string `json:"write_error,omitempty"`
	Fixed      bool   `json:"fixed,omitempty"`
}

// CheckStorage reports whether the bucket exists and accepts a write.
func CheckStorage(ctx context.Context, client storage.Client, bucket string) (*StorageReport, error) {
	if client == nil {
		return nil, fmt.Errorf("storage client is nil")
	}
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	report := &StorageReport{Bucket: bucket, Exists: exists}
	if !exists {
		return report, nil
	}
	if err := checkWritable(ctx, client, bucket); err != nil {
		report.WriteError = err.Error()
	} else {
		report.Writable = true
	}
	return report, nil
}

func checkWritable(ctx context.Context, client storage.Client, bucket string) error {
	body := []byte("ok")
	_, err := client.PutObject(ctx, bucket, WriteCheckKey, bytes.NewReader(body), int64(len(body)),
		minio.PutObjectOptions{ContentType: "text/plain"})
	if err != nil {
		return fmt.Errorf("write %s: %w", WriteCheckKey, err)
	}

	info, err := client.StatObject(ctx, bucket, WriteCheckKey, minio.StatObjectOptions{})
	if err != nil {
		return fmt.Errorf("stat %s: %w", WriteCheckKey, err)
	}
	if info.Size != int64(len(body)) {
		return fmt.Errorf("stat %s: size %d, wrote %d", WriteCheckKey, info.Size, len(body))
	}

	if err := client.RemoveObject(ctx, bucket, WriteCheckKey, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove %s: %w", WriteCheckKey, err)
	}
	return nil
}

// FixStorage creates the bucket.
func FixStorage(ctx context.Context, client storage.Client, bucket, region string, logger *zap.Logger) error {
	if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: region}); err != nil {
		logger.Error("Failed to create bucket", zap.String("bucket", bucket), zap.Error(err))
		return err
	}
	logger.Info("Created missing bucket", zap.String("bucket", bucket))
	return nil
}
