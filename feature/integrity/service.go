package integrity

import (
	"context"
	"errors"

	"flashdeck/core/storage"
	"flashdeck/feature/integrity/checks"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrStorageDisabled is returned when the profile backend does not use object storage.
var ErrStorageDisabled = errors.New("object storage is not configured")

// Service handles integrity checks.
type Service struct {
	db     *gorm.DB
	models []any
	client storage.Client
	bucket string
	region string
	logger *zap.Logger
}

// NewService creates a new integrity service. models are the gorm models
// whose tables must exist on db. client may be nil when profiles are not
// stored in a bucket.
func NewService(db *gorm.DB, models []any, client storage.Client, bucket, region string, logger *zap.Logger) *Service {
	return &Service{
		db:     db,
		models: models,
		client: client,
		bucket: bucket,
		region: region,
		logger: logger,
	}
}

// CheckServer verifies the remote database schema.
func (s *Service) CheckServer() (*checks.ServerReport, error) {
	return checks.CheckServerIntegrity(s.db, s.models...)
}

// StorageEnabled reports whether a storage client is configured.
func (s *Service) StorageEnabled() bool {
	return s.client != nil
}

// CheckStorage reports on the profile bucket.
func (s *Service) CheckStorage(ctx context.Context) (*checks.StorageReport, error) {
	if s.client == nil {
		return nil, ErrStorageDisabled
	}
	return checks.CheckStorage(ctx, s.client, s.bucket)
}

// FixStorage creates the profile bucket when it is missing.
func (s *Service) FixStorage(ctx context.Context) (*checks.StorageReport, error) {
	report, err := s.CheckStorage(ctx)
	if err != nil || report.Exists {
		return report, err
	}
	if err := checks.FixStorage(ctx, s.client, s.bucket, s.region, s.logger); err != nil {
		return report, err
	}
	report.Exists = true
	report.Fixed = true
	return report, nil
}
