package integrity

import (
	"context"
	"errors"

	"abandon-report/core/storage"
	"abandon-report/feature/integrity/checks"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrNoArchive is returned by archive checks when no database is configured.
var ErrNoArchive = errors.New("report archive is not configured")

// Service handles integrity checks.
type Service struct {
	client storage.Client
	bucket string
	logger *zap.Logger
	db     *gorm.DB
}

// NewService creates a new integrity service. db may be nil when the archive is disabled.
func NewService(client storage.Client, bucket string, logger *zap.Logger, db *gorm.DB) *Service {
	return &Service{
		client: client,
		bucket: bucket,
		logger: logger,
		db:     db,
	}
}

// CheckStructure returns a list of missing folders.
func (s *Service) CheckStructure(ctx context.Context) ([]string, error) {
	return checks.CheckStructure(ctx, s.client, s.bucket)
}

// FixStructure creates the missing folders.
func (s *Service) FixStructure(ctx context.Context, missing []string) error {
	return checks.FixStructure(ctx, s.client, s.bucket, s.logger, missing)
}

// CheckInputs reports the extracts a storage-backed run would read.
func (s *Service) CheckInputs(ctx context.Context) (*checks.InputReport, error) {
	return checks.CheckInputs(ctx, s.client, s.bucket)
}

// CheckArchive compares the archive schema with the report models.
func (s *Service) CheckArchive() (*checks.ArchiveReport, error) {
	if s.db == nil {
		return nil, ErrNoArchive
	}
	return checks.CheckArchive(s.db)
}
