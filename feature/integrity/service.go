package integrity

import (
	"context"

	"pick-reconciler/core/storage"
	"pick-reconciler/feature/integrity/checks"
	"pick-reconciler/feature/picking"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Report combines the results of all checks.
type Report struct {
	Storage *checks.StorageReport `json:"storage,omitempty"`
	Schema  *checks.SchemaReport  `json:"schema,omitempty"`
	Errors  map[string]string     `json:"errors,omitempty"`
}

// Healthy reports whether every check ran and found nothing missing.
func (r Report) Healthy() bool {
	return len(r.Errors) == 0 &&
		r.Storage != nil && !r.Storage.Missing() &&
		r.Schema != nil && r.Schema.Matched
}

// Service handles integrity checks.
type Service struct {
	client storage.Client
	cfg    storage.Config
	logger *zap.Logger
	db     *gorm.DB
}

// NewService creates a new integrity service. db may be nil when no order
// database is configured; the schema check then reports an error.
func NewService(client storage.Client, cfg storage.Config, logger *zap.Logger, db *gorm.DB) *Service {
	return &Service{
		client: client,
		cfg:    cfg,
		logger: logger,
		db:     db,
	}
}

// CheckStorage inspects the archive bucket and prefix.
func (s *Service) CheckStorage(ctx context.Context) (*checks.StorageReport, error) {
	return checks.CheckStorage(ctx, s.client, s.cfg.Bucket, s.cfg.ArchivePrefix)
}

// FixStorage creates whatever the report lists as missing.
func (s *Service) FixStorage(ctx context.Context, report *checks.StorageReport) error {
	return checks.FixStorage(ctx, s.client, report, s.cfg.Region, s.logger)
}

// CheckSchema compares the picking tables with the live database.
func (s *Service) CheckSchema() (*checks.SchemaReport, error) {
	return checks.CheckSchema(s.db, picking.Models()...)
}

// FixSchema migrates the picking tables.
func (s *Service) FixSchema(ctx context.Context) error {
	s.logger.Info("Migrating picking tables")
	return picking.NewGormStore(s.db).Migrate(ctx)
}

// Run executes every check and, when fix is set, repairs what it can.
func (s *Service) Run(ctx context.Context, fix bool) Report {
	report := Report{Errors: make(map[string]string)}

	if st, err := s.CheckStorage(ctx); err != nil {
		report.Errors["storage"] = err.Error()
	} else {
		if fix && st.Missing() {
			if err := s.FixStorage(ctx, st); err != nil {
				report.Errors["storage"] = err.Error()
			}
		}
		report.Storage = st
	}

	if sc, err := s.CheckSchema(); err != nil {
		report.Errors["schema"] = err.Error()
	} else {
		if fix && !sc.Matched {
			if err := s.FixSchema(ctx); err != nil {
				report.Errors["schema"] = err.Error()
			} else if sc, err = s.CheckSchema(); err != nil {
				report.Errors["schema"] = err.Error()
			}
		}
		report.Schema = sc
	}

	if len(report.Errors) == 0 {
		report.Errors = nil
	}
	return report
}
