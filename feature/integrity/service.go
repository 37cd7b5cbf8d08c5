package integrity

import (
	"context"
	"errors"
	"sync"

	"log-console/core/storage"
	"log-console/feature/integrity/checks"
	"log-console/feature/logconfig/models"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// StructureResult is the outcome of a structure check, possibly with a fix.
type StructureResult struct {
	Status        string   `json:"status"` // "checked", "fixed"
	BucketMissing bool     `json:"bucket_missing,omitempty"`
	Missing       []string `json:"missing"`
}

// Service handles integrity checks.
type Service struct {
	client   storage.Client
	bucket   string
	maxBytes int64
	db       *gorm.DB
	logger   *zap.Logger
}

// NewService creates a new integrity service. db may be nil.
func NewService(client storage.Client, bucket string, maxBytes int64, db *gorm.DB, logger *zap.Logger) *Service {
	return &Service{
		client:   client,
		bucket:   bucket,
		maxBytes: maxBytes,
		db:       db,
		logger:   logger,
	}
}

// CheckStructure returns the missing folders.
func (s *Service) CheckStructure(ctx context.Context) ([]string, error) {
	return checks.CheckStructure(ctx, s.client, s.bucket)
}

// Structure checks the bucket layout and, with fix set, creates what is missing.
func (s *Service) Structure(ctx context.Context, fix bool) (*StructureResult, error) {
	missing, err := s.CheckStructure(ctx)
	bucketMissing := errors.Is(err, checks.ErrBucketMissing)
	if err != nil && !(fix && bucketMissing) {
		return nil, err
	}
	if bucketMissing {
		missing = checks.RequiredFolders
	}

	result := &StructureResult{Status: "checked", BucketMissing: bucketMissing, Missing: missing}
	if !fix || len(missing) == 0 {
		return result, nil
	}

	s.logger.Info("Fixing bucket structure", zap.Strings("missing", missing), zap.Bool("bucket", bucketMissing))
	if err := checks.FixStructure(ctx, s.client, s.bucket, s.logger, bucketMissing, missing); err != nil {
		return nil, err
	}
	result.Status = "fixed"
	return result, nil
}

// CheckSamples reports samples that are empty or exceed the read limit.
func (s *Service) CheckSamples(ctx context.Context) (*checks.SamplesReport, error) {
	return checks.CheckSamples(ctx, s.client, s.bucket, s.maxBytes)
}

// CheckDatabase compares the log_configs table against its model.
func (s *Service) CheckDatabase() (*checks.DatabaseReport, error) {
	return checks.CheckDatabase(s.db, &models.LogConfig{})
}

// CheckAll runs every check concurrently. A failing check is reported in its
// section and does not stop the others.
func (s *Service) CheckAll(ctx context.Context) map[string]any {
	var mu sync.Mutex
	report := make(map[string]any)
	set := func(name string, v any, err error) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			s.logger.Warn("Integrity check failed", zap.String("check", name), zap.Error(err))
			report[name] = map[string]any{"status": "error", "error": err.Error()}
			return
		}
		report[name] = v
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := s.Structure(gctx, false)
		set("structure", v, err)
		return nil
	})
	g.Go(func() error {
		v, err := s.CheckSamples(gctx)
		set("samples", v, err)
		return nil
	})
	g.Go(func() error {
		v, err := s.CheckDatabase()
		set("database", v, err)
		return nil
	})
	_ = g.Wait()

	return report
}
