package logconfig

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"log-console/core/patternmatch"
	"log-console/feature/logconfig/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PatternMatcher runs a regex against text.
type PatternMatcher interface {
	Match(ctx context.Context, req patternmatch.Request) (patternmatch.Response, error)
}

// Service handles log configuration operations.
type Service struct {
	repo    *Repository
	matcher PatternMatcher
	logger  *zap.Logger
	drafts  *draftStore
}

// NewService creates a new log configuration service.
func NewService(db *gorm.DB, matcher PatternMatcher, logger *zap.Logger) *Service {
	return &Service{
		repo:    NewRepository(db),
		matcher: matcher,
		logger:  logger,
		drafts:  newDraftStore(),
	}
}

// Migrate prepares the database schema.
func (s *Service) Migrate() error {
	return s.repo.Migrate()
}

// List returns one page of configs matching filter.
func (s *Service) List(ctx context.Context, filter string, page, size int) (*models.Page, error) {
	return s.repo.List(ctx, filter, page, size)
}

// Get returns a single config.
func (s *Service) Get(ctx context.Context, id string) (*models.LogConfig, error) {
	return s.repo.Get(ctx, id)
}

// Create validates and stores a new config.
func (s *Service) Create(ctx context.Context, in models.Input) (*models.LogConfig, error) {
	cfg := &models.LogConfig{}
	in.Apply(cfg)
	if err := s.Validate(ctx, cfg); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, cfg); err != nil {
		return nil, err
	}
	s.logger.Info("Log config created", zap.String("id", cfg.ID), zap.String("name", cfg.Name))
	return cfg, nil
}

// Update validates and replaces the writable fields of an existing config.
func (s *Service) Update(ctx context.Context, id string, in models.Input) (*models.LogConfig, error) {
	cfg, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	in.Apply(cfg)
	if err := s.Validate(ctx, cfg); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, cfg); err != nil {
		return nil, err
	}
	s.logger.Info("Log config updated", zap.String("id", cfg.ID))
	return cfg, nil
}

// Delete removes a config.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Log config deleted", zap.String("id", id))
	return nil
}

// Validate checks cfg. Every failure wraps ErrInvalidConfig.
func (s *Service) Validate(ctx context.Context, cfg *models.LogConfig) error {
	if strings.TrimSpace(cfg.Name) == "" {
		return invalid("name is required")
	}
	if !cfg.LogType.IsValid() {
		return invalid(fmt.Sprintf("unknown log type %q", cfg.LogType))
	}
	if cfg.Regex == "" {
		if cfg.LogType.RequiresRegex() {
			return invalid("regex is required")
		}
		return nil
	}

	resp, err := s.matcher.Match(ctx, patternmatch.Request{Pattern: cfg.Regex, Text: firstLine(cfg.SampleLog)})
	if err != nil {
		return fmt.Errorf("failed to run pattern: %w", err)
	}
	if resp.Error != "" {
		return invalid("invalid regex: " + resp.Error)
	}
	if cfg.SampleLog != "" && resp.Result == nil {
		return invalid("regex does not match sample log")
	}
	return nil
}

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, msg)
}

// firstLine returns the first line of multi-line samples.
func firstLine(sample string) string {
	sample = strings.TrimLeft(sample, "\r\n")
	if i := strings.IndexAny(sample, "\r\n"); i >= 0 {
		return sample[:i]
	}
	return sample
}

// IsClientError reports whether err is caused by the request rather than the server.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidConfig) || errors.Is(err, ErrDuplicateName)
}
