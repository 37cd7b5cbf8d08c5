package logconfig

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates a new log configuration feature.
func NewFeature(db *gorm.DB, matcher PatternMatcher, logger *zap.Logger) *Feature {
	svc := NewService(db, matcher, logger)
	return &Feature{service: svc, handler: NewHandler(svc)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "logconfig"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Service exposes the feature's service to other features.
func (f *Feature) Service() *Service {
	return f.service
}

// Load migrates the schema when a database is configured and registers the routes.
func (f *Feature) Load(app fiber.Router) error {
	if f.service.repo.db != nil {
		if err := f.service.Migrate(); err != nil {
			return err
		}
	} else {
		f.service.logger.Warn("Log configs served without database")
	}
	f.handler.RegisterRoutes(app)
	return nil
}
