package logconfig

import (
	"context"
	"errors"
	"fmt"

	"log-console/feature/logconfig/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Repository persists log configurations with GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a repository on db.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Migrate creates or updates the log_configs table.
func (r *Repository) Migrate() error {
	if r.db == nil {
		return ErrNoDatabase
	}
	return r.db.AutoMigrate(&models.LogConfig{})
}

// List returns one page of configs whose name contains filter.
func (r *Repository) List(ctx context.Context, filter string, page, size int) (*models.Page, error) {
	if r.db == nil {
		return nil, ErrNoDatabase
	}
	page, size = normalizePage(page, size)

	query := r.db.WithContext(ctx).Model(&models.LogConfig{})
	if filter != "" {
		query = query.Where("name LIKE ?", "%"+filter+"%")
	}
	// Share the filtered statement between the count and the page query.
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count log configs: %w", err)
	}

	items := []models.LogConfig{}
	if err := query.Order("name").Offset((page - 1) * size).Limit(size).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list log configs: %w", err)
	}

	return &models.Page{Items: items, Total: total, Page: page, Size: size}, nil
}

// Get returns the config with the given id.
func (r *Repository) Get(ctx context.Context, id string) (*models.LogConfig, error) {
	if r.db == nil {
		return nil, ErrNoDatabase
	}
	var cfg models.LogConfig
	if err := r.db.WithContext(ctx).First(&cfg, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get log config %s: %w", id, err)
	}
	return &cfg, nil
}

// Create inserts cfg, assigning a new id when it has none.
func (r *Repository) Create(ctx context.Context, cfg *models.LogConfig) error {
	if r.db == nil {
		return ErrNoDatabase
	}
	if cfg.ID == "" {
		cfg.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(cfg).Error; err != nil {
		return translate("create", err)
	}
	return nil
}

// Update saves every field of cfg.
func (r *Repository) Update(ctx context.Context, cfg *models.LogConfig) error {
	if r.db == nil {
		return ErrNoDatabase
	}
	if err := r.db.WithContext(ctx).Save(cfg).Error; err != nil {
		return translate("update", err)
	}
	return nil
}

// Delete removes the config with the given id.
func (r *Repository) Delete(ctx context.Context, id string) error {
	if r.db == nil {
		return ErrNoDatabase
	}
	res := r.db.WithContext(ctx).Delete(&models.LogConfig{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete log config %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func translate(op string, err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateName
	}
	return fmt.Errorf("failed to %s log config: %w", op, err)
}

func normalizePage(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return page, size
}
