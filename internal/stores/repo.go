package stores

import (
	"context"

	"gorm.io/gorm"

	"github.com/HAHAtool/ShareBasket/pkg/db/models"
)

// Repository exposes persistence helpers for reference data.
type Repository interface {
	ListStores(ctx context.Context) ([]models.Store, error)
	ListPopularItems(ctx context.Context) ([]models.PopularItem, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a reference-data repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) ListStores(ctx context.Context) ([]models.Store, error) {
	var rows []models.Store
	if err := r.db.WithContext(ctx).Order("branch_name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repositoryImpl) ListPopularItems(ctx context.Context) ([]models.PopularItem, error) {
	var rows []models.PopularItem
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
