package infrastructure

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"bistro/internal/service/catalog/domain"
)

// GormProductRepository 是 ProductRepository 的 GORM 实现。
type GormProductRepository struct {
	db *gorm.DB
}

func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	var model ProductModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.Wrapf(domain.ErrProductNotFound, "id %q", id)
		}
		return nil, errors.Wrap(err, "find product by id")
	}
	return ToDomainProduct(&model), nil
}

func (r *GormProductRepository) FindByLegacyID(ctx context.Context, legacyID int64) (*domain.Product, error) {
	var model ProductModel
	err := r.db.WithContext(ctx).Where("legacy_id = ?", legacyID).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.Wrapf(domain.ErrProductNotFound, "legacy id %d", legacyID)
		}
		return nil, errors.Wrap(err, "find product by legacy id")
	}
	return ToDomainProduct(&model), nil
}

func (r *GormProductRepository) List(ctx context.Context, filter domain.ProductFilter) ([]*domain.Product, error) {
	query := r.db.WithContext(ctx).Model(&ProductModel{})
	if filter.Category != "" {
		query = query.Where("category = ?", string(filter.Category))
	}
	if filter.Featured != nil {
		query = query.Where("featured = ?", *filter.Featured)
	}
	if filter.Available != nil {
		query = query.Where("available = ?", *filter.Available)
	}

	var models []ProductModel
	if err := query.Order("category, name").Find(&models).Error; err != nil {
		return nil, errors.Wrap(err, "list products")
	}

	products := make([]*domain.Product, 0, len(models))
	for i := range models {
		products = append(products, ToDomainProduct(&models[i]))
	}
	return products, nil
}
