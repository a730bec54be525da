package infrastructure

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"bistro/internal/service/cart/domain"
)

// GormCartRepository 是 CartRepository 的 GORM 实现。
// Save 做整聚合覆盖写（行全量替换），并发写同一购物车时后写者胜。
type GormCartRepository struct {
	db *gorm.DB
}

func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

func (r *GormCartRepository) FindByUserID(ctx context.Context, userID string) (*domain.Cart, error) {
	var model CartModel
	err := r.db.WithContext(ctx).Preload("Lines").Where("user_id = ?", userID).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.Wrapf(domain.ErrCartNotFound, "user %q", userID)
		}
		return nil, errors.Wrap(err, "find cart by user")
	}
	return ToDomainCart(&model), nil
}

func (r *GormCartRepository) Save(ctx context.Context, cart *domain.Cart) error {
	model := FromDomainCart(cart)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).Omit("Lines").Create(&CartModel{
			ID:        model.ID,
			UserID:    model.UserID,
			CreatedAt: model.CreatedAt,
			UpdatedAt: model.UpdatedAt,
		}).Error; err != nil {
			return err
		}

		// 行集合全量替换：先删后插，保证被移除的行不会残留。
		if err := tx.Where("cart_id = ?", model.ID).Delete(&CartLineModel{}).Error; err != nil {
			return err
		}
		if len(model.Lines) == 0 {
			return nil
		}
		return tx.Create(&model.Lines).Error
	})
	return errors.Wrap(err, "save cart")
}
