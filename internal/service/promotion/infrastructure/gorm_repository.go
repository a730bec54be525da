package infrastructure

import (
	"context"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"bistro/internal/service/promotion/domain"
)

// mysqlDuplicateEntry 是 MySQL 唯一键冲突的错误码。
const mysqlDuplicateEntry = 1062

// GormCouponRepository 是 CouponRepository 的 GORM 实现。
type GormCouponRepository struct {
	db *gorm.DB
}

func NewGormCouponRepository(db *gorm.DB) *GormCouponRepository {
	return &GormCouponRepository{db: db}
}

func (r *GormCouponRepository) FindByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	var model CouponModel
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.Wrapf(domain.ErrCouponNotFound, "code %q", code)
		}
		return nil, errors.Wrap(err, "find coupon by code")
	}
	return ToDomainCoupon(&model), nil
}

func (r *GormCouponRepository) ListAvailable(ctx context.Context, now time.Time) ([]*domain.Coupon, error) {
	var models []CouponModel
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Where("valid_from <= ? AND valid_until >= ?", now, now).
		Where("usage_limit IS NULL OR used_count < usage_limit").
		Order("discount_value DESC").
		Find(&models).Error
	if err != nil {
		return nil, errors.Wrap(err, "list available coupons")
	}

	coupons := make([]*domain.Coupon, 0, len(models))
	for i := range models {
		coupons = append(coupons, ToDomainCoupon(&models[i]))
	}
	return coupons, nil
}

func (r *GormCouponRepository) Create(ctx context.Context, coupon *domain.Coupon) error {
	err := r.db.WithContext(ctx).Create(FromDomainCoupon(coupon)).Error
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
			return errors.Wrapf(domain.ErrDuplicateCode, "code %q", coupon.Code)
		}
		return errors.Wrap(err, "create coupon")
	}
	return nil
}

func (r *GormCouponRepository) Update(ctx context.Context, coupon *domain.Coupon) error {
	model := FromDomainCoupon(coupon)
	result := r.db.WithContext(ctx).Model(&CouponModel{}).Where("id = ?", model.ID).
		Select("*").Omit("id", "code", "created_at").Updates(model)
	if result.Error != nil {
		return errors.Wrap(result.Error, "update coupon")
	}
	if result.RowsAffected == 0 {
		return errors.Wrapf(domain.ErrCouponNotFound, "id %q", coupon.ID)
	}
	return nil
}

func (r *GormCouponRepository) Delete(ctx context.Context, code string) error {
	result := r.db.WithContext(ctx).Where("code = ?", code).Delete(&CouponModel{})
	if result.Error != nil {
		return errors.Wrap(result.Error, "delete coupon")
	}
	if result.RowsAffected == 0 {
		return errors.Wrapf(domain.ErrCouponNotFound, "code %q", code)
	}
	return nil
}

// TryRecordUsage 用一条条件 UPDATE 完成 "检查上限 + 自增" ：
// 数据库层面的原子性保证并发核销不会把计数冲破上限。
func (r *GormCouponRepository) TryRecordUsage(ctx context.Context, code string) (*domain.Coupon, error) {
	result := r.db.WithContext(ctx).Model(&CouponModel{}).
		Where("code = ?", code).
		Where("usage_limit IS NULL OR used_count < usage_limit").
		UpdateColumn("used_count", gorm.Expr("used_count + 1"))
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "record coupon usage")
	}
	if result.RowsAffected == 0 {
		// 没有行被更新：要么券不存在，要么上限已满。回查区分两者。
		coupon, err := r.FindByCode(ctx, code)
		if err != nil {
			return nil, err
		}
		return nil, errors.Wrapf(domain.ErrCouponUsageExceeded, "code %q used %d times", coupon.Code, coupon.UsedCount)
	}
	return r.FindByCode(ctx, code)
}
