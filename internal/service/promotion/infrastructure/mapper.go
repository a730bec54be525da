package infrastructure

import (
	"database/sql"

	"bistro/internal/service/promotion/domain"
)

// ToDomainCoupon 将数据库模型转换为领域模型。
func ToDomainCoupon(model *CouponModel) *domain.Coupon {
	if model == nil {
		return nil
	}
	var maxDiscount *float64
	if model.MaxDiscount.Valid {
		v := model.MaxDiscount.Float64
		maxDiscount = &v
	}
	var usageLimit *int
	if model.UsageLimit.Valid {
		v := int(model.UsageLimit.Int64)
		usageLimit = &v
	}
	return &domain.Coupon{
		ID:             model.ID,
		Code:           model.Code,
		DiscountType:   domain.DiscountType(model.DiscountType),
		DiscountValue:  model.DiscountValue,
		MinOrderAmount: model.MinOrderAmount,
		MaxDiscount:    maxDiscount,
		ValidFrom:      model.ValidFrom,
		ValidUntil:     model.ValidUntil,
		UsageLimit:     usageLimit,
		UsedCount:      model.UsedCount,
		Active:         model.Active,
		Applicability:  domain.Applicability(model.Applicability),
		CreatedAt:      model.CreatedAt,
		UpdatedAt:      model.UpdatedAt,
	}
}

// FromDomainCoupon 将领域模型转换为数据库模型。
func FromDomainCoupon(dmn *domain.Coupon) *CouponModel {
	if dmn == nil {
		return nil
	}
	maxDiscount := sql.NullFloat64{}
	if dmn.MaxDiscount != nil {
		maxDiscount = sql.NullFloat64{Float64: *dmn.MaxDiscount, Valid: true}
	}
	usageLimit := sql.NullInt64{}
	if dmn.UsageLimit != nil {
		usageLimit = sql.NullInt64{Int64: int64(*dmn.UsageLimit), Valid: true}
	}
	return &CouponModel{
		ID:             dmn.ID,
		Code:           dmn.Code,
		DiscountType:   string(dmn.DiscountType),
		DiscountValue:  dmn.DiscountValue,
		MinOrderAmount: dmn.MinOrderAmount,
		MaxDiscount:    maxDiscount,
		ValidFrom:      dmn.ValidFrom,
		ValidUntil:     dmn.ValidUntil,
		UsageLimit:     usageLimit,
		UsedCount:      dmn.UsedCount,
		Active:         dmn.Active,
		Applicability:  string(dmn.Applicability),
		CreatedAt:      dmn.CreatedAt,
		UpdatedAt:      dmn.UpdatedAt,
	}
}
