package adapter

import (
	"context"

	"bistro/internal/service/order/port"
	promotionapp "bistro/internal/service/promotion/application"
)

// PromotionLocalAdapter 把优惠服务适配成订单的 CouponService 端口。
type PromotionLocalAdapter struct {
	promotion *promotionapp.PromotionService
}

func NewPromotionLocalAdapter(promotion *promotionapp.PromotionService) *PromotionLocalAdapter {
	return &PromotionLocalAdapter{promotion: promotion}
}

func (a *PromotionLocalAdapter) Evaluate(ctx context.Context, code string, subtotal float64) (*port.CouponDecision, error) {
	result, err := a.promotion.Evaluate(ctx, code, subtotal)
	if err != nil {
		return nil, err
	}
	return &port.CouponDecision{Code: result.Coupon.Code, Discount: result.Discount}, nil
}

func (a *PromotionLocalAdapter) RecordUsage(ctx context.Context, code string) error {
	_, err := a.promotion.RecordUsage(ctx, code)
	return err
}
