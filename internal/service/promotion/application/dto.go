package application

import "time"

// CouponSummary 是校验/展示返回的券信息裁剪。
type CouponSummary struct {
	Code           string   `json:"code"`
	DiscountType   string   `json:"discountType"`
	DiscountValue  float64  `json:"discountValue"`
	MinOrderAmount float64  `json:"minOrderAmount"`
	MaxDiscount    *float64 `json:"maxDiscount,omitempty"`
	ValidUntil     string   `json:"validUntil"`
}

// EvaluationResult 是一次成功校验的结果：券摘要加计算出的折扣额。
type EvaluationResult struct {
	Coupon   CouponSummary `json:"coupon"`
	Discount float64       `json:"discount"`
}

// UpsertCouponRequest 是管理端创建/更新券的请求体。
type UpsertCouponRequest struct {
	Code           string    `json:"code"`
	DiscountType   string    `json:"discountType"`
	DiscountValue  float64   `json:"discountValue"`
	MinOrderAmount float64   `json:"minOrderAmount"`
	MaxDiscount    *float64  `json:"maxDiscount,omitempty"`
	ValidFrom      time.Time `json:"validFrom"`
	ValidUntil     time.Time `json:"validUntil"`
	UsageLimit     *int      `json:"usageLimit,omitempty"`
	Active         bool      `json:"active"`
	Applicability  string    `json:"applicability,omitempty"`
}
