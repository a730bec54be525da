package domain

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// DiscountType 定义了优惠的计算方式。
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage" // 按小计的百分比
	DiscountFixed      DiscountType = "fixed"      // 固定金额
)

// Applicability 标记优惠券的适用人群。本引擎只记录不执行，
// 人群判定属于营销端的读侧关注点。
type Applicability string

const (
	ApplicabilityAll           Applicability = "all"
	ApplicabilityNewUsers      Applicability = "new_users"
	ApplicabilityExistingUsers Applicability = "existing_users"
)

// 校验失败的各种原因。接口层依赖这些哨兵错误做状态码映射，
// 用户能看到具体的拒绝原因（"已过期" 而不是笼统的 "不可用"）。
var (
	ErrCouponNotFound      = errors.New("coupon not found")
	ErrCouponInactive      = errors.New("coupon is inactive")
	ErrCouponNotYetValid   = errors.New("coupon is not yet valid")
	ErrCouponExpired       = errors.New("coupon has expired")
	ErrCouponUsageExceeded = errors.New("coupon usage limit reached")
	ErrCouponBelowMinimum  = errors.New("order subtotal below coupon minimum")
	ErrDuplicateCode       = errors.New("coupon code already exists")
	ErrInvalidCoupon       = errors.New("invalid coupon definition")
)

// Coupon 是全局共享的促销规则。
type Coupon struct {
	ID   string
	Code string // 存储时统一大写，匹配时大小写不敏感

	DiscountType  DiscountType
	DiscountValue float64
	// MinOrderAmount 是使用门槛，小计低于它直接拒绝。
	MinOrderAmount float64
	// MaxDiscount 只对百分比类型有意义：折扣的上限金额。
	MaxDiscount *float64

	ValidFrom  time.Time
	ValidUntil time.Time

	// UsageLimit 为 nil 表示不限次。UsedCount 只增不减，
	// 由下单成功后的一次显式调用递增，校验本身是纯读。
	UsageLimit *int
	UsedCount  int

	Active        bool
	Applicability Applicability

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NormalizeCode 统一优惠码的存储/查询形态。
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Validate 是创建/更新时的定义校验。
func (c *Coupon) Validate(now time.Time) error {
	if NormalizeCode(c.Code) == "" {
		return errors.Wrap(ErrInvalidCoupon, "code is required")
	}
	if c.DiscountType != DiscountPercentage && c.DiscountType != DiscountFixed {
		return errors.Wrapf(ErrInvalidCoupon, "unknown discount type %q", c.DiscountType)
	}
	if c.DiscountValue < 0 {
		return errors.Wrap(ErrInvalidCoupon, "discount value must not be negative")
	}
	if c.DiscountType == DiscountPercentage && c.DiscountValue > 100 {
		return errors.Wrap(ErrInvalidCoupon, "percentage discount must not exceed 100")
	}
	if c.MinOrderAmount < 0 {
		return errors.Wrap(ErrInvalidCoupon, "minimum order amount must not be negative")
	}
	if !c.ValidUntil.After(now) {
		return errors.Wrap(ErrInvalidCoupon, "valid-until must be in the future")
	}
	if !c.ValidFrom.IsZero() && c.ValidUntil.Before(c.ValidFrom) {
		return errors.Wrap(ErrInvalidCoupon, "valid-until must not precede valid-from")
	}
	return nil
}

// EvaluateAt 校验优惠券并计算折扣金额。纯函数：只依赖券本身、
// 当前时间和小计，不产生任何写入。拒绝检查的顺序是固定的，
// 保证同一张券对同一请求总是报同一个原因。
func (c *Coupon) EvaluateAt(now time.Time, subtotal float64) (float64, error) {
	if !c.Active {
		return 0, ErrCouponInactive
	}
	if now.Before(c.ValidFrom) {
		return 0, ErrCouponNotYetValid
	}
	if now.After(c.ValidUntil) {
		return 0, ErrCouponExpired
	}
	if c.UsageLimit != nil && c.UsedCount >= *c.UsageLimit {
		return 0, ErrCouponUsageExceeded
	}
	if subtotal < c.MinOrderAmount {
		return 0, ErrCouponBelowMinimum
	}

	sub := decimal.NewFromFloat(subtotal)
	var discount decimal.Decimal
	switch c.DiscountType {
	case DiscountPercentage:
		discount = sub.Mul(decimal.NewFromFloat(c.DiscountValue)).Div(decimal.NewFromInt(100))
		if c.MaxDiscount != nil {
			ceiling := decimal.NewFromFloat(*c.MaxDiscount)
			if discount.GreaterThan(ceiling) {
				discount = ceiling
			}
		}
	case DiscountFixed:
		discount = decimal.NewFromFloat(c.DiscountValue)
	}

	// 固定金额也好、算错的上限也好，折扣永远不准超过小计：
	// 优惠券不能把订单打成负数。
	if discount.GreaterThan(sub) {
		discount = sub
	}
	if discount.IsNegative() {
		discount = decimal.Zero
	}

	// 四舍五入到两位小数（half-up）。
	f, _ := discount.Round(2).Float64()
	return f, nil
}

// IsAvailableAt 是营销展示用的可用性判断：激活、窗口内、次数未用尽。
// 它只是 EvaluateAt 同一套规则的只读视图，不是另一套规则。
func (c *Coupon) IsAvailableAt(now time.Time) bool {
	if !c.Active {
		return false
	}
	if now.Before(c.ValidFrom) || now.After(c.ValidUntil) {
		return false
	}
	if c.UsageLimit != nil && c.UsedCount >= *c.UsageLimit {
		return false
	}
	return true
}
