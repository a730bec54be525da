package port

import (
	"context"
	"time"

	"bistro/internal/service/order/domain"
)

// CouponDecision 是一次券校验通过后的结果。
type CouponDecision struct {
	Code     string
	Discount float64
}

// CouponService 是订单装配对优惠服务的依赖。
// Evaluate 是纯读；RecordUsage 在订单持久化成功后才被调用。
type CouponService interface {
	Evaluate(ctx context.Context, code string, subtotal float64) (*CouponDecision, error)
	RecordUsage(ctx context.Context, code string) error
}

// CartService 只暴露订单装配需要的清空能力。
type CartService interface {
	Clear(ctx context.Context, userID string) error
}

// EventProducer 把订单事件发布到消息总线。
type EventProducer interface {
	Publish(ctx context.Context, event *domain.OrderEvent) error
}

// NumberGenerator 生成人类可读的唯一单号。
type NumberGenerator interface {
	Next(ctx context.Context, at time.Time) (string, error)
}
