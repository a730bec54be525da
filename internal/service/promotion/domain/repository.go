package domain

import (
	"context"
	"time"
)

// CouponRepository 定义了优惠券数据的持久化接口。
type CouponRepository interface {
	// FindByCode 按（已规范化的）优惠码查找，未找到返回 ErrCouponNotFound。
	FindByCode(ctx context.Context, code string) (*Coupon, error)
	// ListAvailable 返回在 now 时刻可用的券，按折扣力度降序。
	ListAvailable(ctx context.Context, now time.Time) ([]*Coupon, error)
	// Create 新建一张券，优惠码冲突返回 ErrDuplicateCode。
	Create(ctx context.Context, coupon *Coupon) error
	// Update 覆盖保存一张已存在的券。
	Update(ctx context.Context, coupon *Coupon) error
	// Delete 删除一张券。删除不存在的券返回 ErrCouponNotFound。
	Delete(ctx context.Context, code string) error
	// TryRecordUsage 原子地把使用次数加一：仅当次数未达上限时才会生效。
	// 上限已满返回 ErrCouponUsageExceeded，券不存在返回 ErrCouponNotFound。
	// 这是一个条件自增，不是读-改-写，并发核销不会把计数冲破上限。
	TryRecordUsage(ctx context.Context, code string) (*Coupon, error)
}
