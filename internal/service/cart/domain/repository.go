package domain

import "context"

// CartRepository 定义了购物车聚合的持久化接口。
// Save 是整文档覆盖写：并发修改同一购物车时后写者胜，
// 这是当前设计接受的限制（没有乐观锁 token）。
type CartRepository interface {
	// FindByUserID 返回用户的购物车，不存在时返回 ErrCartNotFound。
	FindByUserID(ctx context.Context, userID string) (*Cart, error)
	// Save 创建或覆盖保存整个聚合。
	Save(ctx context.Context, cart *Cart) error
}
