package domain

import "context"

// OrderRepository 定义了订单聚合的持久化接口。
// 订单只会被创建和更新状态，永远不会被删除。
type OrderRepository interface {
	// Create 持久化一个新订单（含所有行）。
	Create(ctx context.Context, order *Order) error
	// FindByID 按 ID 查找订单，未找到返回 ErrOrderNotFound。
	FindByID(ctx context.Context, id string) (*Order, error)
	// FindByUser 返回某用户的订单，新的在前。
	FindByUser(ctx context.Context, userID string) ([]*Order, error)
	// UpdateStatus 持久化一次状态流转。
	UpdateStatus(ctx context.Context, id string, status Status) error
}
