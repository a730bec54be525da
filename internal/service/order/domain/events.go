package domain

import "time"

// 事件类型常量。下游（通知服务）按类型分发。
const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
)

// OrderEvent 是发往消息总线的订单事件。创建与状态变更共用一个
// 结构，状态变更事件会带上 previousStatus。
type OrderEvent struct {
	EventID     string    `json:"eventId"`
	Type        string    `json:"type"`
	OrderID     string    `json:"orderId"`
	OrderNumber string    `json:"orderNumber"`
	UserID      string    `json:"userId"`
	Total       float64   `json:"total"`
	Status      string    `json:"status"`
	PrevStatus  string    `json:"previousStatus,omitempty"`
	OccurredAt  time.Time `json:"occurredAt"`
}
