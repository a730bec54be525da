package infrastructure

import (
	"database/sql"
	"time"
)

// OrderModel 对应数据库中的 orders 表。金额与地址在创建时写死，
// 之后只有 status 字段会变。
type OrderModel struct {
	ID     string `gorm:"primaryKey;size:36"`
	Number string `gorm:"size:32;uniqueIndex;not null"`
	UserID string `gorm:"size:64;index;not null"`

	Lines []OrderLineModel `gorm:"foreignKey:OrderID"`

	Subtotal    float64        `gorm:"type:decimal(10,2);not null"`
	DeliveryFee float64        `gorm:"type:decimal(10,2);not null"`
	Discount    float64        `gorm:"type:decimal(10,2);not null"`
	Total       float64        `gorm:"type:decimal(10,2);not null"`
	CouponCode  sql.NullString `gorm:"size:64"`

	Street     string `gorm:"size:255;not null"`
	City       string `gorm:"size:128;not null"`
	PostalCode string `gorm:"size:16;not null"`
	Phone      string `gorm:"size:32;not null"`

	PaymentMethod string `gorm:"size:16;not null"`
	Status        string `gorm:"size:16;index;not null"`

	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}

// TableName 指定 GORM 应该使用的表名。
func (OrderModel) TableName() string {
	return "orders"
}

// OrderLineModel 对应 order_lines 表，是结算时刻的冻结快照。
type OrderLineModel struct {
	ID        uint    `gorm:"primaryKey;autoIncrement"`
	OrderID   string  `gorm:"size:36;index;not null"`
	ProductID string  `gorm:"size:24;not null"`
	Name      string  `gorm:"size:255;not null"`
	Price     float64 `gorm:"type:decimal(10,2);not null"`
	Image     string  `gorm:"size:512"`
	Quantity  int     `gorm:"not null"`
}

// TableName 指定 GORM 应该使用的表名。
func (OrderLineModel) TableName() string {
	return "order_lines"
}
