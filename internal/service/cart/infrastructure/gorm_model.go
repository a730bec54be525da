package infrastructure

import "time"

// CartModel 对应数据库中的 carts 表。user_id 上的唯一索引
// 保证每个用户至多一个购物车。
type CartModel struct {
	ID        string `gorm:"primaryKey;size:36"`
	UserID    string `gorm:"size:64;uniqueIndex;not null"`
	Lines     []CartLineModel `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (CartModel) TableName() string {
	return "carts"
}

// CartLineModel 对应 cart_lines 表。name/price/image 是加购时的快照。
type CartLineModel struct {
	ID        string  `gorm:"primaryKey;size:36"`
	CartID    string  `gorm:"size:36;index;not null"`
	ProductID string  `gorm:"size:24;not null"`
	Name      string  `gorm:"size:255;not null"`
	Price     float64 `gorm:"type:decimal(10,2);not null"`
	Image     string  `gorm:"size:512"`
	Quantity  int     `gorm:"not null"`
}

func (CartLineModel) TableName() string {
	return "cart_lines"
}
