package infrastructure

import (
	"database/sql"
	"time"
)

// CouponModel 对应数据库中的 coupons 表。
type CouponModel struct {
	ID             string  `gorm:"primaryKey;size:36"`
	Code           string  `gorm:"size:64;uniqueIndex;not null"`
	DiscountType   string  `gorm:"size:16;not null"`
	DiscountValue  float64 `gorm:"type:decimal(10,2);not null"`
	MinOrderAmount float64 `gorm:"type:decimal(10,2);not null;default:0"`
	MaxDiscount    sql.NullFloat64 `gorm:"type:decimal(10,2)"`
	ValidFrom      time.Time
	ValidUntil     time.Time `gorm:"index"`
	UsageLimit     sql.NullInt64
	UsedCount      int `gorm:"not null;default:0"`
	Active         bool
	Applicability  string `gorm:"size:32;default:all"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName 指定 GORM 应该使用的表名。
func (CouponModel) TableName() string {
	return "coupons"
}
