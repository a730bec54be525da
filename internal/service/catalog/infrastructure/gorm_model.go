package infrastructure

import (
	"database/sql"
	"time"
)

// ProductModel 对应数据库中的 products 表。
type ProductModel struct {
	ID          string        `gorm:"primaryKey;size:24"`
	LegacyID    sql.NullInt64 `gorm:"uniqueIndex"`
	Name        string        `gorm:"size:255;not null"`
	Description string        `gorm:"type:text"`
	Price       float64       `gorm:"type:decimal(10,2);not null"`
	Image       string        `gorm:"size:512"`
	Category    string        `gorm:"size:32;index"`
	Vegetarian  bool
	Badges      string `gorm:"type:text"` // 逗号分隔
	Featured    bool   `gorm:"index"`
	Available   bool   `gorm:"index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName 指定 GORM 应该使用的表名。
func (ProductModel) TableName() string {
	return "products"
}
