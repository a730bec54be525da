package domain

import (
	"time"

	"github.com/pkg/errors"
)

// Category 是菜品的固定分类编码。
type Category string

const (
	CategoryAppetizer Category = "appetizer"
	CategoryMain      Category = "main_course"
	CategoryDessert   Category = "dessert"
	CategoryBeverage  Category = "beverage"
	CategorySide      Category = "side"
)

// ErrProductNotFound 表示按任何一种标识都没有找到商品。
// 包装时应带上调用方提供的原始引用，便于排查；对外只暴露 "product not found"。
var ErrProductNotFound = errors.New("product not found")

// Product 是菜品目录条目。对定价引擎来说它是只读的，
// 增删改由目录管理端（本服务之外）负责。
type Product struct {
	// ID 是持久化层生成的规范标识，不可变。
	ID string
	// LegacyID 是迁移前种子数据集里的数字 ID。
	// 迁移窗口期内两种标识都必须能解析到同一条记录。
	LegacyID *int64

	Name        string
	Description string
	Price       float64
	Image       string
	Category    Category
	Vegetarian  bool
	Badges      []string
	Featured    bool
	Available   bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProductFilter 是目录浏览的查询条件，零值表示不过滤。
type ProductFilter struct {
	Category  Category
	Featured  *bool
	Available *bool
}
