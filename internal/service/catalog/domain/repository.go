package domain

import "context"

// ProductRepository 定义了商品数据的持久化接口。
// 领域层只声明，由基础设施层实现。
type ProductRepository interface {
	// FindByID 按规范标识查找，未找到返回 ErrProductNotFound。
	FindByID(ctx context.Context, id string) (*Product, error)
	// FindByLegacyID 按迁移前的数字标识查找，未找到返回 ErrProductNotFound。
	FindByLegacyID(ctx context.Context, legacyID int64) (*Product, error)
	// List 按过滤条件列出商品。
	List(ctx context.Context, filter ProductFilter) ([]*Product, error)
}
