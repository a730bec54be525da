package port

import "context"

// ResolvedProduct 是购物车视角下的目录商品：
// 只包含做加购快照所需要的字段。
type ResolvedProduct struct {
	ID    string
	Name  string
	Price float64
	Image string
}

// CatalogResolver 是购物车对目录解析能力的依赖。
// 实现方负责处理双标识（规范 ID / 迁移前数字 ID）的歧义，
// 未命中时返回 catalog 领域的 ErrProductNotFound。
type CatalogResolver interface {
	Resolve(ctx context.Context, reference string) (*ResolvedProduct, error)
}
