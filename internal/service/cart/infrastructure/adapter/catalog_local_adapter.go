package adapter

import (
	"context"

	catalogapp "bistro/internal/service/catalog/application"
	"bistro/internal/service/cart/port"
)

// CatalogLocalAdapter 把目录服务适配成购物车的 CatalogResolver 端口。
// 单体部署下是进程内调用；将来拆分时这里换成 HTTP/RPC 适配器即可，
// 购物车应用层不需要任何改动。
type CatalogLocalAdapter struct {
	catalog *catalogapp.CatalogService
}

func NewCatalogLocalAdapter(catalog *catalogapp.CatalogService) *CatalogLocalAdapter {
	return &CatalogLocalAdapter{catalog: catalog}
}

func (a *CatalogLocalAdapter) Resolve(ctx context.Context, reference string) (*port.ResolvedProduct, error) {
	product, err := a.catalog.Resolve(ctx, reference)
	if err != nil {
		return nil, err
	}
	return &port.ResolvedProduct{
		ID:    product.ID,
		Name:  product.Name,
		Price: product.Price,
		Image: product.Image,
	}, nil
}
