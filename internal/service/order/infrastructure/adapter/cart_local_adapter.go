package adapter

import (
	"context"

	cartapp "bistro/internal/service/cart/application"
)

// CartLocalAdapter 把购物车服务适配成订单的 CartService 端口。
type CartLocalAdapter struct {
	carts *cartapp.CartService
}

func NewCartLocalAdapter(carts *cartapp.CartService) *CartLocalAdapter {
	return &CartLocalAdapter{carts: carts}
}

func (a *CartLocalAdapter) Clear(ctx context.Context, userID string) error {
	_, err := a.carts.Clear(ctx, userID)
	return err
}
