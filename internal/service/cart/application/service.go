package application

import (
	"context"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"bistro/internal/pkg/logger"
	"bistro/internal/service/cart/domain"
	"bistro/internal/service/cart/port"
)

// CartService 编排购物车的所有用例。所有操作都隐式圈定在
// 一个用户身份之内，调用方传入的 userID 来自外部认证网关。
type CartService struct {
	repo     domain.CartRepository
	resolver port.CatalogResolver
	tracer   trace.Tracer
}

func NewCartService(repo domain.CartRepository, resolver port.CatalogResolver, tracer trace.Tracer) *CartService {
	return &CartService{repo: repo, resolver: resolver, tracer: tracer}
}

// GetOrCreate 返回用户的购物车，不存在时惰性创建一个空车。
func (s *CartService) GetOrCreate(ctx context.Context, userID string) (*domain.Cart, error) {
	ctx, span := s.tracer.Start(ctx, "cart.GetOrCreate")
	defer span.End()

	cart, err := s.repo.FindByUserID(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, domain.ErrCartNotFound) {
		span.RecordError(err)
		return nil, err
	}

	cart = domain.NewCart(userID)
	if err := s.repo.Save(ctx, cart); err != nil {
		span.RecordError(err)
		return nil, err
	}
	logger.Ctx(ctx).Info().Str("user_id", userID).Msg("cart lazily created")
	return cart, nil
}

// AddItem 解析商品引用并加入购物车。解析失败时整个操作中止，
// 购物车不会留下半解析状态的行。
func (s *CartService) AddItem(ctx context.Context, userID, reference string, quantity int) (*domain.Cart, error) {
	ctx, span := s.tracer.Start(ctx, "cart.AddItem")
	defer span.End()
	span.SetAttributes(
		attribute.String("product.reference", reference),
		attribute.Int("quantity", quantity),
	)

	if quantity < 1 {
		return nil, domain.ErrInvalidQuantity
	}

	product, err := s.resolver.Resolve(ctx, reference)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	cart, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	// 快照字段在此刻定格：之后目录里的价格变动不回写到这一行。
	if err := cart.AddLine(product.ID, product.Name, product.Price, product.Image, quantity); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, cart); err != nil {
		span.RecordError(err)
		return nil, err
	}
	return cart, nil
}

// UpdateQuantity 把某行数量设置为给定值。
func (s *CartService) UpdateQuantity(ctx context.Context, userID, lineID string, quantity int) (*domain.Cart, error) {
	ctx, span := s.tracer.Start(ctx, "cart.UpdateQuantity")
	defer span.End()

	cart, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := cart.SetQuantity(lineID, quantity); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, cart); err != nil {
		span.RecordError(err)
		return nil, err
	}
	return cart, nil
}

// RemoveItem 删除某行。行不存在时按幂等成功处理；
// 购物车本身不存在才是错误。
func (s *CartService) RemoveItem(ctx context.Context, userID, lineID string) (*domain.Cart, error) {
	ctx, span := s.tracer.Start(ctx, "cart.RemoveItem")
	defer span.End()

	cart, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	cart.RemoveLine(lineID)
	if err := s.repo.Save(ctx, cart); err != nil {
		span.RecordError(err)
		return nil, err
	}
	return cart, nil
}

// Clear 清空购物车。幂等：车不存在时创建一个空车返回。
func (s *CartService) Clear(ctx context.Context, userID string) (*domain.Cart, error) {
	ctx, span := s.tracer.Start(ctx, "cart.Clear")
	defer span.End()

	cart, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	cart.Clear()
	if err := s.repo.Save(ctx, cart); err != nil {
		span.RecordError(err)
		return nil, err
	}
	return cart, nil
}
