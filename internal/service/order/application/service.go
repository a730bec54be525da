package application

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"bistro/internal/pkg/logger"
	"bistro/internal/service/order/domain"
	"bistro/internal/service/order/port"
)

// FeePolicy 是配送费的外部策略输入：固定费用，小计达到
// WaiveThreshold 时免收。订单服务只消费它，不拥有它。
type FeePolicy struct {
	DeliveryFee    float64
	WaiveThreshold float64
}

// FeeFor 返回给定小计应收的配送费。
func (p FeePolicy) FeeFor(subtotal float64) float64 {
	if subtotal >= p.WaiveThreshold {
		return 0
	}
	return p.DeliveryFee
}

// OrderApplicationService 负责订单装配的业务流程编排。
type OrderApplicationService struct {
	orderRepo domain.OrderRepository
	coupons   port.CouponService
	carts     port.CartService
	producer  port.EventProducer
	numberGen port.NumberGenerator
	feePolicy FeePolicy
	tracer    trace.Tracer
}

func NewOrderApplicationService(
	orderRepo domain.OrderRepository,
	coupons port.CouponService,
	carts port.CartService,
	producer port.EventProducer,
	numberGen port.NumberGenerator,
	feePolicy FeePolicy,
	tracer trace.Tracer,
) *OrderApplicationService {
	return &OrderApplicationService{
		orderRepo: orderRepo,
		coupons:   coupons,
		carts:     carts,
		producer:  producer,
		numberGen: numberGen,
		feePolicy: feePolicy,
		tracer:    tracer,
	}
}

// CreateOrder 从一份购物车快照装配出一个不可变的订单：
//
//  1. 行与地址校验；
//  2. 用快照价格计算小计（绝不回读目录）；
//  3. 按策略计算配送费；
//  4. 如带券则校验——任何拒绝都在写库之前中止整个创建；
//  5. 持久化订单（状态 pending）；
//  6. 持久化成功后才执行后续动作：核销券、清空购物车、发事件。
//
// 第 6 步是尽力而为的：任何一个失败都只记日志，不回滚订单。
// 这是一个明确的取舍——顾客看到的下单成功优先于簿记的对称性。
func (s *OrderApplicationService) CreateOrder(ctx context.Context, userID string, req *CreateOrderRequest) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "order.CreateOrder")
	defer span.End()
	span.SetAttributes(
		attribute.String("user.id", userID),
		attribute.Int("order.line_count", len(req.Items)),
	)

	lines := make([]domain.OrderLine, 0, len(req.Items))
	for _, item := range req.Items {
		lines = append(lines, domain.OrderLine{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price,
			Image:     item.Image,
			Quantity:  item.Quantity,
		})
	}
	if len(lines) == 0 {
		return nil, domain.ErrEmptyCart
	}

	address := domain.Address{
		Street:     req.Address.Street,
		City:       req.Address.City,
		PostalCode: req.Address.PostalCode,
		Phone:      req.Address.Phone,
	}
	if err := address.Validate(); err != nil {
		return nil, err
	}

	subtotal := domain.ComputeSubtotal(lines)
	deliveryFee := s.feePolicy.FeeFor(subtotal)

	var discount float64
	var couponCode string
	if req.CouponCode != "" {
		decision, err := s.coupons.Evaluate(ctx, req.CouponCode, subtotal)
		if err != nil {
			// 券被拒绝：把具体原因交回给调用方，订单不创建，
			// 使用次数也不消耗。
			span.RecordError(err)
			span.SetStatus(codes.Error, "coupon rejected")
			return nil, err
		}
		discount = decision.Discount
		couponCode = decision.Code
	}

	number, err := s.numberGen.Next(ctx, time.Now().UTC())
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	order, err := domain.NewOrder(userID, number, lines, address,
		domain.PaymentMethod(req.PaymentMethod), deliveryFee, discount, couponCode)
	if err != nil {
		return nil, err
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to persist order")
		return nil, err
	}
	span.SetAttributes(attribute.String("order.number", order.Number))
	logger.Ctx(ctx).Info().
		Str("order_number", order.Number).
		Str("user_id", userID).
		Float64("total", order.Total).
		Msg("order created")

	s.runFollowUps(ctx, order)
	return order, nil
}

// runFollowUps 执行下单成功后的尽力而为动作。
// 使用 WithoutCancel：请求级 ctx 被取消不应该打断这些收尾。
func (s *OrderApplicationService) runFollowUps(ctx context.Context, order *domain.Order) {
	ctx = context.WithoutCancel(ctx)

	if order.CouponCode != "" {
		if err := s.coupons.RecordUsage(ctx, order.CouponCode); err != nil {
			logger.Ctx(ctx).Error().Err(err).
				Str("order_number", order.Number).
				Str("coupon_code", order.CouponCode).
				Msg("post-order coupon usage increment failed, order stands")
		}
	}

	if err := s.carts.Clear(ctx, order.UserID); err != nil {
		logger.Ctx(ctx).Error().Err(err).
			Str("order_number", order.Number).
			Msg("post-order cart clear failed, order stands")
	}

	s.publish(ctx, &domain.OrderEvent{
		Type:        domain.EventOrderCreated,
		OrderID:     order.ID,
		OrderNumber: order.Number,
		UserID:      order.UserID,
		Total:       order.Total,
		Status:      string(order.Status),
	})
}

// UpdateStatus 执行一次运营侧的状态流转。
func (s *OrderApplicationService) UpdateStatus(ctx context.Context, orderID, rawStatus string) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "order.UpdateStatus")
	defer span.End()
	span.SetAttributes(
		attribute.String("order.id", orderID),
		attribute.String("order.next_status", rawStatus),
	)

	next, err := domain.ParseStatus(rawStatus)
	if err != nil {
		return nil, err
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	previous := order.Status
	if err := order.TransitionTo(next); err != nil {
		return nil, err
	}
	if err := s.orderRepo.UpdateStatus(ctx, order.ID, order.Status); err != nil {
		span.RecordError(err)
		return nil, err
	}

	s.publish(context.WithoutCancel(ctx), &domain.OrderEvent{
		Type:        domain.EventOrderStatusChanged,
		OrderID:     order.ID,
		OrderNumber: order.Number,
		UserID:      order.UserID,
		Total:       order.Total,
		Status:      string(order.Status),
		PrevStatus:  string(previous),
	})
	return order, nil
}

// GetOrder 返回某用户自己的订单；别人的订单一律表现为不存在。
func (s *OrderApplicationService) GetOrder(ctx context.Context, userID, orderID string) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "order.GetOrder")
	defer span.End()

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, domain.ErrOrderNotFound
	}
	return order, nil
}

// ListOrders 返回某用户的全部订单，新的在前。
func (s *OrderApplicationService) ListOrders(ctx context.Context, userID string) ([]*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "order.ListOrders")
	defer span.End()
	return s.orderRepo.FindByUser(ctx, userID)
}

// publish 发事件，失败只记日志。通知是锦上添花，不参与一致性。
func (s *OrderApplicationService) publish(ctx context.Context, event *domain.OrderEvent) {
	if err := s.producer.Publish(ctx, event); err != nil {
		logger.Ctx(ctx).Error().Err(err).
			Str("order_number", event.OrderNumber).
			Str("event_type", event.Type).
			Msg("failed to publish order event")
	}
}
