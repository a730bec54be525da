package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"bistro/internal/pkg/logger"
	"bistro/internal/service/promotion/domain"
)

// PromotionService 定义了优惠服务提供的所有业务用例。
type PromotionService struct {
	couponRepo domain.CouponRepository
	tracer     trace.Tracer
	now        func() time.Time // 可注入，测试时固定时间
}

func NewPromotionService(repo domain.CouponRepository, tracer trace.Tracer) *PromotionService {
	return &PromotionService{
		couponRepo: repo,
		tracer:     tracer,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Evaluate 校验一张券并计算折扣。这是一个纯读操作：
// 核销（次数递增）是另一个独立步骤，由调用方在订单持久化成功后触发，
// 失败的结算流程不会吃掉券的使用次数。
func (s *PromotionService) Evaluate(ctx context.Context, code string, subtotal float64) (*EvaluationResult, error) {
	ctx, span := s.tracer.Start(ctx, "promotion.Evaluate")
	defer span.End()
	span.SetAttributes(
		attribute.String("coupon.code", code),
		attribute.Float64("order.subtotal", subtotal),
	)

	coupon, err := s.couponRepo.FindByCode(ctx, domain.NormalizeCode(code))
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	discount, err := coupon.EvaluateAt(s.now(), subtotal)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	return &EvaluationResult{Coupon: toSummary(coupon), Discount: discount}, nil
}

// RecordUsage 核销一次使用。内部是条件自增，上限已满时拒绝，
// 并发核销不会冲破上限。
func (s *PromotionService) RecordUsage(ctx context.Context, code string) (*domain.Coupon, error) {
	ctx, span := s.tracer.Start(ctx, "promotion.RecordUsage")
	defer span.End()
	span.SetAttributes(attribute.String("coupon.code", code))

	coupon, err := s.couponRepo.TryRecordUsage(ctx, domain.NormalizeCode(code))
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	logger.Ctx(ctx).Info().
		Str("coupon_code", coupon.Code).
		Int("used_count", coupon.UsedCount).
		Msg("coupon usage recorded")
	return coupon, nil
}

// ListAvailable 返回当前可领用的券，营销展示用。
func (s *PromotionService) ListAvailable(ctx context.Context) ([]*domain.Coupon, error) {
	ctx, span := s.tracer.Start(ctx, "promotion.ListAvailable")
	defer span.End()
	return s.couponRepo.ListAvailable(ctx, s.now())
}

// CreateCoupon 是管理端入口：校验定义后落库。
func (s *PromotionService) CreateCoupon(ctx context.Context, req *UpsertCouponRequest) (*domain.Coupon, error) {
	ctx, span := s.tracer.Start(ctx, "promotion.CreateCoupon")
	defer span.End()

	coupon := fromUpsertRequest(req)
	coupon.ID = uuid.NewString()
	coupon.CreatedAt = s.now()
	coupon.UpdatedAt = coupon.CreatedAt
	if err := coupon.Validate(s.now()); err != nil {
		return nil, err
	}
	if err := s.couponRepo.Create(ctx, coupon); err != nil {
		span.RecordError(err)
		return nil, err
	}
	return coupon, nil
}

// UpdateCoupon 覆盖更新一张券的定义。使用计数不受更新影响。
func (s *PromotionService) UpdateCoupon(ctx context.Context, code string, req *UpsertCouponRequest) (*domain.Coupon, error) {
	ctx, span := s.tracer.Start(ctx, "promotion.UpdateCoupon")
	defer span.End()

	existing, err := s.couponRepo.FindByCode(ctx, domain.NormalizeCode(code))
	if err != nil {
		return nil, err
	}

	updated := fromUpsertRequest(req)
	updated.ID = existing.ID
	updated.Code = existing.Code // 优惠码不可改名
	updated.UsedCount = existing.UsedCount
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = s.now()
	if err := updated.Validate(s.now()); err != nil {
		return nil, err
	}
	if err := s.couponRepo.Update(ctx, updated); err != nil {
		span.RecordError(err)
		return nil, err
	}
	return updated, nil
}

// DeleteCoupon 删除一张券。
func (s *PromotionService) DeleteCoupon(ctx context.Context, code string) error {
	ctx, span := s.tracer.Start(ctx, "promotion.DeleteCoupon")
	defer span.End()
	return s.couponRepo.Delete(ctx, domain.NormalizeCode(code))
}

func fromUpsertRequest(req *UpsertCouponRequest) *domain.Coupon {
	applicability := domain.Applicability(req.Applicability)
	if applicability == "" {
		applicability = domain.ApplicabilityAll
	}
	return &domain.Coupon{
		Code:           domain.NormalizeCode(req.Code),
		DiscountType:   domain.DiscountType(req.DiscountType),
		DiscountValue:  req.DiscountValue,
		MinOrderAmount: req.MinOrderAmount,
		MaxDiscount:    req.MaxDiscount,
		ValidFrom:      req.ValidFrom,
		ValidUntil:     req.ValidUntil,
		UsageLimit:     req.UsageLimit,
		Active:         req.Active,
		Applicability:  applicability,
	}
}

func toSummary(coupon *domain.Coupon) CouponSummary {
	return CouponSummary{
		Code:           coupon.Code,
		DiscountType:   string(coupon.DiscountType),
		DiscountValue:  coupon.DiscountValue,
		MinOrderAmount: coupon.MinOrderAmount,
		MaxDiscount:    coupon.MaxDiscount,
		ValidUntil:     coupon.ValidUntil.Format(time.RFC3339),
	}
}
