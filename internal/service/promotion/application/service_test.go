package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"bistro/internal/service/promotion/domain"
)

var frozenNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

type fakeCouponRepo struct {
	coupons map[string]*domain.Coupon
}

func newFakeCouponRepo() *fakeCouponRepo {
	return &fakeCouponRepo{coupons: make(map[string]*domain.Coupon)}
}

func (f *fakeCouponRepo) FindByCode(_ context.Context, code string) (*domain.Coupon, error) {
	if c, ok := f.coupons[code]; ok {
		return c, nil
	}
	return nil, domain.ErrCouponNotFound
}

func (f *fakeCouponRepo) ListAvailable(_ context.Context, now time.Time) ([]*domain.Coupon, error) {
	var out []*domain.Coupon
	for _, c := range f.coupons {
		if c.IsAvailableAt(now) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCouponRepo) Create(_ context.Context, coupon *domain.Coupon) error {
	if _, ok := f.coupons[coupon.Code]; ok {
		return domain.ErrDuplicateCode
	}
	f.coupons[coupon.Code] = coupon
	return nil
}

func (f *fakeCouponRepo) Update(_ context.Context, coupon *domain.Coupon) error {
	f.coupons[coupon.Code] = coupon
	return nil
}

func (f *fakeCouponRepo) Delete(_ context.Context, code string) error {
	if _, ok := f.coupons[code]; !ok {
		return domain.ErrCouponNotFound
	}
	delete(f.coupons, code)
	return nil
}

func (f *fakeCouponRepo) TryRecordUsage(_ context.Context, code string) (*domain.Coupon, error) {
	c, ok := f.coupons[code]
	if !ok {
		return nil, domain.ErrCouponNotFound
	}
	if c.UsageLimit != nil && c.UsedCount >= *c.UsageLimit {
		return nil, domain.ErrCouponUsageExceeded
	}
	c.UsedCount++
	return c, nil
}

func newPromotionFixture() (*PromotionService, *fakeCouponRepo) {
	repo := newFakeCouponRepo()
	svc := NewPromotionService(repo, noop.NewTracerProvider().Tracer("test"))
	svc.now = func() time.Time { return frozenNow }
	return svc, repo
}

func seedCoupon(repo *fakeCouponRepo) *domain.Coupon {
	c := &domain.Coupon{
		ID:             "c-1",
		Code:           "SAVE20",
		DiscountType:   domain.DiscountPercentage,
		DiscountValue:  20,
		MinOrderAmount: 30,
		ValidFrom:      frozenNow.Add(-24 * time.Hour),
		ValidUntil:     frozenNow.Add(24 * time.Hour),
		Active:         true,
		Applicability:  domain.ApplicabilityAll,
	}
	repo.coupons[c.Code] = c
	return c
}

func TestEvaluate(t *testing.T) {
	svc, repo := newPromotionFixture()
	seedCoupon(repo)

	// 优惠码匹配大小写不敏感。
	result, err := svc.Evaluate(context.Background(), "  save20 ", 45.00)
	require.NoError(t, err)
	assert.Equal(t, 9.00, result.Discount)
	assert.Equal(t, "SAVE20", result.Coupon.Code)

	_, err = svc.Evaluate(context.Background(), "NOPE", 45.00)
	assert.ErrorIs(t, err, domain.ErrCouponNotFound)

	_, err = svc.Evaluate(context.Background(), "SAVE20", 10.00)
	assert.ErrorIs(t, err, domain.ErrCouponBelowMinimum)
}

func TestEvaluate_IsPureRead(t *testing.T) {
	svc, repo := newPromotionFixture()
	coupon := seedCoupon(repo)

	for i := 0; i < 3; i++ {
		_, err := svc.Evaluate(context.Background(), "SAVE20", 45.00)
		require.NoError(t, err)
	}
	assert.Equal(t, 0, coupon.UsedCount, "evaluation never consumes usage")
}

func TestRecordUsage(t *testing.T) {
	svc, repo := newPromotionFixture()
	coupon := seedCoupon(repo)
	limit := 2
	coupon.UsageLimit = &limit

	got, err := svc.RecordUsage(context.Background(), "save20")
	require.NoError(t, err)
	assert.Equal(t, 1, got.UsedCount)

	_, err = svc.RecordUsage(context.Background(), "SAVE20")
	require.NoError(t, err)

	// 上限已满，第三次核销被拒。
	_, err = svc.RecordUsage(context.Background(), "SAVE20")
	assert.ErrorIs(t, err, domain.ErrCouponUsageExceeded)
	assert.Equal(t, 2, coupon.UsedCount)
}

func TestListAvailable(t *testing.T) {
	svc, repo := newPromotionFixture()
	seedCoupon(repo)
	repo.coupons["OLD10"] = &domain.Coupon{
		ID:            "c-2",
		Code:          "OLD10",
		DiscountType:  domain.DiscountFixed,
		DiscountValue: 10,
		ValidFrom:     frozenNow.Add(-48 * time.Hour),
		ValidUntil:    frozenNow.Add(-time.Hour),
		Active:        true,
	}

	coupons, err := svc.ListAvailable(context.Background())
	require.NoError(t, err)
	require.Len(t, coupons, 1)
	assert.Equal(t, "SAVE20", coupons[0].Code)
}

func TestCreateCoupon(t *testing.T) {
	svc, repo := newPromotionFixture()

	created, err := svc.CreateCoupon(context.Background(), &UpsertCouponRequest{
		Code:           "flat50",
		DiscountType:   "fixed",
		DiscountValue:  50,
		MinOrderAmount: 40,
		ValidUntil:     frozenNow.Add(48 * time.Hour),
		Active:         true,
	})
	require.NoError(t, err)
	assert.Equal(t, "FLAT50", created.Code, "code stored normalized")
	assert.Equal(t, domain.ApplicabilityAll, created.Applicability, "applicability defaults to all")
	assert.NotEmpty(t, created.ID)

	// 重复创建同码被拒。
	_, err = svc.CreateCoupon(context.Background(), &UpsertCouponRequest{
		Code:          "FLAT50",
		DiscountType:  "fixed",
		DiscountValue: 10,
		ValidUntil:    frozenNow.Add(48 * time.Hour),
		Active:        true,
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateCode)

	// 定义不合法在落库前被拒。
	_, err = svc.CreateCoupon(context.Background(), &UpsertCouponRequest{
		Code:          "BAD",
		DiscountType:  "percentage",
		DiscountValue: 150,
		ValidUntil:    frozenNow.Add(48 * time.Hour),
		Active:        true,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCoupon)
	assert.NotContains(t, repo.coupons, "BAD")
}

func TestUpdateCoupon_PreservesCodeAndUsage(t *testing.T) {
	svc, repo := newPromotionFixture()
	coupon := seedCoupon(repo)
	coupon.UsedCount = 7

	updated, err := svc.UpdateCoupon(context.Background(), "save20", &UpsertCouponRequest{
		Code:           "RENAMED", // 改名请求被忽略
		DiscountType:   "percentage",
		DiscountValue:  25,
		MinOrderAmount: 20,
		ValidUntil:     frozenNow.Add(72 * time.Hour),
		Active:         true,
	})
	require.NoError(t, err)
	assert.Equal(t, "SAVE20", updated.Code)
	assert.Equal(t, 7, updated.UsedCount)
	assert.Equal(t, 25.0, updated.DiscountValue)
}

func TestDeleteCoupon(t *testing.T) {
	svc, repo := newPromotionFixture()
	seedCoupon(repo)

	require.NoError(t, svc.DeleteCoupon(context.Background(), "save20"))
	assert.ErrorIs(t, svc.DeleteCoupon(context.Background(), "SAVE20"), domain.ErrCouponNotFound)
}
