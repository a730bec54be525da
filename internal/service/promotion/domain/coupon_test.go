package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

// activeCoupon 返回一张当前可用的百分比券，测试按需改字段。
func activeCoupon() *Coupon {
	return &Coupon{
		ID:             "c-1",
		Code:           "SAVE20",
		DiscountType:   DiscountPercentage,
		DiscountValue:  20,
		MinOrderAmount: 30,
		ValidFrom:      now.Add(-24 * time.Hour),
		ValidUntil:     now.Add(24 * time.Hour),
		Active:         true,
		Applicability:  ApplicabilityAll,
	}
}

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "SAVE20", NormalizeCode("  save20 "))
	assert.Equal(t, "FLAT50", NormalizeCode("Flat50"))
	assert.Equal(t, "", NormalizeCode("   "))
}

func TestEvaluateAt_RejectionOrder(t *testing.T) {
	// 同一张券同时命中多个拒绝条件时，报告的原因是固定的。
	tests := []struct {
		name    string
		mutate  func(c *Coupon)
		wantErr error
	}{
		{
			name: "inactive wins over expired",
			mutate: func(c *Coupon) {
				c.Active = false
				c.ValidUntil = now.Add(-time.Hour)
			},
			wantErr: ErrCouponInactive,
		},
		{
			name: "not yet valid",
			mutate: func(c *Coupon) {
				c.ValidFrom = now.Add(time.Hour)
			},
			wantErr: ErrCouponNotYetValid,
		},
		{
			name: "expired wins over usage exceeded",
			mutate: func(c *Coupon) {
				c.ValidUntil = now.Add(-time.Hour)
				c.UsageLimit = intPtr(1)
				c.UsedCount = 1
			},
			wantErr: ErrCouponExpired,
		},
		{
			name: "usage exceeded wins over minimum",
			mutate: func(c *Coupon) {
				c.UsageLimit = intPtr(5)
				c.UsedCount = 5
				c.MinOrderAmount = 1000
			},
			wantErr: ErrCouponUsageExceeded,
		},
		{
			name: "below minimum",
			mutate: func(c *Coupon) {
				c.MinOrderAmount = 100
			},
			wantErr: ErrCouponBelowMinimum,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := activeCoupon()
			tt.mutate(c)
			_, err := c.EvaluateAt(now, 50)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestEvaluateAt_BoundaryInstants(t *testing.T) {
	c := activeCoupon()

	// 窗口边界时刻本身是可用的。
	_, err := c.EvaluateAt(c.ValidFrom, 50)
	assert.NoError(t, err)
	_, err = c.EvaluateAt(c.ValidUntil, 50)
	assert.NoError(t, err)

	// 小计恰好等于门槛时可用。
	_, err = c.EvaluateAt(now, c.MinOrderAmount)
	assert.NoError(t, err)
}

func TestEvaluateAt_PercentageDiscount(t *testing.T) {
	c := activeCoupon() // 20%，门槛 30

	got, err := c.EvaluateAt(now, 45.00)
	require.NoError(t, err)
	assert.Equal(t, 9.00, got)

	// 上限裁剪。
	c.MaxDiscount = floatPtr(10)
	got, err = c.EvaluateAt(now, 100.00)
	require.NoError(t, err)
	assert.Equal(t, 10.00, got)

	// 未触及上限时照常计算。
	got, err = c.EvaluateAt(now, 40.00)
	require.NoError(t, err)
	assert.Equal(t, 8.00, got)
}

func TestEvaluateAt_FixedDiscountClampedToSubtotal(t *testing.T) {
	c := activeCoupon()
	c.Code = "FLAT50"
	c.DiscountType = DiscountFixed
	c.DiscountValue = 50
	c.MinOrderAmount = 40

	got, err := c.EvaluateAt(now, 45.00)
	require.NoError(t, err)
	assert.Equal(t, 45.00, got, "fixed discount never exceeds the subtotal")

	got, err = c.EvaluateAt(now, 60.00)
	require.NoError(t, err)
	assert.Equal(t, 50.00, got)
}

func TestEvaluateAt_HalfUpRounding(t *testing.T) {
	c := activeCoupon()
	c.DiscountValue = 15
	c.MinOrderAmount = 0

	// 15% of 33.33 = 4.9995 → 5.00
	got, err := c.EvaluateAt(now, 33.33)
	require.NoError(t, err)
	assert.Equal(t, 5.00, got)

	// 15% of 19.99 = 2.9985 → 3.00
	got, err = c.EvaluateAt(now, 19.99)
	require.NoError(t, err)
	assert.Equal(t, 3.00, got)
}

func TestEvaluateAt_NoUsageLimit(t *testing.T) {
	c := activeCoupon()
	c.UsageLimit = nil
	c.UsedCount = 1_000_000

	_, err := c.EvaluateAt(now, 50)
	assert.NoError(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Coupon)
		wantOK bool
	}{
		{name: "valid definition", mutate: func(c *Coupon) {}, wantOK: true},
		{name: "blank code", mutate: func(c *Coupon) { c.Code = "  " }},
		{name: "unknown discount type", mutate: func(c *Coupon) { c.DiscountType = "bogus" }},
		{name: "negative value", mutate: func(c *Coupon) { c.DiscountValue = -1 }},
		{name: "percentage above 100", mutate: func(c *Coupon) { c.DiscountValue = 120 }},
		{name: "negative minimum", mutate: func(c *Coupon) { c.MinOrderAmount = -5 }},
		{name: "valid-until in the past", mutate: func(c *Coupon) { c.ValidUntil = now.Add(-time.Hour) }},
		{name: "window inverted", mutate: func(c *Coupon) {
			c.ValidFrom = now.Add(48 * time.Hour)
			c.ValidUntil = now.Add(24 * time.Hour)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := activeCoupon()
			tt.mutate(c)
			err := c.Validate(now)
			if tt.wantOK {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidCoupon)
			}
		})
	}
}

func TestIsAvailableAt(t *testing.T) {
	c := activeCoupon()
	assert.True(t, c.IsAvailableAt(now))

	c.UsageLimit = intPtr(3)
	c.UsedCount = 3
	assert.False(t, c.IsAvailableAt(now))

	c = activeCoupon()
	assert.False(t, c.IsAvailableAt(c.ValidFrom.Add(-time.Second)))
	assert.False(t, c.IsAvailableAt(c.ValidUntil.Add(time.Second)))
}
