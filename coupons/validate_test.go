package coupons

import (
	"testing"
	"time"

	"krumeku/models"
)

func save10() models.Coupon {
	return models.Coupon{
		Code:           "SAVE10",
		Type:           models.DiscountPercentage,
		Value:          10,
		MinOrderAmount: 999,
		UsageLimit:     100,
		UsedCount:      0,
		ExpiresAt:      time.Now().Add(24 * time.Hour),
		Active:         true,
	}
}

func TestValidate(t *testing.T) {
	now := time.Now()

	cases := []struct {
		name     string
		mutate   func(*models.Coupon)
		subtotal float64
		want     error
	}{
		{"valid", func(c *models.Coupon) {}, 2000, nil},
		{"inactive", func(c *models.Coupon) { c.Active = false }, 2000, ErrCouponInactive},
		{"expired", func(c *models.Coupon) { c.ExpiresAt = now.Add(-time.Hour) }, 2000, ErrCouponExpired},
		{"exhausted", func(c *models.Coupon) { c.UsedCount = 100 }, 2000, ErrCouponExhausted},
		{"over limit", func(c *models.Coupon) { c.UsedCount = 150 }, 2000, ErrCouponExhausted},
		{"min order not met", func(c *models.Coupon) {}, 500, ErrMinOrderNotMet},
		{"exactly at min order", func(c *models.Coupon) {}, 999, nil},
		{"no usage limit means unlimited", func(c *models.Coupon) { c.UsageLimit = 0; c.UsedCount = 5000 }, 2000, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := save10()
			tc.mutate(&c)
			if got := Validate(c, tc.subtotal, now); got != tc.want {
				t.Errorf("Validate() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestDiscountForPercentage(t *testing.T) {
	c := save10()
	if got := DiscountFor(c, 2000); got != 200 {
		t.Errorf("discount = %v, want 200", got)
	}
}

func TestDiscountForPercentageMaxCap(t *testing.T) {
	c := save10()
	c.MaxDiscount = 150
	if got := DiscountFor(c, 2000); got != 150 {
		t.Errorf("discount = %v, want capped 150", got)
	}
}

func TestDiscountForFixed(t *testing.T) {
	c := models.Coupon{Type: models.DiscountFixed, Value: 300}

	if got := DiscountFor(c, 2000); got != 300 {
		t.Errorf("discount = %v, want 300", got)
	}
	// fixed discount never exceeds the subtotal
	if got := DiscountFor(c, 200); got != 200 {
		t.Errorf("discount = %v, want capped at subtotal 200", got)
	}
}

func TestDiscountForUnknownType(t *testing.T) {
	c := models.Coupon{Type: "bogus", Value: 50}
	if got := DiscountFor(c, 1000); got != 0 {
		t.Errorf("discount = %v, want 0 for unknown type", got)
	}
}
