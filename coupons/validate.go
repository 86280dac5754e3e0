package coupons

import (
	"errors"
	"time"

	"krumeku/models"
)

// Domain errors surfaced to the caller as messages; the failing operation
// leaves prior state unchanged.
var (
	ErrCouponNotFound  = errors.New("coupon not found")
	ErrCouponInactive  = errors.New("coupon is not active")
	ErrCouponExpired   = errors.New("coupon has expired")
	ErrCouponExhausted = errors.New("coupon usage limit reached")
	ErrMinOrderNotMet  = errors.New("cart total below coupon minimum order amount")
)

// Validate checks a coupon against a cart subtotal. Check order: inactive,
// expired, exhausted, minimum order.
func Validate(c models.Coupon, cartSubtotal float64, now time.Time) error {
	if !c.Active {
		return ErrCouponInactive
	}
	if now.After(c.ExpiresAt) {
		return ErrCouponExpired
	}
	if c.UsageLimit > 0 && c.UsedCount >= c.UsageLimit {
		return ErrCouponExhausted
	}
	if cartSubtotal < c.MinOrderAmount {
		return ErrMinOrderNotMet
	}
	return nil
}

// DiscountFor computes the rupee discount a coupon grants on a subtotal.
// Percentage coupons are capped by MaxDiscount (when set); both types are
// capped at the subtotal so a discount can never drive the bill negative.
func DiscountFor(c models.Coupon, cartSubtotal float64) float64 {
	var discount float64
	switch c.Type {
	case models.DiscountPercentage:
		discount = cartSubtotal * c.Value / 100
		if c.MaxDiscount > 0 && discount > c.MaxDiscount {
			discount = c.MaxDiscount
		}
	case models.DiscountFixed:
		discount = c.Value
	default:
		return 0
	}
	if discount > cartSubtotal {
		discount = cartSubtotal
	}
	if discount < 0 {
		discount = 0
	}
	return discount
}
