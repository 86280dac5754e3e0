package models

import "time"

// Coupon discount types
const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"
)

type Coupon struct {
	Code           string    `json:"code" bson:"code"` // stored uppercase
	Type           string    `json:"type" bson:"type"` // percentage or fixed
	Value          float64   `json:"value" bson:"value"`
	MaxDiscount    float64   `json:"maxDiscount,omitempty" bson:"maxDiscount,omitempty"` // 0 = uncapped
	MinOrderAmount float64   `json:"minOrderAmount" bson:"minOrderAmount"`
	UsageLimit     int       `json:"usageLimit" bson:"usageLimit"`
	UsedCount      int       `json:"usedCount" bson:"usedCount"`
	ExpiresAt      time.Time `json:"expiresAt" bson:"expiresAt"`
	Active         bool      `json:"active" bson:"active"`
	CreatedAt      time.Time `json:"createdAt" bson:"createdAt"`
}
