package models

import "time"

// CartItem is one line in a user's cart. Lines are keyed by
// (userId, productId, size, color); adding the same variant again
// increments quantity instead of creating a second line.
type CartItem struct {
	LineID      string    `json:"lineId" bson:"lineId"`
	UserID      string    `json:"userId" bson:"userId"`
	ProductID   string    `json:"productId" bson:"productId"`
	ProductName string    `json:"productName" bson:"productName"`
	Size        string    `json:"size" bson:"size"`
	Color       string    `json:"color" bson:"color"`
	Quantity    int       `json:"quantity" bson:"quantity"`
	Price       float64   `json:"price" bson:"price"` // unit price frozen at add time
	Image       string    `json:"image,omitempty" bson:"image,omitempty"`
	AddedAt     time.Time `json:"addedAt" bson:"addedAt"`
}

// BillDetails is derived from cart contents on every read; it is never
// stored on its own.
type BillDetails struct {
	CartTotalExclTax float64 `json:"cartTotalExclTax"`
	DiscountAmount   float64 `json:"discountAmount"`
	GSTAmount        float64 `json:"gstAmount"`
	Shipping         float64 `json:"shipping"`
	FinalTotal       float64 `json:"finalTotal"`
	MinOrderLimit    float64 `json:"minOrderLimit"`
}

// CartState holds a user's cart-scoped settings that outlive single lines.
type CartState struct {
	UserID          string   `json:"userId" bson:"userId"`
	AppliedCoupon   string   `json:"appliedCoupon,omitempty" bson:"appliedCoupon,omitempty"`
	ShippingAddress *Address `json:"shippingAddress,omitempty" bson:"shippingAddress,omitempty"`
}
