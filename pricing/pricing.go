package pricing

import (
	"math"

	"krumeku/models"
)

// Business constants, rupees.
const (
	GSTRate               = 0.05
	FlatShippingFee       = 49.0
	FreeShippingThreshold = 999.0
)

// round2 rounds to 2-decimal currency precision.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Subtotal sums unitPrice × quantity over the cart. Lines with a missing or
// invalid price or quantity contribute 0 so the total degrades instead of
// failing.
func Subtotal(items []models.CartItem) float64 {
	var total float64
	for _, it := range items {
		if it.Price <= 0 || it.Quantity <= 0 {
			continue
		}
		total += it.Price * float64(it.Quantity)
	}
	return round2(total)
}

// ComputeBill derives the full bill from cart contents and an already
// resolved coupon discount. GST applies to the discounted subtotal; shipping
// is flat until the discounted subtotal reaches the free threshold.
func ComputeBill(items []models.CartItem, discount float64) models.BillDetails {
	subtotal := Subtotal(items)

	if discount < 0 {
		discount = 0
	}
	if discount > subtotal {
		discount = subtotal
	}
	discount = round2(discount)

	taxable := subtotal - discount
	gst := round2(taxable * GSTRate)

	shipping := FlatShippingFee
	if subtotal == 0 || taxable >= FreeShippingThreshold {
		shipping = 0
	}

	return models.BillDetails{
		CartTotalExclTax: subtotal,
		DiscountAmount:   discount,
		GSTAmount:        gst,
		Shipping:         shipping,
		FinalTotal:       round2(subtotal - discount + gst + shipping),
		MinOrderLimit:    FreeShippingThreshold,
	}
}
