package pricing

import (
	"testing"

	"krumeku/models"
)

func item(price float64, qty int) models.CartItem {
	return models.CartItem{ProductID: "p1", Quantity: qty, Price: price}
}

func TestSubtotalSkipsInvalidLines(t *testing.T) {
	items := []models.CartItem{
		item(100, 2),
		item(0, 5),   // missing price contributes nothing
		item(-50, 1), // invalid price contributes nothing
		item(200, 0), // invalid quantity contributes nothing
	}
	if got := Subtotal(items); got != 200 {
		t.Fatalf("subtotal = %v, want 200", got)
	}
}

func TestComputeBillInvariant(t *testing.T) {
	cases := []struct {
		name     string
		items    []models.CartItem
		discount float64
	}{
		{"empty cart", nil, 0},
		{"single line", []models.CartItem{item(499, 1)}, 0},
		{"discounted", []models.CartItem{item(1000, 2)}, 200},
		{"discount exceeds subtotal", []models.CartItem{item(100, 1)}, 500},
		{"negative discount", []models.CartItem{item(100, 1)}, -10},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			bill := ComputeBill(tc.items, tc.discount)
			want := bill.CartTotalExclTax - bill.DiscountAmount + bill.GSTAmount + bill.Shipping
			if diff := bill.FinalTotal - want; diff > 0.009 || diff < -0.009 {
				t.Errorf("finalTotal = %v, want %v", bill.FinalTotal, want)
			}
			if bill.FinalTotal < 0 {
				t.Errorf("finalTotal %v is negative", bill.FinalTotal)
			}
			if bill.DiscountAmount > bill.CartTotalExclTax {
				t.Errorf("discount %v exceeds subtotal %v", bill.DiscountAmount, bill.CartTotalExclTax)
			}
		})
	}
}

// Cart of ₹2000 with a 10% coupon: ₹200 off, 5% GST on ₹1800 = ₹90,
// free shipping above the threshold.
func TestComputeBillWorkedExample(t *testing.T) {
	bill := ComputeBill([]models.CartItem{item(1000, 2)}, 200)

	if bill.CartTotalExclTax != 2000 {
		t.Errorf("subtotal = %v, want 2000", bill.CartTotalExclTax)
	}
	if bill.DiscountAmount != 200 {
		t.Errorf("discount = %v, want 200", bill.DiscountAmount)
	}
	if bill.GSTAmount != 90 {
		t.Errorf("gst = %v, want 90", bill.GSTAmount)
	}
	if bill.Shipping != 0 {
		t.Errorf("shipping = %v, want 0", bill.Shipping)
	}
	if bill.FinalTotal != 1890 {
		t.Errorf("finalTotal = %v, want 1890", bill.FinalTotal)
	}
}

func TestComputeBillFlatShippingBelowThreshold(t *testing.T) {
	bill := ComputeBill([]models.CartItem{item(500, 1)}, 0)

	if bill.Shipping != FlatShippingFee {
		t.Errorf("shipping = %v, want %v", bill.Shipping, FlatShippingFee)
	}
	// 500 + 25 GST + 49 shipping
	if bill.FinalTotal != 574 {
		t.Errorf("finalTotal = %v, want 574", bill.FinalTotal)
	}
}

// A discount can pull an otherwise free-shipping cart back under the
// threshold: shipping is charged on the discounted amount.
func TestComputeBillDiscountAffectsShipping(t *testing.T) {
	bill := ComputeBill([]models.CartItem{item(1050, 1)}, 100)
	if bill.Shipping != FlatShippingFee {
		t.Errorf("shipping = %v, want %v after discount drops below threshold", bill.Shipping, FlatShippingFee)
	}
}

func TestComputeBillEmptyCartNoShipping(t *testing.T) {
	bill := ComputeBill(nil, 0)
	if bill.FinalTotal != 0 || bill.Shipping != 0 {
		t.Errorf("empty cart bill = %+v, want all zero", bill)
	}
}
