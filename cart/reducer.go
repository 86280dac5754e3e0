package cart

import (
	"errors"

	"krumeku/models"
)

var ErrLineNotFound = errors.New("cart item not found")

// ClampQuantity applies a delta to a line quantity, never dropping below 1.
// Removal is an explicit operation, not a quantity of zero.
func ClampQuantity(current, delta int) int {
	q := current + delta
	if q < 1 {
		return 1
	}
	return q
}

// SameVariant reports whether two lines refer to the same purchasable
// variant and should be merged into one.
func SameVariant(a, b models.CartItem) bool {
	return a.ProductID == b.ProductID && a.Size == b.Size && a.Color == b.Color
}

// MergeLine folds an incoming line into the cart: quantity is added to an
// existing equivalent line, otherwise the line is appended. Used by tests
// and mirrored by the Mongo upsert in AddToCart.
func MergeLine(items []models.CartItem, in models.CartItem) []models.CartItem {
	for i := range items {
		if SameVariant(items[i], in) {
			items[i].Quantity += in.Quantity
			return items
		}
	}
	return append(items, in)
}

// ChangeSize moves a line to a new size, merging into an existing line of
// the target variant when there is one. The price basis does not change.
func ChangeSize(items []models.CartItem, lineID, newSize string) ([]models.CartItem, error) {
	src := -1
	for i := range items {
		if items[i].LineID == lineID {
			src = i
			break
		}
	}
	if src == -1 {
		return items, ErrLineNotFound
	}

	moved := items[src]
	moved.Size = newSize

	for i := range items {
		if i != src && SameVariant(items[i], moved) {
			items[i].Quantity += moved.Quantity
			return append(items[:src], items[src+1:]...), nil
		}
	}

	items[src].Size = newSize
	return items, nil
}
