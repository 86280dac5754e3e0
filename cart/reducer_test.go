package cart

import (
	"testing"

	"krumeku/models"
)

func line(id, product, size, color string, qty int) models.CartItem {
	return models.CartItem{
		LineID:    id,
		ProductID: product,
		Size:      size,
		Color:     color,
		Quantity:  qty,
		Price:     500,
	}
}

func TestClampQuantity(t *testing.T) {
	cases := []struct {
		current, delta, want int
	}{
		{1, 1, 2},
		{5, -2, 3},
		{1, -1, 1},
		{2, -10, 1},
		{1, 0, 1},
	}
	for _, tc := range cases {
		if got := ClampQuantity(tc.current, tc.delta); got != tc.want {
			t.Errorf("ClampQuantity(%d, %d) = %d, want %d", tc.current, tc.delta, got, tc.want)
		}
	}
}

func TestMergeLineSameVariant(t *testing.T) {
	items := []models.CartItem{line("a", "p1", "M", "red", 2)}
	items = MergeLine(items, line("b", "p1", "M", "red", 3))

	if len(items) != 1 {
		t.Fatalf("expected merged single line, got %d lines", len(items))
	}
	if items[0].Quantity != 5 {
		t.Errorf("quantity = %d, want 5", items[0].Quantity)
	}
}

func TestMergeLineDifferentVariant(t *testing.T) {
	items := []models.CartItem{line("a", "p1", "M", "red", 2)}

	items = MergeLine(items, line("b", "p1", "L", "red", 1))
	items = MergeLine(items, line("c", "p1", "M", "blue", 1))
	items = MergeLine(items, line("d", "p2", "M", "red", 1))

	if len(items) != 4 {
		t.Fatalf("expected 4 distinct lines, got %d", len(items))
	}
}

func TestChangeSizeInPlace(t *testing.T) {
	items := []models.CartItem{line("a", "p1", "M", "red", 2)}

	items, err := ChangeSize(items, "a", "L")
	if err != nil {
		t.Fatal(err)
	}
	if items[0].Size != "L" {
		t.Errorf("size = %q, want L", items[0].Size)
	}
	if items[0].Price != 500 {
		t.Errorf("price basis changed on size update: %v", items[0].Price)
	}
}

func TestChangeSizeMergesIntoExistingLine(t *testing.T) {
	items := []models.CartItem{
		line("a", "p1", "M", "red", 2),
		line("b", "p1", "L", "red", 3),
	}

	items, err := ChangeSize(items, "a", "L")
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 {
		t.Fatalf("expected lines to merge, got %d lines", len(items))
	}
	if items[0].Quantity != 5 {
		t.Errorf("merged quantity = %d, want 5", items[0].Quantity)
	}
}

func TestChangeSizeUnknownLine(t *testing.T) {
	items := []models.CartItem{line("a", "p1", "M", "red", 2)}
	if _, err := ChangeSize(items, "nope", "L"); err != ErrLineNotFound {
		t.Errorf("err = %v, want ErrLineNotFound", err)
	}
}
