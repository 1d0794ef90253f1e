package domain

import "testing"

func TestInventoryItemLowStock(t *testing.T) {
	cases := []struct {
		name      string
		quantity  int
		threshold int
		want      bool
	}{
		{"above threshold", 10, 5, false},
		{"at threshold", 5, 5, true},
		{"below threshold", 2, 5, true},
		{"zero stock", 0, 5, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			it := InventoryItem{Quantity: tc.quantity, LowStockThreshold: tc.threshold}
			if got := it.LowStock(); got != tc.want {
				t.Errorf("LowStock() = %v, want %v", got, tc.want)
			}
		})
	}
}

// Expense rows are tagged with this literal; the monthly inventory-loss
// rollup filters on it, so the value is load-bearing.
func TestExpenseCategoryInventoryValue(t *testing.T) {
	if ExpenseCategoryInventory != "INVENTORY" {
		t.Fatalf("ExpenseCategoryInventory = %q, want INVENTORY", ExpenseCategoryInventory)
	}
}
