package enums

import "fmt"

// InventoryTransactionType classifies a stock movement.
type InventoryTransactionType string

const (
	InventoryTransactionTypeReceipt    InventoryTransactionType = "receipt"
	InventoryTransactionTypeSale       InventoryTransactionType = "sale"
	InventoryTransactionTypeAdjustment InventoryTransactionType = "adjustment"
	InventoryTransactionTypeTransfer   InventoryTransactionType = "transfer"
)

var validInventoryTransactionTypes = []InventoryTransactionType{
	InventoryTransactionTypeReceipt,
	InventoryTransactionTypeSale,
	InventoryTransactionTypeAdjustment,
	InventoryTransactionTypeTransfer,
}

// String implements fmt.Stringer.
func (t InventoryTransactionType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known InventoryTransactionType.
func (t InventoryTransactionType) IsValid() bool {
	for _, candidate := range validInventoryTransactionTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseInventoryTransactionType converts raw input into an InventoryTransactionType.
func ParseInventoryTransactionType(value string) (InventoryTransactionType, error) {
	for _, candidate := range validInventoryTransactionTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid inventory transaction type %q", value)
}
