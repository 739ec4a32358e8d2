package cartclient

import "strings"

const (
	defaultTitle    = "Product"
	defaultQuantity = 1
)

// Normalize coerces product intents into canonical line items. It accepts a
// single item or a batch and never fails: absent or malformed optional fields
// become safe defaults. Quantity falls back to 1 when it is zero or negative
// (the upstream contract never defined clamping, so a bad count means "one"),
// title falls back to "Product", price stays 0 when it was not a number, and
// string fields stay empty. Normalizing an already normal list is a no-op.
func Normalize(items ...LineItem) []LineItem {
	normalized := make([]LineItem, 0, len(items))
	for _, item := range items {
		normalized = append(normalized, normalizeItem(item))
	}
	return normalized
}

func normalizeItem(item LineItem) LineItem {
	item.ProductID = strings.TrimSpace(item.ProductID)
	if item.Quantity <= 0 {
		item.Quantity = defaultQuantity
	}
	if strings.TrimSpace(item.Title) == "" {
		item.Title = defaultTitle
	}
	if item.Price < 0 {
		item.Price = 0
	}
	return item
}
