package cartclient

// Merge reconciles incoming line items against the existing cart contents.
// It is a key-based upsert on ProductID:
//
//   - a match keeps the existing item's position, takes the incoming display
//     fields and adds the incoming quantity to the existing one
//   - an unmatched incoming item is appended, in batch order
//   - existing items missing from the batch are retained untouched
//
// The result never holds two entries with the same ProductID, even when the
// inputs do.
func Merge(existing, incoming []LineItem) []LineItem {
	merged := make([]LineItem, 0, len(existing)+len(incoming))
	index := make(map[string]int, len(existing)+len(incoming))

	upsert := func(item LineItem) {
		if at, ok := index[item.ProductID]; ok {
			quantity := merged[at].Quantity + item.Quantity
			merged[at] = item
			merged[at].Quantity = quantity
			return
		}
		index[item.ProductID] = len(merged)
		merged = append(merged, item)
	}

	// A persisted cart should already be duplicate free, but collapse any
	// duplicates it carries the same way incoming matches are folded in.
	for _, item := range existing {
		upsert(item)
	}
	for _, item := range incoming {
		upsert(item)
	}

	return merged
}
