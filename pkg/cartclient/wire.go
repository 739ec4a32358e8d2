// Package cartclient talks to the legacy cart service on behalf of the
// storefront. It owns the add-to-cart sequence: look up the user's persisted
// cart, reconcile the incoming items against it, then create or overwrite the
// cart document upstream.
package cartclient

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// LineItem is one product entry in a cart. Display fields are snapshots taken
// at add time; the cart service never re-reads them from the catalog.
//
// The wire shape is fixed by the legacy API:
//
//	{ productId, quantity, title, price, img, desc, size, color }
type LineItem struct {
	ProductID   string  `json:"productId"`
	Quantity    int     `json:"quantity"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"img"`
	Description string  `json:"desc"`
	Size        string  `json:"size"`
	Color       string  `json:"color"`
}

// lineItemWire mirrors LineItem with lenient field types. Upstream payloads
// routinely carry numbers as strings, string ids as numbers and nulls where a
// value is missing, so every scalar is coerced instead of rejected.
type lineItemWire struct {
	ProductID   flexString `json:"productId"`
	Quantity    flexNumber `json:"quantity"`
	Title       flexString `json:"title"`
	Price       flexNumber `json:"price"`
	ImageURL    flexString `json:"img"`
	Description flexString `json:"desc"`
	Size        flexString `json:"size"`
	Color       flexString `json:"color"`
}

// UnmarshalJSON decodes a line item tolerantly. Malformed scalars collapse to
// zero values; Normalize applies the documented defaults afterwards.
func (li *LineItem) UnmarshalJSON(data []byte) error {
	var wire lineItemWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*li = LineItem{
		ProductID:   string(wire.ProductID),
		Quantity:    wire.Quantity.Int(),
		Title:       string(wire.Title),
		Price:       wire.Price.Float(),
		ImageURL:    string(wire.ImageURL),
		Description: string(wire.Description),
		Size:        string(wire.Size),
		Color:       string(wire.Color),
	}
	return nil
}

// flexString accepts strings, numbers and booleans, and treats null or any
// other shape as empty.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*f = ""
		return nil
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			*f = ""
			return nil
		}
		*f = flexString(s)
	case '{', '[':
		*f = ""
	default:
		// numbers, true, false
		*f = flexString(trimmed)
	}
	return nil
}

// flexNumber accepts numbers and numeric strings, and treats anything else as
// absent.
type flexNumber struct {
	value float64
	set   bool
}

func (f *flexNumber) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil
		}
		parsed, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil
		}
		f.value = parsed
		f.set = true
		return nil
	}
	var n float64
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return nil
	}
	f.value = n
	f.set = true
	return nil
}

func (f flexNumber) Float() float64 {
	if !f.set {
		return 0
	}
	return f.value
}

func (f flexNumber) Int() int {
	if !f.set {
		return 0
	}
	return int(f.value)
}
