// Package envelope decodes the wrapper shapes legacy storefront APIs use to
// return lists. Upstream services disagree on the wrapper: some return a bare
// array, some wrap it in "products", "results" or "items", and the cart
// service nests the list inside a "cart" document. Decode recognizes each
// shape explicitly with a fixed precedence instead of duck-typing.
package envelope

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

// Kind identifies which recognized envelope shape a payload matched.
type Kind string

const (
	// KindCart is a nested cart document: {"cart": {"_id": ..., "products": [...]}}.
	KindCart Kind = "cart"
	// KindProducts is a flat wrapper: {"products": [...]}.
	KindProducts Kind = "products"
	// KindResults is a flat wrapper: {"results": [...]}.
	KindResults Kind = "results"
	// KindItems is a flat wrapper: {"items": [...]}.
	KindItems Kind = "items"
	// KindArray is a bare JSON array.
	KindArray Kind = "array"
	// KindObjectValues is the last-resort shape: an object whose values are
	// the list entries, keyed arbitrarily.
	KindObjectValues Kind = "object_values"
)

// ErrUnrecognized reports a payload that matches none of the known shapes.
var ErrUnrecognized = errors.New("unrecognized response envelope")

// Decoded is the result of classifying a response payload.
type Decoded struct {
	Kind   Kind
	CartID string
	Items  []json.RawMessage
}

// Flat wrapper keys checked in precedence order after the nested cart shape.
var listKeys = []struct {
	key  string
	kind Kind
}{
	{"products", KindProducts},
	{"results", KindResults},
	{"items", KindItems},
}

type cartDocument struct {
	ID       flexID            `json:"_id"`
	Products []json.RawMessage `json:"products"`
}

// Decode classifies the payload against the recognized envelope shapes.
// Precedence: nested cart document, then the flat wrapper keys ("products",
// "results", "items"), then a bare array, then object values as a fallback.
func Decode(data []byte) (Decoded, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return Decoded{}, fmt.Errorf("%w: empty body", ErrUnrecognized)
	}

	if trimmed[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return Decoded{}, fmt.Errorf("decoding array envelope: %w", err)
		}
		return Decoded{Kind: KindArray, Items: items}, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return Decoded{}, fmt.Errorf("%w: %s", ErrUnrecognized, err)
	}

	if raw, ok := fields["cart"]; ok && isObject(raw) {
		var doc cartDocument
		if err := json.Unmarshal(raw, &doc); err != nil {
			return Decoded{}, fmt.Errorf("decoding cart envelope: %w", err)
		}
		return Decoded{Kind: KindCart, CartID: string(doc.ID), Items: doc.Products}, nil
	}

	for _, candidate := range listKeys {
		raw, ok := fields[candidate.key]
		if !ok || !isArray(raw) {
			continue
		}
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return Decoded{}, fmt.Errorf("decoding %q envelope: %w", candidate.key, err)
		}
		decoded := Decoded{Kind: candidate.kind, Items: items}
		if id, ok := fields["_id"]; ok {
			var flex flexID
			if err := json.Unmarshal(id, &flex); err == nil {
				decoded.CartID = string(flex)
			}
		}
		return decoded, nil
	}

	// Last resort: treat the object's values as the entries. Only object
	// values qualify; scalar fields are metadata, not list entries. Keys are
	// visited in sorted order so the result is stable.
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	var objectValues []json.RawMessage
	for _, key := range keys {
		if raw := fields[key]; isObject(raw) {
			objectValues = append(objectValues, raw)
		}
	}
	if len(objectValues) > 0 {
		return Decoded{Kind: KindObjectValues, Items: objectValues}, nil
	}

	return Decoded{}, ErrUnrecognized
}

// flexID tolerates identifiers sent as strings or numbers.
type flexID string

func (f *flexID) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*f = ""
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return fmt.Errorf("identifier must be a string or number: %s", trimmed)
	}
	*f = flexID(n.String())
	return nil
}

func isObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

func isArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}
