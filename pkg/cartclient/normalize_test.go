package cartclient

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestNormalizeDefaults(t *testing.T) {
	cases := []struct {
		name string
		in   LineItem
		want LineItem
	}{
		{
			name: "empty intent gets all defaults",
			in:   LineItem{ProductID: "p1"},
			want: LineItem{ProductID: "p1", Quantity: 1, Title: "Product"},
		},
		{
			name: "zero quantity becomes one",
			in:   LineItem{ProductID: "p1", Quantity: 0, Title: "Sofa", Price: 5},
			want: LineItem{ProductID: "p1", Quantity: 1, Title: "Sofa", Price: 5},
		},
		{
			name: "negative quantity becomes one",
			in:   LineItem{ProductID: "p1", Quantity: -4, Title: "Sofa"},
			want: LineItem{ProductID: "p1", Quantity: 1, Title: "Sofa"},
		},
		{
			name: "blank title becomes Product",
			in:   LineItem{ProductID: "p1", Quantity: 2, Title: "   "},
			want: LineItem{ProductID: "p1", Quantity: 2, Title: "Product"},
		},
		{
			name: "full item passes through",
			in: LineItem{
				ProductID: "p1", Quantity: 3, Title: "Armchair", Price: 249.99,
				ImageURL: "https://cdn/a.jpg", Description: "leather", Size: "L", Color: "tan",
			},
			want: LineItem{
				ProductID: "p1", Quantity: 3, Title: "Armchair", Price: 249.99,
				ImageURL: "https://cdn/a.jpg", Description: "leather", Size: "L", Color: "tan",
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Normalize(tc.in)
			if len(got) != 1 {
				t.Fatalf("expected 1 item, got %d", len(got))
			}
			if got[0] != tc.want {
				t.Fatalf("expected %+v, got %+v", tc.want, got[0])
			}
		})
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	batch := []LineItem{
		{ProductID: "p1"},
		{ProductID: "p2", Quantity: -1, Price: 12},
		{ProductID: "p3", Quantity: 7, Title: "Ottoman", Price: 80, Color: "brown"},
	}

	once := Normalize(batch...)
	twice := Normalize(once...)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("normalize is not idempotent: %+v vs %+v", once, twice)
	}
}

func TestNormalizeBatchKeepsOrder(t *testing.T) {
	got := Normalize(
		LineItem{ProductID: "p3"},
		LineItem{ProductID: "p1"},
		LineItem{ProductID: "p2"},
	)
	ids := []string{got[0].ProductID, got[1].ProductID, got[2].ProductID}
	want := []string{"p3", "p1", "p2"}
	if !reflect.DeepEqual(ids, want) {
		t.Fatalf("expected order %v, got %v", want, ids)
	}
}

func TestLineItemDecodeToleratesWireShapes(t *testing.T) {
	cases := []struct {
		name string
		body string
		want LineItem
	}{
		{
			name: "numeric string quantity and price",
			body: `{"productId": "p1", "quantity": "3", "price": "19.5"}`,
			want: LineItem{ProductID: "p1", Quantity: 3, Price: 19.5},
		},
		{
			name: "numeric product id",
			body: `{"productId": 88, "quantity": 2}`,
			want: LineItem{ProductID: "88", Quantity: 2},
		},
		{
			name: "null and garbage fields collapse to zero values",
			body: `{"productId": "p1", "quantity": "a lot", "price": null, "title": {"nested": true}, "img": null}`,
			want: LineItem{ProductID: "p1"},
		},
		{
			name: "full wire shape",
			body: `{"productId":"p9","quantity":2,"title":"Bench","price":120,"img":"https://cdn/b.jpg","desc":"oak","size":"M","color":"natural"}`,
			want: LineItem{
				ProductID: "p9", Quantity: 2, Title: "Bench", Price: 120,
				ImageURL: "https://cdn/b.jpg", Description: "oak", Size: "M", Color: "natural",
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var got LineItem
			if err := json.Unmarshal([]byte(tc.body), &got); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %+v, got %+v", tc.want, got)
			}
		})
	}
}

func TestLineItemEncodeUsesWireKeys(t *testing.T) {
	item := LineItem{ProductID: "p1", Quantity: 2, Title: "Bench", Price: 120, ImageURL: "u", Description: "d", Size: "S", Color: "black"}
	data, err := json.Marshal(item)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"productId", "quantity", "title", "price", "img", "desc", "size", "color"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("missing wire key %q", key)
		}
	}
}
