package cartclient

import (
	"reflect"
	"testing"
)

func TestMergeDisjointKeepsExistingFirst(t *testing.T) {
	existing := []LineItem{
		{ProductID: "p1", Quantity: 1, Title: "Sofa"},
		{ProductID: "p2", Quantity: 2, Title: "Bench"},
	}
	incoming := []LineItem{
		{ProductID: "p3", Quantity: 1, Title: "Lamp"},
		{ProductID: "p4", Quantity: 4, Title: "Rug"},
	}

	merged := Merge(existing, incoming)

	ids := make([]string, 0, len(merged))
	for _, item := range merged {
		ids = append(ids, item.ProductID)
	}
	want := []string{"p1", "p2", "p3", "p4"}
	if !reflect.DeepEqual(ids, want) {
		t.Fatalf("expected order %v, got %v", want, ids)
	}
	if !reflect.DeepEqual(merged[:2], existing) {
		t.Fatalf("existing items changed: %+v", merged[:2])
	}
	if !reflect.DeepEqual(merged[2:], incoming) {
		t.Fatalf("incoming items changed: %+v", merged[2:])
	}
}

func TestMergeSumsQuantitiesAndIncomingDisplayWins(t *testing.T) {
	existing := []LineItem{{ProductID: "p1", Quantity: 2, Title: "Old", Price: 5, Color: "red"}}
	incoming := []LineItem{{ProductID: "p1", Quantity: 3, Title: "New", Price: 10, Color: "blue"}}

	merged := Merge(existing, incoming)
	if len(merged) != 1 {
		t.Fatalf("expected exactly one entry, got %d", len(merged))
	}

	got := merged[0]
	if got.Quantity != 5 {
		t.Fatalf("expected quantity 5, got %d", got.Quantity)
	}
	if got.Title != "New" || got.Price != 10 || got.Color != "blue" {
		t.Fatalf("expected incoming display fields to win, got %+v", got)
	}
}

func TestMergeRetainsUntouchedItems(t *testing.T) {
	existing := []LineItem{
		{ProductID: "p1", Quantity: 1, Title: "Sofa", Price: 300},
		{ProductID: "p2", Quantity: 2, Title: "Bench", Price: 120},
	}
	incoming := []LineItem{{ProductID: "p2", Quantity: 1, Title: "Bench", Price: 110}}

	merged := Merge(existing, incoming)
	if len(merged) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(merged))
	}
	if merged[0] != existing[0] {
		t.Fatalf("untouched item changed: %+v", merged[0])
	}
	if merged[1].Quantity != 3 || merged[1].Price != 110 {
		t.Fatalf("matched item wrong: %+v", merged[1])
	}
}

func TestMergeMatchKeepsExistingPosition(t *testing.T) {
	existing := []LineItem{
		{ProductID: "p1", Quantity: 1},
		{ProductID: "p2", Quantity: 1},
		{ProductID: "p3", Quantity: 1},
	}
	incoming := []LineItem{
		{ProductID: "p4", Quantity: 1},
		{ProductID: "p2", Quantity: 2},
	}

	merged := Merge(existing, incoming)

	ids := make([]string, 0, len(merged))
	for _, item := range merged {
		ids = append(ids, item.ProductID)
	}
	want := []string{"p1", "p2", "p3", "p4"}
	if !reflect.DeepEqual(ids, want) {
		t.Fatalf("expected order %v, got %v", want, ids)
	}
	if merged[1].Quantity != 3 {
		t.Fatalf("expected p2 quantity 3, got %d", merged[1].Quantity)
	}
}

func TestMergeNeverProducesDuplicateKeys(t *testing.T) {
	cases := []struct {
		name     string
		existing []LineItem
		incoming []LineItem
	}{
		{
			name:     "duplicates within incoming",
			existing: nil,
			incoming: []LineItem{
				{ProductID: "p1", Quantity: 1},
				{ProductID: "p1", Quantity: 2},
				{ProductID: "p2", Quantity: 1},
			},
		},
		{
			name: "duplicates within existing",
			existing: []LineItem{
				{ProductID: "p1", Quantity: 1},
				{ProductID: "p1", Quantity: 4},
			},
			incoming: []LineItem{{ProductID: "p1", Quantity: 1}},
		},
		{
			name: "overlap both sides",
			existing: []LineItem{
				{ProductID: "p1", Quantity: 1},
				{ProductID: "p2", Quantity: 1},
			},
			incoming: []LineItem{
				{ProductID: "p2", Quantity: 1},
				{ProductID: "p3", Quantity: 1},
				{ProductID: "p2", Quantity: 1},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			merged := Merge(tc.existing, tc.incoming)
			seen := map[string]bool{}
			for _, item := range merged {
				if seen[item.ProductID] {
					t.Fatalf("duplicate product id %q in %+v", item.ProductID, merged)
				}
				seen[item.ProductID] = true
			}
		})
	}
}

func TestMergeEmptyInputs(t *testing.T) {
	incoming := []LineItem{{ProductID: "p1", Quantity: 1}}

	if got := Merge(nil, incoming); !reflect.DeepEqual(got, incoming) {
		t.Fatalf("merge into empty cart: %+v", got)
	}

	existing := []LineItem{{ProductID: "p1", Quantity: 2}}
	if got := Merge(existing, nil); !reflect.DeepEqual(got, existing) {
		t.Fatalf("merge of empty batch: %+v", got)
	}

	if got := Merge(nil, nil); len(got) != 0 {
		t.Fatalf("expected empty result, got %+v", got)
	}
}
