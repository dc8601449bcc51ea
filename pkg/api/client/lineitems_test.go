package client

import (
	"errors"
	"testing"
)

func TestNewLineItemRoundsToCents(t *testing.T) {
	item := NewLineItem("Hosting", 3, 33.333)
	if item.Amount != 100 {
		t.Fatalf("expected amount 100, got %v", item.Amount)
	}
	if *item.Quantity != 3 || *item.UnitPrice != 33.333 {
		t.Fatalf("unexpected item %+v", item)
	}
}

func TestLineItemsTotal(t *testing.T) {
	items := LineItems{
		NewLineItem("Design", 10, 85.5),
		{Description: "Flat fee", Amount: 0.1},
		{Description: "Discount", Amount: 0.2},
	}
	if got := items.Total(); got != 855.3 {
		t.Fatalf("expected 855.3, got %v", got)
	}
	if (LineItems{}).Total() != 0 {
		t.Fatal("expected zero total for no items")
	}
}

func TestLineItemsValidate(t *testing.T) {
	negative := -1.0
	tests := []struct {
		name  string
		items LineItems
		ok    bool
	}{
		{name: "valid", items: LineItems{NewLineItem("Design", 1, 10)}, ok: true},
		{name: "empty", items: nil, ok: true},
		{name: "blank description", items: LineItems{{Description: "  ", Amount: 5}}},
		{name: "negative quantity", items: LineItems{{Description: "x", Quantity: &negative}}},
		{name: "negative price", items: LineItems{{Description: "x", UnitPrice: &negative}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.items.Validate()
			if tc.ok && err != nil {
				t.Fatalf("unexpected error %v", err)
			}
			if !tc.ok && !errors.Is(err, ErrInvalidLineItem) {
				t.Fatalf("expected ErrInvalidLineItem, got %v", err)
			}
		})
	}
}
