package client

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// LineItem is one row of an order, invoice or vendor bill.
type LineItem struct {
	Description string   `json:"description"`
	Quantity    *float64 `json:"quantity,omitempty"`
	UnitPrice   *float64 `json:"unit_price,omitempty"`
	Amount      float64  `json:"amount"`
}

// NewLineItem builds a priced line item with Amount = quantity * unit price,
// rounded to cents.
func NewLineItem(description string, quantity, unitPrice float64) LineItem {
	return LineItem{
		Description: description,
		Quantity:    &quantity,
		UnitPrice:   &unitPrice,
		Amount:      math.Round(quantity*unitPrice*100) / 100,
	}
}

// LineItems is the ordered list of rows on a billing document.
type LineItems []LineItem

// ErrInvalidLineItem is wrapped by LineItems.Validate.
var ErrInvalidLineItem = errors.New("invalid line item")

// Validate rejects rows without a description or with negative quantity or price.
func (items LineItems) Validate() error {
	for i, item := range items {
		if strings.TrimSpace(item.Description) == "" {
			return fmt.Errorf("%w: row %d has no description", ErrInvalidLineItem, i+1)
		}
		if item.Quantity != nil && *item.Quantity < 0 {
			return fmt.Errorf("%w: row %d has negative quantity", ErrInvalidLineItem, i+1)
		}
		if item.UnitPrice != nil && *item.UnitPrice < 0 {
			return fmt.Errorf("%w: row %d has negative unit price", ErrInvalidLineItem, i+1)
		}
	}
	return nil
}

// Total sums the row amounts.
func (items LineItems) Total() float64 {
	var total float64
	for _, item := range items {
		total += item.Amount
	}
	return math.Round(total*100) / 100
}
