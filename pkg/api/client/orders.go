package client

import (
	"context"
	"time"
)

// Order is a sales order (to a customer) or a purchase order (to a vendor).
type Order struct {
	ID          int64     `json:"id"`
	UUID        string    `json:"uuid"`
	OrderNumber string    `json:"order_number"`
	ProjectID   *int64    `json:"project_id,omitempty"`
	ContactID   *int64    `json:"contact_id,omitempty"`
	Status      string    `json:"status"`
	OrderDate   string    `json:"order_date,omitempty"`
	Currency    string    `json:"currency,omitempty"`
	LineItems   LineItems `json:"line_items"`
	Subtotal    float64   `json:"subtotal"`
	Tax         float64   `json:"tax"`
	Total       float64   `json:"total"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// OrderInput is the writable subset of an order. Nil fields are omitted.
type OrderInput struct {
	ProjectID *int64    `json:"project_id,omitempty"`
	ContactID *int64    `json:"contact_id,omitempty"`
	Status    string    `json:"status,omitempty"`
	OrderDate *string   `json:"order_date,omitempty"`
	Currency  string    `json:"currency,omitempty"`
	LineItems LineItems `json:"line_items,omitempty"`
	Tax       *float64  `json:"tax,omitempty"`
	Notes     *string   `json:"notes,omitempty"`
}

var (
	salesOrders    = resource[Order, OrderInput]{path: "/SalesOrders"}
	purchaseOrders = resource[Order, OrderInput]{path: "/PurchaseOrders"}
)

// ListSalesOrders returns a page of sales orders.
func (c *Client) ListSalesOrders(ctx context.Context, filter DocumentFilter) (Page[Order], error) {
	return salesOrders.list(ctx, c, filter.query())
}

// GetSalesOrder fetches a sales order by uuid.
func (c *Client) GetSalesOrder(ctx context.Context, orderUUID string) (Order, error) {
	return salesOrders.get(ctx, c, orderUUID)
}

// CreateSalesOrder records a sales order.
func (c *Client) CreateSalesOrder(ctx context.Context, input OrderInput) (Order, error) {
	return salesOrders.create(ctx, c, input)
}

// UpdateSalesOrder modifies a sales order.
func (c *Client) UpdateSalesOrder(ctx context.Context, orderUUID string, input OrderInput) (Order, error) {
	return salesOrders.update(ctx, c, orderUUID, input)
}

// ListPurchaseOrders returns a page of purchase orders.
func (c *Client) ListPurchaseOrders(ctx context.Context, filter DocumentFilter) (Page[Order], error) {
	return purchaseOrders.list(ctx, c, filter.query())
}

// GetPurchaseOrder fetches a purchase order by uuid.
func (c *Client) GetPurchaseOrder(ctx context.Context, orderUUID string) (Order, error) {
	return purchaseOrders.get(ctx, c, orderUUID)
}

// CreatePurchaseOrder records a purchase order.
func (c *Client) CreatePurchaseOrder(ctx context.Context, input OrderInput) (Order, error) {
	return purchaseOrders.create(ctx, c, input)
}

// UpdatePurchaseOrder modifies a purchase order.
func (c *Client) UpdatePurchaseOrder(ctx context.Context, orderUUID string, input OrderInput) (Order, error) {
	return purchaseOrders.update(ctx, c, orderUUID, input)
}
