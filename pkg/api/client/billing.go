package client

import (
	"context"
	"time"
)

// Invoice statuses.
const (
	InvoiceDraft     = "draft"
	InvoiceSent      = "sent"
	InvoicePaid      = "paid"
	InvoiceOverdue   = "overdue"
	InvoiceCancelled = "cancelled"
)

// Invoice is a customer invoice, optionally raised from a sales order.
type Invoice struct {
	ID            int64     `json:"id"`
	UUID          string    `json:"uuid"`
	InvoiceNumber string    `json:"invoice_number"`
	SalesOrderID  *int64    `json:"sales_order_id,omitempty"`
	ProjectID     *int64    `json:"project_id,omitempty"`
	ContactID     *int64    `json:"contact_id,omitempty"`
	Status        string    `json:"status"`
	IssueDate     string    `json:"issue_date,omitempty"`
	DueDate       string    `json:"due_date,omitempty"`
	Currency      string    `json:"currency,omitempty"`
	LineItems     LineItems `json:"line_items"`
	Subtotal      float64   `json:"subtotal"`
	Tax           float64   `json:"tax"`
	Total         float64   `json:"total"`
	AmountPaid    float64   `json:"amount_paid"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Balance is the amount still owed.
func (i Invoice) Balance() float64 {
	return i.Total - i.AmountPaid
}

// InvoiceInput is the writable subset of an invoice. Nil fields are omitted.
type InvoiceInput struct {
	SalesOrderID *int64    `json:"sales_order_id,omitempty"`
	ProjectID    *int64    `json:"project_id,omitempty"`
	ContactID    *int64    `json:"contact_id,omitempty"`
	Status       string    `json:"status,omitempty"`
	IssueDate    *string   `json:"issue_date,omitempty"`
	DueDate      *string   `json:"due_date,omitempty"`
	Currency     string    `json:"currency,omitempty"`
	LineItems    LineItems `json:"line_items,omitempty"`
	Tax          *float64  `json:"tax,omitempty"`
	AmountPaid   *float64  `json:"amount_paid,omitempty"`
	Notes        *string   `json:"notes,omitempty"`
}

// VendorBill is a supplier bill, optionally matched to a purchase order.
type VendorBill struct {
	ID              int64     `json:"id"`
	UUID            string    `json:"uuid"`
	BillNumber      string    `json:"bill_number"`
	PurchaseOrderID *int64    `json:"purchase_order_id,omitempty"`
	ProjectID       *int64    `json:"project_id,omitempty"`
	ContactID       *int64    `json:"contact_id,omitempty"`
	Status          string    `json:"status"`
	BillDate        string    `json:"bill_date,omitempty"`
	DueDate         string    `json:"due_date,omitempty"`
	Currency        string    `json:"currency,omitempty"`
	LineItems       LineItems `json:"line_items"`
	Subtotal        float64   `json:"subtotal"`
	Tax             float64   `json:"tax"`
	Total           float64   `json:"total"`
	AmountPaid      float64   `json:"amount_paid"`
	Notes           string    `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// VendorBillInput is the writable subset of a vendor bill. Nil fields are omitted.
type VendorBillInput struct {
	PurchaseOrderID *int64    `json:"purchase_order_id,omitempty"`
	ProjectID       *int64    `json:"project_id,omitempty"`
	ContactID       *int64    `json:"contact_id,omitempty"`
	Status          string    `json:"status,omitempty"`
	BillDate        *string   `json:"bill_date,omitempty"`
	DueDate         *string   `json:"due_date,omitempty"`
	Currency        string    `json:"currency,omitempty"`
	LineItems       LineItems `json:"line_items,omitempty"`
	Tax             *float64  `json:"tax,omitempty"`
	AmountPaid      *float64  `json:"amount_paid,omitempty"`
	Notes           *string   `json:"notes,omitempty"`
}

var (
	invoices    = resource[Invoice, InvoiceInput]{path: "/Invoices"}
	vendorBills = resource[VendorBill, VendorBillInput]{path: "/VendorBills"}
)

// ListInvoices returns a page of invoices.
func (c *Client) ListInvoices(ctx context.Context, filter DocumentFilter) (Page[Invoice], error) {
	return invoices.list(ctx, c, filter.query())
}

// GetInvoice fetches an invoice by uuid.
func (c *Client) GetInvoice(ctx context.Context, invoiceUUID string) (Invoice, error) {
	return invoices.get(ctx, c, invoiceUUID)
}

// CreateInvoice raises an invoice.
func (c *Client) CreateInvoice(ctx context.Context, input InvoiceInput) (Invoice, error) {
	return invoices.create(ctx, c, input)
}

// UpdateInvoice modifies an invoice, e.g. to record a payment.
func (c *Client) UpdateInvoice(ctx context.Context, invoiceUUID string, input InvoiceInput) (Invoice, error) {
	return invoices.update(ctx, c, invoiceUUID, input)
}

// ListVendorBills returns a page of vendor bills.
func (c *Client) ListVendorBills(ctx context.Context, filter DocumentFilter) (Page[VendorBill], error) {
	return vendorBills.list(ctx, c, filter.query())
}

// GetVendorBill fetches a vendor bill by uuid.
func (c *Client) GetVendorBill(ctx context.Context, billUUID string) (VendorBill, error) {
	return vendorBills.get(ctx, c, billUUID)
}

// CreateVendorBill records a vendor bill.
func (c *Client) CreateVendorBill(ctx context.Context, input VendorBillInput) (VendorBill, error) {
	return vendorBills.create(ctx, c, input)
}

// UpdateVendorBill modifies a vendor bill.
func (c *Client) UpdateVendorBill(ctx context.Context, billUUID string, input VendorBillInput) (VendorBill, error) {
	return vendorBills.update(ctx, c, billUUID, input)
}
