package client

import (
	"context"
	"time"
)

// Contact kinds.
const (
	ContactCustomer = "customer"
	ContactVendor   = "vendor"
	ContactBoth     = "both"
)

// Contact is a customer or vendor.
type Contact struct {
	ID        int64     `json:"id"`
	UUID      string    `json:"uuid"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Company   string    `json:"company,omitempty"`
	Type      string    `json:"type"`
	Address   string    `json:"address,omitempty"`
	TaxID     string    `json:"tax_id,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ContactFilter narrows ListContacts.
type ContactFilter struct {
	Type   Multi
	Search string
	Pagination
}

func (f ContactFilter) query() Query {
	var q Query
	q = setMulti(q, "type", f.Type)
	q = setIf(q, "search", f.Search)
	return f.Pagination.apply(q)
}

// ContactInput is the writable subset of a contact. Nil fields are omitted.
type ContactInput struct {
	Name    string  `json:"name,omitempty"`
	Email   *string `json:"email,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Company *string `json:"company,omitempty"`
	Type    string  `json:"type,omitempty"`
	Address *string `json:"address,omitempty"`
	TaxID   *string `json:"tax_id,omitempty"`
	Notes   *string `json:"notes,omitempty"`
}

var contacts = resource[Contact, ContactInput]{path: "/Contacts"}

// ListContacts returns a page of contacts.
func (c *Client) ListContacts(ctx context.Context, filter ContactFilter) (Page[Contact], error) {
	return contacts.list(ctx, c, filter.query())
}

// GetContact fetches a contact by uuid.
func (c *Client) GetContact(ctx context.Context, contactUUID string) (Contact, error) {
	return contacts.get(ctx, c, contactUUID)
}

// CreateContact adds a contact.
func (c *Client) CreateContact(ctx context.Context, input ContactInput) (Contact, error) {
	return contacts.create(ctx, c, input)
}

// UpdateContact modifies a contact.
func (c *Client) UpdateContact(ctx context.Context, contactUUID string, input ContactInput) (Contact, error) {
	return contacts.update(ctx, c, contactUUID, input)
}

// DeleteContact removes a contact.
func (c *Client) DeleteContact(ctx context.Context, contactUUID string) error {
	return contacts.remove(ctx, c, contactUUID)
}
