package client

import (
	"context"
	"net/http"
	"net/url"
)

// DocumentFilter narrows the order, invoice and vendor bill list endpoints.
// DateRange applies to the document date.
type DocumentFilter struct {
	Status    Multi
	ProjectID int64
	ContactID int64
	Search    string
	DateRange
	Pagination
}

func (f DocumentFilter) query() Query {
	var q Query
	q = setMulti(q, "status", f.Status)
	q = setID(q, "project_id", f.ProjectID)
	q = setID(q, "contact_id", f.ContactID)
	q = setIf(q, "search", f.Search)
	q = f.DateRange.apply(q)
	return f.Pagination.apply(q)
}

// resource binds the four CRUD calls shared by the billing documents to one collection path.
type resource[T, In any] struct {
	path string
}

func (r resource[T, In]) list(ctx context.Context, c *Client, q Query) (Page[T], error) {
	return list[T](ctx, c, Request{Method: http.MethodGet, Path: r.path, Query: q})
}

func (r resource[T, In]) get(ctx context.Context, c *Client, id string) (T, error) {
	return call[T](ctx, c, Request{
		Method: http.MethodGet,
		Path:   r.path + "/" + url.PathEscape(id),
		Route:  r.path + "/:uuid",
	})
}

func (r resource[T, In]) create(ctx context.Context, c *Client, input In) (T, error) {
	return call[T](ctx, c, Request{Method: http.MethodPost, Path: r.path, Body: input})
}

func (r resource[T, In]) update(ctx context.Context, c *Client, id string, input In) (T, error) {
	return call[T](ctx, c, Request{
		Method: http.MethodPut,
		Path:   r.path + "/" + url.PathEscape(id),
		Route:  r.path + "/:uuid",
		Body:   input,
	})
}

func (r resource[T, In]) remove(ctx context.Context, c *Client, id string) error {
	return send(ctx, c, Request{
		Method: http.MethodDelete,
		Path:   r.path + "/" + url.PathEscape(id),
		Route:  r.path + "/:uuid",
	})
}
