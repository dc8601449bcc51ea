package client

import (
	"context"
	"fmt"
	"net/http"
)

// UserFilter narrows ListUsers.
type UserFilter struct {
	Role   Multi
	Search string
	Pagination
}

func (f UserFilter) query() Query {
	var q Query
	q = setMulti(q, "role", f.Role)
	q = setIf(q, "search", f.Search)
	return f.Pagination.apply(q)
}

// UserInput is the writable subset of a user. Nil fields are left unchanged on update.
type UserInput struct {
	FullName   string   `json:"full_name,omitempty"`
	Email      string   `json:"email,omitempty"`
	Password   string   `json:"password,omitempty"`
	Role       Role     `json:"role,omitempty"`
	HourlyRate *float64 `json:"hourly_rate,omitempty"`
}

// ListUsers returns company users visible to the caller.
func (c *Client) ListUsers(ctx context.Context, filter UserFilter) (Page[UserProfile], error) {
	return list[UserProfile](ctx, c, Request{Method: http.MethodGet, Path: "/Auth/users", Query: filter.query()})
}

// GetUser fetches one user by numeric id.
func (c *Client) GetUser(ctx context.Context, id int64) (UserProfile, error) {
	return call[UserProfile](ctx, c, Request{
		Method: http.MethodGet,
		Path:   fmt.Sprintf("/Auth/users/%d", id),
		Route:  "/Auth/users/:id",
	})
}

// CreateUser provisions a user in the caller's company.
func (c *Client) CreateUser(ctx context.Context, input UserInput) (UserProfile, error) {
	return call[UserProfile](ctx, c, Request{Method: http.MethodPost, Path: "/Auth/users", Body: input})
}

// UpdateUser modifies a user.
func (c *Client) UpdateUser(ctx context.Context, id int64, input UserInput) (UserProfile, error) {
	return call[UserProfile](ctx, c, Request{
		Method: http.MethodPut,
		Path:   fmt.Sprintf("/Auth/users/%d", id),
		Route:  "/Auth/users/:id",
		Body:   input,
	})
}

// DeleteUser removes a user.
func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	return send(ctx, c, Request{
		Method: http.MethodDelete,
		Path:   fmt.Sprintf("/Auth/users/%d", id),
		Route:  "/Auth/users/:id",
	})
}
