package client

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

// Project statuses.
const (
	ProjectPlanned   = "planned"
	ProjectActive    = "active"
	ProjectOnHold    = "on_hold"
	ProjectCompleted = "completed"
	ProjectCancelled = "cancelled"
)

// Project describes a client engagement tracked in OneFlow.
type Project struct {
	ID          int64     `json:"id"`
	UUID        string    `json:"uuid"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"`
	Priority    string    `json:"priority,omitempty"`
	ManagerID   *int64    `json:"manager_id,omitempty"`
	ContactID   *int64    `json:"contact_id,omitempty"`
	Budget      float64   `json:"budget"`
	Spent       float64   `json:"spent"`
	Progress    int       `json:"progress"`
	StartDate   string    `json:"start_date,omitempty"`
	EndDate     string    `json:"end_date,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProjectFilter narrows ListProjects.
type ProjectFilter struct {
	Status    Multi
	Priority  Multi
	ManagerID int64
	Search    string
	DateRange
	Pagination
}

func (f ProjectFilter) query() Query {
	var q Query
	q = setMulti(q, "status", f.Status)
	q = setMulti(q, "priority", f.Priority)
	q = setID(q, "manager_id", f.ManagerID)
	q = setIf(q, "search", f.Search)
	q = f.DateRange.apply(q)
	return f.Pagination.apply(q)
}

// ProjectInput is the writable subset of a project. Nil fields are omitted.
type ProjectInput struct {
	Name        string   `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Status      string   `json:"status,omitempty"`
	Priority    string   `json:"priority,omitempty"`
	ManagerID   *int64   `json:"manager_id,omitempty"`
	ContactID   *int64   `json:"contact_id,omitempty"`
	Budget      *float64 `json:"budget,omitempty"`
	StartDate   *string  `json:"start_date,omitempty"`
	EndDate     *string  `json:"end_date,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// ListProjects returns a page of projects.
func (c *Client) ListProjects(ctx context.Context, filter ProjectFilter) (Page[Project], error) {
	return list[Project](ctx, c, Request{Method: http.MethodGet, Path: "/Projects", Query: filter.query()})
}

// GetProject fetches a project by uuid.
func (c *Client) GetProject(ctx context.Context, projectUUID string) (Project, error) {
	return call[Project](ctx, c, Request{
		Method: http.MethodGet,
		Path:   "/Projects/" + url.PathEscape(projectUUID),
		Route:  "/Projects/:uuid",
	})
}

// CreateProject provisions a new project.
func (c *Client) CreateProject(ctx context.Context, input ProjectInput) (Project, error) {
	return call[Project](ctx, c, Request{Method: http.MethodPost, Path: "/Projects", Body: input})
}

// UpdateProject modifies a project.
func (c *Client) UpdateProject(ctx context.Context, projectUUID string, input ProjectInput) (Project, error) {
	return call[Project](ctx, c, Request{
		Method: http.MethodPut,
		Path:   "/Projects/" + url.PathEscape(projectUUID),
		Route:  "/Projects/:uuid",
		Body:   input,
	})
}
