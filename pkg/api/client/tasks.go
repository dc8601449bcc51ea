package client

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

// Task statuses and priorities.
const (
	TaskNew        = "new"
	TaskInProgress = "in_progress"
	TaskBlocked    = "blocked"
	TaskDone       = "done"

	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Task is a unit of work inside a project.
type Task struct {
	ID             int64     `json:"id"`
	UUID           string    `json:"uuid"`
	ProjectID      int64     `json:"project_id"`
	Title          string    `json:"title"`
	Description    string    `json:"description,omitempty"`
	Status         string    `json:"status"`
	Priority       string    `json:"priority"`
	AssigneeID     *int64    `json:"assignee_id,omitempty"`
	DueDate        string    `json:"due_date,omitempty"`
	EstimatedHours float64   `json:"estimated_hours"`
	LoggedHours    float64   `json:"logged_hours"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TaskFilter narrows ListTasks. DateRange applies to the due date.
type TaskFilter struct {
	ProjectID  int64
	Status     Multi
	Priority   Multi
	AssigneeID int64
	Search     string
	DateRange
	Pagination
}

func (f TaskFilter) query() Query {
	var q Query
	q = setID(q, "project_id", f.ProjectID)
	q = setMulti(q, "status", f.Status)
	q = setMulti(q, "priority", f.Priority)
	q = setID(q, "assignee_id", f.AssigneeID)
	q = setIf(q, "search", f.Search)
	q = f.DateRange.apply(q)
	return f.Pagination.apply(q)
}

// TaskInput is the writable subset of a task. Nil fields are omitted.
type TaskInput struct {
	ProjectID      int64    `json:"project_id,omitempty"`
	Title          string   `json:"title,omitempty"`
	Description    *string  `json:"description,omitempty"`
	Status         string   `json:"status,omitempty"`
	Priority       string   `json:"priority,omitempty"`
	AssigneeID     *int64   `json:"assignee_id,omitempty"`
	DueDate        *string  `json:"due_date,omitempty"`
	EstimatedHours *float64 `json:"estimated_hours,omitempty"`
}

// ListTasks returns a page of tasks.
func (c *Client) ListTasks(ctx context.Context, filter TaskFilter) (Page[Task], error) {
	return list[Task](ctx, c, Request{Method: http.MethodGet, Path: "/Tasks", Query: filter.query()})
}

// GetTask fetches a task by uuid.
func (c *Client) GetTask(ctx context.Context, taskUUID string) (Task, error) {
	return call[Task](ctx, c, Request{
		Method: http.MethodGet,
		Path:   "/Tasks/" + url.PathEscape(taskUUID),
		Route:  "/Tasks/:uuid",
	})
}

// CreateTask adds a task to a project.
func (c *Client) CreateTask(ctx context.Context, input TaskInput) (Task, error) {
	return call[Task](ctx, c, Request{Method: http.MethodPost, Path: "/Tasks", Body: input})
}

// UpdateTask modifies a task, e.g. to move it across kanban columns.
func (c *Client) UpdateTask(ctx context.Context, taskUUID string, input TaskInput) (Task, error) {
	return call[Task](ctx, c, Request{
		Method: http.MethodPut,
		Path:   "/Tasks/" + url.PathEscape(taskUUID),
		Route:  "/Tasks/:uuid",
		Body:   input,
	})
}
