package client

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

// Timesheet is a block of hours logged against a project or task.
type Timesheet struct {
	ID          int64     `json:"id"`
	UUID        string    `json:"uuid"`
	ProjectID   int64     `json:"project_id"`
	TaskID      *int64    `json:"task_id,omitempty"`
	UserID      int64     `json:"user_id"`
	WorkDate    string    `json:"work_date"`
	Hours       float64   `json:"hours"`
	Billable    bool      `json:"billable"`
	HourlyRate  float64   `json:"hourly_rate"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// TimesheetFilter narrows ListTimesheets. DateRange applies to the work date.
type TimesheetFilter struct {
	ProjectID int64
	TaskID    int64
	UserID    int64
	Billable  *bool
	DateRange
	Pagination
}

func (f TimesheetFilter) query() Query {
	var q Query
	q = setID(q, "project_id", f.ProjectID)
	q = setID(q, "task_id", f.TaskID)
	q = setID(q, "user_id", f.UserID)
	q = q.Set("billable", f.Billable)
	q = f.DateRange.apply(q)
	return f.Pagination.apply(q)
}

// TimesheetInput is the payload for logging hours.
type TimesheetInput struct {
	ProjectID   int64   `json:"project_id"`
	TaskID      *int64  `json:"task_id,omitempty"`
	WorkDate    string  `json:"work_date"`
	Hours       float64 `json:"hours"`
	Billable    bool    `json:"billable"`
	Description string  `json:"description,omitempty"`
}

// ListTimesheets returns a page of timesheet entries.
func (c *Client) ListTimesheets(ctx context.Context, filter TimesheetFilter) (Page[Timesheet], error) {
	return list[Timesheet](ctx, c, Request{Method: http.MethodGet, Path: "/Timesheets", Query: filter.query()})
}

// GetTimesheet fetches an entry by uuid.
func (c *Client) GetTimesheet(ctx context.Context, timesheetUUID string) (Timesheet, error) {
	return call[Timesheet](ctx, c, Request{
		Method: http.MethodGet,
		Path:   "/Timesheets/" + url.PathEscape(timesheetUUID),
		Route:  "/Timesheets/:uuid",
	})
}

// CreateTimesheet logs hours.
func (c *Client) CreateTimesheet(ctx context.Context, input TimesheetInput) (Timesheet, error) {
	return call[Timesheet](ctx, c, Request{Method: http.MethodPost, Path: "/Timesheets", Body: input})
}
