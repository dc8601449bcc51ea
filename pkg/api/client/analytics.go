package client

import (
	"context"
	"net/http"
)

// DashboardSummary holds the headline figures of the analytics dashboard.
type DashboardSummary struct {
	TotalProjects       int     `json:"total_projects"`
	ActiveProjects      int     `json:"active_projects"`
	CompletedProjects   int     `json:"completed_projects"`
	TotalTasks          int     `json:"total_tasks"`
	OverdueTasks        int     `json:"overdue_tasks"`
	HoursLogged         float64 `json:"hours_logged"`
	BillableHours       float64 `json:"billable_hours"`
	Revenue             float64 `json:"revenue"`
	Expenses            float64 `json:"expenses"`
	Profit              float64 `json:"profit"`
	OutstandingInvoices float64 `json:"outstanding_invoices"`
}

// TrendPoint is one period of the revenue/cost series.
type TrendPoint struct {
	Period   string  `json:"period"`
	Revenue  float64 `json:"revenue"`
	Expenses float64 `json:"expenses"`
}

// Dashboard is the analytics payload rendered on the home screen.
type Dashboard struct {
	Summary          DashboardSummary `json:"summary"`
	RevenueTrend     []TrendPoint     `json:"revenue_trend"`
	ProjectsByStatus map[string]int   `json:"projects_by_status"`
	TasksByStatus    map[string]int   `json:"tasks_by_status"`
}

// AnalyticsFilter scopes the dashboard.
type AnalyticsFilter struct {
	ProjectID int64
	DateRange
}

func (f AnalyticsFilter) query() Query {
	var q Query
	q = setID(q, "project_id", f.ProjectID)
	return f.DateRange.apply(q)
}

// Dashboard fetches the analytics dashboard.
func (c *Client) Dashboard(ctx context.Context, filter AnalyticsFilter) (Dashboard, error) {
	return call[Dashboard](ctx, c, Request{Method: http.MethodGet, Path: "/Analytics/dashboard", Query: filter.query()})
}
