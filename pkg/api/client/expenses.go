package client

import (
	"context"
	"time"
)

// Expense is a cost incurred on a project, optionally rebillable.
type Expense struct {
	ID          int64     `json:"id"`
	UUID        string    `json:"uuid"`
	ProjectID   *int64    `json:"project_id,omitempty"`
	UserID      int64     `json:"user_id"`
	Category    string    `json:"category"`
	Description string    `json:"description,omitempty"`
	Amount      float64   `json:"amount"`
	ExpenseDate string    `json:"expense_date"`
	Billable    bool      `json:"billable"`
	Status      string    `json:"status"`
	ReceiptURL  string    `json:"receipt_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ExpenseFilter narrows ListExpenses. DateRange applies to the expense date.
type ExpenseFilter struct {
	Status    Multi
	Category  Multi
	ProjectID int64
	UserID    int64
	DateRange
	Pagination
}

func (f ExpenseFilter) query() Query {
	var q Query
	q = setMulti(q, "status", f.Status)
	q = setMulti(q, "category", f.Category)
	q = setID(q, "project_id", f.ProjectID)
	q = setID(q, "user_id", f.UserID)
	q = f.DateRange.apply(q)
	return f.Pagination.apply(q)
}

// ExpenseInput is the writable subset of an expense. Nil fields are omitted.
type ExpenseInput struct {
	ProjectID   *int64   `json:"project_id,omitempty"`
	Category    string   `json:"category,omitempty"`
	Description *string  `json:"description,omitempty"`
	Amount      *float64 `json:"amount,omitempty"`
	ExpenseDate string   `json:"expense_date,omitempty"`
	Billable    *bool    `json:"billable,omitempty"`
	Status      string   `json:"status,omitempty"`
	ReceiptURL  *string  `json:"receipt_url,omitempty"`
}

var expenses = resource[Expense, ExpenseInput]{path: "/Expenses"}

// ListExpenses returns a page of expenses.
func (c *Client) ListExpenses(ctx context.Context, filter ExpenseFilter) (Page[Expense], error) {
	return expenses.list(ctx, c, filter.query())
}

// GetExpense fetches an expense by uuid.
func (c *Client) GetExpense(ctx context.Context, expenseUUID string) (Expense, error) {
	return expenses.get(ctx, c, expenseUUID)
}

// CreateExpense records an expense.
func (c *Client) CreateExpense(ctx context.Context, input ExpenseInput) (Expense, error) {
	return expenses.create(ctx, c, input)
}

// UpdateExpense modifies an expense, e.g. to approve it.
func (c *Client) UpdateExpense(ctx context.Context, expenseUUID string, input ExpenseInput) (Expense, error) {
	return expenses.update(ctx, c, expenseUUID, input)
}
