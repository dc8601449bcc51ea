package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ayushprajapati1403/OneFlow-sub001/pkg/api/client"
)

// listFlags are shared by every list subcommand.
type listFlags struct {
	limit int
	page  int
	from  string
	to    string
}

func (f *listFlags) bind(cmd *cobra.Command, dates bool) {
	cmd.Flags().IntVar(&f.limit, "limit", 0, "page size")
	cmd.Flags().IntVar(&f.page, "page", 0, "page number (1-based)")
	if dates {
		cmd.Flags().StringVar(&f.from, "from", "", "start date, YYYY-MM-DD")
		cmd.Flags().StringVar(&f.to, "to", "", "end date, YYYY-MM-DD")
	}
}

func (f *listFlags) pagination() client.Pagination {
	return client.Pagination{Limit: f.limit, Page: f.page}
}

func (f *listFlags) dateRange() (client.DateRange, error) {
	var r client.DateRange
	var err error
	if f.from != "" {
		if r.From, err = time.Parse("2006-01-02", f.from); err != nil {
			return r, fmt.Errorf("--from: %w", err)
		}
	}
	if f.to != "" {
		if r.To, err = time.Parse("2006-01-02", f.to); err != nil {
			return r, fmt.Errorf("--to: %w", err)
		}
	}
	return r, nil
}

func pageFooter[T any](page client.Page[T]) string {
	if page.Pager == nil {
		return fmt.Sprintf("%d item(s)", len(page.Items))
	}
	return fmt.Sprintf("page %d/%d, %d total", page.Pager.Page, page.Pager.TotalPages, page.Pager.Total)
}

// renderPage prints a list result, adding a pager footer in table mode.
func renderPage[T any](a *App, page client.Page[T], header []string, row func(T) []string) error {
	if a.env.out.json() {
		items := page.Items
		if items == nil {
			items = []T{}
		}
		return a.env.out.render(map[string]any{"items": items, "pager": page.Pager}, nil, nil)
	}
	rows := make([][]string, 0, len(page.Items))
	for _, item := range page.Items {
		rows = append(rows, row(item))
	}
	if err := a.env.out.render(nil, header, rows); err != nil {
		return err
	}
	_, err := fmt.Fprintln(a.Out, pageFooter(page))
	return err
}

func (a *App) projectsCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "projects", Short: "List, show and create projects"}

	var lf listFlags
	var status, priority, search string
	var manager int64
	list := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireSession(cmd.Context()); err != nil {
				return err
			}
			dates, err := lf.dateRange()
			if err != nil {
				return err
			}
			page, err := a.env.client.ListProjects(cmd.Context(), client.ProjectFilter{
				Status:     client.ParseMulti(status),
				Priority:   client.ParseMulti(priority),
				ManagerID:  manager,
				Search:     search,
				DateRange:  dates,
				Pagination: lf.pagination(),
			})
			if err != nil {
				return err
			}
			return renderPage(a, page, []string{"UUID", "NAME", "STATUS", "PRIORITY", "BUDGET", "SPENT"}, projectRow)
		},
	}
	list.Flags().StringVar(&status, "status", "", "comma-separated statuses")
	list.Flags().StringVar(&priority, "priority", "", "comma-separated priorities")
	list.Flags().StringVar(&search, "search", "", "name search")
	list.Flags().Int64Var(&manager, "manager", 0, "manager user id")
	lf.bind(list, true)

	get := &cobra.Command{
		Use:   "get <uuid>",
		Short: "Show one project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(cmd.Context()); err != nil {
				return err
			}
			p, err := a.env.client.GetProject(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.env.out.render(p, []string{"UUID", "NAME", "STATUS", "PRIORITY", "BUDGET", "SPENT"}, [][]string{projectRow(p)})
		},
	}

	var in client.ProjectInput
	var description string
	var budget float64
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireSession(cmd.Context()); err != nil {
				return err
			}
			if cmd.Flags().Changed("description") {
				in.Description = &description
			}
			if cmd.Flags().Changed("budget") {
				in.Budget = &budget
			}
			p, err := a.env.client.CreateProject(cmd.Context(), in)
			if err != nil {
				return err
			}
			if a.env.out.json() {
				return a.env.out.render(p, nil, nil)
			}
			return a.env.out.message("project created: %s (%s)", p.UUID, p.Name)
		},
	}
	create.Flags().StringVar(&in.Name, "name", "", "project name")
	create.Flags().StringVar(&description, "description", "", "description")
	create.Flags().StringVar(&in.Status, "status", "", "initial status")
	create.Flags().StringVar(&in.Priority, "priority", "", "priority")
	create.Flags().Float64Var(&budget, "budget", 0, "budget")
	_ = create.MarkFlagRequired("name")

	cmd.AddCommand(list, get, create)
	return cmd
}

func projectRow(p client.Project) []string {
	return []string{p.UUID, p.Name, p.Status, orDash(p.Priority), money(p.Budget), money(p.Spent)}
}

func (a *App) tasksCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "tasks", Short: "Work with tasks"}
	var lf listFlags
	var filter client.TaskFilter
	var status, priority string
	list := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireSession(cmd.Context()); err != nil {
				return err
			}
			dates, err := lf.dateRange()
			if err != nil {
				return err
			}
			filter.Status = client.ParseMulti(status)
			filter.Priority = client.ParseMulti(priority)
			filter.DateRange = dates
			filter.Pagination = lf.pagination()
			page, err := a.env.client.ListTasks(cmd.Context(), filter)
			if err != nil {
				return err
			}
			return renderPage(a, page, []string{"UUID", "PROJECT", "TITLE", "STATUS", "PRIORITY", "DUE"}, func(t client.Task) []string {
				return []string{t.UUID, strconv.FormatInt(t.ProjectID, 10), t.Title, t.Status, t.Priority, orDash(t.DueDate)}
			})
		},
	}
	list.Flags().Int64Var(&filter.ProjectID, "project", 0, "project id")
	list.Flags().Int64Var(&filter.AssigneeID, "assignee", 0, "assignee user id")
	list.Flags().StringVar(&filter.Search, "search", "", "title search")
	list.Flags().StringVar(&status, "status", "", "comma-separated statuses")
	list.Flags().StringVar(&priority, "priority", "", "comma-separated priorities")
	lf.bind(list, true)
	cmd.AddCommand(list)
	return cmd
}

func (a *App) timesheetsCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "timesheets", Short: "Work with logged hours"}
	var lf listFlags
	var filter client.TimesheetFilter
	var billableOnly bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List timesheet entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireSession(cmd.Context()); err != nil {
				return err
			}
			dates, err := lf.dateRange()
			if err != nil {
				return err
			}
			if billableOnly {
				filter.Billable = &billableOnly
			}
			filter.DateRange = dates
			filter.Pagination = lf.pagination()
			page, err := a.env.client.ListTimesheets(cmd.Context(), filter)
			if err != nil {
				return err
			}
			return renderPage(a, page, []string{"UUID", "DATE", "PROJECT", "USER", "HOURS", "BILLABLE"}, func(ts client.Timesheet) []string {
				return []string{ts.UUID, ts.WorkDate, strconv.FormatInt(ts.ProjectID, 10), strconv.FormatInt(ts.UserID, 10), hours(ts.Hours), strconv.FormatBool(ts.Billable)}
			})
		},
	}
	list.Flags().Int64Var(&filter.ProjectID, "project", 0, "project id")
	list.Flags().Int64Var(&filter.UserID, "user", 0, "user id")
	list.Flags().BoolVar(&billableOnly, "billable", false, "only billable entries")
	lf.bind(list, true)
	cmd.AddCommand(list)
	return cmd
}

func (a *App) contactsCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "contacts", Short: "Work with customers and vendors"}
	var lf listFlags
	var kind, search string
	list := &cobra.Command{
		Use:   "list",
		Short: "List contacts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireSession(cmd.Context()); err != nil {
				return err
			}
			page, err := a.env.client.ListContacts(cmd.Context(), client.ContactFilter{
				Type:       client.ParseMulti(kind),
				Search:     search,
				Pagination: lf.pagination(),
			})
			if err != nil {
				return err
			}
			return renderPage(a, page, []string{"UUID", "NAME", "TYPE", "EMAIL"}, func(c client.Contact) []string {
				return []string{c.UUID, c.Name, c.Type, orDash(c.Email)}
			})
		},
	}
	list.Flags().StringVar(&kind, "type", "", "customer, vendor or both")
	list.Flags().StringVar(&search, "search", "", "name search")
	lf.bind(list, false)

	del := &cobra.Command{
		Use:   "delete <uuid>",
		Short: "Delete a contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(cmd.Context()); err != nil {
				return err
			}
			if err := a.env.client.DeleteContact(cmd.Context(), args[0]); err != nil {
				return err
			}
			return a.env.out.message("contact deleted: %s", args[0])
		},
	}
	cmd.AddCommand(list, del)
	return cmd
}

// documentList builds the list subcommand shared by invoices and bills.
func documentList[T any](a *App, short string, fetch func(*App, *cobra.Command, client.DocumentFilter) (client.Page[T], error), header []string, row func(T) []string) *cobra.Command {
	var lf listFlags
	var filter client.DocumentFilter
	var status string
	list := &cobra.Command{
		Use:   "list",
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireSession(cmd.Context()); err != nil {
				return err
			}
			dates, err := lf.dateRange()
			if err != nil {
				return err
			}
			filter.Status = client.ParseMulti(status)
			filter.DateRange = dates
			filter.Pagination = lf.pagination()
			page, err := fetch(a, cmd, filter)
			if err != nil {
				return err
			}
			return renderPage(a, page, header, row)
		},
	}
	list.Flags().StringVar(&status, "status", "", "comma-separated statuses")
	list.Flags().Int64Var(&filter.ProjectID, "project", 0, "project id")
	list.Flags().Int64Var(&filter.ContactID, "contact", 0, "contact id")
	list.Flags().StringVar(&filter.Search, "search", "", "number search")
	lf.bind(list, true)
	return list
}

func (a *App) invoicesCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "invoices", Short: "Work with customer invoices"}
	cmd.AddCommand(documentList(a, "List invoices",
		func(a *App, cmd *cobra.Command, f client.DocumentFilter) (client.Page[client.Invoice], error) {
			return a.env.client.ListInvoices(cmd.Context(), f)
		},
		[]string{"UUID", "NUMBER", "STATUS", "ISSUED", "TOTAL", "BALANCE"},
		invoiceRow,
	), a.invoiceCreateCommand())
	return cmd
}

func invoiceRow(inv client.Invoice) []string {
	return []string{inv.UUID, inv.InvoiceNumber, inv.Status, orDash(inv.IssueDate), money(inv.Total), money(inv.Balance())}
}

func (a *App) invoiceCreateCommand() *cobra.Command {
	var in client.InvoiceInput
	var contact, project int64
	var issued, due, notes string
	var tax float64
	var rows []string
	create := &cobra.Command{
		Use:   "create",
		Short: "Raise an invoice",
		Long: "Raise an invoice. Each --item is description:quantity:unit_price; the\n" +
			"description may itself contain colons.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			items, err := parseLineItems(rows)
			if err != nil {
				return err
			}
			if err := items.Validate(); err != nil {
				return err
			}
			in.LineItems = items
			if cmd.Flags().Changed("contact") {
				in.ContactID = &contact
			}
			if cmd.Flags().Changed("project") {
				in.ProjectID = &project
			}
			if issued != "" {
				in.IssueDate = &issued
			}
			if due != "" {
				in.DueDate = &due
			}
			if cmd.Flags().Changed("tax") {
				in.Tax = &tax
			}
			if notes != "" {
				in.Notes = &notes
			}
			if err := a.requireSession(cmd.Context()); err != nil {
				return err
			}
			inv, err := a.env.client.CreateInvoice(cmd.Context(), in)
			if err != nil {
				return err
			}
			if a.env.out.json() {
				return a.env.out.render(inv, nil, nil)
			}
			return a.env.out.message("invoice created: %s (%s) total %s", inv.UUID, inv.InvoiceNumber, money(inv.Total))
		},
	}
	create.Flags().StringArrayVar(&rows, "item", nil, "line item as description:quantity:unit_price (repeatable)")
	create.Flags().Int64Var(&contact, "contact", 0, "customer contact id")
	create.Flags().Int64Var(&project, "project", 0, "project id")
	create.Flags().StringVar(&in.Status, "status", "", "initial status (default draft)")
	create.Flags().StringVar(&issued, "issue-date", "", "issue date, YYYY-MM-DD")
	create.Flags().StringVar(&due, "due-date", "", "due date, YYYY-MM-DD")
	create.Flags().Float64Var(&tax, "tax", 0, "tax amount")
	create.Flags().StringVar(&notes, "notes", "", "notes")
	_ = create.MarkFlagRequired("item")
	return create
}

// parseLineItems turns description:quantity:unit_price rows into priced line
// items. Quantity and price are split from the right.
func parseLineItems(rows []string) (client.LineItems, error) {
	items := make(client.LineItems, 0, len(rows))
	for i, row := range rows {
		rest, price, ok := cutLast(row, ":")
		if !ok {
			return nil, fmt.Errorf("--item %d: want description:quantity:unit_price, got %q", i+1, row)
		}
		desc, qty, ok := cutLast(rest, ":")
		if !ok {
			return nil, fmt.Errorf("--item %d: want description:quantity:unit_price, got %q", i+1, row)
		}
		q, err := strconv.ParseFloat(strings.TrimSpace(qty), 64)
		if err != nil {
			return nil, fmt.Errorf("--item %d: quantity %q: %w", i+1, qty, err)
		}
		p, err := strconv.ParseFloat(strings.TrimSpace(price), 64)
		if err != nil {
			return nil, fmt.Errorf("--item %d: unit price %q: %w", i+1, price, err)
		}
		items = append(items, client.NewLineItem(strings.TrimSpace(desc), q, p))
	}
	return items, nil
}

func cutLast(s, sep string) (before, after string, found bool) {
	if i := strings.LastIndex(s, sep); i >= 0 {
		return s[:i], s[i+len(sep):], true
	}
	return s, "", false
}

func (a *App) billsCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "bills", Short: "Work with vendor bills"}
	cmd.AddCommand(documentList(a, "List vendor bills",
		func(a *App, cmd *cobra.Command, f client.DocumentFilter) (client.Page[client.VendorBill], error) {
			return a.env.client.ListVendorBills(cmd.Context(), f)
		},
		[]string{"UUID", "NUMBER", "STATUS", "DATE", "VENDOR", "TOTAL"},
		func(b client.VendorBill) []string {
			return []string{b.UUID, b.BillNumber, b.Status, orDash(b.BillDate), idOrDash(b.ContactID), money(b.Total)}
		},
	))
	return cmd
}

func (a *App) expensesCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "expenses", Short: "Work with expenses"}
	var lf listFlags
	var filter client.ExpenseFilter
	var status, category string
	list := &cobra.Command{
		Use:   "list",
		Short: "List expenses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireSession(cmd.Context()); err != nil {
				return err
			}
			dates, err := lf.dateRange()
			if err != nil {
				return err
			}
			filter.Status = client.ParseMulti(status)
			filter.Category = client.ParseMulti(category)
			filter.DateRange = dates
			filter.Pagination = lf.pagination()
			page, err := a.env.client.ListExpenses(cmd.Context(), filter)
			if err != nil {
				return err
			}
			return renderPage(a, page, []string{"UUID", "DATE", "CATEGORY", "AMOUNT", "STATUS", "PROJECT"}, func(e client.Expense) []string {
				return []string{e.UUID, e.ExpenseDate, e.Category, money(e.Amount), e.Status, idOrDash(e.ProjectID)}
			})
		},
	}
	list.Flags().StringVar(&status, "status", "", "comma-separated statuses")
	list.Flags().StringVar(&category, "category", "", "comma-separated categories")
	list.Flags().Int64Var(&filter.ProjectID, "project", 0, "project id")
	lf.bind(list, true)
	cmd.AddCommand(list)
	return cmd
}

func (a *App) usersCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "users", Short: "Work with company users"}
	var lf listFlags
	var role, search string
	list := &cobra.Command{
		Use:   "list",
		Short: "List users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireSession(cmd.Context()); err != nil {
				return err
			}
			page, err := a.env.client.ListUsers(cmd.Context(), client.UserFilter{
				Role:       client.ParseMulti(role),
				Search:     search,
				Pagination: lf.pagination(),
			})
			if err != nil {
				return err
			}
			return renderPage(a, page, []string{"ID", "NAME", "EMAIL", "ROLE", "RATE"}, func(u client.UserProfile) []string {
				return []string{strconv.FormatInt(u.ID, 10), u.FullName, u.Email, string(u.Role), money(u.HourlyRate)}
			})
		},
	}
	list.Flags().StringVar(&role, "role", "", "comma-separated roles")
	list.Flags().StringVar(&search, "search", "", "name or email search")
	lf.bind(list, false)
	cmd.AddCommand(list)
	return cmd
}
