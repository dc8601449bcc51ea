// Package fakeapi is an in-memory OneFlow backend served over httptest. It
// speaks the same envelope, bearer-auth and role rules as the real service
// and is used by client, auth and CLI tests.
package fakeapi

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ayushprajapati1403/OneFlow-sub001/pkg/api/client"
	"github.com/ayushprajapati1403/OneFlow-sub001/pkg/config"
	"github.com/ayushprajapati1403/OneFlow-sub001/pkg/jwt"
)

// Prefix is the API prefix the fake serves under.
const Prefix = config.DefaultAPIPrefix

// Seeded accounts. All share Password.
const (
	AdminEmail   = "admin@oneflow.test"
	ManagerEmail = "pm@oneflow.test"
	MemberEmail  = "member@oneflow.test"
	FinanceEmail = "finance@oneflow.test"
	Password     = "secret123"
)

const tokenTTL = 24 * time.Hour

type account struct {
	profile  client.UserProfile
	password string
}

// Server is a running fake backend.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	secret   string
	nextID   int64
	accounts []account
	revoked  map[string]bool
	requests []string

	projects   []client.Project
	tasks      []client.Task
	timesheets []client.Timesheet
	contacts   []client.Contact
	invoices   []client.Invoice
	bills      []client.VendorBill
	expenses   []client.Expense
}

// New starts a seeded fake backend. Call Close when done.
func New() *Server {
	s := &Server{secret: uuid.NewString(), revoked: make(map[string]bool)}
	s.seed()
	s.Server = httptest.NewServer(s.routes())
	return s
}

// Config returns a client configuration pointing at the fake.
func (s *Server) Config() config.ClientConfig {
	cfg := config.DefaultClientConfig()
	cfg.BaseURL = s.URL
	cfg.Session.Backend = config.SessionBackendMemory
	return cfg
}

// TokenFor mints a valid token for a seeded account.
func (s *Server) TokenFor(email string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, acc := range s.accounts {
		if acc.profile.Email == email {
			token, err := s.issue(acc.profile)
			if err != nil {
				panic(err)
			}
			return token
		}
	}
	panic("fakeapi: unknown account " + email)
}

// Revoke makes token fail authentication from now on.
func (s *Server) Revoke(token string) {
	s.mu.Lock()
	s.revoked[token] = true
	s.mu.Unlock()
}

// Requests returns the "METHOD path?query" lines received so far.
func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.requests)
}

func (s *Server) issue(p client.UserProfile) (string, error) {
	return jwt.GenerateToken(jwt.Identity{UserID: p.ID, UUID: p.UUID, Email: p.Email, Role: string(p.Role)}, s.secret, tokenTTL)
}

func (s *Server) id() (int64, string) {
	s.nextID++
	return s.nextID, uuid.NewString()
}

func (s *Server) seed() {
	now := time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)
	for _, u := range []struct {
		email, name string
		role        client.Role
		rate        float64
	}{
		{AdminEmail, "Ada Admin", client.RoleAdmin, 120},
		{ManagerEmail, "Pia Manager", client.RoleProjectManager, 95},
		{MemberEmail, "Max Member", client.RoleTeamMember, 60},
		{FinanceEmail, "Fin Ance", client.RoleFinance, 80},
	} {
		id, uid := s.id()
		s.accounts = append(s.accounts, account{password: Password, profile: client.UserProfile{
			ID: id, UUID: uid, FullName: u.name, Email: u.email, Role: u.role,
			HourlyRate: u.rate, CompanyName: "Acme Studio", CreatedAt: now, UpdatedAt: now,
		}})
	}
	manager := s.accounts[1].profile.ID
	member := s.accounts[2].profile.ID

	for _, p := range []struct {
		name, status string
		budget       float64
	}{
		{"Website revamp", client.ProjectActive, 12000},
		{"Mobile app", client.ProjectPlanned, 30000},
		{"Brand refresh", client.ProjectCompleted, 8000},
		{"Data migration", client.ProjectActive, 15000},
	} {
		id, uid := s.id()
		s.projects = append(s.projects, client.Project{
			ID: id, UUID: uid, Name: p.name, Status: p.status, Priority: client.PriorityMedium,
			ManagerID: &manager, Budget: p.budget, CreatedAt: now, UpdatedAt: now,
		})
	}
	for i, t := range []struct{ title, status, priority string }{
		{"Wireframes", client.TaskDone, client.PriorityHigh},
		{"Landing page", client.TaskInProgress, client.PriorityHigh},
		{"Store listing", client.TaskNew, client.PriorityLow},
	} {
		id, uid := s.id()
		s.tasks = append(s.tasks, client.Task{
			ID: id, UUID: uid, ProjectID: s.projects[i/2].ID, Title: t.title, Status: t.status,
			Priority: t.priority, AssigneeID: &member, EstimatedHours: 8, CreatedAt: now, UpdatedAt: now,
		})
	}
	for _, ts := range []struct {
		date  string
		hours float64
	}{{"2025-01-06", 6}, {"2025-01-07", 7.5}, {"2025-02-03", 4}} {
		id, uid := s.id()
		s.timesheets = append(s.timesheets, client.Timesheet{
			ID: id, UUID: uid, ProjectID: s.projects[0].ID, UserID: member, WorkDate: ts.date,
			Hours: ts.hours, Billable: true, HourlyRate: 60, CreatedAt: now,
		})
	}
	for _, c := range []struct{ name, kind string }{{"Globex", client.ContactCustomer}, {"Initech", client.ContactVendor}} {
		id, uid := s.id()
		s.contacts = append(s.contacts, client.Contact{ID: id, UUID: uid, Name: c.name, Type: c.kind, CreatedAt: now, UpdatedAt: now})
	}
	customer := s.contacts[0].ID
	vendor := s.contacts[1].ID
	id, uid := s.id()
	items := client.LineItems{client.NewLineItem("Design sprint", 40, 150)}
	s.invoices = append(s.invoices, client.Invoice{
		ID: id, UUID: uid, InvoiceNumber: "INV-0001", ContactID: &customer, Status: client.InvoiceSent,
		IssueDate: "2025-01-31", LineItems: items, Subtotal: items.Total(), Total: items.Total(), CreatedAt: now, UpdatedAt: now,
	})
	id, uid = s.id()
	billItems := client.LineItems{client.NewLineItem("Hosting", 12, 25)}
	s.bills = append(s.bills, client.VendorBill{
		ID: id, UUID: uid, BillNumber: "BILL-0001", ContactID: &vendor, Status: "open",
		BillDate: "2025-01-15", LineItems: billItems, Subtotal: billItems.Total(), Total: billItems.Total(), CreatedAt: now, UpdatedAt: now,
	})
	id, uid = s.id()
	s.expenses = append(s.expenses, client.Expense{
		ID: id, UUID: uid, UserID: member, Category: "travel", Amount: 230.4, ExpenseDate: "2025-01-20", Status: "approved", CreatedAt: now,
	})
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	finance := []client.Role{client.RoleAdmin, client.RoleFinance}

	mux.HandleFunc("POST "+Prefix+"/Auth/login", s.handleLogin)
	mux.HandleFunc("POST "+Prefix+"/Auth/signup", s.handleSignup)
	mux.HandleFunc("GET "+Prefix+"/Auth/me", s.requireAuth(s.handleMe))
	mux.HandleFunc("GET "+Prefix+"/Auth/users", s.requireAuth(s.handleListUsers, client.RoleAdmin))

	mux.HandleFunc("GET "+Prefix+"/Projects", s.requireAuth(s.handleListProjects))
	mux.HandleFunc("GET "+Prefix+"/Projects/{uuid}", s.requireAuth(s.handleGetProject))
	mux.HandleFunc("POST "+Prefix+"/Projects", s.requireAuth(s.handleCreateProject, client.RoleAdmin, client.RoleProjectManager))
	mux.HandleFunc("GET "+Prefix+"/Tasks", s.requireAuth(s.handleListTasks))
	mux.HandleFunc("GET "+Prefix+"/Timesheets", s.requireAuth(s.handleListTimesheets))

	mux.HandleFunc("GET "+Prefix+"/Contacts", s.requireAuth(s.handleListContacts))
	mux.HandleFunc("DELETE "+Prefix+"/Contacts/{uuid}", s.requireAuth(s.handleDeleteContact, client.RoleAdmin))
	mux.HandleFunc("GET "+Prefix+"/Invoices", s.requireAuth(s.handleListInvoices, finance...))
	mux.HandleFunc("POST "+Prefix+"/Invoices", s.requireAuth(s.handleCreateInvoice, finance...))
	mux.HandleFunc("GET "+Prefix+"/VendorBills", s.requireAuth(s.handleListBills, finance...))
	mux.HandleFunc("GET "+Prefix+"/Expenses", s.requireAuth(s.handleListExpenses, finance...))
	mux.HandleFunc("GET "+Prefix+"/Analytics/dashboard", s.requireAuth(s.handleDashboard, client.RoleAdmin, client.RoleProjectManager, client.RoleFinance))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		line := r.Method + " " + r.URL.Path
		if r.URL.RawQuery != "" {
			line += "?" + r.URL.RawQuery
		}
		s.mu.Lock()
		s.requests = append(s.requests, line)
		s.mu.Unlock()
		mux.ServeHTTP(w, r)
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, acc := range s.accounts {
		if strings.EqualFold(acc.profile.Email, req.Email) && acc.password == req.Password {
			token, err := s.issue(acc.profile)
			if err != nil {
				writeError(w, http.StatusInternalServerError, "token issue failed")
				return
			}
			writeData(w, http.StatusOK, "Login successful", client.AuthResult{Token: token, User: acc.profile})
			return
		}
	}
	writeError(w, http.StatusUnauthorized, "Invalid email or password")
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req client.SignupInput
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" || req.FullName == "" {
		writeError(w, http.StatusBadRequest, "email, password and full_name are required")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, acc := range s.accounts {
		if strings.EqualFold(acc.profile.Email, req.Email) {
			writeError(w, http.StatusConflict, "Email already registered")
			return
		}
	}
	id, uid := s.id()
	now := time.Now().UTC()
	profile := client.UserProfile{
		ID: id, UUID: uid, FullName: req.FullName, Email: req.Email, Role: client.RoleAdmin,
		CompanyName: req.CompanyName, CreatedAt: now, UpdatedAt: now,
	}
	s.accounts = append(s.accounts, account{profile: profile, password: req.Password})
	token, err := s.issue(profile)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "token issue failed")
		return
	}
	writeData(w, http.StatusCreated, "Signup successful", client.AuthResult{Token: token, User: profile})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, "Profile fetched", userFromContext(r.Context()))
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	roles := splitParam(r, "role")
	s.mu.Lock()
	var out []client.UserProfile
	for _, acc := range s.accounts {
		if matches(roles, string(acc.profile.Role)) {
			out = append(out, acc.profile)
		}
	}
	s.mu.Unlock()
	writePage(w, r, "Users fetched", out)
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	statuses := splitParam(r, "status")
	search := strings.ToLower(r.URL.Query().Get("search"))
	s.mu.Lock()
	var out []client.Project
	for _, p := range s.projects {
		if matches(statuses, p.Status) && strings.Contains(strings.ToLower(p.Name), search) {
			out = append(out, p)
		}
	}
	s.mu.Unlock()
	writePage(w, r, "Projects fetched", out)
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.projects {
		if p.UUID == r.PathValue("uuid") {
			writeData(w, http.StatusOK, "Project fetched", p)
			return
		}
	}
	writeError(w, http.StatusNotFound, "Project not found")
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var in client.ProjectInput
	if !decodeBody(w, r, &in) {
		return
	}
	if strings.TrimSpace(in.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id, uid := s.id()
	now := time.Now().UTC()
	p := client.Project{
		ID: id, UUID: uid, Name: in.Name, Status: in.Status, Priority: in.Priority,
		ManagerID: in.ManagerID, ContactID: in.ContactID, Tags: in.Tags, CreatedAt: now, UpdatedAt: now,
	}
	if p.Status == "" {
		p.Status = client.ProjectPlanned
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Budget != nil {
		p.Budget = *in.Budget
	}
	s.projects = append(s.projects, p)
	writeData(w, http.StatusCreated, "Project created", p)
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	statuses := splitParam(r, "status")
	priorities := splitParam(r, "priority")
	projectID, _ := strconv.ParseInt(r.URL.Query().Get("project_id"), 10, 64)
	s.mu.Lock()
	var out []client.Task
	for _, t := range s.tasks {
		if matches(statuses, t.Status) && matches(priorities, t.Priority) && (projectID == 0 || t.ProjectID == projectID) {
			out = append(out, t)
		}
	}
	s.mu.Unlock()
	writePage(w, r, "Tasks fetched", out)
}

func (s *Server) handleListTimesheets(w http.ResponseWriter, r *http.Request) {
	from, to := r.URL.Query().Get("from"), r.URL.Query().Get("to")
	s.mu.Lock()
	var out []client.Timesheet
	for _, ts := range s.timesheets {
		if (from == "" || ts.WorkDate >= from) && (to == "" || ts.WorkDate <= to) {
			out = append(out, ts)
		}
	}
	s.mu.Unlock()
	writePage(w, r, "Timesheets fetched", out)
}

func (s *Server) handleListContacts(w http.ResponseWriter, r *http.Request) {
	kinds := splitParam(r, "type")
	s.mu.Lock()
	var out []client.Contact
	for _, c := range s.contacts {
		if matches(kinds, c.Type) {
			out = append(out, c)
		}
	}
	s.mu.Unlock()
	writePage(w, r, "Contacts fetched", out)
}

func (s *Server) handleDeleteContact(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.contacts {
		if c.UUID == r.PathValue("uuid") {
			s.contacts = slices.Delete(s.contacts, i, i+1)
			writeData(w, http.StatusOK, "Contact deleted", nil)
			return
		}
	}
	writeError(w, http.StatusNotFound, "Contact not found")
}

func (s *Server) handleListInvoices(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := slices.Clone(s.invoices)
	s.mu.Unlock()
	writePage(w, r, "Invoices fetched", out)
}

func (s *Server) handleCreateInvoice(w http.ResponseWriter, r *http.Request) {
	var in client.InvoiceInput
	if !decodeBody(w, r, &in) {
		return
	}
	if len(in.LineItems) == 0 {
		writeError(w, http.StatusBadRequest, "line_items is required")
		return
	}
	if err := in.LineItems.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id, uid := s.id()
	now := time.Now().UTC()
	inv := client.Invoice{
		ID: id, UUID: uid, InvoiceNumber: fmt.Sprintf("INV-%04d", len(s.invoices)+1),
		SalesOrderID: in.SalesOrderID, ProjectID: in.ProjectID, ContactID: in.ContactID,
		Status: in.Status, Currency: in.Currency, LineItems: in.LineItems,
		Subtotal: in.LineItems.Total(), CreatedAt: now, UpdatedAt: now,
	}
	if inv.Status == "" {
		inv.Status = client.InvoiceDraft
	}
	if in.IssueDate != nil {
		inv.IssueDate = *in.IssueDate
	}
	if in.DueDate != nil {
		inv.DueDate = *in.DueDate
	}
	if in.Tax != nil {
		inv.Tax = *in.Tax
	}
	if in.Notes != nil {
		inv.Notes = *in.Notes
	}
	inv.Total = inv.Subtotal + inv.Tax
	s.invoices = append(s.invoices, inv)
	writeData(w, http.StatusCreated, "Invoice created", inv)
}

func (s *Server) handleListBills(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := slices.Clone(s.bills)
	s.mu.Unlock()
	writePage(w, r, "Vendor bills fetched", out)
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := slices.Clone(s.expenses)
	s.mu.Unlock()
	writePage(w, r, "Expenses fetched", out)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	dash := client.Dashboard{
		ProjectsByStatus: map[string]int{},
		TasksByStatus:    map[string]int{},
	}
	for _, p := range s.projects {
		dash.Summary.TotalProjects++
		dash.ProjectsByStatus[p.Status]++
		switch p.Status {
		case client.ProjectActive:
			dash.Summary.ActiveProjects++
		case client.ProjectCompleted:
			dash.Summary.CompletedProjects++
		}
	}
	for _, t := range s.tasks {
		dash.Summary.TotalTasks++
		dash.TasksByStatus[t.Status]++
	}
	for _, ts := range s.timesheets {
		dash.Summary.HoursLogged += ts.Hours
		if ts.Billable {
			dash.Summary.BillableHours += ts.Hours
		}
	}
	for _, inv := range s.invoices {
		dash.Summary.Revenue += inv.Total
		dash.Summary.OutstandingInvoices += inv.Balance()
	}
	for _, e := range s.expenses {
		dash.Summary.Expenses += e.Amount
	}
	for _, b := range s.bills {
		dash.Summary.Expenses += b.Total
	}
	dash.Summary.Profit = dash.Summary.Revenue - dash.Summary.Expenses
	dash.RevenueTrend = []client.TrendPoint{{Period: "2025-01", Revenue: dash.Summary.Revenue, Expenses: dash.Summary.Expenses}}
	writeData(w, http.StatusOK, "Dashboard fetched", dash)
}

func splitParam(r *http.Request, key string) []string {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil
	}
	return strings.Split(raw, ",")
}

// matches reports whether value is allowed by filter. An empty filter allows all.
func matches(filter []string, value string) bool {
	return len(filter) == 0 || slices.Contains(filter, value)
}

// MustProject returns the seeded project with the given name.
func (s *Server) MustProject(name string) client.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.projects {
		if p.Name == name {
			return p
		}
	}
	panic(fmt.Sprintf("fakeapi: no project %q", name))
}
