package client

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
)

func TestListProjectsSendsMultiValueFilter(t *testing.T) {
	cli := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/oneflow/api/v1/Projects" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if r.URL.RawQuery != "status=active%2Cplanned&limit=6" {
			t.Fatalf("unexpected query %q", r.URL.RawQuery)
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"status":  200,
			"message": "Projects fetched",
			"data":    []map[string]any{{"id": 1, "uuid": "p-1", "name": "Website", "status": "active"}},
			"pager":   map[string]any{"page": 1, "limit": 6, "total": 1, "total_pages": 1},
		})
	})

	page, err := cli.ListProjects(context.Background(), ProjectFilter{
		Status:     Many(ProjectActive, ProjectPlanned),
		Pagination: Pagination{Limit: 6},
	})
	if err != nil {
		t.Fatalf("list projects: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].UUID != "p-1" {
		t.Fatalf("unexpected items %+v", page.Items)
	}
	if page.Pager == nil || page.Pager.Limit != 6 {
		t.Fatalf("unexpected pager %+v", page.Pager)
	}
}

func TestGetProjectNotFound(t *testing.T) {
	cli := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/oneflow/api/v1/Projects/missing" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		writeJSON(w, http.StatusNotFound, map[string]any{"status": 404, "message": "not found"})
	})

	_, err := cli.GetProject(context.Background(), "missing")
	apiErr := AsAPIError(err)
	if apiErr == nil || apiErr.StatusCode != http.StatusNotFound || apiErr.Message != "not found" {
		t.Fatalf("unexpected error %+v", apiErr)
	}
}

func TestCreateInvoiceSendsLineItems(t *testing.T) {
	cli := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/oneflow/api/v1/Invoices" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body struct {
			ContactID *int64     `json:"contact_id"`
			LineItems []LineItem `json:"line_items"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body.ContactID == nil || *body.ContactID != 4 {
			t.Fatalf("unexpected contact id %v", body.ContactID)
		}
		if len(body.LineItems) != 1 || body.LineItems[0].Amount != 1200 {
			t.Fatalf("unexpected line items %+v", body.LineItems)
		}
		writeJSON(w, http.StatusCreated, map[string]any{
			"status":  201,
			"message": "Invoice created",
			"data":    map[string]any{"uuid": "inv-1", "invoice_number": "INV-0001", "status": "draft", "total": 1200, "amount_paid": 200},
		})
	})

	contactID := int64(4)
	inv, err := cli.CreateInvoice(context.Background(), InvoiceInput{
		ContactID: &contactID,
		LineItems: LineItems{NewLineItem("Design sprint", 8, 150)},
	})
	if err != nil {
		t.Fatalf("create invoice: %v", err)
	}
	if inv.InvoiceNumber != "INV-0001" || inv.Balance() != 1000 {
		t.Fatalf("unexpected invoice %+v", inv)
	}
}

func TestDeleteContactIgnoresData(t *testing.T) {
	cli := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/oneflow/api/v1/Contacts/c-9" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		writeJSON(w, http.StatusOK, map[string]any{"status": 200, "message": "Contact deleted"})
	})
	if err := cli.DeleteContact(context.Background(), "c-9"); err != nil {
		t.Fatalf("delete contact: %v", err)
	}
}

func TestLoginSkipsStoredToken(t *testing.T) {
	cli := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "" {
			t.Fatalf("login must not carry a bearer token")
		}
		var creds map[string]string
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if creds["email"] != "a@x.io" || creds["password"] != "secret" {
			t.Fatalf("unexpected credentials %v", creds)
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"status": 200,
			"data": map[string]any{
				"token": "t1",
				"user":  map[string]any{"id": 1, "email": "a@x.io", "role": "admin"},
			},
		})
	}, WithTokenSource(staticToken("stale")))

	result, err := cli.Login(context.Background(), "a@x.io", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if result.Token != "t1" || result.User.Role != RoleAdmin || !result.User.Role.Valid() {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestGetUserUsesNumericID(t *testing.T) {
	cli := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/oneflow/api/v1/Auth/users/42" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		writeJSON(w, http.StatusOK, map[string]any{"status": 200, "data": map[string]any{"id": 42, "full_name": "Ana"}})
	})
	user, err := cli.GetUser(context.Background(), 42)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if user.ID != 42 || user.FullName != "Ana" {
		t.Fatalf("unexpected user %+v", user)
	}
}

func TestDashboardDecodesSummary(t *testing.T) {
	cli := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.RawQuery != "project_id=5" {
			t.Fatalf("unexpected query %q", r.URL.RawQuery)
		}
		writeJSON(w, http.StatusOK, map[string]any{"status": 200, "data": map[string]any{
			"summary":            map[string]any{"total_projects": 3, "revenue": 5000.5},
			"projects_by_status": map[string]int{"active": 2, "completed": 1},
		}})
	})
	dash, err := cli.Dashboard(context.Background(), AnalyticsFilter{ProjectID: 5})
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if dash.Summary.TotalProjects != 3 || dash.ProjectsByStatus["active"] != 2 {
		t.Fatalf("unexpected dashboard %+v", dash)
	}
}

func TestDecodeFailureIsInvalidPayload(t *testing.T) {
	cli := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": 200, "data": "not-a-project"})
	})
	_, err := cli.GetProject(context.Background(), "p-1")
	apiErr := AsAPIError(err)
	if apiErr.StatusCode != http.StatusOK || apiErr.Message != "Invalid response payload" {
		t.Fatalf("unexpected error %+v", apiErr)
	}
}
