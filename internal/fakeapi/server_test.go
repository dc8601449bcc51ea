package fakeapi_test

import (
	"context"
	"net/http"
	"slices"
	"testing"

	"github.com/ayushprajapati1403/OneFlow-sub001/internal/fakeapi"
	"github.com/ayushprajapati1403/OneFlow-sub001/pkg/api/client"
	"github.com/ayushprajapati1403/OneFlow-sub001/pkg/auth"
	"github.com/ayushprajapati1403/OneFlow-sub001/pkg/session"
)

func newSession(t *testing.T, srv *fakeapi.Server) (*client.Client, *auth.Controller, *session.Store) {
	t.Helper()
	store := session.NewStore(session.NewMemoryBackend(), nil)
	cli, err := client.New(srv.Config(), client.WithTokenSource(store))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return cli, auth.New(context.Background(), cli, store, nil), store
}

func TestSignInThenListProjects(t *testing.T) {
	srv := fakeapi.New()
	defer srv.Close()
	cli, ctrl, store := newSession(t, srv)
	ctx := context.Background()

	if err := ctrl.SignIn(ctx, fakeapi.ManagerEmail, fakeapi.Password); err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if token, _ := store.Token(ctx); token == "" {
		t.Fatal("expected token in store")
	}

	page, err := cli.ListProjects(ctx, client.ProjectFilter{
		Status:     client.Many(client.ProjectActive, client.ProjectPlanned),
		Pagination: client.Pagination{Limit: 6},
	})
	if err != nil {
		t.Fatalf("list projects: %v", err)
	}
	if len(page.Items) != 3 || page.Pager.Total != 3 {
		t.Fatalf("unexpected page %+v", page)
	}
	want := "GET " + fakeapi.Prefix + "/Projects?status=active%2Cplanned&limit=6"
	if !slices.Contains(srv.Requests(), want) {
		t.Fatalf("expected request %q in %v", want, srv.Requests())
	}
}

func TestWrongPasswordIsUnauthorized(t *testing.T) {
	srv := fakeapi.New()
	defer srv.Close()
	_, ctrl, _ := newSession(t, srv)

	apiErr := ctrl.SignIn(context.Background(), fakeapi.AdminEmail, "nope")
	if apiErr == nil || apiErr.StatusCode != http.StatusUnauthorized || apiErr.Message != "Invalid email or password" {
		t.Fatalf("unexpected error %+v", apiErr)
	}
	if ctrl.State() != auth.Unauthenticated {
		t.Fatalf("unexpected state %s", ctrl.State())
	}
}

func TestRevokedTokenFailsBootstrap(t *testing.T) {
	srv := fakeapi.New()
	defer srv.Close()
	ctx := context.Background()
	token := srv.TokenFor(fakeapi.AdminEmail)
	srv.Revoke(token)

	store := session.NewStore(session.NewMemoryBackend(), nil)
	store.SetToken(ctx, token)
	cli, err := client.New(srv.Config(), client.WithTokenSource(store))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	ctrl := auth.New(ctx, cli, store, nil)
	ctrl.Bootstrap(ctx)

	if ctrl.State() != auth.Unauthenticated {
		t.Fatalf("unexpected state %s", ctrl.State())
	}
	if _, ok := store.Token(ctx); ok {
		t.Fatal("expected revoked token to be cleared")
	}
}

func TestRoleGatedEndpoints(t *testing.T) {
	srv := fakeapi.New()
	defer srv.Close()
	cli, ctrl, _ := newSession(t, srv)
	ctx := context.Background()
	if err := ctrl.SignIn(ctx, fakeapi.MemberEmail, fakeapi.Password); err != nil {
		t.Fatalf("sign in: %v", err)
	}

	if _, err := cli.ListInvoices(ctx, client.DocumentFilter{}); !client.IsForbidden(err) {
		t.Fatalf("expected forbidden invoices, got %v", err)
	}
	if _, err := cli.Dashboard(ctx, client.AnalyticsFilter{}); !client.IsForbidden(err) {
		t.Fatalf("expected forbidden dashboard, got %v", err)
	}
	tasks, err := cli.ListTasks(ctx, client.TaskFilter{Status: client.One(client.TaskDone)})
	if err != nil {
		t.Fatalf("list tasks: %v", err)
	}
	if len(tasks.Items) != 1 || tasks.Items[0].Title != "Wireframes" {
		t.Fatalf("unexpected tasks %+v", tasks.Items)
	}
}

func TestSignUpCreatesAccount(t *testing.T) {
	srv := fakeapi.New()
	defer srv.Close()
	_, ctrl, _ := newSession(t, srv)
	ctx := context.Background()

	input := auth.SignUpInput{Email: "new@oneflow.test", Password: "pw", FullName: "New Person", CompanyName: "Newco"}
	if err := ctrl.SignUp(ctx, input); err != nil {
		t.Fatalf("sign up: %v", err)
	}
	if ctrl.User().Email != "new@oneflow.test" || !ctrl.IsAuthenticated() {
		t.Fatalf("unexpected snapshot %+v", ctrl.Snapshot())
	}
	apiErr := ctrl.SignUp(ctx, input)
	if apiErr == nil || apiErr.StatusCode != http.StatusConflict {
		t.Fatalf("expected conflict, got %+v", apiErr)
	}
	if !ctrl.IsAuthenticated() {
		t.Fatal("failed sign up should keep the existing session")
	}
}

func TestGetMissingProject(t *testing.T) {
	srv := fakeapi.New()
	defer srv.Close()
	cli, ctrl, _ := newSession(t, srv)
	ctx := context.Background()
	if err := ctrl.SignIn(ctx, fakeapi.AdminEmail, fakeapi.Password); err != nil {
		t.Fatalf("sign in: %v", err)
	}
	_, err := cli.GetProject(ctx, "missing")
	apiErr := client.AsAPIError(err)
	if apiErr.StatusCode != http.StatusNotFound || apiErr.Message != "Project not found" {
		t.Fatalf("unexpected error %+v", apiErr)
	}
	p := srv.MustProject("Website revamp")
	got, err := cli.GetProject(ctx, p.UUID)
	if err != nil || got.ID != p.ID {
		t.Fatalf("get project: %+v %v", got, err)
	}
}
