package session

import (
	"context"
	"os"
	"testing"

	"github.com/ayushprajapati1403/OneFlow-sub001/pkg/config"
)

// postgresURL returns the database used by the postgres backend tests. They
// are skipped unless ONEFLOW_TEST_DATABASE_URL is set.
func postgresURL(t *testing.T) string {
	t.Helper()
	dsn := os.Getenv("ONEFLOW_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("ONEFLOW_TEST_DATABASE_URL not set")
	}
	return dsn
}

func TestPostgresBackendStoreLaws(t *testing.T) {
	ctx := context.Background()
	backend, err := OpenPostgres(ctx, postgresURL(t), nil)
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	t.Cleanup(func() { _ = backend.Close() })
	_ = backend.Delete(ctx, TokenKey)
	_ = backend.Delete(ctx, UserKey)
	exerciseBackend(t, backend)
}

func TestPostgresMigrationsAreIdempotent(t *testing.T) {
	ctx := context.Background()
	dsn := postgresURL(t)
	for i := 0; i < 2; i++ {
		backend, err := OpenPostgres(ctx, dsn, nil)
		if err != nil {
			t.Fatalf("open #%d: %v", i+1, err)
		}
		_ = backend.Close()
	}
	store, err := Open(ctx, config.SessionConfig{Backend: config.SessionBackendPostgres, DatabaseURL: dsn}, nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()
	store.SetToken(ctx, "pg-token")
	if store.BearerToken(ctx) != "pg-token" {
		t.Fatal("expected token round trip through postgres store")
	}
	store.ClearAll(ctx)
}

func TestOpenPostgresRequiresURL(t *testing.T) {
	if _, err := OpenPostgres(context.Background(), "", nil); err == nil {
		t.Fatal("expected error for empty database url")
	}
	if _, err := Open(context.Background(), config.SessionConfig{Backend: config.SessionBackendPostgres}, nil); err == nil {
		t.Fatal("expected Open to fail without a database url")
	}
}
