package session

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestFileBackendStoreLaws(t *testing.T) {
	backend, err := NewFileBackend(filepath.Join(t.TempDir(), "nested", "session.json"), "")
	if err != nil {
		t.Fatalf("new file backend: %v", err)
	}
	exerciseBackend(t, backend)
}

func TestFileBackendPersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")
	first, _ := NewFileBackend(path, "")
	NewStore(first, nil).SetToken(ctx, "abc123")

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("expected 0600, got %o", perm)
	}

	second, _ := NewFileBackend(path, "")
	if token, ok := NewStore(second, nil).Token(ctx); !ok || token != "abc123" {
		t.Fatalf("expected persisted token, got %q %v", token, ok)
	}
}

func TestFileBackendEncrypted(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")
	backend, _ := NewFileBackend(path, "s3cret")
	exerciseBackend(t, backend)

	NewStore(backend, nil).SetToken(ctx, "abc123")
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if bytes.Contains(raw, []byte("abc123")) || bytes.Contains(raw, []byte(TokenKey)) {
		t.Fatal("encrypted session file leaks plaintext")
	}

	wrongKey, _ := NewFileBackend(path, "other")
	store := NewStore(wrongKey, nil)
	if _, ok := store.Token(ctx); ok {
		t.Fatal("expected token to be unreadable with the wrong key")
	}
	store.SetToken(ctx, "fresh")
	if token, _ := store.Token(ctx); token != "fresh" {
		t.Fatalf("expected unreadable file to be replaced, got %q", token)
	}
}

func TestFileBackendCorruptFileIsEmpty(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("garbage"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	backend, _ := NewFileBackend(path, "")
	if _, err := backend.Get(ctx, TokenKey); err == nil || err == ErrNotFound {
		t.Fatalf("expected decode error, got %v", err)
	}
	if _, ok := NewStore(backend, nil).Token(ctx); ok {
		t.Fatal("expected corrupt file to read as absent")
	}
}
