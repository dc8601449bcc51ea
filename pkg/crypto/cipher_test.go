package crypto

import (
	"bytes"
	"errors"
	"testing"
)

func TestSealOpenRoundTrip(t *testing.T) {
	plain := []byte(`{"oneflow.auth.token":"abc123"}`)
	sealed, err := Seal("passphrase", plain)
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	if bytes.Contains(sealed, []byte("abc123")) {
		t.Fatal("sealed payload leaks plaintext")
	}
	opened, err := Open("passphrase", sealed)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if !bytes.Equal(opened, plain) {
		t.Fatalf("unexpected plaintext %q", opened)
	}
}

func TestSealUsesFreshSalt(t *testing.T) {
	a, err := Seal("k", []byte("same"))
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	b, err := Seal("k", []byte("same"))
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	if bytes.Equal(a, b) {
		t.Fatal("expected distinct ciphertexts")
	}
}

func TestOpenRejectsWrongSecret(t *testing.T) {
	sealed, err := Seal("right", []byte("data"))
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	if _, err := Open("wrong", sealed); err == nil {
		t.Fatal("expected error for wrong secret")
	}
}

func TestOpenRejectsShortPayload(t *testing.T) {
	if _, err := Open("k", []byte("short")); !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
	if _, err := Open("k", make([]byte, saltSize+4)); !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
}
