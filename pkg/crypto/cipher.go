package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"io"

	"golang.org/x/crypto/hkdf"
)

const (
	saltSize = 16
	keySize  = 32
	keyInfo  = "oneflow-session-v1"
)

// ErrMalformed is returned by Open for payloads too short to hold a salt and nonce.
var ErrMalformed = errors.New("malformed sealed payload")

// deriveKey stretches secret into an AES-256 key bound to salt.
func deriveKey(secret string, salt []byte) ([]byte, error) {
	h := hkdf.New(sha256.New, []byte(secret), salt, []byte(keyInfo))
	key := make([]byte, keySize)
	if _, err := io.ReadFull(h, key); err != nil {
		return nil, err
	}
	return key, nil
}

func newGCM(secret string, salt []byte) (cipher.AEAD, error) {
	key, err := deriveKey(secret, salt)
	if err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// Seal encrypts plaintext with AES-GCM. The output is salt || nonce || ciphertext.
func Seal(secret string, plaintext []byte) ([]byte, error) {
	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, err
	}
	gcm, err := newGCM(secret, salt)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	out := make([]byte, 0, saltSize+len(nonce)+len(plaintext)+gcm.Overhead())
	out = append(out, salt...)
	out = append(out, nonce...)
	return gcm.Seal(out, nonce, plaintext, nil), nil
}

// Open reverses Seal. A wrong secret or tampered payload returns an error.
func Open(secret string, payload []byte) ([]byte, error) {
	if len(payload) < saltSize {
		return nil, ErrMalformed
	}
	gcm, err := newGCM(secret, payload[:saltSize])
	if err != nil {
		return nil, err
	}
	rest := payload[saltSize:]
	if len(rest) < gcm.NonceSize() {
		return nil, ErrMalformed
	}
	nonce, ciphertext := rest[:gcm.NonceSize()], rest[gcm.NonceSize():]
	return gcm.Open(nil, nonce, ciphertext, nil)
}
