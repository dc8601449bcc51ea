package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"github.com/ayushprajapati1403/OneFlow-sub001/pkg/api/client"
	"github.com/ayushprajapati1403/OneFlow-sub001/pkg/logger"
)

// Storage keys for the two session slots.
const (
	Namespace = "oneflow"
	TokenKey  = Namespace + ".auth.token"
	UserKey   = Namespace + ".auth.user"
)

// Store holds the token and user slots on top of a Backend. Its methods never
// fail: backend errors are logged and reads degrade to absent.
type Store struct {
	backend Backend
	logger  *slog.Logger
}

// NewStore wraps backend. A nil logger discards warnings.
func NewStore(backend Backend, log *slog.Logger) *Store {
	if log == nil {
		log = logger.Discard()
	}
	return &Store{backend: backend, logger: log}
}

// Token returns the stored bearer token.
func (s *Store) Token(ctx context.Context) (string, bool) {
	v, ok := s.get(ctx, TokenKey)
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return v, true
}

// SetToken stores token. An empty token removes the slot.
func (s *Store) SetToken(ctx context.Context, token string) {
	if token == "" {
		s.remove(ctx, TokenKey)
		return
	}
	s.set(ctx, TokenKey, token)
}

// User returns the stored profile. Undecodable data counts as absent.
func (s *Store) User(ctx context.Context) (*client.UserProfile, bool) {
	v, ok := s.get(ctx, UserKey)
	if !ok {
		return nil, false
	}
	var user client.UserProfile
	if err := json.Unmarshal([]byte(v), &user); err != nil {
		s.logger.Warn("discarding unreadable stored user", "key", UserKey, "error", err)
		return nil, false
	}
	return &user, true
}

// SetUser stores user as JSON. A nil user removes the slot.
func (s *Store) SetUser(ctx context.Context, user *client.UserProfile) {
	if user == nil {
		s.remove(ctx, UserKey)
		return
	}
	raw, err := json.Marshal(user)
	if err != nil {
		s.logger.Warn("encode user failed", "error", err)
		return
	}
	s.set(ctx, UserKey, string(raw))
}

// ClearAll removes both slots.
func (s *Store) ClearAll(ctx context.Context) {
	s.remove(ctx, TokenKey)
	s.remove(ctx, UserKey)
}

// BearerToken lets the API client read the token on every request.
func (s *Store) BearerToken(ctx context.Context) string {
	token, _ := s.Token(ctx)
	return token
}

// Close releases the backend.
func (s *Store) Close() error {
	return s.backend.Close()
}

func (s *Store) get(ctx context.Context, key string) (string, bool) {
	v, err := s.backend.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return "", false
	}
	if err != nil {
		s.logger.Warn("session read failed", "key", key, "error", err)
		return "", false
	}
	return v, true
}

func (s *Store) set(ctx context.Context, key, value string) {
	if err := s.backend.Set(ctx, key, value); err != nil {
		s.logger.Warn("session write failed", "key", key, "error", err)
	}
}

func (s *Store) remove(ctx context.Context, key string) {
	if err := s.backend.Delete(ctx, key); err != nil {
		s.logger.Warn("session delete failed", "key", key, "error", err)
	}
}
