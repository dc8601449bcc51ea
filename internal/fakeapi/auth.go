package fakeapi

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/ayushprajapati1403/OneFlow-sub001/pkg/api/client"
	"github.com/ayushprajapati1403/OneFlow-sub001/pkg/jwt"
)

type authContextKey string

const contextKeyUser authContextKey = "oneflow-user"

// requireAuth ensures the request has a valid bearer token before invoking the handler.
// With roles, the caller must hold one of them.
func (s *Server) requireAuth(next http.HandlerFunc, roles ...client.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		token, err := bearerToken(req.Header.Get("Authorization"))
		if err != nil {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		user, err := s.authorize(token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}
		if len(roles) > 0 && !slices.Contains(roles, user.Role) {
			writeError(w, http.StatusForbidden, "Insufficient permissions")
			return
		}
		ctx := context.WithValue(req.Context(), contextKeyUser, user)
		next(w, req.WithContext(ctx))
	}
}

func (s *Server) authorize(token string) (client.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.revoked[token] {
		return client.UserProfile{}, errors.New("token expired")
	}
	claims, err := jwt.Parse(token, s.secret)
	if err != nil {
		return client.UserProfile{}, errors.New("invalid token")
	}
	for _, acc := range s.accounts {
		if acc.profile.ID == claims.UserID {
			return acc.profile, nil
		}
	}
	return client.UserProfile{}, errors.New("user no longer exists")
}

func userFromContext(ctx context.Context) client.UserProfile {
	user, _ := ctx.Value(contextKeyUser).(client.UserProfile)
	return user
}

func bearerToken(header string) (string, error) {
	if strings.TrimSpace(header) == "" {
		return "", errors.New("missing authorization header")
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("invalid authorization header format")
	}
	return parts[1], nil
}
