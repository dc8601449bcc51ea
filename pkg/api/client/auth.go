package client

import (
	"context"
	"net/http"
	"time"
)

// Role is the access level assigned to a OneFlow user.
type Role string

const (
	RoleAdmin          Role = "admin"
	RoleProjectManager Role = "project_manager"
	RoleTeamMember     Role = "team_member"
	RoleFinance        Role = "finance"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleProjectManager, RoleTeamMember, RoleFinance:
		return true
	}
	return false
}

// UserProfile is the identity record returned by the backend.
type UserProfile struct {
	ID          int64     `json:"id"`
	UUID        string    `json:"uuid"`
	FullName    string    `json:"full_name"`
	Email       string    `json:"email"`
	Role        Role      `json:"role"`
	HourlyRate  float64   `json:"hourly_rate"`
	CompanyName string    `json:"company_name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// AuthResult is the data payload of the login and signup endpoints.
type AuthResult struct {
	Token string      `json:"token"`
	User  UserProfile `json:"user"`
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges credentials for a bearer token and profile.
func (c *Client) Login(ctx context.Context, email, password string) (AuthResult, error) {
	return call[AuthResult](ctx, c, Request{
		Method:   http.MethodPost,
		Path:     "/Auth/login",
		Body:     credentials{Email: email, Password: password},
		SkipAuth: true,
	})
}

// SignupInput captures the payload for account registration.
type SignupInput struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	FullName    string `json:"full_name"`
	CompanyName string `json:"company_name"`
}

// Signup registers a new account and returns its bearer token and profile.
func (c *Client) Signup(ctx context.Context, input SignupInput) (AuthResult, error) {
	return call[AuthResult](ctx, c, Request{
		Method:   http.MethodPost,
		Path:     "/Auth/signup",
		Body:     input,
		SkipAuth: true,
	})
}

// CurrentUser fetches the profile for the bearer token in use.
func (c *Client) CurrentUser(ctx context.Context) (UserProfile, error) {
	return call[UserProfile](ctx, c, Request{Method: http.MethodGet, Path: "/Auth/me"})
}
