// Package auth owns the signed-in session: it hydrates it from durable
// storage, validates it against the API and moves it through sign-in,
// sign-up, refresh and sign-out.
package auth

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/ayushprajapati1403/OneFlow-sub001/pkg/api/client"
	"github.com/ayushprajapati1403/OneFlow-sub001/pkg/logger"
)

// State is the lifecycle position of the session.
type State int

// Lifecycle states. A controller starts in Bootstrapping.
const (
	Bootstrapping State = iota
	Unauthenticated
	Authenticated
	Authenticating
)

func (s State) String() string {
	switch s {
	case Bootstrapping:
		return "bootstrapping"
	case Unauthenticated:
		return "unauthenticated"
	case Authenticated:
		return "authenticated"
	case Authenticating:
		return "authenticating"
	}
	return "unknown"
}

// API is the subset of the OneFlow client the controller calls.
type API interface {
	Login(ctx context.Context, email, password string) (client.AuthResult, error)
	Signup(ctx context.Context, input client.SignupInput) (client.AuthResult, error)
	CurrentUser(ctx context.Context) (client.UserProfile, error)
}

// SessionStore persists the token and user between runs.
type SessionStore interface {
	Token(ctx context.Context) (string, bool)
	SetToken(ctx context.Context, token string)
	User(ctx context.Context) (*client.UserProfile, bool)
	SetUser(ctx context.Context, user *client.UserProfile)
	ClearAll(ctx context.Context)
}

// SignUpInput is the registration form.
type SignUpInput struct {
	Email       string
	Password    string
	FullName    string
	CompanyName string
}

// Snapshot is a consistent copy of the controller state.
type Snapshot struct {
	State   State
	Token   string
	User    *client.UserProfile
	Loading bool
}

// Controller is the single owner of the session. It is safe for concurrent
// use. API calls run without the lock held while store writes run under it.
// Concurrent sign-ins are last-write-wins.
type Controller struct {
	api    API
	store  SessionStore
	logger *slog.Logger

	mu      sync.Mutex
	state   State
	settled State
	token   string
	user    *client.UserProfile
	loading bool

	listeners map[int]func(Snapshot)
	nextID    int

	bootstrapOnce sync.Once
}

// New seeds the controller from store. Without a stored token the session
// is immediately Unauthenticated; otherwise it stays Bootstrapping until
// Bootstrap validates the token.
func New(ctx context.Context, api API, store SessionStore, log *slog.Logger) *Controller {
	if log == nil {
		log = logger.Discard()
	}
	c := &Controller{
		api:       api,
		store:     store,
		logger:    log,
		state:     Bootstrapping,
		settled:   Unauthenticated,
		listeners: make(map[int]func(Snapshot)),
	}
	if token, ok := store.Token(ctx); ok {
		c.token = token
		c.loading = true
		if user, ok := store.User(ctx); ok {
			c.user = user
		}
	} else {
		c.state = Unauthenticated
	}
	return c
}

// Bootstrap validates a stored token by fetching the profile. It runs at
// most once; later calls return immediately. Any failure clears the session.
func (c *Controller) Bootstrap(ctx context.Context) {
	c.bootstrapOnce.Do(func() {
		c.mu.Lock()
		token := c.token
		c.mu.Unlock()
		if token == "" {
			c.transition(func() {
				c.state = Unauthenticated
				c.loading = false
			})
			return
		}
		c.validate(ctx, token, "bootstrap")
	})
}

// Refresh re-fetches the profile for the current token. Without a token it
// does nothing. A failed fetch of any kind, including a network error, clears
// the session the same way a failed Bootstrap does.
func (c *Controller) Refresh(ctx context.Context) *client.APIError {
	c.mu.Lock()
	token := c.token
	c.mu.Unlock()
	if token == "" {
		return nil
	}
	return c.validate(ctx, token, "refresh")
}

// validate fetches the profile for token. The result is dropped if the token
// was replaced while the request was in flight; the check and the store
// write happen under the same lock.
func (c *Controller) validate(ctx context.Context, token, op string) *client.APIError {
	profile, err := c.api.CurrentUser(ctx)

	if err != nil {
		apiErr := client.AsAPIError(err)
		cleared := c.commit(func() bool {
			if c.token != token {
				return false
			}
			c.store.ClearAll(ctx)
			c.token = ""
			c.user = nil
			c.state = Unauthenticated
			c.loading = false
			return true
		})
		if !cleared {
			c.logger.Debug("discarding stale profile fetch", "op", op)
			return nil
		}
		c.logger.Warn("session validation failed; signing out", "op", op, "status", apiErr.StatusCode, "error", apiErr.Message)
		return apiErr
	}

	updated := c.commit(func() bool {
		if c.token != token {
			return false
		}
		c.store.SetUser(ctx, &profile)
		c.user = &profile
		c.state = Authenticated
		c.loading = false
		return true
	})
	if !updated {
		c.logger.Debug("discarding stale profile fetch", "op", op)
	}
	return nil
}

// SignIn exchanges credentials for a session. On failure the existing token
// and user are kept and the previous state is restored.
func (c *Controller) SignIn(ctx context.Context, email, password string) *client.APIError {
	return c.authenticate(ctx, "sign in", func(ctx context.Context) (client.AuthResult, error) {
		return c.api.Login(ctx, strings.TrimSpace(email), password)
	})
}

// SignUp registers an account and signs it in. Failure handling matches SignIn.
func (c *Controller) SignUp(ctx context.Context, input SignUpInput) *client.APIError {
	return c.authenticate(ctx, "sign up", func(ctx context.Context) (client.AuthResult, error) {
		return c.api.Signup(ctx, client.SignupInput{
			Email:       strings.TrimSpace(input.Email),
			Password:    input.Password,
			FullName:    strings.TrimSpace(input.FullName),
			CompanyName: strings.TrimSpace(input.CompanyName),
		})
	})
}

func (c *Controller) authenticate(ctx context.Context, op string, call func(context.Context) (client.AuthResult, error)) *client.APIError {
	c.transition(func() {
		c.state = Authenticating
		c.loading = true
	})

	result, err := call(ctx)
	if err != nil {
		apiErr := client.AsAPIError(err)
		c.logger.Info(op+" failed", "status", apiErr.StatusCode, "error", apiErr.Message)
		c.transition(func() {
			c.state = c.restingStateLocked()
			c.loading = false
		})
		return apiErr
	}

	user := result.User
	c.transition(func() {
		c.store.SetToken(ctx, result.Token)
		c.store.SetUser(ctx, &user)
		c.token = result.Token
		c.user = &user
		c.state = Authenticated
		c.loading = false
	})
	return nil
}

// restingStateLocked derives the state a failed sign-in falls back to from the
// session as it is now, not as it was when the sign-in started: a concurrent
// Refresh or Bootstrap may have cleared or validated it meanwhile. Only a
// validated token with a profile counts as Authenticated.
func (c *Controller) restingStateLocked() State {
	if c.token != "" && c.user != nil && c.settled == Authenticated {
		return Authenticated
	}
	return Unauthenticated
}

// SignOut clears the session in memory and storage. Calling it again is harmless.
func (c *Controller) SignOut(ctx context.Context) {
	c.transition(func() {
		c.store.ClearAll(ctx)
		c.token = ""
		c.user = nil
		c.state = Unauthenticated
		c.loading = false
	})
}

// Subscribe registers fn to receive a snapshot after every state change.
// The returned func removes the subscription.
func (c *Controller) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	c.mu.Unlock()
	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.listeners, id)
			c.mu.Unlock()
		})
	}
}

// transition applies mutate under the lock, then notifies subscribers.
// Session store writes belong inside mutate so memory and storage change
// together.
func (c *Controller) transition(mutate func()) {
	c.commit(func() bool {
		mutate()
		return true
	})
}

// commit is transition with a guard: when mutate reports false nothing is
// published.
func (c *Controller) commit(mutate func() bool) bool {
	c.mu.Lock()
	from := c.state
	if !mutate() {
		c.mu.Unlock()
		return false
	}
	if c.state != Bootstrapping && c.state != Authenticating {
		c.settled = c.state
	}
	snap := c.snapshotLocked()
	fns := make([]func(Snapshot), 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	if from != snap.State {
		c.logger.Info("auth state changed", "from", from.String(), "to", snap.State.String())
	}
	for _, fn := range fns {
		fn(snap)
	}
	return true
}

func (c *Controller) snapshotLocked() Snapshot {
	snap := Snapshot{State: c.state, Token: c.token, Loading: c.loading}
	if c.user != nil {
		u := *c.user
		snap.User = &u
	}
	return snap
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) State() State              { return c.Snapshot().State }
func (c *Controller) Token() string             { return c.Snapshot().Token }
func (c *Controller) User() *client.UserProfile { return c.Snapshot().User }
func (c *Controller) Loading() bool             { return c.Snapshot().Loading }
func (c *Controller) IsAuthenticated() bool     { return c.State() == Authenticated }
