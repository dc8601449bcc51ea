package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ayushprajapati1403/OneFlow-sub001/pkg/config"
	"github.com/ayushprajapati1403/OneFlow-sub001/pkg/logger"
)

// TokenSource supplies the bearer token attached to authenticated requests.
// An empty token means no Authorization header is sent.
type TokenSource interface {
	BearerToken(ctx context.Context) string
}

// TokenFunc adapts a function to TokenSource.
type TokenFunc func(ctx context.Context) string

// BearerToken implements TokenSource.
func (f TokenFunc) BearerToken(ctx context.Context) string {
	return f(ctx)
}

// Client provides typed access to the OneFlow REST API.
type Client struct {
	endpoint   string
	httpClient *http.Client
	tokens     TokenSource
	logger     *slog.Logger
	metrics    *Metrics
	userAgent  string
}

// Option customises client instantiation.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.httpClient = h
		}
	}
}

// WithTokenSource sets where bearer tokens are read from on every call.
func WithTokenSource(src TokenSource) Option {
	return func(c *Client) {
		c.tokens = src
	}
}

// WithLogger sets the logger used for per-request debug records.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics records request counts and latencies.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = strings.TrimSpace(ua)
	}
}

// New constructs a Client for the base URL and API prefix in cfg.
func New(cfg config.ClientConfig, opts ...Option) (*Client, error) {
	base := config.NormalizeBaseURL(cfg.BaseURL)
	parsed, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", config.ErrInvalidBaseURL, err)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("%w: %q", config.ErrInvalidBaseURL, base)
	}
	cli := &Client{
		endpoint:   base + config.NormalizePrefix(cfg.APIPrefix),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger.Discard(),
		userAgent:  strings.TrimSpace(cfg.UserAgent),
	}
	for _, opt := range opts {
		opt(cli)
	}
	return cli, nil
}

// Endpoint returns the base URL joined with the API prefix.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Request describes a single API call. Path is relative to the API prefix.
type Request struct {
	Method string
	Path   string
	// Route is the templated path used as a metrics label, e.g. /Projects/:uuid.
	// Defaults to Path.
	Route    string
	Body     any
	Query    Query
	Header   http.Header
	SkipAuth bool
}

// Envelope is the success body every OneFlow endpoint returns.
type Envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Pager   json.RawMessage `json:"pager,omitempty"`

	httpStatus int
}

// Pager carries pagination metadata for list endpoints.
type Pager struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// HTTPStatus returns the status code of the response that produced the envelope.
func (e *Envelope) HTTPStatus() int {
	return e.httpStatus
}

// DecodeData unmarshals the data field into v. A missing or null data field
// leaves v untouched.
func (e *Envelope) DecodeData(v any) error {
	if len(e.Data) == 0 || string(e.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(e.Data, v); err != nil {
		return &APIError{StatusCode: e.httpStatus, Message: invalidPayloadMessage, Payload: string(e.Data), Err: err}
	}
	return nil
}

// DecodePager returns the pager, or nil when the response had none.
func (e *Envelope) DecodePager() (*Pager, error) {
	if len(e.Pager) == 0 || string(e.Pager) == "null" {
		return nil, nil
	}
	var p Pager
	if err := json.Unmarshal(e.Pager, &p); err != nil {
		return nil, &APIError{StatusCode: e.httpStatus, Message: invalidPayloadMessage, Payload: string(e.Pager), Err: err}
	}
	return &p, nil
}

// Do performs exactly one round trip for req. Every failure is returned as *APIError.
func (c *Client) Do(ctx context.Context, req Request) (*Envelope, error) {
	if c == nil {
		return nil, requestFailed(fmt.Errorf("client is nil"))
	}
	if ctx == nil {
		ctx = context.Background()
	}
	method := strings.ToUpper(strings.TrimSpace(req.Method))
	if method == "" {
		method = http.MethodGet
	}
	route := req.Route
	if route == "" {
		route = req.Path
	}

	var reader io.Reader
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return nil, requestFailed(fmt.Errorf("encode request body: %w", err))
		}
		reader = bytes.NewReader(payload)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, c.buildURL(req.Path, req.Query), reader)
	if err != nil {
		return nil, requestFailed(fmt.Errorf("create request: %w", err))
	}
	for key, values := range req.Header {
		for _, value := range values {
			httpReq.Header.Add(key, value)
		}
	}
	if req.Body != nil && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if httpReq.Header.Get("Accept") == "" {
		httpReq.Header.Set("Accept", "application/json")
	}
	if httpReq.Header.Get("X-Request-ID") == "" {
		httpReq.Header.Set("X-Request-ID", uuid.NewString())
	}
	if c.userAgent != "" && httpReq.Header.Get("User-Agent") == "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}
	if !req.SkipAuth && c.tokens != nil && httpReq.Header.Get("Authorization") == "" {
		if token := strings.TrimSpace(c.tokens.BearerToken(ctx)); token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}

	started := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.record(method, route, 0, time.Since(started), httpReq)
		return nil, requestFailed(err)
	}
	defer resp.Body.Close()

	parsed, raw, isObject, err := readPayload(resp)
	c.record(method, route, resp.StatusCode, time.Since(started), httpReq)
	if err != nil {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: fallbackMessage, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: errorMessage(resp.StatusCode, parsed), Payload: parsed}
	}
	if !isObject {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: invalidPayloadMessage, Payload: parsed}
	}
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: invalidPayloadMessage, Payload: parsed, Err: err}
	}
	env.httpStatus = resp.StatusCode
	return &env, nil
}

func (c *Client) buildURL(path string, query Query) string {
	path = strings.TrimSpace(path)
	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	endpoint := c.endpoint + path
	if encoded := query.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}
	return endpoint
}

func (c *Client) record(method, route string, status int, elapsed time.Duration, req *http.Request) {
	c.metrics.observe(method, route, status, elapsed)
	c.logger.Debug("api request",
		"method", method,
		"route", route,
		"status", status,
		"duration", elapsed,
		"request_id", req.Header.Get("X-Request-ID"),
	)
}

// readPayload parses a JSON body into a generic value, or wraps a non-empty
// text body as {statusCode, message}. isObject is true only for JSON objects.
func readPayload(resp *http.Response) (parsed any, raw []byte, isObject bool, err error) {
	raw, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, false, err
	}
	if strings.Contains(strings.ToLower(resp.Header.Get("Content-Type")), "json") {
		if len(bytes.TrimSpace(raw)) == 0 {
			return nil, raw, false, nil
		}
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return string(raw), raw, false, nil
		}
		_, isObject = v.(map[string]any)
		return v, raw, isObject, nil
	}
	text := strings.TrimSpace(string(raw))
	if text == "" {
		return nil, raw, false, nil
	}
	return map[string]any{"statusCode": resp.StatusCode, "message": text}, raw, false, nil
}

func errorMessage(status int, parsed any) string {
	if obj, ok := parsed.(map[string]any); ok {
		if msg, ok := obj["message"].(string); ok && strings.TrimSpace(msg) != "" {
			return strings.TrimSpace(msg)
		}
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	return fallbackMessage
}

// call performs req and decodes the data field into T.
func call[T any](ctx context.Context, c *Client, req Request) (T, error) {
	var out T
	env, err := c.Do(ctx, req)
	if err != nil {
		return out, err
	}
	if err := env.DecodeData(&out); err != nil {
		return out, err
	}
	return out, nil
}

// Page is one page of a list endpoint.
type Page[T any] struct {
	Items []T
	Pager *Pager
}

func list[T any](ctx context.Context, c *Client, req Request) (Page[T], error) {
	env, err := c.Do(ctx, req)
	if err != nil {
		return Page[T]{}, err
	}
	var items []T
	if err := env.DecodeData(&items); err != nil {
		return Page[T]{}, err
	}
	pager, err := env.DecodePager()
	if err != nil {
		return Page[T]{}, err
	}
	return Page[T]{Items: items, Pager: pager}, nil
}

func send(ctx context.Context, c *Client, req Request) error {
	_, err := c.Do(ctx, req)
	return err
}
