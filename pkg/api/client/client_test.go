package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/ayushprajapati1403/OneFlow-sub001/pkg/config"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	cli, err := New(config.ClientConfig{BaseURL: srv.URL + "/", APIPrefix: "oneflow/api/v1/"}, opts...)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return cli
}

func staticToken(token string) TokenSource {
	return TokenFunc(func(context.Context) string { return token })
}

func TestNewRejectsInvalidBaseURL(t *testing.T) {
	if _, err := New(config.ClientConfig{BaseURL: "http://%zz"}); !errors.Is(err, config.ErrInvalidBaseURL) {
		t.Fatalf("expected ErrInvalidBaseURL, got %v", err)
	}
}

func TestNewUsesDefaultsForEmptyConfig(t *testing.T) {
	cli, err := New(config.ClientConfig{APIPrefix: config.DefaultAPIPrefix})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if cli.Endpoint() != "http://localhost:3000/oneflow/api/v1" {
		t.Fatalf("unexpected endpoint: %s", cli.Endpoint())
	}
}

func TestDoBuildsURLFromPrefixPathAndQuery(t *testing.T) {
	var gotPath, gotQuery string
	cli := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		writeJSON(w, http.StatusOK, map[string]any{"status": 200, "message": "ok", "data": nil})
	})

	var missing *string
	query := Query{}.
		Set("status", []string{"active", "planned"}).
		Set("priority", []string{}).
		Set("owner", nil).
		Set("assignee", missing).
		Set("archived", false).
		Set("limit", 6)
	if _, err := cli.Do(context.Background(), Request{Path: "Projects", Query: query}); err != nil {
		t.Fatalf("do: %v", err)
	}
	if gotPath != "/oneflow/api/v1/Projects" {
		t.Fatalf("unexpected path %s", gotPath)
	}
	if gotQuery != "status=active%2Cplanned&archived=false&limit=6" {
		t.Fatalf("unexpected query %q", gotQuery)
	}
}

func TestDoEncodesBodyAsJSON(t *testing.T) {
	cli := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Fatalf("unexpected content type %q", ct)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["name"] != "Website revamp" {
			t.Fatalf("unexpected body %v", body)
		}
		writeJSON(w, http.StatusCreated, map[string]any{"status": 201, "message": "created", "data": map[string]any{"uuid": "p1"}})
	})

	env, err := cli.Do(context.Background(), Request{Method: "post", Path: "/Projects", Body: map[string]string{"name": "Website revamp"}})
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	if env.Status != 201 || env.HTTPStatus() != http.StatusCreated {
		t.Fatalf("unexpected envelope status %d/%d", env.Status, env.HTTPStatus())
	}
}

func TestDoKeepsExplicitContentType(t *testing.T) {
	cli := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/merge-patch+json" {
			t.Fatalf("unexpected content type %q", ct)
		}
		writeJSON(w, http.StatusOK, map[string]any{"status": 200})
	})
	header := http.Header{}
	header.Set("Content-Type", "application/merge-patch+json")
	if _, err := cli.Do(context.Background(), Request{Method: http.MethodPatch, Path: "/Tasks/t1", Body: map[string]string{"status": "done"}, Header: header}); err != nil {
		t.Fatalf("do: %v", err)
	}
}

func TestDoOmitsContentTypeWithoutBody(t *testing.T) {
	cli := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "" {
			t.Fatalf("expected no content type, got %q", ct)
		}
		writeJSON(w, http.StatusOK, map[string]any{"status": 200})
	})
	if _, err := cli.Do(context.Background(), Request{Path: "/Auth/me"}); err != nil {
		t.Fatalf("do: %v", err)
	}
}

func TestDoAttachesBearerToken(t *testing.T) {
	cli := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer abc123" {
			t.Fatalf("unexpected authorization %q", got)
		}
		if _, err := uuid.Parse(r.Header.Get("X-Request-ID")); err != nil {
			t.Fatalf("expected uuid request id, got %q", r.Header.Get("X-Request-ID"))
		}
		writeJSON(w, http.StatusOK, map[string]any{"status": 200})
	}, WithTokenSource(staticToken(" abc123 ")))
	if _, err := cli.Do(context.Background(), Request{Path: "/Auth/me"}); err != nil {
		t.Fatalf("do: %v", err)
	}
}

func TestDoSkipAuthAndEmptyToken(t *testing.T) {
	var seen []string
	cli := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, map[string]any{"status": 200})
	}, WithTokenSource(staticToken("abc123")))

	if _, err := cli.Do(context.Background(), Request{Method: http.MethodPost, Path: "/Auth/login", SkipAuth: true}); err != nil {
		t.Fatalf("do: %v", err)
	}
	anon := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, map[string]any{"status": 200})
	}, WithTokenSource(staticToken("")))
	if _, err := anon.Do(context.Background(), Request{Path: "/Projects"}); err != nil {
		t.Fatalf("do: %v", err)
	}
	for i, h := range seen {
		if h != "" {
			t.Fatalf("request %d: expected no authorization header, got %q", i, h)
		}
	}
}

func TestDoKeepsExplicitAuthorization(t *testing.T) {
	cli := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer override" {
			t.Fatalf("unexpected authorization %q", got)
		}
		writeJSON(w, http.StatusOK, map[string]any{"status": 200})
	}, WithTokenSource(staticToken("stored")))
	header := http.Header{}
	header.Set("Authorization", "Bearer override")
	if _, err := cli.Do(context.Background(), Request{Path: "/Auth/me", Header: header}); err != nil {
		t.Fatalf("do: %v", err)
	}
}

func TestDoReturnsEnvelopeWithPager(t *testing.T) {
	cli := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":  200,
			"message": "fetched",
			"data":    []map[string]any{{"uuid": "a"}, {"uuid": "b"}},
			"pager":   map[string]any{"page": 2, "limit": 2, "total": 9, "total_pages": 5},
		})
	})
	env, err := cli.Do(context.Background(), Request{Path: "/Projects"})
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	if env.Message != "fetched" {
		t.Fatalf("unexpected message %q", env.Message)
	}
	var items []struct {
		UUID string `json:"uuid"`
	}
	if err := env.DecodeData(&items); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if len(items) != 2 || items[1].UUID != "b" {
		t.Fatalf("unexpected items %+v", items)
	}
	pager, err := env.DecodePager()
	if err != nil {
		t.Fatalf("decode pager: %v", err)
	}
	if pager == nil || pager.Page != 2 || pager.TotalPages != 5 {
		t.Fatalf("unexpected pager %+v", pager)
	}
}

func TestDoErrorUsesBodyMessage(t *testing.T) {
	cli := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"status": 422, "message": "name is required"})
	})
	_, err := cli.Do(context.Background(), Request{Method: http.MethodPost, Path: "/Projects", Body: map[string]string{}})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusUnprocessableEntity || apiErr.Message != "name is required" {
		t.Fatalf("unexpected error %+v", apiErr)
	}
	if !apiErr.IsClientError() || apiErr.IsServerError() {
		t.Fatalf("unexpected classification for %d", apiErr.StatusCode)
	}
	payload, ok := apiErr.Payload.(map[string]any)
	if !ok || payload["message"] != "name is required" {
		t.Fatalf("unexpected payload %#v", apiErr.Payload)
	}
}

func TestDoErrorFallsBackToStatusText(t *testing.T) {
	cli := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"message": "   "})
	})
	_, err := cli.Do(context.Background(), Request{Path: "/Analytics/dashboard"})
	apiErr := AsAPIError(err)
	if apiErr.StatusCode != http.StatusInternalServerError || apiErr.Message != "Internal Server Error" {
		t.Fatalf("unexpected error %+v", apiErr)
	}
	if !apiErr.IsServerError() {
		t.Fatal("expected server error classification")
	}
}

func TestDoErrorFallsBackToGenericMessage(t *testing.T) {
	cli := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(599)
	})
	_, err := cli.Do(context.Background(), Request{Path: "/Projects"})
	apiErr := AsAPIError(err)
	if apiErr.StatusCode != 599 || apiErr.Message != "Request failed" {
		t.Fatalf("unexpected error %+v", apiErr)
	}
	if apiErr.Payload != nil {
		t.Fatalf("expected no payload, got %#v", apiErr.Payload)
	}
}

func TestDoErrorWrapsTextBody(t *testing.T) {
	cli := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
	})
	_, err := cli.Do(context.Background(), Request{Path: "/Projects"})
	apiErr := AsAPIError(err)
	if apiErr.StatusCode != http.StatusBadGateway || apiErr.Message != "upstream unavailable" {
		t.Fatalf("unexpected error %+v", apiErr)
	}
	payload, ok := apiErr.Payload.(map[string]any)
	if !ok || payload["statusCode"] != http.StatusBadGateway {
		t.Fatalf("unexpected payload %#v", apiErr.Payload)
	}
}

func TestDoForbiddenIsClassified(t *testing.T) {
	cli := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusForbidden, map[string]any{"message": "finance role required"})
	})
	_, err := cli.Do(context.Background(), Request{Path: "/Invoices"})
	if !IsForbidden(err) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestDoPlainTextSuccessIsInvalidPayload(t *testing.T) {
	cli := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = io.WriteString(w, "OK")
	})
	_, err := cli.Do(context.Background(), Request{Path: "/Projects"})
	apiErr := AsAPIError(err)
	if apiErr.StatusCode != http.StatusOK || apiErr.Message != "Invalid response payload" {
		t.Fatalf("unexpected error %+v", apiErr)
	}
}

func TestDoNonObjectJSONIsInvalidPayload(t *testing.T) {
	bodies := []string{`[1,2,3]`, `null`, `"done"`, ``, `{"status":`}
	for _, body := range bodies {
		body := body
		t.Run(body, func(t *testing.T) {
			cli := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json; charset=utf-8")
				_, _ = io.WriteString(w, body)
			})
			_, err := cli.Do(context.Background(), Request{Path: "/Projects"})
			apiErr := AsAPIError(err)
			if apiErr == nil || apiErr.StatusCode != http.StatusOK || apiErr.Message != "Invalid response payload" {
				t.Fatalf("unexpected error %+v", apiErr)
			}
		})
	}
}

func TestDoNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := srv.URL
	srv.Close()

	cli, err := New(config.ClientConfig{BaseURL: base, APIPrefix: config.DefaultAPIPrefix})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	_, err = cli.Do(context.Background(), Request{Path: "/Projects"})
	apiErr := AsAPIError(err)
	if !apiErr.IsNetworkError() {
		t.Fatalf("expected network error, got %+v", apiErr)
	}
	if !strings.HasPrefix(apiErr.Message, "Request failed") {
		t.Fatalf("unexpected message %q", apiErr.Message)
	}
}

func TestDoHonoursContextCancellation(t *testing.T) {
	cli := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": 200})
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := cli.Do(ctx, Request{Path: "/Projects"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestAsAPIErrorWrapsForeignErrors(t *testing.T) {
	if AsAPIError(nil) != nil {
		t.Fatal("expected nil for nil error")
	}
	cause := errors.New("boom")
	apiErr := AsAPIError(cause)
	if apiErr.StatusCode != http.StatusInternalServerError || apiErr.Message != "boom" {
		t.Fatalf("unexpected wrap %+v", apiErr)
	}
	if !errors.Is(apiErr, cause) {
		t.Fatal("expected wrapped cause to be preserved")
	}
	original := &APIError{StatusCode: 401, Message: "expired"}
	if AsAPIError(original) != original {
		t.Fatal("expected APIError to pass through unchanged")
	}
}
