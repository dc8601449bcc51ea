package client

import (
	"context"
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsRecordRouteAndStatus(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	cli := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/oneflow/api/v1/Projects/gone" {
			writeJSON(w, http.StatusNotFound, map[string]any{"message": "not found"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"status": 200, "data": map[string]any{"uuid": "p-1"}})
	}, WithMetrics(metrics))

	ctx := context.Background()
	if _, err := cli.GetProject(ctx, "p-1"); err != nil {
		t.Fatalf("get project: %v", err)
	}
	if _, err := cli.GetProject(ctx, "gone"); err == nil {
		t.Fatal("expected not found error")
	}

	if got := testutil.ToFloat64(metrics.requestTotal.WithLabelValues("GET", "/Projects/:uuid", "200")); got != 1 {
		t.Fatalf("expected one 200 request, got %v", got)
	}
	if got := testutil.ToFloat64(metrics.requestTotal.WithLabelValues("GET", "/Projects/:uuid", "404")); got != 1 {
		t.Fatalf("expected one 404 request, got %v", got)
	}
	if n := testutil.CollectAndCount(metrics.requestLatency); n != 2 {
		t.Fatalf("expected two latency series, got %d", n)
	}
}

func TestNewMetricsReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first := NewMetrics(reg)
	second := NewMetrics(reg)
	if first.requestTotal != second.requestTotal || first.requestLatency != second.requestLatency {
		t.Fatal("expected second metrics instance to reuse registered collectors")
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.observe("GET", "/Projects", 200, 0)
}
