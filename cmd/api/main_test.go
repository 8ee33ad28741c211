package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/wolfman30/leadflow/pkg/logging"
)

func TestSetupMetricsExposesMetrics(t *testing.T) {
	handler, confirmations, submissions := setupMetrics()
	if handler == nil || confirmations == nil || submissions == nil {
		t.Fatalf("expected non-nil handler and metrics")
	}

	confirmations.ObserveContent("fallback")
	submissions.ObserveSubmission("accepted")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	body := rr.Body.String()
	for _, name := range []string{"leadflow_confirmation_content_total", "leadflow_leads_submissions_total", "go_goroutines"} {
		if !strings.Contains(body, name) {
			t.Fatalf("expected %s to be exported", name)
		}
	}
}

func TestConnectPostgresPoolEmptyURLReturnsNil(t *testing.T) {
	logger := logging.New("error")
	if pool := connectPostgresPool(context.Background(), "", logger); pool != nil {
		t.Fatalf("expected nil pool for empty URL")
	}
}

func TestConnectPostgresPoolBadURLReturnsNil(t *testing.T) {
	if pool := connectPostgresPool(context.Background(), "://not-a-url", logging.Discard()); pool != nil {
		t.Fatalf("expected nil pool for malformed URL")
	}
}

func TestHealthChecks(t *testing.T) {
	if checks := healthChecks(nil, nil); len(checks) != 0 {
		t.Fatalf("expected no checks, got %d", len(checks))
	}

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	checks := healthChecks(nil, client)
	if len(checks) != 1 || checks[0].Name != "redis" {
		t.Fatalf("unexpected checks %+v", checks)
	}
	if err := checks[0].Check(context.Background()); err != nil {
		t.Fatalf("redis check failed: %v", err)
	}
}
