package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/wgaamuseum/museum/internal/museum"
	"github.com/wgaamuseum/museum/pkg/catalog"
	"github.com/wgaamuseum/museum/pkg/core"
	"github.com/wgaamuseum/museum/pkg/live"
)

var (
	_ museum.Observer  = (*Metrics)(nil)
	_ live.Observer    = (*Metrics)(nil)
	_ catalog.Observer = (*Metrics)(nil)
)

func TestMetrics_Observers(t *testing.T) {
	m := New(nil)

	m.Matched("/cg/:groupName")
	m.Matched("/cg/:groupName")
	m.NotFound("/nope")
	m.Preloaded(3)
	m.SessionStarted()
	m.SessionStarted()
	m.SessionEnded(core.TerminateNormal)
	m.EventHandled("next", time.Millisecond, nil)
	m.EventHandled("region", time.Millisecond, errors.New("unknown region"))
	m.CollectionFetched("en", "Emoji", time.Second, errors.New("404"))

	if got := testutil.ToFloat64(m.routesMatched.WithLabelValues("/cg/:groupName")); got != 2 {
		t.Errorf("expected 2 matches, got %v", got)
	}
	if got := testutil.ToFloat64(m.routesNotFound); got != 1 {
		t.Errorf("expected 1 not found, got %v", got)
	}
	if got := testutil.ToFloat64(m.imagesPreload); got != 3 {
		t.Errorf("expected 3 preloads, got %v", got)
	}
	if got := testutil.ToFloat64(m.sessionsActive); got != 1 {
		t.Errorf("expected 1 active session, got %v", got)
	}
	if got := testutil.ToFloat64(m.eventsTotal.WithLabelValues("region", "error")); got != 1 {
		t.Errorf("expected 1 failed event, got %v", got)
	}
	if got := testutil.ToFloat64(m.fetchErrors.WithLabelValues("en", "Emoji")); got != 1 {
		t.Errorf("expected 1 fetch error, got %v", got)
	}
}

func TestMetrics_MiddlewareAndHandler(t *testing.T) {
	m := New(nil)
	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })
	r.Handle("/metrics", m.Handler())

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if got := testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("GET", "/healthz", "204")); got != 1 {
		t.Errorf("expected 1 request, got %v", got)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(rec.Body.String(), "museum_http_requests_total") {
		t.Error("expected the scrape output to list museum_http_requests_total")
	}
}
