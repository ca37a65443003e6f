package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q): expected %v, got %v", in, want, got)
		}
	}
}

func TestNew_JSONAndLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "warn", "json")

	l.Info("hidden")
	l.With(String("component", "router")).Warn("shown", Int("n", 2))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d: %q", len(lines), buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("expected JSON output: %v", err)
	}
	if entry["msg"] != "shown" || entry["component"] != "router" || entry["n"] != float64(2) {
		t.Errorf("unexpected entry: %v", entry)
	}
}

func TestL_FallsBackToDefault(t *testing.T) {
	if L(context.Background()) != DefaultLogger {
		t.Error("expected DefaultLogger without a context logger")
	}
	ctx := ContextWithLogger(context.Background(), NopLogger{})
	if _, ok := L(ctx).(NopLogger); !ok {
		t.Error("expected the context logger")
	}
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "info", "text")

	var fromCtx Logger
	h := middleware.RequestID(RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fromCtx = LoggerFromContext(r.Context())
		w.WriteHeader(http.StatusTeapot)
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if fromCtx == nil {
		t.Fatal("expected a request logger in the context")
	}
	out := buf.String()
	for _, want := range []string{"request completed", "status=418", "path=/healthz", "request_id="} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in %q", want, out)
		}
	}
}
